package mpris

import (
	"fmt"
	"path"
	"strings"

	"github.com/genricoloni/remotectl/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	busPrefix       = "org.mpris.MediaPlayer2."
	objectPath      = "/org/mpris/MediaPlayer2"
	playerInterface = "org.mpris.MediaPlayer2.Player"

	propMetadata       = "Metadata"
	propPlaybackStatus = "PlaybackStatus"
	propShuffle        = "Shuffle"
	propLoopStatus     = "LoopStatus"

	loopNone     = "None"
	loopTrack    = "Track"
	loopPlaylist = "Playlist"
)

// statusProps are the player properties a Status snapshot is built from
var statusProps = []string{propMetadata, propPlaybackStatus, propShuffle, propLoopStatus}

var videoExtensions = map[string]bool{
	"mkv": true, "mp4": true, "m4v": true, "vob": true, "3gp": true, "avi": true, "wmv": true,
	"flv": true, "ogv": true, "mp4v": true, "ts": true, "m2ts": true, "mpeg4": true, "mjpg": true,
	"mpg": true, "mpeg": true, "mov": true, "xvid": true, "webm": true, "divx": true,
}

// isVideoName classifies a track by its file extension.
func isVideoName(name string) bool {
	ext := strings.TrimPrefix(path.Ext(name), ".")
	return videoExtensions[strings.ToLower(ext)]
}

func qualified(prop string) string {
	return playerInterface + "." + prop
}

// parseStatus converts MPRIS player properties to a domain snapshot.
// Missing or mistyped properties keep their zero value.
func (m *Monitor) parseStatus(props map[string]dbus.Variant, player string) domain.Status {
	status := domain.Status{
		State:  domain.StatusStopped,
		Player: player,
	}

	if v, ok := props[propPlaybackStatus]; ok {
		if s, ok := v.Value().(string); ok {
			switch s {
			case "Playing":
				status.State = domain.StatusPlaying
			case "Paused":
				status.State = domain.StatusPaused
			}
		}
	}

	if v, ok := props[propShuffle]; ok {
		status.Random, _ = v.Value().(bool)
	}

	if v, ok := props[propLoopStatus]; ok {
		loop, _ := v.Value().(string)
		switch loop {
		case loopPlaylist:
			status.Loop = true
		case loopTrack:
			status.Repeat = true
		}
	}

	if v, ok := props[propMetadata]; ok {
		if metadata, ok := v.Value().(map[string]dbus.Variant); ok {
			status.Track = m.parseTrack(metadata)
		}
	}

	return status
}

func (m *Monitor) parseTrack(metadata map[string]dbus.Variant) domain.Track {
	var track domain.Track

	track.Title = stringEntry(metadata, "xesam:title")
	track.Album = stringEntry(metadata, "xesam:album")

	// Extract artist (can be an array)
	if artistVar, ok := metadata["xesam:artist"]; ok {
		switch artists := artistVar.Value().(type) {
		case []string:
			if len(artists) > 0 {
				track.Artist = artists[0]
			}
		case string:
			track.Artist = artists
		default:
			// Some non-compliant players may use unexpected types
			m.logger.Debug("Unexpected artist type in metadata",
				zap.String("type", fmt.Sprintf("%T", artistVar.Value())))
		}
	}

	track.Name = stringEntry(metadata, "xesam:url")
	if track.Name == "" {
		track.Name = track.Title
	}
	track.IsVideo = isVideoName(track.Name)

	return track
}

func stringEntry(metadata map[string]dbus.Variant, key string) string {
	if v, ok := metadata[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}
