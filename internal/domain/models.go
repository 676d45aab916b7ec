package domain

// PlayerStatus represents the current state of the media player
type PlayerStatus string

const (
	// StatusPlaying indicates the media is currently playing
	StatusPlaying PlayerStatus = "Playing"
	// StatusPaused indicates the media is paused
	StatusPaused PlayerStatus = "Paused"
	// StatusStopped indicates the media is stopped
	StatusStopped PlayerStatus = "Stopped"
)

// Track is the media item the player reports as current.
type Track struct {
	// Name is the raw file name or path (xesam:url or xesam:title)
	Name string
	// IsVideo marks video content; only video is matched against episode/movie naming
	IsVideo bool
	// Title as reported by the player, may be empty
	Title string
	// Artist as reported by the player, may be empty
	Artist string
	// Album as reported by the player, may be empty
	Album string
}

// Status is an immutable snapshot of the remote player.
// Loop and Repeat are never both set in a well-formed snapshot.
type Status struct {
	Track  Track
	Random bool
	Loop   bool
	Repeat bool
	// State is the playback status at snapshot time
	State PlayerStatus
	// Player is the bus name of the player that produced the snapshot
	Player string
}

// PlaybackMode is the tri-state repeat control shown to the user.
type PlaybackMode int

const (
	ModeNormal PlaybackMode = iota
	ModeLoop
	ModeRepeat
)

// Next cycles Normal -> Loop -> Repeat -> Normal.
func (m PlaybackMode) Next() PlaybackMode {
	switch m {
	case ModeNormal:
		return ModeLoop
	case ModeLoop:
		return ModeRepeat
	default:
		return ModeNormal
	}
}

// String returns the name of the mode.
func (m PlaybackMode) String() string {
	switch m {
	case ModeLoop:
		return "loop"
	case ModeRepeat:
		return "repeat"
	default:
		return "normal"
	}
}

// PlaybackModeState is the local view of shuffle and repeat/loop.
type PlaybackModeState struct {
	Random bool
	Mode   PlaybackMode
}

// MediaDisplayInfo is anything that can fill the three media labels.
type MediaDisplayInfo interface {
	Heading() string
	FirstText() string
	SecondText() string
}

// Icon resource identifiers for the mode indicators.
const (
	IconShuffleOn  = "ic_mp_shuffle_on_btn"
	IconShuffleOff = "ic_mp_shuffle_off_btn"
	IconRepeatOff  = "ic_mp_repeat_off_btn"
	IconRepeatAll  = "ic_mp_repeat_all_btn"
	IconRepeatOnce = "ic_mp_repeat_once_btn"
)

// ModeIndicator is the payload of a mode display refresh.
type ModeIndicator struct {
	Random      bool
	Mode        PlaybackMode
	ShuffleIcon string
	RepeatIcon  string
}

// DisplayText is the payload of a media display refresh.
type DisplayText struct {
	Heading    string
	FirstText  string
	SecondText string
}

// Heading returns the artist, the track's fallback heading
func (t Track) Heading() string { return t.Artist }

// FirstText returns the album
func (t Track) FirstText() string { return t.Album }

// SecondText returns the title reported by the player
func (t Track) SecondText() string { return t.Title }
