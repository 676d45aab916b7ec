package mpris

import (
	"fmt"
	"testing"
	"time"

	"github.com/genricoloni/remotectl/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

type testConfig struct {
	player string
}

func (c testConfig) SeekIncrement() time.Duration { return 10 * time.Second }
func (c testConfig) PlayerName() string           { return c.player }

func newTestMonitor(player string) *Monitor {
	mon := NewMonitor(zap.NewNop(), testConfig{player: player})
	mon.conn = &noopDBusClient{} // Prevent panic if code tries to call DBus
	mon.running = true
	return mon
}

// TestHandleSignal_HappyPath verifies the standard scenario: a valid signal produces a full snapshot.
func TestHandleSignal_HappyPath(t *testing.T) {
	mon := newTestMonitor("")
	mon.playerNames = map[string]string{":1.100": "org.mpris.MediaPlayer2.vlc"}

	signal := &dbus.Signal{
		Name:   "org.freedesktop.DBus.Properties.PropertiesChanged",
		Sender: ":1.100",
		Body: []interface{}{
			"org.mpris.MediaPlayer2.Player",
			map[string]dbus.Variant{
				"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
					"xesam:title": dbus.MakeVariant("Ozymandias"),
					"xesam:url":   dbus.MakeVariant("file:///media/tv/Breaking.Bad.S05E14.mkv"),
				}),
				"PlaybackStatus": dbus.MakeVariant("Playing"),
				"Shuffle":        dbus.MakeVariant(true),
				"LoopStatus":     dbus.MakeVariant("Playlist"),
			},
			[]string{},
		},
	}

	go mon.handleSignal(signal)

	select {
	case event := <-mon.Events():
		if event.Track.Name != "file:///media/tv/Breaking.Bad.S05E14.mkv" {
			t.Errorf("Track name: got '%s'", event.Track.Name)
		}
		if !event.Track.IsVideo {
			t.Error("Expected .mkv to be classified as video")
		}
		if event.Track.Title != "Ozymandias" {
			t.Errorf("Title: expected 'Ozymandias', got '%s'", event.Track.Title)
		}
		if event.State != domain.StatusPlaying {
			t.Errorf("State: expected Playing, got %v", event.State)
		}
		if !event.Random || !event.Loop || event.Repeat {
			t.Errorf("Modes: expected random+loop, got %+v", event)
		}
		if event.Player != "org.mpris.MediaPlayer2.vlc" {
			t.Errorf("Player: got '%s'", event.Player)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Timeout: Event was not emitted")
	}
}

// TestHandleSignal_EdgeCases consolidates all invalid/ignored scenarios into a table test.
func TestHandleSignal_EdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		player string
		signal *dbus.Signal
	}{
		{
			name: "Wrong Signal Name",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.SomeOtherSignal",
				Body: []interface{}{},
			},
		},
		{
			name: "Wrong Interface",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
				Body: []interface{}{"org.mpris.MediaPlayer2", map[string]dbus.Variant{}, []string{}},
			},
		},
		{
			name: "Short Body",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
				Body: []interface{}{"org.mpris.MediaPlayer2.Player"},
			},
		},
		{
			name: "Irrelevant Property",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
				Body: []interface{}{
					"org.mpris.MediaPlayer2.Player",
					map[string]dbus.Variant{"Volume": dbus.MakeVariant(0.5)},
					[]string{},
				},
			},
		},
		{
			name: "Invalid Metadata Type (Int instead of Map)",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
				Body: []interface{}{
					"org.mpris.MediaPlayer2.Player",
					map[string]dbus.Variant{"Metadata": dbus.MakeVariant(12345)},
					[]string{},
				},
			},
		},
		{
			name: "Invalid PlaybackStatus Type (Array instead of String)",
			signal: &dbus.Signal{
				Name: "org.freedesktop.DBus.Properties.PropertiesChanged",
				Body: []interface{}{
					"org.mpris.MediaPlayer2.Player",
					map[string]dbus.Variant{"PlaybackStatus": dbus.MakeVariant([]string{"Playing"})},
					[]string{},
				},
			},
		},
		{
			name:   "Unfollowed Player",
			player: "vlc",
			signal: &dbus.Signal{
				Name:   "org.freedesktop.DBus.Properties.PropertiesChanged",
				Sender: ":1.7",
				Body: []interface{}{
					"org.mpris.MediaPlayer2.Player",
					map[string]dbus.Variant{"Shuffle": dbus.MakeVariant(true)},
					[]string{},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon := newTestMonitor(tt.player)
			mon.playerNames[":1.7"] = "org.mpris.MediaPlayer2.spotify"

			mon.handleSignal(tt.signal)

			select {
			case <-mon.Events():
				t.Error("Should NOT emit event for invalid input")
			case <-time.After(50 * time.Millisecond):
				// Pass
			}
		})
	}
}

// TestHandleSignal_DataVariations tests valid parsing variations
func TestHandleSignal_DataVariations(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]dbus.Variant
		check func(*testing.T, domain.Status)
	}{
		{
			name: "Artist as String (Non-compliant)",
			props: map[string]dbus.Variant{
				"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
					"xesam:artist": dbus.MakeVariant("Single Artist"),
				}),
			},
			check: func(t *testing.T, e domain.Status) {
				if e.Track.Artist != "Single Artist" {
					t.Errorf("Expected 'Single Artist', got '%s'", e.Track.Artist)
				}
			},
		},
		{
			name: "Title used as name without url",
			props: map[string]dbus.Variant{
				"Metadata": dbus.MakeVariant(map[string]dbus.Variant{
					"xesam:title": dbus.MakeVariant("Live Radio"),
				}),
			},
			check: func(t *testing.T, e domain.Status) {
				if e.Track.Name != "Live Radio" || e.Track.IsVideo {
					t.Errorf("Expected non-video 'Live Radio', got %+v", e.Track)
				}
			},
		},
		{
			name: "Loop status Track is Repeat",
			props: map[string]dbus.Variant{
				"LoopStatus": dbus.MakeVariant("Track"),
			},
			check: func(t *testing.T, e domain.Status) {
				if !e.Repeat || e.Loop {
					t.Errorf("Expected repeat only, got loop=%v repeat=%v", e.Loop, e.Repeat)
				}
			},
		},
		{
			name: "Loop status None",
			props: map[string]dbus.Variant{
				"LoopStatus": dbus.MakeVariant("None"),
				"Shuffle":    dbus.MakeVariant(false),
			},
			check: func(t *testing.T, e domain.Status) {
				if e.Repeat || e.Loop || e.Random {
					t.Errorf("Expected all modes off, got %+v", e)
				}
			},
		},
		{
			name: "Status Paused",
			props: map[string]dbus.Variant{
				"PlaybackStatus": dbus.MakeVariant("Paused"),
			},
			check: func(t *testing.T, e domain.Status) {
				if e.State != domain.StatusPaused {
					t.Errorf("Expected Paused, got %v", e.State)
				}
			},
		},
		{
			name: "Status Stopped",
			props: map[string]dbus.Variant{
				"PlaybackStatus": dbus.MakeVariant("Stopped"),
			},
			check: func(t *testing.T, e domain.Status) {
				if e.State != domain.StatusStopped {
					t.Errorf("Expected Stopped, got %v", e.State)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon := newTestMonitor("")

			signal := &dbus.Signal{
				Name:   "org.freedesktop.DBus.Properties.PropertiesChanged",
				Sender: ":1.99",
				Body:   []interface{}{"org.mpris.MediaPlayer2.Player", tt.props, []string{}},
			}

			go mon.handleSignal(signal)

			select {
			case event := <-mon.Events():
				tt.check(t, event)
			case <-time.After(1 * time.Second):
				t.Fatal("Timeout waiting for event")
			}
		})
	}
}

// TestHandleNameOwnerChanged verifies player lifecycle tracking
func TestHandleNameOwnerChanged(t *testing.T) {
	tests := []struct {
		name         string
		player       string
		signalBody   []interface{}
		preMapped    bool
		expectMapped bool
		targetUnique string
	}{
		{
			name:         "New Player Appears",
			signalBody:   []interface{}{"org.mpris.MediaPlayer2.vlc", "", ":1.50"},
			expectMapped: true,
			targetUnique: ":1.50",
		},
		{
			name:         "Player Disappears",
			signalBody:   []interface{}{"org.mpris.MediaPlayer2.vlc", ":1.50", ""},
			preMapped:    true,
			expectMapped: false,
			targetUnique: ":1.50",
		},
		{
			name:         "Non-MPRIS Service Ignored",
			signalBody:   []interface{}{"com.example.service", "", ":1.99"},
			expectMapped: false,
			targetUnique: ":1.99",
		},
		{
			name:         "Unfollowed Player Ignored",
			player:       "mpv",
			signalBody:   []interface{}{"org.mpris.MediaPlayer2.vlc", "", ":1.51"},
			expectMapped: false,
			targetUnique: ":1.51",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mon := newTestMonitor(tt.player)
			if tt.preMapped {
				mon.playerNames[tt.targetUnique] = "org.mpris.MediaPlayer2.vlc"
			}

			mon.handleNameOwnerChanged(&dbus.Signal{
				Name: "org.freedesktop.DBus.NameOwnerChanged",
				Body: tt.signalBody,
			})

			mon.mu.RLock()
			val, exists := mon.playerNames[tt.targetUnique]
			mon.mu.RUnlock()

			if exists != tt.expectMapped {
				t.Fatalf("Mapping for %s: expected %v, got %v", tt.targetUnique, tt.expectMapped, exists)
			}
			if tt.expectMapped && val != "org.mpris.MediaPlayer2.vlc" {
				t.Errorf("Expected vlc mapping, got %s", val)
			}
		})
	}
}

func TestGetPlayerName(t *testing.T) {
	mon := NewMonitor(zap.NewNop(), testConfig{})
	mon.playerNames = map[string]string{
		":1.100": "org.mpris.MediaPlayer2.vlc",
	}

	tests := []struct {
		input    string
		expected string
	}{
		{":1.100", "org.mpris.MediaPlayer2.vlc"},
		{":1.999", ":1.999"}, // Fallback
	}

	for _, tt := range tests {
		if got := mon.getPlayerName(tt.input); got != tt.expected {
			t.Errorf("getPlayerName(%s): expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestMatchesPlayer(t *testing.T) {
	tests := []struct {
		want, player string
		expected     bool
	}{
		{"", "org.mpris.MediaPlayer2.spotify", true},
		{"vlc", "org.mpris.MediaPlayer2.vlc", true},
		{"org.mpris.MediaPlayer2.vlc", "org.mpris.MediaPlayer2.vlc", true},
		{"vlc", "org.mpris.MediaPlayer2.vlc.instance4242", true},
		{"vlc", "org.mpris.MediaPlayer2.vlcx", false},
		{"vlc", ":1.42", false},
	}

	for _, tt := range tests {
		if got := matchesPlayer(tt.want, tt.player); got != tt.expected {
			t.Errorf("matchesPlayer(%q, %q): expected %v, got %v", tt.want, tt.player, tt.expected, got)
		}
	}
}

func TestIsVideoName(t *testing.T) {
	tests := map[string]bool{
		"file:///media/movies/Inception%20(2010).mkv": true,
		"/tv/Show.S01E02.MP4":                         true,
		"/music/song.flac":                            false,
		"Live Radio":                                  false,
		"":                                            false,
	}

	for name, expected := range tests {
		if got := isVideoName(name); got != expected {
			t.Errorf("isVideoName(%q): expected %v, got %v", name, expected, got)
		}
	}
}

// noopDBusClient is a stub to prevent panics during unit tests where
// we don't want to use full mocks but code calls GetProperty/ListNames.
type noopDBusClient struct{}

func (n *noopDBusClient) Close() error                             { return nil }
func (n *noopDBusClient) AddMatchSignal(...dbus.MatchOption) error { return nil }
func (n *noopDBusClient) Signal(chan<- *dbus.Signal)               {}
func (n *noopDBusClient) ListNames() ([]string, error)             { return []string{}, nil }
func (n *noopDBusClient) GetNameOwner(string) (string, error)      { return "", fmt.Errorf("noop") }
func (n *noopDBusClient) GetProperty(string, string, string) (dbus.Variant, error) {
	return dbus.MakeVariant(""), fmt.Errorf("noop")
}
func (n *noopDBusClient) SetProperty(string, string, string, dbus.Variant) error {
	return fmt.Errorf("noop")
}
func (n *noopDBusClient) CallNoReply(string, string, string, ...interface{}) error {
	return fmt.Errorf("noop")
}
