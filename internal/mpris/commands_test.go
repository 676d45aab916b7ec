package mpris

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/genricoloni/remotectl/internal/mpris/mocks"
	"github.com/godbus/dbus/v5"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newTestCommander(t *testing.T, player string) (*Commander, *mocks.MockDBusClient) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockDBusClient(ctrl)

	c := NewCommander(zap.NewNop(), testConfig{player: player})
	c.dial = func() (DBusClient, error) { return client, nil }
	return c, client
}

func TestCommander_Toggles(t *testing.T) {
	const vlc = "org.mpris.MediaPlayer2.vlc"
	shuffle := qualified(propShuffle)
	loop := qualified(propLoopStatus)

	tests := []struct {
		name  string
		send  func(*Commander)
		setup func(*mocks.MockDBusClient)
	}{
		{
			name: "Shuffle on",
			send: (*Commander).ToggleRandom,
			setup: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(vlc, objectPath, shuffle).Return(dbus.MakeVariant(false), nil)
				m.EXPECT().SetProperty(vlc, objectPath, shuffle, dbus.MakeVariant(true)).Return(nil)
			},
		},
		{
			name: "Loop on from None",
			send: (*Commander).ToggleLoop,
			setup: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(vlc, objectPath, loop).Return(dbus.MakeVariant("None"), nil)
				m.EXPECT().SetProperty(vlc, objectPath, loop, dbus.MakeVariant("Playlist")).Return(nil)
			},
		},
		{
			name: "Repeat on from Playlist",
			send: (*Commander).ToggleRepeat,
			setup: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(vlc, objectPath, loop).Return(dbus.MakeVariant("Playlist"), nil)
				m.EXPECT().SetProperty(vlc, objectPath, loop, dbus.MakeVariant("Track")).Return(nil)
			},
		},
		{
			name: "Repeat off from Track",
			send: (*Commander).ToggleRepeat,
			setup: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(vlc, objectPath, loop).Return(dbus.MakeVariant("Track"), nil)
				m.EXPECT().SetProperty(vlc, objectPath, loop, dbus.MakeVariant("None")).Return(nil)
			},
		},
		{
			name: "Seek backwards in microseconds",
			send: func(c *Commander) { c.Seek(-10 * time.Second) },
			setup: func(m *mocks.MockDBusClient) {
				m.EXPECT().CallNoReply(vlc, objectPath, "org.mpris.MediaPlayer2.Player.Seek", int64(-10_000_000)).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, client := newTestCommander(t, "vlc")
			client.EXPECT().ListNames().Return([]string{"org.freedesktop.DBus", vlc}, nil)
			tt.setup(client)
			client.EXPECT().Close().Return(nil)

			if err := c.Start(context.Background()); err != nil {
				t.Fatalf("Start: %v", err)
			}
			tt.send(c)
			if err := c.Stop(context.Background()); err != nil {
				t.Fatalf("Stop: %v", err)
			}
		})
	}
}

// TestCommander_FailuresAreSwallowed: errors are logged and later commands still go out.
func TestCommander_FailuresAreSwallowed(t *testing.T) {
	c, client := newTestCommander(t, "")
	shuffle := qualified(propShuffle)

	gomock.InOrder(
		client.EXPECT().ListNames().Return([]string{"org.freedesktop.DBus"}, nil),
		client.EXPECT().ListNames().Return([]string{"org.mpris.MediaPlayer2.mpv"}, nil),
		client.EXPECT().GetProperty("org.mpris.MediaPlayer2.mpv", objectPath, shuffle).
			Return(dbus.Variant{}, fmt.Errorf("timeout")),
		client.EXPECT().ListNames().Return([]string{"org.mpris.MediaPlayer2.mpv"}, nil),
		client.EXPECT().CallNoReply("org.mpris.MediaPlayer2.mpv", objectPath, gomock.Any(), int64(5_000_000)).Return(nil),
		client.EXPECT().Close().Return(nil),
	)

	c.ToggleLoop()   // no player on the bus
	c.ToggleRandom() // property read fails
	c.Seek(5 * time.Second)

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestCommander_DialFailureRetries(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockDBusClient(ctrl)

	dials := 0
	c := NewCommander(zap.NewNop(), testConfig{})
	c.dial = func() (DBusClient, error) {
		dials++
		if dials == 1 {
			return nil, fmt.Errorf("no session bus")
		}
		return client, nil
	}

	client.EXPECT().ListNames().Return([]string{"org.mpris.MediaPlayer2.vlc"}, nil)
	client.EXPECT().CallNoReply(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	client.EXPECT().Close().Return(nil)

	c.Seek(time.Second)
	c.Seek(time.Second)
	_ = c.Start(context.Background())
	_ = c.Stop(context.Background())

	if dials != 2 {
		t.Errorf("Expected 2 dial attempts, got %d", dials)
	}
}

func TestCommander_DropsAfterStop(t *testing.T) {
	c, _ := newTestCommander(t, "")

	_ = c.Start(context.Background())
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("second Stop: %v", err)
	}

	// Must neither panic on the closed queue nor reach the mock
	c.ToggleRandom()
}

func TestCommander_BrokenConnectionRedials(t *testing.T) {
	ctrl := gomock.NewController(t)
	lost := mocks.NewMockDBusClient(ctrl)
	closed := mocks.NewMockDBusClient(ctrl)
	healthy := mocks.NewMockDBusClient(ctrl)
	const mpv = "org.mpris.MediaPlayer2.mpv"

	// Bus daemon unreachable
	lost.EXPECT().ListNames().Return(nil, fmt.Errorf("connection closed"))
	lost.EXPECT().Close().Return(nil)

	// Connection closed under the call
	closed.EXPECT().ListNames().Return([]string{mpv}, nil)
	closed.EXPECT().CallNoReply(mpv, objectPath, gomock.Any(), gomock.Any()).Return(dbus.ErrClosed)
	closed.EXPECT().Close().Return(nil)

	healthy.EXPECT().ListNames().Return([]string{mpv}, nil)
	healthy.EXPECT().CallNoReply(mpv, objectPath, gomock.Any(), int64(3_000_000)).Return(nil)
	healthy.EXPECT().Close().Return(nil)

	conns := []DBusClient{lost, closed, healthy}
	dials := 0
	c := NewCommander(zap.NewNop(), testConfig{})
	c.dial = func() (DBusClient, error) {
		conn := conns[dials]
		dials++
		return conn, nil
	}

	c.Seek(time.Second)
	c.Seek(2 * time.Second)
	c.Seek(3 * time.Second)
	_ = c.Start(context.Background())
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if dials != 3 {
		t.Errorf("Expected 3 dial attempts, got %d", dials)
	}
}

func TestCommander_NoPlayerKeepsConnection(t *testing.T) {
	c, client := newTestCommander(t, "vlc")

	client.EXPECT().ListNames().Return([]string{"org.mpris.MediaPlayer2.mpv"}, nil).Times(2)
	client.EXPECT().Close().Return(nil).Times(1)

	c.Seek(time.Second)
	c.Seek(time.Second)
	_ = c.Start(context.Background())
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}
