package playback

import "github.com/genricoloni/remotectl/internal/domain"

// toggle is one of the remote player's independent mode switches.
type toggle int

const (
	toggleLoop toggle = iota
	toggleRepeat
)

func (t toggle) String() string {
	if t == toggleRepeat {
		return "repeat"
	}
	return "loop"
}

// cycleToggles maps the mode being left to the remote switch that takes the
// player's two flags to the next mode of the cycle.
//
//	Normal (loop=0 repeat=0) --loop-->   Loop   (loop=1 repeat=0)
//	Loop   (loop=1 repeat=0) --repeat--> Repeat (loop=0 repeat=1)
//	Repeat (loop=0 repeat=1) --repeat--> Normal (loop=0 repeat=0)
//
// The player clears loop itself when repeat is switched on.
var cycleToggles = map[domain.PlaybackMode]toggle{
	domain.ModeNormal: toggleLoop,
	domain.ModeLoop:   toggleRepeat,
	domain.ModeRepeat: toggleRepeat,
}

// ModeFromFlags collapses the player's loop and repeat flags into the
// tri-state mode. conflict reports a snapshot with both flags set, which
// resolves to ModeRepeat.
func ModeFromFlags(loop, repeat bool) (mode domain.PlaybackMode, conflict bool) {
	switch {
	case repeat:
		return domain.ModeRepeat, loop
	case loop:
		return domain.ModeLoop, false
	default:
		return domain.ModeNormal, false
	}
}

// Indicator returns the display refresh payload for a state.
func Indicator(s domain.PlaybackModeState) domain.ModeIndicator {
	ind := domain.ModeIndicator{
		Random:      s.Random,
		Mode:        s.Mode,
		ShuffleIcon: domain.IconShuffleOff,
		RepeatIcon:  domain.IconRepeatOff,
	}
	if s.Random {
		ind.ShuffleIcon = domain.IconShuffleOn
	}
	switch s.Mode {
	case domain.ModeRepeat:
		ind.RepeatIcon = domain.IconRepeatOnce
	case domain.ModeLoop:
		ind.RepeatIcon = domain.IconRepeatAll
	}
	return ind
}
