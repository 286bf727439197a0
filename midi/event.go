package midi

// Action is the raw MIDI status nibble for an event.
type Action uint8

const (
	NoteOff       Action = 0x80
	NoteOn        Action = 0x90
	ControlChange Action = 0xB0
)

func (a Action) String() string {
	switch a {
	case NoteOn:
		return "on"
	case NoteOff:
		return "off"
	case ControlChange:
		return "cc"
	}
	return "?"
}

// Event is one scheduled MIDI message on a named track. Value is the note
// number (or controller number for CC), Param the velocity (or controller
// value). Events are immutable once built.
type Event struct {
	Tick   int64
	Track  string
	Action Action
	Value  uint8
	Param  uint8
}

// NewEvent builds an event with Value and Param clamped to the 7-bit range
// and Tick floored at zero.
func NewEvent(tick int64, track string, action Action, value, param int) Event {
	if tick < 0 {
		tick = 0
	}
	return Event{
		Tick:   tick,
		Track:  track,
		Action: action,
		Value:  Clamp(value),
		Param:  Clamp(param),
	}
}

// Clamp forces v into the valid MIDI data range [0,127]. Out-of-range
// computed pitches and velocities are clamped, never treated as errors.
func Clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}
