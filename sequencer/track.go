package sequencer

import (
	"sort"

	"acidseq/config"
)

// Track is one instrument lane with its own active-note bookkeeping. The
// scheduler is the only mutator; nothing else touches the active set.
type Track struct {
	Name    string
	Channel uint8

	active map[uint8]struct{}
}

func newTrack(tc config.TrackConfig) *Track {
	return &Track{
		Name:    tc.Name,
		Channel: tc.Channel,
		active:  make(map[uint8]struct{}),
	}
}

func (t *Track) noteOn(note uint8) {
	t.active[note] = struct{}{}
}

// noteOff is idempotent: removing an absent note is a no-op.
func (t *Track) noteOff(note uint8) {
	delete(t.active, note)
}

// ActiveNotes returns the still-sounding notes in ascending order.
func (t *Track) ActiveNotes() []uint8 {
	notes := make([]uint8, 0, len(t.active))
	for n := range t.active {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i] < notes[j] })
	return notes
}
