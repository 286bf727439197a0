package sequencer

import (
	"reflect"
	"testing"

	"acidseq/midi"
)

func TestQueueOrdersByTick(t *testing.T) {
	q := NewEventQueue()
	q.Push(midi.NewEvent(5, "TB303", midi.NoteOff, 60, 0))
	q.Push(midi.NewEvent(0, "TB303", midi.NoteOn, 60, 80))
	q.Push(midi.NewEvent(3, "BP909", midi.NoteOn, 48, 100))

	var ticks []int64
	for {
		ev, ok := q.Pop()
		if !ok {
			break
		}
		ticks = append(ticks, ev.Tick)
	}
	if !reflect.DeepEqual(ticks, []int64{0, 3, 5}) {
		t.Errorf("pop order %v, want [0 3 5]", ticks)
	}
}

func TestQueueTieBreakIsInsertionOrder(t *testing.T) {
	// Track names sort the other way round; insertion order must win.
	q := NewEventQueue()
	q.Push(midi.NewEvent(7, "ZZZ", midi.NoteOn, 1, 1))
	q.Push(midi.NewEvent(7, "AAA", midi.NoteOn, 2, 2))
	q.Push(midi.NewEvent(7, "MMM", midi.ControlChange, 3, 3))

	var tracks []string
	for {
		ev, ok := q.Pop()
		if !ok {
			break
		}
		tracks = append(tracks, ev.Track)
	}
	if !reflect.DeepEqual(tracks, []string{"ZZZ", "AAA", "MMM"}) {
		t.Errorf("pop order %v, want insertion order", tracks)
	}
}

func TestQueueMaxTick(t *testing.T) {
	q := NewEventQueue()
	if q.MaxTick() != 0 {
		t.Errorf("empty MaxTick = %d, want 0", q.MaxTick())
	}
	q.Push(midi.NewEvent(12, "TB303", midi.NoteOn, 60, 80))
	q.Push(midi.NewEvent(4, "TB303", midi.NoteOff, 60, 0))
	if q.MaxTick() != 12 {
		t.Errorf("MaxTick = %d, want 12", q.MaxTick())
	}
}

func TestEventsDoesNotDrain(t *testing.T) {
	q := NewEventQueue()
	q.Push(midi.NewEvent(2, "TB303", midi.NoteOn, 60, 80))
	q.Push(midi.NewEvent(0, "BP909", midi.NoteOn, 48, 100))
	q.Push(midi.NewEvent(2, "PadSynth", midi.NoteOn, 63, 60))

	events := q.Events()
	if q.Len() != 3 {
		t.Fatalf("Events drained the queue: len = %d", q.Len())
	}

	var popped []midi.Event
	for {
		ev, ok := q.Pop()
		if !ok {
			break
		}
		popped = append(popped, ev)
	}
	if !reflect.DeepEqual(events, popped) {
		t.Errorf("Events() = %v, pop order = %v", events, popped)
	}
}

func TestQueueEmpty(t *testing.T) {
	q := NewEventQueue()
	if _, ok := q.Peek(); ok {
		t.Error("Peek on empty queue reported an event")
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop on empty queue reported an event")
	}
}
