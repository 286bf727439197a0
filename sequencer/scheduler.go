package sequencer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"acidseq/config"
	"acidseq/debug"
	"acidseq/midi"
)

// Sink applies one dispatched event synchronously.
type Sink interface {
	Send(ev midi.Event) error
}

// Clock isolates the per-tick wait so tests can advance time instantly.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type wallClock struct{}

func (wallClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// State is the scheduler lifecycle phase.
type State int

const (
	Idle State = iota
	Running
	Draining
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Stopped:
		return "stopped"
	}
	return "?"
}

// Scheduler replays a merged event sequence tick by tick. Whatever way a
// run ends, every note still sounding is forced off before Stopped.
type Scheduler struct {
	cfg   *config.Config
	sink  Sink
	clock Clock

	echo   func(Annotation)
	onTick func(tick, maxTick int64)

	mu     sync.Mutex
	state  State
	tracks map[string]*Track

	drainOnce sync.Once
}

// NewScheduler builds an idle scheduler over the given sink.
func NewScheduler(cfg *config.Config, sink Sink) *Scheduler {
	s := &Scheduler{
		cfg:    cfg,
		sink:   sink,
		clock:  wallClock{},
		state:  Idle,
		tracks: make(map[string]*Track, len(cfg.Tracks)),
	}
	for _, tc := range cfg.Tracks {
		s.tracks[tc.Name] = newTrack(tc)
	}
	return s
}

// SetClock replaces the wall clock (tests).
func (s *Scheduler) SetClock(c Clock) { s.clock = c }

// SetEcho installs the annotation side-channel callback.
func (s *Scheduler) SetEcho(fn func(Annotation)) { s.echo = fn }

// SetOnTick installs a per-tick progress callback.
func (s *Scheduler) SetOnTick(fn func(tick, maxTick int64)) { s.onTick = fn }

// State reports the current lifecycle phase.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scheduler) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// ActiveNotes returns the still-sounding notes on a track.
func (s *Scheduler) ActiveNotes(track string) []uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tracks[track]
	if !ok {
		return nil
	}
	return t.ActiveNotes()
}

// Play runs the tick loop until the sequence is exhausted, the context is
// cancelled, or the sink fails. The drain runs on every exit path, exactly
// once.
func (s *Scheduler) Play(ctx context.Context, q *EventQueue, notes []Annotation) error {
	maxTick := q.MaxTick()
	for _, a := range notes {
		if a.Tick > maxTick {
			maxTick = a.Tick
		}
	}
	maxTick++ // one past the highest tick present

	tickDur := s.cfg.TickDuration()
	s.setState(Running)
	debug.Log("play", "start: %d events, maxTick=%d, tick=%s", q.Len(), maxTick, tickDur)

	defer func() {
		s.drainOnce.Do(s.drain)
		s.setState(Stopped)
	}()

	notePtr := 0
	for tick := int64(0); tick <= maxTick; tick++ {
		// Echo side-channel first, in input order.
		for notePtr < len(notes) && notes[notePtr].Tick <= tick {
			if s.echo != nil {
				s.echo(notes[notePtr])
			}
			notePtr++
		}

		// Dispatch everything due this tick, strictly in merged order.
		// Simultaneous messages rely on their relative order (a CC must
		// land before the note it modulates).
		for {
			ev, ok := q.Peek()
			if !ok || ev.Tick > tick {
				break
			}
			q.Pop()
			if err := s.dispatch(ev); err != nil {
				return err
			}
		}

		if s.onTick != nil {
			s.onTick(tick, maxTick)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.clock.After(tickDur):
		}
	}
	return nil
}

func (s *Scheduler) dispatch(ev midi.Event) error {
	track, ok := s.tracks[ev.Track]
	if !ok {
		return fmt.Errorf("event for unknown track %q", ev.Track)
	}
	if err := s.sink.Send(ev); err != nil {
		return fmt.Errorf("dispatch tick %d: %w", ev.Tick, err)
	}
	s.mu.Lock()
	switch ev.Action {
	case midi.NoteOn:
		track.noteOn(ev.Value)
	case midi.NoteOff:
		track.noteOff(ev.Value)
	}
	s.mu.Unlock()
	return nil
}

// drain forces a NoteOff for every note still sounding, in configured
// track order. Sends are best effort: a dead sink must not leave the rest
// of the tracks unswept.
func (s *Scheduler) drain() {
	s.setState(Draining)
	for _, tc := range s.cfg.Tracks {
		track := s.tracks[tc.Name]
		s.mu.Lock()
		notes := track.ActiveNotes()
		s.mu.Unlock()
		for _, note := range notes {
			ev := midi.NewEvent(0, tc.Name, midi.NoteOff, int(note), 0)
			if err := s.sink.Send(ev); err != nil {
				debug.Log("drain", "track %s note %d: %v", tc.Name, note, err)
			}
			s.mu.Lock()
			track.noteOff(note)
			s.mu.Unlock()
		}
	}
	debug.Log("drain", "all notes off")
}
