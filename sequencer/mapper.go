package sequencer

import (
	"hash/fnv"
	"math/rand"
	"strings"
	"unicode"

	"acidseq/config"
	"acidseq/midi"
)

// Annotation ties one input symbol to the tick it was consumed at, so a
// display can echo the phrase in sync with playback. Annotations never
// influence scheduling.
type Annotation struct {
	Tick   int64
	Pos    int
	Symbol rune
}

// Class is the mapping category of an input symbol.
type Class int

const (
	ClassOther Class = iota // unencodable, consumes a tick silently
	ClassSample
	ClassSeparator
	ClassVowel
	ClassDigit
	ClassConsonant
)

// Classify returns the mapping category for a symbol. Sample triggers win
// over separators (a symbol may be listed as both), separators over the
// pitched classes.
func Classify(cfg *config.Config, ch rune) Class {
	lower := unicode.ToLower(ch)
	switch {
	case strings.ContainsRune(cfg.Samples, ch):
		return ClassSample
	case ch == ' ' || strings.ContainsRune(cfg.Separators, lower):
		return ClassSeparator
	case strings.ContainsRune(cfg.VowelOrder, lower):
		return ClassVowel
	case lower >= '0' && lower <= '9':
		return ClassDigit
	case strings.ContainsRune(cfg.ConsonantOrder, lower):
		return ClassConsonant
	}
	return ClassOther
}

// Mapper deterministically turns a phrase into a merged event sequence.
// The same input always produces the same sequence: every randomized
// quantity is drawn from a generator seeded by the input itself, and the
// category-to-track routing is never randomized.
type Mapper struct {
	cfg *config.Config
}

func NewMapper(cfg *config.Config) *Mapper {
	return &Mapper{cfg: cfg}
}

// Seed derives the deterministic seed for a phrase.
func Seed(text string) int64 {
	h := fnv.New64a()
	h.Write([]byte(text))
	return int64(h.Sum64())
}

// MapText converts a phrase into the merged event queue plus the echo
// annotations, one per input symbol, in input order.
func (m *Mapper) MapText(text string) (*EventQueue, []Annotation) {
	w := &mapWalk{
		cfg:   m.cfg,
		rng:   rand.New(rand.NewSource(Seed(text))),
		queue: NewEventQueue(),
	}
	for i, ch := range []rune(text) {
		w.symbol(i, ch)
	}
	return w.queue, w.notes
}

// mapWalk carries the cursor state for one mapping pass.
type mapWalk struct {
	cfg   *config.Config
	rng   *rand.Rand
	queue *EventQueue
	notes []Annotation
	tick  int64
}

func (w *mapWalk) push(tick int64, track string, action midi.Action, value, param int) {
	w.queue.Push(midi.NewEvent(tick, track, action, value, param))
}

// note emits a NoteOn and its matching NoteOff duration ticks later.
func (w *mapWalk) note(tick int64, track string, pitch, velocity int, duration int64) {
	w.push(tick, track, midi.NoteOn, pitch, velocity)
	w.push(tick+duration, track, midi.NoteOff, pitch, 0)
}

func (w *mapWalk) annotate(pos int, ch rune) {
	w.notes = append(w.notes, Annotation{Tick: w.tick, Pos: pos, Symbol: ch})
}

func (w *mapWalk) velocity(band config.Range) int {
	if band.Max <= band.Min {
		return int(band.Min)
	}
	return int(band.Min) + w.rng.Intn(int(band.Max-band.Min)+1)
}

// degreePitch maps a class rank to a pitch via the scale table.
func (w *mapWalk) degreePitch(rank int) int {
	return int(w.cfg.NoteBase) + w.cfg.Scale[rank%len(w.cfg.Scale)]
}

func (w *mapWalk) symbol(pos int, ch rune) {
	cfg := w.cfg
	lower := unicode.ToLower(ch)
	class := Classify(cfg, ch)

	switch class {
	case ClassSample:
		// Trigger only: the sample plays to completion, the drain phase
		// sends the off.
		rank := strings.IndexRune(cfg.Samples, ch)
		w.annotate(pos, ch)
		w.push(w.tick, config.TrackSamples, midi.NoteOn,
			int(cfg.SampleBase)+rank, w.velocity(cfg.SampleVelocity))
		w.tick++
		return

	case ClassSeparator:
		w.annotate(pos, ch)
		w.separator()
		w.tick++
		return

	case ClassOther:
		// Unencodable: the tick advances, nothing sounds.
		w.annotate(pos, ch)
		w.tick++
		return
	}

	// Pitched classes: bass line first, drums second, lead last. The
	// routing below is fixed; only velocities, durations and probabilistic
	// layers consume random draws.
	switch class {
	case ClassVowel:
		rank := strings.IndexRune(cfg.VowelOrder, lower)
		pitch := w.degreePitch(rank)
		vel := w.velocity(cfg.VowelVelocity)
		duration := int64(1)
		if w.rng.Float64() < cfg.LongNoteBias {
			duration = 2
		}
		w.note(w.tick, config.TrackBass, pitch, vel, duration)
		if duration > 1 {
			// Legato: glide on for the length of the note.
			w.push(w.tick, config.TrackBass, midi.ControlChange, 5, 127)
			w.push(w.tick+duration, config.TrackBass, midi.ControlChange, 5, 0)
		}
		if cfg.VowelSweepDepth.Max > 0 {
			w.push(w.tick, config.TrackBass, midi.ControlChange,
				int(cfg.SweepController), w.velocity(cfg.VowelSweepDepth))
		}

	case ClassDigit:
		rank := int(lower - '0')
		w.note(w.tick, config.TrackBass, w.degreePitch(rank), w.velocity(cfg.DigitVelocity), 1)

	case ClassConsonant:
		rank := strings.IndexRune(cfg.ConsonantOrder, lower)
		w.note(w.tick, config.TrackBass, w.degreePitch(rank), w.velocity(cfg.ConsonantVelocity), 1)
		w.push(w.tick, config.TrackBass, midi.ControlChange, 71, w.velocity(cfg.ResonanceDepth))
	}

	w.drums(pos, class)
	w.lead(class, lower)

	w.annotate(pos, ch)
	w.tick++
}

// separator emits the filter sweep and the pad chord, plus the optional
// crash accent.
func (w *mapWalk) separator() {
	cfg := w.cfg
	w.push(w.tick, config.TrackBass, midi.ControlChange,
		int(cfg.SweepController), w.velocity(cfg.SweepDepth))

	chordRoot := int(cfg.NoteBase) + cfg.Scale[0] + int(cfg.Octave)
	for _, offset := range cfg.ChordOffsets {
		pitch := chordRoot + offset
		if cfg.PadDetune > 0 {
			pitch += w.rng.Intn(2*cfg.PadDetune+1) - cfg.PadDetune
		}
		w.note(w.tick, config.TrackPad, pitch, w.velocity(cfg.PadVelocity), cfg.PadSustain)
	}

	if cfg.SeparatorCrash {
		w.hit("crash", w.velocity(cfg.AccentVelocity))
	}
}

// hit emits a one-tick drum pair by kit name.
func (w *mapWalk) hit(drum string, velocity int) {
	w.note(w.tick, config.TrackDrums, int(w.cfg.DrumNotes[drum]), velocity, 1)
}

func (w *mapWalk) drums(pos int, class Class) {
	cfg := w.cfg

	if cfg.KickEveryStep {
		w.hit("kick", w.velocity(cfg.KickVelocity))
	}
	if cfg.HatProbability > 0 && w.rng.Float64() < cfg.HatProbability {
		hat := "ch"
		if w.rng.Float64() >= 0.8 {
			hat = "oh"
		}
		w.hit(hat, w.velocity(cfg.HatVelocity))
	}

	switch class {
	case ClassVowel:
		w.hit("kick", w.velocity(cfg.KickVelocity))
	case ClassDigit:
		w.hit("oh", w.velocity(cfg.HatVelocity))
	case ClassConsonant:
		// Rotation over the symbol's absolute position: accented hits on
		// the backbeat and downbeat, ticks elsewhere.
		switch {
		case pos%4 == 2:
			w.hit("snare", w.velocity(cfg.AccentVelocity))
		case pos%4 == 0:
			w.hit("clap", w.velocity(cfg.AccentVelocity))
		default:
			w.hit(cfg.TickDrum, w.velocity(cfg.TickVelocity))
		}
	}
}

// lead fires the ornament voice two octaves above the bass, on vowels only.
func (w *mapWalk) lead(class Class, lower rune) {
	cfg := w.cfg
	if cfg.LeadProbability <= 0 || class != ClassVowel {
		return
	}
	if w.rng.Float64() >= cfg.LeadProbability {
		return
	}
	rank := strings.IndexRune(cfg.VowelOrder, lower)
	pitch := w.degreePitch(rank) + 2*int(cfg.Octave)
	w.note(w.tick, config.TrackLead, pitch, w.velocity(cfg.LeadVelocity), 1)
	w.push(w.tick, config.TrackLead, midi.ControlChange, 71, 127)
}
