package sequencer

import (
	"math/rand"

	"acidseq/config"
	"acidseq/midi"
)

// Generative arrangement dimensions.
const (
	PatternBars = 32
	BeatsPerBar = 4
)

// arrangementSeed keeps every run of the generative mode identical.
const arrangementSeed = 42

// Sample bank slots for the generative arrangement.
var sampleNotes = map[string]uint8{
	"vocal1": 48,
	"vocal2": 50,
	"riser":  52,
	"sweep":  53,
}

// GenerateAcidTrack builds the fixed 32-bar arrangement. Each layer is a
// pure function of (bar, beat, seeded draws) and fully independent of the
// other layers; bar-index thresholds bring layers in and out.
func GenerateAcidTrack(cfg *config.Config) *EventQueue {
	g := &patternGen{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(arrangementSeed)),
		queue: NewEventQueue(),
		tpb:   cfg.TicksPerBeat,
	}
	g.bassline()
	g.subBass()
	g.drums()
	g.leadStabs()
	g.arpeggio()
	g.pads()
	g.vocalChops()
	g.riser()
	return g.queue
}

type patternGen struct {
	cfg   *config.Config
	rng   *rand.Rand
	queue *EventQueue
	tpb   int
}

func (g *patternGen) barStart(bar int) int64 {
	return int64(bar * BeatsPerBar * g.tpb)
}

func (g *patternGen) push(tick int64, track string, action midi.Action, value, param int) {
	g.queue.Push(midi.NewEvent(tick, track, action, value, param))
}

func (g *patternGen) note(tick int64, track string, pitch, velocity int, duration int64) {
	g.push(tick, track, midi.NoteOn, pitch, velocity)
	g.push(tick+duration, track, midi.NoteOff, pitch, 0)
}

func (g *patternGen) hit(tick int64, drum string, velocity int) {
	g.note(tick, config.TrackDrums, int(g.cfg.DrumNotes[drum]), velocity, 1)
}

func (g *patternGen) degree(rank int) int {
	return g.cfg.Scale[rank%len(g.cfg.Scale)]
}

// bassline: eight slots per bar, two alternating riffs, slides and
// filter/resonance movement on nearly every note.
func (g *patternGen) bassline() {
	base := int(g.cfg.NoteBase)
	riffA := []int{0, 3, 5, 0, 7, 10, 3, 5}
	riffB := []int{0, 5, 10, 0, 3, 7, 5, 3}

	for bar := 0; bar < PatternBars; bar++ {
		start := g.barStart(bar)
		riff := riffA
		if bar%2 == 1 {
			riff = riffB
		}
		for i := 0; i < 8; i++ {
			tick := start + int64(i*2)
			if g.rng.Float64() >= 0.95 {
				continue
			}
			pitch := base + g.degree(riff[i])
			vel := 90 + g.rng.Intn(21) - 10
			duration := int64(2)
			if g.rng.Float64() < 0.7 {
				duration = 3 // long enough to slide into the next slot
			}
			g.note(tick, config.TrackBass, pitch, vel, duration)

			slide := 0
			if g.rng.Float64() < 0.8 {
				slide = 127
			}
			g.push(tick, config.TrackBass, midi.ControlChange, 5, slide)
			g.push(tick+duration, config.TrackBass, midi.ControlChange, 5, 0)
			g.push(tick, config.TrackBass, midi.ControlChange, 71, 80+g.rng.Intn(41))
			g.push(tick, config.TrackBass, midi.ControlChange, 74, 60+g.rng.Intn(51))
		}
	}
}

// subBass: one octave below the bass root, every beat from bar 2.
func (g *patternGen) subBass() {
	pitch := int(g.cfg.NoteBase) - int(g.cfg.Octave)
	for bar := 2; bar < PatternBars; bar++ {
		start := g.barStart(bar)
		for beat := 0; beat < BeatsPerBar; beat++ {
			g.note(start+int64(beat*g.tpb), config.TrackSub, pitch, 100, 2)
		}
	}
}

func (g *patternGen) drums() {
	for bar := 0; bar < PatternBars; bar++ {
		start := g.barStart(bar)
		for beat := 0; beat < BeatsPerBar; beat++ {
			tick := start + int64(beat*g.tpb)

			g.hit(tick, "kick", 100)
			if g.rng.Float64() < 0.2 && beat%2 == 1 {
				g.hit(tick+2, "kick", 80)
			}
			if beat%2 == 1 {
				g.hit(tick, "snare", 90)
			}
			if beat%2 == 1 && bar >= 4 {
				g.hit(tick+2, "clap", 85)
			}
			for i := 0; i < 4; i++ {
				g.hit(tick+int64(i), "ch", 70+g.rng.Intn(21)-10)
			}
			if beat%2 == 1 {
				g.hit(tick+2, "oh", 80)
			}
			if bar >= 8 && g.rng.Float64() < 0.3 {
				tom := "ltom"
				if g.rng.Float64() >= 0.5 {
					tom = "htom"
				}
				g.hit(tick+3, tom, 80)
			}
			if bar >= 12 && g.rng.Float64() < 0.2 {
				g.hit(tick+1, "rim", 75)
			}
			if beat == 0 && bar%4 == 0 {
				g.note(tick, config.TrackDrums, int(g.cfg.DrumNotes["crash"]), 90, 2)
			}
		}
	}
}

// leadStabs: melodic hits on beats 1 and 3 from bar 4.
func (g *patternGen) leadStabs() {
	base := int(g.cfg.NoteBase) + int(g.cfg.Octave)
	for bar := 4; bar < PatternBars; bar++ {
		start := g.barStart(bar)
		for _, beat := range []int{0, 2} {
			tick := start + int64(beat*g.tpb)
			pitch := base + g.cfg.Scale[g.rng.Intn(len(g.cfg.Scale))]
			g.note(tick, config.TrackLead, pitch, 80, 2)
		}
	}
}

// arpeggio: two octaves up, eighth-note cycle from bar 8.
func (g *patternGen) arpeggio() {
	base := int(g.cfg.NoteBase) + 2*int(g.cfg.Octave)
	cycle := []int{0, 3, 7, 10, 7, 3}
	for bar := 8; bar < PatternBars; bar++ {
		start := g.barStart(bar)
		for i := 0; i < 8; i++ {
			tick := start + int64(i*2)
			pitch := base + g.degree(cycle[i%len(cycle)])
			g.note(tick, config.TrackArp, pitch, 75, 1)
		}
	}
}

// pads: sustained chords through the body of the track (bars 2-27).
func (g *patternGen) pads() {
	root := int(g.cfg.NoteBase) + int(g.cfg.Octave) + g.cfg.Scale[0]
	for bar := 2; bar < 28; bar++ {
		start := g.barStart(bar)
		for _, offset := range g.cfg.ChordOffsets {
			g.note(start, config.TrackPad, root+offset, 60, 16)
		}
	}
}

// vocalChops: every fourth bar from bar 4; the second chop joins at bar 12.
func (g *patternGen) vocalChops() {
	for bar := 4; bar < PatternBars; bar += 4 {
		start := g.barStart(bar)
		g.note(start, config.TrackVocals, int(sampleNotes["vocal1"]), 100, 4)
		if bar >= 12 {
			g.note(start+8, config.TrackVocals, int(sampleNotes["vocal2"]), 100, 4)
		}
	}
}

// riser: breakdown effect confined to bars 20-23.
func (g *patternGen) riser() {
	for bar := 20; bar < 24; bar++ {
		start := g.barStart(bar)
		g.note(start, config.TrackFX, int(sampleNotes["riser"]), 90, 16)
	}
}
