package sequencer

import (
	"reflect"
	"strings"
	"testing"

	"acidseq/config"
	"acidseq/midi"
)

func filter(events []midi.Event, track string, action midi.Action) []midi.Event {
	var out []midi.Event
	for _, ev := range events {
		if ev.Track == track && ev.Action == action {
			out = append(out, ev)
		}
	}
	return out
}

func TestMapTextDeterminism(t *testing.T) {
	m := NewMapper(config.Default())
	q1, n1 := m.MapText(config.DefaultText)
	q2, n2 := m.MapText(config.DefaultText)

	if !reflect.DeepEqual(q1.Events(), q2.Events()) {
		t.Error("same input mapped to different event sequences")
	}
	if !reflect.DeepEqual(n1, n2) {
		t.Error("same input mapped to different annotations")
	}
}

func TestMapTextSeedVariesWithInput(t *testing.T) {
	if Seed("abc") == Seed("abd") {
		t.Error("different inputs produced the same seed")
	}
}

func TestSingleVowel(t *testing.T) {
	cfg := config.Default()
	q, notes := NewMapper(cfg).MapText("a")
	events := q.Events()

	ons := filter(events, config.TrackBass, midi.NoteOn)
	if len(ons) != 1 {
		t.Fatalf("got %d bass NoteOn, want 1", len(ons))
	}
	wantPitch := cfg.NoteBase // rank 0 -> scale degree 0
	if ons[0].Tick != 0 || ons[0].Value != wantPitch || ons[0].Param != 80 {
		t.Errorf("bass NoteOn = %+v, want tick 0 pitch %d vel 80", ons[0], wantPitch)
	}

	offs := filter(events, config.TrackBass, midi.NoteOff)
	if len(offs) != 1 {
		t.Fatalf("got %d bass NoteOff, want 1", len(offs))
	}
	if offs[0].Value != wantPitch || (offs[0].Tick != 1 && offs[0].Tick != 2) {
		t.Errorf("bass NoteOff = %+v, want pitch %d at tick 1 or 2", offs[0], wantPitch)
	}

	kick := cfg.DrumNotes["kick"]
	drumOns := filter(events, config.TrackDrums, midi.NoteOn)
	drumOffs := filter(events, config.TrackDrums, midi.NoteOff)
	if len(drumOns) != 1 || drumOns[0].Tick != 0 || drumOns[0].Value != kick {
		t.Errorf("drum NoteOn = %v, want kick %d at tick 0", drumOns, kick)
	}
	if len(drumOffs) != 1 || drumOffs[0].Tick != 1 || drumOffs[0].Value != kick {
		t.Errorf("drum NoteOff = %v, want kick %d at tick 1", drumOffs, kick)
	}

	if len(notes) != 1 || notes[0].Tick != 0 || notes[0].Pos != 0 || notes[0].Symbol != 'a' {
		t.Errorf("annotations = %v, want one for 'a' at tick 0", notes)
	}
}

func TestSeparator(t *testing.T) {
	cfg := config.Default()
	q, _ := NewMapper(cfg).MapText(" ")
	events := q.Events()

	ccs := filter(events, config.TrackBass, midi.ControlChange)
	if len(ccs) != 1 || ccs[0].Value != 71 || ccs[0].Param != 60 {
		t.Errorf("sweep = %v, want one CC71=60", ccs)
	}

	chordRoot := int(cfg.NoteBase) + cfg.Scale[0] + int(cfg.Octave)
	padOns := filter(events, config.TrackPad, midi.NoteOn)
	if len(padOns) != len(cfg.ChordOffsets) {
		t.Fatalf("got %d pad NoteOn, want %d", len(padOns), len(cfg.ChordOffsets))
	}
	for i, offset := range cfg.ChordOffsets {
		want := midi.Clamp(chordRoot + offset)
		if padOns[i].Tick != 0 || padOns[i].Value != want {
			t.Errorf("pad NoteOn[%d] = %+v, want pitch %d at tick 0", i, padOns[i], want)
		}
	}
	for _, off := range filter(events, config.TrackPad, midi.NoteOff) {
		if off.Tick != cfg.PadSustain {
			t.Errorf("pad NoteOff at tick %d, want %d", off.Tick, cfg.PadSustain)
		}
	}

	if bass := filter(events, config.TrackBass, midi.NoteOn); len(bass) != 0 {
		t.Errorf("separator emitted %d bass notes, want 0", len(bass))
	}
	if drums := filter(events, config.TrackDrums, midi.NoteOn); len(drums) != 0 {
		t.Errorf("separator emitted %d drum hits, want 0 in the default preset", len(drums))
	}
}

func TestDigit(t *testing.T) {
	cfg := config.Default()
	q, _ := NewMapper(cfg).MapText("7")
	events := q.Events()

	wantPitch := midi.Clamp(int(cfg.NoteBase) + cfg.Scale[7%len(cfg.Scale)])
	ons := filter(events, config.TrackBass, midi.NoteOn)
	if len(ons) != 1 || ons[0].Value != wantPitch || ons[0].Param != 70 {
		t.Errorf("bass NoteOn = %v, want pitch %d vel 70", ons, wantPitch)
	}
	offs := filter(events, config.TrackBass, midi.NoteOff)
	if len(offs) != 1 || offs[0].Tick != 1 {
		t.Errorf("bass NoteOff = %v, want exactly one at tick 1", offs)
	}

	oh := cfg.DrumNotes["oh"]
	drumOns := filter(events, config.TrackDrums, midi.NoteOn)
	if len(drumOns) != 1 || drumOns[0].Value != oh {
		t.Errorf("drum companion = %v, want open hat %d", drumOns, oh)
	}
}

func TestConsonantRotation(t *testing.T) {
	cfg := config.Default()
	q, _ := NewMapper(cfg).MapText("tttt")
	events := q.Events()

	// Position mod 4 selects the drum voice: 0 clap, 2 snare, otherwise
	// closed hat.
	want := []uint8{
		cfg.DrumNotes["clap"],
		cfg.DrumNotes["ch"],
		cfg.DrumNotes["snare"],
		cfg.DrumNotes["ch"],
	}
	drumOns := filter(events, config.TrackDrums, midi.NoteOn)
	if len(drumOns) != 4 {
		t.Fatalf("got %d drum hits, want 4", len(drumOns))
	}
	for i, ev := range drumOns {
		if ev.Tick != int64(i) || ev.Value != want[i] {
			t.Errorf("hit %d = %+v, want note %d at tick %d", i, ev, want[i], i)
		}
	}

	// Each consonant also carries a resonance tweak on the bass.
	ccs := filter(events, config.TrackBass, midi.ControlChange)
	if len(ccs) != 4 {
		t.Fatalf("got %d bass CCs, want 4", len(ccs))
	}
	for _, cc := range ccs {
		if cc.Value != 71 || cc.Param != 80 {
			t.Errorf("resonance CC = %+v, want CC71=80", cc)
		}
	}
}

func TestUnencodableAdvancesTick(t *testing.T) {
	cfg := config.Default()
	q, notes := NewMapper(cfg).MapText("?a")

	if len(notes) != 2 || notes[0].Tick != 0 || notes[1].Tick != 1 {
		t.Fatalf("annotations = %v, want ticks 0 and 1", notes)
	}

	ons := filter(q.Events(), config.TrackBass, midi.NoteOn)
	if len(ons) != 1 || ons[0].Tick != 1 {
		t.Errorf("bass NoteOn = %v, want one at tick 1", ons)
	}

	q2, _ := NewMapper(cfg).MapText("?")
	if q2.Len() != 0 {
		t.Errorf("unencodable symbol emitted %d events, want 0", q2.Len())
	}
}

func TestGlideBracketsLongNotes(t *testing.T) {
	cfg := config.Default()
	input := strings.Repeat("aeiou", 10)
	q, _ := NewMapper(cfg).MapText(input)
	events := q.Events()

	// Pair every bass NoteOn with its NoteOff; vowels never overlap at the
	// same pitch here (each letter recurs every 5 ticks, max duration 2).
	type key struct {
		pitch uint8
	}
	pending := make(map[key]int64)
	long := 0
	for _, ev := range events {
		if ev.Track != config.TrackBass {
			continue
		}
		switch ev.Action {
		case midi.NoteOn:
			pending[key{ev.Value}] = ev.Tick
		case midi.NoteOff:
			if on, ok := pending[key{ev.Value}]; ok {
				d := ev.Tick - on
				if d != 1 && d != 2 {
					t.Fatalf("vowel duration %d, want 1 or 2", d)
				}
				if d == 2 {
					long++
				}
				delete(pending, key{ev.Value})
			}
		}
	}
	if long == 0 {
		t.Fatal("no 2-tick vowels in 50 draws; biased duration looks broken")
	}

	glideOn := 0
	for _, cc := range filter(events, config.TrackBass, midi.ControlChange) {
		if cc.Value == 5 && cc.Param == 127 {
			glideOn++
		}
	}
	if glideOn != long {
		t.Errorf("%d glide-on CCs for %d long notes", glideOn, long)
	}
}

func TestNoteBalance(t *testing.T) {
	cfg := config.Default()
	q, _ := NewMapper(cfg).MapText(config.DefaultText)

	type voice struct {
		track string
		note  uint8
	}
	balance := make(map[voice]int)
	for _, ev := range q.Events() {
		switch ev.Action {
		case midi.NoteOn:
			balance[voice{ev.Track, ev.Value}]++
		case midi.NoteOff:
			balance[voice{ev.Track, ev.Value}]--
		}
	}
	for v, n := range balance {
		if n != 0 {
			t.Errorf("track %s note %d: on/off imbalance %+d", v.track, v.note, n)
		}
	}
}

func TestHardcoreSampleTrigger(t *testing.T) {
	cfg := config.Hardcore()
	q, _ := NewMapper(cfg).MapText("@")
	events := q.Events()

	ons := filter(events, config.TrackSamples, midi.NoteOn)
	if len(ons) != 1 || ons[0].Tick != 0 || ons[0].Value != cfg.SampleBase {
		t.Fatalf("sample trigger = %v, want one NoteOn for note %d at tick 0", ons, cfg.SampleBase)
	}
	if offs := filter(events, config.TrackSamples, midi.NoteOff); len(offs) != 0 {
		t.Errorf("sample trigger emitted %d NoteOff, want 0", len(offs))
	}
}

func TestHardcoreSeparatorCrash(t *testing.T) {
	cfg := config.Hardcore()
	// ',' is claimed by the sample class in this preset; use '.' instead.
	q, _ := NewMapper(cfg).MapText(".")
	events := q.Events()

	crash := cfg.DrumNotes["crash"]
	found := false
	for _, ev := range filter(events, config.TrackDrums, midi.NoteOn) {
		if ev.Value == crash {
			found = true
		}
	}
	if !found {
		t.Error("hardcore separator emitted no crash accent")
	}
}

func TestHardcoreCommaIsSample(t *testing.T) {
	cfg := config.Hardcore()
	q, _ := NewMapper(cfg).MapText(",")
	events := q.Events()

	if ons := filter(events, config.TrackSamples, midi.NoteOn); len(ons) != 1 {
		t.Errorf("',' mapped to %d sample triggers, want 1", len(ons))
	}
	if pads := filter(events, config.TrackPad, midi.NoteOn); len(pads) != 0 {
		t.Errorf("',' also emitted %d pad notes, want 0 (sample class wins)", len(pads))
	}
}

func TestHardcoreLeadFires(t *testing.T) {
	cfg := config.Hardcore()
	q, _ := NewMapper(cfg).MapText(strings.Repeat("a", 100))
	events := q.Events()

	ons := filter(events, config.TrackLead, midi.NoteOn)
	if len(ons) == 0 {
		t.Fatal("lead voice never fired across 100 vowels at probability 0.4")
	}
	wantPitch := midi.Clamp(int(cfg.NoteBase) + cfg.Scale[0] + 2*int(cfg.Octave))
	for _, ev := range ons {
		if ev.Value != wantPitch {
			t.Errorf("lead pitch %d, want %d (two octaves up)", ev.Value, wantPitch)
		}
	}
	if offs := filter(events, config.TrackLead, midi.NoteOff); len(offs) != len(ons) {
		t.Errorf("%d lead NoteOff for %d NoteOn", len(offs), len(ons))
	}
}

func TestHardcoreConsonantRotation(t *testing.T) {
	cfg := config.Hardcore()
	q, _ := NewMapper(cfg).MapText("tttt")
	events := q.Events()

	// The kick-every-step and hat layers also land on the drum track, but
	// clap, snare and rim can only come from the rotation.
	wantTicks := map[uint8]int64{
		cfg.DrumNotes["clap"]:  0,
		cfg.DrumNotes["snare"]: 2,
	}
	for note, tick := range wantTicks {
		hits := 0
		for _, ev := range filter(events, config.TrackDrums, midi.NoteOn) {
			if ev.Value == note {
				hits++
				if ev.Tick != tick {
					t.Errorf("note %d at tick %d, want %d", note, ev.Tick, tick)
				}
			}
		}
		if hits != 1 {
			t.Errorf("note %d hit %d times, want 1", note, hits)
		}
	}

	rim := cfg.DrumNotes[cfg.TickDrum]
	var rimTicks []int64
	for _, ev := range filter(events, config.TrackDrums, midi.NoteOn) {
		if ev.Value == rim {
			rimTicks = append(rimTicks, ev.Tick)
		}
	}
	if !reflect.DeepEqual(rimTicks, []int64{1, 3}) {
		t.Errorf("rim hits at ticks %v, want [1 3]", rimTicks)
	}
}

func TestHardcoreVowelSweep(t *testing.T) {
	cfg := config.Hardcore()
	q, _ := NewMapper(cfg).MapText("a")

	sweeps := 0
	for _, cc := range filter(q.Events(), config.TrackBass, midi.ControlChange) {
		if cc.Value == cfg.SweepController {
			sweeps++
			if cc.Param < cfg.VowelSweepDepth.Min {
				t.Errorf("sweep value %d below band minimum %d", cc.Param, cfg.VowelSweepDepth.Min)
			}
		}
	}
	if sweeps != 1 {
		t.Errorf("got %d vowel sweeps, want 1", sweeps)
	}

	// The default preset keeps vowels sweep-free.
	def := config.Default()
	q, _ = NewMapper(def).MapText("a")
	for _, cc := range filter(q.Events(), config.TrackBass, midi.ControlChange) {
		if cc.Value == def.SweepController {
			t.Errorf("default preset emitted a vowel sweep: %+v", cc)
		}
	}
}

func TestClassifyPrecedence(t *testing.T) {
	cfg := config.Hardcore()
	cases := []struct {
		ch   rune
		want Class
	}{
		{',', ClassSample}, // sample beats separator
		{'@', ClassSample},
		{' ', ClassSeparator},
		{'.', ClassSeparator},
		{'a', ClassVowel},
		{'E', ClassVowel},
		{'7', ClassDigit},
		{'t', ClassConsonant},
		{'?', ClassOther},
	}
	for _, c := range cases {
		if got := Classify(cfg, c.ch); got != c.want {
			t.Errorf("Classify(%q) = %d, want %d", c.ch, got, c.want)
		}
	}
}
