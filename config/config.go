package config

import "time"

// Track names. Tracks are addressed by name everywhere; the name also
// identifies the instrument role.
const (
	TrackBass    = "TB303"
	TrackDrums   = "BP909"
	TrackLead    = "LeadSynth"
	TrackPad     = "PadSynth"
	TrackSamples = "Samples"
	TrackArp     = "ArpSynth"
	TrackSub     = "BassSub"
	TrackVocals  = "SampleBank1"
	TrackFX      = "SampleBank2"
)

// DefaultText is the built-in phrase used when no arguments are given.
const DefaultText = "....... Ahhhhhhhhhhhhhhh 1234567890, What is this? What is this? It is text2midi 1234567890 WOW WOW ..nice.. Make the make the music make the music with no skill. Out now. Out now. TTTTHHHHXXXX. Welcome to text-2-midi ACID music converter. Yeeeeeeeeeeeeeessssssssssssshh .. 1234567890 Lets get lets get lets get the party going. 1230 1234560 ACID music is the shit. Peace out."

// HardcoreText is the built-in phrase for the speedcore binary.
const HardcoreText = "YEEEEE 1234567890 BLAST OFF!!! SPEEDCORE EXTRATONE MADNESS!!! 666 KICK IT HARD!!! ..BZZZZZ.. 1230 RAVE RAVE RAVE!!! TTTTHHHHXXXXX BOOM BOOM 7890 LETS GO INSANE!!! ..ZAP.. PEACE OUT!!!"

// Range is an inclusive velocity/value band. Min == Max means a fixed value.
type Range struct {
	Min, Max uint8
}

// TrackConfig describes one output endpoint.
type TrackConfig struct {
	Name     string
	Channel  uint8  // MIDI channel 1-16
	PortName string // virtual port to open
	DestPort string // downstream port to connect to (best effort)
}

// Config is the full set of tunables for mapping and playback. It is built
// once by a preset function and never mutated afterwards.
type Config struct {
	Tempo        int
	TicksPerBeat int

	NoteBase     uint8
	Octave       uint8
	Scale        []int // semitone offsets, indexed by rank
	ChordOffsets []int // pad chord tones relative to the chord root
	DrumNotes    map[string]uint8

	VowelOrder     string
	ConsonantOrder string
	Separators     string // separator symbols besides space
	Samples        string // sample-trigger symbols, rank-ordered
	SampleBase     uint8

	// Velocity bands per symbol class / layer.
	VowelVelocity     Range
	DigitVelocity     Range
	ConsonantVelocity Range
	PadVelocity       Range
	LeadVelocity      Range
	KickVelocity      Range
	HatVelocity       Range
	AccentVelocity    Range // snare/clap/crash hits
	TickVelocity      Range // quiet rotation hits
	SampleVelocity    Range

	LongNoteBias    float64 // chance a vowel note lasts 2 ticks instead of 1
	PadSustain      int64   // pad chord length in ticks
	PadDetune       int     // +/- semitone jitter on pad chord tones
	TickDrum        string  // kit voice for the quiet rotation hits
	SweepController uint8   // CC number for the filter sweep
	SweepDepth      Range   // CC value band on separators
	VowelSweepDepth Range   // CC value band on vowels (zero band: off)
	ResonanceDepth  Range   // CC71 value band on consonants
	LeadProbability float64 // chance a vowel also fires the lead voice
	HatProbability  float64 // chance of a hi-hat on any encodable symbol
	KickEveryStep   bool    // four-to-the-floor kick on every encodable symbol
	SeparatorCrash  bool    // crash accent on separators

	Tracks []TrackConfig
}

// Drum kit note numbers (FL Studio convention, C4 = 48).
func drumKit() map[string]uint8 {
	return map[string]uint8{
		"kick":  48,
		"snare": 50,
		"ltom":  52,
		"htom":  53,
		"rim":   55,
		"clap":  57,
		"ch":    59,
		"oh":    60,
		"crash": 62,
		"ride":  64,
	}
}

// Default is the classic acid preset: fixed velocity bands, sustained pad
// chords on separators, no extra layers.
func Default() *Config {
	return &Config{
		Tempo:        130,
		TicksPerBeat: 4,

		NoteBase:     48,
		Octave:       12,
		Scale:        []int{0, 3, 5, 7, 10},
		ChordOffsets: []int{0, 3, 7},
		DrumNotes:    drumKit(),

		VowelOrder:     "aeiou",
		ConsonantOrder: "tnshrdlucmfwypvbgkqjxz",
		Separators:     ".,",
		SampleBase:     48,

		VowelVelocity:     Range{80, 80},
		DigitVelocity:     Range{70, 70},
		ConsonantVelocity: Range{100, 100},
		PadVelocity:       Range{60, 60},
		LeadVelocity:      Range{80, 127},
		KickVelocity:      Range{100, 100},
		HatVelocity:       Range{80, 80},
		AccentVelocity:    Range{90, 90},
		TickVelocity:      Range{70, 70},
		SampleVelocity:    Range{127, 127},

		LongNoteBias:    0.6,
		PadSustain:      4,
		TickDrum:        "ch",
		SweepController: 71,
		SweepDepth:      Range{60, 60},
		ResonanceDepth:  Range{80, 80},

		Tracks: []TrackConfig{
			{Name: TrackBass, Channel: 1, PortName: "TextMIDI_TB303", DestPort: "virtual-1"},
			{Name: TrackDrums, Channel: 2, PortName: "TextMIDI_BP909", DestPort: "virtual-2"},
			{Name: TrackLead, Channel: 3, PortName: "TextMIDI_LeadSynth", DestPort: "virtual-3"},
			{Name: TrackPad, Channel: 4, PortName: "TextMIDI_PadSynth", DestPort: "virtual-4"},
		},
	}
}

// Hardcore is the speedcore preset: randomized bands, a kick on every
// symbol, sample triggers, and a probabilistic lead voice.
func Hardcore() *Config {
	c := Default()
	c.Tempo = 180

	c.VowelVelocity = Range{80, 127}
	c.DigitVelocity = Range{70, 110}
	c.ConsonantVelocity = Range{100, 127}
	c.PadVelocity = Range{60, 90}
	c.KickVelocity = Range{100, 127}
	c.HatVelocity = Range{60, 90}
	c.AccentVelocity = Range{90, 127}
	c.TickVelocity = Range{70, 127}

	c.PadSustain = 1
	c.PadDetune = 2
	c.TickDrum = "rim"
	c.SweepController = 74
	c.SweepDepth = Range{80, 127}
	c.VowelSweepDepth = Range{60, 127}
	c.ResonanceDepth = Range{80, 127}
	c.LeadProbability = 0.4
	c.HatProbability = 0.7
	c.KickEveryStep = true
	c.SeparatorCrash = true

	c.Samples = "@,"
	c.Tracks = append(c.Tracks,
		TrackConfig{Name: TrackSamples, Channel: 5, PortName: "TextMIDI_Samples", DestPort: "virtual-5"},
	)
	return c
}

// Generative is the fixed 32-bar arrangement preset.
func Generative() *Config {
	c := Default()
	c.Tempo = 135
	c.NoteBase = 36
	c.Tracks = []TrackConfig{
		{Name: TrackBass, Channel: 1, PortName: "AcidTrack_TB303", DestPort: "virtual-1"},
		{Name: TrackDrums, Channel: 2, PortName: "AcidTrack_BP909", DestPort: "virtual-2"},
		{Name: TrackLead, Channel: 3, PortName: "AcidTrack_LeadSynth", DestPort: "virtual-3"},
		{Name: TrackPad, Channel: 4, PortName: "AcidTrack_PadSynth", DestPort: "virtual-4"},
		{Name: TrackVocals, Channel: 5, PortName: "AcidTrack_Sample1", DestPort: "virtual-5"},
		{Name: TrackFX, Channel: 6, PortName: "AcidTrack_Sample2", DestPort: "virtual-6"},
		{Name: TrackArp, Channel: 7, PortName: "AcidTrack_ArpSynth", DestPort: "virtual-7"},
		{Name: TrackSub, Channel: 8, PortName: "AcidTrack_BassSub", DestPort: "virtual-8"},
	}
	return c
}

// SetTempo overrides the BPM, clamped to a sane range.
func (c *Config) SetTempo(bpm int) {
	if bpm < 20 {
		bpm = 20
	}
	if bpm > 999 {
		bpm = 999
	}
	c.Tempo = bpm
}

// TickDuration is the wall-clock length of one tick.
func (c *Config) TickDuration() time.Duration {
	return time.Duration(float64(time.Minute) / float64(c.Tempo) / float64(c.TicksPerBeat))
}

// Track looks up a track by name.
func (c *Config) Track(name string) (TrackConfig, bool) {
	for _, t := range c.Tracks {
		if t.Name == name {
			return t, true
		}
	}
	return TrackConfig{}, false
}
