package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"acidseq/config"
	"acidseq/debug"
	"acidseq/midi"
	"acidseq/sequencer"
)

// parseArgs splits the command line into an optional leading tempo and the
// phrase. A first argument made of digits is the BPM; whatever remains is
// the phrase, falling back to the built-in one.
func parseArgs(args []string) (bpm int, phrase string) {
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			bpm = n
			args = args[1:]
		}
	}
	phrase = config.HardcoreText
	if len(args) > 0 {
		phrase = strings.Join(args, " ")
	}
	return bpm, phrase
}

func main() {
	cfg := config.Hardcore()
	bpm, phrase := parseArgs(os.Args[1:])
	if bpm > 0 {
		cfg.SetTempo(bpm)
	}
	phrase += " " // always close the phrase with a separator

	if os.Getenv("ACIDSEQ_DEBUG") != "" {
		debug.Enable()
		defer debug.Disable()
	}

	ports, err := midi.OpenPorts(cfg.Tracks)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open MIDI ports: %v\n", err)
		os.Exit(1)
	}
	defer ports.Close()

	// Give ALSA a moment to register the new ports before routing.
	time.Sleep(500 * time.Millisecond)

	router := midi.NewRouter()
	for _, t := range cfg.Tracks {
		if err := router.Connect(t.PortName, t.DestPort); err != nil {
			fmt.Printf("Warning: %v; continuing\n", err)
		}
	}

	fmt.Printf("Encoding and playing SPEEDCORE/EXTRATONE pattern (%d characters) at %d BPM...\n",
		len([]rune(phrase)), cfg.Tempo)
	queue, notes := sequencer.NewMapper(cfg).MapText(phrase)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sched := sequencer.NewScheduler(cfg, ports)
	sched.SetEcho(func(a sequencer.Annotation) { fmt.Print(string(a.Symbol)) })

	if err := sched.Play(ctx, queue, notes); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "\nPlayback error: %v\n", err)
	}
	fmt.Println("\nAll notes off.")
}
