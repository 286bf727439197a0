package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"acidseq/config"
	"acidseq/debug"
	"acidseq/midi"
	"acidseq/sequencer"
)

func main() {
	cfg := config.Generative()
	if len(os.Args) > 1 {
		bpm, err := strconv.Atoi(os.Args[1])
		if err != nil || bpm <= 0 {
			fmt.Fprintln(os.Stderr, "usage: acidtrack [bpm]")
			os.Exit(1)
		}
		cfg.SetTempo(bpm)
	}

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

	fmt.Printf("Generating and playing ACID track (%d bars) at %d BPM...\n",
		sequencer.PatternBars, cfg.Tempo)
	queue := sequencer.GenerateAcidTrack(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sched := sequencer.NewScheduler(cfg, ports)
	if err := sched.Play(ctx, queue, nil); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Playback error: %v\n", err)
	}
	fmt.Println("All notes off.")
}
