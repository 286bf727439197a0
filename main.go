package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"acidseq/config"
	"acidseq/debug"
	"acidseq/midi"
	"acidseq/sequencer"
	"acidseq/theme"
	"acidseq/tui"
)

func main() {
	phrase := config.DefaultText
	if len(os.Args) > 1 {
		phrase = strings.Join(os.Args[1:], " ")
	}
	phrase += " " // always close the phrase with a separator

	if os.Getenv("ACIDSEQ_DEBUG") != "" {
		debug.Enable()
		defer debug.Disable()
	}

	cfg := config.Default()

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

	fmt.Printf("Encoding and playing ACID pattern (%d characters)...\n", len([]rune(phrase)))
	queue, notes := sequencer.NewMapper(cfg).MapText(phrase)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := sequencer.NewScheduler(cfg, ports)
	p := tea.NewProgram(tui.NewModel(cfg, theme.New(), cancel))

	sched.SetEcho(func(a sequencer.Annotation) { p.Send(tui.EchoMsg(a)) })
	sched.SetOnTick(func(tick, max int64) { p.Send(tui.TickMsg{Tick: tick, MaxTick: max}) })

	done := make(chan struct{})
	go func() {
		p.Send(tui.DoneMsg{Err: sched.Play(ctx, queue, notes)})
		close(done)
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	cancel()
	<-done // never exit before the drain has swept every track
	fmt.Println("All notes off.")
}
