package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"acidseq/config"
	"acidseq/debug"
)

// Ports owns one virtual MIDI output per configured track and sends events
// to them synchronously.
type Ports struct {
	drv      *rtmididrv.Driver
	outs     map[string]drivers.Out
	senders  map[string]func(gomidi.Message) error
	channels map[string]uint8
}

// OpenPorts creates a virtual output for every track. Any failure closes
// whatever was already opened and is fatal to the caller: playback must not
// start with a missing endpoint.
func OpenPorts(tracks []config.TrackConfig) (*Ports, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("create MIDI driver: %w", err)
	}

	p := &Ports{
		drv:      drv,
		outs:     make(map[string]drivers.Out, len(tracks)),
		senders:  make(map[string]func(gomidi.Message) error, len(tracks)),
		channels: make(map[string]uint8, len(tracks)),
	}

	for _, t := range tracks {
		out, err := drv.OpenVirtualOut(t.PortName)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("open virtual port %q: %w", t.PortName, err)
		}
		sender, err := gomidi.SendTo(out)
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("attach sender to %q: %w", t.PortName, err)
		}
		p.outs[t.Name] = out
		p.senders[t.Name] = sender
		p.channels[t.Name] = t.Channel - 1
		debug.Log("ports", "opened %s for track %s (channel %d)", t.PortName, t.Name, t.Channel)
	}

	return p, nil
}

// Send applies one event to its track's port before returning.
func (p *Ports) Send(ev Event) error {
	sender, ok := p.senders[ev.Track]
	if !ok {
		return fmt.Errorf("no output for track %q", ev.Track)
	}
	ch := p.channels[ev.Track]

	var msg gomidi.Message
	switch ev.Action {
	case NoteOn:
		msg = gomidi.NoteOn(ch, ev.Value, ev.Param)
	case NoteOff:
		msg = gomidi.NoteOff(ch, ev.Value)
	case ControlChange:
		msg = gomidi.ControlChange(ch, ev.Value, ev.Param)
	default:
		return fmt.Errorf("unknown action 0x%02X", uint8(ev.Action))
	}

	if err := sender(msg); err != nil {
		return fmt.Errorf("send to track %q: %w", ev.Track, err)
	}
	return nil
}

// Close closes every port and the driver.
func (p *Ports) Close() {
	for name, out := range p.outs {
		out.Close()
		delete(p.outs, name)
	}
	if p.drv != nil {
		p.drv.Close()
		p.drv = nil
	}
}
