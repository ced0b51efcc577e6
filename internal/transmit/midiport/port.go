// internal/transmit/midiport/port.go
package midiport

import (
	"errors"
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Port implements transmit.Sender on top of an rtmidi output port.
// This adapter is delivery-only: it owns the driver lifecycle and moves
// rendered bytes, nothing else.
type Port struct {
	drv  *rtmididrv.Driver
	out  drivers.Out
	send func(midi.Message) error
}

// Open initializes the rtmidi driver and opens the first output port whose
// name contains match (case-insensitive). An empty match takes the first
// available port.
func Open(match string) (*Port, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("midiport: driver init: %w", err)
	}

	outs, err := drv.Outs()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("midiport: list outputs: %w", err)
	}

	var out drivers.Out
	for _, o := range outs {
		if match == "" || containsCI(o.String(), match) {
			out = o
			break
		}
	}
	if out == nil {
		drv.Close()
		if match == "" {
			return nil, errors.New("midiport: no MIDI outputs available")
		}
		return nil, fmt.Errorf("midiport: no MIDI output matching %q", match)
	}

	if err := out.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("midiport: open %q: %w", out.String(), err)
	}

	send, err := midi.SendTo(out)
	if err != nil {
		_ = out.Close()
		drv.Close()
		return nil, fmt.Errorf("midiport: sender for %q: %w", out.String(), err)
	}

	return &Port{drv: drv, out: out, send: send}, nil
}

// Name reports the connected output port name.
func (p *Port) Name() string { return p.out.String() }

// Send delivers one rendered message. Errors are transient from the
// pipeline's point of view; the transmission loop retries.
func (p *Port) Send(msg midi.Message) error {
	return p.send(msg)
}

// Close closes the output port and shuts the driver down.
func (p *Port) Close() error {
	var last error
	if p.out != nil {
		last = p.out.Close()
	}
	if p.drv != nil {
		p.drv.Close()
	}
	return last
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
