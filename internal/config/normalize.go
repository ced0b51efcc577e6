// internal/config/normalize.go
package config

import (
	"github.com/RobbyVocke/muxkeys/internal/events"
	"github.com/RobbyVocke/muxkeys/internal/gpio"
	"github.com/RobbyVocke/muxkeys/internal/keys"
)

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	c := &cfg.Controller

	if c.Board.Baud == 0 {
		c.Board.Baud = gpio.DefaultBaud
	}

	if c.Scan.DebounceMs == 0 {
		c.Scan.DebounceMs = 20
	}
	if c.Scan.SettleUs == 0 {
		c.Scan.SettleUs = 50
	}

	// Reference wiring: octave up, octave down, then keys left to right.
	if len(c.Keymap) == 0 {
		c.Keymap = []int(keys.DefaultKeymap())
	}

	if c.MIDI.Channel == 0 {
		c.MIDI.Channel = 1
	}
	if c.MIDI.Velocity == 0 {
		c.MIDI.Velocity = 127
	}

	if c.Transmit.IntervalMs == 0 {
		c.Transmit.IntervalMs = 1
	}
	if c.Transmit.QueueCapacity == 0 {
		c.Transmit.QueueCapacity = events.DefaultCapacity
	}
}
