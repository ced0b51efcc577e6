// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/RobbyVocke/muxkeys/internal/keys"
	"github.com/RobbyVocke/muxkeys/internal/mux"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	c := &cfg.Controller

	// ------------------------------------------------------------
	// BOARD WIRING
	// ------------------------------------------------------------

	if c.Board.Device == "" {
		return fmt.Errorf("config: board.device required")
	}
	if len(c.Board.SelectPins) != 3 {
		return fmt.Errorf("config: board.select_pins must list exactly 3 pins, got %d",
			len(c.Board.SelectPins))
	}
	if n := len(c.Board.ChipPins); n < 1 || n > mux.MaxChips {
		return fmt.Errorf("config: board.chip_pins must list 1-%d pins, got %d",
			mux.MaxChips, n)
	}
	if c.Board.Baud < 0 {
		return fmt.Errorf("config: board.baud must be positive")
	}

	// No pin may serve two purposes.
	owner := make(map[uint8]string)
	claim := func(pin uint8, what string) error {
		if prev, taken := owner[pin]; taken {
			return fmt.Errorf("config: pin %d wired as both %s and %s", pin, prev, what)
		}
		owner[pin] = what
		return nil
	}
	for _, p := range c.Board.SelectPins {
		if err := claim(p, "select line"); err != nil {
			return err
		}
	}
	for _, p := range c.Board.ChipPins {
		if err := claim(p, "chip common"); err != nil {
			return err
		}
	}
	if c.LEDs != nil {
		if err := claim(c.LEDs.UpPin, "up LED"); err != nil {
			return err
		}
		if err := claim(c.LEDs.DownPin, "down LED"); err != nil {
			return err
		}
	}

	// ------------------------------------------------------------
	// SCAN TIMING
	// ------------------------------------------------------------

	if c.Scan.DebounceMs < 0 {
		return fmt.Errorf("config: scan.debounce_ms must be >= 0")
	}
	if c.Scan.SettleUs < 0 {
		return fmt.Errorf("config: scan.settle_us must be >= 0")
	}

	// ------------------------------------------------------------
	// KEYMAP
	// ------------------------------------------------------------

	if len(c.Keymap) > 0 {
		if wired := len(c.Board.ChipPins) * mux.ChannelsPerChip; len(c.Keymap) > wired {
			return fmt.Errorf("config: keymap has %d entries but wiring provides %d channels",
				len(c.Keymap), wired)
		}
		if err := keys.Keymap(c.Keymap).Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}

	// ------------------------------------------------------------
	// MIDI + TRANSMIT
	// ------------------------------------------------------------

	if c.MIDI.Channel != 0 && (c.MIDI.Channel < 1 || c.MIDI.Channel > 16) {
		return fmt.Errorf("config: midi.channel must be 1-16, got %d", c.MIDI.Channel)
	}
	if c.MIDI.Velocity < 0 || c.MIDI.Velocity > 127 {
		return fmt.Errorf("config: midi.velocity must be 0-127, got %d", c.MIDI.Velocity)
	}
	if c.Transmit.IntervalMs < 0 {
		return fmt.Errorf("config: transmit.interval_ms must be >= 0")
	}
	if c.Transmit.QueueCapacity < 0 {
		return fmt.Errorf("config: transmit.queue_capacity must be >= 0")
	}

	return nil
}
