// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Controller ControllerConfig `yaml:"controller"`
}

type ControllerConfig struct {
	Board    BoardConfig    `yaml:"board"`
	Scan     ScanConfig     `yaml:"scan"`
	Keymap   []int          `yaml:"keymap"`
	MIDI     MIDIConfig     `yaml:"midi"`
	Transmit TransmitConfig `yaml:"transmit"`

	// LEDs is opt-in; nil disables the octave indicator.
	LEDs *LEDConfig `yaml:"leds"`
}

// ---- BOARD ----

type BoardConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`

	// SelectPins are the three multiplexer address lines, LSB first.
	SelectPins []uint8 `yaml:"select_pins"`

	// ChipPins are the common pins of the attached chips; order defines
	// chip offsets.
	ChipPins []uint8 `yaml:"chip_pins"`
}

// ---- SCAN ----

type ScanConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
	SettleUs   int `yaml:"settle_us"`
}

// ---- MIDI ----

type MIDIConfig struct {
	// PortMatch picks the output port by substring; empty takes the first.
	PortMatch string `yaml:"port_match"`

	// Channel is 1-based (1-16) as printed on hardware.
	Channel  int `yaml:"channel"`
	Velocity int `yaml:"velocity"`
}

// ---- TRANSMIT ----

type TransmitConfig struct {
	IntervalMs    int `yaml:"interval_ms"`
	QueueCapacity int `yaml:"queue_capacity"`
}

// ---- LEDS ----

type LEDConfig struct {
	UpPin   uint8 `yaml:"up_pin"`
	DownPin uint8 `yaml:"down_pin"`
}

// Load reads and parses a config file. Validation is a separate step.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
