// internal/config/validate_test.go
package config

import "testing"

// helper to build a minimal valid config quickly
func valid() *Config {
	return &Config{
		Controller: ControllerConfig{
			Board: BoardConfig{
				Device:     "/dev/ttyACM0",
				SelectPins: []uint8{2, 3, 4},
				ChipPins:   []uint8{5, 6, 7, 8},
			},
		},
	}
}

// ---- tests ----

func TestValidate_MinimalConfig(t *testing.T) {
	if err := Validate(valid()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DeviceRequired(t *testing.T) {
	cfg := valid()
	cfg.Controller.Board.Device = ""

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for missing device, got nil")
	}
}

func TestValidate_ThreeSelectPins(t *testing.T) {
	cfg := valid()
	cfg.Controller.Board.SelectPins = []uint8{2, 3}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for 2 select pins, got nil")
	}
}

func TestValidate_ChipPinBounds(t *testing.T) {
	cfg := valid()
	cfg.Controller.Board.ChipPins = nil
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for zero chips, got nil")
	}

	cfg = valid()
	cfg.Controller.Board.ChipPins = []uint8{5, 6, 7, 8, 9, 10, 11, 12, 13}
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for nine chips, got nil")
	}
}

func TestValidate_PinCollisionDetected(t *testing.T) {
	cfg := valid()
	cfg.Controller.Board.ChipPins = []uint8{2, 6, 7, 8} // 2 is a select pin

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected pin collision error, got nil")
	}

	cfg = valid()
	cfg.Controller.LEDs = &LEDConfig{UpPin: 5, DownPin: 9} // 5 is a chip pin
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected LED pin collision error, got nil")
	}
}

func TestValidate_KeymapLongerThanWiring(t *testing.T) {
	cfg := valid()
	cfg.Controller.Board.ChipPins = []uint8{5} // 8 channels
	cfg.Controller.Keymap = []int{255, 254, 0, 1, 2, 3, 4, 5, 6}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for keymap past wiring, got nil")
	}
}

func TestValidate_KeymapBadRole(t *testing.T) {
	cfg := valid()
	cfg.Controller.Keymap = []int{255, 254, 0, 99}

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for invalid role, got nil")
	}
}

func TestValidate_MIDIRanges(t *testing.T) {
	cfg := valid()
	cfg.Controller.MIDI.Channel = 17
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for channel 17, got nil")
	}

	cfg = valid()
	cfg.Controller.MIDI.Velocity = 128
	if err := Validate(cfg); err == nil {
		t.Fatalf("expected error for velocity 128, got nil")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := valid()
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Normalize(cfg)

	c := cfg.Controller
	if c.Scan.DebounceMs != 20 || c.Scan.SettleUs != 50 {
		t.Fatalf("scan defaults wrong: %+v", c.Scan)
	}
	if c.MIDI.Channel != 1 || c.MIDI.Velocity != 127 {
		t.Fatalf("midi defaults wrong: %+v", c.MIDI)
	}
	if c.Transmit.IntervalMs != 1 || c.Transmit.QueueCapacity != 128 {
		t.Fatalf("transmit defaults wrong: %+v", c.Transmit)
	}
	if len(c.Keymap) != 27 || c.Keymap[0] != 255 || c.Keymap[1] != 254 || c.Keymap[26] != 24 {
		t.Fatalf("default keymap wrong: %v", c.Keymap)
	}
	if c.Board.Baud != 57600 {
		t.Fatalf("baud default wrong: %d", c.Board.Baud)
	}
	if c.LEDs != nil {
		t.Fatalf("LEDs must stay opt-in")
	}
}
