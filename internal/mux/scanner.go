// internal/mux/scanner.go
package mux

import (
	"errors"
	"time"
)

// Config is the minimal runtime config the scanner needs.
type Config struct {
	// Debounce is the minimum quiet time after an accepted state change
	// before the next change on the same channel is trusted.
	Debounce time.Duration

	// Settle is how long the multiplexer's analog switch needs after the
	// address lines change before the common pin is valid. Hardware
	// constant, not tunable by the event logic.
	Settle time.Duration
}

const (
	DefaultDebounce = 20 * time.Millisecond
	DefaultSettle   = 50 * time.Microsecond
)

// Scanner cycles the address lines over all 8 channels, samples every
// attached chip's common pin, debounces each flat channel and dispatches
// edges to the sink. One scanner owns its select lines for the process
// lifetime.
type Scanner struct {
	cfg   Config
	sel   []OutputLine
	chips []InputLine
	sink  EventSink

	states     [MaxChannels]SwitchState
	lastChange [MaxChannels]time.Time

	// Injectable for deterministic tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a scanner with immutable config. sel must be exactly the
// three address lines, least-significant bit first.
func New(cfg Config, sel []OutputLine, sink EventSink) (*Scanner, error) {
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Settle == 0 {
		cfg.Settle = DefaultSettle
	}
	if cfg.Debounce < 0 {
		return nil, errors.New("mux: debounce must be > 0")
	}
	if cfg.Settle < 0 {
		return nil, errors.New("mux: settle must be >= 0")
	}
	if len(sel) != selectBits {
		return nil, errors.New("mux: exactly 3 select lines required")
	}
	for _, line := range sel {
		if line == nil {
			return nil, errors.New("mux: nil select line")
		}
	}
	if sink == nil {
		return nil, errors.New("mux: event sink required")
	}

	s := &Scanner{
		cfg:   cfg,
		sel:   sel,
		sink:  sink,
		now:   time.Now,
		sleep: time.Sleep,
	}

	// All channels start released. Backdating lastChange by one debounce
	// interval means the very first real transition is never suppressed.
	start := s.now().Add(-cfg.Debounce)
	for i := range s.lastChange {
		s.states[i] = High
		s.lastChange[i] = start
	}

	return s, nil
}

// AddChip attaches one more input chip sharing the select lines. Chip
// offsets are assigned in call order. Only digital input chips exist today;
// a digital-output mode would hang off a second constructor here.
func (s *Scanner) AddChip(common InputLine) error {
	if common == nil {
		return errors.New("mux: nil chip common line")
	}
	if len(s.chips) >= MaxChips {
		return errors.New("mux: at most 8 chips supported")
	}
	s.chips = append(s.chips, common)
	return nil
}

// Chips reports how many chips are attached.
func (s *Scanner) Chips() int { return len(s.chips) }

// selectChannel drives the address lines with the 3-bit binary encoding of
// ch, least-significant bit first.
func (s *Scanner) selectChannel(ch uint8) {
	for i, line := range s.sel {
		line.Set((ch>>i)&1 == 1)
	}
}

// ScanOnce performs exactly one pass over all 8 channels of every chip.
func (s *Scanner) ScanOnce() {
	for ch := uint8(0); ch < ChannelsPerChip; ch++ {
		s.selectChannel(ch)
		s.sleep(s.cfg.Settle)
		for chipOffset, chip := range s.chips {
			s.observe(chip.IsLow(), int(ch), chipOffset)
		}
	}
}

// observe runs the per-channel debounce state machine on one raw sample.
//
// Flat time-window policy: a differing sample inside the debounce window is
// ignored and does NOT reset the timer. The window is measured from the
// last accepted change, so accepted transitions on one channel are always
// at least one debounce interval apart.
func (s *Scanner) observe(low bool, channel, chipOffset int) {
	index := channel + ChannelsPerChip*chipOffset

	expected := High
	if low {
		expected = Low
	}
	if expected == s.states[index] {
		return
	}

	now := s.now()
	if now.Sub(s.lastChange[index]) < s.cfg.Debounce {
		return
	}

	s.states[index] = expected
	s.lastChange[index] = now

	if expected == Low {
		s.sink.OnPress(index)
	} else {
		s.sink.OnRelease(index)
	}
}
