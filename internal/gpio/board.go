// internal/gpio/board.go

// Package gpio drives discrete input and output lines on a Firmata board
// attached over a serial link. It implements just enough of the protocol
// for the scanner: pin modes, digital port writes and digital port reports.
package gpio

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// Firmata command bytes (from Firmata.h).
const (
	digitalMessage byte = 0x90 // two-byte port bitmask follows
	reportDigital  byte = 0xD0 // enable digital input by port
	setPinMode     byte = 0xF4
	startSysex     byte = 0xF0
	endSysex       byte = 0xF7

	modeOutput      byte = 0x01
	modeInputPullup byte = 0x0B
)

// DefaultBaud is the rate standard Firmata sketches listen at.
const DefaultBaud = 57600

const (
	maxPins  = 128
	pinsPort = 8
)

// Board is one Firmata device. All writes go through one mutex so frames
// never interleave; reported input levels are updated by a background
// reader.
type Board struct {
	mu   sync.Mutex
	link io.ReadWriteCloser
	log  *zap.Logger

	portMask [maxPins / pinsPort]byte // last written output bitmask per port
	levels   [maxPins]bool            // latest reported level, true = high

	// incoming frame parser state
	header   byte
	frame    [2]byte
	frameLen int
	inSysex  bool
}

// Open connects to the board on the named serial device and starts the
// report reader.
func Open(device string, baud int, log *zap.Logger) (*Board, error) {
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("gpio: open %s: %w", device, err)
	}
	return New(port, log), nil
}

// New wraps an already-open link. Used by Open and by tests.
func New(link io.ReadWriteCloser, log *zap.Logger) *Board {
	if log == nil {
		log = zap.NewNop()
	}
	b := &Board{link: link, log: log}

	// Inputs idle high under pull-up wiring; starting released avoids a
	// burst of spurious presses before the first report arrives.
	for i := range b.levels {
		b.levels[i] = true
	}

	go b.readLoop()
	return b
}

// Close closes the serial link; the reader exits on the resulting error.
func (b *Board) Close() error {
	return b.link.Close()
}

// Output configures pin as a digital output and returns its line.
func (b *Board) Output(pin uint8) (*OutputLine, error) {
	if int(pin) >= maxPins {
		return nil, fmt.Errorf("gpio: pin %d out of range", pin)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.write(setPinMode, pin, modeOutput); err != nil {
		return nil, err
	}
	return &OutputLine{b: b, pin: pin}, nil
}

// InputPullup configures pin as a pulled-up digital input, enables
// reporting for its port and returns its line.
func (b *Board) InputPullup(pin uint8) (*InputLine, error) {
	if int(pin) >= maxPins {
		return nil, fmt.Errorf("gpio: pin %d out of range", pin)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.write(setPinMode, pin, modeInputPullup); err != nil {
		return nil, err
	}
	if err := b.write(reportDigital|(pin>>3), 1); err != nil {
		return nil, err
	}
	return &InputLine{b: b, pin: pin}, nil
}

// write sends one frame. Callers hold b.mu.
func (b *Board) write(frame ...byte) error {
	if _, err := b.link.Write(frame); err != nil {
		return fmt.Errorf("gpio: write: %w", err)
	}
	return nil
}

// setLevel updates one output bit and rewrites its port bitmask.
func (b *Board) setLevel(pin uint8, high bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	port := pin >> 3
	bit := byte(1) << (pin & 0x07)
	if high {
		b.portMask[port] |= bit
	} else {
		b.portMask[port] &^= bit
	}

	mask := b.portMask[port]
	if err := b.write(digitalMessage|port, mask&0x7F, (mask>>7)&0x7F); err != nil {
		// Address lines are rewritten every scan pass; one lost frame
		// self-heals on the next channel select.
		b.log.Warn("digital write failed", zap.Uint8("pin", pin), zap.Error(err))
	}
}

// level reports the last known state of an input pin.
func (b *Board) level(pin uint8) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.levels[pin]
}

func (b *Board) readLoop() {
	buf := make([]byte, 64)
	for {
		n, err := b.link.Read(buf)
		if n > 0 {
			b.feed(buf[:n])
		}
		if err != nil {
			b.log.Debug("gpio reader stopped", zap.Error(err))
			return
		}
	}
}

// feed runs the incoming bytes through the frame parser. Only digital
// report frames matter; sysex payloads are skipped wholesale and anything
// else is ignored.
func (b *Board) feed(data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range data {
		b.consume(c)
	}
}

func (b *Board) consume(c byte) {
	if b.inSysex {
		if c == endSysex {
			b.inSysex = false
		}
		return
	}

	if b.header == 0 {
		switch {
		case c&0xF0 == digitalMessage:
			b.header = c
			b.frameLen = 0
		case c == startSysex:
			b.inSysex = true
		}
		return
	}

	b.frame[b.frameLen] = c
	b.frameLen++
	if b.frameLen < 2 {
		return
	}

	port := b.header & 0x0F
	val := uint16(b.frame[0]) | uint16(b.frame[1])<<7
	for i := uint8(0); i < pinsPort; i++ {
		pin := int(port)*pinsPort + int(i)
		if pin < maxPins {
			b.levels[pin] = val>>i&1 == 1
		}
	}
	b.header = 0
}
