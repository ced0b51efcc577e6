// internal/transmit/types.go
package transmit

import (
	"time"

	"gitlab.com/gomidi/midi/v2"
)

// Sender delivers one rendered MIDI message. A non-nil error means the
// transport could not take the message right now ("try again later");
// it is never fatal.
type Sender interface {
	Send(msg midi.Message) error
}

// OctaveSource exposes the current octave for display purposes.
type OctaveSource interface {
	Octave() int
}

// Indicator is a derived visual display, fed once per loop tick. Purely
// cosmetic; it is outside the event pipeline.
type Indicator interface {
	ShowOctave(octave int)
}

// Config is the minimal runtime config the loop needs.
type Config struct {
	// Channel is the MIDI channel (0-15) stamped on every message.
	Channel uint8

	// Velocity is the fixed note-on velocity.
	Velocity uint8

	// Interval is the polling cadence of the loop.
	Interval time.Duration
}

const (
	DefaultVelocity = 127
	DefaultInterval = time.Millisecond
)
