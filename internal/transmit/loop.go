// internal/transmit/loop.go
package transmit

import (
	"context"
	"errors"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"go.uber.org/zap"

	"github.com/RobbyVocke/muxkeys/internal/events"
)

// Loop drains both event queues on a fixed cadence, renders each note into
// its wire message and hands it to the sender. A failed send puts the note
// back at the tail of its queue, to be retried next tick: this can reorder
// a retried note behind concurrently-produced ones of the same kind but
// never silently loses it (short of queue overflow).
type Loop struct {
	cfg  Config
	onQ  *events.Queue
	offQ *events.Queue
	tx   Sender
	oct  OctaveSource
	ind  Indicator
	log  *zap.Logger

	onBuf  []events.Note
	offBuf []events.Note
}

// New creates a transmission loop with immutable config. Indicator and
// octave source are optional; everything else is required.
func New(cfg Config, onQ, offQ *events.Queue, tx Sender, log *zap.Logger) (*Loop, error) {
	if cfg.Channel > 15 {
		return nil, errors.New("transmit: channel must be 0-15")
	}
	if cfg.Velocity == 0 {
		cfg.Velocity = DefaultVelocity
	}
	if cfg.Velocity > 127 {
		return nil, errors.New("transmit: velocity must be 1-127")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if onQ == nil || offQ == nil {
		return nil, errors.New("transmit: both event queues required")
	}
	if tx == nil {
		return nil, errors.New("transmit: sender required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Loop{
		cfg:  cfg,
		onQ:  onQ,
		offQ: offQ,
		tx:   tx,
		log:  log,
	}, nil
}

// SetIndicator attaches the octave display, updated once per tick.
func (l *Loop) SetIndicator(ind Indicator, oct OctaveSource) {
	l.ind = ind
	l.oct = oct
}

// RunOnce performs exactly one loop iteration: note-ons first, then
// note-offs, then the indicator.
func (l *Loop) RunOnce() {
	l.onBuf = l.onQ.Drain(l.onBuf[:0])
	for _, n := range l.onBuf {
		l.deliver(l.onQ, n, midi.NoteOn(l.cfg.Channel, uint8(n), l.cfg.Velocity))
	}

	l.offBuf = l.offQ.Drain(l.offBuf[:0])
	for _, n := range l.offBuf {
		l.deliver(l.offQ, n, midi.NoteOff(l.cfg.Channel, uint8(n)))
	}

	if l.ind != nil && l.oct != nil {
		l.ind.ShowOctave(l.oct.Octave())
	}
}

// deliver sends one message, re-queuing the note at the tail on failure.
func (l *Loop) deliver(q *events.Queue, n events.Note, msg midi.Message) {
	err := l.tx.Send(msg)
	if err == nil {
		return
	}
	if !q.Push(n) {
		l.log.Warn("retry queue full, note lost",
			zap.Uint8("note", uint8(n)),
			zap.Error(err),
		)
		return
	}
	l.log.Debug("send failed, note re-queued",
		zap.Uint8("note", uint8(n)),
		zap.Error(err),
	)
}

// Run starts the ticker loop. One goroutine per loop; runs until ctx is
// cancelled. A permanently unavailable sender degrades to indefinite
// retrying, never to an abort.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.RunOnce()
		}
	}
}
