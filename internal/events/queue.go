// internal/events/queue.go
package events

// Note is a MIDI note number (0-127), already shifted to its octave.
type Note uint8

// DefaultCapacity is the per-queue bound used when config does not override it.
const DefaultCapacity = 128

// Queue is a bounded FIFO of notes shared between the scanning task
// (producer) and the transmission loop (consumer).
//
// It is backed by a buffered channel, so the two sides never share a lock
// and a producer can never deadlock against a draining consumer. Order is
// FIFO; a retried note re-enters at the tail, behind anything that arrived
// while it was in flight.
type Queue struct {
	ch chan Note
}

// New creates a queue holding at most capacity notes.
func New(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{ch: make(chan Note, capacity)}
}

// Push appends a note at the tail. A full queue drops the note and returns
// false; bounded best-effort, never blocks.
func (q *Queue) Push(n Note) bool {
	select {
	case q.ch <- n:
		return true
	default:
		return false
	}
}

// Drain appends everything currently queued onto dst and returns it,
// leaving the queue empty. Never blocks; notes pushed while the returned
// batch is being processed land in the next drain.
func (q *Queue) Drain(dst []Note) []Note {
	for {
		select {
		case n := <-q.ch:
			dst = append(dst, n)
		default:
			return dst
		}
	}
}

// Len reports how many notes are currently queued.
func (q *Queue) Len() int { return len(q.ch) }

// Cap reports the queue bound.
func (q *Queue) Cap() int { return cap(q.ch) }
