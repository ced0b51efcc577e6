// internal/keys/state.go
package keys

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/RobbyVocke/muxkeys/internal/events"
)

// noNote marks a key that is not currently held. Kept out of the MIDI note
// range on purpose: a spurious release can never leak a valid-looking note.
const noNote = -1

// State is the single source of truth shared by the scanning task and the
// transmission loop: which note each key is holding and the current octave.
// It implements mux.EventSink; all mutation happens under one mutex inside
// the edge callbacks.
type State struct {
	mu sync.Mutex

	keymap Keymap
	onQ    *events.Queue
	offQ   *events.Queue
	log    *zap.Logger

	// keyNote remembers the exact note each press produced so the matching
	// release reports it even if the octave changed while the key was held.
	keyNote [NumKeys]int
	octave  int
}

// NewState creates the key/octave state machine producing into the two
// event queues.
func NewState(keymap Keymap, onQ, offQ *events.Queue, log *zap.Logger) (*State, error) {
	if err := keymap.Validate(); err != nil {
		return nil, err
	}
	if onQ == nil || offQ == nil {
		return nil, errors.New("keys: both event queues required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &State{
		keymap: keymap,
		onQ:    onQ,
		offQ:   offQ,
		log:    log,
		octave: DefaultOctave,
	}
	for k := range s.keyNote {
		s.keyNote[k] = noNote
	}
	return s, nil
}

// OnPress handles a falling edge on a channel. Octave buttons shift the
// octave (clamped, no event); a key computes its note at the current octave,
// records it and queues a note-on.
func (s *State) OnPress(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.keymap) {
		return // unwired channel
	}

	switch role := s.keymap[index]; role {
	case RoleOctaveUp:
		if s.octave < MaxOctave {
			s.octave++
		}
	case RoleOctaveDown:
		if s.octave > MinOctave {
			s.octave--
		}
	default:
		note := role + s.octave*NotesPerOctave
		s.keyNote[role] = note
		if !s.onQ.Push(events.Note(note)) {
			s.log.Warn("note-on queue full, event dropped", zap.Int("note", note))
		}
	}
}

// OnRelease handles a rising edge. Octave buttons are momentary and do
// nothing on release. A key queues a note-off for the note recorded at its
// press; a release with no recorded note (spurious bounce, state reset) is
// filtered out rather than forwarded as a sentinel.
func (s *State) OnRelease(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.keymap) {
		return
	}

	role := s.keymap[index]
	if role == RoleOctaveUp || role == RoleOctaveDown {
		return
	}

	note := s.keyNote[role]
	if note == noNote {
		s.log.Debug("release without matching press, filtered", zap.Int("key", role))
		return
	}
	s.keyNote[role] = noNote

	if !s.offQ.Push(events.Note(note)) {
		s.log.Warn("note-off queue full, event dropped", zap.Int("note", note))
	}
}

// Octave reports the current octave. Used by the transmission loop to drive
// the visual indicator.
func (s *State) Octave() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.octave
}
