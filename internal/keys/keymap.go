// internal/keys/keymap.go
package keys

import "fmt"

// Channel roles. Values 0..NumKeys-1 are musical key indices; the two
// sentinels are momentary octave-shift buttons. Wiring-defined, immutable
// at runtime.
const (
	RoleOctaveUp   = 255
	RoleOctaveDown = 254
)

const (
	// NumKeys is the size of the musical key space (two octaves plus one).
	NumKeys = 25

	NotesPerOctave = 12

	MinOctave     = 0
	MaxOctave     = 8
	DefaultOctave = 4
)

// Keymap maps a flat channel index to its role. Channels past the end of
// the map are unwired and produce nothing.
type Keymap []int

// DefaultKeymap is the reference wiring order: octave up, octave down,
// then keys 0..24 left to right.
func DefaultKeymap() Keymap {
	m := Keymap{RoleOctaveUp, RoleOctaveDown}
	for k := 0; k < NumKeys; k++ {
		m = append(m, k)
	}
	return m
}

// Validate checks that every entry is a known role and that no musical key
// is wired to two channels.
func (m Keymap) Validate() error {
	seen := make(map[int]int) // key -> channel index
	for i, role := range m {
		switch {
		case role == RoleOctaveUp, role == RoleOctaveDown:
			// momentary controls may appear more than once
		case role >= 0 && role < NumKeys:
			if prev, dup := seen[role]; dup {
				return fmt.Errorf("keys: key %d wired to both channel %d and %d", role, prev, i)
			}
			seen[role] = i
		default:
			return fmt.Errorf("keys: channel %d has invalid role %d", i, role)
		}
	}
	return nil
}
