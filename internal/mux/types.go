// internal/mux/types.go
package mux

// SwitchState is the stable, debounced state of one multiplexed channel.
// With pull-up wiring High means released and Low means pressed.
type SwitchState uint8

const (
	High SwitchState = iota
	Low
)

// OutputLine is one GPIO output. The scanner drives three of these as the
// multiplexer's address bits.
type OutputLine interface {
	Set(high bool)
}

// InputLine is one chip's common pin. IsLow reports true when the selected
// channel is pulled low (pressed).
type InputLine interface {
	IsLow() bool
}

// EventSink receives confirmed edges. Index is the flat channel index
// (channel + 8*chipOffset). Implementations run synchronously inside the
// scan pass and must not block.
type EventSink interface {
	OnPress(index int)   // falling edge, High -> Low
	OnRelease(index int) // rising edge, Low -> High
}

const (
	// ChannelsPerChip is fixed by the 3 address bits of a 4051.
	ChannelsPerChip = 8

	// MaxChips is how many chips may share the select lines.
	MaxChips = 8

	// MaxChannels is the flat channel index space.
	MaxChannels = ChannelsPerChip * MaxChips

	selectBits = 3
)
