// internal/gpio/lines.go
package gpio

// OutputLine is one digital output pin. Satisfies mux.OutputLine and
// indicator.Line.
type OutputLine struct {
	b   *Board
	pin uint8
}

// Set drives the pin high or low.
func (l *OutputLine) Set(high bool) {
	l.b.setLevel(l.pin, high)
}

// InputLine is one pulled-up digital input pin. Satisfies mux.InputLine.
type InputLine struct {
	b   *Board
	pin uint8
}

// IsLow reports true when the pin is pulled low (switch closed).
func (l *InputLine) IsLow() bool {
	return !l.b.level(l.pin)
}
