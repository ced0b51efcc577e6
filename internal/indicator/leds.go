// internal/indicator/leds.go

// Package indicator renders the current octave on two LEDs. It is a pure
// derived display driven once per transmission-loop tick: above the home
// octave the up LED blinks, faster the further out; below it the down LED
// does the same; at home both stay dark.
package indicator

// Line is the exact contract the indicator needs from a GPIO output.
type Line interface {
	Set(high bool)
}

// HomeOctave is the octave at which both LEDs are dark.
const HomeOctave = 4

// Blink periods in ticks: (12 - octave) * blinkScale above home,
// (4 + octave) * blinkScale below. Higher distance from home means a
// smaller factor and a faster blink.
const blinkScale = 50

// LEDs tracks blink phase across ticks.
type LEDs struct {
	up   Line
	down Line

	upTicks   int
	downTicks int
	upLit     bool
	downLit   bool
}

// New creates the indicator over the two LED lines.
func New(up, down Line) *LEDs {
	return &LEDs{up: up, down: down}
}

// ShowOctave advances the display by one tick for the given octave.
// Implements transmit.Indicator.
func (l *LEDs) ShowOctave(octave int) {
	switch {
	case octave > HomeOctave:
		l.setDown(false)
		l.upTicks++
		if l.upTicks > (12-octave)*blinkScale {
			l.setUp(!l.upLit)
			l.upTicks = 0
		}

	case octave < HomeOctave:
		l.setUp(false)
		l.downTicks++
		if l.downTicks > (4+octave)*blinkScale {
			l.setDown(!l.downLit)
			l.downTicks = 0
		}

	default:
		l.setUp(false)
		l.setDown(false)
	}
}

func (l *LEDs) setUp(lit bool) {
	if l.upLit != lit {
		l.up.Set(lit)
		l.upLit = lit
	}
}

func (l *LEDs) setDown(lit bool) {
	if l.downLit != lit {
		l.down.Set(lit)
		l.downLit = lit
	}
}
