// internal/mux/scanner_test.go
package mux

import (
	"testing"
	"time"
)

type fakeLine struct {
	high bool
	log  []bool
}

func (f *fakeLine) Set(high bool) {
	f.high = high
	f.log = append(f.log, high)
}

// fakeChip answers IsLow based on the currently selected channel, decoded
// from the same select lines the scanner drives.
type fakeChip struct {
	sel [3]*fakeLine
	low map[uint8]bool // channel -> pressed
}

func (f *fakeChip) selected() uint8 {
	var ch uint8
	for i, line := range f.sel {
		if line.high {
			ch |= 1 << i
		}
	}
	return ch
}

func (f *fakeChip) IsLow() bool { return f.low[f.selected()] }

type fakeSink struct {
	presses  []int
	releases []int
}

func (f *fakeSink) OnPress(index int)   { f.presses = append(f.presses, index) }
func (f *fakeSink) OnRelease(index int) { f.releases = append(f.releases, index) }

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestScanner(t *testing.T, sink EventSink) (*Scanner, [3]*fakeLine, *fakeClock) {
	t.Helper()

	var sel [3]*fakeLine
	lines := make([]OutputLine, 3)
	for i := range sel {
		sel[i] = &fakeLine{}
		lines[i] = sel[i]
	}

	sc, err := New(Config{Debounce: 20 * time.Millisecond}, lines, sink)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	clk := &fakeClock{t: time.Unix(1000, 0)}
	sc.now = clk.now
	sc.sleep = func(time.Duration) {}
	// Re-backdate against the fake clock so the first transition passes,
	// mirroring what New does against the real clock.
	for i := range sc.lastChange {
		sc.lastChange[i] = clk.t.Add(-sc.cfg.Debounce)
	}

	return sc, sel, clk
}

func TestNew_Validation(t *testing.T) {
	lines := []OutputLine{&fakeLine{}, &fakeLine{}}
	if _, err := New(Config{}, lines, &fakeSink{}); err == nil {
		t.Fatalf("expected error for 2 select lines")
	}

	lines = append(lines, &fakeLine{})
	if _, err := New(Config{}, lines, nil); err == nil {
		t.Fatalf("expected error for nil sink")
	}

	sc, err := New(Config{}, lines, &fakeSink{})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if sc.cfg.Debounce != DefaultDebounce || sc.cfg.Settle != DefaultSettle {
		t.Fatalf("defaults not applied: %+v", sc.cfg)
	}
}

func TestAddChip_CapacityEight(t *testing.T) {
	sc, sel, _ := newTestScanner(t, &fakeSink{})

	for i := 0; i < MaxChips; i++ {
		if err := sc.AddChip(&fakeChip{sel: sel}); err != nil {
			t.Fatalf("AddChip(%d) err=%v", i, err)
		}
	}
	if err := sc.AddChip(&fakeChip{sel: sel}); err == nil {
		t.Fatalf("ninth chip must be rejected")
	}
}

func TestSelectChannel_BitsLSBFirst(t *testing.T) {
	sc, sel, _ := newTestScanner(t, &fakeSink{})

	for ch := uint8(0); ch < ChannelsPerChip; ch++ {
		sc.selectChannel(ch)
		for bit := 0; bit < 3; bit++ {
			want := (ch>>bit)&1 == 1
			if sel[bit].high != want {
				t.Fatalf("channel %d: select bit %d = %v, want %v", ch, bit, sel[bit].high, want)
			}
		}
	}
}

func TestObserve_FirstTransitionAccepted(t *testing.T) {
	sink := &fakeSink{}
	sc, _, _ := newTestScanner(t, sink)

	sc.observe(true, 2, 0)

	if len(sink.presses) != 1 || sink.presses[0] != 2 {
		t.Fatalf("first press not accepted: %v", sink.presses)
	}
	if len(sink.releases) != 0 {
		t.Fatalf("release fired on a falling edge")
	}
}

func TestObserve_BounceInsideWindowIgnoredWithoutResettingTimer(t *testing.T) {
	sink := &fakeSink{}
	sc, _, clk := newTestScanner(t, sink)

	sc.observe(true, 0, 0) // accepted press at t0

	clk.advance(5 * time.Millisecond)
	sc.observe(false, 0, 0) // bounce, inside window: ignored
	if len(sink.releases) != 0 {
		t.Fatalf("bounce inside window accepted")
	}

	// The ignored sample must not restart the window: 21ms after the
	// ACCEPTED change, a release goes through.
	clk.advance(16 * time.Millisecond)
	sc.observe(false, 0, 0)
	if len(sink.releases) != 1 {
		t.Fatalf("release after window not accepted: %v", sink.releases)
	}
}

func TestObserve_AcceptedChangesSpacedByDebounce(t *testing.T) {
	sink := &fakeSink{}
	sc, _, clk := newTestScanner(t, sink)

	edges := 0
	low := true
	for i := 0; i < 100; i++ {
		sc.observe(low, 3, 0)
		if len(sink.presses)+len(sink.releases) > edges {
			edges = len(sink.presses) + len(sink.releases)
			low = !low
		}
		clk.advance(time.Millisecond)
	}

	// 100ms of constant flapping at 20ms debounce: at most 6 accepted edges.
	if edges > 6 {
		t.Fatalf("debounce let through %d edges in 100ms", edges)
	}
	if edges < 5 {
		t.Fatalf("debounce over-suppressed: %d edges in 100ms", edges)
	}
}

func TestObserve_SameStateNoEdge(t *testing.T) {
	sink := &fakeSink{}
	sc, _, clk := newTestScanner(t, sink)

	sc.observe(false, 1, 0) // already High
	clk.advance(time.Hour)
	sc.observe(false, 1, 0)

	if len(sink.presses)+len(sink.releases) != 0 {
		t.Fatalf("edge fired without a state change")
	}
}

func TestScanOnce_FlatIndexAcrossChips(t *testing.T) {
	sink := &fakeSink{}
	sc, sel, _ := newTestScanner(t, sink)

	chip0 := &fakeChip{sel: sel, low: map[uint8]bool{}}
	chip1 := &fakeChip{sel: sel, low: map[uint8]bool{2: true}}
	if err := sc.AddChip(chip0); err != nil {
		t.Fatalf("AddChip err=%v", err)
	}
	if err := sc.AddChip(chip1); err != nil {
		t.Fatalf("AddChip err=%v", err)
	}

	sc.ScanOnce()

	// Channel 2 on chip offset 1 -> flat index 2 + 8*1 = 10.
	if len(sink.presses) != 1 || sink.presses[0] != 10 {
		t.Fatalf("flat index wrong: presses=%v", sink.presses)
	}
}
