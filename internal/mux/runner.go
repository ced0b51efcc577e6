// internal/mux/runner.go
package mux

import "context"

// Run scans continuously until ctx is cancelled. One goroutine per scanner.
// The per-channel settle sleep inside ScanOnce is the loop's only pause;
// the debounce filter is what bounds the event rate, not the scan rate.
func (s *Scanner) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			s.ScanOnce()
		}
	}
}
