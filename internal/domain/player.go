package domain

import (
	"time"

	"github.com/benbjohnson/clock"
)

// Playback is the Playing state of a room. Seq increases by one for every video started in the
// room, so two plays of the same video id are still distinguishable.
type Playback struct {
	Video     Video
	StartedAt time.Time
	Seq       uint64
}

// Elapsed is always derived from StartedAt and never stored.
func (p Playback) Elapsed(clk clock.Clock) time.Duration {
	elapsed := clk.Since(p.StartedAt)
	if elapsed < 0 {
		return 0
	}

	return elapsed
}
