// Package sweeper runs the recurring pass that closes due auctions. It holds
// no auction state between ticks; it only drives the closer.
package sweeper

import (
	"context"
	"time"

	"bidwize/utils"
)

// DefaultInterval is how often the sweep fires unless configured otherwise.
const DefaultInterval = time.Minute

// Closer is the slice of the auction service the sweeper drives.
type Closer interface {
	SweepOnce(ctx context.Context) (int, error)
}

// Sweeper periodically closes all due-but-open auctions.
type Sweeper struct {
	closer   Closer
	interval time.Duration
	done     chan struct{}
}

// New creates a Sweeper. A non-positive interval falls back to DefaultInterval.
func New(closer Closer, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sweeper{
		closer:   closer,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop. It returns immediately; the loop stops when
// ctx is cancelled, after letting any in-flight tick finish.
func (s *Sweeper) Start(ctx context.Context) {
	go s.run(ctx)
}

// Wait blocks until the sweep loop has fully stopped.
func (s *Sweeper) Wait() {
	<-s.done
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Sweeper) tick(ctx context.Context) {
	count, err := s.closer.SweepOnce(ctx)
	if err != nil {
		// transient storage errors are retried on the next tick
		utils.Error("sweep tick failed", map[string]any{"error": err.Error()})
		return
	}
	utils.Info("processed ended auctions", map[string]any{"winner_count": count})
}
