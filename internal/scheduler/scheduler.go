package scheduler

import (
	"context"
	"time"

	"github.com/creatorflow/apigateway/internal/logger"
	"github.com/creatorflow/apigateway/internal/service"
)

// PassFunc runs one reconciliation pass and reports its outcome.
type PassFunc func(ctx context.Context) (*service.Outcome, error)

// Scheduler fires a reconciliation pass on a coarse fixed interval, the
// in-process analogue of a device background-fetch slot. Ticks carry no
// state between them: the derivation rule is time-absolute, so a pass that
// is skipped, delayed, or killed mid-sweep is simply made up for by the
// next one.
type Scheduler struct {
	interval time.Duration
	pass     PassFunc
	stop     chan struct{}
	done     chan struct{}
}

func New(interval time.Duration, pass PassFunc) *Scheduler {
	return &Scheduler{
		interval: interval,
		pass:     pass,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the tick loop. It returns immediately; the loop runs
// until Stop is called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

func (s *Scheduler) runOnce(ctx context.Context) {
	out, err := s.pass(ctx)
	if err != nil {
		// Enumeration failure fails the whole pass; the next tick
		// retries from scratch.
		logger.ErrorLog(ctx, "scheduled reconcile failed: %v", err)
		return
	}
	logger.InfoLog(ctx, "scheduled reconcile: scanned=%d updated=%d skipped=%d failed=%d",
		out.Scanned, out.Updated, out.Skipped, out.Failed)
}

// Stop terminates the tick loop and waits for it to exit.
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}
