package worker

import (
	"context"
	"time"

	"github.com/fox-one/pkg/logger"
)

// Worker long running background job
type Worker interface {
	Run(ctx context.Context) error
}

// TickWorker runs a job on a fixed interval until the context is canceled
type TickWorker struct {
	// Delay interval between runs, one minute when unset
	Delay time.Duration
	// ErrDelay retry interval after a failed run
	ErrDelay time.Duration
}

func (w *TickWorker) delay(err error) time.Duration {
	if err != nil && w.ErrDelay > 0 {
		return w.ErrDelay
	}

	if w.Delay > 0 {
		return w.Delay
	}

	return time.Minute
}

// StartTick blocks running fn on every tick
func (w *TickWorker) StartTick(ctx context.Context, fn func(ctx context.Context) error) error {
	log := logger.FromContext(ctx)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			err := fn(ctx)
			if err != nil {
				log.WithError(err).Errorln("tick failed")
			}

			timer.Reset(w.delay(err))
		}
	}
}
