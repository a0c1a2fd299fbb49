package expire

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
)

// Sweeper is the one lifecycle operation this worker drives.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Worker runs the expiry sweep on a fixed interval. It is an explicit
// object owned by the process lifecycle, so tests drive SweepExpired
// directly and multiple instances never double-register timers.
type Worker struct {
	svc       Sweeper
	sweepEach time.Duration
}

func NewWorker(svc Sweeper, sweepEach time.Duration) *Worker {
	if sweepEach == 0 {
		sweepEach = time.Minute
	}
	return &Worker{svc: svc, sweepEach: sweepEach}
}

func (w *Worker) Run(ctx context.Context) {
	log.Info().Dur("sweep_each", w.sweepEach).Msg("expiry worker: started")
	t := time.NewTicker(w.sweepEach)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("expiry worker: stopping")
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

// tick retries a failing sweep a few times with exponential backoff,
// then gives up until the next tick. A sweep failure is never fatal.
func (w *Worker) tick(ctx context.Context) {
	op := func() error {
		_, err := w.svc.SweepExpired(ctx)
		return err
	}

	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(op, b); err != nil {
		log.Error().Err(err).Msg("expiry worker: sweep failed, will retry next tick")
	}
}
