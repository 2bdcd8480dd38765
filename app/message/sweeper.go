package message

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/TravisHFan/at-Cloud-sign-up-system-sub013/util"
)

// SweepExpired deactivates every active message whose expiration has passed.
// It is a global flag flip: recipient state history stays intact so audit
// queries and idempotency checks keep working. Safe to invoke repeatedly.
func (s *service) SweepExpired(ctx context.Context) (int64, error) {
	count, err := s.store.ExpireDue(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logrus.WithField("count", count).Info("expired messages deactivated")
	}
	return count, nil
}

// PurgeLegacy removes pre-split state storage remnants. Idempotent.
func (s *service) PurgeLegacy(ctx context.Context) (int64, error) {
	count, err := s.store.PurgeLegacy(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logrus.WithField("count", count).Info("legacy message records cleaned")
	}
	return count, nil
}

// Sweeper drives the retention sweep on an interval. The sweep itself is an
// idempotent service operation, so running it here and triggering it through
// the maintenance endpoint are interchangeable.
type Sweeper struct {
	svc      Service
	interval time.Duration
}

// NewSweeper - creates a sweeper; interval must be positive.
func NewSweeper(svc Service, interval time.Duration) *Sweeper {
	return &Sweeper{svc: svc, interval: interval}
}

// Run sweeps until ctx is done.
func (w *Sweeper) Run(ctx context.Context) {
	defer util.RecoverGoroutinePanic(nil)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := w.svc.SweepExpired(ctx); err != nil {
				logrus.WithError(err).Error("retention sweep failed")
			}
		}
	}
}
