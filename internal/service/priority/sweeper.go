package priority

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper runs ExpireAndSweep on a fixed interval. It is a suture.Service.
type Sweeper struct {
	svc      *Service
	interval time.Duration
	log      *slog.Logger
}

// NewSweeper builds a sweeper around svc.
func NewSweeper(svc *Service, interval time.Duration, log *slog.Logger) *Sweeper {
	return &Sweeper{svc: svc, interval: interval, log: log.With("component", "priority-sweeper")}
}

// Serve implements suture.Service. It sweeps once at start, then on every tick,
// until ctx is cancelled.
func (w *Sweeper) Serve(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.sweep(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *Sweeper) String() string { return "priority-sweeper" }

func (w *Sweeper) sweep(ctx context.Context) {
	n, err := w.svc.ExpireAndSweep(ctx)
	if err != nil {
		w.log.Error("entitlement sweep failed", "users", n, "error", err)
		return
	}
	if n > 0 {
		w.log.Info("entitlements expired", "users", n)
	}
}
