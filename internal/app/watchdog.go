package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// pingDeadline is the liveness timeout (spec.md §4.7).
const pingDeadline = 25 * time.Second

// sweepInterval is the watchdog cadence (spec.md §4.7).
const sweepInterval = 5 * time.Second

// Watchdog is the single global liveness sweep of spec.md §4.7/§9: one
// ticker, not one goroutine per session. Grounded on the teacher's
// context-cancellation cleanup style (internal/app/relay.go's
// ctx.Done()/markAllDelete), adapted to a periodic table scan instead
// of a per-connection read-loop error path.
//
// It does only one thing: evict sessions past the ping deadline.
// spec.md §9 is explicit that the capacity-10, drop-newest jitter
// buffer is the sole backpressure mechanism — a saturated queue is
// never itself grounds for eviction.
type Watchdog struct {
	Orch *Orchestrator

	log zerolog.Logger
}

func NewWatchdog(orch *Orchestrator, log zerolog.Logger) *Watchdog {
	return &Watchdog{
		Orch: orch,
		log:  log.With().Str("module", "app.watchdog").Logger(),
	}
}

// Run blocks, sweeping every sweepInterval until ctx is cancelled.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("watchdog stopped")
			return
		case now := <-ticker.C:
			w.sweep(now)
		}
	}
}

func (w *Watchdog) sweep(now time.Time) {
	for _, id := range w.Orch.Sessions.Stale(now, pingDeadline) {
		w.log.Info().Str("conn", string(id)).Msg("evicting stale session")
		w.Orch.Evict(id, nil)
	}
}
