package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/sirico/pkg/usecase"
	"github.com/secmon-lab/sirico/pkg/utils/logging"
)

// Reconciler repairs stored scores that differ from a recompute
type Reconciler interface {
	Reconcile(ctx context.Context) (*usecase.ReconcileResult, error)
}

// ReconcileWorker periodically repairs stale scores left behind by writes
// that bypassed the entry use case, e.g. manual data fixes.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - RecomputeAssessment is idempotent, so overlapping runs on several
//   instances waste work but never corrupt data
type ReconcileWorker struct {
	reconciler Reconciler
	interval   time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// NewReconcileWorker creates a worker running reconciler every interval
func NewReconcileWorker(reconciler Reconciler, interval time.Duration) *ReconcileWorker {
	return &ReconcileWorker{
		reconciler: reconciler,
		interval:   interval,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start begins the background loop. The first run happens immediately in the
// background and does not block server startup.
func (w *ReconcileWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("reconcile interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Reconcile worker starting", "interval", w.interval.String())
	go w.run(ctx)
	return nil
}

// Stop signals the worker to stop and waits for the current run to finish
func (w *ReconcileWorker) Stop() {
	logging.Default().Info("Reconcile worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Reconcile worker stopped")
}

func (w *ReconcileWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.reconcile(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.reconcile(ctx)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Reconcile worker context cancelled")
			return
		}
	}
}

// reconcile logs failures and keeps the worker alive for the next tick
func (w *ReconcileWorker) reconcile(ctx context.Context) {
	startTime := time.Now()

	result, err := w.reconciler.Reconcile(ctx)
	if err != nil {
		logging.Default().Error("Reconcile failed (will retry next interval)", "error", err.Error())
		return
	}

	logging.Default().Debug("Reconcile completed",
		"checked", result.AssessmentsChecked,
		"repaired", result.AssessmentsRepaired,
		"duration", time.Since(startTime).String(),
	)
}
