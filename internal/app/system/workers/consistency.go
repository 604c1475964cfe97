// internal/app/system/workers/consistency.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/staffhub/internal/app/system/postingsync"
	"github.com/dalemusser/staffhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Auditor runs one consistency audit. *postingsync.Synchronizer satisfies it.
type Auditor interface {
	Audit(ctx context.Context, repair bool) (postingsync.Report, error)
}

// ConsistencyAudit is a background worker that periodically compares
// school trainer sets with active postings and optionally repairs drift.
type ConsistencyAudit struct {
	auditor  Auditor
	log      *zap.Logger
	interval time.Duration
	repair   bool

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	runMu sync.Mutex // one run at a time

	mu   sync.Mutex // guards last and ran
	last LastRun
	ran  bool
}

// LastRun is the outcome of the most recent audit.
type LastRun struct {
	At     time.Time
	Report postingsync.Report
	Err    error
}

// NewConsistencyAudit creates a consistency worker.
//
// Parameters:
//   - auditor: usually the posting synchronizer
//   - logger: zap logger for logging
//   - interval: how often to audit (e.g., 15 minutes)
//   - repair: whether drift found by a run is fixed in the same run
func NewConsistencyAudit(auditor Auditor, logger *zap.Logger, interval time.Duration, repair bool) *ConsistencyAudit {
	return &ConsistencyAudit{
		auditor:  auditor,
		log:      logger,
		interval: interval,
		repair:   repair,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background audit loop.
func (w *ConsistencyAudit) Start() {
	w.wg.Add(1)
	go w.loop()
	w.log.Info("consistency audit worker started",
		zap.Duration("interval", w.interval),
		zap.Bool("repair", w.repair))
}

// Stop signals the worker to stop and waits for an in-flight run to finish.
// It is safe to call more than once.
func (w *ConsistencyAudit) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("consistency audit worker stopped")
	})
}

func (w *ConsistencyAudit) loop() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				select {
				case <-w.stopCh:
					cancel()
				case <-ctx.Done():
				}
			}()
			_, _ = w.Run(ctx)
			cancel()
		}
	}
}

// Run performs one audit now, bounded by timeouts.Long(). Concurrent calls
// wait for each other.
func (w *ConsistencyAudit) Run(ctx context.Context) (postingsync.Report, error) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), w.log, "consistency audit")
	defer cancel()

	rep, err := w.auditor.Audit(ctx, w.repair)
	w.mu.Lock()
	w.last, w.ran = LastRun{At: time.Now().UTC(), Report: rep, Err: err}, true
	w.mu.Unlock()
	if err != nil {
		w.log.Error("consistency audit failed", zap.Error(err))
		return rep, err
	}

	if rep.Consistent() {
		w.log.Debug("consistency audit clean", zap.Int("schools", rep.SchoolsChecked))
	} else {
		w.log.Warn("consistency audit found drift",
			zap.Int("schools", rep.SchoolsChecked),
			zap.Int("drifts", len(rep.Drifts)),
			zap.Int("multiple_active", len(rep.MultipleActive)),
			zap.Int("orphan_schools", len(rep.OrphanSchools)),
			zap.Bool("repair", w.repair))
	}
	return rep, nil
}

// Last returns the most recent run. ok is false until the first run completes.
func (w *ConsistencyAudit) Last() (LastRun, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.ran
}
