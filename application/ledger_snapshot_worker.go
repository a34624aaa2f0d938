package application

import (
	"context"
	"time"

	"skullbot/domain/interfaces"
	"skullbot/domain/services"

	log "github.com/sirupsen/logrus"
)

// LedgerSnapshotWorker periodically snapshots the full balance table as a
// redundancy measure on top of the ledger's write-through persistence, and
// pushes the snapshot to the authoritative store when one is configured.
type LedgerSnapshotWorker struct {
	ledger        interfaces.Ledger
	store         interfaces.SnapshotStore
	authoritative interfaces.AuthoritativeStore // may be nil
	interval      time.Duration
}

// NewLedgerSnapshotWorker creates a new snapshot worker
func NewLedgerSnapshotWorker(
	ledger interfaces.Ledger,
	store interfaces.SnapshotStore,
	authoritative interfaces.AuthoritativeStore,
	interval time.Duration,
) *LedgerSnapshotWorker {
	return &LedgerSnapshotWorker{
		ledger:        ledger,
		store:         store,
		authoritative: authoritative,
		interval:      interval,
	}
}

// Start begins the snapshot loop and returns a stop function
func (w *LedgerSnapshotWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithField("interval", w.interval).Info("Ledger snapshot worker started")
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Ledger snapshot worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Ledger snapshot worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				w.snapshot(ctx)
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// snapshot saves the balance table locally and pushes it upstream
func (w *LedgerSnapshotWorker) snapshot(ctx context.Context) {
	data, err := w.ledger.Snapshot()
	if err != nil {
		log.WithError(err).Error("Failed to serialize periodic ledger snapshot")
		return
	}
	if err := w.store.Save(services.LedgerSnapshotKey, data); err != nil {
		log.WithError(err).Error("Failed to save periodic ledger snapshot")
	}
	if w.authoritative != nil {
		if err := w.authoritative.Push(ctx, data); err != nil {
			log.WithError(err).Warn("Failed to push ledger snapshot to authoritative store")
		}
	}
}
