package interfaces

import (
	"context"

	"skullbot/domain/entities"
)

// Renderer updates the externally rendered status message of a lottery.
// A RenderSnapshot error means the render target is gone; the scheduler
// stops the refresh loop for that lottery and does not retry.
type Renderer interface {
	RenderSnapshot(ctx context.Context, lottery *entities.Lottery) error
	RenderFinal(ctx context.Context, lottery *entities.Lottery, includeActions bool) error
}

// Notifier delivers best-effort messages to participants and the venue.
// Delivery failures are logged by implementations and never abort a draw.
type Notifier interface {
	NotifyWinner(ctx context.Context, account string, lottery *entities.Lottery) error
	NotifyJoin(ctx context.Context, account string, lottery *entities.Lottery) error
	NotifyLeave(ctx context.Context, account string, lottery *entities.Lottery) error
	AnnounceResult(ctx context.Context, lottery *entities.Lottery, winners []string) error
	AnnounceInsufficientParticipants(ctx context.Context, lottery *entities.Lottery) error
}

// SnapshotStore persists opaque blobs locally, keyed by name
type SnapshotStore interface {
	// Load returns the stored blob; ok is false when the key is absent
	Load(key string) (data []byte, ok bool, err error)
	Save(key string, data []byte) error
}

// AuthoritativeStore is the external durable store the ledger reconciles
// against: pulled once at startup, pushed by the periodic snapshot worker
type AuthoritativeStore interface {
	Pull(ctx context.Context) ([]byte, error)
	Push(ctx context.Context, data []byte) error
}

// MetricsRecorder records operational counters. Implemented by the
// observability package; a no-op implementation is used in tests.
type MetricsRecorder interface {
	RecordJoin(ctx context.Context, paid bool)
	RecordLeave(ctx context.Context)
	RecordTicketPurchase(ctx context.Context, quantity int)
	RecordDraw(ctx context.Context, winners int)
	RecordLedgerTransaction(ctx context.Context, kind string)
}
