package interfaces

import (
	"context"

	"skullbot/domain/entities"
)

// Ledger is the account-balance store for the internal skull currency.
// Mutating operations persist the balance table as a side effect; the ctx
// bounds that persistence work.
type Ledger interface {
	// Balance returns the account's balance. Unknown accounts report the
	// configured starting balance.
	Balance(account string) int64

	// AddFunds unconditionally credits the account and returns the new balance
	AddFunds(ctx context.Context, account string, amount int64) (int64, error)

	// RemoveFunds debits the account if it holds at least amount.
	// Returns ErrInsufficientFunds with no partial effect otherwise.
	RemoveFunds(ctx context.Context, account string, amount int64) error

	// HasFunds reports whether the account holds at least amount
	HasFunds(account string, amount int64) bool

	// Transfer atomically moves amount between two accounts
	Transfer(ctx context.Context, from, to string, amount int64) error

	// Snapshot serializes the full balance table
	Snapshot() ([]byte, error)

	// Restore replaces the balance table from a serialized snapshot
	Restore(data []byte) error
}

// WinnerSelector picks distinct winners from a weighted participant pool
type WinnerSelector interface {
	// Select returns min(winnerCount, distinct accounts) distinct winners,
	// each account weighted by its ticket count. Empty pool yields nil.
	Select(pool map[string]int, winnerCount int) []string
}

// ExpiryOutcome describes the terminal transition of a lottery
type ExpiryOutcome struct {
	Lottery *entities.Lottery

	// Drawn is false when the lottery was cancelled for insufficient
	// participation instead of drawn
	Drawn bool

	// Winners holds the selected accounts; may be empty even for a drawn
	// lottery when nobody entered and no minimum was configured
	Winners []string
}

// LotteryService manages the lottery registry and participation
type LotteryService interface {
	// Create registers a new pending lottery
	Create(cfg entities.LotteryConfig) (*entities.Lottery, error)

	// Get looks up a lottery by ID
	Get(id string) (*entities.Lottery, error)

	// SetDrawMode configures auto or manual drawing during setup
	SetDrawMode(id string, mode entities.DrawMode) error

	// Activate moves a configured lottery to active and fixes its end time
	Activate(id string) (*entities.Lottery, error)

	// Cancel terminates a pending or active lottery by operator action
	Cancel(id string) (*entities.Lottery, error)

	// Join enters an account into an active lottery. For paid lotteries
	// tickets is the purchase quantity; free lotteries are single-ticket.
	Join(ctx context.Context, id, account string, tickets int) (*entities.Lottery, error)

	// Leave withdraws an account from an active lottery
	Leave(ctx context.Context, id, account string) (*entities.Lottery, error)

	// MaxPurchasable returns how many tickets the account can afford,
	// capped by the lottery's per-user limit
	MaxPurchasable(id, account string) (int, error)

	// ListParticipants returns the participant map of a lottery
	ListParticipants(id string) (map[string]int, error)

	// Expire runs the terminal transition for an active lottery: a winner
	// draw, or a cancellation when the participant minimum is unmet.
	// Exactly-once per lottery; a second call returns ErrLotteryNotActive.
	Expire(ctx context.Context, id string) (*ExpiryOutcome, error)

	// Retire removes a terminated lottery from the registry
	Retire(id string)

	// ListActive returns all currently active lotteries
	ListActive() []*entities.Lottery
}
