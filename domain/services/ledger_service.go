package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"skullbot/domain/entities"
	"skullbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// LedgerSnapshotKey is the snapshot store key for the full balance table
const LedgerSnapshotKey = "skulls.json"

// accountEntry holds one account's balance behind its own lock so that
// operations on different accounts never contend with each other
type accountEntry struct {
	mu      sync.Mutex
	balance int64
}

// ledgerService implements the skull currency ledger
type ledgerService struct {
	mu       sync.RWMutex
	accounts map[string]*accountEntry

	store           interfaces.SnapshotStore
	metrics         interfaces.MetricsRecorder
	startingBalance int64
}

// NewLedgerService creates the ledger and restores its balance table. The
// local snapshot is loaded first; then, when an authoritative store is
// configured, its snapshot is pulled and takes precedence. A failed pull is
// logged and the local snapshot remains authoritative.
//
// Accounts not present in any snapshot open with startingBalance on first use.
func NewLedgerService(
	ctx context.Context,
	store interfaces.SnapshotStore,
	authoritative interfaces.AuthoritativeStore,
	metrics interfaces.MetricsRecorder,
	startingBalance int64,
) interfaces.Ledger {
	s := &ledgerService{
		accounts:        make(map[string]*accountEntry),
		store:           store,
		metrics:         metrics,
		startingBalance: startingBalance,
	}

	if data, ok, err := store.Load(LedgerSnapshotKey); err != nil {
		log.WithError(err).Warn("Failed to load local ledger snapshot, starting empty")
	} else if ok {
		if err := s.Restore(data); err != nil {
			log.WithError(err).Warn("Failed to restore local ledger snapshot, starting empty")
		}
	}

	if authoritative != nil {
		if data, err := authoritative.Pull(ctx); err != nil {
			log.WithError(err).Warn("Failed to pull authoritative ledger snapshot, keeping local state")
		} else if err := s.Restore(data); err != nil {
			log.WithError(err).Warn("Failed to restore authoritative ledger snapshot, keeping local state")
		} else {
			log.Info("Ledger restored from authoritative store")
		}
	}

	return s
}

// entry returns the account's entry, creating it lazily with the starting
// balance on first use
func (s *ledgerService) entry(account string) *accountEntry {
	s.mu.RLock()
	e, ok := s.accounts[account]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.accounts[account]; ok {
		return e
	}
	e = &accountEntry{balance: s.startingBalance}
	s.accounts[account] = e
	return e
}

// Balance returns the account's balance. Unknown accounts report the
// starting balance without being materialized.
func (s *ledgerService) Balance(account string) int64 {
	s.mu.RLock()
	e, ok := s.accounts[account]
	s.mu.RUnlock()
	if !ok {
		return s.startingBalance
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balance
}

// AddFunds unconditionally credits the account and returns the new balance
func (s *ledgerService) AddFunds(ctx context.Context, account string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	e := s.entry(account)
	e.mu.Lock()
	e.balance += amount
	newBalance := e.balance
	e.mu.Unlock()

	s.persist()
	if s.metrics != nil {
		s.metrics.RecordLedgerTransaction(ctx, "credit")
	}
	return newBalance, nil
}

// RemoveFunds debits the account if it holds at least amount. The debit is
// all-or-nothing: on insufficient funds the balance is left unchanged.
func (s *ledgerService) RemoveFunds(ctx context.Context, account string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	e := s.entry(account)
	e.mu.Lock()
	if e.balance < amount {
		e.mu.Unlock()
		return entities.ErrInsufficientFunds
	}
	e.balance -= amount
	e.mu.Unlock()

	s.persist()
	if s.metrics != nil {
		s.metrics.RecordLedgerTransaction(ctx, "debit")
	}
	return nil
}

// HasFunds reports whether the account holds at least amount
func (s *ledgerService) HasFunds(account string, amount int64) bool {
	return s.Balance(account) >= amount
}

// Transfer atomically moves amount from one account to another. Both entries
// are locked for the full debit-then-credit sequence, in lexicographic
// account order so concurrent transfers cannot deadlock.
func (s *ledgerService) Transfer(ctx context.Context, from, to string, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if from == to {
		return fmt.Errorf("cannot transfer to the same account")
	}

	src, dst := s.entry(from), s.entry(to)
	first, second := src, dst
	if from > to {
		first, second = dst, src
	}
	first.mu.Lock()
	second.mu.Lock()

	if src.balance < amount {
		second.mu.Unlock()
		first.mu.Unlock()
		return entities.ErrInsufficientFunds
	}
	src.balance -= amount
	dst.balance += amount

	// Entry locks must be released before persist, which re-acquires them
	// while snapshotting the full table
	second.mu.Unlock()
	first.mu.Unlock()

	s.persist()
	if s.metrics != nil {
		s.metrics.RecordLedgerTransaction(ctx, "transfer")
	}
	return nil
}

// Snapshot serializes the full balance table as JSON
func (s *ledgerService) Snapshot() ([]byte, error) {
	s.mu.RLock()
	balances := make(map[string]int64, len(s.accounts))
	for account, e := range s.accounts {
		e.mu.Lock()
		balances[account] = e.balance
		e.mu.Unlock()
	}
	s.mu.RUnlock()

	data, err := json.Marshal(balances)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger snapshot: %w", err)
	}
	return data, nil
}

// Restore replaces the balance table from a serialized snapshot
func (s *ledgerService) Restore(data []byte) error {
	var balances map[string]int64
	if err := json.Unmarshal(data, &balances); err != nil {
		return fmt.Errorf("failed to unmarshal ledger snapshot: %w", err)
	}
	for account, balance := range balances {
		if balance < 0 {
			return fmt.Errorf("snapshot holds negative balance for account %s", account)
		}
	}

	accounts := make(map[string]*accountEntry, len(balances))
	for account, balance := range balances {
		accounts[account] = &accountEntry{balance: balance}
	}

	s.mu.Lock()
	s.accounts = accounts
	s.mu.Unlock()
	return nil
}

// persist write-throughs the full balance table to the local snapshot store.
// Balances are the financial record of truth, so every mutation is saved
// immediately; failures are logged and never abort the mutation.
func (s *ledgerService) persist() {
	data, err := s.Snapshot()
	if err != nil {
		log.WithError(err).Error("Failed to serialize ledger snapshot")
		return
	}
	if err := s.store.Save(LedgerSnapshotKey, data); err != nil {
		log.WithError(err).Error("Failed to persist ledger snapshot")
	}
}
