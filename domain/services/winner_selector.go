package services

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sort"
	"sync"

	"skullbot/domain/interfaces"
)

// winnerSelector draws distinct winners from a weighted pool
type winnerSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewWinnerSelector creates a selector seeded from crypto/rand
func NewWinnerSelector() interfaces.WinnerSelector {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to the
		// zero seed rather than making construction fallible
		return NewSeededWinnerSelector(0)
	}
	return NewSeededWinnerSelector(int64(binary.LittleEndian.Uint64(buf[:])))
}

// NewSeededWinnerSelector creates a selector with a fixed seed, making the
// draw sequence reproducible for a given pool
func NewSeededWinnerSelector(seed int64) interfaces.WinnerSelector {
	return &winnerSelector{rng: rand.New(rand.NewSource(seed))}
}

// Select picks min(winnerCount, distinct accounts) distinct winners. Each
// account occupies one pool slot per owned ticket, so an account with k
// tickets has k chances per pick. All of a picked account's slots are
// removed before the next pick, which makes duplicate winners structurally
// impossible.
func (s *winnerSelector) Select(pool map[string]int, winnerCount int) []string {
	if len(pool) == 0 || winnerCount <= 0 {
		return nil
	}

	// Sorted account order keeps the slot layout, and therefore the draw
	// sequence for a given seed, independent of map iteration order
	accounts := make([]string, 0, len(pool))
	for account := range pool {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	slots := make([]string, 0)
	for _, account := range accounts {
		for i := 0; i < pool[account]; i++ {
			slots = append(slots, account)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	winners := make([]string, 0, winnerCount)
	for len(winners) < winnerCount && len(slots) > 0 {
		winner := slots[s.rng.Intn(len(slots))]
		winners = append(winners, winner)

		remaining := slots[:0]
		for _, account := range slots {
			if account != winner {
				remaining = append(remaining, account)
			}
		}
		slots = remaining
	}
	return winners
}
