package services

import (
	"sync"

	"skullbot/domain/entities"
)

// LotteryRegistry is the in-memory collection of lottery entities
type LotteryRegistry struct {
	mu        sync.RWMutex
	lotteries map[string]*entities.Lottery
}

// NewLotteryRegistry creates an empty registry
func NewLotteryRegistry() *LotteryRegistry {
	return &LotteryRegistry{lotteries: make(map[string]*entities.Lottery)}
}

// Add inserts a lottery keyed by its ID
func (r *LotteryRegistry) Add(lottery *entities.Lottery) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lotteries[lottery.ID] = lottery
}

// Get returns the lottery with the given ID, or nil when unknown
func (r *LotteryRegistry) Get(id string) *entities.Lottery {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lotteries[id]
}

// Remove deletes the lottery with the given ID
func (r *LotteryRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lotteries, id)
}

// ListActive returns all lotteries currently in the active state
func (r *LotteryRegistry) ListActive() []*entities.Lottery {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var active []*entities.Lottery
	for _, lottery := range r.lotteries {
		if lottery.IsActive() {
			active = append(active, lottery)
		}
	}
	return active
}
