// Package wallet keeps the operator-controlled balance and buyer discount
// between purchase runs.
package wallet

import (
	"context"
	"sync"

	"market_buyer/internal/domain/value"
)

// MemoryStore keeps the wallet in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	balance value.Balance
	ratio   value.DiscountRatio
}

func NewMemoryStore(balance value.Balance, ratio value.DiscountRatio) *MemoryStore {
	return &MemoryStore{
		balance: balance,
		ratio:   ratio,
	}
}

func (s *MemoryStore) Balance(context.Context) (value.Balance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.balance, nil
}

func (s *MemoryStore) SetBalance(_ context.Context, balance value.Balance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balance = balance

	return nil
}

func (s *MemoryStore) DiscountRatio(context.Context) (value.DiscountRatio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ratio, nil
}

func (s *MemoryStore) SetDiscountRatio(_ context.Context, ratio value.DiscountRatio) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ratio = ratio

	return nil
}
