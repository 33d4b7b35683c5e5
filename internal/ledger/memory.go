package ledger

import (
	"context"
	"sync"
)

// MemoryStore keeps balances in a map. Nothing survives the process.
type MemoryStore struct {
	mu       sync.Mutex
	balances map[string]float64
	err      error
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{balances: make(map[string]float64)}
}

// FailWith makes every later Persist return err. Pass nil to recover.
func (s *MemoryStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *MemoryStore) Load(ctx context.Context, playerID string) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, ok := s.balances[playerID]
	return balance, ok, nil
}

func (s *MemoryStore) Persist(ctx context.Context, playerID string, balance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.balances[playerID] = balance
	return nil
}

func (s *MemoryStore) Close() error { return nil }
