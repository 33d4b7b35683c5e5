package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lox/blackjack/internal/fileutil"
)

// FileStore keeps balances in a JSON object of player ID to balance. Every
// save rewrites the file atomically.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore uses the file at path, creating its directory if needed
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("empty ledger file path")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) read() (map[string]float64, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]float64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	balances := map[string]float64{}
	if len(data) == 0 {
		return balances, nil
	}
	if err := json.Unmarshal(data, &balances); err != nil {
		return nil, fmt.Errorf("parse ledger %s: %w", s.path, err)
	}
	return balances, nil
}

func (s *FileStore) Load(ctx context.Context, playerID string) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balances, err := s.read()
	if err != nil {
		return 0, false, err
	}
	balance, ok := balances[playerID]
	return balance, ok, nil
}

func (s *FileStore) Persist(ctx context.Context, playerID string, balance float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	balances, err := s.read()
	if err != nil {
		return err
	}
	balances[playerID] = balance

	return fileutil.WriteJSONAtomic(s.path, balances, 0o644)
}

func (s *FileStore) Close() error { return nil }
