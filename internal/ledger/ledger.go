// Package ledger persists player balances between sessions.
package ledger

import (
	"context"
	"errors"
	"fmt"
)

// MinimumBalance is the smallest balance that can still place a bet
const MinimumBalance = 1.0

// ErrUnknownDriver is returned by Open for an unsupported driver name
var ErrUnknownDriver = errors.New("ledger: unknown driver")

// Store loads and saves balances keyed by player ID
type Store interface {
	// Load returns the stored balance and whether one was found
	Load(ctx context.Context, playerID string) (float64, bool, error)
	Persist(ctx context.Context, playerID string, balance float64) error
	Close() error
}

// Open returns the store for driver ("sqlite", "file" or "memory")
func Open(driver, path string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLiteStore(path)
	case "file":
		return NewFileStore(path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// LoadBalance returns the player's stored balance. A player with no stored
// balance, or too little to bet, starts again with starting, which is saved.
func LoadBalance(ctx context.Context, store Store, playerID string, starting float64) (float64, error) {
	balance, found, err := store.Load(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf("load balance: %w", err)
	}
	if found && balance >= MinimumBalance {
		return balance, nil
	}

	if err := store.Persist(ctx, playerID, starting); err != nil {
		return 0, fmt.Errorf("save starting balance: %w", err)
	}
	return starting, nil
}
