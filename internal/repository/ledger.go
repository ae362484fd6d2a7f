package repository

import (
	"context"

	"marketplace/internal/domain"
)

// LedgerRepository defines the persistence operations for wallet ledger entries.
type LedgerRepository interface {
	// Create persists a new ledger entry. When the entry carries an
	// idempotency key that already exists, ErrConflict is returned.
	Create(ctx context.Context, entry *domain.LedgerEntry) error

	// GetByIdempotencyKey retrieves an entry by idempotency key.
	// Returns (nil, nil) when no entry exists.
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error)

	// GetByAccountID retrieves all entries for an account, newest first.
	GetByAccountID(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error)
}
