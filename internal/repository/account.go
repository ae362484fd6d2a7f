package repository

import (
	"context"

	"marketplace/internal/domain"
)

// AccountRepository defines the persistence operations for wallet accounts.
type AccountRepository interface {
	// Create persists a new account.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id string) (*domain.Account, error)

	// GetAll retrieves all accounts.
	GetAll(ctx context.Context) ([]*domain.Account, error)

	// Credit adds a positive amount to the account balance.
	Credit(ctx context.Context, id string, amount float64) error

	// Debit subtracts amount from the balance only if the balance covers it.
	// Returns ErrInsufficientBalance otherwise, leaving the balance unchanged.
	Debit(ctx context.Context, id string, amount float64) error
}
