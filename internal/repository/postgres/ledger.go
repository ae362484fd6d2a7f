package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// LedgerRepository is a PostgreSQL implementation of repository.LedgerRepository.
type LedgerRepository struct {
	q Querier
}

// NewLedgerRepository creates a new PostgreSQL ledger repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{q: db}
}

// NewLedgerRepositoryWithTx creates a ledger repository using a transaction.
func NewLedgerRepositoryWithTx(tx *sql.Tx) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Create persists a new ledger entry. A unique index on idempotency_key turns
// duplicate settlement attempts into ErrConflict instead of double credits.
func (r *LedgerRepository) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, account_id, order_id, entry_type, amount, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var orderID, idempotencyKey sql.NullString
	if entry.OrderID != "" {
		orderID = sql.NullString{String: entry.OrderID, Valid: true}
	}
	if entry.IdempotencyKey != "" {
		idempotencyKey = sql.NullString{String: entry.IdempotencyKey, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		entry.ID,
		entry.AccountID,
		orderID,
		entry.Type,
		entry.Amount,
		idempotencyKey,
		entry.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return repository.ErrConflict
		}
		return err
	}

	return nil
}

// GetByIdempotencyKey retrieves an entry by idempotency key.
// Returns (nil, nil) when no entry exists.
func (r *LedgerRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error) {
	query := `
		SELECT id, account_id, order_id, entry_type, amount, idempotency_key, created_at
		FROM ledger_entries WHERE idempotency_key = $1
	`

	entry, err := scanLedgerEntry(r.q.QueryRowContext(ctx, query, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return entry, nil
}

// GetByAccountID retrieves all entries for an account, newest first.
func (r *LedgerRepository) GetByAccountID(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error) {
	query := `
		SELECT id, account_id, order_id, entry_type, amount, idempotency_key, created_at
		FROM ledger_entries WHERE account_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanLedgerEntry(row interface{ Scan(dest ...any) error }) (*domain.LedgerEntry, error) {
	var entry domain.LedgerEntry
	var orderID, idempotencyKey sql.NullString

	err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&orderID,
		&entry.Type,
		&entry.Amount,
		&idempotencyKey,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if orderID.Valid {
		entry.OrderID = orderID.String
	}
	if idempotencyKey.Valid {
		entry.IdempotencyKey = idempotencyKey.String
	}

	return &entry, nil
}
