package repository

import (
	"context"

	"marketplace/internal/domain"
)

// OrderRepository defines the persistence operations for orders.
//
// Mutations are expressed as conditional, per-id updates so that racing
// writers (two drivers accepting, a duplicate terminal event) serialize on
// the row instead of overwriting each other.
type OrderRepository interface {
	// Create persists a new order.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetAll retrieves all orders, newest first.
	GetAll(ctx context.Context) ([]*domain.Order, error)

	// GetActiveByDriverID retrieves the driver's assigned, non-terminal orders.
	GetActiveByDriverID(ctx context.Context, driverID string) ([]*domain.Order, error)

	// GetActiveDriverIDs returns the distinct driver ids that currently
	// carry at least one non-terminal order.
	GetActiveDriverIDs(ctx context.Context) ([]string, error)

	// ClaimDriver assigns a driver to an order only if no driver is set yet,
	// moving it to newStatus in the same atomic step. Returns ErrConflict
	// when another driver already claimed the order.
	ClaimDriver(ctx context.Context, orderID, driverID string, newStatus domain.OrderStatus) error

	// UpdateStatus moves an order from one status to another only if it is
	// still in the expected from status. Returns ErrConflict otherwise.
	UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) error

	// MarkCancelled records cancellation metadata after a successful
	// transition into CANCELLED.
	MarkCancelled(ctx context.Context, orderID, reason string) error

	// SetPaymentStatus updates the payment status of an order.
	SetPaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) error

	// UpdateDriverPosition applies a last-writer-wins position update to all
	// of the driver's active orders.
	UpdateDriverPosition(ctx context.Context, driverID string, loc domain.Location) error

	// SetRating stores a post-delivery rating.
	SetRating(ctx context.Context, orderID string, rating int) error
}
