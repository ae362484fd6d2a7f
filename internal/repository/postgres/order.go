package postgres

import (
	"context"
	"database/sql"
	"errors"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// NewOrderRepositoryWithTx creates an order repository using a transaction.
func NewOrderRepositoryWithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{q: tx}
}

const orderColumns = `id, service_type, customer_id, merchant_id, driver_id,
	origin_lat, origin_lng, destination_lat, destination_lng, destination_text,
	amount, payment_method, payment_status, status,
	driver_lat, driver_lng, rating, created_at, cancelled_at, cancel_reason`

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	var merchantID, driverID, cancelReason sql.NullString
	if order.MerchantID != "" {
		merchantID = sql.NullString{String: order.MerchantID, Valid: true}
	}
	if order.DriverID != "" {
		driverID = sql.NullString{String: order.DriverID, Valid: true}
	}
	if order.CancelReason != "" {
		cancelReason = sql.NullString{String: order.CancelReason, Valid: true}
	}

	var driverLat, driverLng sql.NullFloat64
	if order.DriverPosition != nil {
		driverLat = sql.NullFloat64{Float64: order.DriverPosition.Lat, Valid: true}
		driverLng = sql.NullFloat64{Float64: order.DriverPosition.Lng, Valid: true}
	}

	var cancelledAt sql.NullTime
	if !order.CancelledAt.IsZero() {
		cancelledAt = sql.NullTime{Time: order.CancelledAt, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		order.ID,
		order.ServiceType,
		order.CustomerID,
		merchantID,
		driverID,
		order.Origin.Lat,
		order.Origin.Lng,
		order.Destination.Lat,
		order.Destination.Lng,
		order.DestinationText,
		order.Amount,
		order.PaymentMethod,
		order.PaymentStatus,
		order.Status,
		driverLat,
		driverLng,
		order.Rating,
		order.CreatedAt,
		cancelledAt,
		cancelReason,
	)

	return err
}

// scanOrder scans a single order row.
func scanOrder(row interface{ Scan(dest ...any) error }) (*domain.Order, error) {
	var order domain.Order
	var merchantID, driverID, cancelReason sql.NullString
	var driverLat, driverLng sql.NullFloat64
	var cancelledAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.ServiceType,
		&order.CustomerID,
		&merchantID,
		&driverID,
		&order.Origin.Lat,
		&order.Origin.Lng,
		&order.Destination.Lat,
		&order.Destination.Lng,
		&order.DestinationText,
		&order.Amount,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.Status,
		&driverLat,
		&driverLng,
		&order.Rating,
		&order.CreatedAt,
		&cancelledAt,
		&cancelReason,
	)
	if err != nil {
		return nil, err
	}

	if merchantID.Valid {
		order.MerchantID = merchantID.String
	}
	if driverID.Valid {
		order.DriverID = driverID.String
	}
	if driverLat.Valid && driverLng.Valid {
		order.DriverPosition = &domain.Location{Lat: driverLat.Float64, Lng: driverLng.Float64}
	}
	if cancelledAt.Valid {
		order.CancelledAt = cancelledAt.Time
	}
	if cancelReason.Valid {
		order.CancelReason = cancelReason.String
	}

	return &order, nil
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return order, nil
}

// GetAll retrieves all orders, newest first.
func (r *OrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT 200`

	return r.queryOrders(ctx, query)
}

// GetActiveByDriverID retrieves the driver's assigned, non-terminal orders.
func (r *OrderRepository) GetActiveByDriverID(ctx context.Context, driverID string) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE driver_id = $1 AND status NOT IN ('DELIVERED', 'COMPLETED', 'CANCELLED')
		ORDER BY created_at
	`

	return r.queryOrders(ctx, query, driverID)
}

// GetActiveDriverIDs returns driver ids carrying at least one active order.
func (r *OrderRepository) GetActiveDriverIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT driver_id FROM orders
		WHERE driver_id IS NOT NULL AND status NOT IN ('DELIVERED', 'COMPLETED', 'CANCELLED')
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// ClaimDriver assigns a driver only if the order is still unclaimed.
// The conditional WHERE makes first-accept-wins atomic at the row level.
func (r *OrderRepository) ClaimDriver(ctx context.Context, orderID, driverID string, newStatus domain.OrderStatus) error {
	query := `
		UPDATE orders SET driver_id = $1, status = $2
		WHERE id = $3 AND driver_id IS NULL
	`

	result, err := r.q.ExecContext(ctx, query, driverID, newStatus, orderID)
	if err != nil {
		return err
	}

	return r.checkAffected(ctx, result, orderID, repository.ErrConflict)
}

// UpdateStatus moves an order forward only if it is still in the expected
// status (optimistic compare-and-set on the status column).
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query, to, orderID, from)
	if err != nil {
		return err
	}

	return r.checkAffected(ctx, result, orderID, repository.ErrConflict)
}

// MarkCancelled records cancellation metadata.
func (r *OrderRepository) MarkCancelled(ctx context.Context, orderID, reason string) error {
	query := `UPDATE orders SET cancelled_at = NOW(), cancel_reason = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, reason, orderID)
	if err != nil {
		return err
	}

	return r.checkAffected(ctx, result, orderID, repository.ErrNotFound)
}

// SetPaymentStatus updates the payment status of an order.
func (r *OrderRepository) SetPaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) error {
	query := `UPDATE orders SET payment_status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, orderID)
	if err != nil {
		return err
	}

	return r.checkAffected(ctx, result, orderID, repository.ErrNotFound)
}

// UpdateDriverPosition applies a last-writer-wins position update to all of
// the driver's active orders.
func (r *OrderRepository) UpdateDriverPosition(ctx context.Context, driverID string, loc domain.Location) error {
	query := `
		UPDATE orders SET driver_lat = $1, driver_lng = $2
		WHERE driver_id = $3 AND status NOT IN ('DELIVERED', 'COMPLETED', 'CANCELLED')
	`

	_, err := r.q.ExecContext(ctx, query, loc.Lat, loc.Lng, driverID)
	return err
}

// SetRating stores a post-delivery rating.
func (r *OrderRepository) SetRating(ctx context.Context, orderID string, rating int) error {
	query := `UPDATE orders SET rating = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, rating, orderID)
	if err != nil {
		return err
	}

	return r.checkAffected(ctx, result, orderID, repository.ErrNotFound)
}

// checkAffected distinguishes "row missing" from "condition not met" after a
// conditional update.
func (r *OrderRepository) checkAffected(ctx context.Context, result sql.Result, orderID string, conditionErr error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return conditionErr
}
