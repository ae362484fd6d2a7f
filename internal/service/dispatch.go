package service

import (
	"context"
	"errors"
	"log"
	"time"

	"marketplace/internal/domain"
	"marketplace/internal/redis"
	"marketplace/internal/repository"
)

const acceptLockTTL = 10 * time.Second

// DispatchService validates and applies order lifecycle transitions.
// Terminal success transitions trigger wallet settlement exactly once.
type DispatchService struct {
	orderRepo           repository.OrderRepository
	lockStore           redis.LockStoreInterface
	walletService       *WalletService
	notificationService *NotificationService
}

// NewDispatchService creates a new DispatchService. lockStore may be nil in
// single-process deployments; the row-level claim still guarantees
// first-accept-wins.
func NewDispatchService(
	orderRepo repository.OrderRepository,
	lockStore redis.LockStoreInterface,
	walletService *WalletService,
	notificationService *NotificationService,
) *DispatchService {
	return &DispatchService{
		orderRepo:           orderRepo,
		lockStore:           lockStore,
		walletService:       walletService,
		notificationService: notificationService,
	}
}

// AcceptOrder assigns a driver to an unclaimed order. The first driver to
// accept wins; every later attempt fails with ErrAssignmentConflict, never a
// silent no-op. Rides auto-advance to IN_TRANSIT in the same atomic step.
func (s *DispatchService) AcceptOrder(ctx context.Context, orderID, driverID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	// Short lock to thin the herd; correctness comes from the conditional claim.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireOrderLock(ctx, orderID, acceptLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrAssignmentConflict
		}
		defer func() { _ = s.lockStore.ReleaseOrderLock(ctx, orderID) }()
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.DriverID != "" {
		return nil, ErrAssignmentConflict
	}
	if order.Status != domain.BiddableStatus(order.ServiceType) {
		return nil, ErrOrderNotBiddable
	}

	newStatus := order.Status
	if advanced, ok := domain.AcceptAdvance(order.ServiceType); ok {
		newStatus = advanced
	}

	if err := s.orderRepo.ClaimDriver(ctx, orderID, driverID, newStatus); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAssignmentConflict
		}
		return nil, err
	}

	order.DriverID = driverID
	order.Status = newStatus

	if s.notificationService != nil {
		_ = s.notificationService.NotifyOrderAccepted(ctx, order)
	}

	return order, nil
}

// UpdateStatus applies a status transition after validating it against the
// order's service-specific transition graph. Illegal changes fail with
// ErrInvalidTransition. A transition into the terminal success status
// triggers settlement; the settlement itself is idempotent, so a duplicate
// delivery of the same event cannot double-credit.
func (s *DispatchService) UpdateStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(order.ServiceType, order.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	// Collecting or transporting requires a driver on the order.
	if (newStatus == domain.OrderStatusOutForDelivery || newStatus == domain.OrderStatusInTransit) && order.DriverID == "" {
		return nil, ErrDriverRequired
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, order.Status, newStatus); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost the compare-and-set: someone moved the order first.
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	order.Status = newStatus

	if newStatus == domain.TerminalSuccessStatus(order.ServiceType) {
		s.settle(ctx, order)
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyStatusChanged(ctx, order)
	}

	return order, nil
}

// Cancel moves an order to CANCELLED from any non-terminal status and refunds
// wallet payments.
func (s *DispatchService) Cancel(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(order.ServiceType, order.Status, domain.OrderStatusCancelled) {
		return nil, ErrInvalidTransition
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, order.Status, domain.OrderStatusCancelled); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	order.Status = domain.OrderStatusCancelled
	order.CancelReason = reason

	if err := s.orderRepo.MarkCancelled(ctx, orderID, reason); err != nil {
		log.Printf("failed to record cancellation metadata for order %s: %v", orderID, err)
	}

	if s.walletService != nil {
		if err := s.walletService.Refund(ctx, order); err != nil {
			log.Printf("refund failed for order %s: %v", orderID, err)
		} else if order.PaymentMethod == domain.PaymentMethodWallet && order.PaymentStatus == domain.PaymentStatusPaid {
			order.PaymentStatus = domain.PaymentStatusRefunded
			if err := s.orderRepo.SetPaymentStatus(ctx, orderID, domain.PaymentStatusRefunded); err != nil {
				log.Printf("failed to mark order %s refunded: %v", orderID, err)
			}
		}
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyOrderCancelled(ctx, order)
	}

	return order, nil
}

// RateOrder stores a post-delivery rating on a successfully finished order.
func (s *DispatchService) RateOrder(ctx context.Context, orderID string, rating int) error {
	if orderID == "" {
		return ErrInvalidOrderID
	}
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.TerminalSuccessStatus(order.ServiceType) {
		return ErrOrderNotDelivered
	}

	return s.orderRepo.SetRating(ctx, orderID, rating)
}

// settle runs the wallet settlement for a terminal success transition.
// Settlement failure never reverts the transition; the idempotent Settle can
// be retried on the next duplicate event.
func (s *DispatchService) settle(ctx context.Context, order *domain.Order) {
	if s.walletService == nil {
		return
	}
	if err := s.walletService.Settle(ctx, order); err != nil {
		log.Printf("settlement failed for order %s: %v", order.ID, err)
		return
	}
	if s.notificationService != nil {
		_ = s.notificationService.NotifySettled(ctx, order)
	}
}
