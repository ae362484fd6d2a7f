package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// OrderService handles order placement and reads.
type OrderService struct {
	orderRepo      repository.OrderRepository
	pricingService *PricingService
	walletService  *WalletService
	pricingConfig  domain.PricingConfig
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repository.OrderRepository,
	pricingService *PricingService,
	walletService *WalletService,
	pricingConfig domain.PricingConfig,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		pricingService: pricingService,
		walletService:  walletService,
		pricingConfig:  pricingConfig,
	}
}

// PlaceOrderRequest contains the parameters for placing an order.
type PlaceOrderRequest struct {
	ServiceType     domain.ServiceType
	CustomerID      string
	MerchantID      string
	Origin          domain.Location
	Destination     domain.Location
	DestinationText string
	PaymentMethod   domain.PaymentMethod
}

// PlaceOrder quotes, charges and persists a new order.
//
// The amount is fixed from the quote at this point and never recomputed.
// Wallet payments are debited immediately; an uncovered debit rejects the
// whole placement. Merchant-direct parcels are created pre-accepted in READY
// and pre-paid from the merchant's wallet.
func (s *OrderService) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	switch req.ServiceType {
	case domain.ServiceFood, domain.ServiceParcel:
		if req.MerchantID == "" {
			return nil, ErrInvalidMerchantID
		}
	case domain.ServiceRide:
	default:
		return nil, ErrInvalidServiceType
	}

	if req.CustomerID == "" {
		return nil, ErrInvalidCustomerID
	}
	if !domain.ValidCoordinates(req.Origin.Lat, req.Origin.Lng) ||
		!domain.ValidCoordinates(req.Destination.Lat, req.Destination.Lng) {
		return nil, ErrInvalidLocation
	}

	paymentMethod := req.PaymentMethod
	if req.ServiceType == domain.ServiceParcel {
		// Merchant-direct parcels are always prepaid from the merchant wallet.
		paymentMethod = domain.PaymentMethodWallet
	}
	switch paymentMethod {
	case domain.PaymentMethodWallet, domain.PaymentMethodCash, domain.PaymentMethodCard:
	default:
		return nil, ErrInvalidPaymentMethod
	}

	distanceKm := domain.HaversineKm(req.Origin, req.Destination)
	quote, err := s.pricingService.EstimateFare(distanceKm, req.DestinationText, s.pricingConfig)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:              uuid.New().String(),
		ServiceType:     req.ServiceType,
		CustomerID:      req.CustomerID,
		MerchantID:      req.MerchantID,
		Origin:          req.Origin,
		Destination:     req.Destination,
		DestinationText: req.DestinationText,
		Amount:          quote.Total,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   domain.PaymentStatusWaiting,
		Status:          domain.InitialStatus(req.ServiceType),
		CreatedAt:       time.Now(),
	}

	if paymentMethod == domain.PaymentMethodWallet {
		payer := req.CustomerID
		if req.ServiceType == domain.ServiceParcel {
			payer = req.MerchantID
		}
		if err := s.walletService.Debit(ctx, payer, order.ID, order.Amount); err != nil {
			return nil, err
		}
		order.PaymentStatus = domain.PaymentStatusPaid
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		// Give the money back rather than leak a charge for an order that
		// never existed.
		if order.PaymentStatus == domain.PaymentStatusPaid {
			_ = s.walletService.Refund(ctx, order)
		}
		return nil, err
	}

	return order, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	return s.orderRepo.GetByID(ctx, orderID)
}

// GetAllOrders retrieves all orders, newest first.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

// GetActiveOrdersByDriver retrieves a driver's assigned, non-terminal orders.
func (s *OrderService) GetActiveOrdersByDriver(ctx context.Context, driverID string) ([]*domain.Order, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	return s.orderRepo.GetActiveByDriverID(ctx, driverID)
}
