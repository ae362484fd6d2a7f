package tests

import (
	"context"
	"errors"
	"testing"

	"marketplace/internal/domain"
	"marketplace/internal/service"
)

// ──────────────────────────────────────────────
// 3. ORDER PLACEMENT
// ──────────────────────────────────────────────

func testPricingConfig() domain.PricingConfig {
	return domain.PricingConfig{
		BaseFee:   5.0,
		PerKmRate: 2.5,
		MinFare:   10.0,
		Regions: []domain.RegionSurcharge{
			{Name: "Centro Histórico", Surcharge: 3.0},
		},
	}
}

func newOrderService(orderRepo *MockOrderRepository, accountRepo *MockAccountRepository, ledgerRepo *MockLedgerRepository) *service.OrderService {
	wallet := service.NewWalletService(accountRepo, ledgerRepo, "platform")
	return service.NewOrderService(orderRepo, service.NewPricingService(), wallet, testPricingConfig())
}

func TestPlaceOrder_WalletChargedAtPlacement(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	accountRepo := NewMockAccountRepository()
	ledgerRepo := NewMockLedgerRepository()
	accountRepo.AddAccount(&domain.Account{ID: "customer-1", Role: domain.RoleCustomer, WalletBalance: 100})

	orders := newOrderService(orderRepo, accountRepo, ledgerRepo)

	order, err := orders.PlaceOrder(context.Background(), service.PlaceOrderRequest{
		ServiceType:   domain.ServiceFood,
		CustomerID:    "customer-1",
		MerchantID:    "merchant-1",
		Origin:        domain.Location{Lat: -8.05, Lng: -34.9},
		Destination:   domain.Location{Lat: -8.06, Lng: -34.91},
		PaymentMethod: domain.PaymentMethodWallet,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Amount <= 0 {
		t.Fatalf("expected a positive quoted amount, got %.2f", order.Amount)
	}
	if order.PaymentStatus != domain.PaymentStatusPaid {
		t.Errorf("wallet orders are paid at placement, got %s", order.PaymentStatus)
	}
	if got := accountRepo.Balance("customer-1"); got != 100-order.Amount {
		t.Errorf("expected balance %.2f, got %.2f", 100-order.Amount, got)
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("food orders start PENDING, got %s", order.Status)
	}
}

func TestPlaceOrder_InsufficientFunds_NoOrderCreated(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	accountRepo := NewMockAccountRepository()
	accountRepo.AddAccount(&domain.Account{ID: "customer-1", Role: domain.RoleCustomer, WalletBalance: 1})

	orders := newOrderService(orderRepo, accountRepo, NewMockLedgerRepository())

	_, err := orders.PlaceOrder(context.Background(), service.PlaceOrderRequest{
		ServiceType:   domain.ServiceFood,
		CustomerID:    "customer-1",
		MerchantID:    "merchant-1",
		Origin:        domain.Location{Lat: -8.05, Lng: -34.9},
		Destination:   domain.Location{Lat: -8.06, Lng: -34.91},
		PaymentMethod: domain.PaymentMethodWallet,
	})
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if orderRepo.CountOrders() != 0 {
		t.Error("a rejected debit must reject the whole placement")
	}
	if got := accountRepo.Balance("customer-1"); got != 1 {
		t.Errorf("balance must be unchanged, got %.2f", got)
	}
}

func TestPlaceOrder_ParcelIsPrepaidByMerchantAndStartsReady(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	accountRepo := NewMockAccountRepository()
	accountRepo.AddAccount(&domain.Account{ID: "merchant-1", Role: domain.RoleMerchant, WalletBalance: 50})

	orders := newOrderService(orderRepo, accountRepo, NewMockLedgerRepository())

	order, err := orders.PlaceOrder(context.Background(), service.PlaceOrderRequest{
		ServiceType: domain.ServiceParcel,
		CustomerID:  "customer-1",
		MerchantID:  "merchant-1",
		Origin:      domain.Location{Lat: -8.05, Lng: -34.9},
		Destination: domain.Location{Lat: -8.06, Lng: -34.91},
		// Requested method is ignored for parcels.
		PaymentMethod: domain.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.PaymentMethod != domain.PaymentMethodWallet {
		t.Errorf("parcels are always wallet-paid, got %s", order.PaymentMethod)
	}
	if order.Status != domain.OrderStatusReady {
		t.Errorf("parcels skip preparation and start READY, got %s", order.Status)
	}
	if got := accountRepo.Balance("merchant-1"); got != 50-order.Amount {
		t.Errorf("merchant pays for parcels, expected %.2f got %.2f", 50-order.Amount, got)
	}
}

func TestPlaceOrder_RideCashStaysWaiting(t *testing.T) {
	t.Parallel()

	orderRepo := NewMockOrderRepository()
	orders := newOrderService(orderRepo, NewMockAccountRepository(), NewMockLedgerRepository())

	order, err := orders.PlaceOrder(context.Background(), service.PlaceOrderRequest{
		ServiceType:   domain.ServiceRide,
		CustomerID:    "customer-1",
		Origin:        domain.Location{Lat: -8.05, Lng: -34.9},
		Destination:   domain.Location{Lat: -8.06, Lng: -34.91},
		PaymentMethod: domain.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.PaymentStatus != domain.PaymentStatusWaiting {
		t.Errorf("cash orders stay WAITING, got %s", order.PaymentStatus)
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("rides start PENDING, got %s", order.Status)
	}
}

func TestPlaceOrder_Validation(t *testing.T) {
	t.Parallel()

	orders := newOrderService(NewMockOrderRepository(), NewMockAccountRepository(), NewMockLedgerRepository())
	ctx := context.Background()

	valid := service.PlaceOrderRequest{
		ServiceType:   domain.ServiceFood,
		CustomerID:    "customer-1",
		MerchantID:    "merchant-1",
		Origin:        domain.Location{Lat: -8.05, Lng: -34.9},
		Destination:   domain.Location{Lat: -8.06, Lng: -34.91},
		PaymentMethod: domain.PaymentMethodCash,
	}

	req := valid
	req.ServiceType = "SCOOTER"
	if _, err := orders.PlaceOrder(ctx, req); !errors.Is(err, service.ErrInvalidServiceType) {
		t.Errorf("expected ErrInvalidServiceType, got %v", err)
	}

	req = valid
	req.MerchantID = ""
	if _, err := orders.PlaceOrder(ctx, req); !errors.Is(err, service.ErrInvalidMerchantID) {
		t.Errorf("food orders need a merchant, got %v", err)
	}

	req = valid
	req.CustomerID = ""
	if _, err := orders.PlaceOrder(ctx, req); !errors.Is(err, service.ErrInvalidCustomerID) {
		t.Errorf("expected ErrInvalidCustomerID, got %v", err)
	}

	req = valid
	req.Destination = domain.Location{Lat: 123, Lng: 0}
	if _, err := orders.PlaceOrder(ctx, req); !errors.Is(err, service.ErrInvalidLocation) {
		t.Errorf("expected ErrInvalidLocation, got %v", err)
	}

	req = valid
	req.PaymentMethod = "CHECK"
	if _, err := orders.PlaceOrder(ctx, req); !errors.Is(err, service.ErrInvalidPaymentMethod) {
		t.Errorf("expected ErrInvalidPaymentMethod, got %v", err)
	}
}
