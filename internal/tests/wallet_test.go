package tests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"marketplace/internal/domain"
	"marketplace/internal/service"
)

// ──────────────────────────────────────────────
// 2. WALLET AND SETTLEMENT
// ──────────────────────────────────────────────

func TestWallet_TopUpReturnsNewBalance(t *testing.T) {
	t.Parallel()

	accountRepo := NewMockAccountRepository()
	ledgerRepo := NewMockLedgerRepository()
	accountRepo.AddAccount(&domain.Account{ID: "customer-1", Role: domain.RoleCustomer, WalletBalance: 10})

	wallet := service.NewWalletService(accountRepo, ledgerRepo, "platform")

	balance, err := wallet.TopUp(context.Background(), "customer-1", 40)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if balance != 50 {
		t.Errorf("expected balance 50.00, got %.2f", balance)
	}
	if len(ledgerRepo.EntriesOfType(domain.EntryTopUp)) != 1 {
		t.Error("top-up must post a TOPUP ledger entry")
	}
}

func TestWallet_TopUpRejectsNonPositiveAmount(t *testing.T) {
	t.Parallel()

	wallet := service.NewWalletService(NewMockAccountRepository(), NewMockLedgerRepository(), "platform")

	if _, err := wallet.TopUp(context.Background(), "customer-1", 0); !errors.Is(err, service.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := wallet.TopUp(context.Background(), "customer-1", -5); !errors.Is(err, service.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestWallet_DebitInsufficientFunds_BalanceUntouched(t *testing.T) {
	t.Parallel()

	accountRepo := NewMockAccountRepository()
	accountRepo.AddAccount(&domain.Account{ID: "customer-1", Role: domain.RoleCustomer, WalletBalance: 10})

	wallet := service.NewWalletService(accountRepo, NewMockLedgerRepository(), "platform")

	err := wallet.Debit(context.Background(), "customer-1", "order-1", 30)
	if !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := accountRepo.Balance("customer-1"); got != 10 {
		t.Errorf("rejected debit must leave balance unchanged, got %.2f", got)
	}
}

func TestWallet_SettlementSplitsCommission(t *testing.T) {
	t.Parallel()

	accountRepo := NewMockAccountRepository()
	ledgerRepo := NewMockLedgerRepository()
	accountRepo.AddAccount(&domain.Account{ID: "customer-1", Role: domain.RoleCustomer, WalletBalance: 100})
	accountRepo.AddAccount(&domain.Account{ID: "driver-1", Role: domain.RoleDriver, CommissionRate: 0.15})
	accountRepo.AddAccount(&domain.Account{ID: "platform", Role: domain.RolePlatform})

	wallet := service.NewWalletService(accountRepo, ledgerRepo, "platform")
	ctx := context.Background()

	// Wallet payment happens at placement.
	if err := wallet.Debit(ctx, "customer-1", "order-1", 30); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := accountRepo.Balance("customer-1"); got != 70 {
		t.Fatalf("expected customer balance 70.00 after placement, got %.2f", got)
	}

	order := &domain.Order{
		ID:            "order-1",
		ServiceType:   domain.ServiceFood,
		CustomerID:    "customer-1",
		DriverID:      "driver-1",
		Amount:        30,
		PaymentMethod: domain.PaymentMethodWallet,
		PaymentStatus: domain.PaymentStatusPaid,
		Status:        domain.OrderStatusDelivered,
	}
	if err := wallet.Settle(ctx, order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := accountRepo.Balance("driver-1"); got != 25.5 {
		t.Errorf("driver credit should be 25.50, got %.2f", got)
	}
	if got := accountRepo.Balance("platform"); got != 4.5 {
		t.Errorf("platform commission should be 4.50, got %.2f", got)
	}

	// Commission is explicit platform revenue, not an implicit remainder.
	commissions := ledgerRepo.EntriesOfType(domain.EntryCommission)
	if len(commissions) != 1 {
		t.Fatalf("expected 1 COMMISSION entry, got %d", len(commissions))
	}
	if commissions[0].AccountID != "platform" || commissions[0].Amount != 4.5 {
		t.Errorf("commission entry should credit platform 4.50, got %+v", commissions[0])
	}
}

func TestWallet_SettleTwice_CreditsOnce(t *testing.T) {
	t.Parallel()

	accountRepo := NewMockAccountRepository()
	ledgerRepo := NewMockLedgerRepository()
	accountRepo.AddAccount(&domain.Account{ID: "driver-1", Role: domain.RoleDriver, CommissionRate: 0.15})
	accountRepo.AddAccount(&domain.Account{ID: "platform", Role: domain.RolePlatform})

	wallet := service.NewWalletService(accountRepo, ledgerRepo, "platform")

	order := &domain.Order{
		ID:            "order-1",
		ServiceType:   domain.ServiceFood,
		CustomerID:    "customer-1",
		DriverID:      "driver-1",
		Amount:        100,
		PaymentMethod: domain.PaymentMethodWallet,
		PaymentStatus: domain.PaymentStatusPaid,
		Status:        domain.OrderStatusDelivered,
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := wallet.Settle(ctx, order); err != nil {
			t.Fatalf("settle %d: unexpected error: %v", i, err)
		}
	}

	if got := accountRepo.Balance("driver-1"); got != 85 {
		t.Errorf("driver should be credited exactly once (85.00), got %.2f", got)
	}
	if got := len(ledgerRepo.EntriesOfType(domain.EntryCredit)); got != 1 {
		t.Errorf("expected 1 CREDIT entry, got %d", got)
	}
}

func TestWallet_SettleConcurrent_CreditsOnce(t *testing.T) {
	t.Parallel()

	accountRepo := NewMockAccountRepository()
	ledgerRepo := NewMockLedgerRepository()
	accountRepo.AddAccount(&domain.Account{ID: "driver-1", Role: domain.RoleDriver, CommissionRate: 0.2})
	accountRepo.AddAccount(&domain.Account{ID: "platform", Role: domain.RolePlatform})

	wallet := service.NewWalletService(accountRepo, ledgerRepo, "platform")

	order := &domain.Order{
		ID:            "order-1",
		ServiceType:   domain.ServiceRide,
		CustomerID:    "customer-1",
		DriverID:      "driver-1",
		Amount:        50,
		PaymentMethod: domain.PaymentMethodWallet,
		PaymentStatus: domain.PaymentStatusPaid,
		Status:        domain.OrderStatusCompleted,
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := wallet.Settle(context.Background(), order); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := accountRepo.Balance("driver-1"); got != 40 {
		t.Errorf("racing settlements must credit once (40.00), got %.2f", got)
	}
	if got := len(ledgerRepo.EntriesOfType(domain.EntryCredit)); got != 1 {
		t.Errorf("expected 1 CREDIT entry, got %d", got)
	}
}

func TestWallet_SettleCashOrder_NoLedgerMovement(t *testing.T) {
	t.Parallel()

	accountRepo := NewMockAccountRepository()
	ledgerRepo := NewMockLedgerRepository()
	accountRepo.AddAccount(&domain.Account{ID: "driver-1", Role: domain.RoleDriver, CommissionRate: 0.15})

	wallet := service.NewWalletService(accountRepo, ledgerRepo, "platform")

	order := &domain.Order{
		ID:            "order-1",
		DriverID:      "driver-1",
		Amount:        30,
		PaymentMethod: domain.PaymentMethodCash,
		Status:        domain.OrderStatusDelivered,
	}
	if err := wallet.Settle(context.Background(), order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledgerRepo.CountEntries() != 0 {
		t.Error("cash orders settle outside the prepaid ledger")
	}
}

func TestWallet_SettleWithoutDriver_Fails(t *testing.T) {
	t.Parallel()

	wallet := service.NewWalletService(NewMockAccountRepository(), NewMockLedgerRepository(), "platform")

	order := &domain.Order{
		ID:            "order-1",
		Amount:        30,
		PaymentMethod: domain.PaymentMethodWallet,
		Status:        domain.OrderStatusDelivered,
	}
	if err := wallet.Settle(context.Background(), order); !errors.Is(err, service.ErrDriverRequired) {
		t.Fatalf("expected ErrDriverRequired, got %v", err)
	}
}

func TestWallet_RefundTwice_CreditsOnce(t *testing.T) {
	t.Parallel()

	accountRepo := NewMockAccountRepository()
	ledgerRepo := NewMockLedgerRepository()
	accountRepo.AddAccount(&domain.Account{ID: "merchant-1", Role: domain.RoleMerchant, WalletBalance: 0})

	wallet := service.NewWalletService(accountRepo, ledgerRepo, "platform")

	// Parcels are prepaid by the merchant, so the refund goes back there.
	order := &domain.Order{
		ID:            "order-1",
		ServiceType:   domain.ServiceParcel,
		CustomerID:    "customer-1",
		MerchantID:    "merchant-1",
		Amount:        20,
		PaymentMethod: domain.PaymentMethodWallet,
		PaymentStatus: domain.PaymentStatusPaid,
		Status:        domain.OrderStatusCancelled,
	}

	ctx := context.Background()
	if err := wallet.Refund(ctx, order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := wallet.Refund(ctx, order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := accountRepo.Balance("merchant-1"); got != 20 {
		t.Errorf("merchant should be refunded exactly once (20.00), got %.2f", got)
	}
	if got := len(ledgerRepo.EntriesOfType(domain.EntryRefund)); got != 1 {
		t.Errorf("expected 1 REFUND entry, got %d", got)
	}
}
