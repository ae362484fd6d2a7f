package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
)

// WalletService handles prepaid wallet balances and the settlement ledger.
// Every balance movement is posted as a ledger entry; settlement entries
// carry idempotency keys so duplicate terminal events cannot re-apply.
type WalletService struct {
	accountRepo       repository.AccountRepository
	ledgerRepo        repository.LedgerRepository
	platformAccountID string
}

// NewWalletService creates a new WalletService. platformAccountID is the
// account commission revenue is credited to.
func NewWalletService(accountRepo repository.AccountRepository, ledgerRepo repository.LedgerRepository, platformAccountID string) *WalletService {
	return &WalletService{
		accountRepo:       accountRepo,
		ledgerRepo:        ledgerRepo,
		platformAccountID: platformAccountID,
	}
}

// TopUp credits a positive amount to an account and returns the new balance.
// Gateway verification is a trusted stub boundary; any positive amount is
// accepted.
func (s *WalletService) TopUp(ctx context.Context, accountID string, amount float64) (float64, error) {
	if accountID == "" {
		return 0, ErrInvalidAccountID
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	if err := s.accountRepo.Credit(ctx, accountID, amount); err != nil {
		return 0, err
	}
	s.post(ctx, accountID, "", domain.EntryTopUp, amount, "")

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return account.WalletBalance, nil
}

// Debit charges an account, failing with ErrInsufficientFunds when the
// balance does not cover the amount. The balance is left untouched on failure.
func (s *WalletService) Debit(ctx context.Context, accountID, orderID string, amount float64) error {
	if accountID == "" {
		return ErrInvalidAccountID
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if err := s.accountRepo.Debit(ctx, accountID, amount); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return ErrInsufficientFunds
		}
		return err
	}
	s.post(ctx, accountID, orderID, domain.EntryDebit, amount, "")

	return nil
}

// Settle applies the settlement for an order that reached its terminal
// success status. The customer was already charged at placement, so only the
// driver credit (net of commission) and the platform commission entry are
// posted here. Calling Settle again for the same order is a no-op.
func (s *WalletService) Settle(ctx context.Context, order *domain.Order) error {
	if order == nil || order.ID == "" {
		return ErrInvalidOrderID
	}
	if order.PaymentMethod != domain.PaymentMethodWallet {
		// Cash and card settle outside the prepaid ledger.
		return nil
	}
	if order.DriverID == "" {
		return ErrDriverRequired
	}

	key := fmt.Sprintf("settlement:%s", order.ID)

	// Idempotency guard: a duplicate terminal event finds the entry and stops.
	existing, err := s.ledgerRepo.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	driver, err := s.accountRepo.GetByID(ctx, order.DriverID)
	if err != nil {
		return err
	}

	driverShare := order.Amount * (1 - driver.CommissionRate)
	commission := order.Amount - driverShare

	// The keyed credit entry is written first; a concurrent settle losing the
	// unique-key race backs off before touching any balance.
	if err := s.ledgerRepo.Create(ctx, &domain.LedgerEntry{
		ID:             uuid.New().String(),
		AccountID:      driver.ID,
		OrderID:        order.ID,
		Type:           domain.EntryCredit,
		Amount:         driverShare,
		IdempotencyKey: key,
		CreatedAt:      time.Now(),
	}); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil
		}
		return err
	}

	if err := s.accountRepo.Credit(ctx, driver.ID, driverShare); err != nil {
		return err
	}

	// Commission is platform revenue and must be visible in the ledger.
	if commission > 0 && s.platformAccountID != "" {
		if err := s.accountRepo.Credit(ctx, s.platformAccountID, commission); err != nil {
			return err
		}
		s.post(ctx, s.platformAccountID, order.ID, domain.EntryCommission, commission, "")
	}

	return nil
}

// Refund returns a wallet payment to the customer, once per order.
func (s *WalletService) Refund(ctx context.Context, order *domain.Order) error {
	if order == nil || order.ID == "" {
		return ErrInvalidOrderID
	}
	if order.PaymentMethod != domain.PaymentMethodWallet || order.PaymentStatus != domain.PaymentStatusPaid {
		return nil
	}

	payer := order.CustomerID
	if order.ServiceType == domain.ServiceParcel && order.MerchantID != "" {
		payer = order.MerchantID
	}

	key := fmt.Sprintf("refund:%s", order.ID)
	existing, err := s.ledgerRepo.GetByIdempotencyKey(ctx, key)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	if err := s.ledgerRepo.Create(ctx, &domain.LedgerEntry{
		ID:             uuid.New().String(),
		AccountID:      payer,
		OrderID:        order.ID,
		Type:           domain.EntryRefund,
		Amount:         order.Amount,
		IdempotencyKey: key,
		CreatedAt:      time.Now(),
	}); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil
		}
		return err
	}

	return s.accountRepo.Credit(ctx, payer, order.Amount)
}

// Balance returns the current wallet balance of an account.
func (s *WalletService) Balance(ctx context.Context, accountID string) (float64, error) {
	if accountID == "" {
		return 0, ErrInvalidAccountID
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return account.WalletBalance, nil
}

// Ledger returns the audit trail for an account, newest first.
func (s *WalletService) Ledger(ctx context.Context, accountID string) ([]*domain.LedgerEntry, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}

	return s.ledgerRepo.GetByAccountID(ctx, accountID)
}

// post writes a non-keyed ledger entry. Audit entries never block the money
// movement they describe; failures are logged.
func (s *WalletService) post(ctx context.Context, accountID, orderID string, entryType domain.LedgerEntryType, amount float64, key string) {
	err := s.ledgerRepo.Create(ctx, &domain.LedgerEntry{
		ID:             uuid.New().String(),
		AccountID:      accountID,
		OrderID:        orderID,
		Type:           entryType,
		Amount:         amount,
		IdempotencyKey: key,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		log.Printf("ledger entry failed: account=%s type=%s amount=%.2f err=%v", accountID, entryType, amount, err)
	}
}
