package domain

import "time"

// AccountRole represents the role of a wallet account holder.
type AccountRole string

const (
	RoleCustomer AccountRole = "CUSTOMER"
	RoleMerchant AccountRole = "MERCHANT"
	RoleDriver   AccountRole = "DRIVER"
	RolePlatform AccountRole = "PLATFORM"
)

// Account is a wallet account for a customer, merchant, driver or the
// platform itself. WalletBalance never goes negative; every mutation goes
// through the wallet ledger.
type Account struct {
	ID             string
	Name           string
	Role           AccountRole
	WalletBalance  float64
	CommissionRate float64 // applied only at settlement credit
	CreatedAt      time.Time
}

// LedgerEntryType classifies a wallet ledger movement.
type LedgerEntryType string

const (
	EntryTopUp      LedgerEntryType = "TOPUP"
	EntryDebit      LedgerEntryType = "DEBIT"
	EntryCredit     LedgerEntryType = "CREDIT"
	EntryCommission LedgerEntryType = "COMMISSION"
	EntryRefund     LedgerEntryType = "REFUND"
)

// LedgerEntry records a single balance movement for auditability.
// Settlement entries carry an idempotency key so duplicate terminal
// transitions cannot re-apply a credit.
type LedgerEntry struct {
	ID             string
	AccountID      string
	OrderID        string // empty for top-ups
	Type           LedgerEntryType
	Amount         float64
	IdempotencyKey string
	CreatedAt      time.Time
}
