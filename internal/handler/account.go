package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace/internal/domain"
	"marketplace/internal/repository"
	"marketplace/internal/service"
)

// AccountHandler handles HTTP requests for wallet accounts.
type AccountHandler struct {
	accountRepo           repository.AccountRepository
	walletService         *service.WalletService
	advisor               service.Advisor
	defaultCommissionRate float64
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(
	accountRepo repository.AccountRepository,
	walletService *service.WalletService,
	advisor service.Advisor,
	defaultCommissionRate float64,
) *AccountHandler {
	return &AccountHandler{
		accountRepo:           accountRepo,
		walletService:         walletService,
		advisor:               advisor,
		defaultCommissionRate: defaultCommissionRate,
	}
}

// RegisterAccountRequest is the HTTP request body for account registration.
type RegisterAccountRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// TopUpRequest is the HTTP request body for a wallet top-up.
type TopUpRequest struct {
	Amount float64 `json:"amount"`
}

// AccountResponse is the HTTP response for account data.
type AccountResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Role           string  `json:"role"`
	WalletBalance  float64 `json:"wallet_balance"`
	CommissionRate float64 `json:"commission_rate"`
}

// LedgerEntryResponse is the HTTP response for a ledger entry.
type LedgerEntryResponse struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"order_id,omitempty"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

// Register handles POST /v1/accounts/register
func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	role := domain.AccountRole(req.Role)
	switch role {
	case domain.RoleCustomer, domain.RoleMerchant, domain.RoleDriver:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "role must be CUSTOMER, MERCHANT or DRIVER"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name is required"})
		return
	}

	account := &domain.Account{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Role:      role,
		CreatedAt: time.Now(),
	}
	// Only drivers earn settlement credits, so only they carry a rate.
	if role == domain.RoleDriver {
		account.CommissionRate = h.defaultCommissionRate
	}

	if err := h.accountRepo.Create(c.Request.Context(), account); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAccountResponse(account))
}

// GetAll handles GET /v1/accounts
func (h *AccountHandler) GetAll(c *gin.Context) {
	accounts, err := h.accountRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, toAccountResponse(account))
	}
	c.JSON(http.StatusOK, resp)
}

// TopUp handles POST /v1/accounts/:id/topup
func (h *AccountHandler) TopUp(c *gin.Context) {
	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	balance, err := h.walletService.TopUp(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"wallet_balance": balance})
}

// Ledger handles GET /v1/accounts/:id/ledger
func (h *AccountHandler) Ledger(c *gin.Context) {
	entries, err := h.walletService.Ledger(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, LedgerEntryResponse{
			ID:        entry.ID,
			OrderID:   entry.OrderID,
			Type:      string(entry.Type),
			Amount:    entry.Amount,
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Tip handles GET /v1/accounts/:id/tip
//
// The tip is display-only advisory text; it is served for merchants and never
// touches order or wallet state.
func (h *AccountHandler) Tip(c *gin.Context) {
	account, err := h.accountRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if account.Role != domain.RoleMerchant {
		respondError(c, service.ErrInvalidRole)
		return
	}

	tip := ""
	if h.advisor != nil {
		tip = h.advisor.MerchantTip(c.Request.Context(), 0, 0)
	}
	c.JSON(http.StatusOK, gin.H{"tip": tip})
}

func toAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:             account.ID,
		Name:           account.Name,
		Role:           string(account.Role),
		WalletBalance:  account.WalletBalance,
		CommissionRate: account.CommissionRate,
	}
}
