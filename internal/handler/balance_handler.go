package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
)

// BalanceHandler handles pool and transfer HTTP requests
type BalanceHandler struct {
	balanceService *service.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(balanceService *service.BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceService: balanceService}
}

// CreatePoolRequest represents the create pool request body
type CreatePoolRequest struct {
	AccountID  int32   `json:"accountId"`
	Name       string  `json:"name"`
	GoalAmount *string `json:"goalAmount,omitempty"`
}

// TransferRequest represents a transfer request body. The balance check
// defaults to on when validateSufficientBalance is omitted.
type TransferRequest struct {
	FromBalanceID             int32   `json:"fromBalanceId"`
	ToBalanceID               int32   `json:"toBalanceId"`
	Amount                    string  `json:"amount"`
	Description               *string `json:"description,omitempty"`
	ValidateSufficientBalance *bool   `json:"validateSufficientBalance,omitempty"`
}

// PoolAmountRequest moves money into or out of a pool
type PoolAmountRequest struct {
	Amount      string  `json:"amount"`
	Description *string `json:"description,omitempty"`
}

func parseAmount(c echo.Context, raw, field string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: field, Message: "Must be a valid decimal number"},
		})
	}
	return amount, nil
}

func balanceErrorResponse(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrSameBalanceTransfer):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "toBalanceId", Message: "Source and destination must differ"},
		})
	case errors.Is(err, domain.ErrInsufficientBalance):
		return NewConflictError(c, "Insufficient balance")
	case errors.Is(err, domain.ErrBalanceNotFound):
		return NewNotFoundError(c, "Balance not found")
	}
	log.Error().Err(err).Msg(action)
	return NewInternalError(c, action)
}

// CreatePool handles POST /api/v1/pools
func (h *BalanceHandler) CreatePool(c echo.Context) error {
	var req CreatePoolRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var goal *decimal.Decimal
	if req.GoalAmount != nil && *req.GoalAmount != "" {
		parsed, err := decimal.NewFromString(*req.GoalAmount)
		if err != nil {
			return NewValidationError(c, "Invalid goal amount", []ValidationError{
				{Field: "goalAmount", Message: "Must be a valid decimal number"},
			})
		}
		goal = &parsed
	}

	pool, err := h.balanceService.CreatePool(service.CreatePoolInput{
		AccountID:  req.AccountID,
		Name:       req.Name,
		GoalAmount: goal,
	})
	if err != nil {
		return balanceErrorResponse(c, err, "Failed to create pool")
	}

	log.Info().Int32("pool_id", pool.ID).Str("name", pool.Name).Msg("Pool created")
	return c.JSON(http.StatusCreated, pool)
}

// UpdatePool handles PUT /api/v1/pools/:id
func (h *BalanceHandler) UpdatePool(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid pool ID", nil)
	}

	var req CreatePoolRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	var goal *decimal.Decimal
	if req.GoalAmount != nil && *req.GoalAmount != "" {
		parsed, err := decimal.NewFromString(*req.GoalAmount)
		if err != nil {
			return NewValidationError(c, "Invalid goal amount", []ValidationError{
				{Field: "goalAmount", Message: "Must be a valid decimal number"},
			})
		}
		goal = &parsed
	}

	pool, err := h.balanceService.UpdatePool(id, req.Name, goal)
	if err != nil {
		return balanceErrorResponse(c, err, "Failed to update pool")
	}
	return c.JSON(http.StatusOK, pool)
}

// DeactivatePool handles DELETE /api/v1/pools/:id
func (h *BalanceHandler) DeactivatePool(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid pool ID", nil)
	}

	if err := h.balanceService.DeactivatePool(id); err != nil {
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return NewConflictError(c, "Pool must be empty before deactivation")
		}
		return balanceErrorResponse(c, err, "Failed to deactivate pool")
	}
	return c.NoContent(http.StatusNoContent)
}

// Transfer handles POST /api/v1/transfers
func (h *BalanceHandler) Transfer(c echo.Context) error {
	var req TransferRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, errResp := parseAmount(c, req.Amount, "amount")
	if errResp != nil {
		return errResp
	}

	skipCheck := req.ValidateSufficientBalance != nil && !*req.ValidateSufficientBalance
	result, err := h.balanceService.Transfer(service.TransferInput{
		FromBalanceID:    req.FromBalanceID,
		ToBalanceID:      req.ToBalanceID,
		Amount:           amount,
		Description:      req.Description,
		SkipBalanceCheck: skipCheck,
	})
	if err != nil {
		return balanceErrorResponse(c, err, "Failed to transfer")
	}

	log.Info().
		Int32("from_balance_id", req.FromBalanceID).
		Int32("to_balance_id", req.ToBalanceID).
		Str("amount", amount.String()).
		Msg("Transfer completed")
	return c.JSON(http.StatusCreated, result)
}

// TransferToPool handles POST /api/v1/pools/:id/deposit
func (h *BalanceHandler) TransferToPool(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid pool ID", nil)
	}

	var req PoolAmountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	amount, errResp := parseAmount(c, req.Amount, "amount")
	if errResp != nil {
		return errResp
	}

	result, err := h.balanceService.TransferToPool(id, amount, req.Description)
	if err != nil {
		return balanceErrorResponse(c, err, "Failed to deposit into pool")
	}
	return c.JSON(http.StatusCreated, result)
}

// WithdrawFromPool handles POST /api/v1/pools/:id/withdraw
func (h *BalanceHandler) WithdrawFromPool(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid pool ID", nil)
	}

	var req PoolAmountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	amount, errResp := parseAmount(c, req.Amount, "amount")
	if errResp != nil {
		return errResp
	}

	result, err := h.balanceService.WithdrawFromPool(id, amount, req.Description)
	if err != nil {
		return balanceErrorResponse(c, err, "Failed to withdraw from pool")
	}
	return c.JSON(http.StatusCreated, result)
}
