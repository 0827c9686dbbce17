package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
)

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	installmentService *service.InstallmentService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, installmentService *service.InstallmentService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		installmentService: installmentService,
	}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Amount          string  `json:"amount"`
	Type            string  `json:"type"`
	Status          string  `json:"status,omitempty"`
	Category        string  `json:"category"`
	Subcategory     *string `json:"subcategory,omitempty"`
	TransactionDate string  `json:"transactionDate,omitempty"`
	BalanceID       *int32  `json:"balanceId,omitempty"`
	BillID          *int32  `json:"billId,omitempty"`
	Description     *string `json:"description,omitempty"`
}

// CreateInstallmentRequest represents an installment purchase request body
type CreateInstallmentRequest struct {
	CreditCardID int32   `json:"creditCardId"`
	TotalAmount  string  `json:"totalAmount"`
	Installments int32   `json:"installments"`
	Category     string  `json:"category"`
	Description  *string `json:"description,omitempty"`
	PurchaseDate string  `json:"purchaseDate,omitempty"`
}

// UpdateStatusRequest represents a status transition request body
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func parseDateParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}

func transactionErrorResponse(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidTransactionType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be income or expense"},
		})
	case errors.Is(err, domain.ErrInvalidTransactionStatus):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "status", Message: "Status must be expected, completed or cancelled"},
		})
	case errors.Is(err, domain.ErrInvalidCategory):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Unknown category"},
		})
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description must be 1000 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidInstallmentCount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "installments", Message: "Installments must be between 2 and 48"},
		})
	case errors.Is(err, domain.ErrNotInstallmentParent):
		return NewConflictError(c, "Transaction is not an installment parent")
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrBalanceNotFound):
		return NewNotFoundError(c, "Balance not found")
	case errors.Is(err, domain.ErrBillNotFound):
		return NewNotFoundError(c, "Bill not found")
	case errors.Is(err, domain.ErrCreditCardNotFound):
		return NewNotFoundError(c, "Credit card not found")
	}
	log.Error().Err(err).Msg(action)
	return NewInternalError(c, action)
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, errResp := parseAmount(c, req.Amount, "amount")
	if errResp != nil {
		return errResp
	}
	date, err := parseDateParam(req.TransactionDate)
	if err != nil {
		return NewValidationError(c, "Invalid transaction date", []ValidationError{
			{Field: "transactionDate", Message: "Must be YYYY-MM-DD"},
		})
	}

	tx, err := h.transactionService.CreateTransaction(service.CreateTransactionInput{
		Amount:          amount,
		Type:            domain.TransactionType(req.Type),
		Status:          domain.TransactionStatus(req.Status),
		Category:        domain.Category(req.Category),
		Subcategory:     req.Subcategory,
		TransactionDate: date,
		BalanceID:       req.BalanceID,
		BillID:          req.BillID,
		Description:     req.Description,
	})
	if err != nil {
		return transactionErrorResponse(c, err, "Failed to create transaction")
	}

	log.Info().Int32("transaction_id", tx.ID).Str("type", string(tx.Type)).Msg("Transaction created")
	return c.JSON(http.StatusCreated, tx)
}

// ListTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	filters := &domain.TransactionFilters{}

	if raw := c.QueryParam("balanceId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return NewValidationError(c, "Invalid balanceId", nil)
		}
		v := int32(id)
		filters.BalanceID = &v
	}
	if raw := c.QueryParam("billId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return NewValidationError(c, "Invalid billId", nil)
		}
		v := int32(id)
		filters.BillID = &v
	}
	if raw := c.QueryParam("type"); raw != "" {
		t := domain.TransactionType(raw)
		filters.Type = &t
	}
	if raw := c.QueryParam("status"); raw != "" {
		s := domain.TransactionStatus(raw)
		filters.Status = &s
	}
	if raw := c.QueryParam("startDate"); raw != "" {
		date, err := parseDateParam(raw)
		if err != nil {
			return NewValidationError(c, "Invalid startDate", nil)
		}
		filters.StartDate = &date
	}
	if raw := c.QueryParam("endDate"); raw != "" {
		date, err := parseDateParam(raw)
		if err != nil {
			return NewValidationError(c, "Invalid endDate", nil)
		}
		filters.EndDate = &date
	}
	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || page < 1 {
			return NewValidationError(c, "Invalid page", nil)
		}
		filters.Page = int32(page)
	}
	if raw := c.QueryParam("pageSize"); raw != "" {
		size, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || size < 1 {
			return NewValidationError(c, "Invalid pageSize", nil)
		}
		filters.PageSize = int32(size)
	}

	page, err := h.transactionService.ListTransactions(filters)
	if err != nil {
		return transactionErrorResponse(c, err, "Failed to list transactions")
	}
	return c.JSON(http.StatusOK, page)
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	tx, err := h.transactionService.GetTransactionByID(id)
	if err != nil {
		return transactionErrorResponse(c, err, "Failed to get transaction")
	}
	return c.JSON(http.StatusOK, tx)
}

// UpdateTransactionStatus handles PATCH /api/v1/transactions/:id/status
func (h *TransactionHandler) UpdateTransactionStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	tx, err := h.transactionService.UpdateTransactionStatus(id, domain.TransactionStatus(req.Status))
	if err != nil {
		return transactionErrorResponse(c, err, "Failed to update transaction status")
	}
	return c.JSON(http.StatusOK, tx)
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(id); err != nil {
		return transactionErrorResponse(c, err, "Failed to delete transaction")
	}

	log.Info().Int32("transaction_id", id).Msg("Transaction deleted")
	return c.NoContent(http.StatusNoContent)
}

// CreateInstallmentPurchase handles POST /api/v1/transactions/installments
func (h *TransactionHandler) CreateInstallmentPurchase(c echo.Context) error {
	var req CreateInstallmentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	total, errResp := parseAmount(c, req.TotalAmount, "totalAmount")
	if errResp != nil {
		return errResp
	}
	date, err := parseDateParam(req.PurchaseDate)
	if err != nil {
		return NewValidationError(c, "Invalid purchase date", []ValidationError{
			{Field: "purchaseDate", Message: "Must be YYYY-MM-DD"},
		})
	}

	parent, children, err := h.installmentService.CreateInstallmentPurchase(service.CreateInstallmentPurchaseInput{
		CreditCardID: req.CreditCardID,
		TotalAmount:  total,
		Installments: req.Installments,
		Category:     domain.Category(req.Category),
		Description:  req.Description,
		PurchaseDate: date,
	})
	if err != nil {
		return transactionErrorResponse(c, err, "Failed to create installment purchase")
	}

	log.Info().
		Int32("parent_id", parent.ID).
		Int32("installments", req.Installments).
		Msg("Installment purchase created")
	return c.JSON(http.StatusCreated, map[string]any{
		"parent":   parent,
		"children": children,
	})
}

// CancelInstallment handles POST /api/v1/transactions/:id/cancel-installments
func (h *TransactionHandler) CancelInstallment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	cancelled, err := h.installmentService.CancelInstallment(id)
	if err != nil {
		return transactionErrorResponse(c, err, "Failed to cancel installments")
	}
	return c.JSON(http.StatusOK, map[string]int64{"cancelled": cancelled})
}

// GetInstallmentSummary handles GET /api/v1/transactions/:id/installments
func (h *TransactionHandler) GetInstallmentSummary(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	summary, err := h.installmentService.Summary(id)
	if err != nil {
		return transactionErrorResponse(c, err, "Failed to get installment summary")
	}
	return c.JSON(http.StatusOK, summary)
}
