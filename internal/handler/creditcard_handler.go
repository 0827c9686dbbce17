package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
)

// CreditCardHandler handles credit card and bill HTTP requests
type CreditCardHandler struct {
	cardService *service.CreditCardService
	billService *service.BillService
}

// NewCreditCardHandler creates a new CreditCardHandler
func NewCreditCardHandler(cardService *service.CreditCardService, billService *service.BillService) *CreditCardHandler {
	return &CreditCardHandler{cardService: cardService, billService: billService}
}

// CreditCardRequest represents the create/update credit card request body
type CreditCardRequest struct {
	Name              string `json:"name"`
	CreditLimit       string `json:"creditLimit"`
	ClosingDay        int32  `json:"closingDay"`
	DueDay            int32  `json:"dueDay"`
	Color             string `json:"color"`
	AutoGenerateBills bool   `json:"autoGenerateBills"`
}

// RecordPaymentRequest represents the bill payment request body
type RecordPaymentRequest struct {
	Amount               string `json:"amount"`
	PaymentTransactionID *int32 `json:"paymentTransactionId,omitempty"`
}

func cardErrorResponse(c echo.Context, err error, action string) error {
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
	case errors.Is(err, domain.ErrInvalidClosingDay):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "closingDay", Message: "Closing day must be between 1 and 31"},
		})
	case errors.Is(err, domain.ErrInvalidDueDay):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "dueDay", Message: "Due day must be between 1 and 31"},
		})
	case errors.Is(err, domain.ErrCreditCardNotFound):
		return NewNotFoundError(c, "Credit card not found")
	case errors.Is(err, domain.ErrBillNotFound):
		return NewNotFoundError(c, "Bill not found")
	case errors.Is(err, domain.ErrBillAlreadyExists):
		return NewConflictError(c, "Bill already exists for this cycle")
	}
	log.Error().Err(err).Msg(action)
	return NewInternalError(c, action)
}

func (h *CreditCardHandler) bindCardInput(c echo.Context) (service.CreateCreditCardInput, error) {
	var req CreditCardRequest
	if err := c.Bind(&req); err != nil {
		return service.CreateCreditCardInput{}, NewValidationError(c, "Invalid request body", nil)
	}

	limit := decimal.Zero
	if req.CreditLimit != "" {
		parsed, err := decimal.NewFromString(req.CreditLimit)
		if err != nil {
			return service.CreateCreditCardInput{}, NewValidationError(c, "Invalid credit limit", []ValidationError{
				{Field: "creditLimit", Message: "Must be a valid decimal number"},
			})
		}
		limit = parsed
	}

	return service.CreateCreditCardInput{
		Name:              req.Name,
		CreditLimit:       limit,
		ClosingDay:        req.ClosingDay,
		DueDay:            req.DueDay,
		Color:             req.Color,
		AutoGenerateBills: req.AutoGenerateBills,
	}, nil
}

// CreateCreditCard handles POST /api/v1/credit-cards
func (h *CreditCardHandler) CreateCreditCard(c echo.Context) error {
	input, errResp := h.bindCardInput(c)
	if errResp != nil {
		return errResp
	}

	card, err := h.cardService.CreateCreditCard(input)
	if err != nil {
		return cardErrorResponse(c, err, "Failed to create credit card")
	}

	log.Info().Int32("card_id", card.ID).Str("name", card.Name).Msg("Credit card created")
	return c.JSON(http.StatusCreated, card)
}

// GetCreditCards handles GET /api/v1/credit-cards
func (h *CreditCardHandler) GetCreditCards(c echo.Context) error {
	cards, err := h.cardService.GetCreditCards()
	if err != nil {
		return cardErrorResponse(c, err, "Failed to get credit cards")
	}
	return c.JSON(http.StatusOK, cards)
}

// GetCreditCard handles GET /api/v1/credit-cards/:id
func (h *CreditCardHandler) GetCreditCard(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid credit card ID", nil)
	}

	card, err := h.cardService.GetCreditCardByID(id)
	if err != nil {
		return cardErrorResponse(c, err, "Failed to get credit card")
	}
	return c.JSON(http.StatusOK, card)
}

// UpdateCreditCard handles PUT /api/v1/credit-cards/:id
func (h *CreditCardHandler) UpdateCreditCard(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid credit card ID", nil)
	}

	input, errResp := h.bindCardInput(c)
	if errResp != nil {
		return errResp
	}

	card, err := h.cardService.UpdateCreditCard(id, input)
	if err != nil {
		return cardErrorResponse(c, err, "Failed to update credit card")
	}
	return c.JSON(http.StatusOK, card)
}

// DeleteCreditCard handles DELETE /api/v1/credit-cards/:id
func (h *CreditCardHandler) DeleteCreditCard(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid credit card ID", nil)
	}

	if err := h.cardService.DeleteCreditCard(id); err != nil {
		return cardErrorResponse(c, err, "Failed to delete credit card")
	}

	log.Info().Int32("card_id", id).Msg("Credit card deleted")
	return c.NoContent(http.StatusNoContent)
}

// ListBills handles GET /api/v1/credit-cards/:id/bills
func (h *CreditCardHandler) ListBills(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid credit card ID", nil)
	}

	bills, err := h.billService.ListBillsByCard(id)
	if err != nil {
		return cardErrorResponse(c, err, "Failed to list bills")
	}
	return c.JSON(http.StatusOK, bills)
}

// GenerateBill handles POST /api/v1/credit-cards/:id/bills/:year/:month
func (h *CreditCardHandler) GenerateBill(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid credit card ID", nil)
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2200 {
		return NewValidationError(c, "Invalid year", nil)
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return NewValidationError(c, "Invalid month", nil)
	}

	bill, err := h.billService.GenerateBillForMonth(id, year, month)
	if err != nil {
		return cardErrorResponse(c, err, "Failed to generate bill")
	}

	log.Info().
		Int32("card_id", id).
		Int("year", year).
		Int("month", month).
		Int32("bill_id", bill.ID).
		Msg("Bill generated")
	return c.JSON(http.StatusCreated, bill)
}

// GetBill handles GET /api/v1/bills/:id
func (h *CreditCardHandler) GetBill(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", nil)
	}

	bill, err := h.billService.GetBillByID(id)
	if err != nil {
		return cardErrorResponse(c, err, "Failed to get bill")
	}
	return c.JSON(http.StatusOK, bill)
}

// ListBillTransactions handles GET /api/v1/bills/:id/transactions
func (h *CreditCardHandler) ListBillTransactions(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", nil)
	}

	transactions, err := h.billService.ListBillTransactions(id)
	if err != nil {
		return cardErrorResponse(c, err, "Failed to list bill transactions")
	}
	return c.JSON(http.StatusOK, transactions)
}

// RecordBillPayment handles POST /api/v1/bills/:id/payments
func (h *CreditCardHandler) RecordBillPayment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", nil)
	}

	var req RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	amount, errResp := parseAmount(c, req.Amount, "amount")
	if errResp != nil {
		return errResp
	}

	bill, err := h.billService.RecordPayment(id, amount, req.PaymentTransactionID)
	if err != nil {
		return cardErrorResponse(c, err, "Failed to record bill payment")
	}

	log.Info().
		Int32("bill_id", id).
		Str("amount", amount.String()).
		Str("status", string(bill.Status)).
		Msg("Bill payment recorded")
	return c.JSON(http.StatusOK, bill)
}

// RecalculateBill handles POST /api/v1/bills/:id/recalculate
func (h *CreditCardHandler) RecalculateBill(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", nil)
	}

	bill, err := h.billService.RecalculateBillTotal(id)
	if err != nil {
		return cardErrorResponse(c, err, "Failed to recalculate bill")
	}
	return c.JSON(http.StatusOK, bill)
}
