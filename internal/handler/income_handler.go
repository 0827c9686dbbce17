package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
)

// IncomeHandler handles income HTTP requests
type IncomeHandler struct {
	incomeService *service.IncomeService
}

// NewIncomeHandler creates a new IncomeHandler
func NewIncomeHandler(incomeService *service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// IncomeRequest represents the create/update income request body
type IncomeRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	ReceiveDay  int32  `json:"receiveDay"`
}

// SetReceivedRequest toggles the received flag
type SetReceivedRequest struct {
	Received bool `json:"received"`
}

func incomeErrorResponse(c echo.Context, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Amount must be positive"},
		})
	case errors.Is(err, domain.ErrInvalidCategory):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Unknown income category"},
		})
	case errors.Is(err, domain.ErrInvalidIncomeType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be recurrent or one_time"},
		})
	case errors.Is(err, domain.ErrInvalidDueDay):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "receiveDay", Message: "Receive day must be between 1 and 31"},
		})
	case errors.Is(err, domain.ErrIncomeNotFound):
		return NewNotFoundError(c, "Income not found")
	}
	log.Error().Err(err).Msg(action)
	return NewInternalError(c, action)
}

func (h *IncomeHandler) bindIncomeInput(c echo.Context) (service.CreateIncomeInput, error) {
	var req IncomeRequest
	if err := c.Bind(&req); err != nil {
		return service.CreateIncomeInput{}, NewValidationError(c, "Invalid request body", nil)
	}

	amount, errResp := parseAmount(c, req.Amount, "amount")
	if errResp != nil {
		return service.CreateIncomeInput{}, errResp
	}

	return service.CreateIncomeInput{
		Description: req.Description,
		Amount:      amount,
		Category:    domain.IncomeCategory(req.Category),
		Type:        domain.IncomeType(req.Type),
		ReceiveDay:  req.ReceiveDay,
	}, nil
}

// CreateIncome handles POST /api/v1/incomes
func (h *IncomeHandler) CreateIncome(c echo.Context) error {
	input, errResp := h.bindIncomeInput(c)
	if errResp != nil {
		return errResp
	}

	income, err := h.incomeService.CreateIncome(input)
	if err != nil {
		return incomeErrorResponse(c, err, "Failed to create income")
	}

	log.Info().Int32("income_id", income.ID).Str("description", income.Description).Msg("Income created")
	return c.JSON(http.StatusCreated, income)
}

// GetIncomes handles GET /api/v1/incomes
func (h *IncomeHandler) GetIncomes(c echo.Context) error {
	activeOnly := c.QueryParam("activeOnly") != "false"
	incomes, err := h.incomeService.GetIncomes(activeOnly)
	if err != nil {
		return incomeErrorResponse(c, err, "Failed to get incomes")
	}
	return c.JSON(http.StatusOK, incomes)
}

// GetIncome handles GET /api/v1/incomes/:id
func (h *IncomeHandler) GetIncome(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid income ID", nil)
	}

	income, err := h.incomeService.GetIncomeByID(id)
	if err != nil {
		return incomeErrorResponse(c, err, "Failed to get income")
	}
	return c.JSON(http.StatusOK, income)
}

// UpdateIncome handles PUT /api/v1/incomes/:id
func (h *IncomeHandler) UpdateIncome(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid income ID", nil)
	}

	input, errResp := h.bindIncomeInput(c)
	if errResp != nil {
		return errResp
	}

	income, err := h.incomeService.UpdateIncome(id, input)
	if err != nil {
		return incomeErrorResponse(c, err, "Failed to update income")
	}
	return c.JSON(http.StatusOK, income)
}

// SetIncomeReceived handles PATCH /api/v1/incomes/:id/received
func (h *IncomeHandler) SetIncomeReceived(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid income ID", nil)
	}

	var req SetReceivedRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	income, err := h.incomeService.SetReceived(id, req.Received)
	if err != nil {
		return incomeErrorResponse(c, err, "Failed to update income received flag")
	}
	return c.JSON(http.StatusOK, income)
}

// DeactivateIncome handles DELETE /api/v1/incomes/:id
func (h *IncomeHandler) DeactivateIncome(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid income ID", nil)
	}

	if err := h.incomeService.DeactivateIncome(id); err != nil {
		return incomeErrorResponse(c, err, "Failed to deactivate income")
	}
	return c.NoContent(http.StatusNoContent)
}
