package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
)

// CommitmentHandler handles recurring commitment HTTP requests
type CommitmentHandler struct {
	commitmentService *service.CommitmentService
}

// NewCommitmentHandler creates a new CommitmentHandler
func NewCommitmentHandler(commitmentService *service.CommitmentService) *CommitmentHandler {
	return &CommitmentHandler{commitmentService: commitmentService}
}

// CommitmentRequest represents the create/update commitment request body
type CommitmentRequest struct {
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	Frequency    string `json:"frequency"`
	DueDay       int32  `json:"dueDay"`
	Weekday      *int   `json:"weekday,omitempty"`
	CreditCardID *int32 `json:"creditCardId,omitempty"`
	ReminderDays int32  `json:"reminderDays"`
}

// SetPaidRequest toggles the paid flag
type SetPaidRequest struct {
	Paid bool `json:"paid"`
}

func commitmentErrorResponse(c echo.Context, err error, action string) error {
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
	case errors.Is(err, domain.ErrInvalidFrequency):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "frequency", Message: "Frequency must be one of: weekly, biweekly, monthly, quarterly, semiannual, annual"},
		})
	case errors.Is(err, domain.ErrInvalidDueDay):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "dueDay", Message: "Due day (or weekday) is out of range for this frequency"},
		})
	case errors.Is(err, domain.ErrCommitmentNotFound):
		return NewNotFoundError(c, "Commitment not found")
	case errors.Is(err, domain.ErrCreditCardNotFound):
		return NewNotFoundError(c, "Credit card not found")
	}
	log.Error().Err(err).Msg(action)
	return NewInternalError(c, action)
}

func (h *CommitmentHandler) bindCommitmentInput(c echo.Context) (service.CreateCommitmentInput, error) {
	var req CommitmentRequest
	if err := c.Bind(&req); err != nil {
		return service.CreateCommitmentInput{}, NewValidationError(c, "Invalid request body", nil)
	}

	amount, errResp := parseAmount(c, req.Amount, "amount")
	if errResp != nil {
		return service.CreateCommitmentInput{}, errResp
	}

	var weekday *time.Weekday
	if req.Weekday != nil {
		wd := time.Weekday(*req.Weekday)
		weekday = &wd
	}

	return service.CreateCommitmentInput{
		Name:         req.Name,
		Amount:       amount,
		Frequency:    domain.CommitmentFrequency(req.Frequency),
		DueDay:       req.DueDay,
		Weekday:      weekday,
		CreditCardID: req.CreditCardID,
		ReminderDays: req.ReminderDays,
	}, nil
}

// CreateCommitment handles POST /api/v1/commitments
func (h *CommitmentHandler) CreateCommitment(c echo.Context) error {
	input, errResp := h.bindCommitmentInput(c)
	if errResp != nil {
		return errResp
	}

	commitment, err := h.commitmentService.CreateCommitment(input)
	if err != nil {
		return commitmentErrorResponse(c, err, "Failed to create commitment")
	}

	log.Info().Int32("commitment_id", commitment.ID).Str("name", commitment.Name).Msg("Commitment created")
	return c.JSON(http.StatusCreated, commitment)
}

// GetCommitments handles GET /api/v1/commitments
func (h *CommitmentHandler) GetCommitments(c echo.Context) error {
	activeOnly := c.QueryParam("activeOnly") != "false"
	commitments, err := h.commitmentService.GetCommitments(activeOnly)
	if err != nil {
		return commitmentErrorResponse(c, err, "Failed to get commitments")
	}
	return c.JSON(http.StatusOK, commitments)
}

// GetCommitment handles GET /api/v1/commitments/:id
func (h *CommitmentHandler) GetCommitment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid commitment ID", nil)
	}

	commitment, err := h.commitmentService.GetCommitmentByID(id)
	if err != nil {
		return commitmentErrorResponse(c, err, "Failed to get commitment")
	}
	return c.JSON(http.StatusOK, commitment)
}

// UpdateCommitment handles PUT /api/v1/commitments/:id
func (h *CommitmentHandler) UpdateCommitment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid commitment ID", nil)
	}

	input, errResp := h.bindCommitmentInput(c)
	if errResp != nil {
		return errResp
	}

	commitment, err := h.commitmentService.UpdateCommitment(id, input)
	if err != nil {
		return commitmentErrorResponse(c, err, "Failed to update commitment")
	}
	return c.JSON(http.StatusOK, commitment)
}

// SetCommitmentPaid handles PATCH /api/v1/commitments/:id/paid
func (h *CommitmentHandler) SetCommitmentPaid(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid commitment ID", nil)
	}

	var req SetPaidRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	commitment, err := h.commitmentService.SetPaid(id, req.Paid)
	if err != nil {
		return commitmentErrorResponse(c, err, "Failed to update commitment paid flag")
	}
	return c.JSON(http.StatusOK, commitment)
}

// DeactivateCommitment handles DELETE /api/v1/commitments/:id
func (h *CommitmentHandler) DeactivateCommitment(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return NewValidationError(c, "Invalid commitment ID", nil)
	}

	if err := h.commitmentService.DeactivateCommitment(id); err != nil {
		return commitmentErrorResponse(c, err, "Failed to deactivate commitment")
	}
	return c.NoContent(http.StatusNoContent)
}

// GetOccurrences handles GET /api/v1/commitments/occurrences?from=...&to=...
func (h *CommitmentHandler) GetOccurrences(c echo.Context) error {
	from, err := parseDateParam(c.QueryParam("from"))
	if err != nil || from.IsZero() {
		return NewValidationError(c, "Invalid or missing from date", nil)
	}
	to, err := parseDateParam(c.QueryParam("to"))
	if err != nil || to.IsZero() {
		return NewValidationError(c, "Invalid or missing to date", nil)
	}

	occurrences, err := h.commitmentService.ProjectOccurrences(from, to)
	if err != nil {
		return commitmentErrorResponse(c, err, "Failed to project occurrences")
	}
	return c.JSON(http.StatusOK, occurrences)
}
