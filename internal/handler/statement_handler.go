package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/service"
)

// StatementHandler handles statement upload and import HTTP requests
type StatementHandler struct {
	statementService *service.StatementService
}

// NewStatementHandler creates a new StatementHandler
func NewStatementHandler(statementService *service.StatementService) *StatementHandler {
	return &StatementHandler{statementService: statementService}
}

// ImportRowRequest is one reviewed statement row selected for import
type ImportRowRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

// ImportStatementRequest represents the import request body
type ImportStatementRequest struct {
	BalanceID int32              `json:"balanceId"`
	Category  string             `json:"category"`
	Rows      []ImportRowRequest `json:"rows"`
}

// ParseStatement handles POST /api/v1/statements/parse (multipart upload).
// It returns the parsed rows for the user to review before importing.
func (h *StatementHandler) ParseStatement(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "Missing statement file", []ValidationError{
			{Field: "file", Message: "A statement file is required"},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded statement")
		return NewInternalError(c, "Failed to read statement file")
	}
	defer file.Close()

	rows, err := h.statementService.ParseStatement(fileHeader.Filename, file)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedStatementFormat) {
			return NewValidationError(c, "Unsupported statement format", []ValidationError{
				{Field: "file", Message: "Only .csv and .ofx files are supported"},
			})
		}
		log.Warn().Err(err).Str("filename", fileHeader.Filename).Msg("Statement parse failed")
		return NewValidationError(c, err.Error(), nil)
	}

	log.Info().Str("filename", fileHeader.Filename).Int("rows", len(rows)).Msg("Statement parsed")
	return c.JSON(http.StatusOK, rows)
}

// ImportStatement handles POST /api/v1/statements/import
func (h *StatementHandler) ImportStatement(c echo.Context) error {
	var req ImportStatementRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	rows := make([]*domain.StatementRow, 0, len(req.Rows))
	for i, raw := range req.Rows {
		amount, err := decimal.NewFromString(raw.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid row amount", []ValidationError{
				{Field: "rows", Message: "Row " + raw.Description + " has an invalid amount"},
			})
		}
		date, err := time.Parse("2006-01-02", raw.Date)
		if err != nil {
			return NewValidationError(c, "Invalid row date", []ValidationError{
				{Field: "rows", Message: "Rows must use YYYY-MM-DD dates"},
			})
		}
		rows = append(rows, &domain.StatementRow{
			Description: req.Rows[i].Description,
			Amount:      amount,
			Date:        date,
		})
	}

	result, err := h.statementService.ImportStatement(req.BalanceID, domain.Category(req.Category), rows)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyImport):
			return NewValidationError(c, "No rows selected for import", nil)
		case errors.Is(err, domain.ErrInvalidCategory):
			return NewValidationError(c, "Unknown category", []ValidationError{
				{Field: "category", Message: "Unknown category"},
			})
		case errors.Is(err, domain.ErrBalanceNotFound):
			return NewNotFoundError(c, "Balance not found")
		}
		log.Error().Err(err).Msg("Failed to import statement")
		return NewInternalError(c, "Failed to import statement")
	}

	log.Info().
		Int32("balance_id", req.BalanceID).
		Int("imported", result.Imported).
		Msg("Statement imported")
	return c.JSON(http.StatusCreated, result)
}
