package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/centavo-app/centavo-backend/internal/service"
)

// DashboardHandler handles dashboard aggregate HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func yearMonthParams(c echo.Context) (int, int, error) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())

	if raw := c.QueryParam("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2200 {
			return 0, 0, NewValidationError(c, "Invalid year", nil)
		}
		year = parsed
	}
	if raw := c.QueryParam("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, NewValidationError(c, "Invalid month", nil)
		}
		month = parsed
	}
	return year, month, nil
}

// GetMonthlySummary handles GET /api/v1/dashboard/summary
func (h *DashboardHandler) GetMonthlySummary(c echo.Context) error {
	year, month, errResp := yearMonthParams(c)
	if errResp != nil {
		return errResp
	}

	summary, err := h.dashboardService.GetMonthlySummary(year, month)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get monthly summary")
		return NewInternalError(c, "Failed to get monthly summary")
	}
	return c.JSON(http.StatusOK, summary)
}

// GetCategoryBreakdown handles GET /api/v1/dashboard/categories
func (h *DashboardHandler) GetCategoryBreakdown(c echo.Context) error {
	year, month, errResp := yearMonthParams(c)
	if errResp != nil {
		return errResp
	}

	breakdown, err := h.dashboardService.GetCategoryBreakdown(year, month)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get category breakdown")
		return NewInternalError(c, "Failed to get category breakdown")
	}
	return c.JSON(http.StatusOK, breakdown)
}

// GetTopDescriptions handles GET /api/v1/dashboard/top-descriptions
func (h *DashboardHandler) GetTopDescriptions(c echo.Context) error {
	year, month, errResp := yearMonthParams(c)
	if errResp != nil {
		return errResp
	}

	limit := int32(5)
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed < 1 || parsed > 50 {
			return NewValidationError(c, "Invalid limit", nil)
		}
		limit = int32(parsed)
	}

	top, err := h.dashboardService.GetTopDescriptions(year, month, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get top descriptions")
		return NewInternalError(c, "Failed to get top descriptions")
	}
	return c.JSON(http.StatusOK, top)
}

// GetUpcoming handles GET /api/v1/dashboard/upcoming
func (h *DashboardHandler) GetUpcoming(c echo.Context) error {
	days := 7
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			return NewValidationError(c, "Invalid days", nil)
		}
		days = parsed
	}

	upcoming, err := h.dashboardService.GetUpcoming(time.Now(), days)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get upcoming items")
		return NewInternalError(c, "Failed to get upcoming items")
	}
	return c.JSON(http.StatusOK, upcoming)
}
