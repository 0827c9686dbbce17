package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// DashboardService assembles the aggregate views for the home screen
type DashboardService struct {
	transactionRepo   domain.TransactionRepository
	billService       *BillService
	commitmentService *CommitmentService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(transactionRepo domain.TransactionRepository, billService *BillService, commitmentService *CommitmentService) *DashboardService {
	return &DashboardService{
		transactionRepo:   transactionRepo,
		billService:       billService,
		commitmentService: commitmentService,
	}
}

// MonthlySummary holds a month's realized income and expense totals
type MonthlySummary struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Net          decimal.Decimal `json:"net"`
}

func monthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// GetMonthlySummary sums completed transactions for one month
func (s *DashboardService) GetMonthlySummary(year, month int) (*MonthlySummary, error) {
	start, end := monthRange(year, month)

	income, err := s.transactionRepo.SumByTypeAndDateRange(start, end, domain.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}
	expense, err := s.transactionRepo.SumByTypeAndDateRange(start, end, domain.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	return &MonthlySummary{
		Year:         year,
		Month:        month,
		TotalIncome:  income,
		TotalExpense: expense,
		Net:          income.Sub(expense),
	}, nil
}

// GetCategoryBreakdown returns per-category expense totals for one month
func (s *DashboardService) GetCategoryBreakdown(year, month int) ([]*domain.CategoryTotal, error) {
	start, end := monthRange(year, month)
	return s.transactionRepo.CategoryBreakdown(start, end, domain.TransactionTypeExpense)
}

// GetTopDescriptions returns the month's biggest spend descriptions
func (s *DashboardService) GetTopDescriptions(year, month int, limit int32) ([]*domain.DescriptionTotal, error) {
	if limit < 1 {
		limit = 5
	}
	start, end := monthRange(year, month)
	return s.transactionRepo.TopDescriptions(start, end, limit)
}

// UpcomingItems collects what is due inside the lookahead window
type UpcomingItems struct {
	Bills       []*domain.Bill          `json:"bills"`
	Commitments []*CommitmentOccurrence `json:"commitments"`
}

// GetUpcoming lists bills and commitment occurrences due within days of now
func (s *DashboardService) GetUpcoming(now time.Time, days int) (*UpcomingItems, error) {
	if days < 1 {
		days = 7
	}

	bills, err := s.billService.ListBillsDueWithin(now, days)
	if err != nil {
		return nil, err
	}

	occurrences, err := s.commitmentService.ProjectOccurrences(now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}

	return &UpcomingItems{Bills: bills, Commitments: occurrences}, nil
}
