package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/testutil"
)

func dashboardFixture(t *testing.T) (*DashboardService, *testutil.MockTransactionRepository, *BillService, *CommitmentService, *testutil.MockCreditCardRepository) {
	t.Helper()
	transactionRepo := testutil.NewMockTransactionRepository(nil)
	billRepo := testutil.NewMockBillRepository()
	cardRepo := testutil.NewMockCreditCardRepository()
	commitmentRepo := testutil.NewMockCommitmentRepository()
	billService := NewBillService(billRepo, cardRepo, transactionRepo)
	commitmentService := NewCommitmentService(commitmentRepo, cardRepo)
	dashboardService := NewDashboardService(transactionRepo, billService, commitmentService)
	return dashboardService, transactionRepo, billService, commitmentService, cardRepo
}

func seedTransaction(t *testing.T, repo *testutil.MockTransactionRepository, tx *domain.Transaction) {
	t.Helper()
	if tx.Status == "" {
		tx.Status = domain.TransactionStatusCompleted
	}
	if _, err := repo.Create(tx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestGetMonthlySummary(t *testing.T) {
	dashboardService, transactionRepo, _, _, _ := dashboardFixture(t)

	march := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, transactionRepo, &domain.Transaction{
		Amount: decimal.NewFromInt(5000), Type: domain.TransactionTypeIncome,
		Category: domain.CategorySalary, TransactionDate: march,
	})
	seedTransaction(t, transactionRepo, &domain.Transaction{
		Amount: decimal.NewFromInt(1200), Type: domain.TransactionTypeExpense,
		Category: domain.CategoryHousing, TransactionDate: march,
	})
	// Expected transactions do not count as realized.
	seedTransaction(t, transactionRepo, &domain.Transaction{
		Amount: decimal.NewFromInt(999), Type: domain.TransactionTypeExpense,
		Status: domain.TransactionStatusExpected, Category: domain.CategoryOther, TransactionDate: march,
	})
	// Installment parents are bookkeeping rows, excluded from aggregates.
	seedTransaction(t, transactionRepo, &domain.Transaction{
		Amount: decimal.NewFromInt(600), Type: domain.TransactionTypeExpense,
		Category: domain.CategoryShopping, TransactionDate: march, IsInstallmentParent: true,
	})
	// Wrong month.
	seedTransaction(t, transactionRepo, &domain.Transaction{
		Amount: decimal.NewFromInt(100), Type: domain.TransactionTypeExpense,
		Category: domain.CategoryFood, TransactionDate: march.AddDate(0, 1, 0),
	})

	summary, err := dashboardService.GetMonthlySummary(2026, 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !summary.TotalIncome.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected income 5000, got %s", summary.TotalIncome.String())
	}
	if !summary.TotalExpense.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Expected expense 1200, got %s", summary.TotalExpense.String())
	}
	if !summary.Net.Equal(decimal.NewFromInt(3800)) {
		t.Errorf("Expected net 3800, got %s", summary.Net.String())
	}
}

func TestGetCategoryBreakdown(t *testing.T) {
	dashboardService, transactionRepo, _, _, _ := dashboardFixture(t)

	march := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	seedTransaction(t, transactionRepo, &domain.Transaction{
		Amount: decimal.NewFromInt(300), Type: domain.TransactionTypeExpense,
		Category: domain.CategoryFood, TransactionDate: march,
	})
	seedTransaction(t, transactionRepo, &domain.Transaction{
		Amount: decimal.NewFromInt(200), Type: domain.TransactionTypeExpense,
		Category: domain.CategoryFood, TransactionDate: march,
	})
	seedTransaction(t, transactionRepo, &domain.Transaction{
		Amount: decimal.NewFromInt(150), Type: domain.TransactionTypeExpense,
		Category: domain.CategoryTransport, TransactionDate: march,
	})

	breakdown, err := dashboardService.GetCategoryBreakdown(2026, 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(breakdown) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(breakdown))
	}

	totals := make(map[domain.Category]decimal.Decimal)
	counts := make(map[domain.Category]int32)
	for _, ct := range breakdown {
		totals[ct.Category] = ct.Total
		counts[ct.Category] = ct.Count
	}
	if !totals[domain.CategoryFood].Equal(decimal.NewFromInt(500)) {
		t.Errorf("Expected food total 500, got %s", totals[domain.CategoryFood].String())
	}
	if counts[domain.CategoryFood] != 2 {
		t.Errorf("Expected food count 2, got %d", counts[domain.CategoryFood])
	}
	if !totals[domain.CategoryTransport].Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected transport total 150, got %s", totals[domain.CategoryTransport].String())
	}
}

func TestGetTopDescriptions(t *testing.T) {
	dashboardService, transactionRepo, _, _, _ := dashboardFixture(t)

	march := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	market := "Supermarket"
	seedTransaction(t, transactionRepo, &domain.Transaction{
		Amount: decimal.NewFromInt(250), Type: domain.TransactionTypeExpense,
		Category: domain.CategoryFood, TransactionDate: march, Description: &market,
	})
	seedTransaction(t, transactionRepo, &domain.Transaction{
		Amount: decimal.NewFromInt(130), Type: domain.TransactionTypeExpense,
		Category: domain.CategoryFood, TransactionDate: march, Description: &market,
	})
	// No description, ignored.
	seedTransaction(t, transactionRepo, &domain.Transaction{
		Amount: decimal.NewFromInt(80), Type: domain.TransactionTypeExpense,
		Category: domain.CategoryOther, TransactionDate: march,
	})

	top, err := dashboardService.GetTopDescriptions(2026, 3, 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("Expected 1 description, got %d", len(top))
	}
	if top[0].Description != market {
		t.Errorf("Expected description %q, got %q", market, top[0].Description)
	}
	if !top[0].Total.Equal(decimal.NewFromInt(380)) {
		t.Errorf("Expected total 380, got %s", top[0].Total.String())
	}
	if top[0].Count != 2 {
		t.Errorf("Expected count 2, got %d", top[0].Count)
	}
}

func TestGetUpcoming(t *testing.T) {
	dashboardService, _, billService, commitmentService, cardRepo := dashboardFixture(t)

	card, err := cardRepo.Create(&domain.CreditCard{
		Name: "Gold", CreditLimit: decimal.NewFromInt(5000), ClosingDay: 10, DueDay: 20,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// Due 2026-05-20.
	if _, err := billService.GenerateBillForMonth(card.ID, 2026, 5); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := commitmentService.CreateCommitment(CreateCommitmentInput{
		Name: "Rent", Amount: decimal.NewFromInt(1800), Frequency: domain.FrequencyMonthly, DueDay: 18,
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	now := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	upcoming, err := dashboardService.GetUpcoming(now, 7)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(upcoming.Bills) != 1 {
		t.Errorf("Expected 1 upcoming bill, got %d", len(upcoming.Bills))
	}
	if len(upcoming.Commitments) != 1 {
		t.Fatalf("Expected 1 upcoming commitment occurrence, got %d", len(upcoming.Commitments))
	}
	if !upcoming.Commitments[0].DueDate.Equal(time.Date(2026, 5, 18, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected occurrence on 2026-05-18, got %s", upcoming.Commitments[0].DueDate)
	}
}
