package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/testutil"
)

func billFixture(t *testing.T) (*BillService, *testutil.MockBillRepository, *testutil.MockTransactionRepository, *domain.CreditCard) {
	t.Helper()
	billRepo := testutil.NewMockBillRepository()
	cardRepo := testutil.NewMockCreditCardRepository()
	transactionRepo := testutil.NewMockTransactionRepository(nil)
	billService := NewBillService(billRepo, cardRepo, transactionRepo)

	card, err := cardRepo.Create(&domain.CreditCard{
		Name:              "Platinum",
		CreditLimit:       decimal.NewFromInt(8000),
		ClosingDay:        10,
		DueDay:            20,
		AutoGenerateBills: true,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return billService, billRepo, transactionRepo, card
}

func TestBillDates_DueAfterClosingSameMonth(t *testing.T) {
	card := &domain.CreditCard{ClosingDay: 10, DueDay: 20}
	closing, due := billDates(card, 2026, 3)

	if !closing.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected closing 2026-03-10, got %s", closing)
	}
	if !due.Equal(time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected due 2026-03-20, got %s", due)
	}
}

func TestBillDates_DueRollsToNextMonth(t *testing.T) {
	card := &domain.CreditCard{ClosingDay: 25, DueDay: 5}
	_, due := billDates(card, 2026, 12)

	if !due.Equal(time.Date(2027, 1, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected due 2027-01-05, got %s", due)
	}
}

func TestBillDates_ClampsClosingDayToShortMonth(t *testing.T) {
	card := &domain.CreditCard{ClosingDay: 31, DueDay: 10}
	closing, due := billDates(card, 2026, 2)

	if !closing.Equal(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected closing clamped to 2026-02-28, got %s", closing)
	}
	// DueDay 10 <= ClosingDay 31, so due rolls into March.
	if !due.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected due 2026-03-10, got %s", due)
	}
}

func TestGenerateBillForMonth_Idempotent(t *testing.T) {
	billService, _, _, card := billFixture(t)

	first, err := billService.GenerateBillForMonth(card.ID, 2026, 5)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := billService.GenerateBillForMonth(card.ID, 2026, 5)
	if err != nil {
		t.Fatalf("Expected no error on repeat generation, got %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Expected same bill on repeat generation, got IDs %d and %d", first.ID, second.ID)
	}
	if first.Status != domain.BillStatusOpen {
		t.Errorf("Expected new bill to be open, got %s", first.Status)
	}
}

func TestGenerateBillForMonth_RaceLoserReadsWinner(t *testing.T) {
	billService, billRepo, _, card := billFixture(t)

	// Simulate losing the unique-constraint race: the row appears between the
	// existence check and the insert.
	billRepo.CreateFn = func(bill *domain.Bill) (*domain.Bill, error) {
		billRepo.CreateFn = nil
		winner := *bill
		winner.ID = 77
		billRepo.Bills[winner.ID] = &winner
		return nil, domain.ErrBillAlreadyExists
	}

	bill, err := billService.GenerateBillForMonth(card.ID, 2026, 6)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if bill.ID != 77 {
		t.Errorf("Expected the winner's bill, got ID %d", bill.ID)
	}
}

func TestGenerateBillForMonth_UnknownCard(t *testing.T) {
	billService, _, _, _ := billFixture(t)

	_, err := billService.GenerateBillForMonth(99, 2026, 5)
	if !errors.Is(err, domain.ErrCreditCardNotFound) {
		t.Errorf("Expected ErrCreditCardNotFound, got %v", err)
	}
}

func TestFindOrCreateOpenBill_PurchaseBeforeClosing(t *testing.T) {
	billService, _, _, card := billFixture(t)

	bill, err := billService.FindOrCreateOpenBill(card.ID, time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if bill.Year != 2026 || bill.Month != 4 {
		t.Errorf("Expected bill cycle 2026-04, got %d-%02d", bill.Year, bill.Month)
	}
}

func TestFindOrCreateOpenBill_PurchaseAfterClosingGoesToNextCycle(t *testing.T) {
	billService, _, _, card := billFixture(t)

	bill, err := billService.FindOrCreateOpenBill(card.ID, time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if bill.Year != 2027 || bill.Month != 1 {
		t.Errorf("Expected bill cycle 2027-01, got %d-%02d", bill.Year, bill.Month)
	}
}

func TestRecordPayment_PartialThenPaid(t *testing.T) {
	billService, billRepo, _, card := billFixture(t)

	// A future cycle, so the due date has not passed and partial stays partial.
	bill, err := billService.GenerateBillForMonth(card.ID, time.Now().Year()+1, 5)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	bill.TotalAmount = decimal.NewFromInt(500)
	if _, err := billRepo.Update(bill); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	partial, err := billService.RecordPayment(bill.ID, decimal.NewFromInt(200), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if partial.Status != domain.BillStatusPartial {
		t.Errorf("Expected partial status, got %s", partial.Status)
	}
	if !partial.PaidAmount.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected paid amount 200, got %s", partial.PaidAmount.String())
	}

	paid, err := billService.RecordPayment(bill.ID, decimal.NewFromInt(300), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if paid.Status != domain.BillStatusPaid {
		t.Errorf("Expected paid status, got %s", paid.Status)
	}
}

func TestRecordPayment_NonPositiveAmount(t *testing.T) {
	billService, _, _, card := billFixture(t)

	bill, err := billService.GenerateBillForMonth(card.ID, 2026, 5)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := billService.RecordPayment(bill.ID, decimal.Zero, nil); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestRecalculateBillTotal_SkipsParentsAndCancelled(t *testing.T) {
	billService, _, transactionRepo, card := billFixture(t)

	bill, err := billService.GenerateBillForMonth(card.ID, 2026, 5)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	charge := func(amount int64, status domain.TransactionStatus, parent bool) {
		t.Helper()
		if _, err := transactionRepo.Create(&domain.Transaction{
			Amount:              decimal.NewFromInt(amount),
			Type:                domain.TransactionTypeExpense,
			Status:              status,
			Category:            domain.CategoryShopping,
			TransactionDate:     time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC),
			BillID:              &bill.ID,
			IsInstallmentParent: parent,
		}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}

	charge(100, domain.TransactionStatusCompleted, false)
	charge(50, domain.TransactionStatusExpected, false)
	charge(999, domain.TransactionStatusCompleted, true)
	charge(30, domain.TransactionStatusCancelled, false)

	updated, err := billService.RecalculateBillTotal(bill.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !updated.TotalAmount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected total 150 (completed + expected only), got %s", updated.TotalAmount.String())
	}
}

func TestAutoGenerateBillsIfNeeded(t *testing.T) {
	billService, billRepo, _, card := billFixture(t)

	// Before the closing day nothing happens.
	generated, err := billService.AutoGenerateBillsIfNeeded(time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if generated != 0 {
		t.Errorf("Expected 0 bills before closing day, got %d", generated)
	}

	// On or after the closing day the cycle's bill appears.
	generated, err = billService.AutoGenerateBillsIfNeeded(time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if generated != 1 {
		t.Errorf("Expected 1 generated bill, got %d", generated)
	}
	if _, err := billRepo.GetByCardMonth(card.ID, 2026, 7); err != nil {
		t.Errorf("Expected July bill to exist, got %v", err)
	}

	// Running again the same day is a no-op.
	generated, err = billService.AutoGenerateBillsIfNeeded(time.Date(2026, 7, 11, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if generated != 0 {
		t.Errorf("Expected 0 bills on rerun, got %d", generated)
	}
}

func TestListBillsDueWithin(t *testing.T) {
	billService, _, _, card := billFixture(t)

	// Cycle 2026-05 for this card is due 2026-05-20.
	if _, err := billService.GenerateBillForMonth(card.ID, 2026, 5); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	now := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	due, err := billService.ListBillsDueWithin(now, 7)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("Expected 1 bill due within 7 days, got %d", len(due))
	}

	due, err = billService.ListBillsDueWithin(now, 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(due) != 0 {
		t.Errorf("Expected no bills due within 3 days, got %d", len(due))
	}
}
