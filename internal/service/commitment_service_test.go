package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/testutil"
)

func commitmentFixture() (*CommitmentService, *testutil.MockCommitmentRepository, *testutil.MockCreditCardRepository) {
	commitmentRepo := testutil.NewMockCommitmentRepository()
	cardRepo := testutil.NewMockCreditCardRepository()
	return NewCommitmentService(commitmentRepo, cardRepo), commitmentRepo, cardRepo
}

func TestCreateCommitment_Monthly(t *testing.T) {
	commitmentService, _, _ := commitmentFixture()

	c, err := commitmentService.CreateCommitment(CreateCommitmentInput{
		Name:         "Rent",
		Amount:       decimal.NewFromInt(1800),
		Frequency:    domain.FrequencyMonthly,
		DueDay:       5,
		ReminderDays: 3,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !c.IsActive {
		t.Error("Expected new commitment to be active")
	}
	if c.IsPaid {
		t.Error("Expected new commitment to start unpaid")
	}
}

func TestCreateCommitment_WeeklyRequiresWeekday(t *testing.T) {
	commitmentService, _, _ := commitmentFixture()

	_, err := commitmentService.CreateCommitment(CreateCommitmentInput{
		Name:      "Cleaning",
		Amount:    decimal.NewFromInt(120),
		Frequency: domain.FrequencyWeekly,
	})
	if !errors.Is(err, domain.ErrInvalidDueDay) {
		t.Errorf("Expected ErrInvalidDueDay without weekday, got %v", err)
	}

	wednesday := time.Wednesday
	c, err := commitmentService.CreateCommitment(CreateCommitmentInput{
		Name:      "Cleaning",
		Amount:    decimal.NewFromInt(120),
		Frequency: domain.FrequencyWeekly,
		Weekday:   &wednesday,
	})
	if err != nil {
		t.Fatalf("Expected no error with weekday, got %v", err)
	}
	if c.Weekday == nil || *c.Weekday != time.Wednesday {
		t.Errorf("Expected weekday Wednesday, got %v", c.Weekday)
	}
}

func TestCreateCommitment_MonthlyRequiresDueDay(t *testing.T) {
	commitmentService, _, _ := commitmentFixture()

	_, err := commitmentService.CreateCommitment(CreateCommitmentInput{
		Name:      "Internet",
		Amount:    decimal.NewFromInt(99),
		Frequency: domain.FrequencyMonthly,
		DueDay:    0,
	})
	if !errors.Is(err, domain.ErrInvalidDueDay) {
		t.Errorf("Expected ErrInvalidDueDay, got %v", err)
	}
}

func TestCreateCommitment_UnknownCard(t *testing.T) {
	commitmentService, _, _ := commitmentFixture()

	cardID := int32(99)
	_, err := commitmentService.CreateCommitment(CreateCommitmentInput{
		Name:         "Streaming",
		Amount:       decimal.NewFromInt(40),
		Frequency:    domain.FrequencyMonthly,
		DueDay:       1,
		CreditCardID: &cardID,
	})
	if !errors.Is(err, domain.ErrCreditCardNotFound) {
		t.Errorf("Expected ErrCreditCardNotFound, got %v", err)
	}
}

func TestSetPaid_Toggles(t *testing.T) {
	commitmentService, _, _ := commitmentFixture()

	c, err := commitmentService.CreateCommitment(CreateCommitmentInput{
		Name:      "Gym",
		Amount:    decimal.NewFromInt(150),
		Frequency: domain.FrequencyMonthly,
		DueDay:    10,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	paid, err := commitmentService.SetPaid(c.ID, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !paid.IsPaid {
		t.Error("Expected commitment to be marked paid")
	}

	unpaid, err := commitmentService.SetPaid(c.ID, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if unpaid.IsPaid {
		t.Error("Expected commitment to be marked unpaid again")
	}
}

func TestDeactivateCommitment_HidesFromActiveList(t *testing.T) {
	commitmentService, _, _ := commitmentFixture()

	c, err := commitmentService.CreateCommitment(CreateCommitmentInput{
		Name:      "Old Sub",
		Amount:    decimal.NewFromInt(30),
		Frequency: domain.FrequencyMonthly,
		DueDay:    1,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := commitmentService.DeactivateCommitment(c.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	active, err := commitmentService.GetCommitments(true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(active) != 0 {
		t.Errorf("Expected no active commitments, got %d", len(active))
	}

	all, err := commitmentService.GetCommitments(false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected deactivated commitment in full list, got %d", len(all))
	}
}

func TestProjectOccurrences_SortedAcrossCommitments(t *testing.T) {
	commitmentService, _, _ := commitmentFixture()

	if _, err := commitmentService.CreateCommitment(CreateCommitmentInput{
		Name:      "Rent",
		Amount:    decimal.NewFromInt(1800),
		Frequency: domain.FrequencyMonthly,
		DueDay:    20,
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := commitmentService.CreateCommitment(CreateCommitmentInput{
		Name:      "Internet",
		Amount:    decimal.NewFromInt(99),
		Frequency: domain.FrequencyMonthly,
		DueDay:    5,
	}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)
	occurrences, err := commitmentService.ProjectOccurrences(from, to)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Two months of two monthly commitments.
	if len(occurrences) != 4 {
		t.Fatalf("Expected 4 occurrences, got %d", len(occurrences))
	}
	for i := 1; i < len(occurrences); i++ {
		if occurrences[i].DueDate.Before(occurrences[i-1].DueDate) {
			t.Fatalf("Expected occurrences sorted by date, got %s before %s",
				occurrences[i-1].DueDate, occurrences[i].DueDate)
		}
	}
	if occurrences[0].Commitment.Name != "Internet" {
		t.Errorf("Expected 'Internet' (day 5) first, got %s", occurrences[0].Commitment.Name)
	}
}

func TestProjectOccurrences_ExcludesInactive(t *testing.T) {
	commitmentService, _, _ := commitmentFixture()

	c, err := commitmentService.CreateCommitment(CreateCommitmentInput{
		Name:      "Cancelled Sub",
		Amount:    decimal.NewFromInt(50),
		Frequency: domain.FrequencyMonthly,
		DueDay:    15,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := commitmentService.DeactivateCommitment(c.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	occurrences, err := commitmentService.ProjectOccurrences(from, to)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(occurrences) != 0 {
		t.Errorf("Expected no occurrences for inactive commitment, got %d", len(occurrences))
	}
}
