package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/util"
	"github.com/centavo-app/centavo-backend/internal/websocket"
)

// InstallmentService handles installment purchases on credit cards. A plan is
// one bookkeeping parent plus N children: the first child lands completed on
// the purchase cycle's bill, the rest expected on the following cycles.
type InstallmentService struct {
	transactionRepo domain.TransactionRepository
	billService     *BillService
	eventPublisher  websocket.EventPublisher
}

// NewInstallmentService creates a new InstallmentService
func NewInstallmentService(transactionRepo domain.TransactionRepository, billService *BillService) *InstallmentService {
	return &InstallmentService{
		transactionRepo: transactionRepo,
		billService:     billService,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *InstallmentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *InstallmentService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateInstallmentPurchaseInput holds the input for an installment purchase
type CreateInstallmentPurchaseInput struct {
	CreditCardID int32
	TotalAmount  decimal.Decimal
	Installments int32
	Category     domain.Category
	Description  *string
	PurchaseDate time.Time
}

// CreateInstallmentPurchase splits a card purchase into installments. The
// per-installment amount is total divided by n rounded to cents; a cent
// remainder is not redistributed.
func (s *InstallmentService) CreateInstallmentPurchase(input CreateInstallmentPurchaseInput) (*domain.Transaction, []*domain.Transaction, error) {
	if !input.TotalAmount.IsPositive() {
		return nil, nil, domain.ErrInvalidAmount
	}
	if input.Installments < domain.MinInstallments || input.Installments > domain.MaxInstallments {
		return nil, nil, domain.ErrInvalidInstallmentCount
	}
	if !input.Category.IsValid() {
		return nil, nil, domain.ErrInvalidCategory
	}
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if len(trimmed) > domain.MaxDescriptionLength {
			return nil, nil, domain.ErrDescriptionTooLong
		}
		input.Description = &trimmed
	}

	date := input.PurchaseDate
	if date.IsZero() {
		date = time.Now()
	}

	installmentAmount := domain.SplitInstallments(input.TotalAmount, input.Installments)
	total := input.Installments

	parent := &domain.Transaction{
		Amount:              input.TotalAmount,
		Type:                domain.TransactionTypeExpense,
		Status:              domain.TransactionStatusCompleted,
		Category:            input.Category,
		TransactionDate:     date,
		TotalInstallments:   &total,
		InstallmentAmount:   &installmentAmount,
		IsInstallmentParent: true,
		Description:         input.Description,
	}

	// Each child rides on its own cycle's bill, created on demand. The first
	// bill comes from the purchase date, the rest walk one month at a time.
	firstBill, err := s.billService.FindOrCreateOpenBill(input.CreditCardID, date)
	if err != nil {
		return nil, nil, err
	}

	children := make([]*domain.Transaction, 0, total)
	year, month := firstBill.Year, firstBill.Month
	for i := int32(1); i <= total; i++ {
		var bill *domain.Bill
		if i == 1 {
			bill = firstBill
		} else {
			bill, err = s.billService.GenerateBillForMonth(input.CreditCardID, year, month)
			if err != nil {
				return nil, nil, err
			}
		}

		status := domain.TransactionStatusExpected
		if i == 1 {
			status = domain.TransactionStatusCompleted
		}

		num := i
		children = append(children, &domain.Transaction{
			Amount:            installmentAmount,
			Type:              domain.TransactionTypeExpense,
			Status:            status,
			Category:          input.Category,
			TransactionDate:   domain.ClampDayToMonth(year, time.Month(month), date.Day()),
			BillID:            &bill.ID,
			InstallmentNumber: &num,
			TotalInstallments: &total,
			Description:       input.Description,
		})

		year, month = util.NextMonth(year, month)
	}

	createdParent, createdChildren, err := s.transactionRepo.CreateInstallmentPlan(parent, children)
	if err != nil {
		return nil, nil, err
	}

	// Keep every touched bill's total in step with its new charge.
	for _, child := range createdChildren {
		if child.BillID != nil {
			if _, err := s.billService.RecalculateBillTotal(*child.BillID); err != nil {
				return nil, nil, err
			}
		}
	}

	s.publishEvent(websocket.TransactionCreated(createdParent))
	return createdParent, createdChildren, nil
}

// CancelInstallment cancels the expected children of a plan. Completed
// installments stay on their bills, so calling twice changes nothing.
func (s *InstallmentService) CancelInstallment(parentID int32) (int64, error) {
	parent, err := s.transactionRepo.GetByID(parentID)
	if err != nil {
		return 0, err
	}
	if !parent.IsInstallmentParent {
		return 0, domain.ErrNotInstallmentParent
	}

	children, err := s.transactionRepo.ListByParent(parentID)
	if err != nil {
		return 0, err
	}

	cancelled, err := s.transactionRepo.CancelExpectedByParent(parentID)
	if err != nil {
		return 0, err
	}

	if cancelled > 0 {
		touched := make(map[int32]bool)
		for _, child := range children {
			if child.BillID != nil && !touched[*child.BillID] {
				touched[*child.BillID] = true
				if _, err := s.billService.RecalculateBillTotal(*child.BillID); err != nil {
					return cancelled, err
				}
			}
		}
		s.publishEvent(websocket.TransactionUpdated(parent))
	}
	return cancelled, nil
}

// Summary aggregates a plan's progress
func (s *InstallmentService) Summary(parentID int32) (*domain.InstallmentSummary, error) {
	parent, err := s.transactionRepo.GetByID(parentID)
	if err != nil {
		return nil, err
	}
	if !parent.IsInstallmentParent {
		return nil, domain.ErrNotInstallmentParent
	}

	children, err := s.transactionRepo.ListByParent(parentID)
	if err != nil {
		return nil, err
	}

	summary := &domain.InstallmentSummary{
		ParentID:    parent.ID,
		TotalAmount: parent.Amount,
	}
	if parent.InstallmentAmount != nil {
		summary.InstallmentAmount = *parent.InstallmentAmount
	}
	if parent.TotalInstallments != nil {
		summary.TotalInstallments = *parent.TotalInstallments
	}

	// Remaining is what the expected children still owe, not total minus
	// paid: cancelled installments leave the plan and a cancelled-out plan
	// has nothing remaining.
	paid := decimal.Zero
	remaining := decimal.Zero
	for _, child := range children {
		switch child.Status {
		case domain.TransactionStatusCompleted:
			summary.CompletedCount++
			paid = paid.Add(child.Amount)
		case domain.TransactionStatusExpected:
			summary.ExpectedCount++
			remaining = remaining.Add(child.Amount)
		case domain.TransactionStatusCancelled:
			summary.CancelledCount++
		}
	}
	summary.PaidAmount = paid
	summary.RemainingAmount = remaining
	return summary, nil
}
