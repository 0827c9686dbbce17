package service

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/util"
	"github.com/centavo-app/centavo-backend/internal/websocket"
)

// BillService handles credit card bill lifecycle: generation, totals and
// payment. Bills are unique per (card, year, month) and generation is
// idempotent, so the cron worker and a user clicking at the same moment
// cannot create duplicates.
type BillService struct {
	billRepo        domain.BillRepository
	cardRepo        domain.CreditCardRepository
	transactionRepo domain.TransactionRepository
	eventPublisher  websocket.EventPublisher
}

// NewBillService creates a new BillService
func NewBillService(billRepo domain.BillRepository, cardRepo domain.CreditCardRepository, transactionRepo domain.TransactionRepository) *BillService {
	return &BillService{
		billRepo:        billRepo,
		cardRepo:        cardRepo,
		transactionRepo: transactionRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BillService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *BillService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// billDates computes closing and due dates for a cycle, clamping day-of-month
// overflow (closing day 31 in February lands on the 28th/29th). The due date
// rolls into the following month when dueDay is on or before closingDay.
func billDates(card *domain.CreditCard, year, month int) (closing, due time.Time) {
	closing = domain.ClampDayToMonth(year, time.Month(month), int(card.ClosingDay))

	dueYear, dueMonth := year, month
	if card.DueDay <= card.ClosingDay {
		dueYear, dueMonth = util.NextMonth(year, month)
	}
	due = domain.ClampDayToMonth(dueYear, time.Month(dueMonth), int(card.DueDay))
	return closing, due
}

// GenerateBillForMonth creates the bill for a card's cycle, or returns the
// existing one. Safe to call concurrently; the loser of a create race reads
// the winner's row.
func (s *BillService) GenerateBillForMonth(cardID int32, year, month int) (*domain.Bill, error) {
	card, err := s.cardRepo.GetByID(cardID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.billRepo.GetByCardMonth(cardID, year, month); err == nil {
		return existing, nil
	} else if !errors.Is(err, domain.ErrBillNotFound) {
		return nil, err
	}

	closing, due := billDates(card, year, month)
	bill := &domain.Bill{
		CreditCardID: cardID,
		Year:         year,
		Month:        month,
		ClosingDate:  closing,
		DueDate:      due,
		TotalAmount:  decimal.Zero,
		PaidAmount:   decimal.Zero,
		Status:       domain.BillStatusOpen,
	}

	created, err := s.billRepo.Create(bill)
	if err != nil {
		if errors.Is(err, domain.ErrBillAlreadyExists) {
			return s.billRepo.GetByCardMonth(cardID, year, month)
		}
		return nil, err
	}
	s.publishEvent(websocket.BillGenerated(created))
	return created, nil
}

// FindOrCreateOpenBill returns the bill a purchase made on date lands on.
// A purchase after the card's closing day belongs to the next cycle.
func (s *BillService) FindOrCreateOpenBill(cardID int32, date time.Time) (*domain.Bill, error) {
	card, err := s.cardRepo.GetByID(cardID)
	if err != nil {
		return nil, err
	}

	year, month := date.Year(), int(date.Month())
	closing := domain.ClampDayToMonth(year, date.Month(), int(card.ClosingDay))
	if date.After(closing) {
		year, month = util.NextMonth(year, month)
	}
	return s.GenerateBillForMonth(cardID, year, month)
}

// GetBillByID retrieves a bill by ID
func (s *BillService) GetBillByID(id int32) (*domain.Bill, error) {
	return s.billRepo.GetByID(id)
}

// ListBillsByCard lists a card's bills, newest cycle first
func (s *BillService) ListBillsByCard(cardID int32) ([]*domain.Bill, error) {
	if _, err := s.cardRepo.GetByID(cardID); err != nil {
		return nil, err
	}
	return s.billRepo.ListByCard(cardID)
}

// ListBillTransactions lists the charges on a bill
func (s *BillService) ListBillTransactions(billID int32) ([]*domain.Transaction, error) {
	if _, err := s.billRepo.GetByID(billID); err != nil {
		return nil, err
	}
	return s.transactionRepo.ListByBill(billID)
}

// RecordPayment applies a payment to a bill and recomputes its status.
// Overpayment is accepted and simply leaves the bill paid.
func (s *BillService) RecordPayment(billID int32, amount decimal.Decimal, paymentTransactionID *int32) (*domain.Bill, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	bill, err := s.billRepo.GetByID(billID)
	if err != nil {
		return nil, err
	}

	bill.PaidAmount = bill.PaidAmount.Add(amount)
	if paymentTransactionID != nil {
		bill.PaymentTransactionID = paymentTransactionID
	}
	bill.Status = domain.ComputeBillStatus(bill.TotalAmount, bill.PaidAmount, bill.DueDate, time.Now())

	updated, err := s.billRepo.Update(bill)
	if err != nil {
		return nil, err
	}
	if updated.Status == domain.BillStatusPaid {
		s.publishEvent(websocket.BillPaid(updated))
	} else {
		s.publishEvent(websocket.BillUpdated(updated))
	}
	return updated, nil
}

// RecalculateBillTotal re-derives the bill total from its transactions and
// recomputes the status.
func (s *BillService) RecalculateBillTotal(billID int32) (*domain.Bill, error) {
	bill, err := s.billRepo.GetByID(billID)
	if err != nil {
		return nil, err
	}

	total, err := s.transactionRepo.SumByBill(billID)
	if err != nil {
		return nil, err
	}

	bill.TotalAmount = total
	bill.Status = domain.ComputeBillStatus(bill.TotalAmount, bill.PaidAmount, bill.DueDate, time.Now())

	updated, err := s.billRepo.Update(bill)
	if err != nil {
		return nil, err
	}
	s.publishEvent(websocket.BillUpdated(updated))
	return updated, nil
}

// AutoGenerateBillsIfNeeded generates the current cycle's bill for every
// auto-enabled card whose closing day has passed. Run daily by the worker.
func (s *BillService) AutoGenerateBillsIfNeeded(now time.Time) (int, error) {
	cards, err := s.cardRepo.ListAutoGenerate()
	if err != nil {
		return 0, err
	}

	generated := 0
	for _, card := range cards {
		if int32(now.Day()) < card.ClosingDay {
			continue
		}
		year, month := now.Year(), int(now.Month())
		if _, err := s.billRepo.GetByCardMonth(card.ID, year, month); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrBillNotFound) {
			return generated, err
		}
		if _, err := s.GenerateBillForMonth(card.ID, year, month); err != nil {
			return generated, err
		}
		generated++
	}
	return generated, nil
}

// ListBillsDueWithin returns bills due inside the next n days
func (s *BillService) ListBillsDueWithin(now time.Time, days int) ([]*domain.Bill, error) {
	return s.billRepo.ListDueBetween(now, now.AddDate(0, 0, days))
}
