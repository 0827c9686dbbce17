package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillStatus string

const (
	BillStatusOpen    BillStatus = "open"
	BillStatusPartial BillStatus = "partial"
	BillStatusPaid    BillStatus = "paid"
	BillStatusOverdue BillStatus = "overdue"
)

// Bill is a credit card's monthly statement. Unique per (card, year, month).
type Bill struct {
	ID                   int32           `json:"id"`
	CreditCardID         int32           `json:"creditCardId"`
	Year                 int             `json:"year"`
	Month                int             `json:"month"`
	ClosingDate          time.Time       `json:"closingDate"`
	DueDate              time.Time       `json:"dueDate"`
	TotalAmount          decimal.Decimal `json:"totalAmount"`
	PaidAmount           decimal.Decimal `json:"paidAmount"`
	Status               BillStatus      `json:"status"`
	PaymentTransactionID *int32          `json:"paymentTransactionId,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// ComputeBillStatus derives the status from the bill's amounts and due date.
// Paid wins regardless of due date; overdue beats partial. Overpayment still
// just means paid, the surplus is not tracked.
func ComputeBillStatus(totalAmount, paidAmount decimal.Decimal, dueDate, now time.Time) BillStatus {
	if paidAmount.GreaterThanOrEqual(totalAmount) && totalAmount.GreaterThan(decimal.Zero) {
		return BillStatusPaid
	}
	if now.After(dueDate) {
		return BillStatusOverdue
	}
	if paidAmount.GreaterThan(decimal.Zero) {
		return BillStatusPartial
	}
	return BillStatusOpen
}

type BillRepository interface {
	// Create inserts the bill; a unique index on (card, year, month) makes a
	// concurrent duplicate surface as ErrBillAlreadyExists.
	Create(bill *Bill) (*Bill, error)
	GetByID(id int32) (*Bill, error)
	GetByCardMonth(creditCardID int32, year, month int) (*Bill, error)
	ListByCard(creditCardID int32) ([]*Bill, error)
	// ListDueBetween returns bills whose due date falls in [start, end],
	// regardless of card.
	ListDueBetween(start, end time.Time) ([]*Bill, error)
	Update(bill *Bill) (*Bill, error)
}
