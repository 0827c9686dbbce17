package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type TransactionStatus string

const (
	// TransactionStatusExpected is a future movement (e.g. an installment on
	// a not-yet-due bill). It never touches a balance.
	TransactionStatusExpected  TransactionStatus = "expected"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusExpected, TransactionStatusCompleted, TransactionStatusCancelled:
		return true
	}
	return false
}

// Transaction is a single money movement. Exactly one of BalanceID (account
// money) or BillID (card charge) is set, except for installment parents which
// carry neither: the parent is bookkeeping only and must be excluded from
// every aggregate sum.
type Transaction struct {
	ID                  int32             `json:"id"`
	Amount              decimal.Decimal   `json:"amount"`
	Type                TransactionType   `json:"type"`
	Status              TransactionStatus `json:"status"`
	Category            Category          `json:"category"`
	Subcategory         *string           `json:"subcategory,omitempty"`
	TransactionDate     time.Time         `json:"transactionDate"`
	BalanceID           *int32            `json:"balanceId,omitempty"`
	BillID              *int32            `json:"billId,omitempty"`
	ParentTransactionID *int32            `json:"parentTransactionId,omitempty"`
	InstallmentNumber   *int32            `json:"installmentNumber,omitempty"`
	TotalInstallments   *int32            `json:"totalInstallments,omitempty"`
	InstallmentAmount   *decimal.Decimal  `json:"installmentAmount,omitempty"`
	IsInstallmentParent bool              `json:"isInstallmentParent"`
	TransferPairID      *uuid.UUID        `json:"transferPairId,omitempty"`
	Description         *string           `json:"description,omitempty"`
	CreatedAt           time.Time         `json:"createdAt"`
	UpdatedAt           time.Time         `json:"updatedAt"`
	DeletedAt           *time.Time        `json:"deletedAt,omitempty"`
}

type TransactionFilters struct {
	BalanceID *int32
	BillID    *int32
	StartDate *time.Time
	EndDate   *time.Time
	Type      *TransactionType
	Status    *TransactionStatus
	Page      int32
	PageSize  int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

type TransferResult struct {
	FromTransaction *Transaction `json:"fromTransaction"`
	ToTransaction   *Transaction `json:"toTransaction"`
}

// InstallmentSummary aggregates one installment plan by its parent.
type InstallmentSummary struct {
	ParentID          int32           `json:"parentId"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
	TotalInstallments int32           `json:"totalInstallments"`
	CompletedCount    int32           `json:"completedCount"`
	ExpectedCount     int32           `json:"expectedCount"`
	CancelledCount    int32           `json:"cancelledCount"`
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	RemainingAmount   decimal.Decimal `json:"remainingAmount"`
}

// CategoryTotal is one slice of a category breakdown.
type CategoryTotal struct {
	Category Category        `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int32           `json:"count"`
}

// DescriptionTotal aggregates spend per description (top merchants view).
type DescriptionTotal struct {
	Description string          `json:"description"`
	Total       decimal.Decimal `json:"total"`
	Count       int32           `json:"count"`
}

// Installment plan bounds. One installment is not an installment; 48 mirrors
// real-world card limits.
const (
	MinInstallments = 2
	MaxInstallments = 48
)

// SplitInstallments returns the per-installment amount for a plan, rounded to
// cents. The remainder is not redistributed: children of a non-divisible
// total may not re-sum exactly to it. That drift is accepted, not repaired.
func SplitInstallments(total decimal.Decimal, installments int32) decimal.Decimal {
	return total.Div(decimal.NewFromInt32(installments)).Round(2)
}

type TransactionRepository interface {
	// Create inserts the transaction and, when it is completed and linked to
	// a balance, adjusts that balance in the same database transaction.
	Create(tx *Transaction) (*Transaction, error)
	GetByID(id int32) (*Transaction, error)
	List(filters *TransactionFilters) (*PaginatedTransactions, error)
	// UpdateStatus transitions the status and applies the balance effect of
	// the transition (completing debits/credits, un-completing reverts).
	UpdateStatus(id int32, status TransactionStatus) (*Transaction, error)
	SoftDelete(id int32) error

	// CreateBatch atomically inserts every transaction and applies its
	// balance effect; a failure anywhere inserts nothing.
	CreateBatch(txs []*Transaction) ([]*Transaction, error)

	// CreateTransferPair atomically inserts both legs and adjusts both
	// balances; no partial transfer state is ever observable.
	CreateTransferPair(fromTx, toTx *Transaction) (*TransferResult, error)

	// CreateInstallmentPlan atomically inserts the parent and all children.
	CreateInstallmentPlan(parent *Transaction, children []*Transaction) (*Transaction, []*Transaction, error)
	ListByParent(parentID int32) ([]*Transaction, error)
	// CancelExpectedByParent flips every expected child of the plan to
	// cancelled and reports how many rows changed. Completed children are
	// untouched, which makes the operation idempotent.
	CancelExpectedByParent(parentID int32) (int64, error)

	// SumByBill sums non-parent transactions linked to the bill.
	SumByBill(billID int32) (decimal.Decimal, error)
	ListByBill(billID int32) ([]*Transaction, error)

	// Aggregates. Every implementation must exclude installment parents.
	SumByTypeAndDateRange(start, end time.Time, txType TransactionType) (decimal.Decimal, error)
	CategoryBreakdown(start, end time.Time, txType TransactionType) ([]*CategoryTotal, error)
	TopDescriptions(start, end time.Time, limit int32) ([]*DescriptionTotal, error)
}
