package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreditCard struct {
	ID                int32           `json:"id"`
	Name              string          `json:"name"`
	CreditLimit       decimal.Decimal `json:"creditLimit"`
	ClosingDay        int32           `json:"closingDay"`
	DueDay            int32           `json:"dueDay"`
	Color             string          `json:"color"`
	AutoGenerateBills bool            `json:"autoGenerateBills"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	DeletedAt         *time.Time      `json:"deletedAt,omitempty"`
}

type CreditCardRepository interface {
	Create(card *CreditCard) (*CreditCard, error)
	GetByID(id int32) (*CreditCard, error)
	List() ([]*CreditCard, error)
	// ListAutoGenerate returns cards with bill auto-generation enabled.
	ListAutoGenerate() ([]*CreditCard, error)
	Update(card *CreditCard) (*CreditCard, error)
	// Delete removes the card; bills and their transactions cascade.
	Delete(id int32) error
}
