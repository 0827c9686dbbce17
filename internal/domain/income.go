package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type IncomeType string

const (
	IncomeTypeRecurrent IncomeType = "recurrent"
	IncomeTypeOneTime   IncomeType = "one_time"
)

func (t IncomeType) IsValid() bool {
	return t == IncomeTypeRecurrent || t == IncomeTypeOneTime
}

type Income struct {
	ID          int32           `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    IncomeCategory  `json:"category"`
	Type        IncomeType      `json:"type"`
	ReceiveDay  int32           `json:"receiveDay"`
	IsReceived  bool            `json:"isReceived"`
	IsActive    bool            `json:"isActive"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type IncomeRepository interface {
	Create(income *Income) (*Income, error)
	GetByID(id int32) (*Income, error)
	List(activeOnly bool) ([]*Income, error)
	Update(income *Income) (*Income, error)
	Deactivate(id int32) error
}
