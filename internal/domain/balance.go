package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BalanceKind string

const (
	// BalanceKindAccount is the single main balance of an account.
	BalanceKindAccount BalanceKind = "account"
	// BalanceKindPool is a sub-goal earmarking part of the account's funds.
	BalanceKindPool BalanceKind = "pool"
)

func (k BalanceKind) IsValid() bool {
	return k == BalanceKindAccount || k == BalanceKindPool
}

type Balance struct {
	ID            int32            `json:"id"`
	AccountID     int32            `json:"accountId"`
	Name          string           `json:"name"`
	Kind          BalanceKind      `json:"kind"`
	CurrentAmount decimal.Decimal  `json:"currentAmount"`
	GoalAmount    *decimal.Decimal `json:"goalAmount,omitempty"`
	IsActive      bool             `json:"isActive"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// AccountBalances is the derived balance view for one account.
// Available = main balance minus the sum of active pools.
type AccountBalances struct {
	Main      *Balance        `json:"main"`
	Pools     []*Balance      `json:"pools"`
	Available decimal.Decimal `json:"available"`
}

type BalanceRepository interface {
	Create(balance *Balance) (*Balance, error)
	GetByID(id int32) (*Balance, error)
	GetMainByAccount(accountID int32) (*Balance, error)
	ListByAccount(accountID int32, activeOnly bool) ([]*Balance, error)
	Update(balance *Balance) (*Balance, error)
	Deactivate(id int32) error
}
