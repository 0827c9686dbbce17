package domain

import "time"

type AccountKind string

const (
	AccountKindChecking   AccountKind = "checking"
	AccountKindSavings    AccountKind = "savings"
	AccountKindInvestment AccountKind = "investment"
	AccountKindWallet     AccountKind = "wallet"
)

// IsValid reports whether the kind is one of the closed set.
func (k AccountKind) IsValid() bool {
	switch k {
	case AccountKindChecking, AccountKindSavings, AccountKindInvestment, AccountKindWallet:
		return true
	}
	return false
}

type Account struct {
	ID          int32       `json:"id"`
	Name        string      `json:"name"`
	Institution string      `json:"institution"`
	Kind        AccountKind `json:"kind"`
	Color       string      `json:"color"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	DeletedAt   *time.Time  `json:"deletedAt,omitempty"`
}

type AccountRepository interface {
	// Create inserts the account together with its main balance in one
	// transaction, so the one-main-balance-per-account invariant holds from
	// the first row.
	Create(account *Account, mainBalance *Balance) (*Account, error)
	GetByID(id int32) (*Account, error)
	List() ([]*Account, error)
	Update(account *Account) (*Account, error)
	SoftDelete(id int32) error
}
