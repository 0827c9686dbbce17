package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementRow is one candidate movement parsed from an imported bank
// statement, selectable before commit.
type StatementRow struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
}
