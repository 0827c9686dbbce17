package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommitmentFrequency string

const (
	FrequencyWeekly     CommitmentFrequency = "weekly"
	FrequencyBiweekly   CommitmentFrequency = "biweekly"
	FrequencyMonthly    CommitmentFrequency = "monthly"
	FrequencyQuarterly  CommitmentFrequency = "quarterly"
	FrequencySemiannual CommitmentFrequency = "semiannual"
	FrequencyAnnual     CommitmentFrequency = "annual"
)

func (f CommitmentFrequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly,
		FrequencyQuarterly, FrequencySemiannual, FrequencyAnnual:
		return true
	}
	return false
}

// monthStep returns how many months one period spans, or 0 for week-based
// frequencies.
func (f CommitmentFrequency) monthStep() int {
	switch f {
	case FrequencyMonthly:
		return 1
	case FrequencyQuarterly:
		return 3
	case FrequencySemiannual:
		return 6
	case FrequencyAnnual:
		return 12
	}
	return 0
}

// Commitment is a recurring fixed obligation (rent, utilities) independent of
// card billing. Month-based frequencies anchor on DueDay (clamped to the
// month's length); week-based frequencies anchor on Weekday.
type Commitment struct {
	ID           int32               `json:"id"`
	Name         string              `json:"name"`
	Amount       decimal.Decimal     `json:"amount"`
	Frequency    CommitmentFrequency `json:"frequency"`
	DueDay       int32               `json:"dueDay"`
	Weekday      *time.Weekday       `json:"weekday,omitempty"`
	CreditCardID *int32              `json:"creditCardId,omitempty"`
	IsPaid       bool                `json:"isPaid"`
	IsActive     bool                `json:"isActive"`
	ReminderDays int32               `json:"reminderDays"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// Occurrences projects the commitment's due dates inside [from, to] for the
// cash-flow view. Pure calendar arithmetic, no persistence involved.
func (c *Commitment) Occurrences(from, to time.Time) []time.Time {
	if to.Before(from) {
		return nil
	}

	var dates []time.Time
	switch c.Frequency {
	case FrequencyWeekly, FrequencyBiweekly:
		step := 7
		if c.Frequency == FrequencyBiweekly {
			step = 14
		}
		weekday := time.Monday
		if c.Weekday != nil {
			weekday = *c.Weekday
		}
		// First matching weekday on or after the window start.
		d := from
		for d.Weekday() != weekday {
			d = d.AddDate(0, 0, 1)
		}
		for !d.After(to) {
			dates = append(dates, d)
			d = d.AddDate(0, 0, step)
		}
	default:
		step := c.Frequency.monthStep()
		if step == 0 {
			return nil
		}
		year, month := from.Year(), from.Month()
		for {
			due := ClampDayToMonth(year, month, int(c.DueDay))
			if due.After(to) {
				return dates
			}
			if !due.Before(from) {
				dates = append(dates, due)
			}
			month += time.Month(step)
			for month > 12 {
				month -= 12
				year++
			}
		}
	}
	return dates
}

// ClampDayToMonth returns the date for day in (year, month), clamped to the
// month's last day (day 31 in February yields Feb 28/29).
func ClampDayToMonth(year int, month time.Month, day int) time.Time {
	if day < 1 {
		day = 1
	}
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type CommitmentRepository interface {
	Create(c *Commitment) (*Commitment, error)
	GetByID(id int32) (*Commitment, error)
	List(activeOnly bool) ([]*Commitment, error)
	Update(c *Commitment) (*Commitment, error)
	// Deactivate soft-deletes via the active flag.
	Deactivate(id int32) error
}
