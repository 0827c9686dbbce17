package service

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/websocket"
)

// CommitmentService handles recurring financial commitments
type CommitmentService struct {
	commitmentRepo domain.CommitmentRepository
	cardRepo       domain.CreditCardRepository
	eventPublisher websocket.EventPublisher
}

// NewCommitmentService creates a new CommitmentService
func NewCommitmentService(commitmentRepo domain.CommitmentRepository, cardRepo domain.CreditCardRepository) *CommitmentService {
	return &CommitmentService{commitmentRepo: commitmentRepo, cardRepo: cardRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *CommitmentService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CommitmentService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateCommitmentInput holds the input for creating a commitment
type CreateCommitmentInput struct {
	Name         string
	Amount       decimal.Decimal
	Frequency    domain.CommitmentFrequency
	DueDay       int32
	Weekday      *time.Weekday
	CreditCardID *int32
	ReminderDays int32
}

func (s *CommitmentService) validateCommitmentInput(input *CreateCommitmentInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return domain.ErrNameTooLong
	}
	input.Name = name
	if !input.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if !input.Frequency.IsValid() {
		return domain.ErrInvalidFrequency
	}

	switch input.Frequency {
	case domain.FrequencyWeekly, domain.FrequencyBiweekly:
		if input.Weekday == nil || *input.Weekday < time.Sunday || *input.Weekday > time.Saturday {
			return domain.ErrInvalidDueDay
		}
	default:
		if input.DueDay < 1 || input.DueDay > 31 {
			return domain.ErrInvalidDueDay
		}
	}

	if input.CreditCardID != nil {
		if _, err := s.cardRepo.GetByID(*input.CreditCardID); err != nil {
			return err
		}
	}
	return nil
}

// CreateCommitment creates a new recurring commitment
func (s *CommitmentService) CreateCommitment(input CreateCommitmentInput) (*domain.Commitment, error) {
	if err := s.validateCommitmentInput(&input); err != nil {
		return nil, err
	}
	c := &domain.Commitment{
		Name:         input.Name,
		Amount:       input.Amount,
		Frequency:    input.Frequency,
		DueDay:       input.DueDay,
		Weekday:      input.Weekday,
		CreditCardID: input.CreditCardID,
		ReminderDays: input.ReminderDays,
	}
	created, err := s.commitmentRepo.Create(c)
	if err != nil {
		return nil, err
	}
	s.publishEvent(websocket.CommitmentUpdated(created))
	return created, nil
}

// GetCommitments lists commitments, optionally only active ones
func (s *CommitmentService) GetCommitments(activeOnly bool) ([]*domain.Commitment, error) {
	return s.commitmentRepo.List(activeOnly)
}

// GetCommitmentByID retrieves a commitment by ID
func (s *CommitmentService) GetCommitmentByID(id int32) (*domain.Commitment, error) {
	return s.commitmentRepo.GetByID(id)
}

// UpdateCommitment updates a commitment's fields
func (s *CommitmentService) UpdateCommitment(id int32, input CreateCommitmentInput) (*domain.Commitment, error) {
	if err := s.validateCommitmentInput(&input); err != nil {
		return nil, err
	}
	c, err := s.commitmentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	c.Name = input.Name
	c.Amount = input.Amount
	c.Frequency = input.Frequency
	c.DueDay = input.DueDay
	c.Weekday = input.Weekday
	c.CreditCardID = input.CreditCardID
	c.ReminderDays = input.ReminderDays

	updated, err := s.commitmentRepo.Update(c)
	if err != nil {
		return nil, err
	}
	s.publishEvent(websocket.CommitmentUpdated(updated))
	return updated, nil
}

// SetPaid toggles a commitment's paid flag for the current period
func (s *CommitmentService) SetPaid(id int32, paid bool) (*domain.Commitment, error) {
	c, err := s.commitmentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	c.IsPaid = paid
	updated, err := s.commitmentRepo.Update(c)
	if err != nil {
		return nil, err
	}
	s.publishEvent(websocket.CommitmentUpdated(updated))
	return updated, nil
}

// DeactivateCommitment soft-deletes a commitment via its active flag
func (s *CommitmentService) DeactivateCommitment(id int32) error {
	return s.commitmentRepo.Deactivate(id)
}

// CommitmentOccurrence is one projected due date of a commitment
type CommitmentOccurrence struct {
	Commitment *domain.Commitment `json:"commitment"`
	DueDate    time.Time          `json:"dueDate"`
}

// ProjectOccurrences projects the due dates of all active commitments inside
// [from, to], sorted by date, for the cash-flow view.
func (s *CommitmentService) ProjectOccurrences(from, to time.Time) ([]*CommitmentOccurrence, error) {
	commitments, err := s.commitmentRepo.List(true)
	if err != nil {
		return nil, err
	}

	var occurrences []*CommitmentOccurrence
	for _, c := range commitments {
		for _, date := range c.Occurrences(from, to) {
			occurrences = append(occurrences, &CommitmentOccurrence{Commitment: c, DueDate: date})
		}
	}
	sort.Slice(occurrences, func(i, j int) bool {
		return occurrences[i].DueDate.Before(occurrences[j].DueDate)
	})
	return occurrences, nil
}
