package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/websocket"
)

// IncomeService handles income sources
type IncomeService struct {
	incomeRepo     domain.IncomeRepository
	eventPublisher websocket.EventPublisher
}

// NewIncomeService creates a new IncomeService
func NewIncomeService(incomeRepo domain.IncomeRepository) *IncomeService {
	return &IncomeService{incomeRepo: incomeRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *IncomeService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *IncomeService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateIncomeInput holds the input for creating an income
type CreateIncomeInput struct {
	Description string
	Amount      decimal.Decimal
	Category    domain.IncomeCategory
	Type        domain.IncomeType
	ReceiveDay  int32
}

func validateIncomeInput(input *CreateIncomeInput) error {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return domain.ErrNameRequired
	}
	if len(description) > domain.MaxNameLength {
		return domain.ErrNameTooLong
	}
	input.Description = description
	if !input.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if !input.Category.IsValid() {
		return domain.ErrInvalidCategory
	}
	if !input.Type.IsValid() {
		return domain.ErrInvalidIncomeType
	}
	if input.Type == domain.IncomeTypeRecurrent && (input.ReceiveDay < 1 || input.ReceiveDay > 31) {
		return domain.ErrInvalidDueDay
	}
	return nil
}

// CreateIncome creates a new income source
func (s *IncomeService) CreateIncome(input CreateIncomeInput) (*domain.Income, error) {
	if err := validateIncomeInput(&input); err != nil {
		return nil, err
	}
	income := &domain.Income{
		Description: input.Description,
		Amount:      input.Amount,
		Category:    input.Category,
		Type:        input.Type,
		ReceiveDay:  input.ReceiveDay,
	}
	created, err := s.incomeRepo.Create(income)
	if err != nil {
		return nil, err
	}
	s.publishEvent(websocket.IncomeUpdated(created))
	return created, nil
}

// GetIncomes lists incomes, optionally only active ones
func (s *IncomeService) GetIncomes(activeOnly bool) ([]*domain.Income, error) {
	return s.incomeRepo.List(activeOnly)
}

// GetIncomeByID retrieves an income by ID
func (s *IncomeService) GetIncomeByID(id int32) (*domain.Income, error) {
	return s.incomeRepo.GetByID(id)
}

// UpdateIncome updates an income's fields
func (s *IncomeService) UpdateIncome(id int32, input CreateIncomeInput) (*domain.Income, error) {
	if err := validateIncomeInput(&input); err != nil {
		return nil, err
	}
	income, err := s.incomeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	income.Description = input.Description
	income.Amount = input.Amount
	income.Category = input.Category
	income.Type = input.Type
	income.ReceiveDay = input.ReceiveDay

	updated, err := s.incomeRepo.Update(income)
	if err != nil {
		return nil, err
	}
	s.publishEvent(websocket.IncomeUpdated(updated))
	return updated, nil
}

// SetReceived toggles an income's received flag for the current period
func (s *IncomeService) SetReceived(id int32, received bool) (*domain.Income, error) {
	income, err := s.incomeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	income.IsReceived = received
	updated, err := s.incomeRepo.Update(income)
	if err != nil {
		return nil, err
	}
	s.publishEvent(websocket.IncomeUpdated(updated))
	return updated, nil
}

// DeactivateIncome soft-deletes an income via its active flag
func (s *IncomeService) DeactivateIncome(id int32) error {
	return s.incomeRepo.Deactivate(id)
}
