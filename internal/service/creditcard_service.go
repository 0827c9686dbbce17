package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// CreditCardService handles credit card business logic
type CreditCardService struct {
	cardRepo domain.CreditCardRepository
}

// NewCreditCardService creates a new CreditCardService
func NewCreditCardService(cardRepo domain.CreditCardRepository) *CreditCardService {
	return &CreditCardService{cardRepo: cardRepo}
}

// CreateCreditCardInput holds the input for creating a credit card
type CreateCreditCardInput struct {
	Name              string
	CreditLimit       decimal.Decimal
	ClosingDay        int32
	DueDay            int32
	Color             string
	AutoGenerateBills bool
}

func validateCardInput(input *CreateCreditCardInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return domain.ErrNameTooLong
	}
	input.Name = name
	if input.CreditLimit.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if input.ClosingDay < 1 || input.ClosingDay > 31 {
		return domain.ErrInvalidClosingDay
	}
	if input.DueDay < 1 || input.DueDay > 31 {
		return domain.ErrInvalidDueDay
	}
	return nil
}

// CreateCreditCard creates a new credit card
func (s *CreditCardService) CreateCreditCard(input CreateCreditCardInput) (*domain.CreditCard, error) {
	if err := validateCardInput(&input); err != nil {
		return nil, err
	}
	card := &domain.CreditCard{
		Name:              input.Name,
		CreditLimit:       input.CreditLimit,
		ClosingDay:        input.ClosingDay,
		DueDay:            input.DueDay,
		Color:             input.Color,
		AutoGenerateBills: input.AutoGenerateBills,
	}
	return s.cardRepo.Create(card)
}

// GetCreditCards retrieves all credit cards
func (s *CreditCardService) GetCreditCards() ([]*domain.CreditCard, error) {
	return s.cardRepo.List()
}

// GetCreditCardByID retrieves a credit card by ID
func (s *CreditCardService) GetCreditCardByID(id int32) (*domain.CreditCard, error) {
	return s.cardRepo.GetByID(id)
}

// UpdateCreditCard updates a credit card. Changing closing or due days only
// affects bills generated afterwards; existing bills keep their dates.
func (s *CreditCardService) UpdateCreditCard(id int32, input CreateCreditCardInput) (*domain.CreditCard, error) {
	if err := validateCardInput(&input); err != nil {
		return nil, err
	}
	card, err := s.cardRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	card.Name = input.Name
	card.CreditLimit = input.CreditLimit
	card.ClosingDay = input.ClosingDay
	card.DueDay = input.DueDay
	card.Color = input.Color
	card.AutoGenerateBills = input.AutoGenerateBills
	return s.cardRepo.Update(card)
}

// DeleteCreditCard removes a card; its bills and their transactions cascade
func (s *CreditCardService) DeleteCreditCard(id int32) error {
	return s.cardRepo.Delete(id)
}
