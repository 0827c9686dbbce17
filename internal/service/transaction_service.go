package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/websocket"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	balanceRepo     domain.BalanceRepository
	billRepo        domain.BillRepository
	eventPublisher  websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo domain.TransactionRepository, balanceRepo domain.BalanceRepository, billRepo domain.BillRepository) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		balanceRepo:     balanceRepo,
		billRepo:        billRepo,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *TransactionService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TransactionService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	Amount          decimal.Decimal
	Type            domain.TransactionType
	Status          domain.TransactionStatus
	Category        domain.Category
	Subcategory     *string
	TransactionDate time.Time
	BalanceID       *int32
	BillID          *int32
	Description     *string
}

func validateTransactionInput(input *CreateTransactionInput) error {
	if !input.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if !input.Type.IsValid() {
		return domain.ErrInvalidTransactionType
	}
	if input.Status == "" {
		input.Status = domain.TransactionStatusCompleted
	}
	if !input.Status.IsValid() {
		return domain.ErrInvalidTransactionStatus
	}
	if !input.Category.IsValid() {
		return domain.ErrInvalidCategory
	}
	if input.Description != nil {
		trimmed := strings.TrimSpace(*input.Description)
		if len(trimmed) > domain.MaxDescriptionLength {
			return domain.ErrDescriptionTooLong
		}
		input.Description = &trimmed
	}
	return nil
}

// CreateTransaction creates a single transaction against a balance or a bill.
// Completed balance-linked transactions adjust the balance immediately.
func (s *TransactionService) CreateTransaction(input CreateTransactionInput) (*domain.Transaction, error) {
	if err := validateTransactionInput(&input); err != nil {
		return nil, err
	}

	if input.BalanceID != nil {
		if _, err := s.balanceRepo.GetByID(*input.BalanceID); err != nil {
			return nil, err
		}
	}
	if input.BillID != nil {
		if _, err := s.billRepo.GetByID(*input.BillID); err != nil {
			return nil, err
		}
	}

	date := input.TransactionDate
	if date.IsZero() {
		date = time.Now()
	}

	tx := &domain.Transaction{
		Amount:          input.Amount,
		Type:            input.Type,
		Status:          input.Status,
		Category:        input.Category,
		Subcategory:     input.Subcategory,
		TransactionDate: date,
		BalanceID:       input.BalanceID,
		BillID:          input.BillID,
		Description:     input.Description,
	}

	created, err := s.transactionRepo.Create(tx)
	if err != nil {
		return nil, err
	}
	s.publishEvent(websocket.TransactionCreated(created))
	return created, nil
}

// GetTransactionByID retrieves a transaction by ID
func (s *TransactionService) GetTransactionByID(id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(id)
}

// ListTransactions returns a filtered, paginated transaction page
func (s *TransactionService) ListTransactions(filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	if filters.Type != nil && !filters.Type.IsValid() {
		return nil, domain.ErrInvalidTransactionType
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, domain.ErrInvalidTransactionStatus
	}
	return s.transactionRepo.List(filters)
}

// UpdateTransactionStatus transitions a transaction's status. Balance effects
// follow the transition: completing applies, un-completing reverses.
func (s *TransactionService) UpdateTransactionStatus(id int32, status domain.TransactionStatus) (*domain.Transaction, error) {
	if !status.IsValid() {
		return nil, domain.ErrInvalidTransactionStatus
	}
	updated, err := s.transactionRepo.UpdateStatus(id, status)
	if err != nil {
		return nil, err
	}
	s.publishEvent(websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction soft-deletes a transaction, reversing its balance effect
func (s *TransactionService) DeleteTransaction(id int32) error {
	if err := s.transactionRepo.SoftDelete(id); err != nil {
		return err
	}
	s.publishEvent(websocket.TransactionDeleted(map[string]int32{"id": id}))
	return nil
}
