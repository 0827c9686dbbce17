package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// AccountService handles account-related business logic
type AccountService struct {
	accountRepo domain.AccountRepository
	balanceRepo domain.BalanceRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo domain.AccountRepository, balanceRepo domain.BalanceRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo, balanceRepo: balanceRepo}
}

// CreateAccountInput holds the input for creating an account
type CreateAccountInput struct {
	Name           string
	Institution    string
	Kind           domain.AccountKind
	Color          string
	InitialBalance decimal.Decimal
}

// CreateAccount creates a new account together with its main balance
func (s *AccountService) CreateAccount(input CreateAccountInput) (*domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidAccountKind
	}
	if input.InitialBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	account := &domain.Account{
		Name:        name,
		Institution: strings.TrimSpace(input.Institution),
		Kind:        input.Kind,
		Color:       input.Color,
	}
	mainBalance := &domain.Balance{
		Name:          name,
		Kind:          domain.BalanceKindAccount,
		CurrentAmount: input.InitialBalance,
	}

	return s.accountRepo.Create(account, mainBalance)
}

// GetAccounts retrieves all accounts
func (s *AccountService) GetAccounts() ([]*domain.Account, error) {
	return s.accountRepo.List()
}

// GetAccountByID retrieves an account by ID
func (s *AccountService) GetAccountByID(id int32) (*domain.Account, error) {
	return s.accountRepo.GetByID(id)
}

// UpdateAccountInput holds the editable account fields
type UpdateAccountInput struct {
	Name        string
	Institution string
	Kind        domain.AccountKind
	Color       string
}

// UpdateAccount updates an account's editable fields
func (s *AccountService) UpdateAccount(id int32, input UpdateAccountInput) (*domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !input.Kind.IsValid() {
		return nil, domain.ErrInvalidAccountKind
	}

	account, err := s.accountRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	account.Name = name
	account.Institution = strings.TrimSpace(input.Institution)
	account.Kind = input.Kind
	account.Color = input.Color

	return s.accountRepo.Update(account)
}

// DeleteAccount soft-deletes an account; its history stays queryable
func (s *AccountService) DeleteAccount(id int32) error {
	return s.accountRepo.SoftDelete(id)
}
