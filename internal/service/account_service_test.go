package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/testutil"
)

func newAccountService() (*AccountService, *testutil.MockAccountRepository, *testutil.MockBalanceRepository) {
	balanceRepo := testutil.NewMockBalanceRepository()
	accountRepo := testutil.NewMockAccountRepository(balanceRepo)
	return NewAccountService(accountRepo, balanceRepo), accountRepo, balanceRepo
}

func TestCreateAccount_Success(t *testing.T) {
	accountService, _, balanceRepo := newAccountService()

	account, err := accountService.CreateAccount(CreateAccountInput{
		Name:           "Nubank",
		Institution:    "Nu Pagamentos",
		Kind:           domain.AccountKindChecking,
		Color:          "#820AD1",
		InitialBalance: decimal.NewFromFloat(1500.75),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if account.Name != "Nubank" {
		t.Errorf("Expected name 'Nubank', got %s", account.Name)
	}
	if account.Kind != domain.AccountKindChecking {
		t.Errorf("Expected kind 'checking', got %s", account.Kind)
	}

	main, err := balanceRepo.GetMainByAccount(account.ID)
	if err != nil {
		t.Fatalf("Expected main balance to exist, got %v", err)
	}
	if !main.CurrentAmount.Equal(decimal.NewFromFloat(1500.75)) {
		t.Errorf("Expected main balance '1500.75', got %s", main.CurrentAmount.String())
	}
	if main.Kind != domain.BalanceKindAccount {
		t.Errorf("Expected balance kind 'account', got %s", main.Kind)
	}
}

func TestCreateAccount_TrimsName(t *testing.T) {
	accountService, _, _ := newAccountService()

	account, err := accountService.CreateAccount(CreateAccountInput{
		Name: "  Wallet  ",
		Kind: domain.AccountKindWallet,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if account.Name != "Wallet" {
		t.Errorf("Expected trimmed name 'Wallet', got %q", account.Name)
	}
}

func TestCreateAccount_EmptyName(t *testing.T) {
	accountService, _, _ := newAccountService()

	_, err := accountService.CreateAccount(CreateAccountInput{
		Name: "   ",
		Kind: domain.AccountKindChecking,
	})
	if !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}

func TestCreateAccount_InvalidKind(t *testing.T) {
	accountService, _, _ := newAccountService()

	_, err := accountService.CreateAccount(CreateAccountInput{
		Name: "Broker",
		Kind: domain.AccountKind("crypto"),
	})
	if !errors.Is(err, domain.ErrInvalidAccountKind) {
		t.Errorf("Expected ErrInvalidAccountKind, got %v", err)
	}
}

func TestCreateAccount_NegativeInitialBalance(t *testing.T) {
	accountService, _, _ := newAccountService()

	_, err := accountService.CreateAccount(CreateAccountInput{
		Name:           "Checking",
		Kind:           domain.AccountKindChecking,
		InitialBalance: decimal.NewFromInt(-10),
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestUpdateAccount_Success(t *testing.T) {
	accountService, _, _ := newAccountService()

	account, err := accountService.CreateAccount(CreateAccountInput{
		Name: "Old Name",
		Kind: domain.AccountKindChecking,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := accountService.UpdateAccount(account.ID, UpdateAccountInput{
		Name:        "New Name",
		Institution: "Itau",
		Kind:        domain.AccountKindSavings,
		Color:       "#FF7A00",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Name != "New Name" {
		t.Errorf("Expected name 'New Name', got %s", updated.Name)
	}
	if updated.Kind != domain.AccountKindSavings {
		t.Errorf("Expected kind 'savings', got %s", updated.Kind)
	}
}

func TestUpdateAccount_NotFound(t *testing.T) {
	accountService, _, _ := newAccountService()

	_, err := accountService.UpdateAccount(99, UpdateAccountInput{
		Name: "Ghost",
		Kind: domain.AccountKindChecking,
	})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestDeleteAccount_HidesFromList(t *testing.T) {
	accountService, _, _ := newAccountService()

	account, err := accountService.CreateAccount(CreateAccountInput{
		Name: "Closing Soon",
		Kind: domain.AccountKindChecking,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := accountService.DeleteAccount(account.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := accountService.GetAccountByID(account.ID); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound after delete, got %v", err)
	}

	accounts, err := accountService.GetAccounts()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("Expected empty list after delete, got %d accounts", len(accounts))
	}
}
