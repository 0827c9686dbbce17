package service

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/testutil"
)

// balanceFixture wires a balance service with one account whose main balance
// holds 1000.
func balanceFixture(t *testing.T) (*BalanceService, *testutil.MockBalanceRepository, *domain.Balance) {
	t.Helper()
	balanceRepo := testutil.NewMockBalanceRepository()
	transactionRepo := testutil.NewMockTransactionRepository(balanceRepo)
	balanceService := NewBalanceService(balanceRepo, transactionRepo)

	main, err := balanceRepo.Create(&domain.Balance{
		AccountID:     1,
		Name:          "Checking",
		Kind:          domain.BalanceKindAccount,
		CurrentAmount: decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return balanceService, balanceRepo, main
}

func TestCreatePool_Success(t *testing.T) {
	balanceService, _, main := balanceFixture(t)

	goal := decimal.NewFromInt(5000)
	pool, err := balanceService.CreatePool(CreatePoolInput{
		AccountID:  main.AccountID,
		Name:       "Vacation",
		GoalAmount: &goal,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if pool.Kind != domain.BalanceKindPool {
		t.Errorf("Expected kind 'pool', got %s", pool.Kind)
	}
	if !pool.CurrentAmount.IsZero() {
		t.Errorf("Expected new pool to start at zero, got %s", pool.CurrentAmount.String())
	}
}

func TestCreatePool_UnknownAccount(t *testing.T) {
	balanceService, _, _ := balanceFixture(t)

	_, err := balanceService.CreatePool(CreatePoolInput{
		AccountID: 99,
		Name:      "Orphan",
	})
	if !errors.Is(err, domain.ErrBalanceNotFound) {
		t.Errorf("Expected ErrBalanceNotFound, got %v", err)
	}
}

func TestCreatePool_NonPositiveGoal(t *testing.T) {
	balanceService, _, main := balanceFixture(t)

	goal := decimal.Zero
	_, err := balanceService.CreatePool(CreatePoolInput{
		AccountID:  main.AccountID,
		Name:       "Emergency",
		GoalAmount: &goal,
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestTransfer_MovesMoneyBetweenBalances(t *testing.T) {
	balanceService, balanceRepo, main := balanceFixture(t)

	pool, err := balanceService.CreatePool(CreatePoolInput{AccountID: main.AccountID, Name: "Savings"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	result, err := balanceService.Transfer(TransferInput{
		FromBalanceID: main.ID,
		ToBalanceID:   pool.ID,
		Amount:        decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.FromTransaction.Type != domain.TransactionTypeExpense {
		t.Errorf("Expected expense leg, got %s", result.FromTransaction.Type)
	}
	if result.ToTransaction.Type != domain.TransactionTypeIncome {
		t.Errorf("Expected income leg, got %s", result.ToTransaction.Type)
	}
	if result.FromTransaction.Category != domain.CategoryTransfer {
		t.Errorf("Expected transfer category, got %s", result.FromTransaction.Category)
	}
	if result.FromTransaction.TransferPairID == nil || result.ToTransaction.TransferPairID == nil {
		t.Fatal("Expected both legs to carry a transfer pair ID")
	}
	if *result.FromTransaction.TransferPairID != *result.ToTransaction.TransferPairID {
		t.Error("Expected both legs to share the same pair ID")
	}

	from, _ := balanceRepo.GetByID(main.ID)
	to, _ := balanceRepo.GetByID(pool.ID)
	if !from.CurrentAmount.Equal(decimal.NewFromInt(700)) {
		t.Errorf("Expected source balance 700, got %s", from.CurrentAmount.String())
	}
	if !to.CurrentAmount.Equal(decimal.NewFromInt(300)) {
		t.Errorf("Expected destination balance 300, got %s", to.CurrentAmount.String())
	}
}

func TestTransfer_InsufficientBalance(t *testing.T) {
	balanceService, _, main := balanceFixture(t)

	pool, err := balanceService.CreatePool(CreatePoolInput{AccountID: main.AccountID, Name: "Savings"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = balanceService.Transfer(TransferInput{
		FromBalanceID: main.ID,
		ToBalanceID:   pool.ID,
		Amount:        decimal.NewFromInt(2000),
	})
	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Errorf("Expected ErrInsufficientBalance, got %v", err)
	}
}

func TestTransfer_SameBalance(t *testing.T) {
	balanceService, _, main := balanceFixture(t)

	_, err := balanceService.Transfer(TransferInput{
		FromBalanceID: main.ID,
		ToBalanceID:   main.ID,
		Amount:        decimal.NewFromInt(10),
	})
	if !errors.Is(err, domain.ErrSameBalanceTransfer) {
		t.Errorf("Expected ErrSameBalanceTransfer, got %v", err)
	}
}

func TestTransfer_NonPositiveAmount(t *testing.T) {
	balanceService, _, main := balanceFixture(t)

	_, err := balanceService.Transfer(TransferInput{
		FromBalanceID: main.ID,
		ToBalanceID:   main.ID + 1,
		Amount:        decimal.Zero,
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestTransferToPoolAndWithdraw(t *testing.T) {
	balanceService, balanceRepo, main := balanceFixture(t)

	pool, err := balanceService.CreatePool(CreatePoolInput{AccountID: main.AccountID, Name: "Goal"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := balanceService.TransferToPool(pool.ID, decimal.NewFromInt(250), nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	poolAfter, _ := balanceRepo.GetByID(pool.ID)
	if !poolAfter.CurrentAmount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected pool balance 250, got %s", poolAfter.CurrentAmount.String())
	}

	if _, err := balanceService.WithdrawFromPool(pool.ID, decimal.NewFromInt(250), nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	poolAfter, _ = balanceRepo.GetByID(pool.ID)
	mainAfter, _ := balanceRepo.GetByID(main.ID)
	if !poolAfter.CurrentAmount.IsZero() {
		t.Errorf("Expected drained pool, got %s", poolAfter.CurrentAmount.String())
	}
	if !mainAfter.CurrentAmount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("Expected main balance back at 1000, got %s", mainAfter.CurrentAmount.String())
	}
}

func TestTransferToPool_MainBalanceRejected(t *testing.T) {
	balanceService, _, main := balanceFixture(t)

	_, err := balanceService.TransferToPool(main.ID, decimal.NewFromInt(10), nil)
	if !errors.Is(err, domain.ErrBalanceNotFound) {
		t.Errorf("Expected ErrBalanceNotFound for non-pool target, got %v", err)
	}
}

func TestDeactivatePool_RequiresEmptyPool(t *testing.T) {
	balanceService, _, main := balanceFixture(t)

	pool, err := balanceService.CreatePool(CreatePoolInput{AccountID: main.AccountID, Name: "Goal"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := balanceService.TransferToPool(pool.ID, decimal.NewFromInt(50), nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := balanceService.DeactivatePool(pool.ID); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Errorf("Expected ErrInsufficientBalance for non-empty pool, got %v", err)
	}

	if _, err := balanceService.WithdrawFromPool(pool.ID, decimal.NewFromInt(50), nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := balanceService.DeactivatePool(pool.ID); err != nil {
		t.Errorf("Expected no error deactivating empty pool, got %v", err)
	}
}

func TestGetAccountBalances_AvailableSubtractsPools(t *testing.T) {
	balanceService, _, main := balanceFixture(t)

	pool, err := balanceService.CreatePool(CreatePoolInput{AccountID: main.AccountID, Name: "Reserve"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := balanceService.TransferToPool(pool.ID, decimal.NewFromInt(400), nil); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	balances, err := balanceService.GetAccountBalances(main.AccountID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !balances.Main.CurrentAmount.Equal(decimal.NewFromInt(600)) {
		t.Errorf("Expected main 600 after earmarking, got %s", balances.Main.CurrentAmount.String())
	}
	if len(balances.Pools) != 1 {
		t.Fatalf("Expected 1 pool, got %d", len(balances.Pools))
	}
	if !balances.Available.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected available 200, got %s", balances.Available.String())
	}
}

func TestTransfer_SkipBalanceCheckAllowsOverdraw(t *testing.T) {
	balanceService, balanceRepo, main := balanceFixture(t)

	pool, err := balanceService.CreatePool(CreatePoolInput{
		AccountID: main.AccountID,
		Name:      "Emergency",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err = balanceService.Transfer(TransferInput{
		FromBalanceID:    main.ID,
		ToBalanceID:      pool.ID,
		Amount:           decimal.NewFromInt(1500),
		SkipBalanceCheck: true,
	})
	if err != nil {
		t.Fatalf("Expected overdraw to pass with check skipped, got %v", err)
	}

	updated, err := balanceRepo.GetByID(main.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !updated.CurrentAmount.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("Expected main balance -500, got %s", updated.CurrentAmount.String())
	}
}
