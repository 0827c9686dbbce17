package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/websocket"
)

// BalanceService handles balances and pool operations. Pools earmark part of
// an account's money; the available figure is main minus the sum of pools.
type BalanceService struct {
	balanceRepo     domain.BalanceRepository
	transactionRepo domain.TransactionRepository
	eventPublisher  websocket.EventPublisher
}

// NewBalanceService creates a new BalanceService
func NewBalanceService(balanceRepo domain.BalanceRepository, transactionRepo domain.TransactionRepository) *BalanceService {
	return &BalanceService{balanceRepo: balanceRepo, transactionRepo: transactionRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BalanceService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *BalanceService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// GetAccountBalances returns the main balance, active pools and the derived
// available amount for one account.
func (s *BalanceService) GetAccountBalances(accountID int32) (*domain.AccountBalances, error) {
	main, err := s.balanceRepo.GetMainByAccount(accountID)
	if err != nil {
		return nil, err
	}

	all, err := s.balanceRepo.ListByAccount(accountID, true)
	if err != nil {
		return nil, err
	}

	pools := make([]*domain.Balance, 0)
	poolTotal := decimal.Zero
	for _, b := range all {
		if b.Kind == domain.BalanceKindPool {
			pools = append(pools, b)
			poolTotal = poolTotal.Add(b.CurrentAmount)
		}
	}

	return &domain.AccountBalances{
		Main:      main,
		Pools:     pools,
		Available: main.CurrentAmount.Sub(poolTotal),
	}, nil
}

// CreatePoolInput holds the input for creating a pool
type CreatePoolInput struct {
	AccountID  int32
	Name       string
	GoalAmount *decimal.Decimal
}

// CreatePool creates a new pool under an account, starting empty
func (s *BalanceService) CreatePool(input CreatePoolInput) (*domain.Balance, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if input.GoalAmount != nil && !input.GoalAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	// Account existence check rides on the main balance lookup.
	if _, err := s.balanceRepo.GetMainByAccount(input.AccountID); err != nil {
		return nil, err
	}

	pool := &domain.Balance{
		AccountID:     input.AccountID,
		Name:          name,
		Kind:          domain.BalanceKindPool,
		CurrentAmount: decimal.Zero,
		GoalAmount:    input.GoalAmount,
	}
	created, err := s.balanceRepo.Create(pool)
	if err != nil {
		return nil, err
	}
	s.publishEvent(websocket.BalanceUpdated(created))
	return created, nil
}

// UpdatePool updates a pool's name and goal
func (s *BalanceService) UpdatePool(id int32, name string, goalAmount *decimal.Decimal) (*domain.Balance, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, domain.ErrNameRequired
	}
	if len(trimmed) > domain.MaxNameLength {
		return nil, domain.ErrNameTooLong
	}
	if goalAmount != nil && !goalAmount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	pool, err := s.balanceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pool.Kind != domain.BalanceKindPool {
		return nil, domain.ErrBalanceNotFound
	}
	pool.Name = trimmed
	pool.GoalAmount = goalAmount

	updated, err := s.balanceRepo.Update(pool)
	if err != nil {
		return nil, err
	}
	s.publishEvent(websocket.BalanceUpdated(updated))
	return updated, nil
}

// DeactivatePool deactivates an emptied pool. A pool holding money must be
// drained back to the main balance first.
func (s *BalanceService) DeactivatePool(id int32) error {
	pool, err := s.balanceRepo.GetByID(id)
	if err != nil {
		return err
	}
	if pool.Kind != domain.BalanceKindPool {
		return domain.ErrBalanceNotFound
	}
	if !pool.CurrentAmount.IsZero() {
		return domain.ErrInsufficientBalance
	}
	return s.balanceRepo.Deactivate(id)
}

// TransferInput holds the input for a balance-to-balance transfer. The
// sufficient-balance check is on unless SkipBalanceCheck is set, so the
// zero value keeps the safe default.
type TransferInput struct {
	FromBalanceID    int32
	ToBalanceID      int32
	Amount           decimal.Decimal
	Description      *string
	Date             time.Time
	SkipBalanceCheck bool
}

// Transfer moves money between two balances as a linked pair of completed
// transactions sharing a transfer pair ID.
func (s *BalanceService) Transfer(input TransferInput) (*domain.TransferResult, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if input.FromBalanceID == input.ToBalanceID {
		return nil, domain.ErrSameBalanceTransfer
	}

	from, err := s.balanceRepo.GetByID(input.FromBalanceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.balanceRepo.GetByID(input.ToBalanceID); err != nil {
		return nil, err
	}
	if !input.SkipBalanceCheck && from.CurrentAmount.LessThan(input.Amount) {
		return nil, domain.ErrInsufficientBalance
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}
	pairID := uuid.New()

	fromTx := &domain.Transaction{
		Amount:          input.Amount,
		Type:            domain.TransactionTypeExpense,
		Status:          domain.TransactionStatusCompleted,
		Category:        domain.CategoryTransfer,
		TransactionDate: date,
		BalanceID:       &input.FromBalanceID,
		TransferPairID:  &pairID,
		Description:     input.Description,
	}
	toTx := &domain.Transaction{
		Amount:          input.Amount,
		Type:            domain.TransactionTypeIncome,
		Status:          domain.TransactionStatusCompleted,
		Category:        domain.CategoryTransfer,
		TransactionDate: date,
		BalanceID:       &input.ToBalanceID,
		TransferPairID:  &pairID,
		Description:     input.Description,
	}

	result, err := s.transactionRepo.CreateTransferPair(fromTx, toTx)
	if err != nil {
		return nil, err
	}
	s.publishEvent(websocket.TransactionCreated(result))
	return result, nil
}

// TransferToPool earmarks money from the account's main balance into a pool
func (s *BalanceService) TransferToPool(poolID int32, amount decimal.Decimal, description *string) (*domain.TransferResult, error) {
	pool, err := s.poolByID(poolID)
	if err != nil {
		return nil, err
	}
	main, err := s.balanceRepo.GetMainByAccount(pool.AccountID)
	if err != nil {
		return nil, err
	}
	return s.Transfer(TransferInput{
		FromBalanceID: main.ID,
		ToBalanceID:   pool.ID,
		Amount:        amount,
		Description:   description,
	})
}

// WithdrawFromPool releases pooled money back to the account's main balance
func (s *BalanceService) WithdrawFromPool(poolID int32, amount decimal.Decimal, description *string) (*domain.TransferResult, error) {
	pool, err := s.poolByID(poolID)
	if err != nil {
		return nil, err
	}
	main, err := s.balanceRepo.GetMainByAccount(pool.AccountID)
	if err != nil {
		return nil, err
	}
	return s.Transfer(TransferInput{
		FromBalanceID: pool.ID,
		ToBalanceID:   main.ID,
		Amount:        amount,
		Description:   description,
	})
}

func (s *BalanceService) poolByID(id int32) (*domain.Balance, error) {
	pool, err := s.balanceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if pool.Kind != domain.BalanceKindPool || !pool.IsActive {
		return nil, domain.ErrBalanceNotFound
	}
	return pool, nil
}
