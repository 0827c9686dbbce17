package testutil

import (
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MockAccountRepository is a mock implementation of domain.AccountRepository
type MockAccountRepository struct {
	Accounts map[int32]*domain.Account
	Balances *MockBalanceRepository
	NextID   int32
	CreateFn func(account *domain.Account, mainBalance *domain.Balance) (*domain.Account, error)
}

// NewMockAccountRepository creates a new MockAccountRepository. When balances
// is non-nil, Create also registers the main balance there, mirroring the
// real repository's atomic insert.
func NewMockAccountRepository(balances *MockBalanceRepository) *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[int32]*domain.Account),
		Balances: balances,
		NextID:   1,
	}
}

func (m *MockAccountRepository) Create(account *domain.Account, mainBalance *domain.Balance) (*domain.Account, error) {
	if m.CreateFn != nil {
		return m.CreateFn(account, mainBalance)
	}
	account.ID = m.NextID
	m.NextID++
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	m.Accounts[account.ID] = account
	if m.Balances != nil {
		mainBalance.AccountID = account.ID
		mainBalance.Kind = domain.BalanceKindAccount
		mainBalance.IsActive = true
		if _, err := m.Balances.Create(mainBalance); err != nil {
			return nil, err
		}
	}
	return account, nil
}

func (m *MockAccountRepository) GetByID(id int32) (*domain.Account, error) {
	if a, ok := m.Accounts[id]; ok && a.DeletedAt == nil {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) List() ([]*domain.Account, error) {
	var accounts []*domain.Account
	for _, a := range m.Accounts {
		if a.DeletedAt == nil {
			accounts = append(accounts, a)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) Update(account *domain.Account) (*domain.Account, error) {
	existing, ok := m.Accounts[account.ID]
	if !ok || existing.DeletedAt != nil {
		return nil, domain.ErrAccountNotFound
	}
	account.UpdatedAt = time.Now()
	m.Accounts[account.ID] = account
	return account, nil
}

func (m *MockAccountRepository) SoftDelete(id int32) error {
	a, ok := m.Accounts[id]
	if !ok || a.DeletedAt != nil {
		return domain.ErrAccountNotFound
	}
	now := time.Now()
	a.DeletedAt = &now
	return nil
}

// MockBalanceRepository is a mock implementation of domain.BalanceRepository
type MockBalanceRepository struct {
	Balances map[int32]*domain.Balance
	NextID   int32
	UpdateFn func(balance *domain.Balance) (*domain.Balance, error)
}

// NewMockBalanceRepository creates a new MockBalanceRepository
func NewMockBalanceRepository() *MockBalanceRepository {
	return &MockBalanceRepository{
		Balances: make(map[int32]*domain.Balance),
		NextID:   1,
	}
}

func (m *MockBalanceRepository) Create(balance *domain.Balance) (*domain.Balance, error) {
	balance.ID = m.NextID
	m.NextID++
	balance.IsActive = true
	balance.CreatedAt = time.Now()
	balance.UpdatedAt = balance.CreatedAt
	m.Balances[balance.ID] = balance
	return balance, nil
}

func (m *MockBalanceRepository) GetByID(id int32) (*domain.Balance, error) {
	if b, ok := m.Balances[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBalanceNotFound
}

func (m *MockBalanceRepository) GetMainByAccount(accountID int32) (*domain.Balance, error) {
	for _, b := range m.Balances {
		if b.AccountID == accountID && b.Kind == domain.BalanceKindAccount {
			return b, nil
		}
	}
	return nil, domain.ErrBalanceNotFound
}

func (m *MockBalanceRepository) ListByAccount(accountID int32, activeOnly bool) ([]*domain.Balance, error) {
	var balances []*domain.Balance
	for _, b := range m.Balances {
		if b.AccountID != accountID {
			continue
		}
		if activeOnly && !b.IsActive {
			continue
		}
		balances = append(balances, b)
	}
	return balances, nil
}

func (m *MockBalanceRepository) Update(balance *domain.Balance) (*domain.Balance, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(balance)
	}
	if _, ok := m.Balances[balance.ID]; !ok {
		return nil, domain.ErrBalanceNotFound
	}
	balance.UpdatedAt = time.Now()
	m.Balances[balance.ID] = balance
	return balance, nil
}

func (m *MockBalanceRepository) Deactivate(id int32) error {
	b, ok := m.Balances[id]
	if !ok || !b.IsActive {
		return domain.ErrBalanceNotFound
	}
	b.IsActive = false
	return nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository.
// It applies balance effects through the linked MockBalanceRepository the way
// the real repository does inside a database transaction.
type MockTransactionRepository struct {
	Transactions  map[int32]*domain.Transaction
	Balances      *MockBalanceRepository
	NextID        int32
	CreateFn      func(tx *domain.Transaction) (*domain.Transaction, error)
	CreateBatchFn func(txs []*domain.Transaction) ([]*domain.Transaction, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository(balances *MockBalanceRepository) *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		Balances:     balances,
		NextID:       1,
	}
}

func (m *MockTransactionRepository) applyDelta(t *domain.Transaction, sign decimal.Decimal) {
	if m.Balances == nil || t.BalanceID == nil || t.Status != domain.TransactionStatusCompleted {
		return
	}
	b, ok := m.Balances.Balances[*t.BalanceID]
	if !ok {
		return
	}
	amount := t.Amount
	if t.Type == domain.TransactionTypeExpense {
		amount = amount.Neg()
	}
	b.CurrentAmount = b.CurrentAmount.Add(amount.Mul(sign))
}

func (m *MockTransactionRepository) insert(t *domain.Transaction) *domain.Transaction {
	t.ID = m.NextID
	m.NextID++
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.Transactions[t.ID] = t
	m.applyDelta(t, decimal.NewFromInt(1))
	return t
}

func (m *MockTransactionRepository) Create(t *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(t)
	}
	return m.insert(t), nil
}

func (m *MockTransactionRepository) CreateBatch(txs []*domain.Transaction) ([]*domain.Transaction, error) {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(txs)
	}
	created := make([]*domain.Transaction, 0, len(txs))
	for _, t := range txs {
		created = append(created, m.insert(t))
	}
	return created, nil
}

func (m *MockTransactionRepository) GetByID(id int32) (*domain.Transaction, error) {
	if t, ok := m.Transactions[id]; ok && t.DeletedAt == nil {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) List(filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	var matched []*domain.Transaction
	for _, t := range m.Transactions {
		if t.DeletedAt != nil {
			continue
		}
		if filters.BalanceID != nil && (t.BalanceID == nil || *t.BalanceID != *filters.BalanceID) {
			continue
		}
		if filters.BillID != nil && (t.BillID == nil || *t.BillID != *filters.BillID) {
			continue
		}
		if filters.Type != nil && t.Type != *filters.Type {
			continue
		}
		if filters.Status != nil && t.Status != *filters.Status {
			continue
		}
		if filters.StartDate != nil && t.TransactionDate.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && t.TransactionDate.After(*filters.EndDate) {
			continue
		}
		matched = append(matched, t)
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	return &domain.PaginatedTransactions{
		Data:       matched,
		Page:       1,
		PageSize:   pageSize,
		TotalItems: int64(len(matched)),
		TotalPages: 1,
	}, nil
}

func (m *MockTransactionRepository) UpdateStatus(id int32, status domain.TransactionStatus) (*domain.Transaction, error) {
	t, ok := m.Transactions[id]
	if !ok || t.DeletedAt != nil {
		return nil, domain.ErrTransactionNotFound
	}
	if t.Status == status {
		return t, nil
	}
	m.applyDelta(t, decimal.NewFromInt(-1))
	t.Status = status
	t.UpdatedAt = time.Now()
	m.applyDelta(t, decimal.NewFromInt(1))
	return t, nil
}

func (m *MockTransactionRepository) SoftDelete(id int32) error {
	t, ok := m.Transactions[id]
	if !ok || t.DeletedAt != nil {
		return domain.ErrTransactionNotFound
	}
	m.applyDelta(t, decimal.NewFromInt(-1))
	now := time.Now()
	t.DeletedAt = &now
	return nil
}

func (m *MockTransactionRepository) CreateTransferPair(fromTx, toTx *domain.Transaction) (*domain.TransferResult, error) {
	from := m.insert(fromTx)
	to := m.insert(toTx)
	return &domain.TransferResult{FromTransaction: from, ToTransaction: to}, nil
}

func (m *MockTransactionRepository) CreateInstallmentPlan(parent *domain.Transaction, children []*domain.Transaction) (*domain.Transaction, []*domain.Transaction, error) {
	createdParent := m.insert(parent)
	created := make([]*domain.Transaction, 0, len(children))
	for _, child := range children {
		child.ParentTransactionID = &createdParent.ID
		created = append(created, m.insert(child))
	}
	return createdParent, created, nil
}

func (m *MockTransactionRepository) ListByParent(parentID int32) ([]*domain.Transaction, error) {
	var children []*domain.Transaction
	for _, t := range m.Transactions {
		if t.DeletedAt == nil && t.ParentTransactionID != nil && *t.ParentTransactionID == parentID {
			children = append(children, t)
		}
	}
	return children, nil
}

func (m *MockTransactionRepository) CancelExpectedByParent(parentID int32) (int64, error) {
	var count int64
	for _, t := range m.Transactions {
		if t.DeletedAt != nil || t.ParentTransactionID == nil || *t.ParentTransactionID != parentID {
			continue
		}
		if t.Status == domain.TransactionStatusExpected {
			t.Status = domain.TransactionStatusCancelled
			count++
		}
	}
	return count, nil
}

func (m *MockTransactionRepository) SumByBill(billID int32) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range m.Transactions {
		if t.DeletedAt != nil || t.IsInstallmentParent {
			continue
		}
		if t.BillID == nil || *t.BillID != billID {
			continue
		}
		if t.Status == domain.TransactionStatusCancelled {
			continue
		}
		sum = sum.Add(t.Amount)
	}
	return sum, nil
}

func (m *MockTransactionRepository) ListByBill(billID int32) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for _, t := range m.Transactions {
		if t.DeletedAt == nil && t.BillID != nil && *t.BillID == billID {
			transactions = append(transactions, t)
		}
	}
	return transactions, nil
}

func (m *MockTransactionRepository) SumByTypeAndDateRange(start, end time.Time, txType domain.TransactionType) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range m.Transactions {
		if !m.inAggregate(t, start, end) || t.Type != txType {
			continue
		}
		sum = sum.Add(t.Amount)
	}
	return sum, nil
}

func (m *MockTransactionRepository) inAggregate(t *domain.Transaction, start, end time.Time) bool {
	return t.DeletedAt == nil &&
		!t.IsInstallmentParent &&
		t.Status == domain.TransactionStatusCompleted &&
		!t.TransactionDate.Before(start) &&
		!t.TransactionDate.After(end)
}

func (m *MockTransactionRepository) CategoryBreakdown(start, end time.Time, txType domain.TransactionType) ([]*domain.CategoryTotal, error) {
	byCategory := make(map[domain.Category]*domain.CategoryTotal)
	for _, t := range m.Transactions {
		if !m.inAggregate(t, start, end) || t.Type != txType {
			continue
		}
		ct, ok := byCategory[t.Category]
		if !ok {
			ct = &domain.CategoryTotal{Category: t.Category}
			byCategory[t.Category] = ct
		}
		ct.Total = ct.Total.Add(t.Amount)
		ct.Count++
	}
	var totals []*domain.CategoryTotal
	for _, ct := range byCategory {
		totals = append(totals, ct)
	}
	return totals, nil
}

func (m *MockTransactionRepository) TopDescriptions(start, end time.Time, limit int32) ([]*domain.DescriptionTotal, error) {
	byDescription := make(map[string]*domain.DescriptionTotal)
	for _, t := range m.Transactions {
		if !m.inAggregate(t, start, end) || t.Type != domain.TransactionTypeExpense {
			continue
		}
		if t.Description == nil || *t.Description == "" {
			continue
		}
		dt, ok := byDescription[*t.Description]
		if !ok {
			dt = &domain.DescriptionTotal{Description: *t.Description}
			byDescription[*t.Description] = dt
		}
		dt.Total = dt.Total.Add(t.Amount)
		dt.Count++
	}
	var totals []*domain.DescriptionTotal
	for _, dt := range byDescription {
		if int32(len(totals)) >= limit {
			break
		}
		totals = append(totals, dt)
	}
	return totals, nil
}

// MockCreditCardRepository is a mock implementation of domain.CreditCardRepository
type MockCreditCardRepository struct {
	Cards  map[int32]*domain.CreditCard
	NextID int32
}

// NewMockCreditCardRepository creates a new MockCreditCardRepository
func NewMockCreditCardRepository() *MockCreditCardRepository {
	return &MockCreditCardRepository{
		Cards:  make(map[int32]*domain.CreditCard),
		NextID: 1,
	}
}

func (m *MockCreditCardRepository) Create(card *domain.CreditCard) (*domain.CreditCard, error) {
	card.ID = m.NextID
	m.NextID++
	card.CreatedAt = time.Now()
	card.UpdatedAt = card.CreatedAt
	m.Cards[card.ID] = card
	return card, nil
}

func (m *MockCreditCardRepository) GetByID(id int32) (*domain.CreditCard, error) {
	if c, ok := m.Cards[id]; ok && c.DeletedAt == nil {
		return c, nil
	}
	return nil, domain.ErrCreditCardNotFound
}

func (m *MockCreditCardRepository) List() ([]*domain.CreditCard, error) {
	var cards []*domain.CreditCard
	for _, c := range m.Cards {
		if c.DeletedAt == nil {
			cards = append(cards, c)
		}
	}
	return cards, nil
}

func (m *MockCreditCardRepository) ListAutoGenerate() ([]*domain.CreditCard, error) {
	var cards []*domain.CreditCard
	for _, c := range m.Cards {
		if c.DeletedAt == nil && c.AutoGenerateBills {
			cards = append(cards, c)
		}
	}
	return cards, nil
}

func (m *MockCreditCardRepository) Update(card *domain.CreditCard) (*domain.CreditCard, error) {
	existing, ok := m.Cards[card.ID]
	if !ok || existing.DeletedAt != nil {
		return nil, domain.ErrCreditCardNotFound
	}
	card.UpdatedAt = time.Now()
	m.Cards[card.ID] = card
	return card, nil
}

func (m *MockCreditCardRepository) Delete(id int32) error {
	if _, ok := m.Cards[id]; !ok {
		return domain.ErrCreditCardNotFound
	}
	delete(m.Cards, id)
	return nil
}

// MockBillRepository is a mock implementation of domain.BillRepository
type MockBillRepository struct {
	Bills    map[int32]*domain.Bill
	NextID   int32
	CreateFn func(bill *domain.Bill) (*domain.Bill, error)
}

// NewMockBillRepository creates a new MockBillRepository
func NewMockBillRepository() *MockBillRepository {
	return &MockBillRepository{
		Bills:  make(map[int32]*domain.Bill),
		NextID: 1,
	}
}

func (m *MockBillRepository) Create(bill *domain.Bill) (*domain.Bill, error) {
	if m.CreateFn != nil {
		return m.CreateFn(bill)
	}
	for _, b := range m.Bills {
		if b.CreditCardID == bill.CreditCardID && b.Year == bill.Year && b.Month == bill.Month {
			return nil, domain.ErrBillAlreadyExists
		}
	}
	bill.ID = m.NextID
	m.NextID++
	bill.CreatedAt = time.Now()
	bill.UpdatedAt = bill.CreatedAt
	m.Bills[bill.ID] = bill
	return bill, nil
}

func (m *MockBillRepository) GetByID(id int32) (*domain.Bill, error) {
	if b, ok := m.Bills[id]; ok {
		return b, nil
	}
	return nil, domain.ErrBillNotFound
}

func (m *MockBillRepository) GetByCardMonth(creditCardID int32, year, month int) (*domain.Bill, error) {
	for _, b := range m.Bills {
		if b.CreditCardID == creditCardID && b.Year == year && b.Month == month {
			return b, nil
		}
	}
	return nil, domain.ErrBillNotFound
}

func (m *MockBillRepository) ListByCard(creditCardID int32) ([]*domain.Bill, error) {
	var bills []*domain.Bill
	for _, b := range m.Bills {
		if b.CreditCardID == creditCardID {
			bills = append(bills, b)
		}
	}
	return bills, nil
}

func (m *MockBillRepository) ListDueBetween(start, end time.Time) ([]*domain.Bill, error) {
	var bills []*domain.Bill
	for _, b := range m.Bills {
		if !b.DueDate.Before(start) && !b.DueDate.After(end) {
			bills = append(bills, b)
		}
	}
	return bills, nil
}

func (m *MockBillRepository) Update(bill *domain.Bill) (*domain.Bill, error) {
	if _, ok := m.Bills[bill.ID]; !ok {
		return nil, domain.ErrBillNotFound
	}
	bill.UpdatedAt = time.Now()
	m.Bills[bill.ID] = bill
	return bill, nil
}

// MockCommitmentRepository is a mock implementation of domain.CommitmentRepository
type MockCommitmentRepository struct {
	Commitments map[int32]*domain.Commitment
	NextID      int32
}

// NewMockCommitmentRepository creates a new MockCommitmentRepository
func NewMockCommitmentRepository() *MockCommitmentRepository {
	return &MockCommitmentRepository{
		Commitments: make(map[int32]*domain.Commitment),
		NextID:      1,
	}
}

func (m *MockCommitmentRepository) Create(c *domain.Commitment) (*domain.Commitment, error) {
	c.ID = m.NextID
	m.NextID++
	c.IsActive = true
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.Commitments[c.ID] = c
	return c, nil
}

func (m *MockCommitmentRepository) GetByID(id int32) (*domain.Commitment, error) {
	if c, ok := m.Commitments[id]; ok {
		return c, nil
	}
	return nil, domain.ErrCommitmentNotFound
}

func (m *MockCommitmentRepository) List(activeOnly bool) ([]*domain.Commitment, error) {
	var commitments []*domain.Commitment
	for _, c := range m.Commitments {
		if activeOnly && !c.IsActive {
			continue
		}
		commitments = append(commitments, c)
	}
	return commitments, nil
}

func (m *MockCommitmentRepository) Update(c *domain.Commitment) (*domain.Commitment, error) {
	if _, ok := m.Commitments[c.ID]; !ok {
		return nil, domain.ErrCommitmentNotFound
	}
	c.UpdatedAt = time.Now()
	m.Commitments[c.ID] = c
	return c, nil
}

func (m *MockCommitmentRepository) Deactivate(id int32) error {
	c, ok := m.Commitments[id]
	if !ok || !c.IsActive {
		return domain.ErrCommitmentNotFound
	}
	c.IsActive = false
	return nil
}

// MockIncomeRepository is a mock implementation of domain.IncomeRepository
type MockIncomeRepository struct {
	Incomes map[int32]*domain.Income
	NextID  int32
}

// NewMockIncomeRepository creates a new MockIncomeRepository
func NewMockIncomeRepository() *MockIncomeRepository {
	return &MockIncomeRepository{
		Incomes: make(map[int32]*domain.Income),
		NextID:  1,
	}
}

func (m *MockIncomeRepository) Create(income *domain.Income) (*domain.Income, error) {
	income.ID = m.NextID
	m.NextID++
	income.IsActive = true
	income.CreatedAt = time.Now()
	income.UpdatedAt = income.CreatedAt
	m.Incomes[income.ID] = income
	return income, nil
}

func (m *MockIncomeRepository) GetByID(id int32) (*domain.Income, error) {
	if i, ok := m.Incomes[id]; ok {
		return i, nil
	}
	return nil, domain.ErrIncomeNotFound
}

func (m *MockIncomeRepository) List(activeOnly bool) ([]*domain.Income, error) {
	var incomes []*domain.Income
	for _, i := range m.Incomes {
		if activeOnly && !i.IsActive {
			continue
		}
		incomes = append(incomes, i)
	}
	return incomes, nil
}

func (m *MockIncomeRepository) Update(income *domain.Income) (*domain.Income, error) {
	if _, ok := m.Incomes[income.ID]; !ok {
		return nil, domain.ErrIncomeNotFound
	}
	income.UpdatedAt = time.Now()
	m.Incomes[income.ID] = income
	return income, nil
}

func (m *MockIncomeRepository) Deactivate(id int32) error {
	i, ok := m.Incomes[id]
	if !ok || !i.IsActive {
		return domain.ErrIncomeNotFound
	}
	i.IsActive = false
	return nil
}
