package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository on SQLite.
// Balance effects are applied inside the same database transaction as the
// row change, so a crash can never leave a ledger row and its balance out of
// sync.
type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(store *Store) *TransactionRepository {
	return &TransactionRepository{db: store.DB()}
}

const transactionColumns = `id, amount_cents, type, status, category, subcategory, transaction_date,
	balance_id, bill_id, parent_transaction_id, installment_number, total_installments,
	installment_amount_cents, is_installment_parent, transfer_pair_id, description,
	created_at, updated_at, deleted_at`

func scanTransaction(row interface{ Scan(...any) error }) (*domain.Transaction, error) {
	var (
		t                domain.Transaction
		amountCents      int64
		subcategory      sql.NullString
		date             string
		balanceID        sql.NullInt64
		billID           sql.NullInt64
		parentID         sql.NullInt64
		installmentNum   sql.NullInt64
		totalInstall     sql.NullInt64
		installmentCents sql.NullInt64
		transferPairID   sql.NullString
		description      sql.NullString
		createdAt        string
		updatedAt        string
		deletedAt        sql.NullString
	)
	err := row.Scan(&t.ID, &amountCents, &t.Type, &t.Status, &t.Category, &subcategory, &date,
		&balanceID, &billID, &parentID, &installmentNum, &totalInstall,
		&installmentCents, &t.IsInstallmentParent, &transferPairID, &description,
		&createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	t.Amount = fromCents(amountCents)
	t.Subcategory = fromNullString(subcategory)
	if t.TransactionDate, err = parseDate(date); err != nil {
		return nil, err
	}
	t.BalanceID = fromNullInt32(balanceID)
	t.BillID = fromNullInt32(billID)
	t.ParentTransactionID = fromNullInt32(parentID)
	t.InstallmentNumber = fromNullInt32(installmentNum)
	t.TotalInstallments = fromNullInt32(totalInstall)
	t.InstallmentAmount = fromNullCents(installmentCents)
	t.Description = fromNullString(description)
	if transferPairID.Valid {
		pairID, err := uuid.Parse(transferPairID.String)
		if err != nil {
			return nil, err
		}
		t.TransferPairID = &pairID
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if t.DeletedAt, err = fromNullTime(deletedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

func insertTransaction(e execer, t *domain.Transaction) (*domain.Transaction, error) {
	var transferPairID sql.NullString
	if t.TransferPairID != nil {
		transferPairID = sql.NullString{String: t.TransferPairID.String(), Valid: true}
	}

	now := formatTime(time.Now())
	row := e.QueryRow(
		`INSERT INTO transactions (amount_cents, type, status, category, subcategory,
			transaction_date, balance_id, bill_id, parent_transaction_id, installment_number,
			total_installments, installment_amount_cents, is_installment_parent,
			transfer_pair_id, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+transactionColumns,
		toCents(t.Amount), string(t.Type), string(t.Status), string(t.Category),
		toNullString(t.Subcategory),
		formatDate(t.TransactionDate), toNullInt32(t.BalanceID), toNullInt32(t.BillID),
		toNullInt32(t.ParentTransactionID), toNullInt32(t.InstallmentNumber),
		toNullInt32(t.TotalInstallments), toNullCents(t.InstallmentAmount),
		t.IsInstallmentParent, transferPairID, toNullString(t.Description), now, now,
	)
	return scanTransaction(row)
}

// balanceDelta is the signed cents effect a completed transaction has on its
// linked balance. Nil balance or non-completed status means zero.
func balanceDelta(t *domain.Transaction) int64 {
	if t.BalanceID == nil || t.Status != domain.TransactionStatusCompleted {
		return 0
	}
	cents := toCents(t.Amount)
	if t.Type == domain.TransactionTypeExpense {
		return -cents
	}
	return cents
}

func applyBalanceDelta(e execer, balanceID int32, deltaCents int64) error {
	if deltaCents == 0 {
		return nil
	}
	res, err := e.Exec(
		`UPDATE balances SET current_amount_cents = current_amount_cents + ?, updated_at = ? WHERE id = ?`,
		deltaCents, formatTime(time.Now()), balanceID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrBalanceNotFound
	}
	return nil
}

func (r *TransactionRepository) Create(t *domain.Transaction) (*domain.Transaction, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	created, err := insertTransaction(tx, t)
	if err != nil {
		return nil, err
	}
	if err := applyBalanceDelta(tx, valueOrZero(created.BalanceID), balanceDelta(created)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *TransactionRepository) CreateBatch(txs []*domain.Transaction) ([]*domain.Transaction, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	created := make([]*domain.Transaction, 0, len(txs))
	for _, t := range txs {
		row, err := insertTransaction(tx, t)
		if err != nil {
			return nil, err
		}
		if err := applyBalanceDelta(tx, valueOrZero(row.BalanceID), balanceDelta(row)); err != nil {
			return nil, err
		}
		created = append(created, row)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

func valueOrZero(p *int32) int32 {
	if p == nil {
		return 0
	}
	return *p
}

func (r *TransactionRepository) GetByID(id int32) (*domain.Transaction, error) {
	row := r.db.QueryRow(
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND deleted_at IS NULL`, id,
	)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TransactionRepository) List(filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	where := ` WHERE deleted_at IS NULL`
	var args []any

	if filters.BalanceID != nil {
		where += ` AND balance_id = ?`
		args = append(args, *filters.BalanceID)
	}
	if filters.BillID != nil {
		where += ` AND bill_id = ?`
		args = append(args, *filters.BillID)
	}
	if filters.StartDate != nil {
		where += ` AND transaction_date >= ?`
		args = append(args, formatDate(*filters.StartDate))
	}
	if filters.EndDate != nil {
		where += ` AND transaction_date <= ?`
		args = append(args, formatDate(*filters.EndDate))
	}
	if filters.Type != nil {
		where += ` AND type = ?`
		args = append(args, string(*filters.Type))
	}
	if filters.Status != nil {
		where += ` AND status = ?`
		args = append(args, string(*filters.Status))
	}

	var total int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions` + where +
		` ORDER BY transaction_date DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int32(total / int64(pageSize))
	if total%int64(pageSize) != 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Data:       transactions,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

func (r *TransactionRepository) UpdateStatus(id int32, status domain.TransactionStatus) (*domain.Transaction, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND deleted_at IS NULL`, id,
	)
	current, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}

	if current.Status == status {
		return current, tx.Commit()
	}

	// Reverse the old status effect, then apply the new one.
	delta := -balanceDelta(current)
	current.Status = status
	delta += balanceDelta(current)

	row = tx.QueryRow(
		`UPDATE transactions SET status = ?, updated_at = ? WHERE id = ?
		 RETURNING `+transactionColumns,
		string(status), formatTime(time.Now()), id,
	)
	updated, err := scanTransaction(row)
	if err != nil {
		return nil, err
	}
	if updated.BalanceID != nil {
		if err := applyBalanceDelta(tx, *updated.BalanceID, delta); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *TransactionRepository) SoftDelete(id int32) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND deleted_at IS NULL`, id,
	)
	current, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrTransactionNotFound
		}
		return err
	}

	// Deleting a completed movement gives the money back to the balance.
	if err := applyBalanceDelta(tx, valueOrZero(current.BalanceID), -balanceDelta(current)); err != nil {
		return err
	}

	_, err = tx.Exec(
		`UPDATE transactions SET deleted_at = ? WHERE id = ?`,
		formatTime(time.Now()), id,
	)
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (r *TransactionRepository) CreateTransferPair(fromTx, toTx *domain.Transaction) (*domain.TransferResult, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	from, err := insertTransaction(tx, fromTx)
	if err != nil {
		return nil, err
	}
	to, err := insertTransaction(tx, toTx)
	if err != nil {
		return nil, err
	}

	if err := applyBalanceDelta(tx, valueOrZero(from.BalanceID), balanceDelta(from)); err != nil {
		return nil, err
	}
	if err := applyBalanceDelta(tx, valueOrZero(to.BalanceID), balanceDelta(to)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &domain.TransferResult{FromTransaction: from, ToTransaction: to}, nil
}

func (r *TransactionRepository) CreateInstallmentPlan(parent *domain.Transaction, children []*domain.Transaction) (*domain.Transaction, []*domain.Transaction, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	createdParent, err := insertTransaction(tx, parent)
	if err != nil {
		return nil, nil, err
	}

	createdChildren := make([]*domain.Transaction, 0, len(children))
	for _, child := range children {
		child.ParentTransactionID = &createdParent.ID
		created, err := insertTransaction(tx, child)
		if err != nil {
			return nil, nil, err
		}
		if err := applyBalanceDelta(tx, valueOrZero(created.BalanceID), balanceDelta(created)); err != nil {
			return nil, nil, err
		}
		createdChildren = append(createdChildren, created)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return createdParent, createdChildren, nil
}

func (r *TransactionRepository) ListByParent(parentID int32) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE parent_transaction_id = ? AND deleted_at IS NULL
		 ORDER BY installment_number`, parentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, t)
	}
	return children, rows.Err()
}

func (r *TransactionRepository) CancelExpectedByParent(parentID int32) (int64, error) {
	res, err := r.db.Exec(
		`UPDATE transactions SET status = ?, updated_at = ?
		 WHERE parent_transaction_id = ? AND status = ? AND deleted_at IS NULL`,
		string(domain.TransactionStatusCancelled), formatTime(time.Now()),
		parentID, string(domain.TransactionStatusExpected),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *TransactionRepository) SumByBill(billID int32) (decimal.Decimal, error) {
	var cents int64
	err := r.db.QueryRow(
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE bill_id = ? AND is_installment_parent = 0
		   AND status != ? AND deleted_at IS NULL`,
		billID, string(domain.TransactionStatusCancelled),
	).Scan(&cents)
	if err != nil {
		return decimal.Zero, err
	}
	return fromCents(cents), nil
}

func (r *TransactionRepository) ListByBill(billID int32) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE bill_id = ? AND deleted_at IS NULL
		 ORDER BY transaction_date, id`, billID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) SumByTypeAndDateRange(start, end time.Time, txType domain.TransactionType) (decimal.Decimal, error) {
	var cents int64
	err := r.db.QueryRow(
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE transaction_date >= ? AND transaction_date <= ?
		   AND type = ? AND status = ?
		   AND is_installment_parent = 0 AND deleted_at IS NULL`,
		formatDate(start), formatDate(end), string(txType),
		string(domain.TransactionStatusCompleted),
	).Scan(&cents)
	if err != nil {
		return decimal.Zero, err
	}
	return fromCents(cents), nil
}

func (r *TransactionRepository) CategoryBreakdown(start, end time.Time, txType domain.TransactionType) ([]*domain.CategoryTotal, error) {
	rows, err := r.db.Query(
		`SELECT category, COALESCE(SUM(amount_cents), 0), COUNT(*) FROM transactions
		 WHERE transaction_date >= ? AND transaction_date <= ?
		   AND type = ? AND status = ?
		   AND is_installment_parent = 0 AND deleted_at IS NULL
		 GROUP BY category
		 ORDER BY SUM(amount_cents) DESC`,
		formatDate(start), formatDate(end), string(txType),
		string(domain.TransactionStatusCompleted),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.CategoryTotal
	for rows.Next() {
		var (
			ct    domain.CategoryTotal
			cents int64
		)
		if err := rows.Scan(&ct.Category, &cents, &ct.Count); err != nil {
			return nil, err
		}
		ct.Total = fromCents(cents)
		totals = append(totals, &ct)
	}
	return totals, rows.Err()
}

func (r *TransactionRepository) TopDescriptions(start, end time.Time, limit int32) ([]*domain.DescriptionTotal, error) {
	rows, err := r.db.Query(
		`SELECT description, COALESCE(SUM(amount_cents), 0), COUNT(*) FROM transactions
		 WHERE transaction_date >= ? AND transaction_date <= ?
		   AND type = ? AND status = ?
		   AND description IS NOT NULL AND description != ''
		   AND is_installment_parent = 0 AND deleted_at IS NULL
		 GROUP BY description
		 ORDER BY SUM(amount_cents) DESC
		 LIMIT ?`,
		formatDate(start), formatDate(end), string(domain.TransactionTypeExpense),
		string(domain.TransactionStatusCompleted), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.DescriptionTotal
	for rows.Next() {
		var (
			dt    domain.DescriptionTotal
			cents int64
		)
		if err := rows.Scan(&dt.Description, &cents, &dt.Count); err != nil {
			return nil, err
		}
		dt.Total = fromCents(cents)
		totals = append(totals, &dt)
	}
	return totals, rows.Err()
}
