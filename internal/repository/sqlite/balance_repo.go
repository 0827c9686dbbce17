package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// BalanceRepository implements domain.BalanceRepository on SQLite.
type BalanceRepository struct {
	db *sql.DB
}

func NewBalanceRepository(store *Store) *BalanceRepository {
	return &BalanceRepository{db: store.DB()}
}

const balanceColumns = `id, account_id, name, kind, current_amount_cents, goal_amount_cents, is_active, created_at, updated_at`

func scanBalance(row interface{ Scan(...any) error }) (*domain.Balance, error) {
	var (
		b          domain.Balance
		cents      int64
		goalCents  sql.NullInt64
		createdAt  string
		updatedAt  string
	)
	if err := row.Scan(&b.ID, &b.AccountID, &b.Name, &b.Kind, &cents, &goalCents, &b.IsActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	b.CurrentAmount = fromCents(cents)
	b.GoalAmount = fromNullCents(goalCents)
	var err error
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BalanceRepository) Create(balance *domain.Balance) (*domain.Balance, error) {
	now := formatTime(time.Now())
	row := r.db.QueryRow(
		`INSERT INTO balances (account_id, name, kind, current_amount_cents, goal_amount_cents, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 1, ?, ?)
		 RETURNING `+balanceColumns,
		balance.AccountID, balance.Name, string(balance.Kind),
		toCents(balance.CurrentAmount), toNullCents(balance.GoalAmount), now, now,
	)
	return scanBalance(row)
}

func (r *BalanceRepository) GetByID(id int32) (*domain.Balance, error) {
	row := r.db.QueryRow(`SELECT `+balanceColumns+` FROM balances WHERE id = ?`, id)
	balance, err := scanBalance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBalanceNotFound
		}
		return nil, err
	}
	return balance, nil
}

func (r *BalanceRepository) GetMainByAccount(accountID int32) (*domain.Balance, error) {
	row := r.db.QueryRow(
		`SELECT `+balanceColumns+` FROM balances WHERE account_id = ? AND kind = ?`,
		accountID, string(domain.BalanceKindAccount),
	)
	balance, err := scanBalance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBalanceNotFound
		}
		return nil, err
	}
	return balance, nil
}

func (r *BalanceRepository) ListByAccount(accountID int32, activeOnly bool) ([]*domain.Balance, error) {
	query := `SELECT ` + balanceColumns + ` FROM balances WHERE account_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY kind, name`

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []*domain.Balance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (r *BalanceRepository) Update(balance *domain.Balance) (*domain.Balance, error) {
	row := r.db.QueryRow(
		`UPDATE balances SET name = ?, current_amount_cents = ?, goal_amount_cents = ?, is_active = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+balanceColumns,
		balance.Name, toCents(balance.CurrentAmount), toNullCents(balance.GoalAmount),
		balance.IsActive, formatTime(time.Now()), balance.ID,
	)
	updated, err := scanBalance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBalanceNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *BalanceRepository) Deactivate(id int32) error {
	res, err := r.db.Exec(
		`UPDATE balances SET is_active = 0, updated_at = ? WHERE id = ? AND is_active = 1`,
		formatTime(time.Now()), id,
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
