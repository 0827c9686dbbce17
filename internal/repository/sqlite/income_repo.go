package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// IncomeRepository implements domain.IncomeRepository on SQLite.
type IncomeRepository struct {
	db *sql.DB
}

func NewIncomeRepository(store *Store) *IncomeRepository {
	return &IncomeRepository{db: store.DB()}
}

const incomeColumns = `id, description, amount_cents, category, type, receive_day, is_received, is_active, created_at, updated_at`

func scanIncome(row interface{ Scan(...any) error }) (*domain.Income, error) {
	var (
		i         domain.Income
		cents     int64
		createdAt string
		updatedAt string
	)
	err := row.Scan(&i.ID, &i.Description, &cents, &i.Category, &i.Type,
		&i.ReceiveDay, &i.IsReceived, &i.IsActive, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	i.Amount = fromCents(cents)
	if i.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if i.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *IncomeRepository) Create(income *domain.Income) (*domain.Income, error) {
	now := formatTime(time.Now())
	row := r.db.QueryRow(
		`INSERT INTO incomes (description, amount_cents, category, type, receive_day, is_received, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)
		 RETURNING `+incomeColumns,
		income.Description, toCents(income.Amount), string(income.Category),
		string(income.Type), income.ReceiveDay, income.IsReceived, now, now,
	)
	return scanIncome(row)
}

func (r *IncomeRepository) GetByID(id int32) (*domain.Income, error) {
	row := r.db.QueryRow(`SELECT `+incomeColumns+` FROM incomes WHERE id = ?`, id)
	income, err := scanIncome(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIncomeNotFound
		}
		return nil, err
	}
	return income, nil
}

func (r *IncomeRepository) List(activeOnly bool) ([]*domain.Income, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY description`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incomes []*domain.Income
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		incomes = append(incomes, i)
	}
	return incomes, rows.Err()
}

func (r *IncomeRepository) Update(income *domain.Income) (*domain.Income, error) {
	row := r.db.QueryRow(
		`UPDATE incomes SET description = ?, amount_cents = ?, category = ?, type = ?,
			receive_day = ?, is_received = ?, is_active = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+incomeColumns,
		income.Description, toCents(income.Amount), string(income.Category),
		string(income.Type), income.ReceiveDay, income.IsReceived, income.IsActive,
		formatTime(time.Now()), income.ID,
	)
	updated, err := scanIncome(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrIncomeNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *IncomeRepository) Deactivate(id int32) error {
	res, err := r.db.Exec(
		`UPDATE incomes SET is_active = 0, updated_at = ? WHERE id = ? AND is_active = 1`,
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
		return domain.ErrIncomeNotFound
	}
	return nil
}
