package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// AccountRepository implements domain.AccountRepository on SQLite.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(store *Store) *AccountRepository {
	return &AccountRepository{db: store.DB()}
}

const accountColumns = `id, name, institution, kind, color, created_at, updated_at, deleted_at`

func scanAccount(row interface{ Scan(...any) error }) (*domain.Account, error) {
	var (
		a         domain.Account
		createdAt string
		updatedAt string
		deletedAt sql.NullString
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Institution, &a.Kind, &a.Color, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}
	var err error
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if a.DeletedAt, err = fromNullTime(deletedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) Create(account *domain.Account, mainBalance *domain.Balance) (*domain.Account, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	row := tx.QueryRow(
		`INSERT INTO accounts (name, institution, kind, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING `+accountColumns,
		account.Name, account.Institution, string(account.Kind), account.Color, now, now,
	)
	created, err := scanAccount(row)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(
		`INSERT INTO balances (account_id, name, kind, current_amount_cents, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 1, ?, ?)`,
		created.ID, mainBalance.Name, string(domain.BalanceKindAccount), toCents(mainBalance.CurrentAmount), now, now,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *AccountRepository) GetByID(id int32) (*domain.Account, error) {
	row := r.db.QueryRow(
		`SELECT `+accountColumns+` FROM accounts WHERE id = ? AND deleted_at IS NULL`, id,
	)
	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

func (r *AccountRepository) List() ([]*domain.Account, error) {
	rows, err := r.db.Query(
		`SELECT ` + accountColumns + ` FROM accounts WHERE deleted_at IS NULL ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) Update(account *domain.Account) (*domain.Account, error) {
	row := r.db.QueryRow(
		`UPDATE accounts SET name = ?, institution = ?, kind = ?, color = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL
		 RETURNING `+accountColumns,
		account.Name, account.Institution, string(account.Kind), account.Color,
		formatTime(time.Now()), account.ID,
	)
	updated, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *AccountRepository) SoftDelete(id int32) error {
	res, err := r.db.Exec(
		`UPDATE accounts SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
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
		return domain.ErrAccountNotFound
	}
	return nil
}
