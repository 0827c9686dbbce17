package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// CreditCardRepository implements domain.CreditCardRepository on SQLite.
type CreditCardRepository struct {
	db *sql.DB
}

func NewCreditCardRepository(store *Store) *CreditCardRepository {
	return &CreditCardRepository{db: store.DB()}
}

const creditCardColumns = `id, name, credit_limit_cents, closing_day, due_day, color, auto_generate_bills, created_at, updated_at, deleted_at`

func scanCreditCard(row interface{ Scan(...any) error }) (*domain.CreditCard, error) {
	var (
		c          domain.CreditCard
		limitCents int64
		createdAt  string
		updatedAt  string
		deletedAt  sql.NullString
	)
	err := row.Scan(&c.ID, &c.Name, &limitCents, &c.ClosingDay, &c.DueDay, &c.Color,
		&c.AutoGenerateBills, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}
	c.CreditLimit = fromCents(limitCents)
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if c.DeletedAt, err = fromNullTime(deletedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CreditCardRepository) Create(card *domain.CreditCard) (*domain.CreditCard, error) {
	now := formatTime(time.Now())
	row := r.db.QueryRow(
		`INSERT INTO credit_cards (name, credit_limit_cents, closing_day, due_day, color, auto_generate_bills, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+creditCardColumns,
		card.Name, toCents(card.CreditLimit), card.ClosingDay, card.DueDay,
		card.Color, card.AutoGenerateBills, now, now,
	)
	return scanCreditCard(row)
}

func (r *CreditCardRepository) GetByID(id int32) (*domain.CreditCard, error) {
	row := r.db.QueryRow(
		`SELECT `+creditCardColumns+` FROM credit_cards WHERE id = ? AND deleted_at IS NULL`, id,
	)
	card, err := scanCreditCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCreditCardNotFound
		}
		return nil, err
	}
	return card, nil
}

func (r *CreditCardRepository) List() ([]*domain.CreditCard, error) {
	return r.list(`SELECT ` + creditCardColumns + ` FROM credit_cards WHERE deleted_at IS NULL ORDER BY name`)
}

func (r *CreditCardRepository) ListAutoGenerate() ([]*domain.CreditCard, error) {
	return r.list(`SELECT ` + creditCardColumns + ` FROM credit_cards WHERE deleted_at IS NULL AND auto_generate_bills = 1 ORDER BY name`)
}

func (r *CreditCardRepository) list(query string) ([]*domain.CreditCard, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*domain.CreditCard
	for rows.Next() {
		c, err := scanCreditCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func (r *CreditCardRepository) Update(card *domain.CreditCard) (*domain.CreditCard, error) {
	row := r.db.QueryRow(
		`UPDATE credit_cards SET name = ?, credit_limit_cents = ?, closing_day = ?, due_day = ?, color = ?, auto_generate_bills = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL
		 RETURNING `+creditCardColumns,
		card.Name, toCents(card.CreditLimit), card.ClosingDay, card.DueDay,
		card.Color, card.AutoGenerateBills, formatTime(time.Now()), card.ID,
	)
	updated, err := scanCreditCard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCreditCardNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes the card row; bills and their transactions go with it via
// ON DELETE CASCADE.
func (r *CreditCardRepository) Delete(id int32) error {
	res, err := r.db.Exec(`DELETE FROM credit_cards WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrCreditCardNotFound
	}
	return nil
}
