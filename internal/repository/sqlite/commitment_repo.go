package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// CommitmentRepository implements domain.CommitmentRepository on SQLite.
type CommitmentRepository struct {
	db *sql.DB
}

func NewCommitmentRepository(store *Store) *CommitmentRepository {
	return &CommitmentRepository{db: store.DB()}
}

const commitmentColumns = `id, name, amount_cents, frequency, due_day, weekday,
	credit_card_id, is_paid, is_active, reminder_days, created_at, updated_at`

func scanCommitment(row interface{ Scan(...any) error }) (*domain.Commitment, error) {
	var (
		c         domain.Commitment
		cents     int64
		weekday   sql.NullInt64
		cardID    sql.NullInt64
		createdAt string
		updatedAt string
	)
	err := row.Scan(&c.ID, &c.Name, &cents, &c.Frequency, &c.DueDay, &weekday,
		&cardID, &c.IsPaid, &c.IsActive, &c.ReminderDays, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	c.Amount = fromCents(cents)
	if weekday.Valid {
		wd := time.Weekday(weekday.Int64)
		c.Weekday = &wd
	}
	c.CreditCardID = fromNullInt32(cardID)
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func weekdayToNull(w *time.Weekday) sql.NullInt64 {
	if w == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*w), Valid: true}
}

func (r *CommitmentRepository) Create(c *domain.Commitment) (*domain.Commitment, error) {
	now := formatTime(time.Now())
	row := r.db.QueryRow(
		`INSERT INTO commitments (name, amount_cents, frequency, due_day, weekday,
			credit_card_id, is_paid, is_active, reminder_days, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)
		 RETURNING `+commitmentColumns,
		c.Name, toCents(c.Amount), string(c.Frequency), c.DueDay, weekdayToNull(c.Weekday),
		toNullInt32(c.CreditCardID), c.IsPaid, c.ReminderDays, now, now,
	)
	return scanCommitment(row)
}

func (r *CommitmentRepository) GetByID(id int32) (*domain.Commitment, error) {
	row := r.db.QueryRow(`SELECT `+commitmentColumns+` FROM commitments WHERE id = ?`, id)
	c, err := scanCommitment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommitmentNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CommitmentRepository) List(activeOnly bool) ([]*domain.Commitment, error) {
	query := `SELECT ` + commitmentColumns + ` FROM commitments`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commitments []*domain.Commitment
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, err
		}
		commitments = append(commitments, c)
	}
	return commitments, rows.Err()
}

func (r *CommitmentRepository) Update(c *domain.Commitment) (*domain.Commitment, error) {
	row := r.db.QueryRow(
		`UPDATE commitments SET name = ?, amount_cents = ?, frequency = ?, due_day = ?,
			weekday = ?, credit_card_id = ?, is_paid = ?, is_active = ?, reminder_days = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+commitmentColumns,
		c.Name, toCents(c.Amount), string(c.Frequency), c.DueDay, weekdayToNull(c.Weekday),
		toNullInt32(c.CreditCardID), c.IsPaid, c.IsActive, c.ReminderDays,
		formatTime(time.Now()), c.ID,
	)
	updated, err := scanCommitment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommitmentNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *CommitmentRepository) Deactivate(id int32) error {
	res, err := r.db.Exec(
		`UPDATE commitments SET is_active = 0, updated_at = ? WHERE id = ? AND is_active = 1`,
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
		return domain.ErrCommitmentNotFound
	}
	return nil
}
