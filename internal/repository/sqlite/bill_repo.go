package sqlite

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/centavo-app/centavo-backend/internal/domain"
)

// BillRepository implements domain.BillRepository on SQLite.
type BillRepository struct {
	db *sql.DB
}

func NewBillRepository(store *Store) *BillRepository {
	return &BillRepository{db: store.DB()}
}

const billColumns = `id, credit_card_id, year, month, closing_date, due_date,
	total_amount_cents, paid_amount_cents, status, payment_transaction_id, created_at, updated_at`

func scanBill(row interface{ Scan(...any) error }) (*domain.Bill, error) {
	var (
		b           domain.Bill
		closingDate string
		dueDate     string
		totalCents  int64
		paidCents   int64
		paymentTxID sql.NullInt64
		createdAt   string
		updatedAt   string
	)
	err := row.Scan(&b.ID, &b.CreditCardID, &b.Year, &b.Month, &closingDate, &dueDate,
		&totalCents, &paidCents, &b.Status, &paymentTxID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if b.ClosingDate, err = parseDate(closingDate); err != nil {
		return nil, err
	}
	if b.DueDate, err = parseDate(dueDate); err != nil {
		return nil, err
	}
	b.TotalAmount = fromCents(totalCents)
	b.PaidAmount = fromCents(paidCents)
	b.PaymentTransactionID = fromNullInt32(paymentTxID)
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BillRepository) Create(bill *domain.Bill) (*domain.Bill, error) {
	now := formatTime(time.Now())
	row := r.db.QueryRow(
		`INSERT INTO bills (credit_card_id, year, month, closing_date, due_date,
			total_amount_cents, paid_amount_cents, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+billColumns,
		bill.CreditCardID, bill.Year, bill.Month,
		formatDate(bill.ClosingDate), formatDate(bill.DueDate),
		toCents(bill.TotalAmount), toCents(bill.PaidAmount), string(bill.Status), now, now,
	)
	created, err := scanBill(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrBillAlreadyExists
		}
		return nil, err
	}
	return created, nil
}

// isUniqueViolation matches the driver's constraint error text. modernc's
// driver does not expose a typed error for it.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *BillRepository) GetByID(id int32) (*domain.Bill, error) {
	row := r.db.QueryRow(`SELECT `+billColumns+` FROM bills WHERE id = ?`, id)
	bill, err := scanBill(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}
		return nil, err
	}
	return bill, nil
}

func (r *BillRepository) GetByCardMonth(creditCardID int32, year, month int) (*domain.Bill, error) {
	row := r.db.QueryRow(
		`SELECT `+billColumns+` FROM bills WHERE credit_card_id = ? AND year = ? AND month = ?`,
		creditCardID, year, month,
	)
	bill, err := scanBill(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}
		return nil, err
	}
	return bill, nil
}

func (r *BillRepository) ListByCard(creditCardID int32) ([]*domain.Bill, error) {
	rows, err := r.db.Query(
		`SELECT `+billColumns+` FROM bills WHERE credit_card_id = ? ORDER BY year DESC, month DESC`,
		creditCardID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBills(rows)
}

func (r *BillRepository) ListDueBetween(start, end time.Time) ([]*domain.Bill, error) {
	rows, err := r.db.Query(
		`SELECT `+billColumns+` FROM bills WHERE due_date >= ? AND due_date <= ? ORDER BY due_date`,
		formatDate(start), formatDate(end),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBills(rows)
}

func collectBills(rows *sql.Rows) ([]*domain.Bill, error) {
	var bills []*domain.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *BillRepository) Update(bill *domain.Bill) (*domain.Bill, error) {
	row := r.db.QueryRow(
		`UPDATE bills SET closing_date = ?, due_date = ?, total_amount_cents = ?,
			paid_amount_cents = ?, status = ?, payment_transaction_id = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+billColumns,
		formatDate(bill.ClosingDate), formatDate(bill.DueDate),
		toCents(bill.TotalAmount), toCents(bill.PaidAmount), string(bill.Status),
		toNullInt32(bill.PaymentTransactionID), formatTime(time.Now()), bill.ID,
	)
	updated, err := scanBill(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBillNotFound
		}
		return nil, err
	}
	return updated, nil
}
