package service

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/centavo-app/centavo-backend/internal/domain"
	"github.com/centavo-app/centavo-backend/internal/websocket"
)

// StatementService parses bank statement files and imports selected rows as
// ordinary transactions.
type StatementService struct {
	transactionRepo domain.TransactionRepository
	balanceRepo     domain.BalanceRepository
	eventPublisher  websocket.EventPublisher
}

// NewStatementService creates a new StatementService
func NewStatementService(transactionRepo domain.TransactionRepository, balanceRepo domain.BalanceRepository) *StatementService {
	return &StatementService{transactionRepo: transactionRepo, balanceRepo: balanceRepo}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *StatementService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *StatementService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// ParseStatement parses a statement file into rows, dispatching on the file
// extension. CSV and OFX (1.x SGML and 2.x XML) are supported.
func (s *StatementService) ParseStatement(filename string, r io.Reader) ([]*domain.StatementRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(r)
	case ".ofx":
		return parseOFX(r)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedStatementFormat, filepath.Ext(filename))
	}
}

var csvDateLayouts = []string{"2006-01-02", "02/01/2006"}

func parseCSVDate(s string) (time.Time, error) {
	for _, layout := range csvDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseCSVAmount(s string) (decimal.Decimal, error) {
	// Comma decimal separators show up in exports from pt-BR locales.
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}

// parseCSV reads date,description,amount rows. A header line is tolerated
// and skipped when its first field does not parse as a date.
func parseCSV(r io.Reader) ([]*domain.StatementRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []*domain.StatementRow
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line++
		if len(record) < 3 {
			return nil, fmt.Errorf("csv line %d: expected 3 fields, got %d", line, len(record))
		}

		date, err := parseCSVDate(strings.TrimSpace(record[0]))
		if err != nil {
			if line == 1 {
				// Header row.
				continue
			}
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}

		amount, err := parseCSVAmount(record[2])
		if err != nil {
			return nil, fmt.Errorf("csv line %d: invalid amount %q", line, record[2])
		}

		rows = append(rows, &domain.StatementRow{
			Date:        date,
			Description: strings.TrimSpace(record[1]),
			Amount:      amount,
		})
	}
	return rows, nil
}

var ofxDateLayouts = []string{"20060102150405", "20060102"}

func parseOFXDate(s string) (time.Time, error) {
	// Timestamps may carry a timezone suffix like [-3:BRT]; the date part is
	// what matters for a statement row.
	if idx := strings.IndexAny(s, "[."); idx >= 0 {
		s = s[:idx]
	}
	for _, layout := range ofxDateLayouts {
		if len(s) >= len(layout) {
			if t, err := time.Parse(layout, s[:len(layout)]); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized OFX date %q", s)
}

// parseOFX handles both OFX 2.x (plain XML) and 1.x (SGML with unclosed leaf
// tags, which gets normalized into XML first).
func parseOFX(r io.Reader) ([]*domain.StatementRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ofx: %w", err)
	}

	body := string(data)
	if !strings.Contains(body, "<?xml") {
		body = normalizeSGML(body)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(body); err != nil {
		return nil, fmt.Errorf("parse ofx: %w", err)
	}

	transactions := doc.FindElements("//STMTTRN")
	if len(transactions) == 0 {
		transactions = doc.FindElements("//CCSTMTTRN")
	}

	var rows []*domain.StatementRow
	for _, el := range transactions {
		row, err := ofxRow(el)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func ofxRow(el *etree.Element) (*domain.StatementRow, error) {
	dateEl := el.FindElement("DTPOSTED")
	amountEl := el.FindElement("TRNAMT")
	if dateEl == nil || amountEl == nil {
		return nil, fmt.Errorf("ofx transaction missing DTPOSTED or TRNAMT")
	}

	date, err := parseOFXDate(strings.TrimSpace(dateEl.Text()))
	if err != nil {
		return nil, err
	}
	amount, err := parseCSVAmount(amountEl.Text())
	if err != nil {
		return nil, fmt.Errorf("ofx transaction: invalid amount %q", amountEl.Text())
	}

	description := ""
	if memoEl := el.FindElement("MEMO"); memoEl != nil {
		description = strings.TrimSpace(memoEl.Text())
	}
	if description == "" {
		if nameEl := el.FindElement("NAME"); nameEl != nil {
			description = strings.TrimSpace(nameEl.Text())
		}
	}

	return &domain.StatementRow{
		Date:        date,
		Description: description,
		Amount:      amount,
	}, nil
}

// normalizeSGML turns OFX 1.x into well-formed XML: the colon-delimited
// header block is dropped and unclosed leaf tags like <TRNAMT>-12.50 get a
// closing tag appended.
func normalizeSGML(body string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(body))
	inBody := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !inBody {
			if strings.HasPrefix(line, "<OFX>") {
				inBody = true
			} else {
				continue
			}
		}
		b.WriteString(closeLeafTag(line))
		b.WriteString("\n")
	}
	return b.String()
}

func closeLeafTag(line string) string {
	if !strings.HasPrefix(line, "<") || strings.HasPrefix(line, "</") {
		return line
	}
	end := strings.Index(line, ">")
	if end < 0 {
		return line
	}
	tag := line[1:end]
	value := line[end+1:]
	if value == "" || strings.HasPrefix(value, "<") {
		// Container tag, already fine.
		return line
	}
	if strings.Contains(value, "</") {
		return line
	}
	return fmt.Sprintf("<%s>%s</%s>", tag, strings.TrimSpace(value), tag)
}

// ImportResult reports what an import created
type ImportResult struct {
	Imported     int                   `json:"imported"`
	TotalAmount  decimal.Decimal       `json:"totalAmount"`
	Transactions []*domain.Transaction `json:"transactions"`
}

// ImportStatement turns the selected rows into completed transactions on the
// given balance. Positive amounts become income, negative expense.
func (s *StatementService) ImportStatement(balanceID int32, category domain.Category, rows []*domain.StatementRow) (*ImportResult, error) {
	if len(rows) == 0 {
		return nil, domain.ErrEmptyImport
	}
	if !category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}
	if _, err := s.balanceRepo.GetByID(balanceID); err != nil {
		return nil, err
	}

	result := &ImportResult{TotalAmount: decimal.Zero}
	batch := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		if row.Amount.IsZero() {
			continue
		}

		txType := domain.TransactionTypeIncome
		amount := row.Amount
		if amount.IsNegative() {
			txType = domain.TransactionTypeExpense
			amount = amount.Neg()
		}

		description := row.Description
		batch = append(batch, &domain.Transaction{
			Amount:          amount,
			Type:            txType,
			Status:          domain.TransactionStatusCompleted,
			Category:        category,
			TransactionDate: row.Date,
			BalanceID:       &balanceID,
			Description:     &description,
		})
		result.TotalAmount = result.TotalAmount.Add(row.Amount)
	}

	// One repository call so a failure mid-batch imports nothing.
	if len(batch) > 0 {
		created, err := s.transactionRepo.CreateBatch(batch)
		if err != nil {
			return nil, err
		}
		result.Imported = len(created)
		result.Transactions = created
	}

	s.publishEvent(websocket.StatementImported(result))
	return result, nil
}
