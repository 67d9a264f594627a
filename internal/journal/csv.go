package journal

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockledger/stockledger/internal/csvrow"
	"github.com/stockledger/stockledger/internal/id"
	"github.com/stockledger/stockledger/internal/model"
)

// DateFormat is the export layout: UTC ISO-8601 with milliseconds.
const DateFormat = "2006-01-02T15:04:05.000Z"

const (
	dayFormat    = "2006-01-02"
	colID        = "id"
	colDate      = "date"
	colDesc      = "description"
	colAmount    = "amount"
	colType      = "type"
	colCategory  = "category"
	colAcctID    = "accountId"
	colIsCleared = "isCleared"
	colItemID    = "inventoryItemId"
	colLocation  = "location"
)

// Header is the column list of transactions.csv.
var Header = []string{colID, colDate, colDesc, colAmount, colType, colCategory, colAcctID, colIsCleared, colItemID, colLocation}

// ReadTransactions reads transactions.csv. Invalid rows are returned as
// RowErrors and do not abort the read.
func ReadTransactions(r io.Reader) ([]model.Transaction, []csvrow.RowError, error) {
	table, err := csvrow.Parse(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	var txns []model.Transaction
	var rejected []csvrow.RowError
	for _, row := range table.Rows {
		t, err := UnmarshalTransaction(row)
		if err != nil {
			rejected = append(rejected, csvrow.RowError{Line: row.Line, Err: err})
			continue
		}
		txns = append(txns, t)
	}
	return txns, rejected, nil
}

// WriteTransactions writes transactions.csv.
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	rows := make([][]string, len(txns))
	for i, t := range txns {
		rows[i] = MarshalTransaction(t)
	}
	if err := csvrow.Write(w, Header, rows); err != nil {
		return fmt.Errorf("writing transactions: %w", err)
	}
	return nil
}

// MarshalTransaction converts a Transaction to a CSV row. Absent optional
// fields become empty cells.
func MarshalTransaction(t model.Transaction) []string {
	return []string{
		t.ID,
		t.Date.UTC().Format(DateFormat),
		t.Description,
		t.Amount.String(),
		string(t.Type),
		t.Category,
		t.AccountID,
		fmt.Sprint(t.IsCleared),
		t.InventoryItemID,
		string(t.Location),
	}
}

// UnmarshalTransaction converts a CSV row to a Transaction. Any type other
// than "Income" is read as an expense.
func UnmarshalTransaction(row csvrow.Row) (model.Transaction, error) {
	date, err := ParseDate(row.Get(colDate))
	if err != nil {
		return model.Transaction{}, model.ValidationError{Field: colDate, Reason: err.Error()}
	}

	desc := row.Get(colDesc)
	if desc == "" {
		return model.Transaction{}, model.ValidationError{Field: colDesc, Reason: "required"}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(row.Get(colAmount)))
	if err != nil {
		return model.Transaction{}, model.ValidationError{Field: colAmount, Reason: fmt.Sprintf("not a number: %q", row.Get(colAmount))}
	}
	if amount.IsNegative() {
		return model.Transaction{}, model.ValidationError{Field: colAmount, Reason: "must not be negative"}
	}

	acctID := row.Get(colAcctID)
	if acctID == "" {
		return model.Transaction{}, model.ValidationError{Field: colAcctID, Reason: "required"}
	}

	var loc model.Location
	if raw := row.Get(colLocation); raw != "" {
		loc, err = model.ParseLocation(raw)
		if err != nil {
			return model.Transaction{}, model.ValidationError{Field: colLocation, Reason: err.Error()}
		}
	}

	txnID := row.Get(colID)
	if txnID == "" {
		txnID = id.NewImported()
	}

	txnType := model.TransactionTypeExpense
	if row.Get(colType) == string(model.TransactionTypeIncome) {
		txnType = model.TransactionTypeIncome
	}

	return model.Transaction{
		ID:              txnID,
		Date:            date,
		Description:     desc,
		Amount:          amount,
		Type:            txnType,
		Category:        row.Get(colCategory),
		AccountID:       acctID,
		IsCleared:       row.Get(colIsCleared) == "true",
		InventoryItemID: row.Get(colItemID),
		Location:        loc,
	}, nil
}

// ParseDate accepts the export layout, RFC 3339, or a bare YYYY-MM-DD (read
// as UTC midnight).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateFormat, time.RFC3339Nano, dayFormat} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ParseDay reads a date typed by a user: a bare YYYY-MM-DD is midnight in
// loc, and full timestamps are converted to loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(dayFormat, s, loc); err == nil {
		return t, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	return t.In(loc), nil
}
