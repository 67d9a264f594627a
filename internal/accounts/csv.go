package accounts

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockledger/stockledger/internal/csvrow"
	"github.com/stockledger/stockledger/internal/id"
	"github.com/stockledger/stockledger/internal/model"
)

const (
	colID      = "id"
	colName    = "name"
	colType    = "type"
	colBalance = "balance"
	colIsBank  = "isBank"
)

// Header is the column list of accounts.csv.
var Header = []string{colID, colName, colType, colBalance, colIsBank}

// ReadAccounts reads accounts.csv. Invalid rows are returned as RowErrors and
// do not abort the read.
func ReadAccounts(r io.Reader) ([]model.Account, []csvrow.RowError, error) {
	table, err := csvrow.Parse(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	var accounts []model.Account
	var rejected []csvrow.RowError
	for _, row := range table.Rows {
		acct, err := UnmarshalAccount(row)
		if err != nil {
			rejected = append(rejected, csvrow.RowError{Line: row.Line, Err: err})
			continue
		}
		accounts = append(accounts, acct)
	}
	return accounts, rejected, nil
}

// WriteAccounts writes accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	rows := make([][]string, len(accounts))
	for i, acct := range accounts {
		rows[i] = MarshalAccount(acct)
	}
	if err := csvrow.Write(w, Header, rows); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	return []string{
		acct.ID,
		acct.Name,
		string(acct.Type),
		acct.Balance.String(),
		fmt.Sprint(acct.IsBank),
	}
}

// UnmarshalAccount converts a CSV row to an Account. Any type other than
// "Asset" is read as a liability.
func UnmarshalAccount(row csvrow.Row) (model.Account, error) {
	name := row.Get(colName)
	if name == "" {
		return model.Account{}, model.ValidationError{Field: colName, Reason: "required"}
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(row.Get(colBalance)))
	if err != nil {
		return model.Account{}, model.ValidationError{Field: colBalance, Reason: fmt.Sprintf("not a number: %q", row.Get(colBalance))}
	}

	acctID := row.Get(colID)
	if acctID == "" {
		acctID = id.NewImported()
	}

	acctType := model.AccountTypeLiability
	if row.Get(colType) == string(model.AccountTypeAsset) {
		acctType = model.AccountTypeAsset
	}

	return model.Account{
		ID:      acctID,
		Name:    name,
		Type:    acctType,
		Balance: balance,
		IsBank:  row.Get(colIsBank) == "true",
	}, nil
}
