package model

import "github.com/shopspring/decimal"

// AccountType classifies accounts for balance sign handling.
type AccountType string

const (
	AccountTypeAsset     AccountType = "Asset"
	AccountTypeLiability AccountType = "Liability"
)

// Account represents a row in accounts.csv.
type Account struct {
	ID      string
	Name    string
	Type    AccountType
	Balance decimal.Decimal // current snapshot, never recomputed
	IsBank  bool            // eligible for reconciliation; movements start uncleared
}

// IsAsset reports whether the account is an asset account.
func (a Account) IsAsset() bool {
	return a.Type == AccountTypeAsset
}
