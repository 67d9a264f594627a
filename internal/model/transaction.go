package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a money movement.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "Income"
	TransactionTypeExpense TransactionType = "Expense"
)

// Reserved categories, only produced by sale/purchase movements.
const (
	CategorySales     = "Sales"
	CategoryPurchases = "Purchases"
)

// Transaction represents a row in transactions.csv.
type Transaction struct {
	ID              string
	Date            time.Time
	Description     string
	Amount          decimal.Decimal // non-negative; direction comes from Type
	Type            TransactionType
	Category        string
	AccountID       string
	IsCleared       bool
	InventoryItemID string   // set only for sale/purchase transactions
	Location        Location // set together with InventoryItemID
}

// IsIncome reports whether the transaction brings money in.
func (t Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

// SignedAmount returns +Amount for income and -Amount for expenses.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.IsIncome() {
		return t.Amount
	}
	return t.Amount.Neg()
}

// HasInventoryLink reports whether the transaction originated from a movement.
func (t Transaction) HasInventoryLink() bool {
	return t.InventoryItemID != ""
}
