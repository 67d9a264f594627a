package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockledger/stockledger/internal/model"
)

// DefaultTransactions returns the sample transactions written by
// `init --seed`, dated relative to now.
func DefaultTransactions(now time.Time) []model.Transaction {
	day := func(n int) time.Time {
		return now.UTC().AddDate(0, 0, -n)
	}
	return []model.Transaction{
		{ID: "txn1", Date: day(2), Description: "Client Payment A", Amount: decimal.NewFromInt(5000), Type: model.TransactionTypeIncome, Category: "Revenue", AccountID: "acc1", IsCleared: true},
		{ID: "txn2", Date: day(5), Description: "Office Supplies", Amount: decimal.NewFromInt(150), Type: model.TransactionTypeExpense, Category: "Expense", AccountID: "acc3", IsCleared: true},
		{ID: "txn3", Date: day(7), Description: "Software Subscription", Amount: decimal.NewFromInt(45), Type: model.TransactionTypeExpense, Category: "Software", AccountID: "acc3", IsCleared: true},
		{ID: "txn4", Date: day(10), Description: "Client Payment B", Amount: decimal.NewFromInt(7500), Type: model.TransactionTypeIncome, Category: "Income", AccountID: "acc1"},
		{ID: "txn5", Date: day(12), Description: "Rent", Amount: decimal.NewFromInt(2000), Type: model.TransactionTypeExpense, Category: "Expense", AccountID: "acc1"},
		{ID: "txn6", Date: day(15), Description: "Utility Bill", Amount: decimal.NewFromInt(250), Type: model.TransactionTypeExpense, Category: "Utilities", AccountID: "acc1", IsCleared: true},
	}
}
