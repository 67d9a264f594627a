package journal

import (
	"github.com/stockledger/stockledger/internal/csvrow"
	"github.com/stockledger/stockledger/internal/model"
)

// AccountChecker tests whether an account id exists.
type AccountChecker interface {
	HasAccount(id string) bool
}

// ValidateEntry checks a manually entered or edited transaction. The reserved
// Sales/Purchases categories are only allowed on transactions that carry an
// inventory link, since only sale/purchase movements produce them.
func ValidateEntry(t model.Transaction, accounts AccountChecker) []model.ValidationError {
	var errs []model.ValidationError

	if t.Description == "" {
		errs = append(errs, model.ValidationError{Field: colDesc, Reason: "required"})
	} else if err := csvrow.CheckValue(t.Description); err != nil {
		errs = append(errs, model.ValidationError{Field: colDesc, Reason: err.Error()})
	}
	if t.Amount.IsNegative() {
		errs = append(errs, model.ValidationError{Field: colAmount, Reason: "must not be negative"})
	}
	if t.Date.IsZero() {
		errs = append(errs, model.ValidationError{Field: colDate, Reason: "required"})
	}
	if t.Type != model.TransactionTypeIncome && t.Type != model.TransactionTypeExpense {
		errs = append(errs, model.ValidationError{Field: colType, Reason: "must be Income or Expense"})
	}
	if !accounts.HasAccount(t.AccountID) {
		errs = append(errs, model.ValidationError{Field: colAcctID, Reason: "unknown account " + t.AccountID})
	}

	linked := t.InventoryItemID != ""
	if linked != (t.Location != "") {
		errs = append(errs, model.ValidationError{Field: colLocation, Reason: "inventoryItemId and location must be set together"})
	}
	if t.Location != "" && !t.Location.Valid() {
		errs = append(errs, model.ValidationError{Field: colLocation, Reason: "unknown location " + string(t.Location)})
	}
	if err := csvrow.CheckValue(t.Category); err != nil {
		errs = append(errs, model.ValidationError{Field: colCategory, Reason: err.Error()})
	}
	if !linked && (t.Category == model.CategorySales || t.Category == model.CategoryPurchases) {
		errs = append(errs, model.ValidationError{Field: colCategory, Reason: t.Category + " is reserved for sale/purchase movements"})
	}

	return errs
}
