// Package movement records sales and purchases: one request moves stock at a
// location, posts a transaction, and adjusts the paying account's balance in a
// single store update.
package movement

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/stockledger/stockledger/internal/id"
	"github.com/stockledger/stockledger/internal/model"
	"github.com/stockledger/stockledger/internal/store"
)

// Mode selects the direction of a movement.
type Mode string

const (
	ModeSale     Mode = "Sale"
	ModePurchase Mode = "Purchase"
)

// ParseMode accepts "sale" or "purchase" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "sale":
		return ModeSale, nil
	case "purchase":
		return ModePurchase, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Request describes one sale or purchase. A zero Date means now.
type Request struct {
	Mode      Mode           `json:"mode" validate:"required,oneof=Sale Purchase"`
	ItemID    string         `json:"itemId" validate:"required"`
	Location  model.Location `json:"location" validate:"required,location"`
	Quantity  int            `json:"quantity" validate:"gt=0"`
	AccountID string         `json:"accountId" validate:"required"`
	Date      time.Time      `json:"date"`
}

// Result holds the committed values.
type Result struct {
	Transaction model.Transaction
	Item        model.InventoryItem
	Account     model.Account
}

// Recorder commits movements to a Store.
type Recorder struct {
	store    *store.Store
	validate *validator.Validate
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewRecorder creates a Recorder. A nil logger discards log output.
func NewRecorder(s *store.Store, log logrus.FieldLogger) *Recorder {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Recorder{
		store:    s,
		validate: newValidator(),
		log:      log,
		now:      time.Now,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	err := v.RegisterValidation("location", func(fl validator.FieldLevel) bool {
		return model.Location(fl.Field().String()).Valid()
	})
	if err != nil {
		panic(fmt.Sprintf("registering location validation: %v", err))
	}
	return v
}

// Record validates req and commits it. On any error the store is unchanged.
func (r *Recorder) Record(req Request) (Result, error) {
	if err := r.check(req); err != nil {
		return Result{}, err
	}
	if req.Date.IsZero() {
		req.Date = r.now()
	}

	var result Result
	err := r.store.Update(func(tx *store.Tx) error {
		item, ok := tx.Item(req.ItemID)
		if !ok {
			return model.ReferenceNotFoundError{Kind: "item", ID: req.ItemID}
		}
		account, ok := tx.Account(req.AccountID)
		if !ok {
			return model.ReferenceNotFoundError{Kind: "account", ID: req.AccountID}
		}

		available := item.Quantity(req.Location)
		isSale := req.Mode == ModeSale
		if isSale && req.Quantity > available {
			return model.InsufficientStockError{
				ItemID:    item.ID,
				Location:  req.Location,
				Available: available,
				Requested: req.Quantity,
			}
		}

		price := item.CostPrice
		delta := req.Quantity
		if isSale {
			price = item.SalePrice
			delta = -req.Quantity
		}
		total := price.Mul(decimal.NewFromInt(int64(req.Quantity)))

		item, err := item.WithQuantity(req.Location, available+delta)
		if err != nil {
			return err
		}
		account.Balance = account.Balance.Add(balanceDelta(account, isSale, total))

		txn := newTransaction(req, item, account, total)
		if err := tx.AddTransaction(txn); err != nil {
			return err
		}
		tx.PutItem(item)
		tx.PutAccount(account)

		result = Result{Transaction: txn, Item: item, Account: account}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	r.log.WithFields(logrus.Fields{
		"mode":     req.Mode,
		"item":     req.ItemID,
		"location": req.Location,
		"quantity": req.Quantity,
		"account":  req.AccountID,
		"amount":   result.Transaction.Amount.String(),
	}).Info("movement recorded")
	return result, nil
}

// RecordAs records req on behalf of user. Location users can only move stock
// at their own location.
func (r *Recorder) RecordAs(user model.User, req Request) (Result, error) {
	if !user.IsAdmin() && req.Location != user.Location {
		return Result{}, model.ValidationError{
			Field:  "location",
			Reason: fmt.Sprintf("user %s may only record movements at %s", user.Username, user.Location.Label()),
		}
	}
	return r.Record(req)
}

func (r *Recorder) check(req Request) error {
	err := r.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validating movement: %w", err)
	}
	fe := verrs[0]
	return model.ValidationError{Field: fe.Field(), Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	case "location":
		return fmt.Sprintf("unknown location %q", fe.Value())
	default:
		return "failed " + fe.Tag()
	}
}

// balanceDelta applies the sign rules: a sale raises an asset and lowers a
// liability; a purchase does the opposite.
func balanceDelta(account model.Account, isSale bool, total decimal.Decimal) decimal.Decimal {
	if isSale == account.IsAsset() {
		return total
	}
	return total.Neg()
}

func newTransaction(req Request, item model.InventoryItem, account model.Account, total decimal.Decimal) model.Transaction {
	txnType := model.TransactionTypeExpense
	category := model.CategoryPurchases
	if req.Mode == ModeSale {
		txnType = model.TransactionTypeIncome
		category = model.CategorySales
	}
	return model.Transaction{
		ID:              id.NewTransaction(),
		Date:            req.Date,
		Description:     fmt.Sprintf("%s of %d x %s (%s)", req.Mode, req.Quantity, item.Name, item.Size),
		Amount:          total,
		Type:            txnType,
		Category:        category,
		AccountID:       account.ID,
		IsCleared:       !account.IsBank,
		InventoryItemID: item.ID,
		Location:        req.Location,
	}
}
