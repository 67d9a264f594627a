// Package reconcile compares a bank account's cleared transactions against a
// statement balance.
package reconcile

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/stockledger/stockledger/internal/accounts"
	"github.com/stockledger/stockledger/internal/model"
	"github.com/stockledger/stockledger/internal/store"
)

// ErrNotBankAccount is returned when reconciling an account without IsBank.
var ErrNotBankAccount = errors.New("not a bank account")

// Result is the reconciliation summary for one account.
type Result struct {
	Account          model.Account
	Transactions     []model.Transaction // oldest first
	ClearedBalance   decimal.Decimal
	StatementBalance decimal.Decimal
	Difference       decimal.Decimal // statement - cleared
	Reconciled       bool
	ClearedCount     int
	UnclearedCount   int
}

// Engine reads and toggles cleared state in a Store.
type Engine struct {
	store *store.Store
	log   logrus.FieldLogger
}

// NewEngine creates an Engine. A nil logger discards log output.
func NewEngine(s *store.Store, log logrus.FieldLogger) *Engine {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Engine{store: s, log: log}
}

// BankAccounts lists the accounts that can be reconciled, in store order.
func (e *Engine) BankAccounts() []model.Account {
	return accounts.Banks(e.store.Accounts())
}

// Reconcile summarizes accountID against statementBalance. Reconciled is set
// only when the difference is exactly zero.
func (e *Engine) Reconcile(accountID string, statementBalance decimal.Decimal) (Result, error) {
	return Compute(e.store.Snapshot(), accountID, statementBalance)
}

// Compute is Reconcile over a snapshot.
func Compute(snap store.Snapshot, accountID string, statementBalance decimal.Decimal) (Result, error) {
	account, ok := snap.Account(accountID)
	if !ok {
		return Result{}, model.ReferenceNotFoundError{Kind: "account", ID: accountID}
	}
	if !account.IsBank {
		return Result{}, fmt.Errorf("account %s: %w", accountID, ErrNotBankAccount)
	}

	txns := snap.TransactionsFor(accountID)
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})

	cleared := ClearedBalance(txns)
	diff := statementBalance.Sub(cleared)
	res := Result{
		Account:          account,
		Transactions:     txns,
		ClearedBalance:   cleared,
		StatementBalance: statementBalance,
		Difference:       diff,
		Reconciled:       diff.IsZero(),
	}
	for _, t := range txns {
		if t.IsCleared {
			res.ClearedCount++
		} else {
			res.UnclearedCount++
		}
	}
	return res, nil
}

// ClearedBalance sums the signed amounts of cleared transactions.
func ClearedBalance(txns []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		if t.IsCleared {
			total = total.Add(t.SignedAmount())
		}
	}
	return total
}

// ToggleCleared flips the cleared flag of one transaction and returns it. Only
// transactions on bank accounts can be cleared. The account balance is not
// touched.
func (e *Engine) ToggleCleared(txnID string) (model.Transaction, error) {
	var updated model.Transaction
	err := e.store.Update(func(tx *store.Tx) error {
		t, ok := tx.Transaction(txnID)
		if !ok {
			return model.ReferenceNotFoundError{Kind: "transaction", ID: txnID}
		}
		acct, ok := tx.Account(t.AccountID)
		if !ok {
			return model.ReferenceNotFoundError{Kind: "account", ID: t.AccountID}
		}
		if !acct.IsBank {
			return fmt.Errorf("account %s: %w", acct.ID, ErrNotBankAccount)
		}
		t.IsCleared = !t.IsCleared
		tx.PutTransaction(t)
		updated = t
		return nil
	})
	if err != nil {
		return model.Transaction{}, err
	}

	e.log.WithFields(logrus.Fields{
		"transaction": txnID,
		"cleared":     updated.IsCleared,
	}).Debug("toggled cleared")
	return updated, nil
}
