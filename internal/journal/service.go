package journal

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockledger/stockledger/internal/id"
	"github.com/stockledger/stockledger/internal/model"
)

// Ledger is the part of the entity store the journal needs.
type Ledger interface {
	AccountChecker
	Transaction(id string) (model.Transaction, bool)
	Transactions() []model.Transaction
	AddTransaction(t model.Transaction) error
	PutTransaction(t model.Transaction)
	DeleteTransaction(id string) error
}

// Service handles manually entered transactions. Manual entries, edits and
// deletions never touch account balances; only sale/purchase movements do.
type Service struct {
	ledger Ledger
}

// NewService creates a journal Service.
func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger}
}

// EntryParams holds the fields of the manual transaction form.
type EntryParams struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        model.TransactionType
	Category    string
	AccountID   string
}

// Add validates and records a new manual transaction. New entries start
// uncleared.
func (s *Service) Add(params EntryParams) (model.Transaction, error) {
	t := model.Transaction{
		ID:          id.NewTransaction(),
		Date:        params.Date,
		Description: params.Description,
		Amount:      params.Amount,
		Type:        params.Type,
		Category:    params.Category,
		AccountID:   params.AccountID,
	}
	if err := s.validate(t); err != nil {
		return model.Transaction{}, err
	}
	if err := s.ledger.AddTransaction(t); err != nil {
		return model.Transaction{}, fmt.Errorf("adding transaction: %w", err)
	}
	return t, nil
}

// Edit replaces the form fields of an existing transaction. The cleared flag
// and any inventory link are kept from the stored transaction.
func (s *Service) Edit(txnID string, params EntryParams) (model.Transaction, error) {
	existing, ok := s.ledger.Transaction(txnID)
	if !ok {
		return model.Transaction{}, model.ReferenceNotFoundError{Kind: "transaction", ID: txnID}
	}

	t := existing
	t.Date = params.Date
	t.Description = params.Description
	t.Amount = params.Amount
	t.Type = params.Type
	t.Category = params.Category
	t.AccountID = params.AccountID
	if err := s.validate(t); err != nil {
		return model.Transaction{}, err
	}
	s.ledger.PutTransaction(t)
	return t, nil
}

// Delete removes a transaction without adjusting its account's balance.
func (s *Service) Delete(txnID string) error {
	return s.ledger.DeleteTransaction(txnID)
}

// List returns all transactions, most recent first. Ties keep store order.
func (s *Service) List() []model.Transaction {
	txns := s.ledger.Transactions()
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date)
	})
	return txns
}

func (s *Service) validate(t model.Transaction) error {
	verrs := ValidateEntry(t, s.ledger)
	if len(verrs) == 0 {
		return nil
	}
	if len(verrs) == 1 {
		return verrs[0]
	}
	msgs := make([]string, len(verrs))
	for i, ve := range verrs {
		msgs[i] = ve.Error()
	}
	return fmt.Errorf("validation failed: %s: %w", strings.Join(msgs, "; "), verrs[0])
}
