package store

import (
	"fmt"

	"github.com/stockledger/stockledger/internal/model"
)

// Tx stages writes for Update. Reads see staged values first.
type Tx struct {
	s *Store

	accounts *collection[model.Account]
	items    *collection[model.InventoryItem]
	txns     *collection[model.Transaction]
}

// Update runs fn against a staging Tx while holding the write lock. If fn
// returns nil every staged write is applied; otherwise nothing is. No reader
// can observe a partially applied Update.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		s:        s,
		accounts: newCollection[model.Account](),
		items:    newCollection[model.InventoryItem](),
		txns:     newCollection[model.Transaction](),
	}
	if err := fn(tx); err != nil {
		return err
	}

	for _, a := range tx.accounts.all() {
		s.accounts.put(a.ID, a)
	}
	for _, i := range tx.items.all() {
		s.items.put(i.ID, i)
	}
	for _, t := range tx.txns.all() {
		s.txns.put(t.ID, t)
	}
	return nil
}

// Account returns the staged or committed account.
func (tx *Tx) Account(id string) (model.Account, bool) {
	if a, ok := tx.accounts.get(id); ok {
		return a, true
	}
	return tx.s.accounts.get(id)
}

// Item returns the staged or committed item.
func (tx *Tx) Item(id string) (model.InventoryItem, bool) {
	if i, ok := tx.items.get(id); ok {
		return i, true
	}
	return tx.s.items.get(id)
}

// Transaction returns the staged or committed transaction.
func (tx *Tx) Transaction(id string) (model.Transaction, bool) {
	if t, ok := tx.txns.get(id); ok {
		return t, true
	}
	return tx.s.txns.get(id)
}

// PutAccount stages an account write.
func (tx *Tx) PutAccount(a model.Account) {
	tx.accounts.put(a.ID, a)
}

// PutItem stages an item write.
func (tx *Tx) PutItem(i model.InventoryItem) {
	tx.items.put(i.ID, i)
}

// PutTransaction stages a transaction write.
func (tx *Tx) PutTransaction(t model.Transaction) {
	tx.txns.put(t.ID, t)
}

// AddTransaction stages a new transaction, failing if the id is taken.
func (tx *Tx) AddTransaction(t model.Transaction) error {
	if _, ok := tx.Transaction(t.ID); ok {
		return fmt.Errorf("transaction %q: %w", t.ID, ErrDuplicateID)
	}
	tx.txns.put(t.ID, t)
	return nil
}
