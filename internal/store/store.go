// Package store holds the system of record: accounts, inventory items and
// transactions. It has no behavior beyond identity lookup, the account delete
// cascade, and an atomic multi-entity Update.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/stockledger/stockledger/internal/model"
)

// ErrDuplicateID is returned when an insert collides with an existing id.
var ErrDuplicateID = errors.New("duplicate id")

// Store owns the three collections. All methods are safe for concurrent use;
// Update applies its writes under a single lock acquisition.
type Store struct {
	mu       sync.RWMutex
	accounts *collection[model.Account]
	items    *collection[model.InventoryItem]
	txns     *collection[model.Transaction]
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		accounts: newCollection[model.Account](),
		items:    newCollection[model.InventoryItem](),
		txns:     newCollection[model.Transaction](),
	}
}

// FromSnapshot builds a Store from collections, rejecting duplicate ids.
func FromSnapshot(snap Snapshot) (*Store, error) {
	s := New()
	for _, a := range snap.Accounts {
		if err := s.AddAccount(a); err != nil {
			return nil, err
		}
	}
	for _, i := range snap.Items {
		if err := s.AddItem(i); err != nil {
			return nil, err
		}
	}
	for _, t := range snap.Transactions {
		if err := s.AddTransaction(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Account returns an account by id.
func (s *Store) Account(id string) (model.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts.get(id)
}

// HasAccount reports whether an account id exists.
func (s *Store) HasAccount(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts.has(id)
}

// Item returns an inventory item by id.
func (s *Store) Item(id string) (model.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.get(id)
}

// Transaction returns a transaction by id.
func (s *Store) Transaction(id string) (model.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.txns.get(id)
}

// Accounts returns all accounts in insertion order.
func (s *Store) Accounts() []model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts.all()
}

// Items returns all inventory items in insertion order.
func (s *Store) Items() []model.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.all()
}

// Transactions returns all transactions in insertion order.
func (s *Store) Transactions() []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.txns.all()
}

// PutAccount inserts or replaces an account.
func (s *Store) PutAccount(a model.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts.put(a.ID, a)
}

// PutItem inserts or replaces an inventory item.
func (s *Store) PutItem(i model.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items.put(i.ID, i)
}

// PutTransaction inserts or replaces a transaction. Account balances are not
// touched.
func (s *Store) PutTransaction(t model.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns.put(t.ID, t)
}

// AddAccount inserts an account, failing with ErrDuplicateID on collision.
func (s *Store) AddAccount(a model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accounts.has(a.ID) {
		return fmt.Errorf("account %q: %w", a.ID, ErrDuplicateID)
	}
	s.accounts.put(a.ID, a)
	return nil
}

// AddItem inserts an inventory item, failing with ErrDuplicateID on collision.
func (s *Store) AddItem(i model.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items.has(i.ID) {
		return fmt.Errorf("item %q: %w", i.ID, ErrDuplicateID)
	}
	s.items.put(i.ID, i)
	return nil
}

// AddTransaction inserts a transaction, failing with ErrDuplicateID on collision.
func (s *Store) AddTransaction(t model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.txns.has(t.ID) {
		return fmt.Errorf("transaction %q: %w", t.ID, ErrDuplicateID)
	}
	s.txns.put(t.ID, t)
	return nil
}

// DeleteAccount removes an account and every transaction posted to it. It
// returns the number of transactions removed. Their effect on other data is
// not repaired.
func (s *Store) DeleteAccount(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accounts.remove(id) {
		return 0, model.ReferenceNotFoundError{Kind: "account", ID: id}
	}
	return s.txns.removeWhere(func(t model.Transaction) bool { return t.AccountID == id }), nil
}

// DeleteItem removes an inventory item. Transactions that reference it are kept.
func (s *Store) DeleteItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.items.remove(id) {
		return model.ReferenceNotFoundError{Kind: "item", ID: id}
	}
	return nil
}

// DeleteTransaction removes a transaction. The balance of its account is not
// adjusted.
func (s *Store) DeleteTransaction(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.txns.remove(id) {
		return model.ReferenceNotFoundError{Kind: "transaction", ID: id}
	}
	return nil
}

// Snapshot copies all three collections under one read lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Accounts:     s.accounts.all(),
		Items:        s.items.all(),
		Transactions: s.txns.all(),
	}
}

// Counts returns the sizes of the accounts, items and transactions collections.
func (s *Store) Counts() (accounts, items, transactions int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts.len(), s.items.len(), s.txns.len()
}
