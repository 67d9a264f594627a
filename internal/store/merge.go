package store

import "github.com/stockledger/stockledger/internal/model"

// MergeStats counts the outcome of a Merge.
type MergeStats struct {
	Added   int
	Skipped int // id already present; the existing record wins
}

// Total is the number of records offered to the merge.
func (m MergeStats) Total() int {
	return m.Added + m.Skipped
}

// MergeAccounts inserts accounts whose ids are new. Existing ids are never
// overwritten.
func (s *Store) MergeAccounts(accounts []model.Account) MergeStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mergeInto(s.accounts, accounts, func(a model.Account) string { return a.ID })
}

// MergeItems inserts inventory items whose ids are new.
func (s *Store) MergeItems(items []model.InventoryItem) MergeStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mergeInto(s.items, items, func(i model.InventoryItem) string { return i.ID })
}

// MergeTransactions inserts transactions whose ids are new. Account balances
// are not touched.
func (s *Store) MergeTransactions(txns []model.Transaction) MergeStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return mergeInto(s.txns, txns, func(t model.Transaction) string { return t.ID })
}

func mergeInto[T any](c *collection[T], records []T, key func(T) string) MergeStats {
	var stats MergeStats
	for _, r := range records {
		id := key(r)
		if c.has(id) {
			stats.Skipped++
			continue
		}
		c.put(id, r)
		stats.Added++
	}
	return stats
}
