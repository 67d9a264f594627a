package store

import "github.com/stockledger/stockledger/internal/model"

// Snapshot is a point-in-time copy of the store. Components that only read
// (reconciliation, reports) work on a Snapshot.
type Snapshot struct {
	Accounts     []model.Account
	Items        []model.InventoryItem
	Transactions []model.Transaction
}

// ItemIndex maps item ids to items.
func (s Snapshot) ItemIndex() map[string]model.InventoryItem {
	idx := make(map[string]model.InventoryItem, len(s.Items))
	for _, i := range s.Items {
		idx[i.ID] = i
	}
	return idx
}

// Account finds an account by id.
func (s Snapshot) Account(id string) (model.Account, bool) {
	for _, a := range s.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return model.Account{}, false
}

// TransactionsFor returns the transactions posted to accountID, in store order.
func (s Snapshot) TransactionsFor(accountID string) []model.Transaction {
	var out []model.Transaction
	for _, t := range s.Transactions {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	return out
}
