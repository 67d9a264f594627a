package importer

import (
	"io"

	"github.com/stockledger/stockledger/internal/accounts"
	"github.com/stockledger/stockledger/internal/csvrow"
	"github.com/stockledger/stockledger/internal/inventory"
	"github.com/stockledger/stockledger/internal/journal"
	"github.com/stockledger/stockledger/internal/store"
)

// AccountsDecoder imports accounts.csv files.
type AccountsDecoder struct{}

func (AccountsDecoder) Kind() Kind { return KindAccounts }

// Columns are the header fields that identify an accounts file.
func (AccountsDecoder) Columns() []string { return []string{"name", "type", "balance", "isBank"} }

func (AccountsDecoder) Merge(s *store.Store, r io.Reader) (store.MergeStats, []csvrow.RowError, error) {
	accts, rejected, err := accounts.ReadAccounts(r)
	if err != nil {
		return store.MergeStats{}, nil, err
	}
	return s.MergeAccounts(accts), rejected, nil
}

// InventoryDecoder imports inventory.csv files.
type InventoryDecoder struct{}

func (InventoryDecoder) Kind() Kind { return KindInventory }

// Columns are the header fields that identify an inventory file.
func (InventoryDecoder) Columns() []string { return []string{"name", "costPrice", "salePrice"} }

func (InventoryDecoder) Merge(s *store.Store, r io.Reader) (store.MergeStats, []csvrow.RowError, error) {
	items, rejected, err := inventory.ReadItems(r)
	if err != nil {
		return store.MergeStats{}, nil, err
	}
	return s.MergeItems(items), rejected, nil
}

// TransactionsDecoder imports transactions.csv files. Imported transactions
// never change account balances.
type TransactionsDecoder struct{}

func (TransactionsDecoder) Kind() Kind { return KindTransactions }

// Columns are the header fields that identify a transactions file.
func (TransactionsDecoder) Columns() []string {
	return []string{"date", "description", "amount", "accountId"}
}

func (TransactionsDecoder) Merge(s *store.Store, r io.Reader) (store.MergeStats, []csvrow.RowError, error) {
	txns, rejected, err := journal.ReadTransactions(r)
	if err != nil {
		return store.MergeStats{}, nil, err
	}
	return s.MergeTransactions(txns), rejected, nil
}
