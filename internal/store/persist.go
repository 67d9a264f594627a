package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/stockledger/stockledger/internal/accounts"
	"github.com/stockledger/stockledger/internal/csvrow"
	"github.com/stockledger/stockledger/internal/inventory"
	"github.com/stockledger/stockledger/internal/journal"
)

// File names inside the data directory.
const (
	AccountsFile     = "accounts.csv"
	InventoryFile    = "inventory.csv"
	TransactionsFile = "transactions.csv"
)

// Load reads the three CSV files in dir. A missing file is an empty
// collection; a row that fails validation or a duplicate id is an error,
// since the data directory is only ever written by Save.
func Load(dir string) (*Store, error) {
	var snap Snapshot

	err := readFile(filepath.Join(dir, AccountsFile), func(r io.Reader) ([]csvrow.RowError, error) {
		var rejected []csvrow.RowError
		var err error
		snap.Accounts, rejected, err = accounts.ReadAccounts(r)
		return rejected, err
	})
	if err != nil {
		return nil, err
	}

	err = readFile(filepath.Join(dir, InventoryFile), func(r io.Reader) ([]csvrow.RowError, error) {
		var rejected []csvrow.RowError
		var err error
		snap.Items, rejected, err = inventory.ReadItems(r)
		return rejected, err
	})
	if err != nil {
		return nil, err
	}

	err = readFile(filepath.Join(dir, TransactionsFile), func(r io.Reader) ([]csvrow.RowError, error) {
		var rejected []csvrow.RowError
		var err error
		snap.Transactions, rejected, err = journal.ReadTransactions(r)
		return rejected, err
	})
	if err != nil {
		return nil, err
	}

	s, err := FromSnapshot(snap)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", dir, err)
	}
	return s, nil
}

func readFile(path string, read func(io.Reader) ([]csvrow.RowError, error)) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	rejected, err := read(f)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if len(rejected) > 0 {
		errs := make([]error, len(rejected))
		for i, r := range rejected {
			errs[i] = r
		}
		return fmt.Errorf("%s: %w", filepath.Base(path), errors.Join(errs...))
	}
	return nil
}

// Save writes the three CSV files into dir, creating it if needed. Each file
// is written to a temp file and renamed into place.
func (s *Store) Save(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	snap := s.Snapshot()
	if err := writeFile(dir, AccountsFile, func(w io.Writer) error {
		return accounts.WriteAccounts(w, snap.Accounts)
	}); err != nil {
		return err
	}
	if err := writeFile(dir, InventoryFile, func(w io.Writer) error {
		return inventory.WriteItems(w, snap.Items)
	}); err != nil {
		return err
	}
	return writeFile(dir, TransactionsFile, func(w io.Writer) error {
		return journal.WriteTransactions(w, snap.Transactions)
	})
}

func writeFile(dir, name string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}

// Seeded returns a Store holding the sample accounts, inventory and
// transactions.
func Seeded(now time.Time) *Store {
	s, err := FromSnapshot(Snapshot{
		Accounts:     accounts.DefaultAccounts(),
		Items:        inventory.DefaultItems(),
		Transactions: journal.DefaultTransactions(now),
	})
	if err != nil {
		panic("seed data has duplicate ids: " + err.Error())
	}
	return s
}
