package commands_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockledger/stockledger/internal/activitylog"
	"github.com/stockledger/stockledger/internal/auth"
	"github.com/stockledger/stockledger/internal/commands"
	"github.com/stockledger/stockledger/internal/config"
	"github.com/stockledger/stockledger/internal/model"
	"github.com/stockledger/stockledger/internal/reconcile"
	"github.com/stockledger/stockledger/internal/store"
)

type project struct {
	dir string
	cfg string
}

// newProject initializes a seeded project without git.
func newProject(t *testing.T) project {
	t.Helper()
	dir := t.TempDir()
	root := commands.NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"init", dir, "--name", "Test Biz", "--seed", "--no-git"})
	require.NoError(t, root.Execute())
	return project{dir: dir, cfg: filepath.Join(dir, config.FileName)}
}

func (p project) runAs(user string, args ...string) (string, error) {
	var out bytes.Buffer
	root := commands.NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", p.cfg, "--user", user, "--password", "password"))
	err := root.Execute()
	return out.String(), err
}

func (p project) run(args ...string) (string, error) {
	return p.runAs("admin", args...)
}

func (p project) load(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Load(filepath.Join(p.dir, "data"))
	require.NoError(t, err)
	return s
}

func TestSale_UpdatesStockAndBalance(t *testing.T) {
	p := newProject(t)
	_, err := p.run("sale", "--item", "inv1", "--location", "locationCapital", "-q", "3", "--account", "acc1")
	require.NoError(t, err)

	s := p.load(t)
	item, _ := s.Item("inv1")
	assert.Equal(t, 7, item.LocationCapital)
	acct, _ := s.Account("acc1")
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(15090)), "got %s", acct.Balance)

	_, _, txns := s.Counts()
	assert.Equal(t, 7, txns)

	entries, err := activitylog.Read(p.dir)
	require.NoError(t, err)
	last := entries[len(entries)-1]
	assert.Equal(t, activitylog.ActionSale, last.Action)
	assert.Equal(t, "admin", last.User)
}

func TestSale_OversellLeavesDataUnchanged(t *testing.T) {
	p := newProject(t)
	before, err := os.ReadFile(filepath.Join(p.dir, "data", store.InventoryFile))
	require.NoError(t, err)

	_, err = p.run("sale", "--item", "inv1", "--location", "Capital", "-q", "15", "--account", "acc1")
	var stockErr model.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 10, stockErr.Available)

	after, err := os.ReadFile(filepath.Join(p.dir, "data", store.InventoryFile))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestPurchase_LocationUserDefaultsToOwnLocation(t *testing.T) {
	p := newProject(t)
	_, err := p.runAs("store1", "purchase", "--item", "inv2", "-q", "4", "--account", "acc2")
	require.NoError(t, err)

	s := p.load(t)
	item, _ := s.Item("inv2")
	assert.Equal(t, 14, item.LocationStore1)
	acct, _ := s.Account("acc2")
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(44760)), "got %s", acct.Balance)
}

func TestSale_LocationUserPinned(t *testing.T) {
	p := newProject(t)
	_, err := p.runAs("store1", "sale", "--item", "inv1", "--location", "locationCapital", "-q", "1", "--account", "acc1")
	var verr model.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "location", verr.Field)
}

func TestLocationUser_Forbidden(t *testing.T) {
	p := newProject(t)
	for _, args := range [][]string{
		{"account", "list"},
		{"txn", "list"},
		{"report"},
		{"dashboard"},
		{"reconcile", "accounts"},
		{"item", "add", "--name", "X", "--cost", "1", "--sale", "2"},
	} {
		_, err := p.runAs("capital", args...)
		assert.ErrorIs(t, err, auth.ErrForbidden, "%v", args)
	}

	out, err := p.runAs("capital", "item", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Wireless Mouse")
}

func TestReconcile_ToggleAndShow(t *testing.T) {
	p := newProject(t)
	_, err := p.run("reconcile", "toggle", "txn4")
	require.NoError(t, err)

	s := p.load(t)
	txn, _ := s.Transaction("txn4")
	assert.True(t, txn.IsCleared)
	acct, _ := s.Account("acc1")
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(15000)), "toggle never moves the balance")

	out, err := p.run("reconcile", "show", "acc1", "--statement", "12250")
	require.NoError(t, err)
	assert.Contains(t, out, "Reconciled")
	assert.NotContains(t, out, "Not reconciled")

	_, err = p.run("reconcile", "show", "acc4", "--statement", "0")
	assert.Error(t, err)

	_, err = p.run("sale", "--item", "inv3", "--location", "Universal", "-q", "1", "--account", "acc4")
	require.NoError(t, err)
	var onEquipment string
	for _, txn := range p.load(t).Transactions() {
		if txn.AccountID == "acc4" {
			onEquipment = txn.ID
		}
	}
	require.NotEmpty(t, onEquipment)
	_, err = p.run("reconcile", "toggle", onEquipment)
	assert.ErrorIs(t, err, reconcile.ErrNotBankAccount)
}

func TestTxn_ManualEntriesLeaveBalances(t *testing.T) {
	p := newProject(t)
	_, err := p.run("txn", "add", "--description", "Bank fee", "--amount", "100", "--type", "expense",
		"--category", "Fees", "--account", "acc2", "--date", "2025-03-01")
	require.NoError(t, err)

	var added model.Transaction
	for _, txn := range p.load(t).Transactions() {
		if txn.Description == "Bank fee" {
			added = txn
		}
	}
	require.NotEmpty(t, added.ID)
	assert.Equal(t, model.TransactionTypeExpense, added.Type)
	assert.False(t, added.IsCleared)

	_, err = p.run("txn", "edit", added.ID, "--amount", "120")
	require.NoError(t, err)
	edited, _ := p.load(t).Transaction(added.ID)
	assert.Equal(t, "120", edited.Amount.String())
	assert.Equal(t, "Bank fee", edited.Description)

	_, err = p.run("txn", "delete", added.ID)
	require.NoError(t, err)

	s := p.load(t)
	_, ok := s.Transaction(added.ID)
	assert.False(t, ok)
	acct, _ := s.Account("acc2")
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(45000)))

	_, err = p.run("txn", "add", "--description", "Sneaky", "--amount", "1", "--category", "Sales", "--account", "acc2")
	assert.Error(t, err, "reserved category")
}

func TestText_RejectedBeforeItReachesTheFiles(t *testing.T) {
	p := newProject(t)
	for _, args := range [][]string{
		{"txn", "add", "--description", `Paid "ACME", Inc`, "--amount", "10", "--account", "acc1"},
		{"txn", "add", "--description", "line one\nline two", "--amount", "10", "--account", "acc1"},
		{"account", "add", "--name", "Main\nBranch"},
		{"item", "add", "--name", `"Quoted" Cable`, "--cost", "1", "--sale", "2"},
		{"item", "add", "--name", "Cable", "--size", `3", 2m`, "--cost", "1", "--sale", "2"},
	} {
		_, err := p.run(args...)
		var verr model.ValidationError
		assert.True(t, errors.As(err, &verr), "%v: got %v", args, err)
	}

	_, err := p.run("account", "add", "--name", `Bank, "Main" branch`)
	require.NoError(t, err)
	_, err = p.run("txn", "add", "--description", `Paid "ACME" Inc, net 30`, "--amount", "10", "--account", "acc1")
	require.NoError(t, err)

	_, err = p.run("txn", "list")
	require.NoError(t, err)

	s := p.load(t)
	accts, _, txns := s.Counts()
	assert.Equal(t, 6, accts)
	assert.Equal(t, 7, txns)
	var names []string
	for _, a := range s.Accounts() {
		names = append(names, a.Name)
	}
	assert.Contains(t, names, `Bank, "Main" branch`)
	var descs []string
	for _, txn := range s.Transactions() {
		descs = append(descs, txn.Description)
	}
	assert.Contains(t, descs, `Paid "ACME" Inc, net 30`)
}

func TestAccount_Edit(t *testing.T) {
	p := newProject(t)
	out, err := p.run("account", "edit", "acc4", "--name", "Equipment", "--type", "liability", "--balance", "11000", "--bank")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated account Equipment")

	acct, _ := p.load(t).Account("acc4")
	assert.Equal(t, "Equipment", acct.Name)
	assert.Equal(t, model.AccountTypeLiability, acct.Type)
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(11000)), "got %s", acct.Balance)
	assert.True(t, acct.IsBank)

	_, err = p.run("account", "edit", "acc1", "--name", "Main Checking")
	require.NoError(t, err)
	acct, _ = p.load(t).Account("acc1")
	assert.Equal(t, "Main Checking", acct.Name)
	assert.True(t, acct.Balance.Equal(decimal.NewFromInt(15000)), "unset flags keep their values")
	assert.True(t, acct.IsBank)

	_, err = p.run("account", "edit", "acc1", "--type", "Equity")
	assert.Error(t, err)
	_, err = p.run("account", "edit", "acc404", "--name", "Ghost")
	var nf model.ReferenceNotFoundError
	assert.True(t, errors.As(err, &nf))
	_, err = p.runAs("store1", "account", "edit", "acc1", "--name", "Mine")
	assert.ErrorIs(t, err, auth.ErrForbidden)

	entries, err := activitylog.Read(p.dir)
	require.NoError(t, err)
	assert.Equal(t, activitylog.ActionAccountEdit, entries[len(entries)-1].Action)
}

func TestItem_EditChangesPricesAndStock(t *testing.T) {
	p := newProject(t)
	_, err := p.run("sale", "--item", "inv1", "--location", "locationCapital", "-q", "3", "--account", "acc1")
	require.NoError(t, err)

	out, err := p.run("item", "edit", "inv1", "--name", "Wireless Mouse Pro", "--sale", "45", "--locationStore1", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated item Wireless Mouse Pro")

	item, _ := p.load(t).Item("inv1")
	assert.Equal(t, "Wireless Mouse Pro", item.Name)
	assert.Equal(t, "HW-M-001", item.Size)
	assert.True(t, item.SalePrice.Equal(decimal.NewFromInt(45)))
	assert.True(t, item.CostPrice.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, 20, item.LocationStore1)
	assert.Equal(t, 7, item.LocationCapital)

	// The 90 sale was 3 units at 30; at the new price it reads as 2.
	out, err = p.run("report", "--format", "csv", "-o", "-", "--start", "2000-01-01", "--end", "2100-12-31")
	require.NoError(t, err)
	assert.Contains(t, out, "Wireless Mouse Pro,2,")

	_, err = p.run("item", "edit", "inv1", "--cost", "0")
	assert.Error(t, err)
	_, err = p.run("item", "edit", "inv1", "--locationStore2=-1")
	assert.Error(t, err)
	_, err = p.run("item", "edit", "inv404", "--sale", "1")
	var nf model.ReferenceNotFoundError
	assert.True(t, errors.As(err, &nf))
	_, err = p.runAs("store1", "item", "edit", "inv1", "--sale", "1")
	assert.ErrorIs(t, err, auth.ErrForbidden)

	entries, err := activitylog.Read(p.dir)
	require.NoError(t, err)
	assert.Equal(t, activitylog.ActionItemEdit, entries[len(entries)-1].Action)
}

func TestAccount_AddAndCascadeDelete(t *testing.T) {
	p := newProject(t)
	out, err := p.run("account", "add", "--name", "Petty Cash", "--balance", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Added account Petty Cash")

	out, err = p.run("account", "delete", "acc3")
	require.NoError(t, err)
	assert.Contains(t, out, "2 transactions removed")

	accts, _, txns := p.load(t).Counts()
	assert.Equal(t, 5, accts)
	assert.Equal(t, 4, txns)
}

func TestItem_DeleteKeepsTransactions(t *testing.T) {
	p := newProject(t)
	_, err := p.run("sale", "--item", "inv3", "--location", "Universal", "-q", "1", "--account", "acc4")
	require.NoError(t, err)
	_, err = p.run("item", "delete", "inv3")
	require.NoError(t, err)

	_, items, txns := p.load(t).Counts()
	assert.Equal(t, 3, items)
	assert.Equal(t, 7, txns)
}

func TestReport_CSVToStdout(t *testing.T) {
	p := newProject(t)
	_, err := p.run("sale", "--item", "inv1", "--location", "locationStore2", "-q", "3", "--account", "acc1")
	require.NoError(t, err)

	out, err := p.run("report", "--format", "csv", "-o", "-", "--start", "2000-01-01", "--end", "2100-12-31")
	require.NoError(t, err)
	assert.Contains(t, out, "Group,Quantity Sold")
	assert.Contains(t, out, "Wireless Mouse,3,")
}

func TestReport_XLSXFile(t *testing.T) {
	p := newProject(t)
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	out, err := p.run("report", "--format", "xlsx", "-o", path, "--type", "profitability", "--group-by", "month")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestReport_BadParams(t *testing.T) {
	p := newProject(t)
	_, err := p.run("report", "--type", "inventory")
	assert.Error(t, err)
	_, err = p.run("report", "--group-by", "week")
	assert.Error(t, err)
	_, err = p.run("report", "--start", "2025-02-01", "--end", "2025-01-01")
	assert.Error(t, err)
}

func TestImport_DirectoryAndExport(t *testing.T) {
	p := newProject(t)
	importDir := filepath.Join(p.dir, "data", "import")
	csv := "id,name,type,balance,isBank\nacc1,Dup,Asset,1,false\nacc9,Till,Asset,75,false"
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "more.csv"), []byte(csv), 0o644))

	out, err := p.run("import")
	require.NoError(t, err)
	assert.Contains(t, out, "more.csv: accounts added 1, skipped 1, rejected 0")

	_, err = os.Stat(filepath.Join(importDir, "processed", "more.csv"))
	assert.NoError(t, err)

	s := p.load(t)
	dup, _ := s.Account("acc1")
	assert.Equal(t, "Checking Account", dup.Name)
	_, ok := s.Account("acc9")
	assert.True(t, ok)

	exportDir := filepath.Join(t.TempDir(), "out")
	_, err = p.run("export", "-d", exportDir)
	require.NoError(t, err)
	exported, err := store.Load(exportDir)
	require.NoError(t, err)
	accts, _, _ := exported.Counts()
	assert.Equal(t, 6, accts)
}

func TestImport_NothingToDo(t *testing.T) {
	p := newProject(t)
	out, err := p.run("import")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to import.")
}

func TestDashboardAndActivity(t *testing.T) {
	p := newProject(t)
	out, err := p.run("dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Net Worth")

	out, err = p.run("activity")
	require.NoError(t, err)
	assert.Contains(t, out, "init")
}
