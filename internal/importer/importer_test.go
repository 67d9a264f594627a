package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockledger/stockledger/internal/model"
	"github.com/stockledger/stockledger/internal/store"
)

const accountsCSV = "id,name,type,balance,isBank\n" +
	"acc1,Cash,Asset,1000,false\n" +
	"acc9,\"Bank, Main\",Asset,250.50,true\n" +
	",Loan,Liability,oops,false"

const inventoryCSV = "id,name,size,locationCapital,locationWorldTyre,locationUniversal,locationStore1,locationStore2,costPrice,salePrice\n" +
	"inv1,Wireless Mouse,M,10,,x,0,2,15,30"

const transactionsCSV = "id,date,description,amount,type,category,accountId,isCleared,inventoryItemId,location\n" +
	"txn1,2025-01-15,Rent,500,Expense,Rent,acc1,true,,\n" +
	"txn2,2025-01-16,,10,Income,Misc,acc1,false,,"

func writeImport(t *testing.T, dataDir, name, content string) {
	t.Helper()
	dir := Dir(dataDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDetect(t *testing.T) {
	r := DefaultRegistry()
	tests := []struct {
		name   string
		header string
		want   Kind
	}{
		{"accounts", "id,name,type,balance,isBank", KindAccounts},
		{"accounts reordered", "isBank,balance,name,type", KindAccounts},
		{"inventory", strings.SplitN(inventoryCSV, "\n", 2)[0], KindInventory},
		{"transactions", strings.SplitN(transactionsCSV, "\n", 2)[0], KindTransactions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := r.Detect(strings.Split(tt.header, ","))
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Kind())
		})
	}

	_, err := r.Detect([]string{"Posting Date", "Description", "Amount"})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register(AccountsDecoder{})
	assert.Panics(t, func() { r.Register(AccountsDecoder{}) })
}

func TestRegistry_Get(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("Inventory"))
	assert.Nil(t, r.Get("bank"))
}

func TestImport_Accounts(t *testing.T) {
	s := store.New()
	s.PutAccount(model.Account{ID: "acc1", Name: "Existing", Type: model.AccountTypeAsset})

	res, err := DefaultRegistry().Import(s, strings.NewReader(accountsCSV), "")
	require.NoError(t, err)

	assert.Equal(t, KindAccounts, res.Kind)
	assert.Equal(t, 1, res.Stats.Added)
	assert.Equal(t, 1, res.Stats.Skipped)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 4, res.Rejected[0].Line)

	existing, ok := s.Account("acc1")
	require.True(t, ok)
	assert.Equal(t, "Existing", existing.Name, "first write wins")

	bank, ok := s.Account("acc9")
	require.True(t, ok)
	assert.Equal(t, "Bank, Main", bank.Name)
	assert.True(t, bank.IsBank)
}

func TestImport_Inventory(t *testing.T) {
	s := store.New()
	res, err := DefaultRegistry().Import(s, strings.NewReader(inventoryCSV), "")
	require.NoError(t, err)
	assert.Equal(t, KindInventory, res.Kind)
	assert.Equal(t, 1, res.Stats.Added)

	item, ok := s.Item("inv1")
	require.True(t, ok)
	assert.Equal(t, 10, item.Quantity(model.LocationCapital))
	assert.Equal(t, 0, item.Quantity(model.LocationWorldTyre))
	assert.Equal(t, 0, item.Quantity(model.LocationUniversal))
	assert.Equal(t, 2, item.Quantity(model.LocationStore2))
}

func TestImport_TransactionsLeaveBalances(t *testing.T) {
	s := store.New()
	s.PutAccount(model.Account{ID: "acc1", Name: "Cash", Type: model.AccountTypeAsset})

	res, err := DefaultRegistry().Import(s, strings.NewReader(transactionsCSV), "")
	require.NoError(t, err)
	assert.Equal(t, KindTransactions, res.Kind)
	assert.Equal(t, 1, res.Stats.Added)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 3, res.Rejected[0].Line)

	acct, _ := s.Account("acc1")
	assert.True(t, acct.Balance.IsZero())
}

func TestImport_ExplicitKind(t *testing.T) {
	s := store.New()
	_, err := DefaultRegistry().Import(s, strings.NewReader(accountsCSV), "bank")
	assert.Error(t, err)

	res, err := DefaultRegistry().Import(s, strings.NewReader(accountsCSV), "accounts")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stats.Added)
}

func TestScan_Empty(t *testing.T) {
	dir := t.TempDir()
	files, err := Scan(dir)
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestScan_FindsCSVs(t *testing.T) {
	dir := t.TempDir()
	writeImport(t, dir, "accounts.csv", accountsCSV)
	writeImport(t, dir, "notes.txt", "hello")
	require.NoError(t, os.MkdirAll(ProcessedDir(dir), 0o755))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "accounts.csv", files[0].Name)
	assert.Positive(t, files[0].Size)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	writeImport(t, dir, "test.csv", "data")

	require.NoError(t, MarkProcessed(dir, "test.csv"))

	_, err := os.Stat(filepath.Join(Dir(dir), "test.csv"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(ProcessedDir(dir), "test.csv"))
	assert.NoError(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	writeImport(t, dir, "a_accounts.csv", accountsCSV)
	writeImport(t, dir, "b_inventory.csv", inventoryCSV)
	writeImport(t, dir, "c_chase.csv", "Posting Date,Description,Amount\n01/03/2025,GITHUB,-4.00")

	log, hook := test.NewNullLogger()
	s := store.New()
	results, err := DefaultRegistry().Run(dir, s, log)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a_accounts.csv", results[0].File)
	assert.Equal(t, KindInventory, results[1].Kind)

	accts, items, _ := s.Counts()
	assert.Equal(t, 2, accts)
	assert.Equal(t, 1, items)

	_, err = os.Stat(filepath.Join(Dir(dir), "c_chase.csv"))
	assert.NoError(t, err, "unrecognized files stay in place")
	_, err = os.Stat(filepath.Join(ProcessedDir(dir), "a_accounts.csv"))
	assert.NoError(t, err)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["file"] == "c_chase.csv" {
			warned = true
		}
	}
	assert.True(t, warned)
}
