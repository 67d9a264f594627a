package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockledger/stockledger/internal/id"
	"github.com/stockledger/stockledger/internal/model"
)

func TestRoundTrip(t *testing.T) {
	accounts := []model.Account{
		{ID: "acc1", Name: "Checking Account", Type: model.AccountTypeAsset, Balance: decimal.NewFromInt(15000), IsBank: true},
		{ID: "acc5", Name: "Loan, long term", Type: model.AccountTypeLiability, Balance: decimal.RequireFromString("50000.75")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, accounts))

	got, rejected, err := ReadAccounts(&buf)
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, got, 2)

	for i := range accounts {
		assert.Equal(t, accounts[i].ID, got[i].ID)
		assert.Equal(t, accounts[i].Name, got[i].Name)
		assert.Equal(t, accounts[i].Type, got[i].Type)
		assert.True(t, accounts[i].Balance.Equal(got[i].Balance), "balance %s != %s", accounts[i].Balance, got[i].Balance)
		assert.Equal(t, accounts[i].IsBank, got[i].IsBank)
	}
}

func TestWriteFormat(t *testing.T) {
	var buf bytes.Buffer
	err := WriteAccounts(&buf, []model.Account{
		{ID: "acc1", Name: "Checking, Main", Type: model.AccountTypeAsset, Balance: decimal.NewFromInt(15090), IsBank: true},
		{ID: "acc4", Name: "Office Equipment", Type: model.AccountTypeAsset, Balance: decimal.NewFromInt(12000)},
	})
	require.NoError(t, err)

	want := "id,name,type,balance,isBank\n" +
		"acc1,\"Checking, Main\",Asset,15090,true\n" +
		"acc4,Office Equipment,Asset,12000,false"
	assert.Equal(t, want, buf.String())
}

func TestReadSkipsInvalidRows(t *testing.T) {
	input := "id,name,type,balance,isBank\n" +
		"a1,Good,Asset,100,true\n" +
		"a2,,Asset,100,true\n" +
		"a3,Bad Balance,Asset,lots,false\n" +
		"a4,Card,Whatever,20,false\n"

	got, rejected, err := ReadAccounts(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Len(t, rejected, 2)

	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, model.AccountTypeLiability, got[1].Type, "unknown type reads as liability")
	assert.False(t, got[1].IsBank)

	assert.Equal(t, 3, rejected[0].Line)
	var ve model.ValidationError
	require.ErrorAs(t, rejected[1], &ve)
	assert.Equal(t, "balance", ve.Field)
}

func TestReadGeneratesMissingID(t *testing.T) {
	got, _, err := ReadAccounts(strings.NewReader("name,balance\nPetty Cash,50\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, strings.HasPrefix(got[0].ID, id.PrefixImported+"-"), "got %s", got[0].ID)
}

func TestDefaultAccountsRoundTrip(t *testing.T) {
	chart := DefaultAccounts()

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, chart))

	got, rejected, err := ReadAccounts(&buf)
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, got, len(chart))
	for i := range chart {
		assert.Equal(t, chart[i].ID, got[i].ID)
		assert.True(t, chart[i].Balance.Equal(got[i].Balance))
	}
}
