package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/stockledger/stockledger/internal/model"
)

// DefaultAccounts returns the sample accounts written by `init --seed`.
func DefaultAccounts() []model.Account {
	return []model.Account{
		{ID: "acc1", Name: "Checking Account", Type: model.AccountTypeAsset, Balance: decimal.NewFromInt(15000), IsBank: true},
		{ID: "acc2", Name: "Savings Account", Type: model.AccountTypeAsset, Balance: decimal.NewFromInt(45000), IsBank: true},
		{ID: "acc3", Name: "Business Credit Card", Type: model.AccountTypeLiability, Balance: decimal.NewFromInt(2500), IsBank: true},
		{ID: "acc4", Name: "Office Equipment", Type: model.AccountTypeAsset, Balance: decimal.NewFromInt(12000)},
		{ID: "acc5", Name: "Business Loan", Type: model.AccountTypeLiability, Balance: decimal.NewFromInt(50000)},
	}
}
