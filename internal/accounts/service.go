package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/stockledger/stockledger/internal/model"
)

// ByType returns all accounts of the given type, in input order.
func ByType(accounts []model.Account, accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Banks returns the accounts eligible for reconciliation.
func Banks(accounts []model.Account) []model.Account {
	var result []model.Account
	for _, a := range accounts {
		if a.IsBank {
			result = append(result, a)
		}
	}
	return result
}

// Total sums the balances of all accounts of the given type.
func Total(accounts []model.Account, accountType model.AccountType) decimal.Decimal {
	total := decimal.Zero
	for _, a := range ByType(accounts, accountType) {
		total = total.Add(a.Balance)
	}
	return total
}

// NetWorth is total asset balances minus total liability balances.
func NetWorth(accounts []model.Account) decimal.Decimal {
	return Total(accounts, model.AccountTypeAsset).Sub(Total(accounts, model.AccountTypeLiability))
}
