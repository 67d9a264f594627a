package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockledger/stockledger/internal/accounts"
	"github.com/stockledger/stockledger/internal/inventory"
	"github.com/stockledger/stockledger/internal/model"
	"github.com/stockledger/stockledger/internal/store"
)

// MonthFlow is the income and expense total of one calendar month.
type MonthFlow struct {
	Month    time.Time // first day of the month, UTC
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Label is a short month name such as "Mar 25".
func (m MonthFlow) Label() string {
	return m.Month.Format("Jan 06")
}

// Summary is the dashboard overview.
type Summary struct {
	TotalAssets      decimal.Decimal
	TotalLiabilities decimal.Decimal
	NetWorth         decimal.Decimal
	TotalIncome      decimal.Decimal
	TotalExpenses    decimal.Decimal
	CashFlow         decimal.Decimal
	InventoryValue   decimal.Decimal
	Months           []MonthFlow // most recent first
}

// Summarize computes the dashboard figures over every transaction in snap.
func Summarize(snap store.Snapshot) Summary {
	s := Summary{
		TotalAssets:      accounts.Total(snap.Accounts, model.AccountTypeAsset),
		TotalLiabilities: accounts.Total(snap.Accounts, model.AccountTypeLiability),
		NetWorth:         accounts.NetWorth(snap.Accounts),
		InventoryValue:   inventory.Value(snap.Items),
	}

	months := make(map[time.Time]*MonthFlow)
	for _, t := range snap.Transactions {
		d := t.Date.UTC()
		key := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
		m, ok := months[key]
		if !ok {
			m = &MonthFlow{Month: key}
			months[key] = m
		}
		if t.IsIncome() {
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
			m.Income = m.Income.Add(t.Amount)
		} else {
			s.TotalExpenses = s.TotalExpenses.Add(t.Amount)
			m.Expenses = m.Expenses.Add(t.Amount)
		}
	}
	s.CashFlow = s.TotalIncome.Sub(s.TotalExpenses)

	for _, m := range months {
		s.Months = append(s.Months, *m)
	}
	sort.Slice(s.Months, func(i, j int) bool {
		return s.Months[i].Month.After(s.Months[j].Month)
	})
	return s
}

// Markdown renders the summary for the terminal.
func (s Summary) Markdown(business, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Dashboard\n\n", business)
	writeMarkdownTable(&b, []string{"Metric", "Value", "Description"}, [][]string{
		{"Net Worth", FormatMoney(s.NetWorth, currency), "Assets - Liabilities"},
		{"Total Income", FormatMoney(s.TotalIncome, currency), "Revenue in current period"},
		{"Total Expenses", FormatMoney(s.TotalExpenses, currency), "Costs in current period"},
		{"Cash Flow", FormatMoney(s.CashFlow, currency), "Income - Expenses"},
		{"Inventory Value", FormatMoney(s.InventoryValue, currency), "Total cost of goods"},
	})

	if len(s.Months) > 0 {
		b.WriteString("\n## Cash Flow Overview\n\n")
		rows := make([][]string, len(s.Months))
		for i, m := range s.Months {
			rows[i] = []string{m.Label(), FormatMoney(m.Income, currency), FormatMoney(m.Expenses, currency)}
		}
		writeMarkdownTable(&b, []string{"Month", "Income", "Expenses"}, rows)
	}
	return b.String()
}
