// Package report aggregates inventory-linked transactions into grouped sales,
// purchase and profitability tables.
//
// Transactions carry only a money amount, so quantities are recovered by
// dividing by the item's current price. If a price has changed since a
// transaction was recorded, its recovered quantity is wrong.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockledger/stockledger/internal/model"
	"github.com/stockledger/stockledger/internal/store"
)

// Type selects which transactions a report covers.
type Type string

const (
	TypeSales         Type = "sales"
	TypePurchases     Type = "purchases"
	TypeProfitability Type = "profitability"
)

// Types lists every report type.
var Types = []Type{TypeSales, TypePurchases, TypeProfitability}

// GroupBy selects the row dimension.
type GroupBy string

const (
	GroupByItem     GroupBy = "item"
	GroupBySize     GroupBy = "size"
	GroupByLocation GroupBy = "location"
	GroupByDay      GroupBy = "day"
	GroupByMonth    GroupBy = "month"
)

// GroupBys lists every grouping.
var GroupBys = []GroupBy{GroupByItem, GroupBySize, GroupByLocation, GroupByDay, GroupByMonth}

// Fallback group keys for transactions whose item or location no longer
// resolves.
const (
	UnknownItem     = "Unknown Item"
	UnknownSize     = "Unknown Size"
	UnknownLocation = "Unknown Location"
)

const (
	dayKeyFormat   = "2006-01-02"
	monthKeyFormat = "January 2006"
)

// ParseType accepts a report type name in any case.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown report type %q", s)
}

// ParseGroupBy accepts a grouping name in any case.
func ParseGroupBy(s string) (GroupBy, error) {
	for _, g := range GroupBys {
		if strings.EqualFold(s, string(g)) {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown grouping %q", s)
}

// Params selects a report. Start and End name calendar days, inclusive, each
// read in its own zone; the window is laid out in Start's zone.
type Params struct {
	Type    Type
	GroupBy GroupBy
	Start   time.Time
	End     time.Time
}

// Row is one group. Amount is revenue for sales and profitability reports and
// cost for purchase reports; Average is Amount/Quantity. COGS, GrossProfit and
// MarginPercent are only set on profitability reports.
type Row struct {
	Key           string
	Quantity      decimal.Decimal
	Amount        decimal.Decimal
	Average       decimal.Decimal
	COGS          decimal.Decimal
	GrossProfit   decimal.Decimal
	MarginPercent decimal.Decimal
}

// Report is a generated table.
type Report struct {
	Params
	Rows []Row
}

// Generate builds a report over snap. Rows appear in the order their group is
// first seen in the transaction list.
func Generate(snap store.Snapshot, p Params) (*Report, error) {
	if _, err := ParseType(string(p.Type)); err != nil {
		return nil, err
	}
	if _, err := ParseGroupBy(string(p.GroupBy)); err != nil {
		return nil, err
	}

	loc := p.Start.Location()
	start := startOfDay(p.Start)
	ey, em, ed := p.End.Date()
	end := time.Date(ey, em, ed, 0, 0, 0, 0, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s", p.End.Format(dayKeyFormat), p.Start.Format(dayKeyFormat))
	}

	items := snap.ItemIndex()
	groups := make(map[string]*Row)
	var order []string

	for _, t := range snap.Transactions {
		if !t.HasInventoryLink() || t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		if !p.Type.includes(t) {
			continue
		}

		item, known := items[t.InventoryItemID]
		key := groupKey(p.GroupBy, t, item, known, loc)
		row, ok := groups[key]
		if !ok {
			row = &Row{Key: key}
			groups[key] = row
			order = append(order, key)
		}

		row.Amount = row.Amount.Add(t.Amount)
		if !known {
			continue
		}
		price := item.SalePrice
		if p.Type == TypePurchases {
			price = item.CostPrice
		}
		if price.IsZero() {
			continue
		}
		qty := t.Amount.Div(price)
		row.Quantity = row.Quantity.Add(qty)
		if p.Type == TypeProfitability {
			row.COGS = row.COGS.Add(qty.Mul(item.CostPrice))
		}
	}

	rows := make([]Row, 0, len(order))
	hundred := decimal.NewFromInt(100)
	for _, key := range order {
		row := groups[key]
		if !row.Quantity.IsZero() {
			row.Average = row.Amount.Div(row.Quantity)
		}
		if p.Type == TypeProfitability {
			row.GrossProfit = row.Amount.Sub(row.COGS)
			if row.Amount.IsPositive() {
				row.MarginPercent = row.GrossProfit.Mul(hundred).Div(row.Amount)
			}
		}
		rows = append(rows, *row)
	}

	return &Report{Params: p, Rows: rows}, nil
}

func (rt Type) includes(t model.Transaction) bool {
	if rt == TypePurchases {
		return t.Type == model.TransactionTypeExpense && t.Category == model.CategoryPurchases
	}
	return t.Type == model.TransactionTypeIncome && t.Category == model.CategorySales
}

func groupKey(g GroupBy, t model.Transaction, item model.InventoryItem, known bool, loc *time.Location) string {
	switch g {
	case GroupByItem:
		if !known || item.Name == "" {
			return UnknownItem
		}
		return item.Name
	case GroupBySize:
		if !known || item.Size == "" {
			return UnknownSize
		}
		return item.Size
	case GroupByLocation:
		if !t.Location.Valid() {
			return UnknownLocation
		}
		return t.Location.Label()
	case GroupByDay:
		return t.Date.In(loc).Format(dayKeyFormat)
	case GroupByMonth:
		return t.Date.In(loc).Format(monthKeyFormat)
	}
	return "Overall"
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
