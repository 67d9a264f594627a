package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount in currency's display format, e.g. "₨15,090.00"
// for PKR. Amounts are rounded to the currency's minor unit.
func FormatMoney(amount decimal.Decimal, currency string) string {
	// money.New never returns a nil currency, unlike GetCurrency.
	cur := *money.New(0, currency).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatQuantity renders a recovered quantity with at most two decimals.
func FormatQuantity(q decimal.Decimal) string {
	return q.Round(2).String()
}

// FormatPercent renders a margin as "12.34%".
func FormatPercent(p decimal.Decimal) string {
	return p.StringFixed(2) + "%"
}

// Headers returns the column titles for the report type.
func (r *Report) Headers() []string {
	switch r.Type {
	case TypePurchases:
		return []string{"Group", "Quantity Purchased", "Total Cost", "Average Cost"}
	case TypeProfitability:
		return []string{"Group", "Quantity Sold", "Total Revenue", "Total COGS", "Gross Profit", "Profit Margin"}
	default:
		return []string{"Group", "Quantity Sold", "Total Revenue", "Average Price"}
	}
}

// Table returns the formatted cells, one slice per row, matching Headers.
func (r *Report) Table(currency string) [][]string {
	out := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		cells := []string{row.Key, FormatQuantity(row.Quantity), FormatMoney(row.Amount, currency)}
		if r.Type == TypeProfitability {
			cells = append(cells,
				FormatMoney(row.COGS, currency),
				FormatMoney(row.GrossProfit, currency),
				FormatPercent(row.MarginPercent),
			)
		} else {
			cells = append(cells, FormatMoney(row.Average, currency))
		}
		out = append(out, cells)
	}
	return out
}

// Title is a heading such as "Sales Report by Item".
func (r *Report) Title() string {
	return fmt.Sprintf("%s Report by %s", titleCase(string(r.Type)), titleCase(string(r.GroupBy)))
}

// Markdown renders the report as a heading and a markdown table.
func (r *Report) Markdown(currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title())
	fmt.Fprintf(&b, "%s to %s\n\n", r.Start.Format(dayKeyFormat), r.End.Format(dayKeyFormat))

	rows := r.Table(currency)
	if len(rows) == 0 {
		b.WriteString("No data available for the selected criteria.\n")
		return b.String()
	}
	writeMarkdownTable(&b, r.Headers(), rows)
	return b.String()
}

func writeMarkdownTable(b *strings.Builder, headers []string, rows [][]string) {
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	b.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range rows {
		escaped := make([]string, len(row))
		for i, c := range row {
			escaped[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		b.WriteString("| " + strings.Join(escaped, " | ") + " |\n")
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
