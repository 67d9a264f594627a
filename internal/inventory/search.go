package inventory

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockledger/stockledger/internal/model"
)

// Search returns items whose name or size contains term, case-insensitively.
// An empty term matches everything.
func Search(items []model.InventoryItem, term string) []model.InventoryItem {
	term = strings.ToLower(term)
	var result []model.InventoryItem
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), term) || strings.Contains(strings.ToLower(item.Size), term) {
			result = append(result, item)
		}
	}
	return result
}

// Value is the cost value of all on-hand stock.
func Value(items []model.InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.StockValue())
	}
	return total
}
