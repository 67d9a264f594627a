package inventory

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stockledger/stockledger/internal/csvrow"
	"github.com/stockledger/stockledger/internal/id"
	"github.com/stockledger/stockledger/internal/model"
)

const (
	colID        = "id"
	colName      = "name"
	colSize      = "size"
	colCostPrice = "costPrice"
	colSalePrice = "salePrice"
)

// Header is the column list of inventory.csv. Location columns use the
// Location values as their names.
var Header = []string{
	colID,
	colName,
	colSize,
	string(model.LocationCapital),
	string(model.LocationWorldTyre),
	string(model.LocationUniversal),
	string(model.LocationStore1),
	string(model.LocationStore2),
	colCostPrice,
	colSalePrice,
}

// ReadItems reads inventory.csv. Invalid rows are returned as RowErrors.
func ReadItems(r io.Reader) ([]model.InventoryItem, []csvrow.RowError, error) {
	table, err := csvrow.Parse(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading inventory CSV: %w", err)
	}

	var items []model.InventoryItem
	var rejected []csvrow.RowError
	for _, row := range table.Rows {
		item, err := UnmarshalItem(row)
		if err != nil {
			rejected = append(rejected, csvrow.RowError{Line: row.Line, Err: err})
			continue
		}
		items = append(items, item)
	}
	return items, rejected, nil
}

// WriteItems writes inventory.csv.
func WriteItems(w io.Writer, items []model.InventoryItem) error {
	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = MarshalItem(item)
	}
	if err := csvrow.Write(w, Header, rows); err != nil {
		return fmt.Errorf("writing inventory: %w", err)
	}
	return nil
}

// MarshalItem converts an InventoryItem to a CSV row.
func MarshalItem(item model.InventoryItem) []string {
	row := []string{item.ID, item.Name, item.Size}
	for _, loc := range model.Locations {
		row = append(row, strconv.Itoa(item.Quantity(loc)))
	}
	return append(row, item.CostPrice.String(), item.SalePrice.String())
}

// UnmarshalItem converts a CSV row to an InventoryItem. Blank or non-numeric
// quantities read as zero; negative quantities are rejected.
func UnmarshalItem(row csvrow.Row) (model.InventoryItem, error) {
	name := row.Get(colName)
	if name == "" {
		return model.InventoryItem{}, model.ValidationError{Field: colName, Reason: "required"}
	}

	cost, err := parsePrice(row, colCostPrice)
	if err != nil {
		return model.InventoryItem{}, err
	}
	sale, err := parsePrice(row, colSalePrice)
	if err != nil {
		return model.InventoryItem{}, err
	}

	itemID := row.Get(colID)
	if itemID == "" {
		itemID = id.NewImported()
	}

	item := model.InventoryItem{
		ID:        itemID,
		Name:      name,
		Size:      row.Get(colSize),
		CostPrice: cost,
		SalePrice: sale,
	}
	for _, loc := range model.Locations {
		qty, err := strconv.Atoi(strings.TrimSpace(row.Get(string(loc))))
		if err != nil {
			qty = 0
		}
		if qty < 0 {
			return model.InventoryItem{}, model.ValidationError{Field: string(loc), Reason: "must not be negative"}
		}
		// WithQuantity only fails for unknown locations.
		item, _ = item.WithQuantity(loc, qty)
	}
	return item, nil
}

func parsePrice(row csvrow.Row, col string) (decimal.Decimal, error) {
	raw := row.Get(col)
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, model.ValidationError{Field: col, Reason: fmt.Sprintf("not a number: %q", raw)}
	}
	if !price.IsPositive() {
		return decimal.Zero, model.ValidationError{Field: col, Reason: "must be positive"}
	}
	return price, nil
}
