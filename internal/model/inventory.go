package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InventoryItem represents a row in inventory.csv.
type InventoryItem struct {
	ID                string
	Name              string
	Size              string // secondary descriptor (size code or SKU)
	LocationCapital   int
	LocationWorldTyre int
	LocationUniversal int
	LocationStore1    int
	LocationStore2    int
	CostPrice         decimal.Decimal // live, not historical
	SalePrice         decimal.Decimal // live, not historical
}

// Quantity returns the on-hand quantity at loc. Unknown locations hold nothing.
func (i InventoryItem) Quantity(loc Location) int {
	switch loc {
	case LocationCapital:
		return i.LocationCapital
	case LocationWorldTyre:
		return i.LocationWorldTyre
	case LocationUniversal:
		return i.LocationUniversal
	case LocationStore1:
		return i.LocationStore1
	case LocationStore2:
		return i.LocationStore2
	default:
		return 0
	}
}

// WithQuantity returns a copy of i with the quantity at loc replaced.
func (i InventoryItem) WithQuantity(loc Location, qty int) (InventoryItem, error) {
	switch loc {
	case LocationCapital:
		i.LocationCapital = qty
	case LocationWorldTyre:
		i.LocationWorldTyre = qty
	case LocationUniversal:
		i.LocationUniversal = qty
	case LocationStore1:
		i.LocationStore1 = qty
	case LocationStore2:
		i.LocationStore2 = qty
	default:
		return i, fmt.Errorf("unknown location %q", loc)
	}
	return i, nil
}

// TotalQuantity is the sum of all five location quantities.
func (i InventoryItem) TotalQuantity() int {
	total := 0
	for _, loc := range Locations {
		total += i.Quantity(loc)
	}
	return total
}

// StockValue values the total on-hand quantity at cost price.
func (i InventoryItem) StockValue() decimal.Decimal {
	return i.CostPrice.Mul(decimal.NewFromInt(int64(i.TotalQuantity())))
}
