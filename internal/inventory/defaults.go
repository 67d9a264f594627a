package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/stockledger/stockledger/internal/model"
)

// DefaultItems returns the sample stock written by `init --seed`.
func DefaultItems() []model.InventoryItem {
	return []model.InventoryItem{
		{ID: "inv1", Name: "Wireless Mouse", Size: "HW-M-001", LocationCapital: 10, LocationWorldTyre: 15, LocationUniversal: 5, LocationStore1: 10, LocationStore2: 10, CostPrice: decimal.NewFromInt(15), SalePrice: decimal.NewFromInt(30)},
		{ID: "inv2", Name: "Mechanical Keyboard", Size: "HW-K-002", LocationCapital: 5, LocationWorldTyre: 5, LocationUniversal: 5, LocationStore1: 10, LocationStore2: 5, CostPrice: decimal.NewFromInt(60), SalePrice: decimal.NewFromInt(120)},
		{ID: "inv3", Name: "USB-C Hub", Size: "HW-A-003", LocationCapital: 20, LocationWorldTyre: 20, LocationUniversal: 15, LocationStore1: 10, LocationStore2: 10, CostPrice: decimal.NewFromInt(25), SalePrice: decimal.NewFromInt(45)},
		{ID: "inv4", Name: `27" 4K Monitor`, Size: "HW-D-004", LocationCapital: 3, LocationWorldTyre: 3, LocationUniversal: 3, LocationStore1: 3, LocationStore2: 3, CostPrice: decimal.NewFromInt(300), SalePrice: decimal.NewFromInt(450)},
	}
}
