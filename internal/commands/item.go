package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stockledger/stockledger/internal/activitylog"
	"github.com/stockledger/stockledger/internal/auth"
	"github.com/stockledger/stockledger/internal/csvrow"
	"github.com/stockledger/stockledger/internal/id"
	"github.com/stockledger/stockledger/internal/inventory"
	"github.com/stockledger/stockledger/internal/model"
	"github.com/stockledger/stockledger/internal/report"
)

func newItemCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "item",
		Aliases: []string{"inventory"},
		Short:   "Manage inventory items",
	}
	cmd.AddCommand(newItemListCommand(g), newItemAddCommand(g), newItemEditCommand(g), newItemDeleteCommand(g))
	return cmd
}

func newItemListCommand(g *globalFlags) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inventory with per-location stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewInventory)
			if err != nil {
				return err
			}
			items := inventory.Search(a.store.Items(), search)
			return a.render(itemsMarkdown(items, a.user, a.currency()))
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "filter by name or size")
	return cmd
}

// itemsMarkdown shows every location to admins and only the pinned location
// to location users.
func itemsMarkdown(items []model.InventoryItem, user model.User, currency string) string {
	locs := model.Locations
	if !user.IsAdmin() {
		locs = []model.Location{user.Location}
	}

	var b strings.Builder
	b.WriteString("# Inventory\n\n")
	if len(items) == 0 {
		b.WriteString("No items.\n")
		return b.String()
	}

	headers := []string{"ID", "Name", "Size"}
	for _, loc := range locs {
		headers = append(headers, loc.Label())
	}
	headers = append(headers, "Cost", "Sale")
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString(strings.Repeat("|---", len(headers)) + "|\n")

	for _, item := range items {
		cells := []string{item.ID, item.Name, item.Size}
		for _, loc := range locs {
			cells = append(cells, fmt.Sprint(item.Quantity(loc)))
		}
		cells = append(cells, report.FormatMoney(item.CostPrice, currency), report.FormatMoney(item.SalePrice, currency))
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	if user.IsAdmin() {
		fmt.Fprintf(&b, "\nStock value: **%s**\n", report.FormatMoney(inventory.Value(items), currency))
	}
	return b.String()
}

// itemFlags binds the inventory item form to command flags.
type itemFlags struct {
	name string
	size string
	cost string
	sale string
	qty  map[model.Location]*int
}

func (f *itemFlags) register(fs *pflag.FlagSet, qtyUsage string) {
	fs.StringVar(&f.name, "name", "", "item name")
	fs.StringVar(&f.size, "size", "", "size code or SKU")
	fs.StringVar(&f.cost, "cost", "", "cost price")
	fs.StringVar(&f.sale, "sale", "", "sale price")
	f.qty = make(map[model.Location]*int, len(model.Locations))
	for _, loc := range model.Locations {
		f.qty[loc] = fs.Int(string(loc), 0, qtyUsage+" at "+loc.Label())
	}
}

// apply overlays the flags that were set onto item and validates the result.
func (f *itemFlags) apply(fs *pflag.FlagSet, item *model.InventoryItem) error {
	if fs.Changed("name") {
		item.Name = strings.TrimSpace(f.name)
	}
	if fs.Changed("size") {
		item.Size = strings.TrimSpace(f.size)
	}
	if fs.Changed("cost") {
		p, err := positivePrice("cost", f.cost)
		if err != nil {
			return err
		}
		item.CostPrice = p
	}
	if fs.Changed("sale") {
		p, err := positivePrice("sale", f.sale)
		if err != nil {
			return err
		}
		item.SalePrice = p
	}
	for _, loc := range model.Locations {
		if !fs.Changed(string(loc)) {
			continue
		}
		q := *f.qty[loc]
		if q < 0 {
			return model.ValidationError{Field: string(loc), Reason: "must not be negative"}
		}
		updated, err := item.WithQuantity(loc, q)
		if err != nil {
			return err
		}
		*item = updated
	}

	if item.Name == "" {
		return model.ValidationError{Field: "name", Reason: "required"}
	}
	if err := checkText("name", item.Name); err != nil {
		return err
	}
	return checkText("size", item.Size)
}

func newItemAddCommand(g *globalFlags) *cobra.Command {
	var f itemFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an inventory item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewInventory)
			if err != nil {
				return err
			}
			if err := a.requireAdmin(cmd.CommandPath()); err != nil {
				return err
			}

			item := model.InventoryItem{ID: id.New(id.PrefixItem)}
			if err := f.apply(cmd.Flags(), &item); err != nil {
				return err
			}
			if err := a.store.AddItem(item); err != nil {
				return err
			}
			if err := a.persist(activitylog.ActionItemAdd, item.ID, item.Name); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added item %s (%s)\n", item.Name, item.ID)
			return nil
		},
	}

	f.register(cmd.Flags(), "opening stock")
	for _, name := range []string{"name", "cost", "sale"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newItemEditCommand(g *globalFlags) *cobra.Command {
	var f itemFlags

	cmd := &cobra.Command{
		Use:   "edit <item-id>",
		Short: "Change an item's name, size, prices or stock counts",
		Long: "Change an inventory item. Only the flags given are applied. Past transactions " +
			"are not rewritten, so reports re-derive their quantities from the new prices.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewInventory)
			if err != nil {
				return err
			}
			if err := a.requireAdmin(cmd.CommandPath()); err != nil {
				return err
			}

			item, ok := a.store.Item(args[0])
			if !ok {
				return model.ReferenceNotFoundError{Kind: "item", ID: args[0]}
			}
			if err := f.apply(cmd.Flags(), &item); err != nil {
				return err
			}
			a.store.PutItem(item)
			if err := a.persist(activitylog.ActionItemEdit, item.ID, item.Name); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated item %s (%s)\n", item.Name, item.ID)
			return nil
		},
	}
	f.register(cmd.Flags(), "stock count")
	return cmd
}

func positivePrice(field, raw string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, model.ValidationError{Field: field, Reason: fmt.Sprintf("not a number: %q", raw)}
	}
	if !p.IsPositive() {
		return decimal.Zero, model.ValidationError{Field: field, Reason: "must be positive"}
	}
	return p, nil
}

// checkText rejects text the data files cannot store.
func checkText(field, v string) error {
	if err := csvrow.CheckValue(v); err != nil {
		return model.ValidationError{Field: field, Reason: err.Error()}
	}
	return nil
}

func newItemDeleteCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete an inventory item; its transactions are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewInventory)
			if err != nil {
				return err
			}
			if err := a.requireAdmin(cmd.CommandPath()); err != nil {
				return err
			}
			item, _ := a.store.Item(args[0])
			if err := a.store.DeleteItem(args[0]); err != nil {
				return err
			}
			if err := a.persist(activitylog.ActionItemDelete, args[0], item.Name); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted item %s\n", args[0])
			return nil
		},
	}
}
