package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockledger/stockledger/internal/activitylog"
	"github.com/stockledger/stockledger/internal/auth"
	"github.com/stockledger/stockledger/internal/journal"
	"github.com/stockledger/stockledger/internal/model"
	"github.com/stockledger/stockledger/internal/movement"
	"github.com/stockledger/stockledger/internal/report"
)

// newMovementCommand builds the sale or purchase command.
func newMovementCommand(g *globalFlags, verb string) *cobra.Command {
	mode, err := movement.ParseMode(verb)
	if err != nil {
		panic(err)
	}

	var itemID, location, accountID, date string
	var quantity int

	cmd := &cobra.Command{
		Use:   verb,
		Short: fmt.Sprintf("Record a %s: moves stock and the account balance together", verb),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewInventory)
			if err != nil {
				return err
			}

			req := movement.Request{
				Mode:      mode,
				ItemID:    itemID,
				Quantity:  quantity,
				AccountID: accountID,
			}
			switch {
			case location != "":
				if req.Location, err = model.ParseLocation(location); err != nil {
					return model.ValidationError{Field: "location", Reason: err.Error()}
				}
			case !a.user.IsAdmin():
				req.Location = a.user.Location
			}
			if date != "" {
				if req.Date, err = journal.ParseDate(date); err != nil {
					return model.ValidationError{Field: "date", Reason: err.Error()}
				}
			}

			res, err := movement.NewRecorder(a.store, a.log).RecordAs(a.user, req)
			if err != nil {
				return err
			}

			action := activitylog.ActionPurchase
			if mode == movement.ModeSale {
				action = activitylog.ActionSale
			}
			details := fmt.Sprintf("%s, %s", res.Transaction.Description, res.Transaction.Amount)
			if err := a.persist(action, res.Transaction.ID, details); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s: %s\n", res.Transaction.ID, res.Transaction.Description)
			fmt.Fprintf(a.out, "  amount   %s\n", report.FormatMoney(res.Transaction.Amount, a.currency()))
			fmt.Fprintf(a.out, "  stock    %d at %s\n", res.Item.Quantity(req.Location), req.Location.Label())
			fmt.Fprintf(a.out, "  balance  %s (%s)\n", report.FormatMoney(res.Account.Balance, a.currency()), res.Account.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&itemID, "item", "", "inventory item id (required)")
	_ = cmd.MarkFlagRequired("item")
	cmd.Flags().StringVar(&location, "location", "", "location column or label (location users default to their own)")
	cmd.Flags().IntVarP(&quantity, "quantity", "q", 0, "number of units (required)")
	_ = cmd.MarkFlagRequired("quantity")
	cmd.Flags().StringVar(&accountID, "account", "", "account id (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&date, "date", "", "transaction date, YYYY-MM-DD (default now)")
	return cmd
}
