package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stockledger/stockledger/internal/activitylog"
	"github.com/stockledger/stockledger/internal/auth"
	"github.com/stockledger/stockledger/internal/journal"
	"github.com/stockledger/stockledger/internal/model"
	"github.com/stockledger/stockledger/internal/report"
)

func newTxnCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "txn",
		Aliases: []string{"transaction"},
		Short:   "Manage transactions",
	}
	cmd.AddCommand(newTxnListCommand(g), newTxnAddCommand(g), newTxnEditCommand(g), newTxnDeleteCommand(g))
	return cmd
}

func newTxnListCommand(g *globalFlags) *cobra.Command {
	var accountID string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewTransactions)
			if err != nil {
				return err
			}
			txns := journal.NewService(a.store).List()
			if accountID != "" {
				filtered := txns[:0]
				for _, t := range txns {
					if t.AccountID == accountID {
						filtered = append(filtered, t)
					}
				}
				txns = filtered
			}
			if limit > 0 && len(txns) > limit {
				txns = txns[:limit]
			}
			return a.render(transactionsMarkdown("Transactions", txns, a.currency()))
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "only transactions posted to this account")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many (0 for all)")
	return cmd
}

func transactionsMarkdown(title string, txns []model.Transaction, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(txns) == 0 {
		b.WriteString("No transactions.\n")
		return b.String()
	}
	b.WriteString("| ID | Date | Description | Category | Account | Amount | Cleared |\n|---|---|---|---|---|---|---|\n")
	for _, t := range txns {
		cleared := ""
		if t.IsCleared {
			cleared = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			t.ID, t.Date.Format("2006-01-02"), t.Description, t.Category, t.AccountID,
			report.FormatMoney(t.SignedAmount(), currency), cleared)
	}
	return b.String()
}

// entryFlags binds the manual transaction form to command flags.
type entryFlags struct {
	date        string
	description string
	amount      string
	txnType     string
	category    string
	accountID   string
}

func (f *entryFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.date, "date", "", "transaction date, YYYY-MM-DD (default today)")
	fs.StringVar(&f.description, "description", "", "description")
	fs.StringVar(&f.amount, "amount", "", "non-negative amount")
	fs.StringVar(&f.txnType, "type", string(model.TransactionTypeExpense), "Income or Expense")
	fs.StringVar(&f.category, "category", "", "category")
	fs.StringVar(&f.accountID, "account", "", "account id")
}

// apply overlays the flags that were set onto params.
func (f *entryFlags) apply(fs *pflag.FlagSet, params *journal.EntryParams) error {
	if fs.Changed("date") {
		d, err := journal.ParseDate(f.date)
		if err != nil {
			return model.ValidationError{Field: "date", Reason: err.Error()}
		}
		params.Date = d
	}
	if fs.Changed("description") {
		params.Description = f.description
	}
	if fs.Changed("amount") {
		amt, err := decimal.NewFromString(strings.TrimSpace(f.amount))
		if err != nil {
			return model.ValidationError{Field: "amount", Reason: fmt.Sprintf("not a number: %q", f.amount)}
		}
		params.Amount = amt
	}
	if fs.Changed("type") {
		params.Type = model.TransactionType(titleWord(f.txnType))
	}
	if fs.Changed("category") {
		params.Category = f.category
	}
	if fs.Changed("account") {
		params.AccountID = f.accountID
	}
	return nil
}

func titleWord(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func newTxnAddCommand(g *globalFlags) *cobra.Command {
	var f entryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a manual transaction (balances are not adjusted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewTransactions)
			if err != nil {
				return err
			}

			params := journal.EntryParams{Date: a.now(), Type: model.TransactionTypeExpense}
			if err := f.apply(cmd.Flags(), &params); err != nil {
				return err
			}
			t, err := journal.NewService(a.store).Add(params)
			if err != nil {
				return err
			}
			if err := a.persist(activitylog.ActionTxnAdd, t.ID, t.Description); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added transaction %s\n", t.ID)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newTxnEditCommand(g *globalFlags) *cobra.Command {
	var f entryFlags

	cmd := &cobra.Command{
		Use:   "edit <txn-id>",
		Short: "Change fields of a transaction (balances are not adjusted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewTransactions)
			if err != nil {
				return err
			}

			existing, ok := a.store.Transaction(args[0])
			if !ok {
				return model.ReferenceNotFoundError{Kind: "transaction", ID: args[0]}
			}
			params := journal.EntryParams{
				Date:        existing.Date,
				Description: existing.Description,
				Amount:      existing.Amount,
				Type:        existing.Type,
				Category:    existing.Category,
				AccountID:   existing.AccountID,
			}
			if err := f.apply(cmd.Flags(), &params); err != nil {
				return err
			}
			t, err := journal.NewService(a.store).Edit(args[0], params)
			if err != nil {
				return err
			}
			if err := a.persist(activitylog.ActionTxnEdit, t.ID, t.Description); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated transaction %s\n", t.ID)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newTxnDeleteCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <txn-id>",
		Short: "Delete a transaction (the account balance is not repaired)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewTransactions)
			if err != nil {
				return err
			}
			t, _ := a.store.Transaction(args[0])
			if err := journal.NewService(a.store).Delete(args[0]); err != nil {
				return err
			}
			if err := a.persist(activitylog.ActionTxnDelete, args[0], t.Description); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted transaction %s\n", args[0])
			return nil
		},
	}
}
