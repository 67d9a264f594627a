package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/stockledger/stockledger/internal/activitylog"
	"github.com/stockledger/stockledger/internal/auth"
	"github.com/stockledger/stockledger/internal/model"
	"github.com/stockledger/stockledger/internal/reconcile"
	"github.com/stockledger/stockledger/internal/report"
)

func newReconcileCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Reconcile bank accounts against statement balances",
	}
	cmd.AddCommand(newReconcileAccountsCommand(g), newReconcileShowCommand(g), newReconcileToggleCommand(g))
	return cmd
}

func newReconcileAccountsCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List the bank accounts that can be reconciled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewReconciliation)
			if err != nil {
				return err
			}
			banks := reconcile.NewEngine(a.store, a.log).BankAccounts()
			return a.render(accountsMarkdown(banks, a.currency()))
		},
	}
}

func newReconcileShowCommand(g *globalFlags) *cobra.Command {
	var statement string

	cmd := &cobra.Command{
		Use:   "show <account-id>",
		Short: "Compare cleared transactions with a statement balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewReconciliation)
			if err != nil {
				return err
			}
			stmt, err := decimal.NewFromString(strings.TrimSpace(statement))
			if err != nil {
				return model.ValidationError{Field: "statement", Reason: fmt.Sprintf("not a number: %q", statement)}
			}
			res, err := reconcile.NewEngine(a.store, a.log).Reconcile(args[0], stmt)
			if err != nil {
				return err
			}
			return a.render(reconcileMarkdown(res, a.currency()))
		},
	}
	cmd.Flags().StringVar(&statement, "statement", "0", "statement ending balance")
	return cmd
}

func reconcileMarkdown(res reconcile.Result, currency string) string {
	var b strings.Builder
	b.WriteString(transactionsMarkdown("Reconcile "+res.Account.Name, res.Transactions, currency))
	b.WriteString("\n| Summary | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Statement Balance | %s |\n", report.FormatMoney(res.StatementBalance, currency))
	fmt.Fprintf(&b, "| Cleared Balance | %s |\n", report.FormatMoney(res.ClearedBalance, currency))
	fmt.Fprintf(&b, "| Difference | %s |\n", report.FormatMoney(res.Difference, currency))
	fmt.Fprintf(&b, "| Cleared / Uncleared | %d / %d |\n", res.ClearedCount, res.UnclearedCount)
	if res.Reconciled {
		b.WriteString("\n**Reconciled**\n")
	} else {
		b.WriteString("\n**Not reconciled**\n")
	}
	return b.String()
}

func newReconcileToggleCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <txn-id>",
		Short: "Flip the cleared flag of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewReconciliation)
			if err != nil {
				return err
			}
			t, err := reconcile.NewEngine(a.store, a.log).ToggleCleared(args[0])
			if err != nil {
				return err
			}
			details := fmt.Sprintf("cleared=%t", t.IsCleared)
			if err := a.persist(activitylog.ActionToggleCleared, t.ID, details); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s %s\n", t.ID, details)
			return nil
		},
	}
}
