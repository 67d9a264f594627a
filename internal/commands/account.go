package commands

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stockledger/stockledger/internal/accounts"
	"github.com/stockledger/stockledger/internal/activitylog"
	"github.com/stockledger/stockledger/internal/auth"
	"github.com/stockledger/stockledger/internal/id"
	"github.com/stockledger/stockledger/internal/model"
	"github.com/stockledger/stockledger/internal/report"
)

func newAccountCommand(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage financial accounts",
	}
	cmd.AddCommand(newAccountListCommand(g), newAccountAddCommand(g), newAccountEditCommand(g), newAccountDeleteCommand(g))
	return cmd
}

func newAccountListCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewAccounts)
			if err != nil {
				return err
			}
			return a.render(accountsMarkdown(a.store.Accounts(), a.currency()))
		},
	}
}

func accountsMarkdown(accts []model.Account, currency string) string {
	var b strings.Builder
	b.WriteString("# Accounts\n\n")
	if len(accts) == 0 {
		b.WriteString("No accounts.\n")
		return b.String()
	}
	b.WriteString("| ID | Name | Type | Balance | Bank |\n|---|---|---|---|---|\n")
	for _, acct := range accts {
		bank := ""
		if acct.IsBank {
			bank = "yes"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			acct.ID, acct.Name, acct.Type, report.FormatMoney(acct.Balance, currency), bank)
	}
	fmt.Fprintf(&b, "\nNet worth: **%s**\n", report.FormatMoney(accounts.NetWorth(accts), currency))
	return b.String()
}

// accountFlags binds the account form to command flags.
type accountFlags struct {
	name     string
	acctType string
	balance  string
	isBank   bool
}

func (f *accountFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "account name")
	fs.StringVar(&f.acctType, "type", string(model.AccountTypeAsset), "Asset or Liability")
	fs.StringVar(&f.balance, "balance", "0", "balance")
	fs.BoolVar(&f.isBank, "bank", false, "bank account eligible for reconciliation")
}

// apply overlays the flags that were set onto acct and validates the result.
// Defaults count as set when add is true.
func (f *accountFlags) apply(fs *pflag.FlagSet, acct *model.Account, add bool) error {
	set := func(name string) bool { return add || fs.Changed(name) }

	if set("name") {
		acct.Name = strings.TrimSpace(f.name)
	}
	if set("type") {
		switch strings.ToLower(strings.TrimSpace(f.acctType)) {
		case "asset":
			acct.Type = model.AccountTypeAsset
		case "liability":
			acct.Type = model.AccountTypeLiability
		default:
			return model.ValidationError{Field: "type", Reason: fmt.Sprintf("must be Asset or Liability, got %q", f.acctType)}
		}
	}
	if set("balance") {
		bal, err := decimal.NewFromString(strings.TrimSpace(f.balance))
		if err != nil {
			return model.ValidationError{Field: "balance", Reason: fmt.Sprintf("not a number: %q", f.balance)}
		}
		acct.Balance = bal
	}
	if set("bank") {
		acct.IsBank = f.isBank
	}

	if acct.Name == "" {
		return model.ValidationError{Field: "name", Reason: "required"}
	}
	return checkText("name", acct.Name)
}

func newAccountAddCommand(g *globalFlags) *cobra.Command {
	var f accountFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewAccounts)
			if err != nil {
				return err
			}

			acct := model.Account{ID: id.New(id.PrefixAccount)}
			if err := f.apply(cmd.Flags(), &acct, true); err != nil {
				return err
			}
			if err := a.store.AddAccount(acct); err != nil {
				return err
			}
			if err := a.persist(activitylog.ActionAccountAdd, acct.ID, acct.Name); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added account %s (%s)\n", acct.Name, acct.ID)
			return nil
		},
	}

	f.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newAccountEditCommand(g *globalFlags) *cobra.Command {
	var f accountFlags

	cmd := &cobra.Command{
		Use:   "edit <account-id>",
		Short: "Change an account's name, type, balance or bank flag",
		Long: "Change an account. Only the flags given are applied. Setting --balance overwrites " +
			"the stored balance; transactions are not touched.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewAccounts)
			if err != nil {
				return err
			}

			acct, ok := a.store.Account(args[0])
			if !ok {
				return model.ReferenceNotFoundError{Kind: "account", ID: args[0]}
			}
			if err := f.apply(cmd.Flags(), &acct, false); err != nil {
				return err
			}
			a.store.PutAccount(acct)
			if err := a.persist(activitylog.ActionAccountEdit, acct.ID, acct.Name); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated account %s (%s)\n", acct.Name, acct.ID)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newAccountDeleteCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Delete an account and every transaction posted to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewAccounts)
			if err != nil {
				return err
			}
			removed, err := a.store.DeleteAccount(args[0])
			if err != nil {
				return err
			}
			details := fmt.Sprintf("%d transactions removed", removed)
			if err := a.persist(activitylog.ActionAccountDelete, args[0], details); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Deleted account %s (%s)\n", args[0], details)
			return nil
		},
	}
}
