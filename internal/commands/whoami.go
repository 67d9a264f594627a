package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockledger/stockledger/internal/activitylog"
	"github.com/stockledger/stockledger/internal/auth"
)

var allViews = []auth.View{
	auth.ViewDashboard,
	auth.ViewAccounts,
	auth.ViewTransactions,
	auth.ViewInventory,
	auth.ViewReconciliation,
	auth.ViewReports,
	auth.ViewData,
}

func newWhoamiCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Check credentials and show what the user may access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewInventory)
			if err != nil {
				return err
			}
			var views []string
			for _, v := range allViews {
				if auth.CanAccess(a.user, v) {
					views = append(views, string(v))
				}
			}
			fmt.Fprintf(a.out, "%s (%s)\n", a.user.Username, a.user.Role)
			if !a.user.IsAdmin() {
				fmt.Fprintf(a.out, "location: %s\n", a.user.Location.Label())
			}
			fmt.Fprintf(a.out, "access: %s\n", strings.Join(views, ", "))
			return nil
		},
	}
}

func newActivityCommand(g *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent changes from the activity log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewDashboard)
			if err != nil {
				return err
			}
			entries, err := activitylog.Tail(a.root, limit)
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString("# Activity\n\n")
			if len(entries) == 0 {
				b.WriteString("No activity.\n")
				return a.render(b.String())
			}
			b.WriteString("| Time | User | Action | Record | Details |\n|---|---|---|---|---|\n")
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
					e.Timestamp.Local().Format("2006-01-02 15:04"), e.User, e.Action, e.EntityID, e.Details)
			}
			return a.render(b.String())
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries (0 for all)")
	return cmd
}
