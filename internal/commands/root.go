package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stockledger/stockledger/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "stockledger",
		Short:   "Small business bookkeeping and multi-location inventory",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", defaultConfigPath(), "path to stockledger.yaml")
	pf.StringVarP(&g.username, "user", "u", os.Getenv("STOCKLEDGER_USER"), "username (or $STOCKLEDGER_USER)")
	pf.StringVarP(&g.password, "password", "p", os.Getenv("STOCKLEDGER_PASSWORD"), "password (or $STOCKLEDGER_PASSWORD)")

	rootCmd.AddCommand(
		newInitCommand(),
		newWhoamiCommand(g),
		newAccountCommand(g),
		newItemCommand(g),
		newTxnCommand(g),
		newMovementCommand(g, "sale"),
		newMovementCommand(g, "purchase"),
		newReconcileCommand(g),
		newReportCommand(g),
		newDashboardCommand(g),
		newImportCommand(g),
		newExportCommand(g),
		newActivityCommand(g),
	)

	return rootCmd
}
