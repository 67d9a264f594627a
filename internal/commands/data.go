package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stockledger/stockledger/internal/activitylog"
	"github.com/stockledger/stockledger/internal/auth"
	"github.com/stockledger/stockledger/internal/importer"
)

func newImportCommand(g *globalFlags) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Merge CSV files into the data (default: everything in <data>/import)",
		Long: "Merge accounts, inventory or transactions CSV files into the data. Records whose id " +
			"already exists are skipped; invalid rows are reported and dropped. With no arguments, " +
			"every CSV in <data>/import is imported and moved to <data>/import/processed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewData)
			if err != nil {
				return err
			}
			reg := importer.DefaultRegistry()

			var results []importer.Result
			if len(args) == 0 {
				results, err = reg.Run(a.dataDir(), a.store, a.log)
				if err != nil {
					return err
				}
			} else {
				for _, path := range args {
					res, err := importPath(reg, a, path, kind)
					if err != nil {
						return err
					}
					results = append(results, res)
				}
			}

			if len(results) == 0 {
				fmt.Fprintln(a.out, "Nothing to import.")
				return nil
			}

			added := 0
			for _, res := range results {
				fmt.Fprintf(a.out, "%s: %s added %d, skipped %d, rejected %d\n",
					res.File, res.Kind, res.Stats.Added, res.Stats.Skipped, len(res.Rejected))
				for _, re := range res.Rejected {
					fmt.Fprintf(a.out, "  %s\n", re.Error())
				}
				added += res.Stats.Added
			}
			details := fmt.Sprintf("%d files, %d records added", len(results), added)
			return a.persist(activitylog.ActionImport, results[0].File, details)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "accounts, inventory or transactions (default: detect from header)")
	return cmd
}

func importPath(reg *importer.Registry, a *app, path, kind string) (importer.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return importer.Result{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	res, err := reg.Import(a.store, f, kind)
	if err != nil {
		return importer.Result{}, fmt.Errorf("%s: %w", path, err)
	}
	res.File = filepath.Base(path)
	return res, nil
}

func newExportCommand(g *globalFlags) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write accounts.csv, inventory.csv and transactions.csv to a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewData)
			if err != nil {
				return err
			}
			if dir == "" {
				dir = filepath.Join(a.root, "exports")
			}
			if err := a.store.Save(dir); err != nil {
				return err
			}
			accts, items, txns := a.store.Counts()
			fmt.Fprintf(a.out, "Exported %d accounts, %d items, %d transactions to %s\n", accts, items, txns, dir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory (default <project>/exports)")
	return cmd
}
