package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockledger/stockledger/internal/auth"
	"github.com/stockledger/stockledger/internal/journal"
	"github.com/stockledger/stockledger/internal/model"
	"github.com/stockledger/stockledger/internal/report"
)

func newReportCommand(g *globalFlags) *cobra.Command {
	var reportType, groupBy, start, end, format, output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Sales, purchases and profitability reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewReports)
			if err != nil {
				return err
			}

			p, err := reportParams(reportType, groupBy, start, end, a.now())
			if err != nil {
				return err
			}
			r, err := report.Generate(a.store.Snapshot(), p)
			if err != nil {
				return err
			}

			switch format {
			case "markdown", "md":
				return a.render(r.Markdown(a.currency()))
			case "csv":
				return writeReport(a, r, output, "csv", func(w io.Writer) error { return r.WriteCSV(w, a.currency()) })
			case "xlsx":
				return writeReport(a, r, output, "xlsx", r.WriteXLSX)
			default:
				return fmt.Errorf("unknown format %q (want markdown, csv or xlsx)", format)
			}
		},
	}

	cmd.Flags().StringVar(&reportType, "type", string(report.TypeSales), "sales, purchases or profitability")
	cmd.Flags().StringVar(&groupBy, "group-by", string(report.GroupByItem), "item, size, location, day or month")
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD (default first of this month)")
	cmd.Flags().StringVar(&end, "end", "", "last day, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&format, "format", "markdown", "markdown, csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file for csv/xlsx (default <type>_report.<ext>, - for stdout)")
	return cmd
}

func reportParams(reportType, groupBy, start, end string, now time.Time) (report.Params, error) {
	t, err := report.ParseType(reportType)
	if err != nil {
		return report.Params{}, err
	}
	gb, err := report.ParseGroupBy(groupBy)
	if err != nil {
		return report.Params{}, err
	}

	p := report.Params{
		Type:    t,
		GroupBy: gb,
		Start:   time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		End:     now,
	}
	if start != "" {
		if p.Start, err = journal.ParseDay(start, now.Location()); err != nil {
			return report.Params{}, model.ValidationError{Field: "start", Reason: err.Error()}
		}
	}
	if end != "" {
		if p.End, err = journal.ParseDay(end, now.Location()); err != nil {
			return report.Params{}, model.ValidationError{Field: "end", Reason: err.Error()}
		}
	}
	return p, nil
}

func writeReport(a *app, r *report.Report, output, ext string, write func(io.Writer) error) error {
	if output == "-" {
		return write(a.out)
	}
	if output == "" {
		output = r.FileName(ext)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", output, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", output, err)
	}
	fmt.Fprintf(a.out, "Wrote %s (%d rows)\n", output, len(r.Rows))
	return nil
}

func newDashboardCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Net worth, cash flow and inventory value at a glance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, auth.ViewDashboard)
			if err != nil {
				return err
			}
			summary := report.Summarize(a.store.Snapshot())
			return a.render(summary.Markdown(a.cfg.Business.Name, a.currency()))
		},
	}
}
