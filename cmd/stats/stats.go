// Package stats prints wallet statistics
package stats

import (
	"fmt"
	"strings"
	"time"

	"fjacquet/finance-ledger/cmd/root"
	"fjacquet/finance-ledger/internal/dateutils"
	"fjacquet/finance-ledger/internal/report"
	"fjacquet/finance-ledger/internal/statistics"
	"fjacquet/finance-ledger/internal/validation"

	"github.com/spf13/cobra"
)

var (
	format     string
	from       string
	to         string
	month      string
	categories []string
)

// Cmd represents the stats command
var Cmd = &cobra.Command{
	Use:   "stats",
	Short: "Show wallet statistics",
	Long: `Show totals, per-category breakdowns and budget usage.

With --categories only the named categories are summed; names that no
transaction uses are reported. With --from/--to the transactions dated in
that period (inclusive, YYYY-MM-DD) are listed; --month YYYY-MM selects a
whole calendar month.`,
	Args: cobra.NoArgs,
	RunE: statsFunc,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "Output format (text, json, yaml, xml)")
	Cmd.Flags().StringVar(&from, "from", "", "Start date (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&to, "to", "", "End date (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&month, "month", "", "Calendar month (YYYY-MM)")
	Cmd.Flags().StringSliceVarP(&categories, "categories", "c", nil, "Comma-separated category names")
}

func statsFunc(cmd *cobra.Command, args []string) error {
	if err := validation.OutputFormat(format); err != nil {
		return err
	}
	start, end, err := period()
	if err != nil {
		return err
	}
	session, err := root.Login(cmd.Context())
	if err != nil {
		return err
	}
	c, err := root.Container()
	if err != nil {
		return err
	}
	w := session.User.Wallet()
	out := cmd.OutOrStdout()

	if len(categories) > 0 {
		for _, name := range statistics.MissingCategories(w, categories) {
			fmt.Fprintf(out, "Category not found: %s\n", name)
		}
		fmt.Fprintf(out, "Income in %s: %s\n", strings.Join(categories, ", "),
			statistics.IncomeByCategories(w, categories).StringFixed(2))
		fmt.Fprintf(out, "Expenses in %s: %s\n", strings.Join(categories, ", "),
			statistics.ExpensesByCategories(w, categories).StringFixed(2))
		return nil
	}

	if !start.IsZero() || !end.IsZero() {
		txs := statistics.TransactionsInPeriod(w, start, end)
		fmt.Fprintf(out, "%d transactions\n", len(txs))
		for _, t := range txs {
			line := fmt.Sprintf("%s  %-7s  %-15s  %10s", t.Date().Format("2006-01-02 15:04"),
				t.Kind(), t.Category().Name(), t.Amount().StringFixed(2))
			if t.Description() != "" {
				line += "  " + t.Description()
			}
			fmt.Fprintln(out, line)
		}
		return nil
	}

	rendered, err := c.GetReportGenerator().GenerateReport(statistics.Summarize(w), format)
	if err != nil {
		return err
	}
	_, err = out.Write(rendered)
	return err
}

func period() (time.Time, time.Time, error) {
	if month != "" {
		if from != "" || to != "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--month cannot be combined with --from/--to")
		}
		return dateutils.MonthPeriod(month)
	}
	return dateutils.Period(from, to)
}
