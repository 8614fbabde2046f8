package report

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"text/tabwriter"

	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/statistics"

	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXML  = "xml"
)

// ReportGenerator renders statistics summaries in various formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	return &ReportGenerator{
		logger: logging.OrDefault(logger).WithField("component", "ReportGenerator"),
	}
}

// GenerateReport renders summary in the given format (text, json, yaml or xml).
func (g *ReportGenerator) GenerateReport(summary statistics.Summary, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return g.generateTextReport(summary), nil
	case FormatJSON:
		return g.generateJSONReport(summary)
	case FormatYAML:
		return g.generateYAMLReport(summary)
	case FormatXML:
		return g.generateXMLReport(summary)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateJSONReport(summary statistics.Summary) ([]byte, error) {
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}

func (g *ReportGenerator) generateYAMLReport(summary statistics.Summary) ([]byte, error) {
	out, err := yaml.Marshal(summary)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}

func (g *ReportGenerator) generateXMLReport(summary statistics.Summary) ([]byte, error) {
	out, err := xml.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal XML report")
		return nil, fmt.Errorf("failed to marshal XML report: %w", err)
	}
	return []byte(xml.Header + string(out)), nil
}

func (g *ReportGenerator) generateTextReport(s statistics.Summary) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Wallet: %s\n", s.UserID)
	fmt.Fprintf(&buf, "Balance: %s\n", s.Balance.StringFixed(2))
	fmt.Fprintf(&buf, "Total income: %s\n", s.TotalIncome.StringFixed(2))
	fmt.Fprintf(&buf, "Total expenses: %s\n", s.TotalExpenses.StringFixed(2))
	fmt.Fprintf(&buf, "Transactions: %d\n", s.Transactions)

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	writeTotals(tw, "Income by category", s.Income)
	writeTotals(tw, "Expenses by category", s.Expenses)
	if len(s.Budgets) > 0 {
		fmt.Fprintln(tw, "\nBudgets")
		fmt.Fprintln(tw, "CATEGORY\tLIMIT\tSPENT\tREMAINING\tUSAGE\t")
		for _, b := range s.Budgets {
			flag := ""
			if b.Exceeded {
				flag = "EXCEEDED"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\t%s\n", b.Category,
				b.Limit.StringFixed(2), b.Spent.StringFixed(2), b.Remaining.StringFixed(2), b.Usage.StringFixed(1), flag)
		}
	}
	_ = tw.Flush()
	return buf.Bytes()
}

func writeTotals(tw *tabwriter.Writer, title string, totals []statistics.CategoryTotal) {
	if len(totals) == 0 {
		return
	}
	fmt.Fprintf(tw, "\n%s\n", title)
	for _, t := range totals {
		fmt.Fprintf(tw, "%s\t%s\t(%d)\t\n", t.Category, t.Total.StringFixed(2), t.Count)
	}
}
