// Package budget handles budget management commands
package budget

import (
	"fmt"
	"text/tabwriter"

	"fjacquet/finance-ledger/cmd/root"
	"fjacquet/finance-ledger/internal/statistics"

	"github.com/spf13/cobra"
)

// Cmd represents the budget command
var Cmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage per-category budgets",
	Long:  `Set, edit, delete, list and import spending limits per expense category.`,
}

var setCmd = &cobra.Command{
	Use:     "set <category> <limit>",
	Aliases: []string{"edit"},
	Short:   "Create or update a budget",
	Long:    `Create a budget or change its limit. What was already spent is kept.`,
	Args:    cobra.ExactArgs(2),
	RunE:    setFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <category>",
	Short: "Delete a budget",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List budgets with spent and remaining amounts",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Apply budgets from a YAML plan",
	Long: `Apply a YAML budget plan, either a "budgets:" list or a bare list of
{category, limit} entries. An invalid entry rejects the whole plan.`,
	Args: cobra.ExactArgs(1),
	RunE: importFunc,
}

func init() {
	Cmd.AddCommand(setCmd, deleteCmd, listCmd, importCmd)
}

func setFunc(cmd *cobra.Command, args []string) error {
	limit, err := root.ParseAmount(args[1])
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
	b, err := c.GetBook().SetBudget(cmd.Context(), session.User, args[0], limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Budget '%s': limit %s, spent %s, remaining %s\n",
		b.Category().Name(), b.Limit().StringFixed(2), b.Spent().StringFixed(2), b.Remaining().StringFixed(2))
	c.GetNotifier().CheckBudget(session.User.Username(), b)
	root.PrintNotifications(out)
	return nil
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	session, err := root.Login(cmd.Context())
	if err != nil {
		return err
	}
	c, err := root.Container()
	if err != nil {
		return err
	}
	removed, err := c.GetBook().DeleteBudget(cmd.Context(), session.User, args[0])
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintf(cmd.OutOrStdout(), "Budget '%s' deleted\n", args[0])
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "No budget for '%s'\n", args[0])
	}
	return nil
}

func listFunc(cmd *cobra.Command, args []string) error {
	session, err := root.Login(cmd.Context())
	if err != nil {
		return err
	}
	lines := statistics.BudgetSummary(session.User.Wallet())
	out := cmd.OutOrStdout()
	if len(lines) == 0 {
		fmt.Fprintln(out, "No budgets")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tLIMIT\tSPENT\tREMAINING\tUSAGE")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%%\n", l.Category,
			l.Limit.StringFixed(2), l.Spent.StringFixed(2), l.Remaining.StringFixed(2), l.Usage.StringFixed(1))
	}
	return tw.Flush()
}

func importFunc(cmd *cobra.Command, args []string) error {
	session, err := root.Login(cmd.Context())
	if err != nil {
		return err
	}
	c, err := root.Container()
	if err != nil {
		return err
	}
	n, err := c.GetBook().ImportBudgets(cmd.Context(), session.User, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d budgets\n", n)
	return nil
}
