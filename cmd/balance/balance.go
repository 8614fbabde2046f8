// Package balance prints the logged-in user's wallet state
package balance

import (
	"fmt"

	"fjacquet/finance-ledger/cmd/root"
	"fjacquet/finance-ledger/internal/statistics"

	"github.com/spf13/cobra"
)

// Cmd represents the balance command
var Cmd = &cobra.Command{
	Use:   "balance",
	Short: "Show balance, totals and warnings",
	Args:  cobra.NoArgs,
	RunE:  balanceFunc,
}

func balanceFunc(cmd *cobra.Command, args []string) error {
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
	fmt.Fprintf(out, "Balance: %s\n", w.Balance().StringFixed(2))
	fmt.Fprintf(out, "Total income: %s\n", statistics.TotalIncome(w).StringFixed(2))
	fmt.Fprintf(out, "Total expenses: %s\n", statistics.TotalExpenses(w).StringFixed(2))

	n := c.GetNotifier()
	for _, b := range w.Budgets() {
		n.CheckBudget(w.UserID(), b)
	}
	n.CheckBalance(w)
	root.PrintNotifications(out)
	return nil
}
