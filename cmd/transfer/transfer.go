// Package transfer handles money transfers between users
package transfer

import (
	"fmt"
	"strings"

	"fjacquet/finance-ledger/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the transfer command
var Cmd = &cobra.Command{
	Use:   "transfer <recipient> <amount> [description...]",
	Short: "Transfer money to another user",
	Long: `Transfer money from the logged-in user to another registered user. The
sender records an EXPENSE and the recipient an INCOME, both in category "transfer".`,
	Args: cobra.MinimumNArgs(2),
	RunE: transferFunc,
}

func transferFunc(cmd *cobra.Command, args []string) error {
	amount, err := root.ParseAmount(args[1])
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

	recipient := strings.TrimSpace(args[0])
	result, err := c.GetTransferEngine().Transfer(cmd.Context(), session.User, recipient, amount, strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Transferred %s to %s\n", amount.StringFixed(2), recipient)
	fmt.Fprintf(out, "Balance: %s\n", result.SenderBalance.StringFixed(2))
	root.PrintNotifications(out)
	return nil
}
