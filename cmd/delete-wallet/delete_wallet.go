// Package deletewallet removes a user's stored wallet
package deletewallet

import (
	"fmt"

	"fjacquet/finance-ledger/cmd/root"

	"github.com/spf13/cobra"
)

var confirmed bool

// Cmd represents the delete-wallet command
var Cmd = &cobra.Command{
	Use:   "delete-wallet",
	Short: "Delete all transactions and budgets of the logged-in user",
	Args:  cobra.NoArgs,
	RunE:  deleteFunc,
}

func init() {
	Cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm deletion")
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	if !confirmed {
		return fmt.Errorf("refusing to delete the wallet without --yes")
	}
	session, err := root.Login(cmd.Context())
	if err != nil {
		return err
	}
	c, err := root.Container()
	if err != nil {
		return err
	}
	if err := c.GetBook().DeleteWallet(cmd.Context(), session.User); err != nil {
		return err
	}
	root.DiscardSession()
	fmt.Fprintf(cmd.OutOrStdout(), "Wallet of '%s' deleted\n", session.User.Username())
	return nil
}
