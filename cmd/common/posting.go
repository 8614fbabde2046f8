// Package common contains shared functionality for command handlers
package common

import (
	"fmt"
	"strings"

	"fjacquet/finance-ledger/cmd/root"
	"fjacquet/finance-ledger/internal/models"

	"github.com/spf13/cobra"
)

// PostingArgs validates "<amount> <category> [description...]".
var PostingArgs = cobra.MinimumNArgs(2)

// Post records an income or expense for the logged-in user and prints the
// resulting balance followed by any alerts.
func Post(cmd *cobra.Command, args []string, kind models.TransactionType) error {
	amount, err := root.ParseAmount(args[0])
	if err != nil {
		return err
	}
	category := args[1]
	description := strings.Join(args[2:], " ")

	session, err := root.Login(cmd.Context())
	if err != nil {
		return err
	}
	c, err := root.Container()
	if err != nil {
		return err
	}

	var tx models.Transaction
	if kind == models.Income {
		tx, err = c.GetBook().Income(cmd.Context(), session.User, amount, category, description)
	} else {
		tx, err = c.GetBook().Expense(cmd.Context(), session.User, amount, category, description)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Recorded %s of %s in '%s' (%s)\n",
		strings.ToLower(kind.String()), tx.Amount().StringFixed(2), tx.Category().Name(), tx.ID())
	fmt.Fprintf(out, "Balance: %s\n", session.User.Wallet().Balance().StringFixed(2))
	root.PrintNotifications(out)
	return nil
}
