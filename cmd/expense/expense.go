// Package expense handles expense postings
package expense

import (
	"fjacquet/finance-ledger/cmd/common"
	"fjacquet/finance-ledger/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the expense command
var Cmd = &cobra.Command{
	Use:   "expense <amount> <category> [description...]",
	Short: "Record an expense",
	Long: `Record an expense for the logged-in user. The category's budget, if any,
is charged and budget or balance warnings are printed.`,
	Args: common.PostingArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.Post(cmd, args, models.Expense)
	},
}
