// Package income handles income postings
package income

import (
	"fjacquet/finance-ledger/cmd/common"
	"fjacquet/finance-ledger/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the income command
var Cmd = &cobra.Command{
	Use:   "income <amount> <category> [description...]",
	Short: "Record an income",
	Long:  `Record an income for the logged-in user and raise the wallet balance.`,
	Args:  common.PostingArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return common.Post(cmd, args, models.Income)
	},
}
