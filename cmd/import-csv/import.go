// Package importcsv loads transactions from a CSV export
package importcsv

import (
	"fmt"

	"fjacquet/finance-ledger/cmd/root"
	"fjacquet/finance-ledger/internal/common"

	"github.com/spf13/cobra"
)

var delimiter string

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import transactions from CSV",
	Long: `Import transactions from a CSV file in the export format. Rows whose ID
is already in the wallet are skipped; an invalid row rejects the whole file.`,
	Args: cobra.ExactArgs(1),
	RunE: importFunc,
}

func init() {
	Cmd.Flags().StringVar(&delimiter, "delimiter", "", "CSV delimiter (default csv.delimiter from config)")
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
	delim := c.GetCSVDelimiter()
	if delimiter != "" {
		delim = common.ParseDelimiter(delimiter)
	}
	n, err := c.GetBook().ImportTransactions(cmd.Context(), session.User, args[0], delim)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Imported %d transactions\n", n)
	fmt.Fprintf(out, "Balance: %s\n", session.User.Wallet().Balance().StringFixed(2))
	root.PrintNotifications(out)
	return nil
}
