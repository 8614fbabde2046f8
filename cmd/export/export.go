// Package export writes a wallet's transactions to CSV
package export

import (
	"fmt"

	"fjacquet/finance-ledger/cmd/root"
	"fjacquet/finance-ledger/internal/common"

	"github.com/spf13/cobra"
)

var delimiter string

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export <file.csv>",
	Short: "Export transactions to CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  exportFunc,
}

func init() {
	Cmd.Flags().StringVar(&delimiter, "delimiter", "", "CSV delimiter (default csv.delimiter from config)")
}

func exportFunc(cmd *cobra.Command, args []string) error {
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
	n, err := c.GetBook().ExportTransactions(cmd.Context(), session.User, args[0], delim)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", n, args[0])
	return nil
}
