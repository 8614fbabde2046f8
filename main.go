package main

import (
	"fmt"
	"os"

	"fjacquet/finance-ledger/cmd/balance"
	"fjacquet/finance-ledger/cmd/budget"
	deletewallet "fjacquet/finance-ledger/cmd/delete-wallet"
	"fjacquet/finance-ledger/cmd/expense"
	"fjacquet/finance-ledger/cmd/export"
	importcsv "fjacquet/finance-ledger/cmd/import-csv"
	"fjacquet/finance-ledger/cmd/income"
	"fjacquet/finance-ledger/cmd/register"
	"fjacquet/finance-ledger/cmd/root"
	"fjacquet/finance-ledger/cmd/stats"
	"fjacquet/finance-ledger/cmd/transfer"
	"fjacquet/finance-ledger/cmd/watch"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(register.Cmd)
	root.Cmd.AddCommand(income.Cmd)
	root.Cmd.AddCommand(expense.Cmd)
	root.Cmd.AddCommand(budget.Cmd)
	root.Cmd.AddCommand(transfer.Cmd)
	root.Cmd.AddCommand(balance.Cmd)
	root.Cmd.AddCommand(stats.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(importcsv.Cmd)
	root.Cmd.AddCommand(deletewallet.Cmd)
	root.Cmd.AddCommand(watch.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
