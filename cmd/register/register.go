// Package register handles user registration
package register

import (
	"fmt"

	"fjacquet/finance-ledger/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the register command
var Cmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new user",
	Long: `Register the user given by --user with the password from --password.
Usernames are 3-20 alphanumeric characters; passwords need at least 6 characters.`,
	Args: cobra.NoArgs,
	RunE: registerFunc,
}

func registerFunc(cmd *cobra.Command, args []string) error {
	c, err := root.Container()
	if err != nil {
		return err
	}
	user, err := c.GetAuth().Register(root.SharedFlags.User, root.Password())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "User '%s' registered\n", user.Username())
	return nil
}
