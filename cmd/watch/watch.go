// Package watch prints ledger alerts forwarded over AMQP
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/finance-ledger/cmd/root"
	"fjacquet/finance-ledger/internal/amqp"

	"github.com/spf13/cobra"
)

// Cmd represents the watch command
var Cmd = &cobra.Command{
	Use:   "watch",
	Short: "Print alerts published to the AMQP alert queue",
	Long: `Consume the alert queue configured under amqp.* and print every alert
until interrupted. Requires amqp.url (or LEDGER_AMQP_URL).`,
	Args: cobra.NoArgs,
	RunE: watchFunc,
}

func watchFunc(cmd *cobra.Command, args []string) error {
	c, err := root.Container()
	if err != nil {
		return err
	}
	client := c.GetAMQPClient()
	if client == nil {
		return fmt.Errorf("AMQP is not configured or the broker is unreachable")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	err = client.ConsumeAlerts(ctx, func(msg *amqp.AlertMessage) error {
		_, werr := fmt.Fprintf(out, "%s [%s] %s: %s\n",
			msg.Timestamp.Format("2006-01-02 15:04:05"), msg.Kind, msg.UserID, msg.Message)
		return werr
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
