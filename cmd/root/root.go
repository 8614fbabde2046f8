// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"fjacquet/finance-ledger/internal/auth"
	"fjacquet/finance-ledger/internal/config"
	"fjacquet/finance-ledger/internal/container"
	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/money"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// PasswordEnv is read when --password is not given.
const PasswordEnv = "LEDGER_PASSWORD"

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	User       string
	Password   string
	DataDir    string
	ConfigFile string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer is built before every command runs.
	AppContainer *container.Container

	// ContainerOptions are passed to container.NewContainer; tests use it to lower bcrypt cost.
	ContainerOptions []container.Option

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "finance-ledger",
		Short: "A personal finance ledger with budgets and transfers between users.",
		Long: `finance-ledger keeps one wallet per user: income and expense postings,
per-category budgets with warnings, and transfers between registered users.
Wallets are stored as JSON files (or in SQLite) under the data directory.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// PersistentPostRunE is skipped when a command fails.
			if err := Close(); err != nil {
				Log.WithError(err).Warn("Failed to close previous container")
			}
			if loaded := config.LoadEnv(); loaded != "" {
				Log.Debug("Loaded environment", logging.F(logging.FieldFile, loaded))
			}
			cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
			if err != nil {
				return err
			}
			if SharedFlags.DataDir != "" {
				cfg.Data.Directory = SharedFlags.DataDir
			}
			c, err := container.NewContainer(cfg, ContainerOptions...)
			if err != nil {
				return err
			}
			AppContainer = c
			Log = c.GetLogger()
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if err := Logout(cmd.Context()); err != nil {
				_ = Close()
				return err
			}
			return Close()
		},
	}

	// Common flags accessible to all commands
	SharedFlags = CommonFlags{}

	session *auth.Session

	initOnce sync.Once
)

// Init initializes the root command and all flags. It is safe to call more than once.
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVarP(&SharedFlags.User, "user", "u", "", "Username")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.Password, "password", "p", "", "Password (or set "+PasswordEnv+")")
		Cmd.PersistentFlags().StringVarP(&SharedFlags.DataDir, "data-dir", "d", "", "Data directory (overrides data.directory)")
		Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default searches $HOME/.finance-ledger, .finance-ledger, .)")
	})
}

// Close releases the container built for the last command.
func Close() error {
	if AppContainer == nil {
		return nil
	}
	err := AppContainer.Close()
	AppContainer = nil
	session = nil
	return err
}

// Container returns the container or an error if no command set it up.
func Container() (*container.Container, error) {
	if AppContainer == nil {
		return nil, fmt.Errorf("container not initialized")
	}
	return AppContainer, nil
}

// Login opens a session for the --user/--password pair.
func Login(ctx context.Context) (*auth.Session, error) {
	c, err := Container()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(SharedFlags.User) == "" {
		return nil, fmt.Errorf("--user is required")
	}
	s, err := c.GetAuth().Login(ctx, SharedFlags.User, Password())
	if err != nil {
		return nil, err
	}
	session = s
	return s, nil
}

// DiscardSession drops the current session so the wallet is not saved on exit.
func DiscardSession() {
	session = nil
}

// Logout ends the session opened by Login. Without a session it does nothing.
func Logout(ctx context.Context) error {
	if session == nil || AppContainer == nil {
		return nil
	}
	s := session
	session = nil
	return AppContainer.GetAuth().Logout(ctx, s)
}

// Password returns --password, falling back to the environment.
func Password() string {
	if SharedFlags.Password != "" {
		return SharedFlags.Password
	}
	return config.GetEnv(PasswordEnv, "")
}

// ParseAmount parses a positive decimal amount from the command line.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := money.Parse(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return amount, nil
}

// PrintNotifications writes and clears the alerts raised during the command.
func PrintNotifications(w io.Writer) {
	if AppContainer == nil {
		return
	}
	for _, n := range AppContainer.GetNotifier().Drain() {
		fmt.Fprintln(w, n)
	}
}
