// Package container provides dependency injection for the finance-ledger application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/finance-ledger/internal/amqp"
	"fjacquet/finance-ledger/internal/auth"
	"fjacquet/finance-ledger/internal/book"
	"fjacquet/finance-ledger/internal/common"
	"fjacquet/finance-ledger/internal/config"
	"fjacquet/finance-ledger/internal/ledger"
	"fjacquet/finance-ledger/internal/logging"
	"fjacquet/finance-ledger/internal/notify"
	"fjacquet/finance-ledger/internal/report"
	"fjacquet/finance-ledger/internal/store"
	"fjacquet/finance-ledger/internal/transfer"
	"fjacquet/finance-ledger/internal/userdir"
	"fjacquet/finance-ledger/internal/userlock"
)

// Option adjusts how NewContainer builds dependencies.
type Option func(*options)

type options struct {
	logger     logging.Logger
	authOpts   []auth.Option
	skipAMQP   bool
	walletRepo store.WalletStore
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithAuthOptions passes options to the auth service.
func WithAuthOptions(opts ...auth.Option) Option {
	return func(o *options) { o.authOpts = append(o.authOpts, opts...) }
}

// WithWalletStore replaces the configured wallet store backend.
func WithWalletStore(s store.WalletStore) Option {
	return func(o *options) { o.walletRepo = s }
}

// WithoutAMQP disables alert forwarding even when amqp.url is set.
func WithoutAMQP() Option {
	return func(o *options) { o.skipAMQP = true }
}

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger logging.Logger
	config *config.Config

	wallets   store.WalletStore
	users     *userdir.Directory
	locks     *userlock.Manager
	notifier  *notify.Service
	amqp      *amqp.Client
	poster    *ledger.Poster
	budgets   *ledger.Budgets
	transfers *transfer.Engine
	auth      *auth.Service
	book      *book.Book
	reports   *report.ReportGenerator
	delimiter rune
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	wallets := o.walletRepo
	if wallets == nil {
		var err error
		wallets, err = newWalletStore(cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	users, err := userdir.NewPersistent(cfg.UsersFile(), logger)
	if err != nil {
		closeStore(wallets)
		return nil, fmt.Errorf("failed to open user directory: %w", err)
	}

	var publishers []notify.Publisher
	var amqpClient *amqp.Client
	if cfg.AMQPEnabled() && !o.skipAMQP {
		amqpClient, err = amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, logger)
		if err != nil {
			logger.WithError(err).Warn("Alert forwarding disabled, AMQP broker unavailable")
		} else {
			publishers = append(publishers, notify.NewAMQPPublisher(amqpClient))
			logger.Debug("Alert forwarding enabled", logging.F(logging.FieldExchange, cfg.AMQP.Exchange))
		}
	}

	locks := userlock.NewManager(userlock.WithLockDir(cfg.Data.Directory))
	notifier := notify.NewService(cfg.Notifications.WarningThreshold, logger, publishers...)
	poster := ledger.NewPoster(notifier, logger)
	budgets := ledger.NewBudgets(logger)

	c := &Container{
		logger:    logger,
		config:    cfg,
		wallets:   wallets,
		users:     users,
		locks:     locks,
		notifier:  notifier,
		amqp:      amqpClient,
		poster:    poster,
		budgets:   budgets,
		transfers: transfer.NewEngine(wallets, users, locks, poster, logger, transfer.WithSenderReload(cfg.Transfer.ReloadSender)),
		auth:      auth.NewService(users, wallets, logger, o.authOpts...),
		book:      book.New(wallets, locks, poster, budgets, logger),
		reports:   report.NewReportGenerator(logger),
		delimiter: common.ParseDelimiter(cfg.CSV.Delimiter),
	}

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldBackend, cfg.Store.Backend),
		logging.F("amqp_enabled", amqpClient != nil))
	return c, nil
}

func newWalletStore(cfg *config.Config, logger logging.Logger) (store.WalletStore, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		s, err := store.NewSQLiteStore(cfg.SQLitePath(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return s, nil
	case config.BackendJSON, "":
		return store.NewJSONStore(cfg.Data.Directory, logger), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

type closer interface {
	Close() error
}

func closeStore(s store.WalletStore) error {
	if c, ok := s.(closer); ok {
		return c.Close()
	}
	return nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger { return c.logger }

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config { return c.config }

// GetWalletStore returns the configured wallet store.
func (c *Container) GetWalletStore() store.WalletStore { return c.wallets }

// GetUserDirectory returns the user registry.
func (c *Container) GetUserDirectory() *userdir.Directory { return c.users }

// GetLocks returns the per-user lock manager shared by the book and the transfer engine.
func (c *Container) GetLocks() *userlock.Manager { return c.locks }

// GetNotifier returns the notification service.
func (c *Container) GetNotifier() *notify.Service { return c.notifier }

// GetAMQPClient returns the RabbitMQ client, or nil when forwarding is off.
func (c *Container) GetAMQPClient() *amqp.Client { return c.amqp }

// GetPoster returns the posting service.
func (c *Container) GetPoster() *ledger.Poster { return c.poster }

// GetBudgets returns the budget service.
func (c *Container) GetBudgets() *ledger.Budgets { return c.budgets }

// GetTransferEngine returns the transfer engine.
func (c *Container) GetTransferEngine() *transfer.Engine { return c.transfers }

// GetAuth returns the auth service.
func (c *Container) GetAuth() *auth.Service { return c.auth }

// GetBook returns the session-level ledger façade.
func (c *Container) GetBook() *book.Book { return c.book }

// GetReportGenerator returns the statistics renderer.
func (c *Container) GetReportGenerator() *report.ReportGenerator { return c.reports }

// GetCSVDelimiter returns the configured CSV delimiter.
func (c *Container) GetCSVDelimiter() rune { return c.delimiter }

// Close flushes pending alert forwarding, then releases the AMQP connection and the store.
func (c *Container) Close() error {
	c.notifier.Close()
	var firstErr error
	if c.amqp != nil {
		if err := c.amqp.Close(); err != nil {
			firstErr = err
		}
	}
	if err := closeStore(c.wallets); err != nil && firstErr == nil {
		firstErr = err
	}
	c.logger.Debug("Container closed")
	return firstErr
}
