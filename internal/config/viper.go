// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LEDGER_LOG_LEVEL.
const EnvPrefix = "LEDGER"

// Store backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Data struct {
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"data" yaml:"data"`

	Store struct {
		Backend    string `mapstructure:"backend" yaml:"backend"`
		SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	} `mapstructure:"store" yaml:"store"`

	Users struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"users" yaml:"users"`

	Notifications struct {
		WarningThreshold float64 `mapstructure:"warning_threshold" yaml:"warning_threshold"`
	} `mapstructure:"notifications" yaml:"notifications"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Transfer struct {
		ReloadSender bool `mapstructure:"reload_sender" yaml:"reload_sender"`
	} `mapstructure:"transfer" yaml:"transfer"`

	AMQP struct {
		URL      string `mapstructure:"url" yaml:"-"` // may carry credentials
		Exchange string `mapstructure:"exchange" yaml:"exchange"`
		Queue    string `mapstructure:"queue" yaml:"queue"`
	} `mapstructure:"amqp" yaml:"amqp"`
}

// AMQPEnabled reports whether alerts should be forwarded to RabbitMQ.
func (c *Config) AMQPEnabled() bool {
	return c.AMQP.URL != ""
}

// UsersFile is the user registry path, defaulting to users.yaml in the data directory.
func (c *Config) UsersFile() string {
	if c.Users.File != "" {
		return c.Users.File
	}
	return filepath.Join(c.Data.Directory, "users.yaml")
}

// SQLitePath is the database path, defaulting to ledger.db in the data directory.
func (c *Config) SQLitePath() string {
	if c.Store.SQLitePath != "" {
		return c.Store.SQLitePath
	}
	return filepath.Join(c.Data.Directory, "ledger.db")
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// configFile, when non-empty, replaces the search paths.
func InitializeConfig(configFile ...string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if len(configFile) > 0 && configFile[0] != "" {
		v.SetConfigFile(configFile[0])
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.finance-ledger")
		v.AddConfigPath(".finance-ledger")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if len(configFile) > 0 && configFile[0] != "" {
				return nil, fmt.Errorf("failed to read config file %s: %w", configFile[0], err)
			}
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.Log.Level = strings.ToLower(config.Log.Level)
	config.Log.Format = strings.ToLower(config.Log.Format)
	config.Store.Backend = strings.ToLower(config.Store.Backend)

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("data.directory", "data")

	v.SetDefault("store.backend", BackendJSON)
	v.SetDefault("store.sqlite_path", "")

	v.SetDefault("users.file", "")

	v.SetDefault("notifications.warning_threshold", 0.8)

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("transfer.reload_sender", true)

	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "finance-ledger")
	v.SetDefault("amqp.queue", "ledger.alerts")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if strings.TrimSpace(config.Data.Directory) == "" {
		return fmt.Errorf("data.directory must not be empty")
	}

	if config.Store.Backend != BackendJSON && config.Store.Backend != BackendSQLite {
		return fmt.Errorf("invalid store backend: %s (must be '%s' or '%s')", config.Store.Backend, BackendJSON, BackendSQLite)
	}

	if config.Notifications.WarningThreshold <= 0.0 || config.Notifications.WarningThreshold > 1.0 {
		return fmt.Errorf("notifications.warning_threshold must be in (0.0, 1.0], got: %f", config.Notifications.WarningThreshold)
	}

	if d := config.CSV.Delimiter; len([]rune(d)) != 1 && d != `\t` && d != "tab" {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.AMQPEnabled() {
		u, err := url.Parse(config.AMQP.URL)
		if err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			return fmt.Errorf("amqp.url must be an amqp:// or amqps:// URL")
		}
		if config.AMQP.Exchange == "" || config.AMQP.Queue == "" {
			return fmt.Errorf("amqp.exchange and amqp.queue are required when amqp.url is set")
		}
	}

	return nil
}
