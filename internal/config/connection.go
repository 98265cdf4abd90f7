package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Backend names.
const (
	BackendNetBox = "netbox"
	BackendSQL    = "sql"
)

// DefaultConnectionName is the config file looked up when no path is given.
const DefaultConnectionName = "config"

// Connection holds the settings needed to reach the inventory backend.
type Connection struct {
	Backend  string             `mapstructure:"backend"`
	NetBox   NetBoxConnection   `mapstructure:"netbox"`
	Database DatabaseConnection `mapstructure:"database"`
	Timeouts Timeouts           `mapstructure:"timeouts"`
}

// NetBoxConnection configures the REST backend.
type NetBoxConnection struct {
	URL                string `mapstructure:"url"`
	APIToken           string `mapstructure:"api_token"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
}

// DatabaseConnection configures the SQL backend.
type DatabaseConnection struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// LoadConnection reads connection settings from path, or from config.yml in
// the working directory when path is empty. SITEPROV_* environment variables
// override file values, e.g. SITEPROV_NETBOX_API_TOKEN.
func LoadConnection(path string) (*Connection, error) {
	v := newConnectionViper()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConnectionName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read connection config: %w", err)
		}
	}

	return decodeConnection(v)
}

func newConnectionViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultTimeouts()
	v.SetDefault("backend", BackendNetBox)
	v.SetDefault("netbox.url", "")
	v.SetDefault("netbox.api_token", "")
	v.SetDefault("netbox.insecure_skip_verify", false)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("timeouts.request", defaults.Request)
	v.SetDefault("timeouts.retry_max_attempts", defaults.RetryMaxAttempts)
	v.SetDefault("timeouts.retry_initial_delay", defaults.RetryInitialDelay)
	v.SetDefault("timeouts.retry_max_delay", defaults.RetryMaxDelay)

	v.SetEnvPrefix("SITEPROV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

func decodeConnection(v *viper.Viper) (*Connection, error) {
	var conn Connection
	if err := v.Unmarshal(&conn); err != nil {
		return nil, fmt.Errorf("failed to decode connection config: %w", err)
	}

	if err := conn.Validate(); err != nil {
		return nil, fmt.Errorf("connection validation failed: %w", err)
	}
	return &conn, nil
}

// Validate checks that the selected backend is fully configured.
func (c *Connection) Validate() error {
	switch c.Backend {
	case BackendNetBox:
		if c.NetBox.URL == "" {
			return fmt.Errorf("netbox.url is required")
		}
		u, err := url.Parse(c.NetBox.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("netbox.url %q must be an absolute URL", c.NetBox.URL)
		}
		if c.NetBox.APIToken == "" {
			return fmt.Errorf("netbox.api_token is required")
		}
	case BackendSQL:
		switch c.Database.Driver {
		case "postgres", "mysql":
		default:
			return fmt.Errorf("unsupported database driver %q: must be postgres or mysql", c.Database.Driver)
		}
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required")
		}
	default:
		return fmt.Errorf("unsupported backend %q: must be %s or %s", c.Backend, BackendNetBox, BackendSQL)
	}

	return c.Timeouts.validate()
}
