package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig
	Log        LogConfig
	CRM        CRMConfig
	Inventory  InventoryConfig
	Slack      SlackConfig
	Sync       SyncConfig
	Dedup      DedupConfig
	Checkpoint CheckpointConfig
	HTTP       HTTPConfig
}

// AppConfig holds application-specific settings.
type AppConfig struct {
	Name string
	Env  string
	Port string
	// PublicURL is the externally reachable base URL of this process; the
	// inventory webhook subscription points at it.
	PublicURL string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// CRMConfig holds credentials and endpoints for the CRM system.
type CRMConfig struct {
	InstanceURL string
	APIVersion  string
	AccessToken string
}

// InventoryConfig holds credentials and endpoints for the inventory system.
type InventoryConfig struct {
	BaseURL               string
	CompanyID             string
	Token                 string
	APIVersion            string
	WebhookSubscriptionID string
}

// SlackConfig holds the notification channel settings. An empty token
// disables notifications.
type SlackConfig struct {
	Token   string
	Channel string
}

// SyncConfig holds the reconciliation cadence and trigger tolerances.
type SyncConfig struct {
	// Interval is the scheduler tick cadence.
	Interval time.Duration
	// OrderWindow and CustomerWindow are the trailing poll windows for the
	// CRM timestamp queries.
	OrderWindow    time.Duration
	CustomerWindow time.Duration
	// ProductWindow bounds how old an observed finished-flag transition may
	// be before it is ignored.
	ProductWindow time.Duration
	// ShipTolerance is the maximum age of a shipped timestamp for the
	// webhook propagation to fire.
	ShipTolerance time.Duration
	// Timezone is the business timezone the ship-recency check evaluates in.
	Timezone string
}

// DedupConfig selects and sizes the idempotency store.
type DedupConfig struct {
	// Backend is "memory", "redis" or "sqlite".
	Backend string
	// TTL bounds the processed-key set; sized to the maximum expected
	// propagation delay.
	TTL   time.Duration
	Redis RedisConfig
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CheckpointConfig enables the durable poll cursor. When disabled the
// process keeps best-effort, at-most-one-per-window semantics.
type CheckpointConfig struct {
	Enabled bool
	Path    string
}

// HTTPConfig holds HTTP server and outbound client settings.
type HTTPConfig struct {
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	ClientTimeout time.Duration
}

// Load loads configuration from a TOML file and environment variables.
// Priority (highest to lowest):
//  1. Environment variables with BRIDGE_ prefix (e.g. BRIDGE_CRM_ACCESS_TOKEN)
//  2. config.toml
//  3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("BRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:      v.GetString("app.name"),
			Env:       v.GetString("app.env"),
			Port:      v.GetString("app.port"),
			PublicURL: v.GetString("app.public_url"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		CRM: CRMConfig{
			InstanceURL: v.GetString("crm.instance_url"),
			APIVersion:  v.GetString("crm.api_version"),
			AccessToken: v.GetString("crm.access_token"),
		},
		Inventory: InventoryConfig{
			BaseURL:               v.GetString("inventory.base_url"),
			CompanyID:             v.GetString("inventory.company_id"),
			Token:                 v.GetString("inventory.token"),
			APIVersion:            v.GetString("inventory.api_version"),
			WebhookSubscriptionID: v.GetString("inventory.webhook_subscription_id"),
		},
		Slack: SlackConfig{
			Token:   v.GetString("slack.token"),
			Channel: v.GetString("slack.channel"),
		},
		Sync: SyncConfig{
			Interval:       v.GetDuration("sync.interval"),
			OrderWindow:    v.GetDuration("sync.order_window"),
			CustomerWindow: v.GetDuration("sync.customer_window"),
			ProductWindow:  v.GetDuration("sync.product_window"),
			ShipTolerance:  v.GetDuration("sync.ship_tolerance"),
			Timezone:       v.GetString("sync.timezone"),
		},
		Dedup: DedupConfig{
			Backend: v.GetString("dedup.backend"),
			TTL:     v.GetDuration("dedup.ttl"),
			Redis: RedisConfig{
				Host:     v.GetString("dedup.redis.host"),
				Port:     v.GetInt("dedup.redis.port"),
				Password: v.GetString("dedup.redis.password"),
				DB:       v.GetInt("dedup.redis.db"),
			},
		},
		Checkpoint: CheckpointConfig{
			Enabled: v.GetBool("checkpoint.enabled"),
			Path:    v.GetString("checkpoint.path"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:   v.GetDuration("http.read_timeout"),
			WriteTimeout:  v.GetDuration("http.write_timeout"),
			IdleTimeout:   v.GetDuration("http.idle_timeout"),
			ClientTimeout: v.GetDuration("http.client_timeout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "syncbridge")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "5000")
	v.SetDefault("app.public_url", "http://localhost:5000")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("crm.api_version", "v59.0")

	v.SetDefault("inventory.api_version", "2024-03-12")

	v.SetDefault("sync.interval", time.Minute)
	v.SetDefault("sync.order_window", time.Minute)
	v.SetDefault("sync.customer_window", time.Minute)
	v.SetDefault("sync.product_window", time.Minute)
	v.SetDefault("sync.ship_tolerance", 30*time.Second)
	v.SetDefault("sync.timezone", "America/New_York")

	v.SetDefault("dedup.backend", "memory")
	v.SetDefault("dedup.ttl", 24*time.Hour)
	v.SetDefault("dedup.redis.host", "localhost")
	v.SetDefault("dedup.redis.port", 6379)
	v.SetDefault("dedup.redis.db", 0)

	v.SetDefault("checkpoint.enabled", false)
	v.SetDefault("checkpoint.path", "syncbridge.db")

	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 15*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.client_timeout", 10*time.Second)
}

// Validate rejects inconsistent or incomplete configuration.
func (c *Config) Validate() error {
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("sync.interval must be positive, got %s", c.Sync.Interval)
	}
	if c.Sync.OrderWindow <= 0 || c.Sync.CustomerWindow <= 0 || c.Sync.ProductWindow <= 0 {
		return fmt.Errorf("sync windows must be positive")
	}
	if c.Sync.ShipTolerance <= 0 {
		return fmt.Errorf("sync.ship_tolerance must be positive, got %s", c.Sync.ShipTolerance)
	}
	if _, err := time.LoadLocation(c.Sync.Timezone); err != nil {
		return fmt.Errorf("sync.timezone %q: %w", c.Sync.Timezone, err)
	}
	switch c.Dedup.Backend {
	case "memory", "redis", "sqlite":
	default:
		return fmt.Errorf("dedup.backend must be memory, redis or sqlite, got %q", c.Dedup.Backend)
	}
	if c.Dedup.TTL <= 0 {
		return fmt.Errorf("dedup.ttl must be positive, got %s", c.Dedup.TTL)
	}
	if c.Dedup.Backend == "sqlite" && !c.Checkpoint.Enabled {
		return fmt.Errorf("dedup.backend sqlite requires checkpoint.enabled")
	}
	if c.CRM.InstanceURL != "" {
		if _, err := url.Parse(c.CRM.InstanceURL); err != nil {
			return fmt.Errorf("crm.instance_url: %w", err)
		}
	}
	if c.Inventory.BaseURL != "" {
		if _, err := url.Parse(c.Inventory.BaseURL); err != nil {
			return fmt.Errorf("inventory.base_url: %w", err)
		}
	}
	if c.HTTP.ClientTimeout <= 0 {
		return fmt.Errorf("http.client_timeout must be positive, got %s", c.HTTP.ClientTimeout)
	}
	return nil
}

// Location resolves the configured business timezone. Validate has already
// checked that it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Sync.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
