// Package config loads service configuration. Environment variables are
// the primary source (APP_ prefix, underscores for nesting), with an
// optional YAML file underneath and defaults below that.
//
// The launcher variables keep their documented names:
//
//	APP_HTTP_HOST  bind host (default 0.0.0.0)
//	APP_HTTP_PORT  bind port (default 80)
//	APP_DEV_MODE   enables dev mode when truthy (default false)
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/soumetsu/soumetsu/internal/hcaptcha"
	"github.com/soumetsu/soumetsu/internal/metrics"
	"github.com/soumetsu/soumetsu/internal/storage"
	"github.com/soumetsu/soumetsu/pkg/sessions"
	"github.com/soumetsu/soumetsu/pkg/store"
)

// Config is the full service configuration.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// HTTP controls the API listener
	HTTP HTTPConfig `mapstructure:"http" yaml:"http"`

	// DevMode enables config hot-reload and developer conveniences.
	// Never enable in production.
	DevMode bool `mapstructure:"dev_mode" yaml:"dev_mode"`

	// CORS lists the allowed cross-origin request origins
	CORS CORSConfig `mapstructure:"cors" yaml:"cors"`

	// Database configures the primary store (PostgreSQL or SQLite)
	Database store.Config `mapstructure:"database" yaml:"database"`

	// Sessions configures the embedded session store
	Sessions sessions.Config `mapstructure:"sessions" yaml:"sessions"`

	// Storage configures where avatars and banners live
	Storage storage.Config `mapstructure:"storage" yaml:"storage"`

	// HCaptcha configures registration captcha checks
	HCaptcha hcaptcha.Config `mapstructure:"hcaptcha" yaml:"hcaptcha"`

	// RateLimit configures the per-IP request limiter
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`

	// Metrics configures the Prometheus listener
	Metrics metrics.Config `mapstructure:"metrics" yaml:"metrics"`

	// Uploads caps user file sizes
	Uploads UploadsConfig `mapstructure:"uploads" yaml:"uploads"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0" yaml:"shutdown_timeout"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level: DEBUG, INFO, WARN, ERROR
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`

	// Format is "text" or "json"
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output is "stdout", "stderr", or a file path
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// HTTPConfig controls the API listener.
type HTTPConfig struct {
	// Host is the bind host; 0.0.0.0 binds all interfaces
	Host string `mapstructure:"host" validate:"required" yaml:"host"`

	// Port is the bind port
	Port int `mapstructure:"port" validate:"required,min=1,max=65535" yaml:"port"`
}

// Addr returns the host:port listen address.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CORSConfig lists allowed origins. Empty means same-origin only.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// RateLimitConfig controls the per-IP fixed-window limiter.
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Requests int           `mapstructure:"requests" yaml:"requests"`
	Window   time.Duration `mapstructure:"window" yaml:"window"`
}

// UploadsConfig caps user file sizes.
type UploadsConfig struct {
	MaxAvatarBytes int64 `mapstructure:"max_avatar_bytes" yaml:"max_avatar_bytes"`
	MaxBannerBytes int64 `mapstructure:"max_banner_bytes" yaml:"max_banner_bytes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 80)
	v.SetDefault("dev_mode", false)

	v.SetDefault("cors.allowed_origins", []string{})

	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.sqlite.path", "data/soumetsu.db")
	v.SetDefault("database.postgres.host", "")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "")
	v.SetDefault("database.postgres.user", "")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.postgres.ssl_mode", "disable")

	v.SetDefault("sessions.path", "data/sessions")
	v.SetDefault("sessions.ttl", sessions.DefaultTTL)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local.path", "data/files")
	v.SetDefault("storage.s3.bucket", "")
	v.SetDefault("storage.s3.region", "")
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.access_key_id", "")
	v.SetDefault("storage.s3.secret_access_key", "")

	v.SetDefault("hcaptcha.enabled", false)
	v.SetDefault("hcaptcha.secret", "")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 300)
	v.SetDefault("rate_limit.window", time.Minute)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", ":9100")

	v.SetDefault("uploads.max_avatar_bytes", 2<<20)
	v.SetDefault("uploads.max_banner_bytes", 5<<20)

	v.SetDefault("shutdown_timeout", 30*time.Second)
}

// Load reads configuration from the environment and, when path is not
// empty, a YAML file. Environment variables win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	var cfg Config
	decodeHooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHooks)); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	// Dev mode turns the limiter off unless explicitly re-enabled.
	if cfg.DevMode && !v.IsSet("rate_limit.enabled") {
		cfg.RateLimit.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks structural constraints via validator tags plus the
// cross-field rules tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.HCaptcha.Enabled && c.HCaptcha.Secret == "" {
		return fmt.Errorf("invalid configuration: hcaptcha enabled without a secret")
	}

	if c.RateLimit.Enabled && (c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid configuration: rate limit requires positive requests and window")
	}

	return nil
}
