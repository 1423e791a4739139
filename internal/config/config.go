package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Looker    LookerConfig    `yaml:"looker" mapstructure:"looker"`
	Session   SessionConfig   `yaml:"session" mapstructure:"session"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the analytic warehouse backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds generation service settings.
type AnthropicConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	Model             string  `yaml:"model" mapstructure:"model"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// LookerConfig holds the embedded dashboard settings. ReportID is only
// required when the dashboard surface is used; the analysis CLI runs
// without it.
type LookerConfig struct {
	ReportID string `yaml:"report_id" mapstructure:"report_id"`
}

// SessionConfig configures per-session analysis behavior.
type SessionConfig struct {
	HistoryCapacity int `yaml:"history_capacity" mapstructure:"history_capacity"`
	LookbackDays    int `yaml:"lookback_days" mapstructure:"lookback_days"`
}

// CacheConfig holds dashboard cache TTLs in seconds.
type CacheConfig struct {
	SummaryTTLSecs int `yaml:"summary_ttl_secs" mapstructure:"summary_ttl_secs"`
	OptionsTTLSecs int `yaml:"options_ttl_secs" mapstructure:"options_ttl_secs"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ADLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.requests_per_second", 2.0)
	v.SetDefault("session.history_capacity", 10)
	v.SetDefault("session.lookback_days", 30)
	v.SetDefault("cache.summary_ttl_secs", 300)
	v.SetDefault("cache.options_ttl_secs", 600)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings every command needs. Dashboard-only
// settings are checked by the commands that use them.
func (c *Config) Validate() error {
	if c.Anthropic.Key == "" {
		return eris.New("config: anthropic.key is required (ADLENS_ANTHROPIC_KEY)")
	}
	if c.Store.DatabaseURL == "" {
		return eris.New("config: store.database_url is required (ADLENS_STORE_DATABASE_URL)")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
