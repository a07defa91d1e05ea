package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Boundary  BoundaryConfig  `yaml:"boundary" mapstructure:"boundary"`
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Reconcile ReconcileConfig `yaml:"reconcile" mapstructure:"reconcile"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// BoundaryConfig locates the district boundary dataset. Path may be a local
// file, a zip archive, or an http(s)/ftp URL.
type BoundaryConfig struct {
	Path         string `yaml:"path" mapstructure:"path"`
	Format       string `yaml:"format" mapstructure:"format"`
	NameProperty string `yaml:"name_property" mapstructure:"name_property"`
	Table        string `yaml:"table" mapstructure:"table"`
	CacheDir     string `yaml:"cache_dir" mapstructure:"cache_dir"`
}

// StoreConfig configures the optional boundary stores. When DatabaseURL is
// set, boundaries are read from PostgreSQL instead of Boundary.Path.
type StoreConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// ReconcileConfig configures tabular reconciliation.
type ReconcileConfig struct {
	Column       string `yaml:"column" mapstructure:"column"`
	Concurrency  int    `yaml:"concurrency" mapstructure:"concurrency"`
	ReportFormat string `yaml:"report_format" mapstructure:"report_format"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst   int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	MaxUploadMB int      `yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
}

// FetchConfig configures remote boundary downloads.
type FetchConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int `yaml:"max_retries" mapstructure:"max_retries"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DISTRICTVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("boundary.path", "data/districts.geojson")
	v.SetDefault("boundary.format", "auto")
	v.SetDefault("boundary.name_property", "district")
	v.SetDefault("boundary.table", "district_boundaries")
	v.SetDefault("boundary.cache_dir", "/tmp/districtviz")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.sqlite_path", "districtviz.db")
	v.SetDefault("reconcile.column", "")
	v.SetDefault("reconcile.concurrency", 4)
	v.SetDefault("reconcile.report_format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("fetch.timeout_secs", 120)
	v.SetDefault("fetch.max_retries", 3)
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

// Validate checks the settings a command mode depends on. Modes are
// "reconcile", "serve" and "import".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "reconcile":
		if c.Reconcile.Concurrency < 1 || c.Reconcile.Concurrency > 64 {
			problems = append(problems, "reconcile.concurrency must be between 1 and 64")
		}
		switch c.Reconcile.ReportFormat {
		case "json", "yaml":
		default:
			problems = append(problems, fmt.Sprintf("reconcile.report_format %q must be json or yaml", c.Reconcile.ReportFormat))
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			problems = append(problems, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RateLimit < 0 {
			problems = append(problems, "server.rate_limit must be >= 0")
		}
		if c.Server.MaxUploadMB <= 0 {
			problems = append(problems, "server.max_upload_mb must be > 0")
		}
	case "import":
		if c.Store.DatabaseURL == "" && c.Store.SQLitePath == "" {
			problems = append(problems, "store.database_url or store.sqlite_path is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Boundary.Path == "" && c.Store.DatabaseURL == "" {
		problems = append(problems, "boundary.path is required when store.database_url is empty")
	}

	if len(problems) > 0 {
		return eris.Errorf("config: invalid %s config: %s", mode, strings.Join(problems, "; "))
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
