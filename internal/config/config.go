package config

import (
	"os"
	"strings"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the default User-Agent string sent with all HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0"

// DefaultCatalogDomain is the base URL of the legacy catalog site.
const DefaultCatalogDomain = "http://animesub.info"

// Config holds everything needed to talk to the catalog site and to log.
type Config struct {
	CatalogDomain string `mapstructure:"catalog_domain"`
	ClientTimeout string `mapstructure:"client_timeout"` // Go duration string like "30s", "1h", etc.
	UserAgent     string `mapstructure:"user_agent"`
	LogLevel      string `mapstructure:"log_level"`
	SentryDSN     string `mapstructure:"sentry_dsn"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	// Parse and set log level from config
	level := zerolog.InfoLevel // default
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	// Set the global log level
	zerolog.SetGlobalLevel(level)

	// Update logger with the configured level
	logger = logger.Level(level)

	logger.Info().Str("level", level.String()).Msg("Logging configured")
	globalConfig = config
	logger.Info().Msg("Configuration loaded successfully")
}

// LoadConfig reads config.yaml (if present) and APP_-prefixed environment
// variables into a Config, filling defaults for anything left unset.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("log_level", "LOG_LEVEL")
	_ = viper.BindEnv("catalog_domain", "CATALOG_DOMAIN")
	_ = viper.BindEnv("sentry_dsn", "SENTRY_DSN")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.CatalogDomain == "" {
		config.CatalogDomain = DefaultCatalogDomain
	}
	if config.ClientTimeout == "" {
		config.ClientTimeout = "30s"
	}

	return &config, nil
}

// GetConfig returns the process-wide Config loaded at init time.
func GetConfig() *Config {
	return globalConfig
}

// GetUserAgent returns the configured User-Agent, or DefaultUserAgent.
func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

// GetLogger returns the process-wide zerolog.Logger.
func GetLogger() zerolog.Logger {
	return logger
}

var sentryInitOnce sync.Once

// EnsureSentry lazily runs sentry.Init from the configured DSN the first
// time it's called, and is a no-op (returning false) when no DSN is set.
// The library itself never calls this; it exists for the CLI to invoke at
// its own boundary, so importing this package has no side effects for a
// caller embedding the library.
func EnsureSentry() bool {
	if globalConfig == nil || globalConfig.SentryDSN == "" {
		return false
	}
	var initErr error
	sentryInitOnce.Do(func() {
		initErr = sentry.Init(sentry.ClientOptions{
			Dsn:              globalConfig.SentryDSN,
			AttachStacktrace: true,
		})
	})
	if initErr != nil {
		logger.Warn().Err(initErr).Msg("failed to initialize Sentry")
		return false
	}
	return true
}
