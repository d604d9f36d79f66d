package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the application.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Database holds the relational store configuration.
	Database DatabaseConfig `mapstructure:",squash"`

	// Redis holds the cache configuration.
	Redis RedisConfig `mapstructure:",squash"`

	// Reports holds the report processing configuration.
	Reports ReportsConfig `mapstructure:",squash"`
}

// DatabaseConfig holds database connection details.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string.
	URL string `mapstructure:"DATABASE_URL" required:"true"`
	// MaxOpenConns caps the connection pool.
	MaxOpenConns int `mapstructure:"DB_MAX_OPEN_CONNS" default:"10"`
	// MaxIdleConns caps idle connections kept in the pool.
	MaxIdleConns int `mapstructure:"DB_MAX_IDLE_CONNS" default:"5"`
}

// RedisConfig holds the route cache settings. An empty URL disables caching.
type RedisConfig struct {
	URL string `mapstructure:"REDIS_URL"`
	// RouteCacheTTLSeconds is how long planned checkpoints stay cached.
	RouteCacheTTLSeconds int `mapstructure:"ROUTE_CACHE_TTL_SECONDS" default:"300"`
}

// ReportsConfig holds upload and verification settings.
type ReportsConfig struct {
	// UploadFolder is the root directory for stored report files.
	UploadFolder string `mapstructure:"UPLOAD_FOLDER" default:"uploads"`
	// MaxUploadBytes rejects larger uploads.
	MaxUploadBytes int `mapstructure:"MAX_UPLOAD_BYTES" default:"16777216"`
	// ProcessingTimeoutSeconds bounds parsing and matching of one report.
	ProcessingTimeoutSeconds int `mapstructure:"REPORT_PROCESSING_TIMEOUT_SECONDS" default:"30"`
	// WebhookURL receives finalized reports when set.
	WebhookURL string `mapstructure:"REPORT_WEBHOOK_URL"`
}

// RouteCacheTTL returns the route cache TTL as a duration.
func (c RedisConfig) RouteCacheTTL() time.Duration {
	return time.Duration(c.RouteCacheTTLSeconds) * time.Second
}

// ProcessingTimeout returns the processing timeout as a duration.
func (c ReportsConfig) ProcessingTimeout() time.Duration {
	return time.Duration(c.ProcessingTimeoutSeconds) * time.Second
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if config.Reports.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("invalid configuration: MAX_UPLOAD_BYTES must be positive")
	}

	return &config, nil
}

// processTags iterates over the struct fields, binds env keys and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return fmt.Errorf("failed to bind env %s: %w", key, err)
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && isZero(val.Field(i)) {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
