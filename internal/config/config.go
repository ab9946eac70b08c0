package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Dispatch DispatchConfig `mapstructure:"dispatch"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

// SMTPConfig holds outbound mail relay configuration.
type SMTPConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	FromName       string        `mapstructure:"from_name"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxMessages    int           `mapstructure:"max_messages"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
}

// AuthConfig holds the shared API key that gates the send endpoint.
type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// DispatchConfig holds background dispatcher configuration.
type DispatchConfig struct {
	WorkerCount     int           `mapstructure:"worker_count"`
	QueueSize       int           `mapstructure:"queue_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
	MaxFiles  int    `mapstructure:"max_files"`
}

// CORSConfig holds cross-origin settings for the HTTP API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from the given config directory path.
// It looks for a file named "config.yaml" in that directory; a missing file
// is not an error because every value has a default and the service is
// expected to run from environment variables alone.
// Environment variables with prefix NOTIFIER_ override file values.
// For example, NOTIFIER_SMTP_PASSWORD overrides smtp.password.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.SetEnvPrefix("NOTIFIER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Legacy environment names kept for drop-in compatibility with earlier
	// deployments of the notification service.
	_ = v.BindEnv("smtp.username", "NOTIFIER_SMTP_USERNAME", "GMAIL_USER")
	_ = v.BindEnv("smtp.password", "NOTIFIER_SMTP_PASSWORD", "GMAIL_APP_PASSWORD")
	_ = v.BindEnv("auth.api_key", "NOTIFIER_AUTH_API_KEY", "EMAIL_SERVICE_API_KEY")
	_ = v.BindEnv("server.port", "NOTIFIER_SERVER_PORT", "PORT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// EmailConfigured reports whether both mail relay credentials are present.
// The health endpoint surfaces this; missing credentials never prevent the
// process from starting.
func (c *Config) EmailConfigured() bool {
	return c.SMTP.Username != "" && c.SMTP.Password != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8082)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.max_body_bytes", int64(50*1024*1024))

	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from_name", "Facturación Electrónica")
	v.SetDefault("smtp.max_connections", 5)
	v.SetDefault("smtp.max_messages", 100)
	v.SetDefault("smtp.dial_timeout", 10*time.Second)

	v.SetDefault("auth.api_key", "default-email-key")

	v.SetDefault("dispatch.worker_count", 5)
	v.SetDefault("dispatch.queue_size", 256)
	v.SetDefault("dispatch.shutdown_timeout", 30*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_files", 5)

	v.SetDefault("cors.allowed_origins", []string{"*"})
}
