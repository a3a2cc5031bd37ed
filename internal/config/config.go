package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const devJWTSecret = "dev-secret-change-me"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Cleanup  CleanupConfig  `mapstructure:"cleanup"`
	Email    EmailConfig    `mapstructure:"email"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type KafkaConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	Brokers         []string `mapstructure:"brokers"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id"`
	Topics          []string `mapstructure:"topics"`
}

type AuthConfig struct {
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
	// AdminSignup lets /auth/register create admin accounts. Off outside local setups.
	AdminSignup bool `mapstructure:"admin_signup"`
}

type CleanupConfig struct {
	// Schedule is a standard 5-field cron expression or a @descriptor.
	Schedule string `mapstructure:"schedule"`
	// FallbackDays is used by the cleanup CLI only, when no policy is stored.
	FallbackDays int `mapstructure:"fallback_days"`
}

type EmailConfig struct {
	// ResendAPIKey enables delivery through Resend. Empty means mail is only logged.
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// Load reads configuration from environment variables and config files.
// Environment variables override file values. Prefix: BOOKING_
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.env", "development")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "booking")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "password")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.consumer_group_id", "booking-notification-group")
	v.SetDefault("kafka.topics", []string{"booking-events", "notification-commands"})
	v.SetDefault("auth.jwt_secret", devJWTSecret)
	v.SetDefault("auth.token_ttl", 30*24*time.Hour)
	v.SetDefault("auth.cookie_name", "token")
	v.SetDefault("auth.cookie_secure", false)
	v.SetDefault("auth.admin_signup", false)
	v.SetDefault("cleanup.schedule", "* * * * *")
	v.SetDefault("cleanup.fallback_days", 30)
	v.SetDefault("email.resend_api_key", "")
	v.SetDefault("email.from", "TungTee888 <onboarding@resend.dev>")

	// Environment variables (e.g. BOOKING_DATABASE_HOST -> database.host)
	v.SetEnvPrefix("BOOKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also support simple env vars without prefix for Docker Compose convenience
	v.BindEnv("database.host", "BOOKING_DATABASE_HOST", "DB_HOST")
	v.BindEnv("database.port", "BOOKING_DATABASE_PORT", "DB_PORT")
	v.BindEnv("database.name", "BOOKING_DATABASE_NAME", "DB_NAME")
	v.BindEnv("database.user", "BOOKING_DATABASE_USER", "DB_USER")
	v.BindEnv("database.password", "BOOKING_DATABASE_PASSWORD", "DB_PASSWORD")
	v.BindEnv("kafka.brokers", "BOOKING_KAFKA_BROKERS", "KAFKA_BROKERS")
	v.BindEnv("auth.jwt_secret", "BOOKING_AUTH_JWT_SECRET", "JWT_SECRET")
	v.BindEnv("server.port", "BOOKING_SERVER_PORT", "PORT")
	v.BindEnv("email.resend_api_key", "BOOKING_EMAIL_RESEND_API_KEY", "RESEND_API_KEY")

	// Try loading config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // Not required

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings neither binary can run with.
func (c *Config) Validate() error {
	if c.Cleanup.FallbackDays <= 0 {
		return errors.New("cleanup.fallback_days must be a positive integer")
	}
	return nil
}

// ValidateServer adds the checks only the API server needs. The cleanup
// command never touches tokens or Kafka and does not call it.
func (c *Config) ValidateServer() error {
	var errs []error
	if c.Server.Env == "production" && c.Auth.JWTSecret == devJWTSecret {
		errs = append(errs, errors.New("auth.jwt_secret must be set in production"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret must not be empty"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka.brokers is required when kafka is enabled"))
	}
	return errors.Join(errs...)
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return "host=" + d.Host +
		" port=" + strconv.Itoa(d.Port) +
		" dbname=" + d.Name +
		" user=" + d.User +
		" password=" + d.Password +
		" sslmode=disable"
}
