package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	ResetToken ResetTokenConfig
	Session    SessionConfig
	SMTP       SMTPConfig
	Redis      RedisConfig
	MQTT       MQTTConfig
	Media      MediaConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
	Metrics    MetricsConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

type ResetTokenConfig struct {
	// TTL of zero means tokens never expire.
	TTL time.Duration
	// ExposeInResponse returns the token from /forgot-password instead of
	// emailing it.
	ExposeInResponse bool
	// SweepInterval is how often expired tokens are cleared.
	SweepInterval time.Duration
}

type SessionConfig struct {
	BcryptCost int
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CacheTTL time.Duration
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type MQTTConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

func (c MQTTConfig) Enabled() bool {
	return c.Broker != ""
}

type MediaConfig struct {
	Root     string
	MaxBytes int64
}

type RateLimitConfig struct {
	GeneralRPS   float64 // Requests per second for general endpoints
	GeneralBurst int     // Burst size for general endpoints
	AuthRPS      float64 // Requests per second for login and password reset
	AuthBurst    int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type MetricsConfig struct {
	Enabled bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("RESET_TOKEN_TTL_MINUTES", 60)
	v.SetDefault("RESET_TOKEN_SWEEP_MINUTES", 15)
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SESSION_CACHE_TTL_MINUTES", 30)
	v.SetDefault("MQTT_CLIENT_ID", "tutor-platform")
	v.SetDefault("MQTT_TOPIC_PREFIX", "tutor-platform")
	v.SetDefault("MEDIA_ROOT", "media")
	v.SetDefault("MEDIA_MAX_BYTES", 5<<20)
	v.SetDefault("RATE_LIMIT_GENERAL_RPS", 20)
	v.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)
	v.SetDefault("RATE_LIMIT_AUTH_RPS", 1)
	v.SetDefault("RATE_LIMIT_AUTH_BURST", 5)
	v.SetDefault("CORS_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"})
	v.SetDefault("CORS_ALLOWED_HEADERS", []string{"Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("CORS_EXPOSED_HEADERS", []string{"X-Request-ID"})
	v.SetDefault("CORS_MAX_AGE", 43200)
	v.SetDefault("METRICS_ENABLED", true)
}

func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(".env")
	v.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(homeDir)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	environment := v.GetString("ENVIRONMENT")

	exposeReset := environment != "production"
	if v.IsSet("RESET_TOKEN_IN_RESPONSE") {
		exposeReset = v.GetBool("RESET_TOKEN_IN_RESPONSE")
	}

	return &Config{
		Server: ServerConfig{
			Port:        v.GetString("SERVER_PORT"),
			Host:        v.GetString("SERVER_HOST"),
			Environment: environment,
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSLMODE"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		ResetToken: ResetTokenConfig{
			TTL:              time.Duration(v.GetInt("RESET_TOKEN_TTL_MINUTES")) * time.Minute,
			ExposeInResponse: exposeReset,
			SweepInterval:    time.Duration(v.GetInt("RESET_TOKEN_SWEEP_MINUTES")) * time.Minute,
		},
		Session: SessionConfig{
			BcryptCost: v.GetInt("BCRYPT_COST"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			CacheTTL: time.Duration(v.GetInt("SESSION_CACHE_TTL_MINUTES")) * time.Minute,
		},
		MQTT: MQTTConfig{
			Broker:      v.GetString("MQTT_BROKER"),
			ClientID:    v.GetString("MQTT_CLIENT_ID"),
			Username:    v.GetString("MQTT_USERNAME"),
			Password:    v.GetString("MQTT_PASSWORD"),
			TopicPrefix: v.GetString("MQTT_TOPIC_PREFIX"),
		},
		Media: MediaConfig{
			Root:     v.GetString("MEDIA_ROOT"),
			MaxBytes: v.GetInt64("MEDIA_MAX_BYTES"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   v.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: v.GetInt("RATE_LIMIT_GENERAL_BURST"),
			AuthRPS:      v.GetFloat64("RATE_LIMIT_AUTH_RPS"),
			AuthBurst:    v.GetInt("RATE_LIMIT_AUTH_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   v.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   v.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: v.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           v.GetInt("CORS_MAX_AGE"),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Database.Host == "" || c.Database.DBName == "" {
		return errors.New("database configuration is missing: set DB_HOST and DB_NAME")
	}
	if c.ResetToken.TTL < 0 {
		return errors.New("RESET_TOKEN_TTL_MINUTES must not be negative")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
