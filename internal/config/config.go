package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file - ignore error if file doesn't exist
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Note: .env file not found or could not be loaded: %v\n", err)
	}
}

type Config struct {
	Primary       PrimaryConfig
	Database      DatabaseConfig
	Server        ServerConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Observability *ObservabilityConfig
	Paystack      PaystackConfig
	Payrant       PayrantConfig
}

type PrimaryConfig struct {
	Env    string
	AppURL string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	IdleTimeout        int
	CORSAllowedOrigins []string
}

type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	LockTTL      time.Duration
	KeyPrefix    string
}

type KafkaConfig struct {
	Brokers []string
}

type ObservabilityConfig struct {
	ServiceName  string
	Environment  string
	Logging      LoggingConfig
	NewRelic     NewRelicConfig
	HealthChecks HealthChecksConfig
}

type LoggingConfig struct {
	Level              string
	Format             string
	SlowQueryThreshold time.Duration
}

type NewRelicConfig struct {
	LicenseKey                string
	AppLogForwardingEnabled   bool
	DistributedTracingEnabled bool
	DebugLogging              bool
}

type HealthChecksConfig struct {
	Enabled  bool
	Interval time.Duration
	Timeout  time.Duration
	Checks   []string
}

type PaystackConfig struct {
	SecretKey     string
	PublicKey     string
	WebhookSecret string
	BaseURL       string
}

type PayrantConfig struct {
	APIKey  string
	BaseURL string
	Enabled bool
}

// Helper functions for parsing env vars
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return fallback
}

func (c *ObservabilityConfig) GetLogLevel() string {
	if c.Logging.Level == "" {
		switch c.Environment {
		case "production":
			return "info"
		case "development":
			return "debug"
		default:
			return "info"
		}
	}
	return c.Logging.Level
}

func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Primary: PrimaryConfig{
			Env:    getEnv("KUDI_ENV", "development"),
			AppURL: getEnv("KUDI_APP_URL", "http://localhost:8080"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("KUDI_DB_HOST", "localhost"),
			Port:            getEnvInt("KUDI_DB_PORT", 5432),
			User:            getEnv("KUDI_DB_USER", "kudi"),
			Password:        getEnv("KUDI_DB_PASSWORD", ""),
			Name:            getEnv("KUDI_DB_NAME", "kudi"),
			SSLMode:         getEnv("KUDI_DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("KUDI_DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("KUDI_DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getEnvInt("KUDI_DB_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("KUDI_DB_CONN_MAX_IDLE_TIME", 60),
		},
		Server: ServerConfig{
			Port:               getEnv("KUDI_SERVER_PORT", "8080"),
			ReadTimeout:        getEnvInt("KUDI_SERVER_READ_TIMEOUT", 30),
			WriteTimeout:       getEnvInt("KUDI_SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:        getEnvInt("KUDI_SERVER_IDLE_TIMEOUT", 60),
			CORSAllowedOrigins: getEnvSlice("KUDI_SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Redis: RedisConfig{
			Address:      getEnv("KUDI_REDIS_ADDRESS", "localhost:6379"),
			Password:     getEnv("KUDI_REDIS_PASSWORD", ""),
			DB:           getEnvInt("KUDI_REDIS_DB", 0),
			PoolSize:     getEnvInt("KUDI_REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("KUDI_REDIS_MIN_IDLE_CONNS", 5),
			DialTimeout:  getEnvDuration("KUDI_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("KUDI_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("KUDI_REDIS_WRITE_TIMEOUT", 3*time.Second),
			LockTTL:      getEnvDuration("KUDI_REDIS_LOCK_TTL", 30*time.Second),
			KeyPrefix:    getEnv("KUDI_REDIS_KEY_PREFIX", "kudi:"),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvSlice("KUDI_KAFKA_BROKERS", []string{"localhost:9092"}),
		},
		Observability: &ObservabilityConfig{
			ServiceName: "Kudi",
			Environment: getEnv("KUDI_ENV", "development"),
			Logging: LoggingConfig{
				Level:              getEnv("KUDI_LOG_LEVEL", "debug"),
				Format:             getEnv("KUDI_LOG_FORMAT", "console"),
				SlowQueryThreshold: getEnvDuration("KUDI_LOG_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
			},
			NewRelic: NewRelicConfig{
				LicenseKey:                getEnv("KUDI_NEWRELIC_LICENSE_KEY", ""),
				AppLogForwardingEnabled:   getEnvBool("KUDI_NEWRELIC_LOG_FORWARDING", true),
				DistributedTracingEnabled: getEnvBool("KUDI_NEWRELIC_DISTRIBUTED_TRACING", true),
				DebugLogging:              getEnvBool("KUDI_NEWRELIC_DEBUG", false),
			},
			HealthChecks: HealthChecksConfig{
				Enabled:  getEnvBool("KUDI_HEALTHCHECK_ENABLED", true),
				Interval: getEnvDuration("KUDI_HEALTHCHECK_INTERVAL", 30*time.Second),
				Timeout:  getEnvDuration("KUDI_HEALTHCHECK_TIMEOUT", 5*time.Second),
				Checks:   getEnvSlice("KUDI_HEALTHCHECK_CHECKS", []string{"database", "redis"}),
			},
		},
		Paystack: PaystackConfig{
			SecretKey:     getEnv("KUDI_PAYSTACK_SECRET_KEY", ""),
			PublicKey:     getEnv("KUDI_PAYSTACK_PUBLIC_KEY", ""),
			WebhookSecret: getEnv("KUDI_PAYSTACK_WEBHOOK_SECRET", ""),
			BaseURL:       getEnv("KUDI_PAYSTACK_BASE_URL", "https://api.paystack.co"),
		},
		Payrant: PayrantConfig{
			APIKey:  getEnv("KUDI_PAYRANT_API_KEY", ""),
			BaseURL: getEnv("KUDI_PAYRANT_BASE_URL", "https://api.payrant.com"),
			Enabled: getEnvBool("KUDI_PAYRANT_ENABLED", true),
		},
	}

	// Validate required fields. Missing provider credentials are fatal here
	// rather than surfacing as opaque 401s at request time.
	if cfg.Database.Host == "" {
		return nil, fmt.Errorf("KUDI_DB_HOST is required")
	}
	if cfg.Database.Name == "" {
		return nil, fmt.Errorf("KUDI_DB_NAME is required")
	}
	if cfg.Primary.Env == "production" {
		if cfg.Paystack.SecretKey == "" {
			return nil, fmt.Errorf("KUDI_PAYSTACK_SECRET_KEY is required")
		}
		if cfg.Payrant.Enabled && cfg.Payrant.APIKey == "" {
			return nil, fmt.Errorf("KUDI_PAYRANT_API_KEY is required when payrant is enabled")
		}
	}

	return cfg, nil
}
