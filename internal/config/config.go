package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	HTTP     HTTPConfig
	GRPC     GRPCConfig
	Auth     AuthConfig
	Kafka    KafkaConfig
	Outbox   OutboxConfig
	Tracking TrackingConfig
	LogLevel string
}

type DatabaseConfig struct {
	URL         string
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	AutoMigrate bool
}

type HTTPConfig struct {
	Port string
}

type GRPCConfig struct {
	Address string
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTL      time.Duration
	AdminUsername string
	AdminPassword string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	// ProcessingLease is how long a PROCESSING task may sit before another
	// publisher picks it up again.
	ProcessingLease time.Duration
}

// TrackingConfig drives fee fallback and stale partner detection.
type TrackingConfig struct {
	DefaultDeliveryFee float64
	StaleAfter         time.Duration
	StaleCheckInterval time.Duration
}

// exampleOnlyKeys are never taken from .example.env: a checked-in file cannot
// be the source of signing keys or admin credentials.
var exampleOnlyKeys = map[string]struct{}{
	"JWT_SECRET":     {},
	"ADMIN_USERNAME": {},
	"ADMIN_PASSWORD": {},
}

// placeholderSecrets are values shipped in templates and docs.
var placeholderSecrets = map[string]struct{}{
	"change-me": {},
	"changeme":  {},
}

// loadEnv looks for a .env in the working directory and up to two levels
// above it, falling back to .example.env. A missing file is not an error: the
// process environment alone is a valid configuration.
func loadEnv() {
	wd, err := os.Getwd()
	if err != nil {
		log.Printf("config: cannot resolve working directory: %v", err)
		return
	}
	loadEnvFrom(wd, filepath.Join(wd, ".."), filepath.Join(wd, "..", ".."))
}

func loadEnvFrom(dirs ...string) {
	for _, dir := range dirs {
		envPath := filepath.Join(dir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Printf("Loaded environment variables from %s", envPath)
			return
		}
	}

	for _, dir := range dirs {
		examplePath := filepath.Join(dir, ".example.env")
		values, err := godotenv.Read(examplePath)
		if err != nil {
			continue
		}
		for key, value := range values {
			if _, skip := exampleOnlyKeys[key]; skip {
				continue
			}
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, value)
			}
		}
		log.Printf("Loaded environment variables from %s (secrets skipped)", examplePath)
		return
	}
}

func Load() (*Config, error) {
	loadEnv()
	return FromEnv()
}

// FromEnv builds the config from the current process environment only.
func FromEnv() (*Config, error) {
	var errs []error

	dbPort, err := getEnvInt("DB_PORT", 5432)
	errs = append(errs, err)
	autoMigrate, err := getEnvBool("DB_AUTO_MIGRATE", false)
	errs = append(errs, err)
	ttl, err := getEnvDuration("JWT_TTL", 24*time.Hour)
	errs = append(errs, err)
	pollInterval, err := getEnvDuration("OUTBOX_POLL_INTERVAL", time.Second)
	errs = append(errs, err)
	batchSize, err := getEnvInt("OUTBOX_BATCH_SIZE", 50)
	errs = append(errs, err)
	maxAttempts, err := getEnvInt("OUTBOX_MAX_ATTEMPTS", 5)
	errs = append(errs, err)
	lease, err := getEnvDuration("OUTBOX_PROCESSING_LEASE", time.Minute)
	errs = append(errs, err)
	defaultFee, err := getEnvFloat("DEFAULT_DELIVERY_FEE", 30.00)
	errs = append(errs, err)
	staleAfter, err := getEnvDuration("STALE_PARTNER_AFTER", 5*time.Minute)
	errs = append(errs, err)
	staleInterval, err := getEnvDuration("STALE_CHECK_INTERVAL", 30*time.Second)
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: DatabaseConfig{
			URL:         getEnv("DATABASE_URL", ""),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("POSTGRES_USER", "postgres"),
			Password:    getEnv("POSTGRES_PASSWORD", ""),
			Name:        getEnv("POSTGRES_DB", "siraha"),
			AutoMigrate: autoMigrate,
		},
		HTTP: HTTPConfig{
			Port: getEnv("HTTP_PORT", "9000"),
		},
		GRPC: GRPCConfig{
			Address: getEnv("GRPC_ADDRESS", ":50051"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTL:      ttl,
			AdminUsername: getEnv("ADMIN_USERNAME", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(getEnv("KAFKA_BROKERS", "")),
			Topic:   getEnv("KAFKA_TOPIC", "delivery_events"),
			GroupID: getEnv("KAFKA_GROUP_ID", "delivery-notification-dispatcher"),
		},
		Outbox: OutboxConfig{
			PollInterval:    pollInterval,
			BatchSize:       batchSize,
			MaxAttempts:     maxAttempts,
			ProcessingLease: lease,
		},
		Tracking: TrackingConfig{
			DefaultDeliveryFee: defaultFee,
			StaleAfter:         staleAfter,
			StaleCheckInterval: staleInterval,
		},
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}
	if _, placeholder := placeholderSecrets[strings.ToLower(cfg.Auth.JWTSecret)]; placeholder {
		return nil, errors.New("JWT_SECRET is a placeholder value")
	}
	if cfg.Outbox.ProcessingLease <= 0 {
		return nil, errors.New("OUTBOX_PROCESSING_LEASE must be positive")
	}
	if cfg.Outbox.BatchSize <= 0 || cfg.Outbox.MaxAttempts <= 0 {
		return nil, errors.New("OUTBOX_BATCH_SIZE and OUTBOX_MAX_ATTEMPTS must be positive")
	}

	return cfg, nil
}

// DSN prefers DATABASE_URL and otherwise assembles a keyword/value string.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s:%d/%s, HTTP: :%s, gRPC: %s, Kafka: %v/%s, Auth: *** (masked) ***}",
		c.Database.Host, c.Database.Port, c.Database.Name, c.HTTP.Port, c.GRPC.Address, c.Kafka.Brokers, c.Kafka.Topic)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	if value, exists := os.LookupEnv(key); exists {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number for %s: %w", key, err)
		}
		return f, nil
	}
	return defaultVal, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	if value, exists := os.LookupEnv(key); exists {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid bool for %s: %w", key, err)
		}
		return b, nil
	}
	return defaultVal, nil
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d, nil
	}
	return defaultVal, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
