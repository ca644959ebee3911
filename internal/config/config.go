package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	StorageDriver string
	FileStorePath string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	RedisAddr     string
	RedisPassword string

	BillingAnchorWeekday time.Weekday
	BillingTimezone      string

	CheckoutEndpoint  string
	CheckoutReturnURL string
	ContractPath      string

	FeedBacklogSize   int
	FeedNotifyCap     int
	FeedAlertDuration time.Duration

	BootstrapDemoRestaurant bool
}

const (
	StorageDriverGorm = "gorm"
	StorageDriverFile = "file"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:      getenv("APP_SERVICE", "ordinlampo"),
		AppVersion:   getenv("APP_VERSION", "0.1.0"),
		Environment:  getenv("ENVIRONMENT", "development"),
		HTTPAddr:     getenv("HTTP_ADDR", ":8080"),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		StorageDriver: normalizeStorageDriver(getenv("STORAGE_DRIVER", StorageDriverGorm)),
		FileStorePath: getenv("FILE_STORE_PATH", "./data"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "ordinlampo"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", "postgres"),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		BillingAnchorWeekday: parseWeekday(getenv("BILLING_ANCHOR_WEEKDAY", "saturday")),
		BillingTimezone:      getenv("BILLING_TIMEZONE", "Local"),

		CheckoutEndpoint:  strings.TrimSpace(getenv("CHECKOUT_ENDPOINT", "")),
		CheckoutReturnURL: getenv("CHECKOUT_RETURN_URL", "http://localhost:8080/admin/plan"),
		ContractPath:      strings.TrimSpace(getenv("CONTRACT_PATH", "")),

		FeedBacklogSize:   getenvInt("FEED_BACKLOG_SIZE", 50),
		FeedNotifyCap:     getenvInt("FEED_NOTIFY_CAP", 20),
		FeedAlertDuration: time.Duration(getenvInt("FEED_ALERT_SECONDS", 8)) * time.Second,

		BootstrapDemoRestaurant: getenvBool("BOOTSTRAP_DEMO_RESTAURANT", false),
	}

	return cfg
}

var Module = fx.Module("config", fx.Provide(Load))

func normalizeStorageDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case StorageDriverFile, "local":
		return StorageDriverFile
	default:
		return StorageDriverGorm
	}
}

// parseWeekday accepts an English weekday name, defaulting to Saturday.
func parseWeekday(raw string) time.Weekday {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sunday":
		return time.Sunday
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "friday":
		return time.Friday
	default:
		return time.Saturday
	}
}

// BillingLocation resolves the configured billing timezone, falling back to
// the process-local zone when the name cannot be loaded.
func (c Config) BillingLocation() *time.Location {
	name := strings.TrimSpace(c.BillingTimezone)
	if name == "" || strings.EqualFold(name, "Local") {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
