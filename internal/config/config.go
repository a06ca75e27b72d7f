package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds application runtime configuration.
type Config struct {
	Env             string
	HTTPPort        string
	StorageDriver   string
	DatabaseURL     string
	AutoMigrate     bool
	SeedDemo        bool
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	LogLevel        string
	LogFormat       string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RateLimit       int

	OTP     OTPConfig
	Billing BillingConfig
}

type OTPConfig struct {
	TTL            time.Duration
	MaxAttempts    int
	ResendInterval time.Duration
	IssuePerMinute int
}

// BillingConfig carries the charge defaults used by bulk bill generation.
type BillingConfig struct {
	RatePerLiter       decimal.Decimal
	DefaultMaintenance decimal.Decimal
	DefaultElectricity decimal.Decimal
	DefaultOther       decimal.Decimal
	DueDay             int
	StrictTransitions  bool
	CurrencySymbol     string
}

// IsDevelopment reports whether the service runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads environment variables and .env (if present).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:             getEnv("APP_ENV", "development"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		StorageDriver:   strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		AutoMigrate:     getBool("AUTO_MIGRATE", true),
		SeedDemo:        getBool("SEED_DEMO", false),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getInt("REDIS_DB", 0),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		ReadTimeout:     getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		RateLimit:       getInt("RATE_LIMIT_PER_MINUTE", 200),
		OTP: OTPConfig{
			TTL:            getDuration("OTP_TTL", 5*time.Minute),
			MaxAttempts:    getInt("OTP_MAX_ATTEMPTS", 5),
			ResendInterval: getDuration("OTP_RESEND_INTERVAL", 30*time.Second),
			IssuePerMinute: getInt("OTP_ISSUE_PER_MINUTE", 60),
		},
		Billing: BillingConfig{
			RatePerLiter:       getDecimal("WATER_RATE_PER_LITER", "0.05"),
			DefaultMaintenance: getDecimal("DEFAULT_MAINTENANCE", "2500"),
			DefaultElectricity: getDecimal("DEFAULT_ELECTRICITY", "800"),
			DefaultOther:       getDecimal("DEFAULT_OTHER", "300"),
			DueDay:             getInt("BILL_DUE_DAY", 15),
			StrictTransitions:  getBool("STRICT_STATUS_TRANSITIONS", false),
			CurrencySymbol:     getEnv("CURRENCY_SYMBOL", "₹"),
		},
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Billing.DueDay < 1 || c.Billing.DueDay > 28 {
		return fmt.Errorf("BILL_DUE_DAY must be between 1 and 28, got %d", c.Billing.DueDay)
	}
	if c.Billing.RatePerLiter.IsNegative() {
		return errors.New("WATER_RATE_PER_LITER must not be negative")
	}
	return nil
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

func getDecimal(key, fallback string) decimal.Decimal {
	if val := os.Getenv(key); val != "" {
		if d, err := decimal.NewFromString(val); err == nil {
			return d
		}
	}
	return decimal.RequireFromString(fallback)
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Support seconds as integer without suffix.
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}
