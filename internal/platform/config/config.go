package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

const (
	defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"
	defaultJWTIssuer = "household-ledger"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	LogLevel           string
	JWTSecret          string
	JWTIssuer          string
	JWTExpiryDuration  time.Duration
	CORSAllowedOrigins []string
	MigrationsPath     string
	RateLimit          string // e.g. "120-M"; "off" disables

	// Settlement behaviour
	DefaultExpenseCategory string
	InvoiceDueDays         int

	// Bootstrap admin, read only by the provisioning command
	ProvisionHouseholdName string
	ProvisionAdminName     string
	ProvisionAdminEmail    string
	ProvisionAdminPassword string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", defaultJWTIssuer)
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("DEFAULT_EXPENSE_CATEGORY", "general")
	v.SetDefault("INVOICE_DUE_DAYS", 0)
	v.SetDefault("PROVISION_HOUSEHOLD_NAME", "Household")
	v.SetDefault("PROVISION_ADMIN_NAME", "Administrator")
	v.SetDefault("PROVISION_ADMIN_EMAIL", "")
	v.SetDefault("PROVISION_ADMIN_PASSWORD", "")
	// Real environment variables override .env values and defaults.
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:            v.GetString("PGSQL_URL"),
		Port:                   v.GetString("PORT"),
		IsProduction:           v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:          v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		JWTIssuer:              v.GetString("JWT_ISSUER"),
		MigrationsPath:         v.GetString("MIGRATIONS_PATH"),
		RateLimit:              strings.TrimSpace(v.GetString("RATE_LIMIT")),
		DefaultExpenseCategory: strings.TrimSpace(v.GetString("DEFAULT_EXPENSE_CATEGORY")),
		InvoiceDueDays:         v.GetInt("INVOICE_DUE_DAYS"),
		ProvisionHouseholdName: v.GetString("PROVISION_HOUSEHOLD_NAME"),
		ProvisionAdminName:     v.GetString("PROVISION_ADMIN_NAME"),
		ProvisionAdminEmail:    v.GetString("PROVISION_ADMIN_EMAIL"),
		ProvisionAdminPassword: v.GetString("PROVISION_ADMIN_PASSWORD"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = defaultJWTIssuer
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	// Load JWT Expiry Duration (e.g., "60m", "1h")
	jwtExpiryStr := v.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil || jwtExpiryDuration <= 0 {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.RateLimit != "" && !strings.EqualFold(cfg.RateLimit, "off") {
		if _, err := limiter.NewRateFromFormatted(cfg.RateLimit); err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
		}
	}

	if cfg.DefaultExpenseCategory == "" {
		cfg.DefaultExpenseCategory = "general"
	}
	if cfg.InvoiceDueDays < 0 {
		log.Printf("Warning: Negative INVOICE_DUE_DAYS (%d). Invoices will have no due date.\n", cfg.InvoiceDueDays)
		cfg.InvoiceDueDays = 0
	}

	return cfg, nil
}
