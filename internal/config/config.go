package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"marketplace/internal/domain"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NewRelic NewRelicConfig
	Pricing  PricingConfig
	Platform PlatformConfig
	Jobs     JobsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// PricingConfig holds the fare formula parameters and the ordered region
// surcharge list. Region order matters: the first match wins.
type PricingConfig struct {
	BaseFee               float64
	PerKmRate             float64
	MinFare               float64
	DefaultCommissionRate float64
	Regions               []domain.RegionSurcharge
}

// PlatformConfig identifies the account that collects commissions.
type PlatformConfig struct {
	AccountID   string
	AccountName string
}

// JobsConfig holds background job cadence.
type JobsConfig struct {
	MovementEnabled bool
	MovementSpec    string
	MovementStepKm  float64
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "marketplace"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "marketplace-dispatch"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Pricing: PricingConfig{
			BaseFee:               getFloatEnv("PRICING_BASE_FEE", 5.0),
			PerKmRate:             getFloatEnv("PRICING_PER_KM_RATE", 2.0),
			MinFare:               getFloatEnv("PRICING_MIN_FARE", 8.0),
			DefaultCommissionRate: getFloatEnv("PRICING_COMMISSION_RATE", 0.15),
			Regions:               getRegionsEnv("PRICING_REGION_SURCHARGES", defaultRegions()),
		},
		Platform: PlatformConfig{
			AccountID:   getEnv("PLATFORM_ACCOUNT_ID", "platform"),
			AccountName: getEnv("PLATFORM_ACCOUNT_NAME", "Marketplace Platform"),
		},
		Jobs: JobsConfig{
			MovementEnabled: getBoolEnv("JOBS_MOVEMENT_ENABLED", true),
			MovementSpec:    getEnv("JOBS_MOVEMENT_SPEC", "@every 5s"),
			MovementStepKm:  getFloatEnv("JOBS_MOVEMENT_STEP_KM", 0.35),
		},
	}
}

// Domain returns the pricing parameters in their domain form.
func (c PricingConfig) Domain() domain.PricingConfig {
	return domain.PricingConfig{
		BaseFee:   c.BaseFee,
		PerKmRate: c.PerKmRate,
		MinFare:   c.MinFare,
		Regions:   c.Regions,
	}
}

func defaultRegions() []domain.RegionSurcharge {
	return []domain.RegionSurcharge{
		{Name: "Centro Histórico", Surcharge: 3.0},
		{Name: "Zona Sul", Surcharge: 2.5},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getRegionsEnv parses an ordered surcharge list of the form
// "Centro Histórico:3.00,Zona Sul:2.50".
func getRegionsEnv(key string, defaultValue []domain.RegionSurcharge) []domain.RegionSurcharge {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var regions []domain.RegionSurcharge
	for _, part := range strings.Split(value, ",") {
		name, amount, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		surcharge, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
		if err != nil {
			continue
		}
		regions = append(regions, domain.RegionSurcharge{Name: strings.TrimSpace(name), Surcharge: surcharge})
	}
	if len(regions) == 0 {
		return defaultValue
	}
	return regions
}
