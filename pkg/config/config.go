package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Data source identifiers accepted by DATA_SOURCE
const (
	DataSourceYahoo = "yahoo"
	DataSourceFMP   = "fmp"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Data sources
	DataSource string // yahoo, fmp
	Yahoo      YahooConfig
	FMP        FMPConfig

	// Scoring
	BoundsFile    string
	ScoreCacheTTL time.Duration

	// Periodic refresh
	Fetch FetchConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool

	// Connection
	PoolSize    int
	DialTimeout time.Duration // 시작 시 PING 제한 시간도 겸함
	ReadTimeout time.Duration // 쓰기 타임아웃에도 동일 적용
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// YahooConfig holds the Yahoo Finance (yfapi) quoteSummary configuration
type YahooConfig struct {
	BaseURL string
	APIKey  string
}

// FMPConfig holds Financial Modeling Prep configuration
type FMPConfig struct {
	BaseURL string
	APIKey  string
}

// FetchConfig controls the periodic fundamentals refresh
type FetchConfig struct {
	Schedule   string        // cron spec with seconds
	StaleAfter time.Duration // 이보다 최근에 갱신된 종목은 건너뜀
	Workers    int
	Timeout    time.Duration // 외부 API 요청 타임아웃

	// 로컬 호출 간격 (0 = 제한 없음, Redis 레이트 리미터와 별개)
	RatePerSecond float64
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),

			PoolSize:    getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeout: getEnvAsDuration("REDIS_DIAL_TIMEOUT", "5s"),
			ReadTimeout: getEnvAsDuration("REDIS_READ_TIMEOUT", "3s"),
		},

		// Data sources
		DataSource: strings.ToLower(getEnv("DATA_SOURCE", DataSourceYahoo)),
		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://yfapi.net/v11/"),
			APIKey:  getEnv("YAHOO_API_KEY", ""),
		},
		FMP: FMPConfig{
			BaseURL: getEnv("FMP_BASE_URL", "https://financialmodelingprep.com/stable/"),
			APIKey:  getEnv("FMP_API_KEY", ""),
		},

		// Scoring
		BoundsFile:    getEnv("BOUNDS_FILE", "config/bounds.yaml"),
		ScoreCacheTTL: getEnvAsDuration("SCORE_CACHE_TTL", "10m"),

		// Periodic refresh
		Fetch: FetchConfig{
			Schedule:   getEnv("FETCH_SCHEDULE", "0 0 6 * * *"),
			StaleAfter: getEnvAsDuration("FETCH_STALE_AFTER", "168h"),
			Workers:    getEnvAsInt("FETCH_WORKERS", 4),
			Timeout:    getEnvAsDuration("FETCH_TIMEOUT", "30s"),

			RatePerSecond: getEnvAsFloat("FETCH_RATE_PER_SECOND", 2),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.DataSource {
	case DataSourceYahoo:
	case DataSourceFMP:
		if c.FMP.APIKey == "" {
			return fmt.Errorf("FMP_API_KEY is required when DATA_SOURCE=fmp")
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be one of: %s, %s", DataSourceYahoo, DataSourceFMP)
	}

	if c.Redis.Enabled && (c.Redis.PoolSize <= 0 || c.Redis.DialTimeout <= 0 || c.Redis.ReadTimeout <= 0) {
		return fmt.Errorf("REDIS_POOL_SIZE, REDIS_DIAL_TIMEOUT and REDIS_READ_TIMEOUT must be > 0")
	}

	if c.Fetch.Workers <= 0 {
		return fmt.Errorf("FETCH_WORKERS must be > 0")
	}

	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be > 0")
	}

	if c.Fetch.RatePerSecond < 0 {
		return fmt.Errorf("FETCH_RATE_PER_SECOND must be >= 0")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
