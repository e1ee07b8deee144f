package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server (status API)
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Result sources
	Lottery LotteryConfig

	// Scheduling
	Schedule ScheduleConfig

	// File interchange
	Export ExportConfig

	// Logging
	LogLevel  string
	LogFormat string
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

// RedisConfig holds Redis configuration (shared crawl rate limiting)
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// LotteryConfig holds draw result source configuration
type LotteryConfig struct {
	OfficialURL   string // calottery.com game page
	LotteryUSAURL string // mirror
	TWLotteryURL  string // mirror (台灣彩券鏡像站)
	FetchTimeout  time.Duration
	RateLimit     int // requests per window, per source host
	RateWindow    time.Duration
}

// ScheduleConfig holds the daily cron expressions (with seconds field).
// Fantasy 5 draws daily at ~18:30 America/Los_Angeles; predictions must run
// before the draw, ingestion and verification after.
type ScheduleConfig struct {
	Timezone    string
	PredictCron string
	IngestCron  string
	VerifyCron  string
}

// ExportConfig holds tabular file interchange settings
type ExportConfig struct {
	HistoryPath string
	LedgerPath  string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8094"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Lottery: LotteryConfig{
			OfficialURL:   getEnv("LOTTERY_OFFICIAL_URL", "https://www.calottery.com/fantasy-5"),
			LotteryUSAURL: getEnv("LOTTERY_USA_URL", "https://www.lotteryusa.com/california/fantasy-5/"),
			TWLotteryURL:  getEnv("LOTTERY_TW_URL", "https://twlottery.in/en/lotteryCA5"),
			FetchTimeout:  getEnvAsDuration("LOTTERY_FETCH_TIMEOUT", "30s"),
			RateLimit:     getEnvAsInt("LOTTERY_RATE_LIMIT", 5),
			RateWindow:    getEnvAsDuration("LOTTERY_RATE_WINDOW", "1s"),
		},

		Schedule: ScheduleConfig{
			Timezone:    getEnv("SCHEDULE_TZ", "America/Los_Angeles"),
			PredictCron: getEnv("SCHEDULE_PREDICT_CRON", "0 0 12 * * *"),
			IngestCron:  getEnv("SCHEDULE_INGEST_CRON", "0 0 19 * * *"),
			VerifyCron:  getEnv("SCHEDULE_VERIFY_CRON", "0 30 19 * * *"),
		},

		Export: ExportConfig{
			HistoryPath: getEnv("EXPORT_HISTORY_PATH", "lottery_hist.xlsx"),
			LedgerPath:  getEnv("EXPORT_LEDGER_PATH", "prediction_log.xlsx"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

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

	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("SCHEDULE_TZ is invalid: %w", err)
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

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
			filepath.Join(exeDir, "..", "..", ".env"),
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
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
