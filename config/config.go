package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	DataSource string
	DataPath   string
	SheetName  string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	HTTPAddr           string
	ThousandsSeparator string
	TablePageSize      int

	ExportDir         string
	ChromeBin         string
	RenderConcurrency int
	RenderTimeoutSec  int
	MaxRetries        int

	Debug bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DataSource: strings.ToLower(getEnv("DATA_SOURCE", "xlsx")),
		DataPath:   getEnv("DATA_PATH", "./data/Basev2.xlsx"),
		SheetName:  getEnv("SHEET_NAME", ""),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "radar"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "radar123"),
		PostgresDB:       getEnv("POSTGRES_DB", "radar_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		HTTPAddr:           getEnv("HTTP_ADDR", ":8051"),
		ThousandsSeparator: getEnv("THOUSANDS_SEPARATOR", "."),
		TablePageSize:      getEnvInt("TABLE_PAGE_SIZE", 10),

		ExportDir:         getEnv("EXPORT_DIR", "./output"),
		ChromeBin:         getEnv("CHROME_BIN", ""),
		RenderConcurrency: getEnvInt("RENDER_CONCURRENCY", 3),
		RenderTimeoutSec:  getEnvInt("RENDER_TIMEOUT_SEC", 60),
		MaxRetries:        getEnvInt("MAX_RETRIES", 3),

		Debug: getEnvBool("LOG_DEBUG", true),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
