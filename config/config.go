package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Data sources the dataset store can load from.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	DatasetPath  string
	DataSource   string
	WatchDataset bool

	HTTPAddr        string
	DefaultMaxPrice int
	TopHosts        int
	CacheTTLSec     int
	MaxRetries      int

	SnapshotPath string
	ChromeBin    string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dashboard"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "dashboard123"),
		PostgresDB:       getEnv("POSTGRES_DB", "airbnb_nyc"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		DatasetPath:  getEnv("DATASET_PATH", "./AB_NYC_2019.csv"),
		DataSource:   strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		WatchDataset: getEnvBool("WATCH_DATASET", true),

		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		DefaultMaxPrice: getEnvInt("DEFAULT_MAX_PRICE", 500),
		TopHosts:        getEnvInt("TOP_HOSTS", 10),
		CacheTTLSec:     getEnvInt("CACHE_TTL_SEC", 600),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),

		SnapshotPath: getEnv("SNAPSHOT_PATH", "./output/dashboard.png"),
		ChromeBin:    getEnv("CHROME_BIN", ""),
	}
}

// Validate reports settings the dashboard cannot run with.
func (c *Config) Validate() error {
	switch c.DataSource {
	case SourceCSV, SourcePostgres:
	default:
		return fmt.Errorf("config: DATA_SOURCE %q must be %q or %q", c.DataSource, SourceCSV, SourcePostgres)
	}
	if c.DefaultMaxPrice < 0 {
		return fmt.Errorf("config: DEFAULT_MAX_PRICE must be >= 0, got %d", c.DefaultMaxPrice)
	}
	if c.TopHosts < 1 {
		return fmt.Errorf("config: TOP_HOSTS must be >= 1, got %d", c.TopHosts)
	}
	if c.CacheTTLSec < 0 {
		return fmt.Errorf("config: CACHE_TTL_SEC must be >= 0, got %d", c.CacheTTLSec)
	}
	return nil
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
