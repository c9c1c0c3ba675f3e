package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Host string
	Port string

	// Database settings
	DatabasePath string
	SeedData     bool

	// Logging settings
	LogLevel  string
	LogFormat string

	// Cache settings
	CacheSize int
	CacheTTL  time.Duration

	// Office settings
	ProsecutorOffice string

	// Generative AI settings
	GeminiAPIKey      string
	ExtractionModel   string
	ChatModel         string
	ExtractionTimeout time.Duration
	MaxDocumentBytes  int64

	// Browser settings for HTML listings
	HeadlessMode bool
	BrowserPath  string

	// API settings
	APIRateLimit  int
	APIRateWindow time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		Host:             getEnv("HOST", "127.0.0.1"),
		Port:             getEnv("PORT", "8080"),
		DatabasePath:     getEnv("DATABASE_PATH", "./data/controle_prazos.db"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		ProsecutorOffice: getEnv("PROSECUTOR_OFFICE", "Promotoria de Justiça de Nhamundá"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		ExtractionModel:  getEnv("GEMINI_EXTRACTION_MODEL", "gemini-3-flash-preview"),
		ChatModel:        getEnv("GEMINI_CHAT_MODEL", "gemini-3-pro-preview"),
		BrowserPath:      getEnv("ROD_BROWSER_PATH", ""),
	}

	// Parse integer values
	var err error
	cfg.CacheSize, err = strconv.Atoi(getEnv("CACHE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_SIZE: %w", err)
	}

	cacheTTL, err := strconv.Atoi(getEnv("CACHE_TTL", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = time.Duration(cacheTTL) * time.Minute

	extractionTimeout, err := strconv.Atoi(getEnv("EXTRACTION_TIMEOUT", "120"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXTRACTION_TIMEOUT: %w", err)
	}
	cfg.ExtractionTimeout = time.Duration(extractionTimeout) * time.Second

	cfg.MaxDocumentBytes, err = strconv.ParseInt(getEnv("MAX_DOCUMENT_BYTES", "20971520"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_DOCUMENT_BYTES: %w", err)
	}

	cfg.HeadlessMode = getEnv("HEADLESS_MODE", "true") == "true"
	cfg.SeedData = getEnv("SEED_DATA", "true") == "true"

	cfg.APIRateLimit, err = strconv.Atoi(getEnv("API_RATE_LIMIT", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_RATE_LIMIT: %w", err)
	}

	apiRateWindow, err := strconv.Atoi(getEnv("API_RATE_WINDOW", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_RATE_WINDOW: %w", err)
	}
	cfg.APIRateWindow = time.Duration(apiRateWindow) * time.Second

	return cfg, nil
}

// AIEnabled reports whether a Gemini API key is configured
func (c *Config) AIEnabled() bool {
	return c.GeminiAPIKey != ""
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
