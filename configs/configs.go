// Package configs provides application configuration loaded from environment variables.
// All configuration is externalized via environment variables for 12-factor app compliance.
package configs

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all application configuration.
// Load it once at startup using AppLoad().
type AppConfig struct {
	// DatabaseDSN is the Postgres connection string.
	DatabaseDSN string

	// ServerPort is the HTTP API listen port.
	ServerPort string

	// Bridge contains settings for the Python service bridge.
	Bridge BridgeConfig

	// Groq contains settings for the Groq-backed assistant.
	Groq GroqConfig

	// Forge contains settings for the fallback LLM backend.
	Forge ForgeConfig

	// StockCacheMaxAge is how long a cached quote is considered fresh.
	StockCacheMaxAge time.Duration
}

// BridgeConfig holds settings for spawning Python service scripts.
type BridgeConfig struct {
	// PythonBin overrides interpreter discovery when set.
	PythonBin string

	// ScriptsDir is the directory containing the *_cli.py scripts.
	ScriptsDir string

	// MinInterval is the minimum spacing between outbound stock fetches.
	MinInterval time.Duration
}

// GroqConfig holds settings for the primary assistant backend.
// The API key itself is consumed by the Python side; the Go side only
// needs to know whether the backend is usable at all.
type GroqConfig struct {
	APIKey string
}

func (g GroqConfig) Configured() bool { return g.APIKey != "" }

// ForgeConfig holds settings for the OpenAI-compatible fallback backend.
type ForgeConfig struct {
	APIURL string
	APIKey string
	Model  string
}

func (f ForgeConfig) Configured() bool { return f.APIURL != "" && f.APIKey != "" }

// getDatabaseDSN constructs the Postgres DSN from environment variables.
func getDatabaseDSN() string {
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbUser := getEnv("DB_USER", "postgres")
	dbPassword := getEnv("DB_PASSWORD", "password")
	dbName := getEnv("DB_NAME", "bolsinho")

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=America/Sao_Paulo",
		dbHost, dbPort, dbUser, dbPassword, dbName,
	)
}

// AppLoad loads all application configuration from environment variables.
// It attempts to load a .env file first (for local development).
// Call this once at application startup.
func AppLoad() *AppConfig {
	_ = godotenv.Load() // Ignore error - .env is optional

	return &AppConfig{
		DatabaseDSN: getDatabaseDSN(),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Bridge: BridgeConfig{
			PythonBin:   getEnv("PYTHON_BIN", ""),
			ScriptsDir:  getEnv("PYTHON_SCRIPTS_DIR", "services"),
			MinInterval: time.Duration(getEnvInt("BRIDGE_MIN_INTERVAL_MS", 200)) * time.Millisecond,
		},
		Groq: GroqConfig{
			APIKey: getEnv("GROQ_API_KEY", ""),
		},
		Forge: ForgeConfig{
			APIURL: getEnv("BUILT_IN_FORGE_API_URL", ""),
			APIKey: getEnv("BUILT_IN_FORGE_API_KEY", ""),
			Model:  getEnv("BUILT_IN_FORGE_MODEL", "gemini-2.5-flash"),
		},
		StockCacheMaxAge: time.Duration(getEnvInt("STOCK_CACHE_MAX_AGE_MINUTES", 15)) * time.Minute,
	}
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
