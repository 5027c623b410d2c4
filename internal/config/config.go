package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

const (
	DictionaryOracle = "oracle"
	DictionaryNone   = "none"
)

// Config holds process configuration read from the environment.
type Config struct {
	// StateTable is the DynamoDB table. Empty selects the in-memory store,
	// which only the dev server accepts.
	StateTable      string
	ParamPrefix     string
	OracleTimeout   time.Duration
	DictionaryCheck string
	LogLevel        zerolog.Level
	Port            string
	OpenAIBaseURL   string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load() (Config, error) {
	_ = godotenv.Load()

	timeoutSeconds, err := envInt("ORACLE_TIMEOUT_SECONDS", 8)
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		StateTable:      strings.TrimSpace(os.Getenv("STATE_TABLE")),
		ParamPrefix:     strings.TrimSpace(os.Getenv("PARAM_PREFIX")),
		OracleTimeout:   time.Duration(timeoutSeconds) * time.Second,
		DictionaryCheck: strings.ToLower(getEnv("DICTIONARY_CHECK", DictionaryOracle)),
		Port:            getEnv("PORT", "8080"),
		OpenAIBaseURL:   strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
	}

	if cfg.ParamPrefix == "" {
		return Config{}, errors.New("config: PARAM_PREFIX is required")
	}
	if cfg.OracleTimeout <= 0 {
		return Config{}, fmt.Errorf("config: ORACLE_TIMEOUT_SECONDS must be positive, got %s", os.Getenv("ORACLE_TIMEOUT_SECONDS"))
	}
	switch cfg.DictionaryCheck {
	case DictionaryOracle, DictionaryNone:
	default:
		return Config{}, fmt.Errorf("config: DICTIONARY_CHECK must be %q or %q, got %q", DictionaryOracle, DictionaryNone, cfg.DictionaryCheck)
	}

	lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = lvl
	return cfg, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt parses an integer variable; unset or blank yields def.
func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
