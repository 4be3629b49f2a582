package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"contractorbill/logging"
)

const defaultMaxUploadMB = 10

// Config holds application configuration sourced from environment variables.
type Config struct {
	Logging     logging.Config
	MaxUploadMB int
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: a missing .env is fine and real environment wins.
	_ = godotenv.Load()
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) Config {
	cfg := Config{
		Logging:     logging.DefaultConfig(),
		MaxUploadMB: defaultMaxUploadMB,
	}
	if v := getenv("BILL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := getenv("BILL_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := getenv("BILL_LOG_OUTPUT"); v != "" {
		cfg.Logging.Output = v
	}
	if n, err := strconv.Atoi(getenv("BILL_MAX_UPLOAD_MB")); err == nil && n > 0 {
		cfg.MaxUploadMB = n
	}
	return cfg
}

// MaxUploadBytes is the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
