package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath           string
	ServerPort       string
	LogLevel         string
	DreamhackBaseURL string
	GithubBaseURL    string
	GithubToken      string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:           getEnv("DB_PATH", "badge.db"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DreamhackBaseURL: getEnv("DREAMHACK_BASE_URL", "https://dreamhack.io"),
		GithubBaseURL:    getEnv("GITHUB_BASE_URL", "https://api.github.com"),
		GithubToken:      getEnv("GITHUB_TOKEN", ""),
	}

	if cfg.GithubToken == "" {
		logger.Warn().Msg("GITHUB_TOKEN not set, /api/users-count will be unavailable")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("dreamhack_base_url", cfg.DreamhackBaseURL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
