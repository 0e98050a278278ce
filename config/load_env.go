package config

import (
	"log/slog"
	"os"

	"github.com/subosito/gotenv"
)

const DEFAULT_ENV = "dev"

// AppEnv returns APP_ENV, falling back to dev.
func AppEnv() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = DEFAULT_ENV
	}
	return env
}

func LoadEnv(env string) {
	envFile := "config/envs/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("[Config] No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}
