package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the process configuration, loaded from the environment with
// an optional .env overlay.
type Config struct {
	Port                  string
	AllowedOrigins        []string
	AllowedOriginSuffixes []string
	DatabaseDSN           string
	RedisURL              string
	IdentityURL           string
	IdentityServiceKey    string
}

// Load reads configuration from .env (when present) and the environment.
func Load() Config {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("PORT", "3001")
	viper.SetDefault("DATABASE_DSN", "file:pasar.db?cache=shared&_fk=1")

	return Config{
		Port:                  viper.GetString("PORT"),
		AllowedOrigins:        splitList(viper.GetString("ALLOWED_ORIGINS")),
		AllowedOriginSuffixes: splitList(viper.GetString("ALLOWED_ORIGIN_SUFFIXES")),
		DatabaseDSN:           viper.GetString("DATABASE_DSN"),
		RedisURL:              viper.GetString("REDIS_URL"),
		IdentityURL:           viper.GetString("IDENTITY_URL"),
		IdentityServiceKey:    viper.GetString("IDENTITY_SERVICE_KEY"),
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
