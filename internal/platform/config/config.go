package config

import (
	"os"
	"strconv"
)

// Server captures the process-level configuration.
type Server struct {
	Addr          string
	DatabaseURL   string
	RedisURL      string
	JWTSigningKey string

	// PreferenceBackend selects the preference store: "postgres" (default
	// when DatabaseURL is set), "redis", or "memory".
	PreferenceBackend string

	HomeLimit   int
	SearchLimit int
	TripsLimit  int
	BlogsLimit  int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:              envOr("WAYFARER_ADDR", ":8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		JWTSigningKey:     envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		PreferenceBackend: os.Getenv("PREFERENCE_BACKEND"),
		HomeLimit:         envIntOr("HOME_LIMIT", 6),
		SearchLimit:       envIntOr("SEARCH_LIMIT", 20),
		TripsLimit:        envIntOr("TRIPS_LIMIT", 20),
		BlogsLimit:        envIntOr("BLOGS_LIMIT", 12),
	}
	if cfg.PreferenceBackend == "" {
		if cfg.DatabaseURL != "" {
			cfg.PreferenceBackend = "postgres"
		} else {
			cfg.PreferenceBackend = "memory"
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
