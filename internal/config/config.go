package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port           string
	Env            string
	DatabaseDSN    string
	JWTSecret      string
	JWTExpiry      time.Duration
	OracleAPIKey   string
	OracleBaseURL  string
	OracleTimeout  time.Duration
	ProfilesPath   string
	AllowedOrigins []string
}

func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/kokua?parseTime=true"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		JWTExpiry:      24 * time.Hour,
		OracleAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OracleBaseURL:  getEnv("ORACLE_BASE_URL", "https://api.openai.com/v1"),
		OracleTimeout:  getDuration("ORACLE_TIMEOUT", 30*time.Second),
		ProfilesPath:   getEnv("PROFILE_CONFIG_PATH", "profiles.json"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "https://kokua.fr,https://www.kokua.fr")),
	}

	if cfg.Env == "production" && cfg.JWTSecret == "dev-secret-change-in-production" {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	if cfg.OracleAPIKey == "" {
		slog.Warn("OPENAI_API_KEY not set — chat oracle calls will fail")
	}

	return cfg
}

// StrictAuth reports whether protected routes must require a valid token.
// Development mode relaxes them to optional so the frontend can be exercised
// without a login flow.
func (c Config) StrictAuth() bool {
	return c.Env != "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration, using fallback", "key", key, "value", v)
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
