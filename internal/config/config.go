package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port               string
	Environment        string
	PublicURL          string
	SupabaseURL        string
	SupabaseKey        string // anon key, sent as apikey to the auth API
	SupabaseServiceKey string // service role key, seed command only
	SupabaseDBURL      string
	SupabaseJWKSURL    string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins        string
	TablePrefix        string
	// Completion API
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	DefaultModel      string
	CompletionTimeout time.Duration
	// Session cookie
	SessionSecret string
	CookieSecure  bool
	// Logging
	LogDir string
	Debug  bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	supabaseURL := strings.TrimRight(getEnv("SUPABASE_URL", ""), "/")

	return &Config{
		Port:               getEnv("PORT", "8080"),
		Environment:        env,
		PublicURL:          strings.TrimRight(getEnv("PUBLIC_URL", "http://localhost:3000"), "/"),
		SupabaseURL:        supabaseURL,
		SupabaseKey:        getEnv("SUPABASE_KEY", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseDBURL:      getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL:    supabaseURL + "/auth/v1/.well-known/jwks.json",
		CORSOrigins:        getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:        getTablePrefix(env),
		OpenRouterAPIKey:   getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterBaseURL:  getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		DefaultModel:       getEnv("DEFAULT_MODEL", "x-ai/grok-code-fast-1"),
		CompletionTimeout:  getDuration("COMPLETION_TIMEOUT", 30*time.Second),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		CookieSecure:       getEnv("COOKIE_SECURE", getDefaultCookieSecure(env)) == "true",
		LogDir:             getEnv("LOG_DIR", ""),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// IsProd reports whether the service runs in the production environment.
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

func getDefaultCookieSecure(env string) string {
	if env == "prod" {
		return "true"
	}
	return "false"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a Go duration string ("30s", "1m"); malformed values fall back to the default.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
