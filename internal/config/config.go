package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env    string // application environment (e.g. "dev", "prod")
	Port   string // HTTP port to listen on
	DBUser string
	DBPass string // may be empty
	DBHost string
	DBPort string
	DBName string

	SessionTTLDays int    // lifetime of a session token in days
	HashAlgo       string // "argon2id" or "bcrypt"
	BcryptCost     int

	IdentityProviderURL     string
	IdentityProviderTimeout time.Duration

	SeedEnabled    bool
	CORSOrigins    []string
	MigrateOnStart bool
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must(); missing values stop
// the program with a fatal log message.
func Load() Config {
	env := must("APP_ENV")
	return Config{
		Env:    env,
		Port:   must("APP_PORT"),
		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		SessionTTLDays: envInt("SESSION_TTL_DAYS", 7),
		HashAlgo:       envStr("HASH_ALGO", "argon2id"),
		BcryptCost:     envInt("BCRYPT_COST", 12),

		IdentityProviderURL:     envStr("IDENTITY_PROVIDER_URL", "https://demobackend.emergentagent.com/auth/v1/env/oauth/session-data"),
		IdentityProviderTimeout: envDur("IDENTITY_PROVIDER_TIMEOUT", 10*time.Second),

		// reference-data reset is only exposed in development unless forced
		SeedEnabled:    envBool("SEED_ENABLED", env == "dev"),
		CORSOrigins:    splitList(envStr("CORS_ORIGINS", "*")),
		MigrateOnStart: envBool("DB_MIGRATE", true),
	}
}

// SessionTTL returns the configured session lifetime.
func (c Config) SessionTTL() time.Duration {
	days := c.SessionTTLDays
	if days < 1 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
