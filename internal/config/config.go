// Package config loads runtime configuration from environment variables:
// the core settings here, plus the Redis client and the cache and
// rate-limit sections in their own files.
package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds the core runtime settings. Each field corresponds to an
// environment variable; required ones are enforced by must() at startup.
type Config struct {
	Env            string // APP_ENV: application environment (dev/test/prod)
	Port           string // APP_PORT: HTTP port to listen on
	DBUser         string // DB_USER
	DBPass         string // DB_PASS (empty allowed)
	DBHost         string // DB_HOST
	DBPort         string // DB_PORT
	DBName         string // DB_NAME
	JWTSecret      string // JWT_SECRET: HS256 signing secret
	AccessTTLMin   int    // ACCESS_TOKEN_TTL_MIN: access token lifetime in minutes
	RefreshTTLDays int    // REFRESH_TOKEN_TTL_DAYS: refresh token lifetime in days
	BcryptCost     int    // BCRYPT_COST: bcrypt cost for password hashing
}

// Load reads the configuration from the environment. Missing required
// variables abort the process with a fatal log message.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is must() plus integer conversion.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
