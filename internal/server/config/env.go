package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables understood by parseEnv.
const (
	envPort        = "PORT"
	envDatabaseDSN = "DATABASE_DSN"
	envJWTSecret   = "JWT_SECRET"
	envAppEnv      = "APP_ENV"
	envLogLevel    = "LOG_LEVEL"
	envBcryptCost  = "BCRYPT_COST"
	envTokenTTL    = "TOKEN_TTL"
	envCORSOrigins = "CORS_ORIGINS"
)

type lookupFunc func(string) (string, bool)

// readDotEnv loads key/value pairs from path. A missing file is not an error.
func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

// chainLookup prefers the process environment over .env values.
func chainLookup(lookup lookupFunc, dotEnv map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotEnv[key]
		return v, ok
	}
}

// parseEnv overlays Config with non-empty environment values.
//
//	PORT          listen port, bound on all interfaces
//	DATABASE_DSN  PostgreSQL DSN
//	JWT_SECRET    HMAC secret
//	APP_ENV       "development" or anything else
//	LOG_LEVEL     debug, info, warn, error
//	BCRYPT_COST   integer work factor
//	TOKEN_TTL     Go duration, e.g. "24h"
//	CORS_ORIGINS  comma-separated origin list
func parseEnv(config *Config, lookup lookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(envPort); ok {
		if _, err := strconv.ParseUint(v, 10, 16); err != nil {
			return fmt.Errorf("%s: invalid port %q", envPort, v)
		}
		config.EndpointAddrHTTP = ":" + v
	}
	if v, ok := get(envDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := get(envJWTSecret); ok {
		config.SecretKey = v
	}
	if v, ok := get(envAppEnv); ok {
		config.Env = v
	}
	if v, ok := get(envLogLevel); ok {
		config.LogLevel = v
	}
	if v, ok := get(envBcryptCost); ok {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envBcryptCost, err)
		}
		config.BcryptCost = cost
	}
	if v, ok := get(envTokenTTL); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envTokenTTL, err)
		}
		config.TokenValidityDuration = ttl
	}
	if v, ok := get(envCORSOrigins); ok {
		config.CORSAllowedOrigins = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
