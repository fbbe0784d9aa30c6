// Package config loads runtime configuration for the PassVault terminal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API, including the /api prefix
//	-f string   path of the local session database
//	-t int      per-request timeout (seconds)
//	-n int      default length for generated passwords
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:5001/api",
//	  "session_db": "vault.db",
//	  "request_timeout": "10s",
//	  "default_length": 16,
//	  "log_level": "warn"
//	}
package config
