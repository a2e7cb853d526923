// Package config loads runtime configuration for the stockyard console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c, -config or --config.
//  3. Environment variables prefixed STOCKYARD_ (see parseEnv). A dotenv file
//     given with --env-file, or ./.env when present, fills in variables that
//     the process environment does not set.
//  4. Command-line flags bound with BindFlags, which override earlier values.
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "15s" or integer
// nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:3000/api",
//	  "protected_prefix": "/api/",
//	  "store_path": "stockyard.db",
//	  "request_timeout": "15s",
//	  "session_check_interval": "1m",
//	  "password_change_paths": ["/auth/change-password"],
//	  "rate_limit": 10,
//	  "rate_burst": 5,
//	  "log_backend": "zap",
//	  "log_level": "debug",
//	  "log_format": "json",
//	  "export_dir": "exports",
//	  "s3": {"bucket": "reports", "prefix": "exports", "region": "us-east-1"}
//	}
package config
