package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the console flags on fs. Each flag defaults to the
// value already in cfg, so flags override only what the user passes.
//
// The config and env-file flags are declared for help output and parsing;
// Load has already consumed them.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringP("config", "c", "", "path to a JSON config file")
	fs.String("env-file", "", "path to a dotenv file (default ./.env when present)")

	fs.StringVarP(&cfg.APIBaseURL, "api-url", "a", cfg.APIBaseURL, "backend API base URL")
	fs.StringVar(&cfg.ProtectedPrefix, "protected-prefix", cfg.ProtectedPrefix, "URL path prefix that receives the bearer token")
	fs.StringVar(&cfg.StorePath, "store", cfg.StorePath, "SQLite file holding the cached session")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout")
	fs.DurationVar(&cfg.SessionCheckInterval, "session-check", cfg.SessionCheckInterval, "background credential check interval (0 disables)")
	fs.StringSliceVar(&cfg.PasswordChangePaths, "password-path", cfg.PasswordChangePaths, "password change endpoints, tried in order")
	fs.Float64Var(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "outbound requests per second (0 disables)")
	fs.IntVar(&cfg.RateBurst, "rate-burst", cfg.RateBurst, "outbound request burst")

	fs.StringVar(&cfg.LogBackend, "log-backend", cfg.LogBackend, "log backend: slog or zap")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")

	fs.StringVar(&cfg.ExportDir, "export-dir", cfg.ExportDir, "directory for downloaded reports")
	fs.StringVar(&cfg.S3.Bucket, "s3-bucket", cfg.S3.Bucket, "upload exported reports to this bucket")
	fs.StringVar(&cfg.S3.Prefix, "s3-prefix", cfg.S3.Prefix, "object key prefix for exported reports")
	fs.StringVar(&cfg.S3.Region, "s3-region", cfg.S3.Region, "bucket region")
	fs.StringVar(&cfg.S3.Endpoint, "s3-endpoint", cfg.S3.Endpoint, "S3-compatible endpoint, e.g. a MinIO URL")
	fs.StringVar(&cfg.S3.AccessKey, "s3-access-key", cfg.S3.AccessKey, "static access key")
	fs.StringVar(&cfg.S3.SecretKey, "s3-secret-key", cfg.S3.SecretKey, "static secret key")
}
