package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/stockyard/internal/client/client"
	"github.com/dmitrijs2005/stockyard/internal/client/session"
	"github.com/dmitrijs2005/stockyard/internal/flagx"
)

// S3 configures the optional report archive. Exports go to the local
// export directory when Bucket is empty.
type S3 struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Enabled reports whether reports should be uploaded to a bucket.
func (s S3) Enabled() bool { return s.Bucket != "" }

// Config holds runtime settings for the console.
type Config struct {
	APIBaseURL          string
	ProtectedPrefix     string
	StorePath           string
	RequestTimeout      time.Duration
	PasswordChangePaths []string

	// SessionCheckInterval is how often the console revalidates the
	// credential in the background; zero disables the watcher.
	SessionCheckInterval time.Duration

	// RateLimit is requests per second; zero disables throttling.
	RateLimit float64
	RateBurst int

	LogBackend string
	LogLevel   string
	LogFormat  string

	ExportDir string
	S3        S3
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = client.DefaultBaseURL
	c.ProtectedPrefix = "/api/"
	c.StorePath = "stockyard.db"
	c.RequestTimeout = 15 * time.Second
	c.PasswordChangePaths = append([]string(nil), session.DefaultPasswordPaths...)
	c.SessionCheckInterval = time.Minute
	c.RateLimit = 10
	c.RateBurst = 5
	c.LogBackend = "slog"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ExportDir = "exports"
	c.S3 = S3{Region: "us-east-1"}
}

// Load applies defaults, then the JSON file and the environment. Flags are
// applied later by the command tree, see BindFlags.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, flagx.ConfigFileFlag(args)); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, flagx.EnvFileFlag(args), os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	var errs []error
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("api base url is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.SessionCheckInterval < 0 {
		errs = append(errs, fmt.Errorf("session check interval must not be negative, got %s", c.SessionCheckInterval))
	}
	if len(c.PasswordChangePaths) == 0 {
		errs = append(errs, errors.New("at least one password change path is required"))
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		errs = append(errs, errors.New("rate limit and burst must not be negative"))
	}
	switch c.LogBackend {
	case "slog", "zap":
	default:
		errs = append(errs, fmt.Errorf("unknown log backend %q", c.LogBackend))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}
	if c.S3.Enabled() && c.S3.Region == "" {
		errs = append(errs, errors.New("s3 region is required when a bucket is set"))
	}
	return errors.Join(errs...)
}
