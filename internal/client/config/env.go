package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the console reads.
const EnvPrefix = "STOCKYARD_"

const defaultEnvFile = ".env"

type lookupFunc func(string) (string, bool)

// parseEnv overlays cfg with STOCKYARD_* variables. Variables set in the
// process environment win over those in the dotenv file.
func parseEnv(cfg *Config, envFile string, lookup lookupFunc) error {
	fileVars, err := readEnvFile(envFile)
	if err != nil {
		return err
	}
	get := func(key string) (string, bool) {
		if v, ok := lookup(EnvPrefix + key); ok {
			return v, true
		}
		v, ok := fileVars[EnvPrefix+key]
		return v, ok
	}

	var errs []error
	str := func(key string, dst *string) {
		if v, ok := get(key); ok && v != "" {
			*dst = v
		}
	}

	str("API_BASE_URL", &cfg.APIBaseURL)
	str("PROTECTED_PREFIX", &cfg.ProtectedPrefix)
	str("STORE_PATH", &cfg.StorePath)
	str("LOG_BACKEND", &cfg.LogBackend)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	str("EXPORT_DIR", &cfg.ExportDir)
	str("S3_BUCKET", &cfg.S3.Bucket)
	str("S3_PREFIX", &cfg.S3.Prefix)
	str("S3_REGION", &cfg.S3.Region)
	str("S3_ENDPOINT", &cfg.S3.Endpoint)
	str("S3_ACCESS_KEY", &cfg.S3.AccessKey)
	str("S3_SECRET_KEY", &cfg.S3.SecretKey)

	duration := func(key string, dst *time.Duration) {
		if v, ok := get(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}
	duration("REQUEST_TIMEOUT", &cfg.RequestTimeout)
	duration("SESSION_CHECK_INTERVAL", &cfg.SessionCheckInterval)

	if v, ok := get("RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRATE_LIMIT: %w", EnvPrefix, err))
		} else {
			cfg.RateLimit = f
		}
	}
	if v, ok := get("RATE_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sRATE_BURST: %w", EnvPrefix, err))
		} else {
			cfg.RateBurst = n
		}
	}
	if v, ok := get("PASSWORD_CHANGE_PATHS"); ok && v != "" {
		if paths := splitList(v); len(paths) > 0 {
			cfg.PasswordChangePaths = paths
		}
	}
	return errors.Join(errs...)
}

// readEnvFile reads path, or ./.env when path is empty and the file exists.
func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		if _, err := os.Stat(defaultEnvFile); err != nil {
			return nil, nil
		}
		path = defaultEnvFile
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return vars, nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
