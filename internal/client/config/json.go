package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/stockyard/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Empty
// fields leave the current value untouched.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	ProtectedPrefix     string         `json:"protected_prefix"`
	StorePath           string         `json:"store_path"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	PasswordChangePaths []string       `json:"password_change_paths"`
	SessionCheck        timex.Duration `json:"session_check_interval"`
	RateLimit           *float64       `json:"rate_limit"`
	RateBurst           *int           `json:"rate_burst"`
	LogBackend          string         `json:"log_backend"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
	ExportDir           string         `json:"export_dir"`
	S3                  struct {
		Bucket    string `json:"bucket"`
		Prefix    string `json:"prefix"`
		Region    string `json:"region"`
		Endpoint  string `json:"endpoint"`
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`
	} `json:"s3"`
}

// parseJson overlays cfg with the JSON file at path. An empty path is a
// no-op.
func parseJson(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.ProtectedPrefix, jc.ProtectedPrefix)
	setString(&cfg.StorePath, jc.StorePath)
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionCheck.Duration != 0 {
		cfg.SessionCheckInterval = jc.SessionCheck.Duration
	}
	if len(jc.PasswordChangePaths) > 0 {
		cfg.PasswordChangePaths = jc.PasswordChangePaths
	}
	if jc.RateLimit != nil {
		cfg.RateLimit = *jc.RateLimit
	}
	if jc.RateBurst != nil {
		cfg.RateBurst = *jc.RateBurst
	}
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.ExportDir, jc.ExportDir)

	setString(&cfg.S3.Bucket, jc.S3.Bucket)
	setString(&cfg.S3.Prefix, jc.S3.Prefix)
	setString(&cfg.S3.Region, jc.S3.Region)
	setString(&cfg.S3.Endpoint, jc.S3.Endpoint)
	setString(&cfg.S3.AccessKey, jc.S3.AccessKey)
	setString(&cfg.S3.SecretKey, jc.S3.SecretKey)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
