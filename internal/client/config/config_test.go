package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/stockyard/internal/client/client"
	"github.com/dmitrijs2005/stockyard/internal/client/session"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, client.DefaultBaseURL, c.APIBaseURL)
	assert.Equal(t, "/api/", c.ProtectedPrefix)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, session.DefaultPasswordPaths, c.PasswordChangePaths)
	assert.False(t, c.S3.Enabled())
	require.NoError(t, c.Validate())
}

func TestLoadDefaults_CopiesPasswordPaths(t *testing.T) {
	var c Config
	c.LoadDefaults()
	c.PasswordChangePaths[0] = "/mutated"

	assert.Equal(t, "/auth/change-password", session.DefaultPasswordPaths[0])
}

func TestLoad_Precedence(t *testing.T) {
	t.Chdir(t.TempDir())

	cfgPath := writeTempJSON(t, "", "", map[string]any{
		"api_base_url":    "http://json.example/api",
		"request_timeout": "20s",
		"log_level":       "debug",
		"export_dir":      "json-exports",
	})
	envPath := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("STOCKYARD_LOG_LEVEL=warn\nSTOCKYARD_EXPORT_DIR=file-exports\n"), 0o600))
	t.Setenv("STOCKYARD_EXPORT_DIR", "env-exports")

	args := []string{"--config", cfgPath, "--env-file", envPath, "--timeout", "30s"}
	cfg, err := Load(args)
	require.NoError(t, err)

	assert.Equal(t, "http://json.example/api", cfg.APIBaseURL)
	assert.Equal(t, "warn", cfg.LogLevel, "dotenv overrides JSON")
	assert.Equal(t, "env-exports", cfg.ExportDir, "process env overrides dotenv")
	assert.Equal(t, 20*time.Second, cfg.RequestTimeout)

	fs := pflag.NewFlagSet("console", pflag.ContinueOnError)
	BindFlags(fs, cfg)
	require.NoError(t, fs.Parse(args))

	assert.Equal(t, 30*time.Second, cfg.RequestTimeout, "flags override everything")
	assert.Equal(t, "http://json.example/api", cfg.APIBaseURL, "unset flags keep layered values")
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load([]string{"-c", filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)
}

func TestBindFlags(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	fs := pflag.NewFlagSet("console", pflag.ContinueOnError)
	BindFlags(fs, &cfg)
	require.NoError(t, fs.Parse([]string{
		"-a", "https://stock.example/api",
		"--password-path", "/a,/b",
		"--rate-limit", "0",
		"--s3-bucket", "reports",
		"--log-backend", "zap",
	}))

	want := Config{}
	want.LoadDefaults()
	want.APIBaseURL = "https://stock.example/api"
	want.PasswordChangePaths = []string{"/a", "/b"}
	want.RateLimit = 0
	want.S3.Bucket = "reports"
	want.LogBackend = "zap"

	assert.Empty(t, cmp.Diff(want, cfg))
	assert.True(t, cfg.S3.Enabled())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty url", mutate: func(c *Config) { c.APIBaseURL = "" }},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }},
		{name: "no password paths", mutate: func(c *Config) { c.PasswordChangePaths = nil }},
		{name: "negative burst", mutate: func(c *Config) { c.RateBurst = -1 }},
		{name: "bad backend", mutate: func(c *Config) { c.LogBackend = "logrus" }},
		{name: "bad format", mutate: func(c *Config) { c.LogFormat = "xml" }},
		{name: "bucket without region", mutate: func(c *Config) { c.S3.Bucket = "b"; c.S3.Region = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
