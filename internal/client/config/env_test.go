package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) lookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func Test_parseEnv(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	err := parseEnv(&cfg, "", envMap(map[string]string{
		"STOCKYARD_API_BASE_URL":          "https://stock.example/api",
		"STOCKYARD_REQUEST_TIMEOUT":       "5s",
		"STOCKYARD_RATE_LIMIT":            "2.5",
		"STOCKYARD_RATE_BURST":            "1",
		"STOCKYARD_PASSWORD_CHANGE_PATHS": " /auth/password , ,/users/change-password",
		"STOCKYARD_S3_BUCKET":             "reports",
		"STOCKYARD_LOG_LEVEL":             "",
		"API_BASE_URL":                    "ignored without prefix",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://stock.example/api", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, 1, cfg.RateBurst)
	assert.Equal(t, []string{"/auth/password", "/users/change-password"}, cfg.PasswordChangePaths)
	assert.Equal(t, "reports", cfg.S3.Bucket)
	assert.Equal(t, "info", cfg.LogLevel, "empty values are ignored")
}

func Test_parseEnv_ReportsAllBadValues(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	err := parseEnv(&cfg, "", envMap(map[string]string{
		"STOCKYARD_REQUEST_TIMEOUT": "soon",
		"STOCKYARD_RATE_BURST":      "many",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STOCKYARD_REQUEST_TIMEOUT")
	assert.Contains(t, err.Error(), "STOCKYARD_RATE_BURST")
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func Test_parseEnv_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.env")
	require.NoError(t, os.WriteFile(path, []byte("# local\nSTOCKYARD_STORE_PATH=/tmp/s.db\nSTOCKYARD_LOG_FORMAT=json\n"), 0o600))

	var cfg Config
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(&cfg, path, envMap(map[string]string{"STOCKYARD_LOG_FORMAT": "text"})))

	assert.Equal(t, "/tmp/s.db", cfg.StorePath)
	assert.Equal(t, "text", cfg.LogFormat)
}

func Test_parseEnv_DefaultDotenv(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("STOCKYARD_EXPORT_DIR=out\n"), 0o600))

	var cfg Config
	require.NoError(t, parseEnv(&cfg, "", envMap(nil)))
	assert.Equal(t, "out", cfg.ExportDir)
}

func Test_parseEnv_MissingExplicitFile(t *testing.T) {
	var cfg Config
	err := parseEnv(&cfg, filepath.Join(t.TempDir(), "nope.env"), envMap(nil))
	require.Error(t, err)
}
