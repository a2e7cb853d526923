package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/stockyard/internal/client/config"
	"github.com/dmitrijs2005/stockyard/internal/client/models"
)

func runRoot(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(cfg)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(bytes.NewReader(nil))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_WhoamiAnonymous(t *testing.T) {
	b := newFakeBackend(t, models.RoleAdmin)
	cfg := &config.Config{}
	cfg.LoadDefaults()

	out, err := runRoot(t, cfg, "whoami",
		"-a", b.srv.URL+"/api",
		"--store", filepath.Join(t.TempDir(), "s.db"),
		"--log-level", "error",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestRootCmd_ExportSignsInAndDownloads(t *testing.T) {
	b := newFakeBackend(t, models.RoleAdmin)
	cfg := testConfig(t, b)
	stubAnswers(t, "boss@stock.ar")
	stubPasswords(t, testPassword)

	out, err := runRoot(t, cfg, "export", "csv", "--from", "2025-02-01")
	require.NoError(t, err)

	assert.Contains(t, out, "export requires signing in")
	assert.Equal(t, "2025-02-01", b.query["desde"])
	_, err = os.Stat(filepath.Join(cfg.ExportDir, "reporte.csv"))
	assert.NoError(t, err)
}

func TestRootCmd_RejectsInvalidConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	_, err := runRoot(t, cfg, "whoami", "--log-format", "xml", "--store", filepath.Join(t.TempDir(), "s.db"))
	assert.ErrorContains(t, err, "unknown log format")
}

func TestExecute_MissingConfigFile(t *testing.T) {
	err := Execute(context.Background(), []string{"whoami", "-c", filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}
