// Package export stores report files downloaded from the backend, either on
// the local disk or in an S3-compatible bucket.
package export

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/stockyard/internal/client/models"
	"github.com/dmitrijs2005/stockyard/internal/filex"
)

// FileSink writes exports into a directory, created on first use.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Put writes e under its base name and returns the absolute path.
func (s *FileSink) Put(_ context.Context, e *models.Export) (string, error) {
	name, err := safeName(e.Name)
	if err != nil {
		return "", err
	}
	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, name)
	if err := filex.WriteFileAtomic(p, e.Data, 0o640); err != nil {
		return "", err
	}
	return p, nil
}

func safeName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == ".." || base == "" {
		return "", fmt.Errorf("export name %q is not a file name", name)
	}
	return base, nil
}
