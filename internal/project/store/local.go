// Package store persists uploaded drawing files on the local filesystem.
package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aibuildx/platform/internal/config"
	"github.com/aibuildx/platform/internal/project/domain"
)

type Local struct {
	root string
}

func NewLocal(cfg config.Config) domain.Store {
	return &Local{root: cfg.UploadDir}
}

// Save writes the file under the upload root and returns the relative path.
// relPath must already be sanitized by the caller; path escapes are refused.
func (s *Local) Save(ctx context.Context, relPath string, r io.Reader) (string, error) {
	_ = ctx

	clean := filepath.Clean(relPath)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid upload path %q", relPath)
	}

	target := filepath.Join(s.root, clean)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return clean, nil
}

func (s *Local) Remove(ctx context.Context, relPath string) error {
	_ = ctx

	clean := filepath.Clean(relPath)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid upload path %q", relPath)
	}
	return os.Remove(filepath.Join(s.root, clean))
}
