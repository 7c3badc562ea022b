package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fadilmartias/panel-review/internal/config"
)

// LocalStore persists report artifacts on the local filesystem and returns
// URLs under the configured base.
type LocalStore struct {
	Dir     string
	BaseURL string
}

func NewLocalStore() *LocalStore {
	cfg := config.LoadStorageConfig()
	return &LocalStore{Dir: cfg.Dir, BaseURL: cfg.BaseURL}
}

// Save writes the artifact and returns its URL.
func (s *LocalStore) Save(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}

	name := filepath.Base(filename)
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", name, err)
	}

	if s.BaseURL == "" {
		return path, nil
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + name, nil
}
