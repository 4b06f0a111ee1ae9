package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/spec-kit/account-portal/internal/config"
)

// PhotoStore persists uploaded profile photos on local disk and maps them to
// public URLs.
type PhotoStore struct {
	dir          string
	publicPrefix string
}

// NewPhotoStore builds a store rooted at the configured uploads directory.
func NewPhotoStore(cfg config.UploadConfig) *PhotoStore {
	return &PhotoStore{dir: cfg.Dir, publicPrefix: cfg.PublicPrefix}
}

// Save writes the photo bytes under a collision-free name derived from the
// owning user and returns the public URL. The file appears atomically from
// the perspective of the URL: the name is never handed out before the write
// succeeds.
func (s *PhotoStore) Save(userID, ext string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	filename := fmt.Sprintf("%s-%s.%s", userID, uuid.NewString(), ext)
	path := filepath.Join(s.dir, filename)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return s.publicPrefix + "/" + filename, nil
}
