package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/account-portal/internal/config"
)

func TestPhotoStore_Save(t *testing.T) {
	dir := t.TempDir()
	store := NewPhotoStore(config.UploadConfig{Dir: dir, PublicPrefix: "/uploads/profiles"})

	url, err := store.Save("user-1", "png", []byte("png-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "/uploads/profiles/user-1-"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/profiles/")))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestPhotoStore_SaveGeneratesUniqueNames(t *testing.T) {
	store := NewPhotoStore(config.UploadConfig{Dir: t.TempDir(), PublicPrefix: "/uploads/profiles"})

	first, err := store.Save("user-1", "png", []byte("a"))
	require.NoError(t, err)
	second, err := store.Save("user-1", "png", []byte("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPhotoStore_SaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "profiles")
	store := NewPhotoStore(config.UploadConfig{Dir: dir, PublicPrefix: "/uploads/profiles"})

	_, err := store.Save("user-1", "gif", []byte("gif-bytes"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
