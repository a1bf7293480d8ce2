package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imagegallery/gallery/internal/infrastructure/config"
)

func TestNew_DiskCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	s, err := New(context.Background(), config.StorageConfig{Backend: "disk", UploadDir: dir})
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, "disk", s.Backend())
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Backend: "ftp"})
	assert.Error(t, err)
}

func TestNew_MinioRequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{
		Backend: "minio",
		MinIO:   config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "gallery"},
	})
	assert.Error(t, err)
}
