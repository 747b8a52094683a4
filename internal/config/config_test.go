package config

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("UPLOAD_MAX_LONG_VIDEO_MB", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg := Load()
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, int64(5<<20), cfg.MaxImageBytes)
	assert.Equal(t, int64(50<<20), cfg.MaxVideoBytes)
	assert.Equal(t, int64(500<<20), cfg.MaxLongVideoBytes)
}

func TestLoadOverrides(t *testing.T) {
	admin := uuid.New()
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("S3_USE_PATH_STYLE", "true")
	t.Setenv("UPLOAD_MAX_IMAGE_MB", "2")
	t.Setenv("ADMIN_USER_IDS", admin.String()+", not-a-uuid ,")
	t.Setenv("PUBLIC_BASE_URL", "https://api.example.com/")

	cfg := Load()
	assert.Equal(t, "s3", cfg.StorageDriver)
	assert.True(t, cfg.S3UsePathStyle)
	assert.Equal(t, int64(2<<20), cfg.MaxImageBytes)
	assert.True(t, cfg.IsAdmin(admin))
	assert.False(t, cfg.IsAdmin(uuid.New()))
	assert.Equal(t, "https://api.example.com/uploads", cfg.UploadsPublicURL())
}
