package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Storage persists uploaded media under opaque keys.
type Storage interface {
	// Write stores content from r under key. size is the expected length (-1 if unknown).
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL the stored object is served from.
	URL(key string) string
}

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

type Config struct {
	Driver        string
	LocalDir      string
	PublicBaseURL string
	S3            S3Config
}

// New builds the backend selected by cfg.Driver.
func New(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Driver {
	case "", DriverLocal:
		return NewLocalStorage(LocalConfig{BasePath: cfg.LocalDir, PublicBaseURL: cfg.PublicBaseURL})
	case DriverS3:
		return NewS3Storage(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}
