package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storefront/internal/config"
)

// Store persists an image under name and returns the URL clients use to fetch it.
type Store interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// NewStore builds the Store selected by cfg.Store ("local" or "s3").
func NewStore(ctx context.Context, cfg config.Media) (Store, error) {
	switch cfg.Store {
	case "local", "":
		return NewLocalStore(cfg.LocalDir, cfg.PublicURL), nil
	case "s3":
		return NewS3Store(ctx, S3Config{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			UsePathStyle: cfg.S3UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported media store %q", cfg.Store)
	}
}

// LocalStore writes images into a directory served as static files.
type LocalStore struct {
	dir       string
	publicURL string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore stores files in dir and links them under publicURL.
func NewLocalStore(dir, publicURL string) *LocalStore {
	return &LocalStore{dir: dir, publicURL: strings.TrimSuffix(publicURL, "/")}
}

// Put writes data to <dir>/<name>.
func (s *LocalStore) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, filepath.Base(name)), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return s.publicURL + "/" + filepath.Base(name), nil
}
