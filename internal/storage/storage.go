// Package storage abstracts where user-uploaded files (avatars, banners)
// live: a local directory or an S3 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// Backend stores and retrieves opaque objects by key.
type Backend interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Config selects and configures a backend.
type Config struct {
	// Type is "local" or "s3".
	Type string `mapstructure:"type" yaml:"type"`

	// Local is the root directory for the local backend.
	Local LocalConfig `mapstructure:"local" yaml:"local"`

	// S3 configures the S3 backend.
	S3 S3Config `mapstructure:"s3" yaml:"s3"`
}

// LocalConfig configures the filesystem backend.
type LocalConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.Type == "" {
		c.Type = "local"
	}
	if c.Type == "local" && c.Local.Path == "" {
		c.Local.Path = filepath.Join("data", "files")
	}
}

// New builds the configured backend.
func New(ctx context.Context, cfg Config) (Backend, error) {
	cfg.ApplyDefaults()

	switch cfg.Type {
	case "local":
		return NewLocal(cfg.Local.Path)
	case "s3":
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// Local stores objects as files under a root directory.
type Local struct {
	root string
}

// NewLocal creates the root directory if needed.
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Local{root: root}, nil
}

func (l *Local) path(key string) (string, error) {
	// Keys are server-generated, but reject traversal anyway.
	clean := filepath.Clean(key)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid object key: %q", key)
	}
	return filepath.Join(l.root, clean), nil
}

func (l *Local) Put(_ context.Context, key string, data []byte, _ string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (l *Local) Get(_ context.Context, key string) ([]byte, error) {
	path, err := l.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (l *Local) Delete(_ context.Context, key string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
