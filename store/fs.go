package store

import (
	"context"
	"os"
	"path/filepath"
)

// FileSystem defines the file operations the store needs. It keeps the
// store testable against a temp directory and portable to app-private
// storage on other platforms.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte) error
	DeleteFile(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	CreateDir(ctx context.Context, path string) error
	Join(elem ...string) string
}

// Local implements FileSystem on the local disk
type Local struct{}

// NewLocal creates a local filesystem
func NewLocal() *Local {
	return &Local{}
}

// ReadFile reads the file at path
func (l *Local) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// WriteFile writes data to path, creating parent directories as needed
func (l *Local) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DeleteFile removes the file at path
func (l *Local) DeleteFile(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Remove(path)
}

// Exists reports whether path exists
func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// CreateDir creates the directory at path including parents
func (l *Local) CreateDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.MkdirAll(path, 0o755)
}

// Join joins path elements
func (l *Local) Join(elem ...string) string {
	return filepath.Join(elem...)
}
