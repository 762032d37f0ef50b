// Package storage persists encrypted document bytes.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidLocation = errors.New("storage location outside base directory")
	ErrNotFound        = errors.New("stored file not found")
)

// DocumentStore saves and loads opaque blobs by location handle.
type DocumentStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Read(ctx context.Context, location string) ([]byte, error)
	Delete(ctx context.Context, location string) error
}

// GenerateName builds a collision-free file name that never contains the
// caller's original filename.
func GenerateName(userID uint, side, ext string) string {
	ext = strings.ToLower(filepath.Ext("x" + ext))
	return fmt.Sprintf("%d_%s_%d_%s%s", userID, side, time.Now().UnixMilli(), uuid.NewString(), ext)
}

// LocalStore keeps files flat under a base directory.
type LocalStore struct {
	basePath string
}

func NewLocalStore(basePath string) (*LocalStore, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{basePath: abs}, nil
}

func (s *LocalStore) resolve(location string) (string, error) {
	if location == "" || filepath.Base(location) != location || location == "." || location == ".." {
		return "", ErrInvalidLocation
	}
	return filepath.Join(s.basePath, location), nil
}

func (s *LocalStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return name, nil
}

func (s *LocalStore) Read(ctx context.Context, location string) ([]byte, error) {
	path, err := s.resolve(location)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Delete is a no-op for files that are already gone.
func (s *LocalStore) Delete(ctx context.Context, location string) error {
	path, err := s.resolve(location)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
