package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes uploads under a directory that the router serves
// statically at PublicPrefix.
type DiskStore struct {
	dir    string
	prefix string
}

// NewDisk creates the upload directory if needed.
func NewDisk(dir, publicPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{dir: dir, prefix: "/" + strings.Trim(publicPrefix, "/")}, nil
}

// Dir returns the directory files are written to.
func (d *DiskStore) Dir() string { return d.dir }

// PublicPrefix returns the URL path the directory is served under.
func (d *DiskStore) PublicPrefix() string { return d.prefix }

func (d *DiskStore) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(d.dir, key), nil
}

// Put writes body to the key's file and returns its public path. A partial
// file is removed if the copy fails.
func (d *DiskStore) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	path, err := d.path(key)
	if err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close %s: %w", key, err)
	}
	return d.prefix + "/" + key, nil
}

// Remove deletes the key's file. A missing file is not an error.
func (d *DiskStore) Remove(_ context.Context, key string) error {
	path, err := d.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
