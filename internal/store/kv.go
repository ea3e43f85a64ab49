package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
)

// Key is where the interactive session persists itself.
const Key = "seesaw_state_v1"

var ErrNotFound = errors.New("store: key not found")

// KV is the minimal key-value surface the session persists through.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

var unsafeKey = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// FileKV keeps one file per key under a directory.
type FileKV struct {
	baseDir string
}

func NewFileKV(baseDir string) *FileKV {
	return &FileKV{baseDir: baseDir}
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.baseDir, unsafeKey.ReplaceAllString(key, "_")+".json")
}

func (f *FileKV) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

func (f *FileKV) Set(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(f.baseDir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.baseDir, ".kv-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}

func (f *FileKV) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
