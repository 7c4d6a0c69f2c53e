package storage

import (
	"io"
	"os"
	"path/filepath"
)

// FSStorage stores objects under a base directory on local disk.
type FSStorage struct {
	baseDir string
}

func NewFSStorage(baseDir string) *FSStorage {
	return &FSStorage{baseDir: baseDir}
}

func (s *FSStorage) Writer(key string) (io.WriteCloser, error) {
	path := filepath.Join(s.baseDir, key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.Create(path)
}

func (s *FSStorage) Reader(key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.baseDir, key))
}

func (s *FSStorage) Exists(key string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.baseDir, key))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func (s *FSStorage) Delete(key string) error {
	err := os.Remove(filepath.Join(s.baseDir, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
