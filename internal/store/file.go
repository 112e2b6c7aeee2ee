package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
)

// FileStore serves content from a directory on disk. The content
// directory is created if it does not exist.
type FileStore struct {
	root string
	log  *zap.Logger
}

var _ Store = (*FileStore)(nil)

// NewFileStore opens, creating if necessary, a file store rooted at
// dir.
func NewFileStore(dir string, log *zap.Logger) (*FileStore, error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Info("content directory does not exist, creating it",
			zap.String("dir", dir),
		)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating content directory: %w", err)
		}
	case err != nil:
		return nil, err
	case !info.IsDir():
		return nil, fmt.Errorf("content path %q is not a directory", dir)
	}

	return &FileStore{
		root: dir,
		log:  log.Named("store"),
	}, nil
}

// resolve maps a request path onto the content directory. Cleaning
// against "/" first collapses ".." segments so a request path cannot
// climb out of the root.
func (s *FileStore) resolve(p string) string {
	return filepath.Join(s.root, filepath.FromSlash(path.Clean("/"+p)))
}

func (s *FileStore) Retrieve(path string) ([]byte, bool, error) {
	name := s.resolve(path)

	s.log.Debug("retrieving content", zap.String("path", name))

	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return data, true, nil
}

func (s *FileStore) Create(path string, data []byte) (bool, error) {
	name := s.resolve(path)

	s.log.Debug("creating content", zap.String("path", name))

	if exists, err := fileExists(name); err != nil {
		return false, err
	} else if exists {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return false, err
	}

	if err := os.WriteFile(name, data, 0o644); err != nil {
		return false, err
	}

	return true, nil
}

func (s *FileStore) Replace(path string, data []byte) (bool, error) {
	name := s.resolve(path)

	s.log.Debug("replacing content", zap.String("path", name))

	if exists, err := fileExists(name); err != nil {
		return false, err
	} else if !exists {
		return false, nil
	}

	if err := os.WriteFile(name, data, 0o644); err != nil {
		return false, err
	}

	return true, nil
}

func (s *FileStore) Delete(path string) (bool, error) {
	name := s.resolve(path)

	s.log.Debug("deleting content", zap.String("path", name))

	info, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if info.IsDir() {
		if err := os.RemoveAll(name); err != nil {
			return false, err
		}
		return true, nil
	}

	if err := os.Remove(name); err != nil {
		return false, err
	}

	return true, nil
}

func (s *FileStore) Exists(path string) (bool, error) {
	name := s.resolve(path)

	s.log.Debug("checking content", zap.String("path", name))

	return fileExists(name)
}

func fileExists(name string) (bool, error) {
	info, err := os.Stat(name)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
