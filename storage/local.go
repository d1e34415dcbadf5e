package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gspotify/logger"

	"github.com/google/uuid"
)

// LocalStore keeps blobs as files under a single root directory. Filenames
// are uuid-based, so a Save can never overwrite an existing blob.
type LocalStore struct {
	root string
	// mark is set by a Watcher so the store can flag its own writes and
	// deletes before they raise filesystem events.
	mark func(identifier string)
}

func (s *LocalStore) setMark(fn func(identifier string)) {
	s.mark = fn
}

// NewLocalStore creates the root directory if needed and returns a store over it.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// Root returns the store's directory.
func (s *LocalStore) Root() string {
	return s.root
}

// path maps an identifier to its on-disk location. Identifiers are generated
// by this package, but path-traversal characters are still rejected since
// identifiers travel through URLs.
func (s *LocalStore) path(identifier string) (string, bool) {
	if identifier == "" || strings.ContainsAny(identifier, "/\\") || strings.Contains(identifier, "..") {
		return "", false
	}
	return filepath.Join(s.root, identifier), true
}

// Save writes data under a fresh uuid-based name and returns the identifier.
func (s *LocalStore) Save(data []byte, ext string) (string, error) {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	identifier := uuid.NewString() + ext
	if s.mark != nil {
		s.mark(identifier)
	}

	fullPath := filepath.Join(s.root, identifier)
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", identifier, err)
	}
	return identifier, nil
}

// Exists reports whether the blob is present on disk.
func (s *LocalStore) Exists(identifier string) bool {
	fullPath, ok := s.path(identifier)
	if !ok {
		return false
	}
	_, err := os.Stat(fullPath)
	return err == nil
}

// Size returns the blob's byte length, or 0 when it cannot be determined.
// A vanished file between Exists and Size is tolerated, not fatal.
func (s *LocalStore) Size(identifier string) int64 {
	fullPath, ok := s.path(identifier)
	if !ok {
		return 0
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		logger.Warn("Failed to stat stored file",
			logger.String("identifier", identifier),
			logger.ErrorField(err),
		)
		return 0
	}
	return info.Size()
}

// Delete removes the blob. Deleting an absent blob returns false, not an error.
func (s *LocalStore) Delete(identifier string) bool {
	fullPath, ok := s.path(identifier)
	if !ok {
		return false
	}
	if s.mark != nil {
		s.mark(identifier)
	}
	if err := os.Remove(fullPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to delete stored file",
				logger.String("identifier", identifier),
				logger.ErrorField(err),
			)
		}
		return false
	}
	return true
}

// Open returns a seekable read handle for the blob.
func (s *LocalStore) Open(identifier string) (ReadSeekCloser, error) {
	fullPath, ok := s.path(identifier)
	if !ok {
		return nil, ErrNotFound
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open stored file %s: %w", identifier, err)
	}
	return f, nil
}
