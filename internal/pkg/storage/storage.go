package storage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge = errors.New("file exceeds the maximum upload size")
	ErrFileType     = errors.New("file type is not allowed")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store keeps uploaded files keyed by a relative path
type Store interface {
	Save(dir string, file *multipart.FileHeader) (string, error)
	Delete(key string) error
	URL(key string) string
}

// LocalStore stores files on the local disk under root
type LocalStore struct {
	root    string
	baseURL string
	maxSize int64
}

// NewLocalStore creates a disk-backed store. baseURL is the public prefix
// the root directory is served under.
func NewLocalStore(root, baseURL string, maxSize int64) *LocalStore {
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}
}

// Save writes the upload under dir with a generated name and returns its key
func (s *LocalStore) Save(dir string, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > s.maxSize {
		return "", fmt.Errorf("%s: %w", fileHeader.Filename, ErrFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%s: %w", fileHeader.Filename, ErrFileType)
	}

	if err := os.MkdirAll(filepath.Join(s.root, dir), 0755); err != nil {
		return "", err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := path.Join(dir, uuid.New().String()+ext)
	if err := writeFile(filepath.Join(s.root, filepath.FromSlash(key)), src); err != nil {
		return "", err
	}

	return key, nil
}

// writeFile copies src to target. A failed copy leaves no file behind.
func writeFile(target string, src io.Reader) error {
	dst, err := os.Create(target)
	if err != nil {
		return err
	}

	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(target)
		return err
	}
	return nil
}

// Delete removes a stored file; a missing file is not an error
func (s *LocalStore) Delete(key string) error {
	if key == "" {
		return nil
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid file key %q", key)
	}

	err := os.Remove(filepath.Join(s.root, clean))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// URL returns the public URL of a stored file, "" for an empty key
func (s *LocalStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + "/" + key
}
