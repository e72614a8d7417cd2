package uploads

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store persists uploaded files in a single local directory. The same
// directory is served statically under /uploads.
type Store struct {
	dir string
}

// New creates the upload directory if needed and returns the store.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory files are written to.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes src to disk under a generated name and returns that name.
// The original filename only contributes its extension.
func (s *Store) Save(src io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	filename := fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), uuid.NewString(), ext)

	dst, err := os.Create(s.Path(filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(s.Path(filename))
		return "", fmt.Errorf("write file: %w", err)
	}

	return filename, nil
}

// Path resolves a stored name inside the upload directory. The name is
// reduced to its base so request input cannot traverse out of the directory.
func (s *Store) Path(filename string) string {
	return filepath.Join(s.dir, filepath.Base(filename))
}

// Read returns the stored bytes for a filename.
func (s *Store) Read(filename string) ([]byte, error) {
	return os.ReadFile(s.Path(filename))
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (s *Store) Remove(filename string) error {
	err := os.Remove(s.Path(filename))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
