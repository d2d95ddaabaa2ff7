package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "a2t/internal/app/errors"
)

// Scratch owns the temporary files created while handling one upload.
// Close removes every file it handed out; call it with defer so it also
// runs when the caller panics.
type Scratch struct {
	dir string

	mu     sync.Mutex
	paths  []string
	closed bool
}

// NewScratch returns a workspace rooted at dir. An empty dir means os.TempDir().
func NewScratch(dir string) (*Scratch, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrapf(err, "failed to create scratch directory %s", dir)
	}
	return &Scratch{dir: dir}, nil
}

// Dir returns the directory temp files are created in.
func (s *Scratch) Dir() string {
	return s.dir
}

// Create allocates a new empty temp file. pattern follows os.CreateTemp.
func (s *Scratch) Create(pattern string) (*os.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, apperrors.New("scratch workspace already closed")
	}

	f, err := os.CreateTemp(s.dir, pattern)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create temporary file")
	}
	s.paths = append(s.paths, f.Name())
	return f, nil
}

// CreatePath allocates a temp file and closes it, returning only its path.
// Used for outputs written by external tools.
func (s *Scratch) CreatePath(pattern string) (string, error) {
	f, err := s.Create(pattern)
	if err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", apperrors.Wrap(err, "failed to close temporary file")
	}
	return f.Name(), nil
}

// WriteFrom copies r into a new temp file and returns its path.
func (s *Scratch) WriteFrom(pattern string, r io.Reader) (string, int64, error) {
	f, err := s.Create(pattern)
	if err != nil {
		return "", 0, err
	}
	n, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if copyErr != nil {
		return f.Name(), n, apperrors.Wrap(copyErr, apperrors.ErrFileWriteFailed.Error())
	}
	if closeErr != nil {
		return f.Name(), n, apperrors.Wrap(closeErr, apperrors.ErrFileWriteFailed.Error())
	}
	return f.Name(), n, nil
}

// Paths returns the files allocated so far.
func (s *Scratch) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// Close deletes every allocated file. Files already gone are not an error.
// Close is idempotent.
func (s *Scratch) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for _, p := range s.paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	s.paths = nil

	if len(errs) > 0 {
		return apperrors.Wrap(errors.Join(errs...), apperrors.ErrCleanupFailed.Error())
	}
	return nil
}

// TempPattern builds an os.CreateTemp pattern that keeps ext as the suffix.
func TempPattern(prefix, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return prefix + "-*"
	}
	return fmt.Sprintf("%s-*.%s", prefix, ext)
}

// BaseName strips directories and the final extension from a client supplied filename.
func BaseName(filename string) string {
	// Browsers on Windows may send full paths with backslashes.
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
