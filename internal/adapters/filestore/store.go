// Package filestore keeps uploaded photo files under a configured directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/samirrijal/tripjournal/internal/pkg/metrics"
)

// ErrInvalidName is returned for names that could escape the store root.
var ErrInvalidName = errors.New("filestore: invalid file name")

const maxExtLength = 10

// Store implements ports.FileStore and ports.FileJanitor on an afero
// filesystem rooted at the image directory.
type Store struct {
	fs  afero.Fs
	log *slog.Logger
}

// New creates a Store writing to dir on the OS filesystem. The directory is
// created when missing.
func New(dir string, log *slog.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("filestore: image directory is required")
	}
	if err := afero.NewOsFs().MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create %s: %w", dir, err)
	}
	return NewWithFs(afero.NewBasePathFs(afero.NewOsFs(), dir), log), nil
}

// NewWithFs creates a Store on an arbitrary afero filesystem.
func NewWithFs(fsys afero.Fs, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{fs: fsys, log: log}
}

// Save writes r to a new file named after a random UUID and the lowercased
// extension of originalName.
func (s *Store) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	name := uuid.NewString() + extension(originalName)

	f, err := s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("filestore: create %s: %w", name, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(name)
		return "", fmt.Errorf("filestore: write %s: %w", name, err)
	}

	metrics.PhotoUploadBytes.Observe(float64(n))
	s.log.DebugContext(ctx, "file saved", "name", name, "bytes", n)
	return name, nil
}

// Open opens a stored file for reading.
func (s *Store) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return s.fs.Open(name)
}

// Delete removes a stored file. A missing file is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		metrics.FilesPurged.WithLabelValues("error").Inc()
		return fmt.Errorf("filestore: remove %s: %w", name, err)
	}
	metrics.FilesPurged.WithLabelValues("removed").Inc()
	s.log.DebugContext(ctx, "file removed", "name", name)
	return nil
}

// Purge deletes every named file and reports all failures together.
func (s *Store) Purge(ctx context.Context, names []string) error {
	var errs []error
	for _, name := range names {
		if err := s.Delete(ctx, name); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		s.log.WarnContext(ctx, "purge incomplete", "files", len(names), "failed", len(errs))
	}
	return errors.Join(errs...)
}

// Exists reports whether a stored file is present.
func (s *Store) Exists(name string) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	return afero.Exists(s.fs, name)
}

func checkName(name string) error {
	if name == "" || name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// extension returns the sanitised lowercase extension of name, including
// the dot, or "" when it has none worth keeping.
func extension(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) < 2 || len(ext) > maxExtLength {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
