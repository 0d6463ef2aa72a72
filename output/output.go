// Package output writes rendered article text to dated files. Files are
// write-once: an existing file is never overwritten.
package output

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrExists reports that the target file already exists. Callers treat it
// as a notice, not a failure; the previous content is preserved.
var ErrExists = errors.New("output file already exists")

// Writer places article files under a date-stamped directory.
type Writer struct {
	BaseDir string
}

// RunDir returns the output directory for a run started at t, named by
// calendar date.
func (w *Writer) RunDir(t time.Time) string {
	return filepath.Join(w.BaseDir, t.Format("20060102"))
}

// EnsureDir creates the directory (and parents) if needed. An existing
// directory is fine.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// WriteNew creates path exclusively and writes content to it. If the path
// already exists, WriteNew returns ErrExists and leaves the file untouched.
func WriteNew(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}

	return f.Close()
}

// ArticleFilename builds the per-article file name from its one-based
// position in the run and its title. The title stays UTF-8; only
// characters the filesystem cannot take are replaced.
func ArticleFilename(index int, title string) string {
	return fmt.Sprintf("%d_%s.txt", index, sanitizeTitle(title))
}

// sanitizeTitle replaces path separators and NUL so a title cannot escape
// the output directory.
func sanitizeTitle(title string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, title)
}
