package scanner

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"bite/internal/ports"
)

// DefaultExtensions are the file extensions considered by a scan
var DefaultExtensions = []string{".jpg", ".jpeg", ".png"}

// HashFile returns the lowercase hex MD5 of the file contents, the content
// identifier images are stored under
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("cannot hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Scanner implements ports.ImageSource over the local filesystem
type Scanner struct {
	extensions []string
}

// Ensure Scanner implements ImageSource
var _ ports.ImageSource = (*Scanner)(nil)

// New creates a scanner accepting the given extensions (case-insensitive,
// with leading dot). No extensions means DefaultExtensions.
func New(extensions ...string) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	exts := make([]string, len(extensions))
	for i, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[i] = ext
	}
	return &Scanner{extensions: exts}
}

// Accepts reports whether a file name has one of the scanned extensions
func (s *Scanner) Accepts(name string) bool {
	return slices.Contains(s.extensions, strings.ToLower(filepath.Ext(name)))
}

// Scan hashes every accepted image in dir. Files whose content is not a JPEG
// or PNG are skipped whatever their extension, and so are hidden entries.
// Paths in the result are absolute.
func (s *Scanner) Scan(ctx context.Context, dir string, recursive bool) ([]ports.ScannedImage, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	var found []ports.ScannedImage
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && (!recursive || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !d.Type().IsRegular() || !s.Accepts(d.Name()) {
			return nil
		}

		ok, err := isImage(path)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		hash, err := HashFile(path)
		if err != nil {
			return err
		}
		found = append(found, ports.ScannedImage{Hash: hash, Path: path})
		return nil
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	return found, nil
}

func isImage(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	format, err := Sniff(f)
	if err != nil {
		return false, err
	}
	return format != FormatUnknown, nil
}
