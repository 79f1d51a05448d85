package filesystem

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bite/internal/domain"
)

const (
	tagsFile          = "tags.txt"
	substitutionsFile = "tagsubs.txt"
	implicationsFile  = "tagimpls.txt"
	imagesDir         = "images"
	thumbsDir         = "thumbs"

	ratingPrefix    = "rating: "
	tagsPrefix      = "tags: "
	locationsPrefix = "locations: "

	// Written after the three fields above. Readers that only know rating,
	// tags and locations skip them.
	thumbnailPrefix   = "thumbnail: "
	interactionPrefix = "interaction: "

	// listSeparator separates the entries of the tags, locations and
	// interaction lines
	listSeparator = " "
)

// ParseError reports a malformed line in one of the data files
type ParseError struct {
	File   string
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Repository implements ports.DatabaseStore as a directory of flat text files
type Repository struct {
	dataDir string
}

// NewRepository creates a new filesystem repository
func NewRepository(dataDir string) *Repository {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~") {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, dataDir[1:])
	}
	return &Repository{dataDir: dataDir}
}

// DataDir returns the root of the data directory
func (r *Repository) DataDir() string {
	return r.dataDir
}

// ImagePath returns the path of the data file for an image
func (r *Repository) ImagePath(hash string) string {
	return filepath.Join(r.dataDir, imagesDir, hash)
}

// Init creates the data directory layout
func (r *Repository) Init() error {
	for _, dir := range []string{r.dataDir, filepath.Join(r.dataDir, imagesDir), filepath.Join(r.dataDir, thumbsDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// --- load ---

// Load replaces the contents of db with the stored state. Missing files mean
// empty tables.
func (r *Repository) Load(db *domain.Database) error {
	db.Clear()

	if err := r.loadTags(db); err != nil {
		return err
	}
	if err := r.loadImages(db); err != nil {
		return err
	}
	if err := r.loadPairs(substitutionsFile, db.AddSubstitution); err != nil {
		return err
	}
	return r.loadPairs(implicationsFile, db.AddImplication)
}

// eachLine calls fn for every non-blank line of the file. A missing file has
// no lines.
func (r *Repository) eachLine(path string, fn func(lineNo int, line string) error) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

func (r *Repository) loadTags(db *domain.Database) error {
	path := filepath.Join(r.dataDir, tagsFile)
	return r.eachLine(path, func(lineNo int, line string) error {
		typeField, tagPath, ok := strings.Cut(line, " ")
		if !ok {
			return &ParseError{File: path, Line: lineNo, Reason: fmt.Sprintf("expected \"<type> <path>\", got %q", line)}
		}
		n, err := strconv.Atoi(typeField)
		if err != nil || !domain.TagType(n).Valid() {
			return &ParseError{File: path, Line: lineNo, Reason: fmt.Sprintf("unknown tag type %q", typeField), Err: err}
		}
		if _, err := db.CreateAlongPath(tagPath, domain.TagType(n)); err != nil {
			return &ParseError{File: path, Line: lineNo, Reason: err.Error(), Err: err}
		}
		return nil
	})
}

func (r *Repository) loadImages(db *domain.Database) error {
	entries, err := os.ReadDir(filepath.Join(r.dataDir, imagesDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read images: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := r.loadImage(db, entry.Name()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) loadImage(db *domain.Database, hash string) error {
	path := r.ImagePath(hash)
	if err := db.AddImage(hash); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}

	return r.eachLine(path, func(lineNo int, line string) error {
		fail := func(err error) error {
			return &ParseError{File: path, Line: lineNo, Reason: err.Error(), Err: err}
		}

		switch {
		case strings.HasPrefix(line, ratingPrefix):
			rating, err := strconv.Atoi(strings.TrimSpace(line[len(ratingPrefix):]))
			if err != nil {
				return fail(err)
			}
			if err := db.SetRating(hash, rating); err != nil {
				return fail(err)
			}
		case strings.HasPrefix(line, tagsPrefix):
			for _, tagPath := range splitList(line[len(tagsPrefix):]) {
				if err := db.Assign(hash, tagPath, domain.TagTypeRegular); err != nil {
					return fail(err)
				}
			}
		case strings.HasPrefix(line, locationsPrefix):
			for _, loc := range splitList(line[len(locationsPrefix):]) {
				if _, err := db.AddImageLocation(hash, loc); err != nil {
					return fail(err)
				}
			}
		case strings.HasPrefix(line, thumbnailPrefix):
			if err := db.SetThumbnail(hash, line[len(thumbnailPrefix):]); err != nil {
				return fail(err)
			}
		case strings.HasPrefix(line, interactionPrefix):
			fields := splitList(line[len(interactionPrefix):])
			if len(fields) < 2 {
				return &ParseError{File: path, Line: lineNo, Reason: fmt.Sprintf("expected \"%s<interaction> <affected>...\", got %q", interactionPrefix, line)}
			}
			for _, affected := range fields[1:] {
				if err := db.AddInteraction(hash, fields[0], affected); err != nil {
					return fail(err)
				}
			}
		default:
			return &ParseError{File: path, Line: lineNo, Reason: fmt.Sprintf("unknown image field %q", line)}
		}
		return nil
	})
}

func (r *Repository) loadPairs(name string, add func(before, after string) error) error {
	path := filepath.Join(r.dataDir, name)
	return r.eachLine(path, func(lineNo int, line string) error {
		fields := strings.Split(line, " ")
		if len(fields) != 2 {
			return &ParseError{File: path, Line: lineNo, Reason: fmt.Sprintf("expected \"<before> <after>\", got %q", line)}
		}
		if err := add(fields[0], fields[1]); err != nil {
			return &ParseError{File: path, Line: lineNo, Reason: err.Error(), Err: err}
		}
		return nil
	})
}

// --- save ---

// Save writes the complete state of db. Unused tags are pruned first, and the
// data files of images no longer in db are removed.
func (r *Repository) Save(db *domain.Database) error {
	if err := r.Init(); err != nil {
		return err
	}

	db.PruneUnused()

	var buf bytes.Buffer
	for _, tag := range db.Tags() {
		fmt.Fprintf(&buf, "%d %s\n", int(tag.Type), tag.Path)
	}
	if err := writeFileAtomic(filepath.Join(r.dataDir, tagsFile), buf.Bytes()); err != nil {
		return err
	}

	keep := make(map[string]bool)
	for _, hash := range db.Images() {
		keep[hash] = true
		if err := r.saveImage(db, hash); err != nil {
			return err
		}
	}
	if err := r.removeStaleImages(keep); err != nil {
		return err
	}

	if err := writeFileAtomic(filepath.Join(r.dataDir, substitutionsFile), formatPairs(db.Substitutions())); err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(r.dataDir, implicationsFile), formatPairs(db.Implications()))
}

func (r *Repository) saveImage(db *domain.Database, hash string) error {
	img, err := db.Image(hash)
	if err != nil {
		return err
	}
	tags, err := db.ImageTags(hash)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s%d\n", ratingPrefix, img.Rating())
	if len(tags) > 0 {
		fmt.Fprintf(&buf, "%s%s\n", tagsPrefix, strings.Join(tags, listSeparator))
	}
	if locs := img.Locations(); len(locs) > 0 {
		fmt.Fprintf(&buf, "%s%s\n", locationsPrefix, strings.Join(locs, listSeparator))
	}
	if thumb := img.Thumbnail(); thumb != "" {
		fmt.Fprintf(&buf, "%s%s\n", thumbnailPrefix, thumb)
	}
	if err := writeInteractions(&buf, db, hash); err != nil {
		return err
	}
	return writeFileAtomic(r.ImagePath(hash), buf.Bytes())
}

// writeInteractions skips interactions whose tags were removed since they
// were recorded
func writeInteractions(buf *bytes.Buffer, db *domain.Database, hash string) error {
	paths, err := db.InteractionTags(hash)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if !db.ContainsTag(path) {
			continue
		}
		affected, _, err := db.Interactions(hash, path)
		if err != nil {
			return err
		}
		if len(affected) == 0 {
			continue
		}
		fmt.Fprintf(buf, "%s%s", interactionPrefix, path)
		for _, tag := range affected {
			fmt.Fprintf(buf, "%s%s", listSeparator, tag.Path)
		}
		buf.WriteString("\n")
	}
	return nil
}

func (r *Repository) removeStaleImages(keep map[string]bool) error {
	dir := filepath.Join(r.dataDir, imagesDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read images: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || keep[entry.Name()] {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove stale image %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// splitList splits a list line on the separator the writer uses. Entries
// never contain whitespace, so only empty entries from repeated separators
// are dropped.
func splitList(s string) []string {
	var out []string
	for _, entry := range strings.Split(s, listSeparator) {
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

func formatPairs(pairs []domain.Pair) []byte {
	var buf bytes.Buffer
	for _, p := range pairs {
		fmt.Fprintf(&buf, "%s %s\n", p.Before, p.After)
	}
	return buf.Bytes()
}

// writeFileAtomic writes data to a temporary file next to path and renames it
// into place
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
