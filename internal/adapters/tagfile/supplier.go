package tagfile

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"bite/internal/ports"
)

// Supplier implements ports.TagSupplier from a dump file of
// "<hash> <tag> <tag> ..." lines. The file is read once on creation.
type Supplier struct {
	tags map[string][]string
}

// Ensure Supplier implements TagSupplier
var _ ports.TagSupplier = (*Supplier)(nil)

// Open reads the dump file at path
func Open(path string) (*Supplier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open tag dump: %w", err)
	}
	defer f.Close()

	s := &Supplier{tags: make(map[string][]string)}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		hash := strings.ToLower(fields[0])
		s.tags[hash] = append(s.tags[hash], fields[1:]...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tag dump %s: %w", path, err)
	}
	return s, nil
}

// Len returns the number of images in the dump
func (s *Supplier) Len() int {
	return len(s.tags)
}

// Tags returns the dumped tags of an image, none if it is not in the dump
func (s *Supplier) Tags(ctx context.Context, hash string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.tags[strings.ToLower(hash)], nil
}
