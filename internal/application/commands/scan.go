package commands

import (
	"context"
	"errors"
	"fmt"

	"bite/internal/application"
	"bite/internal/domain"
	"bite/internal/ports"
)

// ScanResult contains the result of scanning a folder for images
type ScanResult struct {
	Found   int
	Added   int // images new to the database
	Updated int // known images that gained a location
	Skipped []string
	Message string
}

// ScanCommand adds every image found in a folder, with its location
type ScanCommand struct {
	session   *application.Session
	source    ports.ImageSource
	Dir       string
	Recursive bool
}

// NewScanCommand creates a new ScanCommand
func NewScanCommand(session *application.Session, source ports.ImageSource, dir string, recursive bool) *ScanCommand {
	return &ScanCommand{
		session:   session,
		source:    source,
		Dir:       dir,
		Recursive: recursive,
	}
}

// Validate checks if the scan operation is valid
func (c *ScanCommand) Validate() error {
	return application.ValidateRequired("dir", c.Dir)
}

// Execute runs the scan command. Files are hashed before the database is
// touched, so a cancelled scan adds nothing.
func (c *ScanCommand) Execute(ctx context.Context) (*ScanResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	found, err := c.source.Scan(ctx, c.Dir, c.Recursive)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", c.Dir, err)
	}

	result := &ScanResult{Found: len(found)}
	err = c.session.Mutate(func(db *domain.Database) error {
		for _, img := range found {
			known := db.ContainsImage(img.Hash)
			added, err := db.AddImageLocation(img.Hash, img.Path)
			if errors.Is(err, domain.ErrInvalidLocation) {
				result.Skipped = append(result.Skipped, img.Path)
				continue
			}
			if err != nil {
				return fmt.Errorf("%s: %w", img.Path, err)
			}
			switch {
			case !known:
				result.Added++
			case added:
				result.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add scanned images: %w", err)
	}

	result.Message = fmt.Sprintf("Found %d images: %d added, %d updated", result.Found, result.Added, result.Updated)
	if len(result.Skipped) > 0 {
		result.Message += fmt.Sprintf(", %d skipped (whitespace in path)", len(result.Skipped))
	}
	return result, nil
}
