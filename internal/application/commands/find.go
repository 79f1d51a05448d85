package commands

import (
	"context"
	"fmt"

	"bite/internal/application"
	"bite/internal/domain"
	"bite/internal/ports"
)

// FindImagesCommand queries the tag index for images. The index is rebuilt
// from the loaded database before querying.
type FindImagesCommand struct {
	session *application.Session
	index   ports.TagIndex
	Query   ports.ImageQuery
}

// NewFindImagesCommand creates a new FindImagesCommand
func NewFindImagesCommand(session *application.Session, index ports.TagIndex, q ports.ImageQuery) *FindImagesCommand {
	return &FindImagesCommand{
		session: session,
		index:   index,
		Query:   q,
	}
}

// Validate checks if the query is valid
func (c *FindImagesCommand) Validate() error {
	for _, tag := range append(append([]string{}, c.Query.AllTags...), c.Query.AnyTags...) {
		if err := application.ValidateTagPath("tagPath", tag); err != nil {
			return err
		}
	}
	if c.Query.MinRating < domain.MinRating || c.Query.MinRating > domain.MaxRating {
		return &application.ValidationError{
			Field:   "minRating",
			Message: fmt.Sprintf("minimum rating must be between %d and %d, got: %d", domain.MinRating, domain.MaxRating, c.Query.MinRating),
		}
	}
	return nil
}

// Execute runs the find command
func (c *FindImagesCommand) Execute(ctx context.Context) ([]string, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	err := c.session.View(func(db *domain.Database) error {
		_, err := c.index.SyncFull(db)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sync index: %w", err)
	}

	hashes, err := c.index.FindImages(ctx, c.Query)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}
	return hashes, nil
}
