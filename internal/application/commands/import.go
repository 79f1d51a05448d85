package commands

import (
	"context"
	"fmt"

	"bite/internal/application"
	"bite/internal/domain"
	"bite/internal/ports"
)

// ImportResult contains the result of importing tags from a supplier
type ImportResult struct {
	Images   int
	Assigned int
	Skipped  []*application.ImportError
	Message  string
}

// ImportTagsCommand fetches tags for images from an external supplier,
// substitutes them and assigns them as Regular tags
type ImportTagsCommand struct {
	session  *application.Session
	supplier ports.TagSupplier
	Hashes   []string
}

// NewImportTagsCommand creates a new ImportTagsCommand. With no hashes every
// known image is imported.
func NewImportTagsCommand(session *application.Session, supplier ports.TagSupplier, hashes ...string) *ImportTagsCommand {
	return &ImportTagsCommand{
		session:  session,
		supplier: supplier,
		Hashes:   hashes,
	}
}

// Validate checks if the import operation is valid
func (c *ImportTagsCommand) Validate() error {
	for _, hash := range c.Hashes {
		if err := application.ValidateHash("hash", hash); err != nil {
			return err
		}
	}
	return nil
}

// Execute runs the import command. Each image is fetched and saved on its
// own; an error stops the import without undoing images already imported.
func (c *ImportTagsCommand) Execute(ctx context.Context) (*ImportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	hashes := c.Hashes
	if len(hashes) == 0 {
		err := c.session.View(func(db *domain.Database) error {
			hashes = db.Images()
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list images: %w", err)
		}
	}

	result := &ImportResult{}
	for _, hash := range hashes {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		tags, err := c.supplier.Tags(ctx, hash)
		if err != nil {
			return result, fmt.Errorf("failed to fetch tags for %s: %w", hash, err)
		}

		err = c.session.Mutate(func(db *domain.Database) error {
			for _, raw := range tags {
				tag := db.Substitute(raw)
				if err := domain.ValidateTagPath(tag); err != nil {
					result.Skipped = append(result.Skipped, &application.ImportError{
						Hash:   hash,
						Tag:    raw,
						Reason: err.Error(),
					})
					continue
				}
				if err := db.Assign(hash, tag, domain.TagTypeRegular); err != nil {
					return err
				}
				result.Assigned++
			}
			return nil
		})
		if err != nil {
			return result, fmt.Errorf("failed to import tags for %s: %w", hash, err)
		}
		result.Images++
	}

	result.Message = fmt.Sprintf("Imported %d tags for %d images (%d skipped)", result.Assigned, result.Images, len(result.Skipped))
	return result, nil
}
