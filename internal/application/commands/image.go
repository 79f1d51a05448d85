package commands

import (
	"context"
	"fmt"

	"bite/internal/application"
	"bite/internal/domain"
)

// ImageDetails is a read-only view of an image record
type ImageDetails struct {
	Hash         string
	Rating       int
	Locations    []string
	Thumbnail    string
	Tags         []string
	Interactions map[string][]string // interaction tag -> affected tags
}

func imageDetails(db *domain.Database, hash string) (*ImageDetails, error) {
	img, err := db.Image(hash)
	if err != nil {
		return nil, err
	}
	tags, err := db.ImageTags(hash)
	if err != nil {
		return nil, err
	}
	details := &ImageDetails{
		Hash:         img.Hash(),
		Rating:       img.Rating(),
		Locations:    img.Locations(),
		Thumbnail:    img.Thumbnail(),
		Tags:         tags,
		Interactions: make(map[string][]string),
	}

	interactions, err := db.InteractionTags(hash)
	if err != nil {
		return nil, err
	}
	for _, path := range interactions {
		affected, _, err := db.Interactions(hash, path)
		if err != nil {
			return nil, err
		}
		for _, tag := range affected {
			details.Interactions[path] = append(details.Interactions[path], tag.Path)
		}
	}
	return details, nil
}

// AddImageResult contains the result of adding an image
type AddImageResult struct {
	Hash        string
	Created     bool
	NewLocation bool
	Message     string
}

// AddImageCommand adds an image record, optionally with a location
type AddImageCommand struct {
	session  *application.Session
	Hash     string
	Location string
}

// NewAddImageCommand creates a new AddImageCommand. An empty location adds
// the bare record.
func NewAddImageCommand(session *application.Session, hash, location string) *AddImageCommand {
	return &AddImageCommand{
		session:  session,
		Hash:     hash,
		Location: location,
	}
}

// Validate checks if the add operation is valid
func (c *AddImageCommand) Validate() error {
	return application.ValidateHash("hash", c.Hash)
}

// Execute runs the add image command
func (c *AddImageCommand) Execute(ctx context.Context) (*AddImageResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := &AddImageResult{Hash: c.Hash}
	err := c.session.Mutate(func(db *domain.Database) error {
		result.Created = !db.ContainsImage(c.Hash)
		if c.Location == "" {
			return db.AddImage(c.Hash)
		}
		var err error
		result.NewLocation, err = db.AddImageLocation(c.Hash, c.Location)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add image %s: %w", c.Hash, err)
	}

	switch {
	case result.Created:
		result.Message = fmt.Sprintf("Added image %s", c.Hash)
	case result.NewLocation:
		result.Message = fmt.Sprintf("Added location %s to image %s", c.Location, c.Hash)
	default:
		result.Message = fmt.Sprintf("Image %s already present", c.Hash)
	}
	return result, nil
}

// DeleteImageResult contains the result of deleting an image
type DeleteImageResult struct {
	DeletedHash string
	Message     string
}

// DeleteImageCommand removes an image and every tag link it holds
type DeleteImageCommand struct {
	session *application.Session
	Hash    string
}

// NewDeleteImageCommand creates a new DeleteImageCommand
func NewDeleteImageCommand(session *application.Session, hash string) *DeleteImageCommand {
	return &DeleteImageCommand{
		session: session,
		Hash:    hash,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteImageCommand) Validate() error {
	return application.ValidateHash("hash", c.Hash)
}

// Execute runs the delete command
func (c *DeleteImageCommand) Execute(ctx context.Context) (*DeleteImageResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	err := c.session.Mutate(func(db *domain.Database) error {
		return db.DeleteImage(c.Hash)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete %s: %w", c.Hash, err)
	}

	return &DeleteImageResult{
		DeletedHash: c.Hash,
		Message:     fmt.Sprintf("Deleted %s", c.Hash),
	}, nil
}

// RateImageResult contains the result of rating an image
type RateImageResult struct {
	Hash    string
	Rating  int // stored rating, after clamping
	Message string
}

// RateImageCommand sets the rating of an image
type RateImageCommand struct {
	session *application.Session
	Hash    string
	Rating  int
}

// NewRateImageCommand creates a new RateImageCommand. Out of range ratings
// are clamped, not rejected.
func NewRateImageCommand(session *application.Session, hash string, rating int) *RateImageCommand {
	return &RateImageCommand{
		session: session,
		Hash:    hash,
		Rating:  rating,
	}
}

// Validate checks if the rate operation is valid
func (c *RateImageCommand) Validate() error {
	return application.ValidateHash("hash", c.Hash)
}

// Execute runs the rate command
func (c *RateImageCommand) Execute(ctx context.Context) (*RateImageResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := &RateImageResult{Hash: c.Hash}
	err := c.session.Mutate(func(db *domain.Database) error {
		if err := db.SetRating(c.Hash, c.Rating); err != nil {
			return err
		}
		img, err := db.Image(c.Hash)
		if err != nil {
			return err
		}
		result.Rating = img.Rating()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rate %s: %w", c.Hash, err)
	}

	result.Message = fmt.Sprintf("Rated %s %d/%d", c.Hash, result.Rating, domain.MaxRating)
	return result, nil
}

// SetThumbnailResult contains the result of setting a thumbnail
type SetThumbnailResult struct {
	Hash      string
	Thumbnail string
	Message   string
}

// SetThumbnailCommand points an image at its thumbnail reference
type SetThumbnailCommand struct {
	session   *application.Session
	Hash      string
	Thumbnail string
}

// NewSetThumbnailCommand creates a new SetThumbnailCommand. An empty
// reference clears the thumbnail.
func NewSetThumbnailCommand(session *application.Session, hash, thumbnail string) *SetThumbnailCommand {
	return &SetThumbnailCommand{
		session:   session,
		Hash:      hash,
		Thumbnail: thumbnail,
	}
}

// Validate checks if the thumbnail operation is valid
func (c *SetThumbnailCommand) Validate() error {
	return application.ValidateHash("hash", c.Hash)
}

// Execute runs the thumbnail command
func (c *SetThumbnailCommand) Execute(ctx context.Context) (*SetThumbnailResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	err := c.session.Mutate(func(db *domain.Database) error {
		return db.SetThumbnail(c.Hash, c.Thumbnail)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set thumbnail of %s: %w", c.Hash, err)
	}

	result := &SetThumbnailResult{Hash: c.Hash, Thumbnail: c.Thumbnail}
	if c.Thumbnail == "" {
		result.Message = fmt.Sprintf("Cleared thumbnail of %s", c.Hash)
	} else {
		result.Message = fmt.Sprintf("Thumbnail of %s set to %s", c.Hash, c.Thumbnail)
	}
	return result, nil
}

// ShowImageCommand reads the full record of an image
type ShowImageCommand struct {
	session *application.Session
	Hash    string
}

// NewShowImageCommand creates a new ShowImageCommand
func NewShowImageCommand(session *application.Session, hash string) *ShowImageCommand {
	return &ShowImageCommand{
		session: session,
		Hash:    hash,
	}
}

// Execute runs the show command
func (c *ShowImageCommand) Execute(ctx context.Context) (*ImageDetails, error) {
	if err := application.ValidateHash("hash", c.Hash); err != nil {
		return nil, err
	}

	var details *ImageDetails
	err := c.session.View(func(db *domain.Database) error {
		var err error
		details, err = imageDetails(db, c.Hash)
		return err
	})
	return details, err
}
