package commands

import (
	"context"
	"fmt"

	"bite/internal/application"
	"bite/internal/domain"
)

// AddInteractionCommand records that an interaction tag affects another tag on an image
type AddInteractionCommand struct {
	session         *application.Session
	Hash            string
	InteractionPath string
	AffectedPath    string
}

// NewAddInteractionCommand creates a new AddInteractionCommand
func NewAddInteractionCommand(session *application.Session, hash, interactionPath, affectedPath string) *AddInteractionCommand {
	return &AddInteractionCommand{
		session:         session,
		Hash:            hash,
		InteractionPath: interactionPath,
		AffectedPath:    affectedPath,
	}
}

// Validate checks if the interaction can be recorded
func (c *AddInteractionCommand) Validate() error {
	if err := application.ValidateHash("hash", c.Hash); err != nil {
		return err
	}
	if err := application.ValidateTagPath("interactionPath", c.InteractionPath); err != nil {
		return err
	}
	return application.ValidateTagPath("affectedPath", c.AffectedPath)
}

// Execute runs the add interaction command
func (c *AddInteractionCommand) Execute(ctx context.Context) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	err := c.session.Mutate(func(db *domain.Database) error {
		return db.AddInteraction(c.Hash, c.InteractionPath, c.AffectedPath)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add interaction: %w", err)
	}

	return &Result{
		Message: fmt.Sprintf("%s now affects %s on %s", c.InteractionPath, c.AffectedPath, c.Hash),
	}, nil
}

// InteractionsResult lists the tags an interaction affects on one image
type InteractionsResult struct {
	Hash            string
	InteractionPath string
	Recorded        bool
	Affected        []string
}

// ShowInteractionsCommand reads the interactions recorded on an image
type ShowInteractionsCommand struct {
	session         *application.Session
	Hash            string
	InteractionPath string
}

// NewShowInteractionsCommand creates a new ShowInteractionsCommand. An empty
// interaction path lists every interaction of the image.
func NewShowInteractionsCommand(session *application.Session, hash, interactionPath string) *ShowInteractionsCommand {
	return &ShowInteractionsCommand{
		session:         session,
		Hash:            hash,
		InteractionPath: interactionPath,
	}
}

// Execute runs the show interactions command
func (c *ShowInteractionsCommand) Execute(ctx context.Context) ([]InteractionsResult, error) {
	if err := application.ValidateHash("hash", c.Hash); err != nil {
		return nil, err
	}

	var results []InteractionsResult
	err := c.session.View(func(db *domain.Database) error {
		paths := []string{c.InteractionPath}
		if c.InteractionPath == "" {
			var err error
			if paths, err = db.InteractionTags(c.Hash); err != nil {
				return err
			}
		}

		for _, path := range paths {
			affected, ok, err := db.Interactions(c.Hash, path)
			if err != nil {
				return err
			}
			r := InteractionsResult{Hash: c.Hash, InteractionPath: path, Recorded: ok}
			for _, tag := range affected {
				r.Affected = append(r.Affected, tag.Path)
			}
			results = append(results, r)
		}
		return nil
	})
	return results, err
}
