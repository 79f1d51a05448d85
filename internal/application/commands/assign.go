package commands

import (
	"context"
	"fmt"

	"bite/internal/application"
	"bite/internal/domain"
)

// AssignResult contains the result of assigning a tag
type AssignResult struct {
	Hash    string
	Tags    []string // every tag on the image afterwards
	Message string
}

// AssignCommand assigns a tag, and with it its ancestors and implications, to an image
type AssignCommand struct {
	session *application.Session
	Hash    string
	TagPath string
	Type    domain.TagType
}

// NewAssignCommand creates a new AssignCommand. The type only applies when
// the tag does not exist yet.
func NewAssignCommand(session *application.Session, hash, tagPath string, typ domain.TagType) *AssignCommand {
	return &AssignCommand{
		session: session,
		Hash:    hash,
		TagPath: tagPath,
		Type:    typ,
	}
}

// Validate checks if the assign operation is valid
func (c *AssignCommand) Validate() error {
	if err := application.ValidateHash("hash", c.Hash); err != nil {
		return err
	}
	if err := application.ValidateTagPath("tagPath", c.TagPath); err != nil {
		return err
	}
	if c.Type == domain.TagTypeRoot || !c.Type.Valid() {
		return &application.ValidationError{
			Field:   "type",
			Message: fmt.Sprintf("tag type %s can not be assigned", c.Type),
		}
	}
	return nil
}

// Execute runs the assign command
func (c *AssignCommand) Execute(ctx context.Context) (*AssignResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var tags []string
	err := c.session.Mutate(func(db *domain.Database) error {
		if err := db.Assign(c.Hash, c.TagPath, c.Type); err != nil {
			return err
		}
		var err error
		tags, err = db.ImageTags(c.Hash)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign %s: %w", c.TagPath, err)
	}

	return &AssignResult{
		Hash:    c.Hash,
		Tags:    tags,
		Message: fmt.Sprintf("Assigned %s to %s", c.TagPath, c.Hash),
	}, nil
}

// UnassignResult contains the result of unassigning a tag
type UnassignResult struct {
	Hash    string
	Tags    []string
	Pruned  bool // the tag no longer exists
	Message string
}

// UnassignCommand removes a tag, and the tags depending on it, from an image
type UnassignCommand struct {
	session *application.Session
	Hash    string
	TagPath string
}

// NewUnassignCommand creates a new UnassignCommand
func NewUnassignCommand(session *application.Session, hash, tagPath string) *UnassignCommand {
	return &UnassignCommand{
		session: session,
		Hash:    hash,
		TagPath: tagPath,
	}
}

// Validate checks if the unassign operation is valid
func (c *UnassignCommand) Validate() error {
	if err := application.ValidateHash("hash", c.Hash); err != nil {
		return err
	}
	return application.ValidateTagPath("tagPath", c.TagPath)
}

// Execute runs the unassign command
func (c *UnassignCommand) Execute(ctx context.Context) (*UnassignResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := &UnassignResult{Hash: c.Hash}
	err := c.session.Mutate(func(db *domain.Database) error {
		if err := db.Unassign(c.Hash, c.TagPath); err != nil {
			return err
		}
		var err error
		result.Tags, err = db.ImageTags(c.Hash)
		result.Pruned = !db.ContainsTag(c.TagPath)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unassign %s: %w", c.TagPath, err)
	}

	result.Message = fmt.Sprintf("Unassigned %s from %s", c.TagPath, c.Hash)
	return result, nil
}
