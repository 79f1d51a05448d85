package commands

import (
	"context"
	"fmt"

	"bite/internal/application"
	"bite/internal/domain"
)

// ChangeTypeCommand changes the type of an existing tag
type ChangeTypeCommand struct {
	session *application.Session
	TagPath string
	Type    domain.TagType
}

// NewChangeTypeCommand creates a new ChangeTypeCommand
func NewChangeTypeCommand(session *application.Session, tagPath string, typ domain.TagType) *ChangeTypeCommand {
	return &ChangeTypeCommand{
		session: session,
		TagPath: tagPath,
		Type:    typ,
	}
}

// Validate checks if the type change is valid
func (c *ChangeTypeCommand) Validate() error {
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

// Execute runs the change type command
func (c *ChangeTypeCommand) Execute(ctx context.Context) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	err := c.session.Mutate(func(db *domain.Database) error {
		return db.ChangeTagType(c.TagPath, c.Type)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to change type of %s: %w", c.TagPath, err)
	}

	return &Result{Message: fmt.Sprintf("Type of %s set to %s", c.TagPath, c.Type)}, nil
}

// TagDetails describes one tag and the images bearing it
type TagDetails struct {
	domain.Tag
	Images []string
}

// ResolveTagCommand looks up a tag by path
type ResolveTagCommand struct {
	session *application.Session
	TagPath string
}

// NewResolveTagCommand creates a new ResolveTagCommand
func NewResolveTagCommand(session *application.Session, tagPath string) *ResolveTagCommand {
	return &ResolveTagCommand{session: session, TagPath: tagPath}
}

// Execute runs the resolve command
func (c *ResolveTagCommand) Execute(ctx context.Context) (*TagDetails, error) {
	if err := application.ValidateTagPath("tagPath", c.TagPath); err != nil {
		return nil, err
	}

	var details *TagDetails
	err := c.session.View(func(db *domain.Database) error {
		tag, err := db.ResolveTag(c.TagPath)
		if err != nil {
			return err
		}
		images, err := db.TaggedImages(c.TagPath)
		if err != nil {
			return err
		}
		details = &TagDetails{Tag: tag, Images: images}
		return nil
	})
	return details, err
}

// RemoveTagCommand removes a tag and its subtree from every image
type RemoveTagCommand struct {
	session *application.Session
	TagPath string
}

// NewRemoveTagCommand creates a new RemoveTagCommand
func NewRemoveTagCommand(session *application.Session, tagPath string) *RemoveTagCommand {
	return &RemoveTagCommand{session: session, TagPath: tagPath}
}

// Execute runs the remove tag command
func (c *RemoveTagCommand) Execute(ctx context.Context) (*Result, error) {
	if err := application.ValidateTagPath("tagPath", c.TagPath); err != nil {
		return nil, err
	}

	err := c.session.Mutate(func(db *domain.Database) error {
		return db.RemoveTag(c.TagPath)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove %s: %w", c.TagPath, err)
	}
	return &Result{Message: fmt.Sprintf("Removed %s", c.TagPath)}, nil
}

// PruneResult lists the tags removed by a prune
type PruneResult struct {
	Removed []string
	Message string
}

// PruneCommand removes tags with no images and no children
type PruneCommand struct {
	session *application.Session
}

// NewPruneCommand creates a new PruneCommand
func NewPruneCommand(session *application.Session) *PruneCommand {
	return &PruneCommand{session: session}
}

// Execute runs the prune command
func (c *PruneCommand) Execute(ctx context.Context) (*PruneResult, error) {
	result := &PruneResult{}
	err := c.session.Mutate(func(db *domain.Database) error {
		result.Removed = db.PruneUnused()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to prune: %w", err)
	}
	result.Message = fmt.Sprintf("Pruned %d unused tags", len(result.Removed))
	return result, nil
}

// ListTagsCommand lists tags ordered by path
type ListTagsCommand struct {
	session *application.Session
	Parent  string
}

// NewListTagsCommand creates a new ListTagsCommand. An empty parent lists
// every tag; otherwise only the direct children of parent are listed.
func NewListTagsCommand(session *application.Session, parent string) *ListTagsCommand {
	return &ListTagsCommand{session: session, Parent: parent}
}

// Execute runs the list tags command
func (c *ListTagsCommand) Execute(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	err := c.session.View(func(db *domain.Database) error {
		if c.Parent == "" {
			tags = db.Tags()
			return nil
		}
		var err error
		tags, err = db.Children(c.Parent)
		return err
	})
	return tags, err
}

// ListImagesCommand lists image hashes, optionally only those bearing a tag
type ListImagesCommand struct {
	session *application.Session
	TagPath string
}

// NewListImagesCommand creates a new ListImagesCommand
func NewListImagesCommand(session *application.Session, tagPath string) *ListImagesCommand {
	return &ListImagesCommand{session: session, TagPath: tagPath}
}

// Execute runs the list images command
func (c *ListImagesCommand) Execute(ctx context.Context) ([]string, error) {
	var hashes []string
	err := c.session.View(func(db *domain.Database) error {
		if c.TagPath == "" {
			hashes = db.Images()
			return nil
		}
		var err error
		hashes, err = db.TaggedImages(c.TagPath)
		return err
	})
	return hashes, err
}

// BuildTreeCommand builds the complete tag tree
type BuildTreeCommand struct {
	session *application.Session
}

// NewBuildTreeCommand creates a new BuildTreeCommand
func NewBuildTreeCommand(session *application.Session) *BuildTreeCommand {
	return &BuildTreeCommand{session: session}
}

// Execute runs the build tree command
func (c *BuildTreeCommand) Execute(ctx context.Context) (*domain.TreeNode, error) {
	var tree *domain.TreeNode
	err := c.session.View(func(db *domain.Database) error {
		tree = db.Tree()
		return nil
	})
	return tree, err
}
