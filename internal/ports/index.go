package ports

import (
	"context"
	"time"

	"bite/internal/domain"
)

// ImageQuery selects images from the index. Empty fields do not filter.
type ImageQuery struct {
	AllTags   []string // image must bear every one of these
	AnyTags   []string // image must bear at least one of these
	MinRating int
	Limit     int
}

// TagCount is the number of images bearing a tag
type TagCount struct {
	Path  string
	Type  domain.TagType
	Count int
}

// TagIndex is a queryable cache of the database, rebuilt from the flat files.
type TagIndex interface {
	// Lifecycle
	Open(dataDir string) error
	Close() error

	// Sync operations
	SyncFull(db *domain.Database) (*SyncStats, error)

	// Queries
	FindImages(ctx context.Context, q ImageQuery) ([]string, error)
	TagCounts(ctx context.Context) ([]TagCount, error)
}

// SyncStats reports what a sync wrote to the index
type SyncStats struct {
	Images      int
	Tags        int
	Assignments int
	Duration    time.Duration
}
