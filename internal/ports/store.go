package ports

import "bite/internal/domain"

// DatabaseStore defines the interface for persisting the tag database
type DatabaseStore interface {
	// Init creates the data directory layout if it does not exist
	Init() error

	// Load replaces the contents of db with the stored state
	Load(db *domain.Database) error

	// Save writes the complete state of db, pruning unused tags first
	Save(db *domain.Database) error

	// DataDir returns the root directory of the store
	DataDir() string
}
