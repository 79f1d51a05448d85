package application

import (
	"errors"
	"fmt"
	"sync"

	"bite/internal/domain"
	"bite/internal/ports"
)

// Session serialises access to one loaded Database and writes it back to its
// store after every mutation. Front-ends that may run requests concurrently,
// such as the MCP server, go through a Session; the engine itself is not safe
// for concurrent use.
type Session struct {
	mu    sync.Mutex
	db    *domain.Database
	store ports.DatabaseStore
	log   domain.Logger
}

// OpenSession loads the store into a fresh Database
func OpenSession(store ports.DatabaseStore, log domain.Logger) (*Session, error) {
	db := domain.NewDatabase(log)
	if err := store.Load(db); err != nil {
		return nil, fmt.Errorf("failed to load database: %w", err)
	}
	return &Session{db: db, store: store, log: log}, nil
}

// View runs fn with exclusive read access to the database
func (s *Session) View(fn func(db *domain.Database) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.db)
}

// Mutate runs fn with exclusive access and saves the database if fn succeeds.
// When fn or the save fails the database is reloaded from the store, so
// changes fn made before failing are dropped.
func (s *Session) Mutate(fn func(db *domain.Database) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.db); err != nil {
		return errors.Join(err, s.reload())
	}
	if err := s.store.Save(s.db); err != nil {
		return errors.Join(fmt.Errorf("failed to save database: %w", err), s.reload())
	}
	return nil
}

func (s *Session) reload() error {
	db := domain.NewDatabase(s.log)
	if err := s.store.Load(db); err != nil {
		return fmt.Errorf("failed to reload database: %w", err)
	}
	s.db = db
	return nil
}

// Store returns the backing store
func (s *Session) Store() ports.DatabaseStore {
	return s.store
}
