package commands

import (
	"testing"

	"bite/internal/adapters/filesystem"
	"bite/internal/application"
	"bite/internal/domain"
)

// seededStore starts out holding whatever seed builds and keeps every save
// in a real data directory, so a session reload sees the last saved state
type seededStore struct {
	*filesystem.Repository
	seed  func(db *domain.Database)
	saves int
}

func (s *seededStore) Load(db *domain.Database) error {
	if s.saves > 0 {
		return s.Repository.Load(db)
	}
	db.Clear()
	if s.seed != nil {
		s.seed(db)
	}
	return nil
}

func (s *seededStore) Save(db *domain.Database) error {
	if err := s.Repository.Save(db); err != nil {
		return err
	}
	s.saves++
	return nil
}

func newTestSession(t *testing.T, seed func(db *domain.Database)) *application.Session {
	t.Helper()
	store := &seededStore{Repository: filesystem.NewRepository(t.TempDir()), seed: seed}
	s, err := application.OpenSession(store, nil)
	if err != nil {
		t.Fatalf("failed to open session: %v", err)
	}
	return s
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && len(substr) > 0 && findSubstring(s, substr)))
}

func findSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
