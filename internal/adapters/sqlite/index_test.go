package sqlite

import (
	"context"
	"slices"
	"testing"

	"bite/internal/domain"
	"bite/internal/ports"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	idx := NewIndex()
	if err := idx.Open(t.TempDir()); err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	t.Cleanup(func() {
		if err := idx.Close(); err != nil {
			t.Errorf("failed to close index: %v", err)
		}
	})
	return idx
}

func testDatabase(t *testing.T) *domain.Database {
	t.Helper()
	db := domain.NewDatabase(nil)
	assign := func(hash string, paths ...string) {
		for _, p := range paths {
			if err := db.Assign(hash, p, domain.TagTypeRegular); err != nil {
				t.Fatal(err)
			}
		}
	}
	assign("h1", "animal:cat", "color:black")
	assign("h2", "animal:dog", "color:black")
	assign("h3", "plant")
	if err := db.SetRating("h1", 2); err != nil {
		t.Fatal(err)
	}
	if err := db.SetRating("h2", 5); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSyncFull(t *testing.T) {
	idx := openTestIndex(t)
	db := testDatabase(t)

	stats, err := idx.SyncFull(db)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Images != 3 || stats.Tags != len(db.Tags()) || stats.Assignments != 9 {
		t.Errorf("unexpected stats %+v", stats)
	}

	// a second sync replaces instead of duplicating
	if err := db.DeleteImage("h3"); err != nil {
		t.Fatal(err)
	}
	if _, err := idx.SyncFull(db); err != nil {
		t.Fatal(err)
	}
	all, err := idx.FindImages(context.Background(), ports.ImageQuery{})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(all, []string{"h2", "h1"}) {
		t.Errorf("images after resync = %v", all)
	}
}

func TestFindImages(t *testing.T) {
	idx := openTestIndex(t)
	if _, err := idx.SyncFull(testDatabase(t)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		query ports.ImageQuery
		want  []string
	}{
		{"everything by rating", ports.ImageQuery{}, []string{"h2", "h1", "h3"}},
		{"ancestor tag", ports.ImageQuery{AllTags: []string{"animal"}}, []string{"h2", "h1"}},
		{"all of", ports.ImageQuery{AllTags: []string{"animal", "color:black"}}, []string{"h2", "h1"}},
		{"all of, no match", ports.ImageQuery{AllTags: []string{"animal:cat", "plant"}}, nil},
		{"any of", ports.ImageQuery{AnyTags: []string{"animal:cat", "plant"}}, []string{"h1", "h3"}},
		{"min rating", ports.ImageQuery{MinRating: 3}, []string{"h2"}},
		{"limit", ports.ImageQuery{Limit: 1}, []string{"h2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := idx.FindImages(context.Background(), tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("FindImages = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTagCounts(t *testing.T) {
	idx := openTestIndex(t)
	if _, err := idx.SyncFull(testDatabase(t)); err != nil {
		t.Fatal(err)
	}

	counts, err := idx.TagCounts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) == 0 {
		t.Fatal("no counts")
	}
	if counts[0].Path != "animal" || counts[0].Count != 2 {
		t.Errorf("most used tag = %+v, want animal x2", counts[0])
	}
	for _, c := range counts {
		if c.Path == "plant" && (c.Count != 1 || c.Type != domain.TagTypeRegular) {
			t.Errorf("plant = %+v", c)
		}
	}
}
