package commands

import (
	"context"
	"testing"

	"bite/internal/domain"
)

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		query     string
		wantScore int
		wantMin   int // use this for relative comparisons
	}{
		{
			name:      "exact match",
			target:    "tabby",
			query:     "tabby",
			wantScore: 150, // 100 for contains + 50 for prefix
		},
		{
			name:      "prefix match",
			target:    "tabby_cat",
			query:     "tabby",
			wantScore: 150,
		},
		{
			name:      "substring match",
			target:    "animal:cat:tabby",
			query:     "tabby",
			wantScore: 100, // contains only
		},
		{
			name:    "fuzzy match across segments",
			target:  "animal:cat:tabby",
			query:   "act",
			wantMin: 1,
		},
		{
			name:      "no match",
			target:    "tabby",
			query:     "xyz",
			wantScore: 0,
		},
		{
			name:      "empty query",
			target:    "tabby",
			query:     "",
			wantScore: 0,
		},
		{
			name:    "case insensitive",
			target:  "TABBY",
			query:   "tabby",
			wantMin: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := FuzzyScore(tt.target, tt.query)

			if tt.wantScore > 0 {
				if score != tt.wantScore {
					t.Errorf("expected score %d, got %d", tt.wantScore, score)
				}
			} else if tt.wantMin > 0 {
				if score < tt.wantMin {
					t.Errorf("expected score >= %d, got %d", tt.wantMin, score)
				}
			} else {
				if score != 0 {
					t.Errorf("expected score 0, got %d", score)
				}
			}
		})
	}
}

func TestFuzzyScore_Ordering(t *testing.T) {
	query := "alice"

	exactScore := FuzzyScore("alice", query)
	prefixScore := FuzzyScore("alice_liddell", query)
	containsScore := FuzzyScore("character:alice", query)
	fuzzyScore := FuzzyScore("a:l:i:c:e", query)

	if exactScore < prefixScore {
		t.Errorf("exact match should score >= prefix: %d < %d", exactScore, prefixScore)
	}
	if prefixScore < containsScore {
		t.Errorf("prefix match should score >= contains: %d < %d", prefixScore, containsScore)
	}
	if containsScore <= fuzzyScore {
		t.Errorf("contains match should score higher than fuzzy: %d <= %d", containsScore, fuzzyScore)
	}
}

func TestFuzzySort(t *testing.T) {
	tags := []domain.Tag{
		{Name: "random", Path: "misc:random"},
		{Name: "alice", Path: "other:wonderland:alice"},
		{Name: "cooking", Path: "activity:cooking"},
		{Name: "alice", Path: "character:alice"},
	}

	sorted := FuzzySort(tags, "alice")

	if len(sorted) != 2 {
		t.Fatalf("expected 2 results, got %d", len(sorted))
	}
	if sorted[0].Path != "character:alice" {
		t.Errorf("equal scores should keep the shallower tag first, got %s", sorted[0].Path)
	}

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Score > sorted[i-1].Score {
			t.Errorf("results not sorted by score: %d > %d at index %d",
				sorted[i].Score, sorted[i-1].Score, i)
		}
	}
}

func TestSearchCommand(t *testing.T) {
	session := newTestSession(t, func(db *domain.Database) {
		_ = db.Assign("h1", "animal:cat:tabby", domain.TagTypeRegular)
		_ = db.Assign("h1", "plant", domain.TagTypeRegular)
	})

	results, err := NewSearchCommand(session, "tab").Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 || results[0].Path != "animal:cat:tabby" {
		t.Errorf("unexpected results %+v", results)
	}

	short, err := NewSearchCommand(session, "t").Execute(context.Background())
	if err != nil || short != nil {
		t.Errorf("single-character query should return nothing, got %v %v", short, err)
	}
}
