package commands

import (
	"context"
	"sort"
	"strings"

	"bite/internal/application"
	"bite/internal/domain"
)

// SearchResult wraps a tag with a relevance score
type SearchResult struct {
	domain.Tag
	Score int
}

// SearchCommand searches the tag tree with fuzzy matching
type SearchCommand struct {
	session *application.Session
	Query   string
}

// NewSearchCommand creates a new SearchCommand
func NewSearchCommand(session *application.Session, query string) *SearchCommand {
	return &SearchCommand{
		session: session,
		Query:   query,
	}
}

// Execute runs the search command and returns scored, sorted results
func (c *SearchCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if len(c.Query) < 2 {
		return nil, nil
	}

	var tags []domain.Tag
	err := c.session.View(func(db *domain.Database) error {
		tags = db.Tags()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return FuzzySort(tags, c.Query), nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Check for exact substring match first (highest priority)
	if strings.Contains(target, query) {
		score := 100
		// Bonus if it starts with query
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: check if chars appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive chars
			}
			if i == 0 {
				score += 15 // start of string
			}
			if i > 0 && (target[i-1] == ':' || target[i-1] == '_' || target[i-1] == '-') {
				score += 10 // after separator
			}
			score += 1
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

// FuzzySort sorts tags by relevance to the query. Equal scores keep the
// shallower tag first.
func FuzzySort(tags []domain.Tag, query string) []SearchResult {
	scored := make([]SearchResult, 0, len(tags))

	for _, t := range tags {
		best := max(FuzzyScore(t.Name, query), FuzzyScore(t.Path, query))

		if best > 0 {
			scored = append(scored, SearchResult{
				Tag:   t,
				Score: best,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Depth() < scored[j].Depth()
	})

	return scored
}
