package commands

import (
	"context"

	"bite/internal/application"
	"bite/internal/domain"
)

// AutocompleteCommand expands typed text into a tag path
type AutocompleteCommand struct {
	session *application.Session
	Text    string
}

// NewAutocompleteCommand creates a new AutocompleteCommand
func NewAutocompleteCommand(session *application.Session, text string) *AutocompleteCommand {
	return &AutocompleteCommand{session: session, Text: text}
}

// Execute runs the autocomplete command. It never fails on unmatched text,
// which is returned unchanged.
func (c *AutocompleteCommand) Execute(ctx context.Context) (string, error) {
	var completed string
	err := c.session.View(func(db *domain.Database) error {
		completed = db.Autocomplete(c.Text)
		return nil
	})
	return completed, err
}
