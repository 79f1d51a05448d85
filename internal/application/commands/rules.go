package commands

import (
	"context"
	"fmt"

	"bite/internal/application"
	"bite/internal/domain"
)

// RuleKind selects the substitution or the implication table
type RuleKind int

const (
	RuleSubstitution RuleKind = iota
	RuleImplication
)

func (k RuleKind) String() string {
	if k == RuleImplication {
		return "implication"
	}
	return "substitution"
}

// RuleResult contains the result of changing a rule table
type RuleResult struct {
	Kind    RuleKind
	Before  string
	After   string
	Message string
}

// AddRuleCommand adds a substitution or an implication
type AddRuleCommand struct {
	session *application.Session
	Kind    RuleKind
	Before  string
	After   string
}

// NewAddRuleCommand creates a new AddRuleCommand
func NewAddRuleCommand(session *application.Session, kind RuleKind, before, after string) *AddRuleCommand {
	return &AddRuleCommand{
		session: session,
		Kind:    kind,
		Before:  before,
		After:   after,
	}
}

// Validate checks if the rule can be added
func (c *AddRuleCommand) Validate() error {
	if err := application.ValidateTagPath("before", c.Before); err != nil {
		return err
	}
	return application.ValidateTagPath("after", c.After)
}

// Execute runs the add rule command
func (c *AddRuleCommand) Execute(ctx context.Context) (*RuleResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	err := c.session.Mutate(func(db *domain.Database) error {
		if c.Kind == RuleImplication {
			return db.AddImplication(c.Before, c.After)
		}
		return db.AddSubstitution(c.Before, c.After)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add %s: %w", c.Kind, err)
	}

	return &RuleResult{
		Kind:    c.Kind,
		Before:  c.Before,
		After:   c.After,
		Message: fmt.Sprintf("Added %s %s -> %s", c.Kind, c.Before, c.After),
	}, nil
}

// RemoveRuleCommand removes a substitution or an implication. Removing an
// absent rule succeeds.
type RemoveRuleCommand struct {
	session *application.Session
	Kind    RuleKind
	Before  string
}

// NewRemoveRuleCommand creates a new RemoveRuleCommand
func NewRemoveRuleCommand(session *application.Session, kind RuleKind, before string) *RemoveRuleCommand {
	return &RemoveRuleCommand{
		session: session,
		Kind:    kind,
		Before:  before,
	}
}

// Execute runs the remove rule command
func (c *RemoveRuleCommand) Execute(ctx context.Context) (*RuleResult, error) {
	if err := application.ValidateRequired("before", c.Before); err != nil {
		return nil, err
	}

	err := c.session.Mutate(func(db *domain.Database) error {
		if c.Kind == RuleImplication {
			db.RemoveImplication(c.Before)
		} else {
			db.RemoveSubstitution(c.Before)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove %s: %w", c.Kind, err)
	}

	return &RuleResult{
		Kind:    c.Kind,
		Before:  c.Before,
		Message: fmt.Sprintf("Removed %s for %s", c.Kind, c.Before),
	}, nil
}

// ListRulesCommand lists a rule table ordered by its left-hand side
type ListRulesCommand struct {
	session *application.Session
	Kind    RuleKind
}

// NewListRulesCommand creates a new ListRulesCommand
func NewListRulesCommand(session *application.Session, kind RuleKind) *ListRulesCommand {
	return &ListRulesCommand{session: session, Kind: kind}
}

// Execute runs the list rules command
func (c *ListRulesCommand) Execute(ctx context.Context) ([]domain.Pair, error) {
	var pairs []domain.Pair
	err := c.session.View(func(db *domain.Database) error {
		if c.Kind == RuleImplication {
			pairs = db.Implications()
		} else {
			pairs = db.Substitutions()
		}
		return nil
	})
	return pairs, err
}
