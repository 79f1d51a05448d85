package commands

import (
	"context"
	"errors"
	"slices"
	"testing"

	"bite/internal/application"
	"bite/internal/domain"
)

func TestChangeTypeCommand(t *testing.T) {
	session := newTestSession(t, func(db *domain.Database) {
		_ = db.Assign("h1", "act:hug", domain.TagTypeRegular)
	})
	ctx := context.Background()

	if _, err := NewChangeTypeCommand(session, "act:hug", domain.TagTypeInteraction).Execute(ctx); err != nil {
		t.Fatal(err)
	}
	details, err := NewResolveTagCommand(session, "act:hug").Execute(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if details.Type != domain.TagTypeInteraction {
		t.Errorf("type = %s, want Interaction", details.Type)
	}
	if !slices.Equal(details.Images, []string{"h1"}) {
		t.Errorf("images = %v", details.Images)
	}

	_, err = NewChangeTypeCommand(session, "act:kiss", domain.TagTypeModifier).Execute(ctx)
	if !errors.Is(err, application.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	var valErr *application.ValidationError
	_, err = NewChangeTypeCommand(session, "act:hug", domain.TagTypeRoot).Execute(ctx)
	if !errors.As(err, &valErr) {
		t.Errorf("root type: got %v, want ValidationError", err)
	}
}

func TestPruneCommand(t *testing.T) {
	session := newTestSession(t, func(db *domain.Database) {
		_, _ = db.CreateAlongPath("empty:leaf", domain.TagTypeRegular)
		_ = db.Assign("h1", "kept", domain.TagTypeRegular)
	})

	result, err := NewPruneCommand(session).Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(result.Removed, []string{"empty", "empty:leaf"}) {
		t.Errorf("removed = %v", result.Removed)
	}
}

func TestRemoveTagCommand(t *testing.T) {
	session := newTestSession(t, func(db *domain.Database) {
		_ = db.Assign("h1", "animal:cat", domain.TagTypeRegular)
		_ = db.Assign("h2", "animal:cat", domain.TagTypeRegular)
		_ = db.Assign("h2", "plant", domain.TagTypeRegular)
	})
	ctx := context.Background()

	if _, err := NewRemoveTagCommand(session, "animal").Execute(ctx); err != nil {
		t.Fatal(err)
	}
	images, err := NewListImagesCommand(session, "plant").Execute(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(images, []string{"h2"}) {
		t.Errorf("plant images = %v", images)
	}
	if _, err := NewListImagesCommand(session, "animal").Execute(ctx); !errors.Is(err, application.ErrNotFound) {
		t.Errorf("animal should be gone, got %v", err)
	}
}

func TestBuildTreeCommand(t *testing.T) {
	session := newTestSession(t, func(db *domain.Database) {
		_ = db.Assign("h1", "animal:cat", domain.TagTypeRegular)
	})

	tree, err := NewBuildTreeCommand(session).Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tree.Find("animal:cat") == nil {
		t.Error("animal:cat missing from tree")
	}
}

func TestInteractionCommands(t *testing.T) {
	session := newTestSession(t, func(db *domain.Database) {
		_ = db.Assign("h1", "act:hug", domain.TagTypeInteraction)
		_ = db.Assign("h1", "character:alice", domain.TagTypeRegular)
	})
	ctx := context.Background()

	if _, err := NewAddInteractionCommand(session, "h1", "act:hug", "character:alice").Execute(ctx); err != nil {
		t.Fatal(err)
	}

	results, err := NewShowInteractionsCommand(session, "h1", "").Execute(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || !results[0].Recorded || !slices.Equal(results[0].Affected, []string{"character:alice"}) {
		t.Errorf("unexpected interactions %+v", results)
	}

	missing, err := NewShowInteractionsCommand(session, "h1", "act:kiss").Execute(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) != 1 || missing[0].Recorded {
		t.Errorf("absent interaction reported as recorded: %+v", missing)
	}

	_, err = NewAddInteractionCommand(session, "h1", "act:kiss", "character:alice").Execute(ctx)
	if !errors.Is(err, application.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
