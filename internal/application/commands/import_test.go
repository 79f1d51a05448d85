package commands

import (
	"context"
	"errors"
	"slices"
	"testing"

	"bite/internal/application"
	"bite/internal/domain"
	"bite/internal/ports"
)

type fakeSupplier struct {
	tags map[string][]string
	err  map[string]error
}

func (f *fakeSupplier) Tags(ctx context.Context, hash string) ([]string, error) {
	if err := f.err[hash]; err != nil {
		return nil, err
	}
	return f.tags[hash], nil
}

func TestImportTagsCommand(t *testing.T) {
	session := newTestSession(t, func(db *domain.Database) {
		_ = db.AddImage("h1")
		_ = db.AddImage("h2")
		_ = db.AddSubstitution("cat", "animal:cat")
	})
	supplier := &fakeSupplier{tags: map[string][]string{
		"h1": {"cat", "artist:someone", "bad tag"},
		"h2": {"plant"},
	}}

	result, err := NewImportTagsCommand(session, supplier).Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Images != 2 || result.Assigned != 3 {
		t.Errorf("unexpected result %+v", result)
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Tag != "bad tag" {
		t.Errorf("skipped = %+v", result.Skipped)
	}
	if !errors.Is(result.Skipped[0], application.ErrInvalidTag) {
		t.Error("skipped tag should match ErrInvalidTag")
	}

	details, err := NewShowImageCommand(session, "h1").Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"animal", "animal:cat", "artist", "artist:someone"}
	if !slices.Equal(details.Tags, want) {
		t.Errorf("tags = %v, want %v", details.Tags, want)
	}
}

func TestImportTagsCommand_SupplierError(t *testing.T) {
	session := newTestSession(t, func(db *domain.Database) {
		_ = db.AddImage("h1")
	})
	boom := errors.New("lookup failed")
	supplier := &fakeSupplier{err: map[string]error{"h1": boom}}

	_, err := NewImportTagsCommand(session, supplier, "h1").Execute(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want supplier error", err)
	}
	details, _ := NewShowImageCommand(session, "h1").Execute(context.Background())
	if len(details.Tags) != 0 {
		t.Errorf("tags applied despite error: %v", details.Tags)
	}
}

func TestImportTagsCommand_CancelledBeforeFetch(t *testing.T) {
	session := newTestSession(t, func(db *domain.Database) {
		_ = db.AddImage("h1")
	})
	supplier := &fakeSupplier{tags: map[string][]string{"h1": {"cat"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewImportTagsCommand(session, supplier).Execute(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if result == nil || result.Images != 0 {
		t.Errorf("result = %+v, want no imported images", result)
	}
}

type fakeSource struct {
	images []ports.ScannedImage
}

func (f *fakeSource) Scan(ctx context.Context, dir string, recursive bool) ([]ports.ScannedImage, error) {
	return f.images, nil
}

func TestScanCommand(t *testing.T) {
	session := newTestSession(t, func(db *domain.Database) {
		_, _ = db.AddImageLocation("h1", "/old/a.png")
	})
	source := &fakeSource{images: []ports.ScannedImage{
		{Hash: "h1", Path: "/new/a.png"},
		{Hash: "h1", Path: "/old/a.png"},
		{Hash: "h2", Path: "/new/b.jpg"},
		{Hash: "h3", Path: "/new/my pics/c.jpg"},
	}}

	result, err := NewScanCommand(session, source, "/new", true).Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Found != 4 || result.Added != 1 || result.Updated != 1 || len(result.Skipped) != 1 {
		t.Errorf("unexpected result %+v", result)
	}

	details, _ := NewShowImageCommand(session, "h1").Execute(context.Background())
	if !slices.Equal(details.Locations, []string{"/new/a.png", "/old/a.png"}) {
		t.Errorf("locations = %v", details.Locations)
	}

	var present bool
	_ = session.View(func(db *domain.Database) error {
		present = db.ContainsImage("h3")
		return nil
	})
	if present {
		t.Error("image with whitespace in its path was added")
	}

	if _, err := NewScanCommand(session, source, "", false).Execute(context.Background()); err == nil {
		t.Error("expected validation error for empty dir")
	}
}

type fakeIndex struct {
	synced *domain.Database
	query  ports.ImageQuery
}

func (f *fakeIndex) Open(dataDir string) error { return nil }
func (f *fakeIndex) Close() error              { return nil }

func (f *fakeIndex) SyncFull(db *domain.Database) (*ports.SyncStats, error) {
	f.synced = db
	return &ports.SyncStats{Images: len(db.Images())}, nil
}

func (f *fakeIndex) FindImages(ctx context.Context, q ports.ImageQuery) ([]string, error) {
	f.query = q
	var hits []string
	for _, hash := range f.synced.Images() {
		if len(q.AllTags) == 0 || f.synced.HasTag(hash, q.AllTags[0]) {
			hits = append(hits, hash)
		}
	}
	return hits, nil
}

func (f *fakeIndex) TagCounts(ctx context.Context) ([]ports.TagCount, error) {
	return nil, nil
}

func TestFindImagesCommand(t *testing.T) {
	session := newTestSession(t, func(db *domain.Database) {
		_ = db.Assign("h1", "animal:cat", domain.TagTypeRegular)
		_ = db.Assign("h2", "plant", domain.TagTypeRegular)
	})
	index := &fakeIndex{}

	hashes, err := NewFindImagesCommand(session, index, ports.ImageQuery{AllTags: []string{"animal"}}).Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if index.synced == nil {
		t.Fatal("index was not synced before querying")
	}
	if !slices.Equal(hashes, []string{"h1"}) {
		t.Errorf("hashes = %v", hashes)
	}

	_, err = NewFindImagesCommand(session, index, ports.ImageQuery{MinRating: 7}).Execute(context.Background())
	var valErr *application.ValidationError
	if !errors.As(err, &valErr) {
		t.Errorf("got %v, want ValidationError", err)
	}
}
