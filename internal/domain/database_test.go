package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Infof(format string, args ...any) {
	l.lines = append(l.lines, "Info - "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.lines = append(l.lines, "Warning - "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(format string, args ...any) {
	l.lines = append(l.lines, "Error - "+fmt.Sprintf(format, args...))
}

func mustAssign(t *testing.T, db *Database, hash string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := db.Assign(hash, p, TagTypeRegular); err != nil {
			t.Fatalf("Assign(%s, %s): %v", hash, p, err)
		}
	}
}

func imageTags(t *testing.T, db *Database, hash string) []string {
	t.Helper()
	tags, err := db.ImageTags(hash)
	if err != nil {
		t.Fatalf("ImageTags(%s): %v", hash, err)
	}
	return tags
}

func tagPaths(db *Database) []string {
	var paths []string
	for _, tag := range db.Tags() {
		paths = append(paths, tag.Path)
	}
	return paths
}

// checkConsistency verifies that both sides of the image/tag relation agree
// and that every registered path resolves to a live node.
func checkConsistency(t *testing.T, db *Database) {
	t.Helper()
	for hash, img := range db.images {
		for id := range img.tags {
			n := db.node(id)
			if n == nil {
				t.Errorf("image %s references removed tag %d", hash, id)
				continue
			}
			if _, ok := n.images[hash]; !ok {
				t.Errorf("tag %s does not list image %s", n.path, hash)
			}
			if n.parent != RootID {
				if !img.hasTag(n.parent) {
					t.Errorf("image %s has %s but not its parent", hash, n.path)
				}
			}
		}
	}
	for path, id := range db.paths {
		n := db.node(id)
		if n == nil || n.path != path {
			t.Errorf("path index entry %s points at a dead node", path)
			continue
		}
		for hash := range n.images {
			img, ok := db.images[hash]
			if !ok || !img.hasTag(id) {
				t.Errorf("tag %s lists image %s which does not bear it", path, hash)
			}
		}
	}
}

func TestAssign_AncestorPropagation(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h1", "animal:cat:tabby")

	want := []string{"animal", "animal:cat", "animal:cat:tabby"}
	if got := imageTags(t, db, "h1"); !slices.Equal(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
	for _, p := range want {
		tag, err := db.ResolveTag(p)
		if err != nil {
			t.Fatalf("ResolveTag(%s): %v", p, err)
		}
		if tag.Type != TagTypeRegular {
			t.Errorf("%s type = %s, want Regular", p, tag.Type)
		}
		if tag.ImageCount != 1 {
			t.Errorf("%s image count = %d, want 1", p, tag.ImageCount)
		}
	}
	checkConsistency(t, db)
}

func TestAssign_TypeOnlyUsedOnCreation(t *testing.T) {
	db := NewDatabase(nil)
	if err := db.Assign("h1", "character:alice", TagTypeCategory); err != nil {
		t.Fatal(err)
	}
	if err := db.Assign("h2", "character:alice", TagTypeModifier); err != nil {
		t.Fatal(err)
	}

	tag, _ := db.ResolveTag("character:alice")
	if tag.Type != TagTypeCategory {
		t.Errorf("type = %s, want Category", tag.Type)
	}
	parent, _ := db.ResolveTag("character")
	if parent.Type != TagTypeRegular {
		t.Errorf("intermediate type = %s, want Regular", parent.Type)
	}
}

func TestAssign_Idempotent(t *testing.T) {
	log := &recordingLogger{}
	db := NewDatabase(log)
	mustAssign(t, db, "h1", "animal:cat")
	before := imageTags(t, db, "h1")

	log.lines = nil
	mustAssign(t, db, "h1", "animal:cat")

	if got := imageTags(t, db, "h1"); !slices.Equal(got, before) {
		t.Errorf("tags changed on repeat assign: %v -> %v", before, got)
	}
	if len(log.lines) != 1 || !strings.HasPrefix(log.lines[0], "Warning - ") {
		t.Errorf("expected a single warning, got %v", log.lines)
	}
	checkConsistency(t, db)
}

func TestAssign_ImplicationClosure(t *testing.T) {
	db := NewDatabase(nil)
	if err := db.AddImplication("kitten", "animal:cat"); err != nil {
		t.Fatal(err)
	}
	if err := db.AddImplication("animal:cat", "pet"); err != nil {
		t.Fatal(err)
	}
	mustAssign(t, db, "h1", "kitten")

	want := []string{"animal", "animal:cat", "kitten", "pet"}
	if got := imageTags(t, db, "h1"); !slices.Equal(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
	checkConsistency(t, db)
}

func TestAssign_ImplicationCycleTerminates(t *testing.T) {
	db := NewDatabase(nil)
	if err := db.AddImplication("a", "b"); err != nil {
		t.Fatal(err)
	}
	if err := db.AddImplication("b", "a"); err != nil {
		t.Fatal(err)
	}
	mustAssign(t, db, "h1", "a")

	want := []string{"a", "b"}
	if got := imageTags(t, db, "h1"); !slices.Equal(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
}

func TestAssign_InvalidPathLeavesNoState(t *testing.T) {
	for _, path := range []string{"", "black cat", "a::b", ":a", "a:"} {
		t.Run(path, func(t *testing.T) {
			db := NewDatabase(nil)
			err := db.Assign("h1", path, TagTypeRegular)
			if !errors.Is(err, ErrInvalidTag) {
				t.Fatalf("Assign(%q) = %v, want ErrInvalidTag", path, err)
			}
			if db.ContainsImage("h1") {
				t.Error("image created by a rejected assign")
			}
			if len(db.Tags()) != 0 {
				t.Errorf("tags created by a rejected assign: %v", tagPaths(db))
			}
		})
	}
}

func TestAssign_InvalidHash(t *testing.T) {
	db := NewDatabase(nil)
	for _, hash := range []string{"", "a b", "../etc", "x/y"} {
		if err := db.Assign(hash, "cat", TagTypeRegular); !errors.Is(err, ErrInvalidHash) {
			t.Errorf("Assign with hash %q = %v, want ErrInvalidHash", hash, err)
		}
	}
}

func TestUnassign_InverseCleanup(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h1", "animal:cat:tabby")

	if err := db.Unassign("h1", "animal:cat:tabby"); err != nil {
		t.Fatal(err)
	}

	if got := imageTags(t, db, "h1"); len(got) != 0 {
		t.Errorf("tags = %v, want none", got)
	}
	if got := tagPaths(db); len(got) != 0 {
		t.Errorf("unused tags survived: %v", got)
	}
	checkConsistency(t, db)
}

func TestUnassign_SiblingKeepsParent(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h1", "animal:cat", "animal:dog")

	if err := db.Unassign("h1", "animal:cat"); err != nil {
		t.Fatal(err)
	}

	want := []string{"animal", "animal:dog"}
	if got := imageTags(t, db, "h1"); !slices.Equal(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
	if db.ContainsTag("animal:cat") {
		t.Error("animal:cat should have been removed")
	}
	checkConsistency(t, db)
}

func TestUnassign_DescendantCleanup(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h1", "animal:cat:tabby", "animal:dog")
	mustAssign(t, db, "h2", "animal:cat:tabby")

	if err := db.Unassign("h1", "animal"); err != nil {
		t.Fatal(err)
	}

	if got := imageTags(t, db, "h1"); len(got) != 0 {
		t.Errorf("h1 tags = %v, want none", got)
	}
	want := []string{"animal", "animal:cat", "animal:cat:tabby"}
	if got := imageTags(t, db, "h2"); !slices.Equal(got, want) {
		t.Errorf("h2 tags = %v, want %v", got, want)
	}
	if got := tagPaths(db); !slices.Equal(got, want) {
		t.Errorf("tree = %v, want %v", got, want)
	}
	checkConsistency(t, db)
}

func TestUnassign_NotAssignedIsNoop(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h1", "animal:cat")
	mustAssign(t, db, "h2", "animal:dog")

	if err := db.Unassign("h1", "animal:dog"); err != nil {
		t.Fatal(err)
	}
	want := []string{"animal", "animal:cat"}
	if got := imageTags(t, db, "h1"); !slices.Equal(got, want) {
		t.Errorf("tags = %v, want %v", got, want)
	}
}

func TestUnassign_Errors(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h1", "cat")

	if err := db.Unassign("missing", "cat"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown image: got %v, want ErrNotFound", err)
	}
	if err := db.Unassign("h1", "dog"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown tag: got %v, want ErrNotFound", err)
	}
	if err := db.Unassign("h1", "a b"); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("invalid tag: got %v, want ErrInvalidTag", err)
	}
}

func TestResolveTag_NamesMissingSegment(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h1", "animal:cat")

	_, err := db.ResolveTag("animal:dog:puppy")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "missing animal:dog") {
		t.Errorf("error %q does not name the missing segment", err)
	}
}

func TestCreateAlongPath(t *testing.T) {
	db := NewDatabase(nil)

	leaf, err := db.CreateAlongPath("series:show:season", TagTypeCategory)
	if err != nil {
		t.Fatal(err)
	}
	if leaf.Type != TagTypeCategory || leaf.Name != "season" || leaf.Depth() != 2 {
		t.Errorf("unexpected leaf %+v", leaf)
	}

	series, _ := db.ResolveTag("series")
	retyped, err := db.CreateAlongPath("series", TagTypeModifier)
	if err != nil {
		t.Fatal(err)
	}
	if retyped.ID != series.ID {
		t.Errorf("retyping changed identity: %d -> %d", series.ID, retyped.ID)
	}
	if retyped.Type != TagTypeModifier {
		t.Errorf("type = %s, want Modifier", retyped.Type)
	}

	if _, err := db.CreateAlongPath("x", TagTypeRoot); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("Root type accepted: %v", err)
	}
}

func TestChangeTagType(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h1", "act:hug")

	if err := db.ChangeTagType("act:hug", TagTypeInteraction); err != nil {
		t.Fatal(err)
	}
	tag, _ := db.ResolveTag("act:hug")
	if tag.Type != TagTypeInteraction {
		t.Errorf("type = %s, want Interaction", tag.Type)
	}
	if err := db.ChangeTagType("act:kiss", TagTypeInteraction); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing tag: got %v, want ErrNotFound", err)
	}
}

func TestRemoveTag(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h1", "animal:cat:tabby")
	mustAssign(t, db, "h2", "animal:dog")

	if err := db.RemoveTag("animal:cat"); err != nil {
		t.Fatal(err)
	}

	if got := imageTags(t, db, "h1"); len(got) != 0 {
		t.Errorf("h1 tags = %v, want none", got)
	}
	want := []string{"animal", "animal:dog"}
	if got := tagPaths(db); !slices.Equal(got, want) {
		t.Errorf("tree = %v, want %v", got, want)
	}
	checkConsistency(t, db)
}

func TestPruneUnused(t *testing.T) {
	db := NewDatabase(nil)
	if _, err := db.CreateAlongPath("lonely:leaf", TagTypeRegular); err != nil {
		t.Fatal(err)
	}
	mustAssign(t, db, "h1", "kept:leaf")

	removed := db.PruneUnused()
	want := []string{"lonely", "lonely:leaf"}
	if !slices.Equal(removed, want) {
		t.Errorf("removed = %v, want %v", removed, want)
	}
	if got := db.PruneUnused(); len(got) != 0 {
		t.Errorf("second prune removed %v", got)
	}
	if got := tagPaths(db); !slices.Equal(got, []string{"kept", "kept:leaf"}) {
		t.Errorf("tree = %v", got)
	}
}

func TestSetRating(t *testing.T) {
	db := NewDatabase(nil)
	if err := db.AddImage("h1"); err != nil {
		t.Fatal(err)
	}

	tests := []struct{ in, want int }{{3, 3}, {9, 5}, {-2, 0}}
	for _, tt := range tests {
		if err := db.SetRating("h1", tt.in); err != nil {
			t.Fatal(err)
		}
		img, _ := db.Image("h1")
		if img.Rating() != tt.want {
			t.Errorf("SetRating(%d) stored %d, want %d", tt.in, img.Rating(), tt.want)
		}
	}

	if err := db.SetRating("missing", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestImageLocations(t *testing.T) {
	db := NewDatabase(nil)

	added, err := db.AddImageLocation("h1", "/pics/a.png")
	if err != nil || !added {
		t.Fatalf("first location: added=%v err=%v", added, err)
	}
	added, err = db.AddImageLocation("h1", "/pics/a.png")
	if err != nil || added {
		t.Fatalf("repeat location: added=%v err=%v", added, err)
	}
	if _, err := db.AddImageLocation("h1", "/pics/b.png"); err != nil {
		t.Fatal(err)
	}
	for _, loc := range []string{"/my pics/c.png", "/my\tpics/c.png", "/pics/c.png\n", "/my\u00a0pics/c.png"} {
		if _, err := db.AddImageLocation("h1", loc); !errors.Is(err, ErrInvalidLocation) {
			t.Errorf("location %q: got %v, want ErrInvalidLocation", loc, err)
		}
	}

	img, _ := db.Image("h1")
	if got := img.Locations(); !slices.Equal(got, []string{"/pics/a.png", "/pics/b.png"}) {
		t.Errorf("locations = %v", got)
	}
}

func TestSetThumbnail(t *testing.T) {
	db := NewDatabase(nil)
	if err := db.AddImage("h1"); err != nil {
		t.Fatal(err)
	}

	if err := db.SetThumbnail("h1", "thumbs/h1.jpg"); err != nil {
		t.Fatal(err)
	}
	img, _ := db.Image("h1")
	if img.Thumbnail() != "thumbs/h1.jpg" {
		t.Errorf("thumbnail = %q", img.Thumbnail())
	}

	if err := db.SetThumbnail("h1", "thumbs/my\u00a0h1.jpg"); !errors.Is(err, ErrInvalidLocation) {
		t.Errorf("thumbnail with whitespace: got %v, want ErrInvalidLocation", err)
	}
	if img.Thumbnail() != "thumbs/h1.jpg" {
		t.Errorf("rejected thumbnail replaced %q", img.Thumbnail())
	}
	if err := db.SetThumbnail("missing", "thumbs/x.jpg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	if err := db.SetThumbnail("h1", ""); err != nil {
		t.Fatal(err)
	}
	if img.Thumbnail() != "" {
		t.Errorf("thumbnail not cleared: %q", img.Thumbnail())
	}
}

func TestAddImage_Idempotent(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h1", "cat")
	if err := db.SetRating("h1", 4); err != nil {
		t.Fatal(err)
	}
	if err := db.AddImage("h1"); err != nil {
		t.Fatal(err)
	}
	img, _ := db.Image("h1")
	if img.Rating() != 4 || img.TagCount() != 1 {
		t.Errorf("AddImage reset an existing record: rating=%d tags=%d", img.Rating(), img.TagCount())
	}
	if got := db.Images(); !slices.Equal(got, []string{"h1"}) {
		t.Errorf("images = %v", got)
	}
}

func TestDeleteImage_CleansUpTags(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h1", "animal:cat", "solo")
	mustAssign(t, db, "h2", "animal:dog")

	if err := db.DeleteImage("h1"); err != nil {
		t.Fatal(err)
	}

	if db.ContainsImage("h1") {
		t.Error("image still present")
	}
	want := []string{"animal", "animal:dog"}
	if got := tagPaths(db); !slices.Equal(got, want) {
		t.Errorf("tree = %v, want %v", got, want)
	}
	animal, _ := db.ResolveTag("animal")
	if animal.ImageCount != 1 {
		t.Errorf("animal image count = %d, want 1", animal.ImageCount)
	}
	if err := db.DeleteImage("h1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
	checkConsistency(t, db)
}

func TestSubstitutionsAndImplications(t *testing.T) {
	db := NewDatabase(nil)

	if err := db.AddSubstitution("kitty", "animal:cat"); err != nil {
		t.Fatal(err)
	}
	if err := db.AddSubstitution("kitty", "animal:dog"); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate substitution: got %v, want ErrDuplicateKey", err)
	}
	if got := db.Substitute("kitty"); got != "animal:cat" {
		t.Errorf("Substitute = %q", got)
	}
	if got := db.Substitute("puppy"); got != "puppy" {
		t.Errorf("Substitute of unknown = %q", got)
	}

	if err := db.AddImplication("a", "b"); err != nil {
		t.Fatal(err)
	}
	if err := db.AddImplication("a", "c"); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("duplicate implication: got %v, want ErrDuplicateKey", err)
	}
	if err := db.AddImplication("a b", "c"); !errors.Is(err, ErrInvalidTag) {
		t.Errorf("invalid implication: got %v, want ErrInvalidTag", err)
	}
	if got := db.Implications(); !slices.Equal(got, []Pair{{"a", "b"}}) {
		t.Errorf("implications = %v", got)
	}

	db.RemoveSubstitution("kitty")
	db.RemoveSubstitution("kitty")
	db.RemoveImplication("a")
	if len(db.Substitutions()) != 0 || len(db.Implications()) != 0 {
		t.Error("tables not empty after removal")
	}
}

func TestAutocomplete(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h1",
		"character:alice",
		"other:alice:young",
		"x:y:alicia",
		"z:alicorn",
		"series:wonderland",
		"b:food",
		"a:foot",
		"deep:er:alpaca",
		"zoo:alpine",
	)
	if err := db.AddSubstitution("al", "character:alice"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"substitution wins", "al", "character:alice"},
		{"exact name, smallest path", "alice", "character:alice"},
		{"prefix tie goes to smallest path", "alic", "character:alice"},
		{"shallowest prefix beats path order", "alp", "zoo:alpine"},
		{"contains", "nderl", "series:wonderland"},
		{"prefix on leaf names", "foo", "a:foot"},
		{"no match", "zebra", "zebra"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := db.Autocomplete(tt.text); got != tt.want {
				t.Errorf("Autocomplete(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestInteractions(t *testing.T) {
	db := NewDatabase(nil)
	if err := db.Assign("h1", "act:hug", TagTypeInteraction); err != nil {
		t.Fatal(err)
	}
	mustAssign(t, db, "h1", "character:alice", "character:bob")

	for _, affected := range []string{"character:bob", "character:alice", "character:bob"} {
		if err := db.AddInteraction("h1", "act:hug", affected); err != nil {
			t.Fatal(err)
		}
	}

	tags, ok, err := db.Interactions("h1", "act:hug")
	if err != nil || !ok {
		t.Fatalf("Interactions: ok=%v err=%v", ok, err)
	}
	var paths []string
	for _, tag := range tags {
		paths = append(paths, tag.Path)
	}
	if !slices.Equal(paths, []string{"character:alice", "character:bob"}) {
		t.Errorf("affected = %v", paths)
	}

	if tags, ok, err := db.Interactions("h1", "act:kiss"); err != nil || ok || tags != nil {
		t.Errorf("absent interaction: tags=%v ok=%v err=%v", tags, ok, err)
	}
	if got, _ := db.InteractionTags("h1"); !slices.Equal(got, []string{"act:hug"}) {
		t.Errorf("interaction tags = %v", got)
	}

	if err := db.AddInteraction("h1", "act:kiss", "character:bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown interaction tag: got %v, want ErrNotFound", err)
	}
	if err := db.AddInteraction("h9", "act:hug", "character:bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown image: got %v, want ErrNotFound", err)
	}
}

func TestChildrenAndTaggedImages(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h2", "animal:dog")
	mustAssign(t, db, "h1", "animal:cat", "plant")

	top, err := db.Children("")
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0].Path != "animal" || top[1].Path != "plant" {
		t.Errorf("top level = %+v", top)
	}

	kids, err := db.Children("animal")
	if err != nil {
		t.Fatal(err)
	}
	if len(kids) != 2 || kids[0].Name != "dog" || kids[1].Name != "cat" {
		t.Errorf("children keep insertion order, got %+v", kids)
	}

	hashes, err := db.TaggedImages("animal")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(hashes, []string{"h1", "h2"}) {
		t.Errorf("tagged images = %v", hashes)
	}
	if _, err := db.Children("fungus"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestClear(t *testing.T) {
	db := NewDatabase(nil)
	mustAssign(t, db, "h1", "animal:cat")
	if err := db.AddSubstitution("kitty", "animal:cat"); err != nil {
		t.Fatal(err)
	}

	db.Clear()

	if len(db.Images()) != 0 || len(db.Tags()) != 0 || len(db.Substitutions()) != 0 {
		t.Error("Clear left data behind")
	}
	mustAssign(t, db, "h1", "animal:cat")
	checkConsistency(t, db)
}
