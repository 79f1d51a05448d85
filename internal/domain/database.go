package domain

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Logger receives the engine's activity log
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Pair is one entry of the substitution or implication table
type Pair struct {
	Before string
	After  string
}

// Database owns the tag tree, the image table, the substitution table and the
// implication table. It is the only mutator of tag/image relations and is not
// safe for concurrent use.
type Database struct {
	log Logger

	// nodes is the tag arena indexed by TagID; removed nodes leave a nil slot
	nodes []*tagNode
	// paths maps a tag path to its node and is kept in step with the tree
	paths map[string]TagID

	images        map[string]*Image
	substitutions map[string]string
	implications  map[string]string
}

// NewDatabase creates an empty database. A nil logger discards the log.
func NewDatabase(log Logger) *Database {
	if log == nil {
		log = nopLogger{}
	}
	db := &Database{log: log}
	db.reset()
	return db
}

func (db *Database) reset() {
	db.nodes = []*tagNode{newTagNode(RootID, "", "", TagTypeRoot, noParent)}
	db.paths = make(map[string]TagID)
	db.images = make(map[string]*Image)
	db.substitutions = make(map[string]string)
	db.implications = make(map[string]string)
}

// Clear drops every tag, image, substitution and implication
func (db *Database) Clear() {
	db.reset()
	db.log.Infof("Database cleared")
}

// ValidateImageHash checks an image hash. Hashes name files in the images
// directory, so they must be non-empty and free of whitespace and separators.
func ValidateImageHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("%w: image hash is empty", ErrInvalidHash)
	}
	if hasSpace(hash) || strings.ContainsAny(hash, "/\\") || hash == "." || hash == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidHash, hash)
	}
	return nil
}

// --- tag tree ---

func (db *Database) node(id TagID) *tagNode {
	if id < 0 || int(id) >= len(db.nodes) {
		return nil
	}
	return db.nodes[id]
}

func (db *Database) alive(n *tagNode) bool {
	return n != nil && db.node(n.id) == n
}

func (db *Database) childByName(parent *tagNode, name string) *tagNode {
	for _, id := range parent.children {
		if child := db.nodes[id]; child.name == name {
			return child
		}
	}
	return nil
}

// resolve finds the node at path. The path index answers first; the walk
// from the root is the fallback and names the first missing segment.
func (db *Database) resolve(path string) (*tagNode, error) {
	if id, ok := db.paths[path]; ok {
		return db.nodes[id], nil
	}

	node := db.nodes[RootID]
	for _, name := range SplitPath(path) {
		child := db.childByName(node, name)
		if child == nil {
			return nil, fmt.Errorf("tag %s: %w (missing %s)", path, ErrNotFound, JoinPath(node.path, name))
		}
		node = child
	}
	return node, nil
}

func (db *Database) newChild(parent *tagNode, name string, typ TagType) *tagNode {
	id := TagID(len(db.nodes))
	n := newTagNode(id, name, JoinPath(parent.path, name), typ, parent.id)
	db.nodes = append(db.nodes, n)
	parent.children = append(parent.children, id)
	db.paths[n.path] = id
	db.log.Infof("Created tag [%s] with parent [%s]", n.path, parent.path)
	return n
}

func (db *Database) createAlongPath(path string, leafType TagType) *tagNode {
	if n, err := db.resolve(path); err == nil {
		if n.typ != leafType {
			db.log.Infof("Changed type of tag [%s] from %s to %s", path, n.typ, leafType)
			n.typ = leafType
		}
		return n
	}

	names := SplitPath(path)
	parent := db.nodes[RootID]
	for _, name := range names[:len(names)-1] {
		child := db.childByName(parent, name)
		if child == nil {
			db.log.Warnf("Tag matching path [%s] not found", JoinPath(parent.path, name))
			child = db.newChild(parent, name, TagTypeRegular)
		}
		parent = child
	}
	return db.newChild(parent, names[len(names)-1], leafType)
}

// removeTag detaches n from its parent and unregisters it, then removes the
// parent too if that left it unused. The root is never removed.
func (db *Database) removeTag(n *tagNode) {
	if n.id == RootID || !db.alive(n) {
		return
	}

	parent := db.nodes[n.parent]
	parent.removeChild(n.id)
	delete(db.paths, n.path)
	db.nodes[n.id] = nil
	db.log.Infof("Deleted tag [%s]", n.path)

	if parent.id != RootID && parent.unused() {
		db.removeTag(parent)
	}
}

func (db *Database) removeSubtree(n *tagNode) {
	for len(n.children) > 0 && db.alive(n) {
		db.removeSubtree(db.nodes[n.children[len(n.children)-1]])
	}
	db.removeTag(n)
}

func (db *Database) snapshot(n *tagNode) Tag {
	return Tag{
		ID:         n.id,
		Name:       n.name,
		Path:       n.path,
		Type:       n.typ,
		Children:   len(n.children),
		ImageCount: len(n.images),
	}
}

// ResolveTag returns the tag at path
func (db *Database) ResolveTag(path string) (Tag, error) {
	if err := ValidateTagPath(path); err != nil {
		return Tag{}, err
	}
	n, err := db.resolve(path)
	if err != nil {
		db.log.Errorf("Failed to locate tag [%s]", path)
		return Tag{}, err
	}
	return db.snapshot(n), nil
}

// ContainsTag reports whether a tag exists at path
func (db *Database) ContainsTag(path string) bool {
	_, ok := db.paths[path]
	return ok
}

// CreateAlongPath creates the tag at path, creating missing ancestors as
// Regular tags. An existing tag keeps its identity and is retyped.
func (db *Database) CreateAlongPath(path string, leafType TagType) (Tag, error) {
	if err := ValidateTagPath(path); err != nil {
		return Tag{}, err
	}
	if err := validateAssignableType(leafType); err != nil {
		return Tag{}, err
	}
	return db.snapshot(db.createAlongPath(path, leafType)), nil
}

// RemoveTag removes the tag at path together with its descendants. Every
// image bearing the tag is unassigned from it first.
func (db *Database) RemoveTag(path string) error {
	if err := ValidateTagPath(path); err != nil {
		return err
	}
	n, err := db.resolve(path)
	if err != nil {
		return err
	}

	for _, hash := range sortedKeys(n.images) {
		if img := db.images[hash]; img.hasTag(n.id) {
			db.unassign(img, n)
		}
	}
	if db.alive(n) {
		db.removeSubtree(n)
	}
	return nil
}

// ChangeTagType sets the type of an existing tag
func (db *Database) ChangeTagType(path string, typ TagType) error {
	if err := ValidateTagPath(path); err != nil {
		return err
	}
	if err := validateAssignableType(typ); err != nil {
		return err
	}
	n, err := db.resolve(path)
	if err != nil {
		db.log.Errorf("Unable to change tag type of [%s], tag not found", path)
		return err
	}
	n.typ = typ
	db.log.Infof("Type of tag [%s] set to %s", path, typ)
	return nil
}

func validateAssignableType(typ TagType) error {
	if !typ.Valid() || typ == TagTypeRoot {
		return fmt.Errorf("%w: tag type %s can not be assigned", ErrInvalidTag, typ)
	}
	return nil
}

// PruneUnused removes every tag with no tagged images and no children and
// returns the paths that were removed, parents pruned in cascade included.
func (db *Database) PruneUnused() []string {
	before := sortedKeys(db.paths)
	for _, n := range db.liveNodes() {
		if db.alive(n) && n.unused() {
			db.log.Infof("Pruning tag [%s]", n.path)
			db.removeTag(n)
		}
	}

	var removed []string
	for _, path := range before {
		if _, ok := db.paths[path]; !ok {
			removed = append(removed, path)
		}
	}
	return removed
}

// liveNodes returns every tag except the root, ordered by path
func (db *Database) liveNodes() []*tagNode {
	nodes := make([]*tagNode, 0, len(db.paths))
	for _, path := range sortedKeys(db.paths) {
		nodes = append(nodes, db.nodes[db.paths[path]])
	}
	return nodes
}

// Tags returns every known tag ordered by path
func (db *Database) Tags() []Tag {
	nodes := db.liveNodes()
	tags := make([]Tag, len(nodes))
	for i, n := range nodes {
		tags[i] = db.snapshot(n)
	}
	return tags
}

// Children returns the children of the tag at path in stored order. An empty
// path lists the top-level tags.
func (db *Database) Children(path string) ([]Tag, error) {
	parent := db.nodes[RootID]
	if path != "" {
		n, err := db.resolve(path)
		if err != nil {
			return nil, err
		}
		parent = n
	}

	tags := make([]Tag, len(parent.children))
	for i, id := range parent.children {
		tags[i] = db.snapshot(db.nodes[id])
	}
	return tags, nil
}

// TaggedImages returns the hashes of the images bearing the tag at path
func (db *Database) TaggedImages(path string) ([]string, error) {
	n, err := db.resolve(path)
	if err != nil {
		return nil, err
	}
	return sortedKeys(n.images), nil
}

// --- images ---

// ContainsImage reports whether the image is known
func (db *Database) ContainsImage(hash string) bool {
	_, ok := db.images[hash]
	return ok
}

func (db *Database) imageOrCreate(hash string) *Image {
	if img, ok := db.images[hash]; ok {
		return img
	}
	img := newImage(hash)
	db.images[hash] = img
	db.log.Infof("Created database entry for image [%s]", hash)
	return img
}

func (db *Database) image(hash string) (*Image, error) {
	img, ok := db.images[hash]
	if !ok {
		db.log.Errorf("Image [%s] not found in database", hash)
		return nil, fmt.Errorf("image %s: %w", hash, ErrNotFound)
	}
	return img, nil
}

// Image returns the image record for hash
func (db *Database) Image(hash string) (*Image, error) {
	return db.image(hash)
}

// Images returns every known image hash, sorted
func (db *Database) Images() []string {
	return sortedKeys(db.images)
}

// AddImage adds an empty image record. Adding a known image does nothing.
func (db *Database) AddImage(hash string) error {
	if err := ValidateImageHash(hash); err != nil {
		return err
	}
	if db.ContainsImage(hash) {
		db.log.Warnf("Image [%s] is already present in database", hash)
		return nil
	}
	db.imageOrCreate(hash)
	return nil
}

// AddImageLocation records where the image can be found, creating the image
// record on first reference. It reports whether the location was new.
func (db *Database) AddImageLocation(hash, location string) (bool, error) {
	if err := ValidateImageHash(hash); err != nil {
		return false, err
	}
	if location == "" || hasSpace(location) {
		return false, fmt.Errorf("%w: location %q must be non-empty and contain no whitespace", ErrInvalidLocation, location)
	}

	img := db.imageOrCreate(hash)
	if img.HasLocation(location) {
		return false, nil
	}
	img.locations[location] = struct{}{}
	db.log.Infof("Added location [%s] to image [%s]", location, hash)
	return true, nil
}

// SetThumbnail sets the thumbnail reference of an existing image, usually a
// file under thumbs/. An empty reference clears it.
func (db *Database) SetThumbnail(hash, thumbnail string) error {
	if hasSpace(thumbnail) {
		return fmt.Errorf("%w: thumbnail %q must contain no whitespace", ErrInvalidLocation, thumbnail)
	}
	img, err := db.image(hash)
	if err != nil {
		return err
	}
	img.thumbnail = thumbnail
	db.log.Infof("Thumbnail of image [%s] set to [%s]", hash, thumbnail)
	return nil
}

// SetRating stores the rating of an existing image, clamped to [0, 5]
func (db *Database) SetRating(hash string, rating int) error {
	img, err := db.image(hash)
	if err != nil {
		return err
	}
	img.setRating(rating)
	db.log.Infof("Rating of image [%s] set to [%d]", hash, img.rating)
	return nil
}

// DeleteImage removes the image, unassigning all of its tags first so no tag
// keeps a reference to it. Tags left unused are removed.
func (db *Database) DeleteImage(hash string) error {
	img, err := db.image(hash)
	if err != nil {
		return err
	}

	ids := make([]TagID, 0, len(img.tags))
	for id := range img.tags {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if n := db.node(id); n != nil && img.hasTag(id) {
			db.unassign(img, n)
		}
	}

	delete(db.images, hash)
	db.log.Infof("Removed image [%s] from database", hash)
	return nil
}

// ImageTags returns the paths of the tags assigned to the image, sorted
func (db *Database) ImageTags(hash string) ([]string, error) {
	img, err := db.image(hash)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(img.tags))
	for id := range img.tags {
		paths = append(paths, db.nodes[id].path)
	}
	sort.Strings(paths)
	return paths, nil
}

// HasTag reports whether the image bears the tag at path
func (db *Database) HasTag(hash, path string) bool {
	img, ok := db.images[hash]
	if !ok {
		return false
	}
	id, ok := db.paths[path]
	return ok && img.hasTag(id)
}

// --- assignment ---

// Assign tags the image with path, creating the image and the tag as needed.
// typ is used only when the tag is created. Every ancestor of the tag and
// every transitive implication target is assigned as well.
func (db *Database) Assign(hash, path string, typ TagType) error {
	if err := ValidateImageHash(hash); err != nil {
		return err
	}
	if err := ValidateTagPath(path); err != nil {
		db.log.Errorf("Refusing to assign invalid tag [%s]", path)
		return err
	}
	if err := validateAssignableType(typ); err != nil {
		return err
	}
	db.assign(hash, path, typ)
	return nil
}

func (db *Database) assign(hash, path string, typ TagType) {
	img := db.imageOrCreate(hash)

	n, err := db.resolve(path)
	if err != nil {
		n = db.createAlongPath(path, typ)
	}

	if _, tagged := n.images[hash]; tagged || img.hasTag(n.id) {
		db.log.Warnf("Tag [%s] is already assigned to image [%s]", path, hash)
		return
	}

	img.tags[n.id] = struct{}{}
	n.images[hash] = struct{}{}
	db.log.Infof("Tag [%s] assigned to image [%s]", path, hash)

	if n.parent != RootID {
		db.assign(hash, db.nodes[n.parent].path, TagTypeRegular)
	}
	if implied, ok := db.implications[path]; ok {
		db.assign(hash, implied, TagTypeRegular)
	}
}

// Unassign removes path from the image. Ancestors no longer supported by any
// assigned descendant are unassigned, all assigned descendants are
// unassigned, and tags left unused are removed. Unassigning a tag the image
// does not bear does nothing.
func (db *Database) Unassign(hash, path string) error {
	if err := ValidateTagPath(path); err != nil {
		return err
	}
	img, err := db.image(hash)
	if err != nil {
		return err
	}
	n, err := db.resolve(path)
	if err != nil {
		db.log.Errorf("Tag [%s] not found in database, can not unassign from image [%s]", path, hash)
		return err
	}

	if !img.hasTag(n.id) {
		db.log.Warnf("Tag [%s] is not assigned to image [%s]", path, hash)
		return nil
	}
	db.unassign(img, n)
	return nil
}

func (db *Database) unassign(img *Image, n *tagNode) {
	delete(img.tags, n.id)
	delete(n.images, img.hash)
	db.log.Infof("Tag [%s] removed from image [%s]", n.path, img.hash)

	if n.parent != RootID {
		parent := db.nodes[n.parent]
		if !db.anyChildAssigned(parent, img) && img.hasTag(parent.id) {
			db.unassign(img, parent)
		}
	}

	for _, id := range slices.Clone(n.children) {
		if child := db.node(id); child != nil && img.hasTag(id) {
			db.unassign(img, child)
		}
	}

	if db.alive(n) && n.unused() {
		db.log.Infof("Tag [%s] no longer used, deleting", n.path)
		db.removeTag(n)
	}
}

func (db *Database) anyChildAssigned(parent *tagNode, img *Image) bool {
	for _, id := range parent.children {
		if img.hasTag(id) {
			return true
		}
	}
	return false
}

// --- substitutions and implications ---

func validatePair(before, after string) error {
	if err := ValidateTagPath(before); err != nil {
		return err
	}
	return ValidateTagPath(after)
}

func addPair(table map[string]string, kind, before, after string) error {
	if err := validatePair(before, after); err != nil {
		return err
	}
	if _, exists := table[before]; exists {
		return fmt.Errorf("%s table already contains an entry for %s: %w", kind, before, ErrDuplicateKey)
	}
	table[before] = after
	return nil
}

func sortedPairs(table map[string]string) []Pair {
	pairs := make([]Pair, 0, len(table))
	for _, before := range sortedKeys(table) {
		pairs = append(pairs, Pair{Before: before, After: table[before]})
	}
	return pairs
}

// AddSubstitution makes before get replaced by after during autocomplete
// and import
func (db *Database) AddSubstitution(before, after string) error {
	if err := addPair(db.substitutions, "substitution", before, after); err != nil {
		db.log.Errorf("%v", err)
		return err
	}
	db.log.Infof("Added substitution from [%s] to [%s]", before, after)
	return nil
}

// RemoveSubstitution drops the substitution for before, if any
func (db *Database) RemoveSubstitution(before string) {
	delete(db.substitutions, before)
	db.log.Infof("Removed substitution from [%s]", before)
}

// Substitute returns the replacement for text, or text unchanged
func (db *Database) Substitute(text string) string {
	if after, ok := db.substitutions[text]; ok {
		return after
	}
	return text
}

// Substitutions returns the substitution table ordered by Before
func (db *Database) Substitutions() []Pair {
	return sortedPairs(db.substitutions)
}

// AddImplication makes assigning before also assign after
func (db *Database) AddImplication(before, after string) error {
	if err := addPair(db.implications, "implication", before, after); err != nil {
		db.log.Errorf("%v", err)
		return err
	}
	db.log.Infof("Added implication from [%s] to [%s]", before, after)
	return nil
}

// RemoveImplication drops the implication for before, if any
func (db *Database) RemoveImplication(before string) {
	delete(db.implications, before)
	db.log.Infof("Removed implication from [%s]", before)
}

// Implications returns the implication table ordered by Before
func (db *Database) Implications() []Pair {
	return sortedPairs(db.implications)
}

// --- interactions ---

// AddInteraction records that, on the image, the interaction tag affects the
// affected tag. The image and both tags must already exist.
func (db *Database) AddInteraction(hash, interactionPath, affectedPath string) error {
	if err := validatePair(interactionPath, affectedPath); err != nil {
		return err
	}
	img, err := db.image(hash)
	if err != nil {
		return err
	}
	interaction, err := db.resolve(interactionPath)
	if err != nil {
		return fmt.Errorf("unable to add tag interaction: %w", err)
	}
	affected, err := db.resolve(affectedPath)
	if err != nil {
		return fmt.Errorf("unable to add tag interaction: %w", err)
	}

	record, ok := img.interactions[interactionPath]
	if !ok {
		record = newTagInteraction(interaction.id)
		img.interactions[interactionPath] = record
	}
	record.Affected[affected.id] = struct{}{}
	db.log.Infof("Added interaction [%s] to [%s] on image [%s]", interactionPath, affectedPath, hash)
	return nil
}

// Interactions returns the tags affected by the interaction tag on the image.
// ok is false when no interaction was ever recorded for the pair.
func (db *Database) Interactions(hash, interactionPath string) (affected []Tag, ok bool, err error) {
	img, err := db.image(hash)
	if err != nil {
		return nil, false, err
	}
	record, ok := img.interactions[interactionPath]
	if !ok {
		return nil, false, nil
	}

	for id := range record.Affected {
		if n := db.node(id); n != nil {
			affected = append(affected, db.snapshot(n))
		}
	}
	sort.Slice(affected, func(i, j int) bool {
		return affected[i].Path < affected[j].Path
	})
	return affected, true, nil
}

// InteractionTags returns the interaction tag paths recorded for the image
func (db *Database) InteractionTags(hash string) ([]string, error) {
	img, err := db.image(hash)
	if err != nil {
		return nil, err
	}
	return sortedKeys(img.interactions), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
