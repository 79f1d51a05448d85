package domain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// PathSeparator joins tag names into a tag path
const PathSeparator = ":"

// TagType classifies a tag. The ordinal values are persisted in tags.txt.
type TagType int

const (
	TagTypeNone TagType = iota
	TagTypeRoot
	TagTypeRegular
	TagTypeCategory
	TagTypeModifier
	TagTypeInteraction
)

func (t TagType) String() string {
	switch t {
	case TagTypeRoot:
		return "Root"
	case TagTypeRegular:
		return "Regular"
	case TagTypeCategory:
		return "Category"
	case TagTypeModifier:
		return "Modifier"
	case TagTypeInteraction:
		return "Interaction"
	default:
		return "None"
	}
}

// Valid reports whether t is one of the known tag types
func (t TagType) Valid() bool {
	return t >= TagTypeNone && t <= TagTypeInteraction
}

// ParseTagType accepts either a type name (case-insensitive) or its ordinal
func ParseTagType(s string) (TagType, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		t := TagType(n)
		if !t.Valid() {
			return TagTypeNone, fmt.Errorf("unknown tag type: %d", n)
		}
		return t, nil
	}

	for t := TagTypeNone; t <= TagTypeInteraction; t++ {
		if strings.EqualFold(t.String(), s) {
			return t, nil
		}
	}
	return TagTypeNone, fmt.Errorf("unknown tag type: %q", s)
}

// TagID addresses a tag node inside a Database
type TagID int

// RootID is the id of the root tag, which has no name, path or parent
const RootID TagID = 0

const noParent TagID = -1

// tagNode is a node in the tag hierarchy. Nodes are owned by the Database
// arena; parent and children are plain id relations.
type tagNode struct {
	id       TagID
	name     string
	path     string
	typ      TagType
	parent   TagID
	children []TagID
	images   map[string]struct{}
}

func newTagNode(id TagID, name, path string, typ TagType, parent TagID) *tagNode {
	return &tagNode{
		id:     id,
		name:   name,
		path:   path,
		typ:    typ,
		parent: parent,
		images: make(map[string]struct{}),
	}
}

// unused reports whether the node has no tagged images and no children
func (n *tagNode) unused() bool {
	return len(n.images) == 0 && len(n.children) == 0
}

func (n *tagNode) removeChild(id TagID) {
	for i, c := range n.children {
		if c == id {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// Tag is a read-only snapshot of a tag node
type Tag struct {
	ID         TagID
	Name       string
	Path       string
	Type       TagType
	Children   int
	ImageCount int
}

// Depth returns the number of separators in the tag path
func (t Tag) Depth() int {
	return PathDepth(t.Path)
}

// ValidateTagPath checks a user-supplied tag path. Paths must be non-empty,
// must not contain whitespace of any kind (the flat files are space and line
// separated) and must not contain empty segments.
func ValidateTagPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: tag path is empty", ErrInvalidTag)
	}
	if hasSpace(path) {
		return fmt.Errorf("%w: tag path %q contains whitespace", ErrInvalidTag, path)
	}
	for _, name := range SplitPath(path) {
		if name == "" {
			return fmt.Errorf("%w: tag path %q has an empty segment", ErrInvalidTag, path)
		}
	}
	return nil
}

// hasSpace reports whether s contains any Unicode whitespace, including
// newlines and non-breaking spaces
func hasSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

// IsValidTagPath is the boolean form of ValidateTagPath
func IsValidTagPath(path string) bool {
	return ValidateTagPath(path) == nil
}

// SplitPath splits a tag path into its names
func SplitPath(path string) []string {
	return strings.Split(path, PathSeparator)
}

// JoinPath joins a parent path and a child name. An empty parent is the root.
func JoinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + PathSeparator + name
}

// ParentPath returns the path of the parent tag, or "" for a top-level tag
func ParentPath(path string) string {
	i := strings.LastIndex(path, PathSeparator)
	if i < 0 {
		return ""
	}
	return path[:i]
}

// LeafName returns the last name of a tag path
func LeafName(path string) string {
	i := strings.LastIndex(path, PathSeparator)
	if i < 0 {
		return path
	}
	return path[i+1:]
}

// PathDepth counts the separators in a tag path; top-level tags have depth 0
func PathDepth(path string) int {
	return strings.Count(path, PathSeparator)
}
