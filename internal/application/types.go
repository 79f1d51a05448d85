package application

import "bite/internal/domain"

// Re-export tag types for use by adapters
type TagType = domain.TagType

const (
	TagTypeNone        = domain.TagTypeNone
	TagTypeRoot        = domain.TagTypeRoot
	TagTypeRegular     = domain.TagTypeRegular
	TagTypeCategory    = domain.TagTypeCategory
	TagTypeModifier    = domain.TagTypeModifier
	TagTypeInteraction = domain.TagTypeInteraction
)

// Re-export domain types for use by adapters
type (
	Database = domain.Database
	TreeNode = domain.TreeNode
	Tag      = domain.Tag
	Image    = domain.Image
	Pair     = domain.Pair
)

// ParseTagType accepts a tag type name or its ordinal
func ParseTagType(s string) (TagType, error) {
	return domain.ParseTagType(s)
}

// LeafName returns the last name of a tag path
func LeafName(path string) string {
	return domain.LeafName(path)
}
