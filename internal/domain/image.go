package domain

import "sort"

const (
	MinRating = 0
	MaxRating = 5
)

// ClampRating forces a rating into [MinRating, MaxRating]
func ClampRating(rating int) int {
	return min(max(rating, MinRating), MaxRating)
}

// TagInteraction records, for one image, the tags affected by an interaction tag
type TagInteraction struct {
	Interaction TagID
	Affected    map[TagID]struct{}
}

func newTagInteraction(interaction TagID) *TagInteraction {
	return &TagInteraction{
		Interaction: interaction,
		Affected:    make(map[TagID]struct{}),
	}
}

// Image is a content-addressed image record. Its tag set is only changed by
// the Database so that both sides of the image/tag relation stay in sync.
type Image struct {
	hash         string
	rating       int
	locations    map[string]struct{}
	thumbnail    string
	tags         map[TagID]struct{}
	interactions map[string]*TagInteraction
}

func newImage(hash string) *Image {
	return &Image{
		hash:         hash,
		locations:    make(map[string]struct{}),
		tags:         make(map[TagID]struct{}),
		interactions: make(map[string]*TagInteraction),
	}
}

// Hash returns the stable content identifier of the image
func (i *Image) Hash() string {
	return i.hash
}

// Rating returns the image rating in [MinRating, MaxRating]
func (i *Image) Rating() int {
	return i.rating
}

func (i *Image) setRating(rating int) {
	i.rating = ClampRating(rating)
}

// Locations returns the known locations of the image, sorted
func (i *Image) Locations() []string {
	locs := make([]string, 0, len(i.locations))
	for loc := range i.locations {
		locs = append(locs, loc)
	}
	sort.Strings(locs)
	return locs
}

// HasLocation reports whether loc is a known location of the image
func (i *Image) HasLocation(loc string) bool {
	_, ok := i.locations[loc]
	return ok
}

// Thumbnail returns the thumbnail reference, or "" if none is set
func (i *Image) Thumbnail() string {
	return i.thumbnail
}

// TagCount returns the number of tags assigned to the image
func (i *Image) TagCount() int {
	return len(i.tags)
}

func (i *Image) hasTag(id TagID) bool {
	_, ok := i.tags[id]
	return ok
}
