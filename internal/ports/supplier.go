package ports

import "context"

// TagSupplier provides tags for an image from an external source, such as a
// booru lookup script or a tag dump file
type TagSupplier interface {
	// Tags returns the raw tag paths known for the image hash. Tags are not
	// substituted or validated by the supplier.
	Tags(ctx context.Context, hash string) ([]string, error)
}

// ScannedImage is an image file found on disk
type ScannedImage struct {
	Hash string
	Path string // absolute path to the file
}

// ImageSource finds image files to add to the database
type ImageSource interface {
	// Scan lists the images in dir, descending into subfolders if recursive
	Scan(ctx context.Context, dir string, recursive bool) ([]ScannedImage, error)
}
