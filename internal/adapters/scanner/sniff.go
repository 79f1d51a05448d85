package scanner

import "io"

// Format is an image container format recognised by its magic number
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	default:
		return "unknown"
	}
}

// Sniff determines the format of the data from its first bytes and rewinds r
func Sniff(r io.ReadSeeker) (Format, error) {
	header := make([]byte, 8)
	n, err := io.ReadFull(r, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return FormatUnknown, err
	}
	header = header[:n]

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return FormatUnknown, err
	}

	switch {
	case len(header) >= 3 && header[0] == 0xFF && header[1] == 0xD8 && header[2] == 0xFF:
		return FormatJPEG, nil
	case len(header) >= 8 && string(header[:8]) == "\x89PNG\r\n\x1a\n":
		return FormatPNG, nil
	default:
		return FormatUnknown, nil
	}
}
