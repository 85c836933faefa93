// Package storage persists captured frames to a filesystem.
package storage

import "fmt"

// Format is an output encoding for persisted frames.
type Format string

const (
	// FormatPNG is the lossless encoding.
	FormatPNG Format = "png"

	// FormatJPEG is lossy; quality applies.
	FormatJPEG Format = "jpeg"

	// FormatWebP is lossy; quality applies.
	FormatWebP Format = "webp"
)

// Ext returns the file extension for the format, dot included.
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatWebP:
		return ".webp"
	default:
		return ".png"
	}
}

// Lossy reports whether quality settings affect the encoding.
func (f Format) Lossy() bool {
	return f == FormatJPEG || f == FormatWebP
}

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("unknown format %q (want png, jpeg or webp)", s)
	}
}
