package entities

import "strings"

// CoverKind is the derived render mode of a book cover. It is never
// persisted; the stored form stays the legacy string under
// formats["image/jpeg"] and the kind is re-derived from its shape on
// every read.
type CoverKind string

const (
	CoverImage CoverKind = "image" // http(s) URL
	CoverColor CoverKind = "color" // "#"-prefixed color token
	CoverNone  CoverKind = "none"  // absent or empty
)

// CoverKindOf derives the render mode from a raw cover string. The
// derivation mirrors how every existing client interprets the field:
// "http" prefix wins as an image, "#" prefix as a solid color, anything
// else falls back to a text cover.
func CoverKindOf(cover string) CoverKind {
	switch {
	case strings.HasPrefix(cover, "http"):
		return CoverImage
	case strings.HasPrefix(cover, "#"):
		return CoverColor
	default:
		return CoverNone
	}
}

// CoverKind derives the render mode of this record's cover.
func (r BookRecord) CoverKind() CoverKind {
	return CoverKindOf(r.Cover())
}
