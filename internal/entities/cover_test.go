package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoverKindOf(t *testing.T) {
	tests := []struct {
		name     string
		cover    string
		expected CoverKind
	}{
		{"https url", "https://example.com/cover.jpg", CoverImage},
		{"http url", "http://example.com/cover.jpg", CoverImage},
		{"color token", "#abcdef", CoverColor},
		{"short color token", "#fff", CoverColor},
		{"empty", "", CoverNone},
		{"plain text", "no cover here", CoverNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoverKindOf(tt.cover))
		})
	}
}

func TestBookRecordCoverKind(t *testing.T) {
	t.Run("nil formats", func(t *testing.T) {
		r := BookRecord{Title: "Dune"}
		assert.Equal(t, "", r.Cover())
		assert.Equal(t, CoverNone, r.CoverKind())
	})

	t.Run("cover present", func(t *testing.T) {
		r := BookRecord{
			Title:   "Dune",
			Formats: map[string]string{CoverFormatKey: "https://x/y.jpg"},
		}
		assert.Equal(t, "https://x/y.jpg", r.Cover())
		assert.Equal(t, CoverImage, r.CoverKind())
	})

	t.Run("other formats only", func(t *testing.T) {
		r := BookRecord{
			Title:   "Dune",
			Formats: map[string]string{ReadPageFormatKey: "https://x/read"},
		}
		assert.Equal(t, CoverNone, r.CoverKind())
	})
}
