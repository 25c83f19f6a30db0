package library

import (
	"context"
	"log"

	"github.com/mlobanov/bookshelf/internal/entities"
)

// PublicLibrary is a read-only projection of another user's library.
type PublicLibrary struct {
	Profile entities.ProfileSummary `json:"profile"`
	Shelves []entities.Shelf        `json:"shelves"`
	Books   []entities.Book         `json:"books"`
}

// PublicReader loads public projections. It writes nothing, and every
// failure — private profile, missing document, remote outage — collapses
// into the single ErrPublicLibraryUnavailable outcome so a caller can
// never tell which step failed.
type PublicReader struct {
	remote *Adapter
}

// NewPublicReader creates a reader over the adapter.
func NewPublicReader(remote *Adapter) *PublicReader {
	return &PublicReader{remote: remote}
}

// Open fetches the target's profile (failing closed when private or
// absent) and then the library document. The projection is not cached
// here; callers hold it only for the lifetime of the viewing session.
func (r *PublicReader) Open(ctx context.Context, targetUserID string) (*PublicLibrary, error) {
	profile, err := r.remote.ReadPublicProfile(ctx, targetUserID)
	if err != nil {
		log.Printf("library: public profile read for %s failed: %v", targetUserID, err)
		return nil, ErrPublicLibraryUnavailable
	}

	shelves, books, err := r.remote.ReadPublicLibrary(ctx, targetUserID)
	if err != nil {
		log.Printf("library: public library read for %s failed: %v", targetUserID, err)
		return nil, ErrPublicLibraryUnavailable
	}

	return &PublicLibrary{Profile: profile, Shelves: shelves, Books: books}, nil
}
