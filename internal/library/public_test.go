package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlobanov/bookshelf/internal/entities"
)

func TestPublicReaderOpen(t *testing.T) {
	adapter, store := setupAdapter(t)
	reader := NewPublicReader(adapter)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, CollectionUsers, "owner", entities.ProfileSummary{
		Username:   "ann",
		AvatarType: "letter",
		IsPublic:   true,
	}))
	_, _, err := adapter.LoadOrBootstrap(ctx, "owner")
	require.NoError(t, err)
	require.NoError(t, adapter.PutShelf(ctx, "owner", entities.Shelf{ID: "s1", Title: "Sci-Fi"}))
	require.NoError(t, adapter.PutBook(ctx, "owner", testBook("b1", "s1", "Dune")))

	projection, err := reader.Open(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, "ann", projection.Profile.Username)
	assert.Len(t, projection.Shelves, 2)
	assert.Len(t, projection.Books, 1)
}

func TestPublicReaderIndistinguishability(t *testing.T) {
	adapter, store := setupAdapter(t)
	reader := NewPublicReader(adapter)
	ctx := context.Background()

	// A private owner with a real library.
	require.NoError(t, store.Set(ctx, CollectionUsers, "private-owner", entities.ProfileSummary{
		Username: "bob",
		IsPublic: false,
	}))
	_, _, err := adapter.LoadOrBootstrap(ctx, "private-owner")
	require.NoError(t, err)

	_, errPrivate := reader.Open(ctx, "private-owner")
	_, errAbsent := reader.Open(ctx, "no-such-user")

	assert.ErrorIs(t, errPrivate, ErrPublicLibraryUnavailable)
	assert.ErrorIs(t, errAbsent, ErrPublicLibraryUnavailable)
	assert.Equal(t, errPrivate, errAbsent)
}

func TestPublicReaderPublicProfileMissingLibrary(t *testing.T) {
	adapter, store := setupAdapter(t)
	reader := NewPublicReader(adapter)
	ctx := context.Background()

	// Profile is public but the library document never got created.
	require.NoError(t, store.Set(ctx, CollectionUsers, "owner", entities.ProfileSummary{
		Username: "ann",
		IsPublic: true,
	}))

	_, err := reader.Open(ctx, "owner")
	assert.ErrorIs(t, err, ErrPublicLibraryUnavailable)
}

func TestSessionBrowsePublic(t *testing.T) {
	adapter, store := setupAdapter(t)
	reader := NewPublicReader(adapter)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, CollectionUsers, "owner", entities.ProfileSummary{
		Username: "ann",
		IsPublic: true,
	}))
	_, _, err := adapter.LoadOrBootstrap(ctx, "owner")
	require.NoError(t, err)
	require.NoError(t, adapter.PutShelf(ctx, "owner", entities.Shelf{ID: "s1", Title: "Sci-Fi"}))
	require.NoError(t, adapter.PutBook(ctx, "owner", testBook("b1", "s1", "Dune")))

	viewer := newSession("viewer", adapter)
	require.NoError(t, viewer.Open(ctx))
	defer viewer.Close()

	projection, err := viewer.BrowsePublic(ctx, reader, "owner")
	require.NoError(t, err)
	assert.Len(t, projection.Books, 1)

	// Selection works against the browsed projection.
	viewer.SelectBook("b1")
	selected, ok := viewer.Selected()
	require.True(t, ok)
	assert.Equal(t, "Dune", selected.Data.Title)

	viewer.LeavePublic()
	// The viewer's own library is untouched.
	assert.Len(t, viewer.Shelves(), 1)
	assert.Empty(t, viewer.Books())
}
