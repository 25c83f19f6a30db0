package tasks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mlobanov/bookshelf/internal/catalog"
	"github.com/mlobanov/bookshelf/internal/docstore"
	"github.com/mlobanov/bookshelf/internal/entities"
	"github.com/mlobanov/bookshelf/internal/library"
)

func setupEnrichFixture(t *testing.T, handler http.HandlerFunc) (*library.Adapter, *library.Manager, *catalog.Client) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "docs.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store, err := docstore.NewSQLiteStore(db)
	require.NoError(t, err)

	backend := httptest.NewServer(handler)
	t.Cleanup(backend.Close)

	adapter := library.NewAdapter(store)
	sessions := library.NewManager(adapter)
	t.Cleanup(sessions.CloseAll)

	return adapter, sessions, catalog.NewClient(backend.URL, time.Second)
}

func TestEnrichCoverFillsInMissingCover(t *testing.T) {
	adapter, sessions, search := setupEnrichFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Dune Frank Herbert", r.URL.Query().Get("search"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"count":1,"results":[{"id":1,"title":"Dune","authors":[{"name":"Frank Herbert"}],"formats":{"image/jpeg":"https://example.com/dune.jpg"}}]}`))
	})

	ctx := context.Background()
	sess, err := sessions.Session(ctx, "u1")
	require.NoError(t, err)

	shelfID := sess.Shelves()[0].ID
	book, err := sess.AddBook(entities.BookRecord{
		Title:   "Dune",
		Authors: []entities.Author{{Name: "Frank Herbert"}},
	}, shelfID)
	require.NoError(t, err)
	sess.Flush()

	process := EnrichCoverProcessor(adapter, search, sessions)
	require.NoError(t, process(ctx, EnrichCoverTask{UserID: "u1", BookID: book.ID}))

	// The live session sees the cover immediately.
	updated, ok := findSessionBook(sess, book.ID)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/dune.jpg", updated.Data.Cover())

	// And the remote document does after the queued write lands.
	sess.Flush()
	_, books, err := adapter.LoadOrBootstrap(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "https://example.com/dune.jpg", books[0].Data.Cover())
}

func TestEnrichCoverSkipsBooksWithCovers(t *testing.T) {
	adapter, sessions, search := setupEnrichFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("catalog should not be queried")
	})

	ctx := context.Background()
	sess, err := sessions.Session(ctx, "u1")
	require.NoError(t, err)

	shelfID := sess.Shelves()[0].ID
	book, err := sess.AddBook(entities.BookRecord{
		Title:   "Moby-Dick",
		Authors: []entities.Author{{Name: "Herman Melville"}},
		Formats: map[string]string{entities.CoverFormatKey: "#284a12"},
	}, shelfID)
	require.NoError(t, err)
	sess.Flush()

	process := EnrichCoverProcessor(adapter, search, sessions)
	assert.NoError(t, process(ctx, EnrichCoverTask{UserID: "u1", BookID: book.ID}))
}

func TestEnrichCoverMissingBookIsNoop(t *testing.T) {
	adapter, sessions, search := setupEnrichFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("catalog should not be queried")
	})

	ctx := context.Background()
	_, err := sessions.Session(ctx, "u1")
	require.NoError(t, err)

	process := EnrichCoverProcessor(adapter, search, sessions)
	assert.NoError(t, process(ctx, EnrichCoverTask{UserID: "u1", BookID: "book_gone"}))
}

func findSessionBook(sess *library.Session, id string) (entities.Book, bool) {
	for _, b := range sess.Books() {
		if b.ID == id {
			return b, true
		}
	}
	return entities.Book{}, false
}
