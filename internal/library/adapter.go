package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mlobanov/bookshelf/internal/config"
	"github.com/mlobanov/bookshelf/internal/docstore"
	"github.com/mlobanov/bookshelf/internal/entities"
)

// Document store collections.
const (
	CollectionLibraries = "libraries"
	CollectionUsers     = "users"
)

// Wire form of the per-user library document:
//
//	{
//	  "shelves": { "<shelfId>": {"title": "...", "bookIds": ["..."]}, ... },
//	  "books":   { "<bookId>":  {"data": {...}, "shelfId": "..."}, ... }
//	}
type shelfDoc struct {
	Title   string   `json:"title"`
	BookIDs []string `json:"bookIds"`
}

type bookDoc struct {
	Data    entities.BookRecord `json:"data"`
	ShelfID string              `json:"shelfId"`
}

type libraryDoc struct {
	Shelves map[string]shelfDoc `json:"shelves"`
	Books   map[string]bookDoc  `json:"books"`
}

// Adapter translates entity operations into partial path writes against a
// single per-user document, and reconstructs entity tables from full
// document reads. Every write targets specific field paths; sibling fields
// are never overwritten.
type Adapter struct {
	store docstore.Store
}

// NewAdapter creates an adapter over a document store.
func NewAdapter(store docstore.Store) *Adapter {
	return &Adapter{store: store}
}

// LoadOrBootstrap reads the user's library document, creating it with a
// single default shelf when absent. Bootstrap is idempotent: the document
// is only created after an existence check, so calling this twice for a
// brand-new user yields exactly one default shelf.
func (a *Adapter) LoadOrBootstrap(ctx context.Context, userID string) ([]entities.Shelf, []entities.Book, error) {
	raw, err := a.store.Get(ctx, CollectionLibraries, userID)
	if err == nil {
		shelves, books, derr := decodeLibrary(raw)
		if derr != nil {
			return nil, nil, &RemoteUnavailableError{Op: "load", Err: derr}
		}
		return shelves, books, nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, nil, &RemoteUnavailableError{Op: "load", Err: err}
	}

	defaultShelf := entities.Shelf{
		ID:      NewShelfID(),
		Title:   config.DefaultShelfTitle,
		BookIDs: []string{},
	}
	doc := libraryDoc{
		Shelves: map[string]shelfDoc{
			defaultShelf.ID: {Title: defaultShelf.Title, BookIDs: []string{}},
		},
		Books: map[string]bookDoc{},
	}
	if err := a.store.Set(ctx, CollectionLibraries, userID, doc); err != nil {
		return nil, nil, &RemoteUnavailableError{Op: "bootstrap", Err: err}
	}
	return []entities.Shelf{defaultShelf}, []entities.Book{}, nil
}

// PutShelf writes shelves.<id> with an empty membership set.
func (a *Adapter) PutShelf(ctx context.Context, userID string, shelf entities.Shelf) error {
	if strings.TrimSpace(shelf.ID) == "" {
		return &ValidationError{Field: "shelf.id", Reason: "must not be empty"}
	}
	updates := map[string]any{
		"shelves." + shelf.ID: shelfDoc{Title: shelf.Title, BookIDs: []string{}},
	}
	if err := a.store.Update(ctx, CollectionLibraries, userID, updates); err != nil {
		return &RemoteUnavailableError{Op: "put shelf", Err: err}
	}
	return nil
}

// DeleteShelf removes the shelf entry and every book owned by it in one
// batched update. The affected book ids are discovered by a prior read, so
// a book added to the shelf by another writer between the read and the
// delete can be missed — an accepted gap of the design.
func (a *Adapter) DeleteShelf(ctx context.Context, userID, shelfID string) error {
	raw, err := a.store.Get(ctx, CollectionLibraries, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil
		}
		return &RemoteUnavailableError{Op: "delete shelf", Err: err}
	}

	var doc libraryDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &RemoteUnavailableError{Op: "delete shelf", Err: err}
	}

	updates := map[string]any{
		"shelves." + shelfID: docstore.Delete(),
	}
	for bookID, book := range doc.Books {
		if book.ShelfID == shelfID {
			updates["books."+bookID] = docstore.Delete()
		}
	}
	if err := a.store.Update(ctx, CollectionLibraries, userID, updates); err != nil {
		return &RemoteUnavailableError{Op: "delete shelf", Err: err}
	}
	return nil
}

// PutBook writes books.<id> and adds the id to the owning shelf's
// membership set. Membership is a set union, so re-adding a present id is
// a no-op rather than a duplicate.
func (a *Adapter) PutBook(ctx context.Context, userID string, book entities.Book) error {
	updates := map[string]any{
		"books." + book.ID:                     bookDoc{Data: book.Data, ShelfID: book.ShelfID},
		"shelves." + book.ShelfID + ".bookIds": docstore.ArrayUnion(book.ID),
	}
	if err := a.store.Update(ctx, CollectionLibraries, userID, updates); err != nil {
		return &RemoteUnavailableError{Op: "put book", Err: err}
	}
	return nil
}

// DeleteBook removes books.<id> and the id from the shelf's membership set.
func (a *Adapter) DeleteBook(ctx context.Context, userID, bookID, shelfID string) error {
	updates := map[string]any{
		"books." + bookID:                 docstore.Delete(),
		"shelves." + shelfID + ".bookIds": docstore.ArrayRemove(bookID),
	}
	if err := a.store.Update(ctx, CollectionLibraries, userID, updates); err != nil {
		return &RemoteUnavailableError{Op: "delete book", Err: err}
	}
	return nil
}

// UpdateBook overwrites only books.<id>, leaving membership untouched.
func (a *Adapter) UpdateBook(ctx context.Context, userID string, book entities.Book) error {
	updates := map[string]any{
		"books." + book.ID: bookDoc{Data: book.Data, ShelfID: book.ShelfID},
	}
	if err := a.store.Update(ctx, CollectionLibraries, userID, updates); err != nil {
		return &RemoteUnavailableError{Op: "update book", Err: err}
	}
	return nil
}

// ReadPublicProfile reads a user's profile document for the public
// projection path. An absent document and a non-public one both return
// ErrNotFoundOrPrivate; the caller can never tell which it was.
func (a *Adapter) ReadPublicProfile(ctx context.Context, userID string) (entities.ProfileSummary, error) {
	raw, err := a.store.Get(ctx, CollectionUsers, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return entities.ProfileSummary{}, ErrNotFoundOrPrivate
		}
		return entities.ProfileSummary{}, &RemoteUnavailableError{Op: "read profile", Err: err}
	}

	var profile entities.ProfileSummary
	if err := json.Unmarshal(raw, &profile); err != nil {
		return entities.ProfileSummary{}, &RemoteUnavailableError{Op: "read profile", Err: err}
	}
	if !profile.IsPublic {
		return entities.ProfileSummary{}, ErrNotFoundOrPrivate
	}
	return profile, nil
}

// ReadPublicLibrary reads another user's library document. Visibility is
// checked separately via ReadPublicProfile; callers sequence profile first.
func (a *Adapter) ReadPublicLibrary(ctx context.Context, userID string) ([]entities.Shelf, []entities.Book, error) {
	raw, err := a.store.Get(ctx, CollectionLibraries, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, nil, docstore.ErrNotFound
		}
		return nil, nil, &RemoteUnavailableError{Op: "read public library", Err: err}
	}
	shelves, books, err := decodeLibrary(raw)
	if err != nil {
		return nil, nil, &RemoteUnavailableError{Op: "read public library", Err: err}
	}
	return shelves, books, nil
}

// decodeLibrary reconstructs entity tables from the wire document. Map
// iteration order is not stable, so entries are sorted by id; ids are
// clock-derived which keeps the result in rough creation order.
func decodeLibrary(raw json.RawMessage) ([]entities.Shelf, []entities.Book, error) {
	var doc libraryDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to decode library document: %w", err)
	}

	shelves := make([]entities.Shelf, 0, len(doc.Shelves))
	for id, shelf := range doc.Shelves {
		bookIDs := shelf.BookIDs
		if bookIDs == nil {
			bookIDs = []string{}
		}
		shelves = append(shelves, entities.Shelf{ID: id, Title: shelf.Title, BookIDs: bookIDs})
	}
	sort.Slice(shelves, func(i, j int) bool { return shelves[i].ID < shelves[j].ID })

	books := make([]entities.Book, 0, len(doc.Books))
	for id, book := range doc.Books {
		books = append(books, entities.Book{ID: id, ShelfID: book.ShelfID, Data: book.Data})
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })

	return shelves, books, nil
}
