package library

import (
	"context"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mlobanov/bookshelf/internal/entities"
)

// State is the lifecycle state of a library session.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateLoading         State = "loading"
	StateReady           State = "ready"
)

// persistTimeout bounds a single detached remote write.
const persistTimeout = 30 * time.Second

// persistQueueDepth is the buffer of the per-session persist queue.
const persistQueueDepth = 64

type persistOp struct {
	name string
	fn   func(ctx context.Context) error
	done chan struct{} // non-nil only for flush sentinels
}

// Session is the synchronization façade for one user: it owns that user's
// entity store, applies every mutation locally first (optimistic) and then
// persists it through a single detached worker. The worker preserves the
// order mutations were issued in; a failed remote write is logged, never
// rolled back.
//
// Façade calls are serialized by an internal mutex, keeping the
// single-writer contract of the entity store.
type Session struct {
	userID string
	remote *Adapter
	store  *Store

	mu       sync.Mutex
	state    State
	lastUsed time.Time

	persistCh chan persistOp
	closeOnce sync.Once
	closed    chan struct{}
}

func newSession(userID string, remote *Adapter) *Session {
	s := &Session{
		userID:    userID,
		remote:    remote,
		store:     NewStore(),
		state:     StateUnauthenticated,
		lastUsed:  time.Now(),
		persistCh: make(chan persistOp, persistQueueDepth),
		closed:    make(chan struct{}),
	}
	go s.persistLoop()
	return s
}

// UserID returns the owning user's id.
func (s *Session) UserID() string {
	return s.userID
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Open loads (or bootstraps) the user's library document and moves the
// session to Ready. On failure the session falls back to Unauthenticated
// and the error is surfaced; there is no automatic retry. Open on an
// already-Ready session is a no-op.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateReady {
		s.mu.Unlock()
		return nil
	}
	s.state = StateLoading
	s.mu.Unlock()

	shelves, books, err := s.remote.LoadOrBootstrap(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateUnauthenticated
		return err
	}
	s.store.Replace(shelves, books)
	s.state = StateReady
	s.touch()
	return nil
}

// CreateShelf creates a shelf locally and persists it in the background.
func (s *Session) CreateShelf(title string) (entities.Shelf, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireReady(); err != nil {
		return entities.Shelf{}, err
	}
	if strings.TrimSpace(title) == "" {
		return entities.Shelf{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	shelf := entities.Shelf{ID: NewShelfID(), Title: title, BookIDs: []string{}}
	s.store.InsertShelf(shelf)
	s.enqueue("put shelf", func(ctx context.Context) error {
		return s.remote.PutShelf(ctx, s.userID, shelf)
	})
	return shelf, nil
}

// AddBook validates the record, inserts the book locally and persists it
// in the background. The shelf must exist locally.
func (s *Session) AddBook(record entities.BookRecord, shelfID string) (entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireReady(); err != nil {
		return entities.Book{}, err
	}
	if !s.store.ShelfExists(shelfID) {
		return entities.Book{}, &InvalidStateError{Kind: "shelf", ID: shelfID}
	}
	if err := validateRecord(record); err != nil {
		return entities.Book{}, err
	}

	book := entities.Book{ID: NewBookID(), ShelfID: shelfID, Data: record}
	s.store.InsertBook(book)
	s.enqueue("put book", func(ctx context.Context) error {
		return s.remote.PutBook(ctx, s.userID, book)
	})
	return book, nil
}

// UpdateBook replaces a book's record, refreshing the selection if the
// book is currently selected, and persists the change in the background.
func (s *Session) UpdateBook(bookID string, record entities.BookRecord) (entities.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireReady(); err != nil {
		return entities.Book{}, err
	}
	book, ok := s.store.BookByID(bookID)
	if !ok {
		return entities.Book{}, &InvalidStateError{Kind: "book", ID: bookID}
	}
	if err := validateRecord(record); err != nil {
		return entities.Book{}, err
	}

	book.Data = record
	s.store.UpdateBook(book)
	s.enqueue("update book", func(ctx context.Context) error {
		return s.remote.UpdateBook(ctx, s.userID, book)
	})
	return book, nil
}

// RemoveBook removes a book locally and persists the removal in the
// background. The owning shelf id is looked up locally first because the
// remote delete needs it for the membership update.
func (s *Session) RemoveBook(bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireReady(); err != nil {
		return err
	}
	book, ok := s.store.BookByID(bookID)
	if !ok {
		return &InvalidStateError{Kind: "book", ID: bookID}
	}

	s.store.RemoveBook(bookID)
	shelfID := book.ShelfID
	s.enqueue("delete book", func(ctx context.Context) error {
		return s.remote.DeleteBook(ctx, s.userID, bookID, shelfID)
	})
	return nil
}

// RemoveShelf removes a shelf and every book it owns locally, mirroring
// the adapter-side cascade, then persists the cascade in the background.
func (s *Session) RemoveShelf(shelfID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireReady(); err != nil {
		return err
	}
	if !s.store.ShelfExists(shelfID) {
		return &InvalidStateError{Kind: "shelf", ID: shelfID}
	}

	s.store.RemoveShelf(shelfID)
	for _, book := range s.store.Books() {
		if book.ShelfID == shelfID {
			s.store.RemoveBook(book.ID)
		}
	}
	s.enqueue("delete shelf", func(ctx context.Context) error {
		return s.remote.DeleteShelf(ctx, s.userID, shelfID)
	})
	return nil
}

// SelectBook points the selection at a book, searching the private table
// first and the public projection second.
func (s *Session) SelectBook(bookID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Select(bookID)
	s.touch()
}

// ClearSelection unsets the selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearSelection()
}

// Selected returns the currently selected book, if any.
func (s *Session) Selected() (entities.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Selected()
}

// Shelves returns the private shelves.
func (s *Session) Shelves() []entities.Shelf {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.store.Shelves()
}

// Books returns the private books.
func (s *Session) Books() []entities.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Books()
}

// BrowsePublic loads another user's public projection into the isolated
// public slot, so SelectBook works while browsing it. The projection is
// awaited; it is never written through.
func (s *Session) BrowsePublic(ctx context.Context, reader *PublicReader, targetUserID string) (*PublicLibrary, error) {
	projection, err := reader.Open(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetPublic(projection.Shelves, projection.Books)
	s.touch()
	return projection, nil
}

// LeavePublic discards the cached public projection when the viewer
// navigates away.
func (s *Session) LeavePublic() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ClearPublic()
}

// Flush blocks until every persist operation enqueued so far has been
// attempted. Used by teardown and tests; regular callers never wait.
func (s *Session) Flush() {
	done := make(chan struct{})
	select {
	case s.persistCh <- persistOp{name: "flush", done: done}:
		<-done
	case <-s.closed:
	}
}

// Close flushes pending writes and discards local state. In-flight remote
// writes are not aborted. Close is idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.Flush()
		close(s.closed)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.state = StateUnauthenticated
		s.store.Replace(nil, nil)
		s.store.ClearPublic()
		s.store.ClearSelection()
	})
}

// LastUsed returns the time of the last façade call.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// touch records activity. Callers must hold s.mu.
func (s *Session) touch() {
	s.lastUsed = time.Now()
}

// requireReady guards mutating operations. Callers must hold s.mu.
func (s *Session) requireReady() error {
	if s.state != StateReady {
		return ErrNotReady
	}
	s.touch()
	return nil
}

// enqueue hands a remote write to the persist worker. Callers must hold
// s.mu. The send can block only when the queue is persistently full, which
// acts as backpressure against a runaway caller.
func (s *Session) enqueue(name string, fn func(ctx context.Context) error) {
	select {
	case <-s.closed:
		log.Printf("library: dropping %s for user %s: session closed", name, s.userID)
	default:
		s.persistCh <- persistOp{name: name, fn: fn}
	}
}

// persistLoop is the single detached worker draining the persist queue in
// issue order. Failures are logged and swallowed per the optimistic-update
// policy: the local state already reflects the user's intent.
func (s *Session) persistLoop() {
	for {
		select {
		case op := <-s.persistCh:
			s.runPersist(op)
		case <-s.closed:
			// Drain whatever was enqueued before the close.
			for {
				select {
				case op := <-s.persistCh:
					s.runPersist(op)
				default:
					return
				}
			}
		}
	}
}

func (s *Session) runPersist(op persistOp) {
	if op.done != nil {
		close(op.done)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := op.fn(ctx); err != nil {
		log.Printf("library: %s for user %s failed: %v", op.name, s.userID, err)
	}
}

// validateRecord enforces the write-time invariants of a book record.
func validateRecord(record entities.BookRecord) error {
	if strings.TrimSpace(record.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if len(record.Authors) == 0 {
		return &ValidationError{Field: "authors", Reason: "must not be empty"}
	}
	for _, author := range record.Authors {
		if strings.TrimSpace(author.Name) == "" {
			return &ValidationError{Field: "authors", Reason: "author name must not be empty"}
		}
	}
	if record.ReadLink != "" {
		u, err := url.Parse(record.ReadLink)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return &ValidationError{Field: "readLink", Reason: "must be an http(s) URL"}
		}
	}
	return nil
}
