package library

import "github.com/mlobanov/bookshelf/internal/entities"

// Store is the in-memory normalized representation of a user's shelves and
// books, plus an isolated slot for a public projection being browsed and
// the transient selection pointer.
//
// All operations are pure and synchronous; the store performs no I/O and
// cannot error. It is not safe for concurrent use — the owning Session
// serializes access.
type Store struct {
	shelves []entities.Shelf
	books   []entities.Book

	// Public projection slot. Disjoint from the private tables; nothing
	// ever writes through it.
	publicShelves []entities.Shelf
	publicBooks   []entities.Book

	selected *entities.Book
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// InsertShelf appends a shelf. Re-inserting an existing id replaces the
// entry, which keeps idempotent re-application safe.
func (s *Store) InsertShelf(shelf entities.Shelf) {
	for i, existing := range s.shelves {
		if existing.ID == shelf.ID {
			s.shelves[i] = shelf
			return
		}
	}
	s.shelves = append(s.shelves, shelf)
}

// InsertBook appends a book, deduplicating by id like InsertShelf.
func (s *Store) InsertBook(book entities.Book) {
	for i, existing := range s.books {
		if existing.ID == book.ID {
			s.books[i] = book
			return
		}
	}
	s.books = append(s.books, book)
}

// RemoveShelf removes a shelf by id. Cascading removal of its books is the
// façade's responsibility, not the store's.
func (s *Store) RemoveShelf(id string) {
	kept := s.shelves[:0]
	for _, shelf := range s.shelves {
		if shelf.ID != id {
			kept = append(kept, shelf)
		}
	}
	s.shelves = kept
}

// RemoveBook removes a book by id.
func (s *Store) RemoveBook(id string) {
	kept := s.books[:0]
	for _, book := range s.books {
		if book.ID != id {
			kept = append(kept, book)
		}
	}
	s.books = kept
}

// Replace overwrites both private tables, used after a remote load.
func (s *Store) Replace(shelves []entities.Shelf, books []entities.Book) {
	s.shelves = append([]entities.Shelf(nil), shelves...)
	s.books = append([]entities.Book(nil), books...)
}

// UpdateBook replaces the entry with a matching id. When the replaced book
// is currently selected the selection is refreshed too, so a consumer
// holding the selection never sees stale data after an edit. Unknown ids
// are ignored.
func (s *Store) UpdateBook(book entities.Book) {
	for i, existing := range s.books {
		if existing.ID == book.ID {
			s.books[i] = book
			if s.selected != nil && s.selected.ID == book.ID {
				selected := book
				s.selected = &selected
			}
			return
		}
	}
}

// Select points the selection at a book, searching the private table first
// and the public slot second so the same call works in either browsing
// context. Selecting an unknown id leaves the selection unchanged.
func (s *Store) Select(id string) {
	for _, book := range s.books {
		if book.ID == id {
			selected := book
			s.selected = &selected
			return
		}
	}
	for _, book := range s.publicBooks {
		if book.ID == id {
			selected := book
			s.selected = &selected
			return
		}
	}
}

// ClearSelection unsets the selection pointer.
func (s *Store) ClearSelection() {
	s.selected = nil
}

// Selected returns the selected book, if any.
func (s *Store) Selected() (entities.Book, bool) {
	if s.selected == nil {
		return entities.Book{}, false
	}
	return *s.selected, true
}

// SetPublic installs a public projection into the isolated slot.
func (s *Store) SetPublic(shelves []entities.Shelf, books []entities.Book) {
	s.publicShelves = append([]entities.Shelf(nil), shelves...)
	s.publicBooks = append([]entities.Book(nil), books...)
}

// ClearPublic discards the public projection.
func (s *Store) ClearPublic() {
	s.publicShelves = nil
	s.publicBooks = nil
}

// Shelves returns the private shelves in insertion order.
func (s *Store) Shelves() []entities.Shelf {
	return append([]entities.Shelf(nil), s.shelves...)
}

// Books returns the private books in insertion order.
func (s *Store) Books() []entities.Book {
	return append([]entities.Book(nil), s.books...)
}

// PublicShelves returns the public projection's shelves.
func (s *Store) PublicShelves() []entities.Shelf {
	return append([]entities.Shelf(nil), s.publicShelves...)
}

// PublicBooks returns the public projection's books.
func (s *Store) PublicBooks() []entities.Book {
	return append([]entities.Book(nil), s.publicBooks...)
}

// ShelfExists reports whether a private shelf with the given id exists.
func (s *Store) ShelfExists(id string) bool {
	for _, shelf := range s.shelves {
		if shelf.ID == id {
			return true
		}
	}
	return false
}

// BookByID looks up a private book by id.
func (s *Store) BookByID(id string) (entities.Book, bool) {
	for _, book := range s.books {
		if book.ID == id {
			return book, true
		}
	}
	return entities.Book{}, false
}
