package entities

// CoverFormatKey is the formats-map key holding the cover value. The value
// is either an http(s) URL, a "#"-prefixed color token, or absent; the
// render mode is derived from the string shape alone (see CoverKindOf).
// Legacy key, kept for storage compatibility with existing documents.
const CoverFormatKey = "image/jpeg"

// ReadPageFormatKey is the formats-map key holding an online reading page.
const ReadPageFormatKey = "text/html"

// Author is a single book author.
type Author struct {
	Name string `json:"name"`
}

// BookRecord holds the user-facing data of a book: what it is, how it
// looks and what the owner wrote about it.
type BookRecord struct {
	Title    string            `json:"title"`
	Authors  []Author          `json:"authors"`
	Formats  map[string]string `json:"formats"`
	Review   string            `json:"review"`
	ReadLink string            `json:"readLink"`

	// Passthrough fields from catalog imports, persisted as-is.
	CatalogID     int      `json:"id,omitempty"`
	DownloadCount int      `json:"download_count,omitempty"`
	Summaries     []string `json:"summaries,omitempty"`
}

// Cover returns the raw cover value, or "" when absent.
func (r BookRecord) Cover() string {
	if r.Formats == nil {
		return ""
	}
	return r.Formats[CoverFormatKey]
}

// Book is a single shelved entry. A book is owned by exactly one shelf.
type Book struct {
	ID      string     `json:"id"`
	ShelfID string     `json:"shelfId"`
	Data    BookRecord `json:"data"`
}

// Shelf is a named grouping of books. BookIDs is membership only; it does
// not impose an ordering.
type Shelf struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	BookIDs []string `json:"bookIds"`
}

// ProfileSummary is the per-user profile document consulted by the public
// projection path.
type ProfileSummary struct {
	Username    string `json:"username"`
	AvatarType  string `json:"avatarType"`
	AvatarImage string `json:"avatarImage"`
	AvatarColor string `json:"avatarColor,omitempty"`
	IsPublic    bool   `json:"isPublic"`
}
