package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultCatalogBaseURL is the public Gutendex instance used for catalog search
	DefaultCatalogBaseURL = "https://gutendex.com"

	// DefaultShelfTitle is the title of the shelf created when a user's
	// library document does not exist yet
	DefaultShelfTitle = "My Bookshelf"
)
