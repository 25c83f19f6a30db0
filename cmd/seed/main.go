// Command seed provisions a demo account with a public library of
// public-domain books, useful for trying the API without registering.
// Usage: go run cmd/seed/main.go [-db path/to/bookshelf.db]
package main

import (
	"context"
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/mlobanov/bookshelf/internal/auth"
	"github.com/mlobanov/bookshelf/internal/config"
	"github.com/mlobanov/bookshelf/internal/database"
	"github.com/mlobanov/bookshelf/internal/docstore"
	"github.com/mlobanov/bookshelf/internal/entities"
	"github.com/mlobanov/bookshelf/internal/library"
	"github.com/mlobanov/bookshelf/internal/profile"
)

func main() {
	dbPath := flag.String("db", config.DefaultDatabasePath, "path to the database file")
	username := flag.String("username", "demo", "demo account username")
	email := flag.String("email", "demo@example.com", "demo account email")
	password := flag.String("password", "demo-password-123", "demo account password")
	flag.Parse()

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	store, err := docstore.NewSQLiteStore(db.DB)
	if err != nil {
		log.Fatalf("Failed to create document store: %v", err)
	}

	authService := auth.NewService(db.DB, config.Auth{BcryptCost: bcrypt.DefaultCost})
	user, err := authService.CreateUser(*username, *email, *password)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	log.Printf("Created user %s (id %s)", user.Username, user.UserID)

	ctx := context.Background()

	profiles := profile.NewService(store)
	if err := profiles.Bootstrap(ctx, user.UserID, user.Username); err != nil {
		log.Fatalf("Failed to bootstrap profile: %v", err)
	}
	visible := true
	if err := profiles.Update(ctx, user.UserID, profile.UpdateParams{IsPublic: &visible}); err != nil {
		log.Fatalf("Failed to publish profile: %v", err)
	}

	adapter := library.NewAdapter(store)
	sessions := library.NewManager(adapter)
	defer sessions.CloseAll()

	sess, err := sessions.Session(ctx, user.UserID)
	if err != nil {
		log.Fatalf("Failed to open library session: %v", err)
	}

	shelf, err := sess.CreateShelf("Classics")
	if err != nil {
		log.Fatalf("Failed to create shelf: %v", err)
	}

	for _, record := range demoBooks() {
		book, err := sess.AddBook(record, shelf.ID)
		if err != nil {
			log.Printf("Failed to add %q: %v", record.Title, err)
			continue
		}
		log.Printf("Added %q (%s)", record.Title, book.ID)
	}
	sess.Flush()

	log.Printf("Demo library ready at /api/public-library/%s", user.UserID)
}

func demoBooks() []entities.BookRecord {
	return []entities.BookRecord{
		{
			Title:   "Pride and Prejudice",
			Authors: []entities.Author{{Name: "Jane Austen"}},
			Formats: map[string]string{
				entities.CoverFormatKey: "https://www.gutenberg.org/cache/epub/1342/pg1342.cover.medium.jpg",
			},
			ReadLink: "https://www.gutenberg.org/ebooks/1342",
			Review:   "Sharp, funny and still the gold standard for the marriage plot.",
		},
		{
			Title:   "Moby-Dick",
			Authors: []entities.Author{{Name: "Herman Melville"}},
			Formats: map[string]string{
				entities.CoverFormatKey: "#284a12",
			},
			ReadLink: "https://www.gutenberg.org/ebooks/2701",
		},
		{
			Title:   "Frankenstein",
			Authors: []entities.Author{{Name: "Mary Shelley"}},
			Review:  "The cover lookup task can fill this one in.",
		},
	}
}
