package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mlobanov/bookshelf/internal/catalog"
	"github.com/mlobanov/bookshelf/internal/entities"
	"github.com/mlobanov/bookshelf/internal/library"
)

// EnrichCoverTask looks up a cover image for a book that has none.
type EnrichCoverTask struct {
	UserID string `json:"user_id"`
	BookID string `json:"book_id"`
}

// Config returns the queue configuration for cover enrichment tasks.
func (t EnrichCoverTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "enrich_cover",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// EnrichCoverProcessor creates the processor for cover enrichment. It
// searches the catalog by title and first author, and writes the found
// cover through the live session when one is open so the in-memory copy
// stays consistent, falling back to a direct remote update otherwise.
func EnrichCoverProcessor(adapter *library.Adapter, search *catalog.Client, sessions *library.Manager) backlite.QueueProcessor[EnrichCoverTask] {
	return func(ctx context.Context, task EnrichCoverTask) error {
		_, books, err := adapter.LoadOrBootstrap(ctx, task.UserID)
		if err != nil {
			return fmt.Errorf("enrich cover: load library for %s: %w", task.UserID, err)
		}

		var book entities.Book
		found := false
		for _, b := range books {
			if b.ID == task.BookID {
				book = b
				found = true
				break
			}
		}
		if !found {
			// Removed since the task was enqueued; nothing to do.
			log.Printf("[TASK] enrich_cover: book %s no longer exists", task.BookID)
			return nil
		}
		if book.Data.Cover() != "" {
			return nil
		}

		query := book.Data.Title
		if len(book.Data.Authors) > 0 && strings.TrimSpace(book.Data.Authors[0].Name) != "" {
			query += " " + book.Data.Authors[0].Name
		}
		match, err := search.First(ctx, query)
		if err != nil {
			if errors.Is(err, catalog.ErrNoResults) {
				log.Printf("[TASK] enrich_cover: no catalog match for %q", query)
				return nil
			}
			return fmt.Errorf("enrich cover: catalog search %q: %w", query, err)
		}
		cover := match.Formats[entities.CoverFormatKey]
		if cover == "" {
			return nil
		}

		if book.Data.Formats == nil {
			book.Data.Formats = map[string]string{}
		}
		book.Data.Formats[entities.CoverFormatKey] = cover

		if sess, ok := sessions.Peek(task.UserID); ok && sess.State() == library.StateReady {
			if _, err := sess.UpdateBook(book.ID, book.Data); err != nil {
				return fmt.Errorf("enrich cover: update via session: %w", err)
			}
			return nil
		}
		if err := adapter.UpdateBook(ctx, task.UserID, book); err != nil {
			return fmt.Errorf("enrich cover: update remote: %w", err)
		}
		return nil
	}
}

// NewEnrichCoverQueue creates the backlite queue for cover enrichment.
func NewEnrichCoverQueue(adapter *library.Adapter, search *catalog.Client, sessions *library.Manager) backlite.Queue {
	return backlite.NewQueue(EnrichCoverProcessor(adapter, search, sessions))
}
