package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is a single stored JSON document.
type Document struct {
	Collection string `gorm:"primaryKey;size:64"`
	DocID      string `gorm:"primaryKey;size:64;column:doc_id"`
	Data       string `gorm:"type:text"`
	UpdatedAt  time.Time
}

func (Document) TableName() string {
	return "documents"
}

// SQLiteStore implements Store on top of a GORM-managed SQLite database.
// The ArrayUnion/ArrayRemove/Delete primitives are emulated with
// read-modify-write inside a transaction, which keeps them atomic at
// single-document granularity.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore migrates the documents table and returns a store.
func NewSQLiteStore(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	var doc Document
	err := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read document %s/%s: %w", collection, id, err)
	}
	return json.RawMessage(doc.Data), nil
}

func (s *SQLiteStore) Set(ctx context.Context, collection, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
	}

	rec := Document{Collection: collection, DocID: id, Data: string(data)}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to write document %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *SQLiteStore) Update(ctx context.Context, collection, id string, updates map[string]any) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec Document
		err := tx.Where("collection = ? AND doc_id = ?", collection, id).
			First(&rec).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to read document %s/%s: %w", collection, id, err)
		}

		doc := map[string]any{}
		if err := json.Unmarshal([]byte(rec.Data), &doc); err != nil {
			return fmt.Errorf("failed to decode document %s/%s: %w", collection, id, err)
		}

		for path, value := range updates {
			if err := applyPathUpdate(doc, path, value); err != nil {
				return fmt.Errorf("failed to update %s/%s at %q: %w", collection, id, path, err)
			}
		}

		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode document %s/%s: %w", collection, id, err)
		}

		rec.Data = string(data)
		if err := tx.Save(&rec).Error; err != nil {
			return fmt.Errorf("failed to write document %s/%s: %w", collection, id, err)
		}
		return nil
	})
}

// applyPathUpdate applies a single path-addressed mutation to doc in place.
// Missing intermediate maps are created for plain writes and unions,
// while Delete and ArrayRemove against a missing parent are no-ops.
func applyPathUpdate(doc map[string]any, path string, value any) error {
	parts := strings.Split(path, ".")
	leaf := parts[len(parts)-1]

	creating := true
	if _, isDelete := value.(deleteOp); isDelete {
		creating = false
	} else if _, isRemove := value.(arrayRemoveOp); isRemove {
		creating = false
	}

	parent := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := parent[part].(map[string]any)
		if !ok {
			if !creating {
				return nil
			}
			// Replaces a non-map value if one is in the way.
			next = map[string]any{}
			parent[part] = next
		}
		parent = next
	}

	switch op := value.(type) {
	case deleteOp:
		delete(parent, leaf)
	case arrayUnionOp:
		cur, _ := parent[leaf].([]any)
		for _, v := range op.values {
			nv, err := normalizeValue(v)
			if err != nil {
				return err
			}
			if !containsValue(cur, nv) {
				cur = append(cur, nv)
			}
		}
		parent[leaf] = cur
	case arrayRemoveOp:
		cur, ok := parent[leaf].([]any)
		if !ok {
			return nil
		}
		kept := cur[:0]
		for _, existing := range cur {
			remove := false
			for _, v := range op.values {
				nv, err := normalizeValue(v)
				if err != nil {
					return err
				}
				if reflect.DeepEqual(existing, nv) {
					remove = true
					break
				}
			}
			if !remove {
				kept = append(kept, existing)
			}
		}
		parent[leaf] = kept
	default:
		nv, err := normalizeValue(value)
		if err != nil {
			return err
		}
		parent[leaf] = nv
	}
	return nil
}

// normalizeValue round-trips a value through JSON so stored and compared
// values share the same canonical types (float64 numbers, []any arrays).
func normalizeValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("unsupported value: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func containsValue(arr []any, v any) bool {
	for _, existing := range arr {
		if reflect.DeepEqual(existing, v) {
			return true
		}
	}
	return false
}
