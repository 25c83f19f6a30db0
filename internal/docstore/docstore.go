// Package docstore provides a collection+id addressed JSON document store.
//
// Writes come in two flavours: full-document Set, and Update, a partial
// write that only touches the named field paths and preserves every
// sibling field. Update supports three extra primitives for set-valued
// fields: Delete, ArrayUnion and ArrayRemove. Both primitives are atomic
// at single-document granularity.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Store is the document store boundary.
type Store interface {
	// Get reads a full document. Returns ErrNotFound when absent.
	Get(ctx context.Context, collection, id string) (json.RawMessage, error)

	// Set writes a full document, creating or replacing it.
	Set(ctx context.Context, collection, id string, doc any) error

	// Update applies a partial update. Keys are dot-separated field paths;
	// values are JSON-marshalable values or one of the Delete/ArrayUnion/
	// ArrayRemove primitives. Fields not named in updates are left
	// untouched. Returns ErrNotFound when the document is absent.
	Update(ctx context.Context, collection, id string, updates map[string]any) error
}

type deleteOp struct{}

type arrayUnionOp struct {
	values []any
}

type arrayRemoveOp struct {
	values []any
}

// Delete marks a field path for removal in an Update call.
func Delete() any {
	return deleteOp{}
}

// ArrayUnion appends values to an array-valued field, skipping values
// already present. Adding a present value is a no-op, not a duplicate.
func ArrayUnion(values ...any) any {
	return arrayUnionOp{values: values}
}

// ArrayRemove removes all occurrences of the given values from an
// array-valued field.
func ArrayRemove(values ...any) any {
	return arrayRemoveOp{values: values}
}
