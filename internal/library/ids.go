package library

import (
	"fmt"
	"sync"
	"time"
)

// Ids are opaque clock-derived tokens ("shelf_1717171717171"). A process
// wide sequence guard keeps two creates within the same millisecond from
// colliding; collisions across processes are accepted as negligible.
var (
	idMu      sync.Mutex
	idLastMs  int64
	idLastSeq int
)

func newID(prefix string) string {
	idMu.Lock()
	defer idMu.Unlock()

	now := time.Now().UnixMilli()
	if now == idLastMs {
		idLastSeq++
		return fmt.Sprintf("%s_%d_%d", prefix, now, idLastSeq)
	}
	idLastMs = now
	idLastSeq = 0
	return fmt.Sprintf("%s_%d", prefix, now)
}

// NewShelfID generates an id for a new shelf.
func NewShelfID() string {
	return newID("shelf")
}

// NewBookID generates an id for a new book.
func NewBookID() string {
	return newID("book")
}
