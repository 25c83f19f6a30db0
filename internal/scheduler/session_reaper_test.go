package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlobanov/bookshelf/internal/library"
)

func TestSessionReaperStartStop(t *testing.T) {
	reaper := NewSessionReaper(library.NewManager(nil), 30*time.Minute, "*/10 * * * *")

	require.NoError(t, reaper.Start())
	// Starting twice is a no-op.
	require.NoError(t, reaper.Start())
	reaper.Stop()
	reaper.Stop()
}

func TestSessionReaperRejectsBadSchedule(t *testing.T) {
	reaper := NewSessionReaper(library.NewManager(nil), 30*time.Minute, "not a schedule")
	assert.Error(t, reaper.Start())
}
