package scheduler

import (
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mlobanov/bookshelf/internal/library"
)

// SessionReaper periodically closes library sessions that have been idle
// for too long, flushing their persist queues on the way out.
type SessionReaper struct {
	sessions *library.Manager
	maxIdle  time.Duration
	schedule string

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.Mutex
	isRunning bool
}

// NewSessionReaper creates a reaper with a cron schedule such as
// "*/10 * * * *".
func NewSessionReaper(sessions *library.Manager, maxIdle time.Duration, schedule string) *SessionReaper {
	return &SessionReaper{
		sessions: sessions,
		maxIdle:  maxIdle,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the reap schedule.
func (s *SessionReaper) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.reap)
	if err != nil {
		return err
	}
	s.entryID = entryID
	s.cron.Start()
	s.isRunning = true

	log.Printf("Session reaper started (schedule %q, max idle %v)", s.schedule, s.maxIdle)
	return nil
}

// Stop halts the schedule; a reap already in progress finishes.
func (s *SessionReaper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	s.cron.Remove(s.entryID)
	s.cron.Stop()
	s.isRunning = false
	log.Printf("Session reaper stopped")
}

func (s *SessionReaper) reap() {
	if reaped := s.sessions.ReapIdle(s.maxIdle); reaped > 0 {
		log.Printf("Session reaper closed %d idle session(s)", reaped)
	}
}
