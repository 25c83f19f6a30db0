package auth

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mlobanov/bookshelf/internal/config"
)

// Session data keys
const (
	SessionKeyUserID      = "user_id"
	SessionKeyUsername    = "username"
	SessionKeyLibraryPath = "library_path"
)

// DefaultLibraryPath is the owner's own library route; a public library
// route is "/public-library/<userID>".
const DefaultLibraryPath = "/library"

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager backed by the
// sessions table of the main SQLite database.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// SignIn renews the token (session fixation) and records the user.
func (sm *SessionManager) SignIn(r *http.Request, userID, username string) error {
	ctx := r.Context()
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, SessionKeyUserID, userID)
	sm.Put(ctx, SessionKeyUsername, username)
	sm.Put(ctx, SessionKeyLibraryPath, DefaultLibraryPath)
	return nil
}

// SignOut destroys the session.
func (sm *SessionManager) SignOut(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// UserID returns the signed-in user's id, or "" when anonymous.
func (sm *SessionManager) UserID(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyUserID)
}

// LibraryPath returns the persisted last-used library path.
func (sm *SessionManager) LibraryPath(r *http.Request) string {
	if path := sm.GetString(r.Context(), SessionKeyLibraryPath); path != "" {
		return path
	}
	return DefaultLibraryPath
}

// SetLibraryPath persists the last-used library path for cross-reload
// continuity. The engine itself only ever reads and writes this one string.
func (sm *SessionManager) SetLibraryPath(r *http.Request, path string) {
	sm.Put(r.Context(), SessionKeyLibraryPath, path)
}
