package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mlobanov/bookshelf/internal/auth"
	"github.com/mlobanov/bookshelf/internal/docstore"
	"github.com/mlobanov/bookshelf/internal/entities"
	"github.com/mlobanov/bookshelf/internal/library"
	"github.com/mlobanov/bookshelf/internal/profile"
)

const testUserID = "user-under-test"

type testStack struct {
	adapter  *library.Adapter
	sessions *library.Manager
	profiles *profile.Service
}

func setupStack(t *testing.T) *testStack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "docs.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store, err := docstore.NewSQLiteStore(db)
	require.NoError(t, err)

	adapter := library.NewAdapter(store)
	sessions := library.NewManager(adapter)
	t.Cleanup(sessions.CloseAll)

	return &testStack{
		adapter:  adapter,
		sessions: sessions,
		profiles: profile.NewService(store),
	}
}

// testIdentity injects a fixed user id, standing in for the cookie
// session middleware.
func testIdentity(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(auth.ContextKeyUserID, userID)
		}
		c.Next()
	}
}

func jsonRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func validRecord() entities.BookRecord {
	return entities.BookRecord{
		Title:   "Dune",
		Authors: []entities.Author{{Name: "Frank Herbert"}},
	}
}
