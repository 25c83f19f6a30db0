package http

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlobanov/bookshelf/internal/auth"
	"github.com/mlobanov/bookshelf/internal/config"
)

func setupPreferencesRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	sm, err := auth.NewSessionManager(sqlDB, config.Auth{SessionLifetime: time.Hour})
	require.NoError(t, err)

	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.Use(testIdentity(testUserID))
	controller := NewPreferencesController(sm)
	router.GET("/api/preferences/library-path", controller.GetLibraryPath)
	router.PUT("/api/preferences/library-path", controller.SetLibraryPath)
	return router
}

func preferencesRequest(t *testing.T, router *gin.Engine, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req, err := http.NewRequest(method, path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLibraryPathDefault(t *testing.T) {
	router := setupPreferencesRouter(t)

	w := preferencesRequest(t, router, "GET", "/api/preferences/library-path", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/library", decodeBody(t, w)["library_path"])
}

func TestLibraryPathRoundTrip(t *testing.T) {
	router := setupPreferencesRouter(t)

	put := preferencesRequest(t, router, "PUT", "/api/preferences/library-path",
		gin.H{"library_path": "/public-library/owner-id"}, nil)
	require.Equal(t, http.StatusOK, put.Code)

	// The preference survives into the next request via the session cookie.
	get := preferencesRequest(t, router, "GET", "/api/preferences/library-path", nil,
		put.Result().Cookies())
	assert.Equal(t, "/public-library/owner-id", decodeBody(t, get)["library_path"])
}

func TestLibraryPathValidation(t *testing.T) {
	router := setupPreferencesRouter(t)

	for _, path := range []string{"", "/elsewhere", "/public-library/"} {
		w := preferencesRequest(t, router, "PUT", "/api/preferences/library-path",
			gin.H{"library_path": path}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "path %q", path)
	}
}
