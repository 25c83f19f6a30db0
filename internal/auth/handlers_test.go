package auth

import (
	"bytes"
	"context"
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

	"github.com/mlobanov/bookshelf/internal/config"
)

type recordingBootstrapper struct {
	userIDs []string
}

func (b *recordingBootstrapper) Bootstrap(_ context.Context, userID, _ string) error {
	b.userIDs = append(b.userIDs, userID)
	return nil
}

func setupAuthRouter(t *testing.T) (*gin.Engine, *recordingBootstrapper, *[]string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := setupService(t)

	sqlDB, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	sm, err := NewSessionManager(sqlDB, config.Auth{SessionLifetime: time.Hour})
	require.NoError(t, err)

	bootstrapper := &recordingBootstrapper{}
	signedOut := []string{}
	controller := NewController(service, sm, bootstrapper, func(userID string) {
		signedOut = append(signedOut, userID)
	})

	router := gin.New()
	router.Use(sm.SessionLoadSave())
	router.Use(IdentityMiddleware(sm))
	controller.RegisterRoutes(router)
	return router, bootstrapper, &signedOut
}

func authRequest(t *testing.T, router *gin.Engine, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest("POST", path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterBootstrapsProfileAndSignsIn(t *testing.T) {
	router, bootstrapper, _ := setupAuthRouter(t)

	w := authRequest(t, router, "/api/auth/register", gin.H{
		"username": "reader",
		"email":    "reader@example.com",
		"password": "correct horse battery staple",
	}, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "reader", resp.Username)
	assert.NotEmpty(t, resp.UserID)

	require.Len(t, bootstrapper.userIDs, 1)
	assert.Equal(t, resp.UserID, bootstrapper.userIDs[0])
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	body := gin.H{
		"username": "reader",
		"email":    "reader@example.com",
		"password": "correct horse battery staple",
	}
	require.Equal(t, http.StatusCreated, authRequest(t, router, "/api/auth/register", body, nil).Code)
	assert.Equal(t, http.StatusConflict, authRequest(t, router, "/api/auth/register", body, nil).Code)
}

func TestLogin(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	require.Equal(t, http.StatusCreated, authRequest(t, router, "/api/auth/register", gin.H{
		"username": "reader",
		"email":    "reader@example.com",
		"password": "correct horse battery staple",
	}, nil).Code)

	w := authRequest(t, router, "/api/auth/login", gin.H{
		"login":    "reader@example.com",
		"password": "correct horse battery staple",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = authRequest(t, router, "/api/auth/login", gin.H{
		"login":    "reader",
		"password": "wrong horse battery staple",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutTearsDownLibrarySession(t *testing.T) {
	router, _, signedOut := setupAuthRouter(t)

	registered := authRequest(t, router, "/api/auth/register", gin.H{
		"username": "reader",
		"email":    "reader@example.com",
		"password": "correct horse battery staple",
	}, nil)
	require.Equal(t, http.StatusCreated, registered.Code)

	var resp sessionResponse
	require.NoError(t, json.Unmarshal(registered.Body.Bytes(), &resp))

	w := authRequest(t, router, "/api/auth/logout", gin.H{}, registered.Result().Cookies())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{resp.UserID}, *signedOut)
}
