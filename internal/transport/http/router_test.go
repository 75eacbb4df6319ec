package http

import (
	"encoding/json"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tickettrack/internal/bootstrap"
	"tickettrack/internal/config"
	"tickettrack/internal/model"
	"tickettrack/internal/session"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Ticket{}, &model.TicketActivity{}))

	cfg := &config.Config{
		App: config.AppConfig{
			Name:    "tickettrack",
			Env:     "dev",
			GinMode: gin.TestMode,
		},
		Session: config.SessionConfig{
			CookieName:      "session",
			LifetimeSeconds: 3600,
		},
	}

	app := &bootstrap.App{
		Config:       cfg,
		DB:           db,
		SessionStore: session.NewMemoryStore(time.Hour),
		StartedAt:    time.Now(),
	}
	return NewRouter(app)
}

func doJSON(router *gin.Engine, method, path, body string, cookies ...*nethttp.Cookie) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func registerAndLogin(t *testing.T, router *gin.Engine) *nethttp.Cookie {
	t.Helper()

	rec := doJSON(router, "POST", "/api/users/register",
		`{"name":"Ada","email":"ada@example.com","password":"sup3rSecret"}`)
	require.Equal(t, 201, rec.Code, rec.Body.String())

	rec = doJSON(router, "POST", "/api/users/login",
		`{"email":"ada@example.com","password":"sup3rSecret"}`)
	require.Equal(t, 200, rec.Code, rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session" && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("login response did not set a session cookie")
	return nil
}

func TestRegisterValidationDetails(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, "POST", "/api/users/register",
		`{"name":"","email":"bad","password":"short"}`)
	require.Equal(t, 400, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Validation failed.", body["error"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, "POST", "/api/users/register",
		`{"name":"Ada","email":"A@x.com","password":"sup3rSecret"}`)
	require.Equal(t, 201, rec.Code)

	rec = doJSON(router, "POST", "/api/users/register",
		`{"name":"Imposter","email":"a@x.com","password":"sup3rSecret"}`)
	require.Equal(t, 400, rec.Code)
	details := decodeBody(t, rec)["details"].(map[string]any)
	assert.Equal(t, "Email is already registered.", details["email"])
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	router := newTestRouter(t)
	registerAndLogin(t, router)

	wrongPassword := doJSON(router, "POST", "/api/users/login",
		`{"email":"ada@example.com","password":"wrongPass1"}`)
	unknownEmail := doJSON(router, "POST", "/api/users/login",
		`{"email":"nobody@example.com","password":"sup3rSecret"}`)

	require.Equal(t, 401, wrongPassword.Code)
	require.Equal(t, 401, unknownEmail.Code)
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestLoginRequiresCredentials(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, "POST", "/api/users/login", `{"email":"","password":""}`)
	require.Equal(t, 400, rec.Code)
	assert.Equal(t, "Email and password are required.", decodeBody(t, rec)["error"])
}

func TestMalformedJSONIsBadRequest(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, "POST", "/api/users/register", `{"name":`)
	require.Equal(t, 400, rec.Code)
	assert.Equal(t, "Invalid JSON body.", decodeBody(t, rec)["error"])
}

func TestGuardRejectsUnauthenticated(t *testing.T) {
	router := newTestRouter(t)

	endpoints := []struct{ method, path, body string }{
		{"GET", "/api/tickets", ""},
		{"POST", "/api/tickets", `{"name":"T1"}`},
		{"PUT", "/api/tickets/1", `{"status":"Closed"}`},
		{"DELETE", "/api/tickets/1", ""},
		{"GET", "/api/tickets/1/activity", ""},
		{"PUT", "/api/users/update", `{"name":"X"}`},
		{"GET", "/api/users/session", ""},
	}
	for _, ep := range endpoints {
		rec := doJSON(router, ep.method, ep.path, ep.body)
		assert.Equalf(t, 401, rec.Code, "%s %s", ep.method, ep.path)
	}

	// The rejected create must not have persisted anything.
	cookie := registerAndLogin(t, router)
	rec := doJSON(router, "GET", "/api/tickets", "", cookie)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestGuardRejectsForgedCookie(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(router, "GET", "/api/tickets", "",
		&nethttp.Cookie{Name: "session", Value: "forged-session-id"})
	assert.Equal(t, 401, rec.Code)
}

func TestTicketRoundTrip(t *testing.T) {
	router := newTestRouter(t)
	cookie := registerAndLogin(t, router)

	rec := doJSON(router, "POST", "/api/tickets",
		`{"name":"T1","description":"D"}`, cookie)
	require.Equal(t, 201, rec.Code, rec.Body.String())

	created := decodeBody(t, rec)
	assert.Equal(t, "T1", created["name"])
	assert.Equal(t, "D", created["description"])
	assert.Equal(t, "To be done", created["status"])
	assert.Equal(t, "Low", created["priority"])
	assert.Nil(t, created["due_date"])
	assert.Nil(t, created["author_id"])
	require.NotNil(t, created["created_at"])

	createdAt, err := time.Parse("2006-01-02 15:04:05", created["created_at"].(string))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), createdAt, 5*time.Second)

	rec = doJSON(router, "GET", "/api/tickets", "", cookie)
	require.Equal(t, 200, rec.Code)

	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, created, listed[0])
}

func TestTicketPartialUpdate(t *testing.T) {
	router := newTestRouter(t)
	cookie := registerAndLogin(t, router)

	rec := doJSON(router, "POST", "/api/tickets",
		`{"name":"T1","description":"D","due_date":"2026-09-01","priority":"High"}`, cookie)
	require.Equal(t, 201, rec.Code)
	created := decodeBody(t, rec)
	id := int(created["id"].(float64))

	rec = doJSON(router, "PUT", fmt.Sprintf("/api/tickets/%d", id),
		`{"status":"Closed"}`, cookie)
	require.Equal(t, 200, rec.Code, rec.Body.String())

	updated := decodeBody(t, rec)
	assert.Equal(t, "Closed", updated["status"])
	assert.Equal(t, "T1", updated["name"])
	assert.Equal(t, "D", updated["description"])
	assert.Equal(t, "High", updated["priority"])
	assert.Equal(t, "2026-09-01", updated["due_date"])
	assert.Equal(t, created["created_at"], updated["created_at"])
}

func TestTicketInvalidDueDate(t *testing.T) {
	router := newTestRouter(t)
	cookie := registerAndLogin(t, router)

	rec := doJSON(router, "POST", "/api/tickets",
		`{"name":"T1","due_date":"09/01/2026"}`, cookie)
	assert.Equal(t, 400, rec.Code)
}

func TestTicketDeleteThenGone(t *testing.T) {
	router := newTestRouter(t)
	cookie := registerAndLogin(t, router)

	rec := doJSON(router, "POST", "/api/tickets", `{"name":"T1"}`, cookie)
	require.Equal(t, 201, rec.Code)
	id := int(decodeBody(t, rec)["id"].(float64))

	path := fmt.Sprintf("/api/tickets/%d", id)
	rec = doJSON(router, "DELETE", path, "", cookie)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "Ticket deleted successfully.", decodeBody(t, rec)["message"])

	assert.Equal(t, 404, doJSON(router, "PUT", path, `{"status":"Closed"}`, cookie).Code)
	assert.Equal(t, 404, doJSON(router, "DELETE", path, "", cookie).Code)
	assert.Equal(t, 404, doJSON(router, "GET", path+"/activity", "", cookie).Code)
}

func TestSessionEndpoint(t *testing.T) {
	router := newTestRouter(t)
	cookie := registerAndLogin(t, router)

	rec := doJSON(router, "GET", "/api/users/session", "", cookie)
	require.Equal(t, 200, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Ada", body["name"])
	assert.Equal(t, "ada@example.com", body["email"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestProfileUpdate(t *testing.T) {
	router := newTestRouter(t)
	cookie := registerAndLogin(t, router)

	rec := doJSON(router, "PUT", "/api/users/update", `{"name":"Renamed"}`, cookie)
	require.Equal(t, 200, rec.Code, rec.Body.String())

	rec = doJSON(router, "GET", "/api/users/session", "", cookie)
	require.Equal(t, 200, rec.Code)
	assert.Equal(t, "Renamed", decodeBody(t, rec)["name"])

	rec = doJSON(router, "PUT", "/api/users/update", `{"password":"short"}`, cookie)
	assert.Equal(t, 400, rec.Code)
}

func TestLogoutIsIdempotent(t *testing.T) {
	router := newTestRouter(t)
	cookie := registerAndLogin(t, router)

	first := doJSON(router, "POST", "/api/users/logout", "", cookie)
	second := doJSON(router, "POST", "/api/users/logout", "", cookie)
	assert.Equal(t, 200, first.Code)
	assert.Equal(t, 200, second.Code)

	// The session is gone server-side.
	rec := doJSON(router, "GET", "/api/users/session", "", cookie)
	assert.Equal(t, 401, rec.Code)

	// And the cookie was told to expire.
	var cleared bool
	for _, c := range first.Result().Cookies() {
		if c.Name == "session" && c.Value == "" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "logout should invalidate the session cookie")
}

func TestPasswordResetEndpoints(t *testing.T) {
	router := newTestRouter(t)
	registerAndLogin(t, router)

	rec := doJSON(router, "POST", "/api/users/password/forgot",
		`{"email":"ada@example.com"}`)
	require.Equal(t, 200, rec.Code)

	unknown := doJSON(router, "POST", "/api/users/password/forgot",
		`{"email":"nobody@example.com"}`)
	require.Equal(t, 200, unknown.Code)
	assert.Equal(t, rec.Body.String(), unknown.Body.String())

	rec = doJSON(router, "POST", "/api/users/password/reset",
		`{"token":"bogus","password":"fresh1Password"}`)
	assert.Equal(t, 400, rec.Code)
}
