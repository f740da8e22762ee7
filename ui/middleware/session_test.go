package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chicuadrado/domain/core"
	"chicuadrado/internal"
	"chicuadrado/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionRouter(store *session.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cookies := NewSessionCookies("test-secret", time.Hour, false)

	r := gin.New()
	r.Use(EnsureSession(cookies, store, internal.NewNopLogger()))
	r.GET("/", func(c *gin.Context) {
		id, ok := SessionID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.String())
	})
	return r
}

func doGet(r http.Handler, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", CookieName)
	return nil
}

func TestEnsureSession_CreatesAndReuses(t *testing.T) {
	store := session.NewStore(session.StoreConfig{TTL: time.Hour}, internal.NewNopLogger())
	r := newSessionRouter(store)

	first := doGet(r)
	require.Equal(t, http.StatusOK, first.Code)
	cookie := sessionCookie(t, first)
	assert.True(t, cookie.HttpOnly)
	_, err := core.ParseSessionID(first.Body.String())
	require.NoError(t, err)

	second := doGet(r, cookie)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, store.Len())
}

func TestEnsureSession_TamperedCookieStartsOver(t *testing.T) {
	store := session.NewStore(session.StoreConfig{TTL: time.Hour}, internal.NewNopLogger())
	r := newSessionRouter(store)

	first := doGet(r)
	cookie := sessionCookie(t, first)
	cookie.Value = "x" + cookie.Value

	second := doGet(r, cookie)
	require.Equal(t, http.StatusOK, second.Code)
	assert.NotEqual(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 2, store.Len())
}

func TestEnsureSession_ExpiredSessionStartsOver(t *testing.T) {
	store := session.NewStore(session.StoreConfig{TTL: time.Nanosecond}, internal.NewNopLogger())
	r := newSessionRouter(store)

	first := doGet(r)
	_, err := core.ParseSessionID(first.Body.String())
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	second := doGet(r, sessionCookie(t, first))
	assert.NotEqual(t, first.Body.String(), second.Body.String())
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, logger := range []*internal.Logger{nil, internal.NewNopLogger()} {
		r := gin.New()
		r.Use(RequestLogger(logger))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

		assert.Equal(t, http.StatusTeapot, doGet(r).Code)
	}
}
