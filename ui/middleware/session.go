package middleware

import (
	"crypto/sha256"
	"net/http"
	"time"

	"chicuadrado/domain/core"
	"chicuadrado/internal"
	"chicuadrado/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// CookieName is the name of the browser session cookie
const CookieName = "chicuadrado-session"

const (
	cookieKeyID = "sid"
	contextKey  = "session_id"
)

// SessionCookies signs the cookie that carries the server-side session id
type SessionCookies struct {
	store *sessions.CookieStore
}

// NewSessionCookies creates the cookie store. The secret can be any
// passphrase; it is SHA-256 hashed into the signing key.
func NewSessionCookies(secret string, ttl time.Duration, secure bool) *SessionCookies {
	key := sha256.Sum256([]byte(secret))

	store := sessions.NewCookieStore(key[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionCookies{store: store}
}

// EnsureSession resolves the request's session, creating one (and setting the
// cookie) when the cookie is missing, tampered with or points at an expired session
func EnsureSession(cookies *SessionCookies, store *session.Store, logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get returns a fresh session alongside the decode error for a bad cookie
		cookie, err := cookies.store.Get(c.Request, CookieName)
		if err != nil {
			logger.Debug("[EnsureSession] Ignoring unreadable session cookie: %v", err)
		}

		id, ok := existingSession(cookie, store)
		if !ok {
			id = store.Create().ID
			logger.Debug("[EnsureSession] Started session %s", id)
		}

		// the cookie expiry slides with the idle TTL
		cookie.Values[cookieKeyID] = id.String()
		if err := cookie.Save(c.Request, c.Writer); err != nil {
			logger.Error("[EnsureSession] Failed to save session cookie: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(contextKey, id)
		c.Next()
	}
}

func existingSession(cookie *sessions.Session, store *session.Store) (core.SessionID, bool) {
	raw, ok := cookie.Values[cookieKeyID].(string)
	if !ok {
		return "", false
	}
	id, err := core.ParseSessionID(raw)
	if err != nil {
		return "", false
	}
	if _, found := store.Get(id); !found {
		return "", false
	}
	return id, true
}

// SessionID returns the id EnsureSession attached to the request
func SessionID(c *gin.Context) (core.SessionID, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return "", false
	}
	id, ok := v.(core.SessionID)
	return id, ok
}
