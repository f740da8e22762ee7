// Package session keeps per-browser state on the server.
//
// The browser only ever holds a session id; the uploaded dataset and the
// current selections live in a Store and expire after an idle TTL.
package session

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"chicuadrado/domain/core"
	"chicuadrado/domain/dataset"
	"chicuadrado/domain/stats"
	"chicuadrado/internal"
	"chicuadrado/internal/errors"
)

// Theme is the cosmetic page theme
type Theme string

const (
	ThemeLight Theme = "Claro"
	ThemeDark  Theme = "Oscuro"
)

// ParseTheme returns the theme named s, defaulting to light
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), string(ThemeDark)) {
		return ThemeDark
	}
	return ThemeLight
}

// CSSClass returns the body class for the theme
func (t Theme) CSSClass() string {
	if t == ThemeDark {
		return "theme-dark"
	}
	return "theme-light"
}

// Selection is the user's current choice of test and inputs.
// AlphaText is kept as typed so an invalid value can be shown back.
type Selection struct {
	Kind      stats.TestKind `json:"kind"`
	Var1      string         `json:"var1"`
	Var2      string         `json:"var2"`
	Expected  string         `json:"expected"`
	AlphaText string         `json:"alpha"`
}

// Session is one browser's state
type Session struct {
	ID        core.SessionID
	Dataset   *dataset.Dataset
	FileName  string
	Selection Selection
	Theme     Theme
	Flash     string // one-shot message shown on the next page render
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasDataset reports whether a file has been uploaded
func (s Session) HasDataset() bool {
	return s.Dataset != nil
}

// StoreConfig configures a Store
type StoreConfig struct {
	TTL          time.Duration
	DefaultAlpha float64
}

// Store is an in-memory, TTL-bounded session map safe for concurrent use
type Store struct {
	mu       sync.Mutex
	sessions map[core.SessionID]*Session
	config   StoreConfig
	now      func() time.Time
	logger   *internal.Logger
}

// NewStore creates an empty store
func NewStore(config StoreConfig, logger *internal.Logger) *Store {
	if config.TTL <= 0 {
		config.TTL = 2 * time.Hour
	}
	if config.DefaultAlpha <= 0 || config.DefaultAlpha >= 1 {
		config.DefaultAlpha = 0.05
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Store{
		sessions: make(map[core.SessionID]*Session),
		config:   config,
		now:      time.Now,
		logger:   logger,
	}
}

// DefaultSelection is the selection of a fresh session
func (s *Store) DefaultSelection() Selection {
	return Selection{
		Kind:      stats.KindIndependence,
		AlphaText: strconv.FormatFloat(s.config.DefaultAlpha, 'g', -1, 64),
	}
}

// Create starts a new empty session
func (s *Store) Create() Session {
	now := s.now()
	sess := &Session{
		ID:        core.SessionID(core.NewID()),
		Selection: s.DefaultSelection(),
		Theme:     ThemeLight,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("[Session] Created %s", sess.ID)
	return *sess
}

// Get returns a snapshot of the session and refreshes its idle timer.
// Expired sessions are removed and reported as absent.
func (s *Store) Get(id core.SessionID) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return Session{}, false
	}
	sess.UpdatedAt = now
	return *sess, true
}

// Update applies fn to the session under the store lock and returns the result
func (s *Store) Update(id core.SessionID, fn func(*Session)) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || s.expired(sess, s.now()) {
		delete(s.sessions, id)
		return Session{}, errors.NotFound("session " + id.String())
	}
	fn(sess)
	sess.ID = id
	sess.UpdatedAt = s.now()
	return *sess, nil
}

// TakeFlash returns and clears the session's pending message
func (s *Store) TakeFlash(id core.SessionID) string {
	var flash string
	_, _ = s.Update(id, func(sess *Session) {
		flash = sess.Flash
		sess.Flash = ""
	})
	return flash
}

// Reset clears the dataset and selections but keeps the theme
func (s *Store) Reset(id core.SessionID) (Session, error) {
	defaults := s.DefaultSelection()
	return s.Update(id, func(sess *Session) {
		sess.Dataset = nil
		sess.FileName = ""
		sess.Selection = defaults
	})
}

// Len returns the number of sessions held, expired or not
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CleanupExpired drops every session idle for longer than the TTL
func (s *Store) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("[Session] Expired %d idle sessions", removed)
	}
	return removed
}

// StartJanitor runs CleanupExpired every interval until ctx is done
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired()
			}
		}
	}()
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return now.Sub(sess.UpdatedAt) > s.config.TTL
}
