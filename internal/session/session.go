// Package session owns the per-visit screen state. Each browser session
// maps to one Session holding the view state of the match stats screen and
// the banner scheduler that animates its transient notification. Sessions
// end explicitly (the page reports leaving) or through the janitor once
// idle past the configured TTL; ending a session cancels its timers.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/statlive/matchview-ui/internal/banner"
	"github.com/statlive/matchview-ui/internal/content"
	"github.com/statlive/matchview-ui/internal/logger"
	"github.com/statlive/matchview-ui/internal/models"
	"github.com/statlive/matchview-ui/internal/pubsub"
	"github.com/statlive/matchview-ui/internal/viewstate"
)

// CookieName carries the session id between requests
const CookieName = "mv_session"

// Session is one mounted match stats screen
type Session struct {
	ID string

	mu       sync.Mutex
	view     *viewstate.ViewState
	banner   *banner.Scheduler
	lastSeen time.Time
}

// WithView runs fn with the session's view state under the session lock.
// All mutations go through here, which serializes them the way a UI event
// queue would.
func (s *Session) WithView(fn func(v *viewstate.ViewState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return fn(s.view)
}

// Snapshot returns a copy of the current view state
func (s *Session) Snapshot() viewstate.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := *s.view
	snap.Selections = append([]models.Selection(nil), s.view.Selections...)
	return snap
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Options configures the session manager
type Options struct {
	Clock           banner.Clock
	BannerPeriod    time.Duration
	BannerDuration  time.Duration
	TTL             time.Duration
	JanitorSchedule string // cron spec; empty disables the janitor (tests)
}

// Manager creates, looks up and ends sessions
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ps   *pubsub.PubSub
	opts Options
	cron *cron.Cron
}

// NewManager creates a session manager. With a janitor schedule set, a cron
// job periodically ends sessions idle past the TTL.
func NewManager(ps *pubsub.PubSub, opts Options) (*Manager, error) {
	if opts.Clock == nil {
		opts.Clock = banner.RealClock()
	}
	m := &Manager{
		sessions: make(map[string]*Session),
		ps:       ps,
		opts:     opts,
	}

	if opts.JanitorSchedule != "" {
		m.cron = cron.New()
		if _, err := m.cron.AddFunc(opts.JanitorSchedule, m.Sweep); err != nil {
			return nil, fmt.Errorf("failed to schedule session janitor: %w", err)
		}
		m.cron.Start()
	}

	return m, nil
}

// Get returns the request's session, creating one (and setting the cookie)
// on first contact. Creation is the screen mount: the banner scheduler
// starts immediately.
func (m *Manager) Get(w http.ResponseWriter, r *http.Request) *Session {
	if cookie, err := r.Cookie(CookieName); err == nil {
		if sess, ok := m.Lookup(cookie.Value); ok {
			sess.touch()
			return sess
		}
	}

	sess := m.create()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// Lookup finds an existing session by id
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

func (m *Manager) create() *Session {
	sess := &Session{
		ID:       genID("sess"),
		view:     viewstate.New(),
		lastSeen: time.Now(),
	}

	notice := content.HighlightBanner()
	onShow := func() {
		sess.mu.Lock()
		sess.view.ShowBanner()
		sess.mu.Unlock()
		m.ps.Publish(pubsub.Event{
			Type:    "banner:show",
			Session: sess.ID,
			Payload: map[string]interface{}{
				"title":   notice.Title,
				"message": notice.Message,
			},
		})
	}
	onHide := func() {
		sess.mu.Lock()
		sess.view.HideBanner()
		sess.mu.Unlock()
		m.ps.Publish(pubsub.Event{Type: "banner:hide", Session: sess.ID})
	}

	sched, err := banner.NewScheduler(m.opts.Clock, m.opts.BannerPeriod, m.opts.BannerDuration, onShow, onHide)
	if err != nil {
		// Config validation already enforced period >= duration; reaching
		// here means the manager was built with inconsistent options
		logger.Error("Failed to create banner scheduler", "error", err)
	} else {
		sess.banner = sched
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	total := len(m.sessions)
	m.mu.Unlock()

	logger.Debug("Session created", "session", sess.ID, "total_sessions", total)

	if sess.banner != nil {
		sess.banner.Start()
	}
	return sess
}

// End stops the session's timers and removes it. Idempotent.
func (m *Manager) End(id string) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	if sess.banner != nil {
		sess.banner.Stop()
	}
	logger.Debug("Session ended", "session", id)
}

// Sweep ends every session idle past the TTL
func (m *Manager) Sweep() {
	cutoff := time.Now().Add(-m.opts.TTL)

	m.mu.RLock()
	var stale []string
	for id, sess := range m.sessions {
		if sess.idleSince().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		m.End(id)
	}
	if len(stale) > 0 {
		logger.Info("Session janitor swept idle sessions", "count", len(stale))
	}
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the janitor and ends every session
func (m *Manager) Close() {
	if m.cron != nil {
		m.cron.Stop()
	}

	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.End(id)
	}
}

func genID(prefix string) string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}
