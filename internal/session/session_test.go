package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statlive/matchview-ui/internal/banner"
	"github.com/statlive/matchview-ui/internal/pubsub"
	"github.com/statlive/matchview-ui/internal/viewstate"
)

type stubClock struct{}

type stubTimer struct{}

func (stubTimer) Stop() bool { return true }

func (stubClock) AfterFunc(time.Duration, func()) banner.Timer { return stubTimer{} }

func newManager(t *testing.T, opts Options) (*Manager, *pubsub.PubSub) {
	t.Helper()

	ps := pubsub.New()
	if opts.Clock == nil {
		opts.Clock = stubClock{}
	}
	if opts.BannerPeriod == 0 {
		opts.BannerPeriod = 30 * time.Second
	}
	if opts.BannerDuration == 0 {
		opts.BannerDuration = 5 * time.Second
	}
	if opts.TTL == 0 {
		opts.TTL = 30 * time.Minute
	}

	m, err := NewManager(ps, opts)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m, ps
}

func TestGetCreatesSessionAndCookie(t *testing.T) {
	m, _ := newManager(t, Options{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/state", nil)

	sess := m.Get(w, r)
	require.NotNil(t, sess)
	assert.Equal(t, 1, m.Count())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, sess.ID, cookies[0].Value)

	// Fresh session starts with the initial view state
	view := sess.Snapshot()
	assert.Equal(t, viewstate.TabStats, view.Tab)
	assert.Empty(t, view.Selections)
}

func TestGetReusesExistingSession(t *testing.T) {
	m, _ := newManager(t, Options{})

	w := httptest.NewRecorder()
	first := m.Get(w, httptest.NewRequest(http.MethodGet, "/", nil))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: first.ID})

	second := m.Get(httptest.NewRecorder(), r)
	assert.Same(t, first, second)
	assert.Equal(t, 1, m.Count())
}

func TestGetWithStaleCookieCreatesNewSession(t *testing.T) {
	m, _ := newManager(t, Options{})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "sess_gone"})

	w := httptest.NewRecorder()
	sess := m.Get(w, r)
	assert.NotEqual(t, "sess_gone", sess.ID)
	require.Len(t, w.Result().Cookies(), 1, "stale cookie must be replaced")
}

func TestSessionCreationShowsBanner(t *testing.T) {
	m, ps := newManager(t, Options{})

	ch := ps.Subscribe()
	defer ps.Unsubscribe(ch)

	sess := m.Get(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	// The scheduler shows immediately on mount and publishes the banner
	select {
	case event := <-ch:
		assert.Equal(t, "banner:show", event.Type)
		assert.Equal(t, sess.ID, event.Session)
		assert.Equal(t, "Occasion dangereuse !", event.Payload["title"])
	case <-time.After(time.Second):
		t.Fatal("banner:show never published")
	}

	view := sess.Snapshot()
	assert.True(t, view.BannerVisible)
}

func TestEndStopsSession(t *testing.T) {
	m, _ := newManager(t, Options{})

	sess := m.Get(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, 1, m.Count())

	m.End(sess.ID)
	assert.Equal(t, 0, m.Count())

	// Ending twice is harmless
	m.End(sess.ID)
}

func TestSweepEndsIdleSessions(t *testing.T) {
	m, _ := newManager(t, Options{TTL: time.Nanosecond})

	m.Get(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, 1, m.Count())

	time.Sleep(10 * time.Millisecond)
	m.Sweep()
	assert.Equal(t, 0, m.Count())
}

func TestWithViewSerializesMutations(t *testing.T) {
	m, _ := newManager(t, Options{})
	sess := m.Get(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	err := sess.WithView(func(v *viewstate.ViewState) error {
		return v.SelectTab(viewstate.TabOdds)
	})
	require.NoError(t, err)

	assert.Equal(t, viewstate.TabOdds, sess.Snapshot().Tab)
}
