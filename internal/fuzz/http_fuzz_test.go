package fuzz

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/statlive/matchview-ui/internal/banner"
	"github.com/statlive/matchview-ui/internal/dal"
	"github.com/statlive/matchview-ui/internal/handlers"
	"github.com/statlive/matchview-ui/internal/logger"
	"github.com/statlive/matchview-ui/internal/pubsub"
	"github.com/statlive/matchview-ui/internal/session"
)

func init() {
	// Initialize logger for tests
	logger.Init()
}

// stubClock keeps banner timers inert so fuzz iterations leak nothing
type stubClock struct{}

type stubTimer struct{}

func (stubTimer) Stop() bool { return true }

func (stubClock) AfterFunc(time.Duration, func()) banner.Timer { return stubTimer{} }

func newAPI(t testing.TB) *handlers.APIHandlers {
	t.Helper()

	ps := pubsub.New()
	sessions, err := session.NewManager(ps, session.Options{
		Clock:          stubClock{},
		BannerPeriod:   30 * time.Second,
		BannerDuration: 5 * time.Second,
		TTL:            30 * time.Minute,
	})
	if err != nil {
		t.Fatalf("Failed to create session manager: %v", err)
	}
	t.Cleanup(sessions.Close)

	return handlers.NewAPIHandlers(dal.NewMemoryDAL(), sessions, ps, nil)
}

func post(api http.HandlerFunc, path, data string) {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	api(w, req)
}

// FuzzHTTPToggleBet fuzzes the bet toggle endpoint
func FuzzHTTPToggleBet(f *testing.F) {
	// Seed corpus with valid examples
	f.Add(`{"stat":"possession","type":"home"}`)
	f.Add(`{"stat":"shots","type":"draw"}`)
	f.Add(`{"stat":"invalid","type":"away"}`)
	f.Add(`{"stat":"","type":""}`)
	f.Add(`{"stat":123}`)

	f.Fuzz(func(t *testing.T, data string) {
		api := newAPI(t)

		// Should not panic - that's the main goal of fuzzing
		post(api.ToggleBet, "/api/bets/toggle", data)
	})
}

// FuzzHTTPExpandStat fuzzes the stat expand endpoint
func FuzzHTTPExpandStat(f *testing.F) {
	f.Add(`{"stat":"xG"}`)
	f.Add(`{"stat":"possession"}`)
	f.Add(`{"stat":"throwins"}`)
	f.Add(`{}`)

	f.Fuzz(func(t *testing.T, data string) {
		api := newAPI(t)

		post(api.ExpandStat, "/api/stat/expand", data)
	})
}

// FuzzHTTPSelectTab fuzzes the tab selection endpoint
func FuzzHTTPSelectTab(f *testing.F) {
	f.Add(`{"tab":"stats"}`)
	f.Add(`{"tab":"odds"}`)
	f.Add(`{"tab":"scores"}`)
	f.Add(`not json at all`)

	f.Fuzz(func(t *testing.T, data string) {
		api := newAPI(t)

		post(api.SelectTab, "/api/tab", data)
	})
}

// FuzzHTTPOpenReference fuzzes the reference popover endpoint
func FuzzHTTPOpenReference(f *testing.F) {
	f.Add(`{"id":1}`)
	f.Add(`{"id":4}`)
	f.Add(`{"id":-1}`)
	f.Add(`{"id":999999}`)
	f.Add(`{"id":"one"}`)

	f.Fuzz(func(t *testing.T, data string) {
		api := newAPI(t)

		post(api.OpenReference, "/api/reference/open", data)
	})
}

// FuzzHTTPOpenModal fuzzes the modal open endpoint
func FuzzHTTPOpenModal(f *testing.F) {
	f.Add(`{"modal":"methodology"}`)
	f.Add(`{"modal":"redcard"}`)
	f.Add(`{"modal":"goal"}`)
	f.Add(`{"modal":"settings"}`)

	f.Fuzz(func(t *testing.T, data string) {
		api := newAPI(t)

		post(api.OpenModal, "/api/modal/open", data)
	})
}
