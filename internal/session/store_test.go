package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/yanizio/interactive/internal/form"
	"github.com/yanizio/interactive/internal/interact"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const signupYAML = `
id: test/signup
title: Sign up
fields:
  - name: name
    label: Name
    type: text
    rule: name
  - name: email
    label: Email
    type: email
    rule: email
`

func testBuilder(t *testing.T) BuildFunc {
	t.Helper()
	fd, err := form.ParseFormDef([]byte(signupYAML), "inline")
	require.NoError(t, err)
	return Builder(fd, []interact.FAQItem{{Question: "Q", Answer: "A"}})
}

// newTestStore returns a store with a long evict interval so sweeps only
// run when the test calls sweep directly.
func newTestStore(t *testing.T, build BuildFunc, opts Options) *Store {
	t.Helper()
	if opts.EvictInterval == 0 {
		opts.EvictInterval = time.Hour
	}
	s := New(build, opts, zap.NewNop().Sugar())
	var n atomic.Int64
	s.newID = func() string { return "id-" + strconv.FormatInt(n.Add(1), 10) }
	t.Cleanup(s.Close)
	return s
}

func TestStore_GetCreatesAndReuses(t *testing.T) {
	s := newTestStore(t, testBuilder(t), Options{})

	a, created, err := s.Get("")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "id-1", a.ID)
	assert.True(t, a.Page.Has("email"))
	require.NotNil(t, a.State.FAQ)
	assert.Equal(t, 1, a.State.FAQ.Len())

	b, created, err := s.Get(a.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, a, b)

	c, created, err := s.Get("forged")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, "forged", c.ID, "client ids are never adopted")
	assert.Equal(t, 2, s.Len())
}

func TestStore_BoundController(t *testing.T) {
	s := newTestStore(t, testBuilder(t), Options{})
	sess, _, err := s.Get("")
	require.NoError(t, err)

	sess.Page.SetValue("name", "X")
	assert.True(t, sess.Page.Dispatch(form.EventBlur, "name"))
	assert.NotEmpty(t, sess.Page.Error("name"))
}

// gatedBuilder blocks every build until release is closed and counts
// builds as they start.
func gatedBuilder(t *testing.T, builds *atomic.Int64, release <-chan struct{}) BuildFunc {
	inner := testBuilder(t)
	return func(id string) (*Session, error) {
		builds.Add(1)
		<-release
		return inner(id)
	}
}

func TestStore_StaleIDSharesOneBuild(t *testing.T) {
	var builds, started atomic.Int64
	release := make(chan struct{})
	s := newTestStore(t, gatedBuilder(t, &builds, release), Options{})

	const n = 8
	var wg sync.WaitGroup
	got := make([]*Session, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started.Add(1)
			got[i], _, _ = s.Get("stale")
		}(i)
	}
	require.Eventually(t, func() bool { return started.Load() == n && builds.Load() == 1 },
		time.Second, time.Millisecond)
	// Let the remaining callers join the in-flight build.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), builds.Load())
	assert.Equal(t, 1, s.Len())
	for _, g := range got {
		require.NotNil(t, g)
		assert.Same(t, got[0], g)
	}
	assert.NotEqual(t, "stale", got[0].ID)
}

func TestStore_FirstVisitsNeverShare(t *testing.T) {
	var builds atomic.Int64
	release := make(chan struct{})
	s := newTestStore(t, gatedBuilder(t, &builds, release), Options{})

	var wg sync.WaitGroup
	got := make([]*Session, 2)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _, _ = s.Get("")
		}(i)
	}
	// Both builds must be in flight at once.
	require.Eventually(t, func() bool { return builds.Load() == 2 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	require.NotNil(t, got[0])
	require.NotNil(t, got[1])
	assert.NotSame(t, got[0], got[1])
	assert.NotEqual(t, got[0].ID, got[1].ID)
	assert.Equal(t, 2, s.Len())
}

func TestMiddleware_ConcurrentFirstVisitsGetOwnCookies(t *testing.T) {
	var builds atomic.Int64
	release := make(chan struct{})
	s := newTestStore(t, gatedBuilder(t, &builds, release), Options{})
	h := Middleware(s)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	var wg sync.WaitGroup
	recs := []*httptest.ResponseRecorder{httptest.NewRecorder(), httptest.NewRecorder()}
	for _, rec := range recs {
		wg.Add(1)
		go func(rec *httptest.ResponseRecorder) {
			defer wg.Done()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		}(rec)
	}
	require.Eventually(t, func() bool { return builds.Load() == 2 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	a, b := recs[0].Result().Cookies(), recs[1].Result().Cookies()
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.NotEqual(t, a[0].Value, b[0].Value)
}

func TestStore_BuildError(t *testing.T) {
	boom := errors.New("boom")
	s := newTestStore(t, func(string) (*Session, error) { return nil, boom }, Options{})
	_, _, err := s.Get("")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, s.Len())
}

func TestStore_SweepIdle(t *testing.T) {
	s := newTestStore(t, testBuilder(t), Options{IdleTTL: time.Minute})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	old, _, _ := s.Get("")
	s.now = func() time.Time { return base.Add(50 * time.Second) }
	fresh, _, _ := s.Get("")

	s.now = func() time.Time { return base.Add(90 * time.Second) }
	s.sweep()

	_, ok := s.Lookup(old.ID)
	assert.False(t, ok, "idle session evicted")
	_, ok = s.Lookup(fresh.ID)
	assert.True(t, ok)
}

func TestStore_SweepLRU(t *testing.T) {
	s := newTestStore(t, testBuilder(t), Options{MaxEntries: 2})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 4; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		s.now = func() time.Time { return at }
		sess, _, err := s.Get("")
		require.NoError(t, err)
		ids = append(ids, sess.ID)
	}
	// Touch the oldest so it survives.
	s.now = func() time.Time { return base.Add(10 * time.Second) }
	_, _, _ = s.Get(ids[0])

	s.sweep()
	assert.Equal(t, 2, s.Len())
	for _, id := range []string{ids[0], ids[3]} {
		_, ok := s.Lookup(id)
		assert.True(t, ok, id)
	}
}

func TestStore_CloseIdempotent(t *testing.T) {
	s := New(testBuilder(t), Options{EvictInterval: time.Millisecond}, zap.NewNop().Sugar())
	time.Sleep(5 * time.Millisecond)
	s.Close()
	s.Close()
	_, _, err := s.Get("")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMiddleware_Cookie(t *testing.T) {
	s := newTestStore(t, testBuilder(t), Options{})
	var seen *Session
	h := Middleware(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotNil(t, seen)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, seen.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	first := seen
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Same(t, first, seen)
	assert.Empty(t, rec.Result().Cookies(), "no cookie rewrite for known id")
}

func TestFromContext_Missing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, FromContext(r.Context()))
}
