package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yanizio/interactive/internal/logger"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

func TestForceHTTPS(t *testing.T) {
	h := ForceHTTPS(true)(ok)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://example.com/a?b=1", nil))
	assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
	assert.Equal(t, "https://example.com/a?b=1", rec.Header().Get("Location"))

	for _, host := range []string{"localhost:8080", "127.0.0.1", "[::1]:8080"} {
		rec = httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Host = host
		h.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusTeapot, rec.Code, host)
	}

	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusTeapot, rec.Code)

	rec = httptest.NewRecorder()
	ForceHTTPS(false)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://example.com/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestSecurity(t *testing.T) {
	rec := httptest.NewRecorder()
	Security(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), ScriptCDN)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"), "no HSTS on plain http")

	rec = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.TLS = &tls.ConnectionState{}
	Security(ok).ServeHTTP(rec, r)
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var inner bool
	h := chimw.RequestID(AccessLog(zap.New(core).Sugar())(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			logger.FromContext(r.Context()).Debug("inside")
			inner = true
			w.WriteHeader(http.StatusCreated)
		})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/signup/submit", nil))
	require.True(t, inner)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "inside", entries[0].Message)
	assert.NotEmpty(t, entries[0].ContextMap()["req_id"])

	fields := entries[1].ContextMap()
	assert.Equal(t, "http request", entries[1].Message)
	assert.EqualValues(t, http.StatusCreated, fields["status"])
	assert.Equal(t, "/signup/submit", fields["path"])
}
