package module

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/interactive/internal/core"
)

func TestRegistry(t *testing.T) {
	Register("/zz-test", func(c *core.Context, w http.ResponseWriter, _ *http.Request) {
		require.NotNil(t, c.Head)
		w.WriteHeader(http.StatusAccepted)
	})
	Register("/aa-test", func(*core.Context, http.ResponseWriter, *http.Request) {})

	h := Lookup("/zz-test")
	require.NotNil(t, h)
	assert.Nil(t, Lookup("/missing"))

	paths := Paths()
	assert.Subset(t, paths, []string{"/aa-test", "/zz-test"})
	assert.IsIncreasing(t, paths)

	rec := httptest.NewRecorder()
	HTTP(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/zz-test", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
