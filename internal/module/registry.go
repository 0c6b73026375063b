// internal/module/registry.go
//
// A super-light registry: modules call Register(path, handler) in an init()
// function.  cmd/web mounts every registered path exactly (no wildcards)
// on the root router.  Modules are for small operational endpoints such as
// /healthz and /debug; anything with its own sub-routes is a Component.
//
// Handler signature:
//
//	func(ctx *core.Context, w http.ResponseWriter, r *http.Request)
//
// This gives handlers the per-request Context (request info, session, head
// builder) without rebuilding it themselves.
package module

import (
	"net/http"
	"sort"
	"sync"

	"github.com/yanizio/interactive/internal/core"
)

// Handler is what modules register.
type Handler func(*core.Context, http.ResponseWriter, *http.Request)

var (
	mu       sync.RWMutex
	registry = map[string]Handler{}
)

// Register is called from module init() functions.
func Register(path string, h Handler) {
	mu.Lock()
	registry[path] = h
	mu.Unlock()
}

// Lookup returns the handler for an exact path or nil.
func Lookup(path string) Handler {
	mu.RLock()
	defer mu.RUnlock()
	return registry[path]
}

// Paths lists the registered paths in sorted order.
func Paths() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for p := range registry {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// HTTP adapts h to http.Handler, building the core.Context per request.
func HTTP(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h(core.NewContext(w, r), w, r)
	})
}
