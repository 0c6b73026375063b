// internal/widget/registry.go
//
// Widget registry and lookup helpers.
//
// A **Widget** is a reusable view fragment rendered inside a page.  Each
// concrete widget lives under its Component folder
// (`components/<comp>/widgets/<name>.go`) and registers itself by calling
// `widget.Register(&MyWidget{})` in an init() func.
//
// The key used for registration is `<component>/<widget>`, e.g.
// "signup/form", and must be returned by the widget’s `ID` method.
//
// Template authors can embed a widget with:
//
//	{{ widget "play/counter" (dict "title" "Counter") }}
//
// Params are optional.  The helper looks up the widget, invokes
// `Render`, and returns `template.HTML`.  htmx handlers render the same
// widget on its own to produce the swapped fragment, so a widget is the
// single source of markup for its region of the page.
package widget

import (
	"html/template"
	"sort"
	"sync"
)

// Widget represents a view fragment that can be embedded inside any page
// template.  Params are an arbitrary key‑value map passed from the
// template.
//
// Implementations should treat missing params defensively (nil map).
// Errors should be returned, not written to http.ResponseWriter, so the
// calling helper can decide how to surface the failure.
//
// Render MUST be concurrency‑safe; multiple goroutines may call it.
type Widget interface {
	ID() string
	Render(rctx any, params map[string]any) (template.HTML, error)
}

var (
	mu       sync.RWMutex
	registry = map[string]Widget{}
)

// Register a widget during init().  If a duplicate key is registered the
// latter entry overwrites the former.
func Register(w Widget) {
	mu.Lock()
	registry[w.ID()] = w
	mu.Unlock()
}

// Lookup returns the widget or nil.
func Lookup(key string) Widget {
	mu.RLock()
	defer mu.RUnlock()
	return registry[key]
}

// All returns every widget sorted by ID, useful for tests or
// auto‑documentation.
func All() []Widget {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Widget, 0, len(registry))
	for _, w := range registry {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
