// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  At start-up cmd/web calls
// Init(deps) on every component that implements Initializer, then mounts
// each component’s Routes() at its mount path.

package component

import (
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/interactive/internal/config"
	"github.com/yanizio/interactive/internal/form"
	"github.com/yanizio/interactive/internal/session"
)

// Deps exposes process-wide resources to Components during Init.
type Deps struct {
	Config   *config.Config
	Sessions *session.Store
	Tokens   *form.Tokens
	Log      *zap.SugaredLogger
}

// Initializer is optional.  If a Component implements it, the app calls
// Init(deps) once before mounting routes.
type Initializer interface {
	Init(Deps) error
}

// Mounter is optional.  Components that do not implement it are mounted at
// "/" + Name().
type Mounter interface {
	MountPath() string
}

// Component contract.
//
// Routes() should return paths relative to the mount point, e.g. the
// signup component mounted at /signup serves:
//
//	r := chi.NewRouter()
//	r.Post("/blur/{field}", blur)
//	r.Post("/submit", submit)
//	return r
type Component interface {
	Name() string
	Routes() chi.Router
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// Lookup returns the named component or nil.
func Lookup(name string) Component {
	mu.RLock()
	defer mu.RUnlock()
	return registry[name]
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// MountPath returns where c is mounted.
func MountPath(c Component) string {
	if m, ok := c.(Mounter); ok {
		return m.MountPath()
	}
	return "/" + c.Name()
}

// Mount initialises every registered component with deps and mounts its
// routes on r.
func Mount(r chi.Router, deps Deps) error {
	for _, c := range All() {
		if in, ok := c.(Initializer); ok {
			if err := in.Init(deps); err != nil {
				return err
			}
		}
		path := MountPath(c)
		r.Mount(path, c.Routes())
		if deps.Log != nil {
			deps.Log.Infow("component mounted", "component", c.Name(), "path", path)
		}
	}
	return nil
}
