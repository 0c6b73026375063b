// internal/view/render.go
//
// Central view engine: per-component template sets, func-map injection,
// and widget embedding.
//
// Public helpers
// --------------
//   - Register       – parse a component's embedded templates at init().
//   - Render         – write rendered HTML to an http.ResponseWriter.
//   - RenderToString – return template.HTML (widgets, htmx fragments).
//
// Every component embeds `templates/*.html` and hands the filesystem to
// Register under its name.  All templates of a component are parsed as one
// set so sub-templates ({{ template "row" . }}) work out-of-the-box.
//
// Template selection
// ------------------
//   • execName() chooses the best template to execute:
//       – If the set defines "<name>" via {{ define }}, we run that.
//       – Else we run the file "<name>.html" (file has no define).
//   • Callers pass the logical name (e.g. "page"); Render figures out the
//     concrete template automatically.
//
// Notes
// -----
// • The parsed set is never executed directly.  Each render clones it and
//   binds the request-scoped func map to the clone, because html/template
//   refuses to clone a set once it has run.
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"

	"github.com/yanizio/interactive/internal/core"
	"github.com/yanizio/interactive/internal/logger"
	"github.com/yanizio/interactive/internal/widget"
)

// ErrUnknownComponent is returned when no templates were registered for a
// component.
var ErrUnknownComponent = errors.New("view: no templates registered for component")

var (
	mu   sync.RWMutex
	sets = map[string]*template.Template{}
)

//
// registration
//

// Register parses every templates/*.html file in fsys as the template set
// of comp.  Registering a component twice replaces its set.
func Register(comp string, fsys fs.FS) error {
	t, err := template.New(comp).Funcs(buildFuncMap(nil)).ParseFS(fsys, "templates/*.html")
	if err != nil {
		return fmt.Errorf("view: parse %s templates: %w", comp, err)
	}
	mu.Lock()
	sets[comp] = t
	mu.Unlock()
	return nil
}

// MustRegister is Register for init() functions.
func MustRegister(comp string, fsys fs.FS) {
	if err := Register(comp, fsys); err != nil {
		panic(err)
	}
}

//
// public helpers
//

// Render executes the named template of comp and streams it to w.  The
// Content-Type defaults to HTML.
func Render(rctx *core.Context, w http.ResponseWriter, comp, name string, data any) error {
	html, err := RenderToString(rctx, comp, name, data)
	if err != nil {
		return err
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	_, err = w.Write([]byte(html))
	return err
}

// RenderToString executes and returns HTML.  Rendering into a buffer first
// means a template error never leaves a half-written page behind.
func RenderToString(rctx *core.Context, comp, name string, data any) (template.HTML, error) {
	t, err := load(rctx, comp)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, execName(t, name), data); err != nil {
		return "", fmt.Errorf("view: render %s/%s: %w", comp, name, err)
	}
	return template.HTML(buf.String()), nil
}

//
// internal: load
//

func load(rctx *core.Context, comp string) (*template.Template, error) {
	mu.RLock()
	base, ok := sets[comp]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, comp)
	}
	t, err := base.Clone()
	if err != nil {
		return nil, fmt.Errorf("view: clone %s: %w", comp, err)
	}
	return t.Funcs(buildFuncMap(rctx)), nil
}

//
// func-map builders
//

func buildFuncMap(rctx *core.Context) template.FuncMap {
	fm := template.FuncMap{
		"dict":   dict,
		"widget": widgetFunc(rctx),
	}
	for k, v := range uaFuncMap() { // UA helpers (browser/device)
		fm[k] = v
	}
	return fm
}

//
// helpers
//

// execName picks the template name to execute.
//
// Priority:
//  1. If the set defines "<name>" (root template via define), run that.
//  2. Otherwise, fall back to the file "<name>.html".
//
// A file holding only define blocks has an empty body, so the define has
// to win.
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name); tmpl != nil && tmpl.Tree != nil {
		return name
	}
	return name + ".html"
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// widgetFunc renders a registered widget and returns safe HTML.  Errors are
// logged and hidden behind <!-- comments --> so end-users never see stack
// traces.
func widgetFunc(rctx *core.Context) func(string, map[string]any) template.HTML {
	return func(key string, params map[string]any) template.HTML {
		w := widget.Lookup(key)
		if w == nil {
			return template.HTML("<!-- widget not found -->")
		}
		html, err := w.Render(rctx, params)
		if err != nil {
			if rctx != nil && rctx.Request != nil {
				logger.FromContext(rctx.Request.Context()).Errorw("widget render failed", "widget", key, "err", err)
			}
			return template.HTML("<!-- widget error -->")
		}
		return html
	}
}
