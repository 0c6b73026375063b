// components/home/home.go
//
// Home Component – the single page and its static assets.
//
// Context
// -------
// GET / renders the whole page from the visitor's session: the playground
// widgets, the registration form, and the theme class on <body>.  The body
// is rendered first so widgets can push tags (the htmx script) into the
// head builder before the layout emits <head>.
//
// Notes
// -----
//   - Rendering happens inside session.Session.Do; widgets assume the lock.
//   - Oxford commas, two spaces after periods.
package home

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/interactive/internal/component"
	"github.com/yanizio/interactive/internal/core"
	"github.com/yanizio/interactive/internal/form"
	"github.com/yanizio/interactive/internal/logger"
	"github.com/yanizio/interactive/internal/view"
)

// Title is the page <title>.
const Title = "Interactive Web Pages"

var (
	//go:embed templates/*.html
	templatesFS embed.FS

	//go:embed static
	staticFS embed.FS
)

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
	_ component.Mounter     = (*Comp)(nil)
)

// Comp implements component.Component.
type Comp struct {
	tokens *form.Tokens
}

func (c *Comp) Name() string      { return "home" }
func (c *Comp) MountPath() string { return "/" }

func (c *Comp) Init(deps component.Deps) error {
	if deps.Tokens == nil {
		return fmt.Errorf("home: csrf tokens not configured")
	}
	c.tokens = deps.Tokens
	return nil
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", c.page)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	return r
}

func (c *Comp) page(w http.ResponseWriter, r *http.Request) {
	rctx := core.NewContext(w, r)
	log := logger.FromContext(r.Context())
	if rctx.Session == nil {
		log.Errorw("home: request without session")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	tok, err := c.tokens.Generate()
	if err != nil {
		log.Errorw("csrf token generation failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	rctx.CSRF = tok

	rctx.Head.SetTitle(Title)
	rctx.Head.Meta(`<meta charset="utf-8">`)
	rctx.Head.Meta(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
	rctx.Head.Link(`<link rel="stylesheet" href="/static/site.css">`)
	rctx.Head.Script(`<script src="/static/app.js" defer></script>`)

	var (
		page template.HTML
		rerr error
	)
	sess := rctx.Session
	sess.Do(func() {
		data := map[string]any{
			"Ctx":   rctx,
			"Head":  rctx.Head,
			"Theme": sess.State.Theme,
		}
		var body template.HTML
		if body, rerr = view.RenderToString(rctx, "home", "body", data); rerr != nil {
			return
		}
		data["Body"] = body
		page, rerr = view.RenderToString(rctx, "home", "page", data)
	})
	if rerr != nil {
		log.Errorw("home render failed", "err", rerr)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte(page))
}

// Register component at package init.
func init() {
	view.MustRegister("home", templatesFS)
	component.Register(&Comp{})
}
