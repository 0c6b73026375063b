// components/playground/playground.go
//
// Playground Component – click button, theme toggle, counter, and FAQ.
//
// Context
// -------
// The widgets' state lives in the visitor session as an interact.State.
// Each POST mutates it under the session lock, counts the interaction,
// and answers with the re-rendered widget for htmx or a 303 back to the
// home page for plain form posts.  The theme toggle changes the <body>
// class, so it always answers with the redirect.
//
// Workflow
// --------
//   - POST /play/click           random click message.
//   - POST /play/theme           flip dark/light.
//   - POST /play/counter/{op}    op ∈ inc, dec, reset.
//   - POST /play/faq/{index}     open index, closing the rest.
//
// Notes
// -----
//   - Every POST passes through form.Tokens.Protect.
//   - Oxford commas, two spaces after periods.
package playground

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/interactive/components/playground/widgets"
	"github.com/yanizio/interactive/internal/component"
	"github.com/yanizio/interactive/internal/core"
	"github.com/yanizio/interactive/internal/form"
	"github.com/yanizio/interactive/internal/interact"
	"github.com/yanizio/interactive/internal/logger"
	"github.com/yanizio/interactive/internal/metrics"
	"github.com/yanizio/interactive/internal/view"
	"github.com/yanizio/interactive/internal/widget"
)

var (
	//go:embed templates/*.html
	templatesFS embed.FS

	//go:embed content/faq.yaml
	faqYAML []byte
)

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
)

// Comp implements component.Component.
type Comp struct {
	tokens *form.Tokens
}

func (c *Comp) Name() string { return "play" }

func (c *Comp) Init(deps component.Deps) error {
	if deps.Tokens == nil {
		return fmt.Errorf("playground: csrf tokens not configured")
	}
	c.tokens = deps.Tokens
	return nil
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(c.tokens.Protect)
	r.Post("/click", c.click)
	r.Post("/theme", c.theme)
	r.Post("/counter/{op}", c.counter)
	r.Post("/faq/{index}", c.faq)
	return r
}

// FAQ returns the embedded FAQ items.
func FAQ() ([]interact.FAQItem, error) {
	return interact.LoadFAQ(bytes.NewReader(faqYAML))
}

//
// handlers
//

func (c *Comp) click(w http.ResponseWriter, r *http.Request) {
	c.apply(w, r, &widgets.Click{}, func(st *interact.State) (string, bool) {
		msg := st.Clicker.Click()
		logger.FromContext(r.Context()).Debugw("button clicked", "message", msg, "clicks", st.Clicker.Count())
		return "click", true
	})
}

func (c *Comp) theme(w http.ResponseWriter, r *http.Request) {
	rctx := core.NewContext(w, r)
	if rctx.Session == nil {
		noSession(w, r)
		return
	}
	var name string
	rctx.Session.Do(func() {
		rctx.Session.State.Theme.Toggle()
		name = rctx.Session.State.Theme.Name()
	})
	metrics.InteractionsTotal.WithLabelValues((&widgets.Theme{}).ID(), name).Inc()
	logger.FromContext(r.Context()).Infow("theme changed", "theme", name)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (c *Comp) counter(w http.ResponseWriter, r *http.Request) {
	op := chi.URLParam(r, "op")
	c.apply(w, r, &widgets.Counter{}, func(st *interact.State) (string, bool) {
		return op, st.Counter.Apply(op)
	})
}

func (c *Comp) faq(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	c.apply(w, r, &widgets.FAQ{}, func(st *interact.State) (string, bool) {
		if !st.FAQ.Toggle(idx) {
			return "", false
		}
		if st.FAQ.IsOpen(idx) {
			return "open", true
		}
		return "close", true
	})
}

//
// helpers
//

// apply runs mutate and, when it succeeds, renders wd inside one session
// lock.  mutate reports the metric action and false for an unknown target,
// which becomes a 404.
func (c *Comp) apply(w http.ResponseWriter, r *http.Request, wd widget.Widget,
	mutate func(*interact.State) (action string, ok bool)) {

	rctx := core.NewContext(w, r)
	if rctx.Session == nil {
		noSession(w, r)
		return
	}
	log := logger.FromContext(r.Context())

	if rctx.IsHTMX() {
		tok, err := c.tokens.Generate()
		if err != nil {
			log.Errorw("csrf token generation failed", "err", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		rctx.CSRF = tok
	}

	var (
		action string
		ok     bool
		html   template.HTML
		rerr   error
	)
	rctx.Session.Do(func() {
		action, ok = mutate(rctx.Session.State)
		if ok && rctx.IsHTMX() {
			html, rerr = wd.Render(rctx, nil)
		}
	})
	if !ok {
		http.NotFound(w, r)
		return
	}
	metrics.InteractionsTotal.WithLabelValues(wd.ID(), action).Inc()

	if !rctx.IsHTMX() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if rerr != nil {
		log.Errorw("playground render failed", "widget", wd.ID(), "err", rerr)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

func noSession(w http.ResponseWriter, r *http.Request) {
	logger.FromContext(r.Context()).Errorw("playground: request without session", "path", r.URL.Path)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Register component at package init.
func init() {
	view.MustRegister("play", templatesFS)
	component.Register(&Comp{})
}
