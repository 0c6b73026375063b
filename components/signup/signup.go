// components/signup/signup.go
//
// Signup Component – the registration form's HTTP surface.
//
// Context
// -------
// The form itself lives in the visitor's session: a Page holding the four
// controls and a Controller bound to the Page's blur and submit events.
// These handlers translate HTTP into those events and send back the
// re-rendered region.
//
// Workflow
// --------
//   - POST /signup/blur/{field}  fill controls → dispatch blur → error slot.
//   - POST /signup/submit        fill controls → dispatch submit → form.
//   - GET  /signup/notice        current notice (htmx polls while visible).
//
// htmx requests get the fragment.  Plain form posts get a 303 back to the
// home page, which renders the same session state in full.
//
// Notes
// -----
//   - Every POST passes through form.Tokens.Protect, so a bad CSRF token is
//     a 403 and no validation runs.
//   - Whenever the whole form is re-rendered the password controls are
//     emptied in the Page too, since the markup never echoes them.
//   - Oxford commas, two spaces after periods.
package signup

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/interactive/components/signup/widgets"
	"github.com/yanizio/interactive/internal/component"
	"github.com/yanizio/interactive/internal/core"
	"github.com/yanizio/interactive/internal/form"
	"github.com/yanizio/interactive/internal/logger"
	"github.com/yanizio/interactive/internal/session"
	"github.com/yanizio/interactive/internal/view"
	"github.com/yanizio/interactive/internal/widget"
)

// FormID is the id declared in forms/signup.yaml.
const FormID = "signup/register"

var (
	//go:embed templates/*.html
	templatesFS embed.FS

	//go:embed forms/*.yaml
	formsFS embed.FS
)

// compile-time assertions
var (
	_ component.Component   = (*Comp)(nil)
	_ component.Initializer = (*Comp)(nil)
)

// Comp implements component.Component.
type Comp struct {
	tokens *form.Tokens
	log    *zap.SugaredLogger
}

func (c *Comp) Name() string { return "signup" }

// Init keeps the token issuer and logger.
func (c *Comp) Init(deps component.Deps) error {
	if deps.Tokens == nil {
		return fmt.Errorf("signup: csrf tokens not configured")
	}
	c.tokens = deps.Tokens
	c.log = deps.Log
	if c.log == nil {
		c.log = zap.S()
	}
	return nil
}

func (c *Comp) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/notice", c.notice)
	r.Group(func(r chi.Router) {
		r.Use(c.tokens.Protect)
		r.Post("/blur/{field}", c.blur)
		r.Post("/submit", c.submit)
	})
	return r
}

// Def returns the registered signup form definition.
func Def() (*form.FormDef, error) {
	fd, ok := form.GetFormDef(FormID)
	if !ok {
		return nil, fmt.Errorf("signup: form %q not registered", FormID)
	}
	return fd, nil
}

//
// handlers
//

func (c *Comp) blur(w http.ResponseWriter, r *http.Request) {
	rctx, ok := c.context(w, r)
	if !ok {
		return
	}
	sess := rctx.Session
	field := chi.URLParam(r, "field")

	f, known := sess.Form.Def().Field(field)
	if !known {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var slot string
	htmx := rctx.IsHTMX()
	sess.Do(func() {
		sess.Page.Fill(postValue(r))
		sess.Page.Dispatch(form.EventBlur, field)
		slot = string(form.ErrorSlot(f, sess.Page.Error(field)))
		if !htmx {
			forgetSecrets(sess)
		}
	})

	if !htmx {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(slot))
}

func (c *Comp) submit(w http.ResponseWriter, r *http.Request) {
	rctx, ok := c.context(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := rctx.Session
	if !rctx.IsHTMX() {
		sess.Do(func() {
			sess.Page.Fill(postValue(r))
			sess.Page.Dispatch(form.EventSubmit, sess.Form.Def().ID)
			forgetSecrets(sess)
		})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	c.renderWidget(rctx, w, &widgets.Form{}, func() {
		sess.Page.Fill(postValue(r))
		sess.Page.Dispatch(form.EventSubmit, sess.Form.Def().ID)
		forgetSecrets(sess)
	})
}

func (c *Comp) notice(w http.ResponseWriter, r *http.Request) {
	rctx, ok := c.context(w, r)
	if !ok {
		return
	}
	c.renderWidget(rctx, w, &widgets.Notice{}, nil)
}

//
// helpers
//

// context builds the request context with a fresh CSRF token.
func (c *Comp) context(w http.ResponseWriter, r *http.Request) (*core.Context, bool) {
	rctx := core.NewContext(w, r)
	if rctx.Session == nil {
		logger.FromContext(r.Context()).Errorw("signup: request without session", "path", r.URL.Path)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	tok, err := c.tokens.Generate()
	if err != nil {
		logger.FromContext(r.Context()).Errorw("csrf token generation failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	rctx.CSRF = tok
	return rctx, true
}

// renderWidget runs mutate (when set) and renders wd inside one session
// lock, then writes the fragment.
func (c *Comp) renderWidget(rctx *core.Context, w http.ResponseWriter, wd widget.Widget, mutate func()) {
	var (
		html template.HTML
		err  error
	)
	rctx.Session.Do(func() {
		if mutate != nil {
			mutate()
		}
		html, err = wd.Render(rctx, nil)
	})
	if err != nil {
		logger.FromContext(rctx.Request.Context()).Errorw("signup render failed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// forgetSecrets empties the password controls.  A re-rendered form never
// echoes them, so the Page must not keep values the browser no longer
// shows.  Their error slots are left as they are.
func forgetSecrets(sess *session.Session) {
	for _, f := range sess.Form.Def().Fields {
		if f.Type == "password" {
			sess.Page.SetValue(f.Name, "")
		}
	}
}

// postValue adapts the parsed form to page.Fill.  Only keys present in the
// post are reported, so absent controls keep their value.
func postValue(r *http.Request) func(key string) (string, bool) {
	return func(key string) (string, bool) {
		vals, ok := r.PostForm[key]
		if !ok || len(vals) == 0 {
			return "", false
		}
		return vals[0], true
	}
}

// Register component at package init.
func init() {
	view.MustRegister("signup", templatesFS)
	if _, err := form.RegisterFS(formsFS); err != nil {
		panic(err)
	}

	component.Register(&Comp{})
}
