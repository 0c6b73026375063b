// components/signup/widgets/form.go
//
// Registration form widget.  Renders the visitor's form from the session
// Page: current values, error slots, the success notice, and a CSRF token.
//
// The caller must hold the session lock (session.Session.Do) while the
// widget renders, both for full pages and htmx fragments.
package widgets

import (
	"errors"
	"html/template"

	"github.com/yanizio/interactive/internal/core"
	"github.com/yanizio/interactive/internal/form"
	"github.com/yanizio/interactive/internal/view"
	"github.com/yanizio/interactive/internal/widget"
)

// Endpoints the rendered markup points at.
const (
	SubmitURL = "/signup/submit"
	NoticeURL = "/signup/notice"
	BlurURL   = "/signup/blur/"
)

// HTMXScript loads htmx from the CDN allowed by the security headers.
const HTMXScript = `<script src="https://unpkg.com/htmx.org@1.9.12" defer></script>`

// ErrNoSession is returned when the context carries no session.
var ErrNoSession = errors.New("signup widget: no session in context")

// compile-time assertions
var (
	_ widget.Widget = (*Form)(nil)
	_ widget.Widget = (*Notice)(nil)
)

// Form implements widget.Widget for the whole registration form.
type Form struct{}

func (w *Form) ID() string { return "signup/form" }

func (w *Form) Render(ctx any, _ map[string]any) (template.HTML, error) {
	rctx, data, err := formData(ctx)
	if err != nil {
		return "", err
	}
	rctx.Head.Script(HTMXScript)
	return view.RenderToString(rctx, "signup", "form", data)
}

// Notice implements widget.Widget for the success notice alone.  The
// notice endpoint polls it while it is visible.
type Notice struct{}

func (w *Notice) ID() string { return "signup/notice" }

func (w *Notice) Render(ctx any, _ map[string]any) (template.HTML, error) {
	rctx, data, err := formData(ctx)
	if err != nil {
		return "", err
	}
	return view.RenderToString(rctx, "signup", "notice", data)
}

func formData(ctx any) (*core.Context, map[string]any, error) {
	rctx, ok := ctx.(*core.Context)
	if !ok || rctx.Session == nil {
		return nil, nil, ErrNoSession
	}
	sess := rctx.Session
	fd := sess.Form.Def()
	snap := sess.Page.Snapshot()

	return rctx, map[string]any{
		"Def":       fd,
		"CSRF":      rctx.CSRF,
		"Notice":    snap.Notice,
		"SubmitURL": SubmitURL,
		"NoticeURL": NoticeURL,
		"Fields": form.RenderFields(fd, snap, form.RenderOptions{
			BlurURL: func(field string) string { return BlurURL + field },
		}),
	}, nil
}

func init() {
	widget.Register(&Form{})
	widget.Register(&Notice{})
}
