// components/playground/widgets/widgets.go
//
// Playground widgets: click button, theme toggle, counter, and FAQ.  Each
// renders one region of the page from the session's interact.State, and
// the playground handlers re-render the same widget as the htmx fragment.
//
// The caller must hold the session lock (session.Session.Do).
package widgets

import (
	"errors"
	"html/template"

	"github.com/yanizio/interactive/internal/core"
	"github.com/yanizio/interactive/internal/interact"
	"github.com/yanizio/interactive/internal/view"
	"github.com/yanizio/interactive/internal/widget"
)

// ErrNoSession is returned when the context carries no session.
var ErrNoSession = errors.New("playground widget: no session in context")

// compile-time assertions
var (
	_ widget.Widget = (*Click)(nil)
	_ widget.Widget = (*Theme)(nil)
	_ widget.Widget = (*Counter)(nil)
	_ widget.Widget = (*FAQ)(nil)
)

type (
	Click   struct{}
	Theme   struct{}
	Counter struct{}
	FAQ     struct{}
)

func (*Click) ID() string   { return "play/click" }
func (*Theme) ID() string   { return "play/theme" }
func (*Counter) ID() string { return "play/counter" }
func (*FAQ) ID() string     { return "play/faq" }

func (*Click) Render(ctx any, _ map[string]any) (template.HTML, error) {
	return render(ctx, "click", func(st *interact.State, d map[string]any) {
		d["Message"] = st.Clicker.Last()
		d["Count"] = st.Clicker.Count()
	})
}

func (*Theme) Render(ctx any, _ map[string]any) (template.HTML, error) {
	return render(ctx, "theme", func(st *interact.State, d map[string]any) {
		d["Theme"] = st.Theme
	})
}

func (*Counter) Render(ctx any, _ map[string]any) (template.HTML, error) {
	return render(ctx, "counter", func(st *interact.State, d map[string]any) {
		d["Counter"] = &st.Counter
	})
}

func (*FAQ) Render(ctx any, _ map[string]any) (template.HTML, error) {
	return render(ctx, "faq", func(st *interact.State, d map[string]any) {
		d["Entries"] = st.FAQ.Entries()
	})
}

// render type-asserts the context, collects the widget data, and runs the
// named playground template.
func render(ctx any, name string, fill func(*interact.State, map[string]any)) (template.HTML, error) {
	rctx, ok := ctx.(*core.Context)
	if !ok || rctx.Session == nil {
		return "", ErrNoSession
	}
	data := map[string]any{"CSRF": rctx.CSRF}
	fill(rctx.Session.State, data)
	return view.RenderToString(rctx, "play", name, data)
}

func init() {
	widget.Register(&Click{})
	widget.Register(&Theme{})
	widget.Register(&Counter{})
	widget.Register(&FAQ{})
}
