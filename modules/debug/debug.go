// modules/debug/debug.go
//
// Inspection module that echoes request info and the visitor's session
// state as JSON.  It answers 404 unless debug.enabled is set, checked on
// every request so a config reload takes effect immediately.
package debug

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yanizio/interactive/internal/config"
	"github.com/yanizio/interactive/internal/core"
	"github.com/yanizio/interactive/internal/module"
)

func init() {
	// Register at exact path /debug
	module.Register("/debug", handler)
}

type controlView struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Error string `json:"error,omitempty"`
}

type sessionView struct {
	ID       string        `json:"id"`
	Created  time.Time     `json:"created"`
	Form     string        `json:"form"`
	Controls []controlView `json:"controls"`
	Notice   bool          `json:"notice"`
	Theme    string        `json:"theme"`
	Counter  int           `json:"counter"`
	Clicks   int           `json:"clicks"`
	FAQOpen  int           `json:"faq_open"`
}

// enabled is swapped in tests.
var enabled = func() bool {
	cfg := config.Get()
	return cfg != nil && cfg.Debug.Enabled
}

// handler writes a JSON blob with selected context fields.
func handler(ctx *core.Context, w http.ResponseWriter, r *http.Request) {
	if !enabled() {
		http.NotFound(w, r)
		return
	}

	out := map[string]any{
		"request": ctx.Info,
		"ua":      r.UserAgent(),
	}
	if sess := ctx.Session; sess != nil {
		var sv sessionView
		sess.Do(func() { sv = snapshot(ctx) })
		out["session"] = sv
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

// snapshot copies the session state.  Password values are masked.
func snapshot(ctx *core.Context) sessionView {
	sess := ctx.Session
	fd := sess.Form.Def()
	snap := sess.Page.Snapshot()

	sv := sessionView{
		ID:      sess.ID,
		Created: sess.Created,
		Form:    fd.ID,
		Notice:  snap.Notice,
		Theme:   sess.State.Theme.Name(),
		Counter: sess.State.Counter.Value(),
		Clicks:  sess.State.Clicker.Count(),
		FAQOpen: -1,
	}
	for _, c := range snap.Controls {
		val := c.Value
		if f, ok := fd.Field(c.Key); ok && f.Type == "password" && val != "" {
			val = "***"
		}
		sv.Controls = append(sv.Controls, controlView{Key: c.Key, Value: val, Error: c.Error})
	}
	for _, e := range sess.State.FAQ.Entries() {
		if e.Open {
			sv.FAQOpen = e.Index
		}
	}
	return sv
}
