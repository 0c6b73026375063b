// internal/page/page.go
//
// Server-side model of the form widgets a visitor sees.
//
// Context
// -------
// A Page stands in for the handful of DOM nodes the signup form touches:
// one control per field (current value plus the text of its error slot), a
// success notice that is either shown or hidden, and a table of event
// subscriptions.  Handlers look controls up by their stable key, write
// error text, and subscribe callbacks; the HTTP layer feeds posted values in
// and dispatches browser events.
//
// Workflow
// --------
//  1. New(keys...) creates empty controls in render order.
//  2. Fill copies posted values into the controls.
//  3. Dispatch(event, target) runs every callback subscribed to the pair.
//  4. Snapshot returns an immutable copy for the renderer.
//
// Notes
// -----
// • All methods are safe for concurrent use.  Notice timers fire on their
//   own goroutine, so the mutex is required, not optional.
// • Callbacks run outside the lock so they may call back into the Page.
// • Oxford commas, two spaces after periods.
package page

import "sync"

// Control is one input widget and its error slot.
type Control struct {
	Key   string
	Value string
	Error string
}

// Page holds the controls, notice flag, and subscriptions.  Zero value is
// unusable; construct with New.
type Page struct {
	mu       sync.RWMutex
	order    []string
	controls map[string]*Control
	notice   bool
	handlers map[eventKey][]func()
}

type eventKey struct{ event, target string }

// New returns a Page with one empty control per key.  Duplicate keys are
// collapsed.
func New(keys ...string) *Page {
	p := &Page{
		controls: make(map[string]*Control, len(keys)),
		handlers: make(map[eventKey][]func()),
	}
	for _, k := range keys {
		if _, dup := p.controls[k]; dup {
			continue
		}
		p.order = append(p.order, k)
		p.controls[k] = &Control{Key: k}
	}
	return p
}

/*──────────────────────────── element lookup ───────────────────────────────*/

// Has reports whether key names a control.
func (p *Page) Has(key string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.controls[key]
	return ok
}

// Value returns the current value of key, or "" for unknown keys.
func (p *Page) Value(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if c, ok := p.controls[key]; ok {
		return c.Value
	}
	return ""
}

// Error returns the text currently shown in key's error slot.
func (p *Page) Error(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if c, ok := p.controls[key]; ok {
		return c.Error
	}
	return ""
}

// SetValue writes one control value.  Unknown keys are ignored.
func (p *Page) SetValue(key, val string) {
	p.mu.Lock()
	if c, ok := p.controls[key]; ok {
		c.Value = val
	}
	p.mu.Unlock()
}

// Fill copies values for every known control present in get.  Keys
// missing from the submission keep their current value.
func (p *Page) Fill(get func(key string) (string, bool)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, k := range p.order {
		if v, ok := get(k); ok {
			p.controls[k].Value = v
		}
	}
}

/*──────────────────────────── display ──────────────────────────────────────*/

// SetError writes msg into key's error slot.  An empty msg clears it.
func (p *Page) SetError(key, msg string) {
	p.mu.Lock()
	if c, ok := p.controls[key]; ok {
		c.Error = msg
	}
	p.mu.Unlock()
}

// ClearValues empties every control value, like form.reset().  Error
// slots are left alone.
func (p *Page) ClearValues() {
	p.mu.Lock()
	for _, c := range p.controls {
		c.Value = ""
	}
	p.mu.Unlock()
}

// SetNotice shows or hides the success notice.  Repeating the current
// state is a no-op.
func (p *Page) SetNotice(visible bool) {
	p.mu.Lock()
	p.notice = visible
	p.mu.Unlock()
}

// NoticeVisible reports the notice state.
func (p *Page) NoticeVisible() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.notice
}

/*──────────────────────────── snapshot ─────────────────────────────────────*/

// Snapshot is a point-in-time copy used by renderers.
type Snapshot struct {
	Controls []Control
	Notice   bool
}

// Snapshot copies the current state.
func (p *Page) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := Snapshot{Controls: make([]Control, 0, len(p.order)), Notice: p.notice}
	for _, k := range p.order {
		out.Controls = append(out.Controls, *p.controls[k])
	}
	return out
}

// Control returns the control for key from the snapshot.
func (s Snapshot) Control(key string) (Control, bool) {
	for _, c := range s.Controls {
		if c.Key == key {
			return c, true
		}
	}
	return Control{}, false
}
