// internal/form/controller.go
//
// Forms subsystem: blur and submit orchestration.
//
// Context
//   A Controller owns one form on one Page.  It knows which validator
//   belongs to which field (from the FormDef), subscribes itself to the
//   page's blur and submit events, and writes the outcome back into the
//   page's error slots and success notice.  It never holds a copy of the
//   field values; it reads them from the controls on every check.
//
// Workflow
//   •  Blur(field)  → run that field's rule → write that field's slot only.
//   •  Submit()     → run every rule → write every slot → when all pass,
//      clear the controls, show the notice, and schedule its hide.
//
//   The hide is a one-shot delayed callback with no cancellation.  Two quick
//   submits leave two timers running; the second hide finds the notice
//   already hidden, which is harmless.
//
//------------------------------------------------------------------------------

package form

import (
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/yanizio/interactive/internal/metrics"
	"github.com/yanizio/interactive/internal/validate"
)

// Event names dispatched by the HTTP layer.
const (
	EventBlur   = "blur"
	EventSubmit = "submit"
)

// DefaultNoticeDelay is how long the success notice stays visible.
const DefaultNoticeDelay = 5000 * time.Millisecond

// -----------------------------------------------------------------------------
// Capabilities
// -----------------------------------------------------------------------------

// Controls looks up the current value of a control by its key.
type Controls interface {
	Value(key string) string
}

// Display writes results back to the page.
type Display interface {
	SetError(key, msg string)
	ClearValues()
	SetNotice(visible bool)
}

// Events subscribes callbacks to (event, target) pairs.
type Events interface {
	On(event, target string, fn func())
}

// Page bundles the three page capabilities.  *page.Page satisfies it.
type Page interface {
	Controls
	Display
	Events
}

// Scheduler invokes fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// SchedulerFunc adapts a plain function to Scheduler.
type SchedulerFunc func(d time.Duration, fn func())

// AfterFunc implements Scheduler.
func (f SchedulerFunc) AfterFunc(d time.Duration, fn func()) { f(d, fn) }

// realScheduler uses time.AfterFunc; the timer is never stopped.
var realScheduler = SchedulerFunc(func(d time.Duration, fn func()) { time.AfterFunc(d, fn) })

// -----------------------------------------------------------------------------
// Controller
// -----------------------------------------------------------------------------

// Outcome is the aggregate result of a submit.
type Outcome struct {
	Valid  bool
	Errors map[string]string // field → message, failing fields only
}

// Controller is safe to use from one goroutine at a time; callers serialize
// requests per page (see session.Session.Do).
type Controller struct {
	def   *FormDef
	page  Page
	sched Scheduler
	delay time.Duration
	log   *zap.SugaredLogger
}

// Option customizes a Controller.
type Option func(*Controller)

// WithScheduler replaces time.AfterFunc, mainly for tests.
func WithScheduler(s Scheduler) Option { return func(c *Controller) { c.sched = s } }

// WithNoticeDelay overrides DefaultNoticeDelay.  Non-positive values are
// ignored.
func WithNoticeDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithLogger sets the logger used for submit events.
func WithLogger(l *zap.SugaredLogger) Option { return func(c *Controller) { c.log = l } }

// NewController binds def to p.  Call Bind to subscribe to page events.
func NewController(def *FormDef, p Page, opts ...Option) *Controller {
	c := &Controller{
		def:   def,
		page:  p,
		sched: realScheduler,
		delay: DefaultNoticeDelay,
		log:   zap.S(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Def returns the form definition.
func (c *Controller) Def() *FormDef { return c.def }

// Bind subscribes Blur to each field's blur event and Submit to the form's
// submit event.  Call it once per page.
func (c *Controller) Bind() {
	for _, f := range c.def.Fields {
		name := f.Name
		c.page.On(EventBlur, name, func() { c.Blur(name) })
	}
	c.page.On(EventSubmit, c.def.ID, func() { c.Submit() })
}

// Check runs the rule for field without touching the display.  Unknown
// fields report Valid.
func (c *Controller) Check(field string) validate.Result {
	f, ok := c.def.Field(field)
	if !ok {
		return validate.Result{Kind: validate.Valid}
	}
	r := rules[f.Rule](f, c.page)
	metrics.FormValidationsTotal.WithLabelValues(f.Name, r.Kind.String()).Inc()
	return r
}

// Blur validates one field and displays the result for that field only.
func (c *Controller) Blur(field string) validate.Result {
	r := c.Check(field)
	if _, ok := c.def.Field(field); ok {
		c.page.SetError(field, r.Message)
	}
	return r
}

// Submit validates every field, displays every result, and on success
// resets the form and shows the notice until the delay elapses.
func (c *Controller) Submit() Outcome {
	out := Outcome{Valid: true, Errors: map[string]string{}}
	for _, f := range c.def.Fields {
		r := c.Check(f.Name)
		c.page.SetError(f.Name, r.Message)
		if !r.OK() {
			out.Valid = false
			out.Errors[f.Name] = r.Message
		}
	}

	if !out.Valid {
		metrics.FormSubmissionsTotal.WithLabelValues("rejected").Inc()
		c.log.Debugw("form validation failed", "form", c.def.ID, "fields", len(out.Errors))
		return out
	}

	c.logAccepted()
	metrics.FormSubmissionsTotal.WithLabelValues("accepted").Inc()

	c.page.ClearValues()
	c.page.SetNotice(true)
	c.sched.AfterFunc(c.delay, func() { c.page.SetNotice(false) })
	return out
}

// strictPolicy strips all markup from echoed values.
var strictPolicy = bluemonday.StrictPolicy()

// logAccepted records the submission with secrets masked.  Values are read
// before the controls are cleared.
func (c *Controller) logAccepted() {
	kv := []any{"form", c.def.ID}
	for _, f := range c.def.Fields {
		val := "***"
		if f.Type != "password" {
			val = strictPolicy.Sanitize(c.page.Value(f.Name))
		}
		kv = append(kv, f.Name, val)
	}
	c.log.Infow("form submitted", kv...)
}
