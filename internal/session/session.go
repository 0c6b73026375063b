// internal/session/session.go
//
// Visitor session aggregate.
//
// Context
// -------
// A live Session groups everything the handlers need to serve one visitor:
// the Page model of the signup form, the Controller bound to it, and the
// playground widget State.  The store keeps a pointer to each Session along
// with a `lastSeen` UnixNano timestamp used by the evictor for idle and LRU
// eviction.
//
// Notes
// -----
//   - Handlers run their whole read-modify-render sequence inside Do, so two
//     requests from the same visitor never interleave.
//   - Notice timers write to the Page outside Do; Page has its own lock.
//   - Oxford commas, two spaces after periods.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/yanizio/interactive/internal/form"
	"github.com/yanizio/interactive/internal/interact"
	"github.com/yanizio/interactive/internal/page"
)

// Session is one visitor's server-side state.
type Session struct {
	ID      string
	Page    *page.Page
	Form    *form.Controller
	State   *interact.State
	Created time.Time

	mu       sync.Mutex
	lastSeen atomic.Int64 // UnixNano
}

// Do runs fn while holding the session lock.
func (s *Session) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// LastSeen returns the time of the most recent Get.
func (s *Session) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

func (s *Session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

// BuildFunc constructs the session for a freshly issued id.
type BuildFunc func(id string) (*Session, error)

// Builder returns a BuildFunc that wires a Page and bound Controller for fd
// plus fresh playground state seeded with faq.
func Builder(fd *form.FormDef, faq []interact.FAQItem, opts ...form.Option) BuildFunc {
	return func(id string) (*Session, error) {
		p := page.New(fd.Keys()...)
		c := form.NewController(fd, p, opts...)
		c.Bind()
		return &Session{
			ID:    id,
			Page:  p,
			Form:  c,
			State: interact.NewState(faq, nil),
		}, nil
	}
}
