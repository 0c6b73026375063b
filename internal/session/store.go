package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/interactive/internal/metrics"
)

// Static defaults.  Override via config.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 10000
	EvictInterval = time.Minute
)

// ErrClosed is returned by Get after Close.
var ErrClosed = errors.New("session store closed")

// Options tunes eviction.  Zero fields take the package defaults.
type Options struct {
	IdleTTL       time.Duration
	MaxEntries    int
	EvictInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.IdleTTL <= 0 {
		o.IdleTTL = IdleTTL
	}
	if o.MaxEntries <= 0 {
		o.MaxEntries = MaxEntries
	}
	if o.EvictInterval <= 0 {
		o.EvictInterval = EvictInterval
	}
	return o
}

// Store lazily creates sessions, keeps them in a sync.Map, and evicts them
// on idle TTL or LRU pressure.
type Store struct {
	build BuildFunc
	opts  Options
	log   *zap.SugaredLogger

	sfg singleflight.Group
	m   sync.Map // id → *Session

	now   func() time.Time
	newID func() string

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New constructs a Store and starts the background evictor.  Call Close to
// stop it.
func New(build BuildFunc, opts Options, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.S()
	}
	s := &Store{
		build: build,
		opts:  opts.withDefaults(),
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go s.evictLoop()
	return s
}

// Get returns the session for id.  Unknown or empty ids get a new session
// under a freshly issued id; created reports that case so the caller can
// set the cookie.  Concurrent requests presenting the same stale id share
// one new session.  An empty id means a first visit and always builds its
// own session.
func (s *Store) Get(id string) (sess *Session, created bool, err error) {
	select {
	case <-s.stop:
		return nil, false, ErrClosed
	default:
	}

	if id == "" {
		if sess, err = s.create(); err != nil {
			return nil, false, err
		}
		return sess, true, nil
	}

	if v, ok := s.m.Load(id); ok {
		sess := v.(*Session)
		sess.touch(s.now())
		return sess, false, nil
	}

	v, err, _ := s.sfg.Do("stale:"+id, func() (any, error) {
		return s.create()
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*Session), true, nil
}

// create builds and stores a session under a fresh id.
func (s *Store) create() (*Session, error) {
	sess, err := s.build(s.newID())
	if err != nil {
		return nil, err
	}
	now := s.now()
	sess.Created = now
	sess.touch(now)
	s.m.Store(sess.ID, sess)
	metrics.SessionCreateTotal.Inc()
	metrics.ActiveSessions.Inc()
	s.log.Debugw("session created", "session", sess.ID)
	return sess, nil
}

// Lookup returns an existing session without creating or touching it.
func (s *Store) Lookup(id string) (*Session, bool) {
	v, ok := s.m.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Len counts live sessions.
func (s *Store) Len() int {
	n := 0
	s.m.Range(func(_, _ any) bool { n++; return true })
	return n
}

// Close stops the evictor and waits for it to exit.  Safe to call twice.
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.stop) })
	<-s.done
}
