// evictor.go houses the eviction loop for Store.  Every EvictInterval it
// scans the map and removes:
//
//   - sessions idle longer than IdleTTL
//   - least-recently-used sessions when the map size exceeds MaxEntries
//
// Each eviction event is logged and updates Prometheus counters.
package session

import (
	"sort"
	"time"

	"github.com/yanizio/interactive/internal/metrics"
)

func (s *Store) evictLoop() {
	defer close(s.done)
	t := time.NewTicker(s.opts.EvictInterval)
	defer t.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-t.C:
			s.sweep()
		}
	}
}

// sweep runs one idle pass and one LRU pass.
func (s *Store) sweep() {
	now := s.now()
	var count int

	// ----------------------------------------------------------------
	// Idle eviction pass
	// ----------------------------------------------------------------
	s.m.Range(func(key, value any) bool {
		sess := value.(*Session)
		idle := now.Sub(sess.LastSeen())
		if idle > s.opts.IdleTTL {
			s.m.Delete(key)
			s.log.Debugw("session evicted", "session", key, "idle", idle.Truncate(time.Second))
			metrics.SessionEvictTotal.WithLabelValues("idle").Inc()
			metrics.ActiveSessions.Dec()
			return true
		}
		count++
		return true
	})

	// ----------------------------------------------------------------
	// LRU eviction pass
	// ----------------------------------------------------------------
	if count <= s.opts.MaxEntries {
		return
	}
	type kv struct {
		key string
		at  int64
	}
	all := make([]kv, 0, count)
	s.m.Range(func(key, value any) bool {
		all = append(all, kv{key: key.(string), at: value.(*Session).lastSeen.Load()})
		return true
	})
	sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
	for i := 0; i < len(all)-s.opts.MaxEntries; i++ {
		if _, ok := s.m.LoadAndDelete(all[i].key); ok {
			s.log.Debugw("session evicted (LRU pressure)", "session", all[i].key)
			metrics.SessionEvictTotal.WithLabelValues("lru").Inc()
			metrics.ActiveSessions.Dec()
		}
	}
}
