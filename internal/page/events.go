package page

// On subscribes fn to event on target.  Several callbacks may share a pair;
// they run in subscription order.
func (p *Page) On(event, target string, fn func()) {
	if fn == nil {
		return
	}
	k := eventKey{event, target}
	p.mu.Lock()
	p.handlers[k] = append(p.handlers[k], fn)
	p.mu.Unlock()
}

// Dispatch fires event on target and reports whether any callback ran.
func (p *Page) Dispatch(event, target string) bool {
	p.mu.RLock()
	hs := append([]func(){}, p.handlers[eventKey{event, target}]...)
	p.mu.RUnlock()

	for _, fn := range hs {
		fn()
	}
	return len(hs) > 0
}
