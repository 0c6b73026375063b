// Package interact holds the per-visitor state behind the playground
// widgets: the dark/light theme flag, a counter, a single-open FAQ list, and
// a click button that answers with a random message.
//
// Everything a handler mutates lives in one State value owned by the
// visitor's session.  Methods are not synchronized; callers serialize access
// through session.Session.Do.
package interact

import "math/rand"

// State aggregates the playground widgets for one visitor.
type State struct {
	Theme   Theme
	Counter Counter
	FAQ     *FAQ
	Clicker *Clicker
}

// NewState returns fresh widget state.  items seeds the FAQ; pick selects
// click messages and may be nil for math/rand.
func NewState(items []FAQItem, pick func(n int) int) *State {
	if pick == nil {
		pick = rand.Intn
	}
	return &State{
		FAQ:     NewFAQ(items),
		Clicker: &Clicker{pick: pick},
	}
}
