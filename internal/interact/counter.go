package interact

// Counter is an unbounded integer counter.
type Counter struct{ n int }

func (c *Counter) Inc()      { c.n++ }
func (c *Counter) Dec()      { c.n-- }
func (c *Counter) Reset()    { c.n = 0 }
func (c *Counter) Value() int { return c.n }

// Tone classifies the value for styling: positive, negative, or zero.
func (c *Counter) Tone() string {
	switch {
	case c.n > 0:
		return "positive"
	case c.n < 0:
		return "negative"
	default:
		return "zero"
	}
}

// Apply runs the named operation.  It returns false for unknown ops.
func (c *Counter) Apply(op string) bool {
	switch op {
	case "inc":
		c.Inc()
	case "dec":
		c.Dec()
	case "reset":
		c.Reset()
	default:
		return false
	}
	return true
}
