package interact

// ClickMessages are the replies of the click button.
var ClickMessages = []string{
	"Hello! You clicked me!",
	"Great job! 👍",
	"Keep clicking! 🎯",
	"You're a clicking pro! 💪",
	"One more time! 🔥",
}

// Clicker answers each click with a random message.
type Clicker struct {
	pick  func(n int) int
	last  string
	count int
}

// Click records a click and returns the chosen message.
func (c *Clicker) Click() string {
	c.count++
	c.last = ClickMessages[c.pick(len(ClickMessages))]
	return c.last
}

// Last returns the most recent message, empty before the first click.
func (c *Clicker) Last() string { return c.last }

// Count returns the number of clicks so far.
func (c *Clicker) Count() int { return c.count }
