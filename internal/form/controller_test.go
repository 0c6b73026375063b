package form

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yanizio/interactive/internal/page"
	"github.com/yanizio/interactive/internal/validate"
)

// manualClock collects scheduled callbacks and fires them on Advance.
type manualClock struct {
	now     time.Duration
	pending []timer
}

type timer struct {
	at time.Duration
	fn func()
}

func (m *manualClock) AfterFunc(d time.Duration, fn func()) {
	m.pending = append(m.pending, timer{at: m.now + d, fn: fn})
}

func (m *manualClock) Advance(d time.Duration) {
	m.now += d
	var keep []timer
	for _, t := range m.pending {
		if t.at <= m.now {
			t.fn()
			continue
		}
		keep = append(keep, t)
	}
	m.pending = keep
}

func loadSignup(t *testing.T) *FormDef {
	t.Helper()
	raw, err := os.ReadFile("testdata/forms/signup.yaml")
	require.NoError(t, err)
	fd, err := ParseFormDef(raw, "signup.yaml")
	require.NoError(t, err)
	return fd
}

func newRig(t *testing.T, opts ...Option) (*Controller, *page.Page, *manualClock) {
	t.Helper()
	fd := loadSignup(t)
	p := page.New(fd.Keys()...)
	clk := &manualClock{}
	opts = append([]Option{WithScheduler(clk), WithLogger(zap.NewNop().Sugar())}, opts...)
	c := NewController(fd, p, opts...)
	c.Bind()
	return c, p, clk
}

func fillValid(p *page.Page) {
	p.SetValue("name", "Ada Lovelace")
	p.SetValue("email", "ada@example.com")
	p.SetValue("password", "Abcdefg1")
	p.SetValue("confirmPassword", "Abcdefg1")
}

func TestBlur_TouchesOnlyItsField(t *testing.T) {
	_, p, _ := newRig(t)
	p.SetError("email", "stale")

	require.True(t, p.Dispatch(EventBlur, "name"))

	assert.Equal(t, validate.MsgNameRequired, p.Error("name"))
	assert.Equal(t, "stale", p.Error("email"))
	assert.Equal(t, "", p.Error("password"))
}

func TestBlur_ConfirmReadsPasswordControl(t *testing.T) {
	c, p, _ := newRig(t)
	p.SetValue("password", "Abcdefg1")
	p.SetValue("confirmPassword", "Other1aa")

	r := c.Blur("confirmPassword")
	assert.Equal(t, validate.MismatchError, r.Kind)
	assert.Equal(t, validate.MsgConfirmMismatch, p.Error("confirmPassword"))

	p.SetValue("confirmPassword", "Abcdefg1")
	assert.True(t, c.Blur("confirmPassword").OK())
	assert.Equal(t, "", p.Error("confirmPassword"))
}

func TestBlur_UnknownField(t *testing.T) {
	c, p, _ := newRig(t)
	assert.True(t, c.Blur("phone").OK())
	assert.False(t, p.Dispatch(EventBlur, "phone"))
}

func TestSubmit_AllValid(t *testing.T) {
	_, p, clk := newRig(t)
	fillValid(p)
	p.SetError("name", "stale")

	require.True(t, p.Dispatch(EventSubmit, "test/signup"))

	snap := p.Snapshot()
	assert.True(t, snap.Notice, "notice visible immediately")
	for _, ctl := range snap.Controls {
		assert.Emptyf(t, ctl.Value, "%s cleared", ctl.Key)
		assert.Emptyf(t, ctl.Error, "%s has no error", ctl.Key)
	}

	clk.Advance(4999 * time.Millisecond)
	assert.True(t, p.NoticeVisible(), "still visible before the delay")
	clk.Advance(time.Millisecond)
	assert.False(t, p.NoticeVisible(), "hidden after 5000 ms")
}

func TestSubmit_InvalidKeepsNoticeHidden(t *testing.T) {
	c, p, clk := newRig(t)
	fillValid(p)
	p.SetValue("email", "abc")
	p.SetValue("confirmPassword", "Other1aa")

	out := c.Submit()

	assert.False(t, out.Valid)
	assert.Equal(t, map[string]string{
		"email":           validate.MsgEmailFormat,
		"confirmPassword": validate.MsgConfirmMismatch,
	}, out.Errors)
	assert.False(t, p.NoticeVisible())
	assert.Empty(t, clk.pending, "no hide scheduled")

	assert.Equal(t, "", p.Error("name"))
	assert.Equal(t, "", p.Error("password"))
	assert.Equal(t, validate.MsgEmailFormat, p.Error("email"))
	assert.Equal(t, "Ada Lovelace", p.Value("name"), "values kept on failure")
}

func TestSubmit_RepeatedTimersAreHarmless(t *testing.T) {
	c, p, clk := newRig(t)

	fillValid(p)
	require.True(t, c.Submit().Valid)
	clk.Advance(3 * time.Second)

	fillValid(p)
	require.True(t, c.Submit().Valid)
	require.Len(t, clk.pending, 2)

	// First timer hides the notice even though the second submit re-showed it.
	clk.Advance(2 * time.Second)
	assert.False(t, p.NoticeVisible())

	clk.Advance(3 * time.Second)
	assert.False(t, p.NoticeVisible())
	assert.Empty(t, clk.pending)
}

func TestSubmit_CustomDelay(t *testing.T) {
	c, p, clk := newRig(t, WithNoticeDelay(time.Second), WithNoticeDelay(-1))
	fillValid(p)
	c.Submit()
	clk.Advance(time.Second)
	assert.False(t, p.NoticeVisible())
}

func TestSubmit_LogsMaskedPassword(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c, p, _ := newRig(t, WithLogger(zap.New(core).Sugar()))
	fillValid(p)
	p.SetValue("email", "<i>ada@example.com</i>")

	require.True(t, c.Submit().Valid)

	entries := logs.FilterMessage("form submitted").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "***", fields["password"])
	assert.Equal(t, "***", fields["confirmPassword"])
	assert.Equal(t, "ada@example.com", fields["email"])
}

func TestRealScheduler(t *testing.T) {
	done := make(chan struct{})
	realScheduler.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler never fired")
	}
}
