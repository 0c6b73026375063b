package page

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage_LookupAndDisplay(t *testing.T) {
	p := New("name", "email", "name")

	require.True(t, p.Has("name"))
	require.False(t, p.Has("phone"))

	p.SetValue("name", "Ada")
	p.SetValue("phone", "ignored")
	p.SetError("email", "Email is required")

	assert.Equal(t, "Ada", p.Value("name"))
	assert.Equal(t, "", p.Value("phone"))
	assert.Equal(t, "Email is required", p.Error("email"))

	p.SetError("email", "")
	assert.Equal(t, "", p.Error("email"))
}

func TestPage_FillKeepsMissingKeys(t *testing.T) {
	p := New("name", "email")
	p.SetValue("email", "old@example.com")

	posted := map[string]string{"name": "Ada", "extra": "x"}
	p.Fill(func(k string) (string, bool) {
		v, ok := posted[k]
		return v, ok
	})

	want := Snapshot{Controls: []Control{
		{Key: "name", Value: "Ada"},
		{Key: "email", Value: "old@example.com"},
	}}
	if diff := cmp.Diff(want, p.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestPage_ClearValuesKeepsErrors(t *testing.T) {
	p := New("name")
	p.SetValue("name", "Ada")
	p.SetError("name", "boom")

	p.ClearValues()

	c, ok := p.Snapshot().Control("name")
	require.True(t, ok)
	assert.Equal(t, "", c.Value)
	assert.Equal(t, "boom", c.Error)
}

func TestPage_NoticeIdempotent(t *testing.T) {
	p := New()
	assert.False(t, p.NoticeVisible())
	p.SetNotice(true)
	assert.True(t, p.Snapshot().Notice)
	p.SetNotice(false)
	p.SetNotice(false)
	assert.False(t, p.NoticeVisible())
}

func TestPage_DispatchOrderAndReentry(t *testing.T) {
	p := New("name")
	var calls []string

	p.On("blur", "name", func() { calls = append(calls, "first") })
	p.On("blur", "name", func() {
		calls = append(calls, "second")
		p.SetError("name", "set from callback") // must not deadlock
	})
	p.On("blur", "name", nil)

	assert.True(t, p.Dispatch("blur", "name"))
	assert.False(t, p.Dispatch("blur", "email"))
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, "set from callback", p.Error("name"))
}

func TestPage_ConcurrentNoticeAndWrites(t *testing.T) {
	p := New("name")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); p.SetNotice(i%2 == 0) }()
		go func() { defer wg.Done(); p.SetValue("name", "x"); _ = p.Snapshot() }()
	}
	wg.Wait()
}
