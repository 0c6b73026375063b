package widget

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stub struct {
	id  string
	out template.HTML
}

func (s stub) ID() string { return s.id }
func (s stub) Render(any, map[string]any) (template.HTML, error) {
	return s.out, nil
}

func TestRegistry(t *testing.T) {
	Register(stub{id: "test/b", out: "b"})
	Register(stub{id: "test/a", out: "a1"})
	Register(stub{id: "test/a", out: "a2"})

	w := Lookup("test/a")
	if assert.NotNil(t, w) {
		html, err := w.Render(nil, nil)
		assert.NoError(t, err)
		assert.Equal(t, template.HTML("a2"), html, "later registration wins")
	}
	assert.Nil(t, Lookup("test/missing"))

	var ids []string
	for _, w := range All() {
		ids = append(ids, w.ID())
	}
	assert.Subset(t, ids, []string{"test/a", "test/b"})
	assert.IsIncreasing(t, ids)
}
