// internal/form/renderer.go
//
// Forms subsystem: HTML renderer.
//
// Context
//   Given a FormDef and a snapshot of the page controls, the renderer writes
//   one labelled input per field plus the field's error slot.  Inputs carry
//   htmx attributes so a blur posts the whole form to the field's blur URL
//   and swaps the returned slot in place.  Without JavaScript the attributes
//   are inert and the surrounding <form> posts normally.
//
// Style
//   Output HTML is deliberately plain – no framework classes – so the page
//   stylesheet targets `.form-group`, `.error-message`, and ids.  Each input
//   gets id="{name}" and its slot id="{name}Error".
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"

	"github.com/yanizio/interactive/internal/page"
)

// RenderOptions bundles optional parameters influencing HTML output.
type RenderOptions struct {
	// BlurURL returns the endpoint a field posts to on blur.  Nil disables
	// the htmx wiring.
	BlurURL func(field string) string
}

// RenderFields returns the markup for every field in fd, prefilled from
// snap.  Password inputs are never prefilled.
func RenderFields(fd *FormDef, snap page.Snapshot, opts RenderOptions) template.HTML {
	var buf bytes.Buffer
	for _, f := range fd.Fields {
		c, _ := snap.Control(f.Name)
		writeField(&buf, f, c, opts)
	}
	return template.HTML(buf.String())
}

// ErrorSlot returns the error <span> for f.  Blur responses swap it in.
func ErrorSlot(f FieldDef, msg string) template.HTML {
	var buf bytes.Buffer
	writeSlot(&buf, f, msg)
	return template.HTML(buf.String())
}

// writeField emits one field wrapped in <div class="form-group">.
func writeField(buf *bytes.Buffer, f FieldDef, c page.Control, opts RenderOptions) {
	name := html.EscapeString(f.Name)

	buf.WriteString(`<div class="form-group">` + "\n")
	buf.WriteString(`<label for="` + name + `">` + html.EscapeString(f.Label) + `</label>` + "\n")

	buf.WriteString(`<input id="` + name + `" name="` + name + `" type="` + f.Type + `"`)
	if f.Placeholder != "" {
		buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
	}
	if f.Autocomplete != "" {
		buf.WriteString(` autocomplete="` + html.EscapeString(f.Autocomplete) + `"`)
	}
	if c.Value != "" && f.Type != "password" {
		buf.WriteString(` value="` + html.EscapeString(c.Value) + `"`)
	}
	if c.Error != "" {
		buf.WriteString(` aria-invalid="true"`)
	}
	buf.WriteString(` aria-describedby="` + html.EscapeString(f.ErrorID()) + `"`)
	if opts.BlurURL != nil {
		fmt.Fprintf(buf, ` hx-post="%s" hx-trigger="blur" hx-target="#%s" hx-swap="outerHTML" hx-include="closest form"`,
			html.EscapeString(opts.BlurURL(f.Name)), html.EscapeString(f.ErrorID()))
	}
	buf.WriteString(`>` + "\n")

	writeSlot(buf, f, c.Error)
	buf.WriteString(`</div>` + "\n")
}

// writeSlot emits the error message span, empty when the field is valid.
func writeSlot(buf *bytes.Buffer, f FieldDef, msg string) {
	buf.WriteString(`<span id="` + html.EscapeString(f.ErrorID()) + `" class="error-message" aria-live="polite">`)
	buf.WriteString(html.EscapeString(msg))
	buf.WriteString(`</span>` + "\n")
}
