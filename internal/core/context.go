// internal/core/context.go
//
// Central per-request context.
//
// Context
// -------
// Every handler builds a *core.Context and passes it down to Components,
// Widgets, and templates.  It bundles:
//
//   - Request  the original *http.Request.
//   - Writer   convenience http.ResponseWriter.
//   - Info     parsed UA, geo, URL, and timestamp.
//   - Session  the visitor's live session (page, controller, widget state).
//   - Head     per-request <head> builder.
//   - CSRF     a fresh token for forms and htmx headers.
//
// Notes
// -----
// • Widgets receive the context as `any` and type-assert to *core.Context.
// • Oxford commas, two spaces after periods.
package core

import (
	"net/http"

	"github.com/yanizio/interactive/internal/head"
	"github.com/yanizio/interactive/internal/requestinfo"
	"github.com/yanizio/interactive/internal/session"
)

// Context is passed to Components, Widgets, and templates.
type Context struct {
	Request *http.Request            // Original request
	Writer  http.ResponseWriter      // Convenience writer
	Info    *requestinfo.RequestInfo // UA, Geo, URL, timestamp
	Session *session.Session         // Visitor state, never nil behind session.Middleware
	Head    *head.Builder            // Per-request <head> tags
	CSRF    string                   // Token for this render
}

// NewContext collects the request-scoped values that middleware attached.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{
		Request: r,
		Writer:  w,
		Info:    requestinfo.FromContext(r.Context()),
		Session: session.FromContext(r.Context()),
		Head:    head.New(),
	}
}

// IsHTMX reports whether the request came from htmx rather than a plain
// form post or navigation.
func (c *Context) IsHTMX() bool {
	return c.Request.Header.Get("HX-Request") == "true"
}
