// internal/view/uahelpers.go
//
// User‑Agent‑related template helpers.  They read the RequestInfo that
// requestinfo.Enrich attached and return "" when it is missing.
package view

import (
	"html/template"

	"github.com/yanizio/interactive/internal/core"
	"github.com/yanizio/interactive/internal/requestinfo"
)

func info(c *core.Context) *requestinfo.RequestInfo {
	if c == nil {
		return nil
	}
	return c.Info
}

// uaFuncMap returns helpers keyed off *core.Context.
func uaFuncMap() template.FuncMap {
	return template.FuncMap{
		"browser": func(c *core.Context) string {
			if i := info(c); i != nil {
				return i.UA.Browser
			}
			return ""
		},
		"device": func(c *core.Context) string {
			if i := info(c); i != nil {
				return i.UA.Device
			}
			return ""
		},
		"isBot": func(c *core.Context) bool {
			i := info(c)
			return i != nil && i.UA.IsBot
		},
	}
}
