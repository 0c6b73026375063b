// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, ensuring the binary never
// runs with partial, malformed, or missing configuration.
//
// Besides the built-in tags, one struct-level rule lives here: a CSRF key,
// when set, must decode to at least 32 bytes.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"encoding/base64"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterStructValidation(formLevel, Form{})
	return val
}

func formLevel(sl validator.StructLevel) {
	f := sl.Current().Interface().(Form)
	if f.CSRFKey == "" {
		return
	}
	b, err := base64.RawURLEncoding.DecodeString(f.CSRFKey)
	if err != nil || len(b) < 32 {
		sl.ReportError(f.CSRFKey, "CSRFKey", "csrf_key", "csrfkey", "")
	}
}

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
