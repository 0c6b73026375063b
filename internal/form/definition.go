// internal/form/definition.go
//
// Forms subsystem: YAML definition loader.
//
// Context
//   Each HTML form is declared in a YAML file.  The file names the form's
//   identifier, title, button and success texts, and the ordered field list.
//   Every field carries the validation rule the controller applies to it, so
//   the renderer, the controller, and the page model all read one source of
//   truth.  Components embed their YAML and hand the filesystem to
//   RegisterFS at start-up; GetFormDef then serves read-only lookups by ID.
//
// Workflow
//   •  Structs mirror the YAML schema: FormDef → FieldDef.
//   •  ParseFormDef decodes and validates one document.
//   •  RegisterFS walks an fs.FS, loads every “*.yaml”, and adds the
//      results to the registry.  Later registrations override earlier ones.
//   •  GetFormDef offers safe, read-only access to a parsed form by ID.
//
// Style
//   Full sentences, two spaces after periods, Oxford commas.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
//
// The form is uniquely identified by ID which should be namespaced by
// component, e.g. “signup/register”.  Fields render and validate in
// declaration order.
type FormDef struct {
	ID      string     `yaml:"id"`      // Component-scoped identifier.
	Title   string     `yaml:"title"`   // Heading above the form, optional.
	Submit  string     `yaml:"submit"`  // Button label, defaults to “Submit”.
	Success string     `yaml:"success"` // Notice text shown after a valid submit.
	Fields  []FieldDef `yaml:"fields"`
}

// FieldDef describes a single input control on the form.
type FieldDef struct {
	Name         string `yaml:"name"`         // Submission key and control key.  Required.
	Label        string `yaml:"label"`        // Human-readable label.  Required.
	Type         string `yaml:"type"`         // text, email, or password.
	Placeholder  string `yaml:"placeholder"`  // Optional placeholder text.
	Rule         string `yaml:"rule"`         // name, email, password, or confirm.
	Match        string `yaml:"match"`        // confirm rule only: field to repeat.
	Autocomplete string `yaml:"autocomplete"` // Optional autocomplete hint.
}

// ErrorID returns the DOM id of the field's error slot.
func (f FieldDef) ErrorID() string { return f.Name + "Error" }

// Keys returns the field names in declaration order.
func (fd *FormDef) Keys() []string {
	out := make([]string, len(fd.Fields))
	for i, f := range fd.Fields {
		out[i] = f.Name
	}
	return out
}

// Field returns the definition for name.
func (fd *FormDef) Field(name string) (FieldDef, bool) {
	for _, f := range fd.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDef{}, false
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

// registry maps form ID → *FormDef.  Guarded by mutex.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]*FormDef)
)

// GetFormDef returns a parsed FormDef by ID.  The boolean is false when the
// ID is unknown.
func GetFormDef(id string) (*FormDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fd, ok := registry[id]
	return fd, ok
}

// Register inserts or overrides fd in the registry.  Caller must ensure the
// FormDef passed validation.
func Register(fd *FormDef) {
	registryMu.Lock()
	registry[fd.ID] = fd
	registryMu.Unlock()
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// ParseFormDef decodes one YAML document and validates its structure.  src
// names the document in error messages.  It NEVER mutates the registry.
func ParseFormDef(raw []byte, src string) (*FormDef, error) {
	var fd FormDef
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", src, err)
	}
	if err := validateFormDef(&fd, src); err != nil {
		return nil, err
	}
	if fd.Submit == "" {
		fd.Submit = "Submit"
	}
	return &fd, nil
}

// RegisterFS loads every “*.yaml” under fsys and registers the results.  It
// returns the IDs it registered, in walk order.
func RegisterFS(fsys fs.FS) ([]string, error) {
	var ids []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
			return nil // skip non-YAML
		}
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read form file %s: %w", path, err)
		}
		fd, err := ParseFormDef(raw, path)
		if err != nil {
			return err // fail fast so issues surface loudly.
		}
		Register(fd)
		ids = append(ids, fd.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errors.New("RegisterFS: no form definitions found")
	}
	return ids, nil
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

var supportedTypes = map[string]bool{
	"text":     true,
	"email":    true,
	"password": true,
}

// validateFormDef enforces structural rules that cannot be expressed via
// YAML tags alone.  It returns a descriptive error referencing the source.
func validateFormDef(fd *FormDef, src string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", src)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields'", src)
	}

	seen := make(map[string]struct{}, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if err := validateField(f, src); err != nil {
			return err
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", src, f.Name)
		}
		// A confirm field may only point back at a field declared above it.
		if f.Rule == RuleConfirm {
			if _, ok := seen[f.Match]; !ok {
				return fmt.Errorf("form %s: field '%s' matches unknown or later field '%s'", src, f.Name, f.Match)
			}
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}

// validateField confirms that essential attributes are present and sane.
func validateField(f *FieldDef, src string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", src)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", src, f.Name)
	}
	if !supportedTypes[f.Type] {
		return fmt.Errorf("form %s: field '%s' unsupported type '%s'", src, f.Name, f.Type)
	}
	if _, ok := rules[f.Rule]; !ok {
		return fmt.Errorf("form %s: field '%s' unknown rule '%s'", src, f.Name, f.Rule)
	}
	if f.Rule == RuleConfirm && f.Match == "" {
		return fmt.Errorf("form %s: field '%s' rule confirm requires 'match'", src, f.Name)
	}
	if f.Rule != RuleConfirm && f.Match != "" {
		return fmt.Errorf("form %s: field '%s' sets 'match' without rule confirm", src, f.Name)
	}
	return nil
}
