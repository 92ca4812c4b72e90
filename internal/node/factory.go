package node

import "fmt"

// New builds a Definition from the supplied metadata and schemas. It
// performs no validation beyond checking that the fields required to make
// the definition usable are present; structural validity of the schemas
// themselves is the caller's responsibility.
func New(d Definition) (*Definition, error) {
	if d.Type == "" {
		return nil, fmt.Errorf("node definition: type is required")
	}
	if d.Name == "" {
		return nil, fmt.Errorf("node definition %q: name is required", d.Type)
	}
	if d.Executor == nil {
		return nil, fmt.Errorf("node definition %q: executor is required", d.Type)
	}
	if d.Category == "" {
		d.Category = CategoryAction
	}
	def := d
	return &def, nil
}

// MustNew is New, panicking on error. Intended for module-init-time
// registration where a malformed definition is a programming error.
func MustNew(d Definition) *Definition {
	def, err := New(d)
	if err != nil {
		panic(err)
	}
	return def
}
