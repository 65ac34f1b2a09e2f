package registry

import (
	"fmt"
	"sort"
)

// Attribute is a member every document of a kind must carry.
type Attribute struct {
	Name string
	// Type is the JSON type name as reported by docval.TypeName.
	Type string
}

// Kind describes one step kind.
type Kind struct {
	Name        string
	Description string
	Required    []Attribute
}

// Registry holds the known step kinds for a single application instance.
type Registry struct {
	kinds  map[string]*Kind
	strict bool
}

// New creates an empty Registry. A strict registry rejects steps whose kind
// is not registered; a lenient one only warns about them.
func New(strict bool) *Registry {
	return &Registry{
		kinds:  make(map[string]*Kind),
		strict: strict,
	}
}

// RegisterKind adds a kind. Registering the same name twice is a
// programming error and panics.
func (r *Registry) RegisterKind(k Kind) {
	if k.Name == "" {
		panic("registry: kind name must not be empty")
	}
	if _, exists := r.kinds[k.Name]; exists {
		panic(fmt.Sprintf("registry: kind %q registered twice", k.Name))
	}
	r.kinds[k.Name] = &k
}

// Lookup returns the kind registered under name.
func (r *Registry) Lookup(name string) (*Kind, bool) {
	k, ok := r.kinds[name]
	return k, ok
}

// Kinds returns the registered kind names in lexical order.
func (r *Registry) Kinds() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Strict reports whether unknown kinds are rejected.
func (r *Registry) Strict() bool {
	return r.strict
}
