package quality

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownCheck is returned when a check identifier has no template.
var ErrUnknownCheck = errors.New("unknown quality check")

// Registry stores check templates keyed by identifier.
// A Registry is read-only after construction and safe for concurrent use.
type Registry struct {
	templates map[string]Template
	order     []string // registration order
}

// NewRegistry builds a registry from the given templates.
// Empty or duplicate identifiers and unknown scopes are rejected.
func NewRegistry(templates ...Template) (*Registry, error) {
	r := &Registry{
		templates: make(map[string]Template, len(templates)),
		order:     make([]string, 0, len(templates)),
	}
	for _, t := range templates {
		if t.Identifier == "" {
			return nil, fmt.Errorf("template %q has no identifier", t.Name)
		}
		if _, dup := r.templates[t.Identifier]; dup {
			return nil, fmt.Errorf("duplicate template identifier %q", t.Identifier)
		}
		switch t.Scope {
		case "":
			t.Scope = ScopeDataset
		case ScopeDataset, ScopeEntity:
		default:
			return nil, fmt.Errorf("template %q has unknown scope %q (want %s or %s)",
				t.Identifier, t.Scope, ScopeDataset, ScopeEntity)
		}
		r.templates[t.Identifier] = t.clone()
		r.order = append(r.order, t.Identifier)
	}
	return r, nil
}

// Lookup returns the template for an identifier.
func (r *Registry) Lookup(identifier string) (Template, error) {
	t, ok := r.templates[identifier]
	if !ok {
		return Template{}, fmt.Errorf("%w: %q", ErrUnknownCheck, identifier)
	}
	return t.clone(), nil
}

// Has reports whether a template is registered under identifier.
func (r *Registry) Has(identifier string) bool {
	_, ok := r.templates[identifier]
	return ok
}

// All returns every template in registration order.
func (r *Registry) All() []Template {
	out := make([]Template, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.templates[id].clone())
	}
	return out
}

// ByScope returns templates recorded at the given scope, sorted by identifier.
func (r *Registry) ByScope(scope Scope) []Template {
	var out []Template
	for _, id := range r.order {
		if t := r.templates[id]; t.Scope == scope {
			out = append(out, t.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	return len(r.templates)
}
