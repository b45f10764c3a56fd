package quality

// Named inputs a template may require.
const (
	InputDocument        = "document"
	InputSchemaValidator = "schema_validator"
	InputDereferencer    = "dereferencer"
	InputReferenceParser = "reference_parser"
)

// Subject describes what a check would run against.
type Subject interface {
	// System returns the naming system of the subject, e.g. "lter".
	System() string

	// HasInput reports whether a named input is available.
	HasInput(name string) bool
}

// ShouldRun decides whether a template applies to a subject.
// It has no side effects: the same arguments always give the same answer.
func ShouldRun(t Template, s Subject, cfg *Config) bool {
	if cfg.IsDisabled(t.Identifier) {
		return false
	}
	if s == nil {
		return len(t.Systems) == 0 && len(t.Requires) == 0
	}
	if !t.AppliesTo(s.System()) {
		return false
	}
	for _, in := range t.Requires {
		if !s.HasInput(in) {
			return false
		}
	}
	return true
}

// StaticSubject is a Subject backed by fixed values.
type StaticSubject struct {
	SystemName string
	Inputs     map[string]bool
}

// System implements Subject.
func (s StaticSubject) System() string { return s.SystemName }

// HasInput implements Subject.
func (s StaticSubject) HasInput(name string) bool { return s.Inputs[name] }
