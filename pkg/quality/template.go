package quality

import (
	"strings"

	"github.com/leapstack-labs/emlquality/pkg/core"
)

// CheckType groups templates by what they inspect.
type CheckType string

// Check type constants.
const (
	TypeMetadata   CheckType = "metadata"
	TypeCongruency CheckType = "congruency"
	TypeData       CheckType = "data"
)

// Scope says where a check's outcome is recorded.
type Scope string

// Scope constants.
const (
	ScopeDataset Scope = "dataset"
	ScopeEntity  Scope = "entity"
)

// Template is the static definition of a quality check.
// Templates are values; a Registry never hands out a pointer into its storage.
type Template struct {
	Identifier  string        `yaml:"identifier" json:"identifier"`
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	Type        CheckType     `yaml:"type" json:"type"`
	Scope       Scope         `yaml:"scope" json:"scope"`
	Severity    core.Severity `yaml:"severity" json:"severity"`
	Systems     []string      `yaml:"systems" json:"systems,omitempty"`   // empty means every system
	Requires    []string      `yaml:"requires" json:"requires,omitempty"` // inputs that must be present
	Expected    string        `yaml:"expected" json:"expected,omitempty"`
	Explanation string        `yaml:"explanation" json:"explanation,omitempty"`
	Suggestion  string        `yaml:"suggestion" json:"suggestion,omitempty"`
	Reference   string        `yaml:"reference" json:"reference,omitempty"`
}

// AppliesTo reports whether the template is declared for the given system.
// System names compare case-insensitively.
func (t Template) AppliesTo(system string) bool {
	if len(t.Systems) == 0 {
		return true
	}
	for _, s := range t.Systems {
		if s == "*" || strings.EqualFold(s, system) {
			return true
		}
	}
	return false
}

// clone returns a copy that shares no slices with t.
func (t Template) clone() Template {
	c := t
	if t.Systems != nil {
		c.Systems = append([]string(nil), t.Systems...)
	}
	if t.Requires != nil {
		c.Requires = append([]string(nil), t.Requires...)
	}
	return c
}
