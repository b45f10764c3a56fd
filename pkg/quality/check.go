package quality

import "github.com/leapstack-labs/emlquality/pkg/core"

// Check is one evaluated instance of a template.
type Check struct {
	identifier  string
	name        string
	description string
	checkType   CheckType
	system      string
	severity    core.Severity
	expected    string
	reference   string

	found       string
	status      Status
	explanation string
	suggestion  string
}

// NewCheck creates a not-run check from a template.
// The template explanation and suggestion are kept until the check passes.
func NewCheck(t Template, system string, cfg *Config) *Check {
	return &Check{
		identifier:  t.Identifier,
		name:        t.Name,
		description: t.Description,
		checkType:   t.Type,
		system:      system,
		severity:    cfg.GetSeverity(t.Identifier, t.Severity),
		expected:    t.Expected,
		reference:   t.Reference,
		explanation: t.Explanation,
		suggestion:  t.Suggestion,
	}
}

func (c *Check) Identifier() string      { return c.identifier }
func (c *Check) Name() string            { return c.name }
func (c *Check) Description() string     { return c.description }
func (c *Check) Type() CheckType         { return c.checkType }
func (c *Check) System() string          { return c.system }
func (c *Check) Severity() core.Severity { return c.severity }
func (c *Check) Expected() string        { return c.expected }
func (c *Check) Reference() string       { return c.reference }
func (c *Check) Found() string           { return c.found }
func (c *Check) Status() Status          { return c.status }
func (c *Check) Explanation() string     { return c.explanation }
func (c *Check) Suggestion() string      { return c.suggestion }

// Decided reports whether the check has run.
func (c *Check) Decided() bool {
	return c.status != StatusNotRun
}

// Failed reports whether the check ran and failed.
func (c *Check) Failed() bool {
	return c.status == StatusFailed
}

// SetFound records the observed value. Ignored once the check is decided.
func (c *Check) SetFound(found string) {
	if c.Decided() {
		return
	}
	c.found = found
}

// Pass marks the check valid and clears explanation and suggestion.
// Returns false if the check was already decided.
func (c *Check) Pass() bool {
	if c.Decided() {
		return false
	}
	c.status = StatusValid
	c.explanation = ""
	c.suggestion = ""
	return true
}

// Fail marks the check failed, keeping the template explanation and suggestion.
// Returns false if the check was already decided.
func (c *Check) Fail() bool {
	if c.Decided() {
		return false
	}
	c.status = StatusFailed
	return true
}

// Resolve passes the check when ok is true and fails it otherwise.
func (c *Check) Resolve(ok bool) bool {
	if ok {
		return c.Pass()
	}
	return c.Fail()
}

// CheckResult is the serialisable view of a Check.
type CheckResult struct {
	Identifier  string        `json:"identifier"`
	Name        string        `json:"name"`
	Type        CheckType     `json:"type,omitempty"`
	System      string        `json:"system,omitempty"`
	Severity    core.Severity `json:"severity"`
	Expected    string        `json:"expected,omitempty"`
	Found       string        `json:"found"`
	Status      Status        `json:"status"`
	Explanation string        `json:"explanation,omitempty"`
	Suggestion  string        `json:"suggestion,omitempty"`
	Reference   string        `json:"reference,omitempty"`
}

// Result returns the serialisable view of the check.
func (c *Check) Result() CheckResult {
	return CheckResult{
		Identifier:  c.identifier,
		Name:        c.name,
		Type:        c.checkType,
		System:      c.system,
		Severity:    c.severity,
		Expected:    c.expected,
		Found:       c.found,
		Status:      c.status,
		Explanation: c.explanation,
		Suggestion:  c.suggestion,
		Reference:   c.reference,
	}
}

// Results converts checks to their serialisable views.
func Results(checks []*Check) []CheckResult {
	out := make([]CheckResult, 0, len(checks))
	for _, c := range checks {
		out = append(out, c.Result())
	}
	return out
}
