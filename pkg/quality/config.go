package quality

import "github.com/leapstack-labs/emlquality/pkg/core"

// Config controls which checks run and their severity.
// A nil *Config runs every check at its template severity.
type Config struct {
	// DisabledChecks contains check identifiers to skip
	DisabledChecks map[string]bool

	// SeverityOverrides changes the template severity of checks
	SeverityOverrides map[string]core.Severity
}

// NewConfig creates a default configuration with all checks enabled.
func NewConfig() *Config {
	return &Config{
		DisabledChecks:    make(map[string]bool),
		SeverityOverrides: make(map[string]core.Severity),
	}
}

// IsDisabled returns true if the check should be skipped.
func (c *Config) IsDisabled(identifier string) bool {
	if c == nil {
		return false
	}
	return c.DisabledChecks[identifier]
}

// GetSeverity returns the severity for a check, applying any override.
func (c *Config) GetSeverity(identifier string, defaultSeverity core.Severity) core.Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[identifier]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// Disable disables a check by identifier.
func (c *Config) Disable(identifier string) *Config {
	c.DisabledChecks[identifier] = true
	return c
}

// SetSeverity overrides the severity for a check.
func (c *Config) SetSeverity(identifier string, severity core.Severity) *Config {
	c.SeverityOverrides[identifier] = severity
	return c
}
