package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/emlquality/pkg/core"
)

var validOutputs = map[string]bool{"auto": true, "text": true, "markdown": true, "json": true}

// Validate checks value ranges. Paths are checked when they are used.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if !validOutputs[c.OutputFormat] {
		return fmt.Errorf("unknown output format %q (want auto, text, markdown or json)", c.OutputFormat)
	}
	if !slices.Contains(Validators, c.Schema.Validator) {
		return fmt.Errorf("unknown schema validator %q (want one of %s)", c.Schema.Validator, strings.Join(Validators, ", "))
	}
	for id, sev := range c.Checks.Severity {
		if _, ok := core.ParseSeverity(sev); !ok {
			return fmt.Errorf("checks.severity.%s: unknown severity %q", id, sev)
		}
	}
	return nil
}
