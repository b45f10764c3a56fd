package quality

import (
	"fmt"
	"strings"
)

// Status is the outcome of a quality check.
type Status int

// Check statuses. StatusNotRun is the zero value.
const (
	StatusNotRun Status = iota
	StatusValid
	StatusFailed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusNotRun:
		return "not-run"
	case StatusValid:
		return "valid"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseStatus converts a string to a Status value.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(s) {
	case "not-run", "":
		return StatusNotRun, true
	case "valid":
		return StatusValid, true
	case "failed":
		return StatusFailed, true
	default:
		return StatusNotRun, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	st, ok := ParseStatus(string(text))
	if !ok {
		return fmt.Errorf("unknown status %q", string(text))
	}
	*s = st
	return nil
}
