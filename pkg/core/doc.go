// Package core defines the shared vocabulary of the quality engine.
//
// This package contains:
//   - Severity levels attached to check templates
//   - Optional, the explicit present/absent value used instead of nil strings
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
