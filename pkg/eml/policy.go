package eml

import (
	"fmt"
	"regexp"
	"strings"
)

// LTERPackageIDPattern is the packageId pattern for the "lter" system.
const LTERPackageIDPattern = `^knb-lter-[a-z]{3}\.\d+\.\d+$`

// DefaultAcceptedNamespaces lists the EML namespaces that pass the
// emlVersion check. Only the two newest supported versions are accepted.
var DefaultAcceptedNamespaces = []string{
	"eml://ecoinformatics.org/eml-2.1.0",
	"eml://ecoinformatics.org/eml-2.1.1",
}

// Policy holds the configurable acceptance rules for dataset-level checks.
type Policy struct {
	// AcceptedNamespaces is the emlVersion allow-list.
	AcceptedNamespaces []string

	// PackageIDPatterns maps a lower-cased system name to its packageId pattern.
	// Systems without a pattern accept any packageId.
	PackageIDPatterns map[string]*regexp.Regexp
}

// DefaultPolicy returns the base policy: the two newest EML namespaces and
// the LTER packageId pattern.
func DefaultPolicy() Policy {
	return Policy{
		AcceptedNamespaces: append([]string(nil), DefaultAcceptedNamespaces...),
		PackageIDPatterns: map[string]*regexp.Regexp{
			"lter": regexp.MustCompile(LTERPackageIDPattern),
		},
	}
}

// NewPolicy compiles a policy from configuration values.
// A nil namespaces slice keeps the default allow-list; a nil patterns map
// keeps the default patterns.
func NewPolicy(namespaces []string, patterns map[string]string) (Policy, error) {
	p := DefaultPolicy()
	if namespaces != nil {
		p.AcceptedNamespaces = append([]string(nil), namespaces...)
	}
	if patterns != nil {
		p.PackageIDPatterns = make(map[string]*regexp.Regexp, len(patterns))
		for system, expr := range patterns {
			re, err := regexp.Compile(expr)
			if err != nil {
				return Policy{}, fmt.Errorf("invalid packageId pattern for system %q: %w", system, err)
			}
			p.PackageIDPatterns[strings.ToLower(system)] = re
		}
	}
	return p, nil
}

// AcceptsNamespace reports whether ns is on the allow-list.
func (p Policy) AcceptsNamespace(ns string) bool {
	for _, accepted := range p.AcceptedNamespaces {
		if ns == accepted {
			return true
		}
	}
	return false
}

// ValidPackageID reports whether id conforms to the pattern declared for
// system. Systems without a declared pattern accept every id.
func (p Policy) ValidPackageID(system, id string) bool {
	re, ok := p.PackageIDPatterns[strings.ToLower(system)]
	if !ok || re == nil {
		return true
	}
	return re.MatchString(id)
}
