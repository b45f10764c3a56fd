// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/emlquality/internal/cli/output"
)

// ValidDocument is an EML document that passes every check.
const ValidDocument = `<?xml version="1.0" encoding="UTF-8"?>
<eml:eml xmlns:eml="eml://ecoinformatics.org/eml-2.1.1" packageId="knb-lter-sev.12.3" system="lter">
  <dataset>
    <title>Sevilleta meteorological observations</title>
    <methods><methodStep><description><para>Hourly readings.</para></description></methodStep></methods>
    <dataTable id="obs">
      <entityName>Observations</entityName>
      <attributeList>
        <attribute id="obs.date"><attributeName>date</attributeName></attribute>
        <attribute id="obs.temp"><attributeName>air_temp</attributeName></attribute>
      </attributeList>
    </dataTable>
  </dataset>
</eml:eml>
`

// ProblemDocument is an EML document with dataset and entity failures.
const ProblemDocument = `<?xml version="1.0" encoding="UTF-8"?>
<eml:eml xmlns:eml="eml://ecoinformatics.org/eml-2.0.1" packageId="sev.12" system="lter">
  <dataset>
    <dataTable>
      <entityName>Counts</entityName>
      <attributeList>
        <attribute><attributeName>n</attributeName></attribute>
        <attribute><attributeName>n</attributeName></attribute>
      </attributeList>
    </dataTable>
    <dataTable><entityName>Counts</entityName></dataTable>
  </dataset>
</eml:eml>
`

// ProjectConfig disables the external tools so tests run without xmllint.
const ProjectConfig = `schema:
  validator: none
state_path: state/emlquality.db
output: markdown
`

// SetupTestProject creates a temporary project with an emlquality.yaml and
// two documents under docs/: valid.xml and problems.xml.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	docs := filepath.Join(tmpDir, "docs")
	if err := os.MkdirAll(docs, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", docs, err)
	}

	files := map[string]string{
		filepath.Join(tmpDir, "emlquality.yaml"): ProjectConfig,
		filepath.Join(docs, "valid.xml"):         ValidDocument,
		filepath.Join(docs, "problems.xml"):      ProblemDocument,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", path, err)
		}
	}

	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation: balanced code
// fences and no empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
