package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/emlquality/internal/cli/config"
	"github.com/leapstack-labs/emlquality/internal/cli/testutil"
	"github.com/leapstack-labs/emlquality/pkg/core"
	"github.com/leapstack-labs/emlquality/pkg/eml"
	"github.com/leapstack-labs/emlquality/pkg/eml/xmltools"
	"github.com/leapstack-labs/emlquality/pkg/quality"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssessCommand(t *testing.T) {
	cmd := NewAssessCommand()

	assert.Equal(t, "assess <file>...", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range []string{"watch", "save", "fail-on-error", "system"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Equal(t, "true", cmd.Flags().Lookup("fail-on-error").DefValue)
}

func TestNewHistoryCommand(t *testing.T) {
	cmd := NewHistoryCommand()

	assert.Equal(t, "history [package-id]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("limit"))
	assert.NotNil(t, cmd.Flags().Lookup("failures"))
}

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("addr"))
}

func TestCollectDocuments(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.WriteFile(filepath.Join(docs, "notes.txt"), []byte("x"), 0600))
	require.NoError(t, os.Mkdir(filepath.Join(docs, "nested.xml"), 0750))

	files, err := collectDocuments([]string{docs})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(docs, "problems.xml"),
		filepath.Join(docs, "valid.xml"),
	}, files)

	single := filepath.Join(docs, "valid.xml")
	files, err = collectDocuments([]string{single})
	require.NoError(t, err)
	assert.Equal(t, []string{single}, files)

	_, err = collectDocuments([]string{filepath.Join(dir, "missing.xml")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = collectDocuments([]string{t.TempDir()})
	assert.ErrorContains(t, err, "no EML documents found")
}

func TestBuildChecksConfig(t *testing.T) {
	checks, err := buildChecksConfig(config.ChecksConfig{
		Disabled: []string{eml.CheckMethodsElementPresent},
		Severity: map[string]string{eml.CheckEmlVersion: "error"},
	})
	require.NoError(t, err)

	assert.True(t, checks.IsDisabled(eml.CheckMethodsElementPresent))
	assert.False(t, checks.IsDisabled(eml.CheckEmlVersion))
	assert.Equal(t, core.SeverityError, checks.GetSeverity(eml.CheckEmlVersion, core.SeverityWarning))

	_, err = buildChecksConfig(config.ChecksConfig{Severity: map[string]string{eml.CheckEmlVersion: "fatal"}})
	assert.ErrorContains(t, err, "invalid severity")
}

func TestBuildEngineConfig(t *testing.T) {
	t.Run("xmllint and xsltproc", func(t *testing.T) {
		cfg := &config.Config{
			Schema:      config.SchemaConfig{Validator: config.ValidatorXMLLint, XMLLintPath: "/opt/xmllint", Dir: "/schemas"},
			Dereference: config.DereferenceConfig{Stylesheet: "/deref.xsl"},
			Workers:     3,
			Timeout:     time.Second,
		}
		engCfg, err := buildEngineConfig(cfg, nil)
		require.NoError(t, err)

		lint, ok := engCfg.SchemaValidator.(*xmltools.XMLLint)
		require.True(t, ok)
		assert.Equal(t, "/opt/xmllint", lint.Path)
		assert.Equal(t, "/schemas", lint.SchemaDir)

		deref, ok := engCfg.Dereferencer.(*xmltools.XSLTProc)
		require.True(t, ok)
		assert.Equal(t, "/deref.xsl", deref.Stylesheet)

		assert.Equal(t, 3, engCfg.Workers)
		assert.Equal(t, time.Second, engCfg.Timeout)
		assert.Nil(t, engCfg.Registry, "built-in templates")
		assert.Empty(t, engCfg.StatePath)
	})

	t.Run("validation disabled", func(t *testing.T) {
		engCfg, err := buildEngineConfig(&config.Config{Schema: config.SchemaConfig{Validator: config.ValidatorNone}}, nil)
		require.NoError(t, err)
		assert.Nil(t, engCfg.SchemaValidator)
		assert.Nil(t, engCfg.Dereferencer)
	})

	t.Run("auto validator", func(t *testing.T) {
		engCfg, err := buildEngineConfig(&config.Config{Schema: config.SchemaConfig{Validator: config.ValidatorAuto}}, nil)
		require.NoError(t, err)
		assert.Nil(t, engCfg.SchemaValidator, "no schema dir")

		engCfg, err = buildEngineConfig(&config.Config{Schema: config.SchemaConfig{Validator: config.ValidatorAuto, Dir: "/schemas"}}, nil)
		require.NoError(t, err)
		v, ok := engCfg.SchemaValidator.(*xmltools.XSD)
		require.True(t, ok)
		assert.Equal(t, "/schemas", v.SchemaDir)
	})

	t.Run("policy", func(t *testing.T) {
		engCfg, err := buildEngineConfig(&config.Config{
			AcceptedNamespaces: []string{"eml://ecoinformatics.org/eml-2.0.1"},
			PackageIDPatterns:  map[string]string{"knb": `^knb\.\d+$`},
		}, nil)
		require.NoError(t, err)
		require.NotNil(t, engCfg.Policy)
		assert.True(t, engCfg.Policy.AcceptsNamespace("eml://ecoinformatics.org/eml-2.0.1"))
		assert.False(t, engCfg.Policy.ValidPackageID("knb", "knb-lter-sev.1.1"))
		assert.True(t, engCfg.Policy.ValidPackageID("lter", "anything"), "patterns replace the defaults")
	})

	t.Run("templates file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "templates.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`checks:
  - identifier: custom
    name: Custom
    scope: dataset
    type: metadata
    severity: info
`), 0600))

		engCfg, err := buildEngineConfig(&config.Config{Templates: path}, nil)
		require.NoError(t, err)
		require.NotNil(t, engCfg.Registry)
		assert.True(t, engCfg.Registry.Has("custom"))
	})

	t.Run("errors", func(t *testing.T) {
		_, err := buildEngineConfig(&config.Config{Templates: filepath.Join(t.TempDir(), "missing.yaml")}, nil)
		assert.ErrorContains(t, err, "failed to load templates")

		_, err = buildEngineConfig(&config.Config{PackageIDPatterns: map[string]string{"lter": "("}}, nil)
		assert.Error(t, err)
	})
}

func TestSortFailures(t *testing.T) {
	got := sortFailures(map[string]int{"b": 2, "a": 2, "c": 5})
	assert.Equal(t, []FailureCount{{"c", 5}, {"a", 2}, {"b", 2}}, got)
}

func TestRenderChecks(t *testing.T) {
	reg, err := quality.DefaultRegistry()
	require.NoError(t, err)

	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, renderChecks(tr.Renderer, reg.All()))
	assert.Contains(t, tr.Output(), "# Quality checks")
	assert.Contains(t, tr.Output(), eml.CheckAttributeNamesUnique)
	testutil.AssertValidMarkdown(t, tr.Output())

	tr = testutil.NewTestRendererJSON()
	tmpl, err := reg.Lookup(eml.CheckEmlVersion)
	require.NoError(t, err)
	require.NoError(t, renderCheck(tr.Renderer, tmpl))
	assert.Contains(t, tr.Output(), `"identifier": "`+eml.CheckEmlVersion+`"`)
}

func TestBuildTables(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	out, err := buildTables(filepath.Join(dir, "docs", "problems.xml"))
	require.NoError(t, err)
	require.Len(t, out.Tables, 2)
	assert.Equal(t, "counts", out.Tables[0].Table)
	assert.Equal(t, "counts_2", out.Tables[1].Table)
	assert.Equal(t, "counts, counts_2", out.From)
	assert.Empty(t, out.Error)

	unnamed := filepath.Join(dir, "unnamed.xml")
	require.NoError(t, os.WriteFile(unnamed, []byte(`<eml:eml xmlns:eml="eml://ecoinformatics.org/eml-2.1.1">
  <dataset><dataTable id="a"/><otherEntity><entityName>Sites</entityName></otherEntity></dataset>
</eml:eml>`), 0600))
	out, err = buildTables(unnamed)
	require.NoError(t, err)
	require.Len(t, out.Tables, 2)
	assert.Contains(t, out.Tables[0].Error, "database table name is missing")
	assert.Equal(t, "sites", out.Tables[1].Table)
	assert.Empty(t, out.From)
	assert.NotEmpty(t, out.Error)

	_, err = buildTables(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}

func TestRenderTables(t *testing.T) {
	out := &TablesOutput{
		Source: "doc.xml",
		Tables: []TableOutput{{Entity: "Observations", Type: "dataTable", Table: "observations"}},
		From:   "observations",
	}

	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, renderTables(tr.Renderer, out))
	assert.Contains(t, tr.Output(), "# doc.xml")
	assert.Contains(t, tr.Output(), "| Observations | dataTable | observations |")
	assert.Contains(t, tr.Output(), "- **FROM:** observations")
	testutil.AssertValidMarkdown(t, tr.Output())

	out.From = ""
	out.Error = "unwell-formed query"
	tr = testutil.NewTestRendererMarkdown()
	require.NoError(t, renderTables(tr.Renderer, out))
	assert.NotContains(t, tr.Output(), "FROM")
	assert.Contains(t, tr.ErrorOutput(), "FROM clause unavailable")
}
