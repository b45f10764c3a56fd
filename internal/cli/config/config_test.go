package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/emlquality/internal/testutil"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emlquality.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, ValidatorAuto, cfg.Schema.Validator)
	assert.Equal(t, ValidatorNone, cfg.Schema.EffectiveValidator())
	assert.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultStateFile), cfg.StatePath)
	assert.Empty(t, cfg.Templates)
	assert.Nil(t, cfg.AcceptedNamespaces)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `
templates: checks.yaml
accepted_namespaces:
  - https://eml.ecoinformatics.org/eml-2.2.0
package_id_patterns:
  edi: '^edi\.\d+\.\d+$'
checks:
  disabled: [methodsElementPresent]
  severity:
    emlVersion: error
schema:
  validator: none
  dir: schemas
dereference:
  stylesheet: /opt/eml/dereference.xsl
workers: 8
timeout: 5s
output: json
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, filepath.Join(dir, "checks.yaml"), cfg.Templates)
	assert.Equal(t, filepath.Join(dir, "schemas"), cfg.Schema.Dir)
	assert.Equal(t, "/opt/eml/dereference.xsl", cfg.Dereference.Stylesheet)
	assert.Equal(t, []string{"https://eml.ecoinformatics.org/eml-2.2.0"}, cfg.AcceptedNamespaces)
	assert.Equal(t, map[string]string{"edi": `^edi\.\d+\.\d+$`}, cfg.PackageIDPatterns)
	assert.Equal(t, []string{"methodsElementPresent"}, cfg.Checks.Disabled)
	assert.Equal(t, "error", cfg.Checks.Severity["emlVersion"])
	assert.Equal(t, ValidatorNone, cfg.Schema.Validator)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, dir, cfg.ProjectRoot)
}

func TestLoadConfig_FindsFileUpward(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "workers: 2\n")
	nested := filepath.Join(filepath.Dir(path), "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, "emlquality.yaml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_Precedence(t *testing.T) {
	tests := []struct {
		name string
		env  string
		flag string
		want int
	}{
		{name: "file only", want: 3},
		{name: "env over file", env: "5", want: 5},
		{name: "flag over env", env: "5", flag: "7", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			path := writeConfig(t, "workers: 3\n")
			if tt.env != "" {
				t.Setenv("EMLQ_WORKERS", tt.env)
			}

			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			flags.Int("workers", 0, "workers")
			if tt.flag != "" {
				require.NoError(t, flags.Set("workers", tt.flag))
			}

			cfg, err := LoadConfig(path, flags)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Workers)
		})
	}
}

func TestLoadConfig_NestedEnvAndFlagMapping(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("EMLQ_SCHEMA__XMLLINT_PATH", "/usr/local/bin/xmllint")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("state", "", "state path")
	flags.String("stylesheet", "", "stylesheet")
	flags.String("addr", "", "listen address")
	flags.StringSlice("disable", nil, "disabled checks")
	require.NoError(t, flags.Set("state", "custom.db"))
	require.NoError(t, flags.Set("stylesheet", "deref.xsl"))
	require.NoError(t, flags.Set("addr", ":9999"))
	require.NoError(t, flags.Set("disable", "emlVersion,schemaValid"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/xmllint", cfg.Schema.XMLLintPath)
	assert.Equal(t, "custom.db", cfg.StatePath)
	assert.Equal(t, "deref.xsl", cfg.Dereference.Stylesheet)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, []string{"emlVersion", "schemaValid"}, cfg.Checks.Disabled)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"zero workers", "workers: 0\n", "workers must be at least 1"},
		{"bad output", "output: html\n", "unknown output format"},
		{"bad validator", "schema:\n  validator: saxon\n", "unknown schema validator"},
		{"bad severity", "checks:\n  severity:\n    emlVersion: fatal\n", "unknown severity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := testutil.NewTestLogger(t)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestSchemaConfig_EffectiveValidator(t *testing.T) {
	tests := []struct {
		schema SchemaConfig
		want   string
	}{
		{SchemaConfig{Validator: ValidatorAuto}, ValidatorNone},
		{SchemaConfig{}, ValidatorNone},
		{SchemaConfig{Validator: ValidatorAuto, Dir: "/schemas"}, ValidatorXSD},
		{SchemaConfig{Validator: ValidatorXSD}, ValidatorXSD},
		{SchemaConfig{Validator: ValidatorXMLLint}, ValidatorXMLLint},
		{SchemaConfig{Validator: ValidatorNone, Dir: "/schemas"}, ValidatorNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.schema.EffectiveValidator(), "%+v", tt.schema)
	}
}
