// Package config loads emlquality settings from defaults, emlquality.yaml,
// EMLQ_ environment variables and command-line flags.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	// Templates is a YAML template file replacing the built-in checks.
	Templates          string            `koanf:"templates"`
	AcceptedNamespaces []string          `koanf:"accepted_namespaces"`
	PackageIDPatterns  map[string]string `koanf:"package_id_patterns"`
	Checks             ChecksConfig      `koanf:"checks"`
	Schema             SchemaConfig      `koanf:"schema"`
	Dereference        DereferenceConfig `koanf:"dereference"`
	StatePath          string            `koanf:"state_path"`
	OutputFormat       string            `koanf:"output"`
	Verbose            bool              `koanf:"verbose"`
	Workers            int               `koanf:"workers"`
	Timeout            time.Duration     `koanf:"timeout"`
	Server             ServerConfig      `koanf:"server"`

	// ProjectRoot is the directory holding the config file, or the
	// working directory when there is none.
	ProjectRoot string `koanf:"-"`
}

// ChecksConfig selects checks and overrides severities.
type ChecksConfig struct {
	Disabled []string          `koanf:"disabled"`
	Severity map[string]string `koanf:"severity"`
}

// SchemaConfig configures schema validation.
type SchemaConfig struct {
	Validator   string `koanf:"validator"` // auto | xsd | xmllint | none
	XMLLintPath string `koanf:"xmllint_path"`
	Dir         string `koanf:"dir"`
}

// DereferenceConfig configures the dereferencing stylesheet.
type DereferenceConfig struct {
	Stylesheet   string `koanf:"stylesheet"`
	XSLTProcPath string `koanf:"xsltproc_path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// Schema validator names. ValidatorAuto picks ValidatorXSD when a schema
// directory is configured and ValidatorNone otherwise.
const (
	ValidatorAuto    = "auto"
	ValidatorXSD     = "xsd"
	ValidatorXMLLint = "xmllint"
	ValidatorNone    = "none"
)

// Validators lists the accepted schema.validator values.
var Validators = []string{ValidatorAuto, ValidatorXSD, ValidatorXMLLint, ValidatorNone}

// EffectiveValidator resolves ValidatorAuto against the schema directory.
func (s SchemaConfig) EffectiveValidator() string {
	if s.Validator != ValidatorAuto && s.Validator != "" {
		return s.Validator
	}
	if s.Dir == "" {
		return ValidatorNone
	}
	return ValidatorXSD
}

// Default configuration values.
const (
	DefaultStateFile  = ".emlquality/state.db"
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultValidator  = ValidatorAuto
	DefaultWorkers    = 4
	DefaultTimeout    = 30 * time.Second
	DefaultServerAddr = ":8080"
	EnvPrefix         = "EMLQ_"
)
