package quality

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var defaultTemplatesYAML []byte

// templateFile is the on-disk layout of a template definition file.
type templateFile struct {
	Checks []Template `yaml:"checks"`
}

// LoadTemplates decodes a YAML template file and builds a registry from it.
func LoadTemplates(r io.Reader) (*Registry, error) {
	var tf templateFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&tf); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("template file is empty")
		}
		return nil, fmt.Errorf("failed to decode templates: %w", err)
	}
	return NewRegistry(tf.Checks...)
}

// LoadTemplatesFile loads templates from a YAML file on disk.
func LoadTemplatesFile(path string) (*Registry, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from trusted configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open template file: %w", err)
	}
	defer f.Close()

	reg, err := LoadTemplates(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// DefaultRegistry returns a registry holding the built-in templates.
func DefaultRegistry() (*Registry, error) {
	return LoadTemplates(bytes.NewReader(defaultTemplatesYAML))
}
