package xmltools

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/leapstack-labs/emlquality/pkg/eml"
)

// XMLLint validates documents with `xmllint --schema`.
type XMLLint struct {
	// Path is the xmllint binary. Defaults to "xmllint" on PATH.
	Path string
	// SchemaDir resolves relative schema locations such as "eml.xsd".
	SchemaDir string
	Logger    *slog.Logger
}

var _ eml.SchemaValidator = (*XMLLint)(nil)

// Validate implements eml.SchemaValidator. The document is read from stdin.
func (x *XMLLint) Validate(ctx context.Context, xml string, locations eml.SchemaLocations, namespace string) error {
	location, ok := locations.Lookup(namespace)
	if !ok {
		return fmt.Errorf("no schema registered for namespace '%s'", namespace)
	}
	schema, err := x.resolveLocation(location)
	if err != nil {
		return err
	}
	bin, err := resolveBinary(x.Path, "xmllint")
	if err != nil {
		return err
	}

	_, err = run(ctx, loggerOrDiscard(x.Logger), bin, xml, "--noout", "--schema", schema, "-")
	return err
}

// resolveLocation returns a URL unchanged and joins a relative path onto
// SchemaDir.
func (x *XMLLint) resolveLocation(location string) (string, error) {
	if u, err := url.Parse(location); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return location, nil
	}
	if filepath.IsAbs(location) {
		return location, nil
	}
	if x.SchemaDir == "" {
		return "", fmt.Errorf("%w: schema location %q is relative and no schema directory is configured", eml.ErrConfiguration, location)
	}
	return filepath.Join(x.SchemaDir, location), nil
}
