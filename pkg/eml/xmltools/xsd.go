package xmltools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"
	"github.com/leapstack-labs/emlquality/pkg/eml"
)

// maxReportedViolations caps the violations joined into one error message.
const maxReportedViolations = 5

// XSD validates documents in process against schema files under SchemaDir.
//
// A relative location such as "eml.xsd" resolves at the root of SchemaDir.
// A URL location resolves to its last two path segments, so
// ".../eml-2.1.0/eml.xsd" is read from "eml-2.1.0/eml.xsd".
// Compiled schemas are cached per location.
type XSD struct {
	SchemaDir string
	// FS replaces SchemaDir when set.
	FS     fs.FS
	Logger *slog.Logger

	mu      sync.Mutex
	schemas map[string]*xsd.Schema
}

var _ eml.SchemaValidator = (*XSD)(nil)

// Validate implements eml.SchemaValidator.
func (x *XSD) Validate(ctx context.Context, xml string, locations eml.SchemaLocations, namespace string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	location, ok := locations.Lookup(namespace)
	if !ok {
		return fmt.Errorf("no schema registered for namespace '%s'", namespace)
	}

	schema, err := x.schema(location)
	if err != nil {
		return err
	}

	loggerOrDiscard(x.Logger).Debug("validating with compiled schema", "namespace", namespace, "location", location)
	if err := schema.Validate(strings.NewReader(xml)); err != nil {
		return violationError(err)
	}
	return nil
}

func (x *XSD) schema(location string) (*xsd.Schema, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if s, ok := x.schemas[location]; ok {
		return s, nil
	}

	fsys, name, err := x.resolve(location)
	if err != nil {
		return nil, err
	}
	opts := xsd.NewLoadOptions().WithAllowMissingImportLocations(true)
	s, err := xsd.LoadWithOptions(fsys, name, opts)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("schema file %s not found for location %s", name, location)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", eml.ErrConfiguration, err)
	}

	if x.schemas == nil {
		x.schemas = make(map[string]*xsd.Schema)
	}
	x.schemas[location] = s
	return s, nil
}

// resolve maps a schema location to a file system and a path inside it.
func (x *XSD) resolve(location string) (fs.FS, string, error) {
	if filepath.IsAbs(location) {
		return os.DirFS(filepath.Dir(location)), filepath.Base(location), nil
	}

	fsys := x.FS
	if fsys == nil {
		if x.SchemaDir == "" {
			return nil, "", fmt.Errorf("%w: no schema directory is configured for location %q", eml.ErrConfiguration, location)
		}
		fsys = os.DirFS(x.SchemaDir)
	}
	return fsys, SchemaPath(location), nil
}

// SchemaPath returns the path a schema location is read from inside a
// schema directory.
func SchemaPath(location string) string {
	if u, err := url.Parse(location); err == nil && len(u.Scheme) > 1 {
		dir, file := path.Split(strings.TrimSuffix(u.Path, "/"))
		if dir == "" || dir == "/" {
			return file
		}
		return path.Join(path.Base(dir), file)
	}
	return path.Clean(filepath.ToSlash(location))
}

func violationError(err error) error {
	violations, ok := xsderrors.AsValidations(err)
	if !ok || len(violations) == 0 {
		return err
	}
	msgs := make([]string, 0, maxReportedViolations+1)
	for i := range violations {
		if i == maxReportedViolations {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(violations)-i))
			break
		}
		msgs = append(msgs, violations[i].Error())
	}
	return errors.New(strings.Join(msgs, "; "))
}
