package eml

import "context"

// SchemaValidator validates an XML document against the schema registered
// for the namespace the document asserts. A nil error means valid.
type SchemaValidator interface {
	Validate(ctx context.Context, xml string, locations SchemaLocations, namespace string) error
}

// Dereferencer replaces references elements with the elements they name.
type Dereferencer interface {
	Dereference(ctx context.Context, xml string) (string, error)
}

// ReferenceParser checks ids and references. A nil error means valid.
type ReferenceParser interface {
	Parse(ctx context.Context, xml string) error
}

// SchemaValidatorFunc adapts a function to SchemaValidator.
type SchemaValidatorFunc func(ctx context.Context, xml string, locations SchemaLocations, namespace string) error

// Validate implements SchemaValidator.
func (f SchemaValidatorFunc) Validate(ctx context.Context, xml string, locations SchemaLocations, namespace string) error {
	return f(ctx, xml, locations, namespace)
}

// DereferencerFunc adapts a function to Dereferencer.
type DereferencerFunc func(ctx context.Context, xml string) (string, error)

// Dereference implements Dereferencer.
func (f DereferencerFunc) Dereference(ctx context.Context, xml string) (string, error) {
	return f(ctx, xml)
}

// ReferenceParserFunc adapts a function to ReferenceParser.
type ReferenceParserFunc func(ctx context.Context, xml string) error

// Parse implements ReferenceParser.
func (f ReferenceParserFunc) Parse(ctx context.Context, xml string) error {
	return f(ctx, xml)
}
