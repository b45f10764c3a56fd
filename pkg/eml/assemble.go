package eml

import (
	"context"

	"github.com/leapstack-labs/emlquality/pkg/core"
	"github.com/leapstack-labs/emlquality/pkg/quality"
)

// Assemble builds a DataPackage from a parsed document and runs every
// applicable check: packageId, namespace, methods, duplicate entity names,
// schema, ID/reference and dereferenced schema validity, then the
// entity-level checks.
//
// The document's system attribute is applied first, so a WithSystem option
// overrides it. A non-nil error is always fatal; quality problems are in the
// returned package's report.
func Assemble(ctx context.Context, reg *quality.Registry, doc *Document, opts ...Option) (*DataPackage, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	allOpts := append([]Option{WithSystem(doc.System())}, opts...)
	pkg, err := New(reg, doc.PackageID(), allOpts...)
	if err != nil {
		return nil, err
	}

	pkg.SetAccessXML(doc.AccessXML())

	ns := doc.Namespace()
	nsOpt := core.None[string]()
	if ns != "" {
		nsOpt = core.Some(ns)
	}
	if err := pkg.SetEmlNamespace(nsOpt); err != nil {
		return nil, err
	}

	for _, e := range doc.Entities() {
		if err := pkg.Add(e); err != nil {
			return nil, err
		}
	}

	steps := []func() error{
		func() error { return pkg.SetNumberOfMethodsElements(doc.MethodsCount()) },
		pkg.CheckDuplicateEntityNames,
		func() error { return pkg.CheckSchemaValid(ctx, doc, ns) },
		func() error { return pkg.CheckParserValid(ctx, doc) },
		func() error { return pkg.CheckSchemaValidDereferenced(ctx, doc, ns) },
		pkg.CheckEntities,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}
	return pkg, nil
}
