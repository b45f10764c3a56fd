// Package eml assesses the quality of EML (Ecological Metadata Language)
// data packages.
//
// A DataPackage holds the entities described by one EML document and owns
// the quality.Report recording every check run against it. Checks run as
// side effects of building the package, mirroring how the metadata is
// discovered:
//
//	pkg, err := eml.New(reg, core.Some("knb-lter-abc.1.1"), eml.WithSystem("lter"))
//	err = pkg.SetEmlNamespace(core.Some(doc.Namespace()))
//	err = pkg.CheckSchemaValid(ctx, doc, doc.Namespace())
//	if pkg.HasQualityError() { ... }
//
// Assemble runs the whole sequence for a parsed Document.
//
// Schema validation, dereferencing and ID/reference parsing are delegated to
// the SchemaValidator, Dereferencer and ReferenceParser collaborators. Their
// errors become failed checks; only errors wrapping ErrConfiguration abort
// the package.
package eml
