package eml

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/leapstack-labs/emlquality/pkg/core"
	"github.com/leapstack-labs/emlquality/pkg/quality"
)

// Check identifiers run by DataPackage.
const (
	CheckPackageIDPattern        = "packageIdPattern"
	CheckEmlVersion              = "emlVersion"
	CheckSchemaValid             = "schemaValid"
	CheckParserValid             = "parserValid"
	CheckSchemaValidDereferenced = "schemaValidDereferenced"
	CheckMethodsElementPresent   = "methodsElementPresent"
	CheckDuplicateEntityName     = "duplicateEntityName"
	CheckEntityNameLength        = "entityNameLength"
	CheckAttributeNamesUnique    = "attributeNamesUnique"
)

// MaxEntityNameLength is the longest entityName accepted by entityNameLength.
const MaxEntityNameLength = 100

// callSubject is the package seen by one check call, with or without a document.
type callSubject struct {
	pkg      *DataPackage
	document bool
}

func (s callSubject) System() string { return s.pkg.system }

func (s callSubject) HasInput(name string) bool {
	if name == quality.InputDocument {
		return s.document
	}
	return s.pkg.HasInput(name)
}

// checkScopes is where each built-in check records its outcome.
var checkScopes = map[string]quality.Scope{
	CheckPackageIDPattern:        quality.ScopeDataset,
	CheckEmlVersion:              quality.ScopeDataset,
	CheckSchemaValid:             quality.ScopeDataset,
	CheckParserValid:             quality.ScopeDataset,
	CheckSchemaValidDereferenced: quality.ScopeDataset,
	CheckMethodsElementPresent:   quality.ScopeDataset,
	CheckDuplicateEntityName:     quality.ScopeDataset,
	CheckEntityNameLength:        quality.ScopeEntity,
	CheckAttributeNamesUnique:    quality.ScopeEntity,
}

// ValidateRegistry rejects templates that declare a built-in check at a
// scope other than the one the check is recorded at. Templates for other
// identifiers are not inspected.
func ValidateRegistry(reg *quality.Registry) error {
	if reg == nil {
		return ErrNilRegistry
	}
	for _, tmpl := range reg.All() {
		want, ok := checkScopes[tmpl.Identifier]
		if ok && tmpl.Scope != want {
			return fmt.Errorf("%w: check %q is recorded at %s scope, template declares %q",
				ErrConfiguration, tmpl.Identifier, want, tmpl.Scope)
		}
	}
	return nil
}

// checkInputs lists the inputs a built-in check cannot run without,
// whatever its template declares under requires.
var checkInputs = map[string][]string{
	CheckSchemaValid:             {quality.InputDocument, quality.InputSchemaValidator},
	CheckParserValid:             {quality.InputDocument, quality.InputReferenceParser},
	CheckSchemaValidDereferenced: {quality.InputDocument, quality.InputDereferencer, quality.InputSchemaValidator},
}

// evalFunc decides a check. A returned error is fatal and nothing is recorded.
type evalFunc func(c *quality.Check) error

// prepare looks up a template and applies the gate.
// It returns a nil check when the template does not apply.
func (p *DataPackage) prepare(identifier string, document bool) (*quality.Check, error) {
	tmpl, err := p.registry.Lookup(identifier)
	if err != nil {
		return nil, err
	}
	subject := callSubject{pkg: p, document: document}
	if !quality.ShouldRun(tmpl, subject, p.config) {
		p.logger.Debug("skipping quality check", "check", identifier, "package_id", p.packageID.OrElse(""))
		return nil, nil
	}
	for _, input := range checkInputs[identifier] {
		if !subject.HasInput(input) {
			p.logger.Debug("skipping quality check", "check", identifier, "missing_input", input,
				"package_id", p.packageID.OrElse(""))
			return nil, nil
		}
	}
	return quality.NewCheck(tmpl, p.system, p.config), nil
}

func (p *DataPackage) runDatasetCheck(identifier string, document bool, eval evalFunc) error {
	check, err := p.prepare(identifier, document)
	if err != nil || check == nil {
		return err
	}
	if err := eval(check); err != nil {
		return fmt.Errorf("%s: %w", identifier, err)
	}
	p.report.AddDatasetCheck(check)
	p.logCheck(check, "")
	return nil
}

func (p *DataPackage) runEntityCheck(e *Entity, identifier string, eval evalFunc) error {
	check, err := p.prepare(identifier, false)
	if err != nil || check == nil {
		return err
	}
	if err := eval(check); err != nil {
		return fmt.Errorf("%s: %w", identifier, err)
	}
	e.ensureReport().AddCheck(check)
	p.logCheck(check, e.NameOrEmpty())
	return nil
}

func (p *DataPackage) logCheck(c *quality.Check, entity string) {
	attrs := []any{
		"check", c.Identifier(),
		"status", c.Status().String(),
		"package_id", p.packageID.OrElse(""),
	}
	if entity != "" {
		attrs = append(attrs, "entity", entity)
	}
	p.logger.Debug("quality check executed", attrs...)
}

// checkPackageID runs packageIdPattern.
func (p *DataPackage) checkPackageID() error {
	return p.runDatasetCheck(CheckPackageIDPattern, false, func(c *quality.Check) error {
		id, ok := p.packageID.Get()
		if ok {
			c.SetFound(id)
		}
		c.Resolve(ok && p.policy.ValidPackageID(p.system, id))
		return nil
	})
}

// SetEmlNamespace stores the document namespace and runs emlVersion.
func (p *DataPackage) SetEmlNamespace(ns core.Optional[string]) error {
	p.emlNamespace = ns
	return p.runDatasetCheck(CheckEmlVersion, false, func(c *quality.Check) error {
		value, ok := ns.Get()
		if ok {
			c.SetFound(value)
		}
		c.Resolve(ok && p.policy.AcceptsNamespace(value))
		return nil
	})
}

// SetNumberOfMethodsElements stores the methods count and runs
// methodsElementPresent.
func (p *DataPackage) SetNumberOfMethodsElements(n int) error {
	if n < 0 {
		return fmt.Errorf("number of methods elements must not be negative, got %d", n)
	}
	p.numberOfMethodsElements = n
	return p.runDatasetCheck(CheckMethodsElementPresent, false, func(c *quality.Check) error {
		c.SetFound(fmt.Sprintf("Number of 'methods' elements found: %d", n))
		c.Resolve(n > 0)
		return nil
	})
}

// CheckSchemaValid validates the document against the schema of namespace.
// Sets IsSchemaValid on success.
func (p *DataPackage) CheckSchemaValid(ctx context.Context, doc *Document, namespace string) error {
	return p.runDatasetCheck(CheckSchemaValid, doc != nil, func(c *quality.Check) error {
		err := p.schemaValidator.Validate(ctx, doc.XML(), p.schemaLocations, namespace)
		if isFatal(err) {
			return err
		}
		if err != nil {
			c.SetFound(fmt.Sprintf("Failed to validate for namespace: '%s'; %s", namespace, err.Error()))
			c.Fail()
			return nil
		}
		c.SetFound(fmt.Sprintf("Document validated for namespace: '%s'", namespace))
		c.Pass()
		p.schemaValid = true
		return nil
	})
}

// CheckParserValid runs the ID/reference parser over the document.
// Sets IsParserValid on success.
func (p *DataPackage) CheckParserValid(ctx context.Context, doc *Document) error {
	return p.runDatasetCheck(CheckParserValid, doc != nil, func(c *quality.Check) error {
		err := p.referenceParser.Parse(ctx, doc.XML())
		if isFatal(err) {
			return err
		}
		if err != nil {
			c.SetFound("Failed to parse IDs and references: " + err.Error())
			c.Fail()
			return nil
		}
		c.SetFound("EML IDs and references parser succeeded")
		c.Pass()
		p.parserValid = true
		return nil
	})
}

// CheckSchemaValidDereferenced dereferences the document and validates the
// result against the schema of namespace. Sets IsSchemaValid on success.
func (p *DataPackage) CheckSchemaValidDereferenced(ctx context.Context, doc *Document, namespace string) error {
	return p.runDatasetCheck(CheckSchemaValidDereferenced, doc != nil, func(c *quality.Check) error {
		fail := func(err error) {
			c.SetFound(fmt.Sprintf("Failed to validate dereferenced document for namespace: '%s'; %s", namespace, err.Error()))
			c.Fail()
		}

		dereferenced, err := p.dereferencer.Dereference(ctx, doc.XML())
		if isFatal(err) {
			return err
		}
		if err != nil {
			fail(err)
			return nil
		}

		err = p.schemaValidator.Validate(ctx, dereferenced, p.schemaLocations, namespace)
		if isFatal(err) {
			return err
		}
		if err != nil {
			fail(err)
			return nil
		}
		c.SetFound(fmt.Sprintf("Dereferenced document validated for namespace: '%s'", namespace))
		c.Pass()
		p.schemaValid = true
		return nil
	})
}

// CheckDuplicateEntityNames runs duplicateEntityName over the current entities.
func (p *DataPackage) CheckDuplicateEntityNames() error {
	return p.runDatasetCheck(CheckDuplicateEntityName, false, func(c *quality.Check) error {
		name, dup := p.FindDuplicateEntityName()
		if dup {
			c.SetFound(name)
			c.Fail()
			return nil
		}
		c.SetFound("No duplicates found")
		c.Pass()
		return nil
	})
}

// CheckEntities runs the entity-level checks on every entity.
func (p *DataPackage) CheckEntities() error {
	for _, e := range p.entities {
		if err := p.checkEntity(e); err != nil {
			return fmt.Errorf("entity %q: %w", e.NameOrEmpty(), err)
		}
	}
	return nil
}

func (p *DataPackage) checkEntity(e *Entity) error {
	err := p.runEntityCheck(e, CheckEntityNameLength, func(c *quality.Check) error {
		name, ok := e.Name.Get()
		if !ok {
			c.SetFound("entityName is missing")
			c.Fail()
			return nil
		}
		n := utf8.RuneCountInString(name)
		c.SetFound(fmt.Sprintf("%d characters", n))
		c.Resolve(n > 0 && n <= MaxEntityNameLength)
		return nil
	})
	if err != nil {
		return err
	}

	return p.runEntityCheck(e, CheckAttributeNamesUnique, func(c *quality.Check) error {
		seen := make(map[string]struct{}, len(e.Attributes))
		for _, attr := range e.Attributes {
			if _, dup := seen[attr]; dup {
				c.SetFound("Duplicate attribute name: " + attr)
				c.Fail()
				return nil
			}
			seen[attr] = struct{}{}
		}
		c.SetFound(fmt.Sprintf("%d unique attribute names", len(e.Attributes)))
		c.Pass()
		return nil
	})
}

func isFatal(err error) bool {
	return err != nil && errors.Is(err, ErrConfiguration)
}
