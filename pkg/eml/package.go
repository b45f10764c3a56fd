package eml

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/emlquality/pkg/core"
	"github.com/leapstack-labs/emlquality/pkg/quality"
)

// DataPackage is the top-level aggregate for one EML document.
// A DataPackage is not safe for concurrent use; assess packages in
// parallel by giving each goroutine its own.
type DataPackage struct {
	registry        *quality.Registry
	config          *quality.Config
	policy          Policy
	logger          *slog.Logger
	schemaValidator SchemaValidator
	dereferencer    Dereferencer
	referenceParser ReferenceParser
	schemaLocations SchemaLocations

	packageID               core.Optional[string]
	system                  string
	emlNamespace            core.Optional[string]
	accessXML               string
	entities                []*Entity
	numberOfMethodsElements int
	parserValid             bool
	schemaValid             bool

	report *quality.Report
}

// Option configures a DataPackage.
type Option func(*DataPackage)

// WithSystem sets the naming system, e.g. "lter" or "knb".
func WithSystem(system string) Option {
	return func(p *DataPackage) { p.system = system }
}

// WithConfig sets which checks run and their severities.
func WithConfig(cfg *quality.Config) Option {
	return func(p *DataPackage) { p.config = cfg }
}

// WithPolicy replaces the namespace allow-list and packageId patterns.
func WithPolicy(policy Policy) Option {
	return func(p *DataPackage) { p.policy = policy }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *DataPackage) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSchemaValidator sets the collaborator used by the schema checks.
func WithSchemaValidator(v SchemaValidator) Option {
	return func(p *DataPackage) { p.schemaValidator = v }
}

// WithDereferencer sets the collaborator used by schemaValidDereferenced.
func WithDereferencer(d Dereferencer) Option {
	return func(p *DataPackage) { p.dereferencer = d }
}

// WithReferenceParser sets the collaborator used by parserValid.
func WithReferenceParser(rp ReferenceParser) Option {
	return func(p *DataPackage) { p.referenceParser = rp }
}

// WithSchemaLocations overrides DefaultSchemaLocations.
func WithSchemaLocations(locations SchemaLocations) Option {
	return func(p *DataPackage) { p.schemaLocations = locations }
}

// New creates a data package and runs the packageId check.
// The packageId cannot be changed afterwards.
func New(reg *quality.Registry, packageID core.Optional[string], opts ...Option) (*DataPackage, error) {
	if err := ValidateRegistry(reg); err != nil {
		return nil, err
	}

	p := &DataPackage{
		registry:        reg,
		policy:          DefaultPolicy(),
		logger:          slog.New(slog.DiscardHandler),
		schemaLocations: DefaultSchemaLocations,
		packageID:       packageID,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.report = quality.NewReport(p)

	if err := p.checkPackageID(); err != nil {
		return nil, err
	}
	return p, nil
}

// PackageID returns the package identifier.
func (p *DataPackage) PackageID() core.Optional[string] {
	return p.packageID
}

// System returns the naming system. Implements quality.Subject.
func (p *DataPackage) System() string {
	return p.system
}

// SetSystem changes the naming system used by later checks.
func (p *DataPackage) SetSystem(system string) {
	p.system = system
}

// HasInput reports whether a collaborator is configured.
// Implements quality.Subject; the document input is decided per call.
func (p *DataPackage) HasInput(name string) bool {
	switch name {
	case quality.InputSchemaValidator:
		return p.schemaValidator != nil
	case quality.InputDereferencer:
		return p.dereferencer != nil
	case quality.InputReferenceParser:
		return p.referenceParser != nil
	default:
		return false
	}
}

// EmlNamespace returns the namespace set by SetEmlNamespace.
func (p *DataPackage) EmlNamespace() core.Optional[string] {
	return p.emlNamespace
}

// AccessXML returns the <access> block of the document.
func (p *DataPackage) AccessXML() string {
	return p.accessXML
}

// SetAccessXML stores the <access> block of the document.
func (p *DataPackage) SetAccessXML(xml string) {
	p.accessXML = xml
}

// Add appends an entity.
func (p *DataPackage) Add(e *Entity) error {
	if e == nil {
		return ErrNilEntity
	}
	p.entities = append(p.entities, e)
	return nil
}

// Entities returns the entities in insertion order.
func (p *DataPackage) Entities() []*Entity {
	return append([]*Entity(nil), p.entities...)
}

// EntityCount returns the number of entities.
func (p *DataPackage) EntityCount() int {
	return len(p.entities)
}

// EntitiesNamed returns every entity with the given name.
func (p *DataPackage) EntitiesNamed(name string) []*Entity {
	var out []*Entity
	for _, e := range p.entities {
		if n, ok := e.Name.Get(); ok && n == name {
			out = append(out, e)
		}
	}
	return out
}

// Entity returns the first entity with the given name.
func (p *DataPackage) Entity(name string) (*Entity, bool) {
	for _, e := range p.entities {
		if n, ok := e.Name.Get(); ok && n == name {
			return e, true
		}
	}
	return nil, false
}

// ClearEntities removes every entity.
func (p *DataPackage) ClearEntities() {
	p.entities = nil
}

// FindDuplicateEntityName returns the first entity name that repeats an
// earlier one, scanning in list order. Entities without a name are skipped.
func (p *DataPackage) FindDuplicateEntityName() (string, bool) {
	seen := make(map[string]struct{}, len(p.entities))
	for _, e := range p.entities {
		name, ok := e.Name.Get()
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			return name, true
		}
		seen[name] = struct{}{}
	}
	return "", false
}

// NumberOfMethodsElements returns the count set by SetNumberOfMethodsElements.
func (p *DataPackage) NumberOfMethodsElements() int {
	return p.numberOfMethodsElements
}

// IsParserValid reports whether a parserValid check has passed.
func (p *DataPackage) IsParserValid() bool {
	return p.parserValid
}

// IsSchemaValid reports whether a schema check has passed.
func (p *DataPackage) IsSchemaValid() bool {
	return p.schemaValid
}

// Report returns the quality report owned by the package.
func (p *DataPackage) Report() *quality.Report {
	return p.report
}

// EntityReports implements quality.EntityReportSource.
func (p *DataPackage) EntityReports() []*quality.EntityReport {
	var out []*quality.EntityReport
	for _, e := range p.entities {
		if e.Report != nil {
			out = append(out, e.Report)
		}
	}
	return out
}

// AddDatasetCheck appends a caller-built check to the report.
func (p *DataPackage) AddDatasetCheck(c *quality.Check) {
	p.report.AddDatasetCheck(c)
}

// HasDatasetQualityError reports whether any dataset-level check failed.
func (p *DataPackage) HasDatasetQualityError() bool {
	return p.report.HasDatasetQualityError()
}

// HasEntityQualityError reports whether any entity-level check failed.
func (p *DataPackage) HasEntityQualityError() bool {
	return p.report.HasEntityQualityError()
}

// HasQualityError reports whether any check failed.
func (p *DataPackage) HasQualityError() bool {
	return p.report.HasQualityError()
}

func (p *DataPackage) String() string {
	return fmt.Sprintf("DataPackage(%s)", p.packageID.OrElse("<no packageId>"))
}
