package eml

import (
	"github.com/leapstack-labs/emlquality/pkg/core"
	"github.com/leapstack-labs/emlquality/pkg/quality"
)

// Snapshot is a serialisable copy of a package and its report.
type Snapshot struct {
	PackageID               core.Optional[string] `json:"package_id"`
	System                  string                `json:"system,omitempty"`
	EmlNamespace            core.Optional[string] `json:"eml_namespace"`
	SchemaValid             bool                  `json:"schema_valid"`
	ParserValid             bool                  `json:"parser_valid"`
	NumberOfMethodsElements int                   `json:"number_of_methods_elements"`
	DuplicateEntityName     string                `json:"duplicate_entity_name,omitempty"`
	HasDatasetQualityError  bool                  `json:"has_dataset_quality_error"`
	HasEntityQualityError   bool                  `json:"has_entity_quality_error"`
	HasQualityError         bool                  `json:"has_quality_error"`
	Counts                  quality.Counts        `json:"counts"`
	DatasetChecks           []quality.CheckResult `json:"dataset_checks"`
	Entities                []EntitySnapshot      `json:"entities"`
}

// EntitySnapshot is a serialisable copy of an entity and its report.
type EntitySnapshot struct {
	Name            core.Optional[string] `json:"name"`
	Type            EntityType            `json:"type"`
	TableName       core.Optional[string] `json:"table_name"`
	HasQualityError bool                  `json:"has_quality_error"`
	Checks          []quality.CheckResult `json:"checks"`
}

// Snapshot captures the package state and every recorded check.
func (p *DataPackage) Snapshot() Snapshot {
	dup, _ := p.FindDuplicateEntityName()
	s := Snapshot{
		PackageID:               p.packageID,
		System:                  p.system,
		EmlNamespace:            p.emlNamespace,
		SchemaValid:             p.schemaValid,
		ParserValid:             p.parserValid,
		NumberOfMethodsElements: p.numberOfMethodsElements,
		DuplicateEntityName:     dup,
		HasDatasetQualityError:  p.HasDatasetQualityError(),
		HasEntityQualityError:   p.HasEntityQualityError(),
		HasQualityError:         p.HasQualityError(),
		Counts:                  p.report.Counts(),
		DatasetChecks:           quality.Results(p.report.DatasetChecks()),
		Entities:                make([]EntitySnapshot, 0, len(p.entities)),
	}
	for _, e := range p.entities {
		es := EntitySnapshot{
			Name:            e.Name,
			Type:            e.Type,
			TableName:       e.DBTableName,
			HasQualityError: e.Report.HasQualityError(),
			Checks:          []quality.CheckResult{},
		}
		if e.Report != nil {
			es.Checks = quality.Results(e.Report.Checks())
		}
		s.Entities = append(s.Entities, es)
	}
	return s
}
