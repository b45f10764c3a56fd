package eml

import (
	"github.com/leapstack-labs/emlquality/pkg/core"
	"github.com/leapstack-labs/emlquality/pkg/quality"
)

// EntityType is the EML element an entity was described by.
type EntityType string

// Entity types defined by EML.
const (
	EntityDataTable       EntityType = "dataTable"
	EntitySpatialRaster   EntityType = "spatialRaster"
	EntitySpatialVector   EntityType = "spatialVector"
	EntityStoredProcedure EntityType = "storedProcedure"
	EntityView            EntityType = "view"
	EntityOther           EntityType = "otherEntity"
)

var entityTypes = map[string]EntityType{
	string(EntityDataTable):       EntityDataTable,
	string(EntitySpatialRaster):   EntitySpatialRaster,
	string(EntitySpatialVector):   EntitySpatialVector,
	string(EntityStoredProcedure): EntityStoredProcedure,
	string(EntityView):            EntityView,
	string(EntityOther):           EntityOther,
}

// Entity is one data resource described by a package.
type Entity struct {
	ID          string
	Name        core.Optional[string]
	Type        EntityType
	DBTableName core.Optional[string]
	Attributes  []string // attribute names in document order

	// Report holds entity-level checks; nil until the first one runs.
	Report *quality.EntityReport
}

// NewEntity returns a data table entity with the given name.
func NewEntity(name string) *Entity {
	return &Entity{Name: core.Some(name), Type: EntityDataTable}
}

// NameOrEmpty returns the entity name, or "" when it has none.
func (e *Entity) NameOrEmpty() string {
	return e.Name.OrElse("")
}

func (e *Entity) ensureReport() *quality.EntityReport {
	if e.Report == nil {
		e.Report = quality.NewEntityReport(e.NameOrEmpty())
	}
	return e.Report
}
