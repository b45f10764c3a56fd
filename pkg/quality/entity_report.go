package quality

// EntityReport holds the checks scoped to one data entity.
// Checks are kept in evaluation order.
type EntityReport struct {
	entityName string
	checks     []*Check
}

// NewEntityReport creates an empty report for the named entity.
func NewEntityReport(entityName string) *EntityReport {
	return &EntityReport{entityName: entityName}
}

// EntityName returns the name of the entity the report covers.
func (r *EntityReport) EntityName() string {
	return r.entityName
}

// AddCheck appends a check. Nil checks are ignored.
func (r *EntityReport) AddCheck(c *Check) {
	if c == nil {
		return
	}
	r.checks = append(r.checks, c)
}

// Checks returns the checks in evaluation order.
func (r *EntityReport) Checks() []*Check {
	return append([]*Check(nil), r.checks...)
}

// HasQualityError reports whether any check failed.
func (r *EntityReport) HasQualityError() bool {
	if r == nil {
		return false
	}
	for _, c := range r.checks {
		if c.Failed() {
			return true
		}
	}
	return false
}
