package quality

// EntityReportSource exposes the entity reports of the package a Report
// describes. Entities without a report are omitted.
type EntityReportSource interface {
	EntityReports() []*EntityReport
}

// Report holds the dataset-level checks of a data package and answers the
// aggregate error queries. The report does not own its source.
type Report struct {
	source        EntityReportSource
	datasetChecks []*Check
}

// NewReport creates an empty report for source. A nil source has no entities.
func NewReport(source EntityReportSource) *Report {
	return &Report{source: source}
}

// AddDatasetCheck appends a dataset-level check. Nil checks are ignored.
func (r *Report) AddDatasetCheck(c *Check) {
	if c == nil {
		return
	}
	r.datasetChecks = append(r.datasetChecks, c)
}

// DatasetChecks returns the dataset-level checks in evaluation order.
func (r *Report) DatasetChecks() []*Check {
	return append([]*Check(nil), r.datasetChecks...)
}

// DatasetCheck returns the last recorded dataset-level check with identifier.
func (r *Report) DatasetCheck(identifier string) (*Check, bool) {
	for i := len(r.datasetChecks) - 1; i >= 0; i-- {
		if r.datasetChecks[i].identifier == identifier {
			return r.datasetChecks[i], true
		}
	}
	return nil, false
}

// EntityReports returns the entity reports of the source.
func (r *Report) EntityReports() []*EntityReport {
	if r.source == nil {
		return nil
	}
	return r.source.EntityReports()
}

// HasDatasetQualityError reports whether any dataset-level check failed.
func (r *Report) HasDatasetQualityError() bool {
	for _, c := range r.datasetChecks {
		if c.Failed() {
			return true
		}
	}
	return false
}

// HasEntityQualityError reports whether any entity report has a failed check.
func (r *Report) HasEntityQualityError() bool {
	for _, er := range r.EntityReports() {
		if er.HasQualityError() {
			return true
		}
	}
	return false
}

// HasQualityError reports whether any dataset-level or entity-level check failed.
func (r *Report) HasQualityError() bool {
	return r.HasDatasetQualityError() || r.HasEntityQualityError()
}

// Counts tallies check statuses across dataset and entity checks.
type Counts struct {
	Valid  int `json:"valid"`
	Failed int `json:"failed"`
	NotRun int `json:"not_run"`
}

// Counts returns status totals for every check in the report.
func (r *Report) Counts() Counts {
	var c Counts
	tally := func(checks []*Check) {
		for _, ch := range checks {
			switch ch.status {
			case StatusValid:
				c.Valid++
			case StatusFailed:
				c.Failed++
			default:
				c.NotRun++
			}
		}
	}
	tally(r.datasetChecks)
	for _, er := range r.EntityReports() {
		if er != nil {
			tally(er.checks)
		}
	}
	return c
}
