package output

import (
	"fmt"

	"github.com/leapstack-labs/emlquality/pkg/eml"
	"github.com/leapstack-labs/emlquality/pkg/quality"
)

// AssessmentOutput is one assessed document.
type AssessmentOutput struct {
	Source       string       `json:"source"`
	AssessmentID string       `json:"assessment_id,omitempty"`
	Report       eml.Snapshot `json:"report"`
}

// AssessmentSummary totals a batch of assessments.
type AssessmentSummary struct {
	Documents  int `json:"documents"`
	WithErrors int `json:"with_errors"`
}

// AssessmentsOutput is the JSON document written by the assess command.
type AssessmentsOutput struct {
	Assessments []AssessmentOutput `json:"assessments"`
	Summary     AssessmentSummary  `json:"summary"`
}

// Assessments renders a batch of assessments in the effective mode.
func (r *Renderer) Assessments(results []AssessmentOutput) error {
	out := AssessmentsOutput{Assessments: results}
	out.Summary.Documents = len(results)
	for _, a := range results {
		if a.Report.HasQualityError {
			out.Summary.WithErrors++
		}
	}

	if r.EffectiveMode() == ModeJSON {
		return r.JSON(out)
	}

	for i, a := range results {
		if i > 0 {
			r.Println()
		}
		r.assessment(a)
	}
	r.Println()
	if out.Summary.WithErrors == 0 {
		r.Success(fmt.Sprintf("%d document(s) assessed, no quality errors", out.Summary.Documents))
	} else {
		r.Warning(fmt.Sprintf("%d of %d document(s) have quality errors", out.Summary.WithErrors, out.Summary.Documents))
	}
	return nil
}

func (r *Renderer) assessment(a AssessmentOutput) {
	snap := a.Report
	r.Header(1, snap.PackageID.OrElse("(no packageId)"))
	r.Println(FormatKeyValue("Source", a.Source))
	if snap.System != "" {
		r.Println(FormatKeyValue("System", snap.System))
	}
	r.Println(FormatKeyValue("Namespace", snap.EmlNamespace.OrElse("(none)")))
	if a.AssessmentID != "" {
		r.Println(FormatKeyValue("Assessment", a.AssessmentID))
	}
	r.Println(FormatKeyValue("Checks", fmt.Sprintf("%d valid, %d failed, %d not run",
		snap.Counts.Valid, snap.Counts.Failed, snap.Counts.NotRun)))
	r.Println()

	r.Header(2, "Dataset checks")
	r.checkTable(snap.DatasetChecks)

	for _, e := range snap.Entities {
		if len(e.Checks) == 0 {
			continue
		}
		r.Println()
		r.Header(2, fmt.Sprintf("Entity: %s", e.Name.OrElse("(unnamed)")))
		r.checkTable(e.Checks)
	}
}

func (r *Renderer) checkTable(checks []quality.CheckResult) {
	rows := make([][]string, 0, len(checks))
	for _, c := range checks {
		rows = append(rows, []string{c.Identifier, r.status(c.Status), c.Severity.String(), c.Found})
	}
	r.Table([]string{"Check", "Status", "Severity", "Found"}, rows)
}

func (r *Renderer) status(s quality.Status) string {
	switch s {
	case quality.StatusValid:
		return r.color(colorValid, s.String())
	case quality.StatusFailed:
		return r.color(colorFailed, s.String())
	default:
		return s.String()
	}
}
