// Package quality provides the quality assessment engine shared by every
// document type the tool understands.
//
// # Architecture
//
// The package has three layers:
//
//  1. Templates: static, identifier-indexed check definitions held in a Registry
//  2. Gating: ShouldRun decides, without side effects, whether a template applies
//  3. Results: Check, EntityReport and Report hold outcomes and answer the
//     aggregate error queries
//
// # Registry
//
// Registries are immutable once built and may be shared between goroutines.
// There is no global registry; callers pass one explicitly:
//
//	reg, err := quality.DefaultRegistry()
//	tmpl, err := reg.Lookup("packageIdPattern")
//
// Unknown identifiers are configuration errors (ErrUnknownCheck), never
// silently turned into a valid or failed check.
//
// # Running a check
//
//	if quality.ShouldRun(tmpl, subject, cfg) {
//		check := quality.NewCheck(tmpl, subject.System(), cfg)
//		check.SetFound(value)
//		if ok {
//			check.Pass()
//		} else {
//			check.Fail()
//		}
//		report.AddDatasetCheck(check)
//	}
//
// A check moves forward only: not-run to valid or failed. Re-running a check
// means creating a new one.
package quality
