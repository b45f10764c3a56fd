// Package state persists assessment results in SQLite so a package's
// quality history can be listed and compared across runs.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/leapstack-labs/emlquality/pkg/eml"
)

// ErrNotFound is returned when an assessment does not exist.
var ErrNotFound = errors.New("assessment not found")

// Assessment is one stored package assessment.
type Assessment struct {
	ID              string       `json:"id"`
	PackageID       string       `json:"package_id"`
	System          string       `json:"system,omitempty"`
	Source          string       `json:"source,omitempty"`
	HasQualityError bool         `json:"has_quality_error"`
	Valid           int          `json:"valid"`
	Failed          int          `json:"failed"`
	NotRun          int          `json:"not_run"`
	CreatedAt       time.Time    `json:"created_at"`
	Snapshot        eml.Snapshot `json:"snapshot"`
}

// Store records and retrieves assessments.
type Store interface {
	SaveAssessment(ctx context.Context, snap eml.Snapshot, source string) (*Assessment, error)
	GetAssessment(ctx context.Context, id string) (*Assessment, error)
	ListAssessments(ctx context.Context, packageID string, limit int) ([]*Assessment, error)
	FailureCounts(ctx context.Context) (map[string]int, error)
	Close() error
}
