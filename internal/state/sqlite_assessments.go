package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/emlquality/pkg/eml"
	"github.com/leapstack-labs/emlquality/pkg/quality"
)

// DefaultListLimit caps ListAssessments when no limit is given.
const DefaultListLimit = 50

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const assessmentColumns = `id, package_id, system, source, has_quality_error,
	valid_count, failed_count, not_run_count, snapshot, created_at`

// SaveAssessment stores a snapshot and one row per recorded check.
func (s *SQLiteStore) SaveAssessment(ctx context.Context, snap eml.Snapshot, source string) (*Assessment, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	a := &Assessment{
		ID:              generateID(),
		PackageID:       snap.PackageID.OrElse(""),
		System:          snap.System,
		Source:          source,
		HasQualityError: snap.HasQualityError,
		Valid:           snap.Counts.Valid,
		Failed:          snap.Counts.Failed,
		NotRun:          snap.Counts.NotRun,
		CreatedAt:       time.Now().UTC(),
		Snapshot:        snap,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO assessments (`+assessmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.PackageID, a.System, a.Source, a.HasQualityError,
		a.Valid, a.Failed, a.NotRun, string(payload), a.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save assessment: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO check_results (assessment_id, entity_name, identifier, status, severity, found)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	insert := func(entity string, results []quality.CheckResult) error {
		for _, r := range results {
			if _, err := stmt.ExecContext(ctx, a.ID, entity, r.Identifier, r.Status.String(), r.Severity.String(), r.Found); err != nil {
				return fmt.Errorf("insert check result %s: %w", r.Identifier, err)
			}
		}
		return nil
	}
	if err := insert("", snap.DatasetChecks); err != nil {
		return nil, err
	}
	for _, e := range snap.Entities {
		if err := insert(e.Name.OrElse(""), e.Checks); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Debug("saved assessment",
		slog.String("id", a.ID),
		slog.String("package_id", a.PackageID),
		slog.Bool("has_quality_error", a.HasQualityError))
	return a, nil
}

// GetAssessment retrieves an assessment by ID.
func (s *SQLiteStore) GetAssessment(ctx context.Context, id string) (*Assessment, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+assessmentColumns+` FROM assessments WHERE id = ?`, id)
	a, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return a, nil
}

// ListAssessments returns the newest assessments first. An empty packageID
// lists every package; limit <= 0 uses DefaultListLimit.
func (s *SQLiteStore) ListAssessments(ctx context.Context, packageID string, limit int) ([]*Assessment, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := `SELECT ` + assessmentColumns + ` FROM assessments`
	args := []any{}
	if packageID != "" {
		query += ` WHERE package_id = ?`
		args = append(args, packageID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return out, nil
}

// FailureCounts returns how often each check failed across stored assessments.
func (s *SQLiteStore) FailureCounts(ctx context.Context) (map[string]int, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT identifier, COUNT(*) FROM check_results
		WHERE status = ?
		GROUP BY identifier
	`, quality.StatusFailed.String())
	if err != nil {
		return nil, fmt.Errorf("failed to count failures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan failure count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row scanner) (*Assessment, error) {
	a := &Assessment{}
	var payload, createdAt string
	err := row.Scan(&a.ID, &a.PackageID, &a.System, &a.Source, &a.HasQualityError,
		&a.Valid, &a.Failed, &a.NotRun, &payload, &createdAt)
	if err != nil {
		return nil, err
	}
	if a.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if err := json.Unmarshal([]byte(payload), &a.Snapshot); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return a, nil
}
