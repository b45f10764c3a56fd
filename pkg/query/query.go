// Package query renders entities as SQL table references.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/emlquality/pkg/eml"
)

var (
	// ErrEntityMissing is returned for a table item without an entity.
	ErrEntityMissing = errors.New("entity is missing")
	// ErrTableNameMissing is returned when the entity has no database table name.
	ErrTableNameMissing = errors.New("database table name is missing")
)

// UnWellFormedQueryError reports a query that cannot be rendered.
type UnWellFormedQueryError struct {
	Entity string
	Err    error
}

func (e *UnWellFormedQueryError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("unwell-formed query: %v", e.Err)
	}
	return fmt.Sprintf("unwell-formed query for entity %q: %v", e.Entity, e.Err)
}

func (e *UnWellFormedQueryError) Unwrap() error {
	return e.Err
}

// TableItem is one table reference in a FROM clause.
type TableItem struct {
	Entity *eml.Entity
}

// ToSQLString returns the entity's database table name.
func (t TableItem) ToSQLString() (string, error) {
	if t.Entity == nil {
		return "", &UnWellFormedQueryError{Err: ErrEntityMissing}
	}
	name, ok := t.Entity.DBTableName.Get()
	if !ok || strings.TrimSpace(name) == "" {
		return "", &UnWellFormedQueryError{Entity: t.Entity.NameOrEmpty(), Err: ErrTableNameMissing}
	}
	return name, nil
}

// FromClause renders items as a comma-separated table list.
func FromClause(items ...TableItem) (string, error) {
	names := make([]string, 0, len(items))
	for _, item := range items {
		name, err := item.ToSQLString()
		if err != nil {
			return "", err
		}
		names = append(names, name)
	}
	return strings.Join(names, ", "), nil
}
