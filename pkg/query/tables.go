package query

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/emlquality/pkg/core"
	"github.com/leapstack-labs/emlquality/pkg/eml"
)

// maxTableNameLength keeps generated names within common identifier limits.
const maxTableNameLength = 63

// AssignTableNames gives every named entity without a database table name a
// unique one derived from its entity name. Existing table names are kept and
// reserved. Unnamed entities are left alone.
func AssignTableNames(entities []*eml.Entity) {
	used := make(map[string]bool, len(entities))
	for _, e := range entities {
		if e == nil {
			continue
		}
		if name, ok := e.DBTableName.Get(); ok && strings.TrimSpace(name) != "" {
			used[strings.ToLower(name)] = true
		}
	}

	for _, e := range entities {
		if e == nil || e.DBTableName.IsSome() {
			continue
		}
		name, ok := e.Name.Get()
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		base := TableName(name)
		candidate := base
		for i := 2; used[candidate]; i++ {
			candidate = withSuffix(base, i)
		}
		used[candidate] = true
		e.DBTableName = core.Some(candidate)
	}
}

// withSuffix appends "_n" to base, shortening base so the result stays
// within maxTableNameLength.
func withSuffix(base string, n int) string {
	suffix := "_" + strconv.Itoa(n)
	if limit := maxTableNameLength - len(suffix); len(base) > limit {
		base = strings.TrimSuffix(base[:limit], "_")
	}
	return base + suffix
}

// TableName converts an entity name into a lower-case SQL identifier.
// Runs of characters other than ASCII letters and digits become one
// underscore, and a leading digit gets a "t_" prefix.
func TableName(entityName string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(entityName)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			underscore = false
		case !underscore && b.Len() > 0:
			b.WriteByte('_')
			underscore = true
		}
	}
	name := strings.TrimSuffix(b.String(), "_")
	if name == "" {
		name = "entity"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "t_" + name
	}
	if len(name) > maxTableNameLength {
		name = strings.TrimSuffix(name[:maxTableNameLength], "_")
	}
	return name
}
