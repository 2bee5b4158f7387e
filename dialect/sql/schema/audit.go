package schema

import "slices"

// Audit answers read-only questions about the keys of a flattened schema.
type Audit struct {
	tables map[string]*Table
}

// NewAudit returns an Audit of the given schema. The schema is expected to
// be flattened already; it is not modified.
func NewAudit(s *Schema) *Audit {
	a := &Audit{tables: make(map[string]*Table, len(s.Tables))}
	for _, t := range s.Tables {
		a.tables[t.Name] = t
	}
	return a
}

// Table returns the audited table with the given name.
func (a *Audit) Table(name string) (*Table, bool) {
	t, ok := a.tables[name]
	return t, ok
}

// IsPrimary reports whether the column belongs to the primary key of the
// table or of one of its ancestors. The extends chain is walked upward and
// the first match wins.
func (a *Audit) IsPrimary(table, column string) bool {
	seen := make(map[string]bool)
	for t := a.tables[table]; t != nil && !seen[t.Name]; t = a.tables[t.Extends] {
		if slices.Contains(t.PrimaryKey, column) {
			return true
		}
		seen[t.Name] = true
		if t.Extends == "" {
			break
		}
	}
	return false
}

// IsUnique reports whether the column alone is constrained to be unique:
// it is the only column of a UNIQUE constraint, or of a unique index.
func (a *Audit) IsUnique(table, column string) bool {
	t, ok := a.tables[table]
	if !ok {
		return false
	}
	for _, u := range t.Uniques {
		if len(u) == 1 && u[0] == column {
			return true
		}
	}
	for _, idx := range t.Indexes {
		if idx.Unique && len(idx.Columns) == 1 && idx.Columns[0] == column {
			return true
		}
	}
	return false
}
