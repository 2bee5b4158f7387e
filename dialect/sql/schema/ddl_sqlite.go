package schema

import (
	"fmt"
	"slices"

	"github.com/syssam/rdb/dialect"
)

// sqliteDDL renders SQLite DDL. Auto-increment is only available on a
// single INTEGER PRIMARY KEY column, which is then declared inline.
type sqliteDDL struct{ ddlBase }

// rowid reports whether col can be declared as INTEGER PRIMARY KEY
// AUTOINCREMENT.
func rowid(t *Table, col *Column) bool {
	return col.AutoIncrement() && slices.Equal(t.PrimaryKey, []string{col.Name})
}

func (s *sqliteDDL) columnType(t *Table, col *Column) (string, error) {
	if rowid(t, col) {
		return "INTEGER", nil
	}
	return s.ddlBase.columnType(t, col)
}

func (s *sqliteDDL) autoIncrement(t *Table, col *Column) string {
	if !rowid(t, col) {
		s.c.warn(t.Name, col.Name, "AUTO_INCREMENT is only supported on a single-column INTEGER PRIMARY KEY by sqlite")
		return ""
	}
	return " PRIMARY KEY AUTOINCREMENT"
}

func (s *sqliteDDL) inlinePrimaryKey(t *Table) bool {
	for _, col := range t.Columns {
		if rowid(t, col) {
			return true
		}
	}
	return false
}

// alters seeds sqlite_sequence so that the first generated key is the
// column's start value.
func (s *sqliteDDL) alters(t *Table) []string {
	for _, col := range t.Columns {
		if !rowid(t, col) {
			continue
		}
		if start := autoIncrementStart(col); start > 1 {
			return []string{fmt.Sprintf("INSERT INTO sqlite_sequence (name, seq) VALUES (%s, %d)", dialect.QuoteString(t.Name), start-1)}
		}
	}
	return nil
}

func (s *sqliteDDL) triggers(t *Table) []string {
	return s.triggerPerEvent(t, func(name, timing, event string, tr *Trigger) string {
		return fmt.Sprintf("CREATE TRIGGER IF NOT EXISTS %s %s %s ON %s FOR EACH ROW BEGIN %s; END", s.c.q(name), timing, event, s.c.q(t.Name), tr.Body)
	})
}

func (s *sqliteDDL) createIndex(t *Table, idx *Index, name string) string {
	if idx.Type == IndexHash {
		s.c.warn(t.Name, "", "HASH index type specification is not supported by sqlite, creating index with default type")
	}
	return s.indexStatement(t, idx, name, "IF NOT EXISTS ")
}
