package schema

import (
	"fmt"
	"strings"
)

// mysqlDDL renders MySQL and MariaDB DDL. Enums are declared inline and
// range constraints are not enforced.
type mysqlDDL struct{ ddlBase }

func (m *mysqlDDL) autoIncrement(*Table, *Column) string { return " AUTO_INCREMENT" }

func (m *mysqlDDL) checks(*Table) []string { return nil }

func (m *mysqlDDL) alters(t *Table) []string {
	for _, col := range t.Columns {
		if !col.AutoIncrement() {
			continue
		}
		if start := autoIncrementStart(col); start > 1 {
			return []string{fmt.Sprintf("ALTER TABLE %s AUTO_INCREMENT = %d", m.c.q(t.Name), start)}
		}
	}
	return nil
}

func (m *mysqlDDL) triggers(t *Table) []string {
	return m.triggerPerEvent(t, func(name, timing, event string, tr *Trigger) string {
		return fmt.Sprintf("CREATE TRIGGER %s %s %s ON %s FOR EACH ROW %s", m.c.q(name), timing, event, m.c.q(t.Name), tr.Body)
	})
}

func (m *mysqlDDL) createIndex(t *Table, idx *Index, name string) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if idx.Unique {
		b.WriteString("UNIQUE ")
	}
	b.WriteString("INDEX ")
	b.WriteString(m.c.q(name))
	if idx.Type != IndexDefault {
		b.WriteString(" USING ")
		b.WriteString(idx.Type.String())
	}
	fmt.Fprintf(&b, " ON %s (%s)", m.c.q(t.Name), m.c.qList(idx.Columns))
	return b.String()
}
