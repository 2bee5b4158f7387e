package schema

import (
	"fmt"
	"strings"
)

// Oracle error codes ignored by the idempotent statement wrappers.
const (
	oraNameInUse      = -955
	oraNoSuchTable    = -942
	oraNoSuchSequence = -2289
)

// oracleDDL renders Oracle DDL. Oracle has no IF [NOT] EXISTS clauses, so
// statements are wrapped in PL/SQL blocks that swallow the specific error
// code for an existing or missing object.
type oracleDDL struct{ ddlBase }

// ignoring wraps stmt in a PL/SQL block that ignores the given SQLCODE.
func ignoring(stmt string, code int) string {
	return fmt.Sprintf("BEGIN EXECUTE IMMEDIATE '%s'; EXCEPTION WHEN OTHERS THEN IF SQLCODE != %d THEN RAISE; END IF; END;",
		strings.ReplaceAll(stmt, "'", "''"), code)
}

func (o *oracleDDL) dropTable(t *Table) []string {
	stmts := []string{ignoring("DROP TABLE "+o.c.q(t.Name), oraNoSuchTable)}
	for _, col := range t.Columns {
		if col.AutoIncrement() {
			stmts = append(stmts, ignoring("DROP SEQUENCE "+o.c.q(sequenceName(t, col)), oraNoSuchSequence))
		}
	}
	return stmts
}

func (o *oracleDDL) types(t *Table) []string {
	var stmts []string
	for _, col := range t.Columns {
		if col.AutoIncrement() {
			stmts = append(stmts, ignoring(fmt.Sprintf("CREATE SEQUENCE %s START WITH %d INCREMENT BY 1", o.c.q(sequenceName(t, col)), autoIncrementStart(col)), oraNameInUse))
		}
	}
	return stmts
}

func (o *oracleDDL) referenceOption(action string, opt ReferenceOption) string {
	if action == "UPDATE" {
		o.c.warn("", "", "ON UPDATE is not supported by oracle")
		return ""
	}
	switch opt {
	case Cascade, SetNull:
		return " ON DELETE " + string(opt)
	case SetDefault:
		o.c.warn("", "", "ON DELETE SET DEFAULT is not supported by oracle")
	}
	return ""
}

func (o *oracleDDL) createTable(t *Table, body string) string {
	return ignoring("CREATE TABLE "+o.c.q(t.Name)+" ("+body+")", oraNameInUse)
}

// triggers emits the sequence triggers of auto-increment columns followed
// by the user triggers.
func (o *oracleDDL) triggers(t *Table) []string {
	var stmts []string
	for _, col := range t.Columns {
		if !col.AutoIncrement() {
			continue
		}
		stmts = append(stmts, fmt.Sprintf("CREATE OR REPLACE TRIGGER %s BEFORE INSERT ON %s FOR EACH ROW WHEN (NEW.%s IS NULL) BEGIN SELECT %s.NEXTVAL INTO :NEW.%s FROM dual; END;",
			o.c.q("trg_"+t.Name+"_"+col.Name), o.c.q(t.Name), o.c.q(col.Name), o.c.q(sequenceName(t, col)), o.c.q(col.Name)))
	}
	for _, tr := range t.Triggers {
		stmts = append(stmts, fmt.Sprintf("CREATE OR REPLACE TRIGGER %s %s %s ON %s FOR EACH ROW %s",
			o.c.q(tr.Name), strings.ToUpper(tr.Timing), strings.ToUpper(strings.Join(tr.Events, " OR ")), o.c.q(t.Name), tr.Body))
	}
	return stmts
}

func (o *oracleDDL) createIndex(t *Table, idx *Index, name string) string {
	return ignoring(o.ddlBase.createIndex(t, idx, name), oraNameInUse)
}
