package schema

import (
	"fmt"

	"github.com/syssam/rdb/dialect"
)

// derbyDDL renders Apache Derby DDL. Conditional creation goes through the
// CREATE_TABLE_IF_NOT_EXISTS and DROP_TABLE_IF_EXISTS routines, which the
// execution layer registers on first use.
type derbyDDL struct{ ddlBase }

func (d *derbyDDL) dropTable(t *Table) []string {
	return []string{"CALL DROP_TABLE_IF_EXISTS(" + dialect.QuoteString(t.Name) + ")"}
}

func (d *derbyDDL) autoIncrement(t *Table, col *Column) string {
	if col.Default != nil && col.Min != nil {
		d.c.warn(t.Name, col.Name, "min of an identity column with a default is ignored by derby")
	}
	if col.Max != nil {
		d.c.warn(t.Name, col.Name, "max of an identity column is not supported by derby")
	}
	return fmt.Sprintf(" GENERATED BY DEFAULT AS IDENTITY (START WITH %d, INCREMENT BY 1)", autoIncrementStart(col))
}

func (d *derbyDDL) referenceOption(action string, opt ReferenceOption) string {
	if action == "UPDATE" && opt != NoAction && opt != Restrict {
		d.c.warn("", "", "ON UPDATE "+string(opt)+" is not supported by derby")
		return ""
	}
	return d.ddlBase.referenceOption(action, opt)
}

func (d *derbyDDL) createTable(t *Table, body string) string {
	stmt := "CREATE TABLE " + d.c.q(t.Name) + " (" + body + ")"
	return "CALL CREATE_TABLE_IF_NOT_EXISTS(" + dialect.QuoteString(t.Name) + ", " + dialect.QuoteString(stmt) + ")"
}

func (d *derbyDDL) triggers(t *Table) []string {
	return d.triggerPerEvent(t, func(name, timing, event string, tr *Trigger) string {
		if timing == "BEFORE" {
			timing = "NO CASCADE BEFORE"
		}
		ref := "NEW AS NEW"
		if event == "DELETE" {
			ref = "OLD AS OLD"
		}
		return fmt.Sprintf("CREATE TRIGGER %s %s %s ON %s REFERENCING %s FOR EACH ROW %s", d.c.q(name), timing, event, d.c.q(t.Name), ref, tr.Body)
	})
}
