package load

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/syssam/rdb/dialect"
)

// decodeXML decodes a DDLx-like document:
//
//	<schema name="hr">
//	  <table name="office">
//	    <column name="id" type="bigint" null="false" generateOnInsert="AUTO_INCREMENT"/>
//	    <column name="city" type="varchar" length="50"/>
//	    <constraints>
//	      <primaryKey><column name="id"/></primaryKey>
//	      <unique><column name="city"/></unique>
//	      <foreignKey references="region" onDelete="CASCADE">
//	        <column name="region_id" references="id"/>
//	      </foreignKey>
//	    </constraints>
//	    <indexes><index type="HASH"><column name="city"/></index></indexes>
//	    <triggers><trigger name="audit" time="AFTER" actions="INSERT UPDATE">...</trigger></triggers>
//	  </table>
//	</schema>
//
// Enum values are a space separated list where a backslash escapes a blank.
func decodeXML(buf []byte) (*Document, error) {
	x := etree.NewDocument()
	if err := x.ReadFromBytes(buf); err != nil {
		return nil, fmt.Errorf("load: decode xml: %w", err)
	}
	root := x.Root()
	if root == nil || root.Tag != "schema" {
		return nil, errors.New("load: decode xml: root element must be <schema>")
	}
	doc := &Document{Name: root.SelectAttrValue("name", "")}
	var errs []error
	for _, el := range root.ChildElements() {
		if el.Tag != "table" {
			errs = append(errs, fmt.Errorf("load: %s: unexpected element", el.GetPath()))
			continue
		}
		td, err := xmlTable(el)
		if err != nil {
			errs = append(errs, fmt.Errorf("load: %w", err))
			continue
		}
		doc.Tables = append(doc.Tables, td)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return doc, nil
}

func xmlTable(el *etree.Element) (*TableDoc, error) {
	a := attrs{el: el}
	td := &TableDoc{
		Name:     a.str("name"),
		Extends:  a.str("extends"),
		Abstract: a.flag("abstract"),
		Skip:     a.flag("skip"),
		Comment:  a.str("comment"),
	}
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "column":
			td.Columns = append(td.Columns, xmlColumn(child, &a))
		case "constraints":
			for _, c := range child.ChildElements() {
				switch c.Tag {
				case "primaryKey":
					td.PrimaryKey = append(td.PrimaryKey, columnRefs(c, "name")...)
				case "unique":
					td.Unique = append(td.Unique, columnRefs(c, "name"))
				case "foreignKey":
					ca := attrs{el: c}
					td.ForeignKeys = append(td.ForeignKeys, &ForeignKeyDoc{
						Name:       ca.str("name"),
						Columns:    columnRefs(c, "name"),
						References: ca.str("references"),
						RefColumns: columnRefs(c, "references"),
						OnDelete:   ca.str("onDelete"),
						OnUpdate:   ca.str("onUpdate"),
					})
					a.errs = append(a.errs, ca.errs...)
				default:
					return nil, fmt.Errorf("table %s: unexpected constraint <%s>", td.Name, c.Tag)
				}
			}
		case "indexes":
			for _, c := range child.SelectElements("index") {
				ca := attrs{el: c}
				td.Indexes = append(td.Indexes, &IndexDoc{
					Name:    ca.str("name"),
					Columns: columnRefs(c, "name"),
					Unique:  ca.flag("unique"),
					Type:    ca.str("type"),
				})
				a.errs = append(a.errs, ca.errs...)
			}
		case "triggers":
			for _, c := range child.SelectElements("trigger") {
				td.Triggers = append(td.Triggers, &TriggerDoc{
					Name:   c.SelectAttrValue("name", ""),
					Time:   c.SelectAttrValue("time", ""),
					Events: strings.Fields(c.SelectAttrValue("actions", "")),
					Body:   c.Text(),
				})
			}
		default:
			return nil, fmt.Errorf("table %s: unexpected element <%s>", td.Name, child.Tag)
		}
	}
	if err := errors.Join(a.errs...); err != nil {
		return nil, fmt.Errorf("table %s: %w", td.Name, err)
	}
	return td, nil
}

func xmlColumn(el *etree.Element, ta *attrs) *ColumnDoc {
	a := attrs{el: el}
	cd := &ColumnDoc{
		Name:             a.str("name"),
		Type:             a.str("type"),
		Length:           a.num("length"),
		Precision:        int(a.num("precision")),
		Scale:            int(a.num("scale")),
		Unsigned:         a.flag("unsigned"),
		Varying:          a.flag("varying"),
		Unique:           a.flag("unique"),
		Primary:          a.flag("primary"),
		KeyForUpdate:     a.flag("keyForUpdate"),
		GenerateOnInsert: a.str("generateOnInsert"),
		GenerateOnUpdate: a.str("generateOnUpdate"),
		Min:              a.numPtr("min"),
		Max:              a.numPtr("max"),
		Comment:          a.str("comment"),
	}
	if v := el.SelectAttr("values"); v != nil {
		cd.Values = dialect.ParseEnum(v.Value)
	}
	if v := el.SelectAttr("null"); v != nil {
		b := a.flag("null")
		cd.Nullable = &b
	}
	if v := el.SelectAttr("default"); v != nil {
		cd.Default = v.Value
	}
	ta.errs = append(ta.errs, a.errs...)
	return cd
}

// columnRefs returns the attribute of the nested <column> elements.
func columnRefs(el *etree.Element, attr string) []string {
	var names []string
	for _, c := range el.SelectElements("column") {
		names = append(names, c.SelectAttrValue(attr, ""))
	}
	return names
}

// attrs reads typed attributes of an element and collects conversion
// errors.
type attrs struct {
	el   *etree.Element
	errs []error
}

func (a *attrs) str(name string) string {
	return a.el.SelectAttrValue(name, "")
}

func (a *attrs) flag(name string) bool {
	s := a.str(name)
	if s == "" {
		return false
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		a.errs = append(a.errs, fmt.Errorf("%s/@%s: %q is not a boolean", a.el.GetPath(), name, s))
	}
	return b
}

func (a *attrs) num(name string) int64 {
	if p := a.numPtr(name); p != nil {
		return *p
	}
	return 0
}

func (a *attrs) numPtr(name string) *int64 {
	s := a.str(name)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		a.errs = append(a.errs, fmt.Errorf("%s/@%s: %q is not an integer", a.el.GetPath(), name, s))
		return nil
	}
	return &n
}
