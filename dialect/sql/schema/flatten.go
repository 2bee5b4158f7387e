package schema

import "slices"

// Flatten returns a copy of the schema in which every table that extends an
// abstract ancestor also carries the ancestor's columns, constraints,
// indexes and triggers. Copied columns come first and are marked Inherited.
// Column-level Primary and Unique flags are folded into the table's
// constraint lists.
//
// Flattening a flat schema yields an equivalent schema, so Flatten may be
// applied repeatedly. Extending an unknown or a non-abstract table, or a
// circular chain of tables, is reported as a *CompilationError.
func Flatten(s *Schema) (*Schema, error) {
	byName := make(map[string]*Table, len(s.Tables))
	for _, t := range s.Tables {
		if _, ok := byName[t.Name]; ok {
			return nil, &CompilationError{Table: t.Name, Message: "duplicate table definition"}
		}
		byName[t.Name] = t
	}
	var (
		flat     = make(map[string]*Table, len(s.Tables))
		visiting = make(map[string]bool)
		resolve  func(string) (*Table, error)
	)
	resolve = func(name string) (*Table, error) {
		if t, ok := flat[name]; ok {
			return t, nil
		}
		t := byName[name]
		if visiting[name] {
			return nil, &CompilationError{Table: name, Message: "circular table dependency detected"}
		}
		visiting[name] = true
		out := cloneTable(t)
		if t.Extends != "" {
			if _, ok := byName[t.Extends]; !ok {
				return nil, &CompilationError{Table: name, Message: "extends unknown table " + t.Extends}
			}
			parent, err := resolve(t.Extends)
			if err != nil {
				return nil, err
			}
			if !parent.Abstract {
				return nil, &CompilationError{Table: name, Message: "extends non-abstract table " + parent.Name}
			}
			out = inherit(parent, out)
		}
		foldColumnConstraints(out)
		flat[name] = out
		return out, nil
	}
	result := &Schema{Name: s.Name, Tables: make([]*Table, 0, len(s.Tables))}
	for _, t := range s.Tables {
		ft, err := resolve(t.Name)
		if err != nil {
			return nil, err
		}
		result.Tables = append(result.Tables, ft)
	}
	return result, nil
}

// inherit merges the flattened parent into the child copy.
func inherit(parent, child *Table) *Table {
	var columns []*Column
	for _, c := range parent.Columns {
		cc := c.clone()
		cc.Inherited = true
		columns = append(columns, cc)
	}
	for _, c := range child.Columns {
		if !c.Inherited {
			columns = append(columns, c)
		}
	}
	child.Columns = columns
	child.PrimaryKey = union(parent.PrimaryKey, child.PrimaryKey)
	uniques := make([][]string, 0, len(parent.Uniques)+len(child.Uniques))
	for _, u := range append(cloneUniques(parent.Uniques), child.Uniques...) {
		if !slices.ContainsFunc(uniques, func(x []string) bool { return slices.Equal(x, u) }) {
			uniques = append(uniques, u)
		}
	}
	child.Uniques = nilIfEmpty(uniques)
	var fks []*ForeignKey
	for _, fk := range append(cloneTable(parent).ForeignKeys, child.ForeignKeys...) {
		if !slices.ContainsFunc(fks, func(x *ForeignKey) bool { return sameForeignKey(x, fk) }) {
			fks = append(fks, fk)
		}
	}
	child.ForeignKeys = fks
	var indexes []*Index
	for _, idx := range append(cloneTable(parent).Indexes, child.Indexes...) {
		if !slices.ContainsFunc(indexes, func(x *Index) bool { return sameIndex(x, idx) }) {
			indexes = append(indexes, idx)
		}
	}
	child.Indexes = indexes
	var triggers []*Trigger
	for _, tr := range append(slices.Clone(parent.Triggers), child.Triggers...) {
		if !slices.ContainsFunc(triggers, func(x *Trigger) bool { return x.Name == tr.Name }) {
			triggers = append(triggers, tr)
		}
	}
	child.Triggers = triggers
	return child
}

// foldColumnConstraints moves column-level Primary and Unique flags into
// the table-level constraint lists.
func foldColumnConstraints(t *Table) {
	for _, c := range t.Columns {
		if c.Primary && !slices.Contains(t.PrimaryKey, c.Name) {
			t.PrimaryKey = append(t.PrimaryKey, c.Name)
		}
		if c.Unique && !slices.ContainsFunc(t.Uniques, func(u []string) bool { return len(u) == 1 && u[0] == c.Name }) {
			t.Uniques = append(t.Uniques, []string{c.Name})
		}
	}
}

func union(a, b []string) []string {
	out := cloneStrings(a)
	for _, s := range b {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func cloneUniques(u [][]string) [][]string {
	var out [][]string
	for _, x := range u {
		out = append(out, cloneStrings(x))
	}
	return out
}

func nilIfEmpty(u [][]string) [][]string {
	if len(u) == 0 {
		return nil
	}
	return u
}

func sameForeignKey(a, b *ForeignKey) bool {
	return a.Symbol == b.Symbol && a.RefTable == b.RefTable &&
		slices.Equal(a.Columns, b.Columns) && slices.Equal(a.RefColumns, b.RefColumns)
}

func sameIndex(a, b *Index) bool {
	return a.Name == b.Name && a.Unique == b.Unique && a.Type == b.Type && slices.Equal(a.Columns, b.Columns)
}
