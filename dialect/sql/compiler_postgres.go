package sql

import "github.com/syssam/rdb/schema/field"

// postgresDML compiles DML for PostgreSQL. The base forms are those of
// PostgreSQL, so only the numeric functions need care.
type postgresDML struct {
	dmlBase
}

// fn casts floating point arguments of the functions that PostgreSQL only
// defines over NUMERIC.
func (p *postgresDML) fn(c *scope, f *fn) error {
	switch f.op {
	case opLog2, opLog10:
		c.write("LOG(", logBase(f.op), ", ")
		if err := p.numeric(c, f.args[0]); err != nil {
			return err
		}
		c.write(")")
		return nil
	case opLog, opMod:
		return p.numericCall(c, fnNames[f.op], f.args...)
	case opRound:
		if len(f.args) == 2 {
			c.write("ROUND(")
			if err := p.numeric(c, f.args[0]); err != nil {
				return err
			}
			c.write(", ")
			if err := p.cm.expr(c, f.args[1]); err != nil {
				return err
			}
			c.write(")")
			return nil
		}
	}
	return p.dmlBase.fn(c, f)
}

func (p *postgresDML) numericCall(c *scope, name string, args ...Subject) error {
	c.write(name, "(")
	for i, a := range args {
		if i > 0 {
			c.write(", ")
		}
		if err := p.numeric(c, a); err != nil {
			return err
		}
	}
	c.write(")")
	return nil
}

// numeric writes s, cast to NUMERIC when it is floating point.
func (p *postgresDML) numeric(c *scope, s Subject) error {
	switch specOf(s).Type {
	case field.TypeFloat, field.TypeDouble:
		c.write("CAST(")
		if err := p.cm.expr(c, s); err != nil {
			return err
		}
		c.write(" AS NUMERIC)")
		return nil
	}
	return p.cm.expr(c, s)
}

func (*postgresDML) returning() returnMode { return returnClause }
