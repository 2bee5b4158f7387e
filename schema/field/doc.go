// Package field describes the scalar column types shared by the DDL and DML
// compilers.
//
// A column's SQL type is described by a [Spec]: the [Type] plus the facets a
// vendor needs to render a declaration (length, precision, scale, signedness,
// enum values):
//
//	field.Spec{Type: field.TypeInt}                        // INT(10) on MySQL
//	field.Spec{Type: field.TypeChar, Length: 50, Varying: true} // VARCHAR(50)
//	field.Spec{Type: field.TypeDecimal, Precision: 12, Scale: 2}
//	field.Spec{Type: field.TypeEnum, Values: []string{"NEW", "DONE"}}
//
// A zero facet selects the vendor default. Bounds are checked by the dialect
// when the type is declared, not here.
//
// # Generation Strategies
//
// Columns may carry a [Generate] strategy that produces a value when a row is
// inserted or updated:
//
//	field.GenerateAutoIncrement // server side identity; omitted from INSERT
//	field.GenerateUUID          // random UUID string
//	field.GenerateTimestamp     // current time
//	field.GenerateEpochSeconds  // seconds since the Unix epoch
//	field.GenerateEpochMinutes
//	field.GenerateEpochMillis
//	field.GenerateIncrement     // value + 1, evaluated by the database on UPDATE
package field
