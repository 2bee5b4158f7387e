// Package dialect holds the per-vendor rules used by the SQL compilers.
//
// A [Vendor] selects one of the supported products, and [For] returns its
// [Dialect]: identifier quoting, bind markers, bounded type declarations and
// literal formatting. Dialects are stateless tables of facts and are safe for
// concurrent use.
//
// # Supported Vendors
//
//   - MySQL and MariaDB: backtick quoting, UNSIGNED numerics, inline ENUM
//   - Postgres: double-quote quoting, $n bind markers, ENUM types
//   - Oracle: double-quote quoting, :n bind markers, NUMBER and VARCHAR2
//   - Derby: DB2-style types, FOR BIT DATA binaries
//   - SQLite: affinity-friendly type names
//
// # Type Declarations
//
// Each scalar type has a CompileXxx method that validates its facets
// against the vendor's documented maxima before rendering the declaration:
//
//	d := dialect.MustFor(dialect.MySQL)
//	d.CompileInt(0, false)          // "INT(10)"
//	d.CompileDecimal(12, 2, false)  // "DECIMAL(12, 2)"
//	d.CompileDecimal(100, 0, false) // *TypeBoundsError: precision 100 exceeds maximum 65
//
// # Literals
//
// Numbers are formatted without exponents, strings are quoted by doubling
// embedded quotes, binaries use the X'..' form and temporal values use fixed
// ISO layouts, so the same value always yields the same SQL text.
//
// # Driver Interfaces
//
// The package also defines the [Driver], [Tx] and [ExecQuerier] interfaces
// implemented by dialect/sql and consumed by the execution layer.
package dialect
