// Package gen turns schema files into DDL scripts for one or more database
// vendors.
//
// # Pipeline
//
//	schema file (.yaml or .xml)
//	        ↓
//	   load.Load (schema.Schema)
//	        ↓
//	   schema.Compile, one worker per vendor
//	        ↓
//	   <target>/<name>[.<vendor>].sql
//	   <migrations>[/<vendor>]/<version>_<name>.sql + atlas.sum
//
// The script of a vendor is named after the schema file. When several
// vendors are configured the vendor name is inserted before the extension.
//
// # Configuration
//
// A Config is built from functional options:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithVendors("postgres", "mysql"),
//	    gen.WithTarget("ddl"),
//	    gen.WithMigrations("migrations"),
//	)
//
// The same settings may be stored in an rdb.yaml file next to the schema
// and turned into options with FromFile.
//
// # Migrations
//
// With migrations enabled every run appends a versioned file to an Atlas
// migration directory and rewrites its atlas.sum. A run whose script equals
// the latest migration adds nothing.
//
// # Error Handling
//
//   - ConfigError: invalid or missing options
//   - GenerationError: a vendor failed to compile or write its files
//   - ValidationError: Apply found breaking changes in a live database
//
// Failures of several vendors are reported together as an
// *rdb.AggregateError.
package gen
