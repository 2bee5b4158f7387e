package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/rdb/dialect"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Table   string
	Column  string
	Message string
	// Breaking indicates if this is a breaking change.
	Breaking bool
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of schema validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if there are any breaking changes.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			if w.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateOption configures schema validation.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	allowDropColumn    bool
	allowDropTable     bool
	allowDropIndex     bool
	allowNullToNotNull bool
	strictPrimaryKey   bool
}

func newValidateConfig(opts []ValidateOption) *validateConfig {
	cfg := &validateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// AllowDropColumn allows dropping columns without error.
func AllowDropColumn() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropColumn = true
	}
}

// AllowDropTable allows dropping tables without error.
func AllowDropTable() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropTable = true
	}
}

// AllowDropIndex allows dropping indexes without error.
func AllowDropIndex() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropIndex = true
	}
}

// AllowNullToNotNull allows changing nullable columns to not null.
func AllowNullToNotNull() ValidateOption {
	return func(c *validateConfig) {
		c.allowNullToNotNull = true
	}
}

// StrictPrimaryKey reports concrete tables without a primary key, and
// nullable primary-key columns, as errors instead of warnings.
func StrictPrimaryKey() ValidateOption {
	return func(c *validateConfig) {
		c.strictPrimaryKey = true
	}
}

// ValidateDiff validates the difference between current and desired schema.
// It returns validation errors for breaking changes and warnings for potentially
// dangerous operations.
//
// Example:
//
//	result := schema.ValidateDiff(current, desired)
//	if result.HasBreakingChanges() {
//	    log.Fatal("Breaking changes detected:", result)
//	}
//	if result.HasWarnings() {
//	    log.Println("Warnings:", result)
//	}
func ValidateDiff(current, desired []*Table, opts ...ValidateOption) *ValidationResult {
	cfg := newValidateConfig(opts)
	result := &ValidationResult{}
	currentMap := make(map[string]*Table, len(current))
	for _, t := range current {
		currentMap[t.Name] = t
	}
	desiredMap := make(map[string]*Table, len(desired))
	for _, t := range desired {
		desiredMap[t.Name] = t
	}

	// Check for dropped tables
	for name := range currentMap {
		if _, ok := desiredMap[name]; !ok {
			err := &ValidationError{
				Table:    name,
				Message:  "table will be dropped",
				Breaking: true,
			}
			if cfg.allowDropTable {
				result.Warnings = append(result.Warnings, err)
			} else {
				result.Errors = append(result.Errors, err)
			}
		}
	}

	// Check for changes in existing tables
	for name, desired := range desiredMap {
		current, exists := currentMap[name]
		if !exists {
			// New table, no validation needed
			continue
		}
		validateTableDiff(current, desired, cfg, result)
	}

	return result
}

func validateTableDiff(current, desired *Table, cfg *validateConfig, result *ValidationResult) {
	currentCols := make(map[string]*Column, len(current.Columns))
	for _, c := range current.Columns {
		currentCols[c.Name] = c
	}

	// Check for dropped columns
	for name := range currentCols {
		found := false
		for _, c := range desired.Columns {
			if c.Name == name {
				found = true
				break
			}
		}
		if !found {
			err := &ValidationError{
				Table:    current.Name,
				Column:   name,
				Message:  "column will be dropped",
				Breaking: true,
			}
			if cfg.allowDropColumn {
				result.Warnings = append(result.Warnings, err)
			} else {
				result.Errors = append(result.Errors, err)
			}
		}
	}

	// Check for column changes
	for _, desiredCol := range desired.Columns {
		currentCol, exists := currentCols[desiredCol.Name]
		if !exists {
			// New column
			if !desiredCol.Nullable && desiredCol.Default == nil && !desiredCol.AutoIncrement() {
				result.Warnings = append(result.Warnings, &ValidationError{
					Table:   current.Name,
					Column:  desiredCol.Name,
					Message: "new NOT NULL column without default value may fail if table has data",
				})
			}
			continue
		}

		// Type change
		if currentCol.Type != desiredCol.Type {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   current.Name,
				Column:  desiredCol.Name,
				Message: fmt.Sprintf("column type changing from %v to %v", currentCol.Type, desiredCol.Type),
			})
		}

		// Nullable to NOT NULL
		if currentCol.Nullable && !desiredCol.Nullable {
			err := &ValidationError{
				Table:    current.Name,
				Column:   desiredCol.Name,
				Message:  "column changing from NULL to NOT NULL may fail if column has NULL values",
				Breaking: true,
			}
			if cfg.allowNullToNotNull {
				result.Warnings = append(result.Warnings, err)
			} else {
				result.Errors = append(result.Errors, err)
			}
		}

		// Size reduction
		if currentCol.Length > 0 && desiredCol.Length > 0 && desiredCol.Length < currentCol.Length {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   current.Name,
				Column:  desiredCol.Name,
				Message: fmt.Sprintf("column length reducing from %d to %d may truncate data", currentCol.Length, desiredCol.Length),
			})
		}

		// Unique constraint added
		if !currentCol.Unique && desiredCol.Unique {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   current.Name,
				Column:  desiredCol.Name,
				Message: "adding UNIQUE constraint may fail if duplicate values exist",
			})
		}
	}

	// Check for dropped indexes
	currentIdxs := make(map[string]*Index, len(current.Indexes))
	for _, idx := range current.Indexes {
		currentIdxs[idx.Name] = idx
	}
	for name := range currentIdxs {
		if strings.HasPrefix(name, "sqlite_autoindex_") {
			continue
		}
		found := slices.ContainsFunc(desired.Indexes, func(idx *Index) bool {
			return idx.Name == name || idx.Name == "" && strings.HasPrefix(name, indexBaseName(desired, idx))
		})
		if !found {
			err := &ValidationError{
				Table:   current.Name,
				Message: fmt.Sprintf("index %q will be dropped", name),
			}
			if cfg.allowDropIndex {
				result.Warnings = append(result.Warnings, err)
			} else {
				result.Errors = append(result.Errors, err)
			}
		}
	}
}

// ValidateTable validates a single table definition. Reserved words are
// reported as warnings, duplicate names and references to missing columns
// as errors. A missing or nullable primary key is a warning unless
// StrictPrimaryKey is given.
func ValidateTable(t *Table, opts ...ValidateOption) *ValidationResult {
	cfg := newValidateConfig(opts)
	result := &ValidationResult{}
	pkIssue := func(e *ValidationError) {
		if cfg.strictPrimaryKey {
			result.Errors = append(result.Errors, e)
		} else {
			result.Warnings = append(result.Warnings, e)
		}
	}
	if w := reservedWarning(t.Name, ""); w != nil {
		w.Table = t.Name
		result.Warnings = append(result.Warnings, w)
	}

	// Check for primary key
	if len(t.PrimaryKey) == 0 && !t.Abstract {
		pkIssue(&ValidationError{
			Table:   t.Name,
			Message: "table does not have a primary key",
		})
	}

	// Check for duplicate column names
	colNames := make(map[string]*Column)
	for _, c := range t.Columns {
		if _, ok := colNames[c.Name]; ok {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Column:  c.Name,
				Message: "duplicate column name",
			})
		}
		colNames[c.Name] = c
		if w := reservedWarning(c.Name, t.Name); w != nil {
			result.Warnings = append(result.Warnings, w)
		}
	}
	missing := func(what string, cols []string) {
		for _, name := range cols {
			if _, ok := colNames[name]; !ok {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("%s references non-existent column %q", what, name),
				})
			}
		}
	}
	missing("primary key", t.PrimaryKey)
	for _, name := range t.PrimaryKey {
		if c, ok := colNames[name]; ok && c.Nullable {
			pkIssue(&ValidationError{
				Table:   t.Name,
				Column:  name,
				Message: "primary key column is NULL",
			})
		}
	}
	for _, u := range t.Uniques {
		missing("unique constraint", u)
	}

	// Check for duplicate index names
	idxNames := make(map[string]bool)
	for _, idx := range t.Indexes {
		if idx.Name != "" {
			if idxNames[idx.Name] {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("duplicate index name: %s", idx.Name),
				})
			}
			idxNames[idx.Name] = true
		}
		if len(idx.Columns) == 0 {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("index %q has no columns", idx.Name),
			})
		}
		missing(fmt.Sprintf("index %q", idx.Name), idx.Columns)
	}

	// Check foreign keys
	for _, fk := range t.ForeignKeys {
		missing("foreign key", fk.Columns)
		if len(fk.Columns) != len(fk.RefColumns) {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: fmt.Sprintf("foreign key to %q has %d columns but references %d", fk.RefTable, len(fk.Columns), len(fk.RefColumns)),
			})
		}
	}

	return result
}

// reservedWarning returns a warning if name is a reserved word in any SQL
// standard.
func reservedWarning(name, table string) *ValidationError {
	std := dialect.ReservedIn(name)
	if len(std) == 0 {
		return nil
	}
	names := make([]string, len(std))
	for i, s := range std {
		names[i] = s.String()
	}
	w := &ValidationError{
		Table:   table,
		Message: fmt.Sprintf("The name '%s' is reserved word in %s", name, strings.Join(names, ", ")),
	}
	if table != "" {
		w.Column = name
	}
	return w
}

// ValidateSchema validates all tables in a schema.
func ValidateSchema(tables []*Table, opts ...ValidateOption) *ValidationResult {
	result := &ValidationResult{}

	tableNames := make(map[string]*Table)
	for _, t := range tables {
		// Check for duplicate table names
		if _, ok := tableNames[t.Name]; ok {
			result.Errors = append(result.Errors, &ValidationError{
				Table:   t.Name,
				Message: "duplicate table name",
			})
		}
		tableNames[t.Name] = t

		// Validate individual table
		tableResult := ValidateTable(t, opts...)
		result.Errors = append(result.Errors, tableResult.Errors...)
		result.Warnings = append(result.Warnings, tableResult.Warnings...)
	}

	// Validate foreign key references
	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			ref, ok := tableNames[fk.RefTable]
			if !ok {
				result.Errors = append(result.Errors, &ValidationError{
					Table:   t.Name,
					Message: fmt.Sprintf("foreign key references non-existent table %q", fk.RefTable),
				})
				continue
			}
			for _, name := range fk.RefColumns {
				if !slices.ContainsFunc(ref.Columns, func(c *Column) bool { return c.Name == name }) {
					result.Errors = append(result.Errors, &ValidationError{
						Table:   t.Name,
						Message: fmt.Sprintf("foreign key references non-existent column %q of table %q", name, fk.RefTable),
					})
				}
			}
		}
	}

	return result
}
