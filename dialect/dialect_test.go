package dialect

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/rdb/schema/field"
)

func TestParseVendor(t *testing.T) {
	t.Parallel()
	tests := map[string]Vendor{
		"mysql":      MySQL,
		"MariaDB":    MariaDB,
		"postgresql": Postgres,
		"pgx":        Postgres,
		"oracle":     Oracle,
		"derby":      Derby,
		"sqlite3":    SQLite,
	}
	for name, want := range tests {
		got, err := ParseVendor(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseVendor("mssql")
	require.Error(t, err)
	assert.Equal(t, "postgres", Postgres.String())
	assert.Equal(t, "mysql", MariaDB.DriverName())
	assert.False(t, Vendor(0).Valid())
}

func TestQuoteIdentifier(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "`Office`", MustFor(MySQL).QuoteIdentifier("Office"))
	assert.Equal(t, "`a``b`", MustFor(MariaDB).QuoteIdentifier("a`b"))
	assert.Equal(t, `"Office"`, MustFor(Postgres).QuoteIdentifier("Office"))
	assert.Equal(t, `"a""b"`, MustFor(Oracle).QuoteIdentifier(`a"b`))
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "?", MustFor(MySQL).Placeholder(3))
	assert.Equal(t, "$3", MustFor(Postgres).Placeholder(3))
	assert.Equal(t, ":3", MustFor(Oracle).Placeholder(3))
	assert.Equal(t, "?", MustFor(SQLite).Placeholder(1))
}

func TestMySQLIntegers(t *testing.T) {
	t.Parallel()
	d := MustFor(MySQL)
	tests := []struct {
		name string
		fn   func() (string, error)
		want string
	}{
		{"int default", func() (string, error) { return d.CompileInt(0, false) }, "INT(10)"},
		{"int unsigned", func() (string, error) { return d.CompileInt(0, true) }, "INT(10) UNSIGNED"},
		{"mediumint signed", func() (string, error) { return d.CompileInt(7, false) }, "MEDIUMINT(7)"},
		{"mediumint unsigned", func() (string, error) { return d.CompileInt(8, true) }, "MEDIUMINT(8) UNSIGNED"},
		{"int signed 8", func() (string, error) { return d.CompileInt(8, false) }, "INT(8)"},
		{"tinyint", func() (string, error) { return d.CompileTinyint(0, false) }, "TINYINT(3)"},
		{"smallint", func() (string, error) { return d.CompileSmallint(4, false) }, "SMALLINT(4)"},
		{"bigint", func() (string, error) { return d.CompileBigint(0, false) }, "BIGINT(19)"},
		{"bigint unsigned", func() (string, error) { return d.CompileBigint(0, true) }, "BIGINT(20) UNSIGNED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeBounds(t *testing.T) {
	t.Parallel()
	_, err := MustFor(MySQL).CompileDecimal(100, 0, false)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrTypeBounds)
	var tbe *TypeBoundsError
	require.ErrorAs(t, err, &tbe)
	assert.Equal(t, "precision", tbe.Facet)
	assert.Equal(t, int64(65), tbe.Max)

	_, err = MustFor(MySQL).CompileDecimal(10, 31, false)
	require.True(t, IsTypeBoundsError(err))
	_, err = MustFor(MySQL).CompileDecimal(5, 6, false)
	require.True(t, IsTypeBoundsError(err), "scale may not exceed precision")
	_, err = MustFor(MySQL).CompileBigint(20, false)
	require.True(t, IsTypeBoundsError(err))
	_, err = MustFor(Postgres).CompileBigint(20, true)
	require.True(t, IsTypeBoundsError(err), "unsigned bigint digits need unsigned support")
	_, err = MustFor(Oracle).CompileChar(4001, true)
	require.True(t, IsTypeBoundsError(err))
	_, err = MustFor(Derby).CompileBinary(255, false)
	require.True(t, IsTypeBoundsError(err))
	_, err = MustFor(MySQL).CompileTime(7)
	require.True(t, IsTypeBoundsError(err))
	_, err = MustFor(MySQL).CompileChar(-1, false)
	require.True(t, IsTypeBoundsError(err))
}

func TestDeclare(t *testing.T) {
	t.Parallel()
	tests := []struct {
		vendor Vendor
		spec   field.Spec
		want   string
	}{
		{MySQL, field.Spec{Type: field.TypeChar, Length: 50, Varying: true}, "VARCHAR(50)"},
		{MySQL, field.Spec{Type: field.TypeChar}, "CHAR(1)"},
		{MySQL, field.Spec{Type: field.TypeDecimal}, "DECIMAL(10, 0)"},
		{MySQL, field.Spec{Type: field.TypeBlob, Length: 255}, "TINYBLOB"},
		{MySQL, field.Spec{Type: field.TypeBlob, Length: 65536}, "MEDIUMBLOB"},
		{MySQL, field.Spec{Type: field.TypeClob, Length: 1000}, "TEXT"},
		{MySQL, field.Spec{Type: field.TypeEnum, Values: []string{"A", "B'C"}}, "ENUM('A', 'B''C')"},
		{MySQL, field.Spec{Type: field.TypeDateTime, Precision: 3}, "DATETIME(3)"},
		{Postgres, field.Spec{Type: field.TypeInt}, "INTEGER"},
		{Postgres, field.Spec{Type: field.TypeEnum, Values: []string{"A"}}, `"ty_t_c"`},
		{Postgres, field.Spec{Type: field.TypeDouble}, "DOUBLE PRECISION"},
		{Oracle, field.Spec{Type: field.TypeInt}, "NUMBER(10)"},
		{Oracle, field.Spec{Type: field.TypeBoolean}, "NUMBER(1)"},
		{Oracle, field.Spec{Type: field.TypeChar, Length: 20, Varying: true}, "VARCHAR2(20)"},
		{Oracle, field.Spec{Type: field.TypeEnum, Values: []string{"A", "LONG"}}, "VARCHAR2(4)"},
		{Derby, field.Spec{Type: field.TypeBinary, Length: 16, Varying: true}, "VARCHAR(16) FOR BIT DATA"},
		{Derby, field.Spec{Type: field.TypeDateTime}, "TIMESTAMP"},
		{SQLite, field.Spec{Type: field.TypeDateTime}, "DATETIME"},
		{SQLite, field.Spec{Type: field.TypeClob}, "TEXT"},
	}
	for _, tt := range tests {
		t.Run(tt.vendor.String()+"/"+tt.want, func(t *testing.T) {
			got, err := MustFor(tt.vendor).Declare("t", "c", tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	_, err := MustFor(MySQL).Declare("t", "c", field.Spec{Type: field.TypeEnum})
	require.Error(t, err)
}

func TestAllowsUnsignedNumeric(t *testing.T) {
	t.Parallel()
	assert.True(t, MustFor(MySQL).AllowsUnsignedNumeric())
	assert.True(t, MustFor(MariaDB).AllowsUnsignedNumeric())
	for _, v := range []Vendor{Postgres, Oracle, Derby, SQLite} {
		assert.False(t, MustFor(v).AllowsUnsignedNumeric(), v.String())
	}
	s, err := MustFor(Postgres).CompileInt(0, true)
	require.NoError(t, err)
	assert.Equal(t, "INTEGER", s)
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   any
		want string
	}{
		{42, "42"},
		{int64(-7), "-7"},
		{uint64(18446744073709551615), "18446744073709551615"},
		{1e21, "1000000000000000000000"},
		{0.000001, "0.000001"},
		{float32(1.5), "1.5"},
		{decimal.RequireFromString("12345678901234567890.123456789"), "12345678901234567890.123456789"},
	}
	for _, tt := range tests {
		got, err := FormatNumber(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := FormatNumber("1")
	require.Error(t, err)
}

func TestLiteral(t *testing.T) {
	t.Parallel()
	ts := time.Date(2024, 3, 9, 7, 5, 1, 250000000, time.UTC)
	tests := []struct {
		vendor Vendor
		typ    field.Type
		in     any
		want   string
	}{
		{MySQL, field.TypeChar, "O'Hara", "'O''Hara'"},
		{MySQL, field.TypeBoolean, true, "TRUE"},
		{Oracle, field.TypeBoolean, false, "0"},
		{Oracle, field.TypeChar, "", "' '"},
		{MySQL, field.TypeBinary, []byte{0xca, 0xfe}, "X'CAFE'"},
		{Derby, field.TypeBlob, []byte{0x01}, "CAST (X'01' AS BLOB)"},
		{MySQL, field.TypeDate, ts, "'2024-03-09'"},
		{MySQL, field.TypeTime, ts, "'07:05:01.25'"},
		{Derby, field.TypeTime, ts, "'07:05:01'"},
		{MySQL, field.TypeDateTime, ts, "'2024-03-09 07:05:01.25'"},
		{Oracle, field.TypeDateTime, ts, "TO_TIMESTAMP('2024-03-09 07:05:01.25', 'YYYY-MM-DD HH24:MI:SS.FF')"},
		{MySQL, field.TypeInt, nil, "NULL"},
		{MySQL, field.TypeDecimal, "12.50", "12.5"},
		{Postgres, field.TypeDecimal, "1e5", "100000"},
		{MySQL, field.TypeChar, `x\' OR 1=1 -- `, `'x\\'' OR 1=1 -- '`},
		{MariaDB, field.TypeChar, `a\b`, `'a\\b'`},
		{Postgres, field.TypeChar, `x\' OR 1=1`, `'x\'' OR 1=1'`},
		{SQLite, field.TypeChar, `a\b`, `'a\b'`},
	}
	for _, tt := range tests {
		got, err := MustFor(tt.vendor).Literal(tt.typ, tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
	_, err := MustFor(MySQL).Literal(field.TypeInt, "1; DROP TABLE x")
	require.Error(t, err)
}

func TestParseEnum(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"A B", "C"}, ParseEnum(`A\ B C`))
	assert.Equal(t, []string{"ONE", "TWO"}, ParseEnum("  ONE   TWO "))
	assert.Empty(t, ParseEnum(""))
	assert.Equal(t, "ty_office_kind", EnumTypeName("office", "kind"))
}

func TestReservedIn(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []Standard{SQL92, SQL99, SQL2003}, ReservedIn("select"))
	assert.Equal(t, []Standard{SQL99}, ReservedIn("After"))
	assert.Nil(t, ReservedIn("office"))
	assert.True(t, IsReserved("ORDER"))
	assert.Equal(t, "SQL-2003", SQL2003.String())
}
