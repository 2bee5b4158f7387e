package sql

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/rdb/dialect"
	"github.com/syssam/rdb/schema/field"
)

var quiet = WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func varchar(n int64) field.Spec {
	return field.Spec{Type: field.TypeChar, Length: n, Varying: true}
}

// testTables returns fresh office, emp and account tables.
func testTables() (office, emp, account *Table) {
	office = NewTable("office")
	office.AddColumn("id", field.Spec{Type: field.TypeBigint}, Primary(), GenerateOnInsert(field.GenerateAutoIncrement))
	office.AddColumn("city", varchar(50), Nullable())
	office.AddColumn("budget", field.Spec{Type: field.TypeDecimal, Precision: 10, Scale: 2}, Nullable())
	office.AddColumn("opened", field.Spec{Type: field.TypeDate}, Nullable())
	office.AddColumn("active", field.Spec{Type: field.TypeBoolean}, Nullable())

	emp = NewTable("emp")
	emp.AddColumn("id", field.Spec{Type: field.TypeBigint}, Primary())
	emp.AddColumn("office_id", field.Spec{Type: field.TypeBigint})
	emp.AddColumn("name", varchar(40))
	emp.AddColumn("hired", field.Spec{Type: field.TypeDateTime})

	account = NewTable("account")
	account.AddColumn("id", field.Spec{Type: field.TypeBigint}, Primary())
	account.AddColumn("balance", field.Spec{Type: field.TypeBigint})
	account.AddColumn("version", field.Spec{Type: field.TypeInt}, KeyForUpdate(), GenerateOnUpdate(field.GenerateIncrement))
	return office, emp, account
}

func compile(t *testing.T, stmt Statement, v dialect.Vendor, opts ...CompileOption) *Compiled {
	t.Helper()
	c, err := Compile(stmt, v, append([]CompileOption{quiet}, opts...)...)
	require.NoError(t, err)
	return c
}

func TestCompile_SelectPlaceholders(t *testing.T) {
	tests := []struct {
		vendor dialect.Vendor
		want   string
	}{
		{dialect.Postgres, `SELECT a."id", a."city" FROM "office" a WHERE a."id" > $1 AND a."city" = $2`},
		{dialect.Oracle, `SELECT a."id", a."city" FROM "office" a WHERE a."id" > :1 AND a."city" = :2`},
		{dialect.Derby, `SELECT a."id", a."city" FROM "office" a WHERE a."id" > ? AND a."city" = ?`},
		{dialect.SQLite, `SELECT a."id", a."city" FROM "office" a WHERE a."id" > ? AND a."city" = ?`},
		{dialect.MySQL, "SELECT a.`id`, a.`city` FROM `office` a WHERE a.`id` > ? AND a.`city` = ?"},
		{dialect.MariaDB, "SELECT a.`id`, a.`city` FROM `office` a WHERE a.`id` > ? AND a.`city` = ?"},
	}
	for _, tt := range tests {
		t.Run(tt.vendor.String(), func(t *testing.T) {
			office, _, _ := testTables()
			sel := Select(office.C("id"), office.C("city")).
				Where(And(GT(office.C("id"), 10), EQ(office.C("city"), "Paris")))
			c := compile(t, sel, tt.vendor)
			require.Equal(t, tt.want, c.SQL)
			require.Equal(t, []any{10, "Paris"}, c.Args)
			require.Empty(t, c.Warnings)
		})
	}
}

func TestCompile_Deterministic(t *testing.T) {
	build := func() *Selector {
		office, emp, _ := testTables()
		sub := Select(emp.C("office_id")).Where(HasPrefix(emp.C("name"), "A_"))
		return Select(office).
			Where(Or(InQuery(office.C("id"), sub), EQ(office.C("city"), "Oslo"))).
			OrderBy(Desc(office.C("city"))).
			Limit(5).
			Offset(10)
	}
	for _, v := range dialect.Vendors {
		first := compile(t, build(), v)
		second := compile(t, build(), v)
		assert.Equal(t, first.SQL, second.SQL, v.String())
		assert.Equal(t, first.Args, second.Args, v.String())
	}
}

func TestAlias(t *testing.T) {
	for i, want := range map[int]string{0: "a", 1: "b", 25: "z", 26: "aa", 27: "ab", 51: "az", 52: "ba", 701: "zz", 702: "aaa"} {
		assert.Equal(t, want, alias(i), i)
	}
}

func TestCompile_Predicates(t *testing.T) {
	office, _, _ := testTables()
	tests := []struct {
		name string
		p    Predicate
		want string
		args []any
	}{
		{
			name: "null",
			p:    And(EQ(office.C("city"), nil), NEQ(office.C("budget"), nil)),
			want: `a."city" IS NULL AND a."budget" IS NOT NULL`,
		},
		{
			name: "nested",
			p:    Or(EQ(office.C("id"), 1), And(EQ(office.C("city"), "a"), EQ(office.C("active"), true))),
			want: `a."id" = $1 OR (a."city" = $2 AND a."active" = $3)`,
			args: []any{1, "a", true},
		},
		{
			name: "same operator",
			p:    And(EQ(office.C("id"), 1), And(EQ(office.C("city"), "a"), IsNull(office.C("opened")))),
			want: `a."id" = $1 AND a."city" = $2 AND a."opened" IS NULL`,
			args: []any{1, "a"},
		},
		{
			name: "empty in",
			p:    In(office.C("id")),
			want: `1 = 0`,
		},
		{
			name: "empty not in",
			p:    NotIn(office.C("id")),
			want: `1 = 1`,
		},
		{
			name: "in",
			p:    In(office.C("id"), 1, 2),
			want: `a."id" IN ($1, $2)`,
			args: []any{1, 2},
		},
		{
			name: "like escaped",
			p:    Contains(office.C("city"), "50%_off!"),
			want: `a."city" LIKE '%50!%!_off!!%' ESCAPE '!'`,
		},
		{
			name: "like",
			p:    NotLike(office.C("city"), "P%"),
			want: `a."city" NOT LIKE 'P%'`,
		},
		{
			name: "between",
			p:    Not(Between(office.C("id"), 1, 9)),
			want: `NOT (a."id" BETWEEN $1 AND $2)`,
			args: []any{1, 9},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := compile(t, Select(office.C("id")).Where(tt.p), dialect.Postgres)
			require.Equal(t, `SELECT a."id" FROM "office" a WHERE `+tt.want, c.SQL)
			require.Equal(t, tt.args, c.Args)
		})
	}
}

func TestCompile_SubQueries(t *testing.T) {
	t.Run("in", func(t *testing.T) {
		office, emp, _ := testTables()
		since := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		sub := Select(emp.C("office_id")).Where(GT(emp.C("hired"), since))
		c := compile(t, Select(office.C("city")).Where(InQuery(office.C("id"), sub)), dialect.Postgres)
		require.Equal(t, `SELECT a."city" FROM "office" a WHERE a."id" IN (SELECT b."office_id" FROM "emp" b WHERE b."hired" > $1)`, c.SQL)
		require.Equal(t, []any{since}, c.Args)
	})
	t.Run("oracle offset", func(t *testing.T) {
		office, emp, _ := testTables()
		sub := Select(emp.C("office_id")).OrderBy(emp.C("id")).Limit(2).Offset(1)
		c := compile(t, Select(office.C("city")).Where(InQuery(office.C("id"), sub)), dialect.Oracle)
		require.Equal(t, `SELECT a."city" FROM "office" a WHERE a."id" IN (SELECT "office_id" FROM (SELECT ROWNUM rnum3729, r.* FROM (SELECT b."office_id" FROM "emp" b ORDER BY b."id") r WHERE ROWNUM <= 3) WHERE rnum3729 > 1)`, c.SQL)
		require.Zero(t, c.skip)

		sub = Select(emp).Offset(4)
		c = compile(t, Select(office.C("city")).Where(Exists(sub)), dialect.Oracle)
		require.Contains(t, c.SQL, `EXISTS (SELECT "id", "office_id", "name", "hired" FROM (SELECT ROWNUM rnum3729, r.* FROM (SELECT b."id", b."office_id", b."name", b."hired" FROM "emp" b) r) WHERE rnum3729 > 4)`)
	})
	t.Run("correlated", func(t *testing.T) {
		office, emp, _ := testTables()
		sub := Select(emp.C("id")).Where(EQ(emp.C("office_id"), office.C("id")))
		c := compile(t, Select(office.C("city")).Where(Exists(sub)), dialect.Postgres)
		require.Equal(t, `SELECT a."city" FROM "office" a WHERE EXISTS (SELECT b."id" FROM "emp" b WHERE b."office_id" = a."id")`, c.SQL)
	})
	t.Run("joined", func(t *testing.T) {
		office, emp, _ := testTables()
		n := Alias(CountAll(), "n")
		counts := Select(n, emp.C("office_id")).GroupBy(emp.C("office_id"))
		sel := Select(office.C("city"), n).
			From(office).
			Join(counts).On(EQ(office.C("id"), emp.C("office_id"))).
			OrderBy(Desc(n))
		c := compile(t, sel, dialect.Postgres)
		require.Equal(t, `SELECT a."city", b."n" FROM "office" a INNER JOIN (SELECT COUNT(*) AS "n", c."office_id" FROM "emp" c GROUP BY c."office_id") b ON (a."id" = b."office_id") ORDER BY b."n" DESC`, c.SQL)
	})
	t.Run("union", func(t *testing.T) {
		office, emp, _ := testTables()
		c := compile(t, Select(office.C("city")).UnionAll(Select(emp.C("name"))), dialect.Postgres)
		require.Equal(t, `SELECT a."city" FROM "office" a UNION ALL SELECT b."name" FROM "emp" b`, c.SQL)
	})
	t.Run("quantified", func(t *testing.T) {
		office, emp, _ := testTables()
		c := compile(t, Select(office.C("id")).Where(GT(office.C("id"), All(Select(emp.C("office_id"))))), dialect.Postgres)
		require.Equal(t, `SELECT a."id" FROM "office" a WHERE a."id" > ALL (SELECT b."office_id" FROM "emp" b)`, c.SQL)
	})
}

func TestCompile_Dual(t *testing.T) {
	for v, want := range map[dialect.Vendor]string{
		dialect.Postgres: `SELECT PI()`,
		dialect.SQLite:   `SELECT PI()`,
		dialect.Oracle:   `SELECT ACOS(-1) c0 FROM dual`,
		dialect.Derby:    `SELECT PI() FROM SYSIBM.SYSDUMMY1`,
	} {
		c := compile(t, Select(Pi()), v)
		assert.Equal(t, want, c.SQL, v.String())
	}
}

func TestCompile_Paging(t *testing.T) {
	tests := []struct {
		vendor        dialect.Vendor
		limit, offset *int
		want          string
		skip          int
	}{
		{vendor: dialect.Postgres, limit: intp(2), offset: intp(1), want: `SELECT a."id" FROM "office" a ORDER BY a."id" LIMIT 2 OFFSET 1`},
		{vendor: dialect.Postgres, offset: intp(5), want: `SELECT a."id" FROM "office" a ORDER BY a."id" OFFSET 5`},
		{vendor: dialect.MySQL, offset: intp(5), want: "SELECT a.`id` FROM `office` a ORDER BY a.`id` LIMIT 18446744073709551615 OFFSET 5"},
		{vendor: dialect.SQLite, offset: intp(5), want: `SELECT a."id" FROM "office" a ORDER BY a."id" LIMIT -1 OFFSET 5`},
		{vendor: dialect.Derby, limit: intp(2), offset: intp(1), want: `SELECT a."id" FROM "office" a ORDER BY a."id" OFFSET 1 ROWS FETCH NEXT 2 ROWS ONLY`},
		{vendor: dialect.Oracle, limit: intp(2), want: `SELECT * FROM (SELECT a."id" FROM "office" a ORDER BY a."id") r WHERE ROWNUM <= 2`},
		{
			vendor: dialect.Oracle, limit: intp(2), offset: intp(1), skip: 1,
			want: `SELECT * FROM (SELECT ROWNUM rnum3729, r.* FROM (SELECT a."id" FROM "office" a ORDER BY a."id") r WHERE ROWNUM <= 3) WHERE rnum3729 > 1`,
		},
		{
			vendor: dialect.Oracle, offset: intp(4), skip: 1,
			want: `SELECT * FROM (SELECT ROWNUM rnum3729, r.* FROM (SELECT a."id" FROM "office" a ORDER BY a."id") r) WHERE rnum3729 > 4`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.vendor.String(), func(t *testing.T) {
			office, _, _ := testTables()
			sel := Select(office.C("id")).OrderBy(office.C("id"))
			if tt.limit != nil {
				sel.Limit(*tt.limit)
			}
			if tt.offset != nil {
				sel.Offset(*tt.offset)
			}
			c := compile(t, sel, tt.vendor)
			require.Equal(t, tt.want, c.SQL)
			require.Equal(t, tt.skip, c.skip)
		})
	}
}

func intp(n int) *int { return &n }

func TestCompile_Locking(t *testing.T) {
	tests := []struct {
		name     string
		vendor   dialect.Vendor
		lock     func(office *Table, s *Selector)
		want     string
		warnings int
	}{
		{
			name:   "postgres",
			vendor: dialect.Postgres,
			lock:   func(o *Table, s *Selector) { s.ForUpdate(LockOf(o), NoWait()) },
			want:   ` FOR UPDATE OF a NOWAIT`,
		},
		{
			name:   "mysql share",
			vendor: dialect.MySQL,
			lock:   func(o *Table, s *Selector) { s.ForShare(SkipLocked()) },
			want:   ` FOR SHARE SKIP LOCKED`,
		},
		{
			name:   "mariadb share",
			vendor: dialect.MariaDB,
			lock:   func(o *Table, s *Selector) { s.ForShare() },
			want:   ` LOCK IN SHARE MODE`,
		},
		{
			name:     "mariadb of",
			vendor:   dialect.MariaDB,
			lock:     func(o *Table, s *Selector) { s.ForUpdate(LockOf(o)) },
			want:     ` FOR UPDATE`,
			warnings: 1,
		},
		{
			name:     "oracle share",
			vendor:   dialect.Oracle,
			lock:     func(o *Table, s *Selector) { s.ForShare(NoWait()) },
			want:     ` FOR UPDATE NOWAIT`,
			warnings: 1,
		},
		{
			name:     "derby",
			vendor:   dialect.Derby,
			lock:     func(o *Table, s *Selector) { s.ForUpdate(LockOf(o.C("city")), SkipLocked()) },
			want:     ` FOR UPDATE OF "city"`,
			warnings: 1,
		},
		{
			name:     "sqlite",
			vendor:   dialect.SQLite,
			lock:     func(o *Table, s *Selector) { s.ForUpdate() },
			warnings: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			office, _, _ := testTables()
			sel := Select(office.C("id"))
			tt.lock(office, sel)
			base := compile(t, Select(office.C("id")), tt.vendor)
			c := compile(t, sel, tt.vendor)
			require.Equal(t, base.SQL+tt.want, c.SQL)
			require.Len(t, c.Warnings, tt.warnings)
		})
	}
}

func TestCompile_JoinDowngrade(t *testing.T) {
	office, emp, _ := testTables()
	sel := Select(office.C("city"), emp.C("name")).
		From(office).
		FullJoin(emp).On(EQ(office.C("id"), emp.C("office_id")))
	c := compile(t, sel, dialect.Postgres)
	require.Equal(t, `SELECT a."city", b."name" FROM "office" a FULL OUTER JOIN "emp" b ON (a."id" = b."office_id")`, c.SQL)
	require.Empty(t, c.Warnings)

	c = compile(t, sel, dialect.MySQL)
	require.Equal(t, "SELECT a.`city`, b.`name` FROM `office` a LEFT OUTER JOIN `emp` b ON (a.`id` = b.`office_id`)", c.SQL)
	require.Equal(t, []string{"FULL OUTER JOIN is not supported, using LEFT OUTER JOIN"}, c.Warnings)
}

func TestCompile_GroupBy(t *testing.T) {
	office, _, _ := testTables()
	uc := Alias(Upper(office.C("city")), "uc")
	sel := Select(uc, CountAll()).GroupBy(uc)

	c := compile(t, sel, dialect.Postgres)
	require.Equal(t, `SELECT UPPER(a."city") AS "uc", COUNT(*) FROM "office" a GROUP BY "uc"`, c.SQL)

	c = compile(t, sel, dialect.Oracle)
	require.Equal(t, `SELECT UPPER(a."city") "uc", COUNT(*) c1 FROM "office" a GROUP BY UPPER(a."city")`, c.SQL)

	having := Select(office.C("city"), Alias(CountAll(), "n")).Having(GT(CountAll(), 1))
	c = compile(t, having, dialect.Derby)
	require.Equal(t, `SELECT a."city", COUNT(*) AS "n" FROM "office" a GROUP BY a."city" HAVING COUNT(*) > ?`, c.SQL)
	require.Equal(t, []any{1}, c.Args)
}

func TestCompile_OraclePredicateItem(t *testing.T) {
	office, _, _ := testTables()
	c := compile(t, Select(Alias(GT(office.C("id"), 5), "big")), dialect.Oracle)
	require.Equal(t, `SELECT CASE WHEN a."id" > :1 THEN 1 ELSE 0 END "big" FROM "office" a`, c.SQL)
}

func TestCompile_OracleArgs(t *testing.T) {
	office, _, _ := testTables()
	sel := Select(office.C("id")).Where(And(EQ(office.C("city"), ""), EQ(office.C("active"), true)))
	c := compile(t, sel, dialect.Oracle)
	require.Equal(t, []any{" ", 1}, c.Args)
}

func TestCompile_Functions(t *testing.T) {
	office, _, _ := testTables()
	ratio := Value(0.5)
	tests := []struct {
		name   string
		vendor dialect.Vendor
		item   Subject
		want   string
	}{
		{"derby mod", dialect.Derby, Mod(office.C("id"), 3), `DMOD(a."id", ?)`},
		{"derby round", dialect.Derby, Round(office.C("budget")), `ROUND(a."budget", 0)`},
		{"postgres log2", dialect.Postgres, Log2(office.C("budget")), `LOG(2, a."budget")`},
		{"postgres numeric", dialect.Postgres, Mod(ratio, office.C("id")), `MOD(CAST($1 AS NUMERIC), a."id")`},
		{"oracle log10", dialect.Oracle, Log10(office.C("budget")), `LOG(10, a."budget") c0`},
		{"oracle degrees", dialect.Oracle, Degrees(office.C("budget")), `(a."budget" * 180 / ACOS(-1)) c0`},
		{"mysql concat", dialect.MySQL, Concat(office.C("city"), "-", office.C("id")), "CONCAT(a.`city`, ?, a.`id`)"},
		{"postgres concat", dialect.Postgres, Concat(office.C("city"), office.C("id")), `(a."city" || a."id")`},
		{"mysql cast", dialect.MySQL, Cast(office.C("budget"), field.Spec{Type: field.TypeInt}), "CAST(a.`budget` AS SIGNED)"},
		{"mysql cast decimal", dialect.MySQL, Cast(office.C("id"), field.Spec{Type: field.TypeDecimal, Precision: 8, Scale: 3}), "CAST(a.`id` AS DECIMAL(8, 3))"},
		{"case", dialect.Postgres, Search().When(GT(office.C("id"), 1), "big").Else("small"), `CASE WHEN a."id" > $1 THEN $2 ELSE $3 END`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := compile(t, Select(tt.item).From(office), tt.vendor)
			want := "SELECT " + tt.want + ` FROM "office" a`
			if tt.vendor == dialect.MySQL {
				want = "SELECT " + tt.want + " FROM `office` a"
			}
			require.Equal(t, want, c.SQL)
		})
	}
}

func TestCompile_Intervals(t *testing.T) {
	_, emp, _ := testTables()
	office, _, _ := testTables()
	tests := []struct {
		name   string
		vendor dialect.Vendor
		item   Subject
		want   string
	}{
		{
			name:   "postgres",
			vendor: dialect.Postgres,
			item:   DateAdd(emp.C("hired"), NewInterval(1, Quarters).And(2, Days)),
			want:   `SELECT (a."hired" + INTERVAL '3 MONTH 2 DAY') FROM "emp" a`,
		},
		{
			name:   "mysql",
			vendor: dialect.MySQL,
			item:   DateAdd(emp.C("hired"), NewInterval(1, Quarters).And(2, Days)),
			want:   "SELECT DATE_ADD(DATE_ADD(a.`hired`, INTERVAL 1 QUARTER), INTERVAL 2 DAY) FROM `emp` a",
		},
		{
			name:   "sqlite",
			vendor: dialect.SQLite,
			item:   DateSub(emp.C("hired"), NewInterval(1, Weeks).And(1500, Millis)),
			want:   `SELECT DATETIME(a."hired", '-7 days', '-1.5 seconds') FROM "emp" a`,
		},
		{
			name:   "oracle",
			vendor: dialect.Oracle,
			item:   DateAdd(emp.C("hired"), NewInterval(1, Years).And(3, Hours)),
			want:   `SELECT (a."hired" + NUMTOYMINTERVAL(1, 'YEAR') + NUMTODSINTERVAL(3, 'HOUR')) c0 FROM "emp" a`,
		},
		{
			name:   "derby",
			vendor: dialect.Derby,
			item:   DateAdd(office.C("opened"), NewInterval(2, Months)),
			want:   `SELECT DATE_ADD(a."opened", '2 MONTH') FROM "office" a`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := compile(t, Select(tt.item), tt.vendor)
			require.Equal(t, tt.want, c.SQL)
		})
	}
}

func TestCompile_Inline(t *testing.T) {
	office, _, _ := testTables()
	c := compile(t, Select(office.C("id")).Where(EQ(office.C("city"), "O'Hare")), dialect.Postgres, Inline())
	require.Equal(t, `SELECT a."id" FROM "office" a WHERE a."city" = 'O''Hare'`, c.SQL)
	require.Empty(t, c.Args)
}

func TestCompile_Backslash(t *testing.T) {
	office, _, _ := testTables()
	city := office.C("city")
	tests := []struct {
		vendor dialect.Vendor
		stmt   Statement
		opts   []CompileOption
		want   string
	}{
		{dialect.MySQL, Select(city).From(office).Where(Like(city, `x\' OR 1=1 -- `)), nil, "SELECT a.`city` FROM `office` a WHERE a.`city` LIKE 'x\\\\'' OR 1=1 -- '"},
		{dialect.MariaDB, Select(city).From(office).Where(EQ(city, `x\' OR 1=1 -- `)), []CompileOption{Inline()}, "SELECT a.`city` FROM `office` a WHERE a.`city` = 'x\\\\'' OR 1=1 -- '"},
		{dialect.Postgres, Select(city).From(office).Where(Like(city, `x\'`)), nil, `SELECT a."city" FROM "office" a WHERE a."city" LIKE 'x\'''`},
	}
	for _, tt := range tests {
		t.Run(tt.vendor.String(), func(t *testing.T) {
			c := compile(t, tt.stmt, tt.vendor, tt.opts...)
			require.Equal(t, tt.want, c.SQL)
			require.Empty(t, c.Args)
		})
	}
}

func TestCompile_DurationArgs(t *testing.T) {
	_, emp, _ := testTables()
	d := 90 * time.Second
	sel := Select(emp.C("id")).Where(EQ(Value(d), Value(d)))
	require.Equal(t, []any{"90000000 microseconds", "90000000 microseconds"}, compile(t, sel, dialect.Postgres).Args)
	require.Equal(t, []any{int64(90000000), int64(90000000)}, compile(t, sel, dialect.MySQL).Args)
}

func TestCompile_ObjectQuery(t *testing.T) {
	office, _, _ := testTables()
	office.C("city").Set("Lima")
	c := compile(t, Select(office), dialect.Postgres)
	require.Equal(t, `SELECT a."id", a."city", a."budget", a."opened", a."active" FROM "office" a WHERE a."city" = $1`, c.SQL)
	require.Equal(t, []any{"Lima"}, c.Args)
}

func TestCompile_Insert(t *testing.T) {
	t.Run("returning", func(t *testing.T) {
		office, _, _ := testTables()
		office.C("city").Set("Rome")
		c := compile(t, Insert(office), dialect.Postgres)
		require.Equal(t, `INSERT INTO "office" ("city") VALUES ($1) RETURNING "id"`, c.SQL)
		require.Equal(t, []*Column{office.C("id")}, c.returning)
		require.Equal(t, returnClause, c.returnMode)

		c = compile(t, Insert(office), dialect.MySQL)
		require.Equal(t, "INSERT INTO `office` (`city`) VALUES (?)", c.SQL)
		require.Equal(t, []*Column{office.C("id")}, c.returning)
		require.Equal(t, returnLastInsertID, c.returnMode)

		c = compile(t, Insert(office), dialect.Oracle)
		require.Empty(t, c.returning)
	})
	t.Run("empty", func(t *testing.T) {
		for v, want := range map[dialect.Vendor]string{
			dialect.Postgres: `INSERT INTO "office" DEFAULT VALUES RETURNING "id"`,
			dialect.SQLite:   `INSERT INTO "office" DEFAULT VALUES`,
			dialect.MySQL:    "INSERT INTO `office` () VALUES ()",
			dialect.Oracle:   `INSERT INTO "office" ("id") VALUES (DEFAULT)`,
			dialect.Derby:    `INSERT INTO "office" ("id") VALUES (DEFAULT)`,
		} {
			office, _, _ := testTables()
			assert.Equal(t, want, compile(t, Insert(office), v).SQL, v.String())
		}
	})
	t.Run("values", func(t *testing.T) {
		_, emp, _ := testTables()
		ins := Insert(emp).Columns(emp.C("id"), emp.C("name")).Values(1, "x").Values(2, "y")
		c := compile(t, ins, dialect.Postgres)
		require.Equal(t, `INSERT INTO "emp" ("id", "name") VALUES ($1, $2), ($3, $4)`, c.SQL)
		require.Equal(t, []any{1, "x", 2, "y"}, c.Args)
	})
	t.Run("select", func(t *testing.T) {
		office, emp, _ := testTables()
		ins := Insert(emp).Columns(emp.C("id"), emp.C("name")).Select(Select(office.C("id"), office.C("city")))
		c := compile(t, ins, dialect.Postgres)
		require.Equal(t, `INSERT INTO "emp" ("id", "name") SELECT a."id", a."city" FROM "office" a`, c.SQL)

		_, err := Compile(ins.OnConflict().DoNothing(), dialect.Oracle, quiet)
		require.Error(t, err)
	})
	t.Run("generated", func(t *testing.T) {
		now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		tbl := NewTable("event")
		tbl.AddColumn("id", field.Spec{Type: field.TypeChar, Length: 36}, Primary(), GenerateOnInsert(field.GenerateUUID))
		created := tbl.AddColumn("created", field.Spec{Type: field.TypeDateTime}, GenerateOnInsert(field.GenerateTimestamp))
		c := compile(t, Insert(tbl), dialect.SQLite, WithClock(func() time.Time { return now }))
		require.Equal(t, `INSERT INTO "event" ("id", "created") VALUES (?, ?)`, c.SQL)
		require.Len(t, c.Args, 2)
		require.Equal(t, now, c.Args[1])
		require.Nil(t, created.Get())
		for _, f := range c.after {
			f(true)
		}
		require.Equal(t, now, created.Get())
		require.Equal(t, c.Args[0], tbl.C("id").Get())
	})
}

func TestCompile_Upsert(t *testing.T) {
	tests := []struct {
		vendor  dialect.Vendor
		nothing bool
		want    string
		args    []any
	}{
		{
			vendor: dialect.Postgres,
			want:   `INSERT INTO "office" ("id", "city") VALUES ($1, $2) ON CONFLICT ("id") DO UPDATE SET "city" = EXCLUDED."city"`,
			args:   []any{int64(7), "Oslo"},
		},
		{
			vendor: dialect.SQLite, nothing: true,
			want: `INSERT INTO "office" ("id", "city") VALUES (?, ?) ON CONFLICT ("id") DO NOTHING`,
			args: []any{int64(7), "Oslo"},
		},
		{
			vendor: dialect.MySQL,
			want:   "INSERT INTO `office` (`id`, `city`) VALUES (?, ?) ON DUPLICATE KEY UPDATE `city` = VALUES(`city`)",
			args:   []any{int64(7), "Oslo"},
		},
		{
			vendor: dialect.MariaDB, nothing: true,
			want: "INSERT IGNORE INTO `office` (`id`, `city`) VALUES (?, ?)",
			args: []any{int64(7), "Oslo"},
		},
		{
			vendor: dialect.Oracle,
			want:   `MERGE INTO "office" a USING (SELECT :1 "id", :2 "city" FROM dual) b ON (a."id" = b."id") WHEN MATCHED THEN UPDATE SET a."city" = b."city" WHEN NOT MATCHED THEN INSERT ("id", "city") VALUES (b."id", b."city")`,
			args:   []any{int64(7), "Oslo"},
		},
		{
			vendor: dialect.Derby,
			want:   `MERGE INTO "office" a USING SYSIBM.SYSDUMMY1 ON a."id" = ? WHEN MATCHED THEN UPDATE SET "city" = ? WHEN NOT MATCHED THEN INSERT ("id", "city") VALUES (?, ?)`,
			args:   []any{int64(7), "Oslo", int64(7), "Oslo"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.vendor.String(), func(t *testing.T) {
			office, _, _ := testTables()
			office.C("id").Set(int64(7))
			office.C("city").Set("Oslo")
			ins := Insert(office).OnConflict()
			if tt.nothing {
				ins.DoNothing()
			}
			c := compile(t, ins, tt.vendor)
			require.Equal(t, tt.want, c.SQL)
			require.Equal(t, tt.args, c.Args)
		})
	}
}

func TestCompile_Update(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		office, _, _ := testTables()
		office.C("id").load(int64(3))
		office.C("city").load("Paris")
		office.C("city").Set("Lyon")
		c := compile(t, Update(office), dialect.Postgres)
		require.Equal(t, `UPDATE "office" SET "city" = $1 WHERE "id" = $2`, c.SQL)
		require.Equal(t, []any{"Lyon", int64(3)}, c.Args)
	})
	t.Run("unchanged", func(t *testing.T) {
		office, _, _ := testTables()
		office.C("id").load(int64(3))
		c := compile(t, Update(office), dialect.Postgres)
		require.Empty(t, c.SQL)
		require.Empty(t, c.Args)
	})
	t.Run("no key", func(t *testing.T) {
		tbl := NewTable("log")
		tbl.AddColumn("msg", varchar(10)).Set("x")
		_, err := Compile(Update(tbl), dialect.Postgres, quiet)
		require.Error(t, err)
	})
	t.Run("increment", func(t *testing.T) {
		_, _, account := testTables()
		account.C("id").load(int64(1))
		account.C("balance").load(int64(100))
		account.C("version").load(int64(4))
		account.C("balance").Increment(int64(5))
		c := compile(t, Update(account), dialect.Postgres)
		require.Equal(t, `UPDATE "account" SET "balance" = ("balance" + $1), "version" = ("version" + $2) WHERE "id" = $3 AND "version" = $4`, c.SQL)
		require.Equal(t, []any{int64(5), int64(1), int64(1), int64(4)}, c.Args)
		for _, f := range c.after {
			f(true)
		}
		require.Equal(t, int64(105), account.C("balance").Get())
		require.Equal(t, int64(5), account.C("version").Get())
	})
	t.Run("failed", func(t *testing.T) {
		_, _, account := testTables()
		account.C("id").load(int64(1))
		account.C("version").load(int64(4))
		account.C("balance").Set(int64(0))
		c := compile(t, Update(account), dialect.SQLite)
		for _, f := range c.after {
			f(false)
		}
		require.Equal(t, int64(4), account.C("version").Get())
	})
	t.Run("explicit", func(t *testing.T) {
		office, _, _ := testTables()
		up := Update(office).Set(office.C("active"), false).Where(LT(office.C("opened"), CurrentDate()))
		c := compile(t, up, dialect.MySQL)
		require.Equal(t, "UPDATE `office` SET `active` = ? WHERE `opened` < CURRENT_DATE", c.SQL)
		require.Equal(t, []any{false}, c.Args)
	})
}

func TestCompile_Delete(t *testing.T) {
	_, emp, _ := testTables()
	emp.C("id").Set(int64(9))
	c := compile(t, Delete(emp), dialect.Oracle)
	require.Equal(t, `DELETE FROM "emp" WHERE "id" = :1`, c.SQL)
	require.Equal(t, []any{int64(9)}, c.Args)

	_, emp, _ = testTables()
	c = compile(t, Delete(emp).Where(In(emp.C("office_id"), 1, 2)), dialect.Postgres)
	require.Equal(t, `DELETE FROM "emp" WHERE "office_id" IN ($1, $2)`, c.SQL)

	_, emp, _ = testTables()
	c = compile(t, Delete(emp), dialect.Postgres)
	require.Equal(t, `DELETE FROM "emp"`, c.SQL)
}

func TestCompile_Errors(t *testing.T) {
	office, _, _ := testTables()
	tests := []struct {
		name string
		stmt Statement
	}{
		{"no items", Select()},
		{"on without join", Select(office).On(EQ(office.C("id"), 1))},
		{"negative limit", Select(office).Limit(-1)},
		{"nil", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.stmt, dialect.Postgres, quiet)
			require.Error(t, err)
		})
	}
	_, err := Compile(Select(office), dialect.Vendor(99), quiet)
	require.Error(t, err)
}
