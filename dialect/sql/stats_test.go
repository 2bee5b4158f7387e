package sql

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsDriver(t *testing.T) {
	ctx := context.Background()
	stats := NewStatsDriver(openSQLite(t), WithSlowThreshold(time.Hour))

	for _, id := range []int64{1, 2, 2} {
		_, _, account := testTables()
		account.C("id").Set(id)
		account.C("balance").Set(int64(10))
		account.C("version").Set(int64(1))
		_, _ = Exec(ctx, stats, Insert(account))
	}
	_, _, q := testTables()
	cur, err := Query(ctx, stats, Select(q))
	require.NoError(t, err)
	require.NoError(t, cur.Close())

	snap := stats.QueryStats().Stats()
	assert.EqualValues(t, 3, snap.TotalExecs)
	assert.EqualValues(t, 1, snap.TotalQueries)
	assert.EqualValues(t, 1, snap.Errors)
	assert.EqualValues(t, 1, snap.Violations, "duplicate key")
	assert.Zero(t, snap.SlowQueries)
	assert.Contains(t, snap.String(), "violations=1")

	stats.QueryStats().Reset()
	assert.Zero(t, stats.QueryStats().Stats())
}

func TestStatsDriver_Slow(t *testing.T) {
	var (
		ctx  = context.Background()
		buf  bytes.Buffer
		hits []string
	)
	stats := NewStatsDriver(openSQLite(t),
		WithSlowThreshold(-1),
		WithSlowQueryHook(func(_ context.Context, query string, _ []any, _ time.Duration) {
			hits = append(hits, query)
		}),
	)
	_, _, q := testTables()
	cur, err := Query(ctx, stats, Select(q))
	require.NoError(t, err)
	require.NoError(t, cur.Close())
	require.Len(t, hits, 1)
	assert.Contains(t, hits[0], `FROM "account"`)
	assert.EqualValues(t, 1, stats.QueryStats().Stats().SlowQueries)

	logged := NewStatsDriver(openSQLite(t), WithSlowThreshold(-1), WithSlowQueryLog(slog.New(slog.NewTextHandler(&buf, nil))))
	require.NoError(t, logged.Exec(ctx, `DELETE FROM "account"`, []any{}, nil))
	assert.Contains(t, buf.String(), "slow statement")
	assert.Contains(t, buf.String(), "vendor=sqlite")
}

func TestDebugDriver(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()
	drv := NewDebugDriver(openSQLite(t), DebugWithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	_, _, account := testTables()
	account.C("id").Set(int64(7))
	account.C("balance").Set(int64(1))
	account.C("version").Set(int64(1))
	_, err := Exec(ctx, drv, Insert(account))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "msg=exec")
	assert.Contains(t, buf.String(), "INSERT INTO")
	assert.Contains(t, buf.String(), "vendor=sqlite")
}
