package rdb_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/rdb"
	"github.com/syssam/rdb/dialect/sql/sqlerr"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		assert.Equal(t, "rdb: office not found", rdb.NewNotFoundError("office").Error())
		assert.Equal(t, "rdb: office not found (key=7)", rdb.NewNotFoundErrorWithKey("office", 7).Error())
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := rdb.NewNotFoundError("office")
		assert.True(t, rdb.IsNotFound(err))
		assert.True(t, errors.Is(err, rdb.ErrNotFound))
		assert.True(t, rdb.IsNotFound(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, rdb.IsNotFound(rdb.ErrNotFound))
		assert.False(t, rdb.IsNotFound(errors.New("other error")))
		assert.False(t, rdb.IsNotFound(nil))
	})

	t.Run("Accessors", func(t *testing.T) {
		err := rdb.NewNotFoundErrorWithKey("emp", int64(3))
		assert.Equal(t, "emp", err.Table())
		assert.Equal(t, int64(3), err.Key())
	})
}

func TestNotSingularError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		assert.Equal(t, "rdb: emp not singular", rdb.NewNotSingularError("emp").Error())
		assert.Equal(t, "rdb: emp not singular (got 3 rows, expected 1)", rdb.NewNotSingularErrorWithCount("emp", 3).Error())
	})

	t.Run("IsNotSingular", func(t *testing.T) {
		err := rdb.NewNotSingularErrorWithCount("emp", 2)
		assert.True(t, rdb.IsNotSingular(err))
		assert.True(t, errors.Is(err, rdb.ErrNotSingular))
		assert.True(t, rdb.IsNotSingular(fmt.Errorf("wrapper: %w", err)))
		assert.False(t, rdb.IsNotSingular(rdb.ErrNotFound))
		assert.False(t, rdb.IsNotSingular(nil))
		assert.Equal(t, 2, err.Count())
		assert.Equal(t, -1, rdb.NewNotSingularError("emp").Count())
	})
}

func TestConstraintError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := rdb.NewConstraintError(sqlerr.KindUnique, "duplicate city", nil)
		assert.Equal(t, "rdb: unique constraint failed: duplicate city", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("db error")
		err := rdb.NewConstraintError(sqlerr.KindCheck, "budget", underlying)
		assert.True(t, errors.Is(err, underlying))
		assert.True(t, rdb.IsConstraintError(fmt.Errorf("wrapper: %w", err)))
		assert.False(t, rdb.IsConstraintError(underlying))
		assert.False(t, rdb.IsConstraintError(nil))
	})

	t.Run("Classify", func(t *testing.T) {
		dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Paris' for key 'city'"}
		err := rdb.ClassifyError(dup)
		require.True(t, rdb.IsConstraintError(err))
		var ce rdb.ConstraintError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, sqlerr.KindUnique, ce.Kind())
		assert.True(t, errors.Is(err, dup))
		assert.Equal(t, err, rdb.ClassifyError(err))
	})

	t.Run("ClassifyPassThrough", func(t *testing.T) {
		other := errors.New("connection reset")
		assert.Equal(t, other, rdb.ClassifyError(other))
		assert.NoError(t, rdb.ClassifyError(nil))
	})
}

func TestQueryError(t *testing.T) {
	underlying := errors.New("no such table")
	err := rdb.NewQueryError("office", underlying)
	assert.Equal(t, "rdb: querying office: no such table", err.Error())
	assert.Equal(t, "rdb: query: no such table", rdb.NewQueryError("", underlying).Error())
	assert.True(t, errors.Is(err, underlying))
	assert.True(t, rdb.IsQueryError(fmt.Errorf("wrapper: %w", err)))
	assert.False(t, rdb.IsQueryError(underlying))
}

func TestMutationError(t *testing.T) {
	underlying := errors.New("disk full")
	err := rdb.NewMutationError("account", "update", underlying)
	assert.Equal(t, "rdb: update account: disk full", err.Error())
	assert.True(t, errors.Is(err, underlying))
	assert.True(t, rdb.IsMutationError(err))
	assert.False(t, rdb.IsMutationError(nil))
}

func TestRollbackError(t *testing.T) {
	underlying := errors.New("connection lost")
	err := &rdb.RollbackError{Err: underlying}
	assert.Equal(t, "rdb: rollback failed: connection lost", err.Error())
	assert.True(t, errors.Is(err, underlying))
}

func TestAggregateError(t *testing.T) {
	t.Run("NoErrors", func(t *testing.T) {
		assert.Nil(t, rdb.NewAggregateError())
		assert.Nil(t, rdb.NewAggregateError(nil, nil))
	})

	t.Run("SingleError", func(t *testing.T) {
		single := errors.New("single error")
		assert.Equal(t, single, rdb.NewAggregateError(nil, single, nil))
	})

	t.Run("MultipleErrors", func(t *testing.T) {
		err1 := errors.New("postgres: boom")
		err2 := errors.New("oracle: bang")
		err := rdb.NewAggregateError(err1, err2)
		require.NotNil(t, err)
		assert.Equal(t, "rdb: multiple errors:\n  [1] postgres: boom\n  [2] oracle: bang", err.Error())
		assert.True(t, errors.Is(err, err2))
	})
}

func BenchmarkClassifyError(b *testing.B) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	for i := 0; i < b.N; i++ {
		_ = rdb.ClassifyError(dup)
	}
}
