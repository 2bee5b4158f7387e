package field_test

import (
	"testing"

	"github.com/syssam/rdb/schema/field"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestType(t *testing.T) {
	t.Parallel()
	assert.True(t, field.TypeBigint.Integer())
	assert.True(t, field.TypeDecimal.Numeric())
	assert.False(t, field.TypeDecimal.Integer())
	assert.True(t, field.TypeEnum.Textual())
	assert.True(t, field.TypeBlob.Binary())
	assert.True(t, field.TypeDateTime.Temporal())
	assert.False(t, field.TypeInvalid.Valid())
	assert.Equal(t, "datetime", field.TypeDateTime.String())
	assert.Equal(t, "invalid", field.Type(200).String())
}

func TestParseType(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want field.Type
	}{
		{"INT", field.TypeInt},
		{"integer", field.TypeInt},
		{"varchar", field.TypeChar},
		{"timestamp", field.TypeDateTime},
		{"Decimal", field.TypeDecimal},
		{"enum", field.TypeEnum},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := field.ParseType(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	_, err := field.ParseType("geometry")
	require.Error(t, err)
}

func TestParseGenerate(t *testing.T) {
	t.Parallel()
	g, err := field.ParseGenerate("epoch_millis")
	require.NoError(t, err)
	assert.Equal(t, field.GenerateEpochMillis, g)
	g, err = field.ParseGenerate("")
	require.NoError(t, err)
	assert.Equal(t, field.GenerateNone, g)
	_, err = field.ParseGenerate("SEQUENCE")
	require.Error(t, err)
	assert.Equal(t, "AUTO_INCREMENT", field.GenerateAutoIncrement.String())
}

func TestSpecMaxValueLength(t *testing.T) {
	t.Parallel()
	s := field.Spec{Type: field.TypeEnum, Values: []string{"A", "LONGEST", "MID"}}
	assert.Equal(t, int64(7), s.MaxValueLength())
}
