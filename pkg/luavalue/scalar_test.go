package luavalue

import (
	"math"
	"testing"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		cell types.Cell
		want Scalar
	}{
		{"boolean true", types.BoolCell(true), Bool(true)},
		{"boolean false", types.BoolCell(false), Bool(false)},
		{"i16", types.IntCell(types.KindI16, -7), Num("-7")},
		{"i32", types.IntCell(types.KindI32, 42), Num("42")},
		{"i64", types.IntCell(types.KindI64, 9007199254740993), Num("9007199254740993")},
		{"f32 fraction", types.FloatCell(types.KindF32, 1.5), Num("1.5")},
		{"f32 whole", types.FloatCell(types.KindF32, 2), Num("2")},
		{"f32 shortest form", types.FloatCell(types.KindF32, 0.1), Num("0.1")},
		{"f32 large has no exponent", types.FloatCell(types.KindF32, 1e10), Num("10000000000")},
		{"f64", types.FloatCell(types.KindF64, 0.25), Num("0.25")},
		{"string", types.StringCell(types.KindStringU8, "inf_spearmen"), Str("inf_spearmen")},
		{"string u16", types.StringCell(types.KindStringU16, "Ωmega"), Str("Ωmega")},
		{"optional string absent", types.StringCell(types.KindOptionalStringU8, ""), Str("")},
		{"optional string present", types.StringCell(types.KindOptionalStringU16, "x"), Str("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.cell)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeSequenceIsUnsupported(t *testing.T) {
	for _, kind := range []types.CellKind{types.KindSequenceU16, types.KindSequenceU32} {
		_, err := Normalize(types.Cell{Kind: kind})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedFieldKind))
		assert.Equal(t, kind.String(), errors.GetErrorDetails(err)["kind"])
	}
}

func TestNormalizeNonFiniteFloat(t *testing.T) {
	cells := []types.Cell{
		types.FloatCell(types.KindF32, math.NaN()),
		types.FloatCell(types.KindF32, math.Inf(1)),
		types.FloatCell(types.KindF64, math.Inf(-1)),
	}
	for _, cell := range cells {
		_, err := Normalize(cell)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTableDecode))
		assert.True(t, errors.IsTableLevel(err))
	}
}

func TestCompare(t *testing.T) {
	ordered := []Scalar{
		Bool(false),
		Bool(true),
		Num("10"),
		Num("9"),
		Str(""),
		Str("a"),
		Str("b"),
	}

	for i := range ordered {
		assert.Equal(t, 0, Compare(ordered[i], ordered[i]))
		for j := i + 1; j < len(ordered); j++ {
			assert.Equal(t, -1, Compare(ordered[i], ordered[j]), "%s < %s", ordered[i], ordered[j])
			assert.Equal(t, 1, Compare(ordered[j], ordered[i]), "%s > %s", ordered[j], ordered[i])
		}
	}
}

func TestScalarAccessors(t *testing.T) {
	assert.Equal(t, Boolean, Bool(true).Kind())
	assert.True(t, Bool(true).BoolValue())
	assert.Equal(t, "true", Bool(true).Text())
	assert.Equal(t, "3", Num("3").Text())
	assert.Equal(t, `"x"`, Str("x").String())
	assert.Equal(t, "3", Num("3").String())
	assert.False(t, Str("true").BoolValue())
	assert.Equal(t, Bool(false), Scalar{})
}
