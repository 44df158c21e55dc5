package paths

import (
	"testing"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name  string
		input PathInput
		want  string
	}{
		{
			name:  "base mod core file",
			input: PathInput{TableName: "units_tables", FileStem: "data__", IsBaseMod: true},
			want:  "lua_db/core/units_tables/data__.lua",
		},
		{
			name:  "base mod ignores prefix",
			input: PathInput{TableName: "units_tables", FileStem: "data__", IsBaseMod: true, CorePrefix: "x"},
			want:  "lua_db/core/units_tables/data__.lua",
		},
		{
			name:  "mod core file with prefix override",
			input: PathInput{TableName: "t", FileStem: "data__", CorePrefix: "my", SourceStem: "pack"},
			want:  "lua_db/mod_core/t/my_data__.lua",
		},
		{
			name:  "mod core file falls back to source stem",
			input: PathInput{TableName: "t", FileStem: "data__", SourceStem: "pack"},
			want:  "lua_db/mod_core/t/pack_data__.lua",
		},
		{
			name:  "regular file",
			input: PathInput{TableName: "t", FileStem: "extra", SourceStem: "pack"},
			want:  "lua_db/mod/t/extra.lua",
		},
		{
			name:  "regular file in base mod",
			input: PathInput{TableName: "t", FileStem: "extra", IsBaseMod: true},
			want:  "lua_db/mod/t/extra.lua",
		},
		{
			name:  "sentinel match is exact",
			input: PathInput{TableName: "t", FileStem: "data___x"},
			want:  "lua_db/mod/t/data___x.lua",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Derive(tt.input)
			require.NoError(t, err)
			assert.Len(t, got, 4)
			assert.Equal(t, tt.want, Join(got))
		})
	}
}

func TestDeriveAmbiguousCorePrefix(t *testing.T) {
	_, err := Derive(PathInput{TableName: "t", FileStem: "data__"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAmbiguousCorePrefix))
	assert.False(t, errors.IsTableLevel(err))
}

func TestDeriveIsPure(t *testing.T) {
	in := PathInput{TableName: "t", FileStem: "data__", SourceStem: "a"}
	first, err := Derive(in)
	require.NoError(t, err)
	second, err := Derive(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
