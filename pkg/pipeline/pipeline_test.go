package pipeline

import (
	"context"
	"testing"

	"github.com/arthur-debert/luadb/pkg/conflicts"
	"github.com/arthur-debert/luadb/pkg/decoder"
	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/sources"
	"github.com/arthur-debert/luadb/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	fs      afero.Fs
	decoder *decoder.TSV
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	return &fixture{
		fs:      testutil.MemFs(t, files),
		decoder: decoder.NewTSV(testutil.Schema(t)),
	}
}

func (f *fixture) sources(t *testing.T, paths ...string) []sources.Source {
	t.Helper()
	out, err := sources.ResolveAll(f.fs, paths)
	require.NoError(t, err)
	return out
}

func (f *fixture) read(t *testing.T, path string) string {
	t.Helper()
	return testutil.ReadFile(t, f.fs, path)
}

func (f *fixture) options(srcs []sources.Source) Options {
	return Options{
		Sources: srcs,
		OutDir:  "/out",
		Decoder: f.decoder,
		Fs:      f.fs,
	}
}

func TestRunWritesTables(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/mods/a/db/units_tables/extra.tsv": "key\tcost\nspear\t10\n",
	})

	result, err := Run(context.Background(), f.options(f.sources(t, "/mods/a")))
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []string{"lua_db/mod/units_tables/extra.lua"}, result.Written)
	assert.Equal(t, "local result = {\n"+
		"  [\"spear\"] = { [\"key\"] = \"spear\", [\"cost\"] = 10, },\n"+
		"}\n\nreturn result", f.read(t, "/out/lua_db/mod/units_tables/extra.lua"))

	require.Len(t, result.Tables, 1)
	assert.Equal(t, TableSummary{
		Path:   "lua_db/mod/units_tables/extra.lua",
		Source: "a",
		Table:  "units_tables",
		Shape:  "KeyValue",
		Rows:   1,
	}, result.Tables[0])
}

func TestRunConflictLaterSourceWins(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/mods/mod_a/db/units_tables/shared": "key\tcost\nspear\t1\n",
		"/mods/mod_b/db/units_tables/shared": "key\tcost\nspear\t2\n",
	})

	for _, jobs := range []int{1, 4} {
		out := "/out" + string(rune('0'+jobs))
		opts := f.options(f.sources(t, "/mods/mod_a", "/mods/mod_b"))
		opts.OutDir = out
		opts.Jobs = jobs

		result, err := Run(context.Background(), opts)
		require.NoError(t, err)

		assert.Equal(t, []conflicts.ConflictRecord{
			{Path: "lua_db/mod/units_tables/shared.lua", Winner: "mod_b", Loser: "mod_a"},
		}, result.Conflicts, "jobs=%d", jobs)
		assert.Contains(t, f.read(t, out+"/lua_db/mod/units_tables/shared.lua"), "[\"cost\"] = 2, ")
		assert.Equal(t, "mod_b", result.Tables[0].Source)
	}
}

func TestRunConflictBetweenSourcesWithSameBaseName(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/a/mod/db/units_tables/shared": "key\tcost\nspear\t1\n",
		"/b/mod/db/units_tables/shared": "key\tcost\nspear\t2\n",
	})

	result, err := Run(context.Background(), f.options(f.sources(t, "/a/mod", "/b/mod")))
	require.NoError(t, err)

	assert.Equal(t, []conflicts.ConflictRecord{
		{Path: "lua_db/mod/units_tables/shared.lua", Winner: "/b/mod", Loser: "/a/mod"},
	}, result.Conflicts)
	assert.Contains(t, f.read(t, "/out/lua_db/mod/units_tables/shared.lua"), "[\"cost\"] = 2, ")
}

func TestRunAmbiguousCorePrefixAborts(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/mods/a/db/units_tables/data__": "key\tcost\nspear\t1\n",
	})

	_, err := Run(context.Background(), f.options(f.sources(t, "/mods/a")))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAmbiguousCorePrefix))

	exists, _ := afero.Exists(f.fs, "/out")
	assert.False(t, exists, "nothing is written when the run aborts")
}

func TestRunCoreFiles(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/mods/a/db/units_tables/data__": "key\tcost\nspear\t1\n",
	})

	opts := f.options(f.sources(t, "/mods/a"))
	opts.CorePrefix = "my"
	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"lua_db/mod_core/units_tables/my_data__.lua"}, result.Written)

	opts = f.options(f.sources(t, "/mods/a"))
	opts.OutDir = "/base"
	opts.IsBaseMod = true
	result, err = Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"lua_db/core/units_tables/data__.lua"}, result.Written)
}

func TestRunSkipsUnsupportedTables(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/mods/a/db/nested_tables/x": "key\titems\nk\t[1]\n",
		"/mods/a/db/units_tables/y":  "key\tcost\nspear\t1\n",
		"/mods/a/db/units_tables/z":  "key\tcost\nspear\tNaN-ish\n",
	})

	result, err := Run(context.Background(), f.options(f.sources(t, "/mods/a")))
	require.NoError(t, err)

	assert.Equal(t, []string{"lua_db/mod/units_tables/y.lua"}, result.Written)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, "nested_tables", result.Skipped[0].Table)
	assert.Equal(t, errors.ErrUnsupportedFieldKind, result.Skipped[0].Code)
	assert.Equal(t, "db/units_tables/z", result.Skipped[1].File)
	assert.Equal(t, errors.ErrTableDecode, result.Skipped[1].Code)
}

func TestRunMissingDefinitionWritesPlaceholder(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/mods/a/db/unknown_tables/x": "whatever\n1\n",
	})

	result, err := Run(context.Background(), f.options(f.sources(t, "/mods/a")))
	require.NoError(t, err)

	assert.Equal(t, "local result = {\n}\n\nreturn result", f.read(t, "/out/lua_db/mod/unknown_tables/x.lua"))
	require.Len(t, result.Tables, 1)
	assert.True(t, result.Tables[0].Placeholder)
	assert.Empty(t, result.Skipped)
}

func TestRunOutDirNotEmpty(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/mods/a/db/units_tables/x":         "key\tcost\nspear\t1\n",
		"/out/lua_db/mod/units_tables/x.lua": "old",
	})

	_, err := Run(context.Background(), f.options(f.sources(t, "/mods/a")))
	assert.True(t, errors.IsErrorCode(err, errors.ErrOutDirNotEmpty))

	opts := f.options(f.sources(t, "/mods/a"))
	opts.Force = true
	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"lua_db/mod/units_tables/x.lua"}, result.Overwritten)
	assert.NotEqual(t, "old", f.read(t, "/out/lua_db/mod/units_tables/x.lua"))
}

func TestRunDryRun(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/mods/a/db/units_tables/x": "key\tcost\nspear\t1\n",
	})

	opts := f.options(f.sources(t, "/mods/a"))
	opts.DryRun = true
	result, err := Run(context.Background(), opts)
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Empty(t, result.Written)
	assert.Len(t, result.Tables, 1)
	exists, _ := afero.Exists(f.fs, "/out")
	assert.False(t, exists)
}

func TestRunScriptCheck(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/mods/a/db/units_tables/x": "key\tcost\nspear\t1\n",
	})

	opts := f.options(f.sources(t, "/mods/a"))
	opts.ScriptCheck = "some.resource"
	_, err := Run(context.Background(), opts)
	require.NoError(t, err)

	content := f.read(t, "/out/lua_db/mod/units_tables/x.lua")
	assert.Contains(t, content, "local result = {}\n\nif vfs.exists(\"some.resource\") then\n")
}

func TestRunSourceFailureStopsRun(t *testing.T) {
	f := newFixture(t, map[string]string{
		"/mods/a/db/units_tables/x": "key\tcost\nspear\t1\n",
		"/mods/b/readme":            "no db folder",
	})

	for _, jobs := range []int{1, 3} {
		opts := f.options(f.sources(t, "/mods/a", "/mods/b"))
		opts.Jobs = jobs
		_, err := Run(context.Background(), opts)
		assert.True(t, errors.IsErrorCode(err, errors.ErrSourceInvalid), "jobs=%d", jobs)
	}
}

func TestRunRequiresDecoder(t *testing.T) {
	_, err := Run(context.Background(), Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
