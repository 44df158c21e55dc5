// Package paths provides centralized path handling for luadb.
//
// It covers two concerns:
//
//   - Output path derivation: where a normalized table is written inside
//     the output tree (Derive).
//   - XDG locations for luadb's own files: user configuration and the log
//     file (ConfigDir, StateDir).
//
// # Output layout
//
// Every table is written to
//
//	lua_db/<group>/<table_name>/<stem>.lua
//
// where group is "core" for the base mod's core file, "mod_core" for
// another mod's core file and "mod" for everything else. Core files are
// the ones named data__; outside the base mod they are renamed to
// <prefix>_data__ so that several mods can ship one without clashing.
//
// # Environment Variables
//
//   - LUADB_CONFIG_DIR: Override XDG config directory (default: $XDG_CONFIG_HOME/luadb)
//   - LUADB_STATE_DIR: Override XDG state directory (default: $XDG_STATE_HOME/luadb)
package paths
