// Package testutil provides shared fixtures for luadb tests: file trees on
// disk or in memory, and a small schema covering the common table shapes.
//
// Usage guidelines:
//   - Prefer MemFs for anything that goes through afero
//   - Use WriteTree with t.TempDir() when code needs the real filesystem
//     (sqlite, fsnotify, synthfs)
//   - Keep test data inline, next to the test that reads it
package testutil
