// Package luavalue is the scalar model written into Lua tables.
//
// Every decoded cell is normalized into one of three Lua literal kinds:
//
//   - Boolean: true or false
//   - Number: the decoder's textual number, written unquoted
//   - Text: a string, written quoted
//
// Numbers are kept as text so that the serialized form is exactly what the
// decoder produced and never re-rounded.
//
// The package also classifies a table definition into the shape its rows
// are written in: KeyValue when exactly one field is a key, FlatArray
// otherwise.
package luavalue
