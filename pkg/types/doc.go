// Package types defines the data handed from a decoder to the rest of luadb.
// This includes the cell and field kinds a table definition can use, the
// DecodedTable produced for one table file, and the Decoder interface.
package types
