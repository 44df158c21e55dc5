// Package sources finds and reads the table files of a mod.
//
// Three kinds of source are supported:
//
//   - directory: <root>/db/<table_name>/<stem>[.tsv]
//   - zip archive: the same db/ layout inside a .zip file
//   - SQLite database: every SQL table is one table (.sqlite, .sqlite3, .db)
//
// Sources are listed explicitly or read from a load-order file. A load-order
// file names one archive per line, highest priority first; it is returned in
// reverse so that the first listed archive is processed last and wins any
// conflict.
package sources
