// Package luawriter renders normalized tables as Lua source files.
//
// Output without a script check:
//
//	local result = {
//	  [key] = { ["field"] = value, },
//	}
//
//	return result
//
// With a script check the table is only populated when the named resource
// exists in the game's virtual file system:
//
//	local result = {}
//
//	if vfs.exists("script/x.lua") then
//	  result = {
//	    [key] = { ["field"] = value, },
//	  }
//	end
//
//	return result
//
// There is no newline after the final "return result".
package luawriter

import (
	"strings"

	"github.com/arthur-debert/luadb/pkg/luavalue"
	"github.com/arthur-debert/luadb/pkg/tables"
)

const indentUnit = "  "

// Options controls rendering
type Options struct {
	// ScriptCheck guards the table behind vfs.exists(ScriptCheck) when set
	ScriptCheck string

	// EscapeStrings escapes backslash, quote, newline, carriage return and
	// tab inside text values. Off by default to keep byte-compatible output.
	EscapeStrings bool
}

// Serialize renders a table. It cannot fail.
func Serialize(table *tables.PreprocessedTable, opts Options) string {
	var b strings.Builder
	indent := 0

	if opts.ScriptCheck != "" {
		b.WriteString("local result = {}\n\n")
		b.WriteString("if vfs.exists(" + quote(opts.ScriptCheck, opts.EscapeStrings) + ") then\n")
		indent++
		writeIndent(&b, indent)
		b.WriteString("result = {\n")
	} else {
		b.WriteString("local result = {\n")
	}
	indent++

	writeBody(&b, table.Data, indent, opts)

	indent--
	writeIndent(&b, indent)
	b.WriteString("}\n")
	if opts.ScriptCheck != "" {
		b.WriteString("end\n")
	}

	b.WriteString("\nreturn result")
	return b.String()
}

func writeBody(b *strings.Builder, data tables.Data, indent int, opts Options) {
	if data.Shape == luavalue.KeyValue {
		for _, row := range data.Keyed {
			writeIndent(b, indent)
			b.WriteString("[" + Literal(row.Key, opts.EscapeStrings) + "] = { ")
			writeEntries(b, row.Pairs, opts)
			b.WriteString("},\n")
		}
		return
	}

	for _, row := range data.Rows {
		writeIndent(b, indent)
		b.WriteString("{ ")
		writeEntries(b, row, opts)
		b.WriteString("},\n")
	}
}

func writeEntries(b *strings.Builder, pairs []luavalue.Pair, opts Options) {
	for _, p := range pairs {
		b.WriteString("[")
		b.WriteString(Literal(p.Label, opts.EscapeStrings))
		b.WriteString("] = ")
		b.WriteString(Literal(p.Value, opts.EscapeStrings))
		b.WriteString(", ")
	}
}

func writeIndent(b *strings.Builder, level int) {
	for i := 0; i < level; i++ {
		b.WriteString(indentUnit)
	}
}

// Literal renders a scalar as a Lua literal
func Literal(s luavalue.Scalar, escape bool) string {
	switch s.Kind() {
	case luavalue.Boolean, luavalue.Number:
		return s.Text()
	}
	return quote(s.Text(), escape)
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func quote(s string, escape bool) string {
	if escape {
		s = escaper.Replace(s)
	}
	return `"` + s + `"`
}
