package types

import "fmt"

// CellKind identifies the decoded type of a single table cell
type CellKind int

const (
	KindBoolean CellKind = iota
	KindF32
	KindF64
	KindI16
	KindI32
	KindI64
	KindStringU8
	KindStringU16
	KindOptionalStringU8
	KindOptionalStringU16
	KindSequenceU16
	KindSequenceU32
)

var kindNames = map[CellKind]string{
	KindBoolean:           "Boolean",
	KindF32:               "F32",
	KindF64:               "F64",
	KindI16:               "I16",
	KindI32:               "I32",
	KindI64:               "I64",
	KindStringU8:          "StringU8",
	KindStringU16:         "StringU16",
	KindOptionalStringU8:  "OptionalStringU8",
	KindOptionalStringU16: "OptionalStringU16",
	KindSequenceU16:       "SequenceU16",
	KindSequenceU32:       "SequenceU32",
}

// String returns the schema name of the kind
func (k CellKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CellKind(%d)", int(k))
}

// ParseCellKind resolves a schema kind name. Matching is exact.
func ParseCellKind(name string) (CellKind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// IsInteger reports whether the kind holds an integer
func (k CellKind) IsInteger() bool {
	return k == KindI16 || k == KindI32 || k == KindI64
}

// IsFloat reports whether the kind holds a float
func (k CellKind) IsFloat() bool {
	return k == KindF32 || k == KindF64
}

// IsString reports whether the kind holds text, optional or not
func (k CellKind) IsString() bool {
	switch k {
	case KindStringU8, KindStringU16, KindOptionalStringU8, KindOptionalStringU16:
		return true
	}
	return false
}

// IsSequence reports whether the kind is a nested sub-record
func (k CellKind) IsSequence() bool {
	return k == KindSequenceU16 || k == KindSequenceU32
}

// Cell is one decoded value. Only the member matching Kind is meaningful.
type Cell struct {
	Kind  CellKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

// BoolCell returns a Boolean cell
func BoolCell(v bool) Cell { return Cell{Kind: KindBoolean, Bool: v} }

// IntCell returns an integer cell of the given kind
func IntCell(kind CellKind, v int64) Cell { return Cell{Kind: kind, Int: v} }

// FloatCell returns a float cell of the given kind
func FloatCell(kind CellKind, v float64) Cell { return Cell{Kind: kind, Float: v} }

// StringCell returns a string cell of the given kind
func StringCell(kind CellKind, v string) Cell { return Cell{Kind: kind, Str: v} }
