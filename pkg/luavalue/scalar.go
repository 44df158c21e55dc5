package luavalue

import (
	"math"
	"strconv"
	"strings"

	"github.com/arthur-debert/luadb/pkg/errors"
	"github.com/arthur-debert/luadb/pkg/types"
)

// ScalarKind is the active variant of a Scalar
type ScalarKind int

const (
	Boolean ScalarKind = iota
	Number
	Text
)

// String returns the variant name
func (k ScalarKind) String() string {
	switch k {
	case Boolean:
		return "Boolean"
	case Number:
		return "Number"
	case Text:
		return "Text"
	}
	return "Unknown"
}

// Scalar is a single Lua literal. The zero value is Boolean false.
type Scalar struct {
	kind ScalarKind
	b    bool
	s    string
}

// Bool returns a Boolean scalar
func Bool(v bool) Scalar { return Scalar{kind: Boolean, b: v} }

// Num returns a Number scalar holding the given textual form
func Num(text string) Scalar { return Scalar{kind: Number, s: text} }

// Str returns a Text scalar
func Str(text string) Scalar { return Scalar{kind: Text, s: text} }

// Kind returns the active variant
func (s Scalar) Kind() ScalarKind { return s.kind }

// BoolValue returns the boolean payload; false for other kinds
func (s Scalar) BoolValue() bool { return s.kind == Boolean && s.b }

// Text returns the textual payload of a Number or Text scalar
func (s Scalar) Text() string {
	if s.kind == Boolean {
		return strconv.FormatBool(s.b)
	}
	return s.s
}

// String renders the scalar for logs and reports
func (s Scalar) String() string {
	if s.kind == Text {
		return strconv.Quote(s.s)
	}
	return s.Text()
}

// Compare orders scalars: Boolean < Number < Text, false < true, and plain
// string comparison of the stored text within Number and Text.
func Compare(a, b Scalar) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	if a.kind == Boolean {
		switch {
		case a.b == b.b:
			return 0
		case !a.b:
			return -1
		default:
			return 1
		}
	}
	return strings.Compare(a.s, b.s)
}

// Pair is one label/value entry of a row
type Pair struct {
	Label Scalar
	Value Scalar
}

// Normalize converts a decoded cell into a Scalar.
// Sequence kinds have no scalar form and fail with UnsupportedFieldKind;
// NaN and infinities fail with TableDecode.
func Normalize(cell types.Cell) (Scalar, error) {
	switch {
	case cell.Kind == types.KindBoolean:
		return Bool(cell.Bool), nil
	case cell.Kind.IsInteger():
		return Num(strconv.FormatInt(cell.Int, 10)), nil
	case cell.Kind.IsFloat() && (math.IsNaN(cell.Float) || math.IsInf(cell.Float, 0)):
		return Scalar{}, errors.Newf(errors.ErrTableDecode,
			"%s value %v has no Lua literal", cell.Kind, cell.Float).
			WithDetail("kind", cell.Kind.String())
	case cell.Kind == types.KindF32:
		return Num(strconv.FormatFloat(float64(float32(cell.Float)), 'f', -1, 32)), nil
	case cell.Kind == types.KindF64:
		return Num(strconv.FormatFloat(cell.Float, 'f', -1, 64)), nil
	case cell.Kind.IsString():
		return Str(cell.Str), nil
	}
	return Scalar{}, errors.Newf(errors.ErrUnsupportedFieldKind,
		"field kind %s has no scalar form", cell.Kind).
		WithDetail("kind", cell.Kind.String())
}
