package vm

import "strconv"

// Kind tags a Value's variant.
type Kind int

const (
	// KindStr marks a string value.
	KindStr Kind = iota
	// KindInt marks a signed 64-bit integer value.
	KindInt
)

// Value is the tagged union every UnDAG variable holds: either a string or
// a signed 64-bit integer (spec §3). There is no implicit conversion
// between the two outside the explicit, per-operation coercions documented
// in spec §4.4.
type Value struct {
	Kind Kind
	Str  string
	Int  int64
}

// Str builds a string Value.
func Str(s string) Value { return Value{Kind: KindStr, Str: s} }

// Int builds an integer Value.
func Int(n int64) Value { return Value{Kind: KindInt, Int: n} }

// StringOf returns the canonical string form of v: a string value as-is,
// an integer value as its canonical decimal representation (a leading '-'
// for negatives, no leading zeros other than the digit itself).
func StringOf(v Value) string {
	if v.Kind == KindStr {
		return v.Str
	}
	return strconv.FormatInt(v.Int, 10)
}

// Equal reports whether two values are equal: same variant and same
// content (spec's "value equality" used by eq and match).
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindStr {
		return a.Str == b.Str
	}
	return a.Int == b.Int
}

// IntValue coerces v to an int64: an integer value as-is, a string value
// by parsing it as a signed decimal integer. ok is false if v is a string
// that does not parse.
func IntValue(v Value) (n int64, ok bool) {
	if v.Kind == KindInt {
		return v.Int, true
	}
	n, err := strconv.ParseInt(v.Str, 10, 64)
	return n, err == nil
}
