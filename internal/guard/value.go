package guard

import (
	"math"
	"strconv"
	"strings"

	"github.com/phobologic/guardgen/internal/syntax"
)

// ValueKind is the numeric category of a synthesized value.
type ValueKind int

const (
	NullValue ValueKind = iota
	IntValue
	LongValue
	DoubleValue
)

func (k ValueKind) String() string {
	switch k {
	case NullValue:
		return "null"
	case IntValue:
		return "int"
	case LongValue:
		return "long"
	case DoubleValue:
		return "double"
	}
	return "unknown"
}

// Value is a single typed literal to pass as an argument. Int holds int and
// long values; Float holds doubles.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
}

// Null is the null literal.
var Null = Value{Kind: NullValue}

// Int returns a 32-bit integer value.
func Int(v int32) Value { return Value{Kind: IntValue, Int: int64(v)} }

// Long returns a 64-bit integer value.
func Long(v int64) Value { return Value{Kind: LongValue, Int: v} }

// Double returns a double value.
func Double(v float64) Value { return Value{Kind: DoubleValue, Float: v} }

// String renders v as Java source text.
func (v Value) String() string {
	switch v.Kind {
	case IntValue:
		return strconv.FormatInt(v.Int, 10)
	case LongValue:
		return strconv.FormatInt(v.Int, 10) + "L"
	case DoubleValue:
		s := strconv.FormatFloat(v.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	}
	return "null"
}

// IsNull reports whether v is the null literal.
func (v Value) IsNull() bool { return v.Kind == NullValue }

// number is a sign-adjusted literal value in its numeric category.
type number struct {
	kind ValueKind
	i    int64
	f    float64
}

func (n number) float() float64 {
	if n.kind == DoubleValue {
		return n.f
	}
	return float64(n.i)
}

// limits returns the representable range for an integer kind.
func limits(k ValueKind) (int64, int64) {
	if k == IntValue {
		return math.MinInt32, math.MaxInt32
	}
	return math.MinInt64, math.MaxInt64
}

// literalNumber parses lit and applies sign. It fails for literal kinds the
// synthesizer does not support and for values out of range after the sign
// is applied.
func literalNumber(lit *syntax.Literal, sign int) (number, bool) {
	switch lit.Kind {
	case syntax.IntLiteral, syntax.LongLiteral:
		kind := IntValue
		if lit.Kind == syntax.LongLiteral {
			kind = LongValue
		}
		v, ok := parseInteger(lit.Raw, kind, sign)
		if !ok {
			return number{}, false
		}
		return number{kind: kind, i: v}, true
	case syntax.DoubleLiteral:
		raw := strings.ReplaceAll(lit.Raw, "_", "")
		raw = strings.TrimRight(raw, "dD")
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return number{}, false
		}
		return number{kind: DoubleValue, f: f * float64(sign)}, true
	}
	return number{}, false
}

// parseInteger follows Java integer literal rules: decimal literals must fit
// the type's magnitude (2^31 and 2^63 only under negation), while hex, octal
// and binary literals are two's complement bit patterns.
func parseInteger(raw string, kind ValueKind, sign int) (int64, bool) {
	s := strings.ReplaceAll(raw, "_", "")
	s = strings.TrimRight(s, "lL")
	if s == "" {
		return 0, false
	}
	bits := 32
	if kind == LongValue {
		bits = 64
	}
	lo, hi := limits(kind)

	decimal := s == "0" || (s[0] >= '1' && s[0] <= '9')
	if decimal {
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, false
		}
		if sign < 0 {
			if u > uint64(hi)+1 {
				return 0, false
			}
			if u == uint64(hi)+1 {
				return lo, true
			}
			return -int64(u), true
		}
		if u > uint64(hi) {
			return 0, false
		}
		return int64(u), true
	}

	u, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, false
	}
	var v int64
	if kind == IntValue {
		v = int64(int32(uint32(u)))
	} else {
		v = int64(u)
	}
	if sign < 0 {
		if v == lo {
			return 0, false
		}
		v = -v
	}
	return v, true
}
