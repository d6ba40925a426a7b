package guard

import (
	"math"

	"github.com/phobologic/guardgen/internal/syntax"
)

// Synthesize returns the argument values that make a range guard fire: one
// value for a single bound or an && pair, two values (one per side, in
// order) for an || pair. It returns nil when no value can be produced, for
// example for unsupported literal kinds or an empty conjunction.
func Synthesize(m Match) []Value {
	if m.Kind != RangeGuard {
		return nil
	}
	switch len(m.Bounds) {
	case 1:
		if v, ok := SingleBound(m.Bounds[0]); ok {
			return []Value{v}
		}
	case 2:
		switch m.Combinator {
		case Or:
			var out []Value
			for _, b := range m.Bounds {
				if v, ok := SingleBound(b); ok {
					out = append(out, v)
				}
			}
			return out
		case And:
			if v, ok := Conjunction(m.Bounds[0], m.Bounds[1]); ok {
				return []Value{v}
			}
		}
	}
	return nil
}

// SingleBound returns the value closest to the boundary that satisfies b:
// one below for <, one above for >, the boundary itself for <= and >=.
func SingleBound(b Bound) (Value, bool) {
	n, ok := literalNumber(b.Literal, b.Sign)
	if !ok {
		return Value{}, false
	}

	if n.kind == DoubleValue {
		v := n.f
		switch b.Op {
		case syntax.OpLess:
			v--
		case syntax.OpGreater:
			v++
		}
		return Double(v), true
	}

	lo, hi := limits(n.kind)
	v := n.i
	switch b.Op {
	case syntax.OpLess:
		if v == lo {
			return Value{}, false
		}
		v--
	case syntax.OpGreater:
		if v == hi {
			return Value{}, false
		}
		v++
	}
	return integerValue(n.kind, v), true
}

// Conjunction returns one value satisfying both a and b. Integer pairs take
// the floor midpoint of the integer interval both sides admit; double pairs
// take the arithmetic midpoint of the two bounds. A pair bounding the same
// direction collapses to the tighter bound.
func Conjunction(a, b Bound) (Value, bool) {
	na, ok := literalNumber(a.Literal, a.Sign)
	if !ok {
		return Value{}, false
	}
	nb, ok := literalNumber(b.Literal, b.Sign)
	if !ok {
		return Value{}, false
	}

	kind := promote(na.kind, nb.kind)
	var v Value
	if kind == DoubleValue {
		v, ok = doubleConjunction(a.Op, na.float(), b.Op, nb.float())
	} else {
		v, ok = integerConjunction(kind, a.Op, na.i, b.Op, nb.i)
	}
	if !ok || !Holds(a, v) || !Holds(b, v) {
		return Value{}, false
	}
	return v, true
}

func promote(a, b ValueKind) ValueKind {
	if a == DoubleValue || b == DoubleValue {
		return DoubleValue
	}
	if a == LongValue || b == LongValue {
		return LongValue
	}
	return IntValue
}

func integerConjunction(kind ValueKind, opA syntax.BinaryOp, a int64, opB syntax.BinaryOp, b int64) (Value, bool) {
	lowest, highest := limits(kind)
	lo, hi := lowest, highest
	hasLo, hasHi := false, false

	apply := func(op syntax.BinaryOp, v int64) bool {
		switch op {
		case syntax.OpGreater:
			if v == highest {
				return false
			}
			lo, hasLo = max(lo, v+1), true
		case syntax.OpGreaterEqual:
			lo, hasLo = max(lo, v), true
		case syntax.OpLess:
			if v == lowest {
				return false
			}
			hi, hasHi = min(hi, v-1), true
		case syntax.OpLessEqual:
			hi, hasHi = min(hi, v), true
		default:
			return false
		}
		return true
	}
	if !apply(opA, a) || !apply(opB, b) || lo > hi {
		return Value{}, false
	}

	switch {
	case hasLo && hasHi:
		// uint64 difference cannot overflow for lo <= hi.
		return integerValue(kind, lo+int64((uint64(hi)-uint64(lo))/2)), true
	case hasLo:
		return integerValue(kind, lo), true
	default:
		return integerValue(kind, hi), true
	}
}

func doubleConjunction(opA syntax.BinaryOp, a float64, opB syntax.BinaryOp, b float64) (Value, bool) {
	lower, upper := math.Inf(-1), math.Inf(1)
	lowerOp, upperOp := syntax.OpOther, syntax.OpOther

	apply := func(op syntax.BinaryOp, v float64) bool {
		switch op {
		case syntax.OpGreater, syntax.OpGreaterEqual:
			if v > lower || (v == lower && op == syntax.OpGreater) {
				lower, lowerOp = v, op
			}
		case syntax.OpLess, syntax.OpLessEqual:
			if v < upper || (v == upper && op == syntax.OpLess) {
				upper, upperOp = v, op
			}
		default:
			return false
		}
		return true
	}
	if !apply(opA, a) || !apply(opB, b) {
		return Value{}, false
	}

	switch {
	case lowerOp != syntax.OpOther && upperOp != syntax.OpOther:
		return Double(lower/2 + upper/2), true
	case lowerOp != syntax.OpOther:
		if lowerOp == syntax.OpGreater {
			return Double(lower + 1), true
		}
		return Double(lower), true
	default:
		if upperOp == syntax.OpLess {
			return Double(upper - 1), true
		}
		return Double(upper), true
	}
}

// Holds evaluates "v Op bound" for b. Null values never satisfy a bound.
func Holds(b Bound, v Value) bool {
	if v.IsNull() {
		return false
	}
	n, ok := literalNumber(b.Literal, b.Sign)
	if !ok {
		return false
	}

	if v.Kind == DoubleValue || n.kind == DoubleValue {
		x, y := valueFloat(v), n.float()
		switch b.Op {
		case syntax.OpLess:
			return x < y
		case syntax.OpLessEqual:
			return x <= y
		case syntax.OpGreater:
			return x > y
		case syntax.OpGreaterEqual:
			return x >= y
		}
		return false
	}

	x, y := v.Int, n.i
	switch b.Op {
	case syntax.OpLess:
		return x < y
	case syntax.OpLessEqual:
		return x <= y
	case syntax.OpGreater:
		return x > y
	case syntax.OpGreaterEqual:
		return x >= y
	}
	return false
}

func valueFloat(v Value) float64 {
	if v.Kind == DoubleValue {
		return v.Float
	}
	return float64(v.Int)
}

func integerValue(kind ValueKind, v int64) Value {
	if kind == LongValue {
		return Long(v)
	}
	return Int(int32(v))
}
