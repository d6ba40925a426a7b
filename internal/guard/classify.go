package guard

import (
	"fmt"

	"github.com/phobologic/guardgen/internal/syntax"
)

// Bound is a range comparison normalized to "param Op Sign*Literal".
type Bound struct {
	Op      syntax.BinaryOp
	Literal *syntax.Literal
	Sign    int
}

func (b Bound) String() string {
	sign := ""
	if b.Sign < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s %s%s", b.Op, sign, b.Literal.Raw)
}

// Classify decides whether cmp compares param against a literal or a negated
// literal with a relational operator. The result always reads as
// "param Op literal": when the literal is on the left the operator is
// mirrored.
func Classify(cmp *syntax.Binary, param string) (Bound, bool) {
	if cmp == nil || !cmp.Op.Relational() {
		return Bound{}, false
	}

	if isParam(cmp.Left, param) {
		lit, sign, ok := literalOperand(cmp.Right)
		if !ok {
			return Bound{}, false
		}
		return Bound{Op: cmp.Op, Literal: lit, Sign: sign}, true
	}

	if isParam(cmp.Right, param) {
		lit, sign, ok := literalOperand(cmp.Left)
		if !ok {
			return Bound{}, false
		}
		return Bound{Op: mirror(cmp.Op), Literal: lit, Sign: sign}, true
	}

	return Bound{}, false
}

func isParam(e syntax.Expr, param string) bool {
	n, ok := e.(*syntax.Name)
	return ok && n.Ident == param
}

// literalOperand accepts a non-null literal or a single negation of one.
func literalOperand(e syntax.Expr) (*syntax.Literal, int, bool) {
	switch e := e.(type) {
	case *syntax.Literal:
		if e.Kind == syntax.NullLiteral {
			return nil, 0, false
		}
		return e, 1, true
	case *syntax.Negation:
		lit, ok := e.X.(*syntax.Literal)
		if !ok || lit.Kind == syntax.NullLiteral {
			return nil, 0, false
		}
		return lit, -1, true
	}
	return nil, 0, false
}

// mirror swaps operand order: "L < x" is "x > L".
func mirror(op syntax.BinaryOp) syntax.BinaryOp {
	switch op {
	case syntax.OpLess:
		return syntax.OpGreater
	case syntax.OpGreater:
		return syntax.OpLess
	case syntax.OpLessEqual:
		return syntax.OpGreaterEqual
	case syntax.OpGreaterEqual:
		return syntax.OpLessEqual
	}
	return op
}
