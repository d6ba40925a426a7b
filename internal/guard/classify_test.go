package guard

import (
	"testing"

	"github.com/phobologic/guardgen/internal/syntax"
)

func TestClassifyNormalizesOperandOrder(t *testing.T) {
	t.Parallel()

	direct, ok := Classify(bin(name("x"), syntax.OpLess, intLit("5")), "x")
	if !ok {
		t.Fatal("x < 5 not classified")
	}
	mirrored, ok := Classify(bin(intLit("5"), syntax.OpGreater, name("x")), "x")
	if !ok {
		t.Fatal("5 > x not classified")
	}

	for _, b := range []Bound{direct, mirrored} {
		if b.Op != syntax.OpLess || b.Literal.Raw != "5" || b.Sign != 1 {
			t.Errorf("got %v sign %d, want < 5 sign 1", b, b.Sign)
		}
	}
}

func TestClassifyMirrorsEveryOperator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		written syntax.BinaryOp
		want    syntax.BinaryOp
	}{
		{syntax.OpLess, syntax.OpGreater},
		{syntax.OpGreater, syntax.OpLess},
		{syntax.OpLessEqual, syntax.OpGreaterEqual},
		{syntax.OpGreaterEqual, syntax.OpLessEqual},
	}
	for _, tt := range tests {
		b, ok := Classify(bin(intLit("1"), tt.written, name("x")), "x")
		if !ok {
			t.Fatalf("1 %v x not classified", tt.written)
		}
		if b.Op != tt.want {
			t.Errorf("1 %v x: op = %v, want %v", tt.written, b.Op, tt.want)
		}
	}
}

func TestClassifySign(t *testing.T) {
	t.Parallel()

	b, ok := Classify(bin(name("x"), syntax.OpGreater, neg(intLit("3"))), "x")
	if !ok {
		t.Fatal("x > -3 not classified")
	}
	if b.Literal.Raw != "3" || b.Sign != -1 || b.Op != syntax.OpGreater {
		t.Errorf("got %v sign %d", b, b.Sign)
	}

	v, ok := SingleBound(b)
	if !ok || v != Int(-2) {
		t.Errorf("SingleBound(x > -3) = %v, %v; want -2", v, ok)
	}
}

func TestClassifyRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cmp  *syntax.Binary
	}{
		{"equality", bin(name("x"), syntax.OpEqual, intLit("1"))},
		{"not equal", bin(name("x"), syntax.OpNotEqual, intLit("1"))},
		{"logical", bin(name("x"), syntax.OpAnd, intLit("1"))},
		{"other param", bin(name("y"), syntax.OpLess, intLit("1"))},
		{"two names", bin(name("x"), syntax.OpLess, name("y"))},
		{"null literal", bin(name("x"), syntax.OpLess, nullLit())},
		{"double negation", bin(name("x"), syntax.OpLess, neg(neg(intLit("1"))))},
		{"negated name", bin(name("x"), syntax.OpLess, neg(name("y")))},
		{"call operand", bin(&syntax.Call{Name: "size"}, syntax.OpLess, intLit("1"))},
		{"two literals", bin(intLit("1"), syntax.OpLess, intLit("2"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if b, ok := Classify(tt.cmp, "x"); ok {
				t.Errorf("classified as %v", b)
			}
		})
	}

	if _, ok := Classify(nil, "x"); ok {
		t.Error("nil comparison classified")
	}
}
