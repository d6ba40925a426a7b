package syntax

import (
	"testing"
)

func TestInspectOrder(t *testing.T) {
	t.Parallel()

	// if (x < 0 || x > 9) throw new IllegalArgumentException(check(y));
	body := &Block{Stmts: []Stmt{
		&If{
			Cond: &Binary{
				Left:  &Binary{Left: &Name{Ident: "x"}, Op: OpLess, Right: &Literal{Kind: IntLiteral, Raw: "0"}},
				Op:    OpOr,
				Right: &Binary{Left: &Name{Ident: "x"}, Op: OpGreater, Right: &Literal{Kind: IntLiteral, Raw: "9"}},
			},
			Then: &Throw{X: &New{
				Type: "IllegalArgumentException",
				Args: []Expr{&Call{Name: "check", Args: []Expr{&Name{Ident: "y"}}}},
			}},
		},
	}}

	bins := Binaries(body)
	if len(bins) != 3 {
		t.Fatalf("expected 3 binaries, got %d", len(bins))
	}
	if bins[0].Op != OpOr || bins[1].Op != OpLess || bins[2].Op != OpGreater {
		t.Errorf("unexpected order: %v %v %v", bins[0].Op, bins[1].Op, bins[2].Op)
	}

	calls := Calls(body)
	if len(calls) != 1 || calls[0].Name != "check" {
		t.Errorf("calls = %+v", calls)
	}

	if got := len(Ifs(body)); got != 1 {
		t.Errorf("ifs = %d, want 1", got)
	}
}

func TestInspectPrune(t *testing.T) {
	t.Parallel()

	body := &Block{Stmts: []Stmt{
		&Opaque{Kind: "lambda_expression", Children: []Node{
			&Call{Name: "requireNonNull", Args: []Expr{&Name{Ident: "a"}}},
		}},
		&Opaque{Kind: "expression_statement", Children: []Node{
			&Call{Name: "requireNonNull", Args: []Expr{&Name{Ident: "b"}}},
		}},
	}}

	var seen []string
	Inspect(body, func(n Node) bool {
		if o, ok := n.(*Opaque); ok && o.Kind == "lambda_expression" {
			return false
		}
		if c, ok := n.(*Call); ok {
			seen = append(seen, c.Args[0].(*Name).Ident)
		}
		return true
	})
	if len(seen) != 1 || seen[0] != "b" {
		t.Errorf("seen = %v, want [b]", seen)
	}
}

func TestInspectNilBody(t *testing.T) {
	t.Parallel()

	var body *Block
	called := false
	Inspect(body, func(Node) bool {
		called = true
		return true
	})
	if called {
		t.Error("Inspect visited a nil block")
	}
}

func TestParseBinaryOp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want BinaryOp
	}{
		{"<", OpLess},
		{"<=", OpLessEqual},
		{">", OpGreater},
		{">=", OpGreaterEqual},
		{"==", OpEqual},
		{"!=", OpNotEqual},
		{"&&", OpAnd},
		{"||", OpOr},
		{"&", OpOther},
		{"?", OpOther},
		{"", OpOther},
	}
	for _, tt := range tests {
		if got := ParseBinaryOp(tt.in); got != tt.want {
			t.Errorf("ParseBinaryOp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParamIndex(t *testing.T) {
	t.Parallel()

	c := &Callable{Name: "f", Class: "C", Params: []Param{{Name: "a"}, {Name: "b"}}}
	if got := c.ParamIndex("b"); got != 1 {
		t.Errorf("ParamIndex(b) = %d", got)
	}
	if got := c.ParamIndex("z"); got != -1 {
		t.Errorf("ParamIndex(z) = %d", got)
	}
	if got := c.QualifiedName(); got != "C.f" {
		t.Errorf("QualifiedName = %q", got)
	}
}
