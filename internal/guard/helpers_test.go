package guard

import "github.com/phobologic/guardgen/internal/syntax"

func name(s string) *syntax.Name { return &syntax.Name{Ident: s} }

func intLit(raw string) *syntax.Literal { return &syntax.Literal{Kind: syntax.IntLiteral, Raw: raw} }

func longLit(raw string) *syntax.Literal { return &syntax.Literal{Kind: syntax.LongLiteral, Raw: raw} }

func doubleLit(raw string) *syntax.Literal { return &syntax.Literal{Kind: syntax.DoubleLiteral, Raw: raw} }

func neg(x syntax.Expr) *syntax.Negation { return &syntax.Negation{X: x} }

func bin(l syntax.Expr, op syntax.BinaryOp, r syntax.Expr) *syntax.Binary {
	return &syntax.Binary{Left: l, Op: op, Right: r}
}

func nullLit() *syntax.Literal { return &syntax.Literal{Kind: syntax.NullLiteral, Raw: "null"} }

func throwNew(typ string) *syntax.Throw {
	return &syntax.Throw{X: &syntax.New{Type: typ}}
}

// guardIf builds: if (cond) { throw new IllegalArgumentException(); }
func guardIf(cond syntax.Expr) *syntax.If {
	return &syntax.If{
		Cond: cond,
		Then: &syntax.Block{Stmts: []syntax.Stmt{throwNew("IllegalArgumentException")}},
	}
}

func requireNonNull(arg syntax.Expr) syntax.Stmt {
	return &syntax.Opaque{Kind: "expression_statement", Children: []syntax.Node{
		&syntax.Call{Receiver: name("Objects"), Name: "requireNonNull", Args: []syntax.Expr{arg}},
	}}
}

func callable(params []syntax.Param, stmts ...syntax.Stmt) *syntax.Callable {
	return &syntax.Callable{
		Name:         "f",
		Class:        "C",
		Kind:         syntax.Method,
		Params:       params,
		Instantiable: true,
		Body:         &syntax.Block{Stmts: stmts},
	}
}

func refParam(n string) syntax.Param {
	return syntax.Param{Name: n, Type: "String", Category: syntax.Reference}
}

func intParam(n string) syntax.Param {
	return syntax.Param{Name: n, Type: "int", Category: syntax.Primitive}
}

func bound(op syntax.BinaryOp, lit *syntax.Literal, sign int) Bound {
	return Bound{Op: op, Literal: lit, Sign: sign}
}
