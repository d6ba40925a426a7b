// Package parse extracts callables from Java source files using tree-sitter
// and lowers their bodies into the syntax tree the guard analysis walks.
package parse

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/guardgen/internal/lang"
	"github.com/phobologic/guardgen/internal/syntax"
)

var captureMap = map[string]syntax.CallableKind{
	"definition.method":      syntax.Method,
	"definition.constructor": syntax.Constructor,
}

// ExtractCallables parses a source file and returns every method and
// constructor declared in it, in source order.
// The parser must be created for l. filePath is only used in errors.
func ExtractCallables(l *lang.Language, parser *sitter.Parser, query *sitter.Query, source []byte, filePath string) ([]syntax.Callable, error) {
	if len(source) == 0 {
		return nil, nil
	}

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, tree.RootNode())

	conv := &converter{source: source}
	var callables []syntax.Callable

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		var nameNode, defNode *sitter.Node
		var kind syntax.CallableKind
		for _, c := range match.Captures {
			cname := query.CaptureNameForId(c.Index)
			if cname == "name" {
				nameNode = c.Node
			} else if k, ok := captureMap[cname]; ok {
				kind = k
				defNode = c.Node
			}
		}
		if nameNode == nil || defNode == nil {
			continue
		}

		c := syntax.Callable{
			Name:   lang.NodeText(nameNode, source),
			Kind:   kind,
			Line:   int(nameNode.StartPoint().Row) + 1,
			Params: conv.params(defNode.ChildByFieldName("parameters")),
		}
		if l.EnclosingType != nil {
			c.Class, c.Instantiable = l.EnclosingType(defNode, source)
		}
		if l.ExtractSignature != nil {
			c.Signature = l.ExtractSignature(defNode, source)
		}
		if body := defNode.ChildByFieldName("body"); body != nil {
			c.Body = conv.block(body)
		}
		callables = append(callables, c)
	}

	return callables, nil
}

var primitiveTypes = map[string]bool{
	"integral_type":       true,
	"floating_point_type": true,
	"boolean_type":        true,
}

var literalKinds = map[string]syntax.LiteralKind{
	"decimal_integer_literal":        syntax.IntLiteral,
	"hex_integer_literal":            syntax.IntLiteral,
	"octal_integer_literal":          syntax.IntLiteral,
	"binary_integer_literal":         syntax.IntLiteral,
	"decimal_floating_point_literal": syntax.DoubleLiteral,
	"hex_floating_point_literal":     syntax.DoubleLiteral,
	"character_literal":              syntax.CharLiteral,
	"string_literal":                 syntax.StringLiteral,
	"text_block":                     syntax.StringLiteral,
	"true":                           syntax.BoolLiteral,
	"false":                          syntax.BoolLiteral,
	"null_literal":                   syntax.NullLiteral,
}

type converter struct {
	source []byte
}

func (c *converter) text(n *sitter.Node) string {
	return lang.NodeText(n, c.source)
}

func (c *converter) params(list *sitter.Node) []syntax.Param {
	if list == nil {
		return nil
	}
	var params []syntax.Param
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		switch child.Type() {
		case "formal_parameter":
			typ := child.ChildByFieldName("type")
			name := child.ChildByFieldName("name")
			if typ == nil || name == nil {
				continue
			}
			p := syntax.Param{Name: c.text(name), Type: c.text(typ)}
			if primitiveTypes[typ.Type()] && child.ChildByFieldName("dimensions") == nil {
				p.Category = syntax.Primitive
			}
			params = append(params, p)
		case "spread_parameter":
			// T... name is an array, so always a reference.
			var p syntax.Param
			for j := 0; j < int(child.NamedChildCount()); j++ {
				part := child.NamedChild(j)
				switch {
				case part.Type() == "variable_declarator":
					if name := part.ChildByFieldName("name"); name != nil {
						p.Name = c.text(name)
					}
				case part.Type() != "modifiers" && p.Type == "":
					p.Type = c.text(part) + "..."
				}
			}
			if p.Name != "" {
				params = append(params, p)
			}
		}
	}
	return params
}

func (c *converter) block(n *sitter.Node) *syntax.Block {
	b := &syntax.Block{}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if isComment(child) {
			continue
		}
		b.Stmts = append(b.Stmts, c.stmt(child))
	}
	return b
}

func (c *converter) node(n *sitter.Node) syntax.Node {
	typ := n.Type()
	if kind, ok := literalKinds[typ]; ok {
		lit := &syntax.Literal{Kind: kind, Raw: c.text(n)}
		switch kind {
		case syntax.IntLiteral:
			if strings.HasSuffix(lit.Raw, "l") || strings.HasSuffix(lit.Raw, "L") {
				lit.Kind = syntax.LongLiteral
			}
		case syntax.DoubleLiteral:
			if strings.HasSuffix(lit.Raw, "f") || strings.HasSuffix(lit.Raw, "F") {
				lit.Kind = syntax.FloatLiteral
			}
		}
		return lit
	}

	switch typ {
	case "block", "constructor_body":
		return c.block(n)
	case "if_statement":
		s := &syntax.If{Cond: c.expr(n.ChildByFieldName("condition"))}
		s.Then = c.stmt(n.ChildByFieldName("consequence"))
		s.Else = c.stmt(n.ChildByFieldName("alternative"))
		return s
	case "throw_statement":
		return &syntax.Throw{X: c.expr(firstNamed(n))}
	case "parenthesized_expression":
		if inner := firstNamed(n); inner != nil {
			return c.node(inner)
		}
	case "identifier":
		return &syntax.Name{Ident: c.text(n)}
	case "unary_expression":
		op := n.ChildByFieldName("operator")
		x := c.expr(n.ChildByFieldName("operand"))
		if op != nil && c.text(op) == "-" {
			return &syntax.Negation{X: x}
		}
		u := &syntax.Unary{X: x}
		if op != nil {
			u.Op = c.text(op)
		}
		return u
	case "binary_expression":
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		return &syntax.Binary{
			Left:  c.expr(left),
			Op:    syntax.ParseBinaryOp(c.operator(n, left, right)),
			Right: c.expr(right),
		}
	case "method_invocation":
		call := &syntax.Call{Args: c.args(n.ChildByFieldName("arguments"))}
		if name := n.ChildByFieldName("name"); name != nil {
			call.Name = c.text(name)
		}
		if obj := n.ChildByFieldName("object"); obj != nil {
			call.Receiver = c.expr(obj)
		}
		return call
	case "object_creation_expression":
		nw := &syntax.New{Args: c.args(n.ChildByFieldName("arguments"))}
		if t := n.ChildByFieldName("type"); t != nil {
			nw.Type = c.text(t)
		}
		return nw
	}
	return c.opaque(n)
}

// operator finds the operator token of a binary expression. Older grammar
// builds carry no operator field, so fall back to the anonymous token
// between the operands.
func (c *converter) operator(n, left, right *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return c.text(op)
	}
	if left == nil || right == nil {
		return ""
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if !child.IsNamed() && child.StartByte() >= left.EndByte() && child.EndByte() <= right.StartByte() {
			return c.text(child)
		}
	}
	return ""
}

func (c *converter) args(list *sitter.Node) []syntax.Expr {
	if list == nil {
		return nil
	}
	var args []syntax.Expr
	for i := 0; i < int(list.NamedChildCount()); i++ {
		child := list.NamedChild(i)
		if isComment(child) {
			continue
		}
		args = append(args, c.expr(child))
	}
	return args
}

func (c *converter) opaque(n *sitter.Node) *syntax.Opaque {
	o := &syntax.Opaque{Kind: n.Type()}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if isComment(child) {
			continue
		}
		o.Children = append(o.Children, c.node(child))
	}
	return o
}

// expr converts n in expression position. A nil node yields a nil Expr.
func (c *converter) expr(n *sitter.Node) syntax.Expr {
	if n == nil {
		return nil
	}
	converted := c.node(n)
	if e, ok := converted.(syntax.Expr); ok {
		return e
	}
	return &syntax.Opaque{Kind: n.Type(), Children: []syntax.Node{converted}}
}

// stmt converts n in statement position. A nil node yields a nil Stmt.
func (c *converter) stmt(n *sitter.Node) syntax.Stmt {
	if n == nil {
		return nil
	}
	converted := c.node(n)
	if s, ok := converted.(syntax.Stmt); ok {
		return s
	}
	return &syntax.Opaque{Kind: n.Type(), Children: []syntax.Node{converted}}
}

func firstNamed(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); !isComment(child) {
			return child
		}
	}
	return nil
}

func isComment(n *sitter.Node) bool {
	return strings.HasSuffix(n.Type(), "comment")
}
