// Package syntax defines the typed tree that guard analysis runs over.
//
// The tree is a deliberately small view of a Java callable: the handful of
// expression and statement shapes the guard detector reasons about get their
// own types, and everything else is kept as an Opaque node so that walks can
// still reach calls and comparisons nested inside it.
package syntax

// Node is implemented by every expression and statement.
type Node interface {
	node()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// LiteralKind is the lexical category of a literal.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	LongLiteral
	FloatLiteral
	DoubleLiteral
	CharLiteral
	StringLiteral
	BoolLiteral
	NullLiteral
)

var literalKindNames = [...]string{
	IntLiteral:    "int",
	LongLiteral:   "long",
	FloatLiteral:  "float",
	DoubleLiteral: "double",
	CharLiteral:   "char",
	StringLiteral: "string",
	BoolLiteral:   "boolean",
	NullLiteral:   "null",
}

func (k LiteralKind) String() string {
	if int(k) < len(literalKindNames) {
		return literalKindNames[k]
	}
	return "unknown"
}

// BinaryOp is the operator of a Binary expression.
type BinaryOp int

const (
	OpOther BinaryOp = iota
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual
	OpEqual
	OpNotEqual
	OpAnd
	OpOr
)

var binaryOpNames = [...]string{
	OpOther:        "?",
	OpLess:         "<",
	OpLessEqual:    "<=",
	OpGreater:      ">",
	OpGreaterEqual: ">=",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpAnd:          "&&",
	OpOr:           "||",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// Relational reports whether op is one of <, <=, >, >=.
func (op BinaryOp) Relational() bool {
	switch op {
	case OpLess, OpLessEqual, OpGreater, OpGreaterEqual:
		return true
	}
	return false
}

// ParseBinaryOp maps Java operator text to a BinaryOp.
func ParseBinaryOp(s string) BinaryOp {
	for op, name := range binaryOpNames {
		if name == s && BinaryOp(op) != OpOther {
			return BinaryOp(op)
		}
	}
	return OpOther
}

type (
	// Name is a bare identifier reference.
	Name struct {
		Ident string
	}

	// Literal is a literal token; Raw is the source text.
	Literal struct {
		Kind LiteralKind
		Raw  string
	}

	// Negation is unary minus.
	Negation struct {
		X Expr
	}

	// Unary is any other prefix operator (!, ~, +).
	Unary struct {
		Op string
		X  Expr
	}

	// Binary is an infix expression.
	Binary struct {
		Left  Expr
		Op    BinaryOp
		Right Expr
	}

	// Call is a method invocation. Receiver is nil for unqualified calls.
	Call struct {
		Receiver Expr
		Name     string
		Args     []Expr
	}

	// New is an object creation expression. Type is the source text of the
	// instantiated type.
	New struct {
		Type string
		Args []Expr
	}
)

type (
	// Block is a braced statement list.
	Block struct {
		Stmts []Stmt
	}

	// If is an if statement. Else may be nil.
	If struct {
		Cond Expr
		Then Stmt
		Else Stmt
	}

	// Throw is a throw statement.
	Throw struct {
		X Expr
	}
)

// Opaque stands in for any construct the analysis does not model. It is
// both an expression and a statement. Kind is the grammar node type.
type Opaque struct {
	Kind     string
	Children []Node
}

func (*Name) node()     {}
func (*Literal) node()  {}
func (*Negation) node() {}
func (*Unary) node()    {}
func (*Binary) node()   {}
func (*Call) node()     {}
func (*New) node()      {}
func (*Block) node()    {}
func (*If) node()       {}
func (*Throw) node()    {}
func (*Opaque) node()   {}

func (*Name) exprNode()     {}
func (*Literal) exprNode()  {}
func (*Negation) exprNode() {}
func (*Unary) exprNode()    {}
func (*Binary) exprNode()   {}
func (*Call) exprNode()     {}
func (*New) exprNode()      {}
func (*Opaque) exprNode()   {}

func (*Block) stmtNode()  {}
func (*If) stmtNode()     {}
func (*Throw) stmtNode()  {}
func (*Opaque) stmtNode() {}
