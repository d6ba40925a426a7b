package syntax

// Inspect traverses the tree rooted at n in depth-first source order,
// calling f for each non-nil node. If f returns false, the children of that
// node are not visited.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || isNilNode(n) || !f(n) {
		return
	}

	switch n := n.(type) {
	case *Name, *Literal:
		// leaves
	case *Negation:
		Inspect(n.X, f)
	case *Unary:
		Inspect(n.X, f)
	case *Binary:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *Call:
		if n.Receiver != nil {
			Inspect(n.Receiver, f)
		}
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *New:
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *Block:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
	case *If:
		Inspect(n.Cond, f)
		if n.Then != nil {
			Inspect(n.Then, f)
		}
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *Throw:
		Inspect(n.X, f)
	case *Opaque:
		for _, c := range n.Children {
			Inspect(c, f)
		}
	}
}

// isNilNode catches typed nil pointers stored in an interface.
func isNilNode(n Node) bool {
	switch n := n.(type) {
	case *Name:
		return n == nil
	case *Literal:
		return n == nil
	case *Negation:
		return n == nil
	case *Unary:
		return n == nil
	case *Binary:
		return n == nil
	case *Call:
		return n == nil
	case *New:
		return n == nil
	case *Block:
		return n == nil
	case *If:
		return n == nil
	case *Throw:
		return n == nil
	case *Opaque:
		return n == nil
	}
	return false
}

// Calls returns every Call under n in source order.
func Calls(n Node) []*Call {
	var out []*Call
	Inspect(n, func(n Node) bool {
		if c, ok := n.(*Call); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Ifs returns every If statement under n in source order, including nested
// ones.
func Ifs(n Node) []*If {
	var out []*If
	Inspect(n, func(n Node) bool {
		if s, ok := n.(*If); ok {
			out = append(out, s)
		}
		return true
	})
	return out
}

// Binaries returns every Binary expression under n in source order.
func Binaries(n Node) []*Binary {
	var out []*Binary
	Inspect(n, func(n Node) bool {
		if b, ok := n.(*Binary); ok {
			out = append(out, b)
		}
		return true
	})
	return out
}
