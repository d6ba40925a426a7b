package guard

import (
	"go.uber.org/zap"

	"github.com/phobologic/guardgen/internal/syntax"
)

// MatchKind identifies a guard family.
type MatchKind int

const (
	NullAssertionCall MatchKind = iota
	NullEqualityGuard
	RangeGuard
)

func (k MatchKind) String() string {
	switch k {
	case NullAssertionCall:
		return "null-assertion"
	case NullEqualityGuard:
		return "null-equality"
	case RangeGuard:
		return "range"
	}
	return "unknown"
}

// Combinator joins the two bounds of a range guard.
type Combinator int

const (
	NoCombinator Combinator = iota
	And
	Or
)

// Match is a guard found for one parameter.
type Match struct {
	Kind  MatchKind
	Param string

	// Exception is the simple name of the exception the guard throws. Empty
	// for null-assertion calls.
	Exception string

	// Bounds holds one or two comparisons for range guards.
	Bounds     []Bound
	Combinator Combinator
}

// Detector finds guards in callable bodies.
type Detector struct {
	opts Options
}

// NewDetector returns a Detector. Empty option fields take their defaults.
func NewDetector(opts Options) *Detector {
	return &Detector{opts: opts.withDefaults()}
}

// Detect returns every supported guard in c, null-assertion calls first,
// then null-equality guards, then range guards, each group in source order.
func (d *Detector) Detect(c *syntax.Callable) []Match {
	if c == nil || c.Body == nil || len(c.Params) == 0 {
		return nil
	}

	var matches []Match
	matches = append(matches, d.nullAssertions(c)...)

	guards := d.throwingIfs(c.Body)
	matches = append(matches, d.nullEqualities(c, guards)...)
	matches = append(matches, d.ranges(c, guards)...)
	return matches
}

type throwingIf struct {
	stmt      *syntax.If
	exception string
}

func (d *Detector) nullAssertions(c *syntax.Callable) []Match {
	var out []Match
	for _, call := range syntax.Calls(c.Body) {
		if !contains(d.opts.NullAssertions, call.Name) || len(call.Args) == 0 {
			continue
		}
		name, ok := call.Args[0].(*syntax.Name)
		if !ok || !isReferenceParam(c, name.Ident) {
			continue
		}
		out = append(out, Match{Kind: NullAssertionCall, Param: name.Ident})
	}
	return out
}

// throwingIfs collects if statements whose consequent throws one of the
// configured argument exceptions.
func (d *Detector) throwingIfs(body *syntax.Block) []throwingIf {
	var out []throwingIf
	for _, s := range syntax.Ifs(body) {
		if exc := d.thrownArgumentException(s.Then); exc != "" {
			out = append(out, throwingIf{stmt: s, exception: exc})
		}
	}
	return out
}

func (d *Detector) thrownArgumentException(then syntax.Stmt) string {
	var found string
	syntax.Inspect(then, func(n syntax.Node) bool {
		if found != "" {
			return false
		}
		// A throw under a nested if is conditional on more than this guard.
		if _, ok := n.(*syntax.If); ok {
			return false
		}
		t, ok := n.(*syntax.Throw)
		if !ok {
			return true
		}
		syntax.Inspect(t.X, func(n syntax.Node) bool {
			if found != "" {
				return false
			}
			if nw, ok := n.(*syntax.New); ok {
				if name := simpleTypeName(nw.Type); contains(d.opts.ArgumentExceptions, name) {
					found = name
				}
			}
			return true
		})
		return false
	})
	return found
}

func (d *Detector) nullEqualities(c *syntax.Callable, guards []throwingIf) []Match {
	var out []Match
	for _, g := range guards {
		seen := make(map[string]bool)
		// Only a comparison that alone fires the guard counts: the whole
		// condition or one operand of a top-level || chain.
		for _, e := range disjuncts(g.stmt.Cond) {
			b, ok := e.(*syntax.Binary)
			if !ok || b.Op != syntax.OpEqual {
				continue
			}
			name := nullComparedName(b)
			if name == "" || seen[name] || !isReferenceParam(c, name) {
				continue
			}
			seen[name] = true
			out = append(out, Match{Kind: NullEqualityGuard, Param: name, Exception: g.exception})
		}
	}
	return out
}

// nullComparedName returns the identifier compared against null in b.
func nullComparedName(b *syntax.Binary) string {
	var other syntax.Expr
	switch {
	case isNull(b.Right) && !isNull(b.Left):
		other = b.Left
	case isNull(b.Left) && !isNull(b.Right):
		other = b.Right
	default:
		return ""
	}
	if n, ok := other.(*syntax.Name); ok {
		return n.Ident
	}
	return ""
}

func isNull(e syntax.Expr) bool {
	lit, ok := e.(*syntax.Literal)
	return ok && lit.Kind == syntax.NullLiteral
}

func (d *Detector) ranges(c *syntax.Callable, guards []throwingIf) []Match {
	var out []Match
	for _, g := range guards {
		comparisons := syntax.Binaries(g.stmt.Cond)
		for _, p := range c.Params {
			var found []*syntax.Binary
			var bounds []Bound
			for _, b := range comparisons {
				if bound, ok := Classify(b, p.Name); ok {
					found = append(found, b)
					bounds = append(bounds, bound)
				}
			}
			if len(found) == 0 {
				continue
			}
			m, ok := rangeShape(g.stmt.Cond, found, bounds)
			if !ok {
				d.opts.Logger.Debug("skipping ambiguous range guard",
					zap.String("callable", c.QualifiedName()),
					zap.String("param", p.Name),
					zap.Int("comparisons", len(found)))
				continue
			}
			m.Param = p.Name
			m.Exception = g.exception
			out = append(out, m)
		}
	}
	return out
}

// rangeShape checks where the qualifying comparisons sit in the condition.
// One comparison must be the whole condition or one of its top-level
// disjuncts; two comparisons must be the two direct operands of the
// condition itself, joined by && or ||.
func rangeShape(cond syntax.Expr, found []*syntax.Binary, bounds []Bound) (Match, bool) {
	switch len(found) {
	case 1:
		for _, d := range disjuncts(cond) {
			if d == syntax.Expr(found[0]) {
				return Match{Kind: RangeGuard, Bounds: bounds}, true
			}
		}
	case 2:
		top, ok := cond.(*syntax.Binary)
		if !ok || top.Left != syntax.Expr(found[0]) || top.Right != syntax.Expr(found[1]) {
			return Match{}, false
		}
		switch top.Op {
		case syntax.OpAnd:
			return Match{Kind: RangeGuard, Bounds: bounds, Combinator: And}, true
		case syntax.OpOr:
			return Match{Kind: RangeGuard, Bounds: bounds, Combinator: Or}, true
		}
	}
	return Match{}, false
}

// disjuncts flattens a chain of || into its operands. A condition without
// a top-level || is its own single disjunct.
func disjuncts(e syntax.Expr) []syntax.Expr {
	b, ok := e.(*syntax.Binary)
	if !ok || b.Op != syntax.OpOr {
		return []syntax.Expr{e}
	}
	return append(disjuncts(b.Left), disjuncts(b.Right)...)
}

func isReferenceParam(c *syntax.Callable, name string) bool {
	i := c.ParamIndex(name)
	return i >= 0 && c.Params[i].Category == syntax.Reference
}
