package guard

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"github.com/phobologic/guardgen/internal/syntax"
)

func TestAssembleScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    *syntax.Callable
		want []BuildConfig
	}{
		{
			// f(String s) { Objects.requireNonNull(s); }
			"require non null",
			callable([]syntax.Param{refParam("s")}, requireNonNull(name("s"))),
			[]BuildConfig{{ParamIndex: 0, Param: "s", FailureKind: "NullPointerException", Value: Null}},
		},
		{
			// f(int x) { if (x < 10) throw new IllegalArgumentException(); }
			"single bound",
			callable([]syntax.Param{intParam("x")}, guardIf(bin(name("x"), syntax.OpLess, intLit("10")))),
			[]BuildConfig{{ParamIndex: 0, Param: "x", FailureKind: "IllegalArgumentException", Value: Int(9)}},
		},
		{
			// if (x < 0 || x > 100) throw ...
			"or range",
			callable([]syntax.Param{intParam("x")}, guardIf(bin(
				bin(name("x"), syntax.OpLess, intLit("0")),
				syntax.OpOr,
				bin(name("x"), syntax.OpGreater, intLit("100")),
			))),
			[]BuildConfig{
				{ParamIndex: 0, Param: "x", FailureKind: "IllegalArgumentException", Value: Int(-1)},
				{ParamIndex: 0, Param: "x", FailureKind: "IllegalArgumentException", Value: Int(101)},
			},
		},
		{
			// if (x > 0 && x < 10) throw ...
			"and range",
			callable([]syntax.Param{intParam("x")}, guardIf(bin(
				bin(name("x"), syntax.OpGreater, intLit("0")),
				syntax.OpAnd,
				bin(name("x"), syntax.OpLess, intLit("10")),
			))),
			[]BuildConfig{{ParamIndex: 0, Param: "x", FailureKind: "IllegalArgumentException", Value: Int(5)}},
		},
		{
			"unguarded",
			callable([]syntax.Param{refParam("s"), intParam("x")}, &syntax.Opaque{Kind: "return_statement"}),
			nil,
		},
	}
	a := NewAssembler(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := a.Assemble(tt.c)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Assemble mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAssembleOrdersByParameter(t *testing.T) {
	t.Parallel()

	// f(String a, int n, String b, long m)
	c := callable(
		[]syntax.Param{refParam("a"), intParam("n"), refParam("b"), {Name: "m", Type: "long", Category: syntax.Primitive}},
		guardIf(bin(name("m"), syntax.OpGreaterEqual, longLit("100L"))),
		requireNonNull(name("b")),
		guardIf(bin(name("b"), syntax.OpEqual, nullLit())),
		guardIf(bin(intLit("0"), syntax.OpGreater, name("n"))),
		requireNonNull(name("a")),
	)

	got := NewAssembler(Options{Logger: zaptest.NewLogger(t)}).Assemble(c)
	want := []BuildConfig{
		{ParamIndex: 0, Param: "a", FailureKind: "NullPointerException", Value: Null},
		{ParamIndex: 1, Param: "n", FailureKind: "IllegalArgumentException", Value: Int(-1)},
		{ParamIndex: 2, Param: "b", FailureKind: "NullPointerException", Value: Null},
		{ParamIndex: 2, Param: "b", FailureKind: "IllegalArgumentException", Value: Null},
		{ParamIndex: 3, Param: "m", FailureKind: "IllegalArgumentException", Value: Long(100)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Assemble mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleDeduplicates(t *testing.T) {
	t.Parallel()

	c := callable([]syntax.Param{refParam("s")},
		requireNonNull(name("s")),
		requireNonNull(name("s")),
	)
	got := NewAssembler(Options{}).Assemble(c)
	if len(got) != 1 {
		t.Errorf("got %d configs, want 1: %+v", len(got), got)
	}
}

func TestAssembleSkipsUnsatisfiable(t *testing.T) {
	t.Parallel()

	// if (x > 0 && x < 1) throw ... has no integer solution.
	c := callable([]syntax.Param{intParam("x")}, guardIf(bin(
		bin(name("x"), syntax.OpGreater, intLit("0")),
		syntax.OpAnd,
		bin(name("x"), syntax.OpLess, intLit("1")),
	)))
	if got := NewAssembler(Options{Logger: zaptest.NewLogger(t)}).Assemble(c); len(got) != 0 {
		t.Errorf("got %+v, want none", got)
	}
}

func TestAssembleCustomFailureKinds(t *testing.T) {
	t.Parallel()

	c := callable([]syntax.Param{refParam("s"), intParam("n")},
		requireNonNull(name("s")),
		&syntax.If{
			Cond: bin(name("n"), syntax.OpLessEqual, neg(intLit("1"))),
			Then: throwNew("com.example.InvalidArgument"),
		},
	)
	opts := Options{
		ArgumentExceptions: []string{"InvalidArgument"},
		NullFailure:        "NullArgument",
	}
	got := NewAssembler(opts).Assemble(c)
	want := []BuildConfig{
		{ParamIndex: 0, Param: "s", FailureKind: "NullArgument", Value: Null},
		{ParamIndex: 1, Param: "n", FailureKind: "InvalidArgument", Value: Int(-1)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Assemble mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleConcurrentUse(t *testing.T) {
	t.Parallel()

	c := callable([]syntax.Param{intParam("x")}, guardIf(bin(
		bin(name("x"), syntax.OpLess, intLit("0")),
		syntax.OpOr,
		bin(name("x"), syntax.OpGreater, intLit("100")),
	)))
	a := NewAssembler(Options{})

	var wg sync.WaitGroup
	results := make([][]BuildConfig, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = a.Assemble(c)
		}()
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if diff := cmp.Diff(results[0], results[i]); diff != "" {
			t.Errorf("result %d differs:\n%s", i, diff)
		}
	}
}
