package layered_test

import (
	"context"
	"errors"
	"testing"

	"github.com/xraph/layered"
)

// doc is the guarded fixture type for dispatch tests.
type doc struct {
	layered.State
	trace []string
}

type docMethod = layered.Method[*doc, string, string]
type docNext = layered.Next[*doc, string, string]

// newRenderMethod builds a fresh registry with a "render" operation
// whose base and overrides record their execution in d.trace.
// Overrides are bound for each given layer and proceed by default.
func newRenderMethod(layers ...layered.LayerID) (*layered.Registry, *docMethod) {
	reg := layered.NewRegistry("Doc")
	m := layered.NewMethod(reg, "render",
		func(_ context.Context, d *doc, arg string, _ *docNext) (string, error) {
			d.trace = append(d.trace, "base")
			return "base(" + arg + ")", nil
		})
	for _, l := range layers {
		m.Override(l, proceedingOverride(l))
	}
	return reg, m
}

func proceedingOverride(l layered.LayerID) layered.Advice[*doc, string, string] {
	return func(ctx context.Context, d *doc, arg string, next *docNext) (string, error) {
		d.trace = append(d.trace, string(l))
		return next.Proceed(ctx, arg)
	}
}

func assertTrace(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected trace %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected trace %v, got %v", want, got)
		}
	}
}

func TestCall_BaseOnly(t *testing.T) {
	_, render := newRenderMethod()
	d := &doc{}

	out, err := render.Call(context.Background(), d, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "base(x)" {
		t.Errorf("out = %q, want %q", out, "base(x)")
	}
	assertTrace(t, d.trace, []string{"base"})
}

func TestCall_ActiveLayerWithoutOverride(t *testing.T) {
	_, render := newRenderMethod("l1")
	d := &doc{}
	d.Activate("unrelated")

	out, err := render.Call(context.Background(), d, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "base(x)" {
		t.Errorf("out = %q, want %q", out, "base(x)")
	}
	assertTrace(t, d.trace, []string{"base"})
}

func TestCall_OverrideProceedsToBase(t *testing.T) {
	_, render := newRenderMethod("l1")
	d := &doc{}
	d.Activate("l1")

	out, err := render.Call(context.Background(), d, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "base(x)" {
		t.Errorf("out = %q, want %q", out, "base(x)")
	}
	assertTrace(t, d.trace, []string{"l1", "base"})
}

func TestCall_ShortCircuit(t *testing.T) {
	_, render := newRenderMethod("l2")
	d := &doc{}

	render.Override("veto",
		func(_ context.Context, d *doc, arg string, _ *docNext) (string, error) {
			d.trace = append(d.trace, "veto")
			return "vetoed", nil
		})

	d.Activate("veto")
	d.Activate("l2")

	out, err := render.Call(context.Background(), d, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "vetoed" {
		t.Errorf("out = %q, want %q", out, "vetoed")
	}
	// Nothing after the non-proceeding override runs: not l2, not base.
	assertTrace(t, d.trace, []string{"veto"})
}

func TestCall_DeclaredOrderWins(t *testing.T) {
	permutations := [][]layered.LayerID{
		{"l1", "l2", "l3"},
		{"l1", "l3", "l2"},
		{"l2", "l1", "l3"},
		{"l2", "l3", "l1"},
		{"l3", "l1", "l2"},
		{"l3", "l2", "l1"},
	}

	for _, activation := range permutations {
		reg := layered.NewRegistry("Doc")
		reg.MustDeclareLayers("l1", "l2", "l3")
		render := layered.NewMethod(reg, "render",
			func(_ context.Context, d *doc, arg string, _ *docNext) (string, error) {
				d.trace = append(d.trace, "base")
				return arg, nil
			})
		for _, l := range []layered.LayerID{"l1", "l2", "l3"} {
			render.Override(l, proceedingOverride(l))
		}

		d := &doc{}
		for _, l := range activation {
			d.Activate(l)
		}

		if _, err := render.Call(context.Background(), d, "x"); err != nil {
			t.Fatalf("activation %v: unexpected error: %v", activation, err)
		}
		assertTrace(t, d.trace, []string{"l1", "l2", "l3", "base"})
	}
}

func TestCall_ActivationOrderFallback(t *testing.T) {
	// No explicit declarations: layers are created lazily by Override
	// and the chain follows the instance's activation order.
	_, render := newRenderMethod("l1", "l2")
	d := &doc{}
	d.Activate("l2")
	d.Activate("l1")

	if _, err := render.Call(context.Background(), d, "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertTrace(t, d.trace, []string{"l2", "l1", "base"})
}

func TestCall_RebuildAfterActivationChange(t *testing.T) {
	_, render := newRenderMethod("l1")
	d := &doc{}
	ctx := context.Background()

	d.Activate("l1")
	_, _ = render.Call(ctx, d, "x")
	assertTrace(t, d.trace, []string{"l1", "base"})

	d.trace = nil
	d.Deactivate("l1")
	_, _ = render.Call(ctx, d, "x")
	assertTrace(t, d.trace, []string{"base"})

	d.trace = nil
	d.Activate("l1")
	_, _ = render.Call(ctx, d, "x")
	assertTrace(t, d.trace, []string{"l1", "base"})
}

func TestCall_ErrorPropagatesUnmodified(t *testing.T) {
	reg := layered.NewRegistry("Doc")
	want := errors.New("render failed")
	render := layered.NewMethod(reg, "render",
		func(_ context.Context, _ *doc, _ string, _ *docNext) (string, error) {
			return "", want
		})
	render.Override("l1", proceedingOverride("l1"))

	d := &doc{}
	d.Activate("l1")

	_, err := render.Call(context.Background(), d, "x")
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}

	// A subsequent unrelated call is unaffected.
	d.trace = nil
	if _, err := render.Call(context.Background(), d, "y"); !errors.Is(err, want) {
		t.Fatalf("expected %v on second call, got %v", want, err)
	}
	assertTrace(t, d.trace, []string{"l1"})
}

func TestCall_ProceedPastEnd(t *testing.T) {
	reg := layered.NewRegistry("Doc")
	render := layered.NewMethod(reg, "render",
		func(ctx context.Context, _ *doc, arg string, next *docNext) (string, error) {
			// The base implementation is the last chain element;
			// proceeding from it is a usage error.
			return next.Proceed(ctx, arg)
		})

	_, err := render.Call(context.Background(), &doc{}, "x")
	if !errors.Is(err, layered.ErrChainExhausted) {
		t.Fatalf("expected ErrChainExhausted, got %v", err)
	}
}

func TestCall_ReentrantProceed(t *testing.T) {
	type flags struct {
		layered.State
		baseCalled bool
		l1Called   bool
		order      []string
	}

	newGuarded := func(proceed bool) (*layered.Method[*flags, struct{}, struct{}], *flags) {
		reg := layered.NewRegistry("Flags")
		m := layered.NewMethod(reg, "test",
			func(_ context.Context, f *flags, _ struct{}, _ *layered.Next[*flags, struct{}, struct{}]) (struct{}, error) {
				f.baseCalled = true
				f.order = append(f.order, "base")
				return struct{}{}, nil
			})
		m.Override("l1",
			func(ctx context.Context, f *flags, args struct{}, next *layered.Next[*flags, struct{}, struct{}]) (struct{}, error) {
				f.l1Called = true
				f.order = append(f.order, "l1")
				if proceed {
					return next.Proceed(ctx, args)
				}
				return struct{}{}, nil
			})
		f := &flags{}
		f.Activate("l1")
		return m, f
	}

	m, f := newGuarded(true)
	if _, err := m.Call(context.Background(), f, struct{}{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.l1Called || !f.baseCalled {
		t.Fatalf("l1Called=%v baseCalled=%v, want both true", f.l1Called, f.baseCalled)
	}
	if f.order[0] != "l1" || f.order[1] != "base" {
		t.Fatalf("order = %v, want [l1 base]", f.order)
	}

	m, f = newGuarded(false)
	if _, err := m.Call(context.Background(), f, struct{}{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.l1Called || f.baseCalled {
		t.Fatalf("l1Called=%v baseCalled=%v, want true/false", f.l1Called, f.baseCalled)
	}
}

func TestCall_RecursiveInvocation(t *testing.T) {
	// An override re-enters the guarded method while the outer call is
	// suspended inside it. Each invocation runs on an independent
	// execution state, so both chains complete in full.
	type counter struct {
		layered.State
		overrideRuns int
		baseRuns     int
	}

	reg := layered.NewRegistry("Counter")
	var tick *layered.Method[*counter, int, int]
	tick = layered.NewMethod(reg, "tick",
		func(_ context.Context, c *counter, depth int, _ *layered.Next[*counter, int, int]) (int, error) {
			c.baseRuns++
			return depth, nil
		})
	tick.Override("recurse",
		func(ctx context.Context, c *counter, depth int, next *layered.Next[*counter, int, int]) (int, error) {
			c.overrideRuns++
			if depth > 0 {
				if _, err := tick.Call(ctx, c, depth-1); err != nil {
					return 0, err
				}
			}
			return next.Proceed(ctx, depth)
		})

	c := &counter{}
	c.Activate("recurse")

	out, err := tick.Call(context.Background(), c, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != 2 {
		t.Errorf("out = %d, want 2", out)
	}
	if c.overrideRuns != 3 || c.baseRuns != 3 {
		t.Errorf("overrideRuns=%d baseRuns=%d, want 3/3", c.overrideRuns, c.baseRuns)
	}
}

func TestOverride_LastWriteWins(t *testing.T) {
	_, render := newRenderMethod()
	render.Override("l1",
		func(_ context.Context, _ *doc, _ string, _ *docNext) (string, error) {
			return "first", nil
		})
	render.Override("l1",
		func(_ context.Context, _ *doc, _ string, _ *docNext) (string, error) {
			return "second", nil
		})

	d := &doc{}
	d.Activate("l1")
	out, err := render.Call(context.Background(), d, "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "second" {
		t.Errorf("out = %q, want %q", out, "second")
	}
}

func TestRegistryIsolation(t *testing.T) {
	// Two independently defined types declaring the same layer
	// identifier never observe each other's overrides.
	regA, renderA := newRenderMethod()
	regB := layered.NewRegistry("Other")
	renderB := layered.NewMethod(regB, "render",
		func(_ context.Context, d *doc, _ string, _ *docNext) (string, error) {
			return "other-base", nil
		})

	renderA.Override("shared",
		func(_ context.Context, _ *doc, _ string, _ *docNext) (string, error) {
			return "a-override", nil
		})
	renderB.Override("shared",
		func(_ context.Context, _ *doc, _ string, _ *docNext) (string, error) {
			return "b-override", nil
		})

	if regA.TypeName() == regB.TypeName() {
		t.Fatal("fixture registries must be distinct types")
	}

	a, b := &doc{}, &doc{}
	a.Activate("shared")
	b.Activate("shared")

	outA, _ := renderA.Call(context.Background(), a, "x")
	outB, _ := renderB.Call(context.Background(), b, "x")
	if outA != "a-override" {
		t.Errorf("outA = %q, want %q", outA, "a-override")
	}
	if outB != "b-override" {
		t.Errorf("outB = %q, want %q", outB, "b-override")
	}
}

func TestNewMethod_DuplicateNamePanics(t *testing.T) {
	reg, _ := newRenderMethod()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for duplicate method name")
		}
	}()
	layered.NewMethod(reg, "render",
		func(_ context.Context, _ *doc, _ string, _ *docNext) (string, error) {
			return "", nil
		})
}

func TestOverride_BaseLayerPanics(t *testing.T) {
	_, render := newRenderMethod()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for base-layer override")
		}
	}()
	render.Override(layered.Base,
		func(_ context.Context, _ *doc, _ string, _ *docNext) (string, error) {
			return "", nil
		})
}
