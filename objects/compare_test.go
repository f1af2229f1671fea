package objects

import (
	"context"
	"testing"
)

func TestCompareBuiltins(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	cases := []struct {
		a, b Value
		want int
	}{
		{r.Int(1), r.Int(2), -1},
		{r.Int(2), r.Float(1.5), 1},
		{r.Float(2), r.Int(2), 0},
		{r.Str("b"), r.Str("a"), 1},
		{r.None(), r.Int(0), -1},
		{r.Int(0), r.None(), 1},
		{r.Bool(false), r.Bool(true), -1},
	}
	for i, c := range cases {
		got, err := Compare(ctx, c.a, c.b)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Fatalf("%d: got %v", i, got)
		}
	}
}

func TestCompareFallbackStable(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	typ := r.NewType("T", nil, nil)
	a, err := typ.Call(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := typ.Call(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	x, err := Compare(ctx, a, b)
	if err != nil {
		t.Fatal(err)
	}
	y, err := Compare(ctx, b, a)
	if err != nil {
		t.Fatal(err)
	}
	if x != -1 || y != 1 {
		t.Fatalf("got %v %v", x, y)
	}
	if c, _ := Compare(ctx, a, a); c != 0 {
		t.Fatal()
	}
}

func TestCompareCmpHook(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	typ := r.NewType("Version", nil, map[string]Value{
		"__cmp__": fn(r, "__cmp__", func(ctx context.Context, args []Value, keywords []string) (Value, error) {
			return r.Int(-5), nil
		}),
	})
	a, err := typ.Call(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	c, err := Compare(ctx, a, r.Int(1))
	if err != nil {
		t.Fatal(err)
	}
	if c != -1 {
		t.Fatalf("got %v", c)
	}
	// reflected through the right operand
	c, err = Compare(ctx, r.Int(1), a)
	if err != nil {
		t.Fatal(err)
	}
	if c != 1 {
		t.Fatalf("got %v", c)
	}
}

func TestRichCompare(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	ret, err := RichCompare(ctx, CmpLt, r.Int(1), r.Float(1.5))
	if err != nil {
		t.Fatal(err)
	}
	if !ret.(*Bool).V {
		t.Fatal()
	}
	ret, err = RichCompare(ctx, CmpNe, r.Str("a"), r.Str("a"))
	if err != nil {
		t.Fatal(err)
	}
	if ret.(*Bool).V {
		t.Fatal()
	}

	typ := r.NewType("Any", nil, map[string]Value{
		"__eq__": fn(r, "__eq__", func(ctx context.Context, args []Value, keywords []string) (Value, error) {
			return r.Str("eq"), nil
		}),
	})
	a, err := typ.Call(ctx, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ret, err = RichCompare(ctx, CmpEq, r.Int(1), a)
	if err != nil {
		t.Fatal(err)
	}
	if str(ret) != "eq" {
		t.Fatalf("got %v", Repr(ret))
	}
}

type boxed struct {
	V any
}

func TestCompareHostValuesWithUncomparableFields(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	a, err := r.FromHost(boxed{V: []int{1}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.FromHost(boxed{V: []int{1}})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.(*HostObject); !ok {
		t.Fatalf("got %T", a)
	}
	x, err := Compare(ctx, a, b)
	if err != nil {
		t.Fatal(err)
	}
	y, err := Compare(ctx, b, a)
	if err != nil {
		t.Fatal(err)
	}
	// falls back to allocation order
	if x == 0 || x != -y {
		t.Fatalf("got %v %v", x, y)
	}

	c, err := r.FromHost(boxed{V: 1})
	if err != nil {
		t.Fatal(err)
	}
	d, err := r.FromHost(boxed{V: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got, err := Compare(ctx, c, d); err != nil || got != 0 {
		t.Fatalf("got %v %v", got, err)
	}
	if got, err := Compare(ctx, a, c); err != nil || got == 0 {
		t.Fatalf("got %v %v", got, err)
	}
}
