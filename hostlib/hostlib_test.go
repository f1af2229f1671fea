package hostlib

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/reusee/hostobj/objects"
)

func newRegistry(t *testing.T) *objects.Registry {
	t.Helper()
	config := objects.DefaultConfig()
	config.Strict = true
	r := objects.NewRegistry(nil, config, Resolver())
	if err := Register(r); err != nil {
		t.Fatal(err)
	}
	return r
}

func importClass(t *testing.T, r *objects.Registry, path string) objects.Value {
	t.Helper()
	v, err := r.Import(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestTextBuilder(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()
	class := importClass(t, r, "hostlib.TextBuilder")
	b, err := objects.Call(ctx, class, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, arg := range []objects.Value{
		r.Int(1),
		r.Float(1.5),
		r.Str("x"),
		r.Bool(true),
	} {
		if _, err := objects.CallMethod(ctx, b, "add", arg); err != nil {
			t.Fatal(err)
		}
	}
	printed, err := objects.CallMethod(ctx, b, "print")
	if err != nil {
		t.Fatal(err)
	}
	if s := printed.(*objects.Str).V; s != "1 1.5 x true" {
		t.Fatalf("got %v", s)
	}
	if _, err := objects.CallMethod(ctx, b, "add", r.None()); !errors.Is(err, objects.ErrArgumentTypeMismatch) {
		t.Fatalf("got %v", err)
	}

	n, err := objects.Len(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Fatalf("got %v", n)
	}

	join, err := objects.GetAttr(ctx, class, "join")
	if err != nil {
		t.Fatal(err)
	}
	joined, err := objects.Call(ctx, join, []objects.Value{r.Str("-"), r.Str("a"), r.Str("b")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s := joined.(*objects.Str).V; s != "a-b" {
		t.Fatalf("got %v", s)
	}
}

func TestShapes(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()
	square, err := objects.Call(ctx, importClass(t, r, "hostlib.Square"), []objects.Value{r.Str("a"), r.Int(2)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	circle, err := objects.Call(ctx, importClass(t, r, "hostlib.Circle"), []objects.Value{r.Str("b"), r.Float(1)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	area, err := objects.CallMethod(ctx, square, "area")
	if err != nil {
		t.Fatal(err)
	}
	if v := area.(*objects.Float).V; v != 4 {
		t.Fatalf("got %v", v)
	}
	desc, err := objects.CallMethod(ctx, square, "describe")
	if err != nil {
		t.Fatal(err)
	}
	if s := desc.(*objects.Str).V; s != "square a 2" {
		t.Fatalf("got %v", s)
	}
	name, err := objects.GetAttr(ctx, circle, "name")
	if err != nil {
		t.Fatal(err)
	}
	if s := name.(*objects.Str).V; s != "b" {
		t.Fatalf("got %v", s)
	}

	total, err := objects.GetAttr(ctx, importClass(t, r, "hostlib.Area"), "total")
	if err != nil {
		t.Fatal(err)
	}
	sum, err := objects.Call(ctx, total, []objects.Value{square, circle}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v := sum.(*objects.Float).V; math.Abs(v-(4+math.Pi)) > 1e-9 {
		t.Fatalf("got %v", v)
	}
}

func TestCounter(t *testing.T) {
	r := newRegistry(t)
	ctx := context.Background()
	class := importClass(t, r, "hostlib.Counter")

	c, err := objects.Call(ctx, class, []objects.Value{r.Int(5)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	n, err := objects.CallMethod(ctx, c, "incr")
	if err != nil {
		t.Fatal(err)
	}
	if v := n.(*objects.Int).V; v != 6 {
		t.Fatalf("got %v", v)
	}

	if err := objects.SetAttr(ctx, class, "defaultStep", r.Int(3)); err != nil {
		t.Fatal(err)
	}
	defer func() {
		DefaultStep = 1
	}()
	n, err = objects.CallMethod(ctx, c, "incr")
	if err != nil {
		t.Fatal(err)
	}
	if v := n.(*objects.Int).V; v != 9 {
		t.Fatalf("got %v", v)
	}

	// guest subclass replaces step
	sub, err := r.NewScriptClass("Tens", "test", []objects.Class{class.(objects.Class)}, map[string]objects.Value{
		"step": r.NewFunction("step", func(ctx context.Context, args []objects.Value, keywords []string) (objects.Value, error) {
			return r.Int(10), nil
		}),
	})
	if err != nil {
		t.Fatal(err)
	}
	inst, err := objects.Call(ctx, sub, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	n, err = objects.CallMethod(ctx, inst, "incr")
	if err != nil {
		t.Fatal(err)
	}
	if v := n.(*objects.Int).V; v != 10 {
		t.Fatalf("got %v", v)
	}
	counter, err := objects.As[*Counter](ctx, inst)
	if err != nil {
		t.Fatal(err)
	}
	if counter.Count != 10 {
		t.Fatalf("got %v", counter.Count)
	}
}
