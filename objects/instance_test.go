package objects

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestInstanceGetattrHook(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	c := r.NewType("C", nil, map[string]Value{
		"__getattr__": fn(r, "__getattr__", func(ctx context.Context, args []Value, keywords []string) (Value, error) {
			name := str(args[1])
			if name == "missing" {
				return nil, newError(AttributeMissing, "no %s", name)
			}
			return r.Str(name + "!"), nil
		}),
	})
	inst, err := Call(ctx, c, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, err := GetAttr(ctx, inst, "foo")
	if err != nil {
		t.Fatal(err)
	}
	if str(v) != "foo!" {
		t.Fatalf("got %v", Repr(v))
	}
	// own attributes come first
	if err := SetAttr(ctx, inst, "foo", r.Int(1)); err != nil {
		t.Fatal(err)
	}
	v, err = GetAttr(ctx, inst, "foo")
	if err != nil {
		t.Fatal(err)
	}
	if v.(*Int).V != 1 {
		t.Fatalf("got %v", Repr(v))
	}
	ok, err := HasAttr(ctx, inst, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal()
	}
	if _, err := GetAttr(ctx, inst, "missing"); !errors.Is(err, ErrAttributeMissing) {
		t.Fatalf("got %v", err)
	}
}

func TestInstanceSetattrDelattrHooks(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	var set, deleted []string
	c := r.NewType("C", nil, map[string]Value{
		"__setattr__": fn(r, "__setattr__", func(ctx context.Context, args []Value, keywords []string) (Value, error) {
			set = append(set, str(args[1]))
			return nil, nil
		}),
		"__delattr__": fn(r, "__delattr__", func(ctx context.Context, args []Value, keywords []string) (Value, error) {
			deleted = append(deleted, str(args[1]))
			return nil, nil
		}),
	})
	inst, err := Call(ctx, c, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := SetAttr(ctx, inst, "a", r.Int(1)); err != nil {
		t.Fatal(err)
	}
	if err := DelAttr(ctx, inst, "b"); err != nil {
		t.Fatal(err)
	}
	if len(set) != 1 || set[0] != "a" || len(deleted) != 1 || deleted[0] != "b" {
		t.Fatalf("got %v %v", set, deleted)
	}
	if inst.(*Instance).Dict().Len() != 0 {
		t.Fatal()
	}
}

func TestInstanceDict(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	a := r.NewType("A", nil, nil)
	b := r.NewType("B", nil, map[string]Value{
		"tag": r.Str("b"),
	})
	inst, err := Call(ctx, a, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := SetAttr(ctx, inst, "x", r.Int(1)); err != nil {
		t.Fatal(err)
	}
	d, err := GetAttr(ctx, inst, "__dict__")
	if err != nil {
		t.Fatal(err)
	}
	if Repr(d) != `{"x": 1}` {
		t.Fatalf("got %v", Repr(d))
	}
	if err := DelAttr(ctx, inst, "x"); err != nil {
		t.Fatal(err)
	}
	if err := DelAttr(ctx, inst, "x"); !errors.Is(err, ErrAttributeMissing) {
		t.Fatalf("got %v", err)
	}

	if err := SetAttr(ctx, inst, "__class__", b); err != nil {
		t.Fatal(err)
	}
	tag, err := GetAttr(ctx, inst, "tag")
	if err != nil {
		t.Fatal(err)
	}
	if str(tag) != "b" {
		t.Fatalf("got %v", Repr(tag))
	}
	if err := SetAttr(ctx, inst, "__class__", r.Int(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("got %v", err)
	}
}

func TestInstanceToHostHook(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	c := r.NewType("Num", nil, map[string]Value{
		"__tohost__": fn(r, "__tohost__", func(ctx context.Context, args []Value, keywords []string) (Value, error) {
			target := args[1].(*NativeClass)
			if target.HostType() == reflect.TypeFor[int64]() {
				return r.Int(5), nil
			}
			return r.None(), nil
		}),
	})
	inst, err := Call(ctx, c, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	n, err := As[int64](ctx, inst)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("got %v", n)
	}
	if _, err := As[string](ctx, inst); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("got %v", err)
	}
	// any still takes the instance itself
	v, err := As[any](ctx, inst)
	if err != nil {
		t.Fatal(err)
	}
	if v != any(inst) {
		t.Fatal()
	}

	// the instance selects an overload through the hook
	g := r.NewOverloadGroup("f",
		mustSig(t, "f", func(s string) string { return "string" }, nil, true),
		mustSig(t, "f", func(n int64) string { return "int64" }, nil, true),
	)
	ret, err := g.Call(ctx, []Value{inst}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if str(ret) != "int64" {
		t.Fatalf("got %v", Repr(ret))
	}
}

func TestInstanceCallable(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	c := r.NewType("Doubler", nil, map[string]Value{
		"__call__": fn(r, "__call__", func(ctx context.Context, args []Value, keywords []string) (Value, error) {
			return ApplyBinary(ctx, OpMul, args[1], r.Int(2))
		}),
	})
	inst, err := Call(ctx, c, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	ret, err := Call(ctx, inst, []Value{r.Int(4)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ret.(*Int).V != 8 {
		t.Fatalf("got %v", Repr(ret))
	}

	double, err := As[func(int) int](ctx, inst)
	if err != nil {
		t.Fatal(err)
	}
	if got := double(21); got != 42 {
		t.Fatalf("got %v", got)
	}

	plain, err := Call(ctx, r.NewType("Plain", nil, nil), nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Call(ctx, plain, nil, nil); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("got %v", err)
	}
}
