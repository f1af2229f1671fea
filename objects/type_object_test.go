package objects

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestTypeObjectMRO(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	a := r.NewType("A", nil, map[string]Value{
		"x": r.Int(1),
		"y": r.Int(1),
	})
	b := r.NewType("B", a, map[string]Value{
		"y": r.Int(2),
	})
	object, _ := r.Builtin("object")
	mro := b.MRO()
	if len(mro) != 3 || mro[0] != Class(b) || mro[1] != Class(a) || mro[2] != Class(object) {
		t.Fatalf("got %v", mro)
	}
	v, err := GetAttr(ctx, b, "__mro__")
	if err != nil {
		t.Fatal(err)
	}
	if v.(*List).Len() != 3 {
		t.Fatalf("got %v", Repr(v))
	}

	inst, err := Call(ctx, b, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	x, err := GetAttr(ctx, inst, "x")
	if err != nil {
		t.Fatal(err)
	}
	y, err := GetAttr(ctx, inst, "y")
	if err != nil {
		t.Fatal(err)
	}
	if x.(*Int).V != 1 || y.(*Int).V != 2 {
		t.Fatalf("got %v %v", Repr(x), Repr(y))
	}
	if !IsSubclass(b, a) || IsSubclass(a, b) {
		t.Fatal()
	}
}

func TestTypeObjectMetatype(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	var setValue Value
	descr := r.NewType("Descr", nil, map[string]Value{
		"__get__": fn(r, "__get__", func(ctx context.Context, args []Value, keywords []string) (Value, error) {
			return r.Str("from meta"), nil
		}),
		"__set__": fn(r, "__set__", func(ctx context.Context, args []Value, keywords []string) (Value, error) {
			setValue = args[2]
			return nil, nil
		}),
	})
	d, err := Call(ctx, descr, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	typ, _ := r.Builtin("type")
	meta := r.NewType("Meta", typ, map[string]Value{
		"x": d,
		"y": r.Int(7),
		"z": r.Int(9),
	})
	c := r.NewType("C", nil, map[string]Value{
		"x": r.Int(1),
		"y": r.Int(8),
	}, WithMetatype(meta), WithModule("m"))
	if c.Class() != Class(meta) {
		t.Fatal()
	}

	// data descriptor of the metatype
	x, err := GetAttr(ctx, c, "x")
	if err != nil {
		t.Fatal(err)
	}
	if str(x) != "from meta" {
		t.Fatalf("got %v", Repr(x))
	}
	// own attribute before plain metatype attribute
	y, err := GetAttr(ctx, c, "y")
	if err != nil {
		t.Fatal(err)
	}
	if y.(*Int).V != 8 {
		t.Fatalf("got %v", Repr(y))
	}
	z, err := GetAttr(ctx, c, "z")
	if err != nil {
		t.Fatal(err)
	}
	if z.(*Int).V != 9 {
		t.Fatalf("got %v", Repr(z))
	}

	if err := SetAttr(ctx, c, "x", r.Int(42)); err != nil {
		t.Fatal(err)
	}
	if setValue == nil || setValue.(*Int).V != 42 {
		t.Fatalf("got %v", setValue)
	}
	mod, err := GetAttr(ctx, c, "__module__")
	if err != nil {
		t.Fatal(err)
	}
	if str(mod) != "m" {
		t.Fatalf("got %v", Repr(mod))
	}
}

func TestTypeObjectInstanceDescriptor(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	var gotInstance Value
	descr := r.NewType("Descr", nil, map[string]Value{
		"__get__": fn(r, "__get__", func(ctx context.Context, args []Value, keywords []string) (Value, error) {
			gotInstance = args[1]
			return r.Int(100), nil
		}),
		"__set__": fn(r, "__set__", func(ctx context.Context, args []Value, keywords []string) (Value, error) {
			return nil, nil
		}),
	})
	d, err := Call(ctx, descr, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	c := r.NewType("C", nil, map[string]Value{
		"attr": d,
	})
	inst, err := Call(ctx, c, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	// data descriptors win over the instance namespace
	inst.(*Instance).Dict().Set("attr", r.Int(1))
	v, err := GetAttr(ctx, inst, "attr")
	if err != nil {
		t.Fatal(err)
	}
	if v.(*Int).V != 100 || gotInstance != inst {
		t.Fatalf("got %v", Repr(v))
	}
}

func TestBuiltinTypes(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	intType, ok := r.Builtin("int")
	if !ok {
		t.Fatal()
	}
	if r.Int(1).Class() != Class(intType) {
		t.Fatal()
	}
	if err := SetAttr(ctx, intType, "foo", r.Int(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("got %v", err)
	}
	if err := DelAttr(ctx, intType, "foo"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("got %v", err)
	}
	if _, err := Call(ctx, intType, nil, nil); !errors.Is(err, ErrUninstantiable) {
		t.Fatalf("got %v", err)
	}
	if intType.Class() != Class(r.builtins.type_) || r.builtins.type_.Class() != Class(r.builtins.type_) {
		t.Fatal("bad metatype")
	}

	listType, _ := r.Builtin("list")
	l, err := Call(ctx, listType, []Value{r.NewList(r.Int(1), r.Int(2))}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if Repr(l) != "[1, 2]" {
		t.Fatalf("got %v", Repr(l))
	}
	dictType, _ := r.Builtin("dict")
	d, err := Call(ctx, dictType, []Value{r.Int(1)}, []string{"a"})
	if err != nil {
		t.Fatal(err)
	}
	if Repr(d) != `{"a": 1}` {
		t.Fatalf("got %v", Repr(d))
	}
	if _, ok := r.Builtin("nope"); ok {
		t.Fatal()
	}
}

func TestTypeObjectInit(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	c := r.NewType("C", nil, map[string]Value{
		"__init__": fn(r, "__init__", func(ctx context.Context, args []Value, keywords []string) (Value, error) {
			return nil, SetAttr(ctx, args[0], "v", args[1])
		}),
	})
	inst, err := Call(ctx, c, []Value{r.Int(3)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	v, err := GetAttr(ctx, inst, "v")
	if err != nil {
		t.Fatal(err)
	}
	if v.(*Int).V != 3 {
		t.Fatalf("got %v", Repr(v))
	}

	bad := r.NewType("Bad", nil, map[string]Value{
		"__init__": fn(r, "__init__", func(ctx context.Context, args []Value, keywords []string) (Value, error) {
			return r.Int(1), nil
		}),
	})
	if _, err := Call(ctx, bad, nil, nil); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("got %v", err)
	}
}

func TestHostTypeObject(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	tp, err := r.TypeObject(reflect.TypeFor[*Point]())
	if err != nil {
		t.Fatal(err)
	}
	if tp.HostType() != reflect.TypeFor[*Point]() {
		t.Fatal()
	}
	p, err := Call(ctx, tp, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Class() != Class(tp) {
		t.Fatalf("got %v", p.Class())
	}
	if err := SetAttr(ctx, p, "x", r.Int(2)); err != nil {
		t.Fatal(err)
	}
	sum, err := CallMethod(ctx, p, "sum")
	if err != nil {
		t.Fatal(err)
	}
	if sum.(*Int).V != 2 {
		t.Fatalf("got %v", Repr(sum))
	}

	// guest subtype gets a proxy
	sub := r.NewType("Sub", tp, map[string]Value{
		"double": fn(r, "double", func(ctx context.Context, args []Value, keywords []string) (Value, error) {
			s, err := CallMethod(ctx, args[0], "sum")
			if err != nil {
				return nil, err
			}
			return ApplyBinary(ctx, OpMul, s, r.Int(2))
		}),
	})
	v, err := Call(ctx, sub, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	inst, ok := v.(*Instance)
	if !ok {
		t.Fatalf("got %T", v)
	}
	if !inst.HasProxy() {
		t.Fatal()
	}
	if err := SetAttr(ctx, inst, "x", r.Int(3)); err != nil {
		t.Fatal(err)
	}
	if err := SetAttr(ctx, inst, "y", r.Int(4)); err != nil {
		t.Fatal(err)
	}
	ret, err := CallMethod(ctx, inst, "double")
	if err != nil {
		t.Fatal(err)
	}
	if ret.(*Int).V != 14 {
		t.Fatalf("got %v", Repr(ret))
	}
	point, err := As[*Point](ctx, inst)
	if err != nil {
		t.Fatal(err)
	}
	if point.X != 3 || point.Y != 4 {
		t.Fatalf("got %+v", point)
	}
	// the proxy maps back to its instance
	back, err := r.FromHost(point)
	if err != nil {
		t.Fatal(err)
	}
	if back != Value(inst) {
		t.Fatal()
	}
}

func TestDictNewKeywords(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	v, err := r.dictNew(ctx, []Value{r.builtins.dict, r.Int(1), r.Int(2)}, []string{"b"})
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := v.(*Dict).Get("b"); !ok || Repr(got) != "2" {
		t.Fatalf("got %v", v)
	}
	_, err = r.dictNew(ctx, []Value{r.builtins.dict, r.Int(1)}, []string{"a", "b"})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("got %v", err)
	}
	_, err = r.dictNew(ctx, []Value{r.builtins.dict}, []string{"a"})
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("got %v", err)
	}
}
