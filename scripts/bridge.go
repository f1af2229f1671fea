package scripts

import (
	"context"
	"fmt"

	"github.com/reusee/hostobj/objects"
	"go.starlark.net/starlark"
)

type bridge struct {
	ctx   context.Context
	reg   *objects.Registry
	print func(thread *starlark.Thread, msg string)
}

func (b *bridge) with(ctx context.Context) *bridge {
	if ctx == b.ctx {
		return b
	}
	return &bridge{
		ctx:   ctx,
		reg:   b.reg,
		print: b.print,
	}
}

// toStarlark maps scalars to starlark values and wraps everything else.
func (b *bridge) toStarlark(v objects.Value) starlark.Value {
	switch v := v.(type) {
	case nil, *objects.NoneType:
		return starlark.None
	case *objects.Bool:
		return starlark.Bool(v.V)
	case *objects.Int:
		return starlark.MakeInt64(v.V)
	case *objects.Float:
		return starlark.Float(v.V)
	case *objects.Str:
		return starlark.String(v.V)
	}
	return &Object{
		b: b,
		v: v,
	}
}

func (b *bridge) fromStarlark(x starlark.Value) (objects.Value, error) {
	switch x := x.(type) {
	case starlark.NoneType:
		return b.reg.None(), nil
	case starlark.Bool:
		return b.reg.Bool(bool(x)), nil
	case starlark.Int:
		n, ok := x.Int64()
		if !ok {
			return nil, fmt.Errorf("int %s out of range", x)
		}
		return b.reg.Int(n), nil
	case starlark.Float:
		return b.reg.Float(float64(x)), nil
	case starlark.String:
		return b.reg.Str(string(x)), nil
	case *Object:
		return x.v, nil
	case starlark.Tuple:
		return b.fromIterable(x)
	case *starlark.List:
		return b.fromIterable(x)
	case *starlark.Dict:
		d := b.reg.NewDict()
		for _, item := range x.Items() {
			key, ok := item[0].(starlark.String)
			if !ok {
				return nil, fmt.Errorf("dict key must be string, not %s", item[0].Type())
			}
			v, err := b.fromStarlark(item[1])
			if err != nil {
				return nil, err
			}
			d.Set(string(key), v)
		}
		return d, nil
	case starlark.Callable:
		return b.reg.NewFunction(x.Name(), b.callback(x)), nil
	}
	return nil, fmt.Errorf("cannot convert starlark %s", x.Type())
}

func (b *bridge) fromIterable(x starlark.Iterable) (objects.Value, error) {
	var elems []objects.Value
	it := x.Iterate()
	defer it.Done()
	var elem starlark.Value
	for it.Next(&elem) {
		v, err := b.fromStarlark(elem)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return b.reg.NewList(elems...), nil
}

// callback runs a starlark callable from the object model.
// Trailing arguments named by keywords become keyword arguments.
func (b *bridge) callback(fn starlark.Callable) objects.Func {
	return func(ctx context.Context, args []objects.Value, keywords []string) (objects.Value, error) {
		cb := b.with(ctx)
		positional := len(args) - len(keywords)
		if positional < 0 {
			return nil, fmt.Errorf("%s: more keywords than arguments", fn.Name())
		}
		var tuple starlark.Tuple
		for _, arg := range args[:positional] {
			tuple = append(tuple, cb.toStarlark(arg))
		}
		var kwargs []starlark.Tuple
		for i, name := range keywords {
			kwargs = append(kwargs, starlark.Tuple{
				starlark.String(name),
				cb.toStarlark(args[positional+i]),
			})
		}
		thread := &starlark.Thread{
			Name:  fn.Name(),
			Print: b.print,
		}
		thread.SetLocal(contextKeyName, ctx)
		ret, err := starlark.Call(thread, fn, tuple, kwargs)
		if err != nil {
			return nil, err
		}
		return cb.fromStarlark(ret)
	}
}
