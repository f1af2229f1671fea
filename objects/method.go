package objects

import (
	"context"
	"fmt"
)

// Func is the calling convention of guest functions implemented in Go.
type Func func(ctx context.Context, args []Value, keywords []string) (Value, error)

// Function is a named guest-callable. Stored in a class namespace it binds like a method.
type Function struct {
	Object
	reg  *Registry
	name string
	fn   Func
}

func (r *Registry) NewFunction(name string, fn Func) *Function {
	return &Function{
		Object: newObject(r.builtins.function),
		reg:    r,
		name:   name,
		fn:     fn,
	}
}

func (f *Function) Name() string {
	return f.name
}

func (f *Function) Call(ctx context.Context, args []Value, keywords []string) (Value, error) {
	ret, err := f.fn(ctx, args, keywords)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return f.reg.None(), nil
	}
	return ret, nil
}

func (f *Function) DescrGet(ctx context.Context, instance Value, owner Class) (Value, error) {
	if instance == nil {
		return f, nil
	}
	return f.reg.NewBoundMethod(f, instance), nil
}

func (f *Function) String() string {
	return fmt.Sprintf("<function %s>", f.name)
}

// BoundMethod pairs a callable with the instance it was read from.
type BoundMethod struct {
	Object
	Func Value
	Self Value
}

func (r *Registry) NewBoundMethod(fn Value, self Value) *BoundMethod {
	return &BoundMethod{
		Object: newObject(r.builtins.boundMethod),
		Func:   fn,
		Self:   self,
	}
}

// Call passes the bound instance to overload groups as the receiver and to other callables as the first argument.
func (b *BoundMethod) Call(ctx context.Context, args []Value, keywords []string) (Value, error) {
	if g, ok := b.Func.(*OverloadGroup); ok {
		return g.Invoke(ctx, b.Self, args, keywords)
	}
	return Call(ctx, b.Func, append([]Value{b.Self}, args...), keywords)
}

// Call invokes v with positional arguments; the trailing len(keywords) arguments are named by keywords.
func Call(ctx context.Context, v Value, args []Value, keywords []string) (Value, error) {
	if len(keywords) > len(args) {
		return nil, newError(TypeMismatch, "%d keywords for %d arguments", len(keywords), len(args))
	}
	if c, ok := v.(Callable); ok {
		return c.Call(ctx, args, keywords)
	}
	if v != nil && v.Class() != nil {
		if m, owner := v.Class().Lookup("__call__"); m != nil {
			fn, err := m.DescrGet(ctx, v, owner)
			if err != nil {
				return nil, err
			}
			return Call(ctx, fn, args, keywords)
		}
	}
	return nil, newError(TypeMismatch, "'%s' object is not callable", className(v))
}
