package objects

import (
	"context"
	"errors"
	"reflect"
)

// ToHost converts v to a host value of type t.
// It returns ErrNoConversion when v has no representation as t.
func ToHost(ctx context.Context, v Value, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Value{}, ErrNoConversion
	}
	vt := reflect.TypeOf(v)
	if vt == t {
		return reflect.ValueOf(v), nil
	}
	if t.Kind() == reflect.Interface && t.NumMethod() > 0 && vt.Implements(t) {
		rv := reflect.New(t).Elem()
		rv.Set(reflect.ValueOf(v))
		return rv, nil
	}

	if conv, ok := v.(HostConverter); ok {
		rv, err := conv.ToHost(ctx, t)
		if err == nil {
			return rv, nil
		}
		if !errors.Is(err, ErrNoConversion) {
			return reflect.Value{}, err
		}
	}

	if t == hostTypeType {
		if c, ok := v.(Class); ok {
			if host := hostBase(c); host != nil {
				return reflect.ValueOf(&host).Elem(), nil
			}
		}
	}
	switch t.Kind() {
	case reflect.Interface:
		if t.NumMethod() == 0 {
			rv := reflect.New(t).Elem()
			rv.Set(reflect.ValueOf(v))
			return rv, nil
		}
	case reflect.Func:
		if isCallable(v) {
			return makeHostFunc(ctx, v, t), nil
		}
	}
	return reflect.Value{}, ErrNoConversion
}

// As converts v to T.
func As[T any](ctx context.Context, v Value) (ret T, err error) {
	rv, err := ToHost(ctx, v, reflect.TypeFor[T]())
	if errors.Is(err, ErrNoConversion) {
		return ret, newError(TypeMismatch, "cannot convert '%s' to %v", className(v), reflect.TypeFor[T]())
	} else if err != nil {
		return ret, err
	}
	return rv.Interface().(T), nil
}

// hostValueAs views rv as t, following assignability then embedding.
func hostValueAs(rv reflect.Value, t reflect.Type) (reflect.Value, error) {
	if !rv.IsValid() {
		return reflect.Value{}, ErrNoConversion
	}
	if rv.Type() == t {
		return rv, nil
	}
	if rv.Type().AssignableTo(t) {
		ret := reflect.New(t).Elem()
		ret.Set(rv)
		return ret, nil
	}
	path, ok := embeddingPath(rv.Type(), t)
	if !ok {
		return reflect.Value{}, ErrNoConversion
	}
	cur := rv
	for _, idx := range path {
		if cur.Kind() == reflect.Pointer {
			if cur.IsNil() {
				return reflect.Value{}, ErrNoConversion
			}
			cur = cur.Elem()
		}
		cur = cur.Field(idx)
	}
	switch {
	case cur.Type() == t:
		return cur, nil
	case cur.CanAddr() && cur.Addr().Type() == t:
		return cur.Addr(), nil
	case cur.Type().AssignableTo(t):
		ret := reflect.New(t).Elem()
		ret.Set(cur)
		return ret, nil
	}
	return reflect.Value{}, ErrNoConversion
}

// fromHostValue maps a host value into the object model.
// Predeclared scalar types become builtins, proxies resolve to their instances, everything else is wrapped.
func (r *Registry) fromHostValue(rv reflect.Value) (Value, error) {
	for rv.IsValid() && rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return r.None(), nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return r.None(), nil
	}

	if rv.CanInterface() {
		switch v := rv.Interface().(type) {
		case Value:
			if v == nil {
				return r.None(), nil
			}
			return v, nil
		case reflect.Type:
			if v == nil {
				return r.None(), nil
			}
			return r.NativeClass(v)
		}
	}

	if key, ok := keyOf(rv); ok {
		if inst := r.proxyOwner(key); inst != nil {
			return inst, nil
		}
	}

	t := rv.Type()
	if t.PkgPath() == "" && t.Name() != "" {
		switch t.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return r.Int(rv.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			u := rv.Uint()
			if u <= 1<<63-1 {
				return r.Int(int64(u)), nil
			}
		case reflect.Float32, reflect.Float64:
			return r.Float(rv.Float()), nil
		case reflect.String:
			return r.Str(rv.String()), nil
		case reflect.Bool:
			return r.Bool(rv.Bool()), nil
		}
	}
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return r.None(), nil
	}

	c, err := r.NativeClass(t)
	if err != nil {
		return nil, err
	}
	return r.hostObject(c, rv), nil
}

// FromHost maps a host value into the object model.
func (r *Registry) FromHost(v any) (Value, error) {
	return r.fromHostValue(reflect.ValueOf(v))
}

func isCallable(v Value) bool {
	if h, ok := v.(*HostObject); ok {
		if h.value.Kind() == reflect.Func {
			return true
		}
	} else if _, ok := v.(Callable); ok {
		return true
	}
	if v.Class() == nil {
		return false
	}
	m, _ := v.Class().Lookup("__call__")
	return m != nil
}

// makeHostFunc builds a host function of type t that calls v.
// Errors surface through a trailing error result when t has one, and as panics otherwise.
func makeHostFunc(ctx context.Context, v Value, t reflect.Type) reflect.Value {
	reg := v.Class().registry()
	numOut := t.NumOut()
	returnsErr := numOut > 0 && t.Out(numOut-1) == errorType

	return reflect.MakeFunc(t, func(in []reflect.Value) []reflect.Value {
		callCtx := ctx
		if len(in) > 0 && t.In(0) == contextType {
			if c, ok := in[0].Interface().(context.Context); ok && c != nil {
				callCtx = c
			}
			in = in[1:]
		}
		if t.IsVariadic() && len(in) > 0 {
			last := in[len(in)-1]
			in = in[:len(in)-1]
			for i := range last.Len() {
				in = append(in, last.Index(i))
			}
		}

		outs := make([]reflect.Value, numOut)
		for i := range numOut {
			outs[i] = reflect.Zero(t.Out(i))
		}
		fail := func(err error) []reflect.Value {
			if !returnsErr {
				panic(err)
			}
			outs[numOut-1] = reflect.ValueOf(&err).Elem()
			return outs
		}

		args := make([]Value, 0, len(in))
		for _, arg := range in {
			a, err := reg.fromHostValue(arg)
			if err != nil {
				return fail(err)
			}
			args = append(args, a)
		}
		ret, err := Call(callCtx, v, args, nil)
		if err != nil {
			return fail(err)
		}

		results := numOut
		if returnsErr {
			results--
		}
		switch results {
		case 0:
		case 1:
			rv, err := ToHost(callCtx, ret, t.Out(0))
			if err != nil {
				return fail(newError(TypeMismatch, "cannot convert '%s' to %v", className(ret), t.Out(0)))
			}
			outs[0] = rv
		default:
			list, ok := ret.(*List)
			if !ok || list.Len() != results {
				return fail(newError(TypeMismatch, "expected %d results; got '%s'", results, className(ret)))
			}
			for i := range results {
				rv, err := ToHost(callCtx, list.Index(i), t.Out(i))
				if err != nil {
					return fail(newError(TypeMismatch, "cannot convert '%s' to %v", className(list.Index(i)), t.Out(i)))
				}
				outs[i] = rv
			}
		}
		return outs
	})
}
