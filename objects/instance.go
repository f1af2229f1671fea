package objects

import (
	"context"
	"errors"
	"reflect"
	"sync"
)

// Instance is an object of a guest class. It exclusively owns its namespace and its host proxy.
type Instance struct {
	Object
	reg  *Registry
	dict *Dict

	proxyMu sync.Mutex
	proxy   reflect.Value

	shapeOnce sync.Once
	shape     CollectionShape

	// decoded state waiting for Restore
	pending *instanceState
}

func (r *Registry) newInstance(c Class) *Instance {
	return &Instance{
		Object: newObject(c),
		reg:    r,
		dict:   r.NewDict(),
	}
}

// Dict returns the instance namespace.
func (i *Instance) Dict() *Dict {
	return i.dict
}

func (i *Instance) FindAttr(ctx context.Context, name string) (Value, error) {
	switch name {
	case "__dict__":
		return i.dict, nil
	case "__class__":
		return i.Class(), nil
	}
	c := i.Class()

	member, owner := c.Lookup(name)
	if _, ok := c.(*TypeObject); ok && member != nil && isDataDescriptor(member) {
		return member.DescrGet(ctx, i, owner)
	}
	if v, ok := i.dict.Get(name); ok {
		return v, nil
	}
	if member != nil {
		return member.DescrGet(ctx, i, owner)
	}

	hook, hookOwner := c.Lookup("__getattr__")
	if hook == nil {
		return nil, nil
	}
	fn, err := hook.DescrGet(ctx, i, hookOwner)
	if err != nil {
		return nil, err
	}
	v, err := Call(ctx, fn, []Value{i.reg.Str(name)}, nil)
	if errors.Is(err, ErrAttributeMissing) {
		return nil, nil
	}
	return v, err
}

func (i *Instance) SetAttr(ctx context.Context, name string, value Value) error {
	switch name {
	case "__class__":
		c, ok := value.(Class)
		if !ok {
			return newError(TypeMismatch, "__class__ must be set to a class")
		}
		i.setClass(c)
		return nil
	case "__dict__":
		d, ok := value.(*Dict)
		if !ok {
			return newError(TypeMismatch, "__dict__ must be set to a dictionary")
		}
		i.dict = d
		return nil
	}
	c := i.Class()

	if hook, owner := c.Lookup("__setattr__"); hook != nil {
		fn, err := hook.DescrGet(ctx, i, owner)
		if err != nil {
			return err
		}
		_, err = Call(ctx, fn, []Value{i.reg.Str(name), value}, nil)
		return err
	}

	if member, _ := c.Lookup(name); member != nil {
		switch member.(type) {
		case *Field, *Property:
			if hostBase(c) != nil {
				if _, err := i.Proxy(ctx); err != nil {
					return err
				}
				_, err := setThroughMember(ctx, member, i, value)
				return err
			}
		}
		if _, ok := c.(*TypeObject); ok && isDataDescriptor(member) {
			if handled, err := setThroughMember(ctx, member, i, value); handled {
				return err
			}
		}
	}

	i.dict.Set(name, value)
	return nil
}

func (i *Instance) DelAttr(ctx context.Context, name string) error {
	if hook, owner := i.Class().Lookup("__delattr__"); hook != nil {
		fn, err := hook.DescrGet(ctx, i, owner)
		if err != nil {
			return err
		}
		_, err = Call(ctx, fn, []Value{i.reg.Str(name)}, nil)
		return err
	}
	if !i.dict.Delete(name) {
		return attributeMissing(i, name)
	}
	return nil
}

// ToHost converts the instance: its proxy when the class derives from a host type,
// else the result of the __tohost__ hook, which receives the target class.
func (i *Instance) ToHost(ctx context.Context, t reflect.Type) (reflect.Value, error) {
	if hostBase(i.Class()) != nil {
		proxy, err := i.Proxy(ctx)
		if err != nil {
			return reflect.Value{}, err
		}
		if rv, err := hostValueAs(proxy, t); err == nil {
			return rv, nil
		}
	}

	if hook, owner := i.Class().Lookup("__tohost__"); hook != nil {
		fn, err := hook.DescrGet(ctx, i, owner)
		if err != nil {
			return reflect.Value{}, err
		}
		target, err := i.reg.NativeClass(t)
		if err != nil {
			return reflect.Value{}, err
		}
		ret, err := Call(ctx, fn, []Value{target}, nil)
		if err != nil {
			return reflect.Value{}, err
		}
		switch ret.(type) {
		case *NoneType, *NotImplementedType:
			return reflect.Value{}, ErrNoConversion
		}
		if ret == Value(i) {
			return reflect.Value{}, ErrNoConversion
		}
		return ToHost(ctx, ret, t)
	}

	if t.Kind() == reflect.Func {
		if member, _ := i.Class().Lookup("__call__"); member != nil {
			return makeHostFunc(ctx, i, t), nil
		}
	}
	if t.Kind() == reflect.Interface && t.NumMethod() == 0 {
		rv := reflect.New(t).Elem()
		rv.Set(reflect.ValueOf(i))
		return rv, nil
	}
	return reflect.Value{}, ErrNoConversion
}

// Coerce runs the __coerce__ hook.
func (i *Instance) Coerce(ctx context.Context, other Value) (Coercion, error) {
	hook, owner := i.Class().Lookup("__coerce__")
	if hook == nil {
		return Coercion{Kind: CoerceDeclined}, nil
	}
	fn, err := hook.DescrGet(ctx, i, owner)
	if err != nil {
		return Coercion{}, err
	}
	ret, err := Call(ctx, fn, []Value{other}, nil)
	if err != nil {
		return Coercion{}, err
	}
	switch ret := ret.(type) {
	case *NoneType, *NotImplementedType:
		return Coercion{Kind: CoerceDeclined}, nil
	case *List:
		if ret.Len() == 2 {
			left, right := ret.Index(0), ret.Index(1)
			if left == Value(i) {
				if right == other {
					return Coercion{Kind: CoerceUnchanged}, nil
				}
				return Coercion{Kind: CoerceReplaceRight, Right: right}, nil
			}
			return Coercion{Kind: CoerceReplaceBoth, Left: left, Right: right}, nil
		}
	}
	return Coercion{}, newError(TypeMismatch, "coercion should return None or 2-tuple")
}
