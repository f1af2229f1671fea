package objects

import (
	"context"
	"errors"
	"reflect"
)

// Member is a namespace entry: *Field, *Property, *OverloadGroup or PlainValue.
type Member interface {
	// DescrGet binds the member. instance is nil for access through the class.
	DescrGet(ctx context.Context, instance Value, owner Class) (Value, error)
	isMember()
}

// PlainValue is a precomputed value stored in a namespace.
type PlainValue struct {
	Value Value
}

var _ Member = PlainValue{}

func (p PlainValue) isMember() {}

func (p PlainValue) DescrGet(ctx context.Context, instance Value, owner Class) (Value, error) {
	switch v := p.Value.(type) {
	case *Instance:
		if hook, hookOwner := v.Class().Lookup("__get__"); hook != nil {
			fn, err := hook.DescrGet(ctx, v, hookOwner)
			if err != nil {
				return nil, err
			}
			inst := instance
			if inst == nil {
				inst = v.reg.None()
			}
			return Call(ctx, fn, []Value{inst, owner}, nil)
		}
	case DescriptorGetter:
		return v.DescrGet(ctx, instance, owner)
	}
	return p.Value, nil
}

// isDataDescriptor reports whether m handles both reads and writes.
func isDataDescriptor(m Member) bool {
	switch m := m.(type) {
	case *Field, *Property:
		return true
	case PlainValue:
		switch v := m.Value.(type) {
		case *Instance:
			get, _ := v.Class().Lookup("__get__")
			set, _ := v.Class().Lookup("__set__")
			return get != nil && set != nil
		case DescriptorSetter:
			_, ok := v.(DescriptorGetter)
			return ok
		}
	}
	return false
}

// setThroughMember writes value via m. handled is false when m does not intercept writes.
func setThroughMember(ctx context.Context, m Member, instance Value, value Value) (handled bool, err error) {
	switch m := m.(type) {
	case *Field:
		return true, m.DescrSet(ctx, instance, value)
	case *Property:
		return true, m.DescrSet(ctx, instance, value)
	case PlainValue:
		switch v := m.Value.(type) {
		case *Instance:
			hook, owner := v.Class().Lookup("__set__")
			if hook == nil {
				return false, nil
			}
			fn, err := hook.DescrGet(ctx, v, owner)
			if err != nil {
				return true, err
			}
			_, err = Call(ctx, fn, []Value{instance, value}, nil)
			return true, err
		case DescriptorSetter:
			return true, v.DescrSet(ctx, instance, value)
		}
	}
	return false, nil
}

// Field exposes a struct field of a host type, or a package variable when static.
type Field struct {
	Object
	reg    *Registry
	name   string
	typ    reflect.Type
	owner  reflect.Type
	index  []int
	static reflect.Value
}

var _ Member = new(Field)

func (f *Field) isMember() {}

func (f *Field) Name() string {
	return f.name
}

func (f *Field) Type() reflect.Type {
	return f.typ
}

func (f *Field) Static() bool {
	return f.static.IsValid()
}

func (f *Field) DescrGet(ctx context.Context, instance Value, owner Class) (Value, error) {
	if f.Static() {
		return f.reg.fromHostValue(f.static.Elem())
	}
	if instance == nil {
		return f, nil
	}
	target, err := f.target(ctx, instance)
	if err != nil {
		return nil, err
	}
	return f.reg.fromHostValue(target)
}

func (f *Field) target(ctx context.Context, instance Value) (reflect.Value, error) {
	rv, err := ToHost(ctx, instance, f.owner)
	if errors.Is(err, ErrNoConversion) {
		return reflect.Value{}, newError(TypeMismatch, "field %s: '%s' object is not a %v", f.name, className(instance), f.owner)
	} else if err != nil {
		return reflect.Value{}, err
	}
	rv = reflect.Indirect(rv)
	field, err := rv.FieldByIndexErr(f.index)
	if err != nil {
		return reflect.Value{}, newError(AttributeMissing, "field %s: %v", f.name, err)
	}
	return field, nil
}

func (f *Field) DescrSet(ctx context.Context, instance Value, value Value) error {
	var slot reflect.Value
	if f.Static() {
		slot = f.static.Elem()
	} else {
		if instance == nil {
			return newError(TypeMismatch, "field %s requires an instance", f.name)
		}
		var err error
		slot, err = f.target(ctx, instance)
		if err != nil {
			return err
		}
	}
	if !slot.CanSet() {
		return newError(ReadOnlyMember, "field %s is not assignable", f.name)
	}
	rv, err := ToHost(ctx, value, f.typ)
	if errors.Is(err, ErrNoConversion) {
		return newError(TypeMismatch, "field %s: can't convert '%s' to %v", f.name, className(value), f.typ)
	} else if err != nil {
		return err
	}
	slot.Set(rv)
	return nil
}

// Property is an accessor pair of a host type.
// A static field sharing its name is kept as a secondary channel for class-level access.
type Property struct {
	Object
	reg    *Registry
	name   string
	typ    reflect.Type
	getter *Signature
	setter *Signature
	static *Field
}

var _ Member = new(Property)

func (p *Property) isMember() {}

func (p *Property) Name() string {
	return p.name
}

// Type is the value type of the accessor pair.
func (p *Property) Type() reflect.Type {
	return p.typ
}

func (p *Property) ReadOnly() bool {
	return p.setter == nil
}

func (p *Property) withStatic(f *Field) *Property {
	ret := *p
	ret.Object = newObject(p.reg.builtins.property)
	ret.static = f
	return &ret
}

func (p *Property) DescrGet(ctx context.Context, instance Value, owner Class) (Value, error) {
	if instance == nil {
		if p.static != nil {
			return p.static.DescrGet(ctx, nil, owner)
		}
		return p, nil
	}
	if p.getter == nil {
		return nil, newError(AttributeMissing, "write-only attribute '%s'", p.name)
	}
	recv, err := ToHost(ctx, instance, p.getter.declaring)
	if errors.Is(err, ErrNoConversion) {
		return nil, newError(TypeMismatch, "property %s: '%s' object is not a %v", p.name, className(instance), p.getter.declaring)
	} else if err != nil {
		return nil, err
	}
	return p.getter.invoke(ctx, p.reg, recv, nil)
}

func (p *Property) DescrSet(ctx context.Context, instance Value, value Value) error {
	if instance == nil && p.static != nil {
		return p.static.DescrSet(ctx, nil, value)
	}
	if p.setter == nil {
		return newError(ReadOnlyMember, "readonly attribute '%s'", p.name)
	}
	if instance == nil {
		return newError(TypeMismatch, "property %s requires an instance", p.name)
	}
	recv, err := ToHost(ctx, instance, p.setter.declaring)
	if errors.Is(err, ErrNoConversion) {
		return newError(TypeMismatch, "property %s: '%s' object is not a %v", p.name, className(instance), p.setter.declaring)
	} else if err != nil {
		return err
	}
	arg, err := ToHost(ctx, value, p.setter.params[0])
	if errors.Is(err, ErrNoConversion) {
		return newError(TypeMismatch, "property %s: can't convert '%s' to %v", p.name, className(value), p.setter.params[0])
	} else if err != nil {
		return err
	}
	_, err = p.setter.invoke(ctx, p.reg, recv, []reflect.Value{arg})
	return err
}
