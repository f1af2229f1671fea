package objects

import (
	"context"
	"reflect"
)

// HostObject wraps a host value whose class is the native class of its type.
type HostObject struct {
	Object
	reg   *Registry
	value reflect.Value
}

func (r *Registry) hostObject(c Class, rv reflect.Value) *HostObject {
	return &HostObject{
		Object: newObject(c),
		reg:    r,
		value:  rv,
	}
}

// Value returns the wrapped host value.
func (h *HostObject) Value() reflect.Value {
	return h.value
}

func (h *HostObject) Interface() any {
	if !h.value.CanInterface() {
		return nil
	}
	return h.value.Interface()
}

func (h *HostObject) ToHost(ctx context.Context, t reflect.Type) (reflect.Value, error) {
	return hostValueAs(h.value, t)
}

func (h *HostObject) FindAttr(ctx context.Context, name string) (Value, error) {
	if name == "__class__" {
		return h.Class(), nil
	}
	m, owner := h.Class().Lookup(name)
	if m == nil {
		return nil, nil
	}
	return m.DescrGet(ctx, h, owner)
}

func (h *HostObject) SetAttr(ctx context.Context, name string, value Value) error {
	m, _ := h.Class().Lookup(name)
	if m == nil {
		return attributeMissing(h, name)
	}
	handled, err := setThroughMember(ctx, m, h, value)
	if !handled {
		return newError(ReadOnlyMember, "can't set attribute '%s' of '%s' object", name, h.Class().Name())
	}
	return err
}

func (h *HostObject) DelAttr(ctx context.Context, name string) error {
	return newError(ReadOnlyMember, "can't delete attribute '%s' of '%s' object", name, h.Class().Name())
}

// Call invokes wrapped host functions, else the __call__ member of the class.
func (h *HostObject) Call(ctx context.Context, args []Value, keywords []string) (Value, error) {
	if h.value.Kind() == reflect.Func && !h.value.IsNil() {
		sig, err := NewSignature(h.Class().Name(), h.value, nil, true)
		if err != nil {
			return nil, err
		}
		return h.reg.NewOverloadGroup(h.Class().Name(), sig).Invoke(ctx, nil, args, keywords)
	}
	m, owner := h.Class().Lookup("__call__")
	if m == nil {
		return nil, newError(TypeMismatch, "'%s' object is not callable", h.Class().Name())
	}
	fn, err := m.DescrGet(ctx, h, owner)
	if err != nil {
		return nil, err
	}
	return Call(ctx, fn, args, keywords)
}

// Cmp reports equality of comparable host values; ordering is left to the fallback.
func (h *HostObject) Cmp(ctx context.Context, other Value) (int, bool, error) {
	o, ok := other.(*HostObject)
	if !ok || h.value.Type() != o.value.Type() {
		return 0, false, nil
	}
	// interface fields may hold uncomparable dynamic values
	if !h.value.Comparable() || !o.value.Comparable() {
		return 0, false, nil
	}
	if h.value.Equal(o.value) {
		return 0, true, nil
	}
	return 0, false, nil
}
