package objects

import (
	"context"
	"reflect"
	"slices"
)

// TypeObject is a single-base class resolved through a linear MRO.
type TypeObject struct {
	Object
	reg            *Registry
	name           string
	module         string
	base           *TypeObject
	mro            []Class
	ns             *Namespace
	host           reflect.Type
	ctor           *OverloadGroup
	builtin        bool
	uninstantiable bool
}

var _ Class = new(TypeObject)

// rawType allocates a type without a metatype, for bootstrap.
func (r *Registry) rawType(name string, base *TypeObject) *TypeObject {
	t := &TypeObject{
		Object: Object{id: nextID.Add(1)},
		reg:    r,
		name:   name,
		base:   base,
		ns:     NewNamespace(),
	}
	t.mro = computeMRO(t)
	return t
}

func newTypeObject(r *Registry, name string, base *TypeObject, meta *TypeObject) *TypeObject {
	t := &TypeObject{
		Object: newObject(meta),
		reg:    r,
		name:   name,
		base:   base,
		ns:     NewNamespace(),
	}
	t.mro = computeMRO(t)
	return t
}

func computeMRO(t *TypeObject) []Class {
	mro := []Class{t}
	if t.base != nil {
		mro = append(mro, t.base.mro...)
	}
	return mro
}

type TypeOption func(*TypeObject)

// WithMetatype sets the type of the new type object.
func WithMetatype(meta *TypeObject) TypeOption {
	return func(t *TypeObject) {
		t.setClass(meta)
	}
}

func WithModule(module string) TypeOption {
	return func(t *TypeObject) {
		t.module = module
	}
}

// NewType defines a guest type deriving from base, or from object when base is nil.
func (r *Registry) NewType(name string, base *TypeObject, members map[string]Value, options ...TypeOption) *TypeObject {
	if base == nil {
		base = r.builtins.object
	}
	t := newTypeObject(r, name, base, r.builtins.type_)
	for _, option := range options {
		option(t)
	}
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		t.ns.Set(name, PlainValue{Value: members[name]})
	}
	return t
}

func (t *TypeObject) isClass() {}

func (t *TypeObject) registry() *Registry {
	return t.reg
}

func (t *TypeObject) Name() string {
	return t.name
}

func (t *TypeObject) Module() string {
	return t.module
}

func (t *TypeObject) Kind() ClassKind {
	return TypeObjectKind
}

func (t *TypeObject) Linearization() Linearization {
	return LinearMRO
}

func (t *TypeObject) Bases() []Class {
	if t.base == nil {
		return nil
	}
	return []Class{t.base}
}

func (t *TypeObject) Base() *TypeObject {
	return t.base
}

// MRO returns the linearization, the type itself first.
func (t *TypeObject) MRO() []Class {
	return t.mro
}

func (t *TypeObject) Namespace() *Namespace {
	return t.ns
}

func (t *TypeObject) HostType() reflect.Type {
	return t.host
}

func (t *TypeObject) Lookup(name string) (Member, Class) {
	for _, c := range t.mro {
		if m, ok := c.Namespace().Get(name); ok {
			return m, c
		}
	}
	return nil, nil
}

// FindAttr resolves an attribute of the type itself:
// a data descriptor of the metatype wins, then the type's own MRO, then other metatype attributes.
func (t *TypeObject) FindAttr(ctx context.Context, name string) (Value, error) {
	switch name {
	case "__name__":
		return t.reg.Str(t.name), nil
	case "__module__":
		return t.reg.Str(t.module), nil
	case "__bases__":
		return t.reg.NewList(classValues(t.Bases())...), nil
	case "__mro__":
		return t.reg.NewList(classValues(t.mro)...), nil
	case "__dict__":
		return namespaceDict(t.reg, t.ns), nil
	case "__class__":
		return t.Class(), nil
	}

	var metaAttr Member
	var metaOwner Class
	if meta := t.Class(); meta != nil {
		metaAttr, metaOwner = meta.Lookup(name)
	}
	if metaAttr != nil && isDataDescriptor(metaAttr) {
		return metaAttr.DescrGet(ctx, t, metaOwner)
	}

	if attr, _ := t.Lookup(name); attr != nil {
		return attr.DescrGet(ctx, nil, t)
	}

	if metaAttr != nil {
		return metaAttr.DescrGet(ctx, t, metaOwner)
	}
	return nil, nil
}

func (t *TypeObject) SetAttr(ctx context.Context, name string, value Value) error {
	if t.builtin {
		return newError(TypeMismatch, "can't set attributes of built-in type '%s'", t.name)
	}
	if meta := t.Class(); meta != nil {
		if m, _ := meta.Lookup(name); m != nil && isDataDescriptor(m) {
			if handled, err := setThroughMember(ctx, m, t, value); handled {
				return err
			}
		}
	}
	if m, ok := t.ns.Get(name); ok {
		if handled, err := setThroughMember(ctx, m, nil, value); handled {
			return err
		}
	}
	t.ns.Set(name, PlainValue{Value: value})
	return nil
}

func (t *TypeObject) DelAttr(ctx context.Context, name string) error {
	if t.builtin {
		return newError(TypeMismatch, "can't delete attributes of built-in type '%s'", t.name)
	}
	if !t.ns.Delete(name) {
		return attributeMissing(t, name)
	}
	return nil
}

// Call creates an instance through __new__, then runs __init__ when the result is an instance of t.
func (t *TypeObject) Call(ctx context.Context, args []Value, keywords []string) (Value, error) {
	if t.uninstantiable {
		return nil, newError(Uninstantiable, "cannot create '%s' instances", t.name)
	}
	newMember, _ := t.Lookup("__new__")
	if newMember == nil {
		return nil, newError(Uninstantiable, "cannot create '%s' instances", t.name)
	}
	newFunc, err := newMember.DescrGet(ctx, nil, t)
	if err != nil {
		return nil, err
	}
	obj, err := Call(ctx, newFunc, append([]Value{t}, args...), keywords)
	if err != nil {
		return nil, err
	}

	if !IsSubclass(obj.Class(), t) {
		return obj, nil
	}
	if init, owner := obj.Class().Lookup("__init__"); init != nil {
		fn, err := init.DescrGet(ctx, obj, owner)
		if err != nil {
			return nil, err
		}
		ret, err := Call(ctx, fn, args, keywords)
		if err != nil {
			return nil, err
		}
		if _, ok := ret.(*NoneType); !ok {
			return nil, newError(TypeMismatch, "__init__() should return None")
		}
	}
	return obj, nil
}

func typeArg(args []Value) (*TypeObject, []Value, error) {
	if len(args) == 0 {
		return nil, nil, newError(TypeMismatch, "__new__(): not enough arguments")
	}
	t, ok := args[0].(*TypeObject)
	if !ok {
		return nil, nil, newError(TypeMismatch, "__new__(X): X is not a type object (%s)", className(args[0]))
	}
	return t, args[1:], nil
}

// objectNew creates a plain guest instance of the type passed first.
func (r *Registry) objectNew(ctx context.Context, args []Value, keywords []string) (Value, error) {
	t, _, err := typeArg(args)
	if err != nil {
		return nil, err
	}
	if t.uninstantiable {
		return nil, newError(Uninstantiable, "cannot create '%s' instances", t.name)
	}
	return r.newInstance(t), nil
}

func (r *Registry) listNew(ctx context.Context, args []Value, keywords []string) (Value, error) {
	_, rest, err := typeArg(args)
	if err != nil {
		return nil, err
	}
	ret := r.NewList()
	if len(rest) > 0 {
		for elem, err := range Iterate(ctx, rest[0]) {
			if err != nil {
				return nil, err
			}
			ret.Append(elem)
		}
	}
	return ret, nil
}

func (r *Registry) dictNew(ctx context.Context, args []Value, keywords []string) (Value, error) {
	_, rest, err := typeArg(args)
	if err != nil {
		return nil, err
	}
	d := r.NewDict()
	if n := len(keywords); n > 0 {
		if n > len(rest) {
			return nil, newError(TypeMismatch, "dict(): %d keywords for %d values", n, len(rest))
		}
		values := rest[len(rest)-n:]
		for i, name := range keywords {
			d.Set(name, values[i])
		}
	}
	return d, nil
}

// hostNew constructs the host value of a type object mirroring a host type.
// For guest subtypes the host value becomes the proxy of a new guest instance.
func (t *TypeObject) hostNew(ctx context.Context, args []Value, keywords []string) (Value, error) {
	cls, rest, err := typeArg(args)
	if err != nil {
		return nil, err
	}
	var rv reflect.Value
	if t.ctor != nil {
		ret, err := t.ctor.Invoke(ctx, nil, rest, keywords)
		if err != nil {
			return nil, err
		}
		rv, err = ToHost(ctx, ret, t.host)
		if err != nil {
			return nil, newError(TypeMismatch, "constructor of %s returned '%s'", t.name, className(ret))
		}
	} else {
		var ok bool
		rv, ok = zeroHost(t.host)
		if !ok {
			return nil, newError(Uninstantiable, "cannot create '%s' instances", t.name)
		}
	}
	if cls == t {
		return t.reg.hostObject(t, rv), nil
	}
	inst := t.reg.newInstance(cls)
	inst.setProxy(rv)
	return inst, nil
}
