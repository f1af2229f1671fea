package objects

import (
	"context"
	"reflect"
	"sync"
)

// NativeClass mirrors a host type. Its bases are the superclass followed by the registered interfaces.
type NativeClass struct {
	Object
	reg        *Registry
	name       string
	module     string
	host       reflect.Type
	bases      []Class
	interfaces []reflect.Type
	ns         *Namespace
	ctor       *OverloadGroup
	// missing caches failed lookups, valid while nsGeneration is unchanged
	missing sync.Map
}

var _ Class = new(NativeClass)

func (c *NativeClass) isClass() {}

func (c *NativeClass) registry() *Registry {
	return c.reg
}

func (c *NativeClass) Name() string {
	return c.name
}

func (c *NativeClass) Module() string {
	return c.module
}

func (c *NativeClass) Kind() ClassKind {
	return NativeClassKind
}

func (c *NativeClass) Linearization() Linearization {
	return DepthFirstBases
}

func (c *NativeClass) Bases() []Class {
	return c.bases
}

func (c *NativeClass) Namespace() *Namespace {
	return c.ns
}

func (c *NativeClass) HostType() reflect.Type {
	return c.host
}

// Interfaces returns the interface handles recorded as bases.
func (c *NativeClass) Interfaces() []reflect.Type {
	return c.interfaces
}

// Constructors returns the host constructor group, nil if none was declared.
func (c *NativeClass) Constructors() *OverloadGroup {
	return c.ctor
}

func (c *NativeClass) Lookup(name string) (Member, Class) {
	gen := nsGeneration.Load()
	if v, ok := c.missing.Load(name); ok && v.(uint64) == gen {
		return nil, nil
	}
	if m, owner := c.lookup(name); m != nil {
		return m, owner
	}
	if base, ok := c.reg.config.unmangle(name); ok {
		if m, owner := c.lookup(base); m != nil {
			return m, owner
		}
	}
	c.missing.Store(name, gen)
	return nil, nil
}

func (c *NativeClass) lookup(name string) (Member, Class) {
	if m, ok := c.ns.Get(name); ok {
		return m, c
	}
	for _, base := range c.bases {
		if m, owner := base.Lookup(name); m != nil {
			return m, owner
		}
	}
	return nil, nil
}

func (c *NativeClass) FindAttr(ctx context.Context, name string) (Value, error) {
	switch name {
	case "__name__":
		return c.reg.Str(c.name), nil
	case "__module__":
		return c.reg.Str(c.module), nil
	case "__bases__":
		return c.reg.NewList(classValues(c.bases)...), nil
	case "__dict__":
		return namespaceDict(c.reg, c.ns), nil
	case "__init__":
		return c.reg.newConstructor(c), nil
	case "__class__":
		return c.Class(), nil
	}
	m, owner := c.Lookup(name)
	if m == nil {
		return nil, nil
	}
	return m.DescrGet(ctx, nil, owner)
}

func (c *NativeClass) SetAttr(ctx context.Context, name string, value Value) error {
	if m, _ := c.Lookup(name); m != nil {
		if handled, err := setThroughMember(ctx, m, nil, value); handled {
			return err
		}
	}
	c.ns.Set(name, PlainValue{Value: value})
	return nil
}

func (c *NativeClass) DelAttr(ctx context.Context, name string) error {
	if !c.ns.Delete(name) {
		return attributeMissing(c, name)
	}
	return nil
}

// Call constructs a host value of the class.
func (c *NativeClass) Call(ctx context.Context, args []Value, keywords []string) (Value, error) {
	if c.ctor != nil {
		return c.ctor.Invoke(ctx, nil, args, keywords)
	}
	if len(args) > 0 || len(keywords) > 0 {
		return nil, newError(TypeMismatch, "%s() takes no arguments", c.name)
	}
	rv, ok := zeroHost(c.host)
	if !ok {
		return nil, newError(Uninstantiable, "cannot create '%s' instances", c.name)
	}
	return c.reg.hostObject(c, rv), nil
}

// zeroHost allocates a fresh value of t for classes without constructors.
func zeroHost(t reflect.Type) (reflect.Value, bool) {
	switch t.Kind() {
	case reflect.Pointer:
		if t.Elem().Kind() != reflect.Struct {
			return reflect.Value{}, false
		}
		return reflect.New(t.Elem()), true
	case reflect.Struct:
		return reflect.New(t).Elem(), true
	case reflect.Map:
		return reflect.MakeMap(t), true
	case reflect.Slice:
		return reflect.MakeSlice(t, 0, 0), true
	}
	return reflect.Value{}, false
}

// Constructor is the __init__ attribute of a native class.
// Called with a guest instance first, it initializes that instance's proxy.
type Constructor struct {
	Object
	class *NativeClass
}

func (r *Registry) newConstructor(c *NativeClass) *Constructor {
	return &Constructor{
		Object: newObject(r.builtins.constructor),
		class:  c,
	}
}

func (c *Constructor) Call(ctx context.Context, args []Value, keywords []string) (Value, error) {
	if len(args) > 0 {
		if inst, ok := args[0].(*Instance); ok && hostBase(inst.Class()) == c.class.host {
			if err := inst.initProxy(ctx, c.class, args[1:], keywords); err != nil {
				return nil, err
			}
			return c.class.reg.None(), nil
		}
	}
	return c.class.Call(ctx, args, keywords)
}

func namespaceDict(r *Registry, ns *Namespace) *Dict {
	d := r.NewDict()
	for _, name := range ns.Names() {
		m, ok := ns.Get(name)
		if !ok {
			continue
		}
		switch m := m.(type) {
		case PlainValue:
			d.Set(name, m.Value)
		case Value:
			d.Set(name, m)
		}
	}
	return d
}

func classValues(classes []Class) []Value {
	ret := make([]Value, 0, len(classes))
	for _, c := range classes {
		ret = append(ret, c)
	}
	return ret
}
