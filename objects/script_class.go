package objects

import (
	"context"
	"reflect"
	"slices"
)

// ScriptClass is a class defined by guest code, resolved depth-first over its bases.
type ScriptClass struct {
	Object
	reg    *Registry
	name   string
	module string
	bases  []Class
	ns     *Namespace
	host   reflect.Type
}

var _ Class = new(ScriptClass)

// NewScriptClass defines a guest class.
// At most one distinct host type may be reached through the bases.
// For each host method the class overrides, a super escape member is installed that reaches the host implementation.
func (r *Registry) NewScriptClass(name, module string, bases []Class, members map[string]Value) (*ScriptClass, error) {
	c := &ScriptClass{
		Object: newObject(r.builtins.classobj),
		reg:    r,
		name:   name,
		module: module,
		bases:  slices.Clone(bases),
		ns:     NewNamespace(),
	}

	var host reflect.Type
	for _, base := range bases {
		t := hostBase(base)
		if t == nil || t.Kind() == reflect.Interface {
			continue
		}
		if host != nil && host != t && !derives(host, t) && !derives(t, host) {
			return nil, newError(TypeMismatch, "class %s: no multiple inheritance for host types %v and %v", name, host, t)
		}
		if host == nil || derives(t, host) {
			host = t
		}
	}

	c.host = host

	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		c.ns.Set(name, PlainValue{Value: members[name]})
	}
	if _, ok := c.ns.Get("__module__"); !ok && module != "" {
		c.ns.Set("__module__", PlainValue{Value: r.Str(module)})
	}

	prefix := r.superPrefix()
	for _, name := range names {
		if _, ok := c.ns.Get(prefix + name); ok {
			continue
		}
		for _, base := range bases {
			m, _ := base.Lookup(name)
			if g, ok := m.(*OverloadGroup); ok {
				c.ns.Set(prefix+name, g.copyAs(prefix+name))
				break
			}
		}
	}

	r.logger.Debug("script class defined",
		"name", name,
		"bases", len(bases),
		"host", host,
	)
	return c, nil
}

func (c *ScriptClass) isClass() {}

func (c *ScriptClass) registry() *Registry {
	return c.reg
}

func (c *ScriptClass) Name() string {
	return c.name
}

func (c *ScriptClass) Module() string {
	return c.module
}

func (c *ScriptClass) Kind() ClassKind {
	return ScriptClassKind
}

func (c *ScriptClass) Linearization() Linearization {
	return DepthFirstBases
}

func (c *ScriptClass) Bases() []Class {
	return c.bases
}

func (c *ScriptClass) Namespace() *Namespace {
	return c.ns
}

func (c *ScriptClass) HostType() reflect.Type {
	return nil
}

// Lookup searches the own namespace, then each base depth-first, left to right.
// Ancestors shared by several bases are visited once per path.
func (c *ScriptClass) Lookup(name string) (Member, Class) {
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

// lookupGuest is Lookup restricted to guest classes.
func (c *ScriptClass) lookupGuest(name string) (Member, Class) {
	if m, ok := c.ns.Get(name); ok {
		return m, c
	}
	for _, base := range c.bases {
		switch base := base.(type) {
		case *ScriptClass:
			if m, owner := base.lookupGuest(name); m != nil {
				return m, owner
			}
		case *TypeObject:
			if base.host == nil && base != c.reg.builtins.object {
				if m, owner := base.Lookup(name); m != nil {
					return m, owner
				}
			}
		}
	}
	return nil, nil
}

func (c *ScriptClass) FindAttr(ctx context.Context, name string) (Value, error) {
	switch name {
	case "__name__":
		return c.reg.Str(c.name), nil
	case "__bases__":
		return c.reg.NewList(classValues(c.bases)...), nil
	case "__dict__":
		return namespaceDict(c.reg, c.ns), nil
	case "__class__":
		return c.Class(), nil
	}
	m, owner := c.Lookup(name)
	if m == nil {
		return nil, nil
	}
	return m.DescrGet(ctx, nil, owner)
}

func (c *ScriptClass) SetAttr(ctx context.Context, name string, value Value) error {
	switch name {
	case "__name__":
		s, ok := value.(*Str)
		if !ok {
			return newError(TypeMismatch, "__name__ must be a string")
		}
		c.name = s.V
		return nil
	case "__bases__", "__dict__":
		return newError(TypeMismatch, "can't replace %s of class %s", name, c.name)
	}
	c.ns.Set(name, PlainValue{Value: value})
	return nil
}

func (c *ScriptClass) DelAttr(ctx context.Context, name string) error {
	if !c.ns.Delete(name) {
		return attributeMissing(c, name)
	}
	return nil
}

// Call instantiates the class: guest __init__ if any, else the host constructor with the arguments.
// Instances of classes deriving from a host type get their proxy before returning.
func (c *ScriptClass) Call(ctx context.Context, args []Value, keywords []string) (Value, error) {
	inst := c.reg.newInstance(c)

	if init, owner := c.lookupGuest("__init__"); init != nil {
		fn, err := init.DescrGet(ctx, inst, owner)
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
	} else if len(args) > 0 || len(keywords) > 0 {
		host := hostBase(c)
		if host == nil {
			return nil, newError(TypeMismatch, "this constructor takes no arguments")
		}
		native, err := c.reg.NativeClass(host)
		if err != nil {
			return nil, err
		}
		if err := inst.initProxy(ctx, native, args, keywords); err != nil {
			return nil, err
		}
	}

	if hostBase(c) != nil {
		if _, err := inst.Proxy(ctx); err != nil {
			return nil, err
		}
	}
	return inst, nil
}
