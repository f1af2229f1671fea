package objects

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// HostClass describes how a host type is exposed.
// Methods lists the overloads explicitly; Introspect adds what reflection discovers.
type HostClass struct {
	Name         string
	Module       string
	Type         reflect.Type
	Super        reflect.Type
	Interfaces   []reflect.Type
	Methods      []HostMethod
	Fields       []HostField
	Constructors []any
	Introspect   bool
}

// HostMethod binds Func under Name. Instance methods take the receiver first.
type HostMethod struct {
	Name   string
	Func   any
	Static bool
}

// HostField exposes a package variable through a pointer to it.
type HostField struct {
	Name string
	Ptr  any
}

// normalizeName maps a host identifier to its guest name.
func (r *Registry) normalizeName(name string) string {
	name = strings.TrimSuffix(name, "_")
	if r.config.PreserveCase || name == "" {
		return name
	}
	first, size := utf8.DecodeRuneInString(name)
	if size < len(name) {
		second, _ := utf8.DecodeRuneInString(name[size:])
		if unicode.IsUpper(first) && unicode.IsUpper(second) {
			// acronyms stay as declared
			return name
		}
	}
	return string(unicode.ToLower(first)) + name[size:]
}

func structType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	return t
}

// embeddedSuper returns the type of the first exported embedded field, adjusted to t's pointerness.
func embeddedSuper(t reflect.Type) reflect.Type {
	st := structType(t)
	if st == nil {
		return nil
	}
	for i := range st.NumField() {
		f := st.Field(i)
		if !f.Anonymous || !f.IsExported() || f.Type == guestType {
			continue
		}
		ft := f.Type
		if t.Kind() == reflect.Pointer && ft.Kind() == reflect.Struct {
			ft = reflect.PointerTo(ft)
		}
		return ft
	}
	return nil
}

func (b *builder) native(t reflect.Type) (*NativeClass, error) {
	if v, ok := b.r.natives.Load(t); ok {
		return v.(*NativeClass), nil
	}
	if c, ok := b.natives[t]; ok {
		return c, nil
	}

	hc := b.r.describe(t)
	c := &NativeClass{
		Object: newObject(b.r.builtins.nativeClass),
		reg:    b.r,
		name:   hc.Name,
		module: hc.Module,
		host:   t,
		ns:     NewNamespace(),
	}
	if c.name == "" {
		c.name = t.String()
	}
	if c.module == "" {
		if st := structType(t); st != nil {
			c.module = st.PkgPath()
		} else {
			c.module = t.PkgPath()
		}
	}
	// visible to recursive construction before being populated
	b.natives[t] = c
	b.order = append(b.order, c)

	super := hc.Super
	if super == nil && hc.Introspect {
		super = embeddedSuper(t)
	}
	if super != nil {
		base, err := b.native(super)
		if err != nil {
			return nil, fmt.Errorf("%s: superclass: %w", c.name, err)
		}
		c.bases = append(c.bases, base)
	}
	for _, iface := range b.interfaces(t, hc, super) {
		base, err := b.native(iface)
		if err != nil {
			return nil, fmt.Errorf("%s: interface: %w", c.name, err)
		}
		c.bases = append(c.bases, base)
		c.interfaces = append(c.interfaces, iface)
	}

	ctor, err := b.populate(c, c.ns, hc)
	if err != nil {
		return nil, err
	}
	c.ctor = ctor
	return c, nil
}

// interfaces lists the registered interfaces t implements directly, those not already covered by super.
func (b *builder) interfaces(t reflect.Type, hc HostClass, super reflect.Type) []reflect.Type {
	ret := slices.Clone(hc.Interfaces)
	if t.Kind() != reflect.Interface {
		for it := range b.r.descs {
			if it.Kind() != reflect.Interface || it == t {
				continue
			}
			if !t.Implements(it) {
				continue
			}
			if super != nil && super.Implements(it) {
				continue
			}
			if !slices.Contains(ret, it) {
				ret = append(ret, it)
			}
		}
	}
	slices.SortStableFunc(ret[len(hc.Interfaces):], func(a, b reflect.Type) int {
		return strings.Compare(a.String(), b.String())
	})
	return ret
}

func (b *builder) typeObject(t reflect.Type) (*TypeObject, error) {
	if v, ok := b.r.types.Load(t); ok {
		return v.(*TypeObject), nil
	}
	if c, ok := b.types[t]; ok {
		return c, nil
	}

	hc := b.r.describe(t)
	base := b.r.builtins.object
	super := hc.Super
	if super == nil && hc.Introspect {
		super = embeddedSuper(t)
	}
	if super != nil {
		var err error
		base, err = b.typeObject(super)
		if err != nil {
			return nil, err
		}
	}
	name := hc.Name
	if name == "" {
		name = t.String()
	}
	c := newTypeObject(b.r, name, base, b.r.builtins.type_)
	c.module = hc.Module
	c.host = t
	b.types[t] = c
	b.order = append(b.order, c)

	ctor, err := b.populate(c, c.ns, hc)
	if err != nil {
		return nil, err
	}
	c.ctor = ctor
	c.ns.Set("__new__", PlainValue{Value: b.r.NewFunction("__new__", c.hostNew)})
	return c, nil
}

type accessor struct {
	getter *Signature
	setter *Signature
}

// populate fills ns following the precedence: accessor properties, fields, static fields, methods.
func (b *builder) populate(c Class, ns *Namespace, hc HostClass) (*OverloadGroup, error) {
	r := b.r
	t := hc.Type

	if hc.Introspect && t.Kind() != reflect.Interface {
		props := make(map[string]*accessor)
		var names []string
		get := func(name string) *accessor {
			if a, ok := props[name]; ok {
				return a
			}
			a := new(accessor)
			props[name] = a
			names = append(names, name)
			return a
		}
		for i := range t.NumMethod() {
			m := t.Method(i)
			mt := m.Type
			switch {
			case strings.HasPrefix(m.Name, "Get") && len(m.Name) > 3 && mt.NumIn() == 1 && mt.NumOut() == 1:
				sig, err := NewSignature(m.Name, m.Func, t, false)
				if err != nil {
					return nil, err
				}
				get(r.normalizeName(m.Name[3:])).getter = sig
			case strings.HasPrefix(m.Name, "Is") && len(m.Name) > 2 && mt.NumIn() == 1 && mt.NumOut() == 1 && mt.Out(0).Kind() == reflect.Bool:
				sig, err := NewSignature(m.Name, m.Func, t, false)
				if err != nil {
					return nil, err
				}
				get(r.normalizeName(m.Name[2:])).getter = sig
			case strings.HasPrefix(m.Name, "Set") && len(m.Name) > 3 && mt.NumIn() == 2 &&
				(mt.NumOut() == 0 || mt.NumOut() == 1 && mt.Out(0) == errorType):
				sig, err := NewSignature(m.Name, m.Func, t, false)
				if err != nil {
					return nil, err
				}
				get(r.normalizeName(m.Name[3:])).setter = sig
				// bare X() getter paired with SetX
				if bare, ok := t.MethodByName(m.Name[3:]); ok && bare.Type.NumIn() == 1 && bare.Type.NumOut() == 1 && bare.Type.Out(0) != errorType {
					a := get(r.normalizeName(m.Name[3:]))
					if a.getter == nil {
						a.getter, err = NewSignature(bare.Name, bare.Func, t, false)
						if err != nil {
							return nil, err
						}
					}
				}
			}
		}
		for _, name := range names {
			a := props[name]
			var typ reflect.Type
			if a.getter != nil {
				typ = a.getter.fn.Type().Out(0)
			}
			if a.setter != nil {
				st := a.setter.params[0]
				if typ != nil && typ != st {
					// mismatched pair, keep the getter only
					a.setter = nil
				} else {
					typ = st
				}
			}
			ns.Set(name, &Property{
				Object: newObject(r.builtins.property),
				reg:    r,
				name:   name,
				typ:    typ,
				getter: a.getter,
				setter: a.setter,
			})
		}
	}

	if st := structType(t); hc.Introspect && st != nil {
		for i := range st.NumField() {
			f := st.Field(i)
			if f.Anonymous || !f.IsExported() {
				continue
			}
			name := r.normalizeName(f.Name)
			if _, ok := ns.Get(name); ok {
				continue
			}
			ns.Set(name, &Field{
				Object: newObject(r.builtins.field),
				reg:    r,
				name:   name,
				typ:    f.Type,
				owner:  t,
				index:  f.Index,
			})
		}
	}

	for _, hf := range hc.Fields {
		ptr := reflect.ValueOf(hf.Ptr)
		if ptr.Kind() != reflect.Pointer || ptr.IsNil() {
			return nil, fmt.Errorf("%s: static field %s: not a pointer", c.Name(), hf.Name)
		}
		field := &Field{
			Object: newObject(r.builtins.field),
			reg:    r,
			name:   hf.Name,
			typ:    ptr.Type().Elem(),
			owner:  t,
			static: ptr,
		}
		if m, _ := c.Lookup(hf.Name); m != nil {
			if prop, ok := m.(*Property); ok {
				ns.Set(hf.Name, prop.withStatic(field))
				continue
			}
		}
		ns.Set(hf.Name, field)
	}

	if hc.Introspect {
		for i := range t.NumMethod() {
			m := t.Method(i)
			if skipMethod(m.Name) {
				continue
			}
			var sig *Signature
			name := r.normalizeName(m.Name)
			if t.Kind() == reflect.Interface {
				sig = newInterfaceSignature(name, t, m)
			} else {
				var err error
				sig, err = NewSignature(name, m.Func, t, false)
				if err != nil {
					return nil, err
				}
			}
			b.addMethod(c, ns, name, sig)
		}
	}
	for _, hm := range hc.Methods {
		sig, err := NewSignature(hm.Name, hm.Func, t, hm.Static)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name(), err)
		}
		b.addMethod(c, ns, hm.Name, sig)
	}

	if len(hc.Constructors) == 0 {
		return nil, nil
	}
	ctor := r.NewOverloadGroup("__init__")
	for _, fn := range hc.Constructors {
		sig, err := NewSignature("__init__", fn, t, true)
		if err != nil {
			return nil, fmt.Errorf("%s: constructor: %w", c.Name(), err)
		}
		ctor.Add(sig)
	}
	return ctor, nil
}

func skipMethod(name string) bool {
	switch name {
	case "HoldInstance", "GuestInstance", "Override":
		return true
	}
	return false
}

// addMethod merges sig into the group for name, copying an inherited group before extending it.
func (b *builder) addMethod(c Class, ns *Namespace, name string, sig *Signature) {
	member, owner := c.Lookup(name)
	switch m := member.(type) {
	case *OverloadGroup:
		if owner == c {
			m.Add(sig)
			return
		}
		if m.Handles(sig) {
			return
		}
		g := m.copyAs(name)
		g.Add(sig)
		ns.Set(name, g)
	case nil:
		ns.Set(name, b.r.NewOverloadGroup(name, sig))
	default:
		if owner == c {
			// accessors and fields claim the name
			return
		}
		ns.Set(name, b.r.NewOverloadGroup(name, sig))
	}
}
