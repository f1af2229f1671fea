package objects

import (
	"context"
	"reflect"
	"runtime"
	"weak"
)

// InstanceHolder is implemented by host values that want a reference to the guest instance they proxy.
type InstanceHolder interface {
	HoldInstance(weak.Pointer[Instance])
}

// Guest is embedded in host types designed for guest subclassing.
// The reference is weak: a proxy never keeps its instance alive.
type Guest struct {
	instance weak.Pointer[Instance]
}

var guestType = reflect.TypeFor[Guest]()

func (g *Guest) HoldInstance(p weak.Pointer[Instance]) {
	g.instance = p
}

// GuestInstance returns the owning instance, nil if there is none or it was collected.
func (g *Guest) GuestInstance() *Instance {
	return g.instance.Value()
}

// Override calls the guest implementation of a method, if the guest class defines one.
// Host code calls it before running its own implementation.
func (g *Guest) Override(ctx context.Context, name string, args ...any) (Value, bool, error) {
	inst := g.GuestInstance()
	if inst == nil {
		return nil, false, nil
	}
	member, owner := guestLookup(inst.Class(), name)
	if member == nil {
		return nil, false, nil
	}
	fn, err := member.DescrGet(ctx, inst, owner)
	if err != nil {
		return nil, true, err
	}
	values := make([]Value, 0, len(args))
	for _, arg := range args {
		v, err := inst.reg.FromHost(arg)
		if err != nil {
			return nil, true, err
		}
		values = append(values, v)
	}
	ret, err := Call(ctx, fn, values, nil)
	return ret, true, err
}

// guestLookup resolves name among guest-defined classes only.
func guestLookup(c Class, name string) (Member, Class) {
	switch c := c.(type) {
	case *ScriptClass:
		return c.lookupGuest(name)
	case *TypeObject:
		for _, k := range c.mro {
			t, ok := k.(*TypeObject)
			if !ok || t.host != nil || t.builtin {
				continue
			}
			if m, ok := t.ns.Get(name); ok {
				return m, t
			}
		}
	}
	return nil, nil
}

type proxyKey struct {
	t reflect.Type
	p uintptr
}

func keyOf(rv reflect.Value) (proxyKey, bool) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		if rv.IsNil() {
			return proxyKey{}, false
		}
		return proxyKey{t: rv.Type(), p: rv.Pointer()}, true
	}
	return proxyKey{}, false
}

// Proxy returns the host value standing in for the instance, building it on first use.
// The build runs without holding the instance lock, so a factory may read the instance.
// Racing first callers may each build one; the first published wins.
func (i *Instance) Proxy(ctx context.Context) (reflect.Value, error) {
	i.proxyMu.Lock()
	rv := i.proxy
	i.proxyMu.Unlock()
	if rv.IsValid() {
		return rv, nil
	}

	host := hostBase(i.Class())
	if host == nil {
		return reflect.Value{}, newError(TypeMismatch, "'%s' object has no host base", className(i))
	}
	rv, err := i.buildProxy(host)
	if err != nil {
		return reflect.Value{}, err
	}
	rv, _ = i.publishProxy(rv)
	return rv, nil
}

func (i *Instance) buildProxy(host reflect.Type) (rv reflect.Value, err error) {
	factory := i.reg.proxyFactory(host)
	if factory == nil {
		zero, ok := zeroHost(host)
		if !ok {
			return reflect.Value{}, newError(Uninstantiable, "Default constructor failed for host superclass %v", host)
		}
		return zero, nil
	}

	defer func() {
		if p := recover(); p != nil {
			err = hostFailure("proxy "+host.String(), p)
		}
	}()
	v, err := factory(i)
	if err != nil {
		return reflect.Value{}, hostFailure("proxy "+host.String(), err)
	}
	rv, err = hostValueAs(reflect.ValueOf(v), host)
	if err != nil {
		return reflect.Value{}, newError(TypeMismatch, "proxy factory for %v returned %T", host, v)
	}
	return rv, nil
}

// publishProxy attaches rv unless another proxy is already attached, and returns the attached one.
func (i *Instance) publishProxy(rv reflect.Value) (reflect.Value, bool) {
	i.proxyMu.Lock()
	defer i.proxyMu.Unlock()
	if i.proxy.IsValid() {
		return i.proxy, false
	}
	i.setProxyLocked(rv)
	return rv, true
}

// HasProxy reports whether the proxy was built.
func (i *Instance) HasProxy() bool {
	i.proxyMu.Lock()
	defer i.proxyMu.Unlock()
	return i.proxy.IsValid()
}

// initProxy builds the proxy through the host constructors of native.
func (i *Instance) initProxy(ctx context.Context, native *NativeClass, args []Value, keywords []string) error {
	if i.HasProxy() {
		return newError(TypeMismatch, "Proxy instance already initialized")
	}

	var rv reflect.Value
	if native.ctor != nil {
		ret, err := native.ctor.Invoke(ctx, nil, args, keywords)
		if err != nil {
			return err
		}
		rv, err = ToHost(ctx, ret, native.host)
		if err != nil {
			return newError(TypeMismatch, "constructor of %s returned '%s'", native.name, className(ret))
		}
	} else {
		if len(args) > 0 || len(keywords) > 0 {
			return newError(TypeMismatch, "%s() takes no arguments", native.name)
		}
		var ok bool
		rv, ok = zeroHost(native.host)
		if !ok {
			return newError(Uninstantiable, "Default constructor failed for host superclass %v", native.host)
		}
	}
	if _, ok := i.publishProxy(rv); !ok {
		return newError(TypeMismatch, "Proxy instance already initialized")
	}
	return nil
}

func (i *Instance) setProxy(rv reflect.Value) {
	i.proxyMu.Lock()
	defer i.proxyMu.Unlock()
	i.setProxyLocked(rv)
}

func (i *Instance) setProxyLocked(rv reflect.Value) {
	i.proxy = rv
	ref := weak.Make(i)
	if rv.CanInterface() {
		if holder, ok := rv.Interface().(InstanceHolder); ok {
			holder.HoldInstance(weak.Make(i))
		} else if rv.CanAddr() {
			if holder, ok := rv.Addr().Interface().(InstanceHolder); ok {
				holder.HoldInstance(weak.Make(i))
			}
		}
	}
	if key, ok := keyOf(rv); ok {
		i.reg.registerProxy(key, ref)
		reg := i.reg
		// the key may be reused by a later instance before this cleanup runs
		runtime.AddCleanup(i, func(key proxyKey) {
			reg.forgetProxy(key, ref)
		}, key)
	}
	i.reg.logger.Debug("proxy attached",
		"class", i.Class().Name(),
		"host", rv.Type(),
	)
}
