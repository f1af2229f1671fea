package objects

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"weak"

	"github.com/reusee/hostobj/logs"
)

// Registry owns every class descriptor of a runtime.
// Native classes and host type objects are built once per host type and published only when complete.
type Registry struct {
	logger   logs.Logger
	config   Config
	resolver Resolver

	// mu serializes descriptor construction and bootstrap
	mu             sync.Mutex
	descs          map[reflect.Type]HostClass
	proxyFactories map[reflect.Type]ProxyFactory

	natives  sync.Map // reflect.Type -> *NativeClass
	types    sync.Map // reflect.Type -> *TypeObject
	proxies  sync.Map // proxy key -> weak.Pointer[Instance]
	packages sync.Map // path -> *Package

	builtins       builtinTypes
	none           *NoneType
	notImplemented *NotImplementedType
	true_          *Bool
	false_         *Bool
}

type builtinTypes struct {
	type_          *TypeObject
	object         *TypeObject
	int            *TypeObject
	float          *TypeObject
	str            *TypeObject
	bool           *TypeObject
	none           *TypeObject
	notImplemented *TypeObject
	list           *TypeObject
	dict           *TypeObject
	field          *TypeObject
	property       *TypeObject
	overloads      *TypeObject
	constructor    *TypeObject
	function       *TypeObject
	boundMethod    *TypeObject
	classobj       *TypeObject
	nativeClass    *TypeObject
	package_       *TypeObject
}

// ProxyFactory builds the host value standing in for a guest instance whose class derives from a host type.
type ProxyFactory func(inst *Instance) (any, error)

func NewRegistry(logger logs.Logger, config Config, resolver Resolver) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if resolver == nil {
		resolver = NewMapResolver()
	}
	r := &Registry{
		logger:         logger,
		config:         config.withDefaults(),
		resolver:       resolver,
		descs:          make(map[reflect.Type]HostClass),
		proxyFactories: make(map[reflect.Type]ProxyFactory),
	}
	r.bootstrap()
	return r
}

var Default = sync.OnceValue(func() *Registry {
	return NewRegistry(nil, DefaultConfig(), nil)
})

func (r *Registry) Logger() logs.Logger {
	return r.logger
}

func (r *Registry) Config() Config {
	return r.config
}

func (r *Registry) superPrefix() string {
	return r.config.SuperPrefix
}

// bootstrap creates the foundational types in two passes:
// allocation without class pointers, then class pointer backfill and member attachment.
func (r *Registry) bootstrap() {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := &r.builtins
	b.object = r.rawType("object", nil)
	b.type_ = r.rawType("type", b.object)
	all := []**TypeObject{
		&b.int, &b.float, &b.str, &b.bool, &b.none, &b.notImplemented,
		&b.list, &b.dict, &b.field, &b.property, &b.overloads, &b.constructor,
		&b.function, &b.boundMethod, &b.classobj, &b.nativeClass, &b.package_,
	}
	names := []string{
		"int", "float", "str", "bool", "NoneType", "NotImplementedType",
		"list", "dict", "field", "property", "overloads", "constructor",
		"function", "instancemethod", "classobj", "nativeclass", "package",
	}
	for i, p := range all {
		*p = r.rawType(names[i], b.object)
	}

	// second pass
	types := []*TypeObject{b.object, b.type_}
	for _, p := range all {
		types = append(types, *p)
	}
	for _, t := range types {
		t.setClass(b.type_)
		t.builtin = true
		if t != b.object && t != b.list && t != b.dict {
			t.uninstantiable = true
		}
	}
	b.object.ns.Set("__new__", PlainValue{Value: r.NewFunction("__new__", r.objectNew)})
	b.list.ns.Set("__new__", PlainValue{Value: r.NewFunction("__new__", r.listNew)})
	b.dict.ns.Set("__new__", PlainValue{Value: r.NewFunction("__new__", r.dictNew)})
	r.none = &NoneType{Object: newObject(b.none)}
	r.notImplemented = &NotImplementedType{Object: newObject(b.notImplemented)}
	r.true_ = &Bool{Object: newObject(b.bool), V: true}
	r.false_ = &Bool{Object: newObject(b.bool), V: false}

	for _, t := range types {
		if t.Class() == nil {
			panic(fmt.Errorf("objects: malformed bootstrap: %s has no metatype", t.name))
		}
	}
	r.logger.Debug("objects bootstrapped", "types", len(types))
}

// Register records host class descriptors used when their types are first needed.
func (r *Registry) Register(classes ...HostClass) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, hc := range classes {
		if hc.Type == nil {
			return fmt.Errorf("register %s: no host type", hc.Name)
		}
		if _, ok := r.natives.Load(hc.Type); ok {
			return fmt.Errorf("register %s: %v already built", hc.Name, hc.Type)
		}
		if _, ok := r.types.Load(hc.Type); ok {
			return fmt.Errorf("register %s: %v already built", hc.Name, hc.Type)
		}
		r.descs[hc.Type] = hc
	}
	return nil
}

// RegisterProxy sets how proxies are built for guest classes deriving from t.
func (r *Registry) RegisterProxy(t reflect.Type, factory ProxyFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.proxyFactories[t] = factory
}

func (r *Registry) proxyFactory(t reflect.Type) ProxyFactory {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.proxyFactories[t]
}

// builder holds descriptors under construction.
// They are visible to the constructing goroutine only, and published together once complete.
type builder struct {
	r       *Registry
	natives map[reflect.Type]*NativeClass
	types   map[reflect.Type]*TypeObject
	order   []Class
}

func (r *Registry) build(fn func(b *builder) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := &builder{
		r:       r,
		natives: make(map[reflect.Type]*NativeClass),
		types:   make(map[reflect.Type]*TypeObject),
	}
	if err := fn(b); err != nil {
		return err
	}
	for _, c := range b.order {
		if r.config.Strict {
			checkClass(c)
		}
		switch c := c.(type) {
		case *NativeClass:
			r.natives.Store(c.host, c)
		case *TypeObject:
			r.types.Store(c.host, c)
		}
		r.logger.Debug("class published",
			"name", c.Name(),
			"kind", c.Kind(),
			"members", c.Namespace().Len(),
		)
	}
	return nil
}

func (r *Registry) describe(t reflect.Type) HostClass {
	if hc, ok := r.descs[t]; ok {
		return hc
	}
	return HostClass{
		Type:       t,
		Introspect: true,
	}
}

// NativeClass returns the descriptor mirroring t, building it on first use.
func (r *Registry) NativeClass(t reflect.Type) (*NativeClass, error) {
	if v, ok := r.natives.Load(t); ok {
		return v.(*NativeClass), nil
	}
	var ret *NativeClass
	err := r.build(func(b *builder) (err error) {
		ret, err = b.native(t)
		return
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// TypeObject returns the linear-MRO type object mirroring t, building it on first use.
func (r *Registry) TypeObject(t reflect.Type) (*TypeObject, error) {
	if v, ok := r.types.Load(t); ok {
		return v.(*TypeObject), nil
	}
	var ret *TypeObject
	err := r.build(func(b *builder) (err error) {
		ret, err = b.typeObject(t)
		return
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Builtin returns a foundational type by name.
func (r *Registry) Builtin(name string) (*TypeObject, bool) {
	b := &r.builtins
	for _, t := range []*TypeObject{
		b.object, b.type_, b.int, b.float, b.str, b.bool, b.none, b.list, b.dict,
	} {
		if t.name == name {
			return t, true
		}
	}
	return nil, false
}

func (r *Registry) registerProxy(key any, ref weak.Pointer[Instance]) {
	r.proxies.Store(key, ref)
}

// forgetProxy drops the entry for key if it still belongs to ref.
func (r *Registry) forgetProxy(key any, ref weak.Pointer[Instance]) {
	r.proxies.CompareAndDelete(key, ref)
}

func (r *Registry) proxyOwner(key any) *Instance {
	v, ok := r.proxies.Load(key)
	if !ok {
		return nil
	}
	ref := v.(weak.Pointer[Instance])
	inst := ref.Value()
	if inst == nil {
		r.forgetProxy(key, ref)
	}
	return inst
}

// checkClass asserts descriptor invariants in strict mode.
func checkClass(c Class) {
	ns := c.Namespace()
	for _, name := range ns.Names() {
		m, _ := ns.Get(name)
		g, ok := m.(*OverloadGroup)
		if !ok {
			continue
		}
		sigs := g.Signatures()
		for i := 1; i < len(sigs); i++ {
			if sigs[i].Compare(sigs[i-1]) == Before {
				panic(fmt.Errorf("objects: %s.%s: %v ordered after %v", c.Name(), name, sigs[i], sigs[i-1]))
			}
		}
	}
}
