package objects

import (
	"context"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Resolver maps dotted host paths to host entities.
// A resolved reflect.Type becomes a class; any other value is converted as a host value.
type Resolver interface {
	Resolve(path string) (any, bool)
	IsPackage(path string) bool
	// Children lists the direct children names of a package path.
	Children(path string) []string
}

// MapResolver is a Resolver over explicitly added entries.
type MapResolver struct {
	mu       sync.RWMutex
	entries  map[string]any
	children map[string][]string
}

var _ Resolver = new(MapResolver)

func NewMapResolver() *MapResolver {
	return &MapResolver{
		entries:  make(map[string]any),
		children: make(map[string][]string),
	}
}

// Add binds path to v; every dotted prefix of path becomes a package.
func (m *MapResolver) Add(path string, v any) *MapResolver {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[path] = v
	for {
		i := strings.LastIndexByte(path, '.')
		parent, name := "", path
		if i >= 0 {
			parent, name = path[:i], path[i+1:]
		}
		if slices.Contains(m.children[parent], name) {
			break
		}
		m.children[parent] = append(m.children[parent], name)
		if i < 0 {
			break
		}
		path = parent
	}
	return m
}

// AddType binds t under its package path and name.
func (m *MapResolver) AddType(t reflect.Type) *MapResolver {
	st := t
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	path := strings.ReplaceAll(st.PkgPath(), "/", ".") + "." + st.Name()
	return m.Add(path, t)
}

func (m *MapResolver) Resolve(path string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[path]
	return v, ok
}

func (m *MapResolver) IsPackage(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.children[path]) > 0
}

func (m *MapResolver) Children(path string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ret := slices.Clone(m.children[path])
	slices.Sort(ret)
	return ret
}

// Package is a lazily resolved namespace of host entities.
type Package struct {
	Object
	reg  *Registry
	path string
}

// Package returns the package value for a dotted path; "" is the root.
func (r *Registry) Package(path string) *Package {
	if v, ok := r.packages.Load(path); ok {
		return v.(*Package)
	}
	v, _ := r.packages.LoadOrStore(path, &Package{
		Object: newObject(r.builtins.package_),
		reg:    r,
		path:   path,
	})
	return v.(*Package)
}

func (p *Package) Path() string {
	return p.path
}

func (p *Package) child(name string) string {
	if p.path == "" {
		return name
	}
	return p.path + "." + name
}

func (p *Package) FindAttr(ctx context.Context, name string) (Value, error) {
	switch name {
	case "__name__":
		return p.reg.Str(p.path), nil
	case "__class__":
		return p.Class(), nil
	case "__all__":
		names := p.reg.resolver.Children(p.path)
		values := make([]Value, 0, len(names))
		for _, name := range names {
			values = append(values, p.reg.Str(name))
		}
		return p.reg.NewList(values...), nil
	}
	path := p.child(name)
	if v, ok := p.reg.resolver.Resolve(path); ok {
		if t, ok := v.(reflect.Type); ok {
			return p.reg.NativeClass(t)
		}
		return p.reg.FromHost(v)
	}
	if p.reg.resolver.IsPackage(path) {
		return p.reg.Package(path), nil
	}
	return nil, nil
}

func (p *Package) SetAttr(ctx context.Context, name string, value Value) error {
	return newError(ReadOnlyMember, "can't set attribute '%s' of package '%s'", name, p.path)
}

// Import resolves a dotted path from the root package.
func (r *Registry) Import(ctx context.Context, path string) (Value, error) {
	var cur Value = r.Package("")
	for name := range strings.SplitSeq(path, ".") {
		next, err := GetAttr(ctx, cur, name)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
