package objects

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

type ClassKind uint8

const (
	ScriptClassKind ClassKind = iota + 1
	NativeClassKind
	TypeObjectKind
)

func (k ClassKind) String() string {
	switch k {
	case ScriptClassKind:
		return "script"
	case NativeClassKind:
		return "native"
	case TypeObjectKind:
		return "type"
	}
	return fmt.Sprintf("ClassKind(%d)", k)
}

type Linearization uint8

const (
	DepthFirstBases Linearization = iota + 1
	LinearMRO
)

// Class is implemented by *ScriptClass, *NativeClass and *TypeObject only.
type Class interface {
	Value
	Name() string
	Module() string
	Kind() ClassKind
	Linearization() Linearization
	Bases() []Class
	Namespace() *Namespace
	// Lookup finds a member by name following the variant's linearization.
	// It returns the member and the class whose namespace holds it.
	Lookup(name string) (Member, Class)
	// HostType is the backing host type, nil for classes without one.
	HostType() reflect.Type
	registry() *Registry
	isClass()
}

// Namespace maps names to members. The map itself is never replaced once the owning class is published.
type Namespace struct {
	mu      sync.RWMutex
	members map[string]Member
	order   []string
}

// nsGeneration changes on every namespace mutation.
var nsGeneration atomic.Uint64

func NewNamespace() *Namespace {
	return &Namespace{
		members: make(map[string]Member),
	}
}

func (n *Namespace) Get(name string) (Member, bool) {
	n.mu.RLock()
	m, ok := n.members[name]
	n.mu.RUnlock()
	return m, ok
}

func (n *Namespace) Set(name string, m Member) {
	n.mu.Lock()
	if _, ok := n.members[name]; !ok {
		n.order = append(n.order, name)
	}
	n.members[name] = m
	n.mu.Unlock()
	nsGeneration.Add(1)
}

func (n *Namespace) Delete(name string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok := n.members[name]; !ok {
		return false
	}
	delete(n.members, name)
	nsGeneration.Add(1)
	n.order = slices.DeleteFunc(n.order, func(s string) bool {
		return s == name
	})
	return true
}

// Names returns member names in insertion order.
func (n *Namespace) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Clone(n.order)
}

func (n *Namespace) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.members)
}

// IsSubclass reports whether c is base or inherits from it.
func IsSubclass(c, base Class) bool {
	if c == base {
		return true
	}
	if t, ok := c.(*TypeObject); ok {
		return slices.Contains(t.mro, base)
	}
	for _, b := range c.Bases() {
		if IsSubclass(b, base) {
			return true
		}
	}
	return false
}

// Ancestry lists c and the classes it inherits from in lookup order, each once.
func Ancestry(c Class) []Class {
	if t, ok := c.(*TypeObject); ok {
		return t.MRO()
	}
	var ret []Class
	var walk func(Class)
	walk = func(c Class) {
		if slices.Contains(ret, c) {
			return
		}
		ret = append(ret, c)
		for _, b := range c.Bases() {
			walk(b)
		}
	}
	walk(c)
	return ret
}

// hostBase returns the nearest host type backing c or one of its bases.
func hostBase(c Class) reflect.Type {
	if sc, ok := c.(*ScriptClass); ok {
		return sc.host
	}
	if t := c.HostType(); t != nil {
		return t
	}
	for _, b := range c.Bases() {
		if t := hostBase(b); t != nil {
			return t
		}
	}
	return nil
}
