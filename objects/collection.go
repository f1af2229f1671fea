package objects

import (
	"cmp"
	"context"
	"iter"
	"reflect"
	"slices"
)

// CollectionShape classifies host values for the collection protocol.
type CollectionShape uint8

const (
	ShapeNone CollectionShape = iota
	ShapeArray
	ShapeList
	ShapeMap
)

func (s CollectionShape) String() string {
	switch s {
	case ShapeArray:
		return "array"
	case ShapeList:
		return "list"
	case ShapeMap:
		return "map"
	}
	return "none"
}

// HostSequence is implemented by host types exposing indexed elements.
type HostSequence interface {
	Len() int
	At(i int) any
}

// HostMutableSequence is a HostSequence accepting element writes.
type HostMutableSequence interface {
	HostSequence
	SetAt(i int, v any) error
}

// HostMapping is implemented by host types exposing keyed elements.
type HostMapping interface {
	Get(key any) (any, bool)
	Keys() []any
}

var (
	hostSequenceType = reflect.TypeFor[HostSequence]()
	hostMappingType  = reflect.TypeFor[HostMapping]()
)

func classifyShape(rv reflect.Value) CollectionShape {
	if !rv.IsValid() {
		return ShapeNone
	}
	t := rv.Type()
	switch {
	case t.Implements(hostSequenceType):
		return ShapeList
	case t.Implements(hostMappingType):
		return ShapeMap
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return ShapeArray
	case reflect.Map:
		return ShapeMap
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Array {
			return ShapeArray
		}
	}
	return ShapeNone
}

// Shape classifies the proxy once, on first use of the collection protocol.
func (i *Instance) Shape(ctx context.Context) (CollectionShape, error) {
	if hostBase(i.Class()) == nil {
		return ShapeNone, nil
	}
	proxy, err := i.Proxy(ctx)
	if err != nil {
		return ShapeNone, err
	}
	i.shapeOnce.Do(func() {
		i.shape = classifyShape(proxy)
	})
	return i.shape, nil
}

// hostCollection returns the host value backing v's collection protocol, if any.
func hostCollection(ctx context.Context, v Value) (reflect.Value, CollectionShape, error) {
	switch v := v.(type) {
	case *HostObject:
		return v.value, classifyShape(v.value), nil
	case *Instance:
		shape, err := v.Shape(ctx)
		if err != nil || shape == ShapeNone {
			return reflect.Value{}, ShapeNone, err
		}
		proxy, err := v.Proxy(ctx)
		return proxy, shape, err
	}
	return reflect.Value{}, ShapeNone, nil
}

func arrayValue(rv reflect.Value) reflect.Value {
	if rv.Kind() == reflect.Pointer {
		return rv.Elem()
	}
	return rv
}

func normalizeIndex(ctx context.Context, key Value, n int) (int, error) {
	idx, err := As[int](ctx, key)
	if err != nil {
		return 0, newError(TypeMismatch, "indices must be integers, not '%s'", className(key))
	}
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, newError(TypeMismatch, "index out of range: %d", idx)
	}
	return idx, nil
}

func hasMember(v Value, name string) bool {
	if v.Class() == nil {
		return false
	}
	m, _ := v.Class().Lookup(name)
	return m != nil
}

// Len returns the number of elements of v.
func Len(ctx context.Context, v Value) (int, error) {
	switch v := v.(type) {
	case *List:
		return v.Len(), nil
	case *Dict:
		return v.Len(), nil
	case *Str:
		return len(v.V), nil
	}
	rv, shape, err := hostCollection(ctx, v)
	if err != nil {
		return 0, err
	}
	switch shape {
	case ShapeArray:
		return arrayValue(rv).Len(), nil
	case ShapeList:
		return rv.Interface().(HostSequence).Len(), nil
	case ShapeMap:
		if m, ok := rv.Interface().(HostMapping); ok {
			return len(m.Keys()), nil
		}
		return rv.Len(), nil
	}
	if hasMember(v, "__len__") {
		ret, err := CallMethod(ctx, v, "__len__")
		if err != nil {
			return 0, err
		}
		return As[int](ctx, ret)
	}
	return 0, newError(TypeMismatch, "object of type '%s' has no len()", className(v))
}

// GetItem returns v[key].
func GetItem(ctx context.Context, v Value, key Value) (Value, error) {
	switch v := v.(type) {
	case *List:
		idx, err := normalizeIndex(ctx, key, v.Len())
		if err != nil {
			return nil, err
		}
		return v.Index(idx), nil
	case *Dict:
		s, ok := key.(*Str)
		if !ok {
			return nil, newError(TypeMismatch, "dictionary keys must be strings, not '%s'", className(key))
		}
		ret, ok := v.Get(s.V)
		if !ok {
			return nil, newError(AttributeMissing, "key %s not found", Repr(key))
		}
		return ret, nil
	}

	reg := v.Class().registry()
	rv, shape, err := hostCollection(ctx, v)
	if err != nil {
		return nil, err
	}
	switch shape {
	case ShapeArray:
		arr := arrayValue(rv)
		idx, err := normalizeIndex(ctx, key, arr.Len())
		if err != nil {
			return nil, err
		}
		return reg.fromHostValue(arr.Index(idx))
	case ShapeList:
		seq := rv.Interface().(HostSequence)
		idx, err := normalizeIndex(ctx, key, seq.Len())
		if err != nil {
			return nil, err
		}
		return reg.FromHost(seq.At(idx))
	case ShapeMap:
		if m, ok := rv.Interface().(HostMapping); ok {
			k, err := As[any](ctx, key)
			if err != nil {
				return nil, err
			}
			ret, ok := m.Get(k)
			if !ok {
				return nil, newError(AttributeMissing, "key %s not found", Repr(key))
			}
			return reg.FromHost(ret)
		}
		k, err := ToHost(ctx, key, rv.Type().Key())
		if err != nil {
			return nil, newError(TypeMismatch, "cannot use '%s' as %v key", className(key), rv.Type().Key())
		}
		ret := rv.MapIndex(k)
		if !ret.IsValid() {
			return nil, newError(AttributeMissing, "key %s not found", Repr(key))
		}
		return reg.fromHostValue(ret)
	}

	if hasMember(v, "__getitem__") {
		return CallMethod(ctx, v, "__getitem__", key)
	}
	return nil, newError(TypeMismatch, "'%s' object is not subscriptable", className(v))
}

// SetItem performs v[key] = value.
func SetItem(ctx context.Context, v Value, key Value, value Value) error {
	switch v := v.(type) {
	case *List:
		idx, err := normalizeIndex(ctx, key, v.Len())
		if err != nil {
			return err
		}
		return v.SetIndex(idx, value)
	case *Dict:
		s, ok := key.(*Str)
		if !ok {
			return newError(TypeMismatch, "dictionary keys must be strings, not '%s'", className(key))
		}
		v.Set(s.V, value)
		return nil
	}

	rv, shape, err := hostCollection(ctx, v)
	if err != nil {
		return err
	}
	switch shape {
	case ShapeArray:
		arr := arrayValue(rv)
		idx, err := normalizeIndex(ctx, key, arr.Len())
		if err != nil {
			return err
		}
		elem := arr.Index(idx)
		if !elem.CanSet() {
			return newError(ReadOnlyMember, "'%s' object does not support item assignment", className(v))
		}
		ev, err := ToHost(ctx, value, elem.Type())
		if err != nil {
			return newError(TypeMismatch, "cannot assign '%s' to %v element", className(value), elem.Type())
		}
		elem.Set(ev)
		return nil
	case ShapeList:
		seq, ok := rv.Interface().(HostMutableSequence)
		if !ok {
			return newError(ReadOnlyMember, "'%s' object does not support item assignment", className(v))
		}
		idx, err := normalizeIndex(ctx, key, seq.Len())
		if err != nil {
			return err
		}
		ev, err := As[any](ctx, value)
		if err != nil {
			return err
		}
		if err := seq.SetAt(idx, ev); err != nil {
			return hostFailure("SetAt", err)
		}
		return nil
	case ShapeMap:
		if rv.Kind() != reflect.Map {
			return newError(ReadOnlyMember, "'%s' object does not support item assignment", className(v))
		}
		k, err := ToHost(ctx, key, rv.Type().Key())
		if err != nil {
			return newError(TypeMismatch, "cannot use '%s' as %v key", className(key), rv.Type().Key())
		}
		ev, err := ToHost(ctx, value, rv.Type().Elem())
		if err != nil {
			return newError(TypeMismatch, "cannot assign '%s' to %v element", className(value), rv.Type().Elem())
		}
		rv.SetMapIndex(k, ev)
		return nil
	}

	if hasMember(v, "__setitem__") {
		_, err := CallMethod(ctx, v, "__setitem__", key, value)
		return err
	}
	return newError(TypeMismatch, "'%s' object does not support item assignment", className(v))
}

// Iterate yields the elements of v; for mappings, the keys.
func Iterate(ctx context.Context, v Value) iter.Seq2[Value, error] {
	return func(yield func(Value, error) bool) {
		switch v := v.(type) {
		case *List:
			for _, elem := range v.Elems() {
				if !yield(elem, nil) {
					return
				}
			}
			return
		case *Dict:
			reg := v.Class().registry()
			for _, key := range v.Keys() {
				if !yield(reg.Str(key), nil) {
					return
				}
			}
			return
		}

		rv, shape, err := hostCollection(ctx, v)
		if err != nil {
			yield(nil, err)
			return
		}
		if shape != ShapeNone {
			iterateHost(v.Class().registry(), rv, shape, yield)
			return
		}

		if hasMember(v, "__iter__") {
			it, err := CallMethod(ctx, v, "__iter__")
			if err != nil {
				yield(nil, err)
				return
			}
			if it == v {
				yield(nil, newError(TypeMismatch, "'%s' object iterates to itself", className(v)))
				return
			}
			for elem, err := range Iterate(ctx, it) {
				if !yield(elem, err) || err != nil {
					return
				}
			}
			return
		}

		if hasMember(v, "__len__") && hasMember(v, "__getitem__") {
			reg := v.Class().registry()
			n, err := Len(ctx, v)
			if err != nil {
				yield(nil, err)
				return
			}
			for i := range n {
				elem, err := CallMethod(ctx, v, "__getitem__", reg.Int(int64(i)))
				if !yield(elem, err) || err != nil {
					return
				}
			}
			return
		}

		yield(nil, newError(TypeMismatch, "'%s' object is not iterable", className(v)))
	}
}

func iterateHost(reg *Registry, rv reflect.Value, shape CollectionShape, yield func(Value, error) bool) {
	switch shape {
	case ShapeArray:
		arr := arrayValue(rv)
		for i := range arr.Len() {
			if !yield(reg.fromHostValue(arr.Index(i))) {
				return
			}
		}
	case ShapeList:
		seq := rv.Interface().(HostSequence)
		for i := range seq.Len() {
			if !yield(reg.FromHost(seq.At(i))) {
				return
			}
		}
	case ShapeMap:
		if m, ok := rv.Interface().(HostMapping); ok {
			for _, key := range m.Keys() {
				if !yield(reg.FromHost(key)) {
					return
				}
			}
			return
		}
		keys := rv.MapKeys()
		slices.SortFunc(keys, compareMapKeys)
		for _, key := range keys {
			if !yield(reg.fromHostValue(key)) {
				return
			}
		}
	}
}

// compareMapKeys orders keys of basic kinds; other kinds keep map order.
func compareMapKeys(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.String:
		return cmp.Compare(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	}
	return 0
}
