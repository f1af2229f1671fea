package objects

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"sync"
)

type Int struct {
	Object
	V int64
}

type Float struct {
	Object
	V float64
}

type Str struct {
	Object
	V string
}

type Bool struct {
	Object
	V bool
}

type NoneType struct {
	Object
}

// NotImplementedType is returned by operator slots declining an operand pair.
type NotImplementedType struct {
	Object
}

type List struct {
	Object
	mu    sync.RWMutex
	elems []Value
}

// Dict is a string-keyed mapping, also used as instance namespaces.
type Dict struct {
	Object
	mu      sync.RWMutex
	entries map[string]Value
	order   []string
}

func (r *Registry) Int(v int64) *Int {
	return &Int{
		Object: newObject(r.builtins.int),
		V:      v,
	}
}

func (r *Registry) Float(v float64) *Float {
	return &Float{
		Object: newObject(r.builtins.float),
		V:      v,
	}
}

func (r *Registry) Str(v string) *Str {
	return &Str{
		Object: newObject(r.builtins.str),
		V:      v,
	}
}

func (r *Registry) Bool(v bool) *Bool {
	if v {
		return r.true_
	}
	return r.false_
}

func (r *Registry) None() *NoneType {
	return r.none
}

func (r *Registry) NotImplemented() *NotImplementedType {
	return r.notImplemented
}

func (r *Registry) NewList(elems ...Value) *List {
	return &List{
		Object: newObject(r.builtins.list),
		elems:  slices.Clone(elems),
	}
}

func (r *Registry) NewDict() *Dict {
	return &Dict{
		Object:  newObject(r.builtins.dict),
		entries: make(map[string]Value),
	}
}

func (s *Str) String() string {
	return s.V
}

func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.elems)
}

func (l *List) Index(i int) Value {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.elems[i]
}

func (l *List) Elems() []Value {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.elems)
}

func (l *List) Append(v Value) {
	l.mu.Lock()
	l.elems = append(l.elems, v)
	l.mu.Unlock()
}

func (l *List) SetIndex(i int, v Value) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 {
		i += len(l.elems)
	}
	if i < 0 || i >= len(l.elems) {
		return newError(TypeMismatch, "list index %d out of range", i)
	}
	l.elems[i] = v
	return nil
}

func (d *Dict) Get(key string) (Value, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.entries[key]
	return v, ok
}

func (d *Dict) Set(key string, v Value) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries[key]; !ok {
		d.order = append(d.order, key)
	}
	d.entries[key] = v
}

func (d *Dict) Delete(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.entries[key]; !ok {
		return false
	}
	delete(d.entries, key)
	d.order = slices.DeleteFunc(d.order, func(s string) bool {
		return s == key
	})
	return true
}

func (d *Dict) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.order)
}

func (d *Dict) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// host conversions

func (i *Int) ToHost(ctx context.Context, t reflect.Type) (reflect.Value, error) {
	rv := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.OverflowInt(i.V) {
			return rv, ErrNoConversion
		}
		rv.SetInt(i.V)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if i.V < 0 || rv.OverflowUint(uint64(i.V)) {
			return rv, ErrNoConversion
		}
		rv.SetUint(uint64(i.V))
	case reflect.Float32, reflect.Float64:
		rv.SetFloat(float64(i.V))
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return rv, ErrNoConversion
		}
		rv.Set(reflect.ValueOf(i.V))
	default:
		return rv, ErrNoConversion
	}
	return rv, nil
}

func (f *Float) ToHost(ctx context.Context, t reflect.Type) (reflect.Value, error) {
	rv := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Float32:
		if rv.OverflowFloat(f.V) {
			return rv, ErrNoConversion
		}
		rv.SetFloat(f.V)
	case reflect.Float64:
		rv.SetFloat(f.V)
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return rv, ErrNoConversion
		}
		rv.Set(reflect.ValueOf(f.V))
	default:
		return rv, ErrNoConversion
	}
	return rv, nil
}

func (s *Str) ToHost(ctx context.Context, t reflect.Type) (reflect.Value, error) {
	rv := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		rv.SetString(s.V)
	case reflect.Slice:
		if t.Elem().Kind() != reflect.Uint8 {
			return rv, ErrNoConversion
		}
		rv.SetBytes([]byte(s.V))
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return rv, ErrNoConversion
		}
		rv.Set(reflect.ValueOf(s.V))
	default:
		return rv, ErrNoConversion
	}
	return rv, nil
}

func (b *Bool) ToHost(ctx context.Context, t reflect.Type) (reflect.Value, error) {
	rv := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Bool:
		rv.SetBool(b.V)
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return rv, ErrNoConversion
		}
		rv.Set(reflect.ValueOf(b.V))
	default:
		return rv, ErrNoConversion
	}
	return rv, nil
}

func (n *NoneType) ToHost(ctx context.Context, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return reflect.Zero(t), nil
	}
	return reflect.Value{}, ErrNoConversion
}

func (l *List) ToHost(ctx context.Context, t reflect.Type) (reflect.Value, error) {
	elems := l.Elems()
	switch t.Kind() {
	case reflect.Slice:
		rv := reflect.MakeSlice(t, len(elems), len(elems))
		for i, elem := range elems {
			ev, err := ToHost(ctx, elem, t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			rv.Index(i).Set(ev)
		}
		return rv, nil
	case reflect.Array:
		if t.Len() != len(elems) {
			return reflect.Value{}, ErrNoConversion
		}
		rv := reflect.New(t).Elem()
		for i, elem := range elems {
			ev, err := ToHost(ctx, elem, t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			rv.Index(i).Set(ev)
		}
		return rv, nil
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return reflect.Value{}, ErrNoConversion
		}
		sv, err := l.ToHost(ctx, anySliceType)
		if err != nil {
			return reflect.Value{}, err
		}
		rv := reflect.New(t).Elem()
		rv.Set(sv)
		return rv, nil
	}
	return reflect.Value{}, ErrNoConversion
}

func (d *Dict) ToHost(ctx context.Context, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return reflect.Value{}, ErrNoConversion
		}
		rv := reflect.MakeMapWithSize(t, d.Len())
		for _, key := range d.Keys() {
			v, _ := d.Get(key)
			ev, err := ToHost(ctx, v, t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			rv.SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), ev)
		}
		return rv, nil
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return reflect.Value{}, ErrNoConversion
		}
		mv, err := d.ToHost(ctx, reflect.TypeFor[map[string]any]())
		if err != nil {
			return reflect.Value{}, err
		}
		rv := reflect.New(t).Elem()
		rv.Set(mv)
		return rv, nil
	}
	return reflect.Value{}, ErrNoConversion
}

// coercion

func (i *Int) Coerce(ctx context.Context, other Value) (Coercion, error) {
	switch o := other.(type) {
	case *Int:
		return Coercion{Kind: CoerceUnchanged}, nil
	case *Float:
		reg := i.class.registry()
		return Coercion{
			Kind:  CoerceReplaceBoth,
			Left:  reg.Float(float64(i.V)),
			Right: o,
		}, nil
	}
	return Coercion{Kind: CoerceDeclined}, nil
}

func (f *Float) Coerce(ctx context.Context, other Value) (Coercion, error) {
	switch o := other.(type) {
	case *Float:
		return Coercion{Kind: CoerceUnchanged}, nil
	case *Int:
		return Coercion{
			Kind:  CoerceReplaceRight,
			Right: f.class.registry().Float(float64(o.V)),
		}, nil
	}
	return Coercion{Kind: CoerceDeclined}, nil
}

// operator slots

func (i *Int) BinarySlot(ctx context.Context, op Op, reflected bool, other Value) (Value, bool, error) {
	o, ok := other.(*Int)
	if !ok {
		return nil, false, nil
	}
	a, b := i.V, o.V
	if reflected {
		a, b = b, a
	}
	reg := i.class.registry()
	switch op {
	case OpAdd:
		return reg.Int(a + b), true, nil
	case OpSub:
		return reg.Int(a - b), true, nil
	case OpMul:
		return reg.Int(a * b), true, nil
	case OpDiv, OpFloorDiv, OpMod, OpDivMod:
		if b == 0 {
			return nil, true, newError(TypeMismatch, "integer division or modulo by zero")
		}
		q, m := a/b, a%b
		if m != 0 && (m < 0) != (b < 0) {
			q--
			m += b
		}
		switch op {
		case OpMod:
			return reg.Int(m), true, nil
		case OpDivMod:
			return reg.NewList(reg.Int(q), reg.Int(m)), true, nil
		}
		return reg.Int(q), true, nil
	case OpTrueDiv:
		if b == 0 {
			return nil, true, newError(TypeMismatch, "division by zero")
		}
		return reg.Float(float64(a) / float64(b)), true, nil
	case OpPow:
		if b < 0 {
			return reg.Float(math.Pow(float64(a), float64(b))), true, nil
		}
		ret, ok := powInt(a, b)
		if !ok {
			return nil, true, newError(TypeMismatch, "integer overflow in %d ** %d", a, b)
		}
		return reg.Int(ret), true, nil
	case OpLShift, OpRShift:
		if b < 0 {
			return nil, true, newError(TypeMismatch, "negative shift count")
		}
		if op == OpRShift {
			return reg.Int(a >> b), true, nil
		}
		ret := a << b
		if ret>>b != a {
			return nil, true, newError(TypeMismatch, "integer overflow in %d << %d", a, b)
		}
		return reg.Int(ret), true, nil
	case OpAnd:
		return reg.Int(a & b), true, nil
	case OpOr:
		return reg.Int(a | b), true, nil
	case OpXor:
		return reg.Int(a ^ b), true, nil
	}
	return nil, false, nil
}

// powInt computes a**b for b >= 0 by squaring. ok is false on overflow.
func powInt(a, b int64) (ret int64, ok bool) {
	ret = 1
	for b > 0 {
		if b&1 == 1 {
			if ret, ok = mulInt(ret, a); !ok {
				return 0, false
			}
		}
		b >>= 1
		if b > 0 {
			if a, ok = mulInt(a, a); !ok {
				return 0, false
			}
		}
	}
	return ret, true
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	ret := a * b
	if ret/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	return ret, true
}

func (f *Float) BinarySlot(ctx context.Context, op Op, reflected bool, other Value) (Value, bool, error) {
	o, ok := other.(*Float)
	if !ok {
		return nil, false, nil
	}
	a, b := f.V, o.V
	if reflected {
		a, b = b, a
	}
	reg := f.class.registry()
	switch op {
	case OpAdd:
		return reg.Float(a + b), true, nil
	case OpSub:
		return reg.Float(a - b), true, nil
	case OpMul:
		return reg.Float(a * b), true, nil
	case OpDiv, OpTrueDiv:
		if b == 0 {
			return nil, true, newError(TypeMismatch, "float division by zero")
		}
		return reg.Float(a / b), true, nil
	case OpFloorDiv:
		if b == 0 {
			return nil, true, newError(TypeMismatch, "float division by zero")
		}
		return reg.Float(math.Floor(a / b)), true, nil
	case OpMod:
		if b == 0 {
			return nil, true, newError(TypeMismatch, "float modulo")
		}
		return reg.Float(a - math.Floor(a/b)*b), true, nil
	case OpPow:
		return reg.Float(math.Pow(a, b)), true, nil
	}
	return nil, false, nil
}

func (s *Str) BinarySlot(ctx context.Context, op Op, reflected bool, other Value) (Value, bool, error) {
	reg := s.class.registry()
	switch op {
	case OpAdd:
		o, ok := other.(*Str)
		if !ok {
			return nil, false, nil
		}
		if reflected {
			return reg.Str(o.V + s.V), true, nil
		}
		return reg.Str(s.V + o.V), true, nil
	case OpMul:
		n, ok := other.(*Int)
		if !ok {
			return nil, false, nil
		}
		return reg.Str(strings.Repeat(s.V, int(max(n.V, 0)))), true, nil
	}
	return nil, false, nil
}

func (l *List) BinarySlot(ctx context.Context, op Op, reflected bool, other Value) (Value, bool, error) {
	if op != OpAdd {
		return nil, false, nil
	}
	o, ok := other.(*List)
	if !ok {
		return nil, false, nil
	}
	a, b := l.Elems(), o.Elems()
	if reflected {
		a, b = b, a
	}
	return l.class.registry().NewList(append(a, b...)...), true, nil
}

// comparison slots

func (i *Int) Cmp(ctx context.Context, other Value) (int, bool, error) {
	o, ok := other.(*Int)
	if !ok {
		return 0, false, nil
	}
	return cmp.Compare(i.V, o.V), true, nil
}

func (f *Float) Cmp(ctx context.Context, other Value) (int, bool, error) {
	o, ok := other.(*Float)
	if !ok {
		return 0, false, nil
	}
	return cmp.Compare(f.V, o.V), true, nil
}

func (s *Str) Cmp(ctx context.Context, other Value) (int, bool, error) {
	o, ok := other.(*Str)
	if !ok {
		return 0, false, nil
	}
	return cmp.Compare(s.V, o.V), true, nil
}

func (b *Bool) Cmp(ctx context.Context, other Value) (int, bool, error) {
	o, ok := other.(*Bool)
	if !ok {
		return 0, false, nil
	}
	switch {
	case b.V == o.V:
		return 0, true, nil
	case !b.V:
		return -1, true, nil
	}
	return 1, true, nil
}

// Repr renders builtin values for diagnostics and the debug bridge.
func Repr(v Value) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case *Int:
		return strconv.FormatInt(v.V, 10)
	case *Float:
		return strconv.FormatFloat(v.V, 'g', -1, 64)
	case *Str:
		return strconv.Quote(v.V)
	case *Bool:
		if v.V {
			return "True"
		}
		return "False"
	case *NoneType:
		return "None"
	case *NotImplementedType:
		return "NotImplemented"
	case *List:
		parts := make([]string, 0, v.Len())
		for _, e := range v.Elems() {
			parts = append(parts, Repr(e))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *Dict:
		parts := make([]string, 0, v.Len())
		for _, key := range v.Keys() {
			e, _ := v.Get(key)
			parts = append(parts, strconv.Quote(key)+": "+Repr(e))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case Class:
		return fmt.Sprintf("<class '%s'>", v.Name())
	case *HostObject:
		return fmt.Sprintf("<%s object %v>", v.Class().Name(), v.value)
	}
	return fmt.Sprintf("<%s object at %d>", className(v), v.ID())
}
