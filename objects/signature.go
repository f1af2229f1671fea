package objects

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"strings"
)

// Convention is the calling convention of a host signature.
type Convention uint8

const (
	Standard Convention = iota
	// VarargArray receives all guest arguments as one []Value.
	VarargArray
	// VarargArrayWithKeywords receives []Value plus the keyword names of the trailing values.
	VarargArrayWithKeywords
)

func (c Convention) String() string {
	switch c {
	case VarargArray:
		return "varargs"
	case VarargArrayWithKeywords:
		return "varargs+keywords"
	}
	return "standard"
}

// Signature is one host-callable shape. It is immutable after construction.
type Signature struct {
	name        string
	fn          reflect.Value
	method      string
	declaring   reflect.Type
	params      []reflect.Type
	static      bool
	variadic    bool
	withContext bool
	convention  Convention
	numOut      int
	returnsErr  bool
}

// NewSignature describes fn as a guest-callable overload.
// Instance signatures take the receiver as the first parameter of fn and declare on its type.
// Static signatures declare on the declaring type given.
func NewSignature(name string, fn any, declaring reflect.Type, static bool) (*Signature, error) {
	fnValue, ok := fn.(reflect.Value)
	if !ok {
		fnValue = reflect.ValueOf(fn)
	}
	if fnValue.Kind() != reflect.Func {
		return nil, fmt.Errorf("signature %s: not a function: %v", name, fnValue.Type())
	}
	fnType := fnValue.Type()
	sig := &Signature{
		name:     name,
		fn:       fnValue,
		static:   static,
		variadic: fnType.IsVariadic(),
	}
	in := make([]reflect.Type, 0, fnType.NumIn())
	for i := range fnType.NumIn() {
		in = append(in, fnType.In(i))
	}
	if !static {
		if len(in) == 0 {
			return nil, fmt.Errorf("signature %s: instance method without receiver", name)
		}
		sig.declaring = in[0]
		in = in[1:]
	} else {
		sig.declaring = declaring
	}
	sig.setParams(in, fnType)
	return sig, nil
}

// newInterfaceSignature describes a method of an interface type, invoked by name on the receiver.
func newInterfaceSignature(name string, iface reflect.Type, m reflect.Method) *Signature {
	sig := &Signature{
		name:      name,
		method:    m.Name,
		declaring: iface,
		variadic:  m.Type.IsVariadic(),
	}
	in := make([]reflect.Type, 0, m.Type.NumIn())
	for i := range m.Type.NumIn() {
		in = append(in, m.Type.In(i))
	}
	sig.setParams(in, m.Type)
	return sig
}

func (s *Signature) setParams(in []reflect.Type, fnType reflect.Type) {
	if len(in) > 0 && in[0] == contextType {
		s.withContext = true
		in = in[1:]
	}
	s.params = in
	if !s.variadic {
		switch {
		case len(in) == 1 && in[0] == valuesType:
			s.convention = VarargArray
		case len(in) == 2 && in[0] == valuesType && in[1] == keywordsType:
			s.convention = VarargArrayWithKeywords
		}
	}
	s.numOut = fnType.NumOut()
	if s.numOut > 0 && fnType.Out(s.numOut-1) == errorType {
		s.returnsErr = true
	}
}

func (s *Signature) Name() string {
	return s.name
}

func (s *Signature) Params() []reflect.Type {
	return s.params
}

func (s *Signature) Declaring() reflect.Type {
	return s.declaring
}

func (s *Signature) Static() bool {
	return s.static
}

func (s *Signature) Convention() Convention {
	return s.convention
}

func (s *Signature) String() string {
	buf := new(strings.Builder)
	if s.static {
		buf.WriteString("static ")
	}
	fmt.Fprintf(buf, "%v.%s(", s.declaring, s.name)
	for i, p := range s.params {
		if i > 0 {
			buf.WriteString(", ")
		}
		if s.variadic && i == len(s.params)-1 {
			fmt.Fprintf(buf, "...%v", p.Elem())
			continue
		}
		buf.WriteString(p.String())
	}
	buf.WriteString(")")
	return buf.String()
}

// Order is the result of comparing two signatures for specificity.
type Order int

const (
	Before  Order = -1
	Same    Order = 0
	After   Order = 1
	Replace Order = 2
)

// Compare orders s relative to other, Before meaning s is tried first.
// Replace means s supersedes other.
func (s *Signature) Compare(other *Signature) Order {
	if s.convention != other.convention {
		if other.convention < s.convention {
			return Before
		}
		return After
	}

	n := len(s.params)
	if n < len(other.params) {
		return Before
	}
	if n > len(other.params) {
		return After
	}

	if s.static && !other.static {
		return After
	}
	if !s.static && other.static {
		return Before
	}

	diff := 0
	for i := range n {
		tmp := compareTypes(s.params[i], other.params[i])
		if tmp == 2 || tmp == -2 {
			diff = tmp
		}
		if diff == 0 {
			diff = tmp
		}
	}
	if diff > 0 {
		return After
	}
	if diff < 0 {
		return Before
	}

	if s.variadic != other.variadic {
		if other.variadic {
			return Before
		}
		return After
	}

	if s.declaring == other.declaring {
		return Same
	}
	if derives(s.declaring, other.declaring) {
		if s.static {
			return Before
		}
		return Replace
	}
	if derives(other.declaring, s.declaring) {
		if s.static {
			return After
		}
		return Same
	}
	return Same
}

// precedence ranks host parameter types, lower being more specific.
func precedence(t reflect.Type) int {
	switch t.Kind() {
	case reflect.Int64:
		return 10
	case reflect.Int:
		return 11
	case reflect.Int32:
		return 12
	case reflect.Int16:
		return 13
	case reflect.Int8:
		return 14
	case reflect.Uint64:
		return 15
	case reflect.Uint:
		return 16
	case reflect.Uint32:
		return 17
	case reflect.Uint16:
		return 18
	case reflect.Uint8, reflect.Uintptr:
		return 19
	case reflect.Float64:
		return 20
	case reflect.Float32:
		return 21
	case reflect.Bool:
		return 30
	case reflect.String:
		return 40
	case reflect.Slice, reflect.Array:
		if t.Elem() == anyType {
			return 2500
		}
		return 100 + precedence(t.Elem())
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return 3000
		}
	}
	return 2000
}

// compareTypes returns 0 for equal types, ±1 for unimportant and ±2 for significant differences.
func compareTypes(a, b reflect.Type) int {
	p1, p2 := precedence(a), precedence(b)
	if p1 >= 2000 && p2 >= 2000 {
		if derives(b, a) {
			if derives(a, b) {
				return 0
			}
			return 2
		}
		if derives(a, b) {
			return -2
		}
		return orderUnrelated(a, b)
	}
	switch {
	case p1 > p2:
		return 2
	case p1 == p2:
		return 0
	}
	return -2
}

// orderUnrelated breaks ties between unrelated types by name, then import path.
// Distinct types sharing both, such as types local to different functions, fall back to identity.
func orderUnrelated(a, b reflect.Type) int {
	if c := cmp.Compare(a.String(), b.String()); c != 0 {
		return c
	}
	if c := cmp.Compare(qualifiedName(a), qualifiedName(b)); c != 0 {
		return c
	}
	if a == b {
		return 0
	}
	return cmp.Compare(reflect.ValueOf(a).Pointer(), reflect.ValueOf(b).Pointer())
}

func qualifiedName(t reflect.Type) string {
	if t.Name() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + qualifiedName(t.Elem())
	case reflect.Slice:
		return "[]" + qualifiedName(t.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), qualifiedName(t.Elem()))
	case reflect.Chan:
		return "chan " + qualifiedName(t.Elem())
	case reflect.Map:
		return "map[" + qualifiedName(t.Key()) + "]" + qualifiedName(t.Elem())
	}
	return t.String()
}

// derives reports whether values of sub are usable where super is expected,
// through assignability or struct embedding.
func derives(sub, super reflect.Type) bool {
	if sub == nil || super == nil {
		return false
	}
	if sub == super || sub.AssignableTo(super) {
		return true
	}
	_, ok := embeddingPath(sub, super)
	return ok
}

// embeddingPath finds the field index path reaching an embedded super inside sub.
func embeddingPath(sub, super reflect.Type) ([]int, bool) {
	type item struct {
		t    reflect.Type
		path []int
	}
	start := sub
	if start.Kind() == reflect.Pointer {
		start = start.Elem()
	}
	if start.Kind() != reflect.Struct {
		return nil, false
	}
	queue := []item{{t: start}}
	seen := map[reflect.Type]bool{start: true}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for i := range cur.t.NumField() {
			f := cur.t.Field(i)
			if !f.Anonymous {
				continue
			}
			path := append(append([]int(nil), cur.path...), i)
			ft := f.Type
			if ft == super || (ft.Kind() != reflect.Pointer && reflect.PointerTo(ft) == super) {
				return path, true
			}
			if super.Kind() == reflect.Interface && ft.Implements(super) {
				return path, true
			}
			inner := ft
			if inner.Kind() == reflect.Pointer {
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct && !seen[inner] {
				seen[inner] = true
				queue = append(queue, item{t: inner, path: path})
			}
		}
	}
	return nil, false
}

// invoke calls the host function with already converted arguments.
func (s *Signature) invoke(ctx context.Context, reg *Registry, recv reflect.Value, args []reflect.Value) (ret Value, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = hostFailure(s.String(), p)
		}
	}()

	var fn reflect.Value
	in := make([]reflect.Value, 0, len(args)+2)
	switch {
	case s.method != "":
		fn = recv.MethodByName(s.method)
		if !fn.IsValid() {
			return nil, newError(TypeMismatch, "%v has no method %s", recv.Type(), s.method)
		}
	case s.static:
		fn = s.fn
	default:
		fn = s.fn
		in = append(in, recv)
	}
	if s.withContext {
		in = append(in, reflect.ValueOf(&ctx).Elem())
	}
	in = append(in, args...)

	var out []reflect.Value
	if s.variadic {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}

	if s.returnsErr {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			return nil, hostFailure(s.String(), last.Interface().(error))
		}
	}
	switch len(out) {
	case 0:
		return reg.None(), nil
	case 1:
		return reg.fromHostValue(out[0])
	}
	elems := make([]Value, 0, len(out))
	for _, o := range out {
		v, err := reg.fromHostValue(o)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return reg.NewList(elems...), nil
}
