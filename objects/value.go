package objects

import (
	"context"
	"reflect"
	"sync/atomic"
)

// Value is any object visible to guest code.
type Value interface {
	Class() Class
	ID() uint64
}

var nextID atomic.Uint64

// Object carries the identity and class pointer shared by all values.
type Object struct {
	class Class
	id    uint64
}

func newObject(class Class) Object {
	return Object{
		class: class,
		id:    nextID.Add(1),
	}
}

func (o *Object) Class() Class {
	return o.class
}

func (o *Object) ID() uint64 {
	return o.id
}

func (o *Object) setClass(c Class) {
	o.class = c
}

var (
	valueType     = reflect.TypeFor[Value]()
	valuesType    = reflect.TypeFor[[]Value]()
	keywordsType  = reflect.TypeFor[[]string]()
	anyType       = reflect.TypeFor[any]()
	errorType     = reflect.TypeFor[error]()
	contextType   = reflect.TypeFor[context.Context]()
	hostTypeType  = reflect.TypeFor[reflect.Type]()
	anySliceType  = reflect.TypeFor[[]any]()
	stringType    = reflect.TypeFor[string]()
	instancePtrTy = reflect.TypeFor[*Instance]()
)

// HostConverter is implemented by values with a native host representation.
// Implementations return ErrNoConversion when t is not reachable.
type HostConverter interface {
	ToHost(ctx context.Context, t reflect.Type) (reflect.Value, error)
}

// Coercion is the outcome of a coercion request.
type Coercion struct {
	Kind  CoercionKind
	Left  Value
	Right Value
}

type CoercionKind uint8

const (
	CoerceDeclined CoercionKind = iota
	CoerceUnchanged
	CoerceReplaceRight
	CoerceReplaceBoth
)

// Coercer is implemented by values that can bring another operand to a common representation.
type Coercer interface {
	Coerce(ctx context.Context, other Value) (Coercion, error)
}

// BinarySlotter implements operator slots natively.
// ok is false when the slot is not defined for the operand pair.
type BinarySlotter interface {
	BinarySlot(ctx context.Context, op Op, reflected bool, other Value) (ret Value, ok bool, err error)
}

// Comparer implements the three-way comparison slot natively.
type Comparer interface {
	Cmp(ctx context.Context, other Value) (int, bool, error)
}

// AttrFinder overrides the generic attribute read protocol.
// A nil Value with nil error means the attribute is absent.
type AttrFinder interface {
	FindAttr(ctx context.Context, name string) (Value, error)
}

// AttrSetter overrides the generic attribute write protocol.
type AttrSetter interface {
	SetAttr(ctx context.Context, name string, value Value) error
}

// AttrDeleter overrides the generic attribute delete protocol.
type AttrDeleter interface {
	DelAttr(ctx context.Context, name string) error
}

// Callable values can be invoked with positional arguments followed by keyword values.
type Callable interface {
	Call(ctx context.Context, args []Value, keywords []string) (Value, error)
}

// DescriptorGetter binds a namespace entry to an instance or owner.
type DescriptorGetter interface {
	DescrGet(ctx context.Context, instance Value, owner Class) (Value, error)
}

// DescriptorSetter handles writes through a namespace entry.
type DescriptorSetter interface {
	DescrSet(ctx context.Context, instance Value, value Value) error
}

func className(v Value) string {
	if v == nil {
		return "<nil>"
	}
	if c := v.Class(); c != nil {
		return c.Name()
	}
	return "<unbound>"
}
