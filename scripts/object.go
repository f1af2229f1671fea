package scripts

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/reusee/hostobj/objects"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Object exposes a value of the object model to starlark code.
type Object struct {
	b *bridge
	v objects.Value
}

var (
	_ starlark.HasAttrs    = new(Object)
	_ starlark.HasSetField = new(Object)
	_ starlark.Callable    = new(Object)
	_ starlark.HasBinary   = new(Object)
	_ starlark.Comparable  = new(Object)
	_ starlark.Mapping     = new(Object)
	_ starlark.HasSetKey   = new(Object)
	_ starlark.Sequence    = new(Object)
)

func (o *Object) Value() objects.Value {
	return o.v
}

func (o *Object) String() string {
	return objects.Repr(o.v)
}

func (o *Object) Type() string {
	if c := o.v.Class(); c != nil {
		return c.Name()
	}
	return "object"
}

func (o *Object) Freeze() {}

func (o *Object) Truth() starlark.Bool {
	return starlark.True
}

func (o *Object) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", o.Type())
}

func (o *Object) Attr(name string) (starlark.Value, error) {
	v, err := objects.FindAttr(o.b.ctx, o.v, name)
	if err != nil {
		if errors.Is(err, objects.ErrAttributeMissing) {
			return nil, nil
		}
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return o.b.toStarlark(v), nil
}

func (o *Object) AttrNames() []string {
	var names []string
	class, ok := o.v.(objects.Class)
	if !ok {
		class = o.v.Class()
	}
	if inst, ok := o.v.(*objects.Instance); ok {
		names = append(names, inst.Dict().Keys()...)
	}
	if class != nil {
		for _, c := range objects.Ancestry(class) {
			names = append(names, c.Namespace().Names()...)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func (o *Object) SetField(name string, value starlark.Value) error {
	v, err := o.b.fromStarlark(value)
	if err != nil {
		return err
	}
	return objects.SetAttr(o.b.ctx, o.v, name, v)
}

func (o *Object) Name() string {
	if c, ok := o.v.(objects.Class); ok {
		return c.Name()
	}
	return o.Type()
}

func (o *Object) CallInternal(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	b := o.b.with(contextOf(thread, o.b.ctx))
	values := make([]objects.Value, 0, len(args)+len(kwargs))
	for _, arg := range args {
		v, err := b.fromStarlark(arg)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	var keywords []string
	for _, kv := range kwargs {
		v, err := b.fromStarlark(kv[1])
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		keywords = append(keywords, string(kv[0].(starlark.String)))
	}
	ret, err := objects.Call(b.ctx, o.v, values, keywords)
	if err != nil {
		return nil, err
	}
	return b.toStarlark(ret), nil
}

var binaryOps = map[syntax.Token]objects.Op{
	syntax.PLUS:       objects.OpAdd,
	syntax.MINUS:      objects.OpSub,
	syntax.STAR:       objects.OpMul,
	syntax.SLASH:      objects.OpTrueDiv,
	syntax.SLASHSLASH: objects.OpFloorDiv,
	syntax.PERCENT:    objects.OpMod,
	syntax.LTLT:       objects.OpLShift,
	syntax.GTGT:       objects.OpRShift,
	syntax.AMP:        objects.OpAnd,
	syntax.PIPE:       objects.OpOr,
	syntax.CIRCUMFLEX: objects.OpXor,
}

func (o *Object) Binary(op syntax.Token, y starlark.Value, side starlark.Side) (starlark.Value, error) {
	binop, ok := binaryOps[op]
	if !ok {
		return nil, nil
	}
	other, err := o.b.fromStarlark(y)
	if err != nil {
		return nil, err
	}
	a, b := o.v, other
	if side == starlark.Right {
		a, b = other, o.v
	}
	ret, err := objects.ApplyBinary(o.b.ctx, binop, a, b)
	if err != nil {
		return nil, err
	}
	return o.b.toStarlark(ret), nil
}

var compareOps = map[syntax.Token]objects.CmpOp{
	syntax.EQL: objects.CmpEq,
	syntax.NEQ: objects.CmpNe,
	syntax.LT:  objects.CmpLt,
	syntax.LE:  objects.CmpLe,
	syntax.GT:  objects.CmpGt,
	syntax.GE:  objects.CmpGe,
}

func (o *Object) CompareSameType(op syntax.Token, y starlark.Value, depth int) (bool, error) {
	cmp, ok := compareOps[op]
	if !ok {
		return false, fmt.Errorf("%s %s %s not implemented", o.Type(), op, y.Type())
	}
	ret, err := objects.RichCompare(o.b.ctx, cmp, o.v, y.(*Object).v)
	if err != nil {
		return false, err
	}
	if b, ok := ret.(*objects.Bool); ok {
		return b.V, nil
	}
	return true, nil
}

func (o *Object) Get(key starlark.Value) (starlark.Value, bool, error) {
	k, err := o.b.fromStarlark(key)
	if err != nil {
		return nil, false, err
	}
	v, err := objects.GetItem(o.b.ctx, o.v, k)
	if err != nil {
		if errors.Is(err, objects.ErrAttributeMissing) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return o.b.toStarlark(v), true, nil
}

func (o *Object) SetKey(key, value starlark.Value) error {
	k, err := o.b.fromStarlark(key)
	if err != nil {
		return err
	}
	v, err := o.b.fromStarlark(value)
	if err != nil {
		return err
	}
	return objects.SetItem(o.b.ctx, o.v, k, v)
}

// Len is -1 for values without a length.
func (o *Object) Len() int {
	n, err := objects.Len(o.b.ctx, o.v)
	if err != nil {
		return -1
	}
	return n
}

func (o *Object) Iterate() starlark.Iterator {
	next, stop := iter.Pull2(objects.Iterate(o.b.ctx, o.v))
	return &iterator{
		b:    o.b,
		next: next,
		stop: stop,
	}
}

type iterator struct {
	b    *bridge
	next func() (objects.Value, error, bool)
	stop func()
	err  error
}

var _ starlark.Iterator = new(iterator)

func (i *iterator) Next(p *starlark.Value) bool {
	v, err, ok := i.next()
	if !ok {
		return false
	}
	if err != nil {
		i.err = err
		return false
	}
	*p = i.b.toStarlark(v)
	return true
}

func (i *iterator) Done() {
	i.stop()
}

// Err reports the error that ended the iteration early.
func (i *iterator) Err() error {
	return i.err
}

func contextOf(thread *starlark.Thread, fallback context.Context) context.Context {
	if thread != nil {
		if ctx, ok := thread.Local(contextKeyName).(context.Context); ok {
			return ctx
		}
	}
	return fallback
}

const contextKeyName = "hostobj.context"
