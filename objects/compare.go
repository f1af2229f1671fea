package objects

import (
	"cmp"
	"context"
)

// Compare returns -1, 0 or 1.
// When neither operand defines an ordering the result is derived from classes, then allocation order;
// that fallback is stable within a process but carries no meaning.
func Compare(ctx context.Context, a, b Value) (int, error) {
	if a == b {
		return 0, nil
	}

	if a.Class() != b.Class() {
		x, y, err := coercePair(ctx, a, b)
		if err != nil {
			return 0, err
		}
		if c, ok, err := cmpSlot(ctx, x, y); err != nil || ok {
			return c, err
		}
		y, x, err = coercePair(ctx, b, a)
		if err != nil {
			return 0, err
		}
		if c, ok, err := cmpSlot(ctx, y, x); err != nil || ok {
			return -c, err
		}
	} else {
		if c, ok, err := cmpSlot(ctx, a, b); err != nil || ok {
			return c, err
		}
		if c, ok, err := cmpSlot(ctx, b, a); err != nil || ok {
			return -c, err
		}
	}

	_, aNone := a.(*NoneType)
	_, bNone := b.(*NoneType)
	switch {
	case aNone && bNone:
		return 0, nil
	case aNone:
		return -1, nil
	case bNone:
		return 1, nil
	}

	ca, cb := a.Class(), b.Class()
	if ca == cb {
		return cmp.Compare(a.ID(), b.ID()), nil
	}
	if c := cmp.Compare(ca.Name(), cb.Name()); c != 0 {
		return c, nil
	}
	return cmp.Compare(ca.ID(), cb.ID()), nil
}

func cmpSlot(ctx context.Context, v, other Value) (int, bool, error) {
	if c, ok := v.(Comparer); ok {
		ret, ok, err := c.Cmp(ctx, other)
		if err != nil || ok {
			return ret, ok, err
		}
	}
	member, owner := v.Class().Lookup("__cmp__")
	if member == nil {
		return 0, false, nil
	}
	fn, err := member.DescrGet(ctx, v, owner)
	if err != nil {
		return 0, false, err
	}
	ret, err := Call(ctx, fn, []Value{other}, nil)
	if err != nil {
		return 0, false, err
	}
	n, ok := ret.(*Int)
	if !ok {
		return 0, false, nil
	}
	return cmp.Compare(n.V, 0), true, nil
}

type CmpOp uint8

const (
	CmpEq CmpOp = iota + 1
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

var cmpSlots = map[CmpOp][2]string{
	CmpEq: {"__eq__", "__eq__"},
	CmpNe: {"__ne__", "__ne__"},
	CmpLt: {"__lt__", "__gt__"},
	CmpLe: {"__le__", "__ge__"},
	CmpGt: {"__gt__", "__lt__"},
	CmpGe: {"__ge__", "__le__"},
}

// RichCompare tries the rich slot on a, the reflected slot on b, then falls back to Compare.
func RichCompare(ctx context.Context, op CmpOp, a, b Value) (Value, error) {
	slots := cmpSlots[op]
	if ret, ok, err := richSlot(ctx, a, slots[0], b); err != nil || ok {
		return ret, err
	}
	if ret, ok, err := richSlot(ctx, b, slots[1], a); err != nil || ok {
		return ret, err
	}
	c, err := Compare(ctx, a, b)
	if err != nil {
		return nil, err
	}
	var ret bool
	switch op {
	case CmpEq:
		ret = c == 0
	case CmpNe:
		ret = c != 0
	case CmpLt:
		ret = c < 0
	case CmpLe:
		ret = c <= 0
	case CmpGt:
		ret = c > 0
	case CmpGe:
		ret = c >= 0
	}
	return a.Class().registry().Bool(ret), nil
}

func richSlot(ctx context.Context, v Value, name string, other Value) (Value, bool, error) {
	member, owner := v.Class().Lookup(name)
	if member == nil {
		return nil, false, nil
	}
	fn, err := member.DescrGet(ctx, v, owner)
	if err != nil {
		return nil, false, err
	}
	ret, err := Call(ctx, fn, []Value{other}, nil)
	if err != nil {
		return nil, false, err
	}
	if _, ok := ret.(*NotImplementedType); ok {
		return nil, false, nil
	}
	return ret, true, nil
}
