package objects

import (
	"context"
	"fmt"
)

type Op uint8

const (
	OpAdd Op = iota + 1
	OpSub
	OpMul
	OpDiv
	OpTrueDiv
	OpFloorDiv
	OpMod
	OpDivMod
	OpPow
	OpLShift
	OpRShift
	OpAnd
	OpOr
	OpXor
)

var opNames = map[Op]string{
	OpAdd:      "add",
	OpSub:      "sub",
	OpMul:      "mul",
	OpDiv:      "div",
	OpTrueDiv:  "truediv",
	OpFloorDiv: "floordiv",
	OpMod:      "mod",
	OpDivMod:   "divmod",
	OpPow:      "pow",
	OpLShift:   "lshift",
	OpRShift:   "rshift",
	OpAnd:      "and",
	OpOr:       "or",
	OpXor:      "xor",
}

// Slot is the left slot identifier, e.g. __add__.
func (o Op) Slot() string {
	return "__" + opNames[o] + "__"
}

// Mirror is the reflected slot identifier, e.g. __radd__.
func (o Op) Mirror() string {
	return "__r" + opNames[o] + "__"
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", o)
}

// ApplyBinary evaluates a op b with two-sided coercion and the reflected slot fallback.
func ApplyBinary(ctx context.Context, op Op, a, b Value) (Value, error) {
	differ := a.Class() != b.Class()

	left, right := a, b
	if differ {
		var err error
		left, right, err = coercePair(ctx, a, b)
		if err != nil {
			return nil, err
		}
	}
	ret, ok, err := binarySlot(ctx, left, op, false, right)
	if err != nil {
		return nil, err
	}
	if ok {
		return ret, nil
	}

	left, right = a, b
	if differ {
		right, left, err = coercePair(ctx, b, a)
		if err != nil {
			return nil, err
		}
	}
	ret, ok, err = binarySlot(ctx, right, op, true, left)
	if err != nil {
		return nil, err
	}
	if ok {
		return ret, nil
	}

	return nil, binaryMismatch(op, a, b)
}

func binaryMismatch(op Op, a, b Value) *Error {
	names := []string{className(a), className(b)}
	if names[0] > names[1] {
		names[0], names[1] = names[1], names[0]
	}
	return newError(TypeMismatch, "%s nor %s defined for these operands: '%s' and '%s'",
		op.Slot(), op.Mirror(), names[0], names[1])
}

// coercePair asks x to coerce with y, then y with x when x declines.
// The result keeps x's role first.
func coercePair(ctx context.Context, x, y Value) (Value, Value, error) {
	if c, ok := x.(Coercer); ok {
		res, err := c.Coerce(ctx, y)
		if err != nil {
			return nil, nil, err
		}
		switch res.Kind {
		case CoerceUnchanged:
			return x, y, nil
		case CoerceReplaceRight:
			return x, res.Right, nil
		case CoerceReplaceBoth:
			return res.Left, res.Right, nil
		}
	}
	if c, ok := y.(Coercer); ok {
		res, err := c.Coerce(ctx, x)
		if err != nil {
			return nil, nil, err
		}
		switch res.Kind {
		case CoerceUnchanged:
			return x, y, nil
		case CoerceReplaceRight:
			return res.Right, y, nil
		case CoerceReplaceBoth:
			return res.Right, res.Left, nil
		}
	}
	return x, y, nil
}

// binarySlot runs the native slot of v, or the slot found through its class.
func binarySlot(ctx context.Context, v Value, op Op, reflected bool, other Value) (Value, bool, error) {
	if s, ok := v.(BinarySlotter); ok {
		ret, ok, err := s.BinarySlot(ctx, op, reflected, other)
		if err != nil || ok {
			return ret, ok, err
		}
	}
	name := op.Slot()
	if reflected {
		name = op.Mirror()
	}
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
