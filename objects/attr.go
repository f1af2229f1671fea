package objects

import (
	"context"
)

// FindAttr reads an attribute, returning nil when it is absent.
func FindAttr(ctx context.Context, v Value, name string) (Value, error) {
	if f, ok := v.(AttrFinder); ok {
		return f.FindAttr(ctx, name)
	}
	if name == "__class__" {
		return v.Class(), nil
	}
	c := v.Class()
	if c == nil {
		return nil, nil
	}
	m, owner := c.Lookup(name)
	if m == nil {
		return nil, nil
	}
	return m.DescrGet(ctx, v, owner)
}

// GetAttr reads an attribute, failing with AttributeMissing when it is absent.
func GetAttr(ctx context.Context, v Value, name string) (Value, error) {
	ret, err := FindAttr(ctx, v, name)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		if c, ok := v.(Class); ok {
			return nil, newError(AttributeMissing, "type object '%s' has no attribute '%s'", c.Name(), name)
		}
		return nil, attributeMissing(v, name)
	}
	return ret, nil
}

func HasAttr(ctx context.Context, v Value, name string) (bool, error) {
	ret, err := FindAttr(ctx, v, name)
	return ret != nil, err
}

func SetAttr(ctx context.Context, v Value, name string, value Value) error {
	if s, ok := v.(AttrSetter); ok {
		return s.SetAttr(ctx, name, value)
	}
	if c := v.Class(); c != nil {
		if m, _ := c.Lookup(name); m != nil {
			if handled, err := setThroughMember(ctx, m, v, value); handled {
				return err
			}
		}
	}
	if _, err := FindAttr(ctx, v, name); err != nil {
		return err
	}
	return newError(ReadOnlyMember, "'%s' object attribute '%s' is read-only", className(v), name)
}

func DelAttr(ctx context.Context, v Value, name string) error {
	if d, ok := v.(AttrDeleter); ok {
		return d.DelAttr(ctx, name)
	}
	return newError(ReadOnlyMember, "'%s' object attribute '%s' is read-only", className(v), name)
}

// CallMethod reads the named attribute of v and calls it.
func CallMethod(ctx context.Context, v Value, name string, args ...Value) (Value, error) {
	fn, err := GetAttr(ctx, v, name)
	if err != nil {
		return nil, err
	}
	return Call(ctx, fn, args, nil)
}
