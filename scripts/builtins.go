package scripts

import (
	"fmt"

	"github.com/reusee/hostobj/objects"
	"go.starlark.net/starlark"
)

func (b *bridge) builtins(module string) starlark.StringDict {
	return starlark.StringDict{
		"host":       starlark.NewBuiltin("host", b.host),
		"new_class":  starlark.NewBuiltin("new_class", b.newClass(module)),
		"isinstance": starlark.NewBuiltin("isinstance", b.isinstance),
		"super_call": starlark.NewBuiltin("super_call", b.superCall),
	}
}

// host(path) imports a host package, class or value.
func (b *bridge) host(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var path string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 1, &path); err != nil {
		return nil, err
	}
	v, err := b.reg.Import(contextOf(thread, b.ctx), path)
	if err != nil {
		return nil, err
	}
	return b.toStarlark(v), nil
}

// new_class(name, bases=[], members={}) defines a guest class.
func (b *bridge) newClass(module string) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			name    string
			bases   *starlark.List
			members *starlark.Dict
		)
		if err := starlark.UnpackArgs(fn.Name(), args, kwargs,
			"name", &name,
			"bases?", &bases,
			"members?", &members,
		); err != nil {
			return nil, err
		}

		var classes []objects.Class
		if bases != nil {
			for i := range bases.Len() {
				o, ok := bases.Index(i).(*Object)
				if !ok {
					return nil, fmt.Errorf("%s: base %d is not a class", fn.Name(), i)
				}
				c, ok := o.v.(objects.Class)
				if !ok {
					return nil, fmt.Errorf("%s: base %d is not a class", fn.Name(), i)
				}
				classes = append(classes, c)
			}
		}

		values := make(map[string]objects.Value)
		if members != nil {
			for _, item := range members.Items() {
				key, ok := item[0].(starlark.String)
				if !ok {
					return nil, fmt.Errorf("%s: member name must be string", fn.Name())
				}
				v, err := b.fromStarlark(item[1])
				if err != nil {
					return nil, err
				}
				values[string(key)] = v
			}
		}

		c, err := b.reg.NewScriptClass(name, module, classes, values)
		if err != nil {
			return nil, err
		}
		return b.toStarlark(c), nil
	}
}

func (b *bridge) isinstance(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value, class starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 2, &value, &class); err != nil {
		return nil, err
	}
	v, err := b.fromStarlark(value)
	if err != nil {
		return nil, err
	}
	o, ok := class.(*Object)
	if !ok {
		return starlark.False, nil
	}
	c, ok := o.v.(objects.Class)
	if !ok {
		return nil, fmt.Errorf("%s: %s is not a class", fn.Name(), class.Type())
	}
	return starlark.Bool(objects.IsSubclass(v.Class(), c)), nil
}

// super_call(self, name, *args) calls the host implementation a guest class overrides.
func (b *bridge) superCall(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%s: want self and name", fn.Name())
	}
	name, ok := starlark.AsString(args[1])
	if !ok {
		return nil, fmt.Errorf("%s: name must be string", fn.Name())
	}
	ctx := contextOf(thread, b.ctx)
	cb := b.with(ctx)
	self, err := cb.fromStarlark(args[0])
	if err != nil {
		return nil, err
	}
	var rest []objects.Value
	for _, arg := range args[2:] {
		v, err := cb.fromStarlark(arg)
		if err != nil {
			return nil, err
		}
		rest = append(rest, v)
	}
	ret, err := objects.CallMethod(ctx, self, b.reg.Config().SuperPrefix+name, rest...)
	if err != nil {
		return nil, err
	}
	return cb.toStarlark(ret), nil
}
