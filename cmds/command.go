package cmds

import (
	"fmt"
	"reflect"
)

// Command is either a function consuming arguments, a set of sub commands, or both.
type Command struct {
	Func        reflect.Value
	Subs        map[string]*Command
	Description string
	Aliases     []string
	// Params names the function arguments in usage output
	Params []string
}

func (c *Command) Desc(desc string) *Command {
	c.Description = desc
	return c
}

func (c *Command) Alias(names ...string) *Command {
	c.Aliases = append(c.Aliases, names...)
	return c
}

func (c *Command) Param(names ...string) *Command {
	if c.Func.IsValid() && len(c.Params)+len(names) > c.Func.Type().NumIn() {
		panic(fmt.Errorf("too many parameter names: %v", append(c.Params, names...)))
	}
	c.Params = append(c.Params, names...)
	return c
}

func (c *Command) paramName(i int) string {
	if i < len(c.Params) {
		return c.Params[i]
	}
	t := c.Func.Type().In(i)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind().String()
}

// Func wraps fn as a command. fn returns nothing or an error.
func Func(fn any) *Command {
	fnValue := reflect.ValueOf(fn)
	if err := checkFunc(fnValue); err != nil {
		panic(fmt.Errorf("%T: %w", fn, err))
	}
	return &Command{
		Func: fnValue,
	}
}

func checkFunc(fnValue reflect.Value) error {
	if fnValue.Kind() != reflect.Func {
		return fmt.Errorf("must be function")
	}
	t := fnValue.Type()
	if t.IsVariadic() {
		return fmt.Errorf("variadic function not supported")
	}
	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) != errorType {
			return fmt.Errorf("must return error")
		}
	default:
		return fmt.Errorf("must return 0 or 1 value")
	}
	return nil
}

func Sub(subs map[string]*Command) *Command {
	return &Command{
		Subs: subs,
	}
}
