package scripts

import (
	"context"
	"fmt"
	"io"

	"github.com/reusee/hostobj/objects"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// FileOptions enables the statements scripts are allowed to use at top level.
var FileOptions = &syntax.FileOptions{
	Set:             true,
	While:           true,
	TopLevelControl: true,
	GlobalReassign:  true,
}

// Env is a starlark environment bound to a registry.
type Env struct {
	b           *bridge
	Thread      *starlark.Thread
	Predeclared starlark.StringDict
}

// NewEnv predeclares the builtins; classes defined by new_class get module as their module.
func NewEnv(ctx context.Context, registry *objects.Registry, module string, stdout io.Writer) *Env {
	b := &bridge{
		ctx: ctx,
		reg: registry,
		print: func(thread *starlark.Thread, msg string) {
			fmt.Fprintln(stdout, msg)
		},
	}
	thread := &starlark.Thread{
		Name:  module,
		Print: b.print,
	}
	thread.SetLocal(contextKeyName, ctx)
	return &Env{
		b:           b,
		Thread:      thread,
		Predeclared: b.builtins(module),
	}
}

func (e *Env) Set(name string, v objects.Value) {
	e.Predeclared[name] = e.b.toStarlark(v)
}

func (e *Env) ToStarlark(v objects.Value) starlark.Value {
	return e.b.toStarlark(v)
}

func (e *Env) FromStarlark(v starlark.Value) (objects.Value, error) {
	return e.b.fromStarlark(v)
}
