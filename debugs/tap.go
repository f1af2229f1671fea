package debugs

import (
	"context"
	"maps"
	"reflect"
	"slices"

	"github.com/reusee/hostobj/logs"
	"github.com/reusee/hostobj/objects"
	"github.com/reusee/hostobj/scripts"
	"github.com/reusee/starlarkutil"
	"go.starlark.net/repl"
)

// Tap opens a starlark REPL on stdin with globals in scope.
// Go funcs are callable directly; other values go through the registry.
type Tap func(ctx context.Context, what string, globals map[string]any) error

func (Module) Tap(
	logger logs.Logger,
	registry *objects.Registry,
	stdout scripts.Stdout,
) Tap {
	return func(ctx context.Context, what string, globals map[string]any) error {
		logger.InfoContext(ctx, "tap: "+what,
			"globals", slices.Sorted(maps.Keys(globals)),
		)
		defer func() {
			logger.InfoContext(ctx, "tap end: "+what)
		}()

		env, err := tapEnv(ctx, registry, what, stdout, globals)
		if err != nil {
			return err
		}
		repl.REPLOptions(scripts.FileOptions, env.Thread, env.Predeclared)
		return nil
	}
}

func tapEnv(ctx context.Context, registry *objects.Registry, what string, stdout scripts.Stdout, globals map[string]any) (*scripts.Env, error) {
	env := scripts.NewEnv(ctx, registry, what, stdout)
	for name, value := range globals {
		if value != nil && reflect.TypeOf(value).Kind() == reflect.Func {
			env.Predeclared[name] = starlarkutil.MakeFunc(name, value)
			continue
		}
		v, err := registry.FromHost(value)
		if err != nil {
			return nil, err
		}
		env.Set(name, v)
	}
	return env, nil
}
