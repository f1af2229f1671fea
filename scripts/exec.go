package scripts

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/reusee/hostobj/logs"
	"github.com/reusee/hostobj/objects"
	"go.starlark.net/starlark"
)

// Exec runs a starlark file against the registry and returns its globals.
// src is anything starlark.ExecFileOptions accepts, or nil to read filename.
type Exec func(
	ctx context.Context,
	filename string,
	src any,
	globals map[string]objects.Value,
) (map[string]objects.Value, error)

func (Module) Exec(
	registry *objects.Registry,
	logger logs.Logger,
	newSpan logs.NewSpan,
	stdout Stdout,
) Exec {
	return func(
		ctx context.Context,
		filename string,
		src any,
		globals map[string]objects.Value,
	) (ret map[string]objects.Value, err error) {
		ctx, _ = newSpan(ctx, "")
		defer func() {
			err = logs.WrapSpan(ctx, err)
		}()
		logger.DebugContext(ctx, "exec script", "file", filename)

		module := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
		env := NewEnv(ctx, registry, module, stdout)
		for name, value := range globals {
			env.Set(name, value)
		}

		result, err := starlark.ExecFileOptions(FileOptions, env.Thread, filename, src, env.Predeclared)
		if err != nil {
			if evalErr, ok := err.(*starlark.EvalError); ok {
				logger.DebugContext(ctx, "script failed", "backtrace", evalErr.Backtrace())
			}
			return nil, err
		}

		ret = make(map[string]objects.Value, len(result))
		for name, value := range result {
			v, err := env.FromStarlark(value)
			if err != nil {
				return nil, fmt.Errorf("global %s: %w", name, err)
			}
			ret[name] = v
		}
		return ret, nil
	}
}
