package main

import (
	"context"

	"github.com/reusee/hostobj/cmds"
	"github.com/reusee/hostobj/objects"
	"github.com/reusee/hostobj/scripts"
)

func init() {
	cmds.Define("run", cmds.Func(func(path string) {
		action = func(
			exec scripts.Exec,
			registry *objects.Registry,
		) {
			var argv []objects.Value
			for _, arg := range cmds.Rest() {
				argv = append(argv, registry.Str(arg))
			}
			if _, err := exec(context.Background(), path, nil, map[string]objects.Value{
				"argv": registry.NewList(argv...),
			}); err != nil {
				fatal(err)
			}
		}
	}).Param("script").Desc("run a starlark script; arguments after -- become argv"))
}
