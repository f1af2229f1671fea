package main

import (
	"context"

	"github.com/reusee/hostobj/cmds"
	"github.com/reusee/hostobj/debugs"
	"github.com/reusee/hostobj/hostlib"
)

func init() {
	cmds.Define("tap", cmds.Func(func() {
		action = func(
			tap debugs.Tap,
		) {
			if err := tap(context.Background(), "hostobj", map[string]any{
				"defaultStep": hostlib.DefaultStep,
				"join":        hostlib.Join,
			}); err != nil {
				fatal(err)
			}
		}
	}).Desc("open a starlark REPL with the host classes importable through host()"))
}
