package main

import (
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/hostobj/cmds"
	"github.com/reusee/hostobj/configs"
	"github.com/reusee/hostobj/debugs"
	"github.com/reusee/hostobj/hostlib"
	"github.com/reusee/hostobj/logs"
	"github.com/reusee/hostobj/modes"
	"github.com/reusee/hostobj/objects"
	"github.com/reusee/hostobj/scripts"
)

// action is set by the command selected on the command line
var action any

func main() {
	if err := cmds.ExecuteOS(); err != nil {
		fatal(err)
	}
	if action == nil {
		cmds.PrintUsage()
		os.Exit(2)
	}

	scope := dscope.New(
		modes.ForProduction(),
		new(logs.Module),
		new(configs.Module),
		new(objects.Module),
		new(scripts.Module),
		new(debugs.Module),
	).Fork(
		func() objects.Resolver {
			return hostlib.Resolver()
		},
	)
	scope.Call(func(
		registry *objects.Registry,
	) {
		if err := hostlib.Register(registry); err != nil {
			fatal(err)
		}
	})
	scope.Call(action)
}

func fatal(err error) {
	os.Stderr.WriteString(err.Error())
	os.Stderr.WriteString("\n")
	os.Exit(-1)
}
