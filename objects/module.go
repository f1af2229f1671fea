package objects

import (
	"github.com/reusee/dscope"
	"github.com/reusee/hostobj/cmds"
	"github.com/reusee/hostobj/configs"
	"github.com/reusee/hostobj/logs"
	"github.com/reusee/hostobj/modes"
)

type Module struct {
	dscope.Module
}

var logDispatchFlag = cmds.Switch("-log-dispatch", "HOSTOBJ_LOG_DISPATCH")

// Config reads the runtime section. Development mode always checks descriptor invariants.
func (Module) Config(
	loader configs.Loader,
	mode modes.Mode,
) Config {
	patch, _, err := configs.Get[ConfigPatch](loader, "runtime")
	if err != nil {
		panic(err)
	}
	config := patch.Apply(DefaultConfig())
	if *logDispatchFlag {
		config.LogDispatch = true
	}
	if mode.Strict() {
		config.Strict = true
	}
	return config
}

func (Module) Resolver() Resolver {
	return NewMapResolver()
}

func (Module) Registry(
	logger logs.Logger,
	config Config,
	resolver Resolver,
) *Registry {
	return NewRegistry(logger, config, resolver)
}
