package modes

import (
	"testing"

	"github.com/reusee/dscope"
)

type ModuleForProduction struct {
	dscope.Module
}

func ForProduction() ModuleForProduction {
	return ModuleForProduction{}
}

func (ModuleForProduction) T() testing.TB {
	return nil
}

// Mode is production unless -mode or HOSTOBJ_MODE says otherwise.
func (ModuleForProduction) Mode() Mode {
	if *modeFlag != 0 {
		return *modeFlag
	}
	return ModeProduction
}
