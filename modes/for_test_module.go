package modes

import (
	"testing"

	"github.com/reusee/dscope"
)

type ModuleForTest struct {
	dscope.Module
	t testing.TB
}

func ForTest(t testing.TB) ModuleForTest {
	return ModuleForTest{
		t: t,
	}
}

func (m ModuleForTest) T() testing.TB {
	return m.t
}

func (ModuleForTest) Mode() Mode {
	return ModeDevelopment
}
