package cmds

import (
	"fmt"
	"os"
	"strings"
	"testing"
)

func TestVar(t *testing.T) {
	prefix := Var[string]("TestVarPrefix")
	depth := Var[int]("TestVarDepth")
	GlobalExecutor.MustExecute([]string{
		"TestVarPrefix", "super__",
		"TestVarDepth", "3",
	})
	if *prefix != "super__" {
		t.Fatalf("got %v", *prefix)
	}
	if *depth != 3 {
		t.Fatalf("got %v", *depth)
	}
	GlobalExecutor.MustExecute([]string{
		"TestVarDepth.",
	})
	if *depth != 0 {
		t.Fatalf("got %v", *depth)
	}
}

func TestVarEnv(t *testing.T) {
	t.Setenv("TEST_VAR_ENV_B", "7")
	v := Var[int]("TestVarEnv", "TEST_VAR_ENV_A", "TEST_VAR_ENV_B")
	if *v != 7 {
		t.Fatalf("got %v", *v)
	}
	GlobalExecutor.MustExecute([]string{
		"TestVarEnv", "8",
	})
	if *v != 8 {
		t.Fatalf("got %v", *v)
	}

	t.Setenv("TEST_VAR_ENV_BAD", "x")
	func() {
		defer func() {
			p := recover()
			if p == nil || !strings.Contains(fmt.Sprint(p), "TEST_VAR_ENV_BAD") {
				t.Fatalf("got %v", p)
			}
		}()
		Var[int]("TestVarEnvBad", "TEST_VAR_ENV_BAD")
	}()
}

func TestSwitch(t *testing.T) {
	strict := Switch("TestSwitch")
	GlobalExecutor.MustExecute([]string{
		"TestSwitch",
	})
	if !*strict {
		t.Fatal()
	}
	GlobalExecutor.MustExecute([]string{
		"!TestSwitch",
	})
	if *strict {
		t.Fatal()
	}

	t.Setenv("TEST_SWITCH_ENV", "yes")
	on := Switch("TestSwitchEnv", "TEST_SWITCH_ENV")
	if !*on {
		t.Fatal()
	}
}

func TestCollect(t *testing.T) {
	t.Setenv("TEST_COLLECT", strings.Join([]string{"a.cue", "b.cue"}, string(os.PathListSeparator)))
	list := Collect[string]("TestCollect", "TEST_COLLECT")
	GlobalExecutor.MustExecute([]string{
		"TestCollect", "c.cue",
		"TestCollect", "d.cue",
	})
	if str := fmt.Sprintf("%v", *list); str != "[a.cue b.cue c.cue d.cue]" {
		t.Fatalf("got %s", str)
	}
}

func TestTypedVar(t *testing.T) {
	type Prefix string
	v := Var[Prefix]("TestTypedVar")
	GlobalExecutor.MustExecute([]string{
		"TestTypedVar", "base__",
	})
	if *v != "base__" {
		t.Fatalf("got %v", *v)
	}
}

func TestFuncChecks(t *testing.T) {
	for _, fn := range []any{
		42,
		func() int { return 0 },
		func() (error, error) { return nil, nil },
		func(...string) {},
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("should panic: %T", fn)
				}
			}()
			Func(fn)
		}()
	}
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("should panic")
			}
		}()
		Func(func(string) {}).Param("a", "b")
	}()
}
