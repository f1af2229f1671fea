package modes

import (
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/hostobj/cmds"
)

func TestForProduction(t *testing.T) {
	dscope.New(ForProduction()).Call(func(
		tb testing.TB,
		mode Mode,
	) {
		if tb != nil {
			t.Fatal()
		}
		if mode != ModeProduction || mode.Strict() {
			t.Fatalf("got %v", mode)
		}
	})

	cmds.MustExecute([]string{"-mode", "dev"})
	defer cmds.MustExecute([]string{"-mode."})
	dscope.New(ForProduction()).Call(func(
		mode Mode,
	) {
		if mode != ModeDevelopment {
			t.Fatalf("got %v", mode)
		}
	})
}

func TestForTest(t *testing.T) {
	dscope.New(ForTest(t)).Call(func(
		tb testing.TB,
		mode Mode,
	) {
		if tb != t {
			t.Fatal()
		}
		if !mode.Strict() {
			t.Fatalf("got %v", mode)
		}
	})
}

func TestParseMode(t *testing.T) {
	for str, want := range map[string]Mode{
		"development": ModeDevelopment,
		"prod":        ModeProduction,
	} {
		mode, err := ParseMode(str)
		if err != nil {
			t.Fatal(err)
		}
		if mode != want {
			t.Fatalf("got %v", mode)
		}
	}
	if _, err := ParseMode("staging"); err == nil {
		t.Fatal("should error")
	}
	if Mode(0).String() != "unknown" {
		t.Fatal()
	}
}
