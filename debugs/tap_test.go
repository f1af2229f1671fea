package debugs

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/hostobj/configs"
	"github.com/reusee/hostobj/logs"
	"github.com/reusee/hostobj/modes"
	"github.com/reusee/hostobj/objects"
	"github.com/reusee/hostobj/scripts"
	"go.starlark.net/starlark"
)

func TestTap(t *testing.T) {
	dscope.New(
		modes.ForTest(t),
		new(logs.Module),
		new(configs.Module),
		new(objects.Module),
		new(scripts.Module),
		new(Module),
	).Fork(
		func() configs.Loader {
			return configs.NewSourceLoader(nil, configs.Schema)
		},
	).Call(func(
		tap Tap,
	) {
		if err := tap(t.Context(), "test", map[string]any{
			"foo": 42,
		}); err != nil {
			t.Fatal(err)
		}
	})
}

func TestTapEnv(t *testing.T) {
	r := objects.NewRegistry(nil, objects.DefaultConfig(), nil)
	out := new(bytes.Buffer)
	env, err := tapEnv(context.Background(), r, "test", out, map[string]any{
		"n":     42,
		"words": []string{"a", "b"},
		"upper": strings.ToUpper,
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = starlark.ExecFileOptions(scripts.FileOptions, env.Thread, "tap.star", `
print(n + 1)
print(len(words), words[1])
print(upper("x"))
`, env.Predeclared)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "43\n2 b\nX\n" {
		t.Fatalf("got %q", got)
	}
}
