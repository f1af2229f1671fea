package configs

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"
)

var layered = []string{
	"testdata/override.cue",
	"testdata/runtime.cue",
}

func TestLoaderAssignFirst(t *testing.T) {
	loader := NewLoader(layered, Schema)

	var prefix string
	if err := loader.AssignFirst("runtime.super_prefix", &prefix); err != nil {
		t.Fatal(err)
	}
	if prefix != "host__" {
		t.Fatalf("got %q", prefix)
	}

	// falls through to the next file
	mangling := true
	if err := loader.AssignFirst("runtime.keyword_mangling", &mangling); err != nil {
		t.Fatal(err)
	}
	if mangling {
		t.Fatal()
	}

	var keywords []string
	if err := loader.AssignFirst("runtime.keywords", &keywords); err != nil {
		t.Fatal(err)
	}
	if str := fmt.Sprintf("%v", keywords); str != "[print exec]" {
		t.Fatalf("got %s", str)
	}

	err := loader.AssignFirst("runtime.strict", &mangling)
	if !errors.Is(err, ErrValueNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestLoaderIterCueValues(t *testing.T) {
	loader := NewLoader(layered, Schema)

	var prefixes []string
	for value, err := range loader.IterCueValues("runtime.super_prefix") {
		if err != nil {
			t.Fatal(err)
		}
		var s string
		if err := value.Decode(&s); err != nil {
			t.Fatal(err)
		}
		prefixes = append(prefixes, s)
	}
	if str := fmt.Sprintf("%v", prefixes); str != "[host__ base__]" {
		t.Fatalf("got %q", str)
	}

	prefixes = slices.Collect(All[string](loader, "runtime.super_prefix"))
	if str := fmt.Sprintf("%v", prefixes); str != "[host__ base__]" {
		t.Fatalf("got %q", str)
	}

	paths, err := loader.Paths()
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(paths, layered) {
		t.Fatalf("got %v", paths)
	}
}

func TestUnknownField(t *testing.T) {
	loader := NewLoader([]string{
		"testdata/bad.cue",
	}, Schema)
	var str string
	err := loader.AssignFirst("runtime.unknown_field", &str)
	if err == nil || !strings.Contains(err.Error(), "testdata/bad.cue") {
		t.Fatalf("got %v", err)
	}
}

func TestMissingFile(t *testing.T) {
	loader := NewLoader([]string{"testdata/nope.cue"}, Schema)
	if _, err := loader.Paths(); err == nil {
		t.Fatal("should error")
	}
}
