package configs

import (
	"strings"
	"testing"
)

func TestFirst(t *testing.T) {
	loader := NewLoader(layered, Schema)

	if prefix := First[string](loader, "runtime.super_prefix"); prefix != "host__" {
		t.Fatalf("got %v", prefix)
	}
	// absent values are zero
	if First[bool](loader, "runtime.strict") {
		t.Fatal()
	}
}

func TestGet(t *testing.T) {
	loader := NewLoader(layered, Schema)

	keywords, ok, err := Get[[]string](loader, "runtime.keywords")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || len(keywords) != 2 {
		t.Fatalf("got %v %v", keywords, ok)
	}

	_, ok, err = Get[bool](loader, "runtime.log_dispatch")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal()
	}

	// wrong type
	_, _, err = Get[int](loader, "runtime.super_prefix")
	if err == nil || !strings.Contains(err.Error(), "config runtime.super_prefix") {
		t.Fatalf("got %v", err)
	}
}
