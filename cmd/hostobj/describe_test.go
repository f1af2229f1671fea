package main

import (
	"context"
	"strings"
	"testing"

	"github.com/reusee/hostobj/hostlib"
	"github.com/reusee/hostobj/objects"
)

func TestDescribe(t *testing.T) {
	r := objects.NewRegistry(nil, objects.DefaultConfig(), hostlib.Resolver())
	if err := hostlib.Register(r); err != nil {
		t.Fatal(err)
	}
	buf := new(strings.Builder)
	if err := describe(context.Background(), buf, r, "hostlib.TextBuilder"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "hostlib.TextBuilder (native)") {
		t.Fatalf("got %s", out)
	}
	if strings.Count(out, "  add #") != 4 {
		t.Fatalf("got %s", out)
	}
	if !strings.Contains(out, "  __init__ #0") {
		t.Fatalf("got %s", out)
	}

	buf.Reset()
	if err := describe(context.Background(), buf, r, "hostlib.Square"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "bases: Shape") {
		t.Fatalf("got %s", buf.String())
	}

	buf.Reset()
	if err := describe(context.Background(), buf, r, "hostlib.Counter"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "defaultStep: static field int") {
		t.Fatalf("got %s", buf.String())
	}

	if err := describe(context.Background(), buf, r, "hostlib"); err == nil {
		t.Fatal()
	}
}
