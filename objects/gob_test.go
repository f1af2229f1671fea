package objects

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"strings"
	"testing"
)

func TestInstanceGob(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	c, err := r.NewScriptClass("Item", "m", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	inst, err := Call(ctx, c, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	child, err := Call(ctx, c, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := SetAttr(ctx, child, "n", r.Int(2)); err != nil {
		t.Fatal(err)
	}
	d := r.NewDict()
	d.Set("k", r.Bool(true))
	for name, v := range map[string]Value{
		"n":     r.Int(1),
		"f":     r.Float(1.5),
		"s":     r.Str("x"),
		"l":     r.NewList(r.None(), d),
		"child": child,
	} {
		if err := SetAttr(ctx, inst, name, v); err != nil {
			t.Fatal(err)
		}
	}

	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(inst); err != nil {
		t.Fatal(err)
	}
	decoded := new(Instance)
	if err := gob.NewDecoder(buf).Decode(decoded); err != nil {
		t.Fatal(err)
	}
	resolve := func(module, name string) (Class, error) {
		if module == "m" && name == "Item" {
			return c, nil
		}
		return nil, fmt.Errorf("no class %s.%s", module, name)
	}
	if err := r.Restore(decoded, resolve); err != nil {
		t.Fatal(err)
	}
	if decoded.Class() != Class(c) {
		t.Fatal()
	}
	for name, want := range map[string]string{
		"n": "1",
		"f": "1.5",
		"s": `"x"`,
		"l": `[None, {"k": True}]`,
	} {
		v, err := GetAttr(ctx, decoded, name)
		if err != nil {
			t.Fatal(err)
		}
		if Repr(v) != want {
			t.Fatalf("%s: got %v", name, Repr(v))
		}
	}
	v, err := GetAttr(ctx, decoded, "child")
	if err != nil {
		t.Fatal(err)
	}
	if v.Class() != Class(c) {
		t.Fatal()
	}
	cn, err := GetAttr(ctx, v, "n")
	if err != nil {
		t.Fatal(err)
	}
	if cn.(*Int).V != 2 {
		t.Fatalf("got %v", Repr(cn))
	}

	// restore needs decoded state
	if err := r.Restore(decoded, resolve); err == nil {
		t.Fatal()
	}
}

func TestInstanceGobErrors(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()
	c, err := r.NewScriptClass("Node", "m", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	inst, err := Call(ctx, c, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := SetAttr(ctx, inst, "self", inst); err != nil {
		t.Fatal(err)
	}
	err = gob.NewEncoder(new(bytes.Buffer)).Encode(inst)
	if err == nil || !strings.Contains(err.Error(), "cyclic reference") {
		t.Fatalf("got %v", err)
	}

	other, err := Call(ctx, c, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	host, err := r.FromHost(NewPointXY(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if err := SetAttr(ctx, other, "p", host); err != nil {
		t.Fatal(err)
	}
	err = gob.NewEncoder(new(bytes.Buffer)).Encode(other)
	if err == nil || !strings.Contains(err.Error(), "cannot serialize") {
		t.Fatalf("got %v", err)
	}

	// unknown classes fail the restore
	plain, err := Call(ctx, c, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	if err := gob.NewEncoder(buf).Encode(plain); err != nil {
		t.Fatal(err)
	}
	decoded := new(Instance)
	if err := gob.NewDecoder(buf).Decode(decoded); err != nil {
		t.Fatal(err)
	}
	err = r.Restore(decoded, func(module, name string) (Class, error) {
		return nil, fmt.Errorf("no class")
	})
	if err == nil || !strings.Contains(err.Error(), "restore m.Node") {
		t.Fatalf("got %v", err)
	}
}
