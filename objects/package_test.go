package objects

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestPackageImport(t *testing.T) {
	resolver := NewMapResolver().
		Add("geo.Point", reflect.TypeFor[*Point]()).
		Add("geo.origin", NewPointXY(1, 2)).
		Add("geo.shapes.Square", reflect.TypeFor[*Square]())
	r := NewRegistry(nil, DefaultConfig(), resolver)
	ctx := context.Background()

	root, err := GetAttr(ctx, r.Package(""), "__all__")
	if err != nil {
		t.Fatal(err)
	}
	if Repr(root) != `["geo"]` {
		t.Fatalf("got %v", Repr(root))
	}
	geo, err := r.Import(ctx, "geo")
	if err != nil {
		t.Fatal(err)
	}
	all, err := GetAttr(ctx, geo, "__all__")
	if err != nil {
		t.Fatal(err)
	}
	if Repr(all) != `["Point", "origin", "shapes"]` {
		t.Fatalf("got %v", Repr(all))
	}
	name, err := GetAttr(ctx, geo, "__name__")
	if err != nil {
		t.Fatal(err)
	}
	if str(name) != "geo" {
		t.Fatalf("got %v", Repr(name))
	}

	point, err := r.Import(ctx, "geo.Point")
	if err != nil {
		t.Fatal(err)
	}
	if c, ok := point.(*NativeClass); !ok || c.HostType() != reflect.TypeFor[*Point]() {
		t.Fatalf("got %v", Repr(point))
	}
	square, err := r.Import(ctx, "geo.shapes.Square")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := square.(*NativeClass); !ok {
		t.Fatalf("got %T", square)
	}

	y, err := r.Import(ctx, "geo.origin.y")
	if err != nil {
		t.Fatal(err)
	}
	if y.(*Int).V != 2 {
		t.Fatalf("got %v", Repr(y))
	}

	if _, err := r.Import(ctx, "geo.nope"); !errors.Is(err, ErrAttributeMissing) {
		t.Fatalf("got %v", err)
	}
	if err := SetAttr(ctx, geo, "x", r.Int(1)); !errors.Is(err, ErrReadOnlyMember) {
		t.Fatalf("got %v", err)
	}

	// packages are cached per path
	if r.Package("geo") != geo.(*Package) {
		t.Fatal()
	}
	if r.Package("geo").Path() != "geo" {
		t.Fatal()
	}
}

func TestMapResolverAddType(t *testing.T) {
	resolver := NewMapResolver().AddType(reflect.TypeFor[*Point]())
	path := "github.com.reusee.hostobj.objects.Point"
	v, ok := resolver.Resolve(path)
	if !ok {
		t.Fatal()
	}
	if v != reflect.TypeFor[*Point]() {
		t.Fatalf("got %v", v)
	}
	if !resolver.IsPackage("github") || resolver.IsPackage(path) {
		t.Fatal()
	}
	if got := resolver.Children("github.com.reusee.hostobj.objects"); len(got) != 1 || got[0] != "Point" {
		t.Fatalf("got %v", got)
	}
}
