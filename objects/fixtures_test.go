package objects

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"testing"
)

func newTestRegistry(t *testing.T) *Registry {
	config := DefaultConfig()
	config.Strict = true
	return NewRegistry(nil, config, nil)
}

type Shape struct {
	Name  string
	sides int
}

func (s *Shape) Area() float64 {
	return 0
}

func (s *Shape) Describe() string {
	return "shape " + s.Name
}

func (s *Shape) GetSides() int {
	return s.sides
}

func (s *Shape) SetSides(n int) {
	s.sides = n
}

func (s *Shape) GetKind() string {
	return "polygon"
}

type Square struct {
	Shape
	Side float64
}

func (s *Square) Area() float64 {
	return s.Side * s.Side
}

func (s *Square) Describe() string {
	return "square " + s.Name
}

type Point struct {
	X, Y int
}

func NewPoint() *Point {
	return new(Point)
}

func NewPointXY(x, y int) *Point {
	return &Point{X: x, Y: y}
}

func (p *Point) Sum() int {
	return p.X + p.Y
}

func (p *Point) Print_() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

func (p *Point) Fail() error {
	return errors.New("boom")
}

func (p *Point) Panic() {
	panic("bad point")
}

var defaultSides = 4

type Greeter struct {
	Guest
	Prefix string
}

func (g *Greeter) Greet(ctx context.Context, name string) string {
	return g.Prefix + name
}

// Welcome dispatches to a guest override of greet.
func (g *Greeter) Welcome(ctx context.Context, name string) string {
	if ret, ok, err := g.Override(ctx, "greet", name); ok && err == nil {
		if s, ok := ret.(*Str); ok {
			return "welcome " + s.V
		}
	}
	return "welcome " + g.Greet(ctx, name)
}

type Ring struct {
	items []string
}

func (r *Ring) Len() int {
	return len(r.items)
}

func (r *Ring) At(i int) any {
	return r.items[i]
}

func (r *Ring) SetAt(i int, v any) error {
	s, ok := v.(string)
	if !ok {
		return errors.New("not a string")
	}
	r.items[i] = s
	return nil
}

// dual converts to both integers and strings.
type dual struct {
	Object
	n int64
}

func (r *Registry) newDual(n int64) *dual {
	return &dual{
		Object: newObject(r.builtins.object),
		n:      n,
	}
}

func (d *dual) ToHost(ctx context.Context, t reflect.Type) (reflect.Value, error) {
	rv := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Int64, reflect.Int:
		rv.SetInt(d.n)
	case reflect.String:
		rv.SetString(strconv.FormatInt(d.n, 10))
	default:
		return rv, ErrNoConversion
	}
	return rv, nil
}

func mustSig(t *testing.T, name string, fn any, declaring reflect.Type, static bool) *Signature {
	t.Helper()
	sig, err := NewSignature(name, fn, declaring, static)
	if err != nil {
		t.Fatal(err)
	}
	return sig
}

func fn(r *Registry, name string, f Func) *Function {
	return r.NewFunction(name, f)
}

func str(v Value) string {
	if s, ok := v.(*Str); ok {
		return s.V
	}
	return Repr(v)
}
