package scripts

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/reusee/dscope"
	"github.com/reusee/hostobj/configs"
	"github.com/reusee/hostobj/hostlib"
	"github.com/reusee/hostobj/logs"
	"github.com/reusee/hostobj/modes"
	"github.com/reusee/hostobj/objects"
)

func testScope(t *testing.T, stdout *bytes.Buffer) dscope.Scope {
	return dscope.New(
		modes.ForTest(t),
		new(logs.Module),
		new(configs.Module),
		new(objects.Module),
		new(Module),
	).Fork(
		func() configs.Loader {
			return configs.NewSourceLoader(nil, configs.Schema)
		},
		func() objects.Resolver {
			return hostlib.Resolver()
		},
		func() Stdout {
			return stdout
		},
	)
}

func run(t *testing.T, src string) (map[string]objects.Value, string) {
	t.Helper()
	stdout := new(bytes.Buffer)
	var globals map[string]objects.Value
	testScope(t, stdout).Call(func(
		exec Exec,
		registry *objects.Registry,
	) {
		if err := hostlib.Register(registry); err != nil {
			t.Fatal(err)
		}
		var err error
		globals, err = exec(context.Background(), "test.star", src, nil)
		if err != nil {
			t.Fatal(err)
		}
	})
	return globals, stdout.String()
}

func TestExecHostObjects(t *testing.T) {
	globals, out := run(t, `
TextBuilder = host("hostlib.TextBuilder")
b = TextBuilder()
b.add(1)
b.add("x")
b.add(True)
print(b.print())
n = len(b)
parts = [p for p in b]
square = host("hostlib.Square")("s", 3)
area = square.area()
square.name = "t"
name = square.name
`)
	if out != "1 x true\n" {
		t.Fatalf("got %q", out)
	}
	if v := globals["n"].(*objects.Int).V; v != 3 {
		t.Fatalf("got %v", v)
	}
	if got := objects.Repr(globals["parts"]); got != `["1", "x", "true"]` {
		t.Fatalf("got %v", got)
	}
	if v := globals["area"].(*objects.Float).V; v != 9 {
		t.Fatalf("got %v", v)
	}
	if v := globals["name"].(*objects.Str).V; v != "t" {
		t.Fatalf("got %v", v)
	}
}

func TestExecGuestClass(t *testing.T) {
	globals, _ := run(t, `
Counter = host("hostlib.Counter")

def step(self):
    return self.size

def init(self, size):
    self.size = size

Sized = new_class("Sized", [Counter], {"step": step, "__init__": init})
c = Sized(4)
c.incr()
total = c.incr()
plain = super_call(c, "step")
is_counter = isinstance(c, Counter)
is_sized = isinstance(Counter(), Sized)
`)
	if v := globals["total"].(*objects.Int).V; v != 8 {
		t.Fatalf("got %v", v)
	}
	if v := globals["plain"].(*objects.Int).V; v != 1 {
		t.Fatalf("got %v", v)
	}
	if !globals["is_counter"].(*objects.Bool).V || globals["is_sized"].(*objects.Bool).V {
		t.Fatal()
	}
	mod, err := objects.GetAttr(context.Background(), globals["Sized"], "__module__")
	if err != nil {
		t.Fatal(err)
	}
	if s := mod.(*objects.Str).V; s != "test" {
		t.Fatalf("got %v", s)
	}
}

func TestExecOperators(t *testing.T) {
	globals, _ := run(t, `
def add(self, other):
    return self.n + other

def eq(self, other):
    return self.n == other.n

def init(self, n):
    self.n = n

Num = new_class("Num", [], {"__add__": add, "__eq__": eq, "__init__": init})
a = Num(1)
sum = a + 41
same = Num(2) == Num(2)
differ = Num(2) != Num(3)
`)
	if v := globals["sum"].(*objects.Int).V; v != 42 {
		t.Fatalf("got %v", v)
	}
	if !globals["same"].(*objects.Bool).V || !globals["differ"].(*objects.Bool).V {
		t.Fatal()
	}
}

func TestExecErrors(t *testing.T) {
	stdout := new(bytes.Buffer)
	testScope(t, stdout).Call(func(
		exec Exec,
		registry *objects.Registry,
	) {
		if err := hostlib.Register(registry); err != nil {
			t.Fatal(err)
		}
		for src, want := range map[string]string{
			`host("hostlib.Nope")`:                    "AttributeMissing",
			`host("hostlib.TextBuilder")().add(None)`: "can't be coerced",
			`host("hostlib.TextBuilder")().nope`:      "has no .nope field or method",
			`new_class("C", [1])`:                     "not a class",
		} {
			_, err := exec(context.Background(), "bad.star", src, nil)
			if err == nil || !strings.Contains(err.Error(), want) {
				t.Fatalf("%s: got %v", src, err)
			}
			if !strings.Contains(err.Error(), "span: ") {
				t.Fatalf("%s: got %v", src, err)
			}
		}
	})
}

func TestExecGlobals(t *testing.T) {
	stdout := new(bytes.Buffer)
	testScope(t, stdout).Call(func(
		exec Exec,
		registry *objects.Registry,
	) {
		d := registry.NewDict()
		d.Set("k", registry.Int(1))
		globals, err := exec(context.Background(), "g.star", `
d["k"] = d["k"] + 1
keys = [k for k in d]
`, map[string]objects.Value{
			"d": d,
		})
		if err != nil {
			t.Fatal(err)
		}
		v, _ := d.Get("k")
		if v.(*objects.Int).V != 2 {
			t.Fatalf("got %v", objects.Repr(v))
		}
		if got := objects.Repr(globals["keys"]); got != `["k"]` {
			t.Fatalf("got %v", got)
		}
	})
}

func TestExecDir(t *testing.T) {
	globals, _ := run(t, `
Counter = host("hostlib.Counter")

def step(self):
    return 2

Doubled = new_class("Doubled", [Counter], {"step": step})
Tripled = new_class("Tripled", [Doubled], {})
c = Tripled()
c.label = "x"
names = dir(c)
class_names = dir(Tripled)
`)
	names := objects.Repr(globals["names"])
	for _, want := range []string{`"label"`, `"step"`, `"incr"`} {
		if !strings.Contains(names, want) {
			t.Fatalf("%s not in %s", want, names)
		}
	}
	if strings.Count(names, `"step"`) != 1 {
		t.Fatalf("got %s", names)
	}
	classNames := objects.Repr(globals["class_names"])
	if !strings.Contains(classNames, `"incr"`) || strings.Contains(classNames, `"label"`) {
		t.Fatalf("got %s", classNames)
	}
}
