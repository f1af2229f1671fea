package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reusee/hostobj/cmds"
	"github.com/reusee/hostobj/objects"
	"github.com/samber/lo"
)

func init() {
	cmds.Define("describe", cmds.Func(func(path string) {
		action = func(
			registry *objects.Registry,
		) {
			if err := describe(context.Background(), os.Stdout, registry, path); err != nil {
				fatal(err)
			}
		}
	}).Param("path").Desc("print the members of a class, overloads in resolution order"))
}

func describe(ctx context.Context, w io.Writer, registry *objects.Registry, path string) error {
	v, err := registry.Import(ctx, path)
	if err != nil {
		return err
	}
	class, ok := v.(objects.Class)
	if !ok {
		return fmt.Errorf("%s is not a class", path)
	}

	bases := lo.Map(class.Bases(), func(base objects.Class, _ int) string {
		return base.Name()
	})
	fmt.Fprintf(w, "%s.%s (%s)", class.Module(), class.Name(), class.Kind())
	if len(bases) > 0 {
		fmt.Fprintf(w, " bases: %s", strings.Join(bases, ", "))
	}
	fmt.Fprintln(w)

	if native, ok := class.(*objects.NativeClass); ok {
		if ctor := native.Constructors(); ctor != nil {
			describeGroup(w, ctor)
		}
	}
	ns := class.Namespace()
	for _, name := range ns.Names() {
		member, ok := ns.Get(name)
		if !ok {
			continue
		}
		switch m := member.(type) {
		case *objects.OverloadGroup:
			describeGroup(w, m)
		case *objects.Property:
			mode := "rw"
			if m.ReadOnly() {
				mode = "ro"
			}
			fmt.Fprintf(w, "  %s: property %v %s\n", name, m.Type(), mode)
		case *objects.Field:
			kind := "field"
			if m.Static() {
				kind = "static field"
			}
			fmt.Fprintf(w, "  %s: %s %v\n", name, kind, m.Type())
		case objects.PlainValue:
			fmt.Fprintf(w, "  %s: %s\n", name, objects.Repr(m.Value))
		default:
			fmt.Fprintf(w, "  %s: %T\n", name, m)
		}
	}
	return nil
}

func describeGroup(w io.Writer, g *objects.OverloadGroup) {
	for i, sig := range g.Signatures() {
		fmt.Fprintf(w, "  %s #%d: %s\n", sig.Name(), i, sig)
	}
}
