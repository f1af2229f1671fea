package main

import (
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/reusee/hostobj/vars"
)

const objectsPath = "github.com/reusee/hostobj/objects"

var multiline = jen.Options{
	Open:      "{",
	Close:     "}",
	Separator: ",",
	Multi:     true,
}

func generate(pkg string, descs []classDesc) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by hostobj-gen. DO NOT EDIT.")

	var classes []jen.Code
	for _, desc := range descs {
		classes = append(classes, jen.Values(classFields(pkg, desc)))
	}
	f.Comment("Classes lists the host classes of this package.")
	f.Var().Id("Classes").Op("=").Index().Qual(objectsPath, "HostClass").Custom(multiline, classes...)
	return f
}

func classFields(pkg string, desc classDesc) jen.Dict {
	dict := jen.Dict{
		jen.Id("Name"):       jen.Lit(desc.Name),
		jen.Id("Module"):     jen.Lit(vars.FirstNonZero(vars.DerefOrZero(desc.Module), pkg)),
		jen.Id("Type"):       typeFor(desc.Type),
		jen.Id("Introspect"): jen.Lit(desc.Introspect == nil || *desc.Introspect),
	}
	if super := vars.DerefOrZero(desc.Super); super != "" {
		dict[jen.Id("Super")] = typeFor(super)
	}
	if len(desc.Interfaces) > 0 {
		var ifaces []jen.Code
		for _, iface := range desc.Interfaces {
			ifaces = append(ifaces, typeFor(iface))
		}
		dict[jen.Id("Interfaces")] = jen.Index().Qual("reflect", "Type").Values(ifaces...)
	}
	if len(desc.Methods) > 0 {
		var methods []jen.Code
		for _, m := range desc.Methods {
			fields := jen.Dict{
				jen.Id("Name"): jen.Lit(m.Name),
				jen.Id("Func"): funcExpr(m.Func),
			}
			if vars.DerefOrZero(m.Static) {
				fields[jen.Id("Static")] = jen.True()
			}
			methods = append(methods, jen.Values(fields))
		}
		dict[jen.Id("Methods")] = jen.Index().Qual(objectsPath, "HostMethod").Custom(multiline, methods...)
	}
	if len(desc.Fields) > 0 {
		var fields []jen.Code
		for _, field := range desc.Fields {
			fields = append(fields, jen.Values(jen.Dict{
				jen.Id("Name"): jen.Lit(field.Name),
				jen.Id("Ptr"):  jen.Op("&").Id(field.Var),
			}))
		}
		dict[jen.Id("Fields")] = jen.Index().Qual(objectsPath, "HostField").Custom(multiline, fields...)
	}
	if len(desc.Constructors) > 0 {
		var ctors []jen.Code
		for _, ctor := range desc.Constructors {
			ctors = append(ctors, funcExpr(ctor))
		}
		dict[jen.Id("Constructors")] = jen.Index().Id("any").Values(ctors...)
	}
	return dict
}

// typeFor renders reflect.TypeFor for a type written as "T" or "*T".
func typeFor(typ string) *jen.Statement {
	var param jen.Code
	if name, ok := strings.CutPrefix(typ, "*"); ok {
		param = jen.Op("*").Id(name)
	} else {
		param = jen.Id(typ)
	}
	return jen.Qual("reflect", "TypeFor").Types(param).Call()
}

// funcExpr renders a function name or a method expression written as "T.M" or "*T.M".
func funcExpr(name string) *jen.Statement {
	if recv, method, ok := strings.Cut(name, "."); ok {
		if ptr, ok := strings.CutPrefix(recv, "*"); ok {
			return jen.Parens(jen.Op("*").Id(ptr)).Dot(method)
		}
		return jen.Id(recv).Dot(method)
	}
	return jen.Id(name)
}
