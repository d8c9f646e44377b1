// Command genrows generates typed struct<->row converters for dataflow
// collections whose schema is fixed at compile time. Rules and operators
// work over dynamically-shaped []any rows throughout the engine (spec's
// rows carry no static arity), but call sites that know a collection's
// shape in advance — a Table declaration, a test fixture — can use the
// generated FromRow/ToRow pair instead of hand-written index/type-assert
// pairs like value[0].(string).
//
// A source struct opts in by suffixing its name with Row, e.g.:
//
//	type UserRow struct {
//		Name string
//		Age  int64
//	}
//
// produces UserRowFromRow([]any) (UserRow, error) and
// UserRow.ToRow() []any in the output file, column order matching field
// declaration order.
package main

import (
	"flag"
	"fmt"
	"go/types"
	"log"
	"os"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/go/packages"
)

func main() {
	in := flag.String("in", "", "file or package to scan for *Row structs")
	out := flag.String("out", "", "file to write")
	pkg := flag.String("pkg", "", "package name of the generated file")
	flag.Parse()

	if *in == "" || *out == "" || *pkg == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := &packages.Config{Mode: packages.NeedTypes | packages.NeedTypesInfo}
	pkgs, err := packages.Load(cfg, *in)
	if err != nil {
		log.Panic(err)
	}

	f := jen.NewFile(*pkg)
	f.PackageComment("Code generated by genrows, DO NOT EDIT.")

	count := 0
	for _, p := range pkgs {
		scope := p.Types.Scope()
		for _, name := range scope.Names() {
			if !strings.HasSuffix(name, "Row") {
				continue
			}
			obj := scope.Lookup(name)
			structType, ok := obj.Type().Underlying().(*types.Struct)
			if !ok {
				continue
			}
			genStruct(f, name, structType)
			count++
		}
	}
	if count == 0 {
		log.Panic(fmt.Sprintf("genrows: no *Row struct types found in %s", *in))
	}

	if err := f.Save(*out); err != nil {
		log.Panic(err)
	}
}

// genStruct emits FromRow/ToRow for one *Row struct, in field order.
func genStruct(f *jen.File, name string, structType *types.Struct) {
	fromName := fmt.Sprintf("%sFromRow", name)

	f.Func().Id(fromName).Params(jen.Id("row").Index().Qual("", "any")).Params(
		jen.Id(name), jen.Id("error"),
	).Block(
		jen.Var().Id("zero").Id(name),
		jen.If(jen.Len(jen.Id("row")).Op("!=").Lit(structType.NumFields())).Block(
			jen.Return(jen.Id("zero"), jen.Qual("fmt", "Errorf").Call(
				jen.Lit(fmt.Sprintf("%s: expected %%d columns, got %%d", name)),
				jen.Lit(structType.NumFields()),
				jen.Len(jen.Id("row")),
			)),
		),
		jen.Var().Id("v").Id(name),
		rowAssignments(structType),
		jen.Return(jen.Id("v"), jen.Nil()),
	)

	toBody := make([]jen.Code, 0, structType.NumFields())
	for i := 0; i < structType.NumFields(); i++ {
		field := structType.Field(i)
		toBody = append(toBody, jen.Id("v").Dot(field.Name()))
	}
	f.Func().Params(jen.Id("v").Id(name)).Id("ToRow").Params().Index().Qual("", "any").Block(
		jen.Return(jen.Index().Qual("", "any").Values(toBody...)),
	)
}

// rowAssignments emits one type-asserting assignment per field, reporting
// a field-specific error instead of panicking on a schema mismatch.
func rowAssignments(structType *types.Struct) jen.Code {
	stmts := make([]jen.Code, 0, structType.NumFields())
	for i := 0; i < structType.NumFields(); i++ {
		field := structType.Field(i)
		ok := fmt.Sprintf("ok%d", i)
		stmts = append(stmts,
			jen.Var().Id(ok).Bool(),
			jen.List(jen.Id("v").Dot(field.Name()), jen.Id(ok)).Op("=").Id("row").Index(jen.Lit(i)).Assert(jen.Id(field.Type().String())),
			jen.If(jen.Op("!").Id(ok)).Block(
				jen.Return(jen.Id("zero"), jen.Qual("fmt", "Errorf").Call(
					jen.Lit(fmt.Sprintf("%s: column %%d (%s): wrong type", "", field.Name())),
					jen.Lit(i),
				)),
			),
		)
	}
	return jen.Block(stmts...)
}
