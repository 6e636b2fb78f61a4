package gen

import "github.com/dave/jennifer/jen"

// deriveField is a generated struct field as seen by the derive helpers.
type deriveField struct {
	Name string
	Type jen.Code
}

// applyDerives emits the extra implementations requested for a generated
// type. The msgpack derive is tag-only and handled by structTags; getters
// and stringer add methods here. Both integration modes route through this
// one function so the derive surface cannot drift between them.
func applyDerives(f *jen.File, typeName string, fields []deriveField, derives []string) {
	if hasDerive(derives, DeriveGetters) {
		for _, field := range fields {
			f.Commentf("Get%s returns the %s field.", field.Name, field.Name)
			f.Func().Params(jen.Id("v").Id(typeName)).Id("Get"+field.Name).Params().Add(field.Type).Block(
				jen.Return(jen.Id("v").Dot(field.Name)),
			)
		}
	}
	if hasDerive(derives, DeriveStringer) {
		f.Commentf("String renders %s as indented JSON.", typeName)
		f.Func().Params(jen.Id("v").Id(typeName)).Id("String").Params().String().Block(
			jen.List(jen.Id("b"), jen.Id("_")).Op(":=").Qual("encoding/json", "MarshalIndent").Call(
				jen.Id("v"), jen.Lit(""), jen.Lit("  "),
			),
			jen.Return(jen.String().Call(jen.Id("b"))),
		)
	}
}
