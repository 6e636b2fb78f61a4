package gen

import (
	"slices"

	"github.com/dave/jennifer/jen"
)

// genInput emits the struct and convenience constructor for one input
// object.
//
// Fields are sorted by name so output is reproducible regardless of schema
// declaration order. Required (non-optional) fields become constructor
// parameters; optional fields default to their zero value, which marshals as
// absent. A non-indirected field whose inner type participates in a
// non-indirection cycle is emitted behind a pointer so the record type stays
// finite; fields already behind a list or pointer are never boxed twice.
func genInput(e *emitter, f *jen.File, in *Input) error {
	if in.Name == "" {
		return NewIngestionError("", "unnamed input object", nil)
	}
	typeName := e.cfg.ident(goName(in.Name))

	fields := make([]*ObjectField, 0, len(in.Fields))
	for _, field := range in.Fields {
		fields = append(fields, field)
	}
	slices.SortFunc(fields, func(a, b *ObjectField) int {
		return compareOrdinal(a.Name, b.Name)
	})

	type member struct {
		field  *ObjectField
		goName string
		typ    jen.Code
	}
	members := make([]*member, 0, len(fields))
	var required []*member
	for _, field := range fields {
		typ, err := e.inputFieldType(field)
		if err != nil {
			return err
		}
		m := &member{field: field, goName: goName(field.Name), typ: typ}
		members = append(members, m)
		if !field.Type.Optional() {
			required = append(required, m)
		}
	}

	if in.Description != "" {
		f.Comment(in.Description)
	} else {
		f.Commentf("%s corresponds to the %s input object of the schema.", typeName, in.Name)
	}
	f.Type().Id(typeName).StructFunc(func(g *jen.Group) {
		for _, m := range members {
			g.Id(m.goName).Add(m.typ).
				Tag(structTags(m.field.Name, m.field.Type.Optional(), e.cfg.VariablesDerives))
		}
	})

	ctor := e.cfg.ident("New" + goName(in.Name))
	f.Commentf("%s returns a %s with all required fields set and every optional field absent.", ctor, typeName)
	f.Func().Id(ctor).ParamsFunc(func(g *jen.Group) {
		for _, m := range required {
			g.Id(paramName(m.field.Name)).Add(m.typ)
		}
	}).Id(typeName).Block(
		jen.Return(jen.Id(typeName).Values(jen.DictFunc(func(d jen.Dict) {
			for _, m := range required {
				d[jen.Id(m.goName)] = jen.Id(paramName(m.field.Name))
			}
		}))),
	)

	applyDerives(f, typeName, derivedFields(members, func(m *member) (string, jen.Code) {
		return m.goName, m.typ
	}), e.cfg.VariablesDerives)
	return nil
}

// inputFieldType maps one input field onto its Go type, inserting heap
// indirection when the field closes a structural cycle. An optional
// non-list field is already a pointer and a list already indirects, so only
// a bare self-referential (or mutually referential) named field gains one.
func (e *emitter) inputFieldType(field *ObjectField) (jen.Code, error) {
	typ, err := field.Type.goType(e.genContext)
	if err != nil {
		return nil, err
	}
	if field.Type.Kind == KindNamed && e.recursiveInput(field.Type.InnerName()) {
		typ = jen.Op("*").Add(typ)
	}
	return typ, nil
}

// derivedFields adapts a slice of emitter-internal members to the derive
// helpers.
func derivedFields[T any](members []T, get func(T) (string, jen.Code)) []deriveField {
	out := make([]deriveField, 0, len(members))
	for _, m := range members {
		name, typ := get(m)
		out = append(out, deriveField{Name: name, Type: typ})
	}
	return out
}
