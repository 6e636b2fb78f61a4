package gen

import (
	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"
)

// ResponseField is one resolved field of an operation's selection set.
// Name is the response key, so an aliased selection carries the alias here
// and the schema field only matters during resolution. A field with a
// non-empty Fields slice selects into a composite type and produces a nested
// generated struct; a field with empty Fields is a leaf.
type ResponseField struct {
	Name        string
	Type        *FieldType
	Fields      []*ResponseField
	Deprecation *Deprecation
	Description string
}

// genResponse emits the operation's response type tree: one struct per
// composite selection, named by concatenating the path from the root so
// sibling selections into the same schema type never collide.
func genResponse(e *emitter, f *jen.File, op *Operation, fields []*ResponseField) error {
	return genResponseStruct(e, f, op, op.responseTypeName(e.cfg), fields, true)
}

func genResponseStruct(e *emitter, f *jen.File, op *Operation, typeName string, fields []*ResponseField, root bool) error {
	type member struct {
		field  *ResponseField
		goName string
		typ    jen.Code
		nested string // non-empty when the field selects into a nested struct
	}

	members := make([]*member, 0, len(fields))
	for _, field := range fields {
		if err := e.checkDeprecation(typeName+"."+field.Name, field.Deprecation); err != nil {
			return err
		}
		m := &member{field: field, goName: goName(field.Name)}
		if len(field.Fields) > 0 {
			m.nested = e.cfg.ident(typeName + m.goName)
			m.typ = field.Type.wrap(jen.Id(m.nested))
		} else {
			typ, err := field.Type.goType(e.genContext)
			if err != nil {
				return resolutionInOperation(err, op)
			}
			m.typ = typ
		}
		members = append(members, m)
	}

	if root {
		f.Commentf("%s is the typed response of the %s operation.", typeName, op.Name)
	} else {
		f.Commentf("%s is a nested selection of the %s operation.", typeName, op.Name)
	}
	f.Type().Id(typeName).StructFunc(func(g *jen.Group) {
		for _, m := range members {
			if m.field.Description != "" {
				g.Comment(m.field.Description)
			}
			g.Id(m.goName).Add(m.typ).
				Tag(structTags(m.field.Name, m.field.Type.Optional(), e.cfg.ResponseDerives))
		}
	})

	applyDerives(f, typeName, derivedFields(members, func(m *member) (string, jen.Code) {
		return m.goName, m.typ
	}), e.cfg.ResponseDerives)

	for _, m := range members {
		if m.nested == "" {
			continue
		}
		if err := genResponseStruct(e, f, op, m.nested, m.field.Fields, false); err != nil {
			return err
		}
	}
	return nil
}

// snakeFileName lowers an operation name to a snake_case file stem.
func snakeFileName(name string) string {
	return inflect.Underscore(name)
}

// typesFileName picks the name of the shared types file, stepping aside when
// an operation already claimed types.go.
func typesFileName(files []*SourceFile) string {
	const preferred = "types.go"
	for _, f := range files {
		if f.Name == preferred {
			return "schema_types.go"
		}
	}
	return preferred
}
