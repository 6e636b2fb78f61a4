package gen

import (
	"fmt"
	"strconv"

	"github.com/dave/jennifer/jen"
	"github.com/vektah/gqlparser/v2/ast"
)

// Variable is one declared operation variable: name, type reference, and
// the literal default value if the declaration carries one.
type Variable struct {
	Name    string
	Type    *FieldType
	Default *ast.Value
}

func variableFromAST(def *ast.VariableDefinition) *Variable {
	return &Variable{
		Name:    def.Variable,
		Type:    fieldTypeFromAST(def.Type),
		Default: def.DefaultValue,
	}
}

// genDefaultConstructor emits a function producing the variable's declared
// default value, e.g. SearchLimitDefault() *int64.
func genDefaultConstructor(e *emitter, f *jen.File, op *Operation, v *Variable, typ jen.Code) error {
	name := e.cfg.ident(goName(op.Name) + goName(v.Name) + "Default")
	expr, err := literalValue(e, v.Type, v.Default)
	if err != nil {
		return resolutionInOperation(err, op)
	}
	f.Commentf("%s returns the declared default value of the $%s variable.", name, v.Name)
	f.Func().Id(name).Params().Add(typ).Block(jen.Return(expr))
	return nil
}

// literalValue lowers a GraphQL literal into a Go expression of the target
// type. Optional values become pointers through the runtime Ptr helper so
// the lowering composes inside list and input-object literals.
func literalValue(e *emitter, t *FieldType, val *ast.Value) (jen.Code, error) {
	if val == nil {
		return nil, NewIngestionError("", "missing literal value", nil)
	}
	if val.Kind == ast.Variable {
		return nil, NewIngestionError("", "variable reference inside a literal default value", nil)
	}

	switch t.Kind {
	case KindOptional:
		if val.Kind == ast.NullValue {
			return jen.Nil(), nil
		}
		if t.Elem.Kind == KindList {
			return literalValue(e, t.Elem, val)
		}
		inner, err := literalValue(e, t.Elem, val)
		if err != nil {
			return nil, err
		}
		return jen.Qual(runtimePkg, "Ptr").Call(inner), nil

	case KindList:
		if val.Kind != ast.ListValue {
			return nil, NewIngestionError("", fmt.Sprintf("expected a list literal for type %s", t), nil)
		}
		listType, err := t.goType(e.genContext)
		if err != nil {
			return nil, err
		}
		elems := make([]jen.Code, 0, len(val.Children))
		for _, child := range val.Children {
			elem, err := literalValue(e, t.Elem, child.Value)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		return jen.Add(listType).Values(elems...), nil

	default:
		return namedLiteral(e, t.Name, val)
	}
}

func namedLiteral(e *emitter, typeName string, val *ast.Value) (jen.Code, error) {
	switch typeName {
	case "Int":
		n, err := strconv.ParseInt(val.Raw, 10, 64)
		if err != nil {
			return nil, NewIngestionError("", "invalid Int literal "+val.Raw, err)
		}
		return jen.Lit(n), nil
	case "Float":
		n, err := strconv.ParseFloat(val.Raw, 64)
		if err != nil {
			return nil, NewIngestionError("", "invalid Float literal "+val.Raw, err)
		}
		return jen.Lit(n), nil
	case "Boolean":
		return jen.Lit(val.Raw == "true"), nil
	case "String", "ID":
		return jen.Lit(val.Raw), nil
	}

	if enum, ok := e.schema.Enums[typeName]; ok {
		ev := enum.Value(val.Raw)
		if ev == nil {
			return nil, NewResolutionError("", val.Raw, typeName, "enum value not found")
		}
		if err := e.checkDeprecation(typeName+"."+val.Raw, ev.Deprecation); err != nil {
			return nil, err
		}
		return jen.Id(e.cfg.ident(enumValueName(goName(typeName), val.Raw))), nil
	}

	if in, ok := e.schema.Inputs[typeName]; ok {
		return inputLiteral(e, in, val)
	}

	if _, ok := e.schema.Scalars[typeName]; ok {
		if _, bound := e.cfg.Scalars[typeName]; bound {
			// Bound scalars accept string-shaped literals only; richer
			// defaults need a wrapper type on the binding side.
			if val.Kind != ast.StringValue && val.Kind != ast.BlockValue {
				return nil, NewIngestionError("", "cannot lower a non-string literal for bound scalar "+typeName, nil)
			}
			return jen.Lit(val.Raw), nil
		}
		return jen.Qual("encoding/json", "RawMessage").Call(jen.Lit(val.String())), nil
	}

	return nil, NewResolutionError("", "", typeName, "type not found in schema")
}

func inputLiteral(e *emitter, in *Input, val *ast.Value) (jen.Code, error) {
	if val.Kind != ast.ObjectValue {
		return nil, NewIngestionError("", fmt.Sprintf("expected an input object literal for type %s", in.Name), nil)
	}
	dict := jen.Dict{}
	for _, child := range val.Children {
		field, ok := in.Fields[child.Name]
		if !ok {
			return nil, NewResolutionError("", child.Name, in.Name, "input object field not found")
		}
		expr, err := literalValue(e, field.Type, child.Value)
		if err != nil {
			return nil, err
		}
		// Boxed recursive fields take a pointer even when required.
		if field.Type.Kind == KindNamed && e.recursiveInput(field.Type.InnerName()) {
			expr = jen.Qual(runtimePkg, "Ptr").Call(expr)
		}
		dict[jen.Id(goName(child.Name))] = expr
	}
	return jen.Id(e.cfg.ident(goName(in.Name))).Values(dict), nil
}
