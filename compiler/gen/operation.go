package gen

import (
	"github.com/dave/jennifer/jen"
	"github.com/vektah/gqlparser/v2/ast"
)

// OperationKind is the kind of a GraphQL operation.
type OperationKind string

const (
	OperationQuery        OperationKind = "query"
	OperationMutation     OperationKind = "mutation"
	OperationSubscription OperationKind = "subscription"
)

// Operation is one parsed operation definition: name, kind, ordered
// variables, and the source document it came from. The selection set stays
// in AST form; compiler/resolve turns it into the response tree.
type Operation struct {
	Name      string
	Kind      OperationKind
	Variables []*Variable

	// Source is the exact text of the enclosing document, emitted
	// byte-for-byte as the operation's query constant.
	Source string

	def       *ast.OperationDefinition
	fragments ast.FragmentDefinitionList
}

// OperationFromAST builds an Operation from a parsed definition. A bare
// selection set at the document root has no name and is rejected: every
// generated operation must be named and typed.
func OperationFromAST(def *ast.OperationDefinition, fragments ast.FragmentDefinitionList, source string) (*Operation, error) {
	if def.Name == "" {
		return nil, NewIngestionError("", "encountered a bare selection set at the document root; every operation must be named", nil)
	}
	op := &Operation{
		Name:      def.Name,
		Kind:      OperationKind(def.Operation),
		Source:    source,
		def:       def,
		fragments: fragments,
	}
	for _, v := range def.VariableDefinitions {
		op.Variables = append(op.Variables, variableFromAST(v))
	}
	return op, nil
}

// Definition exposes the underlying AST definition to the selection
// resolver.
func (o *Operation) Definition() *ast.OperationDefinition {
	return o.def
}

// Fragment returns the named fragment from the operation's document, or nil.
func (o *Operation) Fragment(name string) *ast.FragmentDefinition {
	return o.fragments.ForName(name)
}

// RootName returns the schema's root type name for this operation's kind.
func (o *Operation) RootName(s *Schema) string {
	return s.RootName(o.Kind)
}

// computeVariableRequirements marks the innermost type of every variable as
// reachable, so input types used only through variables are still emitted.
func (o *Operation) computeVariableRequirements(s *Schema) {
	for _, v := range o.Variables {
		s.Require(v.Type.InnerName())
	}
}

// variablesTypeName returns the generated name of the operation's variables
// type.
func (o *Operation) variablesTypeName(cfg *Config) string {
	return cfg.ident(goName(o.Name) + "Variables")
}

// responseTypeName returns the generated name of the operation's root
// response type.
func (o *Operation) responseTypeName(cfg *Config) string {
	return cfg.ident(goName(o.Name) + "Response")
}

// genVariables emits the variables struct for the operation, its
// constructor, and one default-value constructor per defaulted variable.
// An operation with no variables still gets an empty struct: the integration
// surface hangs off it in both modes.
//
// Variables keep their declaration order; naming, optionality, and rename
// rules match input-object fields.
func genVariables(e *emitter, f *jen.File, op *Operation) error {
	typeName := op.variablesTypeName(e.cfg)

	type member struct {
		v      *Variable
		goName string
		typ    jen.Code
	}
	members := make([]*member, 0, len(op.Variables))
	var required []*member
	for _, v := range op.Variables {
		typ, err := v.Type.goType(e.genContext)
		if err != nil {
			return resolutionInOperation(err, op)
		}
		m := &member{v: v, goName: goName(v.Name), typ: typ}
		members = append(members, m)
		if !v.Type.Optional() {
			required = append(required, m)
		}
	}

	f.Commentf("%s holds the variable values for the %s operation.", typeName, op.Name)
	f.Type().Id(typeName).StructFunc(func(g *jen.Group) {
		for _, m := range members {
			g.Id(m.goName).Add(m.typ).
				Tag(structTags(m.v.Name, m.v.Type.Optional(), e.cfg.VariablesDerives))
		}
	})

	ctor := e.cfg.ident("New" + goName(op.Name) + "Variables")
	f.Commentf("%s returns a %s with all required variables set.", ctor, typeName)
	f.Func().Id(ctor).ParamsFunc(func(g *jen.Group) {
		for _, m := range required {
			g.Id(paramName(m.v.Name)).Add(m.typ)
		}
	}).Id(typeName).Block(
		jen.Return(jen.Id(typeName).Values(jen.DictFunc(func(d jen.Dict) {
			for _, m := range required {
				d[jen.Id(m.goName)] = jen.Id(paramName(m.v.Name))
			}
		}))),
	)

	for _, m := range members {
		if m.v.Default == nil {
			continue
		}
		if err := genDefaultConstructor(e, f, op, m.v, m.typ); err != nil {
			return err
		}
	}

	applyDerives(f, typeName, derivedFields(members, func(m *member) (string, jen.Code) {
		return m.goName, m.typ
	}), e.cfg.VariablesDerives)
	return nil
}

// resolutionInOperation stamps the operation name onto a resolution error
// raised while mapping its types.
func resolutionInOperation(err error, op *Operation) error {
	if resErr, ok := err.(*ResolutionError); ok && resErr.Operation == "" {
		resErr.Operation = op.Name
	}
	return err
}

func operationFileName(op *Operation) string {
	return snakeFileName(op.Name) + ".go"
}
