// Package resolve maps operation selection sets onto the schema, producing
// the resolved field trees that compiler/gen lowers into response types.
// It owns aliasing, fragment expansion, and composite/leaf checking, keeping
// those concerns out of the emission core.
package resolve

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/gqlbind/compiler/gen"
)

// Resolver is the default gen.SelectionResolver implementation.
type Resolver struct{}

// New returns a Resolver.
func New() *Resolver {
	return &Resolver{}
}

var _ gen.SelectionResolver = (*Resolver)(nil)

// Resolve walks the operation's selection set anchored at the schema's root
// type for its kind and returns the resolved response tree. Enum leaves are
// marked reachable as they are encountered so the shared types file covers
// them.
func (r *Resolver) Resolve(s *gen.Schema, op *gen.Operation) ([]*gen.ResponseField, error) {
	root := op.RootName(s)
	parent, err := compositeFor(s, op, root)
	if err != nil {
		return nil, err
	}
	return resolveSet(s, op, parent, op.Definition().SelectionSet, map[string]bool{})
}

// composite is a type a selection set can be applied to. Unions carry no
// directly selectable fields; only __typename and fragments apply.
type composite struct {
	name   string
	fields map[string]*gen.ObjectField
	union  bool
}

func compositeFor(s *gen.Schema, op *gen.Operation, name string) (*composite, error) {
	if obj, ok := s.Objects[name]; ok {
		return &composite{name: name, fields: obj.Fields}, nil
	}
	if iface, ok := s.Interfaces[name]; ok {
		return &composite{name: name, fields: iface.Fields}, nil
	}
	if _, ok := s.Unions[name]; ok {
		return &composite{name: name, union: true}, nil
	}
	return nil, gen.NewResolutionError(op.Name, "", name, "not an object, interface, or union type")
}

// resolveSet resolves one selection set against its parent composite.
// Fragment spreads and inline fragments are flattened into the parent's
// field list; the active set guards against spread cycles. Duplicate
// response keys keep their first resolution.
func resolveSet(s *gen.Schema, op *gen.Operation, parent *composite, sels ast.SelectionSet, active map[string]bool) ([]*gen.ResponseField, error) {
	var out []*gen.ResponseField
	seen := map[string]bool{}

	appendFields := func(fields []*gen.ResponseField) {
		for _, f := range fields {
			if seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			out = append(out, f)
		}
	}

	for _, sel := range sels {
		switch sel := sel.(type) {
		case *ast.Field:
			field, err := resolveField(s, op, parent, sel, active)
			if err != nil {
				return nil, err
			}
			appendFields([]*gen.ResponseField{field})

		case *ast.FragmentSpread:
			frag := op.Fragment(sel.Name)
			if frag == nil {
				return nil, gen.NewResolutionError(op.Name, sel.Name, "", "fragment not defined in the document")
			}
			if active[sel.Name] {
				return nil, gen.NewResolutionError(op.Name, sel.Name, "", "fragment spread cycle")
			}
			active[sel.Name] = true
			fields, err := resolveCondition(s, op, parent, frag.TypeCondition, frag.SelectionSet, active)
			delete(active, sel.Name)
			if err != nil {
				return nil, err
			}
			appendFields(fields)

		case *ast.InlineFragment:
			fields, err := resolveCondition(s, op, parent, sel.TypeCondition, sel.SelectionSet, active)
			if err != nil {
				return nil, err
			}
			appendFields(fields)
		}
	}
	return out, nil
}

// resolveCondition resolves a fragment body against its type condition, or
// against the enclosing parent when the condition is empty.
func resolveCondition(s *gen.Schema, op *gen.Operation, parent *composite, condition string, sels ast.SelectionSet, active map[string]bool) ([]*gen.ResponseField, error) {
	target := parent
	if condition != "" && condition != parent.name {
		var err error
		target, err = compositeFor(s, op, condition)
		if err != nil {
			return nil, err
		}
	}
	return resolveSet(s, op, target, sels, active)
}

func resolveField(s *gen.Schema, op *gen.Operation, parent *composite, sel *ast.Field, active map[string]bool) (*gen.ResponseField, error) {
	key := sel.Alias
	if key == "" {
		key = sel.Name
	}

	// The meta field is selectable on every composite, unions included.
	if sel.Name == "__typename" {
		return &gen.ResponseField{Name: key, Type: gen.NamedType("String")}, nil
	}
	if parent.union {
		return nil, gen.NewResolutionError(op.Name, sel.Name, parent.name, "union members expose fields through fragments only")
	}

	def, ok := parent.fields[sel.Name]
	if !ok {
		return nil, gen.NewResolutionError(op.Name, sel.Name, parent.name, "field not found")
	}

	field := &gen.ResponseField{
		Name:        key,
		Type:        def.Type,
		Deprecation: def.Deprecation,
		Description: def.Description,
	}

	inner := def.Type.InnerName()
	if isComposite(s, inner) {
		if len(sel.SelectionSet) == 0 {
			return nil, gen.NewResolutionError(op.Name, sel.Name, inner, "selection set required on a composite field")
		}
		child, err := compositeFor(s, op, inner)
		if err != nil {
			return nil, err
		}
		fields, err := resolveSet(s, op, child, sel.SelectionSet, active)
		if err != nil {
			return nil, err
		}
		field.Fields = fields
		return field, nil
	}

	if len(sel.SelectionSet) > 0 {
		return nil, gen.NewResolutionError(op.Name, sel.Name, inner, "selection set on a leaf field")
	}
	// Enum leaves surface in responses, so the enum type must be emitted.
	s.Require(inner)
	return field, nil
}

func isComposite(s *gen.Schema, name string) bool {
	if _, ok := s.Objects[name]; ok {
		return true
	}
	if _, ok := s.Interfaces[name]; ok {
		return true
	}
	_, ok := s.Unions[name]
	return ok
}
