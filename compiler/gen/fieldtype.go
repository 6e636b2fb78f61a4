package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/vektah/gqlparser/v2/ast"
)

// FieldKind discriminates the three forms of a GraphQL type reference.
type FieldKind int

const (
	// KindNamed is a bare reference to a named type.
	KindNamed FieldKind = iota
	// KindOptional wraps a reference that may be null.
	KindOptional
	// KindList wraps a reference in a list.
	KindList
)

// FieldType is a GraphQL type reference: a named leaf wrapped in any
// composition of optional and list containers. Every reference has exactly
// one named leaf.
//
// The model expresses nullability the opposite way from GraphQL syntax:
// a reference is required unless explicitly wrapped in an optional, so
// `[Int!]!` becomes List(Named) and `[Int]` becomes Optional(List(Optional(Named))).
type FieldType struct {
	Kind FieldKind  `msgpack:"kind"`
	Name string     `msgpack:"name,omitempty"` // leaf name, set for KindNamed only
	Elem *FieldType `msgpack:"elem,omitempty"` // inner reference, set for wrappers only
}

// NamedType returns a required reference to the named type.
func NamedType(name string) *FieldType {
	return &FieldType{Kind: KindNamed, Name: name}
}

// OptionalOf wraps a reference so that null is an admissible value.
func OptionalOf(t *FieldType) *FieldType {
	return &FieldType{Kind: KindOptional, Elem: t}
}

// ListOf wraps a reference in a required list.
func ListOf(t *FieldType) *FieldType {
	return &FieldType{Kind: KindList, Elem: t}
}

// InnerName unwraps all containers and returns the leaf type name.
func (t *FieldType) InnerName() string {
	for t.Kind != KindNamed {
		t = t.Elem
	}
	return t.Name
}

// Optional reports whether null is admissible at the top level of the
// reference.
func (t *FieldType) Optional() bool {
	return t.Kind == KindOptional
}

// Indirected reports whether the reference already carries container
// indirection: a list at the top level, or an optional wrapping a list.
// Such references never need extra boxing to break a structural cycle.
func (t *FieldType) Indirected() bool {
	switch t.Kind {
	case KindList:
		return true
	case KindOptional:
		return t.Elem.Kind == KindList
	default:
		return false
	}
}

// String renders the reference in GraphQL notation, for diagnostics.
func (t *FieldType) String() string {
	var render func(t *FieldType, nonNull bool) string
	render = func(t *FieldType, nonNull bool) string {
		bang := ""
		if nonNull {
			bang = "!"
		}
		switch t.Kind {
		case KindOptional:
			return render(t.Elem, false)
		case KindList:
			return "[" + render(t.Elem, true) + "]" + bang
		default:
			return t.Name + bang
		}
	}
	return render(t, true)
}

// wrap applies the reference's containers around an explicit leaf expression.
// Optionals become pointers, except around lists where the nil slice already
// encodes null. Used by goType and by the response emitter, which substitutes
// generated struct names for the leaf.
func (t *FieldType) wrap(leaf jen.Code) jen.Code {
	switch t.Kind {
	case KindList:
		return jen.Index().Add(t.Elem.wrap(leaf))
	case KindOptional:
		if t.Elem.Kind == KindList {
			return t.Elem.wrap(leaf)
		}
		return jen.Op("*").Add(t.Elem.wrap(leaf))
	default:
		return leaf
	}
}

// goType maps the reference onto a Go type expression.
func (t *FieldType) goType(cx *genContext) (jen.Code, error) {
	leaf, err := cx.namedType(t.InnerName())
	if err != nil {
		return nil, err
	}
	return t.wrap(leaf), nil
}

// fieldTypeFromAST converts a gqlparser type reference. gqlparser expresses
// non-null flags; this model expresses optional wrappers, so the conversion
// inverts the polarity.
func fieldTypeFromAST(t *ast.Type) *FieldType {
	var inner *FieldType
	if t.Elem != nil {
		inner = ListOf(fieldTypeFromAST(t.Elem))
	} else {
		inner = NamedType(t.NamedType)
	}
	if !t.NonNull {
		inner = OptionalOf(inner)
	}
	return inner
}

// fieldTypeFromTypeRef converts an introspection type reference tree.
// Introspection wraps non-null around nullable-by-default types.
func fieldTypeFromTypeRef(ref *typeRef) (*FieldType, error) {
	if ref == nil {
		return nil, NewIngestionError("", "missing type reference", nil)
	}
	if ref.Kind == typeKindNonNull {
		return typeRefInner(ref.OfType)
	}
	inner, err := typeRefInner(ref)
	if err != nil {
		return nil, err
	}
	return OptionalOf(inner), nil
}

func typeRefInner(ref *typeRef) (*FieldType, error) {
	if ref == nil {
		return nil, NewIngestionError("", "missing inner type reference", nil)
	}
	switch ref.Kind {
	case typeKindList:
		elem, err := fieldTypeFromTypeRef(ref.OfType)
		if err != nil {
			return nil, err
		}
		return ListOf(elem), nil
	case typeKindNonNull:
		return nil, NewIngestionError("", "non-null wrapping non-null in type reference", nil)
	default:
		if ref.Name == nil || *ref.Name == "" {
			return nil, NewIngestionError("", "unnamed type in type reference", nil)
		}
		return NamedType(*ref.Name), nil
	}
}

// scalarGoType resolves a configured scalar binding such as "string",
// "time.Time" or "github.com/org/pkg.Type" into a type expression.
func scalarGoType(binding string) jen.Code {
	dot := strings.LastIndex(binding, ".")
	if dot < 0 {
		return jen.Id(binding)
	}
	return jen.Qual(binding[:dot], binding[dot+1:])
}
