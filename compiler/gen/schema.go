package gen

import (
	"slices"
	"sync"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// Default root operation type names, used when the schema omits an explicit
// schema definition block.
const (
	DefaultQueryName        = "Query"
	DefaultMutationName     = "Mutation"
	DefaultSubscriptionName = "Subscription"
)

// Deprecation marks a field or enum value as deprecated. A nil pointer means
// the item is current.
type Deprecation struct {
	Reason string `msgpack:"reason,omitempty"`
}

// ObjectField is a single field definition, shared by output objects,
// interfaces, and input objects.
type ObjectField struct {
	Name        string       `msgpack:"name"`
	Description string       `msgpack:"description,omitempty"`
	Type        *FieldType   `msgpack:"type"`
	Deprecation *Deprecation `msgpack:"deprecation,omitempty"`
}

// Object is an output object type definition.
type Object struct {
	Name        string                  `msgpack:"name"`
	Description string                  `msgpack:"description,omitempty"`
	Fields      map[string]*ObjectField `msgpack:"fields"`
	Interfaces  []string                `msgpack:"interfaces,omitempty"`
}

// Interface is an interface type definition.
type Interface struct {
	Name        string                  `msgpack:"name"`
	Description string                  `msgpack:"description,omitempty"`
	Fields      map[string]*ObjectField `msgpack:"fields"`
}

// Union is a union type definition.
type Union struct {
	Name        string   `msgpack:"name"`
	Description string   `msgpack:"description,omitempty"`
	Types       []string `msgpack:"types"`
}

// Input is an input object type definition.
type Input struct {
	Name        string                  `msgpack:"name"`
	Description string                  `msgpack:"description,omitempty"`
	Fields      map[string]*ObjectField `msgpack:"fields"`
}

// EnumValue is a single enum value definition.
type EnumValue struct {
	Name        string       `msgpack:"name"`
	Description string       `msgpack:"description,omitempty"`
	Deprecation *Deprecation `msgpack:"deprecation,omitempty"`
}

// Enum is an enum type definition.
type Enum struct {
	Name        string       `msgpack:"name"`
	Description string       `msgpack:"description,omitempty"`
	Values      []*EnumValue `msgpack:"values"`
}

// Value returns the named enum value, or nil.
func (e *Enum) Value(name string) *EnumValue {
	for _, v := range e.Values {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// Scalar is a custom scalar type definition.
type Scalar struct {
	Name        string `msgpack:"name"`
	Description string `msgpack:"description,omitempty"`
}

// Schema is the in-memory schema model. It is built once per generation run
// from SDL or an introspection response, and is immutable in shape
// afterwards: the only mutation is the monotonic reachability-mark table,
// which is guarded so independent operations can be compiled in parallel
// against one schema instance.
type Schema struct {
	Objects    map[string]*Object    `msgpack:"objects"`
	Inputs     map[string]*Input     `msgpack:"inputs"`
	Interfaces map[string]*Interface `msgpack:"interfaces"`
	Unions     map[string]*Union     `msgpack:"unions"`
	Enums      map[string]*Enum      `msgpack:"enums"`
	Scalars    map[string]*Scalar    `msgpack:"scalars"`

	// Root operation type names; empty means the default applies.
	QueryType        string `msgpack:"query_type,omitempty"`
	MutationType     string `msgpack:"mutation_type,omitempty"`
	SubscriptionType string `msgpack:"subscription_type,omitempty"`

	mu       sync.Mutex
	required map[string]bool
}

// NewSchema returns an empty schema model.
func NewSchema() *Schema {
	return &Schema{
		Objects:    make(map[string]*Object),
		Inputs:     make(map[string]*Input),
		Interfaces: make(map[string]*Interface),
		Unions:     make(map[string]*Union),
		Enums:      make(map[string]*Enum),
		Scalars:    make(map[string]*Scalar),
		required:   make(map[string]bool),
	}
}

// RootName returns the configured or default root type name for the given
// operation kind.
func (s *Schema) RootName(kind OperationKind) string {
	switch kind {
	case OperationMutation:
		if s.MutationType != "" {
			return s.MutationType
		}
		return DefaultMutationName
	case OperationSubscription:
		if s.SubscriptionType != "" {
			return s.SubscriptionType
		}
		return DefaultSubscriptionName
	default:
		if s.QueryType != "" {
			return s.QueryType
		}
		return DefaultQueryName
	}
}

// Require marks the named type as reachable from a compiled operation.
// Input objects propagate the mark recursively through every field's
// innermost type; enums are marked so only reachable enum types are emitted.
// Names that refer to scalars, output objects, or nothing at all are a no-op:
// only types that generate shared definitions need reachability tracking.
//
// The mark is monotonic, so concurrent Require calls from operations sharing
// one schema commute; the table is guarded for that reason.
func (s *Schema) Require(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.require(name)
}

// require assumes s.mu is held.
func (s *Schema) require(name string) {
	if s.required == nil {
		s.required = make(map[string]bool)
	}
	if in, ok := s.Inputs[name]; ok {
		if s.required[name] {
			return
		}
		s.required[name] = true
		for _, f := range in.Fields {
			s.require(f.Type.InnerName())
		}
		return
	}
	if _, ok := s.Enums[name]; ok {
		s.required[name] = true
	}
}

// IsRequired reports whether the named type has been marked reachable.
func (s *Schema) IsRequired(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.required[name]
}

// RequiredInputs returns the reachable input objects sorted by name.
func (s *Schema) RequiredInputs() []*Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	var inputs []*Input
	for name, in := range s.Inputs {
		if s.required[name] {
			inputs = append(inputs, in)
		}
	}
	slices.SortFunc(inputs, func(a, b *Input) int {
		return compareOrdinal(a.Name, b.Name)
	})
	return inputs
}

// RequiredEnums returns the reachable enums sorted by name.
func (s *Schema) RequiredEnums() []*Enum {
	s.mu.Lock()
	defer s.mu.Unlock()
	var enums []*Enum
	for name, e := range s.Enums {
		if s.required[name] {
			enums = append(enums, e)
		}
	}
	slices.SortFunc(enums, func(a, b *Enum) int {
		return compareOrdinal(a.Name, b.Name)
	})
	return enums
}

// HasNamedType reports whether the name exists in any schema table.
func (s *Schema) HasNamedType(name string) bool {
	if _, ok := s.Objects[name]; ok {
		return true
	}
	if _, ok := s.Inputs[name]; ok {
		return true
	}
	if _, ok := s.Interfaces[name]; ok {
		return true
	}
	if _, ok := s.Unions[name]; ok {
		return true
	}
	if _, ok := s.Enums[name]; ok {
		return true
	}
	_, ok := s.Scalars[name]
	return ok
}

// compareOrdinal is a locale-independent byte-wise comparison, used wherever
// deterministic output ordering is needed.
func compareOrdinal(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// SchemaFromSDL parses GraphQL SDL text and builds the schema model.
// The source name is used in error messages only.
func SchemaFromSDL(name, source string) (*Schema, error) {
	doc, err := gqlparser.LoadSchema(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, NewIngestionError(name, "invalid schema document", err)
	}
	s := NewSchema()
	if doc.Query != nil {
		s.QueryType = doc.Query.Name
	}
	if doc.Mutation != nil {
		s.MutationType = doc.Mutation.Name
	}
	if doc.Subscription != nil {
		s.SubscriptionType = doc.Subscription.Name
	}
	for _, def := range doc.Types {
		if def.BuiltIn {
			continue
		}
		if err := s.addDefinition(def); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Schema) addDefinition(def *ast.Definition) error {
	switch def.Kind {
	case ast.Object:
		s.Objects[def.Name] = &Object{
			Name:        def.Name,
			Description: def.Description,
			Fields:      fieldsFromAST(def.Fields),
			Interfaces:  def.Interfaces,
		}
	case ast.Interface:
		s.Interfaces[def.Name] = &Interface{
			Name:        def.Name,
			Description: def.Description,
			Fields:      fieldsFromAST(def.Fields),
		}
	case ast.Union:
		s.Unions[def.Name] = &Union{
			Name:        def.Name,
			Description: def.Description,
			Types:       def.Types,
		}
	case ast.InputObject:
		in := &Input{
			Name:        def.Name,
			Description: def.Description,
			Fields:      make(map[string]*ObjectField, len(def.Fields)),
		}
		for _, f := range def.Fields {
			if f.Type == nil {
				return NewIngestionError(def.Name, "missing type on input object field "+f.Name, nil)
			}
			in.Fields[f.Name] = &ObjectField{
				Name:        f.Name,
				Description: f.Description,
				Type:        fieldTypeFromAST(f.Type),
				Deprecation: deprecationFromDirectives(f.Directives),
			}
		}
		s.Inputs[def.Name] = in
	case ast.Enum:
		e := &Enum{Name: def.Name, Description: def.Description}
		for _, v := range def.EnumValues {
			e.Values = append(e.Values, &EnumValue{
				Name:        v.Name,
				Description: v.Description,
				Deprecation: deprecationFromDirectives(v.Directives),
			})
		}
		s.Enums[def.Name] = e
	case ast.Scalar:
		s.Scalars[def.Name] = &Scalar{Name: def.Name, Description: def.Description}
	}
	return nil
}

func fieldsFromAST(defs ast.FieldList) map[string]*ObjectField {
	fields := make(map[string]*ObjectField, len(defs))
	for _, f := range defs {
		fields[f.Name] = &ObjectField{
			Name:        f.Name,
			Description: f.Description,
			Type:        fieldTypeFromAST(f.Type),
			Deprecation: deprecationFromDirectives(f.Directives),
		}
	}
	return fields
}

func deprecationFromDirectives(directives ast.DirectiveList) *Deprecation {
	d := directives.ForName("deprecated")
	if d == nil {
		return nil
	}
	dep := &Deprecation{}
	if reason := d.Arguments.ForName("reason"); reason != nil && reason.Value != nil {
		dep.Reason = reason.Value.Raw
	}
	return dep
}
