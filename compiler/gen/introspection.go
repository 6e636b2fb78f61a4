package gen

import (
	"encoding/json"
	"strings"
)

// Introspection response wire shapes, per the standard __schema query.
// Nullable JSON members are pointers, mirroring the introspection spec.

type typeKind string

const (
	typeKindScalar      typeKind = "SCALAR"
	typeKindObject      typeKind = "OBJECT"
	typeKindInterface   typeKind = "INTERFACE"
	typeKindUnion       typeKind = "UNION"
	typeKindEnum        typeKind = "ENUM"
	typeKindInputObject typeKind = "INPUT_OBJECT"
	typeKindList        typeKind = "LIST"
	typeKindNonNull     typeKind = "NON_NULL"
)

type typeRef struct {
	Kind   typeKind `json:"kind"`
	Name   *string  `json:"name"`
	OfType *typeRef `json:"ofType"`
}

type introspectionInputValue struct {
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	Type         *typeRef `json:"type"`
	DefaultValue *string  `json:"defaultValue"`
}

type introspectionField struct {
	Name              string                     `json:"name"`
	Description       *string                    `json:"description"`
	Args              []*introspectionInputValue `json:"args"`
	Type              *typeRef                   `json:"type"`
	IsDeprecated      bool                       `json:"isDeprecated"`
	DeprecationReason *string                    `json:"deprecationReason"`
}

type introspectionEnumValue struct {
	Name              string  `json:"name"`
	Description       *string `json:"description"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason *string `json:"deprecationReason"`
}

type fullType struct {
	Kind          typeKind                   `json:"kind"`
	Name          *string                    `json:"name"`
	Description   *string                    `json:"description"`
	Fields        []*introspectionField      `json:"fields"`
	InputFields   []*introspectionInputValue `json:"inputFields"`
	Interfaces    []*typeRef                 `json:"interfaces"`
	EnumValues    []*introspectionEnumValue  `json:"enumValues"`
	PossibleTypes []*typeRef                 `json:"possibleTypes"`
}

type rootTypeName struct {
	Name *string `json:"name"`
}

type introspectionSchema struct {
	QueryType        *rootTypeName `json:"queryType"`
	MutationType     *rootTypeName `json:"mutationType"`
	SubscriptionType *rootTypeName `json:"subscriptionType"`
	Types            []*fullType   `json:"types"`
}

type introspectionResponse struct {
	// Servers answer {"data": {"__schema": ...}}; some tooling strips the
	// data wrapper. Both shapes are accepted.
	Data *struct {
		Schema *introspectionSchema `json:"__schema"`
	} `json:"data"`
	Schema *introspectionSchema `json:"__schema"`
}

var builtinScalars = map[string]bool{
	"Int":     true,
	"Float":   true,
	"String":  true,
	"Boolean": true,
	"ID":      true,
}

// SchemaFromIntrospection builds the schema model from an introspection
// response body. It converges on the same model shape as SchemaFromSDL.
func SchemaFromIntrospection(data []byte) (*Schema, error) {
	var resp introspectionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, NewIngestionError("introspection", "invalid introspection JSON", err)
	}
	schema := resp.Schema
	if schema == nil && resp.Data != nil {
		schema = resp.Data.Schema
	}
	if schema == nil {
		return nil, NewIngestionError("introspection", "missing __schema in introspection response", nil)
	}

	s := NewSchema()
	if schema.QueryType != nil && schema.QueryType.Name != nil {
		s.QueryType = *schema.QueryType.Name
	}
	if schema.MutationType != nil && schema.MutationType.Name != nil {
		s.MutationType = *schema.MutationType.Name
	}
	if schema.SubscriptionType != nil && schema.SubscriptionType.Name != nil {
		s.SubscriptionType = *schema.SubscriptionType.Name
	}

	for _, t := range schema.Types {
		if t == nil {
			continue
		}
		if err := s.addFullType(t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Schema) addFullType(t *fullType) error {
	if t.Name == nil || *t.Name == "" {
		return NewIngestionError("introspection", "unnamed type in introspection response", nil)
	}
	name := *t.Name
	if strings.HasPrefix(name, "__") {
		return nil
	}

	switch t.Kind {
	case typeKindObject:
		obj := &Object{
			Name:        name,
			Description: deref(t.Description),
			Fields:      make(map[string]*ObjectField, len(t.Fields)),
		}
		for _, iface := range t.Interfaces {
			if iface != nil && iface.Name != nil {
				obj.Interfaces = append(obj.Interfaces, *iface.Name)
			}
		}
		fields, err := introspectionFields(name, t.Fields)
		if err != nil {
			return err
		}
		obj.Fields = fields
		s.Objects[name] = obj
	case typeKindInterface:
		fields, err := introspectionFields(name, t.Fields)
		if err != nil {
			return err
		}
		s.Interfaces[name] = &Interface{
			Name:        name,
			Description: deref(t.Description),
			Fields:      fields,
		}
	case typeKindUnion:
		u := &Union{Name: name, Description: deref(t.Description)}
		for _, pt := range t.PossibleTypes {
			if pt != nil && pt.Name != nil {
				u.Types = append(u.Types, *pt.Name)
			}
		}
		s.Unions[name] = u
	case typeKindInputObject:
		in := &Input{
			Name:        name,
			Description: deref(t.Description),
			Fields:      make(map[string]*ObjectField, len(t.InputFields)),
		}
		for _, f := range t.InputFields {
			if f == nil {
				continue
			}
			if f.Name == "" {
				return NewIngestionError(name, "unnamed input object field", nil)
			}
			ft, err := fieldTypeFromTypeRef(f.Type)
			if err != nil {
				return NewIngestionError(name, "invalid type on input object field "+f.Name, err)
			}
			in.Fields[f.Name] = &ObjectField{
				Name:        f.Name,
				Description: deref(f.Description),
				Type:        ft,
			}
		}
		s.Inputs[name] = in
	case typeKindEnum:
		e := &Enum{Name: name, Description: deref(t.Description)}
		for _, v := range t.EnumValues {
			if v == nil {
				continue
			}
			ev := &EnumValue{Name: v.Name, Description: deref(v.Description)}
			if v.IsDeprecated {
				ev.Deprecation = &Deprecation{Reason: deref(v.DeprecationReason)}
			}
			e.Values = append(e.Values, ev)
		}
		s.Enums[name] = e
	case typeKindScalar:
		if !builtinScalars[name] {
			s.Scalars[name] = &Scalar{Name: name, Description: deref(t.Description)}
		}
	}
	return nil
}

func introspectionFields(typeName string, defs []*introspectionField) (map[string]*ObjectField, error) {
	fields := make(map[string]*ObjectField, len(defs))
	for _, f := range defs {
		if f == nil {
			continue
		}
		if f.Name == "" {
			return nil, NewIngestionError(typeName, "unnamed field", nil)
		}
		ft, err := fieldTypeFromTypeRef(f.Type)
		if err != nil {
			return nil, NewIngestionError(typeName, "invalid type on field "+f.Name, err)
		}
		of := &ObjectField{
			Name:        f.Name,
			Description: deref(f.Description),
			Type:        ft,
		}
		if f.IsDeprecated {
			of.Deprecation = &Deprecation{Reason: deref(f.DeprecationReason)}
		}
		fields[f.Name] = of
	}
	return fields, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
