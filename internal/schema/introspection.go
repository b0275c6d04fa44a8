package schema

import (
	"encoding/json"
	"strings"
)

// Introspection-result JSON shapes, as produced by the standard
// introspection query. Only the parts the Schema model needs are decoded.

type introspectionEnvelope struct {
	Data   *introspectionData   `json:"data"`
	Schema *introspectionSchema `json:"__schema"`
}

type introspectionData struct {
	Schema *introspectionSchema `json:"__schema"`
}

type introspectionSchema struct {
	Description      string                    `json:"description"`
	QueryType        *introspectionTypeName    `json:"queryType"`
	MutationType     *introspectionTypeName    `json:"mutationType"`
	SubscriptionType *introspectionTypeName    `json:"subscriptionType"`
	Types            []*introspectionType      `json:"types"`
	Directives       []*introspectionDirective `json:"directives"`
}

type introspectionTypeName struct {
	Name string `json:"name"`
}

type introspectionType struct {
	Kind          string                     `json:"kind"`
	Name          string                     `json:"name"`
	Description   string                     `json:"description"`
	Fields        []*introspectionField      `json:"fields"`
	InputFields   []*introspectionInputValue `json:"inputFields"`
	Interfaces    []*introspectionTypeRef    `json:"interfaces"`
	EnumValues    []*introspectionEnumValue  `json:"enumValues"`
	PossibleTypes []*introspectionTypeRef    `json:"possibleTypes"`
}

type introspectionField struct {
	Name              string                     `json:"name"`
	Description       string                     `json:"description"`
	Args              []*introspectionInputValue `json:"args"`
	Type              *introspectionTypeRef      `json:"type"`
	IsDeprecated      bool                       `json:"isDeprecated"`
	DeprecationReason *string                    `json:"deprecationReason"`
}

type introspectionInputValue struct {
	Name              string                `json:"name"`
	Description       string                `json:"description"`
	Type              *introspectionTypeRef `json:"type"`
	DefaultValue      *string               `json:"defaultValue"`
	IsDeprecated      bool                  `json:"isDeprecated"`
	DeprecationReason *string               `json:"deprecationReason"`
}

type introspectionEnumValue struct {
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	IsDeprecated      bool    `json:"isDeprecated"`
	DeprecationReason *string `json:"deprecationReason"`
}

type introspectionTypeRef struct {
	Kind   string                `json:"kind"`
	Name   *string               `json:"name"`
	OfType *introspectionTypeRef `json:"ofType"`
}

type introspectionDirective struct {
	Name         string                     `json:"name"`
	Description  string                     `json:"description"`
	Locations    []string                   `json:"locations"`
	Args         []*introspectionInputValue `json:"args"`
	IsRepeatable bool                       `json:"isRepeatable"`
}

// BuildFromIntrospection builds a Schema from an introspection-result JSON
// document. Both the standard {"data": {"__schema": ...}} envelope and a
// bare {"__schema": ...} object are accepted. The resulting model is
// identical to what BuildFromSDL produces for an equivalent schema.
func BuildFromIntrospection(data []byte) (*Schema, error) {
	var env introspectionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, parseErrorf("invalid introspection JSON: %v", err)
	}
	raw := env.Schema
	if env.Data != nil && env.Data.Schema != nil {
		raw = env.Data.Schema
	}
	if raw == nil {
		return nil, parseErrorf("introspection result has no __schema object")
	}

	s := NewSchema(raw.Description)
	if raw.QueryType != nil {
		s.QueryType = raw.QueryType.Name
	}
	if raw.MutationType != nil {
		s.MutationType = raw.MutationType.Name
	}
	if raw.SubscriptionType != nil {
		s.SubscriptionType = raw.SubscriptionType.Name
	}

	for _, it := range raw.Types {
		if strings.HasPrefix(it.Name, "__") {
			continue
		}
		if existing, ok := s.Types[it.Name]; ok && existing.BuiltIn {
			continue
		}
		t, err := buildIntrospectionType(it)
		if err != nil {
			return nil, err
		}
		s.addType(t)
	}
	for _, id := range raw.Directives {
		if _, ok := s.Directives[id.Name]; ok {
			continue
		}
		d := &Directive{
			Name:         id.Name,
			Description:  id.Description,
			Locations:    id.Locations,
			IsRepeatable: id.IsRepeatable,
		}
		for _, arg := range id.Args {
			iv, err := buildIntrospectionInputValue(arg)
			if err != nil {
				return nil, err
			}
			d.Arguments = append(d.Arguments, iv)
		}
		s.addDirective(d)
	}

	if err := finalize(s); err != nil {
		return nil, err
	}
	return s, nil
}

func buildIntrospectionType(it *introspectionType) (*Type, error) {
	t := &Type{Name: it.Name, Kind: TypeKind(it.Kind), Description: it.Description}
	switch t.Kind {
	case TypeKindScalar, TypeKindObject, TypeKindInterface, TypeKindUnion, TypeKindEnum, TypeKindInputObject:
	default:
		return nil, parseErrorf("type %q has unsupported kind %q", it.Name, it.Kind)
	}
	for _, iface := range it.Interfaces {
		if iface.Name == nil {
			return nil, parseErrorf("type %q references an unnamed interface", it.Name)
		}
		t.Interfaces = append(t.Interfaces, *iface.Name)
	}
	for _, pt := range it.PossibleTypes {
		if pt.Name == nil {
			return nil, parseErrorf("type %q lists an unnamed possible type", it.Name)
		}
		t.PossibleTypes = append(t.PossibleTypes, *pt.Name)
	}
	for _, f := range it.Fields {
		ref, err := buildIntrospectionTypeRef(f.Type)
		if err != nil {
			return nil, parseErrorf("field %s.%s: %v", it.Name, f.Name, err)
		}
		field := &Field{
			Name:         f.Name,
			Description:  f.Description,
			Type:         ref,
			IsDeprecated: f.IsDeprecated,
		}
		if f.DeprecationReason != nil {
			field.DeprecationReason = *f.DeprecationReason
		}
		for _, arg := range f.Args {
			iv, err := buildIntrospectionInputValue(arg)
			if err != nil {
				return nil, parseErrorf("argument %s.%s(%s): %v", it.Name, f.Name, arg.Name, err)
			}
			field.Arguments = append(field.Arguments, iv)
		}
		t.Fields = append(t.Fields, field)
	}
	for _, inf := range it.InputFields {
		iv, err := buildIntrospectionInputValue(inf)
		if err != nil {
			return nil, parseErrorf("input field %s.%s: %v", it.Name, inf.Name, err)
		}
		t.InputFields = append(t.InputFields, iv)
	}
	for _, ev := range it.EnumValues {
		value := &EnumValue{
			Name:         ev.Name,
			Description:  ev.Description,
			IsDeprecated: ev.IsDeprecated,
		}
		if ev.DeprecationReason != nil {
			value.DeprecationReason = *ev.DeprecationReason
		}
		t.EnumValues = append(t.EnumValues, value)
	}
	return t, nil
}

func buildIntrospectionInputValue(iv *introspectionInputValue) (*InputValue, error) {
	ref, err := buildIntrospectionTypeRef(iv.Type)
	if err != nil {
		return nil, err
	}
	v := &InputValue{
		Name:         iv.Name,
		Description:  iv.Description,
		Type:         ref,
		DefaultValue: iv.DefaultValue,
		IsDeprecated: iv.IsDeprecated,
	}
	if iv.DeprecationReason != nil {
		v.DeprecationReason = *iv.DeprecationReason
	}
	return v, nil
}

func buildIntrospectionTypeRef(tr *introspectionTypeRef) (*TypeRef, error) {
	if tr == nil {
		return nil, parseErrorf("missing type reference")
	}
	switch tr.Kind {
	case "NON_NULL":
		inner, err := buildIntrospectionTypeRef(tr.OfType)
		if err != nil {
			return nil, err
		}
		return NonNullType(inner), nil
	case "LIST":
		inner, err := buildIntrospectionTypeRef(tr.OfType)
		if err != nil {
			return nil, err
		}
		return ListType(inner), nil
	default:
		if tr.Name == nil {
			return nil, parseErrorf("named type reference without a name")
		}
		return NamedType(*tr.Name), nil
	}
}
