package schema

import (
	language "github.com/hanpama/typegraph/internal/language"
)

// BuildFromSDL builds a Schema from GraphQL SDL source text. The name
// identifies the source in error positions.
func BuildFromSDL(name, source string) (*Schema, error) {
	doc, err := language.ParseSchema(name, source)
	if err != nil {
		return nil, parseErrorFromSyntax(name, err)
	}

	s := NewSchema("")
	for _, sd := range doc.Schema {
		if sd.Description != "" {
			s.Description = sd.Description
		}
		for _, ot := range sd.OperationTypes {
			switch ot.Operation {
			case language.Query:
				s.QueryType = ot.Type
			case language.Mutation:
				s.MutationType = ot.Type
			case language.Subscription:
				s.SubscriptionType = ot.Type
			}
		}
	}

	for _, def := range doc.Definitions {
		if existing, ok := s.Types[def.Name]; ok && !existing.BuiltIn {
			return nil, parseErrorAt(def.Position, "type %q declared twice", def.Name)
		}
		t, err := buildSDLDefinition(def)
		if err != nil {
			return nil, err
		}
		s.addType(t)
	}

	for _, ext := range doc.Extensions {
		base, ok := s.Types[ext.Name]
		if !ok {
			return nil, parseErrorAt(ext.Position, "definition %q not found for extension", ext.Name)
		}
		if err := mergeSDLExtension(base, ext); err != nil {
			return nil, err
		}
	}

	for _, dd := range doc.Directives {
		s.addDirective(buildSDLDirective(dd))
	}

	// Conventional root type names apply when no schema block names them.
	if s.QueryType == "" && s.Types["Query"] != nil {
		s.QueryType = "Query"
	}
	if s.MutationType == "" && s.Types["Mutation"] != nil {
		s.MutationType = "Mutation"
	}
	if s.SubscriptionType == "" && s.Types["Subscription"] != nil {
		s.SubscriptionType = "Subscription"
	}

	if err := finalize(s); err != nil {
		return nil, err
	}
	return s, nil
}

func buildSDLDefinition(def *language.Definition) (*Type, error) {
	t := &Type{Name: def.Name, Description: def.Description}
	switch def.Kind {
	case language.Object:
		t.Kind = TypeKindObject
	case language.Interface:
		t.Kind = TypeKindInterface
	case language.Union:
		t.Kind = TypeKindUnion
	case language.Scalar:
		t.Kind = TypeKindScalar
	case language.Enum:
		t.Kind = TypeKindEnum
	case language.InputObject:
		t.Kind = TypeKindInputObject
	default:
		return nil, parseErrorAt(def.Position, "unsupported definition kind %q for %q", string(def.Kind), def.Name)
	}

	t.Interfaces = append(t.Interfaces, def.Interfaces...)
	t.PossibleTypes = append(t.PossibleTypes, def.Types...)
	for _, fd := range def.Fields {
		switch t.Kind {
		case TypeKindObject, TypeKindInterface:
			t.Fields = append(t.Fields, buildSDLField(fd))
		case TypeKindInputObject:
			t.InputFields = append(t.InputFields, buildSDLInputValue(fd))
		}
	}
	for _, ev := range def.EnumValues {
		deprecated, reason := deprecationFromDirectives(ev.Directives)
		t.EnumValues = append(t.EnumValues, &EnumValue{
			Name:              ev.Name,
			Description:       ev.Description,
			IsDeprecated:      deprecated,
			DeprecationReason: reason,
		})
	}
	return t, nil
}

func buildSDLField(fd *language.FieldDefinition) *Field {
	deprecated, reason := deprecationFromDirectives(fd.Directives)
	f := &Field{
		Name:              fd.Name,
		Description:       fd.Description,
		Type:              buildSDLTypeRef(fd.Type),
		IsDeprecated:      deprecated,
		DeprecationReason: reason,
	}
	for _, ad := range fd.Arguments {
		f.Arguments = append(f.Arguments, buildSDLArgument(ad))
	}
	return f
}

// buildSDLInputValue converts an input object field. gqlparser represents
// those as FieldDefinitions with a default value and no arguments.
func buildSDLInputValue(fd *language.FieldDefinition) *InputValue {
	deprecated, reason := deprecationFromDirectives(fd.Directives)
	v := &InputValue{
		Name:              fd.Name,
		Description:       fd.Description,
		Type:              buildSDLTypeRef(fd.Type),
		IsDeprecated:      deprecated,
		DeprecationReason: reason,
	}
	if fd.DefaultValue != nil {
		lit := fd.DefaultValue.String()
		v.DefaultValue = &lit
	}
	return v
}

func buildSDLArgument(ad *language.ArgumentDefinition) *InputValue {
	deprecated, reason := deprecationFromDirectives(ad.Directives)
	v := &InputValue{
		Name:              ad.Name,
		Description:       ad.Description,
		Type:              buildSDLTypeRef(ad.Type),
		IsDeprecated:      deprecated,
		DeprecationReason: reason,
	}
	if ad.DefaultValue != nil {
		lit := ad.DefaultValue.String()
		v.DefaultValue = &lit
	}
	return v
}

func buildSDLTypeRef(t *language.Type) *TypeRef {
	if t == nil {
		return nil
	}
	var ref *TypeRef
	if t.NamedType != "" {
		ref = NamedType(t.NamedType)
	} else {
		ref = ListType(buildSDLTypeRef(t.Elem))
	}
	if t.NonNull {
		ref = NonNullType(ref)
	}
	return ref
}

func buildSDLDirective(dd *language.DirectiveDefinition) *Directive {
	d := &Directive{
		Name:         dd.Name,
		Description:  dd.Description,
		IsRepeatable: dd.IsRepeatable,
	}
	for _, loc := range dd.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, ad := range dd.Arguments {
		d.Arguments = append(d.Arguments, buildSDLArgument(ad))
	}
	return d
}

func mergeSDLExtension(base *Type, ext *language.Definition) error {
	for _, fd := range ext.Fields {
		switch base.Kind {
		case TypeKindObject, TypeKindInterface:
			if base.FieldByName(fd.Name) != nil {
				return parseErrorAt(fd.Position, "field %q already declared on %q", fd.Name, base.Name)
			}
			base.Fields = append(base.Fields, buildSDLField(fd))
		case TypeKindInputObject:
			if base.InputFieldByName(fd.Name) != nil {
				return parseErrorAt(fd.Position, "input field %q already declared on %q", fd.Name, base.Name)
			}
			base.InputFields = append(base.InputFields, buildSDLInputValue(fd))
		}
	}
	base.Interfaces = append(base.Interfaces, ext.Interfaces...)
	base.PossibleTypes = append(base.PossibleTypes, ext.Types...)
	for _, ev := range ext.EnumValues {
		deprecated, reason := deprecationFromDirectives(ev.Directives)
		base.EnumValues = append(base.EnumValues, &EnumValue{
			Name:              ev.Name,
			Description:       ev.Description,
			IsDeprecated:      deprecated,
			DeprecationReason: reason,
		})
	}
	return nil
}

func deprecationFromDirectives(directives language.DirectiveList) (bool, string) {
	d := directives.ForName("deprecated")
	if d == nil {
		return false, ""
	}
	if arg := d.Arguments.ForName("reason"); arg != nil {
		return true, arg.Value.Raw
	}
	return true, defaultDeprecationReason
}
