package schema

var builtinScalars = []*Type{
	{
		Name:        "String",
		Kind:        TypeKindScalar,
		Description: "The `String` scalar type represents textual data, represented as UTF-8 character sequences.",
		BuiltIn:     true,
	},
	{
		Name:        "Int",
		Kind:        TypeKindScalar,
		Description: "The `Int` scalar type represents non-fractional signed whole numeric values.",
		BuiltIn:     true,
	},
	{
		Name:        "Float",
		Kind:        TypeKindScalar,
		Description: "The `Float` scalar type represents signed double-precision fractional values.",
		BuiltIn:     true,
	},
	{
		Name:        "Boolean",
		Kind:        TypeKindScalar,
		Description: "The `Boolean` scalar type represents `true` or `false`.",
		BuiltIn:     true,
	},
	{
		Name:        "ID",
		Kind:        TypeKindScalar,
		Description: "The `ID` scalar type represents a unique identifier, often used to refetch an object or as a key for caching.",
		BuiltIn:     true,
	},
}

var builtinDirectives = []*Directive{
	{
		Name:        "include",
		Description: "Directs the executor to include this field or fragment only when the `if` argument is true.",
		Arguments: []*InputValue{
			{
				Name:        "if",
				Description: "Included when true.",
				Type:        NonNullType(NamedType("Boolean")),
			},
		},
		Locations: []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
	},
	{
		Name:        "skip",
		Description: "Directs the executor to skip this field or fragment when the `if` argument is true.",
		Arguments: []*InputValue{
			{
				Name:        "if",
				Description: "Skipped when true.",
				Type:        NonNullType(NamedType("Boolean")),
			},
		},
		Locations: []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
	},
	{
		Name:        "deprecated",
		Description: "Marks an element of a GraphQL schema as no longer supported.",
		Arguments: []*InputValue{
			{
				Name:        "reason",
				Description: "Explains why this element was deprecated.",
				Type:        NamedType("String"),
				DefaultValue: func() *string {
					s := `"No longer supported"`
					return &s
				}(),
			},
		},
		Locations: []string{"FIELD_DEFINITION", "ARGUMENT_DEFINITION", "INPUT_FIELD_DEFINITION", "ENUM_VALUE"},
	},
}

// defaultDeprecationReason is used when @deprecated carries no reason.
const defaultDeprecationReason = "No longer supported"
