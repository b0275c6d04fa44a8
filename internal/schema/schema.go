package schema

import (
	"sort"
)

// Schema is the in-memory model of a GraphQL type system.
//
// A Schema is read-only after construction (BuildFromSDL or
// BuildFromIntrospection) and may be shared across unboundedly many
// concurrent binding calls without locking.
type Schema struct {
	QueryType        string
	MutationType     string
	SubscriptionType string
	Types            map[string]*Type // all named types keyed by name
	Directives       map[string]*Directive
	Description      string
}

// NewSchema returns a schema pre-populated with the builtin scalars and
// directives every GraphQL schema carries.
func NewSchema(description string) *Schema {
	s := &Schema{
		Types:       make(map[string]*Type),
		Directives:  make(map[string]*Directive),
		Description: description,
	}
	for _, t := range builtinScalars {
		s.Types[t.Name] = t
	}
	for _, d := range builtinDirectives {
		s.Directives[d.Name] = d
	}
	return s
}

func (s *Schema) addType(t *Type) *Schema {
	s.Types[t.Name] = t
	return s
}

func (s *Schema) addDirective(d *Directive) *Schema {
	s.Directives[d.Name] = d
	return s
}

// GetQueryType returns the root query type (nil if absent).
func (s *Schema) GetQueryType() *Type { return s.Types[s.QueryType] }

// GetMutationType returns the root mutation type (nil if absent).
func (s *Schema) GetMutationType() *Type { return s.Types[s.MutationType] }

// GetSubscriptionType returns the root subscription type (nil if absent).
func (s *Schema) GetSubscriptionType() *Type { return s.Types[s.SubscriptionType] }

// PossibleTypes returns the concrete object type names a value of the named
// type may have at runtime: the type itself for objects, the implementers
// for interfaces and the members for unions.
func (s *Schema) PossibleTypes(name string) []string {
	t := s.Types[name]
	if t == nil {
		return nil
	}
	switch t.Kind {
	case TypeKindObject:
		return []string{t.Name}
	case TypeKindInterface, TypeKindUnion:
		return t.PossibleTypes
	}
	return nil
}

// Implements reports whether values of type name can satisfy the given type
// condition: the condition is the type itself, an interface it implements,
// or a union it is a member of.
func (s *Schema) Implements(name, condition string) bool {
	if name == condition {
		return true
	}
	t := s.Types[name]
	if t == nil {
		return false
	}
	for _, iface := range t.Interfaces {
		if iface == condition {
			return true
		}
	}
	if cond := s.Types[condition]; cond != nil && cond.Kind == TypeKindUnion {
		for _, member := range cond.PossibleTypes {
			if member == name {
				return true
			}
		}
	}
	return false
}

// Overlap reports whether the two named composite types can describe the
// same runtime object, i.e. their possible-type sets intersect.
func (s *Schema) Overlap(a, b string) bool {
	pa := s.PossibleTypes(a)
	pb := s.PossibleTypes(b)
	set := make(map[string]bool, len(pa))
	for _, n := range pa {
		set[n] = true
	}
	for _, n := range pb {
		if set[n] {
			return true
		}
	}
	return false
}

// Type is a named GraphQL type. Names are the schema's sole namespace.
type Type struct {
	Name          string
	Kind          TypeKind
	Description   string
	Fields        []*Field      // OBJECT, INTERFACE
	Interfaces    []string      // OBJECT, INTERFACE: implemented interfaces
	PossibleTypes []string      // INTERFACE, UNION: concrete object types
	EnumValues    []*EnumValue  // ENUM
	InputFields   []*InputValue // INPUT_OBJECT
	BuiltIn       bool
}

// FieldByName looks up a field declared on the type.
func (t *Type) FieldByName(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FieldNames returns the declared field names in sorted order, used to
// report the expected field set on unknown-field errors.
func (t *Type) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names
}

// InputFieldByName looks up a field on an INPUT_OBJECT type.
func (t *Type) InputFieldByName(name string) *InputValue {
	for _, f := range t.InputFields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// EnumValueByName looks up a declared enum value.
func (t *Type) EnumValueByName(name string) *EnumValue {
	for _, v := range t.EnumValues {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// IsComposite reports whether the type can carry a sub-selection.
func (t *Type) IsComposite() bool {
	return t.Kind == TypeKindObject || t.Kind == TypeKindInterface || t.Kind == TypeKindUnion
}

// IsAbstract reports whether the type requires a runtime discriminant.
func (t *Type) IsAbstract() bool {
	return t.Kind == TypeKindInterface || t.Kind == TypeKindUnion
}

// IsLeaf reports whether selections on the type must be empty.
func (t *Type) IsLeaf() bool {
	return t.Kind == TypeKindScalar || t.Kind == TypeKindEnum
}

// Field represents an output field on an object or interface.
type Field struct {
	Name              string
	Description       string
	Type              *TypeRef
	Arguments         []*InputValue
	IsDeprecated      bool
	DeprecationReason string
}

// ArgumentByName looks up a declared argument of the field.
func (f *Field) ArgumentByName(name string) *InputValue {
	for _, a := range f.Arguments {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// TypeKind represents the kind of a named GraphQL type.
type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
)

// TypeRef is a reference to a type, possibly wrapped in List or NonNull.
type TypeRef struct {
	Kind   TypeRefKind
	OfType *TypeRef // LIST and NON_NULL
	Named  string   // NAMED
}

type TypeRefKind string

const (
	TypeRefKindNamed   TypeRefKind = "NAMED"
	TypeRefKindList    TypeRefKind = "LIST"
	TypeRefKindNonNull TypeRefKind = "NON_NULL"
)

func NamedType(name string) *TypeRef  { return &TypeRef{Kind: TypeRefKindNamed, Named: name} }
func ListType(t *TypeRef) *TypeRef    { return &TypeRef{Kind: TypeRefKindList, OfType: t} }
func NonNullType(t *TypeRef) *TypeRef { return &TypeRef{Kind: TypeRefKindNonNull, OfType: t} }

// IsNonNull reports whether the outermost wrapper is Non-Null.
func (t *TypeRef) IsNonNull() bool { return t != nil && t.Kind == TypeRefKindNonNull }

// Unwrap removes one layer of List or Non-Null wrapping.
func (t *TypeRef) Unwrap() *TypeRef {
	if t.Kind == TypeRefKindList || t.Kind == TypeRefKindNonNull {
		return t.OfType
	}
	return t
}

// NamedTypeName returns the innermost named type.
func (t *TypeRef) NamedTypeName() string {
	for cur := t; cur != nil; cur = cur.OfType {
		if cur.Named != "" {
			return cur.Named
		}
	}
	return ""
}

// String renders the reference in GraphQL notation, e.g. [Episode!]!.
func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case TypeRefKindList:
		return "[" + t.OfType.String() + "]"
	case TypeRefKindNonNull:
		return t.OfType.String() + "!"
	default:
		return t.Named
	}
}

// EnumValue is one declared value of an ENUM type.
type EnumValue struct {
	Name              string
	Description       string
	IsDeprecated      bool
	DeprecationReason string
}

// InputValue is a field argument, directive argument or input object field.
type InputValue struct {
	Name              string
	Description       string
	Type              *TypeRef
	DefaultValue      *string // GraphQL literal notation; nil when absent
	IsDeprecated      bool
	DeprecationReason string
}

// HasDefault reports whether the input value declares a default.
func (v *InputValue) HasDefault() bool { return v.DefaultValue != nil }

// Directive is a directive definition.
type Directive struct {
	Name         string
	Description  string
	Locations    []string
	Arguments    []*InputValue
	IsRepeatable bool
}
