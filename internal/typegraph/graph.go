package typegraph

// Graph is the serializable type model compiled from one operation. It is
// the complete contract between the compiler and an external code
// emitter: records, variants and enums in deterministic emission order,
// the operation's variables, and the custom scalars the host environment
// must resolve.
type Graph struct {
	Operation string `json:"operation"`
	Kind      string `json:"kind"`
	RootType  string `json:"rootType"`

	// Query is the canonical text of the operation plus its fragment
	// closure, ready to be sent as the request payload.
	Query string `json:"query"`

	Root      *TypeRef    `json:"root"`
	Records   []*Record   `json:"records,omitempty"`
	Variants  []*Variant  `json:"variants,omitempty"`
	Enums     []*Enum     `json:"enums,omitempty"`
	Scalars   []*Scalar   `json:"scalars,omitempty"`
	Variables []*Variable `json:"variables,omitempty"`

	// ExtraDerives names capabilities the emitted types must support.
	// They are carried opaquely for the external emitter.
	ExtraDerives []string `json:"extraDerives,omitempty"`
}

// RecordByName returns the record with the given name, or nil.
func (g *Graph) RecordByName(name string) *Record {
	for _, r := range g.Records {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// VariantByName returns the variant with the given name, or nil.
func (g *Graph) VariantByName(name string) *Variant {
	for _, v := range g.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// EnumByName returns the enum descriptor with the given name, or nil.
func (g *Graph) EnumByName(name string) *Enum {
	for _, e := range g.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Record is one concrete selection shape. Records derived from a named
// fragment are emitted once and referenced from every use site.
type Record struct {
	Name     string         `json:"name"`
	OnType   string         `json:"onType"`
	Fragment string         `json:"fragment,omitempty"`
	Fields   []*RecordField `json:"fields"`
}

// RecordField is one field of a record. Name is the response key the
// field arrives under; FieldName is the schema field it binds to.
type RecordField struct {
	Name              string   `json:"name"`
	FieldName         string   `json:"fieldName"`
	Type              *TypeRef `json:"type"`
	Required          bool     `json:"required"`
	Deprecated        bool     `json:"deprecated,omitempty"`
	DeprecationReason string   `json:"deprecationReason,omitempty"`
}

// Variant is the shape of an interface or union selection: fields valid
// on the abstract type itself, one alternative per type condition, and a
// fallback label for discriminants added to the schema after compilation.
type Variant struct {
	Name         string         `json:"name"`
	OnType       string         `json:"onType"`
	Discriminant string         `json:"discriminant"`
	Common       []*RecordField `json:"common,omitempty"`
	Alternatives []*Alternative `json:"alternatives"`
	Fallback     string         `json:"fallback"`
}

// Alternative maps one runtime discriminant value to a record.
type Alternative struct {
	TypeName string   `json:"typeName"`
	Type     *TypeRef `json:"type"`
}

// Enum is an enum descriptor. Other names the implicit drift value that
// absorbs members the server added after compilation.
type Enum struct {
	Name   string       `json:"name"`
	Values []*EnumValue `json:"values"`
	Other  string       `json:"other"`
}

type EnumValue struct {
	Name              string `json:"name"`
	Deprecated        bool   `json:"deprecated,omitempty"`
	DeprecationReason string `json:"deprecationReason,omitempty"`
}

// Scalar records how one custom scalar was resolved. Opaque is set in
// open mode when no mapping was supplied.
type Scalar struct {
	Name   string `json:"name"`
	Mapped string `json:"mapped,omitempty"`
	Opaque bool   `json:"opaque,omitempty"`
}

// Variable describes one operation variable and how callers supply it.
type Variable struct {
	Name     string   `json:"name"`
	Type     *TypeRef `json:"type"`
	Presence Presence `json:"presence"`
	Default  string   `json:"default,omitempty"`
}

// Presence classifies how a variable value may be supplied.
type Presence string

const (
	// PresenceRequired: non-null with no default, a value must be given.
	PresenceRequired Presence = "required"
	// PresenceOptional: a default exists, absence means the default.
	PresenceOptional Presence = "optional"
	// PresenceOptionalNullable: nullable with no default. Absent and
	// explicitly null are distinct states and both must be expressible.
	PresenceOptionalNullable Presence = "optionalNullable"
)

// TypeRef is a reference into the graph. List nesting and non-null
// wrapping mirror the schema type the position was declared with.
type TypeRef struct {
	Kind    RefKind  `json:"kind"`
	Name    string   `json:"name,omitempty"`
	Elem    *TypeRef `json:"elem,omitempty"`
	NonNull bool     `json:"nonNull,omitempty"`
}

type RefKind string

const (
	RefScalar  RefKind = "SCALAR"
	RefRecord  RefKind = "RECORD"
	RefVariant RefKind = "VARIANT"
	RefEnum    RefKind = "ENUM"
	RefList    RefKind = "LIST"
)

// EmitError is a terminal emission failure.
type EmitError struct {
	Kind    EmitErrorKind
	Message string
}

type EmitErrorKind string

const (
	ErrUnresolvedScalar EmitErrorKind = "UnresolvedScalar"
)

func (e *EmitError) Error() string {
	return "typegraph: " + string(e.Kind) + ": " + e.Message
}
