package typegraph

import (
	bind "github.com/hanpama/typegraph/internal/bind"
	schema "github.com/hanpama/typegraph/internal/schema"
	tg "github.com/hanpama/typegraph/internal/typegraph"
)

// Schema is an immutable, validated schema model. One Schema may be
// shared by any number of concurrent Generate calls.
type Schema = schema.Schema

// SchemaParseError reports a failure to build a Schema.
type SchemaParseError = schema.ParseError

// Graph is the compiled type model of one operation.
type Graph = tg.Graph

type (
	Record      = tg.Record
	RecordField = tg.RecordField
	Variant     = tg.Variant
	Alternative = tg.Alternative
	Enum        = tg.Enum
	EnumValue   = tg.EnumValue
	Scalar      = tg.Scalar
	Variable    = tg.Variable
	TypeRef     = tg.TypeRef
	Presence    = tg.Presence
)

const (
	PresenceRequired         = tg.PresenceRequired
	PresenceOptional         = tg.PresenceOptional
	PresenceOptionalNullable = tg.PresenceOptionalNullable
)

// BindError reports a document that does not fit the schema, or an
// operation selection that cannot be satisfied.
type BindError = bind.Error

// EmitError reports a failure while walking the bound tree, such as a
// custom scalar with no mapping in closed mode.
type EmitError = tg.EmitError
