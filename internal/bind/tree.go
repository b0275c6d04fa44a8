package bind

import (
	language "github.com/hanpama/typegraph/internal/language"
	schema "github.com/hanpama/typegraph/internal/schema"
)

// Operation is a fully bound operation: every selection resolved against
// the schema, fragments expanded into branches, variables checked.
type Operation struct {
	Name       string
	Kind       language.Operation
	RootType   string
	Selections *SelectionSet
	Variables  []*Variable
	Fragments  []*Fragment // transitive closure, in first-use order
	Def        *language.OperationDefinition
}

// Variable is a declared operation variable.
type Variable struct {
	Name    string
	Type    *schema.TypeRef
	Default *language.Value // nil when no default is declared
}

// Required reports whether callers must always supply the variable.
func (v *Variable) Required() bool { return v.Type.IsNonNull() && v.Default == nil }

// Fragment is a named fragment bound against its type condition. The same
// bound body is shared by every operation that spreads the fragment.
type Fragment struct {
	Name          string
	TypeCondition string
	Selections    *SelectionSet
	Def           *language.FragmentDefinition
}

// SelectionSet is a bound selection set. For object positions only Fields
// is populated. For interface and union positions Fields holds the
// selections valid on the abstract type itself and Branches holds one
// entry per type condition; NeedsTypename is set so the emitter
// synthesizes the discriminant.
type SelectionSet struct {
	OnType        string
	Fields        []*Field
	Branches      []*Branch
	NeedsTypename bool
}

// FieldByAlias returns the bound field with the given response key.
func (s *SelectionSet) FieldByAlias(alias string) *Field {
	for _, f := range s.Fields {
		if f.Alias == alias {
			return f
		}
	}
	return nil
}

// Field is one bound field selection. Alias is the response key.
type Field struct {
	Alias       string
	Name        string
	Def         *schema.Field
	Arguments   []*Argument
	Deprecated  bool // retained but flagged under the warn policy
	Conditional bool // guarded by @skip/@include with a variable condition
	Selections  *SelectionSet
}

// Argument is a field argument as written in the document.
type Argument struct {
	Name  string
	Value *language.Value
}

// Branch is one type-condition alternative of an abstract selection.
// FragmentName is set when the branch is the body of a single named
// fragment spread, in which case Selections is the fragment's shared
// bound body.
type Branch struct {
	TypeCondition string
	FragmentName  string
	Selections    *SelectionSet
}
