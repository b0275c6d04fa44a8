package bind

import (
	"strings"

	language "github.com/hanpama/typegraph/internal/language"
	schema "github.com/hanpama/typegraph/internal/schema"
)

// Common reusable error constructors (template helpers).
// NOTE: Keep messages stable to avoid breaking snapshot tests.

func errDuplicateOperation(name string, pos *language.Position) *Error {
	return errorAt(ErrDuplicateOperation, pos, "operation %q declared twice in the document set", name)
}

func errDuplicateAnonymousOperation(pos *language.Position) *Error {
	return errorAt(ErrDuplicateOperation, pos, "the document set contains more than one anonymous operation")
}

func errDuplicateFragment(name string, pos *language.Position) *Error {
	return errorAt(ErrDuplicateFragment, pos, "fragment %q declared twice in the document set", name)
}

func errOperationNotFound(name string, available []string) *Error {
	if len(available) == 0 {
		return errorAt(ErrOperationNotFound, nil, "operation %q not found: the document declares no operations", name)
	}
	return errorAt(ErrOperationNotFound, nil, "operation %q not found: document declares %s", name, strings.Join(available, ", "))
}

func errNoOperations() *Error {
	return errorAt(ErrOperationNotFound, nil, "the document declares no operations")
}

func errAmbiguousOperation(available []string) *Error {
	return errorAt(ErrAmbiguousOperation, nil, "multiple operations declared (%s): an operation name is required", strings.Join(available, ", "))
}

func errUndefinedFragment(name string, pos *language.Position) *Error {
	return errorAt(ErrUndefinedFragment, pos, "fragment %q is spread but never defined", name)
}

func errFragmentCycle(name string, pos *language.Position) *Error {
	return errorAt(ErrFragmentCycle, pos, "fragment %q spreads itself, directly or transitively", name)
}

func errUnknownField(name string, onType *schema.Type, pos *language.Position) *Error {
	fields := onType.FieldNames()
	if len(fields) == 0 {
		return errorAt(ErrUnknownField, pos, "field %q is not declared on type %q", name, onType.Name)
	}
	return errorAt(ErrUnknownField, pos, "field %q is not declared on type %q (declared fields: %s)",
		name, onType.Name, strings.Join(fields, ", "))
}

func errTypeConditionMismatch(condition, onType string, pos *language.Position) *Error {
	return errorAt(ErrTypeConditionMismatch, pos,
		"type condition %q can never match a value of type %q", condition, onType)
}

func errUnknownTypeCondition(condition string, pos *language.Position) *Error {
	return errorAt(ErrTypeConditionMismatch, pos, "type condition names undeclared type %q", condition)
}

func errUnknownArgument(arg, field, onType string, pos *language.Position) *Error {
	return errorAt(ErrInvalidArgument, pos, "argument %q is not declared on field %s.%s", arg, onType, field)
}

func errInvalidArgumentValue(arg string, expected *schema.TypeRef, got string, pos *language.Position) *Error {
	return errorAt(ErrInvalidArgument, pos, "argument %q expects %s, got %s", arg, expected.String(), got)
}

func errInvalidArgument(pos *language.Position, format string, args ...any) *Error {
	return errorAt(ErrInvalidArgument, pos, format, args...)
}

func errMissingRequiredArgument(arg string, expected *schema.TypeRef, field, onType string, pos *language.Position) *Error {
	return errorAt(ErrMissingRequiredVariable, pos,
		"argument %q of field %s.%s is %s and has no default, but no value is supplied",
		arg, onType, field, expected.String())
}

func errUndeclaredVariable(name string, pos *language.Position) *Error {
	return errorAt(ErrMissingRequiredVariable, pos, "variable $%s is used but never declared", name)
}

func errVariableTypeMismatch(name string, declared, expected *schema.TypeRef, pos *language.Position) *Error {
	return errorAt(ErrVariableTypeMismatch, pos,
		"variable $%s of type %s cannot be used where %s is expected",
		name, declared.String(), expected.String())
}

func errVariableNotInput(name string, declared string, pos *language.Position) *Error {
	return errorAt(ErrVariableTypeMismatch, pos, "variable $%s is declared with non-input type %s", name, declared)
}

func errConflictingFieldSelection(key string, pos *language.Position, format string, args ...any) *Error {
	return errorAt(ErrConflictingFieldSelection, pos,
		"selections for response key %q conflict: "+format, append([]any{key}, args...)...)
}

func errDeprecatedFieldSelected(field, onType, reason string, pos *language.Position) *Error {
	if reason == "" {
		return errorAt(ErrDeprecatedFieldSelected, pos,
			"field %s.%s is deprecated and the deprecation policy is deny", onType, field)
	}
	return errorAt(ErrDeprecatedFieldSelected, pos,
		"field %s.%s is deprecated (%s) and the deprecation policy is deny", onType, field, reason)
}

func errUnusedVariable(name string, pos *language.Position) *Error {
	return errorAt(ErrUnusedVariable, pos, "variable $%s is declared but never used in the operation", name)
}

func errLeafWithSelection(field, typeName string, pos *language.Position) *Error {
	return errorAt(ErrInvalidSelection, pos,
		"field %q of leaf type %s cannot have a sub-selection", field, typeName)
}

func errCompositeWithoutSelection(field, typeName string, pos *language.Position) *Error {
	return errorAt(ErrInvalidSelection, pos,
		"field %q of composite type %s requires a sub-selection", field, typeName)
}

func errMissingRootType(kind string) *Error {
	return errorAt(ErrInvalidSelection, nil, "schema declares no %s root type", kind)
}
