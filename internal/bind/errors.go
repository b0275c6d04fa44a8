package bind

import (
	"fmt"

	language "github.com/hanpama/typegraph/internal/language"
)

// ErrorKind discriminates the terminal failure modes of document parsing,
// operation selection and binding.
type ErrorKind string

const (
	ErrSyntax             ErrorKind = "Syntax"
	ErrDuplicateOperation ErrorKind = "DuplicateOperation"
	ErrDuplicateFragment  ErrorKind = "DuplicateFragment"

	ErrOperationNotFound  ErrorKind = "OperationNotFound"
	ErrAmbiguousOperation ErrorKind = "AmbiguousOperation"

	ErrUndefinedFragment         ErrorKind = "UndefinedFragment"
	ErrFragmentCycle             ErrorKind = "FragmentCycle"
	ErrUnknownField              ErrorKind = "UnknownField"
	ErrTypeConditionMismatch     ErrorKind = "TypeConditionMismatch"
	ErrInvalidArgument           ErrorKind = "InvalidArgument"
	ErrInvalidSelection          ErrorKind = "InvalidSelection"
	ErrMissingRequiredVariable   ErrorKind = "MissingRequiredVariable"
	ErrVariableTypeMismatch      ErrorKind = "VariableTypeMismatch"
	ErrConflictingFieldSelection ErrorKind = "ConflictingFieldSelection"
	ErrDeprecatedFieldSelected   ErrorKind = "DeprecatedFieldSelected"
	ErrUnusedVariable            ErrorKind = "UnusedVariable"
)

// Error is a terminal binding failure. It carries the source position of
// the offending node so the mismatch can be surfaced verbatim at
// generation time.
type Error struct {
	Kind    ErrorKind
	Message string
	File    string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	msg := string(e.Kind) + ": " + e.Message
	if e.File != "" {
		msg += fmt.Sprintf(" %s:%d:%d", e.File, e.Line, e.Column)
	}
	return msg
}

// Core primitive used by all template helpers.
func errorAt(kind ErrorKind, pos *language.Position, format string, args ...any) *Error {
	e := &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
	if pos != nil {
		e.Line = pos.Line
		e.Column = pos.Column
		if pos.Src != nil {
			e.File = pos.Src.Name
		}
	}
	return e
}
