package schema

import (
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/gqlerror"

	language "github.com/hanpama/typegraph/internal/language"
)

// ParseError reports malformed schema input, either SDL text or an
// introspection-result document. It is terminal for the build call.
type ParseError struct {
	Message string
	File    string
	Line    int
	Column  int
}

func (e *ParseError) Error() string {
	msg := "schema: " + e.Message
	if e.File != "" {
		msg += fmt.Sprintf(" %s:%d:%d", e.File, e.Line, e.Column)
	}
	return msg
}

func parseErrorf(format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}

func parseErrorAt(pos *language.Position, format string, args ...any) *ParseError {
	e := parseErrorf(format, args...)
	if pos != nil && pos.Src != nil {
		e.File = pos.Src.Name
		e.Line = pos.Line
		e.Column = pos.Column
	}
	return e
}

// parseErrorFromSyntax converts a gqlparser syntax error, keeping its
// source position.
func parseErrorFromSyntax(file string, err error) *ParseError {
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		e := &ParseError{Message: gqlErr.Message, File: file}
		if len(gqlErr.Locations) > 0 {
			e.Line = gqlErr.Locations[0].Line
			e.Column = gqlErr.Locations[0].Column
		}
		return e
	}
	return &ParseError{Message: err.Error(), File: file}
}
