package bind

import (
	"errors"

	"github.com/vektah/gqlparser/v2/gqlerror"

	language "github.com/hanpama/typegraph/internal/language"
)

// Source is one operation-document source file.
type Source struct {
	Name    string
	Content string
}

// ParseDocuments parses one or more operation-document sources and merges
// them into a single document. Operation names share one namespace across
// the whole set, fragment names another; duplicates in either fail.
func ParseDocuments(sources []Source) (*language.QueryDocument, error) {
	merged := &language.QueryDocument{}
	opNames := make(map[string]bool)
	fragNames := make(map[string]bool)
	anonymous := false

	for _, src := range sources {
		doc, err := language.ParseQuery(src.Name, src.Content)
		if err != nil {
			return nil, syntaxError(src.Name, err)
		}
		for _, op := range doc.Operations {
			if op.Name == "" {
				if anonymous || len(doc.Operations) > 1 || len(merged.Operations) > 0 {
					return nil, errDuplicateAnonymousOperation(op.Position)
				}
				anonymous = true
			} else {
				if anonymous {
					return nil, errDuplicateAnonymousOperation(op.Position)
				}
				if opNames[op.Name] {
					return nil, errDuplicateOperation(op.Name, op.Position)
				}
				opNames[op.Name] = true
			}
			merged.Operations = append(merged.Operations, op)
		}
		for _, frag := range doc.Fragments {
			if fragNames[frag.Name] {
				return nil, errDuplicateFragment(frag.Name, frag.Position)
			}
			fragNames[frag.Name] = true
			merged.Fragments = append(merged.Fragments, frag)
		}
	}
	return merged, nil
}

// syntaxError converts a gqlparser error, keeping its source position.
func syntaxError(file string, err error) *Error {
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) {
		e := &Error{Kind: ErrSyntax, Message: gqlErr.Message, File: file}
		if len(gqlErr.Locations) > 0 {
			e.Line = gqlErr.Locations[0].Line
			e.Column = gqlErr.Locations[0].Column
		}
		return e
	}
	return &Error{Kind: ErrSyntax, Message: err.Error(), File: file}
}
