package bind

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDocumentsMergesSources(t *testing.T) {
	doc, err := ParseDocuments([]Source{
		{Name: "a.graphql", Content: `query A { __typename } fragment F on Query { __typename }`},
		{Name: "b.graphql", Content: `query B { ...F }`},
	})
	require.NoError(t, err)
	require.Len(t, doc.Operations, 2)
	require.NotNil(t, doc.Fragments.ForName("F"))
}

func TestParseDocumentsSyntaxError(t *testing.T) {
	_, err := ParseDocuments([]Source{{Name: "broken.graphql", Content: `query {`}})
	require.Error(t, err)
	var berr *Error
	require.ErrorAs(t, err, &berr)
	require.Equal(t, ErrSyntax, berr.Kind)
	require.Equal(t, "broken.graphql", berr.File)
	require.NotZero(t, berr.Line)
}

func TestParseDocumentsDuplicateOperation(t *testing.T) {
	_, err := ParseDocuments([]Source{
		{Name: "a.graphql", Content: `query Q { __typename }`},
		{Name: "b.graphql", Content: `query Q { __typename }`},
	})
	var berr *Error
	require.ErrorAs(t, err, &berr)
	require.Equal(t, ErrDuplicateOperation, berr.Kind)
	require.Contains(t, berr.Message, `"Q"`)
}

func TestParseDocumentsDuplicateFragment(t *testing.T) {
	_, err := ParseDocuments([]Source{
		{Name: "a.graphql", Content: `fragment F on Query { __typename }`},
		{Name: "b.graphql", Content: `fragment F on Query { __typename }`},
	})
	var berr *Error
	require.ErrorAs(t, err, &berr)
	require.Equal(t, ErrDuplicateFragment, berr.Kind)
}

func TestParseDocumentsAnonymousRules(t *testing.T) {
	// A single anonymous operation is fine.
	doc, err := ParseDocuments([]Source{{Name: "a.graphql", Content: `{ __typename }`}})
	require.NoError(t, err)
	require.Len(t, doc.Operations, 1)

	// An anonymous operation cannot share the set with anything else.
	_, err = ParseDocuments([]Source{
		{Name: "a.graphql", Content: `{ __typename }`},
		{Name: "b.graphql", Content: `query Q { __typename }`},
	})
	var berr *Error
	require.ErrorAs(t, err, &berr)
	require.Equal(t, ErrDuplicateOperation, berr.Kind)

	_, err = ParseDocuments([]Source{
		{Name: "a.graphql", Content: `query Q { __typename }`},
		{Name: "b.graphql", Content: `{ __typename }`},
	})
	require.ErrorAs(t, err, &berr)
	require.Equal(t, ErrDuplicateOperation, berr.Kind)
}
