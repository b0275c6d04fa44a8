package bind

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectOperationByName(t *testing.T) {
	doc := mustDocs(t, `query A { __typename } query B { __typename }`)
	op, err := SelectOperation(doc, "B")
	require.NoError(t, err)
	require.Equal(t, "B", op.Name)
}

func TestSelectOperationNotFound(t *testing.T) {
	doc := mustDocs(t, `query A { __typename }`)
	_, err := SelectOperation(doc, "Missing")
	var berr *Error
	require.ErrorAs(t, err, &berr)
	require.Equal(t, ErrOperationNotFound, berr.Kind)
	require.Contains(t, berr.Message, `"Missing"`)
	require.Contains(t, berr.Message, "A")
}

func TestSelectOperationSingleWithoutName(t *testing.T) {
	doc := mustDocs(t, `query Only { __typename }`)
	op, err := SelectOperation(doc, "")
	require.NoError(t, err)
	require.Equal(t, "Only", op.Name)
}

func TestSelectOperationAmbiguous(t *testing.T) {
	doc := mustDocs(t, `query A { __typename } query B { __typename }`)
	_, err := SelectOperation(doc, "")
	var berr *Error
	require.ErrorAs(t, err, &berr)
	require.Equal(t, ErrAmbiguousOperation, berr.Kind)
}

func TestSelectOperationEmptyDocument(t *testing.T) {
	doc := mustDocs(t, `fragment F on Query { __typename }`)
	_, err := SelectOperation(doc, "")
	var berr *Error
	require.ErrorAs(t, err, &berr)
	require.Equal(t, ErrOperationNotFound, berr.Kind)
}
