package typegraph

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

const requestSDL = `
type Query {
  human(id: ID!): Human
  search(text: String, limit: Int = 10): [Human!]
}

type Human {
  id: ID!
  name: String!
}
`

func requestGraph(t *testing.T, doc, operation string) *Graph {
	t.Helper()
	sch, err := LoadSchemaSDL("schema.graphql", requestSDL)
	require.NoError(t, err)
	graph, err := Generate(context.Background(), sch, Config{
		Documents:     []Document{{Name: "doc.graphql", Content: doc}},
		OperationName: operation,
	})
	require.NoError(t, err)
	return graph
}

func TestBuildRequest(t *testing.T) {
	graph := requestGraph(t, `query GetHuman($id: ID!) { human(id: $id) { name } }`, "GetHuman")

	req, err := BuildRequest(graph, map[string]any{"id": "42"})
	require.NoError(t, err)
	require.Equal(t, graph.Query, req.Query)
	require.Equal(t, "GetHuman", req.OperationName)
	require.Equal(t, map[string]any{"id": "42"}, req.Variables)

	data, err := json.Marshal(req)
	require.NoError(t, err)
	require.Contains(t, string(data), `"operationName":"GetHuman"`)
	require.Contains(t, string(data), `"variables":{"id":"42"}`)
}

func TestBuildRequestRequiredVariableMissing(t *testing.T) {
	graph := requestGraph(t, `query GetHuman($id: ID!) { human(id: $id) { name } }`, "GetHuman")

	_, err := BuildRequest(graph, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "$id")

	_, err = BuildRequest(graph, map[string]any{"id": Null})
	require.Error(t, err)
	require.Contains(t, err.Error(), "null")
}

func TestBuildRequestAbsentVersusNull(t *testing.T) {
	graph := requestGraph(t, `query Search($text: String) { search(text: $text) { name } }`, "Search")

	// Absent: the variable key is omitted entirely.
	req, err := BuildRequest(graph, nil)
	require.NoError(t, err)
	require.Nil(t, req.Variables)
	data, err := json.Marshal(req)
	require.NoError(t, err)
	require.NotContains(t, string(data), "variables")

	// Explicit null: the key is present with a JSON null value.
	req, err = BuildRequest(graph, map[string]any{"text": Null})
	require.NoError(t, err)
	require.Contains(t, req.Variables, "text")
	require.Nil(t, req.Variables["text"])
	data, err = json.Marshal(req)
	require.NoError(t, err)
	require.Contains(t, string(data), `"variables":{"text":null}`)
}

func TestBuildRequestUnknownVariable(t *testing.T) {
	graph := requestGraph(t, `query GetHuman($id: ID!) { human(id: $id) { name } }`, "GetHuman")

	_, err := BuildRequest(graph, map[string]any{"id": "1", "bogus": 2})
	require.Error(t, err)
	require.Contains(t, err.Error(), "$bogus")
}

func TestBuildRequestOptionalWithDefault(t *testing.T) {
	graph := requestGraph(t, `query Search($limit: Int = 5) { search(limit: $limit) { name } }`, "Search")

	req, err := BuildRequest(graph, nil)
	require.NoError(t, err)
	require.Nil(t, req.Variables, "absent optional falls back to the declared default server-side")

	req, err = BuildRequest(graph, map[string]any{"limit": 3})
	require.NoError(t, err)
	require.Equal(t, 3, req.Variables["limit"])
}
