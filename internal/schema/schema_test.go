package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const starWarsSDL = `
schema {
  query: QueryRoot
}

type QueryRoot {
  hero(episode: Episode = NEWHOPE): Character
  search(text: String!): [SearchResult!]
  node(id: ID!): Node
}

interface Node {
  id: ID!
}

interface Character implements Node {
  id: ID!
  name: String!
  friends: [Character!]
}

type Human implements Character & Node {
  id: ID!
  name: String!
  friends: [Character!]
  height(unit: LengthUnit = METER): Float
  homePlanet: String @deprecated(reason: "Use origin instead")
}

type Droid implements Character & Node {
  id: ID!
  name: String!
  friends: [Character!]
  primaryFunction: String
}

type Starship {
  id: ID!
  name: String!
}

union SearchResult = Human | Droid | Starship

enum Episode {
  NEWHOPE
  EMPIRE
  JEDI
  CLONES @deprecated
}

enum LengthUnit {
  METER
  FOOT
}

input ReviewInput {
  stars: Int!
  commentary: String
}
`

func TestBuildFromSDL(t *testing.T) {
	s, err := BuildFromSDL("star-wars.graphql", starWarsSDL)
	require.NoError(t, err)

	require.Equal(t, "QueryRoot", s.QueryType)
	require.Empty(t, s.MutationType)
	require.NotNil(t, s.GetQueryType())

	human := s.Types["Human"]
	require.NotNil(t, human)
	require.Equal(t, TypeKindObject, human.Kind)
	require.Equal(t, []string{"Character", "Node"}, human.Interfaces)

	hero := s.GetQueryType().FieldByName("hero")
	require.NotNil(t, hero)
	require.Equal(t, "Character", hero.Type.NamedTypeName())
	episode := hero.ArgumentByName("episode")
	require.NotNil(t, episode)
	require.True(t, episode.HasDefault())
	require.Equal(t, "NEWHOPE", *episode.DefaultValue)

	search := s.GetQueryType().FieldByName("search")
	require.Equal(t, "[SearchResult!]", search.Type.String())
}

func TestBuildFromSDLConventionalRoots(t *testing.T) {
	s, err := BuildFromSDL("s.graphql", `
type Query { ok: Boolean }
type Mutation { setOk(v: Boolean!): Boolean }
`)
	require.NoError(t, err)
	require.Equal(t, "Query", s.QueryType)
	require.Equal(t, "Mutation", s.MutationType)
	require.Empty(t, s.SubscriptionType)
}

func TestPossibleTypesDerived(t *testing.T) {
	s, err := BuildFromSDL("star-wars.graphql", starWarsSDL)
	require.NoError(t, err)

	require.Equal(t, []string{"Droid", "Human"}, s.PossibleTypes("Character"))
	// Objects implementing a sub-interface are possible types of its
	// super-interfaces too.
	require.Equal(t, []string{"Droid", "Human"}, s.PossibleTypes("Node"))
	require.Equal(t, []string{"Human", "Droid", "Starship"}, s.PossibleTypes("SearchResult"))
	require.Equal(t, []string{"Human"}, s.PossibleTypes("Human"))

	require.True(t, s.Implements("Human", "Character"))
	require.True(t, s.Implements("Starship", "SearchResult"))
	require.False(t, s.Implements("Starship", "Character"))

	require.True(t, s.Overlap("Character", "SearchResult"))
	require.False(t, s.Overlap("Character", "Starship"))
}

func TestDeprecationFromSDL(t *testing.T) {
	s, err := BuildFromSDL("star-wars.graphql", starWarsSDL)
	require.NoError(t, err)

	homePlanet := s.Types["Human"].FieldByName("homePlanet")
	require.True(t, homePlanet.IsDeprecated)
	require.Equal(t, "Use origin instead", homePlanet.DeprecationReason)

	clones := s.Types["Episode"].EnumValueByName("CLONES")
	require.True(t, clones.IsDeprecated)
	require.Equal(t, "No longer supported", clones.DeprecationReason)

	jedi := s.Types["Episode"].EnumValueByName("JEDI")
	require.False(t, jedi.IsDeprecated)
}

func TestBuiltins(t *testing.T) {
	s := NewSchema("")
	for _, name := range []string{"String", "Int", "Float", "Boolean", "ID"} {
		st := s.Types[name]
		require.NotNil(t, st, name)
		require.True(t, st.BuiltIn, name)
		require.Equal(t, TypeKindScalar, st.Kind)
	}
	for _, name := range []string{"include", "skip", "deprecated"} {
		require.NotNil(t, s.Directives[name], name)
	}
}

func TestSDLExtensions(t *testing.T) {
	s, err := BuildFromSDL("s.graphql", `
type Query { a: String }
extend type Query { b: Int }
enum Color { RED }
extend enum Color { BLUE }
`)
	require.NoError(t, err)
	require.NotNil(t, s.GetQueryType().FieldByName("b"))
	require.NotNil(t, s.Types["Color"].EnumValueByName("BLUE"))
}

func TestBuildFromSDLErrors(t *testing.T) {
	cases := []struct {
		name string
		sdl  string
		want string
	}{
		{"syntax", `type Query {`, "schema:"},
		{"duplicate type", `type Query { a: String } type Query { b: String }`, "declared twice"},
		{"unresolved field type", `type Query { a: Missing }`, "is not declared"},
		{"non-interface implements", `type Other { x: Int } type Query implements Other { a: String }`, "not an interface"},
		{"union of non-object", `enum E { A } union U = E type Query { u: U }`, "not an object type"},
		{"extension without base", `type Query { a: String } extend type Missing { b: Int }`, "not found for extension"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildFromSDL("bad.graphql", tc.sdl)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.want)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
		})
	}
}

func TestBuildFromSDLSyntaxErrorPosition(t *testing.T) {
	_, err := BuildFromSDL("broken.graphql", "type Query {\n  a String\n}")
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "broken.graphql", perr.File)
	require.NotZero(t, perr.Line)
}

const starWarsIntrospection = `{
  "data": {
    "__schema": {
      "queryType": {"name": "QueryRoot"},
      "mutationType": null,
      "subscriptionType": null,
      "types": [
        {
          "kind": "OBJECT",
          "name": "QueryRoot",
          "fields": [
            {
              "name": "hero",
              "args": [
                {
                  "name": "episode",
                  "type": {"kind": "ENUM", "name": "Episode", "ofType": null},
                  "defaultValue": "NEWHOPE"
                }
              ],
              "type": {"kind": "INTERFACE", "name": "Character", "ofType": null},
              "isDeprecated": false,
              "deprecationReason": null
            }
          ],
          "interfaces": []
        },
        {
          "kind": "INTERFACE",
          "name": "Character",
          "fields": [
            {
              "name": "id",
              "args": [],
              "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "ID", "ofType": null}},
              "isDeprecated": false,
              "deprecationReason": null
            },
            {
              "name": "name",
              "args": [],
              "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "String", "ofType": null}},
              "isDeprecated": false,
              "deprecationReason": null
            }
          ],
          "interfaces": [],
          "possibleTypes": [{"kind": "OBJECT", "name": "Human", "ofType": null}]
        },
        {
          "kind": "OBJECT",
          "name": "Human",
          "fields": [
            {
              "name": "id",
              "args": [],
              "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "ID", "ofType": null}},
              "isDeprecated": false,
              "deprecationReason": null
            },
            {
              "name": "name",
              "args": [],
              "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "String", "ofType": null}},
              "isDeprecated": false,
              "deprecationReason": null
            },
            {
              "name": "homePlanet",
              "args": [],
              "type": {"kind": "SCALAR", "name": "String", "ofType": null},
              "isDeprecated": true,
              "deprecationReason": "Use origin instead"
            }
          ],
          "interfaces": [{"kind": "INTERFACE", "name": "Character", "ofType": null}]
        },
        {
          "kind": "ENUM",
          "name": "Episode",
          "enumValues": [
            {"name": "NEWHOPE", "isDeprecated": false, "deprecationReason": null},
            {"name": "EMPIRE", "isDeprecated": false, "deprecationReason": null}
          ]
        },
        {
          "kind": "SCALAR",
          "name": "String"
        },
        {
          "kind": "SCALAR",
          "name": "ID"
        },
        {
          "kind": "OBJECT",
          "name": "__Schema",
          "fields": []
        }
      ],
      "directives": []
    }
  }
}`

func TestBuildFromIntrospection(t *testing.T) {
	s, err := BuildFromIntrospection([]byte(starWarsIntrospection))
	require.NoError(t, err)

	require.Equal(t, "QueryRoot", s.QueryType)
	require.Nil(t, s.Types["__Schema"], "introspection meta types are skipped")

	human := s.Types["Human"]
	require.NotNil(t, human)
	require.Equal(t, []string{"Character"}, human.Interfaces)

	homePlanet := human.FieldByName("homePlanet")
	require.True(t, homePlanet.IsDeprecated)
	require.Equal(t, "Use origin instead", homePlanet.DeprecationReason)

	hero := s.GetQueryType().FieldByName("hero")
	episode := hero.ArgumentByName("episode")
	require.Equal(t, "NEWHOPE", *episode.DefaultValue)
}

func TestBuildFromIntrospectionBareSchema(t *testing.T) {
	bare := `{"__schema": {"queryType": {"name": "Query"}, "types": [
		{"kind": "OBJECT", "name": "Query", "fields": [
			{"name": "ok", "args": [], "type": {"kind": "SCALAR", "name": "Boolean", "ofType": null},
			 "isDeprecated": false, "deprecationReason": null}
		], "interfaces": []}
	], "directives": []}}`
	s, err := BuildFromIntrospection([]byte(bare))
	require.NoError(t, err)
	require.Equal(t, "Query", s.QueryType)
}

func TestBuildFromIntrospectionErrors(t *testing.T) {
	_, err := BuildFromIntrospection([]byte(`not json`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid introspection JSON")

	_, err = BuildFromIntrospection([]byte(`{"data": {}}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "no __schema object")
}

// The two builders must normalize to the identical model for equivalent
// schema descriptions.
func TestSDLIntrospectionEquivalence(t *testing.T) {
	sdl := `
schema { query: QueryRoot }
type QueryRoot {
  hero(episode: Episode = NEWHOPE): Character
}
interface Character {
  id: ID!
  name: String!
}
type Human implements Character {
  id: ID!
  name: String!
  homePlanet: String @deprecated(reason: "Use origin instead")
}
enum Episode { NEWHOPE EMPIRE }
`
	fromSDL, err := BuildFromSDL("s.graphql", sdl)
	require.NoError(t, err)
	fromJSON, err := BuildFromIntrospection([]byte(starWarsIntrospection))
	require.NoError(t, err)

	if diff := cmp.Diff(fromSDL, fromJSON); diff != "" {
		t.Errorf("schema model mismatch (-sdl +introspection):\n%s", diff)
	}
}
