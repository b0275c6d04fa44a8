package typegraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	bind "github.com/hanpama/typegraph/internal/bind"
	schema "github.com/hanpama/typegraph/internal/schema"
)

const testSDL = `
type Query {
  hero: Character
  human(id: ID!): Human
  maybeHuman(id: ID): Human
  search(text: String!): [SearchResult!]
  now: DateTime
  mood: Mood
}

interface Character {
  id: ID!
  name: String!
  friend: Character
  secretRank: Int @deprecated(reason: "Ranks were retired")
}

type Human implements Character {
  id: ID!
  name: String!
  friend: Character
  secretRank: Int @deprecated(reason: "Ranks were retired")
  homePlanet: String
}

type Droid implements Character {
  id: ID!
  name: String!
  friend: Character
  secretRank: Int @deprecated(reason: "Ranks were retired")
  primaryFunction: String
}

type Starship {
  id: ID!
  name: String!
}

union SearchResult = Human | Droid | Starship

scalar DateTime

enum Mood {
  HAPPY
  GRUMPY @deprecated(reason: "Too negative")
}

input HumanFilter {
  name: String!
  minRank: Int
  nested: HumanFilter
}
`

func emitQuery(t *testing.T, source string, opts Options) (*Graph, error) {
	t.Helper()
	sch, err := schema.BuildFromSDL("schema.graphql", testSDL)
	require.NoError(t, err)
	doc, err := bind.ParseDocuments([]bind.Source{{Name: "doc.graphql", Content: source}})
	require.NoError(t, err)
	def, err := bind.SelectOperation(doc, "")
	require.NoError(t, err)
	op, err := bind.NewBinder(sch, doc, bind.PolicyWarn).BindOperation(def)
	require.NoError(t, err)
	return Emit(sch, op, opts)
}

func mustEmit(t *testing.T, source string, opts Options) *Graph {
	t.Helper()
	g, err := emitQuery(t, source, opts)
	require.NoError(t, err)
	return g
}

func TestEmitSimpleRecord(t *testing.T) {
	g := mustEmit(t, `query GetHuman($id: ID!) { human(id: $id) { name homePlanet } }`, Options{})

	require.Equal(t, "GetHuman", g.Operation)
	require.Equal(t, "query", g.Kind)
	require.Equal(t, "Query", g.RootType)
	require.Equal(t, RefRecord, g.Root.Kind)
	require.Equal(t, "GetHuman", g.Root.Name)

	root := g.RecordByName("GetHuman")
	require.NotNil(t, root)
	require.Equal(t, "Query", root.OnType)
	require.Len(t, root.Fields, 1)

	human := g.RecordByName("GetHumanHuman")
	require.NotNil(t, human)
	require.Equal(t, "Human", human.OnType)
	name := human.Fields[0]
	require.Equal(t, "name", name.Name)
	require.True(t, name.Required)
	homePlanet := human.Fields[1]
	require.Equal(t, "homePlanet", homePlanet.Name)
	require.False(t, homePlanet.Required)
}

func TestEmitNamingIsPathComposed(t *testing.T) {
	g := mustEmit(t, `query Q { a: human(id: "1") { name } b: human(id: "1") { name } }`, Options{})

	// Structurally identical selections at different positions still get
	// distinct names.
	require.NotNil(t, g.RecordByName("QA"))
	require.NotNil(t, g.RecordByName("QB"))
}

func TestEmitNameCollisionSuffixed(t *testing.T) {
	// The field aliased onHuman and the Human branch both compose
	// QHeroOnHuman; the branch is emitted later and gets the suffix.
	g := mustEmit(t, `query Q {
	  hero {
	    name
	    onHuman: friend { name }
	    ... on Human { homePlanet }
	  }
	}`, Options{})

	friend := g.VariantByName("QHeroOnHuman")
	require.NotNil(t, friend)
	require.Equal(t, "Character", friend.OnType)

	v := g.VariantByName("QHero")
	require.NotNil(t, v)
	require.Len(t, v.Alternatives, 1)
	require.Equal(t, "QHeroOnHuman2", v.Alternatives[0].Type.Name)

	branch := g.RecordByName("QHeroOnHuman2")
	require.NotNil(t, branch)
	require.Equal(t, "Human", branch.OnType)

	seen := map[string]bool{}
	for _, r := range g.Records {
		require.False(t, seen[r.Name], "duplicate shape name %s", r.Name)
		seen[r.Name] = true
	}
	for _, vr := range g.Variants {
		require.False(t, seen[vr.Name], "duplicate shape name %s", vr.Name)
		seen[vr.Name] = true
	}
}

func TestEmitVariantWithFallback(t *testing.T) {
	g := mustEmit(t, `query Search {
	  search(text: "x") {
	    ... on Human { homePlanet }
	    ... on Droid { primaryFunction }
	  }
	}`, Options{})

	v := g.VariantByName("SearchSearch")
	require.NotNil(t, v)
	require.Equal(t, "SearchResult", v.OnType)
	require.Equal(t, "__typename", v.Discriminant)

	require.Len(t, v.Alternatives, 2)
	require.Equal(t, "Human", v.Alternatives[0].TypeName)
	require.Equal(t, "Droid", v.Alternatives[1].TypeName)
	// Starship is a member of the union but not selected; the fallback
	// absorbs it and any member added after compilation.
	require.Equal(t, "SearchSearchOther", v.Fallback)

	human := g.RecordByName("SearchSearchOnHuman")
	require.NotNil(t, human)
	require.Equal(t, "homePlanet", human.Fields[0].Name)
}

func TestEmitVariantCommonFields(t *testing.T) {
	g := mustEmit(t, `query Q { hero { name ... on Human { homePlanet } } }`, Options{})

	v := g.VariantByName("QHero")
	require.NotNil(t, v)
	require.Len(t, v.Common, 1)
	require.Equal(t, "name", v.Common[0].Name)
	require.Len(t, v.Alternatives, 1)
}

func TestEmitFragmentRecordShared(t *testing.T) {
	sch, err := schema.BuildFromSDL("schema.graphql", testSDL)
	require.NoError(t, err)
	doc, err := bind.ParseDocuments([]bind.Source{{Name: "doc.graphql", Content: `
query Q { hero { ...HumanBits } search(text: "x") { ...HumanBits } }
fragment HumanBits on Human { homePlanet }
`}})
	require.NoError(t, err)
	def, err := bind.SelectOperation(doc, "Q")
	require.NoError(t, err)
	op, err := bind.NewBinder(sch, doc, bind.PolicyWarn).BindOperation(def)
	require.NoError(t, err)
	g, err := Emit(sch, op, Options{})
	require.NoError(t, err)

	// Both use sites reference one record.
	require.NotNil(t, g.RecordByName("HumanBits"))
	count := 0
	for _, r := range g.Records {
		if r.Fragment == "HumanBits" {
			count++
		}
	}
	require.Equal(t, 1, count)

	hero := g.VariantByName("QHero")
	search := g.VariantByName("QSearch")
	require.Equal(t, "HumanBits", hero.Alternatives[0].Type.Name)
	require.Equal(t, "HumanBits", search.Alternatives[0].Type.Name)
}

func TestEmitDeprecationMarkers(t *testing.T) {
	g := mustEmit(t, `query Q { hero { name secretRank } }`, Options{})

	v := g.VariantByName("QHero")
	require.NotNil(t, v)
	var rank *RecordField
	for _, f := range v.Common {
		if f.Name == "secretRank" {
			rank = f
		}
	}
	require.NotNil(t, rank)
	require.True(t, rank.Deprecated)
	require.Equal(t, "Ranks were retired", rank.DeprecationReason)
}

func TestEmitEnumWithDriftValue(t *testing.T) {
	g := mustEmit(t, `query Q { mood }`, Options{})

	e := g.EnumByName("Mood")
	require.NotNil(t, e)
	require.Equal(t, "Other", e.Other)
	require.Len(t, e.Values, 2)
	require.Equal(t, "HAPPY", e.Values[0].Name)
	grumpy := e.Values[1]
	require.True(t, grumpy.Deprecated)
	require.Equal(t, "Too negative", grumpy.DeprecationReason)
}

func TestEmitCustomScalarClosedMode(t *testing.T) {
	_, err := emitQuery(t, `query Q { now }`, Options{})
	require.Error(t, err)
	var eerr *EmitError
	require.ErrorAs(t, err, &eerr)
	require.Equal(t, ErrUnresolvedScalar, eerr.Kind)
	require.Contains(t, eerr.Message, "DateTime")
}

func TestEmitCustomScalarMapped(t *testing.T) {
	g := mustEmit(t, `query Q { now }`, Options{
		ScalarMapping: map[string]string{"DateTime": "time.Time"},
	})
	require.Len(t, g.Scalars, 1)
	require.Equal(t, "DateTime", g.Scalars[0].Name)
	require.Equal(t, "time.Time", g.Scalars[0].Mapped)
	require.False(t, g.Scalars[0].Opaque)
}

func TestEmitCustomScalarOpenMode(t *testing.T) {
	g := mustEmit(t, `query Q { now }`, Options{OpenScalars: true})
	require.Len(t, g.Scalars, 1)
	require.True(t, g.Scalars[0].Opaque)
	require.Empty(t, g.Scalars[0].Mapped)
}

func TestEmitVariablePresence(t *testing.T) {
	g := mustEmit(t, `query Q($a: ID!, $b: ID, $c: ID = "1") {
	  x: human(id: $a) { name }
	  y: maybeHuman(id: $b) { name }
	  z: human(id: $c) { name }
	}`, Options{})

	require.Len(t, g.Variables, 3)
	require.Equal(t, PresenceRequired, g.Variables[0].Presence)
	require.Equal(t, PresenceOptionalNullable, g.Variables[1].Presence)
	require.Equal(t, PresenceOptional, g.Variables[2].Presence)
	require.Equal(t, `"1"`, g.Variables[2].Default)
}

func TestEmitInputObjectVariable(t *testing.T) {
	sch, err := schema.BuildFromSDL("schema.graphql", testSDL+`
extend type Query { filtered(filter: HumanFilter!): Human }
`)
	require.NoError(t, err)
	doc, err := bind.ParseDocuments([]bind.Source{{Name: "doc.graphql", Content: `
query Q($filter: HumanFilter!) { filtered(filter: $filter) { name } }
`}})
	require.NoError(t, err)
	def, err := bind.SelectOperation(doc, "")
	require.NoError(t, err)
	op, err := bind.NewBinder(sch, doc, bind.PolicyWarn).BindOperation(def)
	require.NoError(t, err)
	g, err := Emit(sch, op, Options{})
	require.NoError(t, err)

	rec := g.RecordByName("HumanFilter")
	require.NotNil(t, rec)
	require.Len(t, rec.Fields, 3)
	require.True(t, rec.Fields[0].Required)
	require.False(t, rec.Fields[1].Required)
	// The self-referential field terminates through the memo.
	require.Equal(t, "HumanFilter", rec.Fields[2].Type.Name)
}

func TestEmitListWrapping(t *testing.T) {
	g := mustEmit(t, `query Q { search(text: "x") { ... on Starship { name } } }`, Options{})

	root := g.RecordByName("Q")
	search := root.Fields[0]
	// [SearchResult!]: nullable list of non-null variants.
	require.Equal(t, RefList, search.Type.Kind)
	require.False(t, search.Type.NonNull)
	require.Equal(t, RefVariant, search.Type.Elem.Kind)
	require.True(t, search.Type.Elem.NonNull)
	require.False(t, search.Required)
}

func TestEmitConditionalFieldOptional(t *testing.T) {
	g := mustEmit(t, `query Q($full: Boolean!) { human(id: "1") { name id @include(if: $full) } }`, Options{})

	human := g.RecordByName("QHuman")
	require.NotNil(t, human)
	name := human.Fields[0]
	id := human.Fields[1]
	require.True(t, name.Required)
	// id is ID! but its arrival depends on a variable condition.
	require.True(t, id.Type.NonNull)
	require.False(t, id.Required)
}

func TestEmitExtraDerivesPassThrough(t *testing.T) {
	g := mustEmit(t, `query Q { mood }`, Options{ExtraDerives: []string{"Eq", "Debug"}})
	require.Equal(t, []string{"Eq", "Debug"}, g.ExtraDerives)
}

func TestExportName(t *testing.T) {
	cases := map[string]string{
		"hero":           "Hero",
		"heroForEpisode": "HeroForEpisode",
		"hero_for_ep":    "HeroForEp",
		"hero-for-ep":    "HeroForEp",
		"HeroForEpisode": "HeroForEpisode",
		"":               "",
	}
	for in, want := range cases {
		require.Equal(t, want, exportName(in), in)
	}
}
