package gen

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genSDL = `
type Query {
  search(filter: SearchFilter): [Dog!]!
}

type Dog {
  id: ID!
  name: String!
  nickname: String @deprecated(reason: "use name")
}

enum Status {
  GOOD_DOG
  BAD_DOG @deprecated(reason: "all dogs are good")
}

input SearchFilter {
  name: String
  status: Status
}
`

const searchQuery = `query Search($limit: Int = 25, $status: Status = GOOD_DOG, $names: [String!] = ["a", "b"], $filter: SearchFilter = {name: "rex"}) {
  search(filter: $filter) {
    id
  }
}
`

// stubResolver returns a fixed response tree for every operation, so the
// emitters can be exercised without the resolve package.
type stubResolver struct {
	fields []*ResponseField
	err    error
}

func (r stubResolver) Resolve(*Schema, *Operation) ([]*ResponseField, error) {
	return r.fields, r.err
}

func searchTree() []*ResponseField {
	return []*ResponseField{{
		Name: "search",
		Type: ListOf(NamedType("Dog")),
		Fields: []*ResponseField{
			{Name: "id", Type: NamedType("ID")},
		},
	}}
}

func renderResult(t *testing.T, result *Result) map[string]string {
	t.Helper()
	out := make(map[string]string, len(result.Files))
	for _, f := range result.Files {
		var buf bytes.Buffer
		require.NoError(t, f.File.Render(&buf))
		out[f.Name] = buf.String()
	}
	return out
}

// containsField asserts that src declares a field with the given name and
// type, tolerating gofmt's column alignment between the two.
func containsField(t *testing.T, src, name, typ string) {
	t.Helper()
	re := regexp.MustCompile(regexp.QuoteMeta(name) + `\s+` + regexp.QuoteMeta(typ))
	assert.True(t, re.MatchString(src), "missing field %q of type %q in:\n%s", name, typ, src)
}

func generateSearch(t *testing.T, opts ...Option) map[string]string {
	t.Helper()
	s, err := SchemaFromSDL("schema.graphql", genSDL)
	require.NoError(t, err)
	doc, err := ParseDocument("search.graphql", searchQuery)
	require.NoError(t, err)
	cfg := MustNewConfig(append([]Option{WithPackage("petapi")}, opts...)...)
	result, err := Generate(s, []*Document{doc}, stubResolver{fields: searchTree()}, cfg)
	require.NoError(t, err)
	return renderResult(t, result)
}

func TestGenerateStandalone(t *testing.T) {
	files := generateSearch(t)
	src, ok := files["search.go"]
	require.True(t, ok, "one file per operation, snake-cased")

	t.Run("operation constants", func(t *testing.T) {
		assert.Contains(t, src, `SearchOperationName = "Search"`)
		assert.Contains(t, src, "SearchQuery = ")
		assert.Contains(t, src, "search(filter: $filter)")
	})

	t.Run("variables struct and tags", func(t *testing.T) {
		assert.Contains(t, src, "type SearchVariables struct")
		containsField(t, src, "Limit", "*int64")
		assert.Contains(t, src, `json:"limit,omitempty"`)
		containsField(t, src, "Names", "[]string")
		assert.Contains(t, src, "Filter *SearchFilter")
	})

	t.Run("default constructors", func(t *testing.T) {
		assert.Contains(t, src, "func SearchLimitDefault() *int64")
		assert.Contains(t, src, "gqlbind.Ptr(int64(25))")
		assert.Contains(t, src, "gqlbind.Ptr(StatusGoodDog)")
		assert.Contains(t, src, `[]string{"a", "b"}`)
		assert.Contains(t, src, `gqlbind.Ptr(SearchFilter{Name: gqlbind.Ptr("rex")})`)
	})

	t.Run("response tree with path-prefixed names", func(t *testing.T) {
		assert.Contains(t, src, "type SearchResponse struct")
		assert.Contains(t, src, "Search []SearchResponseSearch")
		assert.Contains(t, src, "type SearchResponseSearch struct")
		assert.Contains(t, src, "ID string")
	})

	t.Run("requester surface", func(t *testing.T) {
		assert.Contains(t, src, "func (v SearchVariables) BuildRequest() *gqlbind.Request")
		assert.Contains(t, src, "var _ gqlbind.Requester = SearchVariables{}")
	})

	t.Run("shared types file", func(t *testing.T) {
		types, ok := files["types.go"]
		require.True(t, ok)
		assert.Contains(t, types, "type Status string")
		assert.Contains(t, types, `StatusGoodDog Status = "GOOD_DOG"`)
		assert.Contains(t, types, `// Deprecated: all dogs are good`)
		assert.Contains(t, types, "type SearchFilter struct")
		assert.Contains(t, types, "func NewSearchFilter() SearchFilter")
	})

	t.Run("generated header", func(t *testing.T) {
		assert.Contains(t, src, "Code generated by gqlbind. DO NOT EDIT.")
	})
}

func TestGenerateEmbedded(t *testing.T) {
	files := generateSearch(t,
		WithMode(ModeEmbedded),
		WithStructName("PetClient"),
	)
	src := files["search.go"]
	assert.Contains(t, src, "func (PetClient) BuildRequest(v SearchVariables) *gqlbind.Request")
	assert.Contains(t, src, "var _ gqlbind.Operation[SearchVariables, SearchResponse] = PetClient{}")
	assert.NotContains(t, src, "var _ gqlbind.Requester")
}

func TestGeneratePrivateVisibility(t *testing.T) {
	files := generateSearch(t, WithVisibility(VisibilityPrivate))
	src := files["search.go"]
	assert.Contains(t, src, "type searchVariables struct")
	assert.Contains(t, src, "func newSearchVariables(")
	// Fields stay exported so JSON round-tripping works.
	containsField(t, src, "Limit", "*int64")
}

func TestGenerateDeprecationStrategies(t *testing.T) {
	s, err := SchemaFromSDL("schema.graphql", genSDL)
	require.NoError(t, err)
	doc, err := ParseDocument("search.graphql", searchQuery)
	require.NoError(t, err)

	deprecated := []*ResponseField{{
		Name:        "nickname",
		Type:        OptionalOf(NamedType("String")),
		Deprecation: &Deprecation{Reason: "use name"},
	}}

	t.Run("deny fails generation", func(t *testing.T) {
		cfg := MustNewConfig(WithPackage("petapi"), WithDeprecationStrategy(DeprecationDeny))
		_, err := Generate(s, []*Document{doc}, stubResolver{fields: deprecated}, cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPolicy)
	})

	t.Run("warn records a diagnostic", func(t *testing.T) {
		cfg := MustNewConfig(WithPackage("petapi"), WithDeprecationStrategy(DeprecationWarn))
		result, err := Generate(s, []*Document{doc}, stubResolver{fields: deprecated}, cfg)
		require.NoError(t, err)
		require.Len(t, result.Warnings, 1)
		assert.Equal(t, "Search", result.Warnings[0].Operation)
		assert.Equal(t, "use name", result.Warnings[0].Reason)
	})

	t.Run("allow is silent", func(t *testing.T) {
		cfg := MustNewConfig(WithPackage("petapi"))
		result, err := Generate(s, []*Document{doc}, stubResolver{fields: deprecated}, cfg)
		require.NoError(t, err)
		assert.Empty(t, result.Warnings)
	})
}

func TestGenerateOperationFilter(t *testing.T) {
	s, err := SchemaFromSDL("schema.graphql", genSDL)
	require.NoError(t, err)
	doc, err := ParseDocument("search.graphql", searchQuery)
	require.NoError(t, err)

	t.Run("matching filter keeps the operation", func(t *testing.T) {
		cfg := MustNewConfig(WithPackage("petapi"), WithOperationName("Search"))
		result, err := Generate(s, []*Document{doc}, stubResolver{fields: searchTree()}, cfg)
		require.NoError(t, err)
		assert.Equal(t, "search.go", result.Files[0].Name)
	})

	t.Run("unmatched filter is a config error", func(t *testing.T) {
		cfg := MustNewConfig(WithPackage("petapi"), WithOperationName("Nope"))
		_, err := Generate(s, []*Document{doc}, stubResolver{fields: searchTree()}, cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfig)
	})
}

func TestGenerateRejectsBareSelection(t *testing.T) {
	s, err := SchemaFromSDL("schema.graphql", genSDL)
	require.NoError(t, err)
	doc, err := ParseDocument("bare.graphql", `{ search(filter: null) { id } }`)
	require.NoError(t, err)
	cfg := MustNewConfig(WithPackage("petapi"))
	_, err = Generate(s, []*Document{doc}, stubResolver{fields: searchTree()}, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIngestion)
}

func TestGenerateDeterministic(t *testing.T) {
	first := generateSearch(t)
	second := generateSearch(t)
	assert.Equal(t, first, second)
}

func TestGenerateEmbeddedNeedsSingleOperation(t *testing.T) {
	s, err := SchemaFromSDL("schema.graphql", genSDL)
	require.NoError(t, err)
	doc, err := ParseDocument("two.graphql", `
query A { search(filter: null) { id } }
query B { search(filter: null) { id } }
`)
	require.NoError(t, err)
	cfg := MustNewConfig(WithPackage("petapi"), WithMode(ModeEmbedded), WithStructName("Client"))
	_, err = Generate(s, []*Document{doc}, stubResolver{fields: searchTree()}, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestGenerateZeroVariables(t *testing.T) {
	s, err := SchemaFromSDL("schema.graphql", genSDL)
	require.NoError(t, err)
	doc, err := ParseDocument("all.graphql", `query AllDogs { search(filter: null) { id } }`)
	require.NoError(t, err)
	cfg := MustNewConfig(WithPackage("petapi"))
	result, err := Generate(s, []*Document{doc}, stubResolver{fields: searchTree()}, cfg)
	require.NoError(t, err)

	src := renderResult(t, result)["all_dogs.go"]
	assert.Contains(t, src, "type AllDogsVariables struct", "no-variable operations still get a variables type")
	assert.Contains(t, src, "func NewAllDogsVariables() AllDogsVariables")
	assert.Contains(t, src, "func (v AllDogsVariables) BuildRequest()")
}

func TestGenerateModeEquivalence(t *testing.T) {
	standalone := generateSearch(t)["search.go"]
	embedded := generateSearch(t, WithMode(ModeEmbedded), WithStructName("Client"))["search.go"]

	// Same data types and query text in both modes; only the integration
	// surface differs.
	containsField(t, standalone, "Limit", "*int64")
	containsField(t, embedded, "Limit", "*int64")
	for _, shared := range []string{
		"type SearchVariables struct",
		"Filter *SearchFilter",
		"type SearchResponse struct",
		"type SearchResponseSearch struct",
		`SearchOperationName = "Search"`,
		"search(filter: $filter)",
	} {
		assert.Contains(t, standalone, shared)
		assert.Contains(t, embedded, shared)
	}
}

func TestGenerateDuplicateOperationNames(t *testing.T) {
	s, err := SchemaFromSDL("schema.graphql", genSDL)
	require.NoError(t, err)
	first, err := ParseDocument("search.graphql", searchQuery)
	require.NoError(t, err)
	second, err := ParseDocument("search_again.graphql", searchQuery)
	require.NoError(t, err)

	cfg := MustNewConfig(WithPackage("petapi"))
	_, err = Generate(s, []*Document{first, second}, stubResolver{fields: searchTree()}, cfg)
	require.Error(t, err, "both documents claim search.go")
	assert.ErrorIs(t, err, ErrIngestion)
	assert.Contains(t, err.Error(), "Search")
	assert.Contains(t, err.Error(), "search.graphql")
}

func TestGenerateKeywordRenames(t *testing.T) {
	const sdl = `
type Query {
  find(filter: KindFilter!): ID
}

input KindFilter {
  type: String!
  range: Int
}
`
	s, err := SchemaFromSDL("schema.graphql", sdl)
	require.NoError(t, err)
	doc, err := ParseDocument("find.graphql", `query Find($type: String!, $filter: KindFilter!) {
  find(filter: $filter)
}
`)
	require.NoError(t, err)
	cfg := MustNewConfig(WithPackage("petapi"))
	tree := []*ResponseField{{Name: "find", Type: OptionalOf(NamedType("ID"))}}
	result, err := Generate(s, []*Document{doc}, stubResolver{fields: tree}, cfg)
	require.NoError(t, err)
	files := renderResult(t, result)

	t.Run("keyword variable", func(t *testing.T) {
		src := files["find.go"]
		containsField(t, src, "Type", "string")
		assert.Contains(t, src, `json:"type"`)
		// The constructor parameter gets the underscore, not the wire name.
		assert.Contains(t, src, "func NewFindVariables(type_ string, filter KindFilter) FindVariables")
		assert.NotContains(t, src, `json:"type_"`)
	})

	t.Run("keyword input field", func(t *testing.T) {
		types := files["types.go"]
		assert.Contains(t, types, "type KindFilter struct")
		assert.Contains(t, types, `json:"type"`)
		assert.Contains(t, types, "Range *int64")
		assert.Contains(t, types, `json:"range,omitempty"`)
		assert.Contains(t, types, "func NewKindFilter(type_ string) KindFilter")
		assert.NotContains(t, types, `json:"type_"`)
	})
}

func TestRecursiveInputBoxing(t *testing.T) {
	s := NewSchema()
	tree := &Input{
		Name: "TreeInput",
		Fields: map[string]*ObjectField{
			"name":  {Name: "name", Type: NamedType("String")},
			"left":  {Name: "left", Type: NamedType("TreeInput")},
			"right": {Name: "right", Type: ListOf(NamedType("TreeInput"))},
			"up":    {Name: "up", Type: OptionalOf(NamedType("TreeInput"))},
		},
	}
	s.Inputs["TreeInput"] = tree
	s.Inputs["LeafInput"] = &Input{
		Name: "LeafInput",
		Fields: map[string]*ObjectField{
			"tree": {Name: "tree", Type: NamedType("TreeInput")},
		},
	}

	cx := newGenContext(s, MustNewConfig(WithPackage("petapi")))
	e := &emitter{genContext: cx}

	t.Run("cycle detection", func(t *testing.T) {
		assert.True(t, cx.recursiveInput("TreeInput"))
		assert.False(t, cx.recursiveInput("LeafInput"))
	})

	t.Run("bare self-reference is boxed, containers are not", func(t *testing.T) {
		f := newFile(cx.cfg)
		require.NoError(t, genInput(e, f, tree))
		var buf bytes.Buffer
		require.NoError(t, f.Render(&buf))
		src := buf.String()
		containsField(t, src, "Left", "*TreeInput")
		containsField(t, src, "Right", "[]TreeInput")
		containsField(t, src, "Up", "*TreeInput")
	})
}
