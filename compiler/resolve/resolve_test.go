package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlbind/compiler/gen"
)

const zooSDL = `
type Query {
  dog: Dog!
  pet: Pet!
  creature: Creature!
  search(filter: SearchFilter): [Dog!]
}

interface Pet {
  id: ID!
  name: String!
}

type Dog implements Pet {
  id: ID!
  name: String!
  pawsCount: Int!
  status: Status!
  nickname: String @deprecated(reason: "use name")
}

type Cat implements Pet {
  id: ID!
  name: String!
  lives: Int!
}

union Creature = Dog | Cat

enum Status {
  GOOD_DOG
  BAD_DOG
}

input SearchFilter {
  name: String
}
`

func resolveOp(t *testing.T, query string) ([]*gen.ResponseField, *gen.Schema, error) {
	t.Helper()
	s, err := gen.SchemaFromSDL("zoo.graphql", zooSDL)
	require.NoError(t, err)
	doc, err := gen.ParseDocument("op.graphql", query)
	require.NoError(t, err)
	require.Len(t, doc.AST.Operations, 1)
	op, err := gen.OperationFromAST(doc.AST.Operations[0], doc.AST.Fragments, query)
	require.NoError(t, err)
	fields, err := New().Resolve(s, op)
	return fields, s, err
}

func fieldNames(fields []*gen.ResponseField) []string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return names
}

func TestResolveScalars(t *testing.T) {
	fields, _, err := resolveOp(t, `query Q { dog { id name pawsCount } }`)
	require.NoError(t, err)
	require.Len(t, fields, 1)

	dog := fields[0]
	assert.Equal(t, "dog", dog.Name)
	assert.Equal(t, "Dog!", dog.Type.String())
	assert.Equal(t, []string{"id", "name", "pawsCount"}, fieldNames(dog.Fields))
	for _, f := range dog.Fields {
		assert.Empty(t, f.Fields, "scalar leaves carry no children")
	}
}

func TestResolveAliases(t *testing.T) {
	fields, _, err := resolveOp(t, `query Q { dog { goodName: name name } }`)
	require.NoError(t, err)
	assert.Equal(t, []string{"goodName", "name"}, fieldNames(fields[0].Fields))
}

func TestResolveTypename(t *testing.T) {
	t.Run("on an object", func(t *testing.T) {
		fields, _, err := resolveOp(t, `query Q { dog { __typename } }`)
		require.NoError(t, err)
		f := fields[0].Fields[0]
		assert.Equal(t, "__typename", f.Name)
		assert.Equal(t, "String!", f.Type.String())
	})

	t.Run("on a union", func(t *testing.T) {
		fields, _, err := resolveOp(t, `query Q { creature { __typename } }`)
		require.NoError(t, err)
		assert.Equal(t, []string{"__typename"}, fieldNames(fields[0].Fields))
	})
}

func TestResolveFragments(t *testing.T) {
	t.Run("spread is flattened", func(t *testing.T) {
		fields, _, err := resolveOp(t, `
query Q { dog { ...dogParts pawsCount } }
fragment dogParts on Dog { id name }
`)
		require.NoError(t, err)
		assert.Equal(t, []string{"id", "name", "pawsCount"}, fieldNames(fields[0].Fields))
	})

	t.Run("inline fragment narrows a union", func(t *testing.T) {
		fields, _, err := resolveOp(t, `
query Q {
  creature {
    __typename
    ... on Dog { pawsCount }
    ... on Cat { lives }
  }
}
`)
		require.NoError(t, err)
		assert.Equal(t, []string{"__typename", "pawsCount", "lives"}, fieldNames(fields[0].Fields))
	})

	t.Run("interface selections mix own fields and fragments", func(t *testing.T) {
		fields, _, err := resolveOp(t, `
query Q {
  pet {
    name
    ... on Dog { pawsCount }
  }
}
`)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "pawsCount"}, fieldNames(fields[0].Fields))
	})

	t.Run("undefined fragment fails", func(t *testing.T) {
		_, _, err := resolveOp(t, `query Q { dog { ...nope } }`)
		require.Error(t, err)
		assert.ErrorIs(t, err, gen.ErrResolution)
	})
}

func TestResolveDuplicateKeysKeepFirst(t *testing.T) {
	fields, _, err := resolveOp(t, `
query Q { dog { name ...dogParts } }
fragment dogParts on Dog { name id }
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "id"}, fieldNames(fields[0].Fields))
}

func TestResolveErrors(t *testing.T) {
	t.Run("unknown field", func(t *testing.T) {
		_, _, err := resolveOp(t, `query Q { dog { paws } }`)
		require.Error(t, err)
		assert.ErrorIs(t, err, gen.ErrResolution)
		assert.Contains(t, err.Error(), "paws")
	})

	t.Run("composite field without selection", func(t *testing.T) {
		_, _, err := resolveOp(t, `query Q { dog }`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "selection set required")
	})

	t.Run("selection on a leaf", func(t *testing.T) {
		_, _, err := resolveOp(t, `query Q { dog { name { length } } }`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "selection set on a leaf")
	})

	t.Run("plain field on a union", func(t *testing.T) {
		_, _, err := resolveOp(t, `query Q { creature { name } }`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "fragments")
	})
}

func TestResolveMarksEnums(t *testing.T) {
	_, s, err := resolveOp(t, `query Q { dog { status } }`)
	require.NoError(t, err)
	assert.True(t, s.IsRequired("Status"))
	assert.False(t, s.IsRequired("SearchFilter"))
}

func TestResolveDeprecationSurfaces(t *testing.T) {
	fields, _, err := resolveOp(t, `query Q { dog { nickname } }`)
	require.NoError(t, err)
	f := fields[0].Fields[0]
	require.NotNil(t, f.Deprecation)
	assert.Equal(t, "use name", f.Deprecation.Reason)
}
