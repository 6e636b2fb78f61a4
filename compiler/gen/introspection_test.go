package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const introspectionBody = `{
  "__schema": {
    "queryType": {"name": "Query"},
    "mutationType": null,
    "subscriptionType": null,
    "types": [
      {
        "kind": "OBJECT",
        "name": "Query",
        "fields": [
          {
            "name": "dog",
            "args": [],
            "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "OBJECT", "name": "Dog", "ofType": null}},
            "isDeprecated": false,
            "deprecationReason": null
          }
        ]
      },
      {
        "kind": "OBJECT",
        "name": "Dog",
        "fields": [
          {
            "name": "id",
            "args": [],
            "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "ID", "ofType": null}},
            "isDeprecated": false,
            "deprecationReason": null
          },
          {
            "name": "nickname",
            "args": [],
            "type": {"kind": "SCALAR", "name": "String", "ofType": null},
            "isDeprecated": true,
            "deprecationReason": "use name"
          },
          {
            "name": "toys",
            "args": [],
            "type": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "LIST", "name": null, "ofType": {"kind": "NON_NULL", "name": null, "ofType": {"kind": "SCALAR", "name": "String", "ofType": null}}}},
            "isDeprecated": false,
            "deprecationReason": null
          }
        ]
      },
      {
        "kind": "ENUM",
        "name": "Status",
        "enumValues": [
          {"name": "GOOD_DOG", "isDeprecated": false, "deprecationReason": null},
          {"name": "BAD_DOG", "isDeprecated": true, "deprecationReason": "all dogs are good"}
        ]
      },
      {
        "kind": "INPUT_OBJECT",
        "name": "SearchFilter",
        "inputFields": [
          {"name": "name", "type": {"kind": "SCALAR", "name": "String", "ofType": null}, "defaultValue": null}
        ]
      },
      {"kind": "SCALAR", "name": "Upload"},
      {"kind": "SCALAR", "name": "String"},
      {"kind": "OBJECT", "name": "__Type", "fields": []}
    ]
  }
}`

func TestSchemaFromIntrospection(t *testing.T) {
	s, err := SchemaFromIntrospection([]byte(introspectionBody))
	require.NoError(t, err)

	t.Run("root type name", func(t *testing.T) {
		assert.Equal(t, "Query", s.QueryType)
		assert.Empty(t, s.MutationType)
	})

	t.Run("field types invert non-null polarity", func(t *testing.T) {
		dog := s.Objects["Dog"]
		require.NotNil(t, dog)
		assert.Equal(t, "ID!", dog.Fields["id"].Type.String())
		assert.Equal(t, "String", dog.Fields["nickname"].Type.String())
		assert.Equal(t, "[String!]!", dog.Fields["toys"].Type.String())
	})

	t.Run("deprecation flag becomes a mark", func(t *testing.T) {
		require.NotNil(t, s.Objects["Dog"].Fields["nickname"].Deprecation)
		assert.Equal(t, "use name", s.Objects["Dog"].Fields["nickname"].Deprecation.Reason)
		assert.Nil(t, s.Objects["Dog"].Fields["id"].Deprecation)
	})

	t.Run("enum values and deprecation", func(t *testing.T) {
		status := s.Enums["Status"]
		require.NotNil(t, status)
		require.NotNil(t, status.Value("BAD_DOG").Deprecation)
	})

	t.Run("introspection and builtin types are skipped", func(t *testing.T) {
		assert.NotContains(t, s.Objects, "__Type")
		assert.NotContains(t, s.Scalars, "String")
		assert.Contains(t, s.Scalars, "Upload")
	})
}

func TestSchemaFromIntrospectionEnvelopes(t *testing.T) {
	t.Run("data wrapper is accepted", func(t *testing.T) {
		wrapped := `{"data": ` + introspectionBody + `}`
		s, err := SchemaFromIntrospection([]byte(wrapped))
		require.NoError(t, err)
		assert.Contains(t, s.Objects, "Dog")
	})

	t.Run("missing __schema is an ingestion error", func(t *testing.T) {
		_, err := SchemaFromIntrospection([]byte(`{"data": {}}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIngestion)
	})

	t.Run("invalid json is an ingestion error", func(t *testing.T) {
		_, err := SchemaFromIntrospection([]byte(`{`))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIngestion)
	})
}
