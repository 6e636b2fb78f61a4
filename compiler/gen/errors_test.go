package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTaxonomy(t *testing.T) {
	t.Run("ingestion error wraps its cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := NewIngestionError("schema.graphql", "invalid schema document", cause)
		assert.ErrorIs(t, err, ErrIngestion)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "schema.graphql")
		assert.Contains(t, err.Error(), "invalid schema document")
		assert.True(t, IsIngestionError(err))
		assert.False(t, IsResolutionError(err))
	})

	t.Run("resolution error names operation field and type", func(t *testing.T) {
		err := NewResolutionError("Search", "paws", "Dog", "field not found")
		assert.ErrorIs(t, err, ErrResolution)
		assert.Contains(t, err.Error(), "Search")
		assert.Contains(t, err.Error(), "paws")
		assert.Contains(t, err.Error(), "Dog")
		assert.True(t, IsResolutionError(err))
	})

	t.Run("policy error carries the reason", func(t *testing.T) {
		err := NewPolicyError("Search", "Dog.nickname", "use name")
		assert.ErrorIs(t, err, ErrPolicy)
		assert.Contains(t, err.Error(), "use name")
		assert.True(t, IsPolicyError(err))
	})

	t.Run("config error names the option", func(t *testing.T) {
		err := NewConfigError("Mode", "sideways", "unsupported mode")
		assert.ErrorIs(t, err, ErrConfig)
		assert.Contains(t, err.Error(), `"Mode"`)
		assert.Contains(t, err.Error(), "sideways")
		assert.True(t, IsConfigError(err))
	})

	t.Run("sentinels survive wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", NewResolutionError("Search", "", "Dog", "gone"))
		assert.ErrorIs(t, err, ErrResolution)
		var resErr *ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, "Dog", resErr.TypeName)
	})
}
