package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{
		"":           ModeStandalone,
		"standalone": ModeStandalone,
		"embedded":   ModeEmbedded,
	} {
		m, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, m)
	}

	_, err := ParseMode("sideways")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestParseDeprecationStrategy(t *testing.T) {
	s, err := ParseDeprecationStrategy("")
	require.NoError(t, err)
	assert.Equal(t, DeprecationAllow, s)

	_, err = ParseDeprecationStrategy("ignore")
	require.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	cfg, err := NewConfig(WithPackage("petapi"))
	require.NoError(t, err)
	assert.Equal(t, ModeStandalone, cfg.Mode)
	assert.Equal(t, DeprecationAllow, cfg.Deprecation)
	assert.Equal(t, VisibilityPublic, cfg.Visibility)
	require.NoError(t, cfg.validate())
}

func TestConfigValidate(t *testing.T) {
	t.Run("package is required", func(t *testing.T) {
		cfg := &Config{Mode: ModeStandalone}
		require.Error(t, cfg.validate())
	})

	t.Run("embedded mode needs a struct name", func(t *testing.T) {
		cfg := MustNewConfig(WithPackage("petapi"), WithMode(ModeEmbedded))
		err := cfg.validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfig)

		require.NoError(t, cfg.Apply(WithStructName("Client")))
		require.NoError(t, cfg.validate())
	})

	t.Run("unknown derives are rejected", func(t *testing.T) {
		_, err := NewConfig(WithPackage("petapi"), WithResponseDerives("clone"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfig)
	})
}

func TestConfigIdent(t *testing.T) {
	public := MustNewConfig(WithPackage("petapi"))
	assert.Equal(t, "SearchVariables", public.ident("SearchVariables"))

	private := MustNewConfig(WithPackage("petapi"), WithVisibility(VisibilityPrivate))
	assert.Equal(t, "searchVariables", private.ident("SearchVariables"))
	assert.Equal(t, "type_", private.ident("Type"))
}

func TestScalarOptions(t *testing.T) {
	cfg, err := NewConfig(
		WithPackage("petapi"),
		WithScalar("Time", "time.Time"),
		WithScalars(map[string]string{"UUID": "github.com/google/uuid.UUID"}),
	)
	require.NoError(t, err)
	assert.Equal(t, "time.Time", cfg.Scalars["Time"])
	assert.Equal(t, "github.com/google/uuid.UUID", cfg.Scalars["UUID"])

	_, err = NewConfig(WithPackage("petapi"), WithScalar("", "time.Time"))
	require.Error(t, err)
}
