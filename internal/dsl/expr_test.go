package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComparison_AliasVsAlias(t *testing.T) {
	cmp, err := ParseComparison("fast > slow")
	require.NoError(t, err)

	assert.Equal(t, "fast", cmp.Left.Alias)
	assert.Equal(t, OpGT, cmp.Op)
	assert.Equal(t, "slow", cmp.Right.Alias)
	assert.Equal(t, []string{"fast", "slow"}, cmp.Aliases())
}

func TestParseComparison_AliasVsLiteral(t *testing.T) {
	cmp, err := ParseComparison("RSI <= 30.5")
	require.NoError(t, err)

	assert.Equal(t, "RSI", cmp.Left.Alias)
	assert.Equal(t, OpLTE, cmp.Op)
	assert.True(t, cmp.Right.IsLiteral)
	assert.Equal(t, 30.5, cmp.Right.Literal)
	assert.Equal(t, []string{"RSI"}, cmp.Aliases())
}

func TestParseComparison_WhitespaceInsensitive(t *testing.T) {
	for _, expr := range []string{"a>b", "a >b", "a> b", "  a  >  b  "} {
		cmp, err := ParseComparison(expr)
		require.NoError(t, err, expr)
		assert.Equal(t, "a", cmp.Left.Alias)
		assert.Equal(t, "b", cmp.Right.Alias)
	}
}

func TestParseComparison_AllOperators(t *testing.T) {
	cases := map[string]Op{
		"x > 1":  OpGT,
		"x < 1":  OpLT,
		"x >= 1": OpGTE,
		"x <= 1": OpLTE,
		"x == 1": OpEQ,
		"x != 1": OpNEQ,
	}
	for expr, want := range cases {
		cmp, err := ParseComparison(expr)
		require.NoError(t, err, expr)
		assert.Equal(t, want, cmp.Op, expr)
	}
}

func TestParseComparison_Invalid(t *testing.T) {
	for _, expr := range []string{"", "fast", "fast >", "> slow", "fast + slow", "1.2.3 > 1"} {
		_, err := ParseComparison(expr)
		assert.Error(t, err, expr)
	}
}

func TestComparison_Holds(t *testing.T) {
	values := map[string]float64{"fast": 1.2, "slow": 1.1}
	resolve := func(alias string) (float64, bool) {
		v, ok := values[alias]
		return v, ok
	}

	cmp, err := ParseComparison("fast > slow")
	require.NoError(t, err)
	assert.True(t, cmp.Holds(resolve))

	cmp, err = ParseComparison("fast < slow")
	require.NoError(t, err)
	assert.False(t, cmp.Holds(resolve))

	cmp, err = ParseComparison("fast >= 1.2")
	require.NoError(t, err)
	assert.True(t, cmp.Holds(resolve))
}

func TestComparison_Holds_MissingValueIsFalse(t *testing.T) {
	resolve := func(alias string) (float64, bool) { return 0, false }

	cmp, err := ParseComparison("fast > 0")
	require.NoError(t, err)
	assert.False(t, cmp.Holds(resolve))

	cmp, err = ParseComparison("5 > fast")
	require.NoError(t, err)
	assert.False(t, cmp.Holds(resolve))
}
