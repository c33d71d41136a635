package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/cartridge-backtest/internal/engineerr"
)

func TestNew_KnownTypes(t *testing.T) {
	for _, typ := range KnownTypes() {
		ind, err := New(typ, Params{Period: 10, Fast: 3, Slow: 6, Signal: 2})
		require.NoError(t, err, typ)
		assert.Equal(t, typ, ind.Type())
	}
}

func TestNew_CaseInsensitive(t *testing.T) {
	ind, err := New("sma", Params{Period: 5})
	require.NoError(t, err)
	assert.Equal(t, "SMA", ind.Type())
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New("ICHIMOKU", Params{})
	require.Error(t, err)
	assert.True(t, engineerr.IsKind(err, engineerr.KindUnknownIndicator))
}

func TestNew_InvalidPeriod(t *testing.T) {
	_, err := New("SMA", Params{Period: 0})
	require.Error(t, err)
	assert.True(t, engineerr.IsKind(err, engineerr.KindNumericDomain))

	_, err = New("EMA", Params{Period: -3})
	require.Error(t, err)
	assert.True(t, engineerr.IsKind(err, engineerr.KindNumericDomain))
}

func TestNew_MACDFastMustBeBelowSlow(t *testing.T) {
	_, err := New("MACD", Params{Fast: 26, Slow: 12, Signal: 9})
	require.Error(t, err)
	assert.True(t, engineerr.IsKind(err, engineerr.KindNumericDomain))
}

func TestNew_DefaultsApplied(t *testing.T) {
	ind, err := New("RSI", Params{})
	require.NoError(t, err)
	assert.Equal(t, DefaultRSIPeriod, ind.(*RSI).Period())

	_, err = New("STOCHASTIC", Params{})
	assert.NoError(t, err)

	_, err = New("MACD", Params{})
	assert.NoError(t, err)
}
