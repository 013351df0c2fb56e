package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtracker/subtracker/pkg/apperr"
	"github.com/subtracker/subtracker/pkg/types"
)

func TestToReference(t *testing.T) {
	tests := []struct {
		currency types.Currency
		amount   float64
		want     float64
	}{
		{types.CurrencyPLN, 43, 43},
		{types.CurrencyUSD, 10, 40},
		{types.CurrencyEUR, 10, 43},
	}
	for _, tt := range tests {
		got, err := ToReference(tt.amount, tt.currency)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "currency %s", tt.currency)
	}
}

func TestToReferenceUnknownCurrency(t *testing.T) {
	_, err := ToReference(10, types.Currency("GBP"))
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 14.33, Round2(43.0/3))
	assert.Equal(t, 0.01, Round2(0.005))
	assert.Equal(t, 1.0, Round2(0.999))
}
