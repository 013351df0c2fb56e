package billing

import (
	"math"

	"github.com/subtracker/subtracker/pkg/apperr"
	"github.com/subtracker/subtracker/pkg/types"
)

// ReferenceCurrency is the currency all aggregates are normalized to.
const ReferenceCurrency = types.CurrencyPLN

// referenceRates are compiled constants, not live market rates. Currencies
// outside this table are rejected at input validation; hitting one here is
// a data error.
var referenceRates = map[types.Currency]float64{
	types.CurrencyPLN: 1.0,
	types.CurrencyUSD: 4.0,
	types.CurrencyEUR: 4.3,
}

// ToReference converts amount from the given currency into the reference
// currency.
func ToReference(amount float64, currency types.Currency) (float64, error) {
	rate, ok := referenceRates[currency]
	if !ok {
		return 0, apperr.Validation("unknown currency: %q", currency)
	}
	return amount * rate, nil
}

// Round2 rounds to two decimal places, the precision every monetary figure
// in the system is reported at.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
