package fx

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuentas/internal/core/apperror"
	"cuentas/internal/domain/catalogs/currency"
)

func newCurrency(iso string, rate string, decimals int, isBase bool) *currency.Currency {
	c := currency.New(iso, iso, iso)
	c.RateToBase = decimal.RequireFromString(rate)
	c.DecimalPlaces = decimals
	c.IsBase = isBase
	return c
}

func TestConvert_CrossRate(t *testing.T) {
	usd := newCurrency("USD", "1", 2, true)
	ves := newCurrency("VES", "36", 2, false)
	eur := newCurrency("EUR", "0.9", 2, false)

	tests := []struct {
		name   string
		amount string
		from   *currency.Currency
		to     *currency.Currency
		want   string
	}{
		{"foreign to base", "3600", ves, usd, "100"},
		{"base to foreign", "100", usd, ves, "3600"},
		{"foreign to foreign", "3600", ves, eur, "90"},
		{"rounds to target precision", "100", ves, usd, "2.78"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(decimal.RequireFromString(tt.amount), tt.from, tt.to)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"want %s, got %s", tt.want, got)
		})
	}
}

func TestConvert_SameCurrencyIsUntouched(t *testing.T) {
	usd := newCurrency("USD", "1", 2, true)

	amount := decimal.RequireFromString("10.12345")
	got, err := Convert(amount, usd, usd)
	require.NoError(t, err)

	// No rounding on the identity path.
	assert.True(t, got.Equal(amount))
}

func TestConvert_BaseIdentityMatchesFromBase(t *testing.T) {
	usd := newCurrency("USD", "1", 2, true)
	ves := newCurrency("VES", "36", 2, false)

	amount := decimal.RequireFromString("250")

	viaConvert, err := Convert(amount, usd, ves)
	require.NoError(t, err)

	viaFromBase, err := FromBase(amount, ves)
	require.NoError(t, err)

	assert.True(t, viaConvert.Equal(ves.Round(viaFromBase)))
}

func TestConvert_RoundTripWithinEpsilon(t *testing.T) {
	usd := newCurrency("USD", "1", 2, true)
	ves := newCurrency("VES", "36.27", 2, false)

	amounts := []string{"1", "0.01", "99.99", "123456.78", "0.37"}
	for _, a := range amounts {
		amount := decimal.RequireFromString(a)

		there, err := Convert(amount, usd, ves)
		require.NoError(t, err)
		back, err := Convert(there, ves, usd)
		require.NoError(t, err)

		// Within one unit of the coarser currency's precision.
		diff := back.Sub(amount).Abs()
		assert.True(t, diff.LessThanOrEqual(usd.Epsilon()),
			"round trip of %s drifted by %s", a, diff)
	}
}

func TestConvert_InvalidRate(t *testing.T) {
	usd := newCurrency("USD", "1", 2, true)
	bad := newCurrency("XXX", "1", 2, false)
	bad.RateToBase = decimal.Zero

	_, err := Convert(decimal.NewFromInt(10), bad, usd)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidRate))

	_, err = Convert(decimal.NewFromInt(10), usd, bad)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInvalidRate))

	_, err = ToBase(decimal.NewFromInt(10), bad)
	require.Error(t, err)

	_, err = FromBase(decimal.NewFromInt(10), bad)
	require.Error(t, err)
}

func TestCrossRate_Snapshot(t *testing.T) {
	usd := newCurrency("USD", "1", 2, true)
	ves := newCurrency("VES", "36", 2, false)

	rate, err := CrossRate(ves, usd)
	require.NoError(t, err)
	assert.True(t, rate.Mul(decimal.NewFromInt(3600)).Equal(decimal.NewFromInt(100)))
}
