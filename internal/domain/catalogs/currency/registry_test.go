package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cuentas/internal/core/apperror"
	"cuentas/internal/core/id"
)

func testCurrency(iso string, isBase bool) *Currency {
	c := New(iso, iso, iso)
	c.RateToBase = decimal.NewFromInt(1)
	c.IsBase = isBase
	return c
}

func TestNewRegistry(t *testing.T) {
	usd := testCurrency("USD", true)
	ves := testCurrency("VES", false)

	r, err := NewRegistry([]*Currency{usd, ves})
	require.NoError(t, err)

	assert.Equal(t, usd, r.Base())
	assert.Len(t, r.All(), 2)

	got, err := r.Resolve(ves.ID)
	require.NoError(t, err)
	assert.Equal(t, "VES", got.ISOCode)
}

func TestNewRegistry_NoBase(t *testing.T) {
	_, err := NewRegistry([]*Currency{testCurrency("VES", false)})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConfiguration))
}

func TestNewRegistry_MultipleBase(t *testing.T) {
	_, err := NewRegistry([]*Currency{
		testCurrency("USD", true),
		testCurrency("EUR", true),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConfiguration))
}

func TestNewRegistry_DuplicateID(t *testing.T) {
	usd := testCurrency("USD", true)
	stale := testCurrency("USX", false)
	stale.ID = usd.ID

	_, err := NewRegistry([]*Currency{usd, stale})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConfiguration))
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r, err := NewRegistry([]*Currency{testCurrency("USD", true)})
	require.NoError(t, err)

	_, err = r.Resolve(id.New())
	assert.True(t, apperror.IsNotFound(err))
}
