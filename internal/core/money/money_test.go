package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound_HalfUp(t *testing.T) {
	assert.True(t, Round(Must("2.775"), 2).Equal(Must("2.78")))
	assert.True(t, Round(Must("2.774"), 2).Equal(Must("2.77")))
	assert.True(t, Round(Must("-2.775"), 2).Equal(Must("-2.78")))
	assert.True(t, Round(Must("100"), 0).Equal(Must("100")))
}

func TestEpsilon(t *testing.T) {
	assert.True(t, Epsilon(2).Equal(Must("0.01")))
	assert.True(t, Epsilon(0).Equal(Must("1")))
	assert.True(t, Epsilon(3).Equal(Must("0.001")))
}

func TestSumRounded_RoundsBeforeSumming(t *testing.T) {
	// Each element rounds to 0.33; the raw sum would round to 1.00.
	amounts := []Money{Must("0.333"), Must("0.333"), Must("0.333")}
	assert.True(t, SumRounded(amounts, 2).Equal(Must("0.99")))
}

func TestSumRounded_OrderIndependent(t *testing.T) {
	a := []Money{Must("10.005"), Must("0.015"), Must("3.33")}
	b := []Money{Must("3.33"), Must("10.005"), Must("0.015")}
	assert.True(t, SumRounded(a, 2).Equal(SumRounded(b, 2)))
}
