package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	t.Parallel()

	cases := []struct {
		subtotal, tax, shipping, total string
	}{
		{"50", "9", "10", "69"},
		{"100", "18", "10", "128"},
		{"100.01", "18", "0", "118.01"},
		{"0", "0", "10", "10"},
		{"59.90", "10.78", "10", "80.68"},
		{"0.025", "0.01", "10", "10.04"},
		{"100.004", "18", "10", "128"},
	}
	for _, tc := range cases {
		got := ComputeTotals(decimal.RequireFromString(tc.subtotal))
		assert.True(t, got.Tax.Equal(decimal.RequireFromString(tc.tax)), "tax for %s: %s", tc.subtotal, got.Tax)
		assert.True(t, got.Shipping.Equal(decimal.RequireFromString(tc.shipping)), "shipping for %s", tc.subtotal)
		assert.True(t, got.Total.Equal(decimal.RequireFromString(tc.total)), "total for %s: %s", tc.subtotal, got.Total)
		assert.True(t, got.Discount.IsZero())

		sum := got.Subtotal.Sub(got.Discount).Add(got.Tax).Add(got.Shipping)
		assert.True(t, got.Total.Equal(sum), "parts of %s add up to %s, total is %s", tc.subtotal, sum, got.Total)
		assert.True(t, got.Tax.Equal(got.Subtotal.Mul(TaxRate).Round(2)), "tax for %s follows the stored subtotal", tc.subtotal)
	}
}

func TestOrderNumber(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 9, 22, 15, 0, 0, time.UTC)
	re := regexp.MustCompile(`^DL-20240309-\d{4}$`)
	for range 50 {
		assert.Regexp(t, re, OrderNumber(now))
	}
}
