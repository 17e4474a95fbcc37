package service

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
)

var (
	TaxRate               = decimal.RequireFromString("0.18")
	FreeShippingThreshold = decimal.NewFromInt(100)
	ShippingFee           = decimal.NewFromInt(10)
)

const DeliveryWindow = 7 * 24 * time.Hour

type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals prices a subtotal: 18% tax, free shipping strictly above
// 100, no discount. Tax and shipping follow the rounded subtotal.
func ComputeTotals(subtotal decimal.Decimal) Totals {
	t := Totals{
		Subtotal: subtotal.Round(2),
		Discount: decimal.Zero,
		Shipping: ShippingFee,
	}
	t.Tax = t.Subtotal.Mul(TaxRate).Round(2)
	if t.Subtotal.GreaterThan(FreeShippingThreshold) {
		t.Shipping = decimal.Zero
	}
	t.Total = t.Subtotal.Sub(t.Discount).Add(t.Tax).Add(t.Shipping)
	return t
}

// OrderNumber formats DL-YYYYMMDD-XXXX with four random digits.
func OrderNumber(now time.Time) string {
	return fmt.Sprintf("DL-%s-%04d", now.Format("20060102"), rand.IntN(10000))
}
