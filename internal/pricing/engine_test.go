package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kafe/internal/pricing"
)

func TestSplitDiscountConservesTotal(t *testing.T) {
	for _, discount := range []int64{0, 1, 99, 100, 101} {
		a, b := pricing.SplitDiscount(discount)
		if discount <= 0 {
			require.Zero(t, a+b)
			continue
		}
		require.Equal(t, discount, a+b)
		require.LessOrEqual(t, a, b)
	}
}

func TestComputeSummary(t *testing.T) {
	s := pricing.Compute([]pricing.Line{
		{Qty: 4, UnitPrice: 200},
		{Qty: 2, UnitPrice: 250},
		{Qty: 3, UnitPrice: 250, Discount: 50},
		{Qty: 3, UnitPrice: 200, Discount: 50},
	})
	require.Equal(t, int64(2650), s.Subtotal)
	require.Equal(t, int64(300), s.Discount)
	require.Equal(t, int64(2350), s.Total)
}

func TestComputeSkipsNonPositiveQty(t *testing.T) {
	s := pricing.Compute([]pricing.Line{{Qty: 0, UnitPrice: 100}, {Qty: -2, UnitPrice: 100}})
	require.Zero(t, s.Total)
}

func TestComputeCapsDiscountAtGross(t *testing.T) {
	s := pricing.Compute([]pricing.Line{{Qty: 1, UnitPrice: 100, Discount: 150}})
	require.Equal(t, int64(100), s.Discount)
	require.Zero(t, s.Total)
}
