package pricing

// Money represents a monetary value stored in minor units.
type Money = int64

// Line describes an order line used for pricing calculation.
type Line struct {
	Qty       int
	UnitPrice Money
	// Discount is the flat reduction applied per unit, already split
	// down from a bundle-level discount where applicable.
	Discount Money
}

// Summary aggregates computed pricing components for a receipt.
type Summary struct {
	Subtotal Money
	Discount Money
	Total    Money
}

// SplitDiscount divides a bundle discount into two per-unit shares.
// The shares always sum to the original discount, so an odd minor-unit
// discount loses nothing to truncation.
func SplitDiscount(discount Money) (Money, Money) {
	if discount <= 0 {
		return 0, 0
	}
	first := discount / 2
	return first, discount - first
}

// Compute calculates order totals given the provided lines.
func Compute(lines []Line) Summary {
	var s Summary
	for _, l := range lines {
		if l.Qty <= 0 {
			continue
		}
		gross := Money(l.Qty) * l.UnitPrice
		discount := Money(l.Qty) * l.Discount
		if discount > gross {
			discount = gross
		}
		if discount < 0 {
			discount = 0
		}
		s.Subtotal += gross
		s.Discount += discount
	}
	s.Total = s.Subtotal - s.Discount
	return s
}
