package menu

import (
	"strings"

	"github.com/noah-isme/backend-kafe/internal/pricing"
)

// Combo is an immutable pairing of a beverage and a muffin sold with a flat
// discount. It holds non-owning references to catalog items, so ledger
// mutations through either constituent are globally visible.
type Combo struct {
	name     string
	beverage *Item
	muffin   *Item
	discount pricing.Money
}

// NewCombo constructs a combo. The discount is a total reduction on one
// combo unit, split into two per-item shares at pricing time.
func NewCombo(name string, beverage, muffin *Item, discount pricing.Money) *Combo {
	return &Combo{name: name, beverage: beverage, muffin: muffin, discount: discount}
}

// Name returns the display name of the combo.
func (c *Combo) Name() string { return c.name }

// Key returns the lowercase catalog lookup key.
func (c *Combo) Key() string { return strings.ToLower(c.name) }

// Beverage returns the beverage constituent.
func (c *Combo) Beverage() *Item { return c.beverage }

// Muffin returns the muffin constituent.
func (c *Combo) Muffin() *Item { return c.muffin }

// Discount returns the flat per-unit discount for the combo.
func (c *Combo) Discount() pricing.Money { return c.discount }

// UnitPrices returns the discounted per-unit sale prices for the beverage
// and muffin constituents at the items' current list prices.
func (c *Combo) UnitPrices() (pricing.Money, pricing.Money) {
	bevShare, mufShare := pricing.SplitDiscount(c.discount)
	return c.beverage.Price() - bevShare, c.muffin.Price() - mufShare
}

// UnitTotal returns the discounted price of one combo unit.
func (c *Combo) UnitTotal() pricing.Money {
	bev, muf := c.UnitPrices()
	return bev + muf
}
