package order

import (
	"errors"

	"github.com/noah-isme/backend-kafe/internal/menu"
	"github.com/noah-isme/backend-kafe/internal/pricing"
)

var (
	// ErrInsufficientStock is returned when a requested quantity exceeds
	// the remaining availability of a stock-limited item. The rejected
	// call leaves the order untouched.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrInvalidQuantity is returned for non-positive quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrFinalized is returned when an order is mutated or finalized
	// after its terminal transition. Finalizing twice would double-sell.
	ErrFinalized = errors.New("order already finalized")
)

// Order accumulates item and combo quantities for a single transaction.
// It owns the shared-stock guard: stock-limited items reserved by direct
// lines and by combo lines draw from one reservation counter per item, so
// two combos sharing the same muffin compete for the same pool.
//
// An Order is exclusively owned by one session; callers that allow several
// in-flight orders against one catalog must serialize Finalize externally.
type Order struct {
	items     map[*menu.Item]int
	itemSeq   []*menu.Item
	combos    map[*menu.Combo]int
	comboSeq  []*menu.Combo
	reserved  map[*menu.Item]int
	finalized bool
}

// New constructs an empty order.
func New() *Order {
	return &Order{
		items:    make(map[*menu.Item]int),
		combos:   make(map[*menu.Combo]int),
		reserved: make(map[*menu.Item]int),
	}
}

// AddItem accumulates qty units of a direct item line. Stock-limited items
// are validated against availability net of everything this order already
// reserved; unlimited items are accepted unconditionally.
func (o *Order) AddItem(it *menu.Item, qty int) error {
	if o.finalized {
		return ErrFinalized
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if it.Limited() {
		if qty > o.Available(it) {
			return ErrInsufficientStock
		}
		o.reserved[it] += qty
	}
	if _, seen := o.items[it]; !seen {
		o.itemSeq = append(o.itemSeq, it)
	}
	o.items[it] += qty
	return nil
}

// AddCombo accumulates qty units of a combo line. Demand on stock-limited
// constituents is summed per item first, so a combo referencing the same
// limited item twice is checked against its combined draw, then validated
// against the shared reservation counter before any state changes. A
// rejection is atomic.
func (o *Order) AddCombo(c *menu.Combo, qty int) error {
	if o.finalized {
		return ErrFinalized
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	demand := make(map[*menu.Item]int, 2)
	for _, it := range []*menu.Item{c.Beverage(), c.Muffin()} {
		if it.Limited() {
			demand[it] += qty
		}
	}
	for it, need := range demand {
		if need > o.Available(it) {
			return ErrInsufficientStock
		}
	}
	for it, need := range demand {
		o.reserved[it] += need
	}
	if _, seen := o.combos[c]; !seen {
		o.comboSeq = append(o.comboSeq, c)
	}
	o.combos[c] += qty
	return nil
}

// Reserved returns how many units of the item this order has committed so
// far across direct and combo lines.
func (o *Order) Reserved(it *menu.Item) int {
	return o.reserved[it]
}

// Available returns the item's stock net of this order's reservations.
// Collaborators use it to report remaining availability after a rejection.
func (o *Order) Available(it *menu.Item) int {
	return it.Stock() - o.reserved[it]
}

// Empty reports whether the order has no lines.
func (o *Order) Empty() bool {
	return len(o.items) == 0 && len(o.combos) == 0
}

// Finalized reports whether the order reached its terminal state.
func (o *Order) Finalized() bool {
	return o.finalized
}

// Summary prices the order at the items' current list prices. It is pure
// and repeatable; an order with no lines sums to zero.
func (o *Order) Summary() pricing.Summary {
	lines := make([]pricing.Line, 0, len(o.itemSeq)+2*len(o.comboSeq))
	for _, it := range o.itemSeq {
		lines = append(lines, pricing.Line{Qty: o.items[it], UnitPrice: it.Price()})
	}
	for _, c := range o.comboSeq {
		qty := o.combos[c]
		bevShare, mufShare := pricing.SplitDiscount(c.Discount())
		lines = append(lines,
			pricing.Line{Qty: qty, UnitPrice: c.Beverage().Price(), Discount: bevShare},
			pricing.Line{Qty: qty, UnitPrice: c.Muffin().Price(), Discount: mufShare},
		)
	}
	return pricing.Compute(lines)
}

// Total returns the payable amount for the order.
func (o *Order) Total() pricing.Money {
	return o.Summary().Total
}

// Finalize commits the order against the item ledgers: direct lines sell at
// the current list price, combo lines sell each constituent at its
// discounted unit price. Availability was guaranteed at add time, so the
// commit cannot fail once reached; the only error is re-finalization.
func (o *Order) Finalize() error {
	if o.finalized {
		return ErrFinalized
	}
	for _, it := range o.itemSeq {
		it.Sell(o.items[it])
	}
	for _, c := range o.comboSeq {
		qty := o.combos[c]
		bev, muf := c.UnitPrices()
		c.Beverage().SellAt(qty, bev)
		c.Muffin().SellAt(qty, muf)
	}
	o.finalized = true
	return nil
}
