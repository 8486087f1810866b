package menu

import (
	"strings"

	"github.com/noah-isme/backend-kafe/internal/pricing"
)

// Item is a sellable catalog entry with its cumulative sales ledger.
// The ledger trusts its caller to pre-validate stock: arbitration between
// competing demands within one transaction is the order engine's job.
type Item struct {
	name    string
	price   pricing.Money
	stock   int
	limited bool
	sold    int
	revenue pricing.Money
}

// NewItem constructs a catalog item with a list price and initial stock.
func NewItem(name string, price pricing.Money, stock int) *Item {
	return &Item{name: name, price: price, stock: stock}
}

// NewLimitedItem constructs a stock-limited item. Only limited items are
// guarded by the order engine's reservation counter.
func NewLimitedItem(name string, price pricing.Money, stock int) *Item {
	return &Item{name: name, price: price, stock: stock, limited: true}
}

// Name returns the display name of the item.
func (i *Item) Name() string { return i.name }

// Key returns the lowercase catalog lookup key.
func (i *Item) Key() string { return strings.ToLower(i.name) }

// Price returns the current list price.
func (i *Item) Price() pricing.Money { return i.price }

// Stock returns the units currently on hand.
func (i *Item) Stock() int { return i.stock }

// Limited reports whether the item is stock-tracked.
func (i *Item) Limited() bool { return i.limited }

// Sold returns the cumulative units sold.
func (i *Item) Sold() int { return i.sold }

// Revenue returns the cumulative revenue recorded against the item.
func (i *Item) Revenue() pricing.Money { return i.revenue }

// Restock increases stock by qty. No failure conditions.
func (i *Item) Restock(qty int) {
	i.stock += qty
}

// HasStock reports whether at least qty units are on hand.
func (i *Item) HasStock(qty int) bool {
	return i.stock >= qty
}

// Sell records a sale of qty units at the current list price.
func (i *Item) Sell(qty int) {
	i.SellAt(qty, i.price)
}

// SellAt records a sale of qty units at an explicit unit price, used for
// bundle lines sold below list price. Stock may go negative if the caller
// skipped the availability guard.
func (i *Item) SellAt(qty int, unit pricing.Money) {
	i.stock -= qty
	i.sold += qty
	i.revenue += pricing.Money(qty) * unit
}

// SetPrice replaces the list price. Past sales and already accumulated
// order lines are unaffected. Validation happens at the catalog boundary.
func (i *Item) SetPrice(price pricing.Money) {
	i.price = price
}
