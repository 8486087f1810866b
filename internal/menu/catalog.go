package menu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/backend-kafe/internal/pricing"
)

// ErrUnknownItem indicates the requested item is not on the menu.
var ErrUnknownItem = errors.New("unknown menu item")

// ErrUnknownCombo indicates the requested combo is not on the menu.
var ErrUnknownCombo = errors.New("unknown combo")

// ErrInvalidPrice is returned when a price update carries a non-positive
// value. Zero is the caller's cancel sentinel and should never reach here.
var ErrInvalidPrice = errors.New("price must be positive")

// Catalog holds the menu items keyed by lowercase name plus the combo list.
// It is the single owner of every item ledger; combos and order lines hold
// references into it rather than copies.
type Catalog struct {
	items  map[string]*Item
	order  []string
	combos map[string]*Combo
	seq    []string
}

// New constructs a catalog from pre-built items and combos. Listing order
// follows insertion order.
func New(items []*Item, combos []*Combo) (*Catalog, error) {
	c := &Catalog{
		items:  make(map[string]*Item, len(items)),
		combos: make(map[string]*Combo, len(combos)),
	}
	for _, it := range items {
		key := it.Key()
		if _, exists := c.items[key]; exists {
			return nil, fmt.Errorf("duplicate item %q", it.Name())
		}
		c.items[key] = it
		c.order = append(c.order, key)
	}
	for _, combo := range combos {
		key := combo.Key()
		if _, exists := c.combos[key]; exists {
			return nil, fmt.Errorf("duplicate combo %q", combo.Name())
		}
		c.combos[key] = combo
		c.seq = append(c.seq, key)
	}
	return c, nil
}

// Item looks up an item by name, case-insensitively.
func (c *Catalog) Item(name string) (*Item, error) {
	it, ok := c.items[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownItem)
	}
	return it, nil
}

// Combo looks up a combo by name, case-insensitively.
func (c *Catalog) Combo(name string) (*Combo, error) {
	combo, ok := c.combos[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownCombo)
	}
	return combo, nil
}

// Items returns the items in listing order.
func (c *Catalog) Items() []*Item {
	out := make([]*Item, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.items[key])
	}
	return out
}

// Combos returns the combos in listing order.
func (c *Catalog) Combos() []*Combo {
	out := make([]*Combo, 0, len(c.seq))
	for _, key := range c.seq {
		out = append(out, c.combos[key])
	}
	return out
}

// Restock adds qty units to the named item's stock.
func (c *Catalog) Restock(name string, qty int) (*Item, error) {
	it, err := c.Item(name)
	if err != nil {
		return nil, err
	}
	if qty <= 0 {
		return nil, fmt.Errorf("restock qty must be positive, got %d", qty)
	}
	it.Restock(qty)
	return it, nil
}

// UpdatePrice replaces the named item's list price. Non-positive prices are
// rejected; the cancel path (zero) belongs to the caller.
func (c *Catalog) UpdatePrice(name string, price pricing.Money) (*Item, error) {
	it, err := c.Item(name)
	if err != nil {
		return nil, err
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	it.SetPrice(price)
	return it, nil
}
