package menu_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kafe/internal/menu"
)

func newCatalog(t *testing.T) *menu.Catalog {
	t.Helper()
	muffin := menu.NewLimitedItem("Muffin", 200, 25)
	shake := menu.NewItem("Shake", 300, 0)
	coffee := menu.NewItem("Coffee", 250, 0)
	cat, err := menu.New(
		[]*menu.Item{muffin, shake, coffee},
		[]*menu.Combo{
			menu.NewCombo("Coffee + Muffin", coffee, muffin, 100),
			menu.NewCombo("Shake + Muffin", shake, muffin, 100),
		},
	)
	require.NoError(t, err)
	return cat
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	cat := newCatalog(t)
	for _, name := range []string{"muffin", "Muffin", "MUFFIN", " muffin "} {
		it, err := cat.Item(name)
		require.NoError(t, err)
		require.Equal(t, "Muffin", it.Name())
	}
	combo, err := cat.Combo("coffee + muffin")
	require.NoError(t, err)
	require.Equal(t, "Coffee + Muffin", combo.Name())
}

func TestUnknownLookups(t *testing.T) {
	cat := newCatalog(t)
	_, err := cat.Item("croissant")
	require.ErrorIs(t, err, menu.ErrUnknownItem)
	_, err = cat.Combo("croissant + muffin")
	require.ErrorIs(t, err, menu.ErrUnknownCombo)
}

func TestDuplicateItemsRejected(t *testing.T) {
	_, err := menu.New([]*menu.Item{
		menu.NewItem("Coffee", 250, 0),
		menu.NewItem("coffee", 300, 0),
	}, nil)
	require.Error(t, err)
}

func TestRestock(t *testing.T) {
	cat := newCatalog(t)
	it, err := cat.Restock("muffin", 25)
	require.NoError(t, err)
	require.Equal(t, 50, it.Stock())

	_, err = cat.Restock("muffin", 0)
	require.Error(t, err)
	_, err = cat.Restock("croissant", 25)
	require.ErrorIs(t, err, menu.ErrUnknownItem)
}

func TestUpdatePrice(t *testing.T) {
	cat := newCatalog(t)
	it, err := cat.UpdatePrice("coffee", 275)
	require.NoError(t, err)
	require.Equal(t, int64(275), it.Price())

	_, err = cat.UpdatePrice("coffee", 0)
	require.ErrorIs(t, err, menu.ErrInvalidPrice)
	_, err = cat.UpdatePrice("coffee", -100)
	require.ErrorIs(t, err, menu.ErrInvalidPrice)

	it, err = cat.Item("coffee")
	require.NoError(t, err)
	require.Equal(t, int64(275), it.Price(), "rejected updates must not change the price")
}

func TestListingOrderIsStable(t *testing.T) {
	cat := newCatalog(t)
	items := cat.Items()
	require.Len(t, items, 3)
	require.Equal(t, "Muffin", items[0].Name())
	require.Equal(t, "Shake", items[1].Name())
	require.Equal(t, "Coffee", items[2].Name())
	combos := cat.Combos()
	require.Len(t, combos, 2)
	require.Equal(t, "Coffee + Muffin", combos[0].Name())
}
