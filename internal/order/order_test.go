package order_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kafe/internal/menu"
	"github.com/noah-isme/backend-kafe/internal/order"
	"github.com/noah-isme/backend-kafe/internal/pricing"
)

type fixture struct {
	muffin     *menu.Item
	shake      *menu.Item
	coffee     *menu.Item
	coffeeDeal *menu.Combo
	shakeDeal  *menu.Combo
}

func newFixture(muffinStock int) fixture {
	muffin := menu.NewLimitedItem("Muffin", 200, muffinStock)
	shake := menu.NewItem("Shake", 300, 0)
	coffee := menu.NewItem("Coffee", 250, 0)
	return fixture{
		muffin:     muffin,
		shake:      shake,
		coffee:     coffee,
		coffeeDeal: menu.NewCombo("Coffee + Muffin", coffee, muffin, 100),
		shakeDeal:  menu.NewCombo("Shake + Muffin", shake, muffin, 100),
	}
}

func TestAddItemRejectsBeyondStock(t *testing.T) {
	f := newFixture(3)
	o := order.New()

	require.NoError(t, o.AddItem(f.muffin, 2))
	require.Equal(t, 2, o.Reserved(f.muffin))

	err := o.AddItem(f.muffin, 2)
	require.ErrorIs(t, err, order.ErrInsufficientStock)
	require.Equal(t, 2, o.Reserved(f.muffin), "rejected add must not mutate the counter")
	require.Equal(t, int64(400), o.Total(), "rejected add must not leave a line behind")

	require.NoError(t, o.AddItem(f.muffin, 1))
	require.Equal(t, 3, o.Reserved(f.muffin))
}

func TestUnlimitedItemsBypassGuard(t *testing.T) {
	f := newFixture(0)
	o := order.New()
	require.NoError(t, o.AddItem(f.coffee, 50))
	require.NoError(t, o.AddItem(f.shake, 50))
	require.Equal(t, 0, o.Reserved(f.coffee))
}

func TestMixedScenarioSharedMuffinPool(t *testing.T) {
	f := newFixture(6)
	o := order.New()

	require.NoError(t, o.AddItem(f.muffin, 2))
	require.Equal(t, 2, o.Reserved(f.muffin))

	require.NoError(t, o.AddCombo(f.shakeDeal, 3))
	require.Equal(t, 5, o.Reserved(f.muffin))

	err := o.AddCombo(f.shakeDeal, 2)
	require.ErrorIs(t, err, order.ErrInsufficientStock)
	require.Equal(t, 5, o.Reserved(f.muffin))
	require.Equal(t, 1, o.Available(f.muffin))
}

func TestCombosCompeteForOnePool(t *testing.T) {
	f := newFixture(4)
	o := order.New()

	require.NoError(t, o.AddCombo(f.coffeeDeal, 3))
	err := o.AddCombo(f.shakeDeal, 2)
	require.ErrorIs(t, err, order.ErrInsufficientStock, "different combos draw from the same muffin pool")
	require.NoError(t, o.AddCombo(f.shakeDeal, 1))
	require.Equal(t, 4, o.Reserved(f.muffin))
}

func TestComboDemandSummedAcrossConstituents(t *testing.T) {
	muffin := menu.NewLimitedItem("Muffin", 200, 3)
	doubleMuffin := menu.NewCombo("Muffin + Muffin", muffin, muffin, 100)
	o := order.New()

	// Two combo units draw four muffins from a pool of three.
	err := o.AddCombo(doubleMuffin, 2)
	require.ErrorIs(t, err, order.ErrInsufficientStock)
	require.Equal(t, 0, o.Reserved(muffin))

	require.NoError(t, o.AddCombo(doubleMuffin, 1))
	require.Equal(t, 2, o.Reserved(muffin))
}

func TestComboArithmetic(t *testing.T) {
	f := newFixture(25)
	o := order.New()
	// Coffee $2.50 + Muffin $2.00, $1.00 off, qty 3 -> $3.50 x 3 = $10.50.
	require.NoError(t, o.AddCombo(f.coffeeDeal, 3))
	require.Equal(t, int64(1050), o.Total())

	s := o.Summary()
	require.Equal(t, int64(1350), s.Subtotal)
	require.Equal(t, int64(300), s.Discount)
	require.Equal(t, int64(1050), s.Total)
}

func TestDirectTotalsAdditive(t *testing.T) {
	f := newFixture(25)
	o := order.New()
	require.NoError(t, o.AddItem(f.muffin, 4))
	require.NoError(t, o.AddItem(f.coffee, 2))
	// 4 x $2.00 + 2 x $2.50 = $13.00.
	require.Equal(t, int64(1300), o.Total())
}

func TestRepeatedAddsAccumulate(t *testing.T) {
	f := newFixture(25)
	o := order.New()
	require.NoError(t, o.AddItem(f.coffee, 1))
	require.NoError(t, o.AddItem(f.coffee, 2))
	require.NoError(t, o.AddCombo(f.shakeDeal, 1))
	require.NoError(t, o.AddCombo(f.shakeDeal, 1))
	// 3 coffees + 2 shake combos: 3 x 250 + 2 x (300 + 200 - 100).
	require.Equal(t, int64(1550), o.Total())
}

func TestTotalIsPureAndRepeatable(t *testing.T) {
	f := newFixture(25)
	o := order.New()
	require.NoError(t, o.AddItem(f.muffin, 2))
	require.NoError(t, o.AddCombo(f.coffeeDeal, 1))
	first := o.Total()
	for i := 0; i < 5; i++ {
		require.Equal(t, first, o.Total())
	}
	require.Equal(t, 3, o.Reserved(f.muffin), "pricing must not mutate reservations")
}

func TestFreshOrderTotalsZero(t *testing.T) {
	o := order.New()
	require.True(t, o.Empty())
	require.Equal(t, int64(0), o.Total())
}

func TestInvalidQuantity(t *testing.T) {
	f := newFixture(25)
	o := order.New()
	require.ErrorIs(t, o.AddItem(f.coffee, 0), order.ErrInvalidQuantity)
	require.ErrorIs(t, o.AddItem(f.coffee, -1), order.ErrInvalidQuantity)
	require.ErrorIs(t, o.AddCombo(f.coffeeDeal, 0), order.ErrInvalidQuantity)
	require.True(t, o.Empty())
}

func TestFinalizeCommitsLedgers(t *testing.T) {
	f := newFixture(10)
	o := order.New()
	require.NoError(t, o.AddItem(f.muffin, 2))
	require.NoError(t, o.AddItem(f.coffee, 1))
	require.NoError(t, o.AddCombo(f.shakeDeal, 3))

	require.NoError(t, o.Finalize())
	require.True(t, o.Finalized())

	// Direct muffins at list price plus three combo muffins at $1.50.
	require.Equal(t, 5, f.muffin.Sold())
	require.Equal(t, 5, f.muffin.Stock())
	require.Equal(t, int64(2*200+3*150), f.muffin.Revenue())

	// Combo shakes attributed to the shake ledger at $2.50 each.
	require.Equal(t, 3, f.shake.Sold())
	require.Equal(t, int64(3*250), f.shake.Revenue())

	require.Equal(t, 1, f.coffee.Sold())
	require.Equal(t, int64(250), f.coffee.Revenue())
}

func TestRevenueConservation(t *testing.T) {
	f := newFixture(25)
	o := order.New()
	require.NoError(t, o.AddItem(f.muffin, 4))
	require.NoError(t, o.AddItem(f.shake, 2))
	require.NoError(t, o.AddCombo(f.coffeeDeal, 3))
	require.NoError(t, o.AddCombo(f.shakeDeal, 1))

	total := o.Total()
	require.NoError(t, o.Finalize())

	var revenue pricing.Money
	for _, it := range []*menu.Item{f.muffin, f.shake, f.coffee} {
		revenue += it.Revenue()
	}
	require.Equal(t, total, revenue, "per-item revenue after finalize must equal the quoted total")
}

func TestRevenueConservationWithOddDiscount(t *testing.T) {
	muffin := menu.NewLimitedItem("Muffin", 200, 25)
	coffee := menu.NewItem("Coffee", 250, 0)
	deal := menu.NewCombo("Coffee + Muffin", coffee, muffin, 99)

	o := order.New()
	require.NoError(t, o.AddCombo(deal, 3))
	total := o.Total()
	require.NoError(t, o.Finalize())
	require.Equal(t, total, muffin.Revenue()+coffee.Revenue())
}

func TestFinalizeIsTerminal(t *testing.T) {
	f := newFixture(25)
	o := order.New()
	require.NoError(t, o.AddItem(f.coffee, 1))
	require.NoError(t, o.Finalize())

	require.ErrorIs(t, o.Finalize(), order.ErrFinalized)
	require.Equal(t, 1, f.coffee.Sold(), "re-finalizing must not double-sell")

	require.ErrorIs(t, o.AddItem(f.coffee, 1), order.ErrFinalized)
	require.ErrorIs(t, o.AddCombo(f.coffeeDeal, 1), order.ErrFinalized)
}

func TestPriceChangeBetweenAddAndFinalize(t *testing.T) {
	f := newFixture(25)
	o := order.New()
	require.NoError(t, o.AddItem(f.coffee, 2))

	f.coffee.SetPrice(300)
	// Lines carry quantities only; pricing always reads the current list
	// price, and prior ledger state is untouched.
	require.Equal(t, int64(600), o.Total())
	require.Equal(t, int64(0), f.coffee.Revenue())

	require.NoError(t, o.Finalize())
	require.Equal(t, int64(600), f.coffee.Revenue())
}
