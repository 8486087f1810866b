package report_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kafe/internal/menu"
	"github.com/noah-isme/backend-kafe/internal/report"
)

func TestBuildAggregatesLedgers(t *testing.T) {
	muffin := menu.NewLimitedItem("Muffin", 200, 25)
	coffee := menu.NewItem("Coffee", 250, 0)
	cat, err := menu.New([]*menu.Item{muffin, coffee}, nil)
	require.NoError(t, err)

	muffin.Sell(4)
	coffee.SellAt(2, 200)

	r := report.Build(cat)
	require.Len(t, r.Items, 2)
	require.Equal(t, report.Row{Name: "Muffin", Price: 200, Stock: 21, Sold: 4, Revenue: 800}, r.Items[0])
	require.Equal(t, report.Row{Name: "Coffee", Price: 250, Stock: -2, Sold: 2, Revenue: 400}, r.Items[1])
	require.Equal(t, 6, r.TotalSold)
	require.Equal(t, int64(1200), r.TotalRevenue)
}

func TestBuildEmptyCatalog(t *testing.T) {
	cat, err := menu.New(nil, nil)
	require.NoError(t, err)
	r := report.Build(cat)
	require.Empty(t, r.Items)
	require.Zero(t, r.TotalSold)
	require.Zero(t, r.TotalRevenue)
}
