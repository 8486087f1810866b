package report

import (
	"github.com/noah-isme/backend-kafe/internal/menu"
	"github.com/noah-isme/backend-kafe/internal/pricing"
)

// Row is the sales ledger snapshot for a single item.
type Row struct {
	Name    string        `json:"name"`
	Price   pricing.Money `json:"price"`
	Stock   int           `json:"stock"`
	Sold    int           `json:"sold"`
	Revenue pricing.Money `json:"revenue"`
}

// Report aggregates per-item rows with catalog-wide totals.
type Report struct {
	Items        []Row         `json:"items"`
	TotalSold    int           `json:"totalSold"`
	TotalRevenue pricing.Money `json:"totalRevenue"`
}

// Build snapshots the catalog's ledgers in listing order. The caller is
// responsible for holding whatever lock guards the catalog.
func Build(cat *menu.Catalog) Report {
	var r Report
	for _, it := range cat.Items() {
		r.Items = append(r.Items, Row{
			Name:    it.Name(),
			Price:   it.Price(),
			Stock:   it.Stock(),
			Sold:    it.Sold(),
			Revenue: it.Revenue(),
		})
		r.TotalSold += it.Sold()
		r.TotalRevenue += it.Revenue()
	}
	return r
}
