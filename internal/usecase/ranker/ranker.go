// Package ranker orders products cheapest first.
package ranker

import (
	"math"
	"sort"

	"github.com/AbdooMohamedd/BrowserUse-Best-Deal-Finder/internal/domain/entity"
)

// DefaultTopK is how many best deals a run reports.
const DefaultTopK = 3

type DealRanker struct {
	topK int
}

func New(topK int) *DealRanker {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &DealRanker{topK: topK}
}

// Rank returns at most topK products in ascending price order. Products with
// an unparsed (zero) price sort after every priced product; equal keys keep
// their input order. The input slice is not modified.
func (r *DealRanker) Rank(products []entity.Product) []entity.Product {
	sorted := make([]entity.Product, len(products))
	copy(sorted, products)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sortKey(sorted[i]) < sortKey(sorted[j])
	})

	if len(sorted) > r.topK {
		sorted = sorted[:r.topK]
	}
	return sorted
}

func sortKey(p entity.Product) float64 {
	if !p.HasPrice() {
		return math.Inf(1)
	}
	return p.Price
}
