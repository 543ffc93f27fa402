package router

import "strings"

const (
	primaryWeight   = 3
	secondaryWeight = 2

	// MinScore is the confidence below which callers should stay on the
	// collection they were given rather than switch to a rollup.
	MinScore = 2
)

// keywords holds the weighted terms that vote for one rollup. Primary terms
// name the dimension itself; secondary terms are weaker phrasings.
type keywords struct {
	primary   []string
	secondary []string
}

// The table is static: routing is a deterministic function of the input text.
var keywordTable = map[string]keywords{
	"sales_by_location": {
		primary:   []string{"lokasi", "location", "toko", "store"},
		secondary: []string{"cabang", "branch", "per lokasi", "by location"},
	},
	"sales_by_month": {
		primary:   []string{"bulan", "month", "bulanan", "monthly"},
		secondary: []string{"trend", "tahun", "year", "per bulan", "by month"},
	},
	"sales_by_location_month": {
		primary:   []string{"per lokasi per bulan", "location month", "lokasi bulan", "by location by month"},
		secondary: []string{"toko bulan", "store month", "lokasi per bulan", "location and month"},
	},
	"sales_by_product": {
		primary:   []string{"produk", "product", "barang", "item"},
		secondary: []string{"kategori", "category", "per produk", "by product"},
	},
	"sales_by_payment_method": {
		primary:   []string{"payment", "pembayaran", "bayar"},
		secondary: []string{"cash", "qris", "card", "metode", "method"},
	},
}

// Route scores every rollup against the command text and returns the best
// match with its score, or ("", 0) when nothing matches. Ties resolve to the
// longer (more specific) collection name.
func Route(text string) (string, int) {
	lower := strings.ToLower(text)

	best := ""
	bestScore := 0
	for collection, kw := range keywordTable {
		score := 0
		for _, term := range kw.primary {
			if strings.Contains(lower, term) {
				score += primaryWeight
			}
		}
		for _, term := range kw.secondary {
			if strings.Contains(lower, term) {
				score += secondaryWeight
			}
		}
		if score == 0 {
			continue
		}
		switch {
		case score > bestScore:
			best, bestScore = collection, score
		case score == bestScore && len(collection) > len(best):
			best = collection
		}
	}
	return best, bestScore
}
