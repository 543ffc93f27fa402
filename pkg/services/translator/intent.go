package translator

import (
	"sort"
	"strings"
	"time"
)

// intent is what the original command measurably asked for: the temporal and
// dimensional signals a correct translation must preserve. Extracting it up
// front lets us validate the AI translation instead of patching its output
// with phrase-specific string surgery.
type intent struct {
	months     []time.Month
	dimensions []string
	years      []string
}

var monthLexicon = map[string]time.Month{
	"january": time.January, "januari": time.January,
	"february": time.February, "februari": time.February,
	"march": time.March, "maret": time.March,
	"april": time.April,
	"may":   time.May, "mei": time.May,
	"june": time.June, "juni": time.June,
	"july": time.July, "juli": time.July,
	"august": time.August, "agustus": time.August,
	"september": time.September,
	"october":   time.October, "oktober": time.October,
	"november": time.November,
	"december": time.December, "desember": time.December,
}

// dimensionLexicon maps source-language terms to the canonical English
// dimension they ask to group by.
var dimensionLexicon = map[string]string{
	"lokasi": "location", "location": "location", "toko": "location", "store": "location",
	"produk": "product", "product": "product", "barang": "product",
	"kategori": "category", "category": "category",
	"pembayaran": "payment method", "payment": "payment method", "bayar": "payment method",
	"bulan": "month", "month": "month", "bulanan": "month", "monthly": "month",
}

// dimensionOrder fixes the rendering order of detected dimensions so that
// canonical rewrites and fallback pipelines come out the same on every call.
var dimensionOrder = []string{"location", "product", "category", "payment method", "month"}

// Months returns every month the text mentions, in either source language.
func Months(text string) []time.Month {
	lower := strings.ToLower(text)
	var months []time.Month
	seen := map[time.Month]bool{}
	for term, month := range monthLexicon {
		if strings.Contains(lower, term) && !seen[month] {
			seen[month] = true
			months = append(months, month)
		}
	}
	sort.Slice(months, func(i, j int) bool { return months[i] < months[j] })
	return months
}

func detectIntent(command string) intent {
	lower := strings.ToLower(command)

	var in intent
	in.months = Months(lower)

	seenDim := map[string]bool{}
	for term, dim := range dimensionLexicon {
		if strings.Contains(lower, term) {
			seenDim[dim] = true
		}
	}
	for _, dim := range dimensionOrder {
		if seenDim[dim] {
			in.dimensions = append(in.dimensions, dim)
		}
	}

	for _, token := range strings.Fields(lower) {
		if len(token) == 4 && (strings.HasPrefix(token, "19") || strings.HasPrefix(token, "20")) {
			if isDigits(token) {
				in.years = append(in.years, token)
			}
		}
	}
	return in
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (in intent) empty() bool {
	return len(in.months) == 0 && len(in.dimensions) == 0 && len(in.years) == 0
}

// satisfiedBy reports whether the translation preserves every detected
// signal: each month by its English name, each dimension by its canonical
// term, each year literally.
func (in intent) satisfiedBy(translation string) bool {
	lower := strings.ToLower(translation)
	for _, m := range in.months {
		if !strings.Contains(lower, strings.ToLower(m.String())) {
			return false
		}
	}
	for _, d := range in.dimensions {
		if d == "month" && len(in.months) > 0 {
			// A concrete month already covers the temporal dimension.
			continue
		}
		if !strings.Contains(lower, d) {
			return false
		}
	}
	for _, y := range in.years {
		if !strings.Contains(lower, y) {
			return false
		}
	}
	return true
}

// canonicalCommand deterministically renders the intent as a plain English
// analytics request, e.g. "Show sales by location for June 2024".
func (in intent) canonicalCommand() string {
	var b strings.Builder
	b.WriteString("Show sales")

	for _, d := range in.dimensions {
		if d == "month" && len(in.months) > 0 {
			continue
		}
		b.WriteString(" by ")
		b.WriteString(d)
	}
	for i, m := range in.months {
		if i == 0 {
			b.WriteString(" for ")
		} else {
			b.WriteString(" and ")
		}
		b.WriteString(m.String())
	}
	for _, y := range in.years {
		b.WriteString(" ")
		b.WriteString(y)
	}
	return b.String()
}
