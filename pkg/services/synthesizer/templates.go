package synthesizer

import (
	"strings"

	"github.com/retailops/salescope/pkg/models/domain"
)

// matchTemplate returns a curated, hand-authored pipeline when the command
// matches a known intent signature for the target rollup. Template hits never
// touch the generation collaborator and always produce the same stages.
func matchTemplate(command, collection string) (domain.Pipeline, bool) {
	lower := strings.ToLower(command)

	switch collection {
	case "sales_by_location_month":
		if containsAny(lower, "product", "category", "kategori") &&
			containsAny(lower, "location", "lokasi") &&
			containsAny(lower, "june", "juni") {
			return topCategoriesPerLocationJune(), true
		}
	case "product_performance_nested":
		if containsAny(lower, "product", "produk") &&
			containsAny(lower, "location", "lokasi") &&
			containsAny(lower, "terbanyak", "terbesar", "top") {
			return topProductsFromTopLocations(), true
		}
	}
	return nil, false
}

func containsAny(text string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// topCategoriesPerLocationJune lists each location's best product categories
// for June off the location-month rollup.
func topCategoriesPerLocationJune() domain.Pipeline {
	return domain.Pipeline{
		{"$match": map[string]any{"month": 6}},
		{"$unwind": "$product_categories"},
		{"$group": map[string]any{
			"_id": map[string]any{
				"location": "$location_name",
				"category": "$product_categories",
			},
			"total_sales": map[string]any{"$first": "$total_sales"},
		}},
		{"$sort": map[string]any{"total_sales": -1}},
		{"$group": map[string]any{
			"_id": "$_id.location",
			"top_categories": map[string]any{
				"$push": map[string]any{
					"category": "$_id.category",
					"sales":    "$total_sales",
				},
			},
		}},
		{"$project": map[string]any{
			"location":       "$_id",
			"top_categories": map[string]any{"$slice": []any{"$top_categories", 10}},
			"_id":            0,
		}},
		{"$sort": map[string]any{"location": 1}},
	}
}

// topProductsFromTopLocations ranks the ten best locations by revenue and
// lists each one's ten best products off the nested performance rollup.
func topProductsFromTopLocations() domain.Pipeline {
	return domain.Pipeline{
		{"$sort": map[string]any{"total_revenue": -1}},
		{"$limit": 100},
		{"$unwind": "$performance_breakdown"},
		{"$group": map[string]any{
			"_id":            "$performance_breakdown.location",
			"location_total": map[string]any{"$sum": "$performance_breakdown.revenue"},
			"products": map[string]any{
				"$push": map[string]any{
					"product_name":     "$product_name",
					"product_category": "$product_category",
					"revenue":          "$performance_breakdown.revenue",
					"quantity":         "$performance_breakdown.quantity",
				},
			},
		}},
		{"$sort": map[string]any{"location_total": -1}},
		{"$limit": 10},
		{"$project": map[string]any{
			"location":       "$_id",
			"location_total": 1,
			"top_products": map[string]any{
				"$slice": []any{
					map[string]any{"$sortArray": map[string]any{
						"input":  "$products",
						"sortBy": map[string]any{"revenue": -1},
					}},
					10,
				},
			},
			"_id": 0,
		}},
		{"$sort": map[string]any{"location_total": -1}},
	}
}
