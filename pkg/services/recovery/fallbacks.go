package recovery

import (
	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/services/schema"
)

type alternative struct {
	name     string
	pipeline domain.Pipeline
}

// fallbackAlternatives is the ordered ladder of canned pipelines tried when
// generation is unavailable or its alternative is still empty. Each one is
// broad enough to return rows from any non-empty dataset.
func fallbackAlternatives() []alternative {
	return []alternative{
		{
			name: "available months with data",
			pipeline: domain.Pipeline{
				{"$group": map[string]any{
					"_id":         "$month",
					"count":       map[string]any{"$sum": 1},
					"total_sales": map[string]any{"$sum": schema.AmountExpr("Total")},
				}},
				{"$project": map[string]any{
					"month":        "$_id",
					"transactions": "$count",
					"total_sales":  map[string]any{"$round": []any{"$total_sales", 2}},
					"_id":          0,
				}},
				{"$sort": map[string]any{"month": 1}},
			},
		},
		{
			name: "sales by location (all available data)",
			pipeline: domain.Pipeline{
				{"$group": map[string]any{
					"_id":         "$Location Name",
					"total_sales": map[string]any{"$sum": schema.AmountExpr("Total")},
					"count":       map[string]any{"$sum": 1},
				}},
				{"$project": map[string]any{
					"location":     "$_id",
					"total_sales":  map[string]any{"$round": []any{"$total_sales", 2}},
					"transactions": "$count",
					"_id":          0,
				}},
				{"$sort": map[string]any{"total_sales": -1}},
			},
		},
	}
}
