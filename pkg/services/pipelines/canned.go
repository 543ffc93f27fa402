package pipelines

import (
	"fmt"
	"sort"

	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/services/schema"
)

// canned holds the named, hand-maintained pipelines exposed on the admin
// surface. They run against the raw collection and assume the derived
// month/year fields are present.
var canned = map[string]struct {
	description string
	pipeline    domain.Pipeline
}{
	"sales_by_location": {
		description: "Sales summary grouped by location",
		pipeline: domain.Pipeline{
			{"$group": map[string]any{
				"_id":          "$Location Name",
				"total_sales":  map[string]any{"$sum": schema.AmountExpr("Total")},
				"transactions": map[string]any{"$sum": 1},
			}},
			{"$sort": map[string]any{"total_sales": -1}},
		},
	},
	"daily_sales": {
		description: "Daily sales trend over time",
		pipeline: domain.Pipeline{
			{"$group": map[string]any{
				"_id":          "$Sales Date",
				"total_sales":  map[string]any{"$sum": schema.AmountExpr("Total")},
				"transactions": map[string]any{"$sum": 1},
			}},
			{"$sort": map[string]any{"_id": 1}},
		},
	},
	"product_performance": {
		description: "Product performance analysis",
		pipeline: domain.Pipeline{
			{"$group": map[string]any{
				"_id":           "$Product Name",
				"category":      map[string]any{"$first": "$Product Category Name"},
				"quantity_sold": map[string]any{"$sum": "$Product qty"},
				"revenue":       map[string]any{"$sum": schema.AmountExpr("Gross Sales")},
			}},
			{"$sort": map[string]any{"revenue": -1}},
			{"$limit": 20},
		},
	},
	"payment_methods": {
		description: "Payment method analysis",
		pipeline: domain.Pipeline{
			{"$group": map[string]any{
				"_id":          "$Payment Method",
				"total_sales":  map[string]any{"$sum": schema.AmountExpr("Total")},
				"transactions": map[string]any{"$sum": 1},
			}},
			{"$sort": map[string]any{"total_sales": -1}},
		},
	},
	"hourly_pattern": {
		description: "Hourly sales pattern analysis",
		pipeline: domain.Pipeline{
			{"$addFields": map[string]any{
				"hour": map[string]any{
					"$toInt": map[string]any{"$substr": []any{"$Sales Time", 0, 2}},
				},
			}},
			{"$group": map[string]any{
				"_id":          "$hour",
				"total_sales":  map[string]any{"$sum": schema.AmountExpr("Total")},
				"transactions": map[string]any{"$sum": 1},
			}},
			{"$sort": map[string]any{"_id": 1}},
		},
	},
}

// Names lists the canned pipelines alphabetically.
func Names() []string {
	names := make([]string, 0, len(canned))
	for name := range canned {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptions maps each pipeline name to its one-line description.
func Descriptions() map[string]string {
	out := make(map[string]string, len(canned))
	for name, c := range canned {
		out[name] = c.description
	}
	return out
}

// Lookup returns a named pipeline.
func Lookup(name string) (domain.Pipeline, error) {
	c, ok := canned[name]
	if !ok {
		return nil, fmt.Errorf("unknown pipeline %q", name)
	}
	return c.pipeline, nil
}
