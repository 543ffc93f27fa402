package rollup

import (
	"time"

	"github.com/retailops/salescope/pkg/models/domain"
	mongostore "github.com/retailops/salescope/pkg/store/mongo"
)

var monthNames = []any{"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

// Definition describes how one rollup is materialized from the raw source.
type Definition struct {
	Name        string
	Description string
	Indexes     [][]mongostore.IndexField

	// stages is the rollup-specific tail appended after the shared date and
	// numeric normalization stages.
	stages func(buildTime time.Time) domain.Pipeline
}

// Pipeline assembles the full build pipeline: shared date normalization,
// shared numeric coercion, then the rollup-specific group/project/sort.
func (d Definition) Pipeline(buildTime time.Time) domain.Pipeline {
	return append(dateNormalizationStages(), d.stages(buildTime)...)
}

var definitions = []Definition{
	{
		Name:        "sales_by_location",
		Description: "Sales summary grouped by store location",
		Indexes: [][]mongostore.IndexField{
			{{Name: "location_name", Order: 1}},
		},
		stages: salesByLocationStages,
	},
	{
		Name:        "sales_by_month",
		Description: "Sales summary grouped by calendar month",
		Indexes: [][]mongostore.IndexField{
			{{Name: "year", Order: 1}, {Name: "month", Order: 1}},
			{{Name: "period", Order: 1}},
		},
		stages: salesByMonthStages,
	},
	{
		Name:        "sales_by_location_month",
		Description: "Sales summary grouped by location and month",
		Indexes: [][]mongostore.IndexField{
			{{Name: "location_name", Order: 1}},
			{{Name: "year", Order: 1}, {Name: "month", Order: 1}},
			{{Name: "location_period", Order: 1}},
		},
		stages: salesByLocationMonthStages,
	},
	{
		Name:        "sales_by_product",
		Description: "Revenue and quantity grouped by product and category",
		Indexes: [][]mongostore.IndexField{
			{{Name: "product_name", Order: 1}},
			{{Name: "product_category", Order: 1}},
		},
		stages: salesByProductStages,
	},
	{
		Name:        "sales_by_payment_method",
		Description: "Sales summary grouped by payment method",
		Indexes: [][]mongostore.IndexField{
			{{Name: "payment_method", Order: 1}},
		},
		stages: salesByPaymentMethodStages,
	},
	{
		Name:        "sales_summary_nested",
		Description: "Per-location summary with nested monthly breakdown",
		Indexes: [][]mongostore.IndexField{
			{{Name: "location_name", Order: 1}},
		},
		stages: salesSummaryNestedStages,
	},
	{
		Name:        "product_performance_nested",
		Description: "Per-product performance with nested location and month breakdown",
		Indexes: [][]mongostore.IndexField{
			{{Name: "product_name", Order: 1}},
			{{Name: "total_revenue", Order: -1}},
		},
		stages: productPerformanceNestedStages,
	},
}

// Definitions returns every rollup in build order.
func Definitions() []Definition {
	return definitions
}

// Lookup finds a definition by rollup name.
func Lookup(name string) (Definition, bool) {
	for _, d := range definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Names lists every rollup name in build order.
func Names() []string {
	names := make([]string, len(definitions))
	for i, d := range definitions {
		names[i] = d.Name
	}
	return names
}

func salesByLocationStages(buildTime time.Time) domain.Pipeline {
	return domain.Pipeline{
		numericCoercionStage("Total", "total_numeric"),
		{
			"$group": map[string]any{
				"_id":                "$Location Name",
				"total_sales":        map[string]any{"$sum": "$total_numeric"},
				"total_transactions": map[string]any{"$sum": 1},
				"sales_dates":        map[string]any{"$push": "$Sales Date"},
				"months":             map[string]any{"$addToSet": "$extracted_month"},
				"years":              map[string]any{"$addToSet": "$extracted_year"},
			},
		},
		{
			"$project": map[string]any{
				"_id":                0,
				"location_name":      "$_id",
				"total_sales":        round2("$total_sales"),
				"total_transactions": 1,
				"average_transaction": round2(map[string]any{
					"$divide": []any{"$total_sales", "$total_transactions"},
				}),
				"first_sale_date": map[string]any{"$min": "$sales_dates"},
				"last_sale_date":  map[string]any{"$max": "$sales_dates"},
				"active_months":   "$months",
				"active_years":    "$years",
				"last_updated":    buildTime,
			},
		},
		{"$sort": map[string]any{"total_sales": -1}},
	}
}

func salesByMonthStages(buildTime time.Time) domain.Pipeline {
	return domain.Pipeline{
		numericCoercionStage("Total", "total_numeric"),
		{
			"$group": map[string]any{
				"_id":                map[string]any{"year": "$extracted_year", "month": "$extracted_month"},
				"total_sales":        map[string]any{"$sum": "$total_numeric"},
				"total_transactions": map[string]any{"$sum": 1},
				"locations":          map[string]any{"$addToSet": "$Location Name"},
			},
		},
		{
			"$project": map[string]any{
				"_id":        0,
				"year":       "$_id.year",
				"month":      "$_id.month",
				"month_name": map[string]any{"$arrayElemAt": []any{monthNames, "$_id.month"}},
				// 100+month keeps the period key lexically sortable (2024-106 < 2024-111)
				"period": map[string]any{
					"$concat": []any{
						map[string]any{"$toString": "$_id.year"},
						"-",
						map[string]any{"$toString": map[string]any{"$add": []any{100, "$_id.month"}}},
					},
				},
				"total_sales":        round2("$total_sales"),
				"total_transactions": 1,
				"average_daily_sales": round2(map[string]any{
					"$divide": []any{"$total_sales", 30},
				}),
				"locations_active": "$locations",
				"top_location":     map[string]any{"$first": "$locations"},
				"last_updated":     buildTime,
			},
		},
		{"$sort": map[string]any{"year": 1, "month": 1}},
	}
}

func salesByLocationMonthStages(buildTime time.Time) domain.Pipeline {
	period := map[string]any{
		"$concat": []any{
			map[string]any{"$toString": "$_id.year"},
			"-",
			map[string]any{"$toString": "$_id.month"},
		},
	}
	return domain.Pipeline{
		numericCoercionStage("Total", "total_numeric"),
		{
			"$group": map[string]any{
				"_id": map[string]any{
					"location": "$Location Name",
					"year":     "$extracted_year",
					"month":    "$extracted_month",
				},
				"total_sales":        map[string]any{"$sum": "$total_numeric"},
				"total_transactions": map[string]any{"$sum": 1},
				"customers":          map[string]any{"$addToSet": "$Customer Phone No"},
				"payment_methods":    map[string]any{"$addToSet": "$Payment Method"},
				"product_categories": map[string]any{"$addToSet": "$Product Category Name"},
				"sales_dates":        map[string]any{"$addToSet": "$Sales Date"},
			},
		},
		{
			"$project": map[string]any{
				"_id":           0,
				"location_name": "$_id.location",
				"year":          "$_id.year",
				"month":         "$_id.month",
				"period":        period,
				"location_period": map[string]any{
					"$concat": []any{
						"$_id.location",
						"_",
						map[string]any{"$toString": "$_id.year"},
						"-",
						map[string]any{"$toString": "$_id.month"},
					},
				},
				"total_sales":        round2("$total_sales"),
				"total_transactions": 1,
				"average_transaction": round2(map[string]any{
					"$divide": []any{"$total_sales", "$total_transactions"},
				}),
				"unique_customers": map[string]any{
					"$size": map[string]any{
						"$filter": map[string]any{
							"input": "$customers",
							"cond":  map[string]any{"$ne": []any{"$$this", nil}},
						},
					},
				},
				"payment_methods":    1,
				"product_categories": 1,
				"days_active":        map[string]any{"$size": "$sales_dates"},
				"last_updated":       buildTime,
			},
		},
		{"$sort": map[string]any{"location_name": 1, "year": 1, "month": 1}},
	}
}

func salesByProductStages(buildTime time.Time) domain.Pipeline {
	return domain.Pipeline{
		numericCoercionStage("Gross Sales", "gross_sales_numeric"),
		{
			"$group": map[string]any{
				"_id": map[string]any{
					"product":  "$Product Name",
					"category": "$Product Category Name",
				},
				"total_quantity_sold": map[string]any{"$sum": "$Product qty"},
				"total_revenue":       map[string]any{"$sum": "$gross_sales_numeric"},
				"total_transactions":  map[string]any{"$sum": 1},
				"prices":              map[string]any{"$push": "$Price"},
				"locations":           map[string]any{"$addToSet": "$Location Name"},
				"months":              map[string]any{"$addToSet": "$extracted_month"},
				"years":               map[string]any{"$addToSet": "$extracted_year"},
				"sales_dates":         map[string]any{"$push": "$Sales Date"},
			},
		},
		{
			"$project": map[string]any{
				"_id":                      0,
				"product_name":             "$_id.product",
				"product_category":         "$_id.category",
				"total_quantity_sold":      1,
				"total_revenue":            round2("$total_revenue"),
				"total_transactions":       1,
				"average_price":            round2(map[string]any{"$avg": "$prices"}),
				"locations_sold":           "$locations",
				"months_active":            "$months",
				"years_active":             "$years",
				"best_performing_location": map[string]any{"$first": "$locations"},
				"last_sale_date":           map[string]any{"$max": "$sales_dates"},
				"last_updated":             buildTime,
			},
		},
		{"$sort": map[string]any{"total_revenue": -1}},
	}
}

func salesByPaymentMethodStages(buildTime time.Time) domain.Pipeline {
	return domain.Pipeline{
		numericCoercionStage("Total", "total_numeric"),
		{
			"$group": map[string]any{
				"_id":                "$Payment Method",
				"total_sales":        map[string]any{"$sum": "$total_numeric"},
				"total_transactions": map[string]any{"$sum": 1},
				"locations":          map[string]any{"$addToSet": "$Location Name"},
				"months":             map[string]any{"$addToSet": "$extracted_month"},
				"years":              map[string]any{"$addToSet": "$extracted_year"},
				"sales_dates":        map[string]any{"$push": "$Sales Date"},
			},
		},
		{
			"$project": map[string]any{
				"_id":                0,
				"payment_method":     "$_id",
				"total_sales":        round2("$total_sales"),
				"total_transactions": 1,
				"average_transaction": round2(map[string]any{
					"$divide": []any{"$total_sales", "$total_transactions"},
				}),
				"locations_used":   "$locations",
				"months_active":    "$months",
				"years_active":     "$years",
				"peak_usage_month": map[string]any{"$toString": map[string]any{"$max": "$months"}},
				"last_used_date":   map[string]any{"$max": "$sales_dates"},
				"last_updated":     buildTime,
			},
		},
		{"$sort": map[string]any{"total_sales": -1}},
	}
}

func salesSummaryNestedStages(buildTime time.Time) domain.Pipeline {
	return domain.Pipeline{
		numericCoercionStage("Total", "total_numeric"),
		{
			"$group": map[string]any{
				"_id": map[string]any{
					"location": "$Location Name",
					"year":     "$extracted_year",
					"month":    "$extracted_month",
				},
				"monthly_sales":        map[string]any{"$sum": "$total_numeric"},
				"monthly_transactions": map[string]any{"$sum": 1},
				"products_sold":        map[string]any{"$addToSet": "$Product Name"},
				"categories":           map[string]any{"$addToSet": "$Product Category Name"},
				"payment_methods":      map[string]any{"$addToSet": "$Payment Method"},
			},
		},
		{
			"$group": map[string]any{
				"_id":                "$_id.location",
				"total_sales":        map[string]any{"$sum": "$monthly_sales"},
				"total_transactions": map[string]any{"$sum": "$monthly_transactions"},
				"monthly_breakdown": map[string]any{
					"$push": map[string]any{
						"year":  "$_id.year",
						"month": "$_id.month",
						"period": map[string]any{
							"$concat": []any{
								map[string]any{"$toString": "$_id.year"},
								"-",
								map[string]any{"$toString": "$_id.month"},
							},
						},
						"sales":           "$monthly_sales",
						"transactions":    "$monthly_transactions",
						"products_sold":   "$products_sold",
						"categories":      "$categories",
						"payment_methods": "$payment_methods",
					},
				},
			},
		},
		{
			"$project": map[string]any{
				"_id":                0,
				"location_name":      "$_id",
				"total_sales":        round2("$total_sales"),
				"total_transactions": 1,
				"average_transaction": round2(map[string]any{
					"$divide": []any{"$total_sales", "$total_transactions"},
				}),
				"monthly_breakdown": 1,
				"active_months":     map[string]any{"$size": "$monthly_breakdown"},
				"last_updated":      buildTime,
			},
		},
		{"$sort": map[string]any{"total_sales": -1}},
	}
}

func productPerformanceNestedStages(buildTime time.Time) domain.Pipeline {
	period := map[string]any{
		"$concat": []any{
			map[string]any{"$toString": "$_id.year"},
			"-",
			map[string]any{"$toString": "$_id.month"},
		},
	}
	return domain.Pipeline{
		numericCoercionStage("Gross Sales", "gross_sales_numeric"),
		{
			"$group": map[string]any{
				"_id": map[string]any{
					"product":  "$Product Name",
					"category": "$Product Category Name",
					"location": "$Location Name",
					"year":     "$extracted_year",
					"month":    "$extracted_month",
				},
				"location_month_revenue":      map[string]any{"$sum": "$gross_sales_numeric"},
				"location_month_quantity":     map[string]any{"$sum": "$Product qty"},
				"location_month_transactions": map[string]any{"$sum": 1},
				"avg_price":                   map[string]any{"$avg": "$Price"},
			},
		},
		{
			"$group": map[string]any{
				"_id": map[string]any{
					"product":  "$_id.product",
					"category": "$_id.category",
				},
				"total_revenue":      map[string]any{"$sum": "$location_month_revenue"},
				"total_quantity":     map[string]any{"$sum": "$location_month_quantity"},
				"total_transactions": map[string]any{"$sum": "$location_month_transactions"},
				"average_price":      map[string]any{"$avg": "$avg_price"},
				"performance_breakdown": map[string]any{
					"$push": map[string]any{
						"location": "$_id.location",
						"year":     "$_id.year",
						"month":    "$_id.month",
						"period":   period,
						"location_period": map[string]any{
							"$concat": []any{
								"$_id.location",
								"_",
								map[string]any{"$toString": "$_id.year"},
								"-",
								map[string]any{"$toString": "$_id.month"},
							},
						},
						"revenue":      "$location_month_revenue",
						"quantity":     "$location_month_quantity",
						"transactions": "$location_month_transactions",
					},
				},
			},
		},
		{
			"$project": map[string]any{
				"_id":                   0,
				"product_name":          "$_id.product",
				"product_category":      "$_id.category",
				"total_revenue":         round2("$total_revenue"),
				"total_quantity":        1,
				"total_transactions":    1,
				"average_price":         round2("$average_price"),
				"performance_breakdown": 1,
				"locations_count": map[string]any{
					"$size": map[string]any{
						"$setUnion": []any{
							map[string]any{"$map": map[string]any{
								"input": "$performance_breakdown",
								"as":    "item",
								"in":    "$$item.location",
							}},
							[]any{},
						},
					},
				},
				"months_active": map[string]any{
					"$size": map[string]any{
						"$setUnion": []any{
							map[string]any{"$map": map[string]any{
								"input": "$performance_breakdown",
								"as":    "item",
								"in":    "$$item.period",
							}},
							[]any{},
						},
					},
				},
				"last_updated": buildTime,
			},
		},
		{"$sort": map[string]any{"total_revenue": -1}},
	}
}
