package rollup

import (
	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/services/schema"
)

// dateNormalizationStages produces parsed_date, extracted_month and
// extracted_year from the heterogeneous Sales Date field. Native dates pass
// through; DD/MM/YYYY strings are parsed server-side with a null-safe
// onError; anything else falls back to the backfilled month/year fields.
func dateNormalizationStages() domain.Pipeline {
	return domain.Pipeline{
		{
			"$addFields": map[string]any{
				"parsed_date": map[string]any{
					"$cond": map[string]any{
						"if":   map[string]any{"$eq": []any{map[string]any{"$type": "$Sales Date"}, "date"}},
						"then": "$Sales Date",
						"else": map[string]any{
							"$cond": map[string]any{
								"if": map[string]any{"$eq": []any{map[string]any{"$type": "$Sales Date"}, "string"}},
								"then": map[string]any{
									"$dateFromString": map[string]any{
										"dateString": "$Sales Date",
										"format":     "%d/%m/%Y",
										"onError":    nil,
									},
								},
								"else": nil,
							},
						},
					},
				},
			},
		},
		{
			"$addFields": map[string]any{
				"extracted_month": map[string]any{
					"$cond": map[string]any{
						"if":   map[string]any{"$ne": []any{"$parsed_date", nil}},
						"then": map[string]any{"$month": "$parsed_date"},
						"else": "$month",
					},
				},
				"extracted_year": map[string]any{
					"$cond": map[string]any{
						"if":   map[string]any{"$ne": []any{"$parsed_date", nil}},
						"then": map[string]any{"$year": "$parsed_date"},
						"else": "$year",
					},
				},
			},
		},
	}
}

// numericCoercionStage converts a possibly string-encoded monetary field into
// a double under the given alias, stripping locale thousands separators
// first.
func numericCoercionStage(sourceField, alias string) map[string]any {
	return map[string]any{
		"$addFields": map[string]any{
			alias: schema.AmountExpr(sourceField),
		},
	}
}

func round2(expr any) map[string]any {
	return map[string]any{"$round": []any{expr, 2}}
}
