package synthesizer

import (
	"errors"
	"strings"

	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/services/schema"
	"github.com/retailops/salescope/pkg/services/translator"
)

// ErrNoFallback means no keyword heuristic matched the command; the request
// fails with this as the cause.
var ErrNoFallback = errors.New("no fallback pipeline matches the command")

// fallbackPipeline builds a deterministic pipeline from keyword heuristics
// when generation is unavailable or unusable. Both the original and the
// translated command are inspected so source-language terms still match.
func fallbackPipeline(originalCommand, translatedCommand, collection string) (domain.Pipeline, error) {
	months := translator.Months(originalCommand + " " + translatedCommand)
	catalog := schema.CatalogFor(collection)

	if schema.IsRollup(collection) {
		if len(months) > 0 && catalog.HasField("month") {
			return domain.Pipeline{
				{"$match": map[string]any{"month": int(months[0])}},
				{"$sort": map[string]any{"total_sales": -1}},
			}, nil
		}
		if catalog.HasField("total_sales") {
			return domain.Pipeline{
				{"$sort": map[string]any{"total_sales": -1}},
			}, nil
		}
		return nil, ErrNoFallback
	}

	if len(months) > 0 {
		return domain.Pipeline{
			{"$match": map[string]any{"month": int(months[0])}},
			{"$group": map[string]any{
				"_id":         "$Location Name",
				"total_sales": map[string]any{"$sum": schema.AmountExpr("Total")},
				"count":       map[string]any{"$sum": 1},
			}},
			{"$sort": map[string]any{"total_sales": -1}},
		}, nil
	}
	if containsAny(strings.ToLower(originalCommand+" "+translatedCommand), "lokasi", "location") {
		return domain.Pipeline{
			{"$group": map[string]any{
				"_id":         "$Location Name",
				"total_sales": map[string]any{"$sum": schema.AmountExpr("Total")},
				"count":       map[string]any{"$sum": 1},
			}},
			{"$sort": map[string]any{"total_sales": -1}},
		}, nil
	}
	return nil, ErrNoFallback
}
