package recovery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/retailops/salescope/pkg/models/domain"
	"github.com/retailops/salescope/pkg/services/schema"
)

// profile computes the dimensional envelope of the raw collection in one
// aggregation plus a small sample: distinct locations, months, years,
// categories and payment methods, the date bounds, and five example
// documents.
func (e *Engine) profile(ctx context.Context) (domain.DataProfile, error) {
	summary, _, err := e.exec.Execute(ctx, schema.RawCollection, domain.Pipeline{
		{"$group": map[string]any{
			"_id":             nil,
			"date_range":      map[string]any{"$push": "$Sales Date"},
			"locations":       map[string]any{"$addToSet": "$Location Name"},
			"months":          map[string]any{"$addToSet": "$month"},
			"years":           map[string]any{"$addToSet": "$year"},
			"categories":      map[string]any{"$addToSet": "$Product Category Name"},
			"payment_methods": map[string]any{"$addToSet": "$Payment Method"},
			"total_documents": map[string]any{"$sum": 1},
		}},
		{"$project": map[string]any{
			"_id":             0,
			"locations":       1,
			"months":          1,
			"years":           1,
			"categories":      1,
			"payment_methods": 1,
			"total_documents": 1,
			"earliest_date":   map[string]any{"$min": "$date_range"},
			"latest_date":     map[string]any{"$max": "$date_range"},
		}},
	})
	if err != nil {
		return domain.DataProfile{}, fmt.Errorf("profile %s: %w", schema.RawCollection, err)
	}
	if len(summary) == 0 {
		return domain.DataProfile{}, fmt.Errorf("profile %s: collection is empty", schema.RawCollection)
	}
	doc := summary[0]

	profile := domain.DataProfile{
		TotalDocuments: toInt(doc["total_documents"]),
		Locations:      toStrings(doc["locations"]),
		Months:         toInts(doc["months"]),
		Years:          toInts(doc["years"]),
		Categories:     toStrings(doc["categories"]),
		PaymentMethods: toStrings(doc["payment_methods"]),
		EarliestDate:   fmt.Sprint(doc["earliest_date"]),
		LatestDate:     fmt.Sprint(doc["latest_date"]),
	}

	sample, _, err := e.exec.Execute(ctx, schema.RawCollection, domain.Pipeline{
		{"$sample": map[string]any{"size": 5}},
		{"$project": map[string]any{
			"Location Name":         1,
			"Sales Date":            1,
			"month":                 1,
			"year":                  1,
			"Product Category Name": 1,
			"Product Name":          1,
			"Payment Method":        1,
			"Total":                 1,
		}},
	})
	if err == nil {
		profile.Sample = sample
	}
	return profile, nil
}

func alternativePrompt(profile domain.DataProfile, originalCommand, translatedCommand string) string {
	sampleJSON, _ := json.Marshal(profile.Sample)

	return fmt.Sprintf(`The user requested: %q (translated: %q)

However, this query returned no results from the sales collection.

Here's what data is actually available:
- Total documents: %d
- Available locations: %v
- Available months: %v
- Available years: %v
- Available categories: %v
- Available payment methods: %v
- Date range: %s to %s

Sample data: %s

Please create an alternative MongoDB aggregation pipeline that:
1. Uses ONLY the actually available dimensions listed above
2. Provides the closest possible answer to the user's intent
3. Is meaningful and useful
4. Returns actual results

For example:
- If they asked for a month with no data, show the available months instead
- If they asked for a location that doesn't exist, show available locations
- If they asked for a year that doesn't exist, show available years
- Always stay close to their original intent

Return ONLY a valid JSON aggregation pipeline array.`,
		originalCommand, translatedCommand,
		profile.TotalDocuments,
		profile.Locations, profile.Months, profile.Years,
		profile.Categories, profile.PaymentMethods,
		profile.EarliestDate, profile.LatestDate,
		sampleJSON)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func toInts(v any) []int {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(arr))
	for _, item := range arr {
		if item == nil {
			continue
		}
		out = append(out, toInt(item))
	}
	return out
}

func toStrings(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
