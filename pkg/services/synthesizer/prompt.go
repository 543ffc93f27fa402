package synthesizer

import (
	"encoding/json"
	"fmt"

	"github.com/retailops/salescope/pkg/services/schema"
)

// buildPrompt constructs the generation prompt for a target collection.
// Rollup prompts insist on the precomputed field names verbatim; raw prompts
// insist on date and number parsing because the source data is heterogeneous.
func buildPrompt(command string, catalog schema.Catalog) string {
	schemaJSON, _ := json.MarshalIndent(catalog, "", "  ")

	if schema.IsRollup(catalog.Collection) {
		return fmt.Sprintf(`You are a MongoDB aggregation expert. Generate a MongoDB aggregation pipeline for a PRE-AGGREGATED collection.

Request: %q

Collection: %s (this is a pre-aggregated optimized collection)
Schema: %s

CRITICAL - this collection contains PRE-AGGREGATED data:
1. Data is already grouped and summarized
2. Use the exact field names from the schema above, verbatim
3. Do NOT re-derive sums or averages that already exist as fields

Simple pipeline examples for optimized collections:
- List everything: [{"$project": {"location_name": 1, "total_sales": 1}}, {"$sort": {"total_sales": -1}}]
- Filter by month: [{"$match": {"month": 6}}, {"$sort": {"total_sales": -1}}]
- Top performers: [{"$sort": {"total_sales": -1}}, {"$limit": 5}]

Return ONLY a valid JSON array. Keep it simple since data is already aggregated.`,
			command, catalog.Collection, schemaJSON)
	}

	return fmt.Sprintf(`You are a MongoDB aggregation expert. Generate a MongoDB aggregation pipeline based on this request:

Request: %q

Collection schema for %s:
%s

Important guidelines:
1. Return ONLY a valid JSON array for the aggregation pipeline
2. Use appropriate MongoDB operators ($group, $match, $sort, $project, etc.)
3. Handle date fields properly (Sales Date format: DD/MM/YYYY, Sales Time format: HH:MM:SS)
4. Amount fields like "Total" may be strings with comma thousands separators; strip the commas with $replaceAll before $toDouble
5. Use meaningful field names in results
6. Only add a $limit stage if specifically requested in the user query
7. For month requests like "June", filter on the integer "month" field
8. The collection has "month" and "year" integer fields extracted from Sales Date for easier filtering

Examples of good pipelines:
- Sales by location: [{"$group": {"_id": "$Location Name", "total_sales": {"$sum": {"$toDouble": {"$replaceAll": {"input": {"$toString": "$Total"}, "find": ",", "replacement": ""}}}}, "count": {"$sum": 1}}}, {"$sort": {"total_sales": -1}}]
- June sales: [{"$match": {"month": 6}}, {"$group": {"_id": "$Location Name", "total": {"$sum": {"$toDouble": {"$replaceAll": {"input": {"$toString": "$Total"}, "find": ",", "replacement": ""}}}}}}]

Return format: [pipeline_stage1, pipeline_stage2, ...]`,
		command, catalog.Collection, schemaJSON)
}
