package schema

// RawCollection is the transactional source every rollup is built from.
const RawCollection = "transaction_sales"

// Derived temporal fields maintained on the raw collection.
const (
	FieldMonth = "month"
	FieldYear  = "year"
)

// Catalog describes the queryable shape of one collection: what it is for,
// which fields exist, and a few example questions it answers well. Prompts
// are built from catalogs, and generated pipelines are validated against
// them.
type Catalog struct {
	Collection    string            `json:"collection_name"`
	Description   string            `json:"description"`
	Fields        map[string]string `json:"fields"` // field name -> description
	SampleQueries []string          `json:"sample_queries,omitempty"`
}

// HasField reports whether the catalog knows the given field. Dotted paths
// are matched on their first segment so nested breakdown fields validate.
func (c Catalog) HasField(name string) bool {
	if _, ok := c.Fields[name]; ok {
		return true
	}
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			_, ok := c.Fields[name[:i]]
			return ok
		}
	}
	return false
}

var rawCatalog = Catalog{
	Collection:  RawCollection,
	Description: "Raw sales line items, one document per transaction line",
	Fields: map[string]string{
		"Location Name":         "store location",
		"Sales Date":            "transaction date, native date or DD/MM/YYYY string",
		"Sales Time":            "transaction time, HH:MM:SS string",
		"Product Name":          "product sold",
		"Product Category Name": "product category",
		"Product qty":           "quantity sold",
		"Price":                 "unit price",
		"Gross Sales":           "gross line amount, may be a locale-formatted string",
		"Total":                 "net line amount, may be a locale-formatted string",
		"Payment Method":        "payment method",
		"Customer Phone No":     "customer phone, may be absent",
		FieldMonth:              "derived month number from Sales Date",
		FieldYear:               "derived year number from Sales Date",
	},
	SampleQueries: []string{
		"sales by location for June",
		"total sales per payment method in 2024",
	},
}

var rollupCatalogs = map[string]Catalog{
	"sales_by_location": {
		Collection:  "sales_by_location",
		Description: "Pre-aggregated sales per store location",
		Fields: map[string]string{
			"location_name":       "store location",
			"total_sales":         "sum of Total across all transactions",
			"total_transactions":  "number of transactions",
			"average_transaction": "total_sales / total_transactions",
			"first_sale_date":     "earliest sale at the location",
			"last_sale_date":      "latest sale at the location",
			"active_months":       "set of months with sales",
			"active_years":        "set of years with sales",
			"last_updated":        "rollup build timestamp",
		},
		SampleQueries: []string{"which location sells the most", "sales per store"},
	},
	"sales_by_month": {
		Collection:  "sales_by_month",
		Description: "Pre-aggregated sales per calendar month",
		Fields: map[string]string{
			"year":                "calendar year",
			"month":               "calendar month number",
			"month_name":          "English month name",
			"period":              "sortable YYYY-1MM period key",
			"total_sales":         "sum of Total in the month",
			"total_transactions":  "number of transactions",
			"average_daily_sales": "total_sales / 30",
			"locations_active":    "set of locations with sales",
			"top_location":        "first active location",
			"last_updated":        "rollup build timestamp",
		},
		SampleQueries: []string{"monthly sales trend", "which month was strongest"},
	},
	"sales_by_location_month": {
		Collection:  "sales_by_location_month",
		Description: "Pre-aggregated sales per location per month",
		Fields: map[string]string{
			"location_name":       "store location",
			"year":                "calendar year",
			"month":               "calendar month number",
			"period":              "YYYY-M period key",
			"location_period":     "location_YYYY-M composite key",
			"total_sales":         "sum of Total",
			"total_transactions":  "number of transactions",
			"average_transaction": "total_sales / total_transactions",
			"unique_customers":    "distinct customer phone numbers",
			"payment_methods":     "set of payment methods used",
			"product_categories":  "set of categories sold",
			"days_active":         "distinct sale dates in the month",
			"last_updated":        "rollup build timestamp",
		},
		SampleQueries: []string{"sales per location for June", "store performance by month"},
	},
	"sales_by_product": {
		Collection:  "sales_by_product",
		Description: "Pre-aggregated revenue per product and category",
		Fields: map[string]string{
			"product_name":             "product",
			"product_category":         "category",
			"total_quantity_sold":      "units sold",
			"total_revenue":            "sum of Gross Sales",
			"total_transactions":       "number of transactions",
			"average_price":            "mean unit price",
			"locations_sold":           "set of locations selling the product",
			"months_active":            "set of months with sales",
			"years_active":             "set of years with sales",
			"best_performing_location": "first selling location",
			"last_sale_date":           "latest sale of the product",
			"last_updated":             "rollup build timestamp",
		},
		SampleQueries: []string{"top selling products", "revenue per category"},
	},
	"sales_by_payment_method": {
		Collection:  "sales_by_payment_method",
		Description: "Pre-aggregated sales per payment method",
		Fields: map[string]string{
			"payment_method":      "payment method",
			"total_sales":         "sum of Total",
			"total_transactions":  "number of transactions",
			"average_transaction": "total_sales / total_transactions",
			"locations_used":      "set of locations using the method",
			"months_active":       "set of months with usage",
			"years_active":        "set of years with usage",
			"peak_usage_month":    "latest active month",
			"last_used_date":      "latest sale with the method",
			"last_updated":        "rollup build timestamp",
		},
		SampleQueries: []string{"cash versus card sales", "payment method comparison"},
	},
	"sales_summary_nested": {
		Collection:  "sales_summary_nested",
		Description: "Per-location summary with a nested monthly breakdown",
		Fields: map[string]string{
			"location_name":       "store location",
			"total_sales":         "sum of Total across all months",
			"total_transactions":  "number of transactions",
			"average_transaction": "total_sales / total_transactions",
			"monthly_breakdown":   "array of per-month sub-documents",
			"active_months":       "number of months with sales",
			"last_updated":        "rollup build timestamp",
		},
	},
	"product_performance_nested": {
		Collection:  "product_performance_nested",
		Description: "Per-product performance with a nested location+month breakdown",
		Fields: map[string]string{
			"product_name":          "product",
			"product_category":      "category",
			"total_revenue":         "sum of Gross Sales",
			"total_quantity":        "units sold",
			"total_transactions":    "number of transactions",
			"average_price":         "mean unit price",
			"performance_breakdown": "array of per-location-month sub-documents",
			"locations_count":       "distinct locations",
			"months_active":         "distinct periods",
			"last_updated":          "rollup build timestamp",
		},
		SampleQueries: []string{"top products from top locations"},
	},
}

// CatalogFor returns the catalog for a collection, falling back to the raw
// catalog for unknown names so prompts always have a schema to describe.
func CatalogFor(collection string) Catalog {
	if c, ok := rollupCatalogs[collection]; ok {
		return c
	}
	return rawCatalog
}

// IsRollup reports whether the collection is a precomputed rollup rather
// than the raw source.
func IsRollup(collection string) bool {
	_, ok := rollupCatalogs[collection]
	return ok
}
