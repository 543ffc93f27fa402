package domain

// DataProfile summarizes what a collection actually contains. The recovery
// engine computes one before proposing an alternative pipeline, so the
// generation collaborator only ever suggests dimensions that exist.
type DataProfile struct {
	TotalDocuments int
	Locations      []string
	Months         []int
	Years          []int
	Categories     []string
	PaymentMethods []string
	EarliestDate   string
	LatestDate     string
	Sample         []map[string]any
}
