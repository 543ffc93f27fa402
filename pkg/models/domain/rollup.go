package domain

import "time"

// RollupStatus describes one materialized rollup collection as seen by the
// admin surface.
type RollupStatus struct {
	Name          string
	Description   string
	DocumentCount int64
	LastUpdated   *time.Time
	SampleQueries []string
	BuildError    string
}

// BuildReport is the outcome of a batch rollup rebuild. The builder never
// aborts the batch on an individual failure.
type BuildReport struct {
	Succeeded []string
	Failed    map[string]error
}

// SuccessCount returns how many rollups were rebuilt.
func (r BuildReport) SuccessCount() int {
	return len(r.Succeeded)
}
