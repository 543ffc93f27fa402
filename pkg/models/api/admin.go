package api

// RollupInfo is one rollup entry in the admin listing.
type RollupInfo struct {
	Description   string   `json:"description"`
	DocumentCount int64    `json:"document_count"`
	LastUpdated   string   `json:"last_updated,omitempty"`
	SampleQueries []string `json:"sample_queries,omitempty"`
	Error         string   `json:"error,omitempty"`
}

// RollupListResponse is the body of GET /api/v1/aggregate/collections.
type RollupListResponse struct {
	Success          bool                  `json:"success"`
	Rollups          map[string]RollupInfo `json:"optimized_collections"`
	TotalCollections int                   `json:"total_collections"`
}

// RebuildResponse is the body of the rebuild endpoints.
type RebuildResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	SuccessCount int      `json:"success_count"`
	Failed       []string `json:"failed,omitempty"`
}

// PipelineListResponse is the body of GET /api/v1/aggregate/pipelines.
type PipelineListResponse struct {
	Success              bool              `json:"success"`
	AvailablePipelines   []string          `json:"available_pipelines"`
	PipelineDescriptions map[string]string `json:"pipeline_descriptions"`
}

// PipelineRunResponse is the body of POST /api/v1/aggregate/pipelines/{name}.
type PipelineRunResponse struct {
	Success      bool             `json:"success"`
	PipelineName string           `json:"pipeline_name"`
	Results      []map[string]any `json:"results"`
	TotalResults int              `json:"total_results"`
	Error        string           `json:"error,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string          `json:"status"`
	Services map[string]bool `json:"services"`
}
