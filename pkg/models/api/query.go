package api

// AggregateRequest is the body of POST /api/v1/aggregate/execute.
type AggregateRequest struct {
	Command    string `json:"command"`
	Collection string `json:"collection,omitempty"`
	Limit      *int   `json:"limit,omitempty"`
}

// AggregateResponse mirrors the original query API contract field for field.
type AggregateResponse struct {
	Success               bool             `json:"success"`
	OriginalCommand       string           `json:"original_command,omitempty"`
	TranslatedCommand     string           `json:"translated_command,omitempty"`
	GeneratedPipeline     any              `json:"generated_pipeline,omitempty"`
	Results               []map[string]any `json:"results,omitempty"`
	Description           string           `json:"description,omitempty"`
	TotalResults          int              `json:"total_results"`
	ExecutionTime         float64          `json:"execution_time"`
	CollectionUsed        string           `json:"collection_used,omitempty"`
	DocumentsInCollection int64            `json:"documents_in_collection"`
	AlternativeUsed       bool             `json:"alternative_used"`
	Explanation           string           `json:"explanation,omitempty"`
	Error                 string           `json:"error,omitempty"`
}

// ErrorResponse is the structured failure body shared by all endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
