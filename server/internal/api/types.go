package api

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	State       string `json:"state"`
	PairCount   int    `json:"pair_count"`
	AlertCount  int    `json:"alert_count"`
	HistoryRows int64  `json:"history_rows,omitempty"`
}

// ResultResponse is one impact result in GET /api/v1/results or
// GET /api/v1/results/{key}.
type ResultResponse struct {
	NodeID        string  `json:"node_id"`
	ContaminantID string  `json:"contaminant_id"`
	Kn            float64 `json:"kn"`
	MassLoad      float64 `json:"mass_load"`
	UpdatedAt     string  `json:"updated_at"` // RFC3339
}

// ReportEntry is one row of the karma report in GET /api/v1/report.
type ReportEntry struct {
	NodeID        string  `json:"node_id"`
	Waterbody     string  `json:"waterbody"`
	ContaminantID string  `json:"contaminant_id"`
	Kn            float64 `json:"kn"`
	MassLoad      float64 `json:"mass_load"`
	Unit          string  `json:"unit"`
	UnitMass      string  `json:"unit_mass"`
	Weight        float64 `json:"weight"`
	RefConc       float64 `json:"ref_conc"`
}

// ReportResponse is the payload for GET /api/v1/report.
type ReportResponse struct {
	Entries     []ReportEntry `json:"entries"`
	GeneratedAt string        `json:"generated_at"` // RFC3339
}

// HistoryEntry is one persisted result in GET /api/v1/history.
type HistoryEntry struct {
	NodeID        string  `json:"node_id"`
	ContaminantID string  `json:"contaminant_id"`
	Kn            float64 `json:"kn"`
	MassLoad      float64 `json:"mass_load"`
	ComputedAt    string  `json:"computed_at"` // RFC3339
}

// errorResponse is a generic JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}
