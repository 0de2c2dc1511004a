package models

// ScoreRecord maps the fixed valuation dimensions to integers in [0, 100].
type ScoreRecord struct {
	Location      int `json:"location"`
	Demand        int `json:"demand"`
	Profitability int `json:"profitability"`
	Stability     int `json:"stability"`
	Aggregate     int `json:"aggregate"`
}

// AdvisoryResponse is the narrative report produced once per request.
// Engine names the backend that wrote the narrative, or "standard-fallback"
// when every backend was exhausted.
type AdvisoryResponse struct {
	Narrative string      `json:"narrative"`
	Scores    ScoreRecord `json:"scores"`
	Engine    string      `json:"engine"`
}
