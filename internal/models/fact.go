package models

// FactRecord holds the audited financial facts for one asset. It is a pure
// function of (asset, loans, restrictions, reference date): recomputed on
// every request and never persisted.
type FactRecord struct {
	Address               string   `json:"address"`
	TotalPrincipal        float64  `json:"total_principal"`
	LTVRatio              float64  `json:"ltv_ratio"`
	RefinanceTargets      []Loan   `json:"refinance_targets"`
	EstimatedAnnualSaving int64    `json:"estimated_annual_saving"`
	RiskScore             int      `json:"risk_score"`
	Restrictions          []string `json:"restrictions"`
}
