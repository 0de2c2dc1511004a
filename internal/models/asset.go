package models

// LoanCategory classifies the lender tier a loan was originated in.
type LoanCategory string

const (
	CategoryBankTier            LoanCategory = "bank-tier"
	CategoryNonBankHighInterest LoanCategory = "non-bank-high-interest"
)

// Asset is a single real-estate property under analysis. Immutable per request.
type Asset struct {
	Address     string  `json:"address"`
	MarketPrice float64 `json:"market_price"`
}

// Loan is one registered debt against an asset. OriginationDate uses the
// registry format "YYYY.MM.DD".
type Loan struct {
	Lender          string       `json:"lender"`
	OriginationDate string       `json:"origination_date"`
	Principal       float64      `json:"principal"`
	Category        LoanCategory `json:"category"`
}
