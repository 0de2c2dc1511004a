package dto

import "jisang-advisory/internal/models"

type LoanRequest struct {
	Lender          string  `json:"lender"`
	OriginationDate string  `json:"origination_date"`
	Principal       float64 `json:"principal"`
	Category        string  `json:"category"`
}

type AdvisoryRequest struct {
	Address      string        `json:"address"`
	MarketPrice  float64       `json:"market_price"`
	Loans        []LoanRequest `json:"loans"`
	Restrictions []string      `json:"restrictions"`
	Mode         string        `json:"mode"`
}

type AdvisoryResponse struct {
	Facts     *models.FactRecord `json:"facts"`
	Narrative string             `json:"narrative"`
	Scores    models.ScoreRecord `json:"scores"`
	Engine    string             `json:"engine"`
}

type FactsResponse struct {
	Facts *models.FactRecord `json:"facts"`
}

func (r *AdvisoryRequest) Asset() models.Asset {
	return models.Asset{
		Address:     r.Address,
		MarketPrice: r.MarketPrice,
	}
}

func (r *AdvisoryRequest) LoanModels() []models.Loan {
	loans := make([]models.Loan, 0, len(r.Loans))
	for _, l := range r.Loans {
		loans = append(loans, models.Loan{
			Lender:          l.Lender,
			OriginationDate: l.OriginationDate,
			Principal:       l.Principal,
			Category:        models.LoanCategory(l.Category),
		})
	}
	return loans
}
