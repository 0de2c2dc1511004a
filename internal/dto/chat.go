package dto

type ChatRequest struct {
	SessionID    string        `json:"session_id"`
	Message      string        `json:"message"`
	Address      string        `json:"address"`
	MarketPrice  float64       `json:"market_price"`
	Loans        []LoanRequest `json:"loans"`
	Restrictions []string      `json:"restrictions"`
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Intent    string `json:"intent"`
}

func (r *ChatRequest) Advisory() *AdvisoryRequest {
	return &AdvisoryRequest{
		Address:      r.Address,
		MarketPrice:  r.MarketPrice,
		Loans:        r.Loans,
		Restrictions: r.Restrictions,
	}
}
