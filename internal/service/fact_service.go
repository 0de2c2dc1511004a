package service

import (
	"math"
	"time"

	"jisang-advisory/internal/errs"
	"jisang-advisory/internal/models"

	"go.uber.org/zap"
)

// loanDateLayout is the registry date format of incoming loan records.
const loanDateLayout = "2006.01.02"

// refinanceSeasoningMonths is the minimum loan age for rate renegotiation.
const refinanceSeasoningMonths = 24

// rateGaps is the assumed spread between a loan's current category and its
// refinanced alternative, as a fraction of principal per year.
var rateGaps = map[models.LoanCategory]float64{
	models.CategoryBankTier:            0.015,
	models.CategoryNonBankHighInterest: 0.12,
}

// FactService computes the audited financial facts of an asset. All
// computations are deterministic and side-effect free.
type FactService struct {
	logger *zap.Logger
}

func NewFactService(logger *zap.Logger) *FactService {
	return &FactService{logger: logger}
}

// ParseLoanDate parses a registry "YYYY.MM.DD" date string.
func ParseLoanDate(s string) (time.Time, error) {
	t, err := time.Parse(loanDateLayout, s)
	if err != nil {
		return time.Time{}, errs.InvalidInput("invalid loan origination date %q", s)
	}
	return t, nil
}

// MonthsElapsed counts whole calendar months between two dates. The day of
// month is ignored: a loan dated the 31st and one dated the 1st of the same
// month are the same age.
func MonthsElapsed(origination, reference time.Time) int {
	years := reference.Year() - origination.Year()
	months := int(reference.Month()) - int(origination.Month())
	return years*12 + months
}

// IsRefinanceTarget reports whether a loan qualifies for refinancing:
// seasoned at least 24 calendar months, or any high-interest non-bank loan
// regardless of age.
func IsRefinanceTarget(loan models.Loan, reference time.Time) (bool, error) {
	if loan.Category == models.CategoryNonBankHighInterest {
		return true, nil
	}
	origination, err := ParseLoanDate(loan.OriginationDate)
	if err != nil {
		return false, err
	}
	return MonthsElapsed(origination, reference) >= refinanceSeasoningMonths, nil
}

// RateGap returns the refinancing spread for a loan category.
func RateGap(category models.LoanCategory) (float64, error) {
	gap, ok := rateGaps[category]
	if !ok {
		return 0, errs.InvalidInput("unknown loan category %q", category)
	}
	return gap, nil
}

// ComputeLTV returns total principal over market price as a percentage,
// rounded to 2 decimals.
func ComputeLTV(totalPrincipal, marketPrice float64) (float64, error) {
	if marketPrice <= 0 {
		return 0, errs.InvalidInput("market price must be positive, got %.2f", marketPrice)
	}
	return math.Round(totalPrincipal/marketPrice*100*100) / 100, nil
}

// ComputeRiskScore applies the restriction and leverage penalties, clamped
// to [0, 100].
func ComputeRiskScore(restrictionCount int, ltvRatio float64) int {
	score := 100 - 15*restrictionCount
	if ltvRatio > 80 {
		score -= 20
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// BuildFactRecord is the engine's single entry point: it validates the raw
// records and derives every fact field for the given reference date.
func (s *FactService) BuildFactRecord(
	asset models.Asset,
	loans []models.Loan,
	restrictions []string,
	reference time.Time,
) (*models.FactRecord, error) {
	if asset.MarketPrice <= 0 {
		return nil, errs.InvalidInput("market price must be positive, got %.2f", asset.MarketPrice)
	}

	var (
		total   float64
		saved   float64
		targets []models.Loan
	)

	for _, loan := range loans {
		if loan.Principal <= 0 {
			return nil, errs.InvalidInput("loan principal must be positive, got %.2f (%s)", loan.Principal, loan.Lender)
		}
		gap, err := RateGap(loan.Category)
		if err != nil {
			return nil, err
		}
		// Date validity is checked for every loan, even ones that qualify
		// by category alone.
		origination, err := ParseLoanDate(loan.OriginationDate)
		if err != nil {
			return nil, err
		}

		total += loan.Principal

		if loan.Category == models.CategoryNonBankHighInterest ||
			MonthsElapsed(origination, reference) >= refinanceSeasoningMonths {
			targets = append(targets, loan)
			saved += loan.Principal * gap
		}
	}

	ltv, err := ComputeLTV(total, asset.MarketPrice)
	if err != nil {
		return nil, err
	}

	record := &models.FactRecord{
		Address:               asset.Address,
		TotalPrincipal:        total,
		LTVRatio:              ltv,
		RefinanceTargets:      targets,
		EstimatedAnnualSaving: int64(saved),
		RiskScore:             ComputeRiskScore(len(restrictions), ltv),
		Restrictions:          restrictions,
	}

	s.logger.Debug("fact record built",
		zap.String("address", asset.Address),
		zap.Float64("ltv", record.LTVRatio),
		zap.Int("refinance_targets", len(targets)),
		zap.Int64("estimated_annual_saving", record.EstimatedAnnualSaving),
		zap.Int("risk_score", record.RiskScore),
	)

	return record, nil
}
