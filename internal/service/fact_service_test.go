package service

import (
	"testing"
	"time"

	"jisang-advisory/internal/errs"
	"jisang-advisory/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testReference = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestMonthsElapsed(t *testing.T) {
	tests := []struct {
		name        string
		origination time.Time
		reference   time.Time
		want        int
	}{
		{
			name:        "same month",
			origination: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			reference:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			want:        0,
		},
		{
			name:        "exactly two years",
			origination: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			reference:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			want:        24,
		},
		{
			name:        "day of month is ignored",
			origination: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
			reference:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			want:        24,
		},
		{
			name:        "month borrow across year",
			origination: time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC),
			reference:   time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC),
			want:        15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsElapsed(tt.origination, tt.reference))
		})
	}
}

func TestParseLoanDate(t *testing.T) {
	got, err := ParseLoanDate("2018.06.20")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 6, 20, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseLoanDate("2018-06-20")
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))

	_, err = ParseLoanDate("2018.13.40")
	assert.True(t, errs.IsInvalidInput(err))
}

func TestIsRefinanceTarget(t *testing.T) {
	tests := []struct {
		name string
		loan models.Loan
		want bool
	}{
		{
			name: "bank loan at exactly 24 months qualifies",
			loan: models.Loan{OriginationDate: "2024.03.01", Category: models.CategoryBankTier},
			want: true,
		},
		{
			name: "bank loan at 23 months does not qualify",
			loan: models.Loan{OriginationDate: "2024.04.01", Category: models.CategoryBankTier},
			want: false,
		},
		{
			name: "fresh high-interest loan qualifies immediately",
			loan: models.Loan{OriginationDate: "2026.03.01", Category: models.CategoryNonBankHighInterest},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsRefinanceTarget(tt.loan, testReference)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRateGap(t *testing.T) {
	gap, err := RateGap(models.CategoryBankTier)
	require.NoError(t, err)
	assert.Equal(t, 0.015, gap)

	gap, err = RateGap(models.CategoryNonBankHighInterest)
	require.NoError(t, err)
	assert.Equal(t, 0.12, gap)

	_, err = RateGap(models.LoanCategory("crypto"))
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestComputeLTV(t *testing.T) {
	ltv, err := ComputeLTV(0, 800000000)
	require.NoError(t, err)
	assert.Equal(t, 0.00, ltv)

	ltv, err = ComputeLTV(600000000, 850000000)
	require.NoError(t, err)
	assert.Equal(t, 70.59, ltv)

	_, err = ComputeLTV(1, 0)
	require.Error(t, err)
	assert.True(t, errs.IsInvalidInput(err))

	_, err = ComputeLTV(1, -100)
	assert.True(t, errs.IsInvalidInput(err))
}

func TestComputeRiskScoreBounds(t *testing.T) {
	for restrictions := 0; restrictions <= 10; restrictions++ {
		for _, ltv := range []float64{0, 50, 80, 80.01, 200, 500} {
			score := ComputeRiskScore(restrictions, ltv)
			assert.GreaterOrEqual(t, score, 0)
			assert.LessOrEqual(t, score, 100)
		}
	}

	assert.Equal(t, 100, ComputeRiskScore(0, 50))
	assert.Equal(t, 80, ComputeRiskScore(0, 81))
	assert.Equal(t, 70, ComputeRiskScore(2, 70.59))
	assert.Equal(t, 0, ComputeRiskScore(10, 500))
}

func TestBuildFactRecordScenario(t *testing.T) {
	svc := NewFactService(zap.NewNop())

	asset := models.Asset{Address: "김포시 통진읍 도사리 163-1", MarketPrice: 850000000}
	loans := []models.Loan{
		{Lender: "국민은행", OriginationDate: "2018.06.20", Principal: 400000000, Category: models.CategoryBankTier},
		{Lender: "러시앤캐시", OriginationDate: "2024.01.10", Principal: 200000000, Category: models.CategoryNonBankHighInterest},
	}
	restrictions := []string{"신탁등기", "압류"}

	record, err := svc.BuildFactRecord(asset, loans, restrictions, testReference)
	require.NoError(t, err)

	assert.Equal(t, 600000000.0, record.TotalPrincipal)
	assert.Equal(t, 70.59, record.LTVRatio)
	assert.Len(t, record.RefinanceTargets, 2)
	assert.Equal(t, int64(30000000), record.EstimatedAnnualSaving)
	assert.Equal(t, 70, record.RiskScore)
}

func TestBuildFactRecordValidation(t *testing.T) {
	svc := NewFactService(zap.NewNop())
	asset := models.Asset{Address: "서울시 강남구 역삼동 825-1", MarketPrice: 500000000}

	tests := []struct {
		name  string
		asset models.Asset
		loans []models.Loan
	}{
		{
			name:  "non-positive market price",
			asset: models.Asset{Address: "x", MarketPrice: 0},
		},
		{
			name:  "non-positive principal",
			asset: asset,
			loans: []models.Loan{{OriginationDate: "2020.01.01", Principal: 0, Category: models.CategoryBankTier}},
		},
		{
			name:  "unknown category",
			asset: asset,
			loans: []models.Loan{{OriginationDate: "2020.01.01", Principal: 1000, Category: "margin-call"}},
		},
		{
			name:  "malformed date",
			asset: asset,
			loans: []models.Loan{{OriginationDate: "01/02/2020", Principal: 1000, Category: models.CategoryBankTier}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BuildFactRecord(tt.asset, tt.loans, nil, testReference)
			require.Error(t, err)
			assert.True(t, errs.IsInvalidInput(err))
		})
	}
}

func TestEstimatedAnnualSavingMonotonic(t *testing.T) {
	svc := NewFactService(zap.NewNop())
	asset := models.Asset{Address: "부산시 해운대구 우동 1408", MarketPrice: 2000000000}

	var loans []models.Loan
	var previous int64
	for i := 0; i < 5; i++ {
		loans = append(loans, models.Loan{
			Lender:          "저축은행",
			OriginationDate: "2025.06.01",
			Principal:       100000000,
			Category:        models.CategoryNonBankHighInterest,
		})
		record, err := svc.BuildFactRecord(asset, loans, nil, testReference)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, record.EstimatedAnnualSaving, previous)
		previous = record.EstimatedAnnualSaving
	}
}

func TestBuildFactRecordDeterministic(t *testing.T) {
	svc := NewFactService(zap.NewNop())
	asset := models.Asset{Address: "서울시 강남구 역삼동 825-1", MarketPrice: 850000000}
	loans := []models.Loan{
		{Lender: "국민은행", OriginationDate: "2018.06.20", Principal: 400000000, Category: models.CategoryBankTier},
	}

	first, err := svc.BuildFactRecord(asset, loans, []string{"압류"}, testReference)
	require.NoError(t, err)
	second, err := svc.BuildFactRecord(asset, loans, []string{"압류"}, testReference)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
