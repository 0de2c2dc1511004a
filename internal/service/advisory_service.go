package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jisang-advisory/internal/models"

	"go.uber.org/zap"
)

// personaBriefs steer the report toward the requested analysis angle.
var personaBriefs = map[string]string{
	"금융 최적화": "대출 상담사 관점에서 이자 절감과 신용 회복 전략 제시",
	"세무/자산":  "세무사 관점에서 권리제한 해소 시 양도세/상속세 절세 전략 제시",
	"개발/시행":  "부동산 개발업자 관점에서 토지 규제 분석 및 PF 가능성 제시",
	"중개/매매":  "공인중개사 관점에서 매물 적정가 및 거래 리스크 제시",
}

// AdvisoryService runs the report path: facts → prompt → inference →
// score extraction. The only error it can return is invalid input from the
// fact engine.
type AdvisoryService struct {
	facts        *FactService
	orchestrator Inferrer
	scores       *ScoreService
	logger       *zap.Logger
}

func NewAdvisoryService(facts *FactService, orchestrator Inferrer, scores *ScoreService, logger *zap.Logger) *AdvisoryService {
	return &AdvisoryService{
		facts:        facts,
		orchestrator: orchestrator,
		scores:       scores,
		logger:       logger,
	}
}

// Facts computes the FactRecord alone, for callers that render metrics
// without a narrative.
func (s *AdvisoryService) Facts(asset models.Asset, loans []models.Loan, restrictions []string) (*models.FactRecord, error) {
	return s.facts.BuildFactRecord(asset, loans, restrictions, time.Now())
}

// Analyze produces the full advisory report for one asset.
func (s *AdvisoryService) Analyze(
	ctx context.Context,
	asset models.Asset,
	loans []models.Loan,
	restrictions []string,
	mode string,
) (*models.FactRecord, *models.AdvisoryResponse, error) {
	record, err := s.facts.BuildFactRecord(asset, loans, restrictions, time.Now())
	if err != nil {
		return nil, nil, err
	}

	prompt := buildReportPrompt(record, mode)
	narrative, engine := s.orchestrator.Infer(ctx, prompt, record)
	scores := s.scores.Extract(narrative, record)

	s.logger.Info("advisory report produced",
		zap.String("address", asset.Address),
		zap.String("engine", engine),
		zap.Int("aggregate_score", scores.Aggregate),
	)

	return record, &models.AdvisoryResponse{
		// Models occasionally emit broken byte sequences; strip them so the
		// narrative always encodes as valid JSON.
		Narrative: strings.ToValidUTF8(narrative, ""),
		Scores:    scores,
		Engine:    engine,
	}, nil
}

func buildReportPrompt(f *models.FactRecord, mode string) string {
	brief, ok := personaBriefs[mode]
	if !ok {
		mode = "종합"
		brief = "종합 분석"
	}

	var b strings.Builder
	b.WriteString("당신은 대한민국 최고의 부동산 전문가입니다.\n")
	fmt.Fprintf(&b, "관점: %s\n", brief)
	fmt.Fprintf(&b, "대상: %s, LTV %.2f%%, 권리하자 %d건(%s).\n",
		f.Address, f.LTVRatio, len(f.Restrictions), joinOrNone(f.Restrictions))
	fmt.Fprintf(&b, "기회: 대환 시 연 %.0f만 원 절감.\n\n", float64(f.EstimatedAnnualSaving)/10000)
	b.WriteString("[출력 양식 (Markdown)]\n")
	b.WriteString("### 1. 🔍 핵심 진단\n")
	fmt.Fprintf(&b, "### 2. 🚀 솔루션 (%s 특화)\n", mode)
	b.WriteString("### 3. 💰 기대 가치\n")
	b.WriteString("(명확하고 전문적인 어조로 작성)\n\n")
	b.WriteString(`마지막 줄에 평가 점수를 다음 JSON 형식으로만 출력할 것: `)
	b.WriteString(`{"location": 0-100, "demand": 0-100, "profitability": 0-100, "stability": 0-100, "aggregate": 0-100}`)
	return b.String()
}
