package llm

import (
	"fmt"
	"strings"

	"jisang-advisory/internal/models"
)

// FallbackNarrative synthesizes a report directly from audited facts.
// Same facts, same text: the offline path stays deterministic.
func FallbackNarrative(f *models.FactRecord) string {
	tier := "안정"
	if f.LTVRatio > 70 {
		tier = "고위험"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### 시스템 진단 (%s 단계)\n", tier)
	fmt.Fprintf(&b, "* **정밀 분석**: 현재 LTV %.2f%%로 %s군에 속하며, 총 채권액은 %.0f원입니다.\n",
		f.LTVRatio, tier, f.TotalPrincipal)

	if len(f.Restrictions) > 0 {
		fmt.Fprintf(&b, "* **권리 하자**: %s 등 %d건이 확인되어 일반 거래 및 신규 대출이 제한될 수 있습니다.\n",
			strings.Join(f.Restrictions, ", "), len(f.Restrictions))
	} else {
		b.WriteString("* **권리 분석**: 등기상 권리제한이 확인되지 않았습니다.\n")
	}

	fmt.Fprintf(&b, "* **대환 기회**: 대상 채권 %d건 정리 시 연간 약 %d원(약 %.0f만 원)의 이자 절감이 가능합니다.\n",
		len(f.RefinanceTargets), f.EstimatedAnnualSaving, float64(f.EstimatedAnnualSaving)/10000)
	fmt.Fprintf(&b, "* **종합 점수**: %d점/100점.\n", f.RiskScore)
	b.WriteString("* **전문가 제언**: 통합 대환 및 권리제한 말소 검토를 권장합니다. 즉시 실행 단계로 넘어가십시오.")

	return b.String()
}
