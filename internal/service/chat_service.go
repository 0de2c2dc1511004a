package service

import (
	"context"
	"fmt"
	"strings"

	"jisang-advisory/internal/models"

	"go.uber.org/zap"
)

// Intent is the coarse topic classification of a chat utterance.
type Intent string

const (
	IntentHelp        Intent = "help"
	IntentFinance     Intent = "finance"
	IntentTax         Intent = "tax"
	IntentDevelopment Intent = "development"
	IntentRisk        Intent = "risk"
	IntentUnknown     Intent = "unknown"
)

// recentTurnLimit bounds how much history is injected into a delegated
// prompt.
const recentTurnLimit = 6

// intentRules are tested in order; the first keyword hit wins.
var intentRules = []struct {
	intent   Intent
	keywords []string
}{
	{IntentHelp, []string{"help", "도움", "도움말", "사용법", "뭘 할", "무엇을 할"}},
	{IntentFinance, []string{"대환", "금리", "이자", "절약", "절감", "대출", "finance", "saving"}},
	{IntentTax, []string{"세금", "세무", "양도세", "상속세", "절세", "tax"}},
	{IntentDevelopment, []string{"개발", "시행", "건축", "인허가", "규제", "용도", "development"}},
	{IntentRisk, []string{"신탁", "압류", "위험", "리스크", "안전", "권리", "risk"}},
}

// Inferrer is the delegation target for utterances no rule matches.
type Inferrer interface {
	Infer(ctx context.Context, prompt string, facts *models.FactRecord) (text, engine string)
}

// ChatService is the hybrid chat engine: rule-based answers first, AI
// fallback second. Matched intents are answered verbatim from the audited
// FactRecord, so the numbers shown can never drift from the facts.
type ChatService struct {
	orchestrator Inferrer
	sessions     *SessionService
	logger       *zap.Logger
}

func NewChatService(orchestrator Inferrer, sessions *SessionService, logger *zap.Logger) *ChatService {
	return &ChatService{
		orchestrator: orchestrator,
		sessions:     sessions,
		logger:       logger,
	}
}

// ClassifyIntent returns the first matching intent for an utterance.
func ClassifyIntent(utterance string) Intent {
	normalized := strings.ToLower(utterance)
	for _, rule := range intentRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.intent
			}
		}
	}
	return IntentUnknown
}

// Converse routes one utterance: local fact-grounded answer for known
// intents, orchestrator delegation otherwise. Both turns are appended to
// the session history.
func (s *ChatService) Converse(ctx context.Context, sessionID, utterance string, facts *models.FactRecord) (string, Intent) {
	intent := ClassifyIntent(utterance)

	var reply string
	if intent == IntentUnknown {
		// Prompt carries the turns made before this utterance.
		prompt := s.buildDelegationPrompt(sessionID, utterance, facts)
		reply, _ = s.orchestrator.Infer(ctx, prompt, facts)
	} else {
		reply = s.answerLocal(intent, facts)
	}

	s.sessions.Append(sessionID, models.ConversationTurn{Role: models.RoleUser, Content: utterance})

	s.sessions.Append(sessionID, models.ConversationTurn{Role: models.RoleAssistant, Content: reply})

	s.logger.Info("chat turn routed",
		zap.String("session_id", sessionID),
		zap.String("intent", string(intent)),
		zap.Bool("delegated", intent == IntentUnknown),
	)
	return reply, intent
}

// answerLocal formats a reply purely from FactRecord fields. No backend
// call happens on this path.
func (s *ChatService) answerLocal(intent Intent, f *models.FactRecord) string {
	switch intent {
	case IntentHelp:
		return fmt.Sprintf(
			"'%s' 물건의 등기부 데이터를 기준으로 답변드립니다.\n"+
				"다음과 같은 질문에 바로 답할 수 있습니다:\n"+
				"- 대환/금리/이자 절감 (예: \"이자를 얼마나 아낄 수 있어?\")\n"+
				"- 세금/절세 전략\n"+
				"- 개발/규제 관점 분석\n"+
				"- 신탁/압류 등 권리 리스크\n"+
				"그 외 질문은 AI가 데이터를 근거로 답변해 드립니다.",
			f.Address)

	case IntentFinance:
		return fmt.Sprintf(
			"💰 **금융 최적화 분석 결과**입니다.\n\n"+
				"현재 총 채권액은 %.0f원이며, 시세 대비 LTV %.2f%% 수준입니다.\n"+
				"대환 대상 채권 %d건을 1금융권으로 전환할 경우 **연간 약 %d원**의 이자를 즉시 줄일 수 있습니다.\n"+
				"바로 진행 절차를 안내해 드릴까요?",
			f.TotalPrincipal, f.LTVRatio, len(f.RefinanceTargets), f.EstimatedAnnualSaving)

	case IntentTax:
		return fmt.Sprintf(
			"🧾 **세무 관점 진단**입니다.\n\n"+
				"현재 등기상 권리제한 %d건(%s)이 남아있는 상태로는 양도·상속 시 불이익이 발생할 수 있습니다.\n"+
				"권리제한 해소 후 처분 시점을 설계하면 절세 여지가 커집니다. 종합 점수는 %d점입니다.",
			len(f.Restrictions), joinOrNone(f.Restrictions), f.RiskScore)

	case IntentDevelopment:
		return fmt.Sprintf(
			"🏗️ **개발/시행 관점 분석**입니다.\n\n"+
				"'%s'의 현재 LTV는 %.2f%%입니다. 기존 채권 정리(연간 %d원 절감 가능)를 선행하면 "+
				"PF 등 개발 금융을 일으킬 여력이 개선됩니다.",
			f.Address, f.LTVRatio, f.EstimatedAnnualSaving)

	case IntentRisk:
		return fmt.Sprintf(
			"🚨 **권리 리스크 긴급 진단**입니다.\n\n"+
				"현재 이 물건에는 %s 등 %d건의 권리제한이 설정되어 있습니다.\n"+
				"LTV %.2f%%, 종합 점수 %d점입니다. 권리제한 말소와 채무 변제가 동시에 이루어져야 안전합니다.",
			joinOrNone(f.Restrictions), len(f.Restrictions), f.LTVRatio, f.RiskScore)

	default:
		return ""
	}
}

// buildDelegationPrompt injects the audited facts and recent turns around
// the user's free-form question.
func (s *ChatService) buildDelegationPrompt(sessionID, utterance string, f *models.FactRecord) string {
	var b strings.Builder
	b.WriteString("현재 분석 중인 물건 정보:\n")
	fmt.Fprintf(&b, "- 주소: %s\n", f.Address)
	fmt.Fprintf(&b, "- LTV: %.2f%%\n", f.LTVRatio)
	fmt.Fprintf(&b, "- 총 채권액: %.0f원\n", f.TotalPrincipal)
	fmt.Fprintf(&b, "- 권리하자: %s\n", joinOrNone(f.Restrictions))
	fmt.Fprintf(&b, "- 대환 시 예상 절감액: 연간 %d원\n", f.EstimatedAnnualSaving)

	if recent := s.sessions.Recent(sessionID, recentTurnLimit); len(recent) > 0 {
		b.WriteString("\n[최근 대화]\n")
		for _, turn := range recent {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Content)
		}
	}

	fmt.Fprintf(&b, "\n사용자 질문: %s\n\n", utterance)
	b.WriteString("지침:\n")
	b.WriteString("1. 위 데이터를 근거로 답변할 것.\n")
	b.WriteString("2. 긍정적이고 전문적인 톤 유지.\n")
	b.WriteString("3. 답변 끝에 '전문가 상담을 예약해 드릴까요?'라고 권유할 것.\n")
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "없음"
	}
	return strings.Join(items, ", ")
}
