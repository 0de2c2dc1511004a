package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"jisang-advisory/internal/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type countingInferrer struct {
	calls   int
	prompts []string
	reply   string
	engine  string
}

func (c *countingInferrer) Infer(ctx context.Context, prompt string, facts *models.FactRecord) (string, string) {
	c.calls++
	c.prompts = append(c.prompts, prompt)
	return c.reply, c.engine
}

func chatFacts() *models.FactRecord {
	return &models.FactRecord{
		Address:        "김포시 통진읍 도사리 163-1",
		TotalPrincipal: 600000000,
		LTVRatio:       70.59,
		RefinanceTargets: []models.Loan{
			{Lender: "국민은행"}, {Lender: "러시앤캐시"},
		},
		EstimatedAnnualSaving: 30000000,
		RiskScore:             70,
		Restrictions:          []string{"신탁등기", "압류"},
	}
}

func newChatFixture() (*ChatService, *countingInferrer, *SessionService) {
	inferrer := &countingInferrer{reply: "AI 위임 응답입니다. 전문가 상담을 예약해 드릴까요?", engine: "gigachat:GigaChat"}
	sessions := NewSessionService()
	return NewChatService(inferrer, sessions, zap.NewNop()), inferrer, sessions
}

func TestClassifyIntent(t *testing.T) {
	tests := []struct {
		utterance string
		want      Intent
	}{
		{"뭘 할 수 있어?", IntentHelp},
		{"이자를 얼마나 아낄 수 있어?", IntentFinance},
		{"대출 금리는 얼마까지 낮출 수 있어?", IntentFinance},
		{"양도세 줄일 방법 있을까", IntentTax},
		{"여기 건축 인허가 가능해?", IntentDevelopment},
		{"압류 걸려있는데 괜찮아?", IntentRisk},
		{"오늘 날씨 어때", IntentUnknown},
		{"", IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyIntent(tt.utterance))
		})
	}
}

func TestClassifyIntentIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, IntentHelp, ClassifyIntent("HELP me"))
	assert.Equal(t, IntentFinance, ClassifyIntent("SAVING plan?"))
}

func TestClassifyIntentOrderingHelpBeforeFinance(t *testing.T) {
	// Hits both rule sets; the earlier rule must win.
	assert.Equal(t, IntentHelp, ClassifyIntent("대출 관련해서 도움말 좀"))
}

func TestConverseFinanceAnswersLocallyWithExactSaving(t *testing.T) {
	chat, inferrer, sessions := newChatFixture()
	id := sessions.Open("김포시 통진읍 도사리 163-1")

	reply, intent := chat.Converse(context.Background(), id, "이자 절감 얼마나 돼?", chatFacts())

	assert.Equal(t, IntentFinance, intent)
	assert.Contains(t, reply, "30000000")
	assert.Contains(t, reply, "70.59")
	assert.Equal(t, 0, inferrer.calls)
}

func TestConverseLocalIntentsNeverDelegate(t *testing.T) {
	tests := []struct {
		utterance string
		intent    Intent
		fragment  string
	}{
		{"도움말", IntentHelp, "김포시 통진읍 도사리 163-1"},
		{"대환 진행 가능?", IntentFinance, "연간 약 30000000원"},
		{"절세 방법은?", IntentTax, "70점"},
		{"개발 여력 있어?", IntentDevelopment, "70.59"},
		{"권리 문제 없어?", IntentRisk, "신탁등기, 압류"},
	}

	for _, tt := range tests {
		t.Run(string(tt.intent), func(t *testing.T) {
			chat, inferrer, sessions := newChatFixture()
			id := sessions.Open("김포시 통진읍 도사리 163-1")

			reply, intent := chat.Converse(context.Background(), id, tt.utterance, chatFacts())

			assert.Equal(t, tt.intent, intent)
			assert.Contains(t, reply, tt.fragment)
			assert.Equal(t, 0, inferrer.calls)
		})
	}
}

func TestConverseUnknownDelegatesOnce(t *testing.T) {
	chat, inferrer, sessions := newChatFixture()
	id := sessions.Open("김포시 통진읍 도사리 163-1")

	reply, intent := chat.Converse(context.Background(), id, "이 동네 전망 어때?", chatFacts())

	assert.Equal(t, IntentUnknown, intent)
	assert.Equal(t, inferrer.reply, reply)
	assert.Equal(t, 1, inferrer.calls)
}

func TestConverseDelegationPromptCarriesFactsAndHistory(t *testing.T) {
	chat, inferrer, sessions := newChatFixture()
	id := sessions.Open("김포시 통진읍 도사리 163-1")

	chat.Converse(context.Background(), id, "대환 돼?", chatFacts())
	chat.Converse(context.Background(), id, "이 동네 전망 어때?", chatFacts())

	assert.Equal(t, 1, inferrer.calls)
	prompt := inferrer.prompts[0]
	assert.Contains(t, prompt, "LTV: 70.59%")
	assert.Contains(t, prompt, "연간 30000000원")
	assert.Contains(t, prompt, "[최근 대화]")
	// History in the prompt stops before the current utterance.
	assert.Contains(t, prompt, "대환 돼?")
	assert.Equal(t, 1, strings.Count(prompt, "이 동네 전망 어때?"))
}

func TestConverseAppendsBothTurns(t *testing.T) {
	chat, _, sessions := newChatFixture()
	id := sessions.Open("김포시 통진읍 도사리 163-1")

	chat.Converse(context.Background(), id, "금리 낮출 수 있어?", chatFacts())

	history := sessions.History(id)
	assert.Len(t, history, 3) // greeting + user + assistant
	assert.Equal(t, models.RoleUser, history[1].Role)
	assert.Equal(t, "금리 낮출 수 있어?", history[1].Content)
	assert.Equal(t, models.RoleAssistant, history[2].Role)
}

func TestConverseRecentHistoryIsBounded(t *testing.T) {
	chat, inferrer, sessions := newChatFixture()
	id := sessions.Open("김포시 통진읍 도사리 163-1")

	for i := 0; i < 10; i++ {
		chat.Converse(context.Background(), id, fmt.Sprintf("대출 문의 %d", i), chatFacts())
	}
	chat.Converse(context.Background(), id, "그래서 어떻게 생각해?", chatFacts())

	assert.Equal(t, 1, inferrer.calls)
	prompt := inferrer.prompts[0]
	assert.NotContains(t, prompt, "대출 문의 0")
	assert.Contains(t, prompt, "대출 문의 9")
}
