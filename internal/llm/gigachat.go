package llm

import (
	"context"
	"fmt"
	"strings"

	"jisang-advisory/internal/errs"
	"jisang-advisory/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

const advisorInstruction = `당신은 대한민국 부동산 금융 전문 AI 어드바이저입니다. ` +
	`제공된 자산 데이터(LTV, 채권, 권리제한)만을 근거로 답변하며, 수치를 임의로 바꾸지 않습니다. ` +
	`전문적이고 긍정적인 어조를 유지합니다.`

// GigaChatClient owns one gigago connection; individual model names become
// separate chain candidates via Backend.
type GigaChatClient struct {
	client *gigago.Client
	logger *zap.Logger
}

func NewGigaChatClient(ctx context.Context, cfg *config.GigaChatConfig, logger *zap.Logger) (*GigaChatClient, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	return &GigaChatClient{client: client, logger: logger}, nil
}

// Backend returns a chain candidate bound to one GigaChat model.
func (c *GigaChatClient) Backend(modelName string) Generator {
	model := c.client.GenerativeModel(modelName)
	model.SystemInstruction = advisorInstruction
	model.Temperature = 0.3
	return &gigaChatBackend{name: "gigachat:" + modelName, model: model}
}

func (c *GigaChatClient) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}

type gigaChatBackend struct {
	name  string
	model *gigago.GenerativeModel
}

func (b *gigaChatBackend) Name() string { return b.name }

func (b *gigaChatBackend) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := b.model.Generate(ctx, messages)
	if err != nil {
		return "", Classify(fmt.Errorf("gigachat generate: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", errs.Transient(errs.CodeMalformedResponse, "empty choice list from GigaChat", nil)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errs.Transient(errs.CodeMalformedResponse, "blank completion from GigaChat", nil)
	}
	return text, nil
}
