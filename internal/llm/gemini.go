package llm

import (
	"context"
	"fmt"
	"strings"

	"jisang-advisory/internal/errs"
	"jisang-advisory/pkg/config"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GeminiClient owns one genai connection shared by all Gemini candidates.
type GeminiClient struct {
	client *genai.Client
	logger *zap.Logger
}

func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client, logger: logger}, nil
}

// Backend returns a chain candidate bound to one Gemini model.
func (c *GeminiClient) Backend(modelName string) Generator {
	return &geminiBackend{name: "gemini:" + modelName, client: c.client, model: modelName}
}

type geminiBackend struct {
	name   string
	client *genai.Client
	model  string
}

func (b *geminiBackend) Name() string { return b.name }

func (b *geminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	result, err := b.client.Models.GenerateContent(ctx, b.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(advisorInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.3),
	})
	if err != nil {
		return "", Classify(fmt.Errorf("gemini generate: %w", err))
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", errs.Transient(errs.CodeMalformedResponse, "blank completion from Gemini", nil)
	}
	return text, nil
}
