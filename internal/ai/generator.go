package ai

import (
	"context"
	"fmt"
	"strings"

	"mockview_backend/internal/config"
	"mockview_backend/internal/util"
)

// Generator 大模型文本生成抽象，GenerateJSON 要求模型只返回 JSON
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string) (string, error)
	Model() string
}

// NewGenerator 根据配置选择模型供应商；未配置密钥时返回 Disabled，所有调用走本地兜底
func NewGenerator(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" || provider == "none" || strings.TrimSpace(cfg.APIKey) == "" {
		return Disabled{}, nil
	}

	switch provider {
	case "gemini":
		return NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// Disabled 未配置大模型时使用
type Disabled struct{}

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", util.ErrAIUnavailable
}

func (Disabled) GenerateJSON(context.Context, string) (string, error) {
	return "", util.ErrAIUnavailable
}

func (Disabled) Model() string {
	return "none"
}
